// Package cli implements the dplace command-line interface.
//
// The commands are:
//   - improve: legalize and improve the placement of a design snapshot
//   - synth: generate a synthetic design for experiments and benchmarks
//   - dot: export the placement network as Graphviz DOT or SVG
//   - wire: decode points of a stored wire topology stream
//   - cache: manage the local result cache
//   - completion: generate shell completion scripts
//
// Settings come from a TOML config file (see [Config]) and are overridden by
// flags. All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dplace/pkg/buildinfo"
	"github.com/matzehuels/dplace/pkg/cache"
	"github.com/matzehuels/dplace/pkg/observability"
	"github.com/matzehuels/dplace/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "dplace"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the TOML file read by commands that take settings.
	// Empty selects the default location; a missing default file is not an
	// error.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the pipeline and
// cache events are logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := observability.LogHooks{Logger: c.Logger}
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "dplace legalizes and improves standard-cell placements",
		Long:         `dplace is a detailed placement tool: it shifts the cells of a placed design onto legal row sites and then reduces wirelength with local moves (independent-set matching, global and vertical swaps, reordering and random moves).`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.ConfigPath, "config", "c", "", "config file (default: "+defaultConfigPath()+")")

	root.AddCommand(c.improveCommand())
	root.AddCommand(c.synthCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.wireCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, cfg *CacheConfig) (*pipeline.Runner, error) {
	store, err := newCache(ctx, cfg, c.Logger)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, cfg.keyer(), c.Logger), nil
}

// newCache opens the backend named by cfg. A file cache that cannot be
// created degrades to no caching.
func newCache(ctx context.Context, cfg *CacheConfig, logger *log.Logger) (cache.Cache, error) {
	switch cfg.Backend {
	case cacheNone:
		return cache.NewNullCache(), nil
	case cacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{URL: cfg.RedisURL, Addr: cfg.RedisAddr})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return rc, nil
	}
	fc, err := cache.NewFileCache(cfg.dir())
	if err != nil {
		logger.Warn("Result cache disabled.", "dir", cfg.dir(), "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}
