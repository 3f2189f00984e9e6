package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dplace/pkg/design"
	"github.com/matzehuels/dplace/pkg/detailed"
	"github.com/matzehuels/dplace/pkg/pipeline"
)

// improveFlags holds the flags of the improve command. Settings flags only
// override the config file when they are given.
type improveFlags struct {
	output    string
	placement string
	noReport  bool

	seed      uint64
	maxDispX  int
	maxDispY  int
	gaps      string
	script    string
	timeLimit time.Duration

	noCache   bool
	refresh   bool
	backend   string
	redisAddr string
	scope     string
}

// improveCommand creates the improve command.
func (c *CLI) improveCommand() *cobra.Command {
	var f improveFlags

	cmd := &cobra.Command{
		Use:   "improve [design.json]",
		Short: "Legalize and improve the placement of a design",
		Long: `Legalize and improve the placement of a design snapshot.

The design is first shifted onto legal sites, then the detailed improvement
script runs its passes. The default script is:

  ` + detailed.DefaultScript + `

Each pass only accepts changes that do not increase the objective, so the
final wirelength is never worse than the legalized one. The updated design is
written to <input>.placed.json unless -o is given; --placement additionally
writes just the changed instances.

Results are cached by design content and options.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.ConfigPath)
			if err != nil {
				return err
			}
			if err := f.apply(cmd, &cfg); err != nil {
				return err
			}
			return c.runImprove(cmd.Context(), cmd.OutOrStdout(), args[0], cfg, f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output design file (default: <input>.placed.json)")
	cmd.Flags().StringVar(&f.placement, "placement", "", "also write the changed instances to this file")
	cmd.Flags().BoolVar(&f.noReport, "no-report", false, "do not print the report table")

	cmd.Flags().Uint64Var(&f.seed, "seed", pipeline.DefaultSeed, "random seed")
	cmd.Flags().IntVar(&f.maxDispX, "max-disp-x", 0, "maximum horizontal displacement in sites (0: unbounded)")
	cmd.Flags().IntVar(&f.maxDispY, "max-disp-y", 0, "maximum vertical displacement in rows (0: unbounded)")
	cmd.Flags().StringVar(&f.gaps, "disallow-one-site-gaps", gapsAuto, "one-site gap policy: auto, true, false")
	cmd.Flags().StringVar(&f.script, "script", "", "detailed improvement script (default: built-in)")
	cmd.Flags().DurationVar(&f.timeLimit, "time-limit", 0, "stop improving after this long (0: no limit)")

	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().StringVar(&f.backend, "cache", "", "cache backend: none, file, redis")
	cmd.Flags().StringVar(&f.redisAddr, "redis-addr", "", "redis address for the redis cache backend")
	cmd.Flags().StringVar(&f.scope, "cache-scope", "", "prefix for cache keys, separating runs that share a backend")

	return cmd
}

// apply overlays the flags given on the command line onto cfg.
func (f *improveFlags) apply(cmd *cobra.Command, cfg *Config) error {
	set := cmd.Flags().Changed
	if set("seed") {
		cfg.Seed = f.seed
	}
	if set("max-disp-x") {
		cfg.MaxDisplacement.X = f.maxDispX
	}
	if set("max-disp-y") {
		cfg.MaxDisplacement.Y = f.maxDispY
	}
	if set("disallow-one-site-gaps") {
		cfg.DisallowOneSiteGaps = f.gaps
	}
	if set("script") {
		cfg.Script = f.script
	}
	if set("time-limit") {
		cfg.TimeLimit.Duration = f.timeLimit
	}
	if set("cache") {
		cfg.Cache.Backend = f.backend
	}
	if set("redis-addr") {
		cfg.Cache.RedisAddr = f.redisAddr
		if !set("cache") {
			cfg.Cache.Backend = cacheRedis
		}
	}
	if set("cache-scope") {
		cfg.Cache.Scope = f.scope
	}
	if f.noCache {
		cfg.Cache.Backend = cacheNone
	}
	return cfg.validate()
}

// runImprove loads the design, runs the pipeline and writes the outputs.
func (c *CLI) runImprove(ctx context.Context, w io.Writer, input string, cfg Config, f improveFlags) error {
	opts, err := cfg.options()
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	d, err := design.ImportJSON(input)
	if err != nil {
		return fmt.Errorf("load design %s: %w", input, err)
	}
	prog.done(fmt.Sprintf("Loaded %s: %d instances, %d nets", d.Name, len(d.Instances), len(d.Nets)))

	runner, err := c.newRunner(ctx, &cfg.Cache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Improving placement...")
	opts.Refresh = f.refresh
	opts.OnPass = func(p detailed.PassResult) {
		spinner.SetMessage(fmt.Sprintf("%s pass %d: hpwl %d", p.Name, p.Iteration, p.HPWLAfter))
	}
	spinner.Start()

	res, err := runner.Execute(ctx, d, opts)
	if err != nil {
		spinner.StopWithError("Improvement failed")
		return fmt.Errorf("improve: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	for _, warn := range res.Warnings {
		printWarning(w, "%s", warn)
	}

	outputPath := f.output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".placed.json"
	}
	if err := design.ExportJSON(d, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	if f.placement != "" && res.Placement != nil {
		if err := writePlacementFile(res.Placement, f.placement); err != nil {
			return err
		}
	}

	if res.Skipped {
		printInfo(w, "Design has zero wirelength; nothing to improve")
	} else {
		printSuccess(w, "Placement improved %s", formatDelta(res.Report.Delta()))
	}
	printFile(w, outputPath)
	if f.placement != "" && res.Placement != nil {
		printFile(w, f.placement)
	}
	printStats(w, res.Report.Cells, res.Report.Edges, res.CacheHit)

	if !f.noReport && !res.Skipped {
		fmt.Fprintln(w)
		res.Report.Print(w)
	}
	fmt.Fprintln(w)
	printNextStep(w, "Visualize", appName+" dot --svg "+outputPath)
	return nil
}

func writePlacementFile(p *design.Placement, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()
	if err := design.WritePlacement(p, out); err != nil {
		return fmt.Errorf("write placement %s: %w", path, err)
	}
	return nil
}
