package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/dplace/pkg/cache"
	"github.com/matzehuels/dplace/pkg/pipeline"
)

// Cache backends accepted in [cache] backend.
const (
	cacheNone  = "none"
	cacheFile  = "file"
	cacheRedis = "redis"
)

// Values of disallow_one_site_gaps.
const (
	gapsAuto  = "auto"
	gapsTrue  = "true"
	gapsFalse = "false"
)

// Config is the TOML configuration file.
//
//	seed = 42
//	script = "mis -p 10 -t 0.005; gs -p 10 -t 0.005; ro -p 10 -t 0.005"
//	time_limit = "2m"
//	disallow_one_site_gaps = "auto"
//
//	[max_displacement]
//	x = 50 # sites
//	y = 2  # rows
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	scope = "flow:signoff:"
type Config struct {
	Seed                uint64             `toml:"seed"`
	Script              string             `toml:"script"`
	TimeLimit           duration           `toml:"time_limit"`
	DisallowOneSiteGaps string             `toml:"disallow_one_site_gaps"`
	MaxDisplacement     DisplacementConfig `toml:"max_displacement"`
	Cache               CacheConfig        `toml:"cache"`
}

// DisplacementConfig limits how far cells move: X in sites, Y in rows.
type DisplacementConfig struct {
	X int `toml:"x"`
	Y int `toml:"y"`
}

// CacheConfig selects the result cache.
type CacheConfig struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
	RedisURL  string `toml:"redis_url"`
	Scope     string `toml:"scope"` // key prefix for runs sharing one backend
}

// keyer returns the result keyer: scoped when Scope is set.
func (c *CacheConfig) keyer() cache.Keyer {
	if c.Scope == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Scope)
}

func (c *CacheConfig) dir() string {
	if c.Dir != "" {
		return c.Dir
	}
	return cache.DefaultDir()
}

// duration decodes "1m30s" style strings.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// defaultConfig returns the settings used when no file is present.
func defaultConfig() Config {
	return Config{
		Seed:                pipeline.DefaultSeed,
		DisallowOneSiteGaps: gapsAuto,
		Cache:               CacheConfig{Backend: cacheFile},
	}
}

// defaultConfigPath returns ~/.config/dplace/config.toml (or the platform
// equivalent).
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", appName+".toml")
	}
	return filepath.Join(dir, appName, "config.toml")
}

// loadConfig reads path over the defaults. With an empty path the default
// location is tried and may be absent.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return cfg, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if _, err := parseGaps(c.DisallowOneSiteGaps); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case cacheNone, cacheFile:
	case cacheRedis:
		if c.Cache.RedisAddr == "" && c.Cache.RedisURL == "" {
			return fmt.Errorf("cache backend redis needs redis_addr or redis_url")
		}
	default:
		return fmt.Errorf("unknown cache backend %q (want none, file or redis)", c.Cache.Backend)
	}
	return nil
}

// options converts the config to pipeline options.
func (c *Config) options() (pipeline.Options, error) {
	gaps, err := parseGaps(c.DisallowOneSiteGaps)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Seed:                c.Seed,
		MaxDisplacementX:    c.MaxDisplacement.X,
		MaxDisplacementY:    c.MaxDisplacement.Y,
		DisallowOneSiteGaps: gaps,
		Script:              c.Script,
		TimeLimit:           c.TimeLimit.Duration,
	}, nil
}

// parseGaps maps "auto" to nil and "true"/"false" to a fixed policy.
func parseGaps(s string) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", gapsAuto:
		return nil, nil
	case gapsTrue:
		return pipeline.Bool(true), nil
	case gapsFalse:
		return pipeline.Bool(false), nil
	}
	return nil, fmt.Errorf("disallow_one_site_gaps: want auto, true or false, got %q", s)
}
