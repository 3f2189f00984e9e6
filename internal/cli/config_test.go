package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dplace/pkg/cache"
	"github.com/matzehuels/dplace/pkg/pipeline"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
seed = 7
script = "gs -p 2; ro -p 2"
time_limit = "1m30s"
disallow_one_site_gaps = "false"

[max_displacement]
x = 50
y = 2

[cache]
backend = "redis"
redis_addr = "localhost:6379"
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Seed != 7 || cfg.Script != "gs -p 2; ro -p 2" {
		t.Errorf("seed/script = %d/%q", cfg.Seed, cfg.Script)
	}
	if cfg.TimeLimit.Duration != 90*time.Second {
		t.Errorf("time_limit = %v, want 1m30s", cfg.TimeLimit.Duration)
	}
	if cfg.MaxDisplacement != (DisplacementConfig{X: 50, Y: 2}) {
		t.Errorf("max_displacement = %+v", cfg.MaxDisplacement)
	}
	if cfg.Cache.Backend != cacheRedis || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}

	opts, err := cfg.options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.DisallowOneSiteGaps == nil || *opts.DisallowOneSiteGaps {
		t.Errorf("DisallowOneSiteGaps = %v, want false", opts.DisallowOneSiteGaps)
	}
	if opts.MaxDisplacementX != 50 || opts.MaxDisplacementY != 2 || opts.TimeLimit != 90*time.Second {
		t.Errorf("options = %+v", opts)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("missing default config should not fail: %v", err)
	}
	if cfg.Seed != pipeline.DefaultSeed || cfg.Cache.Backend != cacheFile {
		t.Errorf("defaults = %+v", cfg)
	}
	opts, err := cfg.options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.DisallowOneSiteGaps != nil {
		t.Error("auto gap policy should leave DisallowOneSiteGaps nil")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "seeds = 3\n", "unknown keys: seeds"},
		{"unknown nested key", "[cache]\nbackend = \"file\"\nttl = 3\n", "cache.ttl"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", "unknown cache backend"},
		{"redis without address", "[cache]\nbackend = \"redis\"\n", "redis_addr"},
		{"bad gaps", "disallow_one_site_gaps = \"sometimes\"\n", "disallow_one_site_gaps"},
		{"bad duration", "time_limit = \"soon\"\n", "parse config"},
		{"syntax", "seed = \n", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfigMissingExplicit(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("an explicit missing config file should fail")
	}
}

func TestParseGaps(t *testing.T) {
	tests := []struct {
		in      string
		want    *bool
		wantErr bool
	}{
		{"", nil, false},
		{"auto", nil, false},
		{"TRUE", pipeline.Bool(true), false},
		{" false ", pipeline.Bool(false), false},
		{"yes", nil, true},
	}
	for _, tt := range tests {
		got, err := parseGaps(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseGaps(%q) error = %v", tt.in, err)
			continue
		}
		if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
			t.Errorf("parseGaps(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCacheScope(t *testing.T) {
	plain := cache.NewDefaultKeyer().ResultKey("abc", cache.ResultKeyOpts{})
	tests := []struct {
		name string
		body string
		args []string
		want string
	}{
		{"unscoped", "", nil, plain},
		{"config", "[cache]\nscope = \"flow:a:\"\n", nil, "flow:a:" + plain},
		{"flag", "", []string{"--cache-scope", "flow:b:"}, "flow:b:" + plain},
		{"flag over config", "[cache]\nscope = \"flow:a:\"\n", []string{"--cache-scope", "flow:b:"}, "flow:b:" + plain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadConfig(writeConfig(t, tt.body))
			if err != nil {
				t.Fatalf("loadConfig: %v", err)
			}
			var f improveFlags
			cmd := &cobra.Command{}
			cmd.Flags().StringVar(&f.scope, "cache-scope", "", "")
			if err := cmd.Flags().Parse(tt.args); err != nil {
				t.Fatal(err)
			}
			if err := f.apply(cmd, &cfg); err != nil {
				t.Fatalf("apply: %v", err)
			}
			cfg.Cache.Backend = cacheNone

			r, err := New(io.Discard, LogInfo).newRunner(context.Background(), &cfg.Cache)
			if err != nil {
				t.Fatal(err)
			}
			if got := r.Keyer.ResultKey("abc", cache.ResultKeyOpts{}); got != tt.want {
				t.Errorf("ResultKey = %q, want %q", got, tt.want)
			}
		})
	}
}
