// Package pipeline runs the complete detailed placement improvement flow on
// a design snapshot.
//
// The flow is the same for the CLI and for library callers:
//
//  1. Measure the design HPWL. A design with zero wirelength is left alone.
//  2. Import the snapshot into a network and an architecture.
//  3. Legalize with the shift legalizer.
//  4. Improve with a detailed script.
//  5. Write the changed positions and orientations back into the design.
//
// Results are cached by design content and options; a hit applies the stored
// placement without running the engine.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	res, err := runner.Execute(ctx, d, pipeline.Options{
//	    MaxDisplacementX: 50, // sites
//	    MaxDisplacementY: 2,  // rows
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res.Report.Print(os.Stdout)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dplace/pkg/cache"
	"github.com/matzehuels/dplace/pkg/design"
	"github.com/matzehuels/dplace/pkg/detailed"
	"github.com/matzehuels/dplace/pkg/errors"
	"github.com/matzehuels/dplace/pkg/legalize"
)

// DefaultSeed is the default random seed for reproducibility.
const DefaultSeed = uint64(42)

// Options configures one improvement run.
type Options struct {
	// Seed drives every randomized pass. Zero selects DefaultSeed.
	Seed uint64 `json:"seed,omitempty"`

	// MaxDisplacementX is the horizontal displacement limit in sites and
	// MaxDisplacementY the vertical one in rows. Zero means unbounded.
	MaxDisplacementX int `json:"max_displacement_x,omitempty"`
	MaxDisplacementY int `json:"max_displacement_y,omitempty"`

	// DisallowOneSiteGaps forbids one-site gaps between cells. Nil decides
	// from the library: gaps are disallowed when no core master is one site
	// wide, because nothing could ever fill them.
	DisallowOneSiteGaps *bool `json:"disallow_one_site_gaps,omitempty"`

	// Script is the detailed improvement script. Empty selects the default.
	Script string `json:"script,omitempty"`

	// TimeLimit bounds the improvement engine. Zero means no limit.
	TimeLimit time.Duration `json:"time_limit,omitempty"`

	// Refresh ignores cached results (they are still written).
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger               `json:"-"`
	OnPass func(detailed.PassResult) `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs and reports.
	RunID string

	// Skipped is set when the design had zero HPWL and nothing ran.
	Skipped bool

	// CacheHit is set when the placement came from the cache.
	CacheHit bool

	// Placement holds the instances whose location or orientation changed.
	Placement *design.Placement

	// Changed is the number of instances updated in the design.
	Changed int

	Report   Report
	Legalize *legalize.Stats  // nil when skipped or cached
	Improve  *detailed.Result // nil when skipped or cached
	Warnings []errors.Warning
}

// ValidateAndSetDefaults checks options and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.MaxDisplacementX < 0 || o.MaxDisplacementY < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, 0,
			"max displacement must not be negative, got %d %d", o.MaxDisplacementX, o.MaxDisplacementY)
	}
	if o.TimeLimit < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, 0, "time limit must not be negative, got %s", o.TimeLimit)
	}
	if o.Script != "" {
		if _, err := detailed.ParseScript(o.Script); err != nil {
			return err
		}
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// disallowGaps resolves the one-site gap policy for d.
func (o *Options) disallowGaps(d *design.Design) bool {
	if o.DisallowOneSiteGaps != nil {
		return *o.DisallowOneSiteGaps
	}
	return !d.HasOneSiteMaster()
}

// script returns the script to run.
func (o *Options) script(disallow bool) string {
	if o.Script == "" {
		return detailed.DefaultScriptFor(disallow)
	}
	return o.Script
}

// keyOpts returns the cache key options of a run.
func (o *Options) keyOpts(disallow bool) cache.ResultKeyOpts {
	return cache.ResultKeyOpts{
		Seed:                o.Seed,
		MaxDisplacementX:    o.MaxDisplacementX,
		MaxDisplacementY:    o.MaxDisplacementY,
		DisallowOneSiteGaps: disallow,
		Script:              o.script(disallow),
		TimeLimitMillis:     o.TimeLimit.Milliseconds(),
	}
}

// Bool returns a pointer to v, for DisallowOneSiteGaps.
func Bool(v bool) *bool { return &v }

// String describes the options for logs.
func (o *Options) String() string {
	gaps := "auto"
	if o.DisallowOneSiteGaps != nil {
		gaps = fmt.Sprint(*o.DisallowOneSiteGaps)
	}
	return fmt.Sprintf("seed=%d max_disp=%dx%d disallow_one_site_gaps=%s", o.Seed, o.MaxDisplacementX, o.MaxDisplacementY, gaps)
}
