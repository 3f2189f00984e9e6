package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/dplace/pkg/cache"
	"github.com/matzehuels/dplace/pkg/design"
	"github.com/matzehuels/dplace/pkg/detailed"
	"github.com/matzehuels/dplace/pkg/importer"
	"github.com/matzehuels/dplace/pkg/legalize"
	"github.com/matzehuels/dplace/pkg/observability"
	"github.com/matzehuels/dplace/pkg/placement"
)

// Runner executes improvement runs with result caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can use the same Runner on different designs.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// cachedResult is the cache payload of one run.
type cachedResult struct {
	Placement *design.Placement `json:"placement"`
	Report    Report            `json:"report"`
}

// Execute improves d in place and reports what changed.
func (r *Runner) Execute(ctx context.Context, d *design.Design, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	res := &Result{RunID: uuid.NewString()}
	res.Report = Report{RunID: res.RunID, Design: d.Name, DBU: d.DBU}

	err := r.execute(ctx, d, &opts, res)
	res.Report.Duration = time.Since(start)
	observability.Pipeline().OnRunComplete(ctx, res.RunID,
		res.Report.HPWLBefore, res.Report.HPWLAfter, res.Report.Duration, err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Runner) execute(ctx context.Context, d *design.Design, opts *Options, res *Result) error {
	logger := opts.Logger
	hooks := observability.Pipeline()
	logger.Info("Detailed placement improvement.", "run", res.RunID, "design", d.Name)

	before := design.HPWL(d)
	res.Report.HPWLBefore, res.Report.HPWLAfter = before, before
	logger.Info("Initial HPWL", "hpwl", fmt.Sprintf("%.1f", res.Report.Microns(before)))
	if before == 0 {
		logger.Info("Skipping detailed improvement since hpwl is zero.")
		res.Skipped = true
		return nil
	}

	disallow := opts.disallowGaps(d)
	key, err := r.resultKey(d, opts, disallow)
	if err != nil {
		return err
	}
	if !opts.Refresh && r.fromCache(ctx, d, key, res) {
		logger.Info("Placement restored from cache.", "changed", res.Changed)
		return nil
	}

	hooks.OnImportStart(ctx, d.Name)
	t0 := time.Now()
	imp, err := importer.Import(d, importer.Options{Logger: logger})
	cells := 0
	if imp != nil {
		cells = imp.Network.Stats().Cells
	}
	hooks.OnImportComplete(ctx, d.Name, cells, time.Since(t0), err)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	res.Warnings = append(res.Warnings, imp.Warnings...)
	res.Report.fillImport(imp)

	row0 := imp.Arch.Rows[0]
	m := placement.New(imp.Network, imp.Arch, placement.Options{
		Seed:                opts.Seed,
		MaxDisplacementX:    opts.MaxDisplacementX * row0.SiteWidth,
		MaxDisplacementY:    opts.MaxDisplacementY * imp.Arch.RowHeight(),
		DisallowOneSiteGaps: disallow,
		Logger:              logger,
	})

	t0 = time.Now()
	lst, err := legalize.Shift{}.Legalize(m)
	if err != nil {
		return fmt.Errorf("legalize: %w", err)
	}
	hooks.OnLegalizeComplete(ctx, lst.Placed, lst.Unplaced, lst.TotalDisplacement, time.Since(t0))
	res.Legalize = lst
	res.Warnings = append(res.Warnings, lst.Warnings...)

	sc, err := detailed.ParseScript(opts.script(disallow))
	if err != nil {
		return err
	}
	eng := &detailed.Engine{
		Script:    sc,
		TimeLimit: opts.TimeLimit,
		OnPass: func(p detailed.PassResult) {
			hooks.OnPassComplete(ctx, p.Name, p.Iteration, p.Moves, p.HPWLAfter, p.Duration)
			if opts.OnPass != nil {
				opts.OnPass(p)
			}
		},
	}
	ir, err := eng.Run(ctx, m)
	if err != nil {
		return fmt.Errorf("improve: %w", err)
	}
	res.Improve = ir

	p := extractPlacement(d, imp.Network)
	if res.Changed, err = d.Apply(p); err != nil {
		return fmt.Errorf("write back: %w", err)
	}
	res.Placement = p

	after := design.HPWL(d)
	res.Report.HPWLAfter = after
	res.Report.Displacement = m.Displacement()
	res.Report.Changed = res.Changed
	res.Report.Warnings = len(res.Warnings)
	logger.Info("Final HPWL",
		"hpwl", fmt.Sprintf("%.1f", res.Report.Microns(after)),
		"delta", fmt.Sprintf("%.2f%%", res.Report.Delta()))

	if ir.TimedOut {
		logger.Debug("not caching a run that hit the time limit")
		return nil
	}
	r.store(ctx, key, res)
	return nil
}

func (r *Runner) resultKey(d *design.Design, opts *Options, disallow bool) (string, error) {
	data, err := d.Bytes()
	if err != nil {
		return "", fmt.Errorf("hash design: %w", err)
	}
	return r.Keyer.ResultKey(cache.Hash(data), opts.keyOpts(disallow)), nil
}

// fromCache applies a cached placement to d. Any failure is a miss.
func (r *Runner) fromCache(ctx context.Context, d *design.Design, key string, res *Result) bool {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		hooks.OnCacheMiss(ctx, "result")
		return false
	}

	var cr cachedResult
	if err := json.Unmarshal(data, &cr); err != nil {
		r.Logger.Warn("discarding corrupt cache entry", "err", err)
		hooks.OnCacheMiss(ctx, "result")
		return false
	}
	changed, err := d.Apply(cr.Placement)
	if err != nil {
		r.Logger.Warn("cached placement does not fit the design", "err", err)
		hooks.OnCacheMiss(ctx, "result")
		return false
	}
	hooks.OnCacheHit(ctx, "result")

	runID := res.RunID
	res.Report = cr.Report
	res.Report.RunID = runID
	res.Report.CacheHit = true
	res.Report.Changed = changed
	res.Report.HPWLAfter = design.HPWL(d)
	res.CacheHit = true
	res.Placement = cr.Placement
	res.Changed = changed
	return true
}

func (r *Runner) store(ctx context.Context, key string, res *Result) {
	data, err := json.Marshal(cachedResult{Placement: res.Placement, Report: res.Report})
	if err != nil {
		r.Logger.Warn("cannot encode result for the cache", "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLResult); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "result", len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
