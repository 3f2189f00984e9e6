package detailed

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/dplace/pkg/placement"
)

// Engine runs a script over a placement.
type Engine struct {
	Script *Script

	// TimeLimit bounds the whole run by wall clock. Zero means no limit. The
	// limit is checked inside passes, so a run ends shortly after it expires.
	TimeLimit time.Duration

	// OnPass, if set, is called after every pass iteration.
	OnPass func(PassResult)
}

// PassResult describes one iteration of one pass.
type PassResult struct {
	Name       string
	Iteration  int
	Moves      int
	HPWLBefore int64
	HPWLAfter  int64
	Duration   time.Duration
}

// Result summarizes a run.
type Result struct {
	HPWLBefore int64
	HPWLAfter  int64
	Passes     []PassResult
	TimedOut   bool
}

// run is the state shared by passes during one Engine run.
type run struct {
	m        *placement.Manager
	deadline time.Time
}

func (r *run) expired() bool {
	return !r.deadline.IsZero() && time.Now().After(r.deadline)
}

type passFunc func(r *run, cmd *Command) int

var passes = map[string]passFunc{
	PassMIS:     (*run).mis,
	PassGlobal:  (*run).globalSwap,
	PassVert:    (*run).verticalSwap,
	PassReorder: (*run).reorder,
	PassRandom:  (*run).random,
}

// Run applies the script to m. Context cancellation is checked between pass
// iterations and returns the context error with the placement left legal.
func (e *Engine) Run(ctx context.Context, m *placement.Manager) (*Result, error) {
	sc := e.Script
	if sc == nil {
		var err error
		if sc, err = ParseScript(DefaultScript); err != nil {
			return nil, err
		}
	}
	if sc.DisallowOneSiteGaps {
		m.SetDisallowOneSiteGaps(true)
	}

	r := &run{m: m}
	if e.TimeLimit > 0 {
		r.deadline = time.Now().Add(e.TimeLimit)
	}
	log := m.Logger()
	res := &Result{HPWLBefore: m.Network.HPWL()}

	for ci := range sc.Commands {
		cmd := &sc.Commands[ci]
		fn, ok := passes[cmd.Name]
		if !ok {
			return nil, fmt.Errorf("no pass named %q", cmd.Name)
		}
		for it := 0; it < cmd.Passes; it++ {
			if err := ctx.Err(); err != nil {
				res.HPWLAfter = m.Network.HPWL()
				return res, err
			}
			if r.expired() {
				res.TimedOut = true
				break
			}

			start := time.Now()
			before := m.Network.HPWL()
			objBefore := r.objective(cmd)
			moves := fn(r, cmd)
			pr := PassResult{
				Name:       cmd.Name,
				Iteration:  it,
				Moves:      moves,
				HPWLBefore: before,
				HPWLAfter:  m.Network.HPWL(),
				Duration:   time.Since(start),
			}
			res.Passes = append(res.Passes, pr)
			if e.OnPass != nil {
				e.OnPass(pr)
			}
			log.Debug("pass done",
				"pass", cmd.Name,
				"iteration", it,
				"moves", moves,
				"hpwl", pr.HPWLAfter)

			if moves == 0 {
				break
			}
			objAfter := r.objective(cmd)
			if objBefore > 0 && (objBefore-objAfter)/objBefore < cmd.Tolerance {
				break
			}
		}
		if res.TimedOut {
			log.Warn("time limit reached", "limit", e.TimeLimit, "pass", cmd.Name)
			break
		}
	}

	res.HPWLAfter = m.Network.HPWL()
	return res, nil
}

// objective is the value a pass loop measures improvement by.
func (r *run) objective(cmd *Command) float64 {
	if cmd.Cost == nil {
		return float64(r.m.Network.HPWL())
	}
	return cmd.Cost.Eval(r.totals())
}

func (r *run) totals() map[string]float64 {
	return map[string]float64{
		ObjHPWL: float64(r.m.Network.HPWL()),
		ObjDisp: float64(r.m.Displacement()),
	}
}
