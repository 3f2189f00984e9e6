package detailed

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/dplace/pkg/design"
	"github.com/matzehuels/dplace/pkg/importer"
	"github.com/matzehuels/dplace/pkg/legalize"
	"github.com/matzehuels/dplace/pkg/placement"
)

func legalized(t *testing.T, o design.SynthOptions, po placement.Options) *placement.Manager {
	t.Helper()
	res, err := importer.Import(design.Synthesize(o), importer.Options{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	m := placement.New(res.Network, res.Arch, po)
	st, err := legalize.Shift{}.Legalize(m)
	if err != nil {
		t.Fatalf("Legalize: %v", err)
	}
	if st.Unplaced != 0 {
		t.Fatalf("legalizer left %d cells unplaced", st.Unplaced)
	}
	return m
}

func TestEngineDefaultScript(t *testing.T) {
	m := legalized(t, design.DefaultSynthOptions(), placement.Options{})
	var seen []PassResult
	e := &Engine{OnPass: func(p PassResult) { seen = append(seen, p) }}
	res, err := e.Run(context.Background(), m)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(seen) == 0 || len(seen) != len(res.Passes) {
		t.Fatalf("OnPass saw %d passes, result has %d", len(seen), len(res.Passes))
	}
	for _, p := range res.Passes {
		if p.HPWLAfter > p.HPWLBefore {
			t.Errorf("%s iteration %d: hpwl %d -> %d", p.Name, p.Iteration, p.HPWLBefore, p.HPWLAfter)
		}
	}
	if res.HPWLAfter >= res.HPWLBefore {
		t.Errorf("hpwl %d -> %d, want an improvement on a jittered design", res.HPWLBefore, res.HPWLAfter)
	}
	if res.HPWLAfter != m.Network.HPWL() {
		t.Errorf("HPWLAfter = %d, network says %d", res.HPWLAfter, m.Network.HPWL())
	}
	for n, v := range m.CheckAll() {
		t.Errorf("%s: %v", m.Network.Nodes[n].Name, v)
	}
}

func TestEngineEachPassAlone(t *testing.T) {
	for _, script := range []string{
		"mis -p 3",
		"gs -p 3",
		"vs -p 3",
		"ro -p 3",
		"default -p 2 -f 10",
		"default -p 2 -f 10 -gen disp",
	} {
		t.Run(script, func(t *testing.T) {
			m := legalized(t, design.DefaultSynthOptions(), placement.Options{})
			runScript(t, m, script)
		})
	}
}

func TestEngineDeterministic(t *testing.T) {
	run := func() []int {
		m := legalized(t, design.DefaultSynthOptions(), placement.Options{Seed: 5})
		if _, err := (&Engine{}).Run(context.Background(), m); err != nil {
			t.Fatal(err)
		}
		var xs []int
		for _, nd := range m.Network.Nodes {
			xs = append(xs, nd.Left, nd.Bottom)
		}
		return xs
	}
	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("coordinate %d differs: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestEngineTimeLimit(t *testing.T) {
	m := legalized(t, design.DefaultSynthOptions(), placement.Options{})
	res, err := (&Engine{TimeLimit: time.Nanosecond}).Run(context.Background(), m)
	if err != nil {
		t.Fatal(err)
	}
	if !res.TimedOut {
		t.Error("TimedOut = false")
	}
	if len(res.Passes) > 1 {
		t.Errorf("ran %d pass iterations after the deadline", len(res.Passes))
	}
	for n, v := range m.CheckAll() {
		t.Errorf("%s: %v", m.Network.Nodes[n].Name, v)
	}
}

func TestEngineCanceled(t *testing.T) {
	m := legalized(t, design.DefaultSynthOptions(), placement.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	before := m.Network.HPWL()
	res, err := (&Engine{}).Run(ctx, m)
	if err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(res.Passes) != 0 || res.HPWLAfter != before {
		t.Errorf("result = %+v", res)
	}
}

func TestEngineDirective(t *testing.T) {
	m := legalized(t, design.DefaultSynthOptions(), placement.Options{})
	sc, err := ParseScript(DefaultScriptFor(true))
	if err != nil {
		t.Fatal(err)
	}
	res, err := (&Engine{Script: sc}).Run(context.Background(), m)
	if err != nil {
		t.Fatal(err)
	}
	if !m.DisallowOneSiteGaps() {
		t.Error("directive did not reach the manager")
	}
	if res.HPWLAfter > res.HPWLBefore {
		t.Errorf("hpwl grew from %d to %d", res.HPWLBefore, res.HPWLAfter)
	}
}

func TestEngineRespectsDisplacementLimit(t *testing.T) {
	po := placement.Options{MaxDisplacementX: 2000, MaxDisplacementY: 4000}
	m := legalized(t, design.DefaultSynthOptions(), po)
	// Cells the legalizer already had to move further are left where they are.
	far := make(map[int]bool)
	for _, n := range m.PlacedNodes() {
		if m.Check(n) == placement.TooFar {
			far[n] = true
		}
	}
	if _, err := (&Engine{}).Run(context.Background(), m); err != nil {
		t.Fatal(err)
	}
	for _, n := range m.PlacedNodes() {
		if v := m.Check(n); v == placement.TooFar && !far[n] {
			t.Errorf("%s moved beyond the limit", m.Network.Nodes[n].Name)
		}
	}
}
