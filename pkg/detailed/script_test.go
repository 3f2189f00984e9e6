package detailed

import (
	"slices"
	"testing"

	"github.com/matzehuels/dplace/pkg/errors"
)

func TestParseDefaultScript(t *testing.T) {
	sc, err := ParseScript(DefaultScript)
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}
	var names []string
	for _, c := range sc.Commands {
		names = append(names, c.Name)
	}
	if want := []string{"mis", "gs", "vs", "ro", "default"}; !slices.Equal(names, want) {
		t.Fatalf("commands = %v, want %v", names, want)
	}
	for _, c := range sc.Commands[:4] {
		if c.Passes != 10 || c.Tolerance != 0.005 {
			t.Errorf("%s: passes=%d tolerance=%g", c.Name, c.Passes, c.Tolerance)
		}
	}
	d := sc.Commands[4]
	if d.Passes != 5 || d.Moves != 20 || d.Generator != GenRandom {
		t.Errorf("default = %+v", d)
	}
	if !slices.Equal(d.Objectives, []string{ObjHPWL}) || d.Cost.String() != "(hpwl)" {
		t.Errorf("default objectives = %v cost = %v", d.Objectives, d.Cost)
	}
	if sc.DisallowOneSiteGaps {
		t.Error("DisallowOneSiteGaps set without the directive")
	}
}

func TestParseDirective(t *testing.T) {
	sc, err := ParseScript(DefaultScriptFor(true))
	if err != nil {
		t.Fatal(err)
	}
	if !sc.DisallowOneSiteGaps || len(sc.Commands) != 5 {
		t.Errorf("script = %+v", sc)
	}
}

func TestParseCostWithSpaces(t *testing.T) {
	sc, err := ParseScript("default -obj hpwl,disp -cost hpwl + 2 * disp -p 3")
	if err != nil {
		t.Fatal(err)
	}
	c := sc.Commands[0]
	if c.Passes != 3 {
		t.Errorf("Passes = %d, want 3", c.Passes)
	}
	if got := c.Cost.Eval(map[string]float64{"hpwl": 10, "disp": 4}); got != 18 {
		t.Errorf("cost = %g, want 18", got)
	}
	if got := c.String(); got != "default -p 3 -t 0 -f 20 -gen rng -obj hpwl,disp -cost hpwl + 2 * disp" {
		t.Errorf("String() = %q", got)
	}
}

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		script string
		num    int
	}{
		{"mis -p 1; swap -p 2", 501},
		{"gs -x 1", 502},
		{"disallow_one_site_gaps -p 1", 502},
		{"ro -f 3", 502},
		{"mis -p", 503},
		{"mis -p ten", 503},
		{"vs -t -1", 503},
		{"default -gen annealing", 503},
		{"default -obj timing", 503},
		{"default -cost (hpwl", 503},
		{"default -obj hpwl -cost hpwl + disp", 503},
	}
	for _, tt := range tests {
		t.Run(tt.script, func(t *testing.T) {
			_, err := ParseScript(tt.script)
			if !errors.Is(err, errors.ErrCodeInvalidScript) || errors.GetNum(err) != tt.num {
				t.Errorf("err = %v, want INVALID_SCRIPT %d", err, tt.num)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	sc, err := ParseScript(" ; ;")
	if err != nil || len(sc.Commands) != 0 {
		t.Errorf("ParseScript = %+v, %v", sc, err)
	}
}
