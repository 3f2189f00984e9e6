package design

import (
	"bytes"
	"testing"

	"github.com/matzehuels/dplace/pkg/errors"
	"github.com/matzehuels/dplace/pkg/geom"
)

func pinAt(name, sig string, r geom.Rect) MTerm {
	return MTerm{Name: name, SigType: sig, Pins: []MPin{{Boxes: []Box{{Layer: "metal1", Rect: r}}}}}
}

func smallDesign() *Design {
	return &Design{
		Name: "small",
		DBU:  1000,
		Core: geom.Rect{XMin: 0, YMin: 0, XMax: 10000, YMax: 4000},
		Sites: []Site{
			{Name: "core", Class: SiteCore, Width: 200, Height: 2000},
		},
		Masters: []Master{{
			Name: "INV", Class: ClassCore, Width: 400, Height: 2000,
			Terms: []MTerm{
				pinAt("A", SigSignal, geom.Rect{XMin: 100, YMin: 930, XMax: 170, YMax: 1070}),
				pinAt("Z", SigSignal, geom.Rect{XMin: 300, YMin: 930, XMax: 370, YMax: 1070}),
				pinAt("VDD", SigPower, geom.Rect{XMin: 0, YMin: 1800, XMax: 400, YMax: 2000}),
			},
		}},
		Instances: []Instance{
			{Name: "u0", Master: "INV", X: 1000, Y: 1000},
			{Name: "u1", Master: "INV", X: 3000, Y: 1000, Orient: geom.MY},
		},
		Nets: []Net{
			{Name: "n0", ITerms: []ITerm{{"u0", "Z"}, {"u1", "A"}}},
			{Name: "n1", ITerms: []ITerm{{"u0", "A"}}, BTerms: []string{"in"}},
			{Name: "VDD", SigType: SigPower, ITerms: []ITerm{{"u0", "VDD"}, {"u1", "VDD"}}},
		},
		BTerms: []BTerm{{Name: "in", Net: "n1", BBox: geom.Rect{XMax: 100, YMax: 100}}},
		Rows:   []Row{{Name: "r0", Site: "core", Count: 50, Spacing: 200}},
	}
}

func TestHPWL(t *testing.T) {
	// n0: (1335,2000)-(3265,2000) = 1930
	// n1: (50,50)-(1135,2000) = 1085 + 1950
	if got, want := HPWL(smallDesign()), int64(1930+1085+1950); got != want {
		t.Errorf("HPWL() = %d, want %d", got, want)
	}
}

func TestHPWLZeroWithoutNets(t *testing.T) {
	d := smallDesign()
	d.Nets = nil
	if got := HPWL(d); got != 0 {
		t.Errorf("HPWL() = %d, want 0", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Design)
	}{
		{"zero dbu", func(d *Design) { d.DBU = 0 }},
		{"duplicate instance", func(d *Design) { d.Instances[1].Name = "u0" }},
		{"unknown master", func(d *Design) { d.Instances[0].Master = "NAND" }},
		{"unknown iterm", func(d *Design) { d.Nets[0].ITerms[0].Term = "Q" }},
		{"unknown bterm", func(d *Design) { d.Nets[1].BTerms = []string{"out"} }},
		{"unknown row site", func(d *Design) { d.Rows[0].Site = "io" }},
		{"empty net name", func(d *Design) { d.Nets[0].Name = "" }},
	}

	if err := smallDesign().Validate(); err != nil {
		t.Fatalf("Validate() on valid design = %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := smallDesign()
			tt.mutate(d)
			err := d.Validate()
			if !errors.Is(err, errors.ErrCodeInvalidDesign) {
				t.Errorf("Validate() = %v, want %s", err, errors.ErrCodeInvalidDesign)
			}
		})
	}
}

func TestApply(t *testing.T) {
	d := smallDesign()
	n, err := d.Apply(&Placement{Instances: []PlacedInstance{
		{Name: "u0", X: 1000, Y: 1000, Orient: geom.R0},
		{Name: "u1", X: 3200, Y: 1000, Orient: geom.R0},
	}})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Apply() changed = %d, want 1", n)
	}
	if u1 := d.Instances[1]; u1.X != 3200 || u1.Orient != geom.R0 {
		t.Errorf("u1 = %+v, want x=3200 R0", u1)
	}

	if _, err := d.Apply(&Placement{Instances: []PlacedInstance{{Name: "nope"}}}); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Apply(unknown) = %v, want %s", err, errors.ErrCodeNotFound)
	}
}

func TestHasOneSiteMaster(t *testing.T) {
	d := smallDesign()
	if d.HasOneSiteMaster() {
		t.Error("HasOneSiteMaster() = true for a two-site INV only")
	}
	d.Masters = append(d.Masters, Master{Name: "FILL1", Class: ClassCoreSpacer, Width: 200, Height: 2000})
	if !d.HasOneSiteMaster() {
		t.Error("HasOneSiteMaster() = false with a one-site filler")
	}
}

func TestPaddingFor(t *testing.T) {
	p := &Padding{
		Left: 1, Right: 1,
		Masters:   map[string]SidePad{"INV": {Left: 2, Right: 0}},
		Instances: map[string]SidePad{"u7": {Left: 0, Right: 3}},
	}
	tests := []struct {
		inst, master string
		left, right  int
	}{
		{"u0", "NAND", 1, 1},
		{"u0", "INV", 2, 0},
		{"u7", "INV", 0, 3},
	}
	for _, tt := range tests {
		l, r := p.For(tt.inst, tt.master)
		if l != tt.left || r != tt.right {
			t.Errorf("For(%s, %s) = (%d, %d), want (%d, %d)", tt.inst, tt.master, l, r, tt.left, tt.right)
		}
	}
	var nilPad *Padding
	if l, r := nilPad.For("u0", "INV"); l != 0 || r != 0 {
		t.Errorf("nil Padding.For() = (%d, %d), want (0, 0)", l, r)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d := Synthesize(DefaultSynthOptions())
	var buf bytes.Buffer
	if err := WriteJSON(d, &buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if HPWL(got) != HPWL(d) {
		t.Errorf("HPWL after round trip = %d, want %d", HPWL(got), HPWL(d))
	}
	if got.Instances[3].Orient != d.Instances[3].Orient {
		t.Errorf("orient not preserved: %v vs %v", got.Instances[3].Orient, d.Instances[3].Orient)
	}
}

func TestClone(t *testing.T) {
	d := smallDesign()
	c := d.Clone()
	c.Instances[0].X = 99
	if d.Instances[0].X == 99 {
		t.Error("Clone shares instance storage with the original")
	}
}
