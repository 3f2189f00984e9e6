package design

import (
	"fmt"
	"math/rand/v2"

	"github.com/matzehuels/dplace/pkg/geom"
)

// SynthOptions controls [Synthesize].
type SynthOptions struct {
	Seed            uint64  // RNG seed; the same options always give the same design
	Rows            int     // single-height rows
	SitesPerRow     int     // sites per row
	SiteWidth       int     // site width in DBU
	RowHeight       int     // single row height in DBU
	Utilization     float64 // fraction of each row covered by cells
	Nets            int     // signal nets
	MaxFanout       int     // maximum sinks per net
	Terminals       int     // block terminals attached to random nets
	FixedCells      int     // cells marked fixed at legal positions
	MultiHeightRows int     // extra rows built on a double-height site
	Jitter          int     // maximum displacement from a legal spot, in DBU
	OneSiteFiller   bool    // add a one-site CORE_SPACER master
	EdgeSpacing     bool    // type NAND/NOR edges and add a spacing table
	Region          bool    // constrain the cells of the left quarter to a region
	Blockage        bool    // add a hard blockage (and an ignored soft one)
	PaddingSites    int     // global left/right padding in sites
}

// DefaultSynthOptions returns a small, near-legal design suitable for tests.
func DefaultSynthOptions() SynthOptions {
	return SynthOptions{
		Seed:        1,
		Rows:        6,
		SitesPerRow: 80,
		SiteWidth:   200,
		RowHeight:   2000,
		Utilization: 0.6,
		Nets:        60,
		MaxFanout:   3,
		Terminals:   4,
		FixedCells:  2,
		Jitter:      300,
	}
}

// Core origin of synthesized designs. Non-zero so that core-relative
// translation is exercised.
const synthOrigin = 1000

type synthCell struct {
	sites int
	terms []string
}

var synthCells = []struct {
	name string
	synthCell
}{
	{"INV_X1", synthCell{2, []string{"A"}}},
	{"NAND2_X1", synthCell{3, []string{"A", "B"}}},
	{"NOR2_X1", synthCell{3, []string{"A", "B"}}},
	{"BUF_X2", synthCell{4, []string{"A"}}},
	{"DFF_X1", synthCell{8, []string{"D", "CK"}}},
}

// Synthesize builds a deterministic row-based design whose cells sit close to,
// but not exactly on, legal sites. Rows alternate R0 and MX with a VSS rail on
// even row boundaries and VDD on odd ones.
func Synthesize(o SynthOptions) *Design {
	rng := rand.New(rand.NewPCG(o.Seed, o.Seed^0xdeadbeef))
	w, h := o.SiteWidth, o.RowHeight

	d := &Design{
		Name: fmt.Sprintf("synth_%d", o.Seed),
		DBU:  1000,
		Sites: []Site{
			{Name: "core", Class: SiteCore, Width: w, Height: h, SymmetryX: true, SymmetryY: true},
		},
	}
	coreW := o.SitesPerRow * w
	coreH := o.Rows*h + o.MultiHeightRows*2*h
	d.Core = geom.Rect{XMin: synthOrigin, YMin: synthOrigin, XMax: synthOrigin + coreW, YMax: synthOrigin + coreH}

	for _, c := range synthCells {
		d.Masters = append(d.Masters, synthMaster(c.name, c.sites, c.terms, w, h, o.EdgeSpacing))
	}
	if o.OneSiteFiller {
		d.Masters = append(d.Masters, Master{Name: "FILL_X1", Class: ClassCoreSpacer, Site: "core", Width: w, Height: h})
	}

	for r := 0; r < o.Rows; r++ {
		orient := geom.R0
		if r%2 == 1 {
			orient = geom.MX
		}
		d.Rows = append(d.Rows, Row{
			Name: fmt.Sprintf("ROW_%d", r), Site: "core",
			X: synthOrigin, Y: synthOrigin + r*h, Orient: orient,
			Count: o.SitesPerRow, Spacing: w,
		})
	}
	if o.MultiHeightRows > 0 {
		d.Sites = append(d.Sites, Site{Name: "core_2h", Class: SiteCore, Width: w, Height: 2 * h, SymmetryY: true})
		for r := 0; r < o.MultiHeightRows; r++ {
			d.Rows = append(d.Rows, Row{
				Name: fmt.Sprintf("ROW_2H_%d", r), Site: "core_2h",
				X: synthOrigin, Y: synthOrigin + o.Rows*h + r*2*h,
				Count: o.SitesPerRow, Spacing: w,
			})
		}
	}

	var blockage geom.Rect
	if o.Blockage && o.Rows >= 3 {
		blockage = geom.Rect{
			XMin: synthOrigin + coreW/2, YMin: synthOrigin + h,
			XMax: synthOrigin + coreW/2 + 6*w, YMax: synthOrigin + 2*h,
		}
		d.Blockages = append(d.Blockages,
			Blockage{Rect: blockage},
			Blockage{Rect: geom.Rect{XMin: synthOrigin, YMin: synthOrigin, XMax: synthOrigin + 4*w, YMax: synthOrigin + h}, Soft: true},
		)
	}

	// Cells: legal positions first, row by row.
	for r := 0; r < o.Rows; r++ {
		var picks []int
		used := 0
		for float64(used) < o.Utilization*float64(o.SitesPerRow) {
			k := rng.IntN(len(synthCells))
			if used+synthCells[k].sites > o.SitesPerRow {
				break
			}
			picks = append(picks, k)
			used += synthCells[k].sites
		}
		free := o.SitesPerRow - used
		site := 0
		for i, k := range picks {
			gap := 0
			if free > 0 {
				gap = rng.IntN(free/(len(picks)-i) + 1)
				free -= gap
			}
			site += gap
			d.Instances = append(d.Instances, Instance{
				Name:   fmt.Sprintf("u%d", len(d.Instances)),
				Master: synthCells[k].name,
				X:      synthOrigin + site*w,
				Y:      synthOrigin + r*h,
				Orient: d.Rows[r].Orient,
			})
			site += synthCells[k].sites
		}
	}

	fixed := make(map[int]bool)
	for len(fixed) < min(o.FixedCells, len(d.Instances)) {
		fixed[rng.IntN(len(d.Instances))] = true
	}
	for i := range d.Instances {
		inst := &d.Instances[i]
		if fixed[i] {
			inst.Fixed = true
			continue
		}
		if o.Jitter > 0 {
			inst.X += rng.IntN(2*o.Jitter+1) - o.Jitter
			inst.Y += rng.IntN(o.Jitter+1) - o.Jitter/2
		}
	}

	synthNets(d, rng, o)
	synthRails(d, o)

	signal := len(d.Nets) - 2
	for i := 0; i < o.Terminals && signal > 0; i++ {
		name := fmt.Sprintf("p%d", i)
		x := d.Core.XMin
		if i%2 == 1 {
			x = d.Core.XMax - 100
		}
		y := d.Core.YMin + rng.IntN(coreH-100)
		net := &d.Nets[rng.IntN(signal)]
		net.BTerms = append(net.BTerms, name)
		d.BTerms = append(d.BTerms, BTerm{Name: name, Net: net.Name, BBox: geom.Rect{XMin: x, YMin: y, XMax: x + 100, YMax: y + 100}})
	}

	if o.Region {
		widths := make(map[string]int, len(synthCells))
		for _, c := range synthCells {
			widths[c.name] = c.sites * w
		}
		region := geom.Rect{XMin: d.Core.XMin, YMin: d.Core.YMin, XMax: d.Core.XMin + coreW/4, YMax: d.Core.YMin + o.Rows*h}
		g := Group{Name: "left_quarter", Region: []geom.Rect{region}}
		for i := range d.Instances {
			inst := &d.Instances[i]
			if !inst.Fixed && inst.X+widths[inst.Master]+o.Jitter <= region.XMax {
				g.Members = append(g.Members, inst.Name)
			}
		}
		d.Groups = append(d.Groups, g)
	}

	if o.EdgeSpacing {
		d.EdgeSpacing = []EdgeSpacingEntry{
			{Type1: "GATE", Type2: "GATE", Spacing: 2 * w},
			{Type1: DefaultEdgeType, Type2: "GATE", Spacing: 0},
		}
	}
	if o.PaddingSites > 0 {
		d.Padding = &Padding{Left: o.PaddingSites, Right: o.PaddingSites}
	}
	return d
}

func synthMaster(name string, sites int, inputs []string, w, h int, typed bool) Master {
	width := sites * w
	m := Master{Name: name, Class: ClassCore, Site: "core", Width: width, Height: h}
	pin := func(term, sig string, r geom.Rect) {
		m.Terms = append(m.Terms, MTerm{Name: term, SigType: sig, Pins: []MPin{{Boxes: []Box{{Layer: "metal1", Rect: r}}}}})
	}
	rail := h / 10
	pin("VDD", SigPower, geom.Rect{XMin: 0, YMin: h - rail, XMax: width, YMax: h})
	pin("VSS", SigGround, geom.Rect{XMin: 0, YMin: 0, XMax: width, YMax: rail})
	for i, in := range inputs {
		x := (i + 1) * width / (len(inputs) + 2)
		pin(in, SigSignal, geom.Rect{XMin: x - 35, YMin: h/2 - 70, XMax: x + 35, YMax: h/2 + 70})
	}
	x := width - width/(len(inputs)+2)
	pin("Z", SigSignal, geom.Rect{XMin: x - 35, YMin: h/2 - 70, XMax: x + 35, YMax: h/2 + 70})

	if typed && (name == "NAND2_X1" || name == "NOR2_X1") {
		m.Edges = []EdgeType{
			{Dir: geom.Left, Type: "GATE"},
			{Dir: geom.Right, Type: "GATE", HalfRow: 1},
			{Dir: geom.Top, Type: "GATE", Range: &EdgeRange{Begin: 0, End: w}},
		}
	}
	return m
}

func synthNets(d *Design, rng *rand.Rand, o SynthOptions) {
	vdd := Net{Name: "VDD", SigType: SigPower, Special: true}
	vss := Net{Name: "VSS", SigType: SigGround, Special: true}
	for i := range d.Instances {
		vdd.ITerms = append(vdd.ITerms, ITerm{Inst: d.Instances[i].Name, Term: "VDD"})
		vss.ITerms = append(vss.ITerms, ITerm{Inst: d.Instances[i].Name, Term: "VSS"})
	}

	n := len(d.Instances)
	inputs := make(map[string][]string, len(synthCells))
	for _, c := range synthCells {
		inputs[c.name] = c.terms
	}
	window := max(4, n/10)
	for k := 0; k < o.Nets && n > 1; k++ {
		net := Net{Name: fmt.Sprintf("n%d", k), SigType: SigSignal}
		drv := rng.IntN(n)
		net.ITerms = append(net.ITerms, ITerm{Inst: d.Instances[drv].Name, Term: "Z"})
		seen := map[int]bool{drv: true}
		fanout := 1 + rng.IntN(max(1, o.MaxFanout))
		for s := 0; s < fanout; s++ {
			var sink int
			if rng.IntN(10) == 0 {
				sink = rng.IntN(n)
			} else {
				sink = min(n-1, max(0, drv+rng.IntN(2*window+1)-window))
			}
			if seen[sink] {
				continue
			}
			seen[sink] = true
			terms := inputs[d.Instances[sink].Master]
			net.ITerms = append(net.ITerms, ITerm{Inst: d.Instances[sink].Name, Term: terms[rng.IntN(len(terms))]})
		}
		d.Nets = append(d.Nets, net)
	}
	d.Nets = append(d.Nets, vdd, vss)
}

// synthRails adds horizontal metal1 rails on every single-height row boundary
// plus a metal4 strap and a via that rail matching must ignore.
func synthRails(d *Design, o SynthOptions) {
	vdd, vss := &d.Nets[len(d.Nets)-2], &d.Nets[len(d.Nets)-1]
	half := o.RowHeight / 10
	var vddBoxes, vssBoxes []SBox
	for k := 0; k <= o.Rows; k++ {
		y := d.Core.YMin + k*o.RowHeight
		b := SBox{Layer: "metal1", Rect: geom.Rect{XMin: d.Core.XMin, YMin: y - half, XMax: d.Core.XMax, YMax: y + half}}
		if k%2 == 0 {
			vssBoxes = append(vssBoxes, b)
		} else {
			vddBoxes = append(vddBoxes, b)
		}
	}
	strap := SBox{Layer: "metal4", Rect: geom.Rect{XMin: d.Core.XMin + 400, YMin: d.Core.YMin, XMax: d.Core.XMin + 800, YMax: d.Core.YMax}}
	via := SBox{Layer: "metal1", Rect: geom.Rect{XMin: d.Core.XMin + 400, YMin: d.Core.YMin - half, XMax: d.Core.XMin + 800, YMax: d.Core.YMin + half}, Via: true}
	vdd.SWires = []SWire{{WireType: WireRouted, Boxes: append(vddBoxes, strap)}}
	vss.SWires = []SWire{{WireType: WireRouted, Boxes: append(vssBoxes, via)}}
}
