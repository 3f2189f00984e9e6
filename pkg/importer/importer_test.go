package importer

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dplace/pkg/design"
	"github.com/matzehuels/dplace/pkg/errors"
	"github.com/matzehuels/dplace/pkg/geom"
	"github.com/matzehuels/dplace/pkg/network"
)

func mustImport(t *testing.T, d *design.Design) *Result {
	t.Helper()
	res, err := Import(d, Options{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	return res
}

func nodeByName(t *testing.T, nw *network.Network, name string) *network.Node {
	t.Helper()
	for i := range nw.Nodes {
		if nw.Nodes[i].Name == name {
			return &nw.Nodes[i]
		}
	}
	t.Fatalf("node %s not found", name)
	return nil
}

func TestImportDeterministic(t *testing.T) {
	d := design.Synthesize(design.DefaultSynthOptions())
	a := mustImport(t, d)
	b := mustImport(t, d.Clone())

	if len(a.Network.Nodes) != len(b.Network.Nodes) {
		t.Fatalf("node counts differ: %d vs %d", len(a.Network.Nodes), len(b.Network.Nodes))
	}
	for i := range a.Network.Nodes {
		na, nb := &a.Network.Nodes[i], &b.Network.Nodes[i]
		if na.Name != nb.Name || na.ID != nb.ID {
			t.Errorf("node %d = %s/%d, want %s/%d", i, nb.Name, nb.ID, na.Name, na.ID)
		}
	}
	for i := range a.Network.Pins {
		pa, pb := a.Network.Pins[i], b.Network.Pins[i]
		if pa != pb {
			t.Errorf("pin %d = %+v, want %+v", i, pb, pa)
		}
	}
	for i := range a.Network.Edges {
		if a.Network.Edges[i].Name != b.Network.Edges[i].Name {
			t.Errorf("edge %d = %s, want %s", i, b.Network.Edges[i].Name, a.Network.Edges[i].Name)
		}
	}
}

func TestImportSortsCellsByName(t *testing.T) {
	res := mustImport(t, design.Synthesize(design.DefaultSynthOptions()))
	var names []string
	for _, nd := range res.Network.Nodes {
		if nd.Type == network.Cell {
			names = append(names, nd.Name)
		}
	}
	if !slices.IsSorted(names) {
		t.Errorf("cell nodes not in name order: %v", names[:min(8, len(names))])
	}
}

func TestImportOrderIndependent(t *testing.T) {
	base := mustImport(t, design.Synthesize(design.DefaultSynthOptions()))
	tests := []struct {
		name    string
		reorder func([]design.Instance)
	}{
		{"reversed", slices.Reverse[[]design.Instance]},
		{"rotated", func(in []design.Instance) {
			head := slices.Clone(in[:3])
			copy(in, in[3:])
			copy(in[len(in)-3:], head)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := design.Synthesize(design.DefaultSynthOptions())
			tt.reorder(d.Instances)
			got := mustImport(t, d)
			for i := range base.Network.Nodes {
				if g, w := got.Network.Nodes[i].Name, base.Network.Nodes[i].Name; g != w {
					t.Errorf("node %d = %s, want %s", i, g, w)
				}
			}
		})
	}
}

func TestImportCounts(t *testing.T) {
	o := design.DefaultSynthOptions()
	o.Blockage = true
	d := design.Synthesize(o)
	res := mustImport(t, d)
	st := res.Network.Stats()

	if st.Cells != len(d.Instances) {
		t.Errorf("Cells = %d, want %d", st.Cells, len(d.Instances))
	}
	if st.Terminals != o.Terminals {
		t.Errorf("Terminals = %d, want %d", st.Terminals, o.Terminals)
	}
	if st.Edges != len(d.Nets)-2 {
		t.Errorf("Edges = %d, want %d (supply nets excluded)", st.Edges, len(d.Nets)-2)
	}
	if st.Blockages != 1 {
		t.Errorf("Blockages = %d, want 1 (soft excluded)", st.Blockages)
	}
	want := geom.Rect{XMin: 8000, YMin: 2000, XMax: 9200, YMax: 4000}
	if got := res.Network.Blockages[0]; got != want {
		t.Errorf("blockage = %+v, want %+v", got, want)
	}
}

func TestImportNormalizesOrientation(t *testing.T) {
	d := design.Synthesize(design.DefaultSynthOptions())
	res := mustImport(t, d)
	for _, inst := range d.Instances {
		nd := nodeByName(t, res.Network, inst.Name)
		if inst.Fixed {
			if nd.Orient != inst.Orient {
				t.Errorf("fixed %s orient = %v, want %v", inst.Name, nd.Orient, inst.Orient)
			}
		} else if nd.Orient != geom.R0 {
			t.Errorf("movable %s orient = %v, want R0", inst.Name, nd.Orient)
		}
		if nd.Left != inst.X-d.Core.XMin || nd.Bottom != inst.Y-d.Core.YMin {
			t.Errorf("%s at (%d,%d), want core-relative (%d,%d)",
				inst.Name, nd.Left, nd.Bottom, inst.X-d.Core.XMin, inst.Y-d.Core.YMin)
		}
	}
}

func TestImportMasterPowers(t *testing.T) {
	res := mustImport(t, design.Synthesize(design.DefaultSynthOptions()))
	for _, nd := range res.Network.Nodes {
		if nd.Type != network.Cell {
			continue
		}
		if nd.TopPower != network.VDD || nd.BottomPower != network.VSS {
			t.Fatalf("%s powers = %v/%v, want VDD/VSS", nd.Name, nd.TopPower, nd.BottomPower)
		}
	}
}

func TestImportRowRails(t *testing.T) {
	res := mustImport(t, design.Synthesize(design.DefaultSynthOptions()))
	for _, r := range res.Arch.Rows {
		bottom, top := network.VSS, network.VDD
		if r.ID%2 == 1 {
			bottom, top = network.VDD, network.VSS
		}
		if r.BottomPower != bottom || r.TopPower != top {
			t.Errorf("row %d rails = %v/%v, want %v/%v", r.ID, r.BottomPower, r.TopPower, bottom, top)
		}
	}
}

func TestImportSkipsTallRows(t *testing.T) {
	o := design.DefaultSynthOptions()
	o.MultiHeightRows = 1
	d := design.Synthesize(o)

	var buf bytes.Buffer
	res, err := Import(d, Options{Logger: log.New(&buf)})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(res.Arch.Rows) != o.Rows {
		t.Errorf("rows = %d, want %d", len(res.Arch.Rows), o.Rows)
	}
	if len(res.SkippedRows) != 1 {
		t.Fatalf("SkippedRows = %+v, want one entry", res.SkippedRows)
	}
	sk := res.SkippedRows[0]
	if sk.Height != 2*o.RowHeight || !slices.Equal(sk.Sites, []string{"core_2h"}) || !slices.Equal(sk.Rows, []string{"ROW_2H_0"}) {
		t.Errorf("SkippedRows[0] = %+v", sk)
	}
	var found bool
	for _, w := range res.Warnings {
		if w.Num == 108 && strings.Contains(w.Message, "core_2h") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want 108 naming core_2h", res.Warnings)
	}
	if !strings.Contains(buf.String(), "code=108") {
		t.Errorf("log = %q, want code=108", buf.String())
	}
	if res.MinRowHeight != o.RowHeight {
		t.Errorf("MinRowHeight = %d, want %d", res.MinRowHeight, o.RowHeight)
	}
}

func TestImportArchitectureBounds(t *testing.T) {
	o := design.DefaultSynthOptions()
	d := design.Synthesize(o)
	// A row overhanging the core on both sides is clipped to the others.
	d.Rows[2].X -= 2 * o.SiteWidth
	d.Rows[2].Count += 4

	res := mustImport(t, d)
	a := res.Arch
	if a.MinX != -2*o.SiteWidth || a.MaxX != (o.SitesPerRow+2)*o.SiteWidth {
		t.Fatalf("bounds x = [%d,%d]", a.MinX, a.MaxX)
	}
	for i, r := range a.Rows {
		if r.ID != i {
			t.Errorf("row %d has id %d", i, r.ID)
		}
		if r.Left() < a.MinX || r.Right() > a.MaxX {
			t.Errorf("row %d [%d,%d] outside [%d,%d]", i, r.Left(), r.Right(), a.MinX, a.MaxX)
		}
		if i > 0 && a.Rows[i-1].Bottom > r.Bottom {
			t.Errorf("rows not sorted at %d", i)
		}
	}
}

func TestImportNoRows(t *testing.T) {
	d := design.Synthesize(design.DefaultSynthOptions())
	d.Rows = nil
	_, err := Import(d, Options{})
	if !errors.Is(err, errors.ErrCodeInvalidDesign) || errors.GetNum(err) != 112 {
		t.Errorf("err = %v, want INVALID_DESIGN 112", err)
	}
}

func TestImportVerticalRowWarning(t *testing.T) {
	d := design.Synthesize(design.DefaultSynthOptions())
	d.Rows[0].Direction = design.RowVertical
	res := mustImport(t, d)
	var found bool
	for _, w := range res.Warnings {
		found = found || w.Num == 111
	}
	if !found {
		t.Errorf("warnings = %v, want 111", res.Warnings)
	}
	if len(res.Arch.Rows) != len(d.Rows)-1 {
		t.Errorf("rows = %d, want %d", len(res.Arch.Rows), len(d.Rows)-1)
	}
}

func TestImportTerminalMismatch(t *testing.T) {
	d := design.Synthesize(design.DefaultSynthOptions())
	// Listed by a net but not pointing at any net itself: no terminal node.
	d.BTerms = append(d.BTerms, design.BTerm{Name: "orphan", BBox: geom.Rect{XMax: 10, YMax: 10}})
	d.Nets[0].BTerms = append(d.Nets[0].BTerms, "orphan")

	_, err := Import(d, Options{})
	if !errors.Is(err, errors.ErrCodeConsistency) || errors.GetNum(err) != 105 {
		t.Errorf("err = %v, want INTERNAL_CONSISTENCY 105", err)
	}
}

func TestImportPinOffsets(t *testing.T) {
	d := design.Synthesize(design.DefaultSynthOptions())
	res := mustImport(t, d)
	x := design.NewIndex(d)
	nw := res.Network

	for _, p := range nw.Pins {
		nd := &nw.Nodes[p.Node]
		if nd.Type != network.Cell {
			if p.OffsetX != 0 || p.OffsetY != 0 {
				t.Errorf("terminal pin %d offset (%d,%d)", p.ID, p.OffsetX, p.OffsetY)
			}
			continue
		}
		m := x.Master(d.Instances[nd.Inst].Master)
		if p.OffsetX < -m.Width/2 || p.OffsetX > m.Width/2 || p.OffsetY < -m.Height/2 || p.OffsetY > m.Height/2 {
			t.Errorf("pin %d offset (%d,%d) outside %s", p.ID, p.OffsetX, p.OffsetY, m.Name)
		}
		if p.Width != 70 || p.Height != 140 {
			t.Errorf("pin %d size = %dx%d, want 70x140", p.ID, p.Width, p.Height)
		}
	}
}

func TestImportEdgeTyping(t *testing.T) {
	o := design.DefaultSynthOptions()
	o.EdgeSpacing = true
	o.OneSiteFiller = true
	d := design.Synthesize(o)
	res := mustImport(t, d)

	gate := res.Arch.Spacing.Index("GATE")
	def := res.Arch.Spacing.Index(design.DefaultEdgeType)
	if gate < 0 || def < 0 {
		t.Fatalf("spacing table missing types: gate=%d default=%d", gate, def)
	}

	masters := make(map[string]*network.Master)
	for _, m := range res.Network.Masters {
		masters[m.Name] = m
	}

	nand := masters["NAND2_X1"]
	if nand == nil {
		t.Fatal("NAND2_X1 master not built")
	}
	want := []network.MasterEdge{
		{Type: gate, Dir: geom.Left, Rect: geom.Rect{XMin: 0, YMin: 0, XMax: 0, YMax: 2000}},
		{Type: gate, Dir: geom.Right, Rect: geom.Rect{XMin: 600, YMin: 0, XMax: 600, YMax: 1000}},
		{Type: gate, Dir: geom.Top, Rect: geom.Rect{XMin: 0, YMin: 2000, XMax: 200, YMax: 2000}},
		{Type: def, Dir: geom.Right, Rect: geom.Rect{XMin: 600, YMin: 1000, XMax: 600, YMax: 2000}},
		{Type: def, Dir: geom.Top, Rect: geom.Rect{XMin: 200, YMin: 2000, XMax: 600, YMax: 2000}},
		{Type: def, Dir: geom.Bottom, Rect: geom.Rect{XMin: 0, YMin: 0, XMax: 600, YMax: 0}},
	}
	if !slices.Equal(nand.Edges, want) {
		t.Errorf("NAND2_X1 edges = %+v\nwant %+v", nand.Edges, want)
	}

	if inv := masters["INV_X1"]; inv != nil {
		if len(inv.Edges) != 4 {
			t.Errorf("INV_X1 has %d edges, want 4 default sides", len(inv.Edges))
		}
		for _, e := range inv.Edges {
			if e.Type != def {
				t.Errorf("INV_X1 edge %+v not DEFAULT", e)
			}
		}
	}
}

func TestImportNoSpacingTable(t *testing.T) {
	res := mustImport(t, design.Synthesize(design.DefaultSynthOptions()))
	if res.Arch.Spacing != nil {
		t.Error("Spacing set without an edge-spacing table")
	}
	for _, m := range res.Network.Masters {
		if len(m.Edges) != 0 {
			t.Errorf("%s has %d edges without a spacing table", m.Name, len(m.Edges))
		}
	}
}

func TestImportGroupsFirstClaim(t *testing.T) {
	o := design.DefaultSynthOptions()
	o.Region = true
	d := design.Synthesize(o)
	members := d.Groups[0].Members
	if len(members) == 0 {
		t.Fatal("synthesized region has no members")
	}
	d.Groups = append(d.Groups, design.Group{
		Name:    "again",
		Members: members[:1],
		Region:  []geom.Rect{d.Core},
	})

	res := mustImport(t, d)
	if len(res.Arch.Regions) != 3 {
		t.Fatalf("regions = %d, want 3", len(res.Arch.Regions))
	}
	if got := res.Arch.Regions[0].Boundary; got != res.Arch.Bounds() {
		t.Errorf("region 0 = %+v, want architecture bounds", got)
	}
	for _, name := range members {
		if nd := nodeByName(t, res.Network, name); nd.GroupID != 1 {
			t.Errorf("%s GroupID = %d, want 1", name, nd.GroupID)
		}
	}
	reg := res.Arch.Regions[1]
	want := geom.Rect{XMin: 0, YMin: 0, XMax: o.SitesPerRow * o.SiteWidth / 4, YMax: o.Rows * o.RowHeight}
	if reg.Boundary != want {
		t.Errorf("region 1 boundary = %+v, want %+v", reg.Boundary, want)
	}
}

func TestImportPadding(t *testing.T) {
	o := design.DefaultSynthOptions()
	o.PaddingSites = 1
	d := design.Synthesize(o)
	d.Padding.Masters = map[string]design.SidePad{"DFF_X1": {Left: 2, Right: 0}}

	res := mustImport(t, d)
	if !res.Arch.UsePadding {
		t.Fatal("UsePadding = false")
	}
	for _, nd := range res.Network.Nodes {
		if nd.Type != network.Cell {
			continue
		}
		l, r := res.Arch.Padding(nd.ID)
		wl, wr := o.SiteWidth, o.SiteWidth
		if d.Instances[nd.Inst].Master == "DFF_X1" {
			wl, wr = 2*o.SiteWidth, 0
		}
		if l != wl || r != wr {
			t.Errorf("%s padding = %d/%d, want %d/%d", nd.Name, l, r, wl, wr)
		}
	}
}

func TestImportPlaceablePredicate(t *testing.T) {
	d := design.Synthesize(design.DefaultSynthOptions())
	notDFF := func(m *design.Master) bool { return DefaultPlaceable(m) && m.Name != "DFF_X1" }
	res, err := Import(d, Options{Placeable: notDFF})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	var dffs int
	for _, inst := range d.Instances {
		if inst.Master == "DFF_X1" {
			dffs++
		}
	}
	if got := res.Network.Stats().Cells; got != len(d.Instances)-dffs {
		t.Errorf("Cells = %d, want %d", got, len(d.Instances)-dffs)
	}
	// DFFs inside the core become blockages.
	if got := res.Network.Stats().Blockages; got != dffs {
		t.Errorf("Blockages = %d, want %d", got, dffs)
	}
}
