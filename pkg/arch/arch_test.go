package arch

import (
	"testing"

	"github.com/matzehuels/dplace/pkg/geom"
	"github.com/matzehuels/dplace/pkg/network"
)

func TestRowSnap(t *testing.T) {
	r := &Row{SubRowOrigin: 100, SiteSpacing: 200, SiteWidth: 200, NumSites: 10, Height: 2000}
	tests := []struct {
		x              int
		down, up, near int
	}{
		{100, 100, 100, 100},
		{150, 100, 300, 100},
		{250, 100, 300, 300},
		{200, 100, 300, 100},
		{-150, -300, -100, -100},
		{-250, -300, -100, -300},
	}
	for _, tt := range tests {
		if got := r.SnapDown(tt.x); got != tt.down {
			t.Errorf("SnapDown(%d) = %d, want %d", tt.x, got, tt.down)
		}
		if got := r.SnapUp(tt.x); got != tt.up {
			t.Errorf("SnapUp(%d) = %d, want %d", tt.x, got, tt.up)
		}
		if got := r.Snap(tt.x); got != tt.near {
			t.Errorf("Snap(%d) = %d, want %d", tt.x, got, tt.near)
		}
	}
	if !r.OnSite(700) || r.OnSite(750) {
		t.Error("OnSite() misclassifies site edges")
	}
	if r.Right() != 2100 || r.Top() != 2000 {
		t.Errorf("Right/Top = %d/%d, want 2100/2000", r.Right(), r.Top())
	}
}

func TestClipRows(t *testing.T) {
	a := New()
	a.AddRow(Row{SubRowOrigin: 0, Bottom: 0, SiteWidth: 200, SiteSpacing: 200, NumSites: 10, Height: 2000})
	a.AddRow(Row{SubRowOrigin: 0, Bottom: 2000, SiteWidth: 300, SiteSpacing: 200, NumSites: 10, Height: 2000})
	a.ComputeBounds()
	if a.MaxX != 2000 || a.MaxY != 4000 {
		t.Fatalf("bounds = %v, want x<=2000 y<=4000", a.Bounds())
	}
	a.MinX = 200
	a.ClipRows()

	if r := a.Rows[0]; r.SubRowOrigin != 200 || r.NumSites != 9 {
		t.Errorf("row 0 = origin %d sites %d, want 200/9", r.SubRowOrigin, r.NumSites)
	}
	// 200 + n*200 + 100 <= 2000 → n = 8
	if r := a.Rows[1]; r.NumSites != 8 {
		t.Errorf("row 1 sites = %d, want 8", r.NumSites)
	}
}

func TestSortRows(t *testing.T) {
	a := New()
	a.AddRow(Row{Bottom: 4000, SiteSpacing: 1})
	a.AddRow(Row{Bottom: 0, SubRowOrigin: 500, SiteSpacing: 1})
	a.AddRow(Row{Bottom: 0, SubRowOrigin: 0, SiteSpacing: 1})
	a.SortRows()
	for i, want := range []struct{ bottom, origin int }{{0, 0}, {0, 500}, {4000, 0}} {
		r := a.Rows[i]
		if r.ID != i || r.Bottom != want.bottom || r.SubRowOrigin != want.origin {
			t.Errorf("row %d = %+v, want bottom %d origin %d", i, *r, want.bottom, want.origin)
		}
	}
}

func TestSpacingTable(t *testing.T) {
	st := NewSpacingTable()
	st.Add("GATE", "DEFAULT", 200)
	st.Add("GATE", "GATE", 400)

	g, d := st.Index("GATE"), st.Index("DEFAULT")
	if g < 0 || d < 0 {
		t.Fatalf("Index() = %d, %d", g, d)
	}
	if st.Spacing(g, d) != 200 || st.Spacing(d, g) != 200 {
		t.Error("Spacing() must be symmetric")
	}
	if st.Spacing(d, d) != 0 {
		t.Errorf("Spacing(DEFAULT, DEFAULT) = %d, want 0", st.Spacing(d, d))
	}
	if st.Index("OTHER") != -1 {
		t.Error("Index() of unknown type should be -1")
	}
	if st.Max() != 400 || st.Len() != 2 {
		t.Errorf("Max/Len = %d/%d, want 400/2", st.Max(), st.Len())
	}

	var none *SpacingTable
	if none.Index("GATE") != -1 || none.Spacing(0, 0) != 0 || none.Len() != 0 {
		t.Error("nil SpacingTable should behave as empty")
	}
}

func TestOrientFor(t *testing.T) {
	rowVSS := &Row{Orient: geom.R0, BottomPower: network.VSS, TopPower: network.VDD, Symmetry: SymmetryX | SymmetryY}
	rowVDD := &Row{Orient: geom.MX, BottomPower: network.VDD, TopPower: network.VSS, Symmetry: SymmetryX | SymmetryY}
	noFlip := &Row{Orient: geom.MX, BottomPower: network.VDD, Symmetry: SymmetryY}
	unknown := &Row{Orient: geom.MX}

	cell := &network.Node{BottomPower: network.VSS, TopPower: network.VDD}
	mirrored := &network.Node{BottomPower: network.VSS, TopPower: network.VDD, Orient: geom.MY}

	a := New()
	tests := []struct {
		name string
		nd   *network.Node
		row  *Row
		want geom.Orient
		ok   bool
	}{
		{"matching rails", cell, rowVSS, geom.R0, true},
		{"flipped rails", cell, rowVDD, geom.MX, true},
		{"flip not allowed", cell, noFlip, geom.MX, false},
		{"no rail info", cell, unknown, geom.MX, true},
		{"keeps Y mirror", mirrored, rowVDD, geom.R180, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := a.OrientFor(tt.nd, tt.row)
			if got != tt.want || ok != tt.ok {
				t.Errorf("OrientFor() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestPadding(t *testing.T) {
	a := New()
	a.AddCellPadding(3, 200, 400)
	if l, r := a.Padding(3); l != 0 || r != 0 {
		t.Errorf("Padding() with UsePadding off = (%d, %d), want zeros", l, r)
	}
	a.UsePadding = true
	if l, r := a.Padding(3); l != 200 || r != 400 {
		t.Errorf("Padding(3) = (%d, %d), want (200, 400)", l, r)
	}
	if l, r := a.Padding(4); l != 0 || r != 0 {
		t.Errorf("Padding(4) = (%d, %d), want zeros", l, r)
	}
}

func TestSymmetryString(t *testing.T) {
	if got := (SymmetryX | SymmetryR90).String(); got != "X R90" {
		t.Errorf("String() = %q, want %q", got, "X R90")
	}
}
