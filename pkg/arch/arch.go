// Package arch models the legal-placement substrate: rows of sites, placement
// regions, per-row power rails, cell padding and the cell edge-spacing table.
package arch

import (
	"slices"
	"strings"

	"github.com/matzehuels/dplace/pkg/geom"
	"github.com/matzehuels/dplace/pkg/network"
)

// Symmetry is the set of site symmetries, each independently settable.
type Symmetry uint8

const (
	SymmetryX   Symmetry = 1 << iota // mirror about the X axis (MX) allowed
	SymmetryY                        // mirror about the Y axis (MY) allowed
	SymmetryR90                      // 90 degree rotation allowed
)

func (s Symmetry) String() string {
	var parts []string
	if s&SymmetryX != 0 {
		parts = append(parts, "X")
	}
	if s&SymmetryY != 0 {
		parts = append(parts, "Y")
	}
	if s&SymmetryR90 != 0 {
		parts = append(parts, "R90")
	}
	return strings.Join(parts, " ")
}

// Row is one legalization row.
type Row struct {
	ID           int
	SubRowOrigin int
	Bottom       int
	SiteWidth    int
	SiteSpacing  int
	NumSites     int
	Height       int
	Orient       geom.Orient
	Symmetry     Symmetry
	TopPower     network.Power
	BottomPower  network.Power
}

// Left returns the x of the first site.
func (r *Row) Left() int { return r.SubRowOrigin }

// Right returns the x just past the last site.
func (r *Row) Right() int { return r.SubRowOrigin + r.NumSites*r.SiteSpacing }

// Top returns the top of the row.
func (r *Row) Top() int { return r.Bottom + r.Height }

// Rect returns the row's extent.
func (r *Row) Rect() geom.Rect {
	return geom.Rect{XMin: r.Left(), YMin: r.Bottom, XMax: r.Right(), YMax: r.Top()}
}

// OnSite reports whether x is the left edge of a site.
func (r *Row) OnSite(x int) bool {
	return (x-r.SubRowOrigin)%r.SiteSpacing == 0
}

// SnapDown returns the closest site left edge at or below x.
func (r *Row) SnapDown(x int) int {
	off := x - r.SubRowOrigin
	q := off / r.SiteSpacing
	if off < 0 && off%r.SiteSpacing != 0 {
		q--
	}
	return r.SubRowOrigin + q*r.SiteSpacing
}

// SnapUp returns the closest site left edge at or above x.
func (r *Row) SnapUp(x int) int {
	s := r.SnapDown(x)
	if s < x {
		s += r.SiteSpacing
	}
	return s
}

// Snap returns the site left edge nearest to x, ties rounding down.
func (r *Row) Snap(x int) int {
	lo := r.SnapDown(x)
	if x-lo > r.SiteSpacing/2 {
		return lo + r.SiteSpacing
	}
	return lo
}

// Region is a placement area. Region 0 is the default region and covers the
// whole architecture.
type Region struct {
	ID       int
	Name     string
	Rects    []geom.Rect
	Boundary geom.Rect
}

// Architecture is the set of rows and regions a run legalizes into.
type Architecture struct {
	Rows    []*Row
	Regions []*Region
	MinX    int
	MaxX    int
	MinY    int
	MaxY    int

	Spacing    *SpacingTable
	UsePadding bool

	padLeft  map[int]int
	padRight map[int]int
}

// New returns an empty architecture with no padding and no spacing table.
func New() *Architecture {
	return &Architecture{padLeft: make(map[int]int), padRight: make(map[int]int)}
}

// AddRow appends a row and assigns its id.
func (a *Architecture) AddRow(r Row) *Row {
	r.ID = len(a.Rows)
	row := &r
	a.Rows = append(a.Rows, row)
	return row
}

// AddRegion appends a region and assigns its id.
func (a *Architecture) AddRegion(name string) *Region {
	reg := &Region{ID: len(a.Regions), Name: name}
	a.Regions = append(a.Regions, reg)
	return reg
}

// Bounds returns the architecture bounding box.
func (a *Architecture) Bounds() geom.Rect {
	return geom.Rect{XMin: a.MinX, YMin: a.MinY, XMax: a.MaxX, YMax: a.MaxY}
}

// ComputeBounds sets MinX, MaxX, MinY and MaxY from the rows.
func (a *Architecture) ComputeBounds() {
	var bb geom.BBox
	for _, r := range a.Rows {
		bb.Add(r.Rect())
	}
	b := bb.Rect()
	a.MinX, a.MinY, a.MaxX, a.MaxY = b.XMin, b.YMin, b.XMax, b.YMax
}

// ClipRows restricts every row's site span to [MinX, MaxX]. The last site
// must end at or before MaxX even when sites are wider than their spacing.
func (a *Architecture) ClipRows() {
	for _, r := range a.Rows {
		endGap := r.SiteWidth - r.SiteSpacing
		if r.SubRowOrigin < a.MinX {
			r.SubRowOrigin = a.MinX
		}
		if r.SubRowOrigin+r.NumSites*r.SiteSpacing+endGap > a.MaxX {
			r.NumSites = max(0, (a.MaxX-endGap-r.SubRowOrigin)/r.SiteSpacing)
		}
	}
}

// SortRows orders rows bottom to top, then left to right, and renumbers them.
func (a *Architecture) SortRows() {
	slices.SortStableFunc(a.Rows, func(x, y *Row) int {
		if x.Bottom != y.Bottom {
			return x.Bottom - y.Bottom
		}
		return x.SubRowOrigin - y.SubRowOrigin
	})
	for i, r := range a.Rows {
		r.ID = i
	}
}

// RowHeight returns the single-row height, or zero with no rows.
func (a *Architecture) RowHeight() int {
	if len(a.Rows) == 0 {
		return 0
	}
	return a.Rows[0].Height
}

// AddCellPadding records left and right padding, in DBU, for a node.
func (a *Architecture) AddCellPadding(node, left, right int) {
	if left != 0 {
		a.padLeft[node] = left
	}
	if right != 0 {
		a.padRight[node] = right
	}
}

// Padding returns a node's padding, or zeros when padding is disabled.
func (a *Architecture) Padding(node int) (left, right int) {
	if !a.UsePadding {
		return 0, 0
	}
	return a.padLeft[node], a.padRight[node]
}

// OrientFor picks the orientation of nd when placed in r. Rows with known
// rails decide by power: a matching bottom rail gives R0, a mismatch gives MX
// when the site allows X symmetry. Without rail information the row
// orientation is used. A left-right mirror already on nd is kept. ok is false
// when the rails disagree and the site cannot be flipped.
func (a *Architecture) OrientFor(nd *network.Node, r *Row) (o geom.Orient, ok bool) {
	o, ok = r.Orient, true
	if nd.BottomPower != network.PowerUnknown && r.BottomPower != network.PowerUnknown {
		switch {
		case nd.BottomPower == r.BottomPower:
			o = geom.R0
		case r.Symmetry&SymmetryX != 0:
			o = geom.MX
		default:
			ok = false
		}
	}
	if nd.Orient.FlipsLeftRight() && !o.Rotated() {
		o = o.FlipLeftRight()
	}
	return o, ok
}
