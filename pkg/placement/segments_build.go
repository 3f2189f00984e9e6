package placement

import (
	"slices"

	"github.com/matzehuels/dplace/pkg/arch"
	"github.com/matzehuels/dplace/pkg/geom"
	"github.com/matzehuels/dplace/pkg/network"
)

// buildSegments splits every row into the spans usable by each region. The
// default region gets the row minus obstructions and minus every explicit
// region; an explicit region gets the parts of its rectangles that cover the
// full row height, minus obstructions.
func (m *Manager) buildSegments() {
	for ri, row := range m.Arch.Rows {
		rr := row.Rect()
		blocked := m.obstructions(row)

		for _, reg := range m.Arch.Regions {
			var allowed [][2]int
			if reg.ID == 0 {
				lanes := slices.Clone(blocked)
				for _, other := range m.Arch.Regions[1:] {
					for _, r := range other.Rects {
						if r.Overlaps(rr) {
							lanes = append(lanes, [2]int{r.XMin, r.XMax})
						}
					}
				}
				allowed = freeSpans(rr.XMin, rr.XMax, row.Bottom, lanes)
			} else {
				for _, r := range reg.Rects {
					if r.YMin > rr.YMin || r.YMax < rr.YMax {
						continue
					}
					lo, hi := max(r.XMin, rr.XMin), min(r.XMax, rr.XMax)
					if lo < hi {
						allowed = append(allowed, freeSpans(lo, hi, row.Bottom, blocked)...)
					}
				}
			}

			for _, span := range allowed {
				lo, hi := row.SnapUp(span[0]), row.SnapDown(span[1])
				hi = min(hi, row.Right())
				if hi-lo < row.SiteSpacing {
					continue
				}
				s := &Segment{ID: len(m.Segments), Row: ri, Region: reg.ID, Min: lo, Max: hi}
				m.Segments = append(m.Segments, s)
				m.rowSegs[ri] = append(m.rowSegs[ri], s)
			}
		}
		slices.SortFunc(m.rowSegs[ri], func(a, b *Segment) int { return a.Min - b.Min })
	}
}

// obstructions returns the x spans of row blocked by hard blockages and by
// cells this manager does not move.
func (m *Manager) obstructions(row *arch.Row) [][2]int {
	rr := row.Rect()
	var out [][2]int
	for _, b := range m.Network.Blockages {
		if b.Overlaps(rr) {
			out = append(out, [2]int{b.XMin, b.XMax})
		}
	}
	for i := range m.Network.Nodes {
		nd := &m.Network.Nodes[i]
		if m.managed[i] || nd.Type != network.Cell {
			continue
		}
		if r := nd.Rect(); r.Overlaps(rr) {
			out = append(out, [2]int{r.XMin, r.XMax})
		}
	}
	return out
}

// freeSpans returns [lo, hi] minus the blocked spans, as a horizontal segment
// difference at height y.
func freeSpans(lo, hi, y int, blocked [][2]int) [][2]int {
	parent := geom.Rect{XMin: lo, YMin: y, XMax: hi, YMax: y}
	var children []geom.Rect
	for _, b := range blocked {
		bl, bh := max(b[0], lo), min(b[1], hi)
		if bl < bh {
			children = append(children, geom.Rect{XMin: bl, YMin: y, XMax: bh, YMax: y})
		}
	}
	var out [][2]int
	for _, r := range geom.Difference(parent, children) {
		out = append(out, [2]int{r.XMin, r.XMax})
	}
	return out
}
