package legalize

import (
	"cmp"
	"slices"

	"github.com/matzehuels/dplace/pkg/errors"
	"github.com/matzehuels/dplace/pkg/network"
	"github.com/matzehuels/dplace/pkg/placement"
)

// Legalizer places the managed cells of m legally.
type Legalizer interface {
	Legalize(m *placement.Manager) (*Stats, error)
}

// Stats summarizes a legalization.
type Stats struct {
	Placed            int
	Unplaced          int
	MultiHeight       int
	Overflows         int
	TotalDisplacement int64
	MaxDisplacement   int
	Warnings          []errors.Warning
}

// Shift is the shift-and-snap legalizer.
type Shift struct{}

var _ Legalizer = Shift{}

// Legalize implements [Legalizer].
func (Shift) Legalize(m *placement.Manager) (*Stats, error) {
	nw := m.Network
	warn := errors.Warnings{Logger: m.Logger()}
	st := &Stats{}

	for i := range nw.Nodes {
		if nw.Nodes[i].Movable() && !m.Managed(i) {
			st.MultiHeight++
		}
	}
	if st.MultiHeight > 0 {
		warn.Add(303, "Treating %d multi-height cells as fixed obstructions.", st.MultiHeight)
	}

	bySeg := assign(m, &warn)
	for _, s := range m.Segments {
		if cells := bySeg[s.ID]; len(cells) > 0 && !fits(m, s, cells) {
			st.Overflows++
			warn.Add(302, "Unable to fit %d cells into segment [%d,%d] of row %d.",
				len(cells), s.Min, s.Max, m.Row(s).ID)
			spill(m, s, bySeg, &warn)
		}
	}
	for _, s := range m.Segments {
		if cells := bySeg[s.ID]; len(cells) > 0 {
			pack(m, s, cells)
		}
	}

	for _, n := range m.ManagedNodes() {
		if m.SegmentOf(n) == nil {
			st.Unplaced++
			continue
		}
		st.Placed++
		d := nw.Nodes[n].Displacement()
		st.TotalDisplacement += int64(d)
		st.MaxDisplacement = max(st.MaxDisplacement, d)
	}
	st.Warnings = warn.List

	m.Logger().Info("legalization complete",
		"placed", st.Placed,
		"unplaced", st.Unplaced,
		"displacement", st.TotalDisplacement,
		"max_displacement", st.MaxDisplacement)
	return st, nil
}

// assign picks a segment for every managed cell: the one of its region with
// the least displacement from the original position that still has room.
// Cells are visited in id order. It returns the chosen cells per segment.
func assign(m *placement.Manager, warn *errors.Warnings) map[int][]int {
	nw := m.Network
	used := make(map[int]int, len(m.Segments))
	bySeg := make(map[int][]int)
	byRegion := make(map[int][]*placement.Segment)

	for _, n := range m.ManagedNodes() {
		m.Unassign(n)
		nd := &nw.Nodes[n]
		segs, ok := byRegion[nd.GroupID]
		if !ok {
			segs = m.RegionSegments(nd.GroupID)
			byRegion[nd.GroupID] = segs
		}

		var best *placement.Segment
		for _, s := range ranked(m, nd, segs) {
			if s.Width()-used[s.ID] >= reserve(m, n, s) || fitsWith(m, s, bySeg[s.ID], n) {
				best = s
				break
			}
		}
		if best == nil {
			warn.Add(301, "Unable to find a segment with room for cell %s.", nd.Name)
			continue
		}
		used[best.ID] += reserve(m, n, best)
		bySeg[best.ID] = append(bySeg[best.ID], n)
	}
	return bySeg
}

// spill moves cells out of the overflowing segment s until the rest fit.
// The cell farthest from its original position goes first, to the cheapest
// other segment of its region that can take it. Cells nothing can take stay
// unplaced.
func spill(m *placement.Manager, s *placement.Segment, bySeg map[int][]int, warn *errors.Warnings) {
	nw := m.Network
	for cells := bySeg[s.ID]; len(cells) > 0 && !fits(m, s, cells); cells = bySeg[s.ID] {
		worst := 0
		for i, c := range cells {
			if cost(m, &nw.Nodes[c], s) >= cost(m, &nw.Nodes[cells[worst]], s) {
				worst = i
			}
		}
		n := cells[worst]
		bySeg[s.ID] = slices.Delete(slices.Clone(cells), worst, worst+1)

		nd := &nw.Nodes[n]
		moved := false
		for _, t := range ranked(m, nd, m.RegionSegments(nd.GroupID)) {
			if t != s && fitsWith(m, t, bySeg[t.ID], n) {
				bySeg[t.ID] = append(bySeg[t.ID], n)
				moved = true
				break
			}
		}
		if !moved {
			warn.Add(301, "Unable to find a segment with room for cell %s.", nd.Name)
		}
	}
}

// ranked returns segs ordered by [cost] for nd, ties broken by segment id.
func ranked(m *placement.Manager, nd *network.Node, segs []*placement.Segment) []*placement.Segment {
	out := slices.Clone(segs)
	slices.SortStableFunc(out, func(a, b *placement.Segment) int {
		return cmp.Or(cmp.Compare(cost(m, nd, a), cost(m, nd, b)), cmp.Compare(a.ID, b.ID))
	})
	return out
}

// reserve is the room cell n claims in s: its width, padding and the widest
// edge spacing rounded up to whole sites, plus two sites when one-site gaps
// are illegal. A segment whose reservations sum to at most its width always
// packs.
func reserve(m *placement.Manager, n int, s *placement.Segment) int {
	sp := m.Row(s).SiteSpacing
	l, r := m.Arch.Padding(n)
	need := m.Network.Nodes[n].Width + l + r + m.Arch.Spacing.Max()
	need = (need + sp - 1) / sp * sp
	if m.DisallowOneSiteGaps() {
		need += 2 * sp
	}
	return need
}

// cost is the Manhattan distance from the original position of nd to the
// nearest spot in s.
func cost(m *placement.Manager, nd *network.Node, s *placement.Segment) int {
	row := m.Row(s)
	dy := abs(row.Bottom - nd.OrigBottom)
	x := min(max(nd.OrigLeft, s.Min), s.Max-nd.Width)
	return dy + abs(x-nd.OrigLeft)
}

// fitsWith reports whether cells plus n pack into s.
func fitsWith(m *placement.Manager, s *placement.Segment, cells []int, n int) bool {
	return fits(m, s, append(slices.Clone(cells), n))
}

func fits(m *placement.Manager, s *placement.Segment, cells []int) bool {
	_, ok := layout(m, s, slices.Clone(cells))
	return ok
}

// pack places cells into s in original x order. The cells must fit.
func pack(m *placement.Manager, s *placement.Segment, cells []int) {
	xs, _ := layout(m, s, cells)
	for i, c := range cells {
		m.Assign(c, xs[i], s, m.Network.Nodes[c].Orient)
	}
}

// layout sorts cells by original x and computes their packed left edges in
// s. It sets each cell's orientation and bottom for s and reports whether
// every cell lies inside the segment.
func layout(m *placement.Manager, s *placement.Segment, cells []int) ([]int, bool) {
	nw := m.Network
	row := m.Row(s)
	sp := row.SiteSpacing
	noGaps := m.DisallowOneSiteGaps()

	slices.SortStableFunc(cells, func(a, b int) int {
		return cmp.Or(
			cmp.Compare(nw.Nodes[a].OrigLeft, nw.Nodes[b].OrigLeft),
			cmp.Compare(a, b),
		)
	})

	// Orientation and row first: required gaps depend on both.
	for _, c := range cells {
		nd := &nw.Nodes[c]
		nd.Orient = m.OrientFor(c, s)
		nd.Bottom = row.Bottom
	}

	xs := make([]int, len(cells))
	for i, c := range cells {
		w := nw.Nodes[c].Width
		x := row.Snap(nw.Nodes[c].OrigLeft)
		x = min(max(x, s.Min), s.Max-w)
		if i > 0 {
			prevRight := xs[i-1] + nw.Nodes[cells[i-1]].Width
			if lo := prevRight + m.RequiredGap(cells[i-1], c); x < lo {
				x = row.SnapUp(lo)
			}
			if g := x - prevRight; noGaps && g > 0 && g < 2*sp {
				x = row.SnapUp(prevRight + 2*sp)
			}
		}
		xs[i] = x
	}

	limit := s.Max
	for i := len(cells) - 1; i >= 0; i-- {
		c := cells[i]
		w := nw.Nodes[c].Width
		last := i == len(cells)-1
		if !last {
			limit = xs[i+1] - m.RequiredGap(c, cells[i+1])
		}
		if xs[i]+w > limit {
			xs[i] = row.SnapDown(limit - w)
		}
		if last || !noGaps {
			continue
		}
		if g := xs[i+1] - xs[i] - w; g > 0 && g < 2*sp {
			// Close the gap unless the required gap is itself one site.
			closed := row.SnapDown(limit - w)
			if rest := xs[i+1] - closed - w; rest == 0 || rest >= 2*sp {
				xs[i] = closed
			} else {
				xs[i] = row.SnapDown(xs[i+1] - w - 2*sp)
			}
		}
	}
	return xs, len(xs) == 0 || xs[0] >= s.Min
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
