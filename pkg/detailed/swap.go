package detailed

import "github.com/matzehuels/dplace/pkg/placement"

// globalSwap moves each cell toward its optimal region, into free space or
// by swapping with the cell already there. Returns the number of changes.
func (r *run) globalSwap(*Command) int {
	return r.swapPass(func(n, target int) []int {
		return []int{target}
	})
}

// verticalSwap is globalSwap restricted to the rows directly above and below
// the cell.
func (r *run) verticalSwap(*Command) int {
	return r.swapPass(func(n, _ int) []int {
		var out []int
		y := r.m.Network.Nodes[n].Bottom
		for _, dir := range []int{-1, 1} {
			if b, ok := r.m.AdjacentBottom(y, dir); ok {
				out = append(out, b)
			}
		}
		return out
	})
}

// swapPass visits the placed cells in seeded random order. bottomsFor picks
// the candidate row bottoms for cell n given the bottom nearest its optimal
// region.
func (r *run) swapPass(bottomsFor func(n, target int) []int) int {
	m := r.m
	nw := m.Network
	changed := 0
	placed := m.PlacedNodes()
	for k, i := range m.Rand.Perm(len(placed)) {
		if k%64 == 0 && r.expired() {
			break
		}
		n := placed[i]
		nd := &nw.Nodes[n]
		box, ok := optimalRegion(nw, n)
		if !ok {
			continue
		}
		c := nd.Rect().Center()
		if box.ContainsPoint(c) {
			continue
		}
		tc := box.Center()
		tx, ty := tc.X-nd.Width/2, tc.Y-nd.Height/2

		for _, y := range bottomsFor(n, m.NearestBottom(ty)) {
			s := m.FindSegment(y, max(tx, 0), nd.GroupID)
			if s == nil {
				s = m.FindSegment(y, tc.X, nd.GroupID)
			}
			if s == nil {
				continue
			}
			if r.tryTarget(n, s, tx) {
				changed++
				break
			}
		}
	}
	return changed
}

// tryTarget tries to put n near x in s: first into a gap, then by swapping
// with the cell covering x.
func (r *run) tryTarget(n int, s *placement.Segment, x int) bool {
	m := r.m
	nw := m.Network
	if gx, ok := m.FindGap(n, s, x); ok {
		if r.tryImprove(move{node: n, x: gx, seg: s, orient: m.OrientFor(n, s)}) {
			return true
		}
	}
	other := cellAt(nw, s, x+nw.Nodes[n].Width/2)
	if other < 0 || other == n {
		return false
	}
	return r.trySwap(n, other)
}

// trySwap exchanges the left edges and segments of a and b.
func (r *run) trySwap(a, b int) bool {
	m := r.m
	na, nb := &m.Network.Nodes[a], &m.Network.Nodes[b]
	sa, sb := m.SegmentOf(a), m.SegmentOf(b)
	if sa == nil || sb == nil || na.GroupID != nb.GroupID {
		return false
	}
	ax, bx := na.Left, nb.Left
	return r.tryImprove(
		move{node: a, x: bx, seg: sb, orient: m.OrientFor(a, sb)},
		move{node: b, x: ax, seg: sa, orient: m.OrientFor(b, sa)},
	)
}
