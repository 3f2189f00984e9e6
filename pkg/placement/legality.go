package placement

import (
	"github.com/matzehuels/dplace/pkg/geom"
	"github.com/matzehuels/dplace/pkg/network"
)

// Violation names the first rule a cell breaks.
type Violation uint8

const (
	OK Violation = iota
	Unplaced
	OffRow
	OffSite
	OutsideSegment
	WrongRegion
	TooFar
	Overlap
	Spacing
	OneSiteGap
)

var violationNames = [...]string{
	"ok", "unplaced", "off row", "off site", "outside segment",
	"wrong region", "displacement", "overlap", "spacing", "one-site gap",
}

func (v Violation) String() string { return violationNames[v] }

// RequiredGap returns the minimum distance between a and b when a sits
// immediately left of b: the larger of their combined padding and their edge
// spacing.
func (m *Manager) RequiredGap(a, b int) int {
	_, ra := m.Arch.Padding(a)
	lb, _ := m.Arch.Padding(b)
	return max(ra+lb, m.edgeSpacing(a, b))
}

// edgeSpacing is the largest table spacing between a right-facing edge of a
// and a left-facing edge of b whose vertical spans overlap.
func (m *Manager) edgeSpacing(a, b int) int {
	t := m.Arch.Spacing
	if t == nil {
		return 0
	}
	na, nb := &m.Network.Nodes[a], &m.Network.Nodes[b]
	if na.Master == nil || nb.Master == nil {
		return 0
	}
	sp := 0
	for _, ea := range na.Master.Edges {
		if facing(ea.Dir, na.Orient) != geom.Right {
			continue
		}
		alo, ahi := edgeSpan(ea.Rect, na)
		for _, eb := range nb.Master.Edges {
			if facing(eb.Dir, nb.Orient) != geom.Left {
				continue
			}
			blo, bhi := edgeSpan(eb.Rect, nb)
			if alo < bhi && blo < ahi {
				sp = max(sp, t.Spacing(ea.Type, eb.Type))
			}
		}
	}
	return sp
}

// facing returns the side an edge ends up on once the cell is oriented.
func facing(d geom.Dir, o geom.Orient) geom.Dir {
	if !o.FlipsLeftRight() {
		return d
	}
	switch d {
	case geom.Left:
		return geom.Right
	case geom.Right:
		return geom.Left
	}
	return d
}

// edgeSpan returns the absolute y span of a vertical master edge.
func edgeSpan(r geom.Rect, nd *network.Node) (int, int) {
	lo, hi := r.YMin, r.YMax
	if nd.Orient.FlipsTopBottom() {
		lo, hi = nd.Height-r.YMax, nd.Height-r.YMin
	}
	return nd.Bottom + lo, nd.Bottom + hi
}

// Check returns the first rule node n violates at its current position.
func (m *Manager) Check(n int) Violation {
	if v := m.checkPlacement(n); v != OK {
		return v
	}
	left, right := m.Neighbors(n)
	if left >= 0 {
		if v := m.checkPair(left, n); v != OK {
			return v
		}
	}
	if right >= 0 {
		if v := m.checkPair(n, right); v != OK {
			return v
		}
	}
	return OK
}

func (m *Manager) checkPlacement(n int) Violation {
	s := m.SegmentOf(n)
	if s == nil {
		return Unplaced
	}
	nd := &m.Network.Nodes[n]
	row := m.Row(s)
	switch {
	case nd.Bottom != row.Bottom:
		return OffRow
	case !row.OnSite(nd.Left):
		return OffSite
	case nd.Left < s.Min || nd.Right() > s.Max:
		return OutsideSegment
	case s.Region != nd.GroupID:
		return WrongRegion
	}
	dx, dy := m.opts.MaxDisplacementX, m.opts.MaxDisplacementY
	if dx > 0 && abs(nd.Left-nd.OrigLeft) > dx {
		return TooFar
	}
	if dy > 0 && abs(nd.Bottom-nd.OrigBottom) > dy {
		return TooFar
	}
	return OK
}

// checkPair checks the gap between neighbors a (left) and b (right).
func (m *Manager) checkPair(a, b int) Violation {
	na, nb := &m.Network.Nodes[a], &m.Network.Nodes[b]
	gap := nb.Left - na.Right()
	if gap < 0 {
		return Overlap
	}
	if gap < m.RequiredGap(a, b) {
		return Spacing
	}
	if m.opts.DisallowOneSiteGaps && gap > 0 {
		if s := m.SegmentOf(b); s != nil && gap < 2*m.Row(s).SiteSpacing {
			return OneSiteGap
		}
	}
	return OK
}

// CheckAll returns the placed managed cells that violate a rule, keyed by
// node id.
func (m *Manager) CheckAll() map[int]Violation {
	bad := make(map[int]Violation)
	for _, n := range m.PlacedNodes() {
		if v := m.Check(n); v != OK {
			bad[n] = v
		}
	}
	return bad
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
