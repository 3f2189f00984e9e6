package detailed

import (
	"github.com/matzehuels/dplace/pkg/arch"
	"github.com/matzehuels/dplace/pkg/geom"
	"github.com/matzehuels/dplace/pkg/placement"
)

const reorderWindow = 3

// permutations of up to three elements, identity first.
var perms = [][][]int{
	1: {{0}},
	2: {{0, 1}, {1, 0}},
	3: {{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}},
}

// reorder tries every order of each window of adjacent cells, packed from
// the window's left edge, with optional left-right flips.
func (r *run) reorder(*Command) int {
	m := r.m
	changed := 0
	for _, s := range m.Segments {
		if r.expired() {
			break
		}
		flip := m.Row(s).Symmetry&arch.SymmetryY != 0
		for i := 0; i < len(s.Nodes()); i++ {
			nodes := s.Nodes()
			k := min(reorderWindow, len(nodes)-i)
			if k < 2 && !flip {
				continue
			}
			window := append([]int(nil), nodes[i:i+k]...)
			if r.reorderWindow(s, window, flip) {
				changed++
			}
		}
	}
	return changed
}

func (r *run) reorderWindow(s *placement.Segment, window []int, flip bool) bool {
	m := r.m
	nw := m.Network
	edges := m.EdgesOf(window...)
	before := nw.EdgesHPWL(edges)
	left := nw.Nodes[window[0]].Left

	base := make([]geom.Orient, len(window))
	for i, n := range window {
		base[i] = r.baseOrient(n, s)
	}
	flips := 1
	if flip {
		flips = 1 << len(window)
	}

	best, bestPerm, bestFlip := before, -1, 0
	for pi, perm := range perms[len(window)] {
		for f := 0; f < flips; f++ {
			if pi == 0 && f == 0 && r.alreadyPacked(window, base) {
				continue
			}
			m.Begin()
			r.pack(s, window, perm, base, f, left)
			after := nw.EdgesHPWL(edges)
			legal := m.Legal()
			m.Rollback()
			if legal && after < best {
				best, bestPerm, bestFlip = after, pi, f
			}
		}
	}
	if bestPerm < 0 {
		return false
	}
	m.Begin()
	r.pack(s, window, perms[len(window)][bestPerm], base, bestFlip, left)
	if !m.Legal() {
		m.Rollback()
		return false
	}
	m.Commit()
	return true
}

// pack places window[perm[0]], window[perm[1]], ... from left, each at the
// first site keeping the required gap to its predecessor. Bit i of flip
// mirrors window[i] left to right.
func (r *run) pack(s *placement.Segment, window, perm []int, base []geom.Orient, flip, left int) {
	m := r.m
	nw := m.Network
	row := m.Row(s)
	// Orientations first: required gaps depend on them.
	for i, n := range window {
		o := base[i]
		if flip&(1<<i) != 0 {
			o = o.FlipLeftRight()
		}
		m.Move(n, nw.Nodes[n].Left, s, o)
	}
	x := left
	prev := -1
	for _, pi := range perm {
		n := window[pi]
		if prev >= 0 {
			x = row.SnapUp(nw.Nodes[prev].Right() + m.RequiredGap(prev, n))
		}
		m.Move(n, x, s, nw.Nodes[n].Orient)
		prev = n
	}
}

// alreadyPacked reports whether the identity order without flips is the
// current placement, which needs no evaluation.
func (r *run) alreadyPacked(window []int, base []geom.Orient) bool {
	m := r.m
	nw := m.Network
	for i, n := range window {
		if nw.Nodes[n].Orient != base[i] {
			return false
		}
		if i > 0 {
			prev := window[i-1]
			row := m.Row(m.SegmentOf(n))
			if nw.Nodes[n].Left != row.SnapUp(nw.Nodes[prev].Right()+m.RequiredGap(prev, n)) {
				return false
			}
		}
	}
	return true
}
