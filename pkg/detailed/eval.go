package detailed

import (
	"slices"

	"github.com/matzehuels/dplace/pkg/geom"
	"github.com/matzehuels/dplace/pkg/network"
	"github.com/matzehuels/dplace/pkg/placement"
)

// move is one cell placement within a batch.
type move struct {
	node   int
	x      int
	seg    *placement.Segment
	orient geom.Orient
}

// tryImprove applies moves, keeping them only when the result is legal and
// the wirelength of the affected nets strictly drops.
func (r *run) tryImprove(moves ...move) bool {
	m := r.m
	nodes := make([]int, len(moves))
	for i, mv := range moves {
		nodes[i] = mv.node
	}
	edges := m.EdgesOf(nodes...)
	before := m.Network.EdgesHPWL(edges)

	m.Begin()
	for _, mv := range moves {
		m.Move(mv.node, mv.x, mv.seg, mv.orient)
	}
	if !m.Legal() || m.Network.EdgesHPWL(edges) >= before {
		m.Rollback()
		return false
	}
	m.Commit()
	return true
}

// edgeHPWLAt is the half perimeter of edge e with node placed at (left,
// bottom) in orientation o and every other pin where it is.
func edgeHPWLAt(nw *network.Network, e, node, left, bottom int, o geom.Orient) int64 {
	var bb geom.BBox
	for _, pid := range nw.Edges[e].Pins {
		p := &nw.Pins[pid]
		if p.Node == node {
			bb.AddPoint(nw.PinPositionAt(p, left, bottom, o))
		} else {
			bb.AddPoint(nw.PinPosition(p))
		}
	}
	if bb.Empty() {
		return 0
	}
	b := bb.Rect()
	return int64(b.Dx() + b.Dy())
}

// optimalRegion returns the box of positions for the center of node n that
// minimizes the wirelength of its nets: the median box of the bounding
// boxes of each net's other pins. ok is false when n has no such net.
func optimalRegion(nw *network.Network, n int) (geom.Rect, bool) {
	var xs, ys []int
	for _, e := range nw.NodeEdges(n) {
		var bb geom.BBox
		for _, pid := range nw.Edges[e].Pins {
			p := &nw.Pins[pid]
			if p.Node != n {
				bb.AddPoint(nw.PinPosition(p))
			}
		}
		if bb.Empty() {
			continue
		}
		b := bb.Rect()
		xs = append(xs, b.XMin, b.XMax)
		ys = append(ys, b.YMin, b.YMax)
	}
	if len(xs) == 0 {
		return geom.Rect{}, false
	}
	slices.Sort(xs)
	slices.Sort(ys)
	k := len(xs)
	return geom.Rect{XMin: xs[(k-1)/2], YMin: ys[(k-1)/2], XMax: xs[k/2], YMax: ys[k/2]}, true
}

// baseOrient is the orientation of n in s without any left-right flip.
func (r *run) baseOrient(n int, s *placement.Segment) geom.Orient {
	o := r.m.OrientFor(n, s)
	if r.m.Network.Nodes[n].Orient.FlipsLeftRight() && !o.Rotated() {
		o = o.FlipLeftRight()
	}
	return o
}

// cellAt returns the cell of s covering x, or -1.
func cellAt(nw *network.Network, s *placement.Segment, x int) int {
	nodes := s.Nodes()
	i, _ := slices.BinarySearchFunc(nodes, x, func(id, x int) int {
		if nw.Nodes[id].Right() <= x {
			return -1
		}
		if nw.Nodes[id].Left > x {
			return 1
		}
		return 0
	})
	if i < len(nodes) {
		if nd := &nw.Nodes[nodes[i]]; nd.Left <= x && x < nd.Right() {
			return nodes[i]
		}
	}
	return -1
}
