package placement

import (
	"slices"

	"github.com/matzehuels/dplace/pkg/network"
)

// Segment is an obstruction-free span [Min, Max) of one row owned by one
// region. Min and Max lie on the row's site grid.
type Segment struct {
	ID     int
	Row    int
	Region int
	Min    int
	Max    int

	nodes []int
}

// Width returns the usable width of s.
func (s *Segment) Width() int { return s.Max - s.Min }

// Nodes returns the cells in s ordered by left edge. The slice is owned by s
// and changes with the next move.
func (s *Segment) Nodes() []int { return s.nodes }

// Used returns the total width of the cells in s.
func (s *Segment) Used(nw *network.Network) int {
	used := 0
	for _, n := range s.nodes {
		used += nw.Nodes[n].Width
	}
	return used
}

func (s *Segment) insert(n int, nodes []network.Node) {
	left := nodes[n].Left
	i, _ := slices.BinarySearchFunc(s.nodes, left, func(id, x int) int {
		return nodes[id].Left - x
	})
	s.nodes = slices.Insert(s.nodes, i, n)
}

func (s *Segment) remove(n int) {
	if i := slices.Index(s.nodes, n); i >= 0 {
		s.nodes = slices.Delete(s.nodes, i, i+1)
	}
}

// neighbors returns the cells immediately left and right of n in s, or -1.
func (s *Segment) neighbors(n int) (left, right int) {
	i := slices.Index(s.nodes, n)
	if i < 0 {
		return -1, -1
	}
	left, right = -1, -1
	if i > 0 {
		left = s.nodes[i-1]
	}
	if i+1 < len(s.nodes) {
		right = s.nodes[i+1]
	}
	return left, right
}
