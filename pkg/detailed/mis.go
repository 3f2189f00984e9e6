package detailed

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/matzehuels/dplace/pkg/placement"
)

const (
	misWindowRows  = 3
	misWindowSites = 40
	misMaxSet      = 16
	// forbidden marks a slot a cell may not take.
	forbidden = int64(1) << 50
)

type sizeClass struct {
	width, height, region int
}

type misKey struct {
	class    sizeClass
	row, bin int
}

// mis reassigns sets of equal-size cells that share no net to their own
// slots by min-cost matching. Returns the number of sets changed.
func (r *run) mis(*Command) int {
	m := r.m
	nw := m.Network
	if len(m.Arch.Rows) == 0 {
		return 0
	}
	binWidth := misWindowSites * m.Arch.Rows[0].SiteSpacing

	groups := make(map[misKey][]int)
	var keys []misKey
	for _, n := range m.PlacedNodes() {
		nd := &nw.Nodes[n]
		s := m.SegmentOf(n)
		k := misKey{
			class: sizeClass{nd.Width, nd.Height, nd.GroupID},
			row:   s.Row / misWindowRows,
			bin:   nd.Left / binWidth,
		}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], n)
	}
	slices.SortFunc(keys, func(a, b misKey) int {
		return cmp.Or(
			cmp.Compare(a.row, b.row),
			cmp.Compare(a.bin, b.bin),
			cmp.Compare(a.class.width, b.class.width),
			cmp.Compare(a.class.height, b.class.height),
			cmp.Compare(a.class.region, b.class.region),
		)
	})

	changed := 0
	for _, k := range keys {
		if r.expired() {
			break
		}
		cells := groups[k]
		if len(cells) < 2 {
			continue
		}
		set := r.independentSet(cells)
		if len(set) >= 2 && r.reassign(set) {
			changed++
		}
	}
	return changed
}

// independentSet picks, in seeded random order, cells of which no two share
// a net.
func (r *run) independentSet(cells []int) []int {
	nw := r.m.Network
	g := simple.NewUndirectedGraph()
	for i := range cells {
		g.AddNode(simple.Node(i))
	}
	byEdge := make(map[int][]int)
	for i, n := range cells {
		for _, e := range nw.NodeEdges(n) {
			byEdge[e] = append(byEdge[e], i)
		}
	}
	for _, members := range byEdge {
		for a := 0; a < len(members); a++ {
			for b := a + 1; b < len(members); b++ {
				g.SetEdge(g.NewEdge(simple.Node(members[a]), simple.Node(members[b])))
			}
		}
	}

	picked := make(map[int64]bool)
	var set []int
	for _, i := range r.m.Rand.Perm(len(cells)) {
		if len(set) == misMaxSet {
			break
		}
		conflict := false
		for it := g.From(int64(i)); it.Next(); {
			if picked[it.Node().ID()] {
				conflict = true
				break
			}
		}
		if !conflict {
			picked[int64(i)] = true
			set = append(set, cells[i])
		}
	}
	return set
}

type slot struct {
	x   int
	seg *placement.Segment
}

// reassign matches the cells of set to their current slots minimizing the
// wirelength of their nets and applies the matching if it improves.
func (r *run) reassign(set []int) bool {
	m := r.m
	nw := m.Network
	dx, dy := m.MaxDisplacement()

	slots := make([]slot, len(set))
	for i, n := range set {
		slots[i] = slot{x: nw.Nodes[n].Left, seg: m.SegmentOf(n)}
	}

	cost := make([][]int64, len(set))
	for i, n := range set {
		nd := &nw.Nodes[n]
		cost[i] = make([]int64, len(slots))
		for j, sl := range slots {
			bottom := m.Row(sl.seg).Bottom
			if (dx > 0 && abs(sl.x-nd.OrigLeft) > dx) || (dy > 0 && abs(bottom-nd.OrigBottom) > dy) {
				cost[i][j] = forbidden
				continue
			}
			o := r.m.OrientFor(n, sl.seg)
			for _, e := range nw.NodeEdges(n) {
				cost[i][j] += edgeHPWLAt(nw, e, n, sl.x, bottom, o)
			}
		}
	}

	match := hungarian(cost)
	var moves []move
	for i, j := range match {
		if cost[i][j] >= forbidden {
			return false
		}
		if j != i {
			moves = append(moves, move{node: set[i], x: slots[j].x, seg: slots[j].seg, orient: m.OrientFor(set[i], slots[j].seg)})
		}
	}
	if len(moves) == 0 {
		return false
	}
	return r.tryImprove(moves...)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
