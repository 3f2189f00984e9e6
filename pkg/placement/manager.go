package placement

import (
	"io"
	"math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dplace/pkg/arch"
	"github.com/matzehuels/dplace/pkg/geom"
	"github.com/matzehuels/dplace/pkg/network"
)

// Options configures a Manager.
type Options struct {
	// Seed drives every randomized decision made through Rand.
	Seed uint64

	// MaxDisplacementX and MaxDisplacementY bound how far a cell may move from
	// its original position, in DBU. Zero means unbounded.
	MaxDisplacementX int
	MaxDisplacementY int

	// DisallowOneSiteGaps forbids exactly one empty site between two cells.
	DisallowOneSiteGaps bool

	Logger *log.Logger
}

// Manager is the placement state of one run.
type Manager struct {
	Network *network.Network
	Arch    *arch.Architecture
	Rand    *rand.Rand

	Segments []*Segment

	rowSegs [][]*Segment
	nodeSeg []int
	managed []bool

	opts Options
	log  *log.Logger

	recording bool
	journal   []undo
	touched   []int
}

// New builds segments for every row and region of a. No cell is assigned to
// a segment until the legalizer (or AssignByPosition) places it.
func New(nw *network.Network, a *arch.Architecture, opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := &Manager{
		Network: nw,
		Arch:    a,
		Rand:    rand.New(rand.NewPCG(opts.Seed, opts.Seed^0xdeadbeef)),
		rowSegs: make([][]*Segment, len(a.Rows)),
		nodeSeg: make([]int, len(nw.Nodes)),
		managed: make([]bool, len(nw.Nodes)),
		opts:    opts,
		log:     logger,
	}
	rowHeight := a.RowHeight()
	for i := range nw.Nodes {
		m.nodeSeg[i] = -1
		nd := &nw.Nodes[i]
		m.managed[i] = nd.Movable() && nd.Height <= rowHeight
	}
	m.buildSegments()
	m.log.Debug("segments built", "segments", len(m.Segments), "rows", len(a.Rows))
	return m
}

// DisallowOneSiteGaps reports whether one-site gaps are illegal.
func (m *Manager) DisallowOneSiteGaps() bool { return m.opts.DisallowOneSiteGaps }

// SetDisallowOneSiteGaps changes the one-site gap rule.
func (m *Manager) SetDisallowOneSiteGaps(v bool) { m.opts.DisallowOneSiteGaps = v }

// MaxDisplacement returns the displacement bounds in DBU (zero = unbounded).
func (m *Manager) MaxDisplacement() (x, y int) {
	return m.opts.MaxDisplacementX, m.opts.MaxDisplacementY
}

// Logger returns the run logger.
func (m *Manager) Logger() *log.Logger { return m.log }

// Managed reports whether node n is placed by this manager.
func (m *Manager) Managed(n int) bool { return m.managed[n] }

// ManagedNodes returns the ids of all managed cells in id order.
func (m *Manager) ManagedNodes() []int {
	var out []int
	for i, ok := range m.managed {
		if ok {
			out = append(out, i)
		}
	}
	return out
}

// PlacedNodes returns the managed cells currently assigned to a segment.
func (m *Manager) PlacedNodes() []int {
	var out []int
	for i, ok := range m.managed {
		if ok && m.nodeSeg[i] >= 0 {
			out = append(out, i)
		}
	}
	return out
}

// SegmentOf returns the segment holding n, or nil.
func (m *Manager) SegmentOf(n int) *Segment {
	if s := m.nodeSeg[n]; s >= 0 {
		return m.Segments[s]
	}
	return nil
}

// Row returns the row of segment s.
func (m *Manager) Row(s *Segment) *arch.Row { return m.Arch.Rows[s.Row] }

// RowSegments returns the segments of row r ordered by x.
func (m *Manager) RowSegments(r int) []*Segment { return m.rowSegs[r] }

// RegionSegments returns the segments belonging to region id.
func (m *Manager) RegionSegments(region int) []*Segment {
	var out []*Segment
	for _, s := range m.Segments {
		if s.Region == region {
			out = append(out, s)
		}
	}
	return out
}

// FindSegment returns the segment of region that contains x among all the
// sub-rows whose bottom is y, or nil.
func (m *Manager) FindSegment(y, x, region int) *Segment {
	lo, hi := m.rowSpan(y)
	for r := lo; r < hi; r++ {
		for _, s := range m.rowSegs[r] {
			if s.Region == region && x >= s.Min && x < s.Max {
				return s
			}
		}
	}
	return nil
}

// rowSpan returns the index range of the rows whose bottom is y. Rows are
// sorted by bottom, then origin.
func (m *Manager) rowSpan(y int) (lo, hi int) {
	rows := m.Arch.Rows
	lo, _ = slices.BinarySearchFunc(rows, y, func(r *arch.Row, y int) int { return r.Bottom - y })
	hi = lo
	for hi < len(rows) && rows[hi].Bottom == y {
		hi++
	}
	return lo, hi
}

// NearestBottom returns the row bottom closest to y.
func (m *Manager) NearestBottom(y int) int {
	rows := m.Arch.Rows
	if len(rows) == 0 {
		return 0
	}
	i, _ := slices.BinarySearchFunc(rows, y, func(r *arch.Row, y int) int { return r.Bottom - y })
	switch {
	case i == len(rows):
		return rows[len(rows)-1].Bottom
	case i == 0:
		return rows[0].Bottom
	case y-rows[i-1].Bottom <= rows[i].Bottom-y:
		return rows[i-1].Bottom
	}
	return rows[i].Bottom
}

// AdjacentBottom returns the next row bottom above (dir > 0) or below
// (dir < 0) the bottom y.
func (m *Manager) AdjacentBottom(y, dir int) (int, bool) {
	rows := m.Arch.Rows
	lo, hi := m.rowSpan(y)
	if dir < 0 {
		if lo == 0 {
			return 0, false
		}
		return rows[lo-1].Bottom, true
	}
	if hi == len(rows) {
		return 0, false
	}
	return rows[hi].Bottom, true
}

// Neighbors returns the cells left and right of n in its segment, or -1.
func (m *Manager) Neighbors(n int) (left, right int) {
	s := m.SegmentOf(n)
	if s == nil {
		return -1, -1
	}
	return s.neighbors(n)
}

// OrientFor returns the orientation n takes in the row of s. When power rails
// demand a flip the site does not allow, the row orientation is used.
func (m *Manager) OrientFor(n int, s *Segment) geom.Orient {
	row := m.Row(s)
	o, ok := m.Arch.OrientFor(&m.Network.Nodes[n], row)
	if !ok {
		return row.Orient
	}
	return o
}

// Assign places n at x in s without journaling. The node's bottom is set to
// the row bottom.
func (m *Manager) Assign(n, x int, s *Segment, o geom.Orient) {
	if old := m.nodeSeg[n]; old >= 0 {
		m.Segments[old].remove(n)
	}
	nd := &m.Network.Nodes[n]
	nd.Left = x
	nd.Bottom = m.Row(s).Bottom
	nd.Orient = o
	s.insert(n, m.Network.Nodes)
	m.nodeSeg[n] = s.ID
}

// Unassign removes n from its segment, leaving its position unchanged.
func (m *Manager) Unassign(n int) {
	if old := m.nodeSeg[n]; old >= 0 {
		m.Segments[old].remove(n)
		m.nodeSeg[n] = -1
	}
}

// AssignByPosition assigns every managed cell that already sits exactly on a
// row of its region to the segment containing it. It returns the number of
// managed cells it could not assign.
func (m *Manager) AssignByPosition() int {
	missing := 0
	for _, n := range m.ManagedNodes() {
		nd := &m.Network.Nodes[n]
		var found *Segment
		for _, s := range m.Segments {
			row := m.Row(s)
			if s.Region == nd.GroupID && row.Bottom == nd.Bottom &&
				nd.Left >= s.Min && nd.Right() <= s.Max {
				found = s
				break
			}
		}
		if found == nil {
			missing++
			continue
		}
		m.Assign(n, nd.Left, found, nd.Orient)
	}
	return missing
}

// EdgesOf returns the distinct edges incident to any of nodes.
func (m *Manager) EdgesOf(nodes ...int) []int {
	if len(nodes) == 1 {
		return m.Network.NodeEdges(nodes[0])
	}
	seen := make(map[int]bool)
	var out []int
	for _, n := range nodes {
		for _, e := range m.Network.NodeEdges(n) {
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
	}
	return out
}

// Displacement returns the total displacement of the managed cells.
func (m *Manager) Displacement() int64 {
	var total int64
	for i, ok := range m.managed {
		if ok {
			total += int64(m.Network.Nodes[i].Displacement())
		}
	}
	return total
}

// NodesDisplacement returns the summed displacement of nodes.
func (m *Manager) NodesDisplacement(nodes []int) int64 {
	var total int64
	for _, n := range nodes {
		total += int64(m.Network.Nodes[n].Displacement())
	}
	return total
}

// FindGap returns the site-aligned left edge nearest to target at which n
// fits into s between the cells already there, keeping the required gaps.
// A cell of s equal to n is ignored.
func (m *Manager) FindGap(n int, s *Segment, target int) (int, bool) {
	row := m.Row(s)
	w := m.Network.Nodes[n].Width
	best, bestDist, found := 0, 0, false

	try := func(lo, hi int) {
		lo = row.SnapUp(lo)
		if lo+w > hi {
			return
		}
		x := row.Snap(min(max(target, lo), hi-w))
		if x < lo {
			x += row.SiteSpacing
		}
		if x+w > hi {
			x -= row.SiteSpacing
		}
		if x < lo || x+w > hi {
			return
		}
		if d := abs(x - target); !found || d < bestDist {
			best, bestDist, found = x, d, true
		}
	}

	prev := -1
	lo := s.Min
	for _, c := range s.nodes {
		if c == n {
			continue
		}
		hi := m.Network.Nodes[c].Left - m.RequiredGap(n, c)
		if prev >= 0 {
			lo = m.Network.Nodes[prev].Right() + m.RequiredGap(prev, n)
		}
		try(lo, hi)
		prev = c
	}
	if prev >= 0 {
		lo = m.Network.Nodes[prev].Right() + m.RequiredGap(prev, n)
	}
	try(lo, s.Max)
	return best, found
}
