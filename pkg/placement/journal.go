package placement

import "github.com/matzehuels/dplace/pkg/geom"

type undo struct {
	node   int
	left   int
	bottom int
	orient geom.Orient
	seg    int
}

// Begin starts recording moves. Any previous uncommitted journal is dropped.
func (m *Manager) Begin() {
	m.recording = true
	m.journal = m.journal[:0]
	m.touched = m.touched[:0]
}

// Commit keeps every move since Begin.
func (m *Manager) Commit() {
	m.recording = false
	m.journal = m.journal[:0]
	m.touched = m.touched[:0]
}

// Rollback undoes every move since Begin, newest first.
func (m *Manager) Rollback() {
	for i := len(m.journal) - 1; i >= 0; i-- {
		u := m.journal[i]
		if cur := m.nodeSeg[u.node]; cur >= 0 {
			m.Segments[cur].remove(u.node)
		}
		nd := &m.Network.Nodes[u.node]
		nd.Left, nd.Bottom, nd.Orient = u.left, u.bottom, u.orient
		m.nodeSeg[u.node] = u.seg
		if u.seg >= 0 {
			m.Segments[u.seg].insert(u.node, m.Network.Nodes)
		}
	}
	m.Commit()
}

// Move places n at x in segment s with orientation o. Between Begin and
// Commit the move is journaled.
func (m *Manager) Move(n, x int, s *Segment, o geom.Orient) {
	if m.recording {
		nd := &m.Network.Nodes[n]
		m.journal = append(m.journal, undo{
			node:   n,
			left:   nd.Left,
			bottom: nd.Bottom,
			orient: nd.Orient,
			seg:    m.nodeSeg[n],
		})
		l, r := m.Neighbors(n)
		m.touched = append(m.touched, l, r)
	}
	m.Assign(n, x, s, o)
}

// Moved returns the distinct nodes moved since Begin.
func (m *Manager) Moved() []int {
	seen := make(map[int]bool, len(m.journal))
	var out []int
	for _, u := range m.journal {
		if !seen[u.node] {
			seen[u.node] = true
			out = append(out, u.node)
		}
	}
	return out
}

// Legal reports whether the moves since Begin left every affected cell legal:
// each moved cell, and every cell whose neighbor changed because a cell left.
func (m *Manager) Legal() bool {
	for _, n := range m.Moved() {
		if m.Check(n) != OK {
			return false
		}
	}
	for _, n := range m.touched {
		if n < 0 || m.nodeSeg[n] < 0 {
			continue
		}
		left, right := m.Neighbors(n)
		if left >= 0 && m.checkPair(left, n) != OK {
			return false
		}
		if right >= 0 && m.checkPair(n, right) != OK {
			return false
		}
	}
	return true
}
