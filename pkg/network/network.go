// Package network holds the placement hypergraph: nodes (cells and
// terminals), edges (nets), pins and hard blockages.
//
// A Network is built once per run by the importer. Afterwards only node
// positions and orientations change; ids, pins and topology are fixed.
// Coordinates are relative to the core origin.
package network

import (
	"fmt"

	"github.com/matzehuels/dplace/pkg/geom"
)

// NodeType distinguishes placeable cells from fixed terminals.
type NodeType uint8

const (
	Cell NodeType = iota
	Terminal
)

func (t NodeType) String() string {
	if t == Terminal {
		return "terminal"
	}
	return "cell"
}

// Power is the supply rail class at the top or bottom of a cell or row.
type Power int8

const (
	PowerUnknown Power = iota
	VDD
	VSS
)

func (p Power) String() string {
	switch p {
	case VDD:
		return "VDD"
	case VSS:
		return "VSS"
	}
	return "UNK"
}

// Node is a cell instance or a block terminal.
type Node struct {
	ID          int
	Name        string
	Type        NodeType
	Width       int
	Height      int
	OrigLeft    int
	OrigBottom  int
	Left        int
	Bottom      int
	Orient      geom.Orient
	Fixed       bool
	GroupID     int
	TopPower    Power
	BottomPower Power
	Master      *Master // nil for terminals
	Inst        int     // originating snapshot instance or bterm index
	Pins        []int
}

// Movable reports whether the node is a cell that may be moved.
func (n *Node) Movable() bool { return n.Type == Cell && !n.Fixed }

// Right returns the right edge of the node.
func (n *Node) Right() int { return n.Left + n.Width }

// Top returns the top edge of the node.
func (n *Node) Top() int { return n.Bottom + n.Height }

// Rect returns the node's current footprint.
func (n *Node) Rect() geom.Rect {
	return geom.Rect{XMin: n.Left, YMin: n.Bottom, XMax: n.Right(), YMax: n.Top()}
}

// Displacement returns the Manhattan distance from the original position.
func (n *Node) Displacement() int {
	return abs(n.Left-n.OrigLeft) + abs(n.Bottom-n.OrigBottom)
}

// MasterEdge is a typed segment on one side of a master's boundary, in master
// coordinates. Type indexes the edge-spacing table.
type MasterEdge struct {
	Type int
	Dir  geom.Dir
	Rect geom.Rect
}

// Master is a cell template shared by all instances of a footprint.
type Master struct {
	ID    int
	Name  string
	BBox  geom.Rect
	Edges []MasterEdge
}

// Edge is a net.
type Edge struct {
	ID   int
	Name string
	Pins []int
}

// Pin connects one node to one edge. Offsets are measured from the node
// center in the unrotated orientation.
type Pin struct {
	ID      int
	Node    int
	Edge    int
	OffsetX int
	OffsetY int
	Width   int
	Height  int
}

// Network is the placement hypergraph.
type Network struct {
	Nodes     []Node
	Edges     []Edge
	Pins      []Pin
	Masters   []*Master
	Blockages []geom.Rect

	nodeEdges [][]int
}

// New allocates a network with the given node and edge counts. Ids are
// assigned in slice order.
func New(nodes, edges, pins int) *Network {
	nw := &Network{
		Nodes: make([]Node, nodes),
		Edges: make([]Edge, edges),
		Pins:  make([]Pin, 0, pins),
	}
	for i := range nw.Nodes {
		nw.Nodes[i].ID = i
		nw.Nodes[i].Inst = -1
	}
	for i := range nw.Edges {
		nw.Edges[i].ID = i
	}
	return nw
}

// AddPin connects node to edge and returns the new pin.
func (nw *Network) AddPin(node, edge int) (*Pin, error) {
	if node < 0 || node >= len(nw.Nodes) || edge < 0 || edge >= len(nw.Edges) {
		return nil, fmt.Errorf("pin on node %d edge %d out of range", node, edge)
	}
	id := len(nw.Pins)
	nw.Pins = append(nw.Pins, Pin{ID: id, Node: node, Edge: edge})
	nw.Nodes[node].Pins = append(nw.Nodes[node].Pins, id)
	nw.Edges[edge].Pins = append(nw.Edges[edge].Pins, id)
	nw.nodeEdges = nil
	return &nw.Pins[id], nil
}

// AddMaster registers a new master and returns it.
func (nw *Network) AddMaster(name string, bbox geom.Rect) *Master {
	m := &Master{ID: len(nw.Masters), Name: name, BBox: bbox}
	nw.Masters = append(nw.Masters, m)
	return m
}

// AddBlockage records a hard blockage.
func (nw *Network) AddBlockage(r geom.Rect) {
	nw.Blockages = append(nw.Blockages, r)
}

// PinPosition returns the absolute (core-relative) position of a pin given
// the current position and orientation of its node.
func (nw *Network) PinPosition(p *Pin) geom.Point {
	nd := &nw.Nodes[p.Node]
	return nw.PinPositionAt(p, nd.Left, nd.Bottom, nd.Orient)
}

// PinPositionAt returns where a pin would be if its node sat at (left,
// bottom) with orientation o.
func (nw *Network) PinPositionAt(p *Pin, left, bottom int, o geom.Orient) geom.Point {
	nd := &nw.Nodes[p.Node]
	dx, dy := o.TransformOffset(p.OffsetX, p.OffsetY)
	return geom.Point{X: left + nd.Width/2 + dx, Y: bottom + nd.Height/2 + dy}
}

// EdgeHPWL returns the half perimeter of the pin bounding box of edge e.
func (nw *Network) EdgeHPWL(e int) int64 {
	var bb geom.BBox
	for _, pid := range nw.Edges[e].Pins {
		bb.AddPoint(nw.PinPosition(&nw.Pins[pid]))
	}
	if bb.Empty() {
		return 0
	}
	r := bb.Rect()
	return int64(r.Dx()) + int64(r.Dy())
}

// HPWL returns the total half-perimeter wirelength.
func (nw *Network) HPWL() int64 {
	var total int64
	for e := range nw.Edges {
		total += nw.EdgeHPWL(e)
	}
	return total
}

// NodeEdges returns the distinct edges incident to node, in pin order.
func (nw *Network) NodeEdges(node int) []int {
	if nw.nodeEdges == nil {
		nw.nodeEdges = make([][]int, len(nw.Nodes))
		for i := range nw.Nodes {
			seen := make(map[int]bool, len(nw.Nodes[i].Pins))
			for _, pid := range nw.Nodes[i].Pins {
				e := nw.Pins[pid].Edge
				if !seen[e] {
					seen[e] = true
					nw.nodeEdges[i] = append(nw.nodeEdges[i], e)
				}
			}
		}
	}
	return nw.nodeEdges[node]
}

// EdgesHPWL sums EdgeHPWL over edges.
func (nw *Network) EdgesHPWL(edges []int) int64 {
	var total int64
	for _, e := range edges {
		total += nw.EdgeHPWL(e)
	}
	return total
}

// Stats summarizes a network.
type Stats struct {
	Cells     int
	Terminals int
	Edges     int
	Pins      int
	Blockages int
}

// Stats counts the network's contents.
func (nw *Network) Stats() Stats {
	s := Stats{Edges: len(nw.Edges), Pins: len(nw.Pins), Blockages: len(nw.Blockages)}
	for i := range nw.Nodes {
		if nw.Nodes[i].Type == Terminal {
			s.Terminals++
		} else {
			s.Cells++
		}
	}
	return s
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
