package importer

import (
	"math"

	"github.com/matzehuels/dplace/pkg/design"
	"github.com/matzehuels/dplace/pkg/geom"
	"github.com/matzehuels/dplace/pkg/network"
)

// master returns the network master for m, creating it on first use. When the
// design has an edge-spacing table, each boundary side is partitioned into
// typed segments plus DEFAULT segments for the untyped remainder.
func (b *builder) master(m *design.Master) *network.Master {
	if nm, ok := b.masters[m.Name]; ok {
		return nm
	}
	bbox := m.PlacementBoundary()
	nm := b.nw.AddMaster(m.Name, bbox)
	b.masters[m.Name] = nm

	if b.spacing == nil || m.Class == design.ClassCoreSpacer {
		return nm
	}

	numRows := 1
	if b.minRowHeight > 0 {
		numRows = max(1, int(math.Round(float64(m.Height)/float64(b.minRowHeight))))
	}

	typed := make(map[geom.Dir][]geom.Rect)
	for _, et := range m.Edges {
		seg := typedSegment(bbox, et, numRows)
		typed[et.Dir] = append(typed[et.Dir], seg)
		if idx := b.spacing.Index(et.Type); idx != -1 {
			nm.Edges = append(nm.Edges, network.MasterEdge{Type: idx, Dir: et.Dir, Rect: seg})
		}
	}

	def := b.spacing.Index(design.DefaultEdgeType)
	if def == -1 {
		return nm
	}
	for _, dir := range geom.Dirs {
		for _, seg := range geom.Difference(geom.BoundarySegment(bbox, dir), typed[dir]) {
			nm.Edges = append(nm.Edges, network.MasterEdge{Type: def, Dir: dir, Rect: seg})
		}
	}
	return nm
}

// typedSegment converts an edge-type definition to a boundary segment.
// TOP and BOTTOM honour an x range from the left of the master. LEFT and RIGHT
// honour a 1-based cell row or half row.
func typedSegment(bbox geom.Rect, et design.EdgeType, numRows int) geom.Rect {
	seg := geom.BoundarySegment(bbox, et.Dir)
	if !et.Dir.Vertical() {
		if et.Range != nil {
			x0 := seg.XMin
			seg.XMin = x0 + et.Range.Begin
			seg.XMax = x0 + et.Range.End
		}
		return seg
	}

	rowHeight := seg.Dy() / numRows
	halfRow := rowHeight / 2
	switch {
	case et.CellRow > 0:
		seg.YMin += (et.CellRow - 1) * rowHeight
		seg.YMax = min(seg.YMax, seg.YMin+rowHeight)
	case et.HalfRow > 0:
		seg.YMin += (et.HalfRow - 1) * halfRow
		seg.YMax = min(seg.YMax, seg.YMin+halfRow)
	}
	return seg
}
