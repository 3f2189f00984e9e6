// Package geom provides the integer geometry used by the placer: points,
// rectangles, cell orientations and the 1-D segment algebra that partitions a
// cell boundary into typed edge segments.
//
// # Boundary Segments
//
// A cell master's placement boundary has four sides. [BoundarySegment]
// collapses the bounding box onto one side, giving a zero-width (LEFT, RIGHT)
// or zero-height (TOP, BOTTOM) segment. Explicitly typed edge segments are then
// subtracted with [Difference] to find the untyped remainder:
//
//	side := geom.BoundarySegment(bbox, geom.Left)
//	rest := geom.Difference(side, typed)
//
// [Difference] is an interval-complement sweep: children are sorted along the
// segment's varying axis, overlapping or touching children are merged, and the
// gaps between merged runs are emitted in order. The gaps together with the
// merged children tile the parent with no overlap.
//
// # Orientation
//
// [Orient] follows the odb naming (R0, MX, MY, R180 and the rotated variants)
// and also parses DEF names (N, FS, FN, S, ...). Pin offsets are stored from
// the cell center, so mirroring reduces to negating one offset component; see
// [Orient.TransformOffset].
package geom
