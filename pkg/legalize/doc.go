// Package legalize moves every managed cell of a [placement.Manager] onto a
// legal site.
//
// [Shift] is a displacement-driven heuristic, not an optimal solver. Each
// cell first claims the segment of its region closest to its original
// position that still has room. Then every segment is packed in two sweeps
// over its cells in original x order: left to right, snapping each cell to
// the nearest site at or after the required gap from its left neighbor; and
// right to left, pulling cells that run past the segment end back inside.
//
// Infeasibility is not fatal. A cell that finds no segment with room stays
// where it is (warning 301); a segment whose cells do not fit after both
// sweeps is reported (warning 302); movable multi-height cells are left in
// place as obstructions (warning 303).
package legalize
