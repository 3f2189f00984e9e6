package geom

import (
	"fmt"
	"slices"
	"strings"
)

// Dir names one side of a cell boundary.
type Dir uint8

const (
	Left Dir = iota
	Right
	Top
	Bottom
)

// Dirs lists all four sides in a fixed order.
var Dirs = [...]Dir{Left, Right, Top, Bottom}

var dirNames = [...]string{"LEFT", "RIGHT", "TOP", "BOTTOM"}

// String returns the LEF name of d.
func (d Dir) String() string {
	if int(d) < len(dirNames) {
		return dirNames[d]
	}
	return fmt.Sprintf("Dir(%d)", uint8(d))
}

// ParseDir parses a LEF edge direction.
func ParseDir(s string) (Dir, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, name := range dirNames {
		if name == s {
			return Dir(i), nil
		}
	}
	return Left, fmt.Errorf("unknown edge direction %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Dir) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Dir) UnmarshalText(b []byte) error {
	v, err := ParseDir(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Vertical reports whether the side is a vertical segment (LEFT or RIGHT).
func (d Dir) Vertical() bool { return d == Left || d == Right }

// BoundarySegment collapses bbox onto the requested side: LEFT and RIGHT give a
// zero-width vertical segment, TOP and BOTTOM a zero-height horizontal one.
func BoundarySegment(bbox Rect, dir Dir) Rect {
	seg := bbox
	switch dir {
	case Right:
		seg.XMin = bbox.XMax
	case Left:
		seg.XMax = bbox.XMin
	case Top:
		seg.YMin = bbox.YMax
	case Bottom:
		seg.YMax = bbox.YMin
	}
	return seg
}

// span returns the extent of r along the varying axis of a segment.
func span(r Rect, horizontal bool) (int, int) {
	if horizontal {
		return r.XMin, r.XMax
	}
	return r.YMin, r.YMax
}

// withSpan returns parent with its varying axis replaced by [lo, hi].
func withSpan(parent Rect, horizontal bool, lo, hi int) Rect {
	if horizontal {
		return Rect{XMin: lo, YMin: parent.YMin, XMax: hi, YMax: parent.YMax}
	}
	return Rect{XMin: parent.XMin, YMin: lo, XMax: parent.XMax, YMax: hi}
}

// MergeSegments sorts co-linear segments along their varying axis and merges
// those that overlap or touch. The input is not modified.
func MergeSegments(segs []Rect, horizontal bool) []Rect {
	if len(segs) == 0 {
		return nil
	}
	sorted := slices.Clone(segs)
	slices.SortStableFunc(sorted, func(a, b Rect) int {
		al, _ := span(a, horizontal)
		bl, _ := span(b, horizontal)
		return al - bl
	})

	merged := sorted[:1]
	for _, s := range sorted[1:] {
		last := &merged[len(merged)-1]
		lo, hi := span(s, horizontal)
		_, lastHi := span(*last, horizontal)
		if lo <= lastHi {
			if hi > lastHi {
				*last = last.Merge(s)
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// Difference returns the ordered sub-segments of parent not covered by any of
// children. Children are assumed co-linear with parent and contained in it.
// The parent is horizontal when it has zero height.
//
// The result unioned with the merged children tiles parent exactly:
//
//	Difference(p, nil)            == [p]
//	Difference(p, []Rect{p})      == []
func Difference(parent Rect, children []Rect) []Rect {
	if len(children) == 0 {
		return []Rect{parent}
	}
	horizontal := parent.YMin == parent.YMax
	start, end := span(parent, horizontal)

	var result []Rect
	pos := start
	for _, seg := range MergeSegments(children, horizontal) {
		lo, hi := span(seg, horizontal)
		if lo > pos {
			result = append(result, withSpan(parent, horizontal, pos, lo))
		}
		pos = max(pos, hi)
	}
	if pos < end {
		result = append(result, withSpan(parent, horizontal, pos, end))
	}
	return result
}
