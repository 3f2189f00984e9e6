package geom

// Point is an integer point in database units.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect is an axis-aligned integer rectangle in database units. A rectangle with
// XMin == XMax or YMin == YMax is a segment; both are valid values.
type Rect struct {
	XMin int `json:"xmin"`
	YMin int `json:"ymin"`
	XMax int `json:"xmax"`
	YMax int `json:"ymax"`
}

// NewRect returns the rectangle spanned by two corners in any order.
func NewRect(x1, y1, x2, y2 int) Rect {
	return Rect{
		XMin: min(x1, x2),
		YMin: min(y1, y2),
		XMax: max(x1, x2),
		YMax: max(y1, y2),
	}
}

// Dx returns the width of r.
func (r Rect) Dx() int { return r.XMax - r.XMin }

// Dy returns the height of r.
func (r Rect) Dy() int { return r.YMax - r.YMin }

// Area returns the area of r as int64 to avoid overflow on large dies.
func (r Rect) Area() int64 { return int64(r.Dx()) * int64(r.Dy()) }

// IsZeroArea reports whether r is a segment or a point.
func (r Rect) IsZeroArea() bool { return r.Dx() == 0 || r.Dy() == 0 }

// Center returns the center of r using integer division from the lower-left
// corner, matching how pin centers are measured in the snapshot.
func (r Rect) Center() Point {
	return Point{X: r.XMin + r.Dx()/2, Y: r.YMin + r.Dy()/2}
}

// Intersects reports whether r and o share any point, boundaries included.
func (r Rect) Intersects(o Rect) bool {
	return r.XMin <= o.XMax && o.XMin <= r.XMax &&
		r.YMin <= o.YMax && o.YMin <= r.YMax
}

// Overlaps reports whether r and o share interior area. Abutting rectangles do
// not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.XMin < o.XMax && o.XMin < r.XMax &&
		r.YMin < o.YMax && o.YMin < r.YMax
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.XMin >= r.XMin && o.XMax <= r.XMax &&
		o.YMin >= r.YMin && o.YMax <= r.YMax
}

// ContainsPoint reports whether p lies inside r, boundaries included.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.XMin && p.X <= r.XMax && p.Y >= r.YMin && p.Y <= r.YMax
}

// Merge returns the bounding box of r and o.
func (r Rect) Merge(o Rect) Rect {
	return Rect{
		XMin: min(r.XMin, o.XMin),
		YMin: min(r.YMin, o.YMin),
		XMax: max(r.XMax, o.XMax),
		YMax: max(r.YMax, o.YMax),
	}
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{XMin: r.XMin + dx, YMin: r.YMin + dy, XMax: r.XMax + dx, YMax: r.YMax + dy}
}

// Clip returns r restricted to bounds. The result may be inverted (XMin > XMax)
// when r lies outside bounds; check with Valid.
func (r Rect) Clip(bounds Rect) Rect {
	return Rect{
		XMin: max(r.XMin, bounds.XMin),
		YMin: max(r.YMin, bounds.YMin),
		XMax: min(r.XMax, bounds.XMax),
		YMax: min(r.YMax, bounds.YMax),
	}
}

// Valid reports whether r is not inverted.
func (r Rect) Valid() bool { return r.XMin <= r.XMax && r.YMin <= r.YMax }

// BBox accumulates a bounding box over points or rectangles. The zero value is
// empty; Rect returns the zero Rect until something has been added.
type BBox struct {
	r     Rect
	valid bool
}

// AddPoint grows the box to include p.
func (b *BBox) AddPoint(p Point) {
	b.Add(Rect{XMin: p.X, YMin: p.Y, XMax: p.X, YMax: p.Y})
}

// Add grows the box to include r.
func (b *BBox) Add(r Rect) {
	if !b.valid {
		b.r, b.valid = r, true
		return
	}
	b.r = b.r.Merge(r)
}

// Empty reports whether nothing was added.
func (b *BBox) Empty() bool { return !b.valid }

// Rect returns the accumulated box.
func (b *BBox) Rect() Rect { return b.r }
