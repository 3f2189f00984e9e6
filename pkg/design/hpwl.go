package design

import "github.com/matzehuels/dplace/pkg/geom"

// HPWL returns the half-perimeter wirelength of d in database units: for
// every non-supply net, the half perimeter of the bounding box of its pin
// centers. Instance pins use the center of the terminal's shapes mapped
// through the instance orientation; block terminals use their bbox center.
func HPWL(d *Design) int64 {
	x := NewIndex(d)
	var total int64
	for i := range d.Nets {
		n := &d.Nets[i]
		if n.Supply() {
			continue
		}
		var bb geom.BBox
		for _, it := range n.ITerms {
			if p, ok := x.ITermCenter(it); ok {
				bb.AddPoint(p)
			}
		}
		for _, name := range n.BTerms {
			if bt := x.BTerm(name); bt != nil {
				bb.AddPoint(bt.BBox.Center())
			}
		}
		if bb.Empty() {
			continue
		}
		r := bb.Rect()
		total += int64(r.Dx()) + int64(r.Dy())
	}
	return total
}

// ITermCenter returns the absolute center of an instance terminal.
func (x *Index) ITermCenter(it ITerm) (geom.Point, bool) {
	inst := x.Instance(it.Inst)
	if inst == nil {
		return geom.Point{}, false
	}
	m := x.Master(inst.Master)
	if m == nil {
		return geom.Point{}, false
	}
	t := m.Term(it.Term)
	if t == nil {
		return geom.Point{}, false
	}
	c := t.BBox().Center()
	dx, dy := inst.Orient.TransformOffset(c.X-m.Width/2, c.Y-m.Height/2)
	w, h := m.Width, m.Height
	if inst.Orient.Rotated() {
		w, h = h, w
	}
	return geom.Point{X: inst.X + w/2 + dx, Y: inst.Y + h/2 + dy}, true
}
