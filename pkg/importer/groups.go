package importer

import "github.com/matzehuels/dplace/pkg/geom"

// setupGroups creates region 0 over the architecture and one region per
// design group with a boundary. A node joins the first region that claims it;
// later groups listing the same instance are ignored.
func (b *builder) setupGroups() {
	def := b.arch.AddRegion("")
	bounds := b.arch.Bounds()
	def.Rects = []geom.Rect{bounds}
	def.Boundary = bounds

	for gi := range b.d.Groups {
		g := &b.d.Groups[gi]
		if len(g.Region) == 0 {
			continue
		}
		var rects []geom.Rect
		var bb geom.BBox
		for _, r := range g.Region {
			c := r.Translate(-b.core.XMin, -b.core.YMin).Clip(bounds)
			if !c.Valid() || c.IsZeroArea() {
				continue
			}
			rects = append(rects, c)
			bb.Add(c)
		}
		if len(rects) == 0 {
			continue
		}
		reg := b.arch.AddRegion(g.Name)
		reg.Rects = rects
		reg.Boundary = bb.Rect()

		for _, name := range g.Members {
			idx, ok := b.x.InstanceIndex(name)
			if !ok {
				continue
			}
			n, ok := b.instNode[idx]
			if !ok {
				continue
			}
			if nd := &b.nw.Nodes[n]; nd.GroupID == 0 {
				nd.GroupID = reg.ID
			}
		}
	}

	b.log.Info("placement regions", "code", 110, "regions", len(b.arch.Regions))
}
