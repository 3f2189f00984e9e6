package importer

import (
	"github.com/matzehuels/dplace/pkg/design"
	"github.com/matzehuels/dplace/pkg/network"
)

// initPadding converts design padding from sites to database units using the
// site width of the first non-pad row.
func (b *builder) initPadding() {
	if b.d.Padding == nil {
		return
	}
	siteWidth := 0
	for i := range b.d.Rows {
		if site := b.x.Site(b.d.Rows[i].Site); site != nil && site.Class != design.SitePad {
			siteWidth = site.Width
			break
		}
	}
	if siteWidth == 0 {
		return
	}

	b.arch.UsePadding = true
	for i := range b.nw.Nodes {
		nd := &b.nw.Nodes[i]
		if nd.Type != network.Cell {
			continue
		}
		inst := &b.d.Instances[nd.Inst]
		l, r := b.d.Padding.For(inst.Name, inst.Master)
		b.arch.AddCellPadding(nd.ID, l*siteWidth, r*siteWidth)
	}
}
