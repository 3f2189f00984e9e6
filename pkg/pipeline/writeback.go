package pipeline

import (
	"github.com/matzehuels/dplace/pkg/design"
	"github.com/matzehuels/dplace/pkg/network"
)

// extractPlacement collects the movable cells of nw whose position or
// orientation differs from their instance in d. Network coordinates are
// core-relative.
func extractPlacement(d *design.Design, nw *network.Network) *design.Placement {
	p := &design.Placement{}
	for i := range nw.Nodes {
		nd := &nw.Nodes[i]
		if !nd.Movable() || nd.Inst < 0 || nd.Inst >= len(d.Instances) {
			continue
		}
		inst := &d.Instances[nd.Inst]
		x, y := nd.Left+d.Core.XMin, nd.Bottom+d.Core.YMin
		if x == inst.X && y == inst.Y && nd.Orient == inst.Orient {
			continue
		}
		p.Instances = append(p.Instances, design.PlacedInstance{
			Name:   inst.Name,
			X:      x,
			Y:      y,
			Orient: nd.Orient,
		})
	}
	return p
}
