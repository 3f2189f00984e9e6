package importer

import (
	"cmp"
	"slices"

	"github.com/matzehuels/dplace/pkg/design"
	"github.com/matzehuels/dplace/pkg/errors"
	"github.com/matzehuels/dplace/pkg/geom"
	"github.com/matzehuels/dplace/pkg/network"
)

// counts are computed before allocation and re-checked after filling.
type counts struct {
	nodes, terminals, edges, pins, blockages int
}

// createNetwork builds nodes, edges and pins in two passes: count, then fill.
// Instances are visited sorted by name so ids are reproducible.
func (b *builder) createNetwork() error {
	order := make([]int, len(b.d.Instances))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(i, j int) int {
		return cmp.Compare(b.d.Instances[i].Name, b.d.Instances[j].Name)
	})

	var c counts
	for _, i := range order {
		if b.isPlaceable(&b.d.Instances[i]) {
			c.nodes++
		}
	}
	for i := range b.d.Nets {
		net := &b.d.Nets[i]
		if net.Supply() {
			continue
		}
		c.edges++
		for _, it := range net.ITerms {
			if inst := b.x.Instance(it.Inst); inst != nil && b.isPlaceable(inst) {
				c.pins++
			}
		}
		c.pins += len(net.BTerms)
	}
	for i := range b.d.BTerms {
		if b.terminalNet(&b.d.BTerms[i]) != nil {
			c.terminals++
		}
	}

	var blockages []geom.Rect
	for _, bl := range b.d.Blockages {
		if !bl.Soft {
			blockages = append(blockages, bl.Rect.Translate(-b.core.XMin, -b.core.YMin))
		}
	}
	blockages = append(blockages, b.macroBlockages()...)
	c.blockages = len(blockages)

	b.log.Info("creating network",
		"code", 100,
		"cells", c.nodes,
		"terminals", c.terminals,
		"edges", c.edges,
		"pins", c.pins,
		"blockages", c.blockages)

	b.nw = network.New(c.nodes+c.terminals, c.edges, c.pins)
	for _, r := range blockages {
		b.nw.AddBlockage(r)
	}

	n := 0
	for _, i := range order {
		inst := &b.d.Instances[i]
		if !b.isPlaceable(inst) {
			continue
		}
		m := b.x.Master(inst.Master)
		nd := &b.nw.Nodes[n]
		b.instNode[i] = n

		nd.Name = inst.Name
		nd.Type = network.Cell
		nd.Inst = i
		nd.Master = b.master(m)
		nd.Fixed = inst.Fixed
		nd.Width, nd.Height = m.Width, m.Height
		// Movable cells are returned to R0 with the lower-left corner kept;
		// the passes re-derive orientation from the rows.
		nd.Orient = geom.R0
		if inst.Fixed {
			nd.Orient = inst.Orient
			if inst.Orient.Rotated() {
				nd.Width, nd.Height = m.Height, m.Width
			}
		}
		nd.OrigLeft = inst.X - b.core.XMin
		nd.OrigBottom = inst.Y - b.core.YMin
		nd.Left, nd.Bottom = nd.OrigLeft, nd.OrigBottom

		pp := b.masterPwrs[m.Name]
		nd.TopPower, nd.BottomPower = pp.top, pp.bottom
		n++
	}
	for i := range b.d.BTerms {
		bt := &b.d.BTerms[i]
		if b.terminalNet(bt) == nil {
			continue
		}
		nd := &b.nw.Nodes[n]
		b.termNode[i] = n

		nd.Name = bt.Name
		nd.Type = network.Terminal
		nd.Inst = i
		nd.Fixed = true
		nd.Orient = geom.R0
		nd.Width, nd.Height = bt.BBox.Dx(), bt.BBox.Dy()
		nd.OrigLeft = bt.BBox.XMin - b.core.XMin
		nd.OrigBottom = bt.BBox.YMin - b.core.YMin
		nd.Left, nd.Bottom = nd.OrigLeft, nd.OrigBottom
		n++
	}
	if n != c.nodes+c.terminals {
		return errors.New(errors.ErrCodeConsistency, 101,
			"unexpected total node count: expected %d, got %d", c.nodes+c.terminals, n)
	}

	e, p := 0, 0
	for i := range b.d.Nets {
		net := &b.d.Nets[i]
		if net.Supply() {
			continue
		}
		b.nw.Edges[e].Name = net.Name

		for _, it := range net.ITerms {
			idx, ok := b.x.InstanceIndex(it.Inst)
			if !ok || !b.isPlaceable(&b.d.Instances[idx]) {
				continue
			}
			node, ok := b.instNode[idx]
			if !ok {
				return errors.New(errors.ErrCodeConsistency, 103,
					"could not find node for instance %s while connecting pins", it.Inst)
			}
			if b.nw.Nodes[node].ID != node || b.nw.Edges[e].ID != e {
				return errors.New(errors.ErrCodeConsistency, 102,
					"improper node indexing while connecting pins")
			}
			pin, err := b.nw.AddPin(node, e)
			if err != nil {
				return errors.Wrap(errors.ErrCodeConsistency, err, "connect %s/%s", it.Inst, it.Term)
			}
			m := b.x.Master(b.d.Instances[idx].Master)
			term := m.Term(it.Term)
			if term == nil {
				return errors.New(errors.ErrCodeConsistency, 103,
					"could not find terminal %s on master %s while connecting pins", it.Term, m.Name)
			}
			// Offsets are from the cell center.
			bbox := term.BBox()
			ctr := bbox.Center()
			pin.OffsetX = ctr.X - m.Width/2
			pin.OffsetY = ctr.Y - m.Height/2
			pin.Width, pin.Height = bbox.Dx(), bbox.Dy()
			p++
		}
		for _, name := range net.BTerms {
			idx, ok := b.x.BTermIndex(name)
			node, found := b.termNode[idx]
			if !ok || !found {
				return errors.New(errors.ErrCodeConsistency, 105,
					"could not find node for terminal %s while connecting pins", name)
			}
			if b.nw.Nodes[node].ID != node || b.nw.Edges[e].ID != e {
				return errors.New(errors.ErrCodeConsistency, 104,
					"improper terminal indexing while connecting pins")
			}
			if _, err := b.nw.AddPin(node, e); err != nil {
				return errors.Wrap(errors.ErrCodeConsistency, err, "connect terminal %s", name)
			}
			p++
		}
		e++
	}
	if e != c.edges {
		return errors.New(errors.ErrCodeConsistency, 106,
			"unexpected total edge count: expected %d, got %d", c.edges, e)
	}
	if p != c.pins {
		return errors.New(errors.ErrCodeConsistency, 107,
			"unexpected total pin count: expected %d, got %d", c.pins, p)
	}

	b.log.Info("network stats",
		"code", 109,
		"nodes", len(b.nw.Nodes),
		"edges", len(b.nw.Edges),
		"pins", len(b.nw.Pins))
	return nil
}

// terminalNet returns the net of a block terminal when it becomes a network
// terminal: the net must exist and not be a supply net.
func (b *builder) terminalNet(bt *design.BTerm) *design.Net {
	if bt.Net == "" {
		return nil
	}
	net := b.x.Net(bt.Net)
	if net == nil || net.Supply() {
		return nil
	}
	return net
}

// macroBlockages returns the footprints of non-placeable instances that
// overlap the core, in core coordinates.
func (b *builder) macroBlockages() []geom.Rect {
	var out []geom.Rect
	for i := range b.d.Instances {
		inst := &b.d.Instances[i]
		if b.isPlaceable(inst) {
			continue
		}
		m := b.x.Master(inst.Master)
		if m == nil {
			continue
		}
		w, h := m.Width, m.Height
		if inst.Orient.Rotated() {
			w, h = h, w
		}
		r := geom.Rect{XMin: inst.X, YMin: inst.Y, XMax: inst.X + w, YMax: inst.Y + h}
		if !r.Overlaps(b.core) {
			continue
		}
		out = append(out, r.Translate(-b.core.XMin, -b.core.YMin))
	}
	return out
}
