package detailed

// random runs cmd.Moves randomized move or swap attempts per placed cell.
// A candidate is kept when it is legal and the cost, evaluated on the run
// totals updated by the local change, does not increase.
func (r *run) random(cmd *Command) int {
	m := r.m
	nw := m.Network
	placed := m.PlacedNodes()
	if len(placed) == 0 || len(m.Arch.Rows) == 0 {
		return 0
	}
	if cmd.Cost == nil {
		c := *cmd
		c.Cost, _ = ParseCost(ObjHPWL)
		cmd = &c
	}

	row0 := m.Arch.Rows[0]
	boxX, boxY := m.MaxDisplacement()
	if boxX <= 0 {
		boxX = 20 * row0.SiteSpacing
	}
	if boxY <= 0 {
		boxY = 2 * row0.Height
	}

	totals := r.totals()
	accepted := 0
	attempts := cmd.Moves * len(placed)
	for a := 0; a < attempts; a++ {
		if a%256 == 0 && r.expired() {
			break
		}
		n := placed[m.Rand.IntN(len(placed))]
		nd := &nw.Nodes[n]

		cx, cy := nd.Left, nd.Bottom
		if cmd.Generator == GenDisplacement {
			cx, cy = nd.OrigLeft, nd.OrigBottom
		}
		tx := cx + m.Rand.IntN(2*boxX+1) - boxX
		ty := cy + m.Rand.IntN(2*boxY+1) - boxY

		s := m.FindSegment(m.NearestBottom(ty), tx, nd.GroupID)
		if s == nil {
			continue
		}

		var moves []move
		if other := cellAt(nw, s, tx); other >= 0 && other != n {
			os, ns := m.SegmentOf(other), m.SegmentOf(n)
			moves = []move{
				{node: n, x: nw.Nodes[other].Left, seg: os, orient: m.OrientFor(n, os)},
				{node: other, x: nd.Left, seg: ns, orient: m.OrientFor(other, ns)},
			}
		} else if x, ok := m.FindGap(n, s, tx); ok && (x != nd.Left || s != m.SegmentOf(n)) {
			moves = []move{{node: n, x: x, seg: s, orient: m.OrientFor(n, s)}}
		} else {
			continue
		}

		if r.tryCost(cmd, totals, moves) {
			accepted++
		}
	}
	return accepted
}

// tryCost applies moves and keeps them when legal and not worsening the cost.
// totals is updated in place on success.
func (r *run) tryCost(cmd *Command, totals map[string]float64, moves []move) bool {
	m := r.m
	nw := m.Network
	nodes := make([]int, len(moves))
	for i, mv := range moves {
		nodes[i] = mv.node
	}
	edges := m.EdgesOf(nodes...)
	wlBefore := nw.EdgesHPWL(edges)
	dispBefore := m.NodesDisplacement(nodes)

	m.Begin()
	for _, mv := range moves {
		m.Move(mv.node, mv.x, mv.seg, mv.orient)
	}
	if !m.Legal() {
		m.Rollback()
		return false
	}

	after := map[string]float64{
		ObjHPWL: totals[ObjHPWL] + float64(nw.EdgesHPWL(edges)-wlBefore),
		ObjDisp: totals[ObjDisp] + float64(m.NodesDisplacement(nodes)-dispBefore),
	}
	if cmd.Cost.Eval(after)-cmd.Cost.Eval(totals) > 0 {
		m.Rollback()
		return false
	}
	m.Commit()
	totals[ObjHPWL], totals[ObjDisp] = after[ObjHPWL], after[ObjDisp]
	return true
}

