// Package dot renders a placement network as a Graphviz graph.
//
// Cells become boxes sized like their footprint, terminals become small
// diamonds, and nets become edges: a two-pin net is a single edge and a
// larger net is a point hub with one edge per pin. With Options.Positions
// the nodes are pinned at their placed coordinates and laid out by neato, so
// the SVG shows the actual placement; otherwise Graphviz lays out the
// connectivity freely.
//
//	src := dot.ToDOT(nw, dot.Options{Positions: true, Nets: true})
//	svg, err := dot.RenderSVG(ctx, src)
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package dot
