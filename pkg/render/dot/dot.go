package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/dplace/pkg/network"
)

// DefaultMaxFanout is the largest net drawn when Options.MaxFanout is zero.
const DefaultMaxFanout = 16

// pointsPerInch is the Graphviz unit for node sizes.
const pointsPerInch = 72.0

// Options configures DOT generation.
type Options struct {
	// Positions pins every node at its placed location.
	Positions bool

	// Nets draws the nets. Without it only the nodes are emitted.
	Nets bool

	// MaxFanout skips nets with more pins than this.
	MaxFanout int

	// Scale converts DBU to points. Zero fits the largest dimension of the
	// placement into about 1000 points.
	Scale float64

	// Detailed adds master and position to cell labels.
	Detailed bool
}

// ToDOT converts nw to Graphviz DOT source.
func ToDOT(nw *network.Network, opts Options) string {
	if opts.MaxFanout <= 0 {
		opts.MaxFanout = DefaultMaxFanout
	}
	if opts.Scale <= 0 {
		opts.Scale = fitScale(nw)
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if opts.Positions {
		buf.WriteString("  layout=neato;\n")
		buf.WriteString("  overlap=true;\n")
		buf.WriteString("  splines=false;\n")
	} else {
		buf.WriteString("  layout=sfdp;\n")
		buf.WriteString("  overlap=prism;\n")
	}
	buf.WriteString("  node [shape=box, style=filled, fillcolor=white, fontsize=10, fixedsize=true];\n")
	buf.WriteString("  edge [color=\"#4a6fa5\", penwidth=0.6];\n")
	buf.WriteString("\n")

	for i := range nw.Nodes {
		nd := &nw.Nodes[i]
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(nd), strings.Join(nodeAttrs(nd, opts), ", "))
	}

	if opts.Nets {
		buf.WriteString("\n")
		writeNets(&buf, nw, opts)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(nd *network.Node) string {
	if nd.Name != "" {
		return nd.Name
	}
	return "n" + strconv.Itoa(nd.ID)
}

func nodeAttrs(nd *network.Node, opts Options) []string {
	label := nodeID(nd)
	if opts.Detailed && nd.Master != nil {
		label = fmt.Sprintf("%s\n%s\n(%d,%d) %s", label, nd.Master.Name, nd.Left, nd.Bottom, nd.Orient)
	}

	var attrs []string
	if nd.Type == network.Terminal {
		attrs = []string{`label=""`, fmt.Sprintf("tooltip=%q", label),
			"shape=diamond", "width=0.15", "height=0.15", `fillcolor="#e07a5f"`}
	} else {
		attrs = []string{fmt.Sprintf("label=%q", label),
			fmt.Sprintf("width=%s", inches(float64(nd.Width)*opts.Scale)),
			fmt.Sprintf("height=%s", inches(float64(nd.Height)*opts.Scale))}
		if !nd.Movable() {
			attrs = append(attrs, "fillcolor=lightgrey")
		}
	}
	if opts.Positions {
		c := nd.Rect().Center()
		attrs = append(attrs, fmt.Sprintf(`pos="%s,%s!"`,
			inches(float64(c.X)*opts.Scale), inches(float64(c.Y)*opts.Scale)))
	}
	return attrs
}

func writeNets(buf *bytes.Buffer, nw *network.Network, opts Options) {
	for i := range nw.Edges {
		e := &nw.Edges[i]
		nodes := distinctNodes(nw, e)
		if len(nodes) < 2 || len(nodes) > opts.MaxFanout {
			continue
		}
		if len(nodes) == 2 {
			fmt.Fprintf(buf, "  %q -- %q;\n", nodeID(&nw.Nodes[nodes[0]]), nodeID(&nw.Nodes[nodes[1]]))
			continue
		}
		hub := "net:" + e.Name
		if e.Name == "" {
			hub = "net:" + strconv.Itoa(e.ID)
		}
		attrs := []string{"shape=point", "width=0.04", fmt.Sprintf("tooltip=%q", e.Name)}
		if opts.Positions {
			x, y := netCenter(nw, nodes)
			attrs = append(attrs, fmt.Sprintf(`pos="%s,%s!"`, inches(x*opts.Scale), inches(y*opts.Scale)))
		}
		fmt.Fprintf(buf, "  %q [%s];\n", hub, strings.Join(attrs, ", "))
		for _, n := range nodes {
			fmt.Fprintf(buf, "  %q -- %q;\n", hub, nodeID(&nw.Nodes[n]))
		}
	}
}

// distinctNodes lists the nodes on e in pin order, each once.
func distinctNodes(nw *network.Network, e *network.Edge) []int {
	var out []int
	seen := make(map[int]bool, len(e.Pins))
	for _, pid := range e.Pins {
		n := nw.Pins[pid].Node
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func netCenter(nw *network.Network, nodes []int) (float64, float64) {
	var sx, sy float64
	for _, n := range nodes {
		c := nw.Nodes[n].Rect().Center()
		sx += float64(c.X)
		sy += float64(c.Y)
	}
	return sx / float64(len(nodes)), sy / float64(len(nodes))
}

// fitScale maps the extent of the nodes to about 1000 points.
func fitScale(nw *network.Network) float64 {
	extent := 1
	for i := range nw.Nodes {
		nd := &nw.Nodes[i]
		extent = max(extent, nd.Right(), nd.Top())
	}
	return 1000 / float64(extent)
}

func inches(points float64) string {
	return strconv.FormatFloat(points/pointsPerInch, 'f', 3, 64)
}

// RenderSVG renders DOT source to SVG using the embedded Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz svg header with one that scales.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
