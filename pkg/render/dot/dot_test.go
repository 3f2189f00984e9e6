package dot

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/dplace/pkg/network"
)

// sample has two cells, one fixed macro and a terminal. Net 0 joins the two
// cells, net 1 joins all three cells and the terminal.
func sample(t *testing.T) *network.Network {
	t.Helper()
	nw := network.New(4, 2, 6)
	names := []string{"u1", "u2", "blk", "in"}
	for i := range nw.Nodes {
		nw.Nodes[i].Name = names[i]
		nw.Nodes[i].Width, nw.Nodes[i].Height = 400, 1000
	}
	nw.Nodes[1].Left = 600
	nw.Nodes[2].Left, nw.Nodes[2].Fixed = 2000, true
	nw.Nodes[3].Type, nw.Nodes[3].Fixed = network.Terminal, true
	nw.Nodes[3].Width, nw.Nodes[3].Height = 0, 0
	nw.Nodes[3].Bottom = 4000
	nw.Edges[0].Name = "a"
	nw.Edges[1].Name = "b"

	for _, c := range [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {2, 1}, {3, 1}} {
		if _, err := nw.AddPin(c[0], c[1]); err != nil {
			t.Fatal(err)
		}
	}
	return nw
}

func TestToDOT(t *testing.T) {
	nw := sample(t)
	tests := []struct {
		name    string
		opts    Options
		want    []string
		notWant []string
	}{
		{
			name: "nodes only",
			opts: Options{},
			want: []string{
				"graph G {",
				"layout=sfdp",
				`"u1" [label="u1"`,
				`"blk" [label="blk"`,
				"fillcolor=lightgrey",
				"shape=diamond",
			},
			notWant: []string{"--", "pos="},
		},
		{
			name: "nets",
			opts: Options{Nets: true},
			want: []string{
				`"u1" -- "u2";`,
				`"net:b" [shape=point`,
				`"net:b" -- "in";`,
				`"net:b" -- "blk";`,
			},
		},
		{
			name:    "fanout limit",
			opts:    Options{Nets: true, MaxFanout: 3},
			want:    []string{`"u1" -- "u2";`},
			notWant: []string{"net:b"},
		},
		{
			name: "positions",
			opts: Options{Positions: true, Nets: true, Scale: 0.072},
			want: []string{
				"layout=neato",
				`pos="0.200,0.500!"`, // u1 center (200, 500)
				`pos="0.800,0.500!"`, // u2 center (800, 500)
				"width=0.400",
			},
		},
		{
			name: "detailed",
			opts: Options{Detailed: true},
			want: []string{`label="u1"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDOT(nw, tt.opts)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("missing %q in:\n%s", w, got)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(got, w) {
					t.Errorf("unexpected %q in:\n%s", w, got)
				}
			}
		})
	}
}

func TestToDOTDetailedMaster(t *testing.T) {
	nw := sample(t)
	m := nw.AddMaster("INV_X1", nw.Nodes[0].Rect())
	nw.Nodes[0].Master = m
	got := ToDOT(nw, Options{Detailed: true})
	if !strings.Contains(got, `label="u1\nINV_X1\n(0,0) R0"`) {
		t.Errorf("detailed label missing:\n%s", got)
	}
}

func TestToDOTUnnamed(t *testing.T) {
	nw := network.New(2, 1, 2)
	for i := range nw.Nodes {
		nw.Nodes[i].Width, nw.Nodes[i].Height = 100, 100
		if _, err := nw.AddPin(i, 0); err != nil {
			t.Fatal(err)
		}
	}
	got := ToDOT(nw, Options{Nets: true})
	if !strings.Contains(got, `"n0" -- "n1";`) {
		t.Errorf("unnamed nodes not emitted by id:\n%s", got)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?><svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	if !strings.Contains(got, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("header not normalized: %s", got)
	}
	if strings.Contains(got, `100pt`) {
		t.Errorf("original header kept: %s", got)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(sample(t), Options{Positions: true, Nets: true}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Errorf("output is not svg: %.200s", svg)
	}
}

func TestRenderSVGInvalid(t *testing.T) {
	if _, err := RenderSVG(context.Background(), `not valid DOT {{{`); err == nil {
		t.Error("expected parse error")
	}
}
