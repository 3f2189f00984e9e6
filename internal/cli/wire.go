package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/markkurossi/tabulate"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dplace/pkg/wire"
)

// wireCommand creates the wire command for decoding wire topology streams.
func (c *CLI) wireCommand() *cobra.Command {
	var (
		index  int
		fields string
	)

	cmd := &cobra.Command{
		Use:   "wire [wire.json]",
		Short: "Decode points of a wire topology stream",
		Long: `Decode the point in effect at positions of a stored wire.

The input holds the opcode and data arrays of a wire and the via layers it
references:

  {"opcodes": [...], "data": [...], "vias": {"block": {"3": {"bottom": 1, "top": 2}}}}

Without --index every position is decoded and printed as a table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			want, err := parseFields(fields)
			if err != nil {
				return err
			}
			doc, s, err := readWire(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if cmd.Flags().Changed("index") {
				p, err := wire.PrevPoint(s, index, want, doc.Vias)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, formatPoint(p))
				return nil
			}
			c.Logger.Debug("Decoding wire.", "instructions", s.Len(), "fields", want)
			printWireTable(w, s, want, doc.Vias)
			return nil
		},
	}

	cmd.Flags().IntVarP(&index, "index", "i", 0, "decode only this position")
	cmd.Flags().StringVarP(&fields, "fields", "f", "x,y,layer", "fields to resolve: x, y, layer (comma-separated)")

	return cmd
}

func readWire(path string) (*wire.Document, wire.Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wire.Stream{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := wire.ReadDocument(f)
	if err != nil {
		return nil, wire.Stream{}, err
	}
	s, err := doc.Stream()
	if err != nil {
		return nil, wire.Stream{}, err
	}
	return doc, s, nil
}

// parseFields parses a comma-separated field list such as "x,layer".
func parseFields(s string) (wire.Field, error) {
	var f wire.Field
	for _, name := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "x":
			f |= wire.FieldX
		case "y":
			f |= wire.FieldY
		case "layer":
			f |= wire.FieldLayer
		case "xy":
			f |= wire.FieldXY
		case "all":
			f |= wire.FieldAll
		case "":
		default:
			return 0, fmt.Errorf("unknown field %q (want x, y or layer)", name)
		}
	}
	if f == 0 {
		return 0, fmt.Errorf("no fields selected")
	}
	return f, nil
}

// formatPoint prints the resolved fields of p, e.g. "x=100 y=200 layer=3".
func formatPoint(p wire.Point) string {
	var parts []string
	if p.Fields&wire.FieldX != 0 {
		parts = append(parts, "x="+strconv.Itoa(p.X))
	}
	if p.Fields&wire.FieldY != 0 {
		parts = append(parts, "y="+strconv.Itoa(p.Y))
	}
	if p.Fields&wire.FieldLayer != 0 {
		parts = append(parts, "layer="+strconv.Itoa(p.Layer))
	}
	return strings.Join(parts, " ")
}

func printWireTable(w io.Writer, s wire.Stream, want wire.Field, vias wire.ViaTable) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Index").SetAlign(tabulate.MR)
	tab.Header("Instruction").SetAlign(tabulate.ML)
	tab.Header("Point").SetAlign(tabulate.ML)

	for i, in := range s.Ops {
		row := tab.Row()
		row.Column(strconv.Itoa(i))
		row.Column(in.String())
		p, err := wire.PrevPoint(s, i, want, vias)
		if err != nil {
			row.Column(err.Error())
			continue
		}
		row.Column(formatPoint(p))
	}
	tab.Print(w)
}
