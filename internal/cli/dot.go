package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dplace/pkg/design"
	"github.com/matzehuels/dplace/pkg/importer"
	"github.com/matzehuels/dplace/pkg/render/dot"
)

// dotCommand creates the dot command for exporting the placement network.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		output string
		svg    bool
	)
	opts := dot.Options{Positions: true, Nets: true}

	cmd := &cobra.Command{
		Use:   "dot [design.json]",
		Short: "Export the placement network as Graphviz DOT or SVG",
		Long: `Export the placement network of a design as a Graphviz graph.

Cells are drawn as boxes at their placed location (use --positions=false for
a free connectivity layout) and nets as edges. With --svg the graph is rendered
in-process; no Graphviz installation is needed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			d, err := design.ImportJSON(input)
			if err != nil {
				return fmt.Errorf("load design %s: %w", input, err)
			}
			imp, err := importer.Import(d, importer.Options{Logger: c.Logger})
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}

			src := dot.ToDOT(imp.Network, opts)
			data, ext := []byte(src), ".dot"
			if svg {
				data, err = dot.RenderSVG(cmd.Context(), src)
				if err != nil {
					return fmt.Errorf("render svg: %w", err)
				}
				ext = ".svg"
			}

			path := output
			if path == "" {
				path = strings.TrimSuffix(input, filepath.Ext(input)) + ext
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}

			w := cmd.OutOrStdout()
			printSuccess(w, "Network exported")
			printFile(w, path)
			stats := imp.Network.Stats()
			printStats(w, stats.Cells, stats.Edges, false)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.dot or .svg)")
	cmd.Flags().BoolVar(&svg, "svg", false, "render to SVG instead of writing DOT")
	cmd.Flags().BoolVar(&opts.Positions, "positions", opts.Positions, "pin nodes at their placed location")
	cmd.Flags().BoolVar(&opts.Nets, "nets", opts.Nets, "draw nets")
	cmd.Flags().IntVar(&opts.MaxFanout, "max-fanout", dot.DefaultMaxFanout, "skip nets with more pins")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "label cells with master and position")

	return cmd
}
