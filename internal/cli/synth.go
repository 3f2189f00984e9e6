package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dplace/pkg/design"
)

// synthCommand creates the synth command for generating test designs.
func (c *CLI) synthCommand() *cobra.Command {
	var output string
	opts := design.DefaultSynthOptions()

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Generate a synthetic near-legal design",
		Long: `Generate a deterministic row-based design whose cells sit close to, but not
on, legal sites. The same flags always produce the same design, which makes
synth useful for benchmarks and for reproducing problems.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Rows <= 0 || opts.SitesPerRow <= 0 {
				return fmt.Errorf("rows and sites must be positive")
			}
			if opts.Utilization <= 0 || opts.Utilization > 1 {
				return fmt.Errorf("utilization must be in (0, 1], got %g", opts.Utilization)
			}

			prog := newProgress(c.Logger)
			d := design.Synthesize(opts)
			if err := design.ExportJSON(d, output); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			prog.done(fmt.Sprintf("Synthesized %d instances on %d rows", len(d.Instances), len(d.Rows)))

			w := cmd.OutOrStdout()
			printSuccess(w, "Design generated")
			printFile(w, output)
			printStats(w, len(d.Instances), len(d.Nets), false)
			fmt.Fprintln(w)
			printNextStep(w, "Improve", appName+" improve "+output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "design.json", "output file")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed")
	cmd.Flags().IntVar(&opts.Rows, "rows", opts.Rows, "single-height rows")
	cmd.Flags().IntVar(&opts.SitesPerRow, "sites", opts.SitesPerRow, "sites per row")
	cmd.Flags().Float64Var(&opts.Utilization, "utilization", opts.Utilization, "fraction of each row covered by cells")
	cmd.Flags().IntVar(&opts.Nets, "nets", opts.Nets, "signal nets")
	cmd.Flags().IntVar(&opts.MaxFanout, "max-fanout", opts.MaxFanout, "maximum sinks per net")
	cmd.Flags().IntVar(&opts.Terminals, "terminals", opts.Terminals, "block terminals")
	cmd.Flags().IntVar(&opts.FixedCells, "fixed", opts.FixedCells, "fixed cells")
	cmd.Flags().IntVar(&opts.MultiHeightRows, "multi-height-rows", opts.MultiHeightRows, "extra rows on a double-height site")
	cmd.Flags().IntVar(&opts.Jitter, "jitter", opts.Jitter, "maximum distance from a legal spot in DBU")
	cmd.Flags().BoolVar(&opts.OneSiteFiller, "filler", opts.OneSiteFiller, "add a one-site filler master")
	cmd.Flags().BoolVar(&opts.EdgeSpacing, "edge-spacing", opts.EdgeSpacing, "add an edge spacing table")
	cmd.Flags().BoolVar(&opts.Region, "region", opts.Region, "constrain part of the cells to a region")
	cmd.Flags().BoolVar(&opts.Blockage, "blockage", opts.Blockage, "add a placement blockage")
	cmd.Flags().IntVar(&opts.PaddingSites, "padding", opts.PaddingSites, "cell padding in sites")

	return cmd
}
