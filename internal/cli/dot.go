package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/provflow/pkg/pipeline"
)

// dotCommand exports the band graph for debugging with Graphviz.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		flags  layoutFlags
		output string
		svg    bool
	)

	cmd := &cobra.Command{
		Use:   "dot [assignments]",
		Short: "Export the ordered band graph as Graphviz DOT (or SVG)",
		Long: `Export the ordered band graph as Graphviz DOT (or SVG).

Every (year, label) band becomes a node; years are ranked left to right
and bands sharing provinces are joined by edges weighted by the number of
provinces that move between them. Without -o the output goes to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := pipeline.FormatDOT
			if svg {
				format = pipeline.FormatSVG
			}
			flags.opts.Assignments = args[0]
			flags.opts.Formats = []string{format}

			result, err := c.execute(cmd.Context(), flags, "Building band graph...")
			if err != nil {
				return err
			}
			data := result.Artifacts[format]
			if output == "" {
				_, err := stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write output %s: %w", output, err)
			}
			printSuccess("Wrote %s", format)
			printFile(output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&svg, "svg", false, "render to SVG with Graphviz")
	cmd.Flags().BoolVar(&flags.opts.Members, "members", false, "list province names inside bands")

	return cmd
}
