package cli

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/provflow/pkg/pipeline"
)

// layoutFlags are the flags shared by every command that runs the pipeline.
type layoutFlags struct {
	opts    pipeline.Options
	noCache bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.opts.Records, "records", "", "indicator records JSON providing province names")
	cmd.Flags().StringVar(&f.opts.Ordering, "ordering", "", "ordering strategy: exhaustive (default), barycentric, auto")
	cmd.Flags().IntVar(&f.opts.ExhaustiveLimit, "limit", 0, fmt.Sprintf("largest category count searched exhaustively by auto (default %d)", pipeline.DefaultExhaustiveLimit))
	cmd.Flags().Float64Var(&f.opts.Width, "width", 0, fmt.Sprintf("frame width (default %g)", pipeline.DefaultWidth))
	cmd.Flags().Float64Var(&f.opts.Height, "height", 0, fmt.Sprintf("frame height (default %g)", pipeline.DefaultHeight))
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.opts.Refresh, "refresh", false, "recompute and overwrite cached results")
}

// layoutCommand creates the layout command, the main entry point: order the
// timeline, lay out the diagram and write the requested artifacts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags   layoutFlags
		output  string
		formats string
	)

	cmd := &cobra.Command{
		Use:   "layout [assignments]",
		Short: "Order a clustering timeline and compute its alluvial diagram",
		Long: `Order a clustering timeline and compute its alluvial diagram.

The assignments file maps year → province id → [x, y, label] (JSON or YAML).
Each year's categories are relabeled so that the ribbons between consecutive
years cross as little as possible, then bands and ribbons are laid out in a
width × height frame.

Outputs are written next to the input unless -o is given:
  json  diagram geometry (default)
  dot   Graphviz source of the band graph
  svg   Graphviz rendering of the band graph

Orderings and finished diagrams are cached locally.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.opts.Assignments = args[0]
			flags.opts.Formats = parseFormats(formats)
			return c.runLayout(cmd.Context(), flags, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): json (default), dot, svg (comma-separated)")
	cmd.Flags().BoolVar(&flags.opts.Members, "members", false, "list province names inside DOT bands")

	return cmd
}

// runLayout executes the pipeline and writes every artifact.
func (c *CLI) runLayout(ctx context.Context, flags layoutFlags, output string) error {
	result, err := c.execute(ctx, flags, "Ordering categories...")
	if err != nil {
		return err
	}

	input := flags.opts.Assignments
	single := len(flags.opts.Formats) == 1
	var written []string
	for _, format := range flags.opts.Formats {
		path := outputPath(output, input, format, single)
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		written = append(written, path)
	}

	printSuccess("Layout complete")
	for _, path := range written {
		printFile(path)
	}
	printStats(result.Stats.Steps, len(result.Diagram.Flows), result.Stats.Crossings, result.Stats.Baseline, result.CacheHit)
	if !slices.Contains(flags.opts.Formats, pipeline.FormatSVG) {
		printNewline()
		printNextStep("Inspect", appName+" crossings "+input)
	}
	return nil
}

// execute runs the pipeline with config defaults applied and a spinner on
// stderr.
func (c *CLI) execute(ctx context.Context, flags layoutFlags, message string) (*pipeline.Result, error) {
	opts := flags.opts
	c.applyConfig(&opts)

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, message)
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Pipeline failed")
		return nil, err
	}
	spinner.Stop()
	prog.done("pipeline finished", "steps", result.Stats.Steps, "cached", result.CacheHit)
	return result, nil
}
