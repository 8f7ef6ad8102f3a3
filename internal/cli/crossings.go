package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/provflow/pkg/pipeline"
)

// crossingsCommand reports, per transition, how many crossings the input
// labeling has and how many remain after ordering.
func (c *CLI) crossingsCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "crossings [assignments]",
		Short: "Compare crossings before and after ordering, per year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.opts.Assignments = args[0]
			return c.runCrossings(cmd.Context(), flags)
		},
	}
	flags.register(cmd)

	return cmd
}

func (c *CLI) runCrossings(ctx context.Context, flags layoutFlags) error {
	result, err := c.execute(ctx, flags, "Counting crossings...")
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, crossingsTable(result))
	printStats(result.Stats.Steps, len(result.Diagram.Flows), result.Stats.Crossings, result.Stats.Baseline, result.CacheHit)
	return nil
}

// crossingsTable renders one row per transition plus a total row.
func crossingsTable(result *pipeline.Result) string {
	var rows [][]string
	for t := 1; t < len(result.Results); t++ {
		res := result.Results[t]
		rows = append(rows, []string{
			fmt.Sprintf("%d → %d", result.Years[t-1], result.Years[t]),
			strconv.Itoa(len(res.Order)),
			strconv.Itoa(res.Baseline),
			strconv.Itoa(res.Crossings),
			strconv.Itoa(res.Baseline - res.Crossings),
		})
	}
	total := len(rows)
	rows = append(rows, []string{
		"total", "",
		strconv.Itoa(result.Stats.Baseline),
		strconv.Itoa(result.Stats.Crossings),
		strconv.Itoa(result.Stats.Baseline - result.Stats.Crossings),
	})

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Transition", "Groups", "Baseline", "Chosen", "Saved").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case row == total:
				return StyleTitle
			case col == 3 && rows[row][3] == "0":
				return StyleSuccess
			case col == 4 && rows[row][4] == "0":
				return StyleWarning
			case col >= 2:
				return StyleNumber
			default:
				return StyleValue
			}
		}).
		Render()
}
