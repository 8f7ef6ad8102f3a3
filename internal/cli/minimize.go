package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/provflow/pkg/errors"
	"github.com/matzehuels/provflow/pkg/flow"
	"github.com/matzehuels/provflow/pkg/flow/perm"
	"github.com/matzehuels/provflow/pkg/pipeline"
)

// minimizeCommand orders a single pair of snapshots.
func (c *CLI) minimizeCommand() *cobra.Command {
	var (
		ordering string
		limit    int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "minimize [previous] [current]",
		Short: "Relabel one snapshot against another with minimal crossings",
		Long: `Relabel one snapshot against another with minimal crossings.

Both files hold a partition: a list of groups, each a list of entity ids,
in JSON or YAML. The current partition's groups are reassigned labels so
that drawing both snapshots as stacked bands produces as few crossing
ribbons as possible.

Example:
  $ echo '[["a","b"],["c","d"]]' > prev.json
  $ echo '[["c","d"],["a","b"]]' > curr.json
  $ provflow minimize prev.json curr.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			previous, err := readPartition(args[0])
			if err != nil {
				return err
			}
			current, err := readPartition(args[1])
			if err != nil {
				return err
			}

			opts := pipeline.Options{Ordering: ordering, ExhaustiveLimit: limit}
			c.applyConfig(&opts)
			opts.SetDefaults()
			if err := opts.ValidateOrdering(); err != nil {
				return err
			}
			o, err := opts.Orderer()
			if err != nil {
				return err
			}
			if err := errors.ValidatePartition(current, opts.GroupCap()); err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			res := o.Order(previous, current)
			keyvals := []any{"groups", len(current), "ordering", opts.Ordering}
			if opts.Ordering == flow.OrderingExhaustive {
				keyvals = append(keyvals, "labelings", perm.Factorial(len(current)))
			}
			prog.done("ordered snapshot", keyvals...)

			if asJSON {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printResult(res)
			return nil
		},
	}

	cmd.Flags().StringVar(&ordering, "ordering", "", "ordering strategy: exhaustive (default), barycentric, auto")
	cmd.Flags().IntVar(&limit, "limit", 0, "largest category count searched exhaustively by auto")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return cmd
}

// readPartition loads a partition file. YAML is a superset of JSON, so one
// decoder serves both; unquoted numeric ids decode as strings.
func readPartition(path string) (flow.Partition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "partition file %s", path)
		}
		return nil, err
	}
	var p flow.Partition
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPartition, err, "decode %s", path)
	}
	if err := errors.ValidatePartition(p, 0); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPartition, err, "%s", path)
	}
	return p, nil
}

// printResult renders the relabeled groups as a table.
func printResult(res flow.Result) {
	rows := make([][]string, len(res.Order))
	for i, label := range res.Order {
		rows[i] = []string{
			strconv.Itoa(i),
			strconv.Itoa(label),
			strings.Join(res.Partition[label], ", "),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Group", "Label", "Members").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case col == 1:
				return StyleNumber
			default:
				return StyleValue
			}
		})

	fmt.Fprintln(stdout, t.Render())
	printKeyValue("Crossings", strconv.Itoa(res.Crossings))
	printKeyValue("Baseline", strconv.Itoa(res.Baseline))
	if res.Crossings < res.Baseline {
		printSuccess("Saved %d crossings", res.Baseline-res.Crossings)
	}
}
