package cli

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/provflow/pkg/dataset"
	"github.com/matzehuels/provflow/pkg/flow"
	"github.com/matzehuels/provflow/pkg/pipeline"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// browseCommand opens the interactive step browser.
func (c *CLI) browseCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "browse [assignments]",
		Short: "Step through the ordered timeline interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.opts.Assignments = args[0]
			result, err := c.execute(cmd.Context(), flags, "Ordering categories...")
			if err != nil {
				return err
			}
			m := NewStepBrowserModel(result)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	flags.register(cmd)

	return cmd
}

// =============================================================================
// StepBrowserModel - Interactive timeline browser
// =============================================================================

// StepBrowserModel is the bubbletea model for browsing ordered steps. Each
// page shows one year's bands, where their members came from and the
// crossings against the previous year.
type StepBrowserModel struct {
	Years   []int
	Results []flow.Result
	Names   dataset.Names
	Cursor  int
	Width   int
}

// NewStepBrowserModel creates a browser over a pipeline result.
func NewStepBrowserModel(result *pipeline.Result) StepBrowserModel {
	names := make(dataset.Names, len(result.Diagram.Flows))
	for _, f := range result.Diagram.Flows {
		names[f.Entity] = f.Name
	}
	return StepBrowserModel{
		Years:   result.Years,
		Results: result.Results,
		Names:   names,
		Width:   100,
	}
}

func (m StepBrowserModel) Init() tea.Cmd {
	return nil
}

func (m StepBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h", "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "right", "l", "down", "j":
			if m.Cursor < len(m.Years)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(len(m.Years)-1, 0)
		}
	case tea.WindowSizeMsg:
		m.Width = max(msg.Width, 40)
	}
	return m, nil
}

func (m StepBrowserModel) View() string {
	var b strings.Builder
	if len(m.Years) == 0 {
		b.WriteString(StyleTitle.Render("No steps"))
		b.WriteString("\n")
		return b.String()
	}

	t := m.Cursor
	res := m.Results[t]
	b.WriteString(StyleTitle.Render(fmt.Sprintf("Year %d", m.Years[t])))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", t+1, len(m.Years))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ step  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if t == 0 {
		b.WriteString(StyleDim.Render("first step, labels in natural order"))
	} else {
		b.WriteString(fmt.Sprintf("%s crossings vs %d %s",
			StyleNumber.Render(strconv.Itoa(res.Crossings)),
			m.Years[t-1],
			StyleDim.Render(fmt.Sprintf("(baseline %d)", res.Baseline))))
	}
	b.WriteString("\n")

	var prevIdx map[string]int
	if t > 0 {
		prevIdx = m.Results[t-1].Partition.Index()
	}
	memberWidth := max(m.Width-40, 20)

	var rows [][]string
	for label, group := range res.Partition {
		if len(group) == 0 {
			continue
		}
		members := make([]string, len(group))
		for i, id := range group {
			members[i] = m.Names.Name(id)
		}
		rows = append(rows, []string{
			strconv.Itoa(label),
			strconv.Itoa(len(group)),
			truncate(strings.Join(members, ", "), memberWidth),
			origins(group, prevIdx),
		})
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Label", "Count", "Members", "From").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case col < 2:
				return StyleNumber
			case col == 3:
				return StyleDim
			default:
				return StyleValue
			}
		})
	b.WriteString(tbl.Render())
	b.WriteString("\n")
	return b.String()
}

// origins summarizes the previous labels of group's members, e.g. "0×3 2×1".
// Members absent from the previous step are counted as "new".
func origins(group []string, prevIdx map[string]int) string {
	if prevIdx == nil {
		return "—"
	}
	counts := make(map[int]int)
	fresh := 0
	for _, id := range group {
		if l, ok := prevIdx[id]; ok {
			counts[l]++
		} else {
			fresh++
		}
	}
	labels := slices.SortedFunc(maps.Keys(counts), func(a, b int) int {
		return cmp.Or(cmp.Compare(counts[b], counts[a]), cmp.Compare(a, b))
	})
	parts := make([]string, 0, len(labels)+1)
	for _, l := range labels {
		parts = append(parts, fmt.Sprintf("%d×%d", l, counts[l]))
	}
	if fresh > 0 {
		parts = append(parts, fmt.Sprintf("new×%d", fresh))
	}
	return strings.Join(parts, " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
