package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cvpchart/pkg/cvp"
	"github.com/matzehuels/cvpchart/pkg/locale"
	"github.com/matzehuels/cvpchart/pkg/render/sink"
	"github.com/matzehuels/cvpchart/pkg/treemap"
)

// exploreCommand creates the explore command, an interactive what-if view.
func (c *CLI) exploreCommand() *cobra.Command {
	var flags chartFlags

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Adjust sales and costs interactively",
		Long: `Adjust sales and costs interactively and watch the chart and metrics change.

Keys:
  up/down, k/j     select sales, variable costs or fixed costs
  left/right, h/l  decrease or increase the selected figure
  [ ]              smaller or larger steps
  m                switch the loss display mode
  b                toggle the break-even line
  r                reset to the starting figures
  q                quit and print the final figures`,
		Example: `  cvpchart explore --sales 1000 --variable 600 --fixed 300
  cvpchart explore -s fy2024.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			if _, err := cvp.Validate(spec.Input); err != nil {
				return err
			}
			return c.runExplore(cmd.Context(), cmd.OutOrStdout(), spec)
		},
	}

	flags.register(cmd, true)

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, w io.Writer, spec chartSpec) error {
	p := tea.NewProgram(newExploreModel(spec.Input, spec.Display), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("explore: %w", err)
	}

	m, ok := final.(exploreModel)
	if !ok {
		return nil
	}
	lc := m.display.Locale
	lb := locale.LabelsFor(lc)
	printInfo(w, "Final figures")
	printMetrics(w, "", []metricRow{
		{label: lb.Sales, value: locale.FormatValue(lc, m.input.Sales)},
		{label: lb.VariableCosts, value: locale.FormatValue(lc, m.input.VariableCosts)},
		{label: lb.FixedCosts, value: locale.FormatValue(lc, m.input.FixedCosts)},
	})
	return nil
}

// =============================================================================
// exploreModel - what-if editing of one period
// =============================================================================

const (
	fieldSales = iota
	fieldVariable
	fieldFixed
	fieldCount
)

// exploreSteps are the step sizes as fractions of the starting sales.
var exploreSteps = []float64{0.01, 0.05, 0.10}

var (
	exploreLabelStyle    = lipgloss.NewStyle().Foreground(colorLabel)
	exploreSelectedStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
)

// exploreModel is the bubbletea model for the explore command.
type exploreModel struct {
	base    cvp.Input
	input   cvp.Input
	display treemap.Options
	field   int
	step    int
	width   int
	height  int
}

func newExploreModel(in cvp.Input, display treemap.Options) exploreModel {
	display.SetDefaults()
	return exploreModel{base: in, input: in, display: display, step: 1}
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.field > 0 {
				m.field--
			}
		case "down", "j":
			if m.field < fieldCount-1 {
				m.field++
			}
		case "right", "l", "+":
			m.adjust(1)
		case "left", "h", "-":
			m.adjust(-1)
		case "]":
			m.step = min(m.step+1, len(exploreSteps)-1)
		case "[":
			m.step = max(m.step-1, 0)
		case "m":
			if m.display.LossMode == treemap.LossSeparate {
				m.display.LossMode = treemap.LossNegativeBar
			} else {
				m.display.LossMode = treemap.LossSeparate
			}
		case "b":
			m.display.ShowBEPLine = !m.display.ShowBEPLine
		case "r":
			m.input = m.base
		}
	}
	return m, nil
}

// stepAmount is the change applied by one key press.
func (m exploreModel) stepAmount() float64 {
	return m.base.Sales * exploreSteps[m.step]
}

// adjust moves the selected figure by one step. Costs stop at zero and
// sales stay positive. An edited total drops its breakdown, which no
// longer adds up.
func (m *exploreModel) adjust(sign float64) {
	delta := sign * m.stepAmount()
	switch m.field {
	case fieldSales:
		if v := m.input.Sales + delta; v > 0 {
			m.input.Sales = v
		}
	case fieldVariable:
		m.input.VariableCosts = max(0, m.input.VariableCosts+delta)
		m.input.VariableBreakdown = nil
	case fieldFixed:
		m.input.FixedCosts = max(0, m.input.FixedCosts+delta)
		m.input.FixedBreakdown = nil
	}
}

func (m exploreModel) chartSize() (cols, rows int) {
	cols, rows = defaultPreviewCols, defaultPreviewRows
	if m.width > 0 {
		cols = min(max(m.width/2, sink.MinTerminalCols), 100)
	}
	if m.height > 0 {
		rows = min(max(m.height/2, sink.MinTerminalRows), 30)
	}
	return cols, rows
}

func (m exploreModel) View() string {
	lc := m.display.Locale
	lb := locale.LabelsFor(lc)
	calc := cvp.Calculate(m.input)
	warnings, _ := cvp.Validate(m.input)
	layout := treemap.Generate(m.input, calc, m.display)

	var b strings.Builder
	b.WriteString(StyleTitle.Render("CVP explorer"))
	if m.input.Label != "" {
		b.WriteString(StyleDim.Render(" · " + m.input.Label))
	}
	b.WriteString("\n\n")

	fields := []struct {
		label string
		value float64
	}{
		{lb.Sales, m.input.Sales},
		{lb.VariableCosts, m.input.VariableCosts},
		{lb.FixedCosts, m.input.FixedCosts},
	}
	for i, f := range fields {
		line := fmt.Sprintf("%-20s %s", f.label, locale.FormatValue(lc, f.value))
		if i == m.field {
			b.WriteString(exploreSelectedStyle.Render("> " + line))
		} else {
			b.WriteString(exploreLabelStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString(StyleDim.Render(fmt.Sprintf("  step %s · loss mode %s",
		locale.FormatValue(lc, m.stepAmount()), m.display.LossMode)))
	b.WriteString("\n\n")

	cols, rows := m.chartSize()
	chart := sink.RenderTerminal(layout, cols, rows, sink.WithLegend(lc))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, chart, "  ", metricsTable(lc, m.input, calc)))
	b.WriteString("\n")

	for _, w := range warnings {
		b.WriteString(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(w.Message))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("arrows: adjust  [ ]: step  m: loss mode  b: break-even line  r: reset  q: quit"))

	return b.String()
}

// metricsTable renders the metric lines as a bordered two-column table.
func metricsTable(lc locale.Locale, in cvp.Input, calc cvp.Calculated) string {
	lines := metricLines(lc, in, calc)
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, []string{line.label, line.value})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorLabel).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers("Metric", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 1 && row >= 0 && row < len(lines) {
				return lines[row].style().Align(lipgloss.Right)
			}
			return lipgloss.NewStyle().Foreground(colorLabel)
		})
	return t.Render()
}
