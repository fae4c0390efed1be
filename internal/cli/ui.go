package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/cvpchart/pkg/cvp"
	"github.com/matzehuels/cvpchart/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorAccent = lipgloss.Color("36")  // Teal - headings, selection
	colorProfit = lipgloss.Color("35")  // Green - profit, success
	colorWarn   = lipgloss.Color("220") // Amber - business warnings
	colorLoss   = lipgloss.Color("167") // Soft red - loss, errors
	colorLink   = lipgloss.Color("75")  // Light blue - commands
	colorValue  = lipgloss.Color("255") // Bright white - amounts
	colorLabel  = lipgloss.Color("245") // Gray - metric labels
	colorMuted  = lipgloss.Color("240") // Dim gray - borders, hints
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for report headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorMuted)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)
)

var (
	styleLabel   = lipgloss.NewStyle().Foreground(colorLabel).Width(metricLabelWidth)
	styleAmount  = lipgloss.NewStyle().Foreground(colorValue)
	styleProfit  = lipgloss.NewStyle().Foreground(colorProfit)
	styleLoss    = lipgloss.NewStyle().Foreground(colorLoss)
	styleTarget  = lipgloss.NewStyle().Foreground(colorAccent)
	styleCommand = lipgloss.NewStyle().Foreground(colorLink)

	styleIconWarning = lipgloss.NewStyle().Foreground(colorWarn)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

const metricLabelWidth = 24

// =============================================================================
// Metric Rows
// =============================================================================

// tone colors a metric value by what it says about the period.
type tone int

const (
	toneNeutral tone = iota
	toneProfit
	toneLoss
	toneTarget
)

// metricRow is one labeled line of a CVP report.
type metricRow struct {
	label string
	value string
	tone  tone
}

func (r metricRow) style() lipgloss.Style {
	switch r.tone {
	case toneProfit:
		return styleProfit
	case toneLoss:
		return styleLoss
	case toneTarget:
		return styleTarget
	}
	return styleAmount
}

// signTone is toneLoss for negative amounts and toneProfit otherwise.
func signTone(v float64) tone {
	if v < 0 {
		return toneLoss
	}
	return toneProfit
}

// printMetrics prints a titled block of metric rows with the values
// aligned in one column.
func printMetrics(w io.Writer, title string, rows []metricRow) {
	if title != "" {
		fmt.Fprintln(w, StyleTitle.Render(title))
	}
	for _, r := range rows {
		fmt.Fprintln(w, styleLabel.Render(r.label)+" "+r.style().Render(r.value))
	}
}

// =============================================================================
// Warnings
// =============================================================================

// printWarnings prints business warnings, one per line, with the code
// dimmed after the message so the lines can be grepped by code.
func printWarnings(w io.Writer, ws []cvp.Warning) {
	for _, wn := range ws {
		fmt.Fprintln(w, warningLine(wn))
	}
}

func warningLine(wn cvp.Warning) string {
	line := styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(wn.Message)
	if wn.Code != "" {
		line += " " + StyleDim.Render("["+string(wn.Code)+"]")
	}
	return line
}

// =============================================================================
// Run Output
// =============================================================================

// printSuccess prints a completed action.
func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleProfit.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

// printError prints a failure that does not end the command, such as a
// rejected edit while watching a scenario.
func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleLoss.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, StyleDim.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output file.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+styleAmount.Render(path))
}

// printRunSummary prints what a pipeline run produced on one line:
// block count, warning count, time per stage and whether every artifact
// came from the cache.
// Example: "  5 blocks · 1 warning · validate 8µs · layout 21µs · render 3ms · fresh"
func printRunSummary(w io.Writer, r *pipeline.Result) {
	fmt.Fprintln(w, "  "+StyleDim.Render(runSummary(r)))
}

func runSummary(r *pipeline.Result) string {
	parts := []string{plural(r.Stats.Blocks, "block")}
	if n := len(r.Warnings); n > 0 {
		parts = append(parts, plural(n, "warning"))
	}
	parts = append(parts,
		"validate "+stageTime(r.Stats.ValidateTime+r.Stats.CalculateTime),
		"layout "+stageTime(r.Stats.LayoutTime),
		"render "+stageTime(r.Stats.RenderTime),
	)
	if r.CacheInfo.RenderHit {
		parts = append(parts, "cached")
	} else {
		parts = append(parts, "fresh")
	}
	return strings.Join(parts, " · ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// stageTime rounds d to a unit that keeps sub-millisecond stages readable.
func stageTime(d time.Duration) string {
	if d < time.Millisecond {
		return d.Round(time.Microsecond).String()
	}
	return d.Round(time.Millisecond).String()
}

// printNextStep prints a suggested follow-up command.
func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
