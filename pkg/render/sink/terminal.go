package sink

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/cvpchart/pkg/locale"
	"github.com/matzehuels/cvpchart/pkg/treemap"
)

// Minimum terminal preview size in cells.
const (
	MinTerminalCols = 20
	MinTerminalRows = 6
)

// TerminalOption configures terminal rendering.
type TerminalOption func(*terminalRenderer)

type terminalRenderer struct {
	legend bool
	locale locale.Locale
}

// WithLegend appends one line per block with its value and share of sales.
func WithLegend(l locale.Locale) TerminalOption {
	return func(r *terminalRenderer) { r.legend = true; r.locale = l }
}

type cell struct {
	ch    rune
	block int // index into Layout.Blocks, -1 for background
	line  bool
}

// RenderTerminal draws the layout as colored character cells. cols and
// rows give the size of the unit chart; a chart with a loss uses
// proportionally more rows. Each cell takes the color of the block under
// its center.
func RenderTerminal(l treemap.Layout, cols, rows int, opts ...TerminalOption) string {
	r := terminalRenderer{locale: locale.Default}
	for _, opt := range opts {
		opt(&r)
	}
	if l.Empty() {
		return lipgloss.NewStyle().Faint(true).Render("(no chart: sales must be positive)")
	}

	cols = max(cols, MinTerminalCols)
	rows = max(rows, MinTerminalRows)
	total := int(math.Ceil(float64(rows) * math.Max(1, l.Meta.HeightExtension)))

	grid := make([][]cell, total)
	for y := range grid {
		grid[y] = make([]cell, cols)
		for x := range grid[y] {
			grid[y][x] = cell{ch: ' ', block: blockAt(l, (float64(x)+0.5)/float64(cols), (float64(y)+0.5)/float64(rows))}
		}
	}

	for i, b := range l.Blocks {
		drawCellLabel(grid, i, b, cols, rows)
	}
	for _, a := range l.Annotations {
		x := min(cols-1, int(annotationX(a.X)*float64(cols)))
		for y := range grid {
			if grid[y][x].ch != ' ' {
				continue
			}
			grid[y][x] = cell{ch: '│', block: grid[y][x].block, line: true}
		}
	}

	lines := make([]string, 0, total+len(l.Blocks)+1)
	for _, row := range grid {
		lines = append(lines, renderCellRow(l, row))
	}

	if r.legend {
		lines = append(lines, "")
		for _, b := range l.Blocks {
			swatch := lipgloss.NewStyle().Background(lipgloss.Color(b.Color)).Render("  ")
			lines = append(lines, swatch+" "+b.Label+"  "+valueText(r.locale, b))
		}
		for _, a := range l.Annotations {
			marker := lipgloss.NewStyle().Foreground(lipgloss.Color(a.Color)).Render("│")
			lines = append(lines, marker+"  "+a.Label)
		}
	}
	return strings.Join(lines, "\n")
}

// blockAt returns the index of the last block containing (x, y), or -1.
func blockAt(l treemap.Layout, x, y float64) int {
	for i := len(l.Blocks) - 1; i >= 0; i-- {
		b := l.Blocks[i]
		if x >= b.X && x < b.Right() && y >= b.Y && y < b.Bottom() {
			return i
		}
	}
	return -1
}

// drawCellLabel centers the block label inside its cells when it fits.
func drawCellLabel(grid [][]cell, idx int, b treemap.Block, cols, rows int) {
	x0 := int(math.Ceil(b.X * float64(cols)))
	x1 := int(b.Right() * float64(cols))
	y := int(b.CenterY() * float64(rows))
	if y < 0 || y >= len(grid) {
		return
	}
	width := x1 - x0 - 2
	if width < 3 || lipgloss.Width(b.Label) > width {
		return
	}
	x := x0 + 1 + (width-lipgloss.Width(b.Label))/2
	for _, ch := range b.Label {
		w := lipgloss.Width(string(ch))
		if x+w > x1 || grid[y][x].block != idx {
			return
		}
		grid[y][x].ch = ch
		// wide runes occupy the next cell too
		for i := 1; i < w; i++ {
			grid[y][x+i].ch = 0
		}
		x += w
	}
}

func renderCellRow(l treemap.Layout, row []cell) string {
	var sb strings.Builder
	for _, c := range row {
		if c.ch == 0 {
			continue
		}
		style := lipgloss.NewStyle()
		if c.block >= 0 {
			b := l.Blocks[c.block]
			style = style.Background(lipgloss.Color(b.Color)).Foreground(lipgloss.Color(b.TextColor))
		}
		if c.line {
			style = style.Foreground(lipgloss.Color(l.Palette.BEPLine))
		}
		sb.WriteString(style.Render(string(c.ch)))
	}
	return sb.String()
}
