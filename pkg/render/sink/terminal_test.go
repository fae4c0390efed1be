package sink

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/cvpchart/pkg/locale"
	"github.com/matzehuels/cvpchart/pkg/treemap"
)

func TestRenderTerminal(t *testing.T) {
	_, _, l := testLayout(100, 40, 30, treemap.LossNegativeBar)
	out := RenderTerminal(l, 60, 20)

	lines := strings.Split(out, "\n")
	if len(lines) != 20 {
		t.Errorf("RenderTerminal() = %d lines, want 20", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 60 {
			t.Errorf("line %d width = %d, want 60", i, w)
		}
	}
	if !strings.Contains(out, "Sales") {
		t.Error("RenderTerminal() should label the sales block")
	}
}

func TestRenderTerminalGrowsForLoss(t *testing.T) {
	_, _, l := testLayout(100, 60, 50, treemap.LossSeparate)
	out := RenderTerminal(l, 60, 20)

	want := 24 // ceil(20 * 1.16)
	if got := len(strings.Split(out, "\n")); got != want {
		t.Errorf("RenderTerminal() = %d lines, want %d", got, want)
	}
}

func TestRenderTerminalLegend(t *testing.T) {
	_, _, l := testLayout(100, 40, 30, treemap.LossNegativeBar)
	out := RenderTerminal(l, 60, 20, WithLegend(locale.English))

	for _, want := range []string{"Operating Profit  $30 (30.0%)", "Break-even point: $50"} {
		if !strings.Contains(out, want) {
			t.Errorf("legend missing %q", want)
		}
	}
}

func TestRenderTerminalWideLabels(t *testing.T) {
	in, calc, _ := testLayout(100, 40, 30, treemap.LossNegativeBar)
	l := treemap.Generate(in, calc, treemap.Options{Locale: locale.Japanese})
	out := RenderTerminal(l, 60, 20)

	for i, line := range strings.Split(out, "\n") {
		if w := lipgloss.Width(line); w != 60 {
			t.Errorf("line %d width = %d, want 60", i, w)
		}
	}
}

func TestRenderTerminalEmpty(t *testing.T) {
	_, _, l := testLayout(0, 0, 10, treemap.LossNegativeBar)
	if out := RenderTerminal(l, 60, 20); !strings.Contains(out, "no chart") {
		t.Errorf("RenderTerminal() = %q", out)
	}
}

func TestBlockAt(t *testing.T) {
	_, _, l := testLayout(100, 40, 30, treemap.LossNegativeBar)
	tests := []struct {
		x, y float64
		want treemap.BlockType
	}{
		{0.1, 0.5, treemap.BlockSales},
		{0.5, 0.1, treemap.BlockVariable},
		{0.5, 0.8, treemap.BlockContribution},
		{0.9, 0.5, treemap.BlockFixed},
		{0.9, 0.9, treemap.BlockProfit},
	}
	for _, tt := range tests {
		i := blockAt(l, tt.x, tt.y)
		if i < 0 || l.Blocks[i].Type != tt.want {
			t.Errorf("blockAt(%v, %v) = %d, want %s", tt.x, tt.y, i, tt.want)
		}
	}
	if got := blockAt(l, 0.5, 1.5); got != -1 {
		t.Errorf("blockAt outside = %d, want -1", got)
	}
}
