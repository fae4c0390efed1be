package treemap

import "testing"

func TestBlockEdges(t *testing.T) {
	tests := []struct {
		name       string
		block      Block
		wantRight  float64
		wantBottom float64
	}{
		{
			name:       "unit square",
			block:      Block{X: 0, Y: 0, Width: 1, Height: 1},
			wantRight:  1,
			wantBottom: 1,
		},
		{
			name:       "offset",
			block:      Block{X: 0.25, Y: 0.5, Width: 0.5, Height: 0.25},
			wantRight:  0.75,
			wantBottom: 0.75,
		},
		{
			name:       "zero size",
			block:      Block{X: 0.5, Y: 1, Width: 0, Height: 0},
			wantRight:  0.5,
			wantBottom: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.block.Right(); got != tt.wantRight {
				t.Errorf("Right() = %v, want %v", got, tt.wantRight)
			}
			if got := tt.block.Bottom(); got != tt.wantBottom {
				t.Errorf("Bottom() = %v, want %v", got, tt.wantBottom)
			}
		})
	}
}

func TestBlockCenter(t *testing.T) {
	tests := []struct {
		name  string
		block Block
		wantX float64
		wantY float64
	}{
		{
			name:  "unit square",
			block: Block{Width: 1, Height: 1},
			wantX: 0.5,
			wantY: 0.5,
		},
		{
			name:  "overflowing loss",
			block: Block{X: 0.5, Y: 1, Width: 0.5, Height: 0.5},
			wantX: 0.75,
			wantY: 1.25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.block.CenterX(); got != tt.wantX {
				t.Errorf("CenterX() = %v, want %v", got, tt.wantX)
			}
			if got := tt.block.CenterY(); got != tt.wantY {
				t.Errorf("CenterY() = %v, want %v", got, tt.wantY)
			}
		})
	}
}

func TestBlockArea(t *testing.T) {
	b := Block{Width: 0.5, Height: 0.25}
	if got := b.Area(); got != 0.125 {
		t.Errorf("Area() = %v, want 0.125", got)
	}
}
