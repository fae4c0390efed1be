package treemap

import "github.com/matzehuels/cvpchart/pkg/locale"

// BlockType identifies the role of a block in the chart.
type BlockType string

// Block types in drawing order.
const (
	BlockSales        BlockType = "sales"
	BlockVariable     BlockType = "variable"
	BlockContribution BlockType = "contribution"
	BlockFixed        BlockType = "fixed"
	BlockProfit       BlockType = "profit"
	BlockLoss         BlockType = "loss"
)

// Label returns the display title of t in the given label set.
func (t BlockType) Label(lb locale.Labels) string {
	switch t {
	case BlockSales:
		return lb.Sales
	case BlockVariable:
		return lb.VariableCosts
	case BlockContribution:
		return lb.ContributionMargin
	case BlockFixed:
		return lb.FixedCosts
	case BlockProfit:
		return lb.OperatingProfit
	case BlockLoss:
		return lb.OperatingLoss
	}
	return string(t)
}

// BlockMeta carries geometry flags renderers may style differently.
type BlockMeta struct {
	// ExtendsBelow is set on loss blocks that reach past y = 1.
	ExtendsBelow bool `json:"extends_below"`
	// Detached is set when the loss block is separated from the stack by a gap.
	Detached bool `json:"detached"`
	// Clipped is set when the drawn height is shorter than Value implies.
	Clipped bool `json:"clipped"`
	// Overlaps is set when the block is drawn over part of another block.
	Overlaps bool `json:"overlaps"`
}

// Block is one rectangle of the chart in normalized coordinates.
type Block struct {
	Type       BlockType `json:"type"`
	X          float64   `json:"x"`
	Y          float64   `json:"y"`
	Width      float64   `json:"width"`
	Height     float64   `json:"height"`
	Value      float64   `json:"value"`
	Percentage float64   `json:"percentage"`
	Label      string    `json:"label"`
	Color      string    `json:"color"`
	TextColor  string    `json:"text_color"`
	Meta       BlockMeta `json:"meta"`
}

// Right returns the x coordinate of the right edge.
func (b Block) Right() float64 { return b.X + b.Width }

// Bottom returns the y coordinate of the bottom edge.
func (b Block) Bottom() float64 { return b.Y + b.Height }

// CenterX returns the horizontal center of the block.
func (b Block) CenterX() float64 { return b.X + b.Width/2 }

// CenterY returns the vertical center of the block.
func (b Block) CenterY() float64 { return b.Y + b.Height/2 }

// Area returns Width * Height.
func (b Block) Area() float64 { return b.Width * b.Height }
