package treemap

import (
	"math"

	"github.com/matzehuels/cvpchart/pkg/cvp"
	"github.com/matzehuels/cvpchart/pkg/locale"
	"github.com/matzehuels/cvpchart/pkg/palette"
)

// Meta summarizes a layout for renderers.
type Meta struct {
	HasLoss    bool    `json:"has_loss"`
	HasBEP     bool    `json:"has_bep"`
	SalesValue float64 `json:"sales_value"`
	// HeightExtension is the factor by which a renderer must scale its
	// drawable height. It is 1 when everything fits in the unit square and
	// always at least the bottom edge of the lowest block.
	HeightExtension float64         `json:"height_extension"`
	LossDisplayMode LossDisplayMode `json:"loss_display_mode"`
	// Degenerate is set when variable costs consume all of sales and the
	// contribution band is not drawn.
	Degenerate bool `json:"degenerate"`
}

// Layout is the output of [Generate].
type Layout struct {
	Blocks      []Block         `json:"blocks"`
	Annotations []Annotation    `json:"annotations"`
	Meta        Meta            `json:"meta"`
	Palette     palette.Palette `json:"palette"`
}

// Empty reports whether the layout has no blocks.
func (l Layout) Empty() bool { return len(l.Blocks) == 0 }

// Block returns the first block of type t.
func (l Layout) Block(t BlockType) (Block, bool) {
	for _, b := range l.Blocks {
		if b.Type == t {
			return b, true
		}
	}
	return Block{}, false
}

// Generate lays out the chart for in. calc must be [cvp.Calculate] of in.
//
// Sales that are not a positive finite number produce an empty layout with
// HeightExtension 1. Coordinates are never NaN or negative, whatever the
// input.
func Generate(in cvp.Input, calc cvp.Calculated, opts Options) Layout {
	opts.SetDefaults()
	b := newBuilder(in, calc, opts)

	sales := in.Sales
	if !(sales > cvp.Epsilon) || math.IsInf(sales, 1) {
		return b.finish(1)
	}

	vcH := height(in.VariableCosts / sales)
	b.add(BlockSales, 0, 0, SalesColumnWidth, 1, sales, BlockMeta{})
	b.add(BlockVariable, CostColumnX, 0, CostColumnWidth, vcH, in.VariableCosts, BlockMeta{})

	if calc.ContributionMargin <= 0 {
		b.degenerate = true
		return b.finish(b.degenerateLoss(vcH))
	}

	cmH := height(calc.ContributionMargin / sales)
	fcH := height(in.FixedCosts / sales)
	b.add(BlockContribution, CostColumnX, vcH, HalfColumnWidth, cmH, calc.ContributionMargin, BlockMeta{})

	if !calc.HasLoss() {
		b.add(BlockFixed, RightHalfX, vcH, HalfColumnWidth, fcH, in.FixedCosts, BlockMeta{})
		b.add(BlockProfit, RightHalfX, vcH+fcH, HalfColumnWidth, height(calc.OperatingProfit/sales), calc.OperatingProfit, BlockMeta{})
		return b.finish(1)
	}

	loss := math.Abs(calc.OperatingProfit)
	lossH := height(loss / sales)

	if b.opts.LossMode == LossSeparate {
		b.add(BlockFixed, RightHalfX, vcH, HalfColumnWidth, cmH, in.FixedCosts, BlockMeta{Clipped: true})
		placed := b.add(BlockLoss, CostColumnX, 1+SeparateLossGap, CostColumnWidth,
			math.Max(lossH, MinSeparateLossHeight), loss,
			BlockMeta{ExtendsBelow: true, Detached: true})
		return b.finish(placed.Bottom())
	}

	fixed := b.add(BlockFixed, RightHalfX, vcH, HalfColumnWidth, fcH, in.FixedCosts, BlockMeta{})
	placed := b.add(BlockLoss, CostColumnX, 1, HalfColumnWidth, lossH, loss, BlockMeta{ExtendsBelow: true})
	ext := height(calc.TotalCosts / sales)
	return b.finish(math.Max(ext, math.Max(placed.Bottom(), fixed.Bottom())))
}

// degenerateLoss places the single loss block used when the contribution
// margin is not positive and returns the required height extension.
func (b *builder) degenerateLoss(vcH float64) float64 {
	if !b.calc.HasLoss() {
		return math.Max(1, vcH)
	}
	loss := math.Abs(b.calc.OperatingProfit)
	lossH := height(loss / b.in.Sales)

	var placed Block
	if b.opts.LossMode == LossSeparate {
		placed = b.add(BlockLoss, CostColumnX, math.Max(vcH, 1)+SeparateLossGap, CostColumnWidth,
			math.Max(lossH, MinSeparateLossHeight), loss,
			BlockMeta{ExtendsBelow: true, Detached: true})
	} else {
		// The loss starts flush with the sales edge so the cost column ends at
		// totalCosts/sales. Variable costs above sales share that strip.
		placed = b.add(BlockLoss, CostColumnX, 1, CostColumnWidth, lossH, loss,
			BlockMeta{ExtendsBelow: true, Overlaps: vcH > 1+cvp.Epsilon})
	}
	ext := height(b.calc.TotalCosts / b.in.Sales)
	return math.Max(ext, placed.Bottom())
}

// builder holds the per-call state of one Generate invocation.
type builder struct {
	in         cvp.Input
	calc       cvp.Calculated
	opts       Options
	colors     palette.Palette
	labels     locale.Labels
	blocks     []Block
	degenerate bool
}

func newBuilder(in cvp.Input, calc cvp.Calculated, opts Options) *builder {
	return &builder{
		in:     in,
		calc:   calc,
		opts:   opts,
		colors: palette.Resolve(opts.Scheme, opts.CustomColors),
		labels: locale.LabelsFor(opts.Locale),
		blocks: make([]Block, 0, 6),
	}
}

func (b *builder) add(t BlockType, x, y, w, h, value float64, meta BlockMeta) Block {
	color := b.color(t)
	block := Block{
		Type:       t,
		X:          x,
		Y:          finite(y),
		Width:      w,
		Height:     height(h),
		Value:      finite(value),
		Percentage: finite(value / b.in.Sales * 100),
		Label:      t.Label(b.labels),
		Color:      color,
		TextColor:  palette.TextColor(color),
		Meta:       meta,
	}
	b.blocks = append(b.blocks, block)
	return block
}

// finish assembles the layout. The height extension is raised to the lowest
// block edge so malformed input never clips a block.
func (b *builder) finish(ext float64) Layout {
	for _, blk := range b.blocks {
		ext = math.Max(ext, blk.Bottom())
	}
	l := Layout{
		Blocks:      b.blocks,
		Annotations: []Annotation{},
		Palette:     b.colors,
		Meta: Meta{
			HasLoss:         b.calc.HasLoss(),
			HasBEP:          b.calc.BreakEvenPoint.Valid(),
			SalesValue:      finite(b.in.Sales),
			HeightExtension: math.Max(1, finite(ext)),
			LossDisplayMode: b.opts.LossMode,
			Degenerate:      b.degenerate,
		},
	}
	if len(l.Blocks) == 0 {
		return l
	}
	if a, ok := bepAnnotation(b.calc, b.in.Sales, b.opts, b.colors.BEPLine); ok {
		l.Annotations = append(l.Annotations, a)
	}
	return l
}

func (b *builder) color(t BlockType) string {
	switch t {
	case BlockSales:
		return b.colors.Sales
	case BlockVariable:
		return b.colors.Variable
	case BlockContribution:
		return b.colors.Contribution
	case BlockFixed:
		return b.colors.Fixed
	case BlockProfit:
		return b.colors.Profit
	default:
		return b.colors.Loss
	}
}

// height clamps a normalized extent to a finite, non-negative number.
func height(v float64) float64 {
	if !(v > 0) || math.IsInf(v, 1) {
		return 0
	}
	return v
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
