package treemap

import (
	"github.com/matzehuels/cvpchart/pkg/cvp"
	"github.com/matzehuels/cvpchart/pkg/locale"
)

// AnnotationType identifies an overlay drawn on top of the blocks.
type AnnotationType string

// AnnotationBEPLine is the vertical break-even marker.
const AnnotationBEPLine AnnotationType = "bep-line"

// Annotation is an overlay positioned in the same normalized space as the
// blocks. For a break-even line, X is the break-even point as a fraction
// of sales and may exceed 1 when the business is below break-even.
type Annotation struct {
	Type          AnnotationType `json:"type"`
	X             float64        `json:"x"`
	Value         float64        `json:"value"`
	Ratio         float64        `json:"ratio"`
	Label         string         `json:"label"`
	LabelPosition LabelPosition  `json:"label_position"`
	LineStyle     LineStyle      `json:"line_style"`
	Color         string         `json:"color"`
}

func bepAnnotation(calc cvp.Calculated, sales float64, opts Options, color string) (Annotation, bool) {
	if !opts.ShowBEPLine {
		return Annotation{}, false
	}
	bep, ok := calc.BreakEvenPoint.Get()
	if !ok {
		return Annotation{}, false
	}
	ratio := bep / sales
	return Annotation{
		Type:          AnnotationBEPLine,
		X:             ratio,
		Value:         bep,
		Ratio:         ratio,
		Label:         bepLabel(opts.Locale, opts.BEP.LabelContent, bep, ratio),
		LabelPosition: opts.BEP.LabelPosition,
		LineStyle:     opts.BEP.LineStyle,
		Color:         color,
	}, true
}

func bepLabel(l locale.Locale, content LabelContent, bep, ratio float64) string {
	title := locale.LabelsFor(l).BreakEvenPoint
	value := locale.FormatValue(l, bep)
	pct := locale.FormatRatio(l, ratio)

	switch content {
	case LabelRatio:
		return title + ": " + pct
	case LabelBoth:
		return title + ": " + value + " (" + pct + ")"
	default:
		return title + ": " + value
	}
}
