package sink

import (
	"math"

	"github.com/matzehuels/cvpchart/pkg/locale"
	"github.com/matzehuels/cvpchart/pkg/treemap"
)

// Default chart size in pixels for the unit (no-loss) chart.
const (
	DefaultWidth  = 800.0
	DefaultHeight = 500.0
)

const (
	marginX      = 24.0
	marginTop    = 32.0
	marginBottom = 28.0
	titleHeight  = 28.0
)

// frame maps normalized layout coordinates onto a drawing surface.
type frame struct {
	x0, y0 float64 // top-left corner of the chart area
	w      float64 // chart width
	unitH  float64 // height of 100% of sales
	bottom float64 // margin below the chart
}

func newFrame(width, height, top, side, bottom float64) frame {
	return frame{
		x0:     side,
		y0:     top,
		w:      math.Max(1, width-2*side),
		unitH:  math.Max(1, height-top-bottom),
		bottom: bottom,
	}
}

func (f frame) px(x float64) float64 { return f.x0 + x*f.w }
func (f frame) py(y float64) float64 { return f.y0 + y*f.unitH }

func (f frame) rect(b treemap.Block) (x, y, w, h float64) {
	return f.px(b.X), f.py(b.Y), b.Width * f.w, b.Height * f.unitH
}

// canvasHeight is the full surface height for a layout with the given
// height extension.
func (f frame) canvasHeight(ext float64) float64 {
	return f.y0 + f.unitH*math.Max(1, ext) + f.bottom
}

// annotationX clamps a break-even position into the chart area.
func annotationX(x float64) float64 {
	return math.Min(1, math.Max(0, x))
}

// valueText formats a block value with its share of sales.
func valueText(l locale.Locale, b treemap.Block) string {
	return locale.FormatValue(l, b.Value) + " (" + locale.FormatRatio(l, b.Percentage/100) + ")"
}
