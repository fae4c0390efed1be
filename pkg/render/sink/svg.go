package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/cvpchart/pkg/locale"
	"github.com/matzehuels/cvpchart/pkg/render/styles"
	"github.com/matzehuels/cvpchart/pkg/treemap"
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style      styles.Style
	width      float64
	height     float64
	title      string
	chartID    string
	showValues bool
	locale     locale.Locale
}

func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }
func WithTitle(t string) SVGOption       { return func(r *svgRenderer) { r.title = t } }
func WithChartID(id string) SVGOption    { return func(r *svgRenderer) { r.chartID = id } }

// WithSize sets the size of the unit chart. Charts with a loss are taller.
func WithSize(width, height float64) SVGOption {
	return func(r *svgRenderer) {
		if width > 0 {
			r.width = width
		}
		if height > 0 {
			r.height = height
		}
	}
}

// WithValues prints each block's value and share of sales under its label.
func WithValues(l locale.Locale) SVGOption {
	return func(r *svgRenderer) { r.showValues = true; r.locale = l }
}

// RenderSVG renders the layout as a standalone SVG document.
func RenderSVG(l treemap.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	f := r.frame()
	width := f.w + 2*f.x0
	height := f.canvasHeight(l.Meta.HeightExtension)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f"`,
		width, height, width, height)
	if r.chartID != "" {
		fmt.Fprintf(&buf, ` data-chart-id="%s"`, styles.EscapeXML(r.chartID))
	}
	buf.WriteString(">\n")

	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", styles.EscapeXML(r.title))
	}
	r.style.RenderDefs(&buf)
	fmt.Fprintf(&buf, `  <rect class="background" width="%.1f" height="%.1f" fill="white"/>`+"\n", width, height)
	if r.title != "" {
		fmt.Fprintf(&buf, `  <text class="chart-title" x="%.2f" y="%.2f" font-family="Helvetica, Arial, sans-serif" font-size="16" font-weight="bold" fill="#111827">%s</text>`+"\n",
			f.x0, titleHeight-6, styles.EscapeXML(r.title))
	}

	blocks := r.buildBlocks(l, f)
	for _, b := range blocks {
		r.style.RenderBlock(&buf, b)
	}
	for _, b := range blocks {
		r.style.RenderText(&buf, b)
	}
	if l.Meta.HeightExtension > 1 {
		renderBaseline(&buf, f)
	}
	for _, a := range l.Annotations {
		r.style.RenderAnnotation(&buf, buildAnnotation(a, f, l.Meta.HeightExtension))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{
		style:  styles.Simple{},
		width:  DefaultWidth,
		height: DefaultHeight,
		locale: locale.Default,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func (r svgRenderer) frame() frame {
	top := marginTop
	if r.title != "" {
		top += titleHeight
	}
	return newFrame(r.width, r.height, top, marginX, marginBottom)
}

func (r svgRenderer) buildBlocks(l treemap.Layout, f frame) []styles.Block {
	blocks := make([]styles.Block, 0, len(l.Blocks))
	for _, b := range l.Blocks {
		x, y, w, h := f.rect(b)
		sb := styles.Block{
			ID:           string(b.Type),
			Label:        b.Label,
			X:            x,
			Y:            y,
			W:            w,
			H:            h,
			CX:           x + w/2,
			CY:           y + h/2,
			Fill:         b.Color,
			TextColor:    b.TextColor,
			Detached:     b.Meta.Detached,
			ExtendsBelow: b.Meta.ExtendsBelow,
		}
		if r.showValues {
			sb.Value = valueText(r.locale, b)
		}
		blocks = append(blocks, sb)
	}
	return blocks
}

func buildAnnotation(a treemap.Annotation, f frame, ext float64) styles.Annotation {
	return styles.Annotation{
		X:     f.px(annotationX(a.X)),
		Y1:    f.py(0),
		Y2:    f.py(ext),
		Label: a.Label,
		Top:   a.LabelPosition != treemap.LabelBottom,
		Dash:  styles.DashArray(string(a.LineStyle)),
		Color: a.Color,
	}
}

// renderBaseline marks the 100%-of-sales edge when a loss overflows it.
func renderBaseline(buf *bytes.Buffer, f frame) {
	fmt.Fprintf(buf, `  <line class="baseline" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#6B7280" stroke-width="1" stroke-dasharray="4 2"/>`+"\n",
		f.px(0), f.py(1), f.px(1), f.py(1))
}
