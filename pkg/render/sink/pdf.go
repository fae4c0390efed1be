package sink

import (
	"bytes"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/matzehuels/cvpchart/pkg/cvp"
	"github.com/matzehuels/cvpchart/pkg/errors"
	"github.com/matzehuels/cvpchart/pkg/locale"
	"github.com/matzehuels/cvpchart/pkg/palette"
	"github.com/matzehuels/cvpchart/pkg/treemap"
)

// Page layout constants (A4 landscape in mm).
const (
	pdfPageWidth    = 297.0
	pdfPageHeight   = 210.0
	pdfMargin       = 15.0
	pdfHeaderHeight = 12.0
	pdfChartWidth   = 170.0
	pdfMaxUnitH     = 130.0
	pdfTableX       = pdfMargin + pdfChartWidth + 12.0
	pdfTableWidth   = pdfPageWidth - pdfTableX - pdfMargin
	pdfRowHeight    = 7.0
	pdfFontFamily   = "cvpchart"
	pdfCoreFont     = "Helvetica"
)

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	title    string
	fontPath string
	locale   locale.Locale
	metrics  *cvp.Calculated
}

// WithPDFTitle prints a heading above the chart and sets the document title.
func WithPDFTitle(t string) PDFOption { return func(r *pdfRenderer) { r.title = t } }

// WithPDFFont embeds a TrueType font so non-Latin labels (e.g. Japanese)
// render. Without it, labels outside Latin-1 fall back to English.
func WithPDFFont(path string) PDFOption { return func(r *pdfRenderer) { r.fontPath = path } }

// WithPDFMetrics adds a metrics table next to the chart.
func WithPDFMetrics(c cvp.Calculated, l locale.Locale) PDFOption {
	return func(r *pdfRenderer) { r.metrics = &c; r.locale = l }
}

// WithPDFLocale sets the locale for value formatting.
func WithPDFLocale(l locale.Locale) PDFOption { return func(r *pdfRenderer) { r.locale = l } }

// RenderPDF draws the layout on a single A4 landscape page.
func RenderPDF(l treemap.Layout, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{locale: locale.Default}
	for _, opt := range opts {
		opt(&r)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetCreator("cvpchart", false)
	if r.title != "" {
		pdf.SetTitle(r.title, true)
	}

	text := pdfText{family: pdfCoreFont, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	if r.fontPath != "" {
		pdf.AddUTF8Font(pdfFontFamily, "", r.fontPath)
		text = pdfText{family: pdfFontFamily, utf8: true}
	}
	pdf.AddPage()

	top := pdfMargin
	if r.title != "" {
		pdf.SetFont(text.family, "", 14)
		pdf.SetXY(pdfMargin, pdfMargin)
		pdf.CellFormat(pdfPageWidth-2*pdfMargin, pdfHeaderHeight, text.str(r.title, "CVP chart"), "", 0, "L", false, 0, "")
		top += pdfHeaderHeight + 4
	}
	// room for the break-even label above the chart
	top += 6

	ext := math.Max(1, l.Meta.HeightExtension)
	avail := pdfPageHeight - top - pdfMargin - 8
	unitH := math.Min(pdfMaxUnitH, avail/ext)
	f := frame{x0: pdfMargin, y0: top, w: pdfChartWidth, unitH: unitH}

	drawPDFBlocks(pdf, l, f, text, r.locale)
	if ext > 1 {
		pdf.SetDrawColor(107, 114, 128)
		pdf.SetLineWidth(0.2)
		pdf.SetDashPattern([]float64{1.5, 1}, 0)
		pdf.Line(f.px(0), f.py(1), f.px(1), f.py(1))
		pdf.SetDashPattern(nil, 0)
	}
	drawPDFAnnotations(pdf, l, f, text, r.locale, ext)

	if r.metrics != nil {
		drawPDFMetrics(pdf, l, *r.metrics, text, r.locale, top)
	}

	if err := pdf.Error(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render pdf")
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "write pdf")
	}
	return buf.Bytes(), nil
}

// pdfText picks the font and converts strings for the core fonts, which
// only cover cp1252.
type pdfText struct {
	family string
	utf8   bool
	tr     func(string) string
}

func (t pdfText) str(s, fallback string) string {
	if t.utf8 {
		return s
	}
	if !latin1(s) {
		s = fallback
	}
	return t.tr(s)
}

func latin1(s string) bool {
	for _, r := range s {
		if r > 0xFF {
			return false
		}
	}
	return true
}

func drawPDFBlocks(pdf *fpdf.Fpdf, l treemap.Layout, f frame, text pdfText, lc locale.Locale) {
	english := locale.LabelsFor(locale.English)
	for _, b := range l.Blocks {
		x, y, w, h := f.rect(b)
		if w <= 0 || h <= 0 {
			continue
		}
		r, g, bl := palette.RGB255(b.Color)
		pdf.SetFillColor(int(r), int(g), int(bl))
		pdf.SetDrawColor(255, 255, 255)
		pdf.SetLineWidth(0.4)
		pdf.Rect(x, y, w, h, "FD")

		if w < 15 || h < 6 {
			continue
		}
		tr, tg, tb := palette.RGB255(b.TextColor)
		pdf.SetTextColor(int(tr), int(tg), int(tb))

		size := pdfLabelFontSize(w, h)
		pdf.SetFont(text.family, "", size)
		label := text.str(b.Label, b.Type.Label(english))
		value := text.str(valueText(lc, b), valueText(locale.English, b))
		lineH := size * 0.45

		if h > 2*lineH+2 {
			pdf.SetXY(x, y+h/2-lineH)
			pdf.CellFormat(w, lineH, label, "", 0, "C", false, 0, "")
			pdf.SetXY(x, y+h/2)
			pdf.CellFormat(w, lineH, value, "", 0, "C", false, 0, "")
		} else {
			pdf.SetXY(x, y+h/2-lineH/2)
			pdf.CellFormat(w, lineH, label, "", 0, "C", false, 0, "")
		}
	}
	pdf.SetTextColor(0, 0, 0)
}

func drawPDFAnnotations(pdf *fpdf.Fpdf, l treemap.Layout, f frame, text pdfText, lc locale.Locale, ext float64) {
	english := locale.LabelsFor(locale.English)
	for _, a := range l.Annotations {
		x := f.px(annotationX(a.X))
		r, g, b := palette.RGB255(a.Color)
		pdf.SetDrawColor(int(r), int(g), int(b))
		pdf.SetLineWidth(0.5)
		switch a.LineStyle {
		case treemap.LineDashed:
			pdf.SetDashPattern([]float64{2, 1.5}, 0)
		case treemap.LineDotted:
			pdf.SetDashPattern([]float64{0.5, 1}, 0)
		}
		pdf.Line(x, f.py(0), x, f.py(ext))
		pdf.SetDashPattern(nil, 0)

		if a.Label == "" {
			continue
		}
		pdf.SetFont(text.family, "", 8)
		pdf.SetTextColor(int(r), int(g), int(b))
		label := text.str(a.Label, english.BreakEvenPoint+": "+locale.FormatValue(lc, a.Value))
		lw := pdf.GetStringWidth(label)
		y := f.py(0) - 5
		if a.LabelPosition == treemap.LabelBottom {
			y = f.py(ext) + 1
		}
		pdf.SetXY(x-lw/2, y)
		pdf.CellFormat(lw, 4, label, "", 0, "C", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
}

func drawPDFMetrics(pdf *fpdf.Fpdf, l treemap.Layout, c cvp.Calculated, text pdfText, lc locale.Locale, top float64) {
	labels := locale.LabelsFor(lc)
	if !text.utf8 && !latin1(labels.Sales) {
		labels = locale.LabelsFor(locale.English)
	}
	rows := metricRows(labels, lc, l.Meta.SalesValue, c)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.2)
	y := top
	for i, row := range rows {
		if i%2 == 0 {
			pdf.SetFillColor(243, 244, 246)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetFont(text.family, "", 9)
		pdf.SetXY(pdfTableX, y)
		pdf.CellFormat(pdfTableWidth*0.55, pdfRowHeight, text.str(row.label, row.label), "B", 0, "L", true, 0, "")
		pdf.CellFormat(pdfTableWidth*0.45, pdfRowHeight, text.str(row.value, row.value), "B", 0, "R", true, 0, "")
		y += pdfRowHeight
	}
}

func pdfLabelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 11
	case minDim > 20:
		return 9
	default:
		return 7
	}
}
