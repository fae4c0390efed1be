// Package sink provides output format renderers for CVP chart layouts.
//
// # Overview
//
// A "sink" transforms a computed [treemap.Layout] into a final output
// format. This package provides renderers for:
//
//   - SVG: scalable vector graphics
//   - JSON: layout and metrics export for external tools
//   - PDF: print-ready A4 page with a metrics table
//   - PNG: raster image output (requires rsvg-convert)
//   - XLSX: spreadsheet with metrics and block geometry
//   - Terminal: colored character-cell preview
//
// # Height Extension
//
// Every graphical sink scales its drawable height by
// [treemap.Meta.HeightExtension]. The requested size is the size of the
// unit chart (100% of sales); a chart with a loss grows downward so the
// loss block is never clipped.
//
// # SVG Output
//
//	svg := sink.RenderSVG(layout,
//	    sink.WithSize(800, 500),
//	    sink.WithStyle(styles.Outline{}),
//	    sink.WithValues(locale.English),
//	)
//
// # JSON Output
//
// [RenderJSON] exports the layout together with optional input and
// metrics. [ReadJSON] reads the layout back for re-rendering.
//
// # PDF, PNG and XLSX Output
//
// [RenderPDF] draws natively with go-pdf/fpdf. [RenderPNG] converts the SVG
// output via [render.ToPNG]. [RenderXLSX] writes a workbook with excelize.
//
// [treemap.Layout]: github.com/matzehuels/cvpchart/pkg/treemap.Layout
// [treemap.Meta.HeightExtension]: github.com/matzehuels/cvpchart/pkg/treemap.Meta
// [render.ToPNG]: github.com/matzehuels/cvpchart/pkg/render.ToPNG
package sink
