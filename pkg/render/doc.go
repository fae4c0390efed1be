// Package render provides format conversion shared by the chart sinks.
//
// # Format Conversion
//
// [ToPNG] converts an SVG document to a raster image using the external
// rsvg-convert tool (from librsvg). PDF output does not need it: the PDF
// sink draws natively.
//
//	svg := sink.RenderSVG(layout, opts...)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// Chart drawing lives in the subpackages:
//   - [styles]: SVG drawing styles (simple, outline) and text helpers
//   - [sink]: output formats (SVG, JSON, PDF, PNG, XLSX, terminal)
//
// [styles]: github.com/matzehuels/cvpchart/pkg/render/styles
// [sink]: github.com/matzehuels/cvpchart/pkg/render/sink
package render
