package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/cvpchart/pkg/cache"
	"github.com/matzehuels/cvpchart/pkg/cvp"
	"github.com/matzehuels/cvpchart/pkg/errors"
	"github.com/matzehuels/cvpchart/pkg/observability"
	"github.com/matzehuels/cvpchart/pkg/render/sink"
	"github.com/matzehuels/cvpchart/pkg/render/styles"
	"github.com/matzehuels/cvpchart/pkg/treemap"
)

// RenderInput is everything the sinks may embed besides the options.
// Input, Metrics and Warnings are optional when re-rendering a saved
// layout; formats that need them then fail with UNSUPPORTED.
type RenderInput struct {
	ChartID  string
	Input    cvp.Input
	Metrics  cvp.Calculated
	Warnings []cvp.Warning
	Layout   treemap.Layout

	// FromLayout marks a layout read back from JSON without its input.
	FromLayout bool
}

// Render generates output artifacts in the requested formats, consulting
// the runner's cache first.
func (r *Runner) Render(ctx context.Context, ri RenderInput, opts Options) (map[string][]byte, CacheInfo, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, CacheInfo{}, err
	}
	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	inputHash := ri.ChartID
	if ri.FromLayout {
		inputHash = "layout:" + ri.ChartID
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var info CacheInfo
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, info, err
		}

		key := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format))
		if ri.ChartID != "" {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				cacheHooks.OnCacheHit(ctx, format)
				artifacts[format] = data
				info.Hits = append(info.Hits, format)
				continue
			}
			cacheHooks.OnCacheMiss(ctx, format)
		}

		opts.report(StageRender, format)
		data, err := renderFormat(ctx, format, ri, opts)
		if err != nil {
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, info, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data

		if ri.ChartID != "" {
			if err := r.Cache.Set(ctx, key, data, DefaultCacheTTL); err != nil {
				r.Logger.Warn("cache write failed", "format", format, "error", err)
			} else {
				cacheHooks.OnCacheSet(ctx, format, len(data))
			}
		}
	}

	info.RenderHit = len(info.Hits) == len(opts.Formats)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, info, nil
}

// RenderFromLayoutData renders a layout previously exported as JSON.
// Formats that need the original input (xlsx) are not available.
func (r *Runner) RenderFromLayoutData(ctx context.Context, data []byte, opts Options) (map[string][]byte, error) {
	l, err := sink.ReadJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	artifacts, _, err := r.Render(ctx, RenderInput{
		ChartID:    cache.Hash(data),
		Layout:     l,
		FromLayout: true,
	}, opts)
	return artifacts, err
}

func renderFormat(ctx context.Context, format string, ri RenderInput, opts Options) ([]byte, error) {
	svgOpts, err := buildSVGOptions(ri, opts)
	if err != nil {
		return nil, err
	}
	lc := opts.Display.Locale

	switch format {
	case FormatSVG:
		return sink.RenderSVG(ri.Layout, svgOpts...), nil
	case FormatPNG:
		return sink.RenderPNG(ctx, ri.Layout, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
	case FormatPDF:
		pdfOpts := []sink.PDFOption{sink.WithPDFTitle(opts.Title), sink.WithPDFLocale(lc)}
		if opts.FontPath != "" {
			pdfOpts = append(pdfOpts, sink.WithPDFFont(opts.FontPath))
		}
		if !ri.FromLayout {
			pdfOpts = append(pdfOpts, sink.WithPDFMetrics(ri.Metrics, lc))
		}
		return sink.RenderPDF(ri.Layout, pdfOpts...)
	case FormatJSON:
		jsonOpts := []sink.JSONOption{sink.WithJSONStyle(opts.Style)}
		if !ri.FromLayout {
			jsonOpts = append(jsonOpts,
				sink.WithJSONChartID(ri.ChartID),
				sink.WithJSONInput(ri.Input),
				sink.WithJSONMetrics(ri.Metrics),
				sink.WithJSONWarnings(ri.Warnings))
		}
		return sink.RenderJSON(ri.Layout, jsonOpts...)
	case FormatXLSX:
		if ri.FromLayout {
			return nil, errors.New(errors.ErrCodeUnsupported, "xlsx needs the original input, not a saved layout")
		}
		return sink.RenderXLSX(ri.Input, ri.Metrics, ri.Layout, sink.WithXLSXLocale(lc))
	}
	return nil, ValidateFormat(format)
}

func buildSVGOptions(ri RenderInput, opts Options) ([]sink.SVGOption, error) {
	style, err := styles.Parse(opts.Style)
	if err != nil {
		return nil, err
	}
	svgOpts := []sink.SVGOption{
		sink.WithStyle(style),
		sink.WithSize(opts.Width, opts.Height),
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	if ri.ChartID != "" && !ri.FromLayout {
		svgOpts = append(svgOpts, sink.WithChartID(ri.ChartID))
	}
	if opts.ShowValues {
		svgOpts = append(svgOpts, sink.WithValues(opts.Display.Locale))
	}
	return svgOpts, nil
}
