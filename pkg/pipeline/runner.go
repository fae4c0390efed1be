package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/cvpchart/pkg/cache"
	"github.com/matzehuels/cvpchart/pkg/cvp"
	"github.com/matzehuels/cvpchart/pkg/observability"
	"github.com/matzehuels/cvpchart/pkg/treemap"
)

// chartNamespace seeds the name-based chart IDs.
var chartNamespace = uuid.MustParse("6f1c9a52-3d0e-4b8e-9a57-0c2f1d8e4b21")

// Runner encapsulates pipeline execution with artifact caching.
// Both CLI and API use this to avoid duplicating pipeline logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If logger is nil, log output is discarded.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete validate → calculate → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result := &Result{}

	// Stages 1 and 2: Validate and calculate
	opts.report(StageValidate, "")
	calc, warnings, stats, err := r.analyze(ctx, opts.Input)
	if err != nil {
		return nil, err
	}
	result.Metrics = calc
	result.Warnings = warnings
	result.Stats = stats
	for _, w := range warnings {
		r.Logger.Warn(w.Message, "code", w.Code)
	}

	// Stage 3: Layout
	opts.report(StageLayout, "")
	layoutStart := time.Now()
	result.Layout = r.Layout(ctx, opts.Input, calc, opts.Display)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Blocks = len(result.Layout.Blocks)

	r.Logger.Info("computed layout",
		"blocks", result.Stats.Blocks,
		"loss", calc.HasLoss(),
		"height", result.Layout.Meta.HeightExtension)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 4: Render
	result.ChartID = ChartID(opts.Input, opts.Display)
	renderStart := time.Now()
	artifacts, info, err := r.Render(ctx, RenderInput{
		ChartID:  result.ChartID,
		Input:    opts.Input,
		Metrics:  calc,
		Warnings: warnings,
		Layout:   result.Layout,
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo = info
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", len(info.Hits),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Calculate validates the input and derives its metrics. Warnings do not
// fail the call; an invalid input returns a coded error.
func (r *Runner) Calculate(ctx context.Context, in cvp.Input) (cvp.Calculated, []cvp.Warning, error) {
	calc, warnings, _, err := r.analyze(ctx, in)
	return calc, warnings, err
}

func (r *Runner) analyze(ctx context.Context, in cvp.Input) (cvp.Calculated, []cvp.Warning, Stats, error) {
	var stats Stats
	hooks := observability.Pipeline()

	start := time.Now()
	warnings, err := cvp.Validate(in)
	stats.ValidateTime = time.Since(start)
	hooks.OnValidate(ctx, len(warnings), err)
	if err != nil {
		return cvp.Calculated{}, nil, stats, fmt.Errorf("validate: %w", err)
	}

	start = time.Now()
	calc := cvp.Calculate(in)
	stats.CalculateTime = time.Since(start)
	hooks.OnCalculate(ctx, calc.HasLoss(), stats.CalculateTime)

	return calc, warnings, stats, nil
}

// Layout generates the chart layout with default-filled display options.
func (r *Runner) Layout(ctx context.Context, in cvp.Input, calc cvp.Calculated, display treemap.Options) treemap.Layout {
	display.SetDefaults()
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, string(display.LossMode))

	start := time.Now()
	l := treemap.Generate(in, calc, display)
	hooks.OnLayoutComplete(ctx, string(display.LossMode), len(l.Blocks), time.Since(start))
	return l
}

// ChartID returns the name-based UUID of a chart. It depends only on what
// the chart shows, so cached artifacts and fresh renders agree on it.
func ChartID(in cvp.Input, display treemap.Options) string {
	display.SetDefaults()
	key := cache.HashValue(struct {
		Input   cvp.Input       `json:"input"`
		Display treemap.Options `json:"display"`
	}{in, display})
	return uuid.NewSHA1(chartNamespace, []byte(key)).String()
}
