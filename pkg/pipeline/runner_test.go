package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/cvpchart/pkg/cache"
	"github.com/matzehuels/cvpchart/pkg/cvp"
	"github.com/matzehuels/cvpchart/pkg/errors"
	"github.com/matzehuels/cvpchart/pkg/observability"
	"github.com/matzehuels/cvpchart/pkg/treemap"
)

func profitInput() cvp.Input { return cvp.Input{Sales: 100, VariableCosts: 40, FixedCosts: 30} }

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Input:   profitInput(),
		Display: treemap.DefaultOptions(),
		Formats: []string{FormatSVG, FormatJSON, FormatPDF, FormatXLSX},
	})
	require.NoError(t, err)

	assert.Equal(t, 30.0, res.Metrics.OperatingProfit)
	assert.Empty(t, res.Warnings)
	assert.Len(t, res.Layout.Blocks, 5)
	assert.Equal(t, 5, res.Stats.Blocks)
	assert.NotEmpty(t, res.ChartID)
	assert.Empty(t, res.CacheInfo.Hits)

	assert.Contains(t, string(res.Artifacts[FormatSVG]), `data-chart-id="`+res.ChartID+`"`)
	assert.True(t, bytes.HasPrefix(res.Artifacts[FormatPDF], []byte("%PDF-")))
	assert.True(t, bytes.HasPrefix(res.Artifacts[FormatXLSX], []byte("PK")))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(res.Artifacts[FormatJSON], &doc))
	assert.Equal(t, res.ChartID, doc["chart_id"])
	assert.Contains(t, doc, "metrics")
}

func TestNewRunnerDiscardsLogsByDefault(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	r := NewRunner(nil, nil, nil)
	r.Logger.Error("render failed")
	_, err := r.Execute(context.Background(), Options{Input: profitInput(), Formats: []string{FormatSVG}})
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestExecuteKeepsWarnings(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Input: cvp.Input{Sales: 100, VariableCosts: 60, FixedCosts: 50},
	})
	require.NoError(t, err)

	codes := make([]cvp.WarningCode, 0, len(res.Warnings))
	for _, w := range res.Warnings {
		codes = append(codes, w.Code)
	}
	assert.Contains(t, codes, cvp.WarnOperatingLoss)
	_, ok := res.Layout.Block(treemap.BlockLoss)
	assert.True(t, ok, "loss block")
}

func TestExecuteInvalidInput(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{Input: cvp.Input{Sales: 0, FixedCosts: 10}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "err = %v", err)
	assert.True(t, strings.HasPrefix(err.Error(), "validate:"))
}

func TestExecuteInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{Input: profitInput(), Formats: []string{"gif"}})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat), "err = %v", err)
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(nil, nil, nil).Execute(ctx, Options{Input: profitInput()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecuteUsesCache(t *testing.T) {
	mem := cache.NewMemoryCache(16)
	r := NewRunner(mem, nil, nil)
	opts := Options{Input: profitInput(), Formats: []string{FormatSVG, FormatJSON}}

	first, err := r.Execute(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, first.CacheInfo.RenderHit)
	assert.Equal(t, 2, mem.Len())

	second, err := r.Execute(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, second.CacheInfo.RenderHit)
	assert.ElementsMatch(t, []string{FormatSVG, FormatJSON}, second.CacheInfo.Hits)
	assert.Equal(t, first.ChartID, second.ChartID)
	assert.Equal(t, first.Artifacts, second.Artifacts)

	opts.Title = "FY2024"
	third, err := r.Execute(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, third.CacheInfo.RenderHit, "title changes the artifact key")
}

func TestChartID(t *testing.T) {
	a := ChartID(profitInput(), treemap.DefaultOptions())
	b := ChartID(profitInput(), treemap.Options{ShowBEPLine: true})
	assert.Equal(t, a, b, "defaults are applied before hashing")

	c := ChartID(cvp.Input{Sales: 100, VariableCosts: 40, FixedCosts: 31}, treemap.DefaultOptions())
	assert.NotEqual(t, a, c)

	sep := treemap.DefaultOptions()
	sep.LossMode = treemap.LossSeparate
	assert.NotEqual(t, a, ChartID(profitInput(), sep))
}

func TestRenderFromLayoutData(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{Input: profitInput(), Formats: []string{FormatJSON}})
	require.NoError(t, err)

	artifacts, err := r.RenderFromLayoutData(context.Background(), res.Artifacts[FormatJSON], Options{
		Formats: []string{FormatSVG, FormatPDF},
	})
	require.NoError(t, err)
	assert.Contains(t, string(artifacts[FormatSVG]), `id="block-profit"`)
	assert.NotContains(t, string(artifacts[FormatSVG]), "data-chart-id")
	assert.True(t, bytes.HasPrefix(artifacts[FormatPDF], []byte("%PDF-")))

	_, err = r.RenderFromLayoutData(context.Background(), res.Artifacts[FormatJSON], Options{Formats: []string{FormatXLSX}})
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported), "err = %v", err)

	_, err = r.RenderFromLayoutData(context.Background(), []byte("not json"), Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat), "err = %v", err)
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnValidate(_ context.Context, _ int, err error) {
	if err != nil {
		h.record("validate-error")
		return
	}
	h.record("validate")
}
func (h *recordingHooks) OnCalculate(context.Context, bool, time.Duration) { h.record("calculate") }
func (h *recordingHooks) OnLayoutStart(context.Context, string)            { h.record("layout-start") }
func (h *recordingHooks) OnLayoutComplete(context.Context, string, int, time.Duration) {
	h.record("layout-complete")
}
func (h *recordingHooks) OnRenderStart(context.Context, []string) { h.record("render-start") }
func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.record("render-complete")
}

func TestExecuteFiresHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{Input: profitInput()})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"validate", "calculate", "layout-start", "layout-complete", "render-start", "render-complete",
	}, hooks.events)

	hooks.events = nil
	_, err = NewRunner(nil, nil, nil).Execute(context.Background(), Options{Input: cvp.Input{Sales: -1}})
	require.Error(t, err)
	assert.Equal(t, []string{"validate-error"}, hooks.events)
}

func TestExecuteReportsStages(t *testing.T) {
	mem := cache.NewMemoryCache(16)
	r := NewRunner(mem, nil, nil)

	var stages []string
	opts := Options{
		Input:   profitInput(),
		Formats: []string{FormatSVG, FormatJSON},
		Progress: func(stage, detail string) {
			stages = append(stages, strings.TrimSuffix(stage+":"+detail, ":"))
		},
	}

	_, err := r.Execute(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"validate", "layout", "render:svg", "render:json"}, stages)

	stages = nil
	_, err = r.Execute(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"validate", "layout"}, stages, "cached formats are not reported")
}
