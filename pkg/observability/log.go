package observability

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports pipeline, cache and HTTP events at debug level. The
// CLI registers it under --verbose.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to logger. A nil logger discards
// every event.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &LogHooks{Logger: logger}
}

func (h *LogHooks) OnValidate(_ context.Context, warnings int, err error) {
	if err != nil {
		h.Logger.Debug("validation failed", "error", err)
		return
	}
	h.Logger.Debug("validated input", "warnings", warnings)
}

func (h *LogHooks) OnCalculate(_ context.Context, hasLoss bool, d time.Duration) {
	h.Logger.Debug("calculated metrics", "loss", hasLoss, "duration", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, lossMode string) {
	h.Logger.Debug("layout start", "loss_mode", lossMode)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, lossMode string, blocks int, d time.Duration) {
	h.Logger.Debug("layout done", "loss_mode", lossMode, "blocks", blocks, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("render failed", "formats", formats, "error", err)
		return
	}
	h.Logger.Debug("render done", "formats", formats, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, format string) {
	h.Logger.Debug("cache hit", "format", format)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, format string) {
	h.Logger.Debug("cache miss", "format", format)
}

func (h *LogHooks) OnCacheSet(_ context.Context, format string, size int) {
	h.Logger.Debug("cache set", "format", format, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.Logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "route", route, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
