package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/cvpchart/pkg/buildinfo"
	"github.com/matzehuels/cvpchart/pkg/cache"
	"github.com/matzehuels/cvpchart/pkg/errors"
	"github.com/matzehuels/cvpchart/pkg/observability"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New(Config{}).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealthAndVersion(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var health map[string]string
	decodeBody(t, resp, &health)
	assert.Equal(t, "ok", health["status"])

	resp2, err := http.Get(ts.URL + "/version")
	require.NoError(t, err)
	defer resp2.Body.Close()
	var info buildinfo.Info
	decodeBody(t, resp2, &info)
	assert.Equal(t, buildinfo.Version, info.Version)
}

func TestCalculate(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts, "/v1/calculate", `{"sales": 100, "variable_costs": 120, "fixed_costs": 30, "target_profit": 10}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Metrics       map[string]any   `json:"metrics"`
		Warnings      []map[string]any `json:"warnings"`
		RequiredSales any              `json:"required_sales"`
	}
	decodeBody(t, resp, &body)

	assert.Equal(t, -50.0, body.Metrics["operating_profit"])
	assert.Nil(t, body.Metrics["break_even_point"], "break-even is absent when the margin is negative")
	assert.NotEmpty(t, body.Warnings)
	assert.Nil(t, body.RequiredSales, "no sales level reaches a target with a negative margin")
}

func TestCalculateRequiredSales(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts, "/v1/calculate", `{"sales": 100, "variable_costs": 40, "fixed_costs": 30, "target_profit": 30}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Warnings      []any   `json:"warnings"`
		RequiredSales float64 `json:"required_sales"`
	}
	decodeBody(t, resp, &body)
	assert.NotNil(t, body.Warnings, "warnings is always an array")
	assert.InDelta(t, 100.0, body.RequiredSales, 1e-9)
}

func TestLayout(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts, "/v1/layout", `{"input": {"sales": 100, "variable_costs": 60, "fixed_costs": 50}, "display": {"loss_mode": "separate", "show_bep_line": true}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	chartID := resp.Header.Get(HeaderChartID)
	assert.NotEmpty(t, chartID)

	var doc struct {
		ChartID string `json:"chart_id"`
		Meta    struct {
			HasLoss         bool    `json:"has_loss"`
			HeightExtension float64 `json:"height_extension"`
			LossDisplayMode string  `json:"loss_display_mode"`
		} `json:"meta"`
		Blocks []struct {
			Type string `json:"type"`
		} `json:"blocks"`
	}
	decodeBody(t, resp, &doc)
	assert.Equal(t, chartID, doc.ChartID)
	assert.True(t, doc.Meta.HasLoss)
	assert.Equal(t, "separate", doc.Meta.LossDisplayMode)
	assert.InDelta(t, 1.16, doc.Meta.HeightExtension, 1e-9)
	assert.Equal(t, "loss", doc.Blocks[len(doc.Blocks)-1].Type)
}

func TestRenderSVG(t *testing.T) {
	ts := newTestServer(t)
	body := `{"input": {"sales": 100, "variable_costs": 40, "fixed_costs": 30}, "title": "FY2024"}`

	resp := post(t, ts, "/v1/render/svg", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("<svg")))
	assert.Contains(t, string(data), resp.Header.Get(HeaderChartID))

	again := post(t, ts, "/v1/render/svg", body)
	assert.Equal(t, resp.Header.Get(HeaderChartID), again.Header.Get(HeaderChartID))
}

func TestRenderXLSXIsAttachment(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts, "/v1/render/xlsx", `{"input": {"sales": 100, "variable_costs": 40, "fixed_costs": 30}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"invalid input", "/v1/calculate", `{"sales": 0, "fixed_costs": 10}`, 400, "INVALID_INPUT"},
		{"malformed json", "/v1/calculate", `{"sales":`, 400, "INVALID_FORMAT"},
		{"unknown field", "/v1/calculate", `{"sales": 1, "revenue": 2}`, 400, "INVALID_FORMAT"},
		{"unknown format", "/v1/render/gif", `{"input": {"sales": 1}}`, 400, "INVALID_FORMAT"},
		{"bad loss mode", "/v1/layout", `{"input": {"sales": 1}, "display": {"loss_mode": "stacked"}}`, 400, "INVALID_LOSS_MODE"},
		{"bad style", "/v1/render/svg", `{"input": {"sales": 1}, "style": "sketch"}`, 400, "INVALID_STYLE"},
		{"no route", "/v2/anything", `{}`, 404, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			var e errorBody
			decodeBody(t, resp, &e)
			assert.Equal(t, tt.code, e.Code)
			assert.NotEmpty(t, e.Message)
			assert.NotEmpty(t, e.RequestID)
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/v1/calculate")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidScheme, "x"), 400},
		{errors.New(errors.ErrCodeFileNotFound, "x"), 404},
		{errors.New(errors.ErrCodeUnsupported, "x"), 501},
		{errors.New(errors.ErrCodeRender, "x"), 500},
		{io.EOF, 500},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu     sync.Mutex
	routes []string
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, method+" "+route)
}

func TestHTTPHooksSeeRoutePatterns(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	ts := newTestServer(t)
	post(t, ts, "/v1/render/json", `{"input": {"sales": 100}}`)

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	assert.Equal(t, []string{"POST /v1/render/{format}"}, hooks.routes)
}

func TestConfigFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvAddr, "127.0.0.1:9999")
	t.Setenv(EnvCacheDir, dir)

	cfg, err := ConfigFromEnv(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", cfg.Addr)
	fc, ok := cfg.Cache.(*cache.FileCache)
	require.True(t, ok, "cache dir should select the file cache")
	assert.Equal(t, dir, fc.Dir())

	assert.Equal(t, "127.0.0.1:9999", New(cfg).Addr())
}

func TestConfigFromEnvInvalidRedisURL(t *testing.T) {
	t.Setenv(EnvCacheDir, t.TempDir())
	t.Setenv(EnvRedisURL, "memcached://localhost:11211")

	_, err := ConfigFromEnv(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidOption), "got %v", err)
}
