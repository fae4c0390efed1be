// Package server exposes the chart pipeline as an HTTP JSON API.
//
//	GET  /healthz                liveness probe
//	GET  /version                build information
//	POST /v1/calculate           metrics and warnings for an input
//	POST /v1/layout              layout document (same shape as the json format)
//	POST /v1/render/{format}     chart artifact; the chart ID is in X-Chart-ID
//
// Errors are returned as {"code", "message", "request_id"} with a status
// derived from the error code.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cvpchart/pkg/buildinfo"
	"github.com/matzehuels/cvpchart/pkg/cache"
	"github.com/matzehuels/cvpchart/pkg/observability"
	"github.com/matzehuels/cvpchart/pkg/pipeline"
)

// Environment variables read by [ConfigFromEnv].
const (
	EnvAddr     = "CVPCHART_ADDR"
	EnvCacheDir = "CVPCHART_CACHE_DIR"
	EnvRedisURL = "CVPCHART_REDIS_URL"
)

const (
	DefaultAddr           = ":8080"
	DefaultMaxBodyBytes   = 1 << 20
	DefaultRequestTimeout = 30 * time.Second
	shutdownTimeout       = 5 * time.Second
)

// Config configures a [Server]. Zero fields take defaults.
type Config struct {
	Addr           string
	Logger         *log.Logger
	Cache          cache.Cache
	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

// ConfigFromEnv reads the listen address and the artifact cache from the
// environment. A Redis URL wins over a cache directory; with neither the
// server falls back to an in-memory cache.
func ConfigFromEnv(ctx context.Context) (Config, error) {
	cfg := Config{Addr: os.Getenv(EnvAddr)}
	switch {
	case os.Getenv(EnvRedisURL) != "":
		rc, err := cache.NewRedisCache(ctx, os.Getenv(EnvRedisURL))
		if err != nil {
			return Config{}, err
		}
		cfg.Cache = rc
	case os.Getenv(EnvCacheDir) != "":
		fc, err := cache.NewFileCache(os.Getenv(EnvCacheDir))
		if err != nil {
			return Config{}, err
		}
		cfg.Cache = fc
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.Logger == nil {
		c.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if c.Cache == nil {
		c.Cache = cache.NewMemoryCache(cache.DefaultMemoryEntries)
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
}

// Server serves the API.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	router chi.Router
}

// New builds a server and its routes.
func New(cfg Config) *Server {
	cfg.setDefaults()
	keyer := cache.NewScopedKeyer(nil, buildinfo.Version+":")
	s := &Server{
		cfg:    cfg,
		runner: pipeline.NewRunner(cfg.Cache, keyer, cfg.Logger),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/calculate", s.handleCalculate)
		r.Post("/layout", s.handleLayout)
		r.Post("/render/{format}", s.handleRender)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, notFound(r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{
			Code:      "METHOD_NOT_ALLOWED",
			Message:   r.Method + " is not allowed on " + r.URL.Path,
			RequestID: middleware.GetReqID(r.Context()),
		})
	})
	return r
}

// observe logs each request and reports it to the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.cfg.Logger.Info("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.cfg.Logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return s.cfg.Cache.Close()
}
