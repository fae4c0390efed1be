package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/cvpchart/pkg/buildinfo"
	"github.com/matzehuels/cvpchart/pkg/cvp"
	"github.com/matzehuels/cvpchart/pkg/errors"
	"github.com/matzehuels/cvpchart/pkg/pipeline"
	"github.com/matzehuels/cvpchart/pkg/treemap"
)

// HeaderChartID carries the chart ID of a rendered artifact.
const HeaderChartID = "X-Chart-ID"

type calculateRequest struct {
	cvp.Input
	TargetProfit *float64 `json:"target_profit,omitempty"`
}

type calculateResponse struct {
	Metrics       cvp.Calculated `json:"metrics"`
	Warnings      []cvp.Warning  `json:"warnings"`
	RequiredSales *cvp.Optional  `json:"required_sales,omitempty"`
}

// chartRequest is the body of layout and render requests. A missing
// display section means [treemap.DefaultOptions].
type chartRequest struct {
	Input      cvp.Input        `json:"input"`
	Display    *treemap.Options `json:"display,omitempty"`
	Width      float64          `json:"width,omitempty"`
	Height     float64          `json:"height,omitempty"`
	Style      string           `json:"style,omitempty"`
	Title      string           `json:"title,omitempty"`
	ShowValues bool             `json:"show_values,omitempty"`
	Scale      float64          `json:"scale,omitempty"`
}

func (c chartRequest) options(format string) pipeline.Options {
	display := treemap.DefaultOptions()
	if c.Display != nil {
		display = *c.Display
	}
	return pipeline.Options{
		Input:      c.Input,
		Display:    display,
		Formats:    []string{format},
		Width:      c.Width,
		Height:     c.Height,
		Style:      c.Style,
		Title:      c.Title,
		ShowValues: c.ShowValues,
		Scale:      c.Scale,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Current())
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	calc, warnings, err := s.runner.Calculate(r.Context(), req.Input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := calculateResponse{Metrics: calc, Warnings: warnings}
	if resp.Warnings == nil {
		resp.Warnings = []cvp.Warning{}
	}
	if req.TargetProfit != nil {
		rs := cvp.RequiredSalesForTargetProfit(*req.TargetProfit, req.FixedCosts, calc.ContributionMarginRatio)
		resp.RequiredSales = &rs
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.renderChart(w, r, pipeline.FormatJSON)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, r, err)
		return
	}
	s.renderChart(w, r, format)
}

func (s *Server) renderChart(w http.ResponseWriter, r *http.Request, format string) {
	var req chartRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), req.options(format))
	if err != nil {
		writeError(w, r, err)
		return
	}

	data := result.Artifacts[format]
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set(HeaderChartID, result.ChartID)
	if format == pipeline.FormatPDF || format == pipeline.FormatXLSX {
		w.Header().Set("Content-Disposition", `attachment; filename="cvpchart-`+result.ChartID+`.`+format+`"`)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.cfg.Logger.Warn("write response", "error", err)
	}
}

// decode reads a JSON body, rejecting unknown fields and oversized bodies.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body")
	}
	return nil
}
