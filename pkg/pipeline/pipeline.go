// Package pipeline runs the complete chart pipeline for cvpchart.
//
// This package implements validate → calculate → layout → render so that
// the CLI and the HTTP API behave identically. By centralizing this logic,
// defaults, error codes and artifact caching live in one place.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Validate: reject unusable input and collect business warnings
//  2. Calculate: derive the CVP metrics
//  3. Layout: place the chart blocks and the break-even annotation
//  4. Render: encode the layout in each requested format
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   cvp.Input{Sales: 1_000_000, VariableCosts: 400_000, FixedCosts: 300_000},
//	    Display: treemap.DefaultOptions(),
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cvpchart/pkg/cache"
	"github.com/matzehuels/cvpchart/pkg/cvp"
	"github.com/matzehuels/cvpchart/pkg/errors"
	"github.com/matzehuels/cvpchart/pkg/render/sink"
	"github.com/matzehuels/cvpchart/pkg/render/styles"
	"github.com/matzehuels/cvpchart/pkg/treemap"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default width of the unit chart in pixels.
	DefaultWidth = sink.DefaultWidth

	// DefaultHeight is the default height of the unit chart in pixels.
	// Charts with a loss grow below it.
	DefaultHeight = sink.DefaultHeight

	// DefaultStyle is the default SVG style.
	DefaultStyle = styles.NameSimple

	// DefaultScale is the PNG pixel density.
	DefaultScale = 2.0

	// DefaultCacheTTL is how long rendered artifacts stay cached.
	DefaultCacheTTL = 24 * time.Hour

	// MaxDimension bounds width and height so a request cannot ask for an
	// arbitrarily large raster.
	MaxDimension = 10_000.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatXLSX: true,
}

// ContentTypes maps each format to its MIME type.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input
	Input cvp.Input `json:"input"`

	// Layout options
	Display treemap.Options `json:"display"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Width      float64  `json:"width,omitempty"`
	Height     float64  `json:"height,omitempty"`
	Style      string   `json:"style,omitempty"`
	Title      string   `json:"title,omitempty"`
	ShowValues bool     `json:"show_values,omitempty"`
	Scale      float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	FontPath string      `json:"-"` // TTF used for non-Latin PDF text
	Logger   *log.Logger `json:"-"`
	// Progress, when set, is called as each stage starts. detail names the
	// format for StageRender and is empty otherwise. Cached formats are not
	// reported.
	Progress func(stage, detail string) `json:"-"`

	validated bool
}

// Stages reported through [Options.Progress].
const (
	StageValidate = "validate"
	StageLayout   = "layout"
	StageRender   = "render"
)

func (o *Options) report(stage, detail string) {
	if o.Progress != nil {
		o.Progress(stage, detail)
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ChartID identifies the chart. Equal input and display options give
	// the same ID.
	ChartID string

	Metrics  cvp.Calculated
	Warnings []cvp.Warning
	Layout   treemap.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Blocks        int
	ValidateTime  time.Duration
	CalculateTime time.Duration
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks artifact cache hits.
type CacheInfo struct {
	Hits      []string // formats served from cache
	RenderHit bool     // whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	_, err := styles.Parse(style)
	return err
}

// FormatNames lists the supported formats in sorted order.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and checks every option.
// This method is idempotent. Input values are checked by the validate
// stage, not here.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills empty render options and the display defaults.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.Display.SetDefaults()
}

// Validate checks render and display options.
func (o *Options) Validate() error {
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	if err := errors.ValidateDimension("width", o.Width); err != nil {
		return err
	}
	if err := errors.ValidateDimension("height", o.Height); err != nil {
		return err
	}
	if o.Width > MaxDimension || o.Height > MaxDimension {
		return errors.New(errors.ErrCodeInvalidOption, "width and height must be at most %.0f", MaxDimension)
	}
	if o.Scale <= 0 || o.Scale > 8 {
		return errors.New(errors.ErrCodeInvalidOption, "scale must be in (0, 8], got %v", o.Scale)
	}
	return o.Display.Validate()
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:     format,
		Style:      o.Style,
		Width:      o.Width,
		Height:     o.Height,
		Title:      o.Title,
		Locale:     string(o.Display.Locale),
		ShowValues: o.ShowValues,
	}
	switch format {
	case FormatPNG:
		k.Scale = o.Scale
	case FormatPDF:
		k.Font = o.FontPath
	}
	return k
}
