package sink

import (
	"encoding/json"

	"github.com/matzehuels/cvpchart/pkg/cvp"
	"github.com/matzehuels/cvpchart/pkg/errors"
	"github.com/matzehuels/cvpchart/pkg/palette"
	"github.com/matzehuels/cvpchart/pkg/treemap"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	input    *cvp.Input
	metrics  *cvp.Calculated
	warnings []cvp.Warning
	chartID  string
	style    string
}

// WithJSONInput records the raw input the layout was computed from.
func WithJSONInput(in cvp.Input) JSONOption { return func(r *jsonRenderer) { r.input = &in } }

// WithJSONMetrics includes the full metric set.
func WithJSONMetrics(c cvp.Calculated) JSONOption { return func(r *jsonRenderer) { r.metrics = &c } }

// WithJSONWarnings includes validation warnings.
func WithJSONWarnings(ws []cvp.Warning) JSONOption {
	return func(r *jsonRenderer) { r.warnings = ws }
}

// WithJSONChartID records an identifier for the rendered chart.
func WithJSONChartID(id string) JSONOption { return func(r *jsonRenderer) { r.chartID = id } }

// WithJSONStyle records the style name (e.g., "simple", "outline") for
// round-trip rendering.
func WithJSONStyle(s string) JSONOption { return func(r *jsonRenderer) { r.style = s } }

type jsonOutput struct {
	ChartID     string           `json:"chart_id,omitempty"`
	Style       string           `json:"style,omitempty"`
	Input       *cvp.Input       `json:"input,omitempty"`
	Metrics     *cvp.Calculated  `json:"metrics,omitempty"`
	Warnings    []cvp.Warning    `json:"warnings,omitempty"`
	Meta        treemap.Meta     `json:"meta"`
	Palette     palette.Palette  `json:"palette"`
	Blocks      []jsonBlock      `json:"blocks"`
	Annotations []jsonAnnotation `json:"annotations"`
}

type jsonBlock struct {
	Type         string  `json:"type"`
	Label        string  `json:"label"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	Value        float64 `json:"value"`
	Percentage   float64 `json:"percentage"`
	Color        string  `json:"color"`
	TextColor    string  `json:"text_color"`
	ExtendsBelow bool    `json:"extends_below,omitempty"`
	Detached     bool    `json:"detached,omitempty"`
	Clipped      bool    `json:"clipped,omitempty"`
	Overlaps     bool    `json:"overlaps,omitempty"`
}

type jsonAnnotation struct {
	Type          string  `json:"type"`
	X             float64 `json:"x"`
	Value         float64 `json:"value"`
	Ratio         float64 `json:"ratio"`
	Label         string  `json:"label,omitempty"`
	LabelPosition string  `json:"label_position"`
	LineStyle     string  `json:"line_style"`
	Color         string  `json:"color"`
}

// RenderJSON exports the layout and associated metadata as a pretty-printed
// JSON document. Absent metrics are encoded as null.
//
// RenderJSON returns an error only if JSON marshaling fails. It does not
// modify l and is safe to call concurrently.
func RenderJSON(l treemap.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		ChartID:     r.chartID,
		Style:       r.style,
		Input:       r.input,
		Metrics:     r.metrics,
		Warnings:    r.warnings,
		Meta:        l.Meta,
		Palette:     l.Palette,
		Blocks:      buildJSONBlocks(l),
		Annotations: buildJSONAnnotations(l),
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encode layout")
	}
	return data, nil
}

// ReadJSON decodes a document written by [RenderJSON] back into a layout,
// so a saved chart can be rendered to other formats.
func ReadJSON(data []byte) (treemap.Layout, error) {
	var in jsonOutput
	if err := json.Unmarshal(data, &in); err != nil {
		return treemap.Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}

	l := treemap.Layout{
		Meta:        in.Meta,
		Palette:     in.Palette,
		Blocks:      make([]treemap.Block, 0, len(in.Blocks)),
		Annotations: make([]treemap.Annotation, 0, len(in.Annotations)),
	}
	if l.Meta.HeightExtension < 1 {
		l.Meta.HeightExtension = 1
	}
	for _, b := range in.Blocks {
		l.Blocks = append(l.Blocks, treemap.Block{
			Type:       treemap.BlockType(b.Type),
			X:          b.X,
			Y:          b.Y,
			Width:      b.Width,
			Height:     b.Height,
			Value:      b.Value,
			Percentage: b.Percentage,
			Label:      b.Label,
			Color:      b.Color,
			TextColor:  b.TextColor,
			Meta: treemap.BlockMeta{
				ExtendsBelow: b.ExtendsBelow,
				Detached:     b.Detached,
				Clipped:      b.Clipped,
				Overlaps:     b.Overlaps,
			},
		})
	}
	for _, a := range in.Annotations {
		l.Annotations = append(l.Annotations, treemap.Annotation{
			Type:          treemap.AnnotationType(a.Type),
			X:             a.X,
			Value:         a.Value,
			Ratio:         a.Ratio,
			Label:         a.Label,
			LabelPosition: treemap.LabelPosition(a.LabelPosition),
			LineStyle:     treemap.LineStyle(a.LineStyle),
			Color:         a.Color,
		})
	}
	return l, nil
}

func buildJSONBlocks(l treemap.Layout) []jsonBlock {
	blocks := make([]jsonBlock, 0, len(l.Blocks))
	for _, b := range l.Blocks {
		blocks = append(blocks, jsonBlock{
			Type:         string(b.Type),
			Label:        b.Label,
			X:            b.X,
			Y:            b.Y,
			Width:        b.Width,
			Height:       b.Height,
			Value:        b.Value,
			Percentage:   b.Percentage,
			Color:        b.Color,
			TextColor:    b.TextColor,
			ExtendsBelow: b.Meta.ExtendsBelow,
			Detached:     b.Meta.Detached,
			Clipped:      b.Meta.Clipped,
			Overlaps:     b.Meta.Overlaps,
		})
	}
	return blocks
}

func buildJSONAnnotations(l treemap.Layout) []jsonAnnotation {
	out := make([]jsonAnnotation, 0, len(l.Annotations))
	for _, a := range l.Annotations {
		out = append(out, jsonAnnotation{
			Type:          string(a.Type),
			X:             a.X,
			Value:         a.Value,
			Ratio:         a.Ratio,
			Label:         a.Label,
			LabelPosition: string(a.LabelPosition),
			LineStyle:     string(a.LineStyle),
			Color:         a.Color,
		})
	}
	return out
}
