// Package scenario loads chart inputs and display settings from files.
//
// A scenario file describes one business period:
//
//	label = "FY2024"
//	sales = 1_000_000
//
//	[[variable_breakdown]]
//	name = "materials"
//	amount = 400_000
//
//	fixed_costs = 300_000
//
//	[display]
//	loss_mode = "separate"
//	locale = "ja"
//
// TOML, YAML and JSON are accepted; the format is chosen by file extension.
// Unknown keys are rejected so typos do not silently fall back to
// defaults. When a total is zero but its breakdown is present, the total is
// the sum of the breakdown.
package scenario

import (
	"github.com/matzehuels/cvpchart/pkg/cvp"
	"github.com/matzehuels/cvpchart/pkg/locale"
	"github.com/matzehuels/cvpchart/pkg/palette"
	"github.com/matzehuels/cvpchart/pkg/render/styles"
	"github.com/matzehuels/cvpchart/pkg/treemap"
)

// Scenario is the file model.
type Scenario struct {
	Label             string   `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Sales             float64  `json:"sales" yaml:"sales" toml:"sales"`
	VariableCosts     float64  `json:"variable_costs" yaml:"variable_costs" toml:"variable_costs"`
	FixedCosts        float64  `json:"fixed_costs" yaml:"fixed_costs" toml:"fixed_costs"`
	VariableBreakdown []Item   `json:"variable_breakdown,omitempty" yaml:"variable_breakdown,omitempty" toml:"variable_breakdown,omitempty"`
	FixedBreakdown    []Item   `json:"fixed_breakdown,omitempty" yaml:"fixed_breakdown,omitempty" toml:"fixed_breakdown,omitempty"`
	TargetProfit      *float64 `json:"target_profit,omitempty" yaml:"target_profit,omitempty" toml:"target_profit,omitempty"`
	Display           Display  `json:"display" yaml:"display" toml:"display"`
}

// Item is one named cost line.
type Item struct {
	Name   string  `json:"name" yaml:"name" toml:"name"`
	Amount float64 `json:"amount" yaml:"amount" toml:"amount"`
}

// Display holds chart settings as written in the file. Empty fields keep
// the defaults.
type Display struct {
	LossMode    string          `json:"loss_mode,omitempty" yaml:"loss_mode,omitempty" toml:"loss_mode,omitempty"`
	Scheme      string          `json:"scheme,omitempty" yaml:"scheme,omitempty" toml:"scheme,omitempty"`
	Colors      palette.Palette `json:"colors,omitempty" yaml:"colors,omitempty" toml:"colors,omitempty"`
	Locale      string          `json:"locale,omitempty" yaml:"locale,omitempty" toml:"locale,omitempty"`
	BEP         *bool           `json:"bep,omitempty" yaml:"bep,omitempty" toml:"bep,omitempty"`
	BEPLabel    string          `json:"bep_label,omitempty" yaml:"bep_label,omitempty" toml:"bep_label,omitempty"`
	BEPPosition string          `json:"bep_position,omitempty" yaml:"bep_position,omitempty" toml:"bep_position,omitempty"`
	BEPLine     string          `json:"bep_line,omitempty" yaml:"bep_line,omitempty" toml:"bep_line,omitempty"`
	Style       string          `json:"style,omitempty" yaml:"style,omitempty" toml:"style,omitempty"`
	Title       string          `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
}

// Input converts the scenario to calculator input.
func (s Scenario) Input() cvp.Input {
	return cvp.Input{
		Sales:             s.Sales,
		VariableCosts:     s.VariableCosts,
		FixedCosts:        s.FixedCosts,
		Label:             s.Label,
		VariableBreakdown: lineItems(s.VariableBreakdown),
		FixedBreakdown:    lineItems(s.FixedBreakdown),
	}
}

// Options converts the display section to layout options, starting from
// [treemap.DefaultOptions]. Invalid values return coded errors.
func (s Scenario) Options() (treemap.Options, error) {
	d := s.Display
	opts := treemap.DefaultOptions()

	if d.LossMode != "" {
		m, err := treemap.ParseLossMode(d.LossMode)
		if err != nil {
			return opts, err
		}
		opts.LossMode = m
	}
	if d.Scheme != "" {
		sc, err := palette.ParseScheme(d.Scheme)
		if err != nil {
			return opts, err
		}
		opts.Scheme = sc
	}
	if err := d.Colors.Validate(); err != nil {
		return opts, err
	}
	opts.CustomColors = d.Colors
	if d.Locale != "" {
		l, err := locale.Parse(d.Locale)
		if err != nil {
			return opts, err
		}
		opts.Locale = l
	}
	if d.BEP != nil {
		opts.ShowBEPLine = *d.BEP
	}
	if d.BEPLabel != "" {
		c, err := treemap.ParseLabelContent(d.BEPLabel)
		if err != nil {
			return opts, err
		}
		opts.BEP.LabelContent = c
	}
	if d.BEPPosition != "" {
		p, err := treemap.ParseLabelPosition(d.BEPPosition)
		if err != nil {
			return opts, err
		}
		opts.BEP.LabelPosition = p
	}
	if d.BEPLine != "" {
		ls, err := treemap.ParseLineStyle(d.BEPLine)
		if err != nil {
			return opts, err
		}
		opts.BEP.LineStyle = ls
	}
	return opts, nil
}

// StyleName returns the SVG style, or "" when unset. An unknown name is
// an error.
func (s Scenario) StyleName() (string, error) {
	if s.Display.Style == "" {
		return "", nil
	}
	st, err := styles.Parse(s.Display.Style)
	if err != nil {
		return "", err
	}
	return st.Name(), nil
}

func (s *Scenario) fillTotals() {
	if s.VariableCosts == 0 && len(s.VariableBreakdown) > 0 {
		s.VariableCosts = sumItems(s.VariableBreakdown)
	}
	if s.FixedCosts == 0 && len(s.FixedBreakdown) > 0 {
		s.FixedCosts = sumItems(s.FixedBreakdown)
	}
}

func sumItems(items []Item) float64 {
	return cvp.SumItems(lineItems(items))
}

func lineItems(items []Item) []cvp.LineItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]cvp.LineItem, len(items))
	for i, it := range items {
		out[i] = cvp.LineItem{Name: it.Name, Amount: it.Amount}
	}
	return out
}
