// Package palette resolves block colors for CVP charts.
//
// A [Palette] is always fully populated once it has gone through [Resolve]:
// the default scheme is layered under the named scheme, and non-empty
// custom fields win over both. Text colors are derived from the resolved
// background with [TextColor] and are never stored separately.
package palette

import (
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/matzehuels/cvpchart/pkg/errors"
)

// Scheme names a built-in color scheme.
type Scheme string

// Built-in schemes.
const (
	SchemeDefault    Scheme = "default"
	SchemePastel     Scheme = "pastel"
	SchemeVivid      Scheme = "vivid"
	SchemeMonochrome Scheme = "monochrome"
	SchemeColorblind Scheme = "colorblind"
)

// Palette holds one hex color per chart element.
type Palette struct {
	Sales        string `json:"sales,omitempty" yaml:"sales,omitempty" toml:"sales,omitempty"`
	Variable     string `json:"variable,omitempty" yaml:"variable,omitempty" toml:"variable,omitempty"`
	Contribution string `json:"contribution,omitempty" yaml:"contribution,omitempty" toml:"contribution,omitempty"`
	Fixed        string `json:"fixed,omitempty" yaml:"fixed,omitempty" toml:"fixed,omitempty"`
	Profit       string `json:"profit,omitempty" yaml:"profit,omitempty" toml:"profit,omitempty"`
	Loss         string `json:"loss,omitempty" yaml:"loss,omitempty" toml:"loss,omitempty"`
	BEPLine      string `json:"bep_line,omitempty" yaml:"bep_line,omitempty" toml:"bep_line,omitempty"`
}

var schemes = map[Scheme]Palette{
	SchemeDefault: {
		Sales:        "#3B82F6",
		Variable:     "#F59E0B",
		Contribution: "#10B981",
		Fixed:        "#8B5CF6",
		Profit:       "#22C55E",
		Loss:         "#EF4444",
		BEPLine:      "#1F2937",
	},
	SchemePastel: {
		Sales:        "#A5C8F5",
		Variable:     "#FBD38D",
		Contribution: "#9AE6B4",
		Fixed:        "#C4B5FD",
		Profit:       "#B9F6CA",
		Loss:         "#FCA5A5",
		BEPLine:      "#4B5563",
	},
	SchemeVivid: {
		Sales:        "#0057FF",
		Variable:     "#FF8A00",
		Contribution: "#00C853",
		Fixed:        "#AA00FF",
		Profit:       "#00E676",
		Loss:         "#FF1744",
		BEPLine:      "#000000",
	},
	SchemeMonochrome: {
		Sales:        "#374151",
		Variable:     "#6B7280",
		Contribution: "#9CA3AF",
		Fixed:        "#4B5563",
		Profit:       "#D1D5DB",
		Loss:         "#111827",
		BEPLine:      "#000000",
	},
	// Okabe-Ito
	SchemeColorblind: {
		Sales:        "#0072B2",
		Variable:     "#E69F00",
		Contribution: "#009E73",
		Fixed:        "#CC79A7",
		Profit:       "#56B4E9",
		Loss:         "#D55E00",
		BEPLine:      "#000000",
	},
}

// Names returns the built-in scheme names in sorted order.
func Names() []string {
	names := lo.Map(lo.Keys(schemes), func(s Scheme, _ int) string { return string(s) })
	slices.Sort(names)
	return names
}

// Lookup returns the named scheme. ok is false for unknown names.
func Lookup(s Scheme) (Palette, bool) {
	p, ok := schemes[s]
	return p, ok
}

// ParseScheme parses a user-supplied scheme name. The empty string is the
// default scheme.
func ParseScheme(s string) (Scheme, error) {
	name := Scheme(strings.ToLower(strings.TrimSpace(s)))
	if name == "" {
		return SchemeDefault, nil
	}
	if _, ok := schemes[name]; !ok {
		return "", errors.New(errors.ErrCodeInvalidScheme,
			"unknown color scheme %q (valid: %s)", s, strings.Join(Names(), ", "))
	}
	return name, nil
}

// Resolve layers the default scheme, the named scheme and the non-empty
// fields of custom. Unknown schemes fall back to the default.
func Resolve(scheme Scheme, custom Palette) Palette {
	base := schemes[SchemeDefault]
	named, ok := schemes[scheme]
	if !ok {
		named = base
	}
	return Palette{
		Sales:        lo.CoalesceOrEmpty(custom.Sales, named.Sales, base.Sales),
		Variable:     lo.CoalesceOrEmpty(custom.Variable, named.Variable, base.Variable),
		Contribution: lo.CoalesceOrEmpty(custom.Contribution, named.Contribution, base.Contribution),
		Fixed:        lo.CoalesceOrEmpty(custom.Fixed, named.Fixed, base.Fixed),
		Profit:       lo.CoalesceOrEmpty(custom.Profit, named.Profit, base.Profit),
		Loss:         lo.CoalesceOrEmpty(custom.Loss, named.Loss, base.Loss),
		BEPLine:      lo.CoalesceOrEmpty(custom.BEPLine, named.BEPLine, base.BEPLine),
	}
}

// Validate checks that every non-empty field is a hex color.
func (p Palette) Validate() error {
	fields := []struct {
		name, value string
	}{
		{"sales color", p.Sales},
		{"variable color", p.Variable},
		{"contribution color", p.Contribution},
		{"fixed color", p.Fixed},
		{"profit color", p.Profit},
		{"loss color", p.Loss},
		{"bep line color", p.BEPLine},
	}
	for _, f := range fields {
		if err := errors.ValidateHexColor(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}
