package treemap

import (
	"strings"

	"github.com/matzehuels/cvpchart/pkg/errors"
	"github.com/matzehuels/cvpchart/pkg/locale"
	"github.com/matzehuels/cvpchart/pkg/palette"
)

// LossDisplayMode selects how an operating loss is drawn.
type LossDisplayMode string

const (
	// LossNegativeBar draws the loss flush below the sales reference, so the
	// cost column visibly exceeds sales.
	LossNegativeBar LossDisplayMode = "negative-bar"
	// LossSeparate draws the loss as a detached block below a small gap with
	// a minimum height.
	LossSeparate LossDisplayMode = "separate"
)

// LabelContent selects what the break-even label shows.
type LabelContent string

const (
	LabelValue LabelContent = "value"
	LabelRatio LabelContent = "ratio"
	LabelBoth  LabelContent = "both"
)

// LabelPosition places the break-even label.
type LabelPosition string

const (
	LabelTop    LabelPosition = "top"
	LabelBottom LabelPosition = "bottom"
)

// LineStyle is the stroke style of the break-even line.
type LineStyle string

const (
	LineSolid  LineStyle = "solid"
	LineDashed LineStyle = "dashed"
	LineDotted LineStyle = "dotted"
)

// Geometry constants.
const (
	SalesColumnWidth = 0.35
	CostColumnX      = SalesColumnWidth
	CostColumnWidth  = 1 - SalesColumnWidth
	HalfColumnWidth  = CostColumnWidth / 2
	RightHalfX       = CostColumnX + HalfColumnWidth

	// SeparateLossGap is the vertical gap above a detached loss block.
	SeparateLossGap = 0.01
	// MinSeparateLossHeight keeps small detached losses legible.
	MinSeparateLossHeight = 0.15
)

// BEPOptions controls the break-even annotation.
type BEPOptions struct {
	LabelContent  LabelContent  `json:"label_content,omitempty"`
	LabelPosition LabelPosition `json:"label_position,omitempty"`
	LineStyle     LineStyle     `json:"line_style,omitempty"`
}

// Options controls colors, labels and loss geometry. The zero value is
// usable: empty fields take the defaults of [DefaultOptions], except
// ShowBEPLine which is off.
type Options struct {
	LossMode     LossDisplayMode `json:"loss_mode,omitempty"`
	Scheme       palette.Scheme  `json:"scheme,omitempty"`
	CustomColors palette.Palette `json:"custom_colors"`
	ShowBEPLine  bool            `json:"show_bep_line"`
	BEP          BEPOptions      `json:"bep"`
	Locale       locale.Locale   `json:"locale,omitempty"`
}

// DefaultOptions returns the options used when the caller has no
// preference: negative-bar losses, default colors, English labels and a
// dashed break-even line labelled with its value.
func DefaultOptions() Options {
	return Options{
		LossMode:    LossNegativeBar,
		Scheme:      palette.SchemeDefault,
		ShowBEPLine: true,
		BEP: BEPOptions{
			LabelContent:  LabelValue,
			LabelPosition: LabelTop,
			LineStyle:     LineDashed,
		},
		Locale: locale.Default,
	}
}

// SetDefaults fills empty fields.
func (o *Options) SetDefaults() {
	d := DefaultOptions()
	if o.LossMode == "" {
		o.LossMode = d.LossMode
	}
	if o.Scheme == "" {
		o.Scheme = d.Scheme
	}
	if o.Locale == "" {
		o.Locale = d.Locale
	}
	if o.BEP.LabelContent == "" {
		o.BEP.LabelContent = d.BEP.LabelContent
	}
	if o.BEP.LabelPosition == "" {
		o.BEP.LabelPosition = d.BEP.LabelPosition
	}
	if o.BEP.LineStyle == "" {
		o.BEP.LineStyle = d.BEP.LineStyle
	}
}

// Validate reports the first invalid field. Empty fields are valid.
func (o Options) Validate() error {
	if o.LossMode != "" {
		if _, err := ParseLossMode(string(o.LossMode)); err != nil {
			return err
		}
	}
	if o.Scheme != "" {
		if _, err := palette.ParseScheme(string(o.Scheme)); err != nil {
			return err
		}
	}
	if o.Locale != "" {
		if _, err := locale.Parse(string(o.Locale)); err != nil {
			return err
		}
	}
	if err := o.CustomColors.Validate(); err != nil {
		return err
	}
	if o.BEP.LabelContent != "" {
		if _, err := ParseLabelContent(string(o.BEP.LabelContent)); err != nil {
			return err
		}
	}
	if o.BEP.LabelPosition != "" {
		if _, err := ParseLabelPosition(string(o.BEP.LabelPosition)); err != nil {
			return err
		}
	}
	if o.BEP.LineStyle != "" {
		if _, err := ParseLineStyle(string(o.BEP.LineStyle)); err != nil {
			return err
		}
	}
	return nil
}

// ParseLossMode parses "negative-bar" or "separate". The empty string is
// negative-bar.
func ParseLossMode(s string) (LossDisplayMode, error) {
	switch LossDisplayMode(normalize(s)) {
	case "", LossNegativeBar:
		return LossNegativeBar, nil
	case LossSeparate:
		return LossSeparate, nil
	}
	return "", errors.New(errors.ErrCodeInvalidLossMode,
		"unknown loss display mode %q (valid: negative-bar, separate)", s)
}

// ParseLabelContent parses "value", "ratio" or "both".
func ParseLabelContent(s string) (LabelContent, error) {
	switch c := LabelContent(normalize(s)); c {
	case "":
		return LabelValue, nil
	case LabelValue, LabelRatio, LabelBoth:
		return c, nil
	}
	return "", errors.New(errors.ErrCodeInvalidOption,
		"unknown break-even label content %q (valid: value, ratio, both)", s)
}

// ParseLabelPosition parses "top" or "bottom".
func ParseLabelPosition(s string) (LabelPosition, error) {
	switch p := LabelPosition(normalize(s)); p {
	case "":
		return LabelTop, nil
	case LabelTop, LabelBottom:
		return p, nil
	}
	return "", errors.New(errors.ErrCodeInvalidOption,
		"unknown break-even label position %q (valid: top, bottom)", s)
}

// ParseLineStyle parses "solid", "dashed" or "dotted".
func ParseLineStyle(s string) (LineStyle, error) {
	switch l := LineStyle(normalize(s)); l {
	case "":
		return LineDashed, nil
	case LineSolid, LineDashed, LineDotted:
		return l, nil
	}
	return "", errors.New(errors.ErrCodeInvalidOption,
		"unknown line style %q (valid: solid, dashed, dotted)", s)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
