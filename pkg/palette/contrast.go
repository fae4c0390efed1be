package palette

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Text colors chosen by [TextColor].
const (
	TextDark  = "#000000"
	TextLight = "#FFFFFF"
)

// LuminanceThreshold separates light backgrounds (dark text) from dark ones.
const LuminanceThreshold = 0.5

// Luminance returns the WCAG relative luminance of a hex color in [0, 1].
func Luminance(hex string) (float64, error) {
	c, err := colorful.Hex(expandHex(hex))
	if err != nil {
		return 0, err
	}
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b, nil
}

// TextColor picks black or white text for the given background.
// Unparseable backgrounds get white text.
func TextColor(background string) string {
	l, err := Luminance(background)
	if err != nil {
		return TextLight
	}
	if l > LuminanceThreshold {
		return TextDark
	}
	return TextLight
}

// RGB255 returns the 8-bit channels of a hex color, or black if it cannot
// be parsed.
func RGB255(hex string) (r, g, b uint8) {
	c, err := colorful.Hex(expandHex(hex))
	if err != nil {
		return 0, 0, 0
	}
	return c.RGB255()
}

// expandHex turns #rgb into #rrggbb; go-colorful only accepts the long form.
func expandHex(hex string) string {
	if len(hex) != 4 || hex[0] != '#' {
		return hex
	}
	return string([]byte{'#', hex[1], hex[1], hex[2], hex[2], hex[3], hex[3]})
}
