package styles

import (
	"bytes"
	"encoding/xml"
	"unicode/utf8"
)

const (
	fontHeightRatio = 0.25
	fontWidthRatio  = 0.85
	fontCharWidth   = 0.6
	fontSizeMin     = 9.0
	fontSizeMax     = 20.0
	lineSpacing     = 1.25
)

// FontSize picks a label size that fits the block, clamped to a readable
// range.
func FontSize(b Block) float64 {
	return fontSizeFor(b.W, b.H, utf8.RuneCountInString(b.Label))
}

func fontSizeFor(availWidth, availHeight float64, textLen int) float64 {
	n := max(1, textLen)
	byHeight := availHeight * fontHeightRatio
	byWidth := (availWidth * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

// HasRoomForText reports whether a block is tall enough for lines of text
// at the given font size.
func HasRoomForText(b Block, fontSize float64, lines int) bool {
	return b.H >= fontSize*lineSpacing*float64(lines) && b.W >= fontSize*2
}

// TruncateLabel shortens s so it fits in width pixels at fontSize, ending
// it with "..". Counting is by rune so multi-byte labels stay valid UTF-8.
func TruncateLabel(s string, width, fontSize float64) string {
	charWidth := fontSize * fontCharWidth
	maxChars := int(width * fontWidthRatio / charWidth)
	if maxChars < 3 {
		maxChars = 3
	}

	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars-2]) + ".."
}

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
