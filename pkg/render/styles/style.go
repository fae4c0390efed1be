package styles

import (
	"bytes"
	"slices"
	"strings"

	"github.com/matzehuels/cvpchart/pkg/errors"
)

// Style defines the visual appearance of a chart.
type Style interface {
	// Name returns the identifier used on the command line.
	Name() string
	// RenderDefs writes SVG <defs> content (patterns, markers).
	RenderDefs(buf *bytes.Buffer)
	// RenderBlock writes the SVG for a single block shape.
	RenderBlock(buf *bytes.Buffer, b Block)
	// RenderText writes the SVG for a block's label and value text.
	RenderText(buf *bytes.Buffer, b Block)
	// RenderAnnotation writes the SVG for a break-even line.
	RenderAnnotation(buf *bytes.Buffer, a Annotation)
}

// Block contains all data needed to render a single chart block.
type Block struct {
	ID           string  // Block type, used for element ids
	Label        string  // Title text
	Value        string  // Formatted value line (empty to omit)
	X, Y, W, H   float64 // Position and dimensions in pixels
	CX, CY       float64 // Center coordinates (for text)
	Fill         string  // Background color
	TextColor    string  // Contrast color for text on Fill
	Detached     bool    // Drawn apart from the stack
	ExtendsBelow bool    // Reaches past the sales baseline
}

// Annotation contains positioning data for a vertical marker line.
type Annotation struct {
	X      float64 // Horizontal position in pixels
	Y1, Y2 float64 // Vertical extent of the line
	Label  string  // Text placed at one end of the line
	Top    bool    // Label at Y1 (true) or Y2 (false)
	Dash   string  // stroke-dasharray value, empty for solid
	Color  string
}

// Style names.
const (
	NameSimple  = "simple"
	NameOutline = "outline"
)

// Names lists the available styles.
func Names() []string { return []string{NameSimple, NameOutline} }

// Parse returns the style with the given name. The empty string is
// [Simple].
func Parse(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameSimple:
		return Simple{}, nil
	case NameOutline:
		return Outline{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidStyle,
		"unknown style %q (valid: %s)", name, strings.Join(Names(), ", "))
}

// IsValid reports whether name is a known style.
func IsValid(name string) bool {
	return slices.Contains(Names(), name)
}

// DashArray maps a line style name to an SVG stroke-dasharray.
func DashArray(lineStyle string) string {
	switch lineStyle {
	case "dashed":
		return "6 4"
	case "dotted":
		return "2 3"
	default:
		return ""
	}
}
