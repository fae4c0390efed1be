package styles

import (
	"bytes"
	"fmt"
)

// Simple draws filled blocks with white separators.
type Simple struct{}

func (Simple) Name() string { return NameSimple }

func (Simple) RenderDefs(buf *bytes.Buffer) {}

func (Simple) RenderBlock(buf *bytes.Buffer, b Block) {
	class := "block"
	if b.Detached {
		class += " detached"
	}
	fmt.Fprintf(buf, `  <rect id="block-%s" class="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="white" stroke-width="1"/>`+"\n",
		EscapeXML(b.ID), class, b.X, b.Y, b.W, b.H, EscapeXML(b.Fill))
}

func (Simple) RenderText(buf *bytes.Buffer, b Block) {
	renderText(buf, b, b.TextColor)
}

func (Simple) RenderAnnotation(buf *bytes.Buffer, a Annotation) {
	renderAnnotation(buf, a, 2)
}

func renderText(buf *bytes.Buffer, b Block, color string) {
	size := FontSize(b)
	lines := 1
	if b.Value != "" {
		lines = 2
	}
	if !HasRoomForText(b, size, lines) {
		if lines == 1 || !HasRoomForText(b, size, 1) {
			return
		}
		lines = 1
	}

	label := TruncateLabel(b.Label, b.W, size)
	y := b.CY
	if lines == 2 {
		y -= size * lineSpacing / 2
	}
	fmt.Fprintf(buf, `  <text class="block-text" data-block="%s" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" font-family="Helvetica, Arial, sans-serif" font-size="%.1f" font-weight="bold" fill="%s">%s</text>`+"\n",
		EscapeXML(b.ID), b.CX, y, size, EscapeXML(color), EscapeXML(label))

	if lines == 2 {
		value := TruncateLabel(b.Value, b.W, size*0.9)
		fmt.Fprintf(buf, `  <text class="block-value" data-block="%s" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" font-family="Helvetica, Arial, sans-serif" font-size="%.1f" fill="%s">%s</text>`+"\n",
			EscapeXML(b.ID), b.CX, y+size*lineSpacing, size*0.9, EscapeXML(color), EscapeXML(value))
	}
}

func renderAnnotation(buf *bytes.Buffer, a Annotation, width float64) {
	dash := ""
	if a.Dash != "" {
		dash = fmt.Sprintf(` stroke-dasharray="%s"`, a.Dash)
	}
	fmt.Fprintf(buf, `  <line class="bep-line" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.1f"%s/>`+"\n",
		a.X, a.Y1, a.X, a.Y2, EscapeXML(a.Color), width, dash)

	if a.Label == "" {
		return
	}
	y, baseline := a.Y2+14, "hanging"
	if a.Top {
		y, baseline = a.Y1-6, "auto"
	}
	fmt.Fprintf(buf, `  <text class="bep-label" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="%s" font-family="Helvetica, Arial, sans-serif" font-size="12" fill="%s">%s</text>`+"\n",
		a.X, y, baseline, EscapeXML(a.Color), EscapeXML(a.Label))
}
