package styles

import (
	"bytes"
	"fmt"
)

// Outline draws white blocks with colored borders and colored text.
// Detached blocks get a diagonal hatch so losses stay distinguishable in
// grayscale.
type Outline struct{}

func (Outline) Name() string { return NameOutline }

func (Outline) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs>
    <pattern id="hatch" patternUnits="userSpaceOnUse" width="8" height="8" patternTransform="rotate(45)">
      <line x1="0" y1="0" x2="0" y2="8" stroke="#999" stroke-width="1"/>
    </pattern>
  </defs>
`)
}

func (Outline) RenderBlock(buf *bytes.Buffer, b Block) {
	fill := "white"
	if b.Detached || b.ExtendsBelow {
		fill = "url(#hatch)"
	}
	fmt.Fprintf(buf, `  <rect id="block-%s" class="block" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
		EscapeXML(b.ID), b.X+1, b.Y+1, max(0, b.W-2), max(0, b.H-2), fill, EscapeXML(b.Fill))
}

func (Outline) RenderText(buf *bytes.Buffer, b Block) {
	renderText(buf, b, b.Fill)
}

func (Outline) RenderAnnotation(buf *bytes.Buffer, a Annotation) {
	renderAnnotation(buf, a, 1.5)
}
