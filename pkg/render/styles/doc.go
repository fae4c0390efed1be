// Package styles defines how chart elements are drawn into an SVG buffer.
//
// A [Style] receives pixel-space [Block] and [Annotation] values from the
// SVG sink and writes SVG fragments. Two styles ship with cvpchart:
// [Simple] (filled blocks) and [Outline] (white blocks with colored
// borders, suited to monochrome printing).
//
// The text helpers ([FontSize], [TruncateLabel], [EscapeXML]) are shared by
// every style.
package styles
