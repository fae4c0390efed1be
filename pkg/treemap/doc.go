// Package treemap turns CVP figures into the normalized block geometry of a
// two-column profit-structure chart.
//
// # Coordinate Space
//
// Blocks live in a 0..1 space with y growing downward. One unit of height
// is 100% of sales: the sales block in the left column is always exactly
// 1.0 tall and is the visual reference for every other block.
//
// # Topology
//
// The layout is fixed, not data-driven:
//
//	+--------+----------------------+
//	|        |   variable costs     |
//	| sales  +-----------+----------+
//	|        | contrib.  |  fixed   |
//	|        |  margin   +----------+
//	|        |           |  profit  |
//	+--------+-----------+----------+
//
// When costs exceed sales the loss block extends below y = 1. Renderers
// must scale their drawable height by [Meta.HeightExtension] so that
// nothing is clipped. Two loss treatments are available, see
// [LossDisplayMode].
//
// [Generate] is a pure function. Colors and labels are resolved from
// [Options] on every call; nothing is cached between calls.
package treemap
