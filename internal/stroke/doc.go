// Package stroke converts stroked paths into fill outlines.
//
// Each contour is flattened to a polyline and offset by half the stroke
// width on both sides. The forward offset runs along the contour, the
// backward offset is appended in reverse, and caps connect the two ends:
//
//  1. forward offset
//  2. end cap
//  3. backward offset, reversed
//  4. start cap, close
//
// Closed contours produce two loops of opposite winding instead, so the
// outline fills as a ring under the non-zero rule.
//
// Joins follow the paint: miter (falling back to bevel beyond the miter
// limit), round (flattened arc) or bevel. Zero-length contours draw only
// their caps, so a round-capped dot becomes a circle.
//
//	outline := stroke.Expand(path, stroke.StyleOf(paint), 0.25)
package stroke
