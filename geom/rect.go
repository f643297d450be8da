package geom

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Rect is an axis-aligned rectangle. It is empty unless Left < Right and
// Top < Bottom; empty rectangles never contribute to unions and never
// intersect anything.
type Rect struct {
	Left, Top, Right, Bottom float32
}

// GiantRect stands in for "unbounded" in cull and clip computations.
var GiantRect = Rect{Left: -1e9, Top: -1e9, Right: 1e9, Bottom: 1e9}

// LTRB creates a rectangle from its edges.
func LTRB(l, t, r, b float32) Rect {
	return Rect{Left: l, Top: t, Right: r, Bottom: b}
}

// XYWH creates a rectangle from an origin and a size.
func XYWH(x, y, w, h float32) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// WH creates a rectangle at the origin.
func WH(w, h float32) Rect {
	return Rect{Right: w, Bottom: h}
}

// BoundsOf returns the smallest rectangle containing every point.
func BoundsOf(pts ...Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	r := Rect{Left: pts[0].X, Top: pts[0].Y, Right: pts[0].X, Bottom: pts[0].Y}
	for _, p := range pts[1:] {
		r.Left = math32.Min(r.Left, p.X)
		r.Top = math32.Min(r.Top, p.Y)
		r.Right = math32.Max(r.Right, p.X)
		r.Bottom = math32.Max(r.Bottom, p.Y)
	}
	return r
}

// Width returns Right-Left.
func (r Rect) Width() float32 { return r.Right - r.Left }

// Height returns Bottom-Top.
func (r Rect) Height() float32 { return r.Bottom - r.Top }

// Center returns the center point.
func (r Rect) Center() Point {
	return Point{X: (r.Left + r.Right) * 0.5, Y: (r.Top + r.Bottom) * 0.5}
}

// IsEmpty reports whether r has no area. NaN edges are empty.
func (r Rect) IsEmpty() bool {
	return !(r.Left < r.Right && r.Top < r.Bottom)
}

// IsFinite reports whether all edges are finite.
func (r Rect) IsFinite() bool {
	for _, v := range [4]float32{r.Left, r.Top, r.Right, r.Bottom} {
		if math32.IsInf(v, 0) || math32.IsNaN(v) {
			return false
		}
	}
	return true
}

// Sorted returns r with swapped edges put in order.
func (r Rect) Sorted() Rect {
	return Rect{
		Left:   math32.Min(r.Left, r.Right),
		Top:    math32.Min(r.Top, r.Bottom),
		Right:  math32.Max(r.Left, r.Right),
		Bottom: math32.Max(r.Top, r.Bottom),
	}
}

// Corners returns the four corners clockwise from the top-left.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{X: r.Left, Y: r.Top},
		{X: r.Right, Y: r.Top},
		{X: r.Right, Y: r.Bottom},
		{X: r.Left, Y: r.Bottom},
	}
}

// Contains reports whether p lies inside r (right and bottom exclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Right && p.Y >= r.Top && p.Y < r.Bottom
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return !r.IsEmpty() && !o.IsEmpty() &&
		r.Left <= o.Left && r.Top <= o.Top && r.Right >= o.Right && r.Bottom >= o.Bottom
}

// Intersects reports whether r and o share area. Rectangles that only
// touch along an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	if r.IsEmpty() || o.IsEmpty() {
		return false
	}
	return r.Left < o.Right && o.Left < r.Right && r.Top < o.Bottom && o.Top < r.Bottom
}

// Intersect returns the overlap of r and o, or the empty Rect{}.
func (r Rect) Intersect(o Rect) Rect {
	if !r.Intersects(o) {
		return Rect{}
	}
	return Rect{
		Left:   math32.Max(r.Left, o.Left),
		Top:    math32.Max(r.Top, o.Top),
		Right:  math32.Min(r.Right, o.Right),
		Bottom: math32.Min(r.Bottom, o.Bottom),
	}
}

// Union returns the smallest rectangle containing r and o. Empty operands
// are ignored.
func (r Rect) Union(o Rect) Rect {
	if o.IsEmpty() {
		return r
	}
	if r.IsEmpty() {
		return o
	}
	return Rect{
		Left:   math32.Min(r.Left, o.Left),
		Top:    math32.Min(r.Top, o.Top),
		Right:  math32.Max(r.Right, o.Right),
		Bottom: math32.Max(r.Bottom, o.Bottom),
	}
}

// Offset translates r.
func (r Rect) Offset(dx, dy float32) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Outset grows r by dx horizontally and dy vertically on each side.
func (r Rect) Outset(dx, dy float32) Rect {
	return Rect{Left: r.Left - dx, Top: r.Top - dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Inset shrinks r by dx horizontally and dy vertically on each side.
func (r Rect) Inset(dx, dy float32) Rect {
	return r.Outset(-dx, -dy)
}

// RoundOut returns the smallest integer rectangle enclosing r.
func (r Rect) RoundOut() IRect {
	if r.IsEmpty() {
		return IRect{}
	}
	return IRect{
		Left:   int32(math32.Floor(r.Left)),
		Top:    int32(math32.Floor(r.Top)),
		Right:  int32(math32.Ceil(r.Right)),
		Bottom: int32(math32.Ceil(r.Bottom)),
	}
}

// NearlyEqual compares edges with an absolute tolerance.
func (r Rect) NearlyEqual(o Rect, tolerance float32) bool {
	return math32.Abs(r.Left-o.Left) <= tolerance &&
		math32.Abs(r.Top-o.Top) <= tolerance &&
		math32.Abs(r.Right-o.Right) <= tolerance &&
		math32.Abs(r.Bottom-o.Bottom) <= tolerance
}

func (r Rect) String() string {
	return fmt.Sprintf("[%g,%g,%g,%g]", r.Left, r.Top, r.Right, r.Bottom)
}

// IRect is an integer device-space rectangle.
type IRect struct {
	Left, Top, Right, Bottom int32
}

// ILTRB creates an integer rectangle from its edges.
func ILTRB(l, t, r, b int32) IRect {
	return IRect{Left: l, Top: t, Right: r, Bottom: b}
}

// IRectFromSize returns the rectangle covering a frame of the given size.
func IRectFromSize(s ISize) IRect {
	return IRect{Right: s.Width, Bottom: s.Height}
}

// Width returns Right-Left.
func (r IRect) Width() int32 { return r.Right - r.Left }

// Height returns Bottom-Top.
func (r IRect) Height() int32 { return r.Bottom - r.Top }

// IsEmpty reports whether r has no area.
func (r IRect) IsEmpty() bool {
	return r.Left >= r.Right || r.Top >= r.Bottom
}

// Rect converts r to a float rectangle.
func (r IRect) Rect() Rect {
	return Rect{Left: float32(r.Left), Top: float32(r.Top), Right: float32(r.Right), Bottom: float32(r.Bottom)}
}

// Union returns the smallest rectangle containing r and o.
func (r IRect) Union(o IRect) IRect {
	if o.IsEmpty() {
		return r
	}
	if r.IsEmpty() {
		return o
	}
	return IRect{
		Left:   min(r.Left, o.Left),
		Top:    min(r.Top, o.Top),
		Right:  max(r.Right, o.Right),
		Bottom: max(r.Bottom, o.Bottom),
	}
}

// Intersect returns the overlap of r and o, or the empty IRect{}.
func (r IRect) Intersect(o IRect) IRect {
	out := IRect{
		Left:   max(r.Left, o.Left),
		Top:    max(r.Top, o.Top),
		Right:  min(r.Right, o.Right),
		Bottom: min(r.Bottom, o.Bottom),
	}
	if out.IsEmpty() {
		return IRect{}
	}
	return out
}

// Align expands r so that its edges fall on multiples of the given
// alignments. Alignments of 1 or less leave that axis unchanged.
func (r IRect) Align(horizontal, vertical int32) IRect {
	if r.IsEmpty() {
		return r
	}
	if horizontal > 1 {
		r.Left = floorMultiple(r.Left, horizontal)
		r.Right = ceilMultiple(r.Right, horizontal)
	}
	if vertical > 1 {
		r.Top = floorMultiple(r.Top, vertical)
		r.Bottom = ceilMultiple(r.Bottom, vertical)
	}
	return r
}

func floorMultiple(v, m int32) int32 {
	rem := v % m
	if rem < 0 {
		rem += m
	}
	return v - rem
}

func ceilMultiple(v, m int32) int32 {
	f := floorMultiple(v, m)
	if f == v {
		return v
	}
	return f + m
}

func (r IRect) String() string {
	return fmt.Sprintf("[%d,%d,%d,%d]", r.Left, r.Top, r.Right, r.Bottom)
}
