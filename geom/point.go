package geom

import "github.com/chewxy/math32"

// Point is a 2D point or vector.
type Point struct {
	X, Y float32
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float32) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns p scaled by s.
func (p Point) Mul(s float32) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Length returns the Euclidean length of p.
func (p Point) Length() float32 {
	return math32.Hypot(p.X, p.Y)
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float32 {
	return p.Sub(q).Length()
}

// Lerp interpolates between p and q.
func (p Point) Lerp(q Point, t float32) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// ISize is an integer size in device pixels.
type ISize struct {
	Width, Height int32
}

// IsEmpty reports whether the size has no area.
func (s ISize) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}
