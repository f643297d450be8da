package geom

import "github.com/chewxy/math32"

// Corner indexes RRect.Radii.
type Corner int

const (
	UpperLeft Corner = iota
	UpperRight
	LowerRight
	LowerLeft
)

// RRect is a rectangle with elliptical corners. Radii holds the x/y radius
// of each corner in Corner order.
type RRect struct {
	Rect  Rect
	Radii [4]Point
}

// RRectXY returns a rounded rectangle with the same radii on every corner.
// Radii are clamped to half of the rectangle's size.
func RRectXY(r Rect, rx, ry float32) RRect {
	rr := RRect{Rect: r}
	for i := range rr.Radii {
		rr.Radii[i] = Point{X: rx, Y: ry}
	}
	return rr.clamped()
}

// RRectFromRect returns a rounded rectangle with square corners.
func RRectFromRect(r Rect) RRect {
	return RRect{Rect: r}
}

// RRectOval returns the rounded rectangle that is the oval inscribed in r.
func RRectOval(r Rect) RRect {
	return RRectXY(r, r.Width()/2, r.Height()/2)
}

func (rr RRect) clamped() RRect {
	hw := math32.Abs(rr.Rect.Width()) / 2
	hh := math32.Abs(rr.Rect.Height()) / 2
	for i, p := range rr.Radii {
		rr.Radii[i] = Point{
			X: math32.Max(0, math32.Min(p.X, hw)),
			Y: math32.Max(0, math32.Min(p.Y, hh)),
		}
	}
	return rr
}

// Bounds returns the enclosing rectangle.
func (rr RRect) Bounds() Rect { return rr.Rect }

// IsEmpty reports whether the rectangle has no area.
func (rr RRect) IsEmpty() bool { return rr.Rect.IsEmpty() }

// IsRect reports whether every corner is square.
func (rr RRect) IsRect() bool {
	for _, p := range rr.Radii {
		if p.X != 0 && p.Y != 0 {
			return false
		}
	}
	return true
}

// IsOval reports whether the corners meet so that the shape is an ellipse.
func (rr RRect) IsOval() bool {
	hw, hh := rr.Rect.Width()/2, rr.Rect.Height()/2
	for _, p := range rr.Radii {
		if p.X < hw || p.Y < hh {
			return false
		}
	}
	return true
}

// Offset translates the rounded rectangle.
func (rr RRect) Offset(dx, dy float32) RRect {
	rr.Rect = rr.Rect.Offset(dx, dy)
	return rr
}

// Contains reports whether o lies inside rr, treating each corner as a
// quarter ellipse.
func (rr RRect) Contains(o Rect) bool {
	if !rr.Rect.ContainsRect(o) {
		return false
	}
	if rr.IsRect() {
		return true
	}
	for _, c := range o.Corners() {
		if !rr.containsPoint(c) {
			return false
		}
	}
	return true
}

func (rr RRect) containsPoint(p Point) bool {
	r := rr.Rect
	checks := [4]struct {
		cx, cy float32
		inside bool
	}{
		{r.Left + rr.Radii[UpperLeft].X, r.Top + rr.Radii[UpperLeft].Y, p.X < r.Left+rr.Radii[UpperLeft].X && p.Y < r.Top+rr.Radii[UpperLeft].Y},
		{r.Right - rr.Radii[UpperRight].X, r.Top + rr.Radii[UpperRight].Y, p.X > r.Right-rr.Radii[UpperRight].X && p.Y < r.Top+rr.Radii[UpperRight].Y},
		{r.Right - rr.Radii[LowerRight].X, r.Bottom - rr.Radii[LowerRight].Y, p.X > r.Right-rr.Radii[LowerRight].X && p.Y > r.Bottom-rr.Radii[LowerRight].Y},
		{r.Left + rr.Radii[LowerLeft].X, r.Bottom - rr.Radii[LowerLeft].Y, p.X < r.Left+rr.Radii[LowerLeft].X && p.Y > r.Bottom-rr.Radii[LowerLeft].Y},
	}
	for i, c := range checks {
		if !c.inside {
			continue
		}
		rx, ry := rr.Radii[i].X, rr.Radii[i].Y
		if rx == 0 || ry == 0 {
			continue
		}
		dx := (p.X - c.cx) / rx
		dy := (p.Y - c.cy) / ry
		if dx*dx+dy*dy > 1 {
			return false
		}
	}
	return true
}
