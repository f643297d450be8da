package geom

import (
	"slices"

	"github.com/chewxy/math32"
)

// Verb is a path segment kind.
type Verb uint8

const (
	VerbMove Verb = iota
	VerbLine
	VerbQuad
	VerbCubic
	VerbClose
)

// pointsPerVerb is how many points each verb consumes.
var pointsPerVerb = [...]int{VerbMove: 1, VerbLine: 1, VerbQuad: 2, VerbCubic: 3, VerbClose: 0}

// FillType selects how the interior of a self-intersecting path is found.
type FillType uint8

const (
	FillNonZero FillType = iota
	FillEvenOdd
)

// kappa is the cubic control distance for a quarter circle.
const kappa = 0.5522847498

// Path is a sequence of contours made of lines and Bezier curves.
// A Path handed to a display list builder must not be modified afterwards.
type Path struct {
	verbs    []Verb
	points   []Point
	FillType FillType
}

// NewPath creates an empty path.
func NewPath() *Path {
	return &Path{}
}

// MoveTo starts a new contour.
func (p *Path) MoveTo(x, y float32) *Path {
	p.verbs = append(p.verbs, VerbMove)
	p.points = append(p.points, Pt(x, y))
	return p
}

// LineTo adds a line from the current point.
func (p *Path) LineTo(x, y float32) *Path {
	p.ensureMove()
	p.verbs = append(p.verbs, VerbLine)
	p.points = append(p.points, Pt(x, y))
	return p
}

// QuadTo adds a quadratic Bezier.
func (p *Path) QuadTo(cx, cy, x, y float32) *Path {
	p.ensureMove()
	p.verbs = append(p.verbs, VerbQuad)
	p.points = append(p.points, Pt(cx, cy), Pt(x, y))
	return p
}

// CubicTo adds a cubic Bezier.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float32) *Path {
	p.ensureMove()
	p.verbs = append(p.verbs, VerbCubic)
	p.points = append(p.points, Pt(c1x, c1y), Pt(c2x, c2y), Pt(x, y))
	return p
}

// Close closes the current contour.
func (p *Path) Close() *Path {
	if len(p.verbs) > 0 && p.verbs[len(p.verbs)-1] != VerbClose {
		p.verbs = append(p.verbs, VerbClose)
	}
	return p
}

func (p *Path) ensureMove() {
	if len(p.verbs) == 0 || p.verbs[len(p.verbs)-1] == VerbClose {
		var start Point
		if len(p.points) > 0 {
			start = p.contourStart()
		}
		p.verbs = append(p.verbs, VerbMove)
		p.points = append(p.points, start)
	}
}

// contourStart returns the first point of the last contour.
func (p *Path) contourStart() Point {
	idx := 0
	for i, v := range p.verbs {
		if v == VerbMove {
			idx = p.pointIndex(i)
		}
	}
	return p.points[idx]
}

func (p *Path) pointIndex(verb int) int {
	n := 0
	for _, v := range p.verbs[:verb] {
		n += pointsPerVerb[v]
	}
	return n
}

// AddRect adds a closed clockwise rectangle contour.
func (p *Path) AddRect(r Rect) *Path {
	return p.MoveTo(r.Left, r.Top).
		LineTo(r.Right, r.Top).
		LineTo(r.Right, r.Bottom).
		LineTo(r.Left, r.Bottom).
		Close()
}

// AddOval adds an ellipse inscribed in r as four cubics.
func (p *Path) AddOval(r Rect) *Path {
	cx, cy := r.Center().X, r.Center().Y
	rx, ry := r.Width()/2, r.Height()/2
	kx, ky := rx*kappa, ry*kappa
	return p.MoveTo(cx+rx, cy).
		CubicTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry).
		CubicTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy).
		CubicTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry).
		CubicTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy).
		Close()
}

// AddCircle adds a circle contour.
func (p *Path) AddCircle(cx, cy, radius float32) *Path {
	return p.AddOval(LTRB(cx-radius, cy-radius, cx+radius, cy+radius))
}

// AddRRect adds a rounded rectangle contour.
func (p *Path) AddRRect(rr RRect) *Path {
	if rr.IsRect() {
		return p.AddRect(rr.Rect)
	}
	r := rr.Rect
	ul, ur, lr, ll := rr.Radii[UpperLeft], rr.Radii[UpperRight], rr.Radii[LowerRight], rr.Radii[LowerLeft]
	p.MoveTo(r.Left+ul.X, r.Top)
	p.LineTo(r.Right-ur.X, r.Top)
	p.CubicTo(r.Right-ur.X+ur.X*kappa, r.Top, r.Right, r.Top+ur.Y-ur.Y*kappa, r.Right, r.Top+ur.Y)
	p.LineTo(r.Right, r.Bottom-lr.Y)
	p.CubicTo(r.Right, r.Bottom-lr.Y+lr.Y*kappa, r.Right-lr.X+lr.X*kappa, r.Bottom, r.Right-lr.X, r.Bottom)
	p.LineTo(r.Left+ll.X, r.Bottom)
	p.CubicTo(r.Left+ll.X-ll.X*kappa, r.Bottom, r.Left, r.Bottom-ll.Y+ll.Y*kappa, r.Left, r.Bottom-ll.Y)
	p.LineTo(r.Left, r.Top+ul.Y)
	p.CubicTo(r.Left, r.Top+ul.Y-ul.Y*kappa, r.Left+ul.X-ul.X*kappa, r.Top, r.Left+ul.X, r.Top)
	return p.Close()
}

// AddArc adds an elliptical arc of the oval bounded by r. Angles are in
// degrees, clockwise from the positive X axis. With useCenter the arc is
// closed through the center as a wedge.
func (p *Path) AddArc(r Rect, startDeg, sweepDeg float32, useCenter bool) *Path {
	cx, cy := r.Center().X, r.Center().Y
	rx, ry := r.Width()/2, r.Height()/2
	start := startDeg * math32.Pi / 180
	sweep := sweepDeg * math32.Pi / 180
	point := func(a float32) Point {
		s, c := math32.Sincos(a)
		return Pt(cx+rx*c, cy+ry*s)
	}
	if useCenter {
		p.MoveTo(cx, cy)
		s := point(start)
		p.LineTo(s.X, s.Y)
	} else {
		s := point(start)
		p.MoveTo(s.X, s.Y)
	}
	segments := int(math32.Ceil(math32.Abs(sweep) / (math32.Pi / 2)))
	if segments == 0 {
		segments = 1
	}
	step := sweep / float32(segments)
	k := 4.0 / 3.0 * math32.Tan(step/4)
	a := start
	for i := 0; i < segments; i++ {
		s0, c0 := math32.Sincos(a)
		s1, c1 := math32.Sincos(a + step)
		p.CubicTo(
			cx+rx*(c0-k*s0), cy+ry*(s0+k*c0),
			cx+rx*(c1+k*s1), cy+ry*(s1-k*c1),
			cx+rx*c1, cy+ry*s1,
		)
		a += step
	}
	if useCenter {
		p.Close()
	}
	return p
}

// IsEmpty reports whether the path has no segments.
func (p *Path) IsEmpty() bool {
	return p == nil || len(p.verbs) == 0
}

// Verbs returns the verb sequence. The slice must not be modified.
func (p *Path) Verbs() []Verb { return p.verbs }

// Points returns the point sequence. The slice must not be modified.
func (p *Path) Points() []Point { return p.points }

// CountVerbs returns the number of verbs of the given kind.
func (p *Path) CountVerbs(kind Verb) int {
	n := 0
	for _, v := range p.verbs {
		if v == kind {
			n++
		}
	}
	return n
}

// Bounds returns the bounds of all points, control points included.
func (p *Path) Bounds() Rect {
	if p.IsEmpty() {
		return Rect{}
	}
	return BoundsOf(p.points...)
}

// IsConvex reports whether the path is a single contour whose turns all go
// the same way.
func (p *Path) IsConvex() bool {
	if p.CountVerbs(VerbMove) != 1 {
		return false
	}
	pts := p.points
	if len(pts) < 3 {
		return true
	}
	var sign float32
	for i := range pts {
		a, b, c := pts[i], pts[(i+1)%len(pts)], pts[(i+2)%len(pts)]
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		if cross == 0 {
			continue
		}
		if sign == 0 {
			sign = cross
		} else if (cross > 0) != (sign > 0) {
			return false
		}
	}
	return true
}

// Equals reports whether both paths have identical segments and fill type.
func (p *Path) Equals(o *Path) bool {
	if p == o {
		return true
	}
	if p == nil || o == nil {
		return p.IsEmpty() && o.IsEmpty()
	}
	return p.FillType == o.FillType &&
		slices.Equal(p.verbs, o.verbs) &&
		slices.Equal(p.points, o.points)
}

// Clone returns a deep copy.
func (p *Path) Clone() *Path {
	if p == nil {
		return nil
	}
	return &Path{
		verbs:    slices.Clone(p.verbs),
		points:   slices.Clone(p.points),
		FillType: p.FillType,
	}
}

// Transform returns a copy of p with every point mapped through m.
func (p *Path) Transform(m Matrix) *Path {
	out := p.Clone()
	if out == nil {
		return nil
	}
	for i, pt := range out.points {
		out.points[i] = m.MapPoint(pt)
	}
	return out
}

// Walk calls fn for each verb with the points it consumes. The first
// argument to fn is the current point before the verb.
func (p *Path) Walk(fn func(v Verb, from Point, pts []Point)) {
	if p == nil {
		return
	}
	var cur, start Point
	i := 0
	for _, v := range p.verbs {
		n := pointsPerVerb[v]
		pts := p.points[i : i+n]
		fn(v, cur, pts)
		switch v {
		case VerbMove:
			start = pts[0]
			cur = start
		case VerbClose:
			cur = start
		default:
			cur = pts[n-1]
		}
		i += n
	}
}

// Flatten converts p, mapped through m, to closed polygons. Curves are
// subdivided until the chord error is below tolerance device pixels.
func (p *Path) Flatten(m Matrix, tolerance float32) [][]Point {
	if tolerance <= 0 {
		tolerance = 0.25
	}
	var polys [][]Point
	var cur []Point
	flush := func() {
		if len(cur) > 1 {
			polys = append(polys, cur)
		}
		cur = nil
	}
	p.Walk(func(v Verb, from Point, pts []Point) {
		switch v {
		case VerbMove:
			flush()
			cur = []Point{m.MapPoint(pts[0])}
		case VerbLine:
			cur = append(cur, m.MapPoint(pts[0]))
		case VerbQuad:
			a, b, c := m.MapPoint(from), m.MapPoint(pts[0]), m.MapPoint(pts[1])
			n := curveSegments(a.Sub(b.Mul(2)).Add(c).Length(), tolerance)
			for i := 1; i <= n; i++ {
				t := float32(i) / float32(n)
				u := 1 - t
				cur = append(cur, a.Mul(u*u).Add(b.Mul(2*u*t)).Add(c.Mul(t*t)))
			}
		case VerbCubic:
			a, b, c, d := m.MapPoint(from), m.MapPoint(pts[0]), m.MapPoint(pts[1]), m.MapPoint(pts[2])
			dd := math32.Max(a.Sub(b.Mul(2)).Add(c).Length(), b.Sub(c.Mul(2)).Add(d).Length())
			n := curveSegments(dd*1.5, tolerance)
			for i := 1; i <= n; i++ {
				t := float32(i) / float32(n)
				u := 1 - t
				cur = append(cur, a.Mul(u*u*u).Add(b.Mul(3*u*u*t)).Add(c.Mul(3*u*t*t)).Add(d.Mul(t*t*t)))
			}
		case VerbClose:
			flush()
		}
	})
	flush()
	return polys
}

// curveSegments picks a subdivision count for a curve with second
// difference magnitude dd.
func curveSegments(dd, tolerance float32) int {
	n := int(math32.Ceil(math32.Sqrt(dd / (8 * tolerance)) * 2))
	return max(1, min(n, 256))
}
