package geom

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"
	"golang.org/x/image/math/f64"
)

// Matrix is a 4x4 homogeneous transform in row-major order:
//
//	| m[0]  m[1]  m[2]  m[3]  |
//	| m[4]  m[5]  m[6]  m[7]  |
//	| m[8]  m[9]  m[10] m[11] |
//	| m[12] m[13] m[14] m[15] |
//
// Points are column vectors, so (x, y) maps to
// (m[0]x + m[1]y + m[3], m[4]x + m[5]y + m[7]) divided by
// m[12]x + m[13]y + m[15]. Matrix values compare with ==.
type Matrix f32.Mat4

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate returns a translation.
func Translate(tx, ty float32) Matrix {
	return Matrix{
		1, 0, 0, tx,
		0, 1, 0, ty,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Scale returns a scale about the origin.
func Scale(sx, sy float32) Matrix {
	return Matrix{
		sx, 0, 0, 0,
		0, sy, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Rotate returns a rotation about the Z axis. The angle is in degrees;
// multiples of 90 produce exact zeros.
func Rotate(degrees float32) Matrix {
	sin, cos := sinCosDegrees(degrees)
	return Matrix{
		cos, -sin, 0, 0,
		sin, cos, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// RotateAxis returns a rotation of radians about the axis (x, y, z).
// A zero axis yields the identity.
func RotateAxis(x, y, z, radians float32) Matrix {
	l := math32.Sqrt(x*x + y*y + z*z)
	if l == 0 {
		return Identity()
	}
	x, y, z = x/l, y/l, z/l
	s, c := math32.Sincos(radians)
	t := 1 - c
	return Matrix{
		t*x*x + c, t*x*y - s*z, t*x*z + s*y, 0,
		t*x*y + s*z, t*y*y + c, t*y*z - s*x, 0,
		t*x*z - s*y, t*y*z + s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	}
}

// Skew returns a skew with sx along X and sy along Y.
func Skew(sx, sy float32) Matrix {
	return Matrix{
		1, sx, 0, 0,
		sy, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Affine2D returns the 2D affine transform
// x' = mxx*x + mxy*y + mxt, y' = myx*x + myy*y + myt.
func Affine2D(mxx, mxy, mxt, myx, myy, myt float32) Matrix {
	return Matrix{
		mxx, mxy, 0, mxt,
		myx, myy, 0, myt,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Perspective16 builds a matrix from 16 row-major values.
func Perspective16(v [16]float32) Matrix {
	return Matrix(v)
}

func sinCosDegrees(degrees float32) (float32, float32) {
	rad := float64(degrees) * math.Pi / 180
	sin, cos := math.Sincos(rad)
	const snap = 1.0 / (1 << 20)
	if math.Abs(sin) < snap {
		sin = 0
	}
	if math.Abs(cos) < snap {
		cos = 0
	}
	return float32(sin), float32(cos)
}

// Concat returns m * n: the transform that applies n first and then m.
func (m Matrix) Concat(n Matrix) Matrix {
	var out Matrix
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[4*r+k] * n[4*k+c]
			}
			out[4*r+c] = sum
		}
	}
	return out
}

// IsIdentity reports whether m is exactly the identity.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// HasPerspective reports whether the bottom row differs from (0, 0, 0, 1).
func (m Matrix) HasPerspective() bool {
	return m[12] != 0 || m[13] != 0 || m[14] != 0 || m[15] != 1
}

// Is2DAffine reports whether m only uses the 2D affine components.
func (m Matrix) Is2DAffine() bool {
	return m[2] == 0 && m[6] == 0 &&
		m[8] == 0 && m[9] == 0 && m[10] == 1 && m[11] == 0 &&
		!m.HasPerspective()
}

// IsTranslate reports whether m is a pure 2D translation.
func (m Matrix) IsTranslate() bool {
	return m.Is2DAffine() && m[0] == 1 && m[1] == 0 && m[4] == 0 && m[5] == 1
}

// IsScaleTranslate reports whether m only scales and translates in 2D.
func (m Matrix) IsScaleTranslate() bool {
	return m.Is2DAffine() && m[1] == 0 && m[4] == 0
}

// RectStaysRect reports whether m maps axis-aligned rectangles to
// axis-aligned rectangles.
func (m Matrix) RectStaysRect() bool {
	if m.HasPerspective() {
		return false
	}
	if m[1] == 0 && m[4] == 0 {
		return m[0] != 0 && m[5] != 0
	}
	if m[0] == 0 && m[5] == 0 {
		return m[1] != 0 && m[4] != 0
	}
	return false
}

// Determinant returns the 4x4 determinant, computed in float64.
func (m Matrix) Determinant() float64 {
	_, det := m.inverse64()
	return det
}

// Invert returns the inverse of m. It fails when m is singular or nearly
// so; callers then treat the mapped region as empty.
func (m Matrix) Invert() (Matrix, bool) {
	inv, det := m.inverse64()
	if math.Abs(det) < 1e-12 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Matrix{}, false
	}
	var out Matrix
	for i, v := range inv {
		out[i] = float32(v / det)
		if math32.IsNaN(out[i]) || math32.IsInf(out[i], 0) {
			return Matrix{}, false
		}
	}
	return out, true
}

// inverse64 returns the adjugate of m and its determinant.
func (m Matrix) inverse64() ([16]float64, float64) {
	var a [16]float64
	for i, v := range m {
		a[i] = float64(v)
	}
	var inv [16]float64
	inv[0] = a[5]*a[10]*a[15] - a[5]*a[11]*a[14] - a[9]*a[6]*a[15] + a[9]*a[7]*a[14] + a[13]*a[6]*a[11] - a[13]*a[7]*a[10]
	inv[4] = -a[4]*a[10]*a[15] + a[4]*a[11]*a[14] + a[8]*a[6]*a[15] - a[8]*a[7]*a[14] - a[12]*a[6]*a[11] + a[12]*a[7]*a[10]
	inv[8] = a[4]*a[9]*a[15] - a[4]*a[11]*a[13] - a[8]*a[5]*a[15] + a[8]*a[7]*a[13] + a[12]*a[5]*a[11] - a[12]*a[7]*a[9]
	inv[12] = -a[4]*a[9]*a[14] + a[4]*a[10]*a[13] + a[8]*a[5]*a[14] - a[8]*a[6]*a[13] - a[12]*a[5]*a[10] + a[12]*a[6]*a[9]
	inv[1] = -a[1]*a[10]*a[15] + a[1]*a[11]*a[14] + a[9]*a[2]*a[15] - a[9]*a[3]*a[14] - a[13]*a[2]*a[11] + a[13]*a[3]*a[10]
	inv[5] = a[0]*a[10]*a[15] - a[0]*a[11]*a[14] - a[8]*a[2]*a[15] + a[8]*a[3]*a[14] + a[12]*a[2]*a[11] - a[12]*a[3]*a[10]
	inv[9] = -a[0]*a[9]*a[15] + a[0]*a[11]*a[13] + a[8]*a[1]*a[15] - a[8]*a[3]*a[13] - a[12]*a[1]*a[11] + a[12]*a[3]*a[9]
	inv[13] = a[0]*a[9]*a[14] - a[0]*a[10]*a[13] - a[8]*a[1]*a[14] + a[8]*a[2]*a[13] + a[12]*a[1]*a[10] - a[12]*a[2]*a[9]
	inv[2] = a[1]*a[6]*a[15] - a[1]*a[7]*a[14] - a[5]*a[2]*a[15] + a[5]*a[3]*a[14] + a[13]*a[2]*a[7] - a[13]*a[3]*a[6]
	inv[6] = -a[0]*a[6]*a[15] + a[0]*a[7]*a[14] + a[4]*a[2]*a[15] - a[4]*a[3]*a[14] - a[12]*a[2]*a[7] + a[12]*a[3]*a[6]
	inv[10] = a[0]*a[5]*a[15] - a[0]*a[7]*a[13] - a[4]*a[1]*a[15] + a[4]*a[3]*a[13] + a[12]*a[1]*a[7] - a[12]*a[3]*a[5]
	inv[14] = -a[0]*a[5]*a[14] + a[0]*a[6]*a[13] + a[4]*a[1]*a[14] - a[4]*a[2]*a[13] - a[12]*a[1]*a[6] + a[12]*a[2]*a[5]
	inv[3] = -a[1]*a[6]*a[11] + a[1]*a[7]*a[10] + a[5]*a[2]*a[11] - a[5]*a[3]*a[10] - a[9]*a[2]*a[7] + a[9]*a[3]*a[6]
	inv[7] = a[0]*a[6]*a[11] - a[0]*a[7]*a[10] - a[4]*a[2]*a[11] + a[4]*a[3]*a[10] + a[8]*a[2]*a[7] - a[8]*a[3]*a[6]
	inv[11] = -a[0]*a[5]*a[11] + a[0]*a[7]*a[9] + a[4]*a[1]*a[11] - a[4]*a[3]*a[9] - a[8]*a[1]*a[7] + a[8]*a[3]*a[5]
	inv[15] = a[0]*a[5]*a[10] - a[0]*a[6]*a[9] - a[4]*a[1]*a[10] + a[4]*a[2]*a[9] + a[8]*a[1]*a[6] - a[8]*a[2]*a[5]
	det := a[0]*inv[0] + a[1]*inv[4] + a[2]*inv[8] + a[3]*inv[12]
	return inv, det
}

// mapHomogeneous maps (x, y, 0, 1) and returns the projected point and w.
func (m Matrix) mapHomogeneous(x, y float32) (Point, float32) {
	px := m[0]*x + m[1]*y + m[3]
	py := m[4]*x + m[5]*y + m[7]
	w := m[12]*x + m[13]*y + m[15]
	if w != 1 && w != 0 {
		px /= w
		py /= w
	}
	return Point{X: px, Y: py}, w
}

// MapPoint maps p through m, dividing by w when m has perspective.
func (m Matrix) MapPoint(p Point) Point {
	out, _ := m.mapHomogeneous(p.X, p.Y)
	return out
}

// MapVector maps a direction, ignoring translation and perspective.
func (m Matrix) MapVector(v Point) Point {
	return Point{X: m[0]*v.X + m[1]*v.Y, Y: m[4]*v.X + m[5]*v.Y}
}

// MapRect maps the four corners of r and returns their bounding box.
// When a corner lands behind the viewer (w <= 0) the result is GiantRect.
func (m Matrix) MapRect(r Rect) Rect {
	if r.IsEmpty() {
		return Rect{}
	}
	if m.IsScaleTranslate() {
		return Rect{
			Left:   r.Left*m[0] + m[3],
			Top:    r.Top*m[5] + m[7],
			Right:  r.Right*m[0] + m[3],
			Bottom: r.Bottom*m[5] + m[7],
		}.Sorted()
	}
	var pts [4]Point
	for i, c := range r.Corners() {
		p, w := m.mapHomogeneous(c.X, c.Y)
		if m.HasPerspective() && w <= 0 {
			return GiantRect
		}
		pts[i] = p
	}
	return BoundsOf(pts[:]...)
}

// TransformBounds maps r through m and, when clip is non-nil, intersects
// the result with *clip.
func TransformBounds(r Rect, m Matrix, clip *Rect) Rect {
	out := m.MapRect(r)
	if clip != nil {
		out = out.Intersect(*clip)
	}
	return out
}

// Aff3 returns the 2D affine part of m for golang.org/x/image/draw.
func (m Matrix) Aff3() f64.Aff3 {
	return f64.Aff3{
		float64(m[0]), float64(m[1]), float64(m[3]),
		float64(m[4]), float64(m[5]), float64(m[7]),
	}
}

// MaxScale returns the largest factor m stretches a unit vector by,
// ignoring perspective.
func (m Matrix) MaxScale() float32 {
	sx := math32.Hypot(m[0], m[4])
	sy := math32.Hypot(m[1], m[5])
	return math32.Max(sx, sy)
}

// NearlyEqual compares elements with an absolute tolerance.
func (m Matrix) NearlyEqual(n Matrix, tolerance float32) bool {
	for i := range m {
		if math32.Abs(m[i]-n[i]) > tolerance {
			return false
		}
	}
	return true
}

// String formats the matrix row by row.
func (m Matrix) String() string {
	return fmt.Sprintf("[%g %g %g %g | %g %g %g %g | %g %g %g %g | %g %g %g %g]",
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7],
		m[8], m[9], m[10], m[11], m[12], m[13], m[14], m[15])
}
