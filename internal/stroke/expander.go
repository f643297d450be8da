package stroke

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/retain/displaylist"
	"github.com/gogpu/retain/geom"
)

// DefaultTolerance is the flattening tolerance used when none is given.
const DefaultTolerance = 0.25

// Style is the subset of a paint that shapes a stroke.
type Style struct {
	Width      float32
	Cap        displaylist.StrokeCap
	Join       displaylist.StrokeJoin
	MiterLimit float32
}

// StyleOf extracts the stroke style of p.
func StyleOf(p displaylist.Paint) Style {
	return Style{Width: p.StrokeWidth, Cap: p.StrokeCap, Join: p.StrokeJoin, MiterLimit: p.StrokeMiter}
}

// Expand returns the fill outline of p stroked with s. Curves and round
// joins are flattened so the chord error stays below tolerance.
func Expand(p *geom.Path, s Style, tolerance float32) *geom.Path {
	out := geom.NewPath()
	if p.IsEmpty() || !(s.Width > 0) {
		return out
	}
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	e := &expander{style: s, hw: s.Width / 2, tolerance: tolerance, out: out}
	e.joinThresh = 2 * tolerance / s.Width

	var contour []geom.Point
	drawn := false
	flush := func(closed bool) {
		e.contour(contour, closed, drawn)
		contour, drawn = nil, false
	}
	p.Walk(func(v geom.Verb, from geom.Point, pts []geom.Point) {
		if v != geom.VerbMove && v != geom.VerbClose {
			if len(contour) == 0 {
				contour = append(contour, from)
			}
			drawn = true
		}
		switch v {
		case geom.VerbMove:
			flush(false)
			contour = append(contour, pts[0])
		case geom.VerbLine:
			contour = append(contour, pts[0])
		case geom.VerbQuad:
			contour = flattenQuad(contour, from, pts[0], pts[1], tolerance)
		case geom.VerbCubic:
			contour = flattenCubic(contour, from, pts[0], pts[1], pts[2], tolerance)
		case geom.VerbClose:
			flush(true)
		}
	})
	flush(false)
	return out
}

// Polyline strokes a single polyline.
func Polyline(pts []geom.Point, closed bool, s Style, tolerance float32) *geom.Path {
	p := geom.NewPath()
	for i, pt := range pts {
		if i == 0 {
			p.MoveTo(pt.X, pt.Y)
		} else {
			p.LineTo(pt.X, pt.Y)
		}
	}
	if closed {
		p.Close()
	}
	return Expand(p, s, tolerance)
}

type expander struct {
	style      Style
	hw         float32
	tolerance  float32
	joinThresh float32
	out        *geom.Path

	forward, backward []geom.Point

	startPt, lastPt   geom.Point
	startTan, lastTan geom.Point
	startNorm         geom.Point
	lastNorm          geom.Point
}

func perp(v geom.Point) geom.Point  { return geom.Pt(-v.Y, v.X) }
func cross(a, b geom.Point) float32 { return a.X*b.Y - a.Y*b.X }
func dot(a, b geom.Point) float32   { return a.X*b.X + a.Y*b.Y }
func neg(v geom.Point) geom.Point   { return geom.Pt(-v.X, -v.Y) }
func angleOf(v geom.Point) float32  { return math32.Atan2(v.Y, v.X) }
func unit(v geom.Point) geom.Point  { return v.Mul(1 / v.Length()) }

func (e *expander) norm(tan geom.Point) geom.Point {
	return perp(tan).Mul(e.hw / tan.Length())
}

// contour strokes one flattened contour. A contour that only moved draws
// nothing; one that drew zero-length segments draws its caps.
func (e *expander) contour(pts []geom.Point, closed, drawn bool) {
	pts = dedupe(pts)
	if len(pts) == 0 || !drawn {
		return
	}
	if len(pts) == 1 {
		e.dot(pts[0])
		return
	}
	if closed && pts[len(pts)-1] == pts[0] {
		pts = pts[:len(pts)-1]
		if len(pts) == 1 {
			e.dot(pts[0])
			return
		}
	}

	e.forward, e.backward = e.forward[:0], e.backward[:0]
	e.startPt, e.lastPt = pts[0], pts[0]
	for _, p := range pts[1:] {
		e.segment(p)
	}
	if closed {
		e.segment(e.startPt)
		e.join(e.startTan)
		e.finishClosed()
		return
	}
	e.finishOpen()
}

func (e *expander) segment(p1 geom.Point) {
	tan := p1.Sub(e.lastPt)
	e.join(tan)
	norm := e.norm(tan)
	e.forward = append(e.forward, p1.Sub(norm))
	e.backward = append(e.backward, p1.Add(norm))
	e.lastPt, e.lastTan, e.lastNorm = p1, tan, norm
}

// join connects the previous segment to one leaving lastPt along tan.
func (e *expander) join(tan geom.Point) {
	p0 := e.lastPt
	norm := e.norm(tan)
	if len(e.forward) == 0 {
		e.forward = append(e.forward, p0.Sub(norm))
		e.backward = append(e.backward, p0.Add(norm))
		e.startTan, e.startNorm = tan, norm
		return
	}

	ab, cd := e.lastTan, tan
	c, d := cross(ab, cd), dot(ab, cd)
	hypot := math32.Hypot(c, d)
	if d > 0 && math32.Abs(c) < hypot*e.joinThresh {
		e.forward = append(e.forward, p0.Sub(norm))
		e.backward = append(e.backward, p0.Add(norm))
		return
	}

	switch e.style.Join {
	case displaylist.JoinMiter:
		limit := e.style.MiterLimit * e.style.MiterLimit
		if 2*hypot < (hypot+d)*limit {
			e.miter(p0, norm, ab, cd, c)
		}
	case displaylist.JoinRound:
		angle := math32.Atan2(c, d)
		if angle > 0 {
			e.forward = e.arc(e.forward, p0, neg(e.lastNorm), angle)
		} else {
			e.backward = e.arc(e.backward, p0, e.lastNorm, angle)
		}
	}
	e.forward = append(e.forward, p0.Sub(norm))
	e.backward = append(e.backward, p0.Add(norm))
}

// miter adds the tip of a miter join on the outer side of the turn.
func (e *expander) miter(p0, norm, ab, cd geom.Point, c float32) {
	if c > 0 {
		last, this := p0.Sub(e.lastNorm), p0.Sub(norm)
		h := cross(ab, this.Sub(last)) / c
		e.forward = append(e.forward, this.Sub(cd.Mul(h)))
	} else if c < 0 {
		last, this := p0.Add(e.lastNorm), p0.Add(norm)
		h := cross(ab, this.Sub(last)) / c
		e.backward = append(e.backward, this.Sub(cd.Mul(h)))
	}
}

// arc appends points on the circle around center from center+from,
// sweeping by angle radians. The start point itself is not appended.
func (e *expander) arc(dst []geom.Point, center, from geom.Point, angle float32) []geom.Point {
	r := from.Length()
	n := arcSegments(r, math32.Abs(angle), e.tolerance)
	a0 := angleOf(from)
	for i := 1; i <= n; i++ {
		a := a0 + angle*float32(i)/float32(n)
		s, c := math32.Sincos(a)
		dst = append(dst, geom.Pt(center.X+r*c, center.Y+r*s))
	}
	return dst
}

func arcSegments(r, angle, tolerance float32) int {
	if r <= tolerance {
		return max(1, int(math32.Ceil(angle/(math32.Pi/2))))
	}
	step := 2 * math32.Acos(1-tolerance/r)
	return max(1, min(int(math32.Ceil(angle/step)), 512))
}

func (e *expander) finishOpen() {
	e.emit(e.forward, false)
	e.cap(e.lastPt, neg(e.lastNorm), unit(e.lastTan))
	for i := len(e.backward) - 1; i >= 0; i-- {
		e.out.LineTo(e.backward[i].X, e.backward[i].Y)
	}
	e.cap(e.startPt, e.startNorm, neg(unit(e.startTan)))
	e.out.Close()
}

func (e *expander) finishClosed() {
	e.emit(e.forward, true)
	rev := make([]geom.Point, len(e.backward))
	for i, p := range e.backward {
		rev[len(rev)-1-i] = p
	}
	e.emit(rev, true)
}

func (e *expander) emit(pts []geom.Point, closed bool) {
	for i, p := range pts {
		if i == 0 {
			e.out.MoveTo(p.X, p.Y)
		} else {
			e.out.LineTo(p.X, p.Y)
		}
	}
	if closed {
		e.out.Close()
	}
}

// cap connects center+side to center-side around the end of a contour
// whose outward direction is dir.
func (e *expander) cap(center, side, dir geom.Point) {
	switch e.style.Cap {
	case displaylist.CapRound:
		for _, p := range e.arc(nil, center, side, math32.Pi) {
			e.out.LineTo(p.X, p.Y)
		}
	case displaylist.CapSquare:
		ext := dir.Mul(e.hw)
		a, b := center.Add(side).Add(ext), center.Sub(side).Add(ext)
		e.out.LineTo(a.X, a.Y)
		e.out.LineTo(b.X, b.Y)
		end := center.Sub(side)
		e.out.LineTo(end.X, end.Y)
	default:
		end := center.Sub(side)
		e.out.LineTo(end.X, end.Y)
	}
}

// dot draws the caps of a zero-length contour.
func (e *expander) dot(p geom.Point) {
	switch e.style.Cap {
	case displaylist.CapRound:
		e.out.AddCircle(p.X, p.Y, e.hw)
	case displaylist.CapSquare:
		e.out.AddRect(geom.LTRB(p.X-e.hw, p.Y-e.hw, p.X+e.hw, p.Y+e.hw))
	}
}

func dedupe(pts []geom.Point) []geom.Point {
	if len(pts) < 2 {
		return pts
	}
	out := pts[:1]
	for _, p := range pts[1:] {
		if p.Sub(out[len(out)-1]).Length() > 1e-6 {
			out = append(out, p)
		}
	}
	return out
}

func flattenQuad(dst []geom.Point, p0, p1, p2 geom.Point, tolerance float32) []geom.Point {
	if distanceToLine(p1, p0, p2) < tolerance {
		return append(dst, p2)
	}
	q0, q1 := p0.Lerp(p1, 0.5), p1.Lerp(p2, 0.5)
	mid := q0.Lerp(q1, 0.5)
	dst = flattenQuad(dst, p0, q0, mid, tolerance)
	return flattenQuad(dst, mid, q1, p2, tolerance)
}

func flattenCubic(dst []geom.Point, p0, p1, p2, p3 geom.Point, tolerance float32) []geom.Point {
	if max(distanceToLine(p1, p0, p3), distanceToLine(p2, p0, p3)) < tolerance {
		return append(dst, p3)
	}
	q0, q1, q2 := p0.Lerp(p1, 0.5), p1.Lerp(p2, 0.5), p2.Lerp(p3, 0.5)
	r0, r1 := q0.Lerp(q1, 0.5), q1.Lerp(q2, 0.5)
	mid := r0.Lerp(r1, 0.5)
	dst = flattenCubic(dst, p0, q0, r0, mid, tolerance)
	return flattenCubic(dst, mid, r1, q2, p3, tolerance)
}

// distanceToLine is the distance from p to segment ab.
func distanceToLine(p, a, b geom.Point) float32 {
	ab := b.Sub(a)
	l2 := dot(ab, ab)
	if l2 < 1e-12 {
		return p.Distance(a)
	}
	t := max(0, min(1, dot(p.Sub(a), ab)/l2))
	return p.Distance(a.Add(ab.Mul(t)))
}
