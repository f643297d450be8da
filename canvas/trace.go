package canvas

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gogpu/retain/displaylist"
	"github.com/gogpu/retain/geom"
	"github.com/gogpu/retain/textblob"
)

func init() {
	Register("trace", func(int, int) (Canvas, error) { return NewTrace(nil), nil })
}

// Trace is a Canvas that writes one text line per call, indented by save
// depth. It keeps the save stack and matrix so SaveCount and Matrix answer
// like a real sink. Two replays of the same list produce identical traces.
type Trace struct {
	w      io.Writer
	buf    *bytes.Buffer
	stack  []geom.Matrix
	matrix geom.Matrix
}

var _ Canvas = (*Trace)(nil)

// NewTrace creates a trace writing to w, or to an internal buffer read
// back with String when w is nil.
func NewTrace(w io.Writer) *Trace {
	t := &Trace{w: w, matrix: geom.Identity()}
	if w == nil {
		t.buf = new(bytes.Buffer)
		t.w = t.buf
	}
	return t
}

// String returns the buffered trace. It is empty when writing to a
// caller-supplied writer.
func (t *Trace) String() string {
	if t.buf == nil {
		return ""
	}
	return t.buf.String()
}

// Lines returns the buffered trace split into lines.
func (t *Trace) Lines() []string {
	s := strings.TrimSuffix(t.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func (t *Trace) logf(format string, args ...any) {
	fmt.Fprintf(t.w, "%s%s\n", strings.Repeat("  ", len(t.stack)), fmt.Sprintf(format, args...))
}

func fmtPaint(p *displaylist.Paint) string {
	if p == nil {
		return "paint=nil"
	}
	s := fmt.Sprintf("color=%v blend=%v style=%v", p.Color, p.BlendMode, p.Style)
	if p.Style != displaylist.StyleFill {
		s += fmt.Sprintf(" width=%g", p.StrokeWidth)
	}
	if p.AntiAlias {
		s += " aa"
	}
	if p.ColorFilter != nil {
		s += fmt.Sprintf(" cf=%T", p.ColorFilter)
	}
	if p.ImageFilter != nil {
		s += fmt.Sprintf(" if=%T", p.ImageFilter)
	}
	if p.MaskFilter != nil {
		s += fmt.Sprintf(" mf=%T", p.MaskFilter)
	}
	return s
}

// Save logs a save and pushes the matrix.
func (t *Trace) Save() {
	t.logf("save")
	t.stack = append(t.stack, t.matrix)
}

// SaveLayer logs the layer bounds, paint and backdrop filter.
func (t *Trace) SaveLayer(bounds *geom.Rect, paint *displaylist.Paint, backdrop displaylist.ImageFilter) {
	b := "nil"
	if bounds != nil {
		b = bounds.String()
	}
	line := fmt.Sprintf("saveLayer bounds=%s %s", b, fmtPaint(paint))
	if backdrop != nil {
		line += fmt.Sprintf(" backdrop=%T", backdrop)
	}
	t.logf("%s", line)
	t.stack = append(t.stack, t.matrix)
}

// Restore logs a restore and pops the matrix. Unbalanced restores are
// ignored.
func (t *Trace) Restore() {
	if len(t.stack) == 0 {
		return
	}
	t.matrix = t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	t.logf("restore")
}

// SaveCount returns the number of open saves plus one.
func (t *Trace) SaveCount() int { return len(t.stack) + 1 }

// RestoreToCount restores until SaveCount is count.
func (t *Trace) RestoreToCount(count int) {
	for t.SaveCount() > max(count, 1) {
		t.Restore()
	}
}

func (t *Trace) concat(m geom.Matrix) { t.matrix = t.matrix.Concat(m) }

// Translate logs and applies a translation.
func (t *Trace) Translate(tx, ty float32) {
	t.logf("translate %g %g", tx, ty)
	t.concat(geom.Translate(tx, ty))
}

// Scale logs and applies a scale.
func (t *Trace) Scale(sx, sy float32) {
	t.logf("scale %g %g", sx, sy)
	t.concat(geom.Scale(sx, sy))
}

// Rotate logs and applies a rotation.
func (t *Trace) Rotate(degrees float32) {
	t.logf("rotate %g", degrees)
	t.concat(geom.Rotate(degrees))
}

// Skew logs and applies a skew.
func (t *Trace) Skew(sx, sy float32) {
	t.logf("skew %g %g", sx, sy)
	t.concat(geom.Skew(sx, sy))
}

// Concat logs m in full and concatenates it.
func (t *Trace) Concat(m geom.Matrix) {
	t.logf("concat %v", m)
	t.concat(m)
}

// ResetMatrix logs a reset and returns to the identity.
func (t *Trace) ResetMatrix() {
	t.logf("resetMatrix")
	t.matrix = geom.Identity()
}

// Matrix returns the matrix tracked so far.
func (t *Trace) Matrix() geom.Matrix { return t.matrix }

// ClipRect logs a rect clip.
func (t *Trace) ClipRect(r geom.Rect, op displaylist.ClipOp, aa bool) {
	t.logf("clipRect %v %v aa=%t", r, op, aa)
}

// ClipRRect logs the bounds of a rounded rect clip.
func (t *Trace) ClipRRect(rr geom.RRect, op displaylist.ClipOp, aa bool) {
	t.logf("clipRRect %v %v aa=%t", rr.Rect, op, aa)
}

// ClipPath logs the bounds of a path clip.
func (t *Trace) ClipPath(p *geom.Path, op displaylist.ClipOp, aa bool) {
	t.logf("clipPath %v %v aa=%t", p.Bounds(), op, aa)
}

// DrawPaint logs a paint fill.
func (t *Trace) DrawPaint(paint *displaylist.Paint) { t.logf("drawPaint %s", fmtPaint(paint)) }

// DrawColor logs a color fill.
func (t *Trace) DrawColor(c displaylist.Color, mode displaylist.BlendMode) {
	t.logf("drawColor %v %v", c, mode)
}

// DrawLine logs a line and its paint.
func (t *Trace) DrawLine(p0, p1 geom.Point, paint *displaylist.Paint) {
	t.logf("drawLine (%g,%g)-(%g,%g) %s", p0.X, p0.Y, p1.X, p1.Y, fmtPaint(paint))
}

// DrawRect logs a rect and its paint.
func (t *Trace) DrawRect(r geom.Rect, paint *displaylist.Paint) {
	t.logf("drawRect %v %s", r, fmtPaint(paint))
}

// DrawOval logs an oval and its paint.
func (t *Trace) DrawOval(bounds geom.Rect, paint *displaylist.Paint) {
	t.logf("drawOval %v %s", bounds, fmtPaint(paint))
}

// DrawCircle logs a circle and its paint.
func (t *Trace) DrawCircle(center geom.Point, radius float32, paint *displaylist.Paint) {
	t.logf("drawCircle (%g,%g) r=%g %s", center.X, center.Y, radius, fmtPaint(paint))
}

// DrawRRect logs the bounds of a rounded rect.
func (t *Trace) DrawRRect(rr geom.RRect, paint *displaylist.Paint) {
	t.logf("drawRRect %v %s", rr.Rect, fmtPaint(paint))
}

// DrawDRRect logs the outer and inner bounds.
func (t *Trace) DrawDRRect(outer, inner geom.RRect, paint *displaylist.Paint) {
	t.logf("drawDRRect %v %v %s", outer.Rect, inner.Rect, fmtPaint(paint))
}

// DrawPath logs the path bounds and verb count.
func (t *Trace) DrawPath(p *geom.Path, paint *displaylist.Paint) {
	t.logf("drawPath %v verbs=%d %s", p.Bounds(), len(p.Verbs()), fmtPaint(paint))
}

// DrawArc logs an arc and its paint.
func (t *Trace) DrawArc(oval geom.Rect, startDegrees, sweepDegrees float32, useCenter bool, paint *displaylist.Paint) {
	t.logf("drawArc %v %g %g center=%t %s", oval, startDegrees, sweepDegrees, useCenter, fmtPaint(paint))
}

// DrawPoints logs the point mode and count.
func (t *Trace) DrawPoints(mode displaylist.PointMode, pts []geom.Point, paint *displaylist.Paint) {
	t.logf("drawPoints %v n=%d %s", mode, len(pts), fmtPaint(paint))
}

// DrawImage logs the image size and position.
func (t *Trace) DrawImage(img displaylist.Image, at geom.Point, sampling displaylist.SamplingMode, paint *displaylist.Paint) {
	s := img.Size()
	t.logf("drawImage %dx%d at (%g,%g) sampling=%d %s", s.Width, s.Height, at.X, at.Y, sampling, fmtPaint(paint))
}

// DrawImageRect logs the source and destination rects.
func (t *Trace) DrawImageRect(img displaylist.Image, src, dst geom.Rect, sampling displaylist.SamplingMode,
	paint *displaylist.Paint, constraint displaylist.SrcRectConstraint) {
	t.logf("drawImageRect %v -> %v sampling=%d constraint=%d %s", src, dst, sampling, constraint, fmtPaint(paint))
}

// DrawDisplayList logs the nested list without descending into it.
func (t *Trace) DrawDisplayList(dl *displaylist.DisplayList, opacity float32) {
	t.logf("drawDisplayList id=%d ops=%d opacity=%g", dl.UniqueID(), dl.OpCount(false), opacity)
}

// DrawTextBlob logs the blob text and origin.
func (t *Trace) DrawTextBlob(blob *textblob.Blob, x, y float32, paint *displaylist.Paint) {
	t.logf("drawTextBlob %q at (%g,%g) %s", blob.Text(), x, y, fmtPaint(paint))
}

// DrawShadow logs the occluder bounds and shadow parameters.
func (t *Trace) DrawShadow(p *geom.Path, c displaylist.Color, elevation float32, transparentOccluder bool, dpr float32) {
	t.logf("drawShadow %v %v elevation=%g transparent=%t dpr=%g", p.Bounds(), c, elevation, transparentOccluder, dpr)
}
