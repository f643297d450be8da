package canvas

import (
	"github.com/gogpu/retain/displaylist"
	"github.com/gogpu/retain/geom"
	"github.com/gogpu/retain/textblob"
)

// Recorder is a Canvas that records into a displaylist.Builder. Each draw
// records only the paint attributes its op kind uses.
//
//	rec := canvas.NewRecorder(geom.WH(800, 600))
//	p := displaylist.PaintWithColor(displaylist.Red)
//	rec.DrawRect(geom.WH(100, 50), &p)
//	dl := rec.Build()
type Recorder struct {
	b *displaylist.Builder
}

var _ Canvas = (*Recorder)(nil)

// NewRecorder creates a recorder whose initial clip is cull.
func NewRecorder(cull geom.Rect) *Recorder {
	return &Recorder{b: displaylist.NewBuilder(displaylist.WithCullRect(cull))}
}

// RecorderFor wraps an existing builder.
func RecorderFor(b *displaylist.Builder) *Recorder {
	return &Recorder{b: b}
}

// Builder returns the underlying builder.
func (r *Recorder) Builder() *displaylist.Builder { return r.b }

// Build finishes recording. The recorder cannot be used afterwards.
func (r *Recorder) Build() *displaylist.DisplayList { return r.b.Build() }

// attrs records the attributes of p relevant to flags. A nil paint means
// the default paint.
func (r *Recorder) attrs(p *displaylist.Paint, flags displaylist.AttrFlags) {
	if p == nil {
		r.b.SetAttributesFromPaint(displaylist.NewPaint(), flags)
		return
	}
	r.b.SetAttributesFromPaint(*p, flags)
}

// Save records a save.
func (r *Recorder) Save() { r.b.Save() }

// SaveLayer records a save layer. A nil paint records a layer without
// attributes.
func (r *Recorder) SaveLayer(bounds *geom.Rect, paint *displaylist.Paint, backdrop displaylist.ImageFilter) {
	if paint == nil {
		r.b.SaveLayer(bounds, displaylist.NoSaveLayerOptions, backdrop)
		return
	}
	r.b.SaveLayerWithPaint(bounds, *paint, backdrop)
}

// Restore records a restore. It does nothing at the outermost level.
func (r *Recorder) Restore() {
	if r.b.SaveCount() > 1 {
		r.b.Restore()
	}
}

// SaveCount returns the number of open saves plus one.
func (r *Recorder) SaveCount() int { return r.b.SaveCount() }

// RestoreToCount records restores until SaveCount is count.
func (r *Recorder) RestoreToCount(count int) { r.b.RestoreToCount(count) }

// Translate records a translation.
func (r *Recorder) Translate(tx, ty float32) { r.b.Translate(tx, ty) }

// Scale records a scale.
func (r *Recorder) Scale(sx, sy float32) { r.b.Scale(sx, sy) }

// Rotate records a rotation in degrees.
func (r *Recorder) Rotate(degrees float32) { r.b.Rotate(degrees) }

// Skew records a skew.
func (r *Recorder) Skew(sx, sy float32) { r.b.Skew(sx, sy) }

// Concat records m using the narrowest transform op.
func (r *Recorder) Concat(m geom.Matrix) { r.b.Concat(m) }

// ResetMatrix records a transform reset.
func (r *Recorder) ResetMatrix() { r.b.TransformReset() }

// Matrix returns the transform the builder is currently at.
func (r *Recorder) Matrix() geom.Matrix { return r.b.Transform() }

// ClipRect records a rect clip.
func (r *Recorder) ClipRect(rect geom.Rect, op displaylist.ClipOp, aa bool) {
	r.b.ClipRect(rect, op, aa)
}

// ClipRRect records a rounded rect clip.
func (r *Recorder) ClipRRect(rr geom.RRect, op displaylist.ClipOp, aa bool) {
	r.b.ClipRRect(rr, op, aa)
}

// ClipPath records a path clip.
func (r *Recorder) ClipPath(p *geom.Path, op displaylist.ClipOp, aa bool) {
	r.b.ClipPath(p, op, aa)
}

// DrawPaint records a fill of the clip with paint.
func (r *Recorder) DrawPaint(paint *displaylist.Paint) {
	r.attrs(paint, displaylist.DrawPaintFlags)
	r.b.DrawPaint()
}

// DrawColor records a color fill. It does not change the recorded attributes.
func (r *Recorder) DrawColor(c displaylist.Color, mode displaylist.BlendMode) {
	r.b.DrawColor(c, mode)
}

// DrawLine records a line. Horizontal and vertical lines record fewer
// attributes.
func (r *Recorder) DrawLine(p0, p1 geom.Point, paint *displaylist.Paint) {
	flags := displaylist.DrawLineFlags
	if p0.X == p1.X || p0.Y == p1.Y {
		flags = displaylist.DrawHVLineFlags
	}
	r.attrs(paint, flags)
	r.b.DrawLine(p0, p1)
}

// DrawRect records a rect.
func (r *Recorder) DrawRect(rect geom.Rect, paint *displaylist.Paint) {
	r.attrs(paint, displaylist.DrawRectFlags)
	r.b.DrawRect(rect)
}

// DrawOval records an oval.
func (r *Recorder) DrawOval(bounds geom.Rect, paint *displaylist.Paint) {
	r.attrs(paint, displaylist.DrawOvalFlags)
	r.b.DrawOval(bounds)
}

// DrawCircle records a circle.
func (r *Recorder) DrawCircle(center geom.Point, radius float32, paint *displaylist.Paint) {
	r.attrs(paint, displaylist.DrawCircleFlags)
	r.b.DrawCircle(center, radius)
}

// DrawRRect records a rounded rect.
func (r *Recorder) DrawRRect(rr geom.RRect, paint *displaylist.Paint) {
	r.attrs(paint, displaylist.DrawRRectFlags)
	r.b.DrawRRect(rr)
}

// DrawDRRect records the area between two rounded rects.
func (r *Recorder) DrawDRRect(outer, inner geom.RRect, paint *displaylist.Paint) {
	r.attrs(paint, displaylist.DrawDRRectFlags)
	r.b.DrawDRRect(outer, inner)
}

// DrawPath records a path.
func (r *Recorder) DrawPath(p *geom.Path, paint *displaylist.Paint) {
	r.attrs(paint, displaylist.DrawPathFlags)
	r.b.DrawPath(p)
}

// DrawArc records an arc. Arcs with a center record the fill attributes.
func (r *Recorder) DrawArc(oval geom.Rect, startDegrees, sweepDegrees float32, useCenter bool, paint *displaylist.Paint) {
	flags := displaylist.DrawArcNoCenterFlags
	if useCenter {
		flags = displaylist.DrawArcWithCenterFlags
	}
	r.attrs(paint, flags)
	r.b.DrawArc(oval, startDegrees, sweepDegrees, useCenter)
}

// DrawPoints records points in the given mode.
func (r *Recorder) DrawPoints(mode displaylist.PointMode, pts []geom.Point, paint *displaylist.Paint) {
	r.attrs(paint, displaylist.DrawPointsFlags(mode))
	r.b.DrawPoints(mode, pts)
}

// DrawImage records an image. With a nil paint the image draws without
// attributes.
func (r *Recorder) DrawImage(img displaylist.Image, at geom.Point, sampling displaylist.SamplingMode, paint *displaylist.Paint) {
	if paint != nil {
		r.attrs(paint, displaylist.DrawImageWithPaintFlags)
	}
	r.b.DrawImage(img, at, sampling, paint != nil)
}

// DrawImageRect records part of an image scaled into dst.
func (r *Recorder) DrawImageRect(img displaylist.Image, src, dst geom.Rect, sampling displaylist.SamplingMode,
	paint *displaylist.Paint, constraint displaylist.SrcRectConstraint) {
	if paint != nil {
		r.attrs(paint, displaylist.DrawImageRectWithPaintFlags)
	}
	r.b.DrawImageRect(img, src, dst, sampling, paint != nil, constraint)
}

// DrawDisplayList records a nested display list at opacity.
func (r *Recorder) DrawDisplayList(dl *displaylist.DisplayList, opacity float32) {
	r.b.DrawDisplayList(dl, opacity)
}

// DrawTextBlob records a text blob.
func (r *Recorder) DrawTextBlob(blob *textblob.Blob, x, y float32, paint *displaylist.Paint) {
	r.attrs(paint, displaylist.DrawTextBlobFlags)
	r.b.DrawTextBlob(blob, x, y)
}

// DrawShadow records a shadow. Shadows take no paint.
func (r *Recorder) DrawShadow(p *geom.Path, c displaylist.Color, elevation float32, transparentOccluder bool, dpr float32) {
	r.b.DrawShadow(p, c, elevation, transparentOccluder, dpr)
}
