package displaylist

import (
	"github.com/gogpu/retain/geom"
	"github.com/gogpu/retain/textblob"
)

// Receiver consumes the op stream of a DisplayList. Dispatch calls one
// method per recorded op, in order. Attribute setters always precede the
// draws that use them.
type Receiver interface {
	SetAntiAlias(aa bool)
	SetDither(dither bool)
	SetInvertColors(invert bool)
	SetStrokeCap(c StrokeCap)
	SetStrokeJoin(j StrokeJoin)
	SetStyle(s Style)
	SetStrokeWidth(width float32)
	SetStrokeMiter(limit float32)
	SetColor(c Color)
	SetBlendMode(mode BlendMode)
	SetColorFilter(f ColorFilter)
	SetImageFilter(f ImageFilter)
	SetMaskFilter(f MaskFilter)

	Save()
	// SaveLayer starts an offscreen group. bounds may be nil. backdrop,
	// when non-nil, filters the existing content into the new layer.
	SaveLayer(bounds *geom.Rect, options SaveLayerOptions, backdrop ImageFilter)
	Restore()

	Translate(tx, ty float32)
	Scale(sx, sy float32)
	Rotate(degrees float32)
	Skew(sx, sy float32)
	Transform2DAffine(mxx, mxy, mxt, myx, myy, myt float32)
	TransformFullPerspective(m geom.Matrix)
	TransformReset()

	ClipRect(r geom.Rect, op ClipOp, aa bool)
	ClipRRect(rr geom.RRect, op ClipOp, aa bool)
	ClipPath(p *geom.Path, op ClipOp, aa bool)

	DrawPaint()
	DrawColor(c Color, mode BlendMode)
	DrawLine(p0, p1 geom.Point)
	DrawRect(r geom.Rect)
	DrawOval(bounds geom.Rect)
	DrawCircle(center geom.Point, radius float32)
	DrawRRect(rr geom.RRect)
	DrawDRRect(outer, inner geom.RRect)
	DrawPath(p *geom.Path)
	DrawArc(oval geom.Rect, startDegrees, sweepDegrees float32, useCenter bool)
	DrawPoints(mode PointMode, pts []geom.Point)
	DrawImage(img Image, at geom.Point, sampling SamplingMode, renderWithAttributes bool)
	DrawImageRect(img Image, src, dst geom.Rect, sampling SamplingMode, renderWithAttributes bool, constraint SrcRectConstraint)
	DrawDisplayList(dl *DisplayList, opacity float32)
	DrawTextBlob(blob *textblob.Blob, x, y float32)
	DrawShadow(p *geom.Path, c Color, elevation float32, transparentOccluder bool, dpr float32)
}
