package canvas

import (
	"image"

	"github.com/gogpu/retain/displaylist"
	"github.com/gogpu/retain/geom"
	"github.com/gogpu/retain/textblob"
)

// Canvas is an immediate-mode drawing surface.
//
// Paint arguments may be nil for draws that do not use attributes, in
// which case the draw is opaque with SrcOver. A Canvas manages its own
// save stack; Restore on an empty stack is ignored.
type Canvas interface {
	// State

	Save()
	// SaveLayer begins an offscreen group composited with paint on the
	// matching Restore. bounds, paint and backdrop may each be nil.
	SaveLayer(bounds *geom.Rect, paint *displaylist.Paint, backdrop displaylist.ImageFilter)
	Restore()
	// SaveCount returns the depth of the save stack, 1 when nothing is
	// saved.
	SaveCount() int
	RestoreToCount(count int)

	// Transforms

	Translate(tx, ty float32)
	Scale(sx, sy float32)
	Rotate(degrees float32)
	Skew(sx, sy float32)
	Concat(m geom.Matrix)
	ResetMatrix()
	Matrix() geom.Matrix

	// Clips

	ClipRect(r geom.Rect, op displaylist.ClipOp, aa bool)
	ClipRRect(rr geom.RRect, op displaylist.ClipOp, aa bool)
	ClipPath(p *geom.Path, op displaylist.ClipOp, aa bool)

	// Draws

	DrawPaint(paint *displaylist.Paint)
	DrawColor(c displaylist.Color, mode displaylist.BlendMode)
	DrawLine(p0, p1 geom.Point, paint *displaylist.Paint)
	DrawRect(r geom.Rect, paint *displaylist.Paint)
	DrawOval(bounds geom.Rect, paint *displaylist.Paint)
	DrawCircle(center geom.Point, radius float32, paint *displaylist.Paint)
	DrawRRect(rr geom.RRect, paint *displaylist.Paint)
	DrawDRRect(outer, inner geom.RRect, paint *displaylist.Paint)
	DrawPath(p *geom.Path, paint *displaylist.Paint)
	DrawArc(oval geom.Rect, startDegrees, sweepDegrees float32, useCenter bool, paint *displaylist.Paint)
	DrawPoints(mode displaylist.PointMode, pts []geom.Point, paint *displaylist.Paint)
	DrawImage(img displaylist.Image, at geom.Point, sampling displaylist.SamplingMode, paint *displaylist.Paint)
	DrawImageRect(img displaylist.Image, src, dst geom.Rect, sampling displaylist.SamplingMode,
		paint *displaylist.Paint, constraint displaylist.SrcRectConstraint)
	DrawDisplayList(dl *displaylist.DisplayList, opacity float32)
	DrawTextBlob(blob *textblob.Blob, x, y float32, paint *displaylist.Paint)
	DrawShadow(p *geom.Path, c displaylist.Color, elevation float32, transparentOccluder bool, dpr float32)
}

// ImageCanvas is a Canvas whose output is a raster image.
type ImageCanvas interface {
	Canvas
	Image() *image.RGBA
}
