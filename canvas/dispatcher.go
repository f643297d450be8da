package canvas

import (
	"github.com/gogpu/retain/displaylist"
	"github.com/gogpu/retain/geom"
	"github.com/gogpu/retain/textblob"
)

// Dispatcher replays display list ops onto a Canvas.
//
// Attribute ops accumulate into a Paint that is handed to each draw. The
// dispatcher also carries a group opacity per save scope: draws are
// rendered with their alpha multiplied by it, so a list that can apply
// group opacity never needs an offscreen layer.
type Dispatcher struct {
	canvas    Canvas
	paint     displaylist.Paint
	opacities []float32
}

var _ displaylist.Receiver = (*Dispatcher)(nil)

// NewDispatcher creates a dispatcher drawing onto c with the given
// inherited opacity.
func NewDispatcher(c Canvas, opacity float32) *Dispatcher {
	return &Dispatcher{
		canvas:    c,
		paint:     displaylist.NewPaint(),
		opacities: []float32{clampOpacity(opacity)},
	}
}

func clampOpacity(o float32) float32 {
	return max(0, min(1, o))
}

// Opacity returns the group opacity of the current save scope.
func (d *Dispatcher) Opacity() float32 { return d.opacities[len(d.opacities)-1] }

func (d *Dispatcher) pushOpacity(o float32) { d.opacities = append(d.opacities, o) }

func (d *Dispatcher) popOpacity() {
	if len(d.opacities) > 1 {
		d.opacities = d.opacities[:len(d.opacities)-1]
	}
}

// safePaint returns the paint for a draw. With attributes it is the
// accumulated paint with its alpha scaled by the group opacity. Without
// attributes it is nil, or a paint carrying only the group opacity when
// one is in effect.
func (d *Dispatcher) safePaint(useAttributes bool) *displaylist.Paint {
	opacity := d.Opacity()
	if useAttributes {
		p := d.paint
		p.Color = p.Color.ModulateOpacity(opacity)
		return &p
	}
	if opacity < 1 {
		p := displaylist.PaintWithColor(displaylist.Black.WithOpacity(opacity))
		return &p
	}
	return nil
}

// Attributes

// SetAntiAlias updates the anti-alias flag of the current paint.
func (d *Dispatcher) SetAntiAlias(aa bool) { d.paint.AntiAlias = aa }

// SetDither updates the dither flag of the current paint.
func (d *Dispatcher) SetDither(dither bool) { d.paint.Dither = dither }

// SetInvertColors sets whether the current paint inverts colors.
func (d *Dispatcher) SetInvertColors(invert bool) { d.paint.InvertColors = invert }

// SetStrokeCap sets the cap used by stroked draws.
func (d *Dispatcher) SetStrokeCap(c displaylist.StrokeCap) { d.paint.StrokeCap = c }

// SetStrokeJoin sets the join used by stroked draws.
func (d *Dispatcher) SetStrokeJoin(j displaylist.StrokeJoin) { d.paint.StrokeJoin = j }

// SetStyle switches the current paint between fill and stroke.
func (d *Dispatcher) SetStyle(s displaylist.Style) { d.paint.Style = s }

// SetStrokeWidth sets the stroke width of the current paint.
func (d *Dispatcher) SetStrokeWidth(width float32) { d.paint.StrokeWidth = width }

// SetStrokeMiter sets the miter limit of the current paint.
func (d *Dispatcher) SetStrokeMiter(limit float32) { d.paint.StrokeMiter = limit }

// SetColor sets the color of the current paint.
func (d *Dispatcher) SetColor(c displaylist.Color) { d.paint.Color = c }

// SetBlendMode sets the blend mode of the current paint.
func (d *Dispatcher) SetBlendMode(mode displaylist.BlendMode) { d.paint.BlendMode = mode }

// SetColorFilter replaces the color filter of the current paint.
func (d *Dispatcher) SetColorFilter(f displaylist.ColorFilter) { d.paint.ColorFilter = f }

// SetImageFilter replaces the image filter of the current paint.
func (d *Dispatcher) SetImageFilter(f displaylist.ImageFilter) { d.paint.ImageFilter = f }

// SetMaskFilter replaces the mask filter of the current paint.
func (d *Dispatcher) SetMaskFilter(f displaylist.MaskFilter) { d.paint.MaskFilter = f }

// State

// Save saves the canvas and carries the current opacity into the new scope.
func (d *Dispatcher) Save() {
	d.canvas.Save()
	d.pushOpacity(d.Opacity())
}

// SaveLayer turns a layer into a plain Save when the builder proved that
// its children can take the layer's alpha themselves and nothing else
// needs the offscreen. Otherwise the layer paint carries the group
// opacity and children render opaque.
func (d *Dispatcher) SaveLayer(bounds *geom.Rect, options displaylist.SaveLayerOptions, backdrop displaylist.ImageFilter) {
	if bounds == nil && backdrop == nil && options.CanDistributeOpacity() {
		d.canvas.Save()
		opacity := d.Opacity()
		if options.RendersWithAttributes() {
			opacity *= d.paint.Opacity()
		}
		d.pushOpacity(opacity)
		return
	}
	d.canvas.SaveLayer(bounds, d.safePaint(options.RendersWithAttributes()), backdrop)
	d.pushOpacity(1)
}

// Restore restores the canvas and the opacity of the enclosing scope.
func (d *Dispatcher) Restore() {
	d.canvas.Restore()
	d.popOpacity()
}

// Transforms

// Translate forwards a translation to the canvas.
func (d *Dispatcher) Translate(tx, ty float32) { d.canvas.Translate(tx, ty) }

// Scale forwards a scale to the canvas.
func (d *Dispatcher) Scale(sx, sy float32) { d.canvas.Scale(sx, sy) }

// Rotate forwards a rotation to the canvas.
func (d *Dispatcher) Rotate(degrees float32) { d.canvas.Rotate(degrees) }

// Skew forwards a skew to the canvas.
func (d *Dispatcher) Skew(sx, sy float32) { d.canvas.Skew(sx, sy) }

// Transform2DAffine concatenates the affine matrix onto the canvas.
func (d *Dispatcher) Transform2DAffine(mxx, mxy, mxt, myx, myy, myt float32) {
	d.canvas.Concat(geom.Affine2D(mxx, mxy, mxt, myx, myy, myt))
}

// TransformFullPerspective concatenates m onto the canvas.
func (d *Dispatcher) TransformFullPerspective(m geom.Matrix) { d.canvas.Concat(m) }

// TransformReset resets the canvas matrix to the identity.
func (d *Dispatcher) TransformReset() { d.canvas.ResetMatrix() }

// Clips

// ClipRect forwards a rect clip to the canvas.
func (d *Dispatcher) ClipRect(r geom.Rect, op displaylist.ClipOp, aa bool) {
	d.canvas.ClipRect(r, op, aa)
}

// ClipRRect forwards a rounded rect clip to the canvas.
func (d *Dispatcher) ClipRRect(rr geom.RRect, op displaylist.ClipOp, aa bool) {
	d.canvas.ClipRRect(rr, op, aa)
}

// ClipPath forwards a path clip to the canvas.
func (d *Dispatcher) ClipPath(p *geom.Path, op displaylist.ClipOp, aa bool) {
	d.canvas.ClipPath(p, op, aa)
}

// Draws

// DrawPaint fills the clip with the current paint.
func (d *Dispatcher) DrawPaint() { d.canvas.DrawPaint(d.safePaint(true)) }

// DrawColor fills the clip with c, modulated by the current opacity.
func (d *Dispatcher) DrawColor(c displaylist.Color, mode displaylist.BlendMode) {
	d.canvas.DrawColor(c.ModulateOpacity(d.Opacity()), mode)
}

// DrawLine draws a line with the current paint.
func (d *Dispatcher) DrawLine(p0, p1 geom.Point) { d.canvas.DrawLine(p0, p1, d.safePaint(true)) }

// DrawRect draws r with the current paint.
func (d *Dispatcher) DrawRect(r geom.Rect) { d.canvas.DrawRect(r, d.safePaint(true)) }

// DrawOval draws the oval inscribed in bounds.
func (d *Dispatcher) DrawOval(bounds geom.Rect) { d.canvas.DrawOval(bounds, d.safePaint(true)) }

// DrawCircle draws a circle with the current paint.
func (d *Dispatcher) DrawCircle(center geom.Point, radius float32) {
	d.canvas.DrawCircle(center, radius, d.safePaint(true))
}

// DrawRRect draws a rounded rect with the current paint.
func (d *Dispatcher) DrawRRect(rr geom.RRect) { d.canvas.DrawRRect(rr, d.safePaint(true)) }

// DrawDRRect draws the area between outer and inner.
func (d *Dispatcher) DrawDRRect(outer, inner geom.RRect) {
	d.canvas.DrawDRRect(outer, inner, d.safePaint(true))
}

// DrawPath draws p with the current paint.
func (d *Dispatcher) DrawPath(p *geom.Path) { d.canvas.DrawPath(p, d.safePaint(true)) }

// DrawArc draws an arc of oval with the current paint.
func (d *Dispatcher) DrawArc(oval geom.Rect, startDegrees, sweepDegrees float32, useCenter bool) {
	d.canvas.DrawArc(oval, startDegrees, sweepDegrees, useCenter, d.safePaint(true))
}

// DrawPoints draws pts as points, lines or a polygon depending on mode.
func (d *Dispatcher) DrawPoints(mode displaylist.PointMode, pts []geom.Point) {
	d.canvas.DrawPoints(mode, pts, d.safePaint(true))
}

// DrawImage draws img at a point. The current paint applies only when
// renderWithAttributes is set.
func (d *Dispatcher) DrawImage(img displaylist.Image, at geom.Point, sampling displaylist.SamplingMode, renderWithAttributes bool) {
	d.canvas.DrawImage(img, at, sampling, d.safePaint(renderWithAttributes))
}

// DrawImageRect draws the src part of img into dst.
func (d *Dispatcher) DrawImageRect(img displaylist.Image, src, dst geom.Rect, sampling displaylist.SamplingMode,
	renderWithAttributes bool, constraint displaylist.SrcRectConstraint) {
	d.canvas.DrawImageRect(img, src, dst, sampling, d.safePaint(renderWithAttributes), constraint)
}

// DrawDisplayList inlines the nested list inside its own save scope with
// the composed opacity.
func (d *Dispatcher) DrawDisplayList(dl *displaylist.DisplayList, opacity float32) {
	count := d.canvas.SaveCount()
	d.canvas.Save()
	Render(dl, d.canvas, opacity*d.Opacity())
	d.canvas.RestoreToCount(count)
}

// DrawTextBlob draws blob with its origin at (x, y).
func (d *Dispatcher) DrawTextBlob(blob *textblob.Blob, x, y float32) {
	d.canvas.DrawTextBlob(blob, x, y, d.safePaint(true))
}

// DrawShadow forwards a shadow to the canvas. Shadows ignore the current
// paint and opacity.
func (d *Dispatcher) DrawShadow(p *geom.Path, c displaylist.Color, elevation float32, transparentOccluder bool, dpr float32) {
	d.canvas.DrawShadow(p, c, elevation, transparentOccluder, dpr)
}

// Render draws dl onto c at opacity. A list that cannot apply group
// opacity is composited through a layer; any other list receives the
// opacity op by op.
func Render(dl *displaylist.DisplayList, c Canvas, opacity float32) {
	RenderCulled(dl, c, opacity, geom.GiantRect)
}

// RenderCulled is Render restricted to the draws whose device bounds
// intersect cull.
func RenderCulled(dl *displaylist.DisplayList, c Canvas, opacity float32, cull geom.Rect) {
	if dl == nil || opacity <= 0 {
		return
	}
	layered := opacity < 1 && !dl.CanApplyGroupOpacity()
	if layered {
		bounds := dl.Bounds()
		p := displaylist.PaintWithColor(displaylist.Black.WithOpacity(opacity))
		c.SaveLayer(&bounds, &p, nil)
		opacity = 1
	}
	d := NewDispatcher(c, opacity)
	dl.DispatchCulled(d, cull)
	if layered {
		c.Restore()
	}
}
