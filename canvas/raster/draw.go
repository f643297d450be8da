package raster

import (
	"image"

	"github.com/chewxy/math32"
	"golang.org/x/image/draw"

	"github.com/gogpu/retain"
	"github.com/gogpu/retain/canvas"
	"github.com/gogpu/retain/displaylist"
	"github.com/gogpu/retain/geom"
	"github.com/gogpu/retain/internal/stroke"
	"github.com/gogpu/retain/textblob"
)

func orDefault(p *displaylist.Paint) *displaylist.Paint {
	if p == nil {
		d := displaylist.NewPaint()
		return &d
	}
	return p
}

// shapeMask returns the device coverage of p drawn with paint.
func (c *Canvas) shapeMask(p *geom.Path, paint *displaylist.Paint) *mask {
	var m *mask
	if paint.Style != displaylist.StyleStroke {
		m = c.fillMask(p, paint.AntiAlias)
	}
	if paint.Style != displaylist.StyleFill {
		s := c.strokeMask(p, stroke.StyleOf(*paint), paint.AntiAlias)
		if m == nil {
			m = s
		} else {
			unionMask(m, s)
		}
	}
	if mf, ok := paint.MaskFilter.(displaylist.BlurMaskFilter); ok {
		m = blurMask(m, mf.Style, mf.Sigma*c.matrix.MaxScale())
	}
	return m
}

// strokeMask expands p in local space. A zero width is a one pixel
// hairline.
func (c *Canvas) strokeMask(p *geom.Path, s stroke.Style, aa bool) *mask {
	scale := c.matrix.MaxScale()
	if scale <= 0 {
		return newMask(c.bounds())
	}
	if s.Width == 0 {
		s.Width = 1 / scale
	}
	return c.fillMask(stroke.Expand(p, s, c.tolerance/scale), aa)
}

// paintMask fills the coverage m with paint.
func (c *Canvas) paintMask(m *mask, paint *displaylist.Paint) {
	col := paint.Color
	if cf := paintColorFilter(paint); cf != nil {
		col = cf(col)
	}
	if paint.ImageFilter != nil {
		tmp := image.NewRGBA(c.bounds())
		blendCoverage(tmp, m, nil, col, displaylist.BlendSrcOver)
		c.compositeFiltered(tmp, paint.ImageFilter, 1, nil, paint.BlendMode)
		return
	}
	blendCoverage(c.target, m, c.clip, col, paint.BlendMode)
}

// compositeFiltered filters a draw rendered offscreen and composites it
// inside the clip.
func (c *Canvas) compositeFiltered(tmp *image.RGBA, f displaylist.ImageFilter, alpha float32, cf colorFunc, mode displaylist.BlendMode) {
	filtered := applyImageFilter(tmp, f, c.matrix, c.tolerance)
	compositeImage(c.target, filtered, c.clipBounds(), c.clip, alpha, cf, mode)
}

func (c *Canvas) drawPath(p *geom.Path, paint *displaylist.Paint) {
	paint = orDefault(paint)
	if paint.Color.IsTransparent() && paint.BlendMode.NopsOnTransparency() && paint.ColorFilter == nil {
		return
	}
	c.paintMask(c.shapeMask(p, paint), paint)
}

// DrawPaint fills the whole clip with paint.
func (c *Canvas) DrawPaint(paint *displaylist.Paint) {
	paint = orDefault(paint)
	c.paintMask(fullMask(c.bounds(), c.clipBounds()), paint)
}

// DrawColor fills the clip with col using mode.
func (c *Canvas) DrawColor(col displaylist.Color, mode displaylist.BlendMode) {
	p := displaylist.PaintWithColor(col)
	p.BlendMode = mode
	c.DrawPaint(&p)
}

// DrawLine always strokes, whatever the paint style.
func (c *Canvas) DrawLine(p0, p1 geom.Point, paint *displaylist.Paint) {
	p := *orDefault(paint)
	p.Style = displaylist.StyleStroke
	c.drawPath(geom.NewPath().MoveTo(p0.X, p0.Y).LineTo(p1.X, p1.Y), &p)
}

// DrawRect fills or strokes r.
func (c *Canvas) DrawRect(r geom.Rect, paint *displaylist.Paint) {
	c.drawPath(geom.NewPath().AddRect(r.Sorted()), paint)
}

// DrawOval fills or strokes the oval inscribed in bounds.
func (c *Canvas) DrawOval(bounds geom.Rect, paint *displaylist.Paint) {
	c.drawPath(geom.NewPath().AddOval(bounds), paint)
}

// DrawCircle fills or strokes a circle.
func (c *Canvas) DrawCircle(center geom.Point, radius float32, paint *displaylist.Paint) {
	c.drawPath(geom.NewPath().AddCircle(center.X, center.Y, radius), paint)
}

// DrawRRect fills or strokes a rounded rect.
func (c *Canvas) DrawRRect(rr geom.RRect, paint *displaylist.Paint) {
	c.drawPath(geom.NewPath().AddRRect(rr), paint)
}

// DrawDRRect fills the area between outer and inner.
func (c *Canvas) DrawDRRect(outer, inner geom.RRect, paint *displaylist.Paint) {
	p := geom.NewPath().AddRRect(outer).AddRRect(inner)
	p.FillType = geom.FillEvenOdd
	c.drawPath(p, paint)
}

// DrawPath fills or strokes p. A blur mask filter softens the coverage.
func (c *Canvas) DrawPath(p *geom.Path, paint *displaylist.Paint) {
	if p == nil {
		return
	}
	c.drawPath(p, paint)
}

// DrawArc draws an arc of oval, closed through the center when
// useCenter is set.
func (c *Canvas) DrawArc(oval geom.Rect, startDegrees, sweepDegrees float32, useCenter bool, paint *displaylist.Paint) {
	c.drawPath(geom.NewPath().AddArc(oval, startDegrees, sweepDegrees, useCenter), paint)
}

// DrawPoints strokes the points whatever the paint style. Points are
// drawn as dots shaped by the stroke cap.
func (c *Canvas) DrawPoints(mode displaylist.PointMode, pts []geom.Point, paint *displaylist.Paint) {
	p := *orDefault(paint)
	s := stroke.StyleOf(p)
	if s.Width == 0 {
		s.Width = 1 / max(c.matrix.MaxScale(), 1e-6)
	}
	var outline *geom.Path
	switch mode {
	case displaylist.PointModePoints:
		outline = geom.NewPath()
		hw := s.Width / 2
		for _, pt := range pts {
			if s.Cap == displaylist.CapRound {
				outline.AddCircle(pt.X, pt.Y, hw)
			} else {
				outline.AddRect(geom.LTRB(pt.X-hw, pt.Y-hw, pt.X+hw, pt.Y+hw))
			}
		}
	case displaylist.PointModeLines:
		line := geom.NewPath()
		for i := 0; i+1 < len(pts); i += 2 {
			line.MoveTo(pts[i].X, pts[i].Y).LineTo(pts[i+1].X, pts[i+1].Y)
		}
		outline = stroke.Expand(line, s, c.tolerance/max(c.matrix.MaxScale(), 1e-6))
	default:
		outline = stroke.Polyline(pts, false, s, c.tolerance/max(c.matrix.MaxScale(), 1e-6))
	}
	p.Style = displaylist.StyleFill
	c.drawPath(outline, &p)
}

// DrawImage draws img with its top left corner at at.
func (c *Canvas) DrawImage(img displaylist.Image, at geom.Point, sampling displaylist.SamplingMode, paint *displaylist.Paint) {
	sz := img.Size()
	src := geom.WH(float32(sz.Width), float32(sz.Height))
	c.drawImage(img, src, src.Offset(at.X, at.Y), sampling, paint)
}

// DrawImageRect draws the src part of img scaled into dst.
func (c *Canvas) DrawImageRect(img displaylist.Image, src, dst geom.Rect, sampling displaylist.SamplingMode,
	paint *displaylist.Paint, _ displaylist.SrcRectConstraint,
) {
	c.drawImage(img, src, dst, sampling, paint)
}

// drawImage resamples the src part of img into dst. Sampling never reads
// outside src, so both constraints behave as strict.
func (c *Canvas) drawImage(img displaylist.Image, src, dst geom.Rect, sampling displaylist.SamplingMode, paint *displaylist.Paint) {
	ri, ok := img.(*displaylist.RasterImage)
	if !ok {
		retain.Logger().Debug("raster: skipping image without pixels", "type", img)
		return
	}
	if src.IsEmpty() || dst.IsEmpty() {
		return
	}
	pixels := ri.Image()
	sr := deviceRect(src).Intersect(pixels.Bounds())
	m := c.matrix.
		Concat(geom.Translate(dst.Left, dst.Top)).
		Concat(geom.Scale(dst.Width()/src.Width(), dst.Height()/src.Height())).
		Concat(geom.Translate(-src.Left, -src.Top))

	tmp := image.NewRGBA(c.bounds())
	interpolator(sampling).Transform(tmp, m.Aff3(), pixels, sr, draw.Src, nil)

	alpha := float32(1)
	mode := displaylist.BlendSrcOver
	var cf colorFunc
	if paint != nil {
		alpha = paint.Color.Opacity()
		mode = paint.BlendMode
		cf = paintColorFilter(paint)
		if paint.ImageFilter != nil {
			c.compositeFiltered(tmp, paint.ImageFilter, alpha, cf, mode)
			return
		}
	}
	area := deviceRect(c.matrix.MapRect(dst)).Intersect(c.clipBounds())
	compositeImage(c.target, tmp, area, c.clip, alpha, cf, mode)
}

// DrawTextBlob fills the glyph outlines of blob at (x, y).
func (c *Canvas) DrawTextBlob(blob *textblob.Blob, x, y float32, paint *displaylist.Paint) {
	if blob == nil {
		return
	}
	outline := blob.Outline()
	if outline == nil || outline.IsEmpty() {
		return
	}
	c.drawPath(outline.Transform(geom.Translate(x, y)), paint)
}

// DrawShadow renders the ambient and spot shadows of an occluder at
// elevation. The light sits above the top edge of the canvas at
// ShadowLightHeight; the spot shadow falls below the occluder.
func (c *Canvas) DrawShadow(p *geom.Path, col displaylist.Color, elevation float32, transparentOccluder bool, dpr float32) {
	if p == nil || p.IsEmpty() || elevation <= 0 {
		return
	}
	params := canvas.ComputeShadowParams(col, elevation, transparentOccluder, dpr)
	z := params.ZPlane[2]
	lightZ := params.LightPos[2] * displaylist.ShadowLightHeight * dpr
	if z >= lightZ {
		return
	}
	ratio := z / (lightZ - z)
	occluder := c.fillMask(p, true)

	ambient := blurMask(occluder, displaylist.BlurNormal, z/4)
	spotOffset := -params.LightPos[1] * displaylist.ShadowLightHeight * dpr * ratio
	spotSigma := params.LightRadius * displaylist.ShadowLightHeight * dpr * ratio / 2
	spot := blurMask(offsetMask(occluder, 0, int(math32.Round(spotOffset))), displaylist.BlurNormal, spotSigma)

	if !transparentOccluder {
		ambient = combineClip(ambient, occluder, displaylist.ClipDifference, c.bounds())
		spot = combineClip(spot, occluder, displaylist.ClipDifference, c.bounds())
	}
	blendCoverage(c.target, ambient, c.clip, params.Ambient, displaylist.BlendSrcOver)
	blendCoverage(c.target, spot, c.clip, params.Spot, displaylist.BlendSrcOver)
}
