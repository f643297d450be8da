package complexity

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/retain"
	"github.com/gogpu/retain/displaylist"
	"github.com/gogpu/retain/geom"
	"github.com/gogpu/retain/textblob"
)

// walker is the Receiver that accumulates a score while a list is
// dispatched. Once complex it ignores every further op.
type walker struct {
	model   *costModel
	ceiling uint
	score   uint
	complex bool

	antiAlias   bool
	style       displaylist.Style
	strokeWidth float32
	masked      bool

	// Deferred costs, added in result.
	saveLayers     int
	implicitLayers int
	textBlobs      int
	glyphs         int
}

var _ displaylist.Receiver = (*walker)(nil)

func newWalker(model *costModel, ceiling uint) *walker {
	return &walker{model: model, ceiling: ceiling}
}

func (w *walker) accumulate(cost float32) { w.add(toScore(cost)) }

func (w *walker) add(c uint) {
	if w.complex {
		return
	}
	if w.ceiling-w.score < c {
		w.complex = true
		w.score = w.ceiling + 1
		retain.Logger().Debug("complexity: ceiling reached", "model", w.model.name, "ceiling", w.ceiling)
		return
	}
	w.score += c
}

const maxScore = ^uint(0) >> 1

func toScore(v float32) uint {
	switch {
	case !(v > 0):
		return 0
	case v >= float32(maxScore):
		return maxScore
	}
	return uint(math32.Ceil(v))
}

// batched returns the costs that depend on how often an op appears rather
// than on each occurrence.
func (w *walker) batched() float32 {
	m := w.model
	var cost float32
	if w.saveLayers > 0 {
		cost += m.saveLayerBase + float32(w.saveLayers)*m.saveLayerEach
	}
	cost += float32(w.implicitLayers) * m.implicitLayerEach
	if w.textBlobs > 0 {
		cost += m.textBase + float32(w.textBlobs)*m.textEach + float32(w.glyphs)*m.textPerGlyph
	}
	return cost
}

func (w *walker) result() uint {
	w.accumulate(w.batched())
	return w.score
}

func (w *walker) isHairline() bool { return w.strokeWidth == 0 }

// penalties multiplies cost by the attribute penalties that apply to a
// geometric op.
func (w *walker) penalties(cost float32, stroked bool) float32 {
	m := w.model
	if w.antiAlias {
		cost *= m.aaPenalty
	}
	if stroked && !w.isHairline() {
		cost *= m.strokePenalty
	}
	if w.masked {
		cost *= m.maskPenalty
	}
	return cost
}

// shape returns the cost of a filled or stroked shape with the given area
// and perimeter.
func (w *walker) shape(area, perimeter float32) float32 {
	m := w.model
	stroked := w.style != displaylist.StyleFill
	var cost float32
	if stroked {
		cost = m.strokeBase + perimeter*m.strokePerPerimeter
		if w.style == displaylist.StyleStrokeAndFill {
			cost += m.fillBase + area*m.fillPerArea
		}
	} else {
		cost = m.fillBase + area*m.fillPerArea
	}
	return w.penalties(cost, stroked)
}

func rectShape(r geom.Rect) (area, perimeter float32) {
	width, height := math32.Abs(r.Width()), math32.Abs(r.Height())
	return width * height, 2 * (width + height)
}

func (w *walker) rrectCost(rr geom.RRect) float32 {
	area, perimeter := rectShape(rr.Rect)
	switch {
	case rr.IsRect():
		return w.shape(area, perimeter)
	case rr.IsOval():
		return w.shape(area, perimeter) * w.model.ovalFactor
	}
	return w.shape(area, perimeter) * w.model.rrectFactor
}

// pathVerbCost sums per-verb costs.
func pathVerbCost(p *geom.Path, line, quad, cubic float32) float32 {
	return float32(p.CountVerbs(geom.VerbLine))*line +
		float32(p.CountVerbs(geom.VerbQuad))*quad +
		float32(p.CountVerbs(geom.VerbCubic))*cubic
}

// Attributes

func (w *walker) SetAntiAlias(aa bool)                   { w.antiAlias = aa }
func (w *walker) SetDither(bool)                         {}
func (w *walker) SetInvertColors(bool)                   {}
func (w *walker) SetStrokeCap(displaylist.StrokeCap)     {}
func (w *walker) SetStrokeJoin(displaylist.StrokeJoin)   {}
func (w *walker) SetStyle(s displaylist.Style)           { w.style = s }
func (w *walker) SetStrokeWidth(width float32)           { w.strokeWidth = width }
func (w *walker) SetStrokeMiter(float32)                 {}
func (w *walker) SetColor(displaylist.Color)             {}
func (w *walker) SetBlendMode(displaylist.BlendMode)     {}
func (w *walker) SetColorFilter(displaylist.ColorFilter) {}
func (w *walker) SetImageFilter(displaylist.ImageFilter) {}
func (w *walker) SetMaskFilter(f displaylist.MaskFilter) { w.masked = f != nil }

// State, transforms and clips cost nothing by themselves.

func (w *walker) Save() {}

func (w *walker) SaveLayer(_ *geom.Rect, options displaylist.SaveLayerOptions, _ displaylist.ImageFilter) {
	if w.complex {
		return
	}
	w.saveLayers++
	if options.ImplicitFilterLayer() {
		w.implicitLayers++
	}
}

func (w *walker) Restore()                                       {}
func (w *walker) Translate(float32, float32)                     {}
func (w *walker) Scale(float32, float32)                         {}
func (w *walker) Rotate(float32)                                 {}
func (w *walker) Skew(float32, float32)                          {}
func (w *walker) Transform2DAffine(_, _, _, _, _, _ float32)     {}
func (w *walker) TransformFullPerspective(geom.Matrix)           {}
func (w *walker) TransformReset()                                {}
func (w *walker) ClipRect(geom.Rect, displaylist.ClipOp, bool)   {}
func (w *walker) ClipRRect(geom.RRect, displaylist.ClipOp, bool) {}
func (w *walker) ClipPath(*geom.Path, displaylist.ClipOp, bool)  {}

// Draws

func (w *walker) DrawPaint() { w.accumulate(w.model.flood) }

func (w *walker) DrawColor(displaylist.Color, displaylist.BlendMode) { w.accumulate(w.model.flood) }

func (w *walker) DrawLine(p0, p1 geom.Point) {
	if w.complex {
		return
	}
	// Manhattan length avoids a sqrt and is close enough for a cost.
	length := math32.Abs(p1.X-p0.X) + math32.Abs(p1.Y-p0.Y)
	w.accumulate(w.penalties(w.model.lineBase+length*w.model.linePerLength, true))
}

func (w *walker) DrawRect(r geom.Rect) {
	if w.complex {
		return
	}
	w.accumulate(w.shape(rectShape(r)))
}

func (w *walker) DrawOval(bounds geom.Rect) {
	if w.complex {
		return
	}
	w.accumulate(w.shape(rectShape(bounds)) * w.model.ovalFactor)
}

func (w *walker) DrawCircle(center geom.Point, radius float32) {
	if w.complex {
		return
	}
	d := 2 * math32.Abs(radius)
	w.accumulate(w.shape(d*d, 4*d) * w.model.ovalFactor)
}

func (w *walker) DrawRRect(rr geom.RRect) {
	if w.complex {
		return
	}
	w.accumulate(w.rrectCost(rr))
}

func (w *walker) DrawDRRect(outer, inner geom.RRect) {
	if w.complex {
		return
	}
	w.accumulate(w.rrectCost(outer) + w.rrectCost(inner))
}

func (w *walker) DrawPath(p *geom.Path) {
	if w.complex || p == nil {
		return
	}
	m := w.model
	stroked := w.style != displaylist.StyleFill
	cost := m.pathBase + pathVerbCost(p, m.lineVerb, m.quadVerb, m.cubicVerb)
	if !stroked && !p.IsConvex() {
		cost *= m.nonConvexPenalty
	}
	w.accumulate(w.penalties(cost, stroked))
}

func (w *walker) DrawArc(oval geom.Rect, _, sweepDegrees float32, useCenter bool) {
	if w.complex {
		return
	}
	fraction := math32.Min(math32.Abs(sweepDegrees)/360, 1)
	area, perimeter := rectShape(oval)
	if useCenter {
		perimeter += math32.Max(math32.Abs(oval.Width()), math32.Abs(oval.Height()))
	}
	w.accumulate(w.shape(area*fraction, perimeter*fraction) * w.model.ovalFactor)
}

func (w *walker) DrawPoints(mode displaylist.PointMode, pts []geom.Point) {
	if w.complex {
		return
	}
	m := w.model
	per := m.perPoint[0]
	if int(mode) < len(m.perPoint) {
		per = m.perPoint[mode]
	}
	w.accumulate(w.penalties(m.pointBase+float32(len(pts))*per, true))
}

func (w *walker) imageCost(img displaylist.Image, area float32) float32 {
	m := w.model
	cost := m.imageBase + area*m.imagePerArea
	if !img.IsTextureBacked() {
		cost *= m.uploadPenalty
	}
	return cost
}

func (w *walker) DrawImage(img displaylist.Image, _ geom.Point, _ displaylist.SamplingMode, _ bool) {
	if w.complex || img == nil {
		return
	}
	size := img.Size()
	w.accumulate(w.imageCost(img, float32(size.Width)*float32(size.Height)))
}

func (w *walker) DrawImageRect(img displaylist.Image, _, dst geom.Rect, _ displaylist.SamplingMode, _ bool, _ displaylist.SrcRectConstraint) {
	if w.complex || img == nil {
		return
	}
	area, _ := rectShape(dst)
	w.accumulate(w.imageCost(img, area))
}

// DrawDisplayList scores the nested list with what is left of the budget.
func (w *walker) DrawDisplayList(dl *displaylist.DisplayList, _ float32) {
	if w.complex || dl == nil {
		return
	}
	nested := &Estimator{model: w.model, ceiling: w.ceiling - w.score}
	w.add(nested.Compute(dl))
}

func (w *walker) DrawTextBlob(blob *textblob.Blob, _, _ float32) {
	if w.complex || blob == nil {
		return
	}
	w.textBlobs++
	w.glyphs += blob.GlyphCount()
}

func (w *walker) DrawShadow(p *geom.Path, _ displaylist.Color, _ float32, transparentOccluder bool, _ float32) {
	if w.complex || p == nil {
		return
	}
	m := w.model
	// Elevation has no measurable effect; cubic verbs dominate.
	cost := pathVerbCost(p, m.shadowLineVerb, m.shadowQuadVerb, m.shadowCubicVerb)
	if transparentOccluder {
		cost *= m.transparentOccluderPenalty
	}
	w.accumulate(cost)
}
