package displaylist

import (
	"slices"

	"github.com/gogpu/retain/geom"
	"github.com/gogpu/retain/textblob"
)

// OpType identifies a recorded operation.
type OpType uint8

const (
	// Attribute ops
	OpSetAntiAlias OpType = iota
	OpSetDither
	OpSetInvertColors
	OpSetStrokeCap
	OpSetStrokeJoin
	OpSetStyle
	OpSetStrokeWidth
	OpSetStrokeMiter
	OpSetColor
	OpSetBlendMode
	OpSetColorFilter
	OpSetImageFilter
	OpSetMaskFilter

	// State ops
	OpSave
	OpSaveLayer
	OpRestore

	// Transform ops
	OpTranslate
	OpScale
	OpRotate
	OpSkew
	OpTransform2DAffine
	OpTransformFullPerspective
	OpTransformReset

	// Clip ops
	OpClipRect
	OpClipRRect
	OpClipPath

	// Draw ops
	OpDrawPaint
	OpDrawColor
	OpDrawLine
	OpDrawRect
	OpDrawOval
	OpDrawCircle
	OpDrawRRect
	OpDrawDRRect
	OpDrawPath
	OpDrawArc
	OpDrawPoints
	OpDrawImage
	OpDrawImageRect
	OpDrawDisplayList
	OpDrawTextBlob
	OpDrawShadow

	opTypeCount
)

var opTypeNames = [...]string{
	OpSetAntiAlias:             "SetAntiAlias",
	OpSetDither:                "SetDither",
	OpSetInvertColors:          "SetInvertColors",
	OpSetStrokeCap:             "SetStrokeCap",
	OpSetStrokeJoin:            "SetStrokeJoin",
	OpSetStyle:                 "SetStyle",
	OpSetStrokeWidth:           "SetStrokeWidth",
	OpSetStrokeMiter:           "SetStrokeMiter",
	OpSetColor:                 "SetColor",
	OpSetBlendMode:             "SetBlendMode",
	OpSetColorFilter:           "SetColorFilter",
	OpSetImageFilter:           "SetImageFilter",
	OpSetMaskFilter:            "SetMaskFilter",
	OpSave:                     "Save",
	OpSaveLayer:                "SaveLayer",
	OpRestore:                  "Restore",
	OpTranslate:                "Translate",
	OpScale:                    "Scale",
	OpRotate:                   "Rotate",
	OpSkew:                     "Skew",
	OpTransform2DAffine:        "Transform2DAffine",
	OpTransformFullPerspective: "TransformFullPerspective",
	OpTransformReset:           "TransformReset",
	OpClipRect:                 "ClipRect",
	OpClipRRect:                "ClipRRect",
	OpClipPath:                 "ClipPath",
	OpDrawPaint:                "DrawPaint",
	OpDrawColor:                "DrawColor",
	OpDrawLine:                 "DrawLine",
	OpDrawRect:                 "DrawRect",
	OpDrawOval:                 "DrawOval",
	OpDrawCircle:               "DrawCircle",
	OpDrawRRect:                "DrawRRect",
	OpDrawDRRect:               "DrawDRRect",
	OpDrawPath:                 "DrawPath",
	OpDrawArc:                  "DrawArc",
	OpDrawPoints:               "DrawPoints",
	OpDrawImage:                "DrawImage",
	OpDrawImageRect:            "DrawImageRect",
	OpDrawDisplayList:          "DrawDisplayList",
	OpDrawTextBlob:             "DrawTextBlob",
	OpDrawShadow:               "DrawShadow",
}

// String returns the op name.
func (t OpType) String() string {
	if t < opTypeCount {
		return opTypeNames[t]
	}
	return "Unknown"
}

// IsDraw reports whether the op renders pixels.
func (t OpType) IsDraw() bool { return t >= OpDrawPaint && t < opTypeCount }

// IsAttribute reports whether the op changes the current attributes.
func (t OpType) IsAttribute() bool { return t <= OpSetMaskFilter }

// op is one recorded operation. Ops whose fields are all comparable are
// compared with ==; the rest implement equaler.
type op interface {
	Type() OpType
	dispatch(r Receiver)
}

type equaler interface {
	equal(other op) bool
}

func opsEqual(a, b op) bool {
	if a.Type() != b.Type() {
		return false
	}
	if e, ok := a.(equaler); ok {
		return e.equal(b)
	}
	return a == b
}

// --------------------------------------------------------------------------
// Attribute ops
// --------------------------------------------------------------------------

type setAntiAliasOp struct{ aa bool }

func (setAntiAliasOp) Type() OpType          { return OpSetAntiAlias }
func (o setAntiAliasOp) dispatch(r Receiver) { r.SetAntiAlias(o.aa) }

type setDitherOp struct{ dither bool }

func (setDitherOp) Type() OpType          { return OpSetDither }
func (o setDitherOp) dispatch(r Receiver) { r.SetDither(o.dither) }

type setInvertColorsOp struct{ invert bool }

func (setInvertColorsOp) Type() OpType          { return OpSetInvertColors }
func (o setInvertColorsOp) dispatch(r Receiver) { r.SetInvertColors(o.invert) }

type setStrokeCapOp struct{ cap StrokeCap }

func (setStrokeCapOp) Type() OpType          { return OpSetStrokeCap }
func (o setStrokeCapOp) dispatch(r Receiver) { r.SetStrokeCap(o.cap) }

type setStrokeJoinOp struct{ join StrokeJoin }

func (setStrokeJoinOp) Type() OpType          { return OpSetStrokeJoin }
func (o setStrokeJoinOp) dispatch(r Receiver) { r.SetStrokeJoin(o.join) }

type setStyleOp struct{ style Style }

func (setStyleOp) Type() OpType          { return OpSetStyle }
func (o setStyleOp) dispatch(r Receiver) { r.SetStyle(o.style) }

type setStrokeWidthOp struct{ width float32 }

func (setStrokeWidthOp) Type() OpType          { return OpSetStrokeWidth }
func (o setStrokeWidthOp) dispatch(r Receiver) { r.SetStrokeWidth(o.width) }

type setStrokeMiterOp struct{ limit float32 }

func (setStrokeMiterOp) Type() OpType          { return OpSetStrokeMiter }
func (o setStrokeMiterOp) dispatch(r Receiver) { r.SetStrokeMiter(o.limit) }

type setColorOp struct{ color Color }

func (setColorOp) Type() OpType          { return OpSetColor }
func (o setColorOp) dispatch(r Receiver) { r.SetColor(o.color) }

type setBlendModeOp struct{ mode BlendMode }

func (setBlendModeOp) Type() OpType          { return OpSetBlendMode }
func (o setBlendModeOp) dispatch(r Receiver) { r.SetBlendMode(o.mode) }

type setColorFilterOp struct{ filter ColorFilter }

func (setColorFilterOp) Type() OpType          { return OpSetColorFilter }
func (o setColorFilterOp) dispatch(r Receiver) { r.SetColorFilter(o.filter) }

type setImageFilterOp struct{ filter ImageFilter }

func (setImageFilterOp) Type() OpType          { return OpSetImageFilter }
func (o setImageFilterOp) dispatch(r Receiver) { r.SetImageFilter(o.filter) }

type setMaskFilterOp struct{ filter MaskFilter }

func (setMaskFilterOp) Type() OpType          { return OpSetMaskFilter }
func (o setMaskFilterOp) dispatch(r Receiver) { r.SetMaskFilter(o.filter) }

// --------------------------------------------------------------------------
// State ops
// --------------------------------------------------------------------------

type saveOp struct{}

func (saveOp) Type() OpType        { return OpSave }
func (saveOp) dispatch(r Receiver) { r.Save() }

type saveLayerOp struct {
	hasBounds bool
	bounds    geom.Rect
	options   SaveLayerOptions
	backdrop  ImageFilter
}

func (saveLayerOp) Type() OpType { return OpSaveLayer }

func (o saveLayerOp) dispatch(r Receiver) {
	if o.hasBounds {
		b := o.bounds
		r.SaveLayer(&b, o.options, o.backdrop)
		return
	}
	r.SaveLayer(nil, o.options, o.backdrop)
}

type restoreOp struct{}

func (restoreOp) Type() OpType        { return OpRestore }
func (restoreOp) dispatch(r Receiver) { r.Restore() }

// --------------------------------------------------------------------------
// Transform ops
// --------------------------------------------------------------------------

type translateOp struct{ tx, ty float32 }

func (translateOp) Type() OpType          { return OpTranslate }
func (o translateOp) dispatch(r Receiver) { r.Translate(o.tx, o.ty) }

type scaleOp struct{ sx, sy float32 }

func (scaleOp) Type() OpType          { return OpScale }
func (o scaleOp) dispatch(r Receiver) { r.Scale(o.sx, o.sy) }

type rotateOp struct{ degrees float32 }

func (rotateOp) Type() OpType          { return OpRotate }
func (o rotateOp) dispatch(r Receiver) { r.Rotate(o.degrees) }

type skewOp struct{ sx, sy float32 }

func (skewOp) Type() OpType          { return OpSkew }
func (o skewOp) dispatch(r Receiver) { r.Skew(o.sx, o.sy) }

type transform2DAffineOp struct{ mxx, mxy, mxt, myx, myy, myt float32 }

func (transform2DAffineOp) Type() OpType { return OpTransform2DAffine }
func (o transform2DAffineOp) dispatch(r Receiver) {
	r.Transform2DAffine(o.mxx, o.mxy, o.mxt, o.myx, o.myy, o.myt)
}

type transformFullPerspectiveOp struct{ m geom.Matrix }

func (transformFullPerspectiveOp) Type() OpType          { return OpTransformFullPerspective }
func (o transformFullPerspectiveOp) dispatch(r Receiver) { r.TransformFullPerspective(o.m) }

type transformResetOp struct{}

func (transformResetOp) Type() OpType        { return OpTransformReset }
func (transformResetOp) dispatch(r Receiver) { r.TransformReset() }

// --------------------------------------------------------------------------
// Clip ops
// --------------------------------------------------------------------------

type clipRectOp struct {
	rect geom.Rect
	op   ClipOp
	aa   bool
}

func (clipRectOp) Type() OpType          { return OpClipRect }
func (o clipRectOp) dispatch(r Receiver) { r.ClipRect(o.rect, o.op, o.aa) }

type clipRRectOp struct {
	rrect geom.RRect
	op    ClipOp
	aa    bool
}

func (clipRRectOp) Type() OpType          { return OpClipRRect }
func (o clipRRectOp) dispatch(r Receiver) { r.ClipRRect(o.rrect, o.op, o.aa) }

type clipPathOp struct {
	path *geom.Path
	op   ClipOp
	aa   bool
}

func (clipPathOp) Type() OpType          { return OpClipPath }
func (o clipPathOp) dispatch(r Receiver) { r.ClipPath(o.path, o.op, o.aa) }

func (o clipPathOp) equal(other op) bool {
	p := other.(clipPathOp)
	return o.op == p.op && o.aa == p.aa && o.path.Equals(p.path)
}

// --------------------------------------------------------------------------
// Draw ops
// --------------------------------------------------------------------------

type drawPaintOp struct{}

func (drawPaintOp) Type() OpType        { return OpDrawPaint }
func (drawPaintOp) dispatch(r Receiver) { r.DrawPaint() }

type drawColorOp struct {
	color Color
	mode  BlendMode
}

func (drawColorOp) Type() OpType          { return OpDrawColor }
func (o drawColorOp) dispatch(r Receiver) { r.DrawColor(o.color, o.mode) }

type drawLineOp struct{ p0, p1 geom.Point }

func (drawLineOp) Type() OpType          { return OpDrawLine }
func (o drawLineOp) dispatch(r Receiver) { r.DrawLine(o.p0, o.p1) }

type drawRectOp struct{ rect geom.Rect }

func (drawRectOp) Type() OpType          { return OpDrawRect }
func (o drawRectOp) dispatch(r Receiver) { r.DrawRect(o.rect) }

type drawOvalOp struct{ bounds geom.Rect }

func (drawOvalOp) Type() OpType          { return OpDrawOval }
func (o drawOvalOp) dispatch(r Receiver) { r.DrawOval(o.bounds) }

type drawCircleOp struct {
	center geom.Point
	radius float32
}

func (drawCircleOp) Type() OpType          { return OpDrawCircle }
func (o drawCircleOp) dispatch(r Receiver) { r.DrawCircle(o.center, o.radius) }

type drawRRectOp struct{ rrect geom.RRect }

func (drawRRectOp) Type() OpType          { return OpDrawRRect }
func (o drawRRectOp) dispatch(r Receiver) { r.DrawRRect(o.rrect) }

type drawDRRectOp struct{ outer, inner geom.RRect }

func (drawDRRectOp) Type() OpType          { return OpDrawDRRect }
func (o drawDRRectOp) dispatch(r Receiver) { r.DrawDRRect(o.outer, o.inner) }

type drawPathOp struct{ path *geom.Path }

func (drawPathOp) Type() OpType          { return OpDrawPath }
func (o drawPathOp) dispatch(r Receiver) { r.DrawPath(o.path) }

func (o drawPathOp) equal(other op) bool {
	return o.path.Equals(other.(drawPathOp).path)
}

type drawArcOp struct {
	oval         geom.Rect
	start, sweep float32
	useCenter    bool
}

func (drawArcOp) Type() OpType { return OpDrawArc }
func (o drawArcOp) dispatch(r Receiver) {
	r.DrawArc(o.oval, o.start, o.sweep, o.useCenter)
}

type drawPointsOp struct {
	mode PointMode
	pts  []geom.Point
}

func (drawPointsOp) Type() OpType          { return OpDrawPoints }
func (o drawPointsOp) dispatch(r Receiver) { r.DrawPoints(o.mode, o.pts) }

func (o drawPointsOp) equal(other op) bool {
	p := other.(drawPointsOp)
	return o.mode == p.mode && slices.Equal(o.pts, p.pts)
}

type drawImageOp struct {
	image          Image
	at             geom.Point
	sampling       SamplingMode
	withAttributes bool
}

func (drawImageOp) Type() OpType { return OpDrawImage }
func (o drawImageOp) dispatch(r Receiver) {
	r.DrawImage(o.image, o.at, o.sampling, o.withAttributes)
}

type drawImageRectOp struct {
	image          Image
	src, dst       geom.Rect
	sampling       SamplingMode
	withAttributes bool
	constraint     SrcRectConstraint
}

func (drawImageRectOp) Type() OpType { return OpDrawImageRect }
func (o drawImageRectOp) dispatch(r Receiver) {
	r.DrawImageRect(o.image, o.src, o.dst, o.sampling, o.withAttributes, o.constraint)
}

type drawDisplayListOp struct {
	dl      *DisplayList
	opacity float32
}

func (drawDisplayListOp) Type() OpType          { return OpDrawDisplayList }
func (o drawDisplayListOp) dispatch(r Receiver) { r.DrawDisplayList(o.dl, o.opacity) }

func (o drawDisplayListOp) equal(other op) bool {
	p := other.(drawDisplayListOp)
	return o.opacity == p.opacity && o.dl.Equals(p.dl)
}

type drawTextBlobOp struct {
	blob *textblob.Blob
	x, y float32
}

func (drawTextBlobOp) Type() OpType          { return OpDrawTextBlob }
func (o drawTextBlobOp) dispatch(r Receiver) { r.DrawTextBlob(o.blob, o.x, o.y) }

type drawShadowOp struct {
	path                *geom.Path
	color               Color
	elevation           float32
	transparentOccluder bool
	dpr                 float32
}

func (drawShadowOp) Type() OpType { return OpDrawShadow }
func (o drawShadowOp) dispatch(r Receiver) {
	r.DrawShadow(o.path, o.color, o.elevation, o.transparentOccluder, o.dpr)
}

func (o drawShadowOp) equal(other op) bool {
	p := other.(drawShadowOp)
	return o.color == p.color && o.elevation == p.elevation &&
		o.transparentOccluder == p.transparentOccluder && o.dpr == p.dpr &&
		o.path.Equals(p.path)
}
