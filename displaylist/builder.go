package displaylist

import (
	"slices"

	"github.com/chewxy/math32"

	"github.com/gogpu/retain/geom"
	"github.com/gogpu/retain/internal/check"
	"github.com/gogpu/retain/textblob"
)

// minStrokeWidth keeps hairline and zero-width strokes from producing
// empty bounds.
const minStrokeWidth = 0.01

// layerInfo tracks one compositing scope: the root of the list or a
// SaveLayer and everything up to its Restore.
type layerInfo struct {
	saveIndex int // index of the SaveLayer op, -1 for the root
	bounds    geom.Rect

	// Group opacity state of the content.
	compatible bool
	opRects    []geom.Rect

	// Properties of the layer as a single op in its parent.
	alphaOnly        bool
	parentCompatible bool
	unbounded        bool
	filter           ImageFilter
}

// accumulate records the device bounds of one op in this scope.
func (l *layerInfo) accumulate(device geom.Rect, compatible bool) {
	if device.IsEmpty() {
		return
	}
	l.bounds = l.bounds.Union(device)
	if !l.compatible {
		return
	}
	if !compatible {
		l.compatible = false
		l.opRects = nil
		return
	}
	for _, r := range l.opRects {
		if r.Intersects(device) {
			l.compatible = false
			l.opRects = nil
			return
		}
	}
	l.opRects = append(l.opRects, device)
}

// frame is one entry of the save stack.
type frame struct {
	matrix   geom.Matrix
	clip     geom.Rect // device space
	layer    *layerInfo
	owner    bool // this frame opened layer
	filtered bool // inside a layer with an image filter
}

// Builder records operations into a DisplayList. A Builder is single-use:
// after Build every method is a contract violation. It is not safe for
// concurrent use.
type Builder struct {
	ops      []op
	opBounds []geom.Rect

	current Paint
	frames  []frame

	nestedOpCount    int
	requiresBackdrop bool
	built            bool
}

// NewBuilder creates an empty builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	o := defaultBuilderOptions()
	for _, opt := range opts {
		opt(&o)
	}
	root := &layerInfo{saveIndex: -1, compatible: true, alphaOnly: true}
	return &Builder{
		current: NewPaint(),
		frames: []frame{{
			matrix: geom.Identity(),
			clip:   o.cull,
			layer:  root,
			owner:  true,
		}},
	}
}

func (b *Builder) top() *frame { return &b.frames[len(b.frames)-1] }

// push appends o. It reports false if the builder is already built.
func (b *Builder) push(o op) bool {
	if b.built {
		check.Fail("displaylist: %s recorded after Build", o.Type())
		return false
	}
	b.ops = append(b.ops, o)
	b.opBounds = append(b.opBounds, geom.Rect{})
	return true
}

// --------------------------------------------------------------------------
// Attributes
// --------------------------------------------------------------------------

// Attributes returns the attribute state that the next draw will use.
func (b *Builder) Attributes() Paint { return b.current }

// SetAntiAlias records a change to the anti-alias flag. Setting the
// current value records nothing.
func (b *Builder) SetAntiAlias(aa bool) {
	if b.current.AntiAlias != aa && b.push(setAntiAliasOp{aa}) {
		b.current.AntiAlias = aa
	}
}

// SetDither records a change to the dither flag.
func (b *Builder) SetDither(dither bool) {
	if b.current.Dither != dither && b.push(setDitherOp{dither}) {
		b.current.Dither = dither
	}
}

// SetInvertColors records whether later draws invert their colors.
func (b *Builder) SetInvertColors(invert bool) {
	if b.current.InvertColors != invert && b.push(setInvertColorsOp{invert}) {
		b.current.InvertColors = invert
	}
}

// SetStrokeCap records a change to the stroke cap.
func (b *Builder) SetStrokeCap(c StrokeCap) {
	if b.current.StrokeCap != c && b.push(setStrokeCapOp{c}) {
		b.current.StrokeCap = c
	}
}

// SetStrokeJoin records a change to the stroke join.
func (b *Builder) SetStrokeJoin(j StrokeJoin) {
	if b.current.StrokeJoin != j && b.push(setStrokeJoinOp{j}) {
		b.current.StrokeJoin = j
	}
}

// SetStyle records a change between fill and stroke.
func (b *Builder) SetStyle(s Style) {
	if b.current.Style != s && b.push(setStyleOp{s}) {
		b.current.Style = s
	}
}

// SetStrokeWidth records a change to the stroke width. Zero is a hairline.
func (b *Builder) SetStrokeWidth(width float32) {
	if b.current.StrokeWidth != width && b.push(setStrokeWidthOp{width}) {
		b.current.StrokeWidth = width
	}
}

// SetStrokeMiter records a change to the miter limit.
func (b *Builder) SetStrokeMiter(limit float32) {
	if b.current.StrokeMiter != limit && b.push(setStrokeMiterOp{limit}) {
		b.current.StrokeMiter = limit
	}
}

// SetColor records a change to the draw color.
func (b *Builder) SetColor(c Color) {
	if b.current.Color != c && b.push(setColorOp{c}) {
		b.current.Color = c
	}
}

// SetBlendMode records a change to the blend mode.
func (b *Builder) SetBlendMode(mode BlendMode) {
	if b.current.BlendMode != mode && b.push(setBlendModeOp{mode}) {
		b.current.BlendMode = mode
	}
}

// SetColorFilter records a change to the color filter. Filters are
// compared by identity.
func (b *Builder) SetColorFilter(f ColorFilter) {
	if b.current.ColorFilter != f && b.push(setColorFilterOp{f}) {
		b.current.ColorFilter = f
	}
}

// SetImageFilter records a change to the image filter.
func (b *Builder) SetImageFilter(f ImageFilter) {
	if b.current.ImageFilter != f && b.push(setImageFilterOp{f}) {
		b.current.ImageFilter = f
	}
}

// SetMaskFilter records a change to the mask filter.
func (b *Builder) SetMaskFilter(f MaskFilter) {
	if b.current.MaskFilter != f && b.push(setMaskFilterOp{f}) {
		b.current.MaskFilter = f
	}
}

// SetAttributesFromPaint records the attributes of p that flags marks as
// relevant. Attributes equal to the current state are not recorded.
func (b *Builder) SetAttributesFromPaint(p Paint, flags AttrFlags) {
	if flags.Has(UsesAntiAlias) {
		b.SetAntiAlias(p.AntiAlias)
	}
	if flags.Has(UsesDither) {
		b.SetDither(p.Dither)
	}
	if flags&(UsesAlpha|UsesColor) != 0 {
		b.SetColor(p.Color)
	}
	if flags.Has(UsesBlend) {
		b.SetBlendMode(p.BlendMode)
	}
	if flags.AppliesStyle() {
		b.SetStyle(p.Style)
	}
	if flags.IsStroked(p.Style) {
		b.SetStrokeWidth(p.StrokeWidth)
		b.SetStrokeMiter(p.StrokeMiter)
		b.SetStrokeCap(p.StrokeCap)
		b.SetStrokeJoin(p.StrokeJoin)
	}
	if flags.Has(UsesColorFilter) {
		b.SetColorFilter(p.ColorFilter)
		b.SetInvertColors(p.InvertColors)
	}
	if flags.Has(UsesImageFilter) {
		b.SetImageFilter(p.ImageFilter)
	}
	if flags.Has(UsesMaskFilter) {
		b.SetMaskFilter(p.MaskFilter)
	}
}

// --------------------------------------------------------------------------
// Save / restore
// --------------------------------------------------------------------------

// SaveCount returns the depth of the save stack, 1 when nothing is saved.
func (b *Builder) SaveCount() int { return len(b.frames) }

// Save pushes the matrix and clip.
func (b *Builder) Save() {
	if !b.push(saveOp{}) {
		return
	}
	f := *b.top()
	f.owner = false
	b.frames = append(b.frames, f)
}

// SaveLayer begins a group composited on the matching Restore. Callers
// cannot set CanDistributeOpacity or ImplicitFilterLayer; the builder
// computes both.
func (b *Builder) SaveLayer(bounds *geom.Rect, options SaveLayerOptions, backdrop ImageFilter) {
	options &^= CanDistributeOpacity | ImplicitFilterLayer
	withAttributes := options.RendersWithAttributes()
	var filter ImageFilter
	if withAttributes {
		filter = b.current.ImageFilter
		if filter != nil && filter.AsColorFilter() == nil {
			options |= ImplicitFilterLayer
		}
	}
	o := saveLayerOp{options: options, backdrop: backdrop}
	if bounds != nil {
		o.hasBounds = true
		o.bounds = *bounds
	}
	if !b.push(o) {
		return
	}
	b.requiresBackdrop = b.requiresBackdrop || backdrop != nil || filter != nil

	parent := b.top()
	layer := &layerInfo{
		saveIndex:        len(b.ops) - 1,
		compatible:       true,
		alphaOnly:        !withAttributes || b.current.IsAlphaOnly(),
		parentCompatible: !withAttributes || b.current.IsOpacityCompatible(),
		unbounded:        withAttributes && !b.current.NopsOnTransparency(),
		filter:           filter,
	}
	f := frame{
		matrix:   parent.matrix,
		clip:     parent.clip,
		layer:    layer,
		owner:    true,
		filtered: parent.filtered || filter != nil,
	}
	if bounds != nil {
		f.clip = f.clip.Intersect(f.matrix.MapRect(*bounds))
	}
	if backdrop != nil {
		layer.bounds = f.clip
	}
	if filter != nil {
		// Content outside the clip may be moved into it by the filter.
		f.clip = geom.GiantRect
	}
	b.frames = append(b.frames, f)
}

// SaveLayerWithPaint records the layer attributes of p and begins a
// layer that composites with them.
func (b *Builder) SaveLayerWithPaint(bounds *geom.Rect, p Paint, backdrop ImageFilter) {
	b.SetAttributesFromPaint(p, SaveLayerWithPaintFlags)
	b.SaveLayer(bounds, RendersWithAttributes, backdrop)
}

// Restore pops the state pushed by the matching Save or SaveLayer. When it
// closes a layer, the layer's bounds and opacity compatibility are settled.
func (b *Builder) Restore() {
	if len(b.frames) <= 1 {
		check.Fail("displaylist: Restore without matching Save")
		return
	}
	if !b.push(restoreOp{}) {
		return
	}
	f := b.frames[len(b.frames)-1]
	b.frames = b.frames[:len(b.frames)-1]
	if !f.owner {
		return
	}

	l := f.layer
	if l.compatible && l.alphaOnly {
		so := b.ops[l.saveIndex].(saveLayerOp)
		so.options = so.options.WithCanDistributeOpacity()
		b.ops[l.saveIndex] = so
	}

	parent := b.top()
	device := l.bounds
	unbounded := l.unbounded
	if l.filter != nil && !device.IsEmpty() {
		var ok bool
		device, ok = l.filter.MapDeviceBounds(device, f.matrix)
		unbounded = unbounded || !ok
	}
	if unbounded {
		device = parent.clip
	} else {
		device = device.Intersect(parent.clip)
	}
	if parent.filtered {
		b.opBounds[l.saveIndex] = geom.GiantRect
	} else {
		b.opBounds[l.saveIndex] = device
	}
	parent.layer.accumulate(device, l.parentCompatible)
}

// RestoreToCount restores until SaveCount equals count.
func (b *Builder) RestoreToCount(count int) {
	for len(b.frames) > max(count, 1) {
		b.Restore()
	}
}

// --------------------------------------------------------------------------
// Transforms
// --------------------------------------------------------------------------

// Transform returns the current matrix.
func (b *Builder) Transform() geom.Matrix { return b.top().matrix }

func (b *Builder) concat(m geom.Matrix) {
	f := b.top()
	f.matrix = f.matrix.Concat(m)
}

func finite(vs ...float32) bool {
	for _, v := range vs {
		if math32.IsInf(v, 0) || math32.IsNaN(v) {
			return false
		}
	}
	return true
}

// Translate records a translation. Zero offsets and non-finite values are
// ignored.
func (b *Builder) Translate(tx, ty float32) {
	if !finite(tx, ty) || (tx == 0 && ty == 0) {
		return
	}
	if b.push(translateOp{tx, ty}) {
		b.concat(geom.Translate(tx, ty))
	}
}

// Scale records a scale. A unit scale is ignored.
func (b *Builder) Scale(sx, sy float32) {
	if !finite(sx, sy) || (sx == 1 && sy == 1) {
		return
	}
	if b.push(scaleOp{sx, sy}) {
		b.concat(geom.Scale(sx, sy))
	}
}

// Rotate records a rotation in degrees. Whole turns are ignored.
func (b *Builder) Rotate(degrees float32) {
	if !finite(degrees) || math32.Mod(degrees, 360) == 0 {
		return
	}
	if b.push(rotateOp{degrees}) {
		b.concat(geom.Rotate(degrees))
	}
}

// Skew records a skew. A zero skew is ignored.
func (b *Builder) Skew(sx, sy float32) {
	if !finite(sx, sy) || (sx == 0 && sy == 0) {
		return
	}
	if b.push(skewOp{sx, sy}) {
		b.concat(geom.Skew(sx, sy))
	}
}

// Transform2DAffine concatenates a 2D affine matrix. It is recorded even
// when it is the identity, so a replayed transform stays visible in the
// stream.
func (b *Builder) Transform2DAffine(mxx, mxy, mxt, myx, myy, myt float32) {
	if !finite(mxx, mxy, mxt, myx, myy, myt) {
		return
	}
	if b.push(transform2DAffineOp{mxx, mxy, mxt, myx, myy, myt}) {
		b.concat(geom.Affine2D(mxx, mxy, mxt, myx, myy, myt))
	}
}

// TransformFullPerspective concatenates a 4x4 matrix. Matrices that are
// 2D affine are recorded as Transform2DAffine.
func (b *Builder) TransformFullPerspective(m geom.Matrix) {
	if !finite(m[:]...) {
		return
	}
	if m.Is2DAffine() {
		b.Transform2DAffine(m[0], m[1], m[3], m[4], m[5], m[7])
		return
	}
	if b.push(transformFullPerspectiveOp{m}) {
		b.concat(m)
	}
}

// Concat concatenates m, choosing the narrowest op that represents it.
func (b *Builder) Concat(m geom.Matrix) {
	b.TransformFullPerspective(m)
}

// TransformReset records a return to the identity matrix.
func (b *Builder) TransformReset() {
	if b.push(transformResetOp{}) {
		b.top().matrix = geom.Identity()
	}
}

// --------------------------------------------------------------------------
// Clips
// --------------------------------------------------------------------------

// DeviceClipBounds returns the conservative device-space clip.
func (b *Builder) DeviceClipBounds() geom.Rect { return b.top().clip }

// LocalClipBounds returns the clip mapped back through the current matrix,
// or an empty rect when the matrix is not invertible.
func (b *Builder) LocalClipBounds() geom.Rect {
	f := b.top()
	inv, ok := f.matrix.Invert()
	if !ok {
		return geom.Rect{}
	}
	return inv.MapRect(f.clip)
}

func (b *Builder) clipDevice(device geom.Rect, op ClipOp, exact bool) {
	f := b.top()
	switch op {
	case ClipIntersect:
		f.clip = f.clip.Intersect(device)
	case ClipDifference:
		if exact && device.ContainsRect(f.clip) {
			f.clip = geom.Rect{}
		}
	}
}

// ClipRect records a rect clip and narrows the device clip when it can.
func (b *Builder) ClipRect(r geom.Rect, op ClipOp, aa bool) {
	if !b.push(clipRectOp{r, op, aa}) {
		return
	}
	m := b.top().matrix
	b.clipDevice(m.MapRect(r.Sorted()), op, m.RectStaysRect())
}

// ClipRRect records a rounded rect clip.
func (b *Builder) ClipRRect(rr geom.RRect, op ClipOp, aa bool) {
	if !b.push(clipRRectOp{rr, op, aa}) {
		return
	}
	m := b.top().matrix
	b.clipDevice(m.MapRect(rr.Rect), op, rr.IsRect() && m.RectStaysRect())
}

// ClipPath records a path clip. A difference path clip never shrinks
// the tracked clip.
func (b *Builder) ClipPath(p *geom.Path, op ClipOp, aa bool) {
	if !b.push(clipPathOp{p, op, aa}) {
		return
	}
	b.clipDevice(b.top().matrix.MapRect(p.Bounds()), op, false)
}

// --------------------------------------------------------------------------
// Draws
// --------------------------------------------------------------------------

// adjustBoundsForPaint grows local bounds by what the current attributes
// can add around the geometry. It reports false when the result is
// unbounded.
func (b *Builder) adjustBoundsForPaint(r geom.Rect, flags AttrFlags) (geom.Rect, bool) {
	if flags.IgnoresPaint() {
		return r, true
	}
	p := &b.current
	if flags.IsStroked(p.Style) {
		pad := float32(1)
		if p.StrokeJoin == JoinMiter && flags.Has(MayHaveAcuteJoins) {
			pad = math32.Max(pad, p.StrokeMiter)
		}
		if p.StrokeCap == CapSquare && flags.Has(MayHaveDiagonalCaps) {
			pad = math32.Max(pad, math32.Sqrt2)
		}
		pad *= math32.Max(p.StrokeWidth*0.5, minStrokeWidth)
		r = r.Outset(pad, pad)
	}
	if flags.Has(UsesMaskFilter) && p.MaskFilter != nil {
		o := p.MaskFilter.Outset()
		r = r.Outset(o, o)
	}
	if flags.Has(UsesImageFilter) && p.ImageFilter != nil {
		return p.ImageFilter.MapLocalBounds(r)
	}
	return r, true
}

// isHairline reports whether the next stroked op is a device-space hairline.
func (b *Builder) isHairline(flags AttrFlags) bool {
	return flags.IsStroked(b.current.Style) && b.current.StrokeWidth == 0
}

// compatibleWithAttributes reports whether the current attributes allow
// group opacity for an op that uses them.
func (b *Builder) compatibleWithAttributes(uses bool) bool {
	return !uses || b.current.IsOpacityCompatible()
}

// accumulateOp computes the device bounds of the op just pushed and folds
// them into the current layer.
func (b *Builder) accumulateOp(local geom.Rect, flags AttrFlags, compatible bool) {
	f := b.top()
	var device geom.Rect
	if flags.Has(IsFlood) {
		device = f.clip
	} else if adjusted, ok := b.adjustBoundsForPaint(local, flags); !ok {
		device = f.clip
	} else if !adjusted.IsEmpty() || b.isHairline(flags) {
		device = f.matrix.MapRect(adjusted)
		if b.isHairline(flags) {
			device = device.Outset(1, 1)
		}
		device = device.Intersect(f.clip)
	}
	if f.filtered {
		b.opBounds[len(b.opBounds)-1] = geom.GiantRect
	} else {
		b.opBounds[len(b.opBounds)-1] = device
	}
	f.layer.accumulate(device, compatible)
}

// DrawPaint records a fill of the whole clip with the current attributes.
func (b *Builder) DrawPaint() {
	if b.push(drawPaintOp{}) {
		b.accumulateOp(geom.Rect{}, DrawPaintFlags, b.compatibleWithAttributes(true))
	}
}

// DrawColor records a flood of c. It ignores the current attributes.
func (b *Builder) DrawColor(c Color, mode BlendMode) {
	if b.push(drawColorOp{c, mode}) {
		b.accumulateOp(geom.Rect{}, DrawColorFlags|IsFlood, mode.IsOpacityCompatible())
	}
}

// DrawLine records a line from p0 to p1.
func (b *Builder) DrawLine(p0, p1 geom.Point) {
	if !b.push(drawLineOp{p0, p1}) {
		return
	}
	flags := DrawLineFlags
	if p0.X == p1.X || p0.Y == p1.Y {
		flags = DrawHVLineFlags
	}
	b.accumulateOp(geom.BoundsOf(p0, p1), flags, b.compatibleWithAttributes(true))
}

// DrawRect records a rect.
func (b *Builder) DrawRect(r geom.Rect) {
	if b.push(drawRectOp{r}) {
		b.accumulateOp(r.Sorted(), DrawRectFlags, b.compatibleWithAttributes(true))
	}
}

// DrawOval records the oval inscribed in bounds.
func (b *Builder) DrawOval(bounds geom.Rect) {
	if b.push(drawOvalOp{bounds}) {
		b.accumulateOp(bounds.Sorted(), DrawOvalFlags, b.compatibleWithAttributes(true))
	}
}

// DrawCircle records a circle.
func (b *Builder) DrawCircle(center geom.Point, radius float32) {
	if b.push(drawCircleOp{center, radius}) {
		r := geom.LTRB(center.X-radius, center.Y-radius, center.X+radius, center.Y+radius)
		b.accumulateOp(r, DrawCircleFlags, b.compatibleWithAttributes(true))
	}
}

// DrawRRect records a rounded rect.
func (b *Builder) DrawRRect(rr geom.RRect) {
	if b.push(drawRRectOp{rr}) {
		b.accumulateOp(rr.Rect, DrawRRectFlags, b.compatibleWithAttributes(true))
	}
}

// DrawDRRect records the area between outer and inner.
func (b *Builder) DrawDRRect(outer, inner geom.RRect) {
	if b.push(drawDRRectOp{outer, inner}) {
		b.accumulateOp(outer.Rect, DrawDRRectFlags, b.compatibleWithAttributes(true))
	}
}

// DrawPath records p. The path is shared, not copied.
func (b *Builder) DrawPath(p *geom.Path) {
	if b.push(drawPathOp{p}) {
		b.accumulateOp(p.Bounds(), DrawPathFlags, b.compatibleWithAttributes(true))
	}
}

// DrawArc records an arc of oval.
func (b *Builder) DrawArc(oval geom.Rect, startDegrees, sweepDegrees float32, useCenter bool) {
	if !b.push(drawArcOp{oval, startDegrees, sweepDegrees, useCenter}) {
		return
	}
	flags := DrawArcNoCenterFlags
	if useCenter {
		flags = DrawArcWithCenterFlags
	}
	b.accumulateOp(oval.Sorted(), flags, b.compatibleWithAttributes(true))
}

// DrawPoints records a copy of pts. An empty slice records nothing.
func (b *Builder) DrawPoints(mode PointMode, pts []geom.Point) {
	if len(pts) == 0 {
		return
	}
	if b.push(drawPointsOp{mode, slices.Clone(pts)}) {
		b.accumulateOp(geom.BoundsOf(pts...), DrawPointsFlags(mode), false)
	}
}

// DrawImage records img at a point, using the current attributes only
// when renderWithAttributes is set.
func (b *Builder) DrawImage(img Image, at geom.Point, sampling SamplingMode, renderWithAttributes bool) {
	if !b.push(drawImageOp{img, at, sampling, renderWithAttributes}) {
		return
	}
	flags := DrawImageFlags
	if renderWithAttributes {
		flags = DrawImageWithPaintFlags
	}
	size := img.Size()
	b.accumulateOp(geom.XYWH(at.X, at.Y, float32(size.Width), float32(size.Height)), flags,
		b.compatibleWithAttributes(renderWithAttributes))
}

// DrawImageRect records the src part of img scaled into dst.
func (b *Builder) DrawImageRect(img Image, src, dst geom.Rect, sampling SamplingMode, renderWithAttributes bool, constraint SrcRectConstraint) {
	if !b.push(drawImageRectOp{img, src, dst, sampling, renderWithAttributes, constraint}) {
		return
	}
	flags := DrawImageRectFlags
	if renderWithAttributes {
		flags = DrawImageRectWithPaintFlags
	}
	b.accumulateOp(dst.Sorted(), flags, b.compatibleWithAttributes(renderWithAttributes))
}

// DrawDisplayList records a nested list drawn at opacity.
func (b *Builder) DrawDisplayList(dl *DisplayList, opacity float32) {
	if dl == nil {
		return
	}
	if !b.push(drawDisplayListOp{dl, opacity}) {
		return
	}
	b.nestedOpCount += dl.OpCount(true)
	b.requiresBackdrop = b.requiresBackdrop || dl.RequiresBackdrop()
	b.accumulateOp(dl.Bounds(), DrawDisplayListFlags, dl.CanApplyGroupOpacity())
}

// DrawTextBlob records blob at (x, y). Text is never opacity compatible.
func (b *Builder) DrawTextBlob(blob *textblob.Blob, x, y float32) {
	if b.push(drawTextBlobOp{blob, x, y}) {
		b.accumulateOp(blob.Bounds().Offset(x, y), DrawTextBlobFlags, false)
	}
}

// DrawShadow records a shadow cast by p at elevation.
func (b *Builder) DrawShadow(p *geom.Path, c Color, elevation float32, transparentOccluder bool, dpr float32) {
	if b.push(drawShadowOp{p, c, elevation, transparentOccluder, dpr}) {
		b.accumulateOp(ComputeShadowBounds(p, elevation, dpr), DrawShadowFlags, false)
	}
}

// --------------------------------------------------------------------------
// Build
// --------------------------------------------------------------------------

// Build finishes recording and returns the list. Outstanding saves are a
// contract violation; in release builds they are closed automatically.
func (b *Builder) Build() *DisplayList {
	if b.built {
		check.Fail("displaylist: Build called twice")
		return &DisplayList{id: nextID(), canApplyGroupOpacity: true}
	}
	if n := len(b.frames) - 1; n > 0 {
		check.Fail("displaylist: Build with %d unbalanced Save calls", n)
		b.RestoreToCount(1)
	}
	root := b.frames[0].layer
	dl := &DisplayList{
		ops:                  b.ops,
		opBounds:             b.opBounds,
		bounds:               root.bounds,
		id:                   nextID(),
		nestedOpCount:        b.nestedOpCount,
		canApplyGroupOpacity: root.compatible,
		requiresBackdrop:     b.requiresBackdrop,
	}
	b.built = true
	b.ops, b.opBounds, b.frames = nil, nil, b.frames[:1]
	return dl
}
