package layers

import (
	"github.com/gogpu/retain/displaylist"
	"github.com/gogpu/retain/geom"
	"github.com/gogpu/retain/internal/check"
)

// ImageFilterLayer draws its children at an offset through an image
// filter. A nil filter draws the children unchanged.
type ImageFilterLayer struct {
	ContainerLayer
	filter displaylist.ImageFilter
	offset geom.Point
}

// NewImageFilterLayer filters children drawn at offset. A nil filter
// paints them unfiltered.
func NewImageFilterLayer(f displaylist.ImageFilter, offset geom.Point, children ...Layer) *ImageFilterLayer {
	return &ImageFilterLayer{ContainerLayer: *NewContainerLayer(children...), filter: f, offset: offset}
}

// Filter returns the image filter, which may be nil.
func (l *ImageFilterLayer) Filter() displaylist.ImageFilter { return l.filter }

// Offset returns the translation applied before filtering.
func (l *ImageFilterLayer) Offset() geom.Point { return l.offset }

// Preroll maps the children's bounds through the filter. Output the
// filter cannot bound covers the whole cull rect.
func (l *ImageFilterLayer) Preroll(ctx *PrerollContext) {
	m := ctx.StateStack.Save()
	defer m.Restore()
	m.Translate(l.offset.X, l.offset.Y)

	child := l.PrerollChildren(ctx)
	if l.filter == nil {
		l.SetPaintBounds(child.Offset(l.offset.X, l.offset.Y))
		return
	}
	ctx.RenderableFlags = SaveLayerRenderFlags
	bounds, ok := l.filter.MapLocalBounds(child)
	if !ok {
		// The filter can draw anywhere it is not clipped.
		bounds = ctx.StateStack.LocalCullRect()
	}
	l.SetPaintBounds(bounds.Offset(l.offset.X, l.offset.Y))
}

// Paint draws the children into a save layer composited through the
// filter.
func (l *ImageFilterLayer) Paint(ctx *PaintContext) {
	l.BeginPaint()
	m := ctx.StateStack.Save()
	defer m.Restore()
	m.Translate(l.offset.X, l.offset.Y)
	if l.filter != nil {
		m.ApplyImageFilter(l.childPaintBounds, l.filter)
		m.SaveLayer(l.childPaintBounds)
	}
	l.PaintChildren(ctx)
}

// Diff grows the damage of the children by the reach of the filter.
func (l *ImageFilterLayer) Diff(ctx *DiffContext, old Layer) {
	ctx.BeginSubtree()
	defer ctx.EndSubtree()
	var prev *ImageFilterLayer
	if !ctx.IsSubtreeDirty() {
		var ok bool
		prev, ok = old.(*ImageFilterLayer)
		check.Assert(ok, "layers: ImageFilterLayer linked to %T", old)
		if !ok || prev.filter != l.filter || prev.offset != l.offset {
			ctx.MarkSubtreeDirty(ctx.GetOldLayerPaintRegion(old))
		}
	}
	ctx.PushTransform(geom.Translate(l.offset.X, l.offset.Y))
	if l.filter != nil {
		f, ctm := l.filter, ctx.Transform()
		ctx.PushFilterBoundsAdjustment(func(r geom.Rect) geom.Rect {
			out, ok := f.MapDeviceBounds(r, ctm)
			if !ok {
				return geom.GiantRect
			}
			return out
		})
	}
	l.DiffChildren(ctx, containerOrNil(prev))
	ctx.SetLayerPaintRegion(l, ctx.CurrentSubtreeRegion())
}

// ColorFilterLayer draws its children through a color filter.
type ColorFilterLayer struct {
	ContainerLayer
	filter displaylist.ColorFilter
}

// NewColorFilterLayer draws children through f.
func NewColorFilterLayer(f displaylist.ColorFilter, children ...Layer) *ColorFilterLayer {
	return &ColorFilterLayer{ContainerLayer: *NewContainerLayer(children...), filter: f}
}

// Filter returns the color filter, which may be nil.
func (l *ColorFilterLayer) Filter() displaylist.ColorFilter { return l.filter }

// Preroll passes color filters down to children that can take them. A
// filter that floods transparent black always needs its own layer.
func (l *ColorFilterLayer) Preroll(ctx *PrerollContext) {
	m := ctx.StateStack.Save()
	defer m.Restore()
	m.ApplyColorFilter(geom.Rect{}, l.filter)

	child := l.PrerollChildren(ctx)
	if l.filter != nil && l.filter.ModifiesTransparentBlack() {
		ctx.RenderableFlags = 0
		child = ctx.StateStack.LocalCullRect()
	} else {
		ctx.RenderableFlags &= CallerCanApplyOpacity | CallerCanApplyColorFilter
	}
	l.SetPaintBounds(child)
}

// Paint hands the filter to the children, or uses a save layer when the
// filter floods transparent black.
func (l *ColorFilterLayer) Paint(ctx *PaintContext) {
	l.BeginPaint()
	m := ctx.StateStack.Save()
	defer m.Restore()
	m.ApplyColorFilter(l.childPaintBounds, l.filter)
	if l.filter != nil && l.filter.ModifiesTransparentBlack() {
		m.SaveLayer(l.PaintBounds())
	}
	l.PaintChildren(ctx)
}

// Diff damages the subtree when the filter changed.
func (l *ColorFilterLayer) Diff(ctx *DiffContext, old Layer) {
	ctx.BeginSubtree()
	defer ctx.EndSubtree()
	var prev *ColorFilterLayer
	if !ctx.IsSubtreeDirty() {
		var ok bool
		prev, ok = old.(*ColorFilterLayer)
		check.Assert(ok, "layers: ColorFilterLayer linked to %T", old)
		if !ok || prev.filter != l.filter {
			ctx.MarkSubtreeDirty(ctx.GetOldLayerPaintRegion(old))
		}
	}
	if l.filter != nil && l.filter.ModifiesTransparentBlack() {
		ctx.AddLayerBounds(ctx.CullRectLocal())
	}
	l.DiffChildren(ctx, containerOrNil(prev))
	ctx.SetLayerPaintRegion(l, ctx.CurrentSubtreeRegion())
}
