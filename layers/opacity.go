package layers

import (
	"github.com/gogpu/retain/geom"
	"github.com/gogpu/retain/internal/check"
)

// OpacityLayer draws its children with an alpha at an offset.
type OpacityLayer struct {
	ContainerLayer
	alpha  uint8
	offset geom.Point

	childrenCanAcceptOpacity bool
}

// NewOpacityLayer draws children at alpha, translated by offset.
func NewOpacityLayer(alpha uint8, offset geom.Point, children ...Layer) *OpacityLayer {
	return &OpacityLayer{ContainerLayer: *NewContainerLayer(children...), alpha: alpha, offset: offset}
}

// Alpha returns the alpha in [0, 255].
func (l *OpacityLayer) Alpha() uint8 { return l.alpha }

// Offset returns the translation of the children.
func (l *OpacityLayer) Offset() geom.Point { return l.offset }

// Opacity returns the alpha as a fraction.
func (l *OpacityLayer) Opacity() float32 { return float32(l.alpha) / 255 }

// ChildrenCanAcceptOpacity reports whether the last Preroll found that the
// children can apply the alpha themselves.
func (l *OpacityLayer) ChildrenCanAcceptOpacity() bool { return l.childrenCanAcceptOpacity }

// Preroll always tells the parent it can take more opacity: the alpha is
// folded into the children or into this layer's saveLayer.
func (l *OpacityLayer) Preroll(ctx *PrerollContext) {
	m := ctx.StateStack.Save()
	defer m.Restore()
	m.Translate(l.offset.X, l.offset.Y)
	m.ApplyOpacity(geom.Rect{}, l.Opacity())

	child := l.PrerollChildren(ctx)
	l.childrenCanAcceptOpacity = ctx.RenderableFlags&CallerCanApplyOpacity != 0
	ctx.RenderableFlags |= CallerCanApplyOpacity
	l.SetPaintBounds(child.Offset(l.offset.X, l.offset.Y))
}

// Paint passes the opacity to the children when they can take it, and
// uses a save layer otherwise.
func (l *OpacityLayer) Paint(ctx *PaintContext) {
	l.BeginPaint()
	m := ctx.StateStack.Save()
	defer m.Restore()
	m.Translate(l.offset.X, l.offset.Y)
	m.ApplyOpacity(l.childPaintBounds, l.Opacity())
	if !l.childrenCanAcceptOpacity {
		m.SaveLayer(l.childPaintBounds)
	}
	l.PaintChildren(ctx)
}

// Diff damages the subtree when alpha or offset changed.
func (l *OpacityLayer) Diff(ctx *DiffContext, old Layer) {
	ctx.BeginSubtree()
	defer ctx.EndSubtree()
	var prev *OpacityLayer
	if !ctx.IsSubtreeDirty() {
		var ok bool
		prev, ok = old.(*OpacityLayer)
		check.Assert(ok, "layers: OpacityLayer linked to %T", old)
		if !ok || prev.alpha != l.alpha || prev.offset != l.offset {
			ctx.MarkSubtreeDirty(ctx.GetOldLayerPaintRegion(old))
		}
	}
	ctx.PushTransform(geom.Translate(l.offset.X, l.offset.Y))
	l.DiffChildren(ctx, containerOrNil(prev))
	ctx.SetLayerPaintRegion(l, ctx.CurrentSubtreeRegion())
}
