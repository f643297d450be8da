package layers

import (
	"github.com/gogpu/retain/geom"
	"github.com/gogpu/retain/internal/check"
)

// TransformLayer draws its children under a matrix.
type TransformLayer struct {
	ContainerLayer
	transform geom.Matrix
}

// NewTransformLayer draws children under m.
func NewTransformLayer(m geom.Matrix, children ...Layer) *TransformLayer {
	return &TransformLayer{ContainerLayer: *NewContainerLayer(children...), transform: m}
}

// Transform returns the layer matrix.
func (l *TransformLayer) Transform() geom.Matrix { return l.transform }

// Preroll maps the children's bounds through the matrix. The layer passes
// its children's opacity compatibility up only when the matrix is
// invertible; a singular matrix culls all children.
func (l *TransformLayer) Preroll(ctx *PrerollContext) {
	m := ctx.StateStack.Save()
	defer m.Restore()
	m.Transform(l.transform)

	child := l.PrerollChildren(ctx)
	if _, ok := l.transform.Invert(); !ok {
		ctx.RenderableFlags = 0
	}
	l.SetPaintBounds(geom.TransformBounds(child, l.transform, nil))
}

// Paint concatenates the matrix and paints the children. The matrix is
// recorded even when it is the identity.
func (l *TransformLayer) Paint(ctx *PaintContext) {
	l.BeginPaint()
	m := ctx.StateStack.Save()
	defer m.Restore()
	m.Transform(l.transform)
	l.PaintChildren(ctx)
}

// Diff damages the old and new regions of the subtree when the matrix
// changed.
func (l *TransformLayer) Diff(ctx *DiffContext, old Layer) {
	ctx.BeginSubtree()
	defer ctx.EndSubtree()
	var prev *TransformLayer
	if !ctx.IsSubtreeDirty() {
		var ok bool
		prev, ok = old.(*TransformLayer)
		check.Assert(ok, "layers: TransformLayer linked to %T", old)
		if !ok || prev.transform != l.transform {
			ctx.MarkSubtreeDirty(ctx.GetOldLayerPaintRegion(old))
		}
	}
	ctx.PushTransform(l.transform)
	l.DiffChildren(ctx, containerOrNil(prev))
	ctx.SetLayerPaintRegion(l, ctx.CurrentSubtreeRegion())
}

// containerOrNil avoids wrapping a nil *T in a non-nil interface.
func containerOrNil[T containerOf](l T) *ContainerLayer {
	var zero T
	if any(l) == any(zero) {
		return nil
	}
	return l.container()
}
