package layers

import (
	"github.com/gogpu/retain"
	"github.com/gogpu/retain/geom"
	"github.com/gogpu/retain/internal/check"
)

// ContainerLayer groups children without changing how they are drawn. The
// other grouping layers embed it.
type ContainerLayer struct {
	Base
	children         []Layer
	childPaintBounds geom.Rect
}

// NewContainerLayer returns a layer that paints children in order.
func NewContainerLayer(children ...Layer) *ContainerLayer {
	return &ContainerLayer{Base: NewBase(), children: children}
}

// Add appends children in paint order.
func (l *ContainerLayer) Add(children ...Layer) {
	l.children = append(l.children, children...)
}

// Children returns the children in paint order.
func (l *ContainerLayer) Children() []Layer { return l.children }

// ChildPaintBounds is the union of the children's paint bounds from the
// last Preroll, in this layer's local space.
func (l *ContainerLayer) ChildPaintBounds() geom.Rect { return l.childPaintBounds }

// Preroll prerolls the children. Its bounds are their union.
func (l *ContainerLayer) Preroll(ctx *PrerollContext) {
	l.SetPaintBounds(l.PrerollChildren(ctx))
}

// PrerollChildren prerolls every child and returns the union of their paint
// bounds. ctx.RenderableFlags ends up as the flags all children share, or
// zero when two children overlap.
func (l *ContainerLayer) PrerollChildren(ctx *PrerollContext) geom.Rect {
	var bounds geom.Rect
	flags := CallerCanApplyAnything
	for _, child := range l.children {
		ctx.RenderableFlags = 0
		child.Preroll(ctx)
		flags &= ctx.RenderableFlags
		cb := child.PaintBounds()
		// Compared against the union so far, not pairwise. This is
		// conservative: disjoint children can still clear the flags.
		if bounds.Intersects(cb) {
			flags = 0
		}
		bounds = bounds.Union(cb)
	}
	ctx.RenderableFlags = flags
	l.childPaintBounds = bounds
	return bounds
}

// Paint paints the visible children.
func (l *ContainerLayer) Paint(ctx *PaintContext) {
	l.BeginPaint()
	l.PaintChildren(ctx)
}

// PaintChildren paints the children that are visible in the current cull
// rect.
func (l *ContainerLayer) PaintChildren(ctx *PaintContext) {
	for _, child := range l.children {
		if !child.NeedsPainting(ctx) {
			retain.Logger().Debug("layers: skipping culled layer", "id", child.UniqueID())
			continue
		}
		child.Paint(ctx)
	}
}

// Diff matches the children against those of old.
func (l *ContainerLayer) Diff(ctx *DiffContext, old Layer) {
	ctx.BeginSubtree()
	defer ctx.EndSubtree()
	l.DiffChildren(ctx, oldContainer(old))
	ctx.SetLayerPaintRegion(l, ctx.CurrentSubtreeRegion())
}

// containerOf lets DiffChildren reach the children of any layer embedding
// ContainerLayer.
type containerOf interface {
	container() *ContainerLayer
}

func (l *ContainerLayer) container() *ContainerLayer { return l }

func oldContainer(old Layer) *ContainerLayer {
	if old == nil {
		return nil
	}
	c, ok := old.(containerOf)
	check.Assert(ok, "layers: diffing a container against %T", old)
	if !ok {
		return nil
	}
	return c.container()
}

// DiffChildren matches the children with those of old by IsReplacing from
// both ends. Unmatched old children are damaged, unmatched new children
// are diffed as dirty subtrees and matched pairs are diffed against each
// other.
func (l *ContainerLayer) DiffChildren(ctx *DiffContext, old *ContainerLayer) {
	if ctx.IsSubtreeDirty() || old == nil {
		if !ctx.IsSubtreeDirty() {
			ctx.MarkSubtreeDirty(PaintRegion{})
		}
		for _, child := range l.children {
			child.Diff(ctx, nil)
		}
		return
	}

	prev := old.children
	newTop, oldTop := 0, 0
	newBottom, oldBottom := len(l.children)-1, len(prev)-1
	for newTop <= newBottom && oldTop <= oldBottom {
		if !l.children[newTop].IsReplacing(ctx, prev[oldTop]) {
			break
		}
		newTop++
		oldTop++
	}
	for newTop <= newBottom && oldTop <= oldBottom {
		if !l.children[newBottom].IsReplacing(ctx, prev[oldBottom]) {
			break
		}
		newBottom--
		oldBottom--
	}

	for i := oldTop; i <= oldBottom; i++ {
		ctx.AddDamage(ctx.GetOldLayerPaintRegion(prev[i]))
	}

	for i, child := range l.children {
		if i >= newTop && i <= newBottom {
			ctx.BeginSubtree()
			ctx.MarkSubtreeDirty(PaintRegion{})
			child.Diff(ctx, nil)
			ctx.EndSubtree()
			continue
		}
		j := i
		if i > newBottom {
			j = len(prev) - (len(l.children) - i)
		}
		prevChild := prev[j]
		region := ctx.GetOldLayerPaintRegion(prevChild)
		if child == prevChild && region.IsValid() {
			ctx.AddExistingPaintRegion(region)
			ctx.SetLayerPaintRegion(child, region)
			continue
		}
		child.Diff(ctx, prevChild)
	}
}
