package layers

import (
	"github.com/gogpu/retain/geom"
	"github.com/gogpu/retain/internal/check"
)

// clipLayer is the shared part of the clipping layers.
type clipLayer struct {
	ContainerLayer
	behavior ClipBehavior
}

func newClipLayer(behavior ClipBehavior, children []Layer) clipLayer {
	check.Assert(behavior != ClipNone, "layers: clip layer with ClipNone")
	return clipLayer{ContainerLayer: *NewContainerLayer(children...), behavior: behavior}
}

func (l *clipLayer) ClipBehavior() ClipBehavior { return l.behavior }

func (l *clipLayer) usesSaveLayer() bool { return l.behavior == ClipAntiAliasWithSaveLayer }

func (l *clipLayer) antiAlias() bool { return l.behavior != ClipHardEdge }

func (l *clipLayer) preroll(ctx *PrerollContext, clip geom.Rect, apply func(*Mutator)) {
	m := ctx.StateStack.Save()
	defer m.Restore()
	apply(m)

	child := l.PrerollChildren(ctx)
	if l.usesSaveLayer() {
		ctx.RenderableFlags = SaveLayerRenderFlags
	}
	l.SetPaintBounds(child.Intersect(clip))
}

func (l *clipLayer) paint(ctx *PaintContext, apply func(*Mutator)) {
	l.BeginPaint()
	m := ctx.StateStack.Save()
	defer m.Restore()
	apply(m)
	if l.usesSaveLayer() {
		m.SaveLayer(l.PaintBounds())
	}
	l.PaintChildren(ctx)
}

// diff compares with prev, which is nil when the subtree is dirty or the
// link has the wrong kind. sameShape reports whether the clip shapes match.
func (l *clipLayer) diff(ctx *DiffContext, self, old Layer, prev *clipLayer, sameShape bool, clip geom.Rect) {
	ctx.BeginSubtree()
	defer ctx.EndSubtree()
	if !ctx.IsSubtreeDirty() {
		if prev == nil || !sameShape || prev.usesSaveLayer() != l.usesSaveLayer() {
			ctx.MarkSubtreeDirty(ctx.GetOldLayerPaintRegion(old))
		}
	}
	if ctx.PushCullRect(clip) {
		var prevC *ContainerLayer
		if prev != nil {
			prevC = &prev.ContainerLayer
		}
		l.DiffChildren(ctx, prevC)
	}
	ctx.SetLayerPaintRegion(self, ctx.CurrentSubtreeRegion())
}

// ClipRectLayer clips its children to a rectangle.
type ClipRectLayer struct {
	clipLayer
	rect geom.Rect
}

// NewClipRectLayer clips children to r.
func NewClipRectLayer(r geom.Rect, behavior ClipBehavior, children ...Layer) *ClipRectLayer {
	return &ClipRectLayer{clipLayer: newClipLayer(behavior, children), rect: r}
}

// ClipRect returns the clip rect in local space.
func (l *ClipRectLayer) ClipRect() geom.Rect { return l.rect }

func (l *ClipRectLayer) apply(m *Mutator) { m.ClipRect(l.rect, l.antiAlias()) }

// Preroll prerolls the children under the clip and limits the bounds to r.
func (l *ClipRectLayer) Preroll(ctx *PrerollContext) { l.preroll(ctx, l.rect, l.apply) }

// Paint clips the canvas and paints the children.
func (l *ClipRectLayer) Paint(ctx *PaintContext) { l.paint(ctx, l.apply) }

// Diff damages the subtree when the rect or behavior changed, and diffs
// only children inside the clip.
func (l *ClipRectLayer) Diff(ctx *DiffContext, old Layer) {
	var prev *clipLayer
	same := false
	if !ctx.IsSubtreeDirty() {
		p, ok := old.(*ClipRectLayer)
		check.Assert(ok, "layers: ClipRectLayer linked to %T", old)
		if ok {
			prev, same = &p.clipLayer, p.rect == l.rect
		}
	}
	l.diff(ctx, l, old, prev, same, l.rect)
}

// ClipRRectLayer clips its children to a rounded rectangle.
type ClipRRectLayer struct {
	clipLayer
	rrect geom.RRect
}

// NewClipRRectLayer clips children to rr.
func NewClipRRectLayer(rr geom.RRect, behavior ClipBehavior, children ...Layer) *ClipRRectLayer {
	return &ClipRRectLayer{clipLayer: newClipLayer(behavior, children), rrect: rr}
}

// ClipRRect returns the clip shape.
func (l *ClipRRectLayer) ClipRRect() geom.RRect { return l.rrect }

func (l *ClipRRectLayer) apply(m *Mutator) { m.ClipRRect(l.rrect, l.antiAlias()) }

// Preroll prerolls the children under the clip.
func (l *ClipRRectLayer) Preroll(ctx *PrerollContext) { l.preroll(ctx, l.rrect.Bounds(), l.apply) }

// Paint clips the canvas and paints the children.
func (l *ClipRRectLayer) Paint(ctx *PaintContext) { l.paint(ctx, l.apply) }

// Diff damages the subtree when the shape or behavior changed.
func (l *ClipRRectLayer) Diff(ctx *DiffContext, old Layer) {
	var prev *clipLayer
	same := false
	if !ctx.IsSubtreeDirty() {
		p, ok := old.(*ClipRRectLayer)
		check.Assert(ok, "layers: ClipRRectLayer linked to %T", old)
		if ok {
			prev, same = &p.clipLayer, p.rrect == l.rrect
		}
	}
	l.diff(ctx, l, old, prev, same, l.rrect.Bounds())
}

// ClipPathLayer clips its children to a path.
type ClipPathLayer struct {
	clipLayer
	path *geom.Path
}

// NewClipPathLayer clips children to p.
func NewClipPathLayer(p *geom.Path, behavior ClipBehavior, children ...Layer) *ClipPathLayer {
	return &ClipPathLayer{clipLayer: newClipLayer(behavior, children), path: p}
}

// ClipPath returns the clip path. It must not be modified.
func (l *ClipPathLayer) ClipPath() *geom.Path { return l.path }

func (l *ClipPathLayer) apply(m *Mutator) { m.ClipPath(l.path, l.antiAlias()) }

// Preroll prerolls the children under the clip path.
func (l *ClipPathLayer) Preroll(ctx *PrerollContext) { l.preroll(ctx, l.path.Bounds(), l.apply) }

// Paint clips the canvas and paints the children.
func (l *ClipPathLayer) Paint(ctx *PaintContext) { l.paint(ctx, l.apply) }

// Diff compares paths by content, so an equal path built again is not
// damage.
func (l *ClipPathLayer) Diff(ctx *DiffContext, old Layer) {
	var prev *clipLayer
	same := false
	if !ctx.IsSubtreeDirty() {
		p, ok := old.(*ClipPathLayer)
		check.Assert(ok, "layers: ClipPathLayer linked to %T", old)
		if ok {
			prev, same = &p.clipLayer, p.path == l.path || p.path.Equals(l.path)
		}
	}
	l.diff(ctx, l, old, prev, same, l.path.Bounds())
}
