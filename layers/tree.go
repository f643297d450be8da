package layers

import (
	"github.com/gogpu/retain"
	"github.com/gogpu/retain/canvas"
	"github.com/gogpu/retain/displaylist"
	"github.com/gogpu/retain/geom"
	"github.com/gogpu/retain/internal/check"
)

// LayerTree is one frame: a root layer, the frame size and the paint
// regions recorded by the last Diff.
type LayerTree struct {
	root      Layer
	frameSize geom.ISize
	dpr       float32

	cull      geom.Rect
	prerolled bool
	// regions is nil until the tree has been diffed.
	regions map[uint64]PaintRegion
}

// TreeOption configures a LayerTree.
type TreeOption func(*LayerTree)

// WithDevicePixelRatio sets the ratio used for shadows. The default is 1.
func WithDevicePixelRatio(dpr float32) TreeOption {
	return func(t *LayerTree) {
		if dpr > 0 {
			t.dpr = dpr
		}
	}
}

// NewLayerTree returns a tree for one frame of frameSize pixels.
func NewLayerTree(root Layer, frameSize geom.ISize, opts ...TreeOption) *LayerTree {
	check.Assert(root != nil, "layers: nil root layer")
	t := &LayerTree{root: root, frameSize: frameSize, dpr: 1}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Root returns the root layer.
func (t *LayerTree) Root() Layer { return t.root }

// FrameSize returns the frame size in pixels.
func (t *LayerTree) FrameSize() geom.ISize { return t.frameSize }

// DevicePixelRatio returns the ratio set by WithDevicePixelRatio.
func (t *LayerTree) DevicePixelRatio() float32 { return t.dpr }

func (t *LayerTree) frameRect() geom.Rect { return geom.IRectFromSize(t.frameSize).Rect() }

// PaintRegion returns what l painted according to the last Diff.
func (t *LayerTree) PaintRegion(l Layer) PaintRegion { return t.regions[l.UniqueID()] }

// Preroll computes paint bounds for the whole tree against a device cull
// rect. Every layer starts the frame Unprerolled, so a layer retained from
// an earlier frame that a parent skips cannot be painted with stale bounds.
func (t *LayerTree) Preroll(cull geom.Rect) {
	resetStates(t.root)
	stack := NewStateStack()
	stack.SetDeviceCullRect(cull)
	ctx := NewPrerollContext(stack, t.dpr)
	t.root.Preroll(ctx)
	t.cull = cull
	t.prerolled = true
}

func resetStates(l Layer) {
	if r, ok := l.(interface{ resetState() }); ok {
		r.resetState()
	}
	if c, ok := l.(interface{ Children() []Layer }); ok {
		for _, child := range c.Children() {
			resetStates(child)
		}
	}
}

// Paint draws the prerolled tree onto c.
func (t *LayerTree) Paint(c canvas.Canvas) {
	check.Assert(t.prerolled, "layers: Paint before Preroll")
	stack := NewStateStack()
	stack.SetDeviceCullRect(t.cull)
	ctx := NewPaintContext(stack, c, t.dpr)
	if !t.root.NeedsPainting(ctx) {
		retain.Logger().Debug("layers: nothing to paint", "bounds", t.root.PaintBounds())
		return
	}
	t.root.Paint(ctx)
}

// Flatten prerolls the tree against bounds and records it into a single
// display list.
func (t *LayerTree) Flatten(bounds geom.Rect) *displaylist.DisplayList {
	t.Preroll(bounds)
	rec := canvas.NewRecorder(bounds)
	t.Paint(rec)
	return rec.Build()
}

type diffOptions struct {
	additional     geom.IRect
	hAlign, vAlign int32
}

// DiffOption configures LayerTree.Diff.
type DiffOption func(*diffOptions)

// WithAdditionalDamage joins r into the buffer damage, typically the
// damage the target buffer accumulated since it was last drawn.
func WithAdditionalDamage(r geom.IRect) DiffOption {
	return func(o *diffOptions) { o.additional = r }
}

// WithAlignment expands the damage to multiples of h by v pixels.
func WithAlignment(h, v int32) DiffOption {
	return func(o *diffOptions) { o.hAlign, o.vAlign = h, v }
}

// Diff returns the damage between old and t and records t's paint regions
// for the next frame. A nil old, or one that was never diffed itself,
// damages the whole frame. So does a root that does not replace old's
// root.
func (t *LayerTree) Diff(old *LayerTree, opts ...DiffOption) Damage {
	var o diffOptions
	for _, opt := range opts {
		opt(&o)
	}

	t.regions = make(map[uint64]PaintRegion)
	var oldRegions map[uint64]PaintRegion
	if old != nil {
		oldRegions = old.regions
	}
	ctx := NewDiffContext(t.frameSize, t.dpr, t.regions, oldRegions)
	ctx.PushCullRect(t.frameRect())

	switch {
	case old == nil || old.regions == nil:
		ctx.AddDamageRect(t.frameRect())
		ctx.MarkSubtreeDirty(PaintRegion{})
		t.root.Diff(ctx, nil)
	case !t.root.IsReplacing(ctx, old.root):
		ctx.MarkSubtreeDirty(ctx.GetOldLayerPaintRegion(old.root))
		t.root.Diff(ctx, nil)
	default:
		t.root.Diff(ctx, old.root)
	}
	return ctx.ComputeDamage(o.additional, o.hAlign, o.vAlign)
}
