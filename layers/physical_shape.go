package layers

import (
	"github.com/gogpu/retain/displaylist"
	"github.com/gogpu/retain/geom"
	"github.com/gogpu/retain/internal/check"
)

// PhysicalShapeLayer fills a path raised to an elevation, casting a shadow
// below it, and clips its children to the path.
type PhysicalShapeLayer struct {
	ContainerLayer
	path        *geom.Path
	color       displaylist.Color
	shadowColor displaylist.Color
	elevation   float32
	behavior    ClipBehavior
}

// NewPhysicalShapeLayer fills path with color above a shadow cast from
// elevation, and clips the children to path unless behavior is ClipNone.
func NewPhysicalShapeLayer(path *geom.Path, color, shadowColor displaylist.Color, elevation float32,
	behavior ClipBehavior, children ...Layer,
) *PhysicalShapeLayer {
	return &PhysicalShapeLayer{
		ContainerLayer: *NewContainerLayer(children...),
		path:           path,
		color:          color,
		shadowColor:    shadowColor,
		elevation:      elevation,
		behavior:       behavior,
	}
}

// Path returns the shape.
func (l *PhysicalShapeLayer) Path() *geom.Path { return l.path }

// Color returns the fill color.
func (l *PhysicalShapeLayer) Color() displaylist.Color { return l.color }

// ShadowColor returns the shadow color.
func (l *PhysicalShapeLayer) ShadowColor() displaylist.Color { return l.shadowColor }

// Elevation returns the height the shadow is cast from.
func (l *PhysicalShapeLayer) Elevation() float32 { return l.elevation }

// ClipBehavior returns how children are clipped to the shape.
func (l *PhysicalShapeLayer) ClipBehavior() ClipBehavior { return l.behavior }

func (l *PhysicalShapeLayer) usesSaveLayer() bool { return l.behavior == ClipAntiAliasWithSaveLayer }

// bounds covers the shape and its shadow.
func (l *PhysicalShapeLayer) bounds(dpr float32) geom.Rect {
	if l.elevation == 0 {
		return l.path.Bounds()
	}
	return displaylist.ComputeShadowBounds(l.path, l.elevation, dpr)
}

// Preroll covers the shape and its shadow, plus the children when they
// are not clipped.
func (l *PhysicalShapeLayer) Preroll(ctx *PrerollContext) {
	child := l.PrerollChildren(ctx)
	bounds := l.bounds(ctx.DevicePixelRatio)
	if l.behavior == ClipNone {
		bounds = bounds.Union(child)
	}
	if l.usesSaveLayer() {
		ctx.RenderableFlags = SaveLayerRenderFlags
	} else {
		ctx.RenderableFlags = 0
	}
	l.SetPaintBounds(bounds)
}

// Paint draws the shadow, fills the shape and paints the clipped
// children.
func (l *PhysicalShapeLayer) Paint(ctx *PaintContext) {
	l.BeginPaint()
	stack := ctx.StateStack
	m := stack.Save()
	defer m.Restore()
	stack.ApplyState(l.PaintBounds(), 0)

	c := ctx.Canvas
	if l.elevation != 0 {
		c.DrawShadow(l.path, l.shadowColor, l.elevation, l.color.Alpha() != 0xff, ctx.DevicePixelRatio)
	}

	paint := displaylist.PaintWithColor(l.color)
	paint.AntiAlias = true
	if !l.usesSaveLayer() {
		c.DrawPath(l.path, &paint)
	}

	switch l.behavior {
	case ClipHardEdge:
		m.ClipPath(l.path, false)
	case ClipAntiAlias:
		m.ClipPath(l.path, true)
	case ClipAntiAliasWithSaveLayer:
		m.ClipPath(l.path, true)
		b := l.path.Bounds()
		c.SaveLayer(&b, nil, nil)
		c.DrawPaint(&paint)
	}
	l.PaintChildren(ctx)
}

// Diff damages the subtree when any shape property changed.
func (l *PhysicalShapeLayer) Diff(ctx *DiffContext, old Layer) {
	ctx.BeginSubtree()
	defer ctx.EndSubtree()
	var prev *PhysicalShapeLayer
	if !ctx.IsSubtreeDirty() {
		var ok bool
		prev, ok = old.(*PhysicalShapeLayer)
		check.Assert(ok, "layers: PhysicalShapeLayer linked to %T", old)
		if !ok || !l.sameShape(prev) {
			ctx.MarkSubtreeDirty(ctx.GetOldLayerPaintRegion(old))
		}
	}
	ctx.AddLayerBounds(l.bounds(ctx.DevicePixelRatio()))
	if l.behavior == ClipNone || ctx.PushCullRect(l.path.Bounds()) {
		l.DiffChildren(ctx, containerOrNil(prev))
	}
	ctx.SetLayerPaintRegion(l, ctx.CurrentSubtreeRegion())
}

func (l *PhysicalShapeLayer) sameShape(o *PhysicalShapeLayer) bool {
	return l.color == o.color && l.shadowColor == o.shadowColor &&
		l.elevation == o.elevation && l.behavior == o.behavior &&
		(l.path == o.path || l.path.Equals(o.path))
}
