package layers

import (
	"github.com/gogpu/retain/displaylist"
	"github.com/gogpu/retain/geom"
	"github.com/gogpu/retain/internal/check"
)

// DisplayListLayer is a leaf drawing a recorded list at an offset.
type DisplayListLayer struct {
	Base
	offset geom.Point
	dl     *displaylist.DisplayList
}

// NewDisplayListLayer draws dl translated by offset.
func NewDisplayListLayer(offset geom.Point, dl *displaylist.DisplayList) *DisplayListLayer {
	check.Assert(dl != nil, "layers: nil display list")
	return &DisplayListLayer{Base: NewBase(), offset: offset, dl: dl}
}

// Offset returns the translation applied to the list.
func (l *DisplayListLayer) Offset() geom.Point { return l.offset }

// DisplayList returns the list drawn by the layer.
func (l *DisplayListLayer) DisplayList() *displaylist.DisplayList { return l.dl }

// Preroll takes the list bounds and passes opacity up when the list can
// apply it as a group.
func (l *DisplayListLayer) Preroll(ctx *PrerollContext) {
	if l.dl.CanApplyGroupOpacity() {
		ctx.RenderableFlags = CallerCanApplyOpacity
	} else {
		ctx.RenderableFlags = 0
	}
	l.SetPaintBounds(l.dl.Bounds().Offset(l.offset.X, l.offset.Y))
}

// Paint draws the list with the outstanding opacity.
func (l *DisplayListLayer) Paint(ctx *PaintContext) {
	l.BeginPaint()
	stack := ctx.StateStack
	m := stack.Save()
	defer m.Restore()
	m.Translate(l.offset.X, l.offset.Y)
	stack.ApplyState(l.dl.Bounds(), CallerCanApplyOpacity)
	ctx.Canvas.DrawDisplayList(l.dl, stack.Opacity())
}

// Diff damages the layer when the offset moved or the list differs in
// content.
func (l *DisplayListLayer) Diff(ctx *DiffContext, old Layer) {
	ctx.BeginSubtree()
	defer ctx.EndSubtree()
	if !ctx.IsSubtreeDirty() {
		prev, ok := old.(*DisplayListLayer)
		check.Assert(ok, "layers: DisplayListLayer linked to %T", old)
		if !ok || prev.offset != l.offset || !sameList(prev.dl, l.dl) {
			ctx.MarkSubtreeDirty(ctx.GetOldLayerPaintRegion(old))
		}
	}
	ctx.PushTransform(geom.Translate(l.offset.X, l.offset.Y))
	ctx.AddLayerBounds(l.dl.Bounds())
	ctx.SetLayerPaintRegion(l, ctx.CurrentSubtreeRegion())
}

func sameList(a, b *displaylist.DisplayList) bool {
	return a == b || a.Equals(b)
}
