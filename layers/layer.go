package layers

import (
	"sync/atomic"

	"github.com/gogpu/retain/geom"
	"github.com/gogpu/retain/internal/check"
)

// Layer is a node of the layer tree.
type Layer interface {
	// Preroll computes the paint bounds of the layer and sets
	// ctx.RenderableFlags to what the layer can apply on behalf of its
	// parent.
	Preroll(ctx *PrerollContext)
	// Paint draws the layer. The layer must have been prerolled.
	Paint(ctx *PaintContext)
	// Diff adds the damage between the layer and old, its linked
	// predecessor. old is nil when the subtree is already dirty.
	Diff(ctx *DiffContext, old Layer)
	// IsReplacing reports whether the layer is the successor of old.
	IsReplacing(ctx *DiffContext, old Layer) bool

	PaintBounds() geom.Rect
	NeedsPainting(ctx *PaintContext) bool

	UniqueID() uint64
	OriginalLayerID() uint64
	// AssignOldLayer links the layer to its predecessor in the previous
	// frame.
	AssignOldLayer(old Layer)
}

// State is the per-frame lifecycle of a layer.
type State uint8

const (
	Unprerolled State = iota
	Prerolled
	Painted
)

func (s State) String() string {
	switch s {
	case Unprerolled:
		return "Unprerolled"
	case Prerolled:
		return "Prerolled"
	case Painted:
		return "Painted"
	}
	return "Unknown"
}

var nextLayerID atomic.Uint64

// Base carries the bookkeeping every layer shares. Custom layers embed it
// and create it with NewBase.
type Base struct {
	id          uint64
	originalID  uint64
	paintBounds geom.Rect
	state       State
}

// NewBase allocates a fresh layer identity.
func NewBase() Base {
	id := nextLayerID.Add(1)
	return Base{id: id, originalID: id}
}

// UniqueID identifies this layer object. It is never reused.
func (b *Base) UniqueID() uint64 { return b.id }

// OriginalLayerID is the id of the first layer in the chain of
// predecessors linked with AssignOldLayer.
func (b *Base) OriginalLayerID() uint64 { return b.originalID }

// AssignOldLayer links the layer to its counterpart in the previous
// frame. A nil old leaves the layer unlinked.
func (b *Base) AssignOldLayer(old Layer) {
	if old != nil {
		b.originalID = old.OriginalLayerID()
	}
}

// IsReplacing reports whether old is linked to this layer.
func (b *Base) IsReplacing(_ *DiffContext, old Layer) bool {
	return old != nil && b.originalID == old.OriginalLayerID()
}

// PaintBounds returns the bounds computed by the last Preroll.
func (b *Base) PaintBounds() geom.Rect { return b.paintBounds }

// SetPaintBounds records the result of Preroll and moves the layer to the
// Prerolled state.
func (b *Base) SetPaintBounds(r geom.Rect) {
	b.paintBounds = r
	b.state = Prerolled
}

// State returns where the layer is in the current frame.
func (b *Base) State() State { return b.state }

func (b *Base) resetState() { b.state = Unprerolled }

// BeginPaint asserts that the layer was prerolled and marks it painted.
func (b *Base) BeginPaint() {
	check.Assert(b.state != Unprerolled, "layers: Paint of layer %d before Preroll", b.id)
	b.state = Painted
}

// NeedsPainting reports whether the paint bounds are non-empty and visible
// in the current cull rect.
func (b *Base) NeedsPainting(ctx *PaintContext) bool {
	if b.paintBounds.IsEmpty() {
		return false
	}
	return !ctx.StateStack.ContentCulled(b.paintBounds)
}

// ClipBehavior selects how clipping layers clip their children.
type ClipBehavior uint8

const (
	ClipNone ClipBehavior = iota
	ClipHardEdge
	ClipAntiAlias
	ClipAntiAliasWithSaveLayer
)

// String returns the name accepted by ParseClipBehavior.
func (c ClipBehavior) String() string {
	switch c {
	case ClipNone:
		return "none"
	case ClipHardEdge:
		return "hardEdge"
	case ClipAntiAlias:
		return "antiAlias"
	case ClipAntiAliasWithSaveLayer:
		return "antiAliasWithSaveLayer"
	}
	return "unknown"
}

// ParseClipBehavior returns the behavior named by s, as printed by String.
func ParseClipBehavior(s string) (ClipBehavior, bool) {
	for c := ClipNone; c <= ClipAntiAliasWithSaveLayer; c++ {
		if c.String() == s {
			return c, true
		}
	}
	return ClipNone, false
}
