package displaylist

import (
	"iter"
	"sync/atomic"

	"github.com/gogpu/retain/geom"
)

var lastID atomic.Uint64

func nextID() uint64 { return lastID.Add(1) }

// DisplayList is an immutable recorded op stream. It is safe for
// concurrent use by multiple goroutines.
type DisplayList struct {
	ops      []op
	opBounds []geom.Rect

	bounds               geom.Rect
	id                   uint64
	nestedOpCount        int
	canApplyGroupOpacity bool
	requiresBackdrop     bool
}

// UniqueID returns an identifier no other list in the process shares.
func (dl *DisplayList) UniqueID() uint64 { return dl.id }

// Bounds returns the union of the device bounds of every draw, in the
// coordinate space the list was recorded in.
func (dl *DisplayList) Bounds() geom.Rect { return dl.bounds }

// OpCount returns the number of recorded ops. With nested, the ops of
// nested display lists are added recursively.
func (dl *DisplayList) OpCount(nested bool) int {
	if nested {
		return len(dl.ops) + dl.nestedOpCount
	}
	return len(dl.ops)
}

// CanApplyGroupOpacity reports whether rendering every op with its alpha
// multiplied by a group opacity matches rendering the list into a layer
// and compositing that layer with the opacity.
func (dl *DisplayList) CanApplyGroupOpacity() bool { return dl.canApplyGroupOpacity }

// RequiresBackdrop reports whether the list contains a layer with a
// backdrop or image filter.
func (dl *DisplayList) RequiresBackdrop() bool { return dl.requiresBackdrop }

// Dispatch replays every op onto r, in order.
func (dl *DisplayList) Dispatch(r Receiver) {
	for _, o := range dl.ops {
		o.dispatch(r)
	}
}

// DispatchCulled replays the ops onto r, skipping draws whose device
// bounds miss cull. State, clip, transform and attribute ops always
// replay.
func (dl *DisplayList) DispatchCulled(r Receiver, cull geom.Rect) {
	if cull.ContainsRect(dl.bounds) {
		dl.Dispatch(r)
		return
	}
	for i, o := range dl.ops {
		if o.Type().IsDraw() && !dl.opBounds[i].Intersects(cull) {
			continue
		}
		o.dispatch(r)
	}
}

// Ops yields each op type with its recorded device bounds. Bounds are
// empty for ops other than draws and SaveLayer, and GiantRect for draws
// inside filtered layers.
func (dl *DisplayList) Ops() iter.Seq2[OpType, geom.Rect] {
	return func(yield func(OpType, geom.Rect) bool) {
		for i, o := range dl.ops {
			if !yield(o.Type(), dl.opBounds[i]) {
				return
			}
		}
	}
}

// Equals reports whether both lists record the same op stream. Images and
// text blobs compare by identity; paths and nested lists by content.
func (dl *DisplayList) Equals(other *DisplayList) bool {
	if dl == other {
		return true
	}
	if dl == nil || other == nil || len(dl.ops) != len(other.ops) {
		return false
	}
	for i := range dl.ops {
		if !opsEqual(dl.ops[i], other.ops[i]) {
			return false
		}
	}
	return true
}
