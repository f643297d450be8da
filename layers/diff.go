package layers

import (
	"github.com/gogpu/retain/geom"
)

// PaintRegion is the list of device rects a layer subtree painted in a
// frame. The zero value is invalid, meaning the region is unknown.
type PaintRegion struct {
	rects []geom.Rect
	valid bool
}

// IsValid reports whether the region was recorded.
func (r PaintRegion) IsValid() bool { return r.valid }

// Rects returns the device rects. The slice must not be modified.
func (r PaintRegion) Rects() []geom.Rect { return r.rects }

// Bounds is the union of the region's rects.
func (r PaintRegion) Bounds() geom.Rect {
	var b geom.Rect
	for _, rect := range r.rects {
		b = b.Union(rect)
	}
	return b
}

// Damage is the result of a diff.
type Damage struct {
	// FrameDamage is the area that changed since the previous frame.
	FrameDamage geom.IRect
	// BufferDamage is FrameDamage plus any additional damage the caller
	// supplied, such as the age of the buffer being drawn into.
	BufferDamage geom.IRect
}

// IsEmpty reports whether nothing needs repainting.
func (d Damage) IsEmpty() bool { return d.BufferDamage.IsEmpty() }

type diffState struct {
	matrix geom.Matrix
	cull   geom.Rect
	dirty  bool
	// rectIndex is where the rects of the current subtree start.
	rectIndex int
	// filters is the depth of the filter adjustment stack.
	filters int
}

// DiffContext accumulates damage while a new layer tree is compared with
// the previous one. One context serves one diff.
type DiffContext struct {
	frameSize geom.ISize
	state     diffState
	saved     []diffState
	rects     []geom.Rect
	filters   []func(geom.Rect) geom.Rect
	damage    geom.Rect

	dpr        float32
	newRegions map[uint64]PaintRegion
	oldRegions map[uint64]PaintRegion
}

// NewDiffContext creates a context for a frame of frameSize. Paint regions
// of the new tree are written to newRegions; oldRegions holds those of the
// previous frame and may be nil.
func NewDiffContext(frameSize geom.ISize, dpr float32, newRegions, oldRegions map[uint64]PaintRegion) *DiffContext {
	if dpr <= 0 {
		dpr = 1
	}
	return &DiffContext{
		frameSize:  frameSize,
		state:      diffState{matrix: geom.Identity(), cull: geom.GiantRect},
		dpr:        dpr,
		newRegions: newRegions,
		oldRegions: oldRegions,
	}
}

// DevicePixelRatio is the ratio shadows are computed with.
func (c *DiffContext) DevicePixelRatio() float32 { return c.dpr }

// BeginSubtree saves the transform, cull rect and dirty flag. Rects added
// until the matching EndSubtree form the subtree's region.
func (c *DiffContext) BeginSubtree() {
	c.saved = append(c.saved, c.state)
	c.state.rectIndex = len(c.rects)
}

// EndSubtree restores the state saved by BeginSubtree. The subtree's rects
// stay part of the enclosing region.
func (c *DiffContext) EndSubtree() {
	c.state = c.saved[len(c.saved)-1]
	c.saved = c.saved[:len(c.saved)-1]
	c.filters = c.filters[:c.state.filters]
}

// PushTransform concatenates m until the subtree ends.
func (c *DiffContext) PushTransform(m geom.Matrix) {
	c.state.matrix = c.state.matrix.Concat(m)
}

// Transform returns the current local to device matrix.
func (c *DiffContext) Transform() geom.Matrix { return c.state.matrix }

// PushCullRect intersects the device cull rect with local rect r and
// reports whether anything is left.
func (c *DiffContext) PushCullRect(r geom.Rect) bool {
	c.state.cull = c.state.cull.Intersect(c.state.matrix.MapRect(r))
	return !c.state.cull.IsEmpty()
}

// CullRect is the current cull rect in device space.
func (c *DiffContext) CullRect() geom.Rect { return c.state.cull }

// CullRectLocal is the cull rect in the current local space, or empty when
// the transform is singular.
func (c *DiffContext) CullRectLocal() geom.Rect {
	inv, ok := c.state.matrix.Invert()
	if !ok {
		return geom.Rect{}
	}
	return inv.MapRect(c.state.cull)
}

// PushFilterBoundsAdjustment registers a device-space mapping applied to
// the bounds of every layer added in the current subtree, innermost
// first.
func (c *DiffContext) PushFilterBoundsAdjustment(fn func(geom.Rect) geom.Rect) {
	c.filters = append(c.filters, fn)
	c.state.filters = len(c.filters)
}

// MarkSubtreeDirty marks the current subtree as changed. Every rect added
// to it becomes damage, as does previous, the region the subtree painted
// in the old frame, when it is valid.
func (c *DiffContext) MarkSubtreeDirty(previous PaintRegion) {
	c.state.dirty = true
	if previous.IsValid() {
		c.AddDamage(previous)
	}
}

// MarkSubtreeEmpty discards the current cull rect so nothing more in the
// subtree is added.
func (c *DiffContext) MarkSubtreeEmpty() {
	c.state.cull = geom.Rect{}
}

// IsSubtreeDirty reports whether an ancestor or this subtree was marked
// dirty.
func (c *DiffContext) IsSubtreeDirty() bool { return c.state.dirty }

// AddLayerBounds adds local rect r, mapped through the current transform
// and filter adjustments, to the current subtree's region.
func (c *DiffContext) AddLayerBounds(r geom.Rect) {
	device := c.state.matrix.MapRect(r)
	for i := len(c.filters) - 1; i >= 0; i-- {
		device = c.filters[i](device)
	}
	if !device.Intersects(c.state.cull) {
		return
	}
	c.rects = append(c.rects, device)
	if c.state.dirty {
		c.AddDamageRect(device)
	}
}

// AddExistingPaintRegion adds the region of a retained, unchanged layer.
func (c *DiffContext) AddExistingPaintRegion(r PaintRegion) {
	if r.IsValid() {
		c.rects = append(c.rects, r.rects...)
	}
}

// AddDamage adds every rect of r to the frame damage.
func (c *DiffContext) AddDamage(r PaintRegion) {
	for _, rect := range r.rects {
		c.AddDamageRect(rect)
	}
}

// AddDamageRect adds device rect r to the frame damage.
func (c *DiffContext) AddDamageRect(r geom.Rect) {
	c.damage = c.damage.Union(r)
}

// CurrentSubtreeRegion returns the rects added since BeginSubtree.
func (c *DiffContext) CurrentSubtreeRegion() PaintRegion {
	rects := c.rects[c.state.rectIndex:len(c.rects):len(c.rects)]
	return PaintRegion{rects: rects, valid: true}
}

// SetLayerPaintRegion stores what l painted, for the next frame to
// compare with.
func (c *DiffContext) SetLayerPaintRegion(l Layer, r PaintRegion) {
	if c.newRegions != nil {
		c.newRegions[l.UniqueID()] = r
	}
}

// GetOldLayerPaintRegion returns what old painted in the previous frame.
func (c *DiffContext) GetOldLayerPaintRegion(old Layer) PaintRegion {
	if old == nil {
		return PaintRegion{}
	}
	return c.oldRegions[old.UniqueID()]
}

// ComputeDamage rounds the accumulated damage out to pixels, joins
// additional into the buffer damage, clips both to the frame and, for
// alignments above 1, expands them to multiples of the alignment.
func (c *DiffContext) ComputeDamage(additional geom.IRect, hAlign, vAlign int32) Damage {
	frame := geom.IRectFromSize(c.frameSize)
	d := Damage{FrameDamage: c.damage.RoundOut()}
	d.BufferDamage = d.FrameDamage.Union(additional)
	d.FrameDamage = d.FrameDamage.Intersect(frame)
	d.BufferDamage = d.BufferDamage.Intersect(frame)
	if hAlign > 1 || vAlign > 1 {
		d.FrameDamage = d.FrameDamage.Align(hAlign, vAlign).Intersect(frame)
		d.BufferDamage = d.BufferDamage.Align(hAlign, vAlign).Intersect(frame)
	}
	return d
}
