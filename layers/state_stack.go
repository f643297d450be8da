package layers

import (
	"github.com/gogpu/retain"
	"github.com/gogpu/retain/canvas"
	"github.com/gogpu/retain/displaylist"
	"github.com/gogpu/retain/geom"
	"github.com/gogpu/retain/internal/check"
)

// RenderFlags tell a parent which inherited attributes a layer can apply
// while painting, so the parent does not need a saveLayer for them.
type RenderFlags uint8

const (
	CallerCanApplyOpacity RenderFlags = 1 << iota
	CallerCanApplyColorFilter
	CallerCanApplyImageFilter

	CallerCanApplyAnything = CallerCanApplyOpacity | CallerCanApplyColorFilter | CallerCanApplyImageFilter
	// SaveLayerRenderFlags is what a layer that paints its children
	// through its own saveLayer can absorb.
	SaveLayerRenderFlags = CallerCanApplyAnything
)

// attributes are inherited rendering attributes not yet applied to the
// canvas.
type attributes struct {
	opacity     float32
	colorFilter displaylist.ColorFilter
	imageFilter displaylist.ImageFilter
}

func noAttributes() attributes { return attributes{opacity: 1} }

func (a attributes) isEmpty() bool {
	return a.opacity >= 1 && a.colorFilter == nil && a.imageFilter == nil
}

func (a attributes) paint() displaylist.Paint {
	p := displaylist.PaintWithColor(displaylist.Black.WithOpacity(a.opacity))
	p.ColorFilter = a.colorFilter
	p.ImageFilter = a.imageFilter
	return p
}

type stackEntry struct {
	matrix      geom.Matrix
	cull        geom.Rect
	attrs       attributes
	canvasCount int
}

// StateStack tracks the transform, device cull rect and outstanding
// attributes while walking a layer tree. During Paint it forwards
// transforms, clips and layers to a delegate canvas.
type StateStack struct {
	matrix  geom.Matrix
	cull    geom.Rect
	attrs   attributes
	canvas  canvas.Canvas
	entries []stackEntry
}

// NewStateStack returns an identity stack with an unbounded cull rect.
func NewStateStack() *StateStack {
	return &StateStack{matrix: geom.Identity(), cull: geom.GiantRect, attrs: noAttributes()}
}

// SetDelegate attaches the canvas that receives state changes. It can
// only be changed while nothing is saved.
func (s *StateStack) SetDelegate(c canvas.Canvas) {
	check.Assert(len(s.entries) == 0, "layers: delegate changed with %d saved states", len(s.entries))
	s.canvas = c
}

// Delegate returns the canvas attached with SetDelegate, or nil.
func (s *StateStack) Delegate() canvas.Canvas { return s.canvas }

// SetInitialTransform replaces the base matrix. Only valid at depth 0.
func (s *StateStack) SetInitialTransform(m geom.Matrix) {
	check.Assert(len(s.entries) == 0, "layers: initial transform set with %d saved states", len(s.entries))
	s.matrix = m
}

// SetDeviceCullRect replaces the base cull rect. Only valid at depth 0.
func (s *StateStack) SetDeviceCullRect(r geom.Rect) {
	check.Assert(len(s.entries) == 0, "layers: cull rect set with %d saved states", len(s.entries))
	s.cull = r
}

// Matrix returns the current local to device matrix.
func (s *StateStack) Matrix() geom.Matrix { return s.matrix }

// DeviceCullRect returns the cull rect in device space.
func (s *StateStack) DeviceCullRect() geom.Rect { return s.cull }

// Depth returns the number of outstanding saves.
func (s *StateStack) Depth() int { return len(s.entries) }

// LocalCullRect maps the device cull rect into the current local space. A
// non-invertible matrix gives an empty rect, culling everything.
func (s *StateStack) LocalCullRect() geom.Rect {
	if s.cull.IsEmpty() {
		return geom.Rect{}
	}
	inv, ok := s.matrix.Invert()
	if !ok {
		retain.Logger().Debug("layers: non-invertible matrix culls content", "matrix", s.matrix)
		return geom.Rect{}
	}
	return inv.MapRect(s.cull)
}

// ContentCulled reports whether local bounds r are outside the cull rect.
func (s *StateStack) ContentCulled(r geom.Rect) bool {
	if s.cull.IsEmpty() || r.IsEmpty() {
		return true
	}
	if _, ok := s.matrix.Invert(); !ok {
		return true
	}
	return !s.matrix.MapRect(r).Intersects(s.cull)
}

// Opacity is the outstanding opacity children are expected to apply.
func (s *StateStack) Opacity() float32 { return s.attrs.opacity }

// ColorFilter returns the outstanding color filter.
func (s *StateStack) ColorFilter() displaylist.ColorFilter { return s.attrs.colorFilter }

// ImageFilter returns the outstanding image filter.
func (s *StateStack) ImageFilter() displaylist.ImageFilter { return s.attrs.imageFilter }

// Fill applies the outstanding attributes to a copy of p. A nil p stands
// for the default paint; the result is nil when neither p nor any
// attribute is present.
func (s *StateStack) Fill(p *displaylist.Paint) *displaylist.Paint {
	if s.attrs.isEmpty() {
		return p
	}
	out := displaylist.NewPaint()
	if p != nil {
		out = *p
	}
	out.Color = out.Color.ModulateOpacity(s.attrs.opacity)
	if s.attrs.colorFilter != nil {
		out.ColorFilter = s.attrs.colorFilter
	}
	if s.attrs.imageFilter != nil {
		out.ImageFilter = s.attrs.imageFilter
	}
	return &out
}

// Save pushes the current state. The returned Mutator changes the state
// and undoes everything, including canvas saves, on Restore.
func (s *StateStack) Save() *Mutator {
	e := stackEntry{matrix: s.matrix, cull: s.cull, attrs: s.attrs}
	if s.canvas != nil {
		e.canvasCount = s.canvas.SaveCount()
	}
	s.entries = append(s.entries, e)
	return &Mutator{s: s, depth: len(s.entries)}
}

// ApplyState resolves the outstanding attributes the caller cannot apply
// itself into a saveLayer over bounds. It must be called inside a Save.
func (s *StateStack) ApplyState(bounds geom.Rect, flags RenderFlags) {
	check.Assert(len(s.entries) > 0, "layers: ApplyState outside of Save")
	a := s.attrs
	if (a.opacity < 1 && flags&CallerCanApplyOpacity == 0) ||
		(a.colorFilter != nil && flags&CallerCanApplyColorFilter == 0) ||
		(a.imageFilter != nil && flags&CallerCanApplyImageFilter == 0) {
		s.resolve(bounds)
	}
}

// resolve turns the outstanding attributes into a saveLayer.
func (s *StateStack) resolve(bounds geom.Rect) {
	if s.attrs.isEmpty() {
		return
	}
	if s.canvas != nil {
		p := s.attrs.paint()
		s.canvas.SaveLayer(boundsPtr(bounds), &p, nil)
	}
	s.attrs = noAttributes()
}

func (s *StateStack) restore(depth int) {
	check.Assert(depth == len(s.entries), "layers: state restored out of order (depth %d of %d)", depth, len(s.entries))
	if depth == 0 || depth > len(s.entries) {
		return
	}
	e := s.entries[depth-1]
	s.entries = s.entries[:depth-1]
	s.matrix, s.cull, s.attrs = e.matrix, e.cull, e.attrs
	if s.canvas != nil {
		s.canvas.RestoreToCount(e.canvasCount)
	}
}

func boundsPtr(r geom.Rect) *geom.Rect {
	if r.IsEmpty() {
		return nil
	}
	return &r
}

// Mutator changes the state saved by StateStack.Save.
type Mutator struct {
	s        *StateStack
	depth    int
	saved    bool
	restored bool
}

// save issues the canvas save backing this mutator the first time the
// canvas state changes.
func (m *Mutator) save() {
	if !m.saved && m.s.canvas != nil {
		m.s.canvas.Save()
		m.saved = true
	}
}

// Translate concatenates a translation. A zero offset does nothing.
func (m *Mutator) Translate(tx, ty float32) {
	if tx == 0 && ty == 0 {
		return
	}
	m.save()
	m.s.matrix = m.s.matrix.Concat(geom.Translate(tx, ty))
	if c := m.s.canvas; c != nil {
		c.Translate(tx, ty)
	}
}

// Transform concatenates t, identity included.
func (m *Mutator) Transform(t geom.Matrix) {
	m.save()
	m.s.matrix = m.s.matrix.Concat(t)
	if c := m.s.canvas; c != nil {
		c.Concat(t)
	}
}

func (m *Mutator) clipDevice(local geom.Rect) {
	m.s.cull = m.s.cull.Intersect(m.s.matrix.MapRect(local))
}

// ClipRect intersects the clip with r.
func (m *Mutator) ClipRect(r geom.Rect, aa bool) {
	m.save()
	m.clipDevice(r)
	if c := m.s.canvas; c != nil {
		c.ClipRect(r, displaylist.ClipIntersect, aa)
	}
}

// ClipRRect intersects the clip with rr.
func (m *Mutator) ClipRRect(rr geom.RRect, aa bool) {
	m.save()
	m.clipDevice(rr.Bounds())
	if c := m.s.canvas; c != nil {
		c.ClipRRect(rr, displaylist.ClipIntersect, aa)
	}
}

// ClipPath intersects the clip with p. The cull rect uses its bounds.
func (m *Mutator) ClipPath(p *geom.Path, aa bool) {
	m.save()
	m.clipDevice(p.Bounds())
	if c := m.s.canvas; c != nil {
		c.ClipPath(p, displaylist.ClipIntersect, aa)
	}
}

// ApplyOpacity multiplies the outstanding opacity. An outstanding image
// filter is resolved first because it must see the faded content.
func (m *Mutator) ApplyOpacity(bounds geom.Rect, opacity float32) {
	if m.s.attrs.imageFilter != nil {
		m.s.resolve(bounds)
	}
	m.s.attrs.opacity *= opacity
}

// ApplyColorFilter makes f outstanding. Any outstanding attribute is
// resolved first.
func (m *Mutator) ApplyColorFilter(bounds geom.Rect, f displaylist.ColorFilter) {
	if f == nil {
		return
	}
	if !m.s.attrs.isEmpty() {
		m.s.resolve(bounds)
	}
	m.s.attrs.colorFilter = f
}

// ApplyImageFilter makes f outstanding. Any outstanding attribute is
// resolved first.
func (m *Mutator) ApplyImageFilter(bounds geom.Rect, f displaylist.ImageFilter) {
	if f == nil {
		return
	}
	if !m.s.attrs.isEmpty() {
		m.s.resolve(bounds)
	}
	m.s.attrs.imageFilter = f
}

// SaveLayer starts a layer over bounds carrying all outstanding
// attributes, or a plain layer when none are outstanding.
func (m *Mutator) SaveLayer(bounds geom.Rect) {
	if !m.s.attrs.isEmpty() {
		m.s.resolve(bounds)
		return
	}
	if c := m.s.canvas; c != nil {
		c.SaveLayer(boundsPtr(bounds), nil, nil)
	}
}

// Restore undoes every change made since the matching Save. Calling it
// twice is a no-op.
func (m *Mutator) Restore() {
	if m.restored {
		return
	}
	m.restored = true
	m.s.restore(m.depth)
}
