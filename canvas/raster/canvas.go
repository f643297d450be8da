package raster

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/gogpu/retain"
	"github.com/gogpu/retain/canvas"
	"github.com/gogpu/retain/displaylist"
	"github.com/gogpu/retain/geom"
)

func init() {
	canvas.Register("raster", func(w, h int) (canvas.Canvas, error) {
		if w <= 0 || h <= 0 {
			return nil, fmt.Errorf("raster: invalid size %dx%d", w, h)
		}
		return New(w, h), nil
	})
}

// Option configures a Canvas during creation.
type Option func(*options)

type options struct {
	background displaylist.Color
	tolerance  float32
}

// WithBackground fills the canvas with c before any drawing.
func WithBackground(c displaylist.Color) Option {
	return func(o *options) { o.background = c }
}

// WithTolerance sets the curve flattening tolerance in device pixels.
// Smaller values give smoother curves at a higher cost.
func WithTolerance(t float32) Option {
	return func(o *options) {
		if t > 0 {
			o.tolerance = t
		}
	}
}

// saved is one entry of the save stack.
type saved struct {
	matrix geom.Matrix
	clip   *mask
	target *image.RGBA

	// Set when the entry was pushed by SaveLayer.
	layer *pendingLayer
}

type pendingLayer struct {
	paint  *displaylist.Paint
	bounds image.Rectangle
	ctm    geom.Matrix
}

// Canvas renders into an *image.RGBA.
type Canvas struct {
	img       *image.RGBA
	target    *image.RGBA
	matrix    geom.Matrix
	clip      *mask
	stack     []saved
	tolerance float32
}

var _ canvas.ImageCanvas = (*Canvas)(nil)

// New creates a w by h canvas.
func New(w, h int, opts ...Option) *Canvas {
	o := options{tolerance: 0.25}
	for _, opt := range opts {
		opt(&o)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	c := &Canvas{img: img, target: img, matrix: geom.Identity(), tolerance: o.tolerance}
	if !o.background.IsTransparent() {
		c.DrawColor(o.background, displaylist.BlendSrc)
	}
	return c
}

// Image returns the rendered image. Content drawn inside an unrestored
// SaveLayer is not visible yet.
func (c *Canvas) Image() *image.RGBA { return c.img }

// SavePNG encodes the image to a PNG file.
func (c *Canvas) SavePNG(path string) error {
	if err := imaging.Save(c.img, path); err != nil {
		return fmt.Errorf("raster: save %s: %w", path, err)
	}
	return nil
}

func (c *Canvas) bounds() image.Rectangle { return c.img.Bounds() }

// Save pushes the matrix, clip and target.
func (c *Canvas) Save() {
	c.stack = append(c.stack, saved{matrix: c.matrix, clip: c.clip, target: c.target})
}

// SaveLayer redirects drawing into a transparent offscreen image. With a
// backdrop filter the offscreen starts as a filtered copy of what is
// already drawn.
func (c *Canvas) SaveLayer(bounds *geom.Rect, paint *displaylist.Paint, backdrop displaylist.ImageFilter) {
	area := c.clipBounds()
	if bounds != nil {
		area = area.Intersect(deviceRect(c.matrix.MapRect(*bounds)))
	}
	var p *displaylist.Paint
	if paint != nil {
		cp := *paint
		p = &cp
	}
	c.stack = append(c.stack, saved{
		matrix: c.matrix,
		clip:   c.clip,
		target: c.target,
		layer:  &pendingLayer{paint: p, bounds: area, ctm: c.matrix},
	})
	layer := image.NewRGBA(c.bounds())
	if backdrop != nil {
		filtered := applyImageFilter(cloneRGBA(c.target), backdrop, c.matrix, c.tolerance)
		compositeImage(layer, filtered, area, c.clip, 1, nil, displaylist.BlendSrc)
	}
	c.target = layer
}

// Restore pops the state. Restoring a SaveLayer composites the offscreen
// back onto the target through the layer paint.
func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	top := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	if top.layer != nil {
		c.compositeLayer(c.target, top)
	}
	c.matrix, c.clip, c.target = top.matrix, top.clip, top.target
}

func (c *Canvas) compositeLayer(layer *image.RGBA, top saved) {
	alpha := float32(1)
	mode := displaylist.BlendSrcOver
	var cf colorFunc
	if p := top.layer.paint; p != nil {
		alpha = p.Color.Opacity()
		mode = p.BlendMode
		cf = paintColorFilter(p)
		if p.ImageFilter != nil {
			layer = applyImageFilter(layer, p.ImageFilter, top.layer.ctm, c.tolerance)
		}
	}
	compositeImage(top.target, layer, top.layer.bounds, top.clip, alpha, cf, mode)
}

// SaveCount returns the number of open saves plus one.
func (c *Canvas) SaveCount() int { return len(c.stack) + 1 }

// RestoreToCount restores until SaveCount is count.
func (c *Canvas) RestoreToCount(count int) {
	for c.SaveCount() > max(count, 1) {
		c.Restore()
	}
}

func (c *Canvas) concat(m geom.Matrix) { c.matrix = c.matrix.Concat(m) }

// Translate concatenates a translation.
func (c *Canvas) Translate(tx, ty float32) { c.concat(geom.Translate(tx, ty)) }

// Scale concatenates a scale.
func (c *Canvas) Scale(sx, sy float32) { c.concat(geom.Scale(sx, sy)) }

// Rotate concatenates a rotation in degrees.
func (c *Canvas) Rotate(degrees float32) { c.concat(geom.Rotate(degrees)) }

// Skew concatenates a skew.
func (c *Canvas) Skew(sx, sy float32) { c.concat(geom.Skew(sx, sy)) }

// Concat concatenates m.
func (c *Canvas) Concat(m geom.Matrix) { c.concat(m) }

// ResetMatrix resets the matrix to the identity.
func (c *Canvas) ResetMatrix() { c.matrix = geom.Identity() }

// Matrix returns the current matrix.
func (c *Canvas) Matrix() geom.Matrix { return c.matrix }

// clipBounds returns the device pixels the current clip can touch.
func (c *Canvas) clipBounds() image.Rectangle {
	if c.clip == nil {
		return c.bounds()
	}
	return c.clip.bounds
}

func (c *Canvas) clipWith(shape *mask, op displaylist.ClipOp) {
	c.clip = combineClip(c.clip, shape, op, c.bounds())
}

// ClipRect intersects or subtracts a rect from the clip.
func (c *Canvas) ClipRect(r geom.Rect, op displaylist.ClipOp, aa bool) {
	c.clipWith(c.fillMask(geom.NewPath().AddRect(r), aa), op)
}

// ClipRRect intersects or subtracts a rounded rect from the clip.
func (c *Canvas) ClipRRect(rr geom.RRect, op displaylist.ClipOp, aa bool) {
	c.clipWith(c.fillMask(geom.NewPath().AddRRect(rr), aa), op)
}

// ClipPath intersects or subtracts a path from the clip.
func (c *Canvas) ClipPath(p *geom.Path, op displaylist.ClipOp, aa bool) {
	c.clipWith(c.fillMask(p, aa), op)
}

// DrawDisplayList renders dl in its own save scope, culled to the clip.
func (c *Canvas) DrawDisplayList(dl *displaylist.DisplayList, opacity float32) {
	count := c.SaveCount()
	c.Save()
	canvas.RenderCulled(dl, c, opacity, c.localCull())
	c.RestoreToCount(count)
}

// localCull maps the device clip bounds back to local space, or returns
// GiantRect when the matrix cannot be inverted.
func (c *Canvas) localCull() geom.Rect {
	inv, ok := c.matrix.Invert()
	if !ok {
		retain.Logger().Debug("raster: non-invertible matrix", "matrix", c.matrix)
		return geom.GiantRect
	}
	b := c.clipBounds()
	return inv.MapRect(geom.LTRB(float32(b.Min.X), float32(b.Min.Y), float32(b.Max.X), float32(b.Max.Y)))
}

// deviceRect rounds r out to pixels.
func deviceRect(r geom.Rect) image.Rectangle {
	ir := r.RoundOut()
	return image.Rect(int(ir.Left), int(ir.Top), int(ir.Right), int(ir.Bottom))
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
