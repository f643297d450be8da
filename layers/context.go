package layers

import (
	"github.com/gogpu/retain/canvas"
)

// PrerollContext is shared by all layers during Preroll.
type PrerollContext struct {
	StateStack *StateStack
	// RenderableFlags is reset by a parent before each child's Preroll and
	// set by the child to the attributes it can apply itself.
	RenderableFlags  RenderFlags
	DevicePixelRatio float32
}

// NewPrerollContext creates a context over stack. A non-positive dpr
// means 1.
func NewPrerollContext(stack *StateStack, dpr float32) *PrerollContext {
	if dpr <= 0 {
		dpr = 1
	}
	return &PrerollContext{StateStack: stack, DevicePixelRatio: dpr}
}

// PaintContext is shared by all layers during Paint.
type PaintContext struct {
	StateStack       *StateStack
	Canvas           canvas.Canvas
	DevicePixelRatio float32
}

// NewPaintContext creates a context painting onto c through stack.
func NewPaintContext(stack *StateStack, c canvas.Canvas, dpr float32) *PaintContext {
	if dpr <= 0 {
		dpr = 1
	}
	stack.SetDelegate(c)
	return &PaintContext{StateStack: stack, Canvas: c, DevicePixelRatio: dpr}
}
