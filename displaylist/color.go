package displaylist

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Color is a non-premultiplied 32-bit ARGB color, 0xAARRGGBB.
type Color uint32

// Commonly used colors.
const (
	Transparent Color = 0x00000000
	Black       Color = 0xff000000
	White       Color = 0xffffffff
	Red         Color = 0xffff0000
	Green       Color = 0xff00ff00
	Blue        Color = 0xff0000ff
)

// ARGB packs the components of a color.
func ARGB(a, r, g, b uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// Alpha returns the alpha component.
func (c Color) Alpha() uint8 { return uint8(c >> 24) }

// Red returns the red component.
func (c Color) Red() uint8 { return uint8(c >> 16) }

// Green returns the green component.
func (c Color) Green() uint8 { return uint8(c >> 8) }

// Blue returns the blue component.
func (c Color) Blue() uint8 { return uint8(c) }

// Opacity returns the alpha as a value in [0, 1].
func (c Color) Opacity() float32 { return float32(c.Alpha()) / 255 }

// IsOpaque reports whether alpha is 0xff.
func (c Color) IsOpaque() bool { return c.Alpha() == 0xff }

// IsTransparent reports whether alpha is zero.
func (c Color) IsTransparent() bool { return c.Alpha() == 0 }

// WithAlpha replaces the alpha component.
func (c Color) WithAlpha(a uint8) Color {
	return Color(uint32(c)&0x00ffffff | uint32(a)<<24)
}

// WithOpacity replaces the alpha with opacity scaled to 0..255.
func (c Color) WithOpacity(opacity float32) Color {
	return c.WithAlpha(alphaFromOpacity(opacity))
}

// ModulateOpacity multiplies the alpha by opacity.
func (c Color) ModulateOpacity(opacity float32) Color {
	if opacity >= 1 {
		return c
	}
	return c.WithAlpha(alphaFromOpacity(c.Opacity() * opacity))
}

// RGBA implements image/color.Color with premultiplied 16-bit components.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(c.Alpha())
	r = uint32(c.Red()) * a / 0xff
	g = uint32(c.Green()) * a / 0xff
	b = uint32(c.Blue()) * a / 0xff
	return r * 0x101, g * 0x101, b * 0x101, a * 0x101
}

// String formats c as #aarrggbb.
func (c Color) String() string {
	return fmt.Sprintf("#%08x", uint32(c))
}

func alphaFromOpacity(opacity float32) uint8 {
	return uint8(math32.Round(clamp01(opacity) * 255))
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}

// premul is a premultiplied color with float components in [0, 1].
type premul struct {
	r, g, b, a float32
}

func (c Color) premul() premul {
	a := c.Opacity()
	return premul{
		r: float32(c.Red()) / 255 * a,
		g: float32(c.Green()) / 255 * a,
		b: float32(c.Blue()) / 255 * a,
		a: a,
	}
}

func (p premul) color() Color {
	a := clamp01(p.a)
	if a == 0 {
		return Transparent
	}
	un := func(v float32) uint8 {
		return uint8(math32.Round(clamp01(v/a) * 255))
	}
	return ARGB(uint8(math32.Round(a*255)), un(p.r), un(p.g), un(p.b))
}
