package displaylist

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/retain/geom"
)

// --------------------------------------------------------------------------
// Color filters
// --------------------------------------------------------------------------

// ColorFilter transforms each color produced by a draw.
type ColorFilter interface {
	// ModifiesTransparentBlack reports whether filtering transparent black
	// yields a visible color. Such filters flood their whole layer.
	ModifiesTransparentBlack() bool
	// FilterColor applies the filter to a single color.
	FilterColor(c Color) Color

	isColorFilter()
}

// BlendColorFilter blends a constant color over its input.
type BlendColorFilter struct {
	Color Color
	Mode  BlendMode
}

func (BlendColorFilter) isColorFilter() {}

// ModifiesTransparentBlack reports whether blending Color over transparent
// black leaves a visible result.
func (f BlendColorFilter) ModifiesTransparentBlack() bool {
	switch f.Mode {
	case BlendClear, BlendDst, BlendSrcIn, BlendDstIn, BlendDstOut, BlendSrcATop, BlendModulate:
		return false
	}
	return !f.Color.IsTransparent()
}

// FilterColor blends Color onto c with Mode.
func (f BlendColorFilter) FilterColor(c Color) Color {
	return f.Mode.Blend(f.Color, c)
}

// MatrixColorFilter applies a 4x5 row-major matrix to unpremultiplied
// RGBA in [0, 1]. Columns 0-3 multiply R, G, B, A; column 4 is a bias.
type MatrixColorFilter struct {
	Matrix [20]float32
}

func (MatrixColorFilter) isColorFilter() {}

// ModifiesTransparentBlack reports whether any bias column is non-zero.
func (f MatrixColorFilter) ModifiesTransparentBlack() bool {
	return f.Matrix[4] != 0 || f.Matrix[9] != 0 || f.Matrix[14] != 0 || f.Matrix[19] != 0
}

// FilterColor multiplies the unpremultiplied components of c by Matrix.
func (f MatrixColorFilter) FilterColor(c Color) Color {
	in := [4]float32{
		float32(c.Red()) / 255, float32(c.Green()) / 255, float32(c.Blue()) / 255, c.Opacity(),
	}
	var out [4]uint8
	for row := 0; row < 4; row++ {
		m := f.Matrix[row*5 : row*5+5]
		v := m[0]*in[0] + m[1]*in[1] + m[2]*in[2] + m[3]*in[3] + m[4]
		out[row] = uint8(math32.Round(clamp01(v) * 255))
	}
	return ARGB(out[3], out[0], out[1], out[2])
}

// LinearToSRGBGammaFilter converts linear color to sRGB encoding.
type LinearToSRGBGammaFilter struct{}

func (LinearToSRGBGammaFilter) isColorFilter()                 {}
func (LinearToSRGBGammaFilter) ModifiesTransparentBlack() bool { return false }

func (LinearToSRGBGammaFilter) FilterColor(c Color) Color {
	return mapChannels(c, func(v float32) float32 {
		if v <= 0.0031308 {
			return v * 12.92
		}
		return 1.055*math32.Pow(v, 1/2.4) - 0.055
	})
}

// SRGBToLinearGammaFilter converts sRGB-encoded color to linear.
type SRGBToLinearGammaFilter struct{}

func (SRGBToLinearGammaFilter) isColorFilter()                 {}
func (SRGBToLinearGammaFilter) ModifiesTransparentBlack() bool { return false }

func (SRGBToLinearGammaFilter) FilterColor(c Color) Color {
	return mapChannels(c, func(v float32) float32 {
		if v <= 0.04045 {
			return v / 12.92
		}
		return math32.Pow((v+0.055)/1.055, 2.4)
	})
}

func mapChannels(c Color, fn func(float32) float32) Color {
	ch := func(v uint8) uint8 {
		return uint8(math32.Round(clamp01(fn(float32(v)/255)) * 255))
	}
	return ARGB(c.Alpha(), ch(c.Red()), ch(c.Green()), ch(c.Blue()))
}

// invertColorsFilter is the filter applied by Paint.InvertColors.
var invertColorsFilter = MatrixColorFilter{Matrix: [20]float32{
	-1, 0, 0, 0, 1,
	0, -1, 0, 0, 1,
	0, 0, -1, 0, 1,
	0, 0, 0, 1, 0,
}}

// InvertColorsFilter returns the matrix filter equivalent to InvertColors.
func InvertColorsFilter() ColorFilter { return invertColorsFilter }

// --------------------------------------------------------------------------
// Image filters
// --------------------------------------------------------------------------

// TileMode selects how a filter samples outside its input.
type TileMode uint8

const (
	TileClamp TileMode = iota
	TileRepeat
	TileMirror
	TileDecal
)

// ImageFilter transforms the rendered pixels of a draw or layer.
type ImageFilter interface {
	// MapLocalBounds returns the bounds the filter output can touch given
	// input bounds in the same space. ok is false when the output is
	// unbounded.
	MapLocalBounds(input geom.Rect) (out geom.Rect, ok bool)
	// MapDeviceBounds does the same for device-space bounds of content
	// drawn under ctm.
	MapDeviceBounds(input geom.Rect, ctm geom.Matrix) (out geom.Rect, ok bool)
	// AsColorFilter returns an exactly equivalent color filter, or nil.
	AsColorFilter() ColorFilter

	isImageFilter()
}

// BlurImageFilter is a Gaussian blur.
type BlurImageFilter struct {
	SigmaX, SigmaY float32
	TileMode       TileMode
}

func (BlurImageFilter) isImageFilter()             {}
func (BlurImageFilter) AsColorFilter() ColorFilter { return nil }

// MapLocalBounds grows in by three sigmas on each axis.
func (f BlurImageFilter) MapLocalBounds(in geom.Rect) (geom.Rect, bool) {
	return in.Outset(f.SigmaX*3, f.SigmaY*3), true
}

// MapDeviceBounds maps in through the filter in local space.
func (f BlurImageFilter) MapDeviceBounds(in geom.Rect, ctm geom.Matrix) (geom.Rect, bool) {
	return mapDeviceByLocal(f, in, ctm)
}

// DilateImageFilter grows opaque regions by the radii.
type DilateImageFilter struct {
	RadiusX, RadiusY float32
}

func (DilateImageFilter) isImageFilter()             {}
func (DilateImageFilter) AsColorFilter() ColorFilter { return nil }

// MapLocalBounds grows in by the radii.
func (f DilateImageFilter) MapLocalBounds(in geom.Rect) (geom.Rect, bool) {
	return in.Outset(f.RadiusX, f.RadiusY), true
}

// MapDeviceBounds applies the radii in local space.
func (f DilateImageFilter) MapDeviceBounds(in geom.Rect, ctm geom.Matrix) (geom.Rect, bool) {
	return mapDeviceByLocal(f, in, ctm)
}

// ErodeImageFilter shrinks opaque regions by the radii.
type ErodeImageFilter struct {
	RadiusX, RadiusY float32
}

func (ErodeImageFilter) isImageFilter()             {}
func (ErodeImageFilter) AsColorFilter() ColorFilter { return nil }

// MapLocalBounds shrinks in by the radii.
func (f ErodeImageFilter) MapLocalBounds(in geom.Rect) (geom.Rect, bool) {
	return in.Inset(f.RadiusX, f.RadiusY), true
}

// MapDeviceBounds applies the radii in local space.
func (f ErodeImageFilter) MapDeviceBounds(in geom.Rect, ctm geom.Matrix) (geom.Rect, bool) {
	return mapDeviceByLocal(f, in, ctm)
}

// SamplingMode selects image sampling quality.
type SamplingMode uint8

const (
	SamplingNearest SamplingMode = iota
	SamplingLinear
	SamplingMipmapLinear
	SamplingCubic
)

// MatrixImageFilter transforms its input by Matrix in local space.
type MatrixImageFilter struct {
	Matrix   geom.Matrix
	Sampling SamplingMode
}

func (MatrixImageFilter) isImageFilter()             {}
func (MatrixImageFilter) AsColorFilter() ColorFilter { return nil }

// MapLocalBounds maps in by Matrix.
func (f MatrixImageFilter) MapLocalBounds(in geom.Rect) (geom.Rect, bool) {
	return f.Matrix.MapRect(in), true
}

// MapDeviceBounds applies Matrix between ctm and its inverse.
func (f MatrixImageFilter) MapDeviceBounds(in geom.Rect, ctm geom.Matrix) (geom.Rect, bool) {
	inv, ok := ctm.Invert()
	if !ok {
		return geom.Rect{}, false
	}
	return ctm.Concat(f.Matrix).Concat(inv).MapRect(in), true
}

// ColorFilterImageFilter applies a color filter to its input.
type ColorFilterImageFilter struct {
	Filter ColorFilter
}

func (ColorFilterImageFilter) isImageFilter() {}

// AsColorFilter returns the wrapped filter.
func (f ColorFilterImageFilter) AsColorFilter() ColorFilter { return f.Filter }

// MapLocalBounds returns in, or reports unbounded output when the filter
// colors transparent black.
func (f ColorFilterImageFilter) MapLocalBounds(in geom.Rect) (geom.Rect, bool) {
	if f.Filter != nil && f.Filter.ModifiesTransparentBlack() {
		return geom.Rect{}, false
	}
	return in, true
}

// MapDeviceBounds behaves like MapLocalBounds. A color filter does not move pixels.
func (f ColorFilterImageFilter) MapDeviceBounds(in geom.Rect, _ geom.Matrix) (geom.Rect, bool) {
	return f.MapLocalBounds(in)
}

// ComposeImageFilter applies Inner and then Outer.
type ComposeImageFilter struct {
	Outer, Inner ImageFilter
}

func (ComposeImageFilter) isImageFilter()             {}
func (ComposeImageFilter) AsColorFilter() ColorFilter { return nil }

// MapLocalBounds maps in through Inner and then Outer.
func (f ComposeImageFilter) MapLocalBounds(in geom.Rect) (geom.Rect, bool) {
	mid, ok := f.Inner.MapLocalBounds(in)
	if !ok {
		return geom.Rect{}, false
	}
	return f.Outer.MapLocalBounds(mid)
}

// MapDeviceBounds maps in through Inner and then Outer in device space.
func (f ComposeImageFilter) MapDeviceBounds(in geom.Rect, ctm geom.Matrix) (geom.Rect, bool) {
	mid, ok := f.Inner.MapDeviceBounds(in, ctm)
	if !ok {
		return geom.Rect{}, false
	}
	return f.Outer.MapDeviceBounds(mid, ctm)
}

// mapDeviceByLocal maps device bounds back to local space, applies the
// filter there and maps the result forward again.
func mapDeviceByLocal(f ImageFilter, in geom.Rect, ctm geom.Matrix) (geom.Rect, bool) {
	inv, ok := ctm.Invert()
	if !ok {
		return geom.Rect{}, false
	}
	local, ok := f.MapLocalBounds(inv.MapRect(in))
	if !ok {
		return geom.Rect{}, false
	}
	return ctm.MapRect(local), true
}

// --------------------------------------------------------------------------
// Mask filters
// --------------------------------------------------------------------------

// BlurStyle selects which side of the shape edge a mask blur affects.
type BlurStyle uint8

const (
	BlurNormal BlurStyle = iota
	BlurSolid
	BlurOuter
	BlurInner
)

// MaskFilter modifies the coverage mask of a draw.
type MaskFilter interface {
	// Outset returns how far the mask can extend past the geometry.
	Outset() float32

	isMaskFilter()
}

// BlurMaskFilter blurs the coverage mask with a Gaussian of Sigma.
type BlurMaskFilter struct {
	Style BlurStyle
	Sigma float32
}

func (BlurMaskFilter) isMaskFilter() {}

// Outset is how far the blur reaches past the shape edge.
func (f BlurMaskFilter) Outset() float32 { return f.Sigma * 3 }
