package displaylist

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/retain/geom"
)

func TestColorComponents(t *testing.T) {
	c := ARGB(0x80, 0x10, 0x20, 0x30)
	assert.Equal(t, uint8(0x80), c.Alpha())
	assert.Equal(t, uint8(0x10), c.Red())
	assert.Equal(t, uint8(0x20), c.Green())
	assert.Equal(t, uint8(0x30), c.Blue())
	assert.Equal(t, "#80102030", c.String())
	assert.Equal(t, ARGB(0xff, 0x10, 0x20, 0x30), c.WithAlpha(0xff))
	assert.Equal(t, uint8(0x40), c.ModulateOpacity(0.5).Alpha())
	assert.Equal(t, c, c.ModulateOpacity(1))

	var _ color.Color = c
	nrgba := color.NRGBAModel.Convert(Red.WithAlpha(0x80)).(color.NRGBA)
	assert.Equal(t, uint8(0x80), nrgba.A)
	assert.InDelta(t, 0xff, int(nrgba.R), 1)
}

func TestBlendModes(t *testing.T) {
	half := Black.WithAlpha(0x80)
	tests := []struct {
		mode     BlendMode
		src, dst Color
		want     Color
	}{
		{BlendSrcOver, Red, Blue, Red},
		{BlendSrcOver, Transparent, Blue, Blue},
		{BlendDstOver, Red, Blue, Blue},
		{BlendClear, Red, Blue, Transparent},
		{BlendSrc, half, Blue, half},
		{BlendDst, Red, Blue, Blue},
		{BlendSrcIn, Red, Transparent, Transparent},
		{BlendDstOut, White, Blue, Transparent},
		{BlendPlus, Red, Blue, ARGB(0xff, 0xff, 0, 0xff)},
		{BlendMultiply, White, Blue, Blue},
		{BlendScreen, Black, Green, Green},
		{BlendDifference, White, White, Black},
		{BlendLuminosity, White, Red, White},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mode.Blend(tt.src, tt.dst))
		})
	}
}

func TestBlendModeProperties(t *testing.T) {
	for m := BlendClear; m <= BlendLuminosity; m++ {
		parsed, ok := ParseBlendMode(m.String())
		require.True(t, ok, m.String())
		assert.Equal(t, m, parsed)

		assert.Equal(t, m == BlendSrcOver, m.IsOpacityCompatible())
		if m.NopsOnTransparency() {
			assert.Equal(t, Blue, m.Blend(Transparent, Blue), m.String())
		}
	}
	_, ok := ParseBlendMode("Nope")
	assert.False(t, ok)
	assert.Equal(t, "Unknown", BlendMode(200).String())
}

func TestPaintPredicates(t *testing.T) {
	p := NewPaint()
	assert.True(t, p.IsOpacityCompatible())
	assert.True(t, p.IsAlphaOnly())
	assert.True(t, p.NopsOnTransparency())

	p.InvertColors = true
	assert.False(t, p.IsOpacityCompatible())

	p = NewPaint()
	p.ColorFilter = BlendColorFilter{Color: Red, Mode: BlendSrc}
	assert.False(t, p.NopsOnTransparency())
	assert.False(t, p.IsAlphaOnly())

	p = NewPaint()
	p.ImageFilter = BlurImageFilter{SigmaX: 1, SigmaY: 1}
	assert.True(t, p.IsOpacityCompatible())
	assert.False(t, p.IsAlphaOnly())

	assert.InDelta(t, 0.5, PaintWithColor(White).WithOpacity(0.5).Opacity(), 0.01)
}

func TestColorFilters(t *testing.T) {
	assert.Equal(t, ARGB(0xff, 0xef, 0xdf, 0xcf), InvertColorsFilter().FilterColor(ARGB(0xff, 0x10, 0x20, 0x30)))
	assert.True(t, InvertColorsFilter().ModifiesTransparentBlack())

	g := LinearToSRGBGammaFilter{}
	lin := SRGBToLinearGammaFilter{}
	c := ARGB(0xff, 0x40, 0x80, 0xc0)
	back := g.FilterColor(lin.FilterColor(c))
	assert.InDelta(t, int(c.Red()), int(back.Red()), 2)
	assert.InDelta(t, int(c.Blue()), int(back.Blue()), 2)

	assert.False(t, BlendColorFilter{Color: Red, Mode: BlendSrcIn}.ModifiesTransparentBlack())
	assert.False(t, BlendColorFilter{Color: Transparent, Mode: BlendSrcOver}.ModifiesTransparentBlack())
	assert.True(t, BlendColorFilter{Color: Red, Mode: BlendSrcOver}.ModifiesTransparentBlack())
}

func TestImageFilterBounds(t *testing.T) {
	in := geom.LTRB(0, 0, 10, 10)

	out, ok := BlurImageFilter{SigmaX: 1, SigmaY: 2}.MapLocalBounds(in)
	require.True(t, ok)
	assert.Equal(t, geom.LTRB(-3, -6, 13, 16), out)

	out, ok = BlurImageFilter{SigmaX: 1, SigmaY: 1}.MapDeviceBounds(geom.LTRB(0, 0, 20, 20), geom.Scale(2, 2))
	require.True(t, ok)
	assert.True(t, out.NearlyEqual(geom.LTRB(-6, -6, 26, 26), 1e-4), "got %v", out)

	out, _ = ErodeImageFilter{RadiusX: 2, RadiusY: 2}.MapLocalBounds(in)
	assert.Equal(t, geom.LTRB(2, 2, 8, 8), out)

	out, _ = MatrixImageFilter{Matrix: geom.Translate(5, 0)}.MapLocalBounds(in)
	assert.Equal(t, geom.LTRB(5, 0, 15, 10), out)

	compose := ComposeImageFilter{
		Outer: DilateImageFilter{RadiusX: 1, RadiusY: 1},
		Inner: MatrixImageFilter{Matrix: geom.Translate(5, 0)},
	}
	out, _ = compose.MapLocalBounds(in)
	assert.Equal(t, geom.LTRB(4, -1, 16, 11), out)
	assert.Nil(t, compose.AsColorFilter())

	flood := ColorFilterImageFilter{Filter: BlendColorFilter{Color: Red, Mode: BlendSrcOver}}
	_, ok = flood.MapLocalBounds(in)
	assert.False(t, ok)
	assert.NotNil(t, flood.AsColorFilter())
}

func TestComputeShadowBounds(t *testing.T) {
	assert.Equal(t, geom.Rect{}, ComputeShadowBounds(geom.NewPath(), 10, 1))

	p := geom.NewPath().AddRect(geom.WH(100, 100))
	flat := ComputeShadowBounds(p, 0, 1)
	assert.Equal(t, geom.WH(100, 100), flat)

	low := ComputeShadowBounds(p, 2, 1)
	high := ComputeShadowBounds(p, 8, 1)
	assert.True(t, high.ContainsRect(low))
	assert.True(t, low.ContainsRect(flat))
	// tx = (800 + 50) / 600
	assert.InDelta(t, -2*850.0/600, low.Left, 1e-4)
}
