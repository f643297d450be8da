package raster

import (
	"image"

	"github.com/gogpu/retain/displaylist"
)

// colorFunc maps an unpremultiplied color.
type colorFunc func(displaylist.Color) displaylist.Color

// paintColorFilter folds the color filter and InvertColors of p into one
// function, or returns nil when p does not change colors.
func paintColorFilter(p *displaylist.Paint) colorFunc {
	cf := p.ColorFilter
	invert := p.InvertColors
	switch {
	case cf == nil && !invert:
		return nil
	case !invert:
		return cf.FilterColor
	case cf == nil:
		return displaylist.InvertColorsFilter().FilterColor
	}
	inv := displaylist.InvertColorsFilter()
	return func(c displaylist.Color) displaylist.Color {
		return inv.FilterColor(cf.FilterColor(c))
	}
}

func load(img *image.RGBA, i int) [4]float32 {
	p := img.Pix[i : i+4 : i+4]
	return [4]float32{float32(p[0]) / 255, float32(p[1]) / 255, float32(p[2]) / 255, float32(p[3]) / 255}
}

func store(img *image.RGBA, i int, v [4]float32) {
	p := img.Pix[i : i+4 : i+4]
	for k := range 4 {
		p[k] = uint8(min(max(v[k], 0), 1)*255 + 0.5)
	}
}

// premulOf converts c to premultiplied float components.
func premulOf(c displaylist.Color) [4]float32 {
	a := c.Opacity()
	return [4]float32{
		float32(c.Red()) / 255 * a,
		float32(c.Green()) / 255 * a,
		float32(c.Blue()) / 255 * a,
		a,
	}
}

// colorOf is the inverse of premulOf, used to run color filters on pixels.
func colorOf(v [4]float32) displaylist.Color {
	a := v[3]
	if a <= 0 {
		return displaylist.Transparent
	}
	un := func(x float32) uint8 { return uint8(min(x/a, 1)*255 + 0.5) }
	return displaylist.ARGB(uint8(min(a, 1)*255+0.5), un(v[0]), un(v[1]), un(v[2]))
}

// blendPixel composites src onto dst[i] with mode and lerps the result by
// coverage cov.
func blendPixel(dst *image.RGBA, i int, src [4]float32, mode displaylist.BlendMode, cov float32) {
	d := load(dst, i)
	out := mode.Apply(src, d)
	if cov < 1 {
		for k := range out {
			out[k] = d[k] + (out[k]-d[k])*cov
		}
	}
	store(dst, i, out)
}

func coverage(clip *mask, x, y int) uint32 {
	if clip == nil {
		return 255
	}
	return clip.at(x, y)
}

// blendCoverage fills the coverage of m with a solid color.
func blendCoverage(dst *image.RGBA, m *mask, clip *mask, c displaylist.Color, mode displaylist.BlendMode) {
	src := premulOf(c)
	if src[3] == 0 && mode.NopsOnTransparency() {
		return
	}
	area := m.bounds.Intersect(dst.Bounds())
	if clip != nil {
		area = area.Intersect(clip.bounds)
	}
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			cov := m.at(x, y) * coverage(clip, x, y)
			if cov == 0 {
				continue
			}
			blendPixel(dst, dst.PixOffset(x, y), src, mode, float32(cov)/(255*255))
		}
	}
}

// compositeImage draws the pixels of src inside area onto dst with a
// uniform alpha, an optional color filter and mode.
func compositeImage(dst, src *image.RGBA, area image.Rectangle, clip *mask, alpha float32, cf colorFunc, mode displaylist.BlendMode) {
	area = area.Intersect(dst.Bounds()).Intersect(src.Bounds())
	if clip != nil {
		area = area.Intersect(clip.bounds)
	}
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			cov := coverage(clip, x, y)
			if cov == 0 {
				continue
			}
			s := load(src, src.PixOffset(x, y))
			if cf != nil {
				s = premulOf(cf(colorOf(s)))
			}
			if alpha < 1 {
				for k := range s {
					s[k] *= alpha
				}
			}
			if s[3] == 0 && mode.NopsOnTransparency() {
				continue
			}
			blendPixel(dst, dst.PixOffset(x, y), s, mode, float32(cov)/255)
		}
	}
}
