package raster

import (
	"image"

	"github.com/chewxy/math32"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/gogpu/retain"
	"github.com/gogpu/retain/displaylist"
	"github.com/gogpu/retain/geom"
)

// applyImageFilter runs f over src, whose content was drawn under ctm.
// The result has the bounds of src; src may be reused.
func applyImageFilter(src *image.RGBA, f displaylist.ImageFilter, ctm geom.Matrix, tolerance float32) *image.RGBA {
	scale := ctm.MaxScale()
	switch f := f.(type) {
	case displaylist.BlurImageFilter:
		sigma := max(f.SigmaX, f.SigmaY) * scale
		if sigma <= 0 {
			return src
		}
		out := image.NewRGBA(src.Bounds())
		draw.Draw(out, out.Bounds(), imaging.Blur(src, float64(sigma)), image.Point{}, draw.Src)
		return out
	case displaylist.DilateImageFilter:
		return morphology(src, radius(f.RadiusX*scale), radius(f.RadiusY*scale), brighter)
	case displaylist.ErodeImageFilter:
		return morphology(src, radius(f.RadiusX*scale), radius(f.RadiusY*scale), darker)
	case displaylist.MatrixImageFilter:
		inv, ok := ctm.Invert()
		if !ok {
			return src
		}
		device := ctm.Concat(f.Matrix).Concat(inv)
		out := image.NewRGBA(src.Bounds())
		interpolator(f.Sampling).Transform(out, device.Aff3(), src, src.Bounds(), draw.Src, nil)
		return out
	case displaylist.ColorFilterImageFilter:
		if f.Filter == nil {
			return src
		}
		out := image.NewRGBA(src.Bounds())
		compositeImage(out, src, src.Bounds(), nil, 1, f.Filter.FilterColor, displaylist.BlendSrc)
		return out
	case displaylist.ComposeImageFilter:
		if f.Inner != nil {
			src = applyImageFilter(src, f.Inner, ctm, tolerance)
		}
		if f.Outer != nil {
			src = applyImageFilter(src, f.Outer, ctm, tolerance)
		}
		return src
	}
	retain.Logger().Debug("raster: unsupported image filter", "type", f)
	return src
}

func brighter(a, b uint8) uint8 { return max(a, b) }
func darker(a, b uint8) uint8   { return min(a, b) }

func radius(r float32) int {
	return max(0, int(math32.Round(r)))
}

// morphology runs a separable max (dilate) or min (erode) over every
// channel with the given pixel radii.
func morphology(src *image.RGBA, rx, ry int, pick func(a, b uint8) uint8) *image.RGBA {
	if rx == 0 && ry == 0 {
		return src
	}
	b := src.Bounds()
	tmp := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			o := tmp.PixOffset(x, y)
			for k := range 4 {
				v := src.Pix[src.PixOffset(x, y)+k]
				for dx := max(b.Min.X, x-rx); dx <= min(b.Max.X-1, x+rx); dx++ {
					v = pick(v, src.Pix[src.PixOffset(dx, y)+k])
				}
				tmp.Pix[o+k] = v
			}
		}
	}
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			o := out.PixOffset(x, y)
			for k := range 4 {
				v := tmp.Pix[o+k]
				for dy := max(b.Min.Y, y-ry); dy <= min(b.Max.Y-1, y+ry); dy++ {
					v = pick(v, tmp.Pix[tmp.PixOffset(x, dy)+k])
				}
				out.Pix[o+k] = v
			}
		}
	}
	return out
}

func interpolator(s displaylist.SamplingMode) draw.Interpolator {
	switch s {
	case displaylist.SamplingNearest:
		return draw.NearestNeighbor
	case displaylist.SamplingCubic:
		return draw.CatmullRom
	}
	return draw.ApproxBiLinear
}
