package raster

import (
	"image"
	"image/draw"

	"github.com/chewxy/math32"
	"github.com/disintegration/imaging"
	"golang.org/x/image/vector"

	"github.com/gogpu/retain/displaylist"
	"github.com/gogpu/retain/geom"
)

// mask is a device-space coverage mask the size of the canvas. Every
// non-zero pixel lies inside bounds.
type mask struct {
	pix    *image.Alpha
	bounds image.Rectangle
}

func newMask(area image.Rectangle) *mask {
	return &mask{pix: image.NewAlpha(area)}
}

// fullMask covers r completely.
func fullMask(area, r image.Rectangle) *mask {
	m := newMask(area)
	m.bounds = r.Intersect(area)
	draw.Draw(m.pix, m.bounds, image.Opaque, image.Point{}, draw.Src)
	return m
}

func (m *mask) at(x, y int) uint32 {
	return uint32(m.pix.Pix[m.pix.PixOffset(x, y)])
}

// fillMask scan converts p under the current matrix.
func (c *Canvas) fillMask(p *geom.Path, aa bool) *mask {
	return rasterize(p.Flatten(c.matrix, c.tolerance), p.FillType, aa, c.bounds())
}

// rasterize converts device-space polygons to coverage clipped to area.
func rasterize(polys [][]geom.Point, fill geom.FillType, aa bool, area image.Rectangle) *mask {
	if fill == geom.FillEvenOdd && len(polys) > 1 {
		out := newMask(area)
		for _, poly := range polys {
			xorMask(out, rasterize([][]geom.Point{poly}, geom.FillNonZero, aa, area))
		}
		return out
	}

	m := newMask(area)
	var pb geom.Rect
	for i, poly := range polys {
		if i == 0 {
			pb = geom.BoundsOf(poly...)
		} else {
			pb = pb.Union(geom.BoundsOf(poly...))
		}
	}
	bb := deviceRect(pb).Intersect(area)
	if bb.Empty() {
		return m
	}
	guard := geom.LTRB(float32(bb.Min.X-1), float32(bb.Min.Y-1), float32(bb.Max.X+1), float32(bb.Max.Y+1))
	z := vector.NewRasterizer(bb.Dx(), bb.Dy())
	z.DrawOp = draw.Src
	ox, oy := float32(bb.Min.X), float32(bb.Min.Y)
	for _, poly := range polys {
		poly = clipPolygon(poly, guard)
		if len(poly) < 3 {
			continue
		}
		z.MoveTo(poly[0].X-ox, poly[0].Y-oy)
		for _, pt := range poly[1:] {
			z.LineTo(pt.X-ox, pt.Y-oy)
		}
		z.ClosePath()
	}
	z.Draw(m.pix, bb, image.Opaque, image.Point{})
	m.bounds = bb
	if !aa {
		threshold(m)
	}
	return m
}

func threshold(m *mask) {
	for y := m.bounds.Min.Y; y < m.bounds.Max.Y; y++ {
		row := m.pix.Pix[m.pix.PixOffset(m.bounds.Min.X, y):m.pix.PixOffset(m.bounds.Max.X, y)]
		for i, v := range row {
			if v >= 0x80 {
				row[i] = 0xff
			} else {
				row[i] = 0
			}
		}
	}
}

// xorMask folds src into dst with even-odd coverage.
func xorMask(dst, src *mask) {
	for y := src.bounds.Min.Y; y < src.bounds.Max.Y; y++ {
		for x := src.bounds.Min.X; x < src.bounds.Max.X; x++ {
			i := dst.pix.PixOffset(x, y)
			a, b := int(dst.pix.Pix[i]), int(src.pix.Pix[i])
			dst.pix.Pix[i] = uint8(max(a-b, b-a))
		}
	}
	dst.bounds = dst.bounds.Union(src.bounds)
}

// unionMask keeps the larger coverage of both masks in dst.
func unionMask(dst, src *mask) {
	for y := src.bounds.Min.Y; y < src.bounds.Max.Y; y++ {
		for x := src.bounds.Min.X; x < src.bounds.Max.X; x++ {
			i := dst.pix.PixOffset(x, y)
			dst.pix.Pix[i] = max(dst.pix.Pix[i], src.pix.Pix[i])
		}
	}
	dst.bounds = dst.bounds.Union(src.bounds)
}

// combineClip applies shape to the clip old. A nil old clip covers area.
func combineClip(old, shape *mask, op displaylist.ClipOp, area image.Rectangle) *mask {
	if old == nil {
		old = fullMask(area, area)
	}
	out := newMask(area)
	if op == displaylist.ClipDifference {
		out.bounds = old.bounds
		for y := old.bounds.Min.Y; y < old.bounds.Max.Y; y++ {
			for x := old.bounds.Min.X; x < old.bounds.Max.X; x++ {
				i := out.pix.PixOffset(x, y)
				out.pix.Pix[i] = uint8(uint32(old.pix.Pix[i]) * (255 - uint32(shape.pix.Pix[i])) / 255)
			}
		}
		return out
	}
	out.bounds = old.bounds.Intersect(shape.bounds)
	for y := out.bounds.Min.Y; y < out.bounds.Max.Y; y++ {
		for x := out.bounds.Min.X; x < out.bounds.Max.X; x++ {
			i := out.pix.PixOffset(x, y)
			out.pix.Pix[i] = uint8(uint32(old.pix.Pix[i]) * uint32(shape.pix.Pix[i]) / 255)
		}
	}
	return out
}

// blurMask applies a mask filter blur of sigma device pixels.
func blurMask(m *mask, style displaylist.BlurStyle, sigma float32) *mask {
	area := m.pix.Bounds()
	if sigma <= 0 || m.bounds.Empty() {
		return m
	}
	pad := int(math32.Ceil(3 * sigma))
	region := m.bounds.Inset(-pad).Intersect(area)
	blurred := imaging.Blur(m.pix.SubImage(region), float64(sigma))

	out := newMask(area)
	out.bounds = region
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			i := out.pix.PixOffset(x, y)
			orig := uint32(m.pix.Pix[i])
			b := uint32(blurred.Pix[blurred.PixOffset(x-region.Min.X, y-region.Min.Y)+3])
			var v uint32
			switch style {
			case displaylist.BlurSolid:
				v = max(orig, b)
			case displaylist.BlurOuter:
				v = b * (255 - orig) / 255
			case displaylist.BlurInner:
				v = b * orig / 255
			default:
				v = b
			}
			out.pix.Pix[i] = uint8(v)
		}
	}
	if style == displaylist.BlurInner {
		out.bounds = m.bounds
	}
	return out
}

// offsetMask shifts m by whole pixels.
func offsetMask(m *mask, dx, dy int) *mask {
	area := m.pix.Bounds()
	out := newMask(area)
	out.bounds = m.bounds.Add(image.Pt(dx, dy)).Intersect(area)
	for y := out.bounds.Min.Y; y < out.bounds.Max.Y; y++ {
		for x := out.bounds.Min.X; x < out.bounds.Max.X; x++ {
			out.pix.Pix[out.pix.PixOffset(x, y)] = m.pix.Pix[m.pix.PixOffset(x-dx, y-dy)]
		}
	}
	return out
}

// clipPolygon clips poly against r (Sutherland-Hodgman). Coverage inside
// r is unchanged.
func clipPolygon(poly []geom.Point, r geom.Rect) []geom.Point {
	if r.ContainsRect(geom.BoundsOf(poly...)) {
		return poly
	}
	type edge struct {
		inside func(geom.Point) bool
		cross  func(a, b geom.Point) geom.Point
	}
	atX := func(x float32) func(a, b geom.Point) geom.Point {
		return func(a, b geom.Point) geom.Point {
			return geom.Pt(x, a.Y+(b.Y-a.Y)*(x-a.X)/(b.X-a.X))
		}
	}
	atY := func(y float32) func(a, b geom.Point) geom.Point {
		return func(a, b geom.Point) geom.Point {
			return geom.Pt(a.X+(b.X-a.X)*(y-a.Y)/(b.Y-a.Y), y)
		}
	}
	edges := []edge{
		{func(p geom.Point) bool { return p.X >= r.Left }, atX(r.Left)},
		{func(p geom.Point) bool { return p.X <= r.Right }, atX(r.Right)},
		{func(p geom.Point) bool { return p.Y >= r.Top }, atY(r.Top)},
		{func(p geom.Point) bool { return p.Y <= r.Bottom }, atY(r.Bottom)},
	}
	out := poly
	for _, e := range edges {
		in := out
		out = nil
		for i, cur := range in {
			prev := in[(i+len(in)-1)%len(in)]
			switch {
			case e.inside(cur):
				if !e.inside(prev) {
					out = append(out, e.cross(prev, cur))
				}
				out = append(out, cur)
			case e.inside(prev):
				out = append(out, e.cross(prev, cur))
			}
		}
		if len(out) == 0 {
			return nil
		}
	}
	return out
}
