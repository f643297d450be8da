package raster

import (
	"image"
	"image/color"
	"image/draw"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/retain/canvas"
	"github.com/gogpu/retain/displaylist"
	"github.com/gogpu/retain/geom"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	red   = color.RGBA{255, 0, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
)

func newWhite(w, h int) *Canvas {
	return New(w, h, WithBackground(displaylist.White))
}

func px(c *Canvas, x, y int) color.RGBA { return c.Image().RGBAAt(x, y) }

func paint(c displaylist.Color) *displaylist.Paint {
	p := displaylist.PaintWithColor(c)
	return &p
}

func assertNear(t *testing.T, want, got color.RGBA, delta float64) {
	t.Helper()
	assert.InDelta(t, want.R, got.R, delta, "R of %v", got)
	assert.InDelta(t, want.G, got.G, delta, "G of %v", got)
	assert.InDelta(t, want.B, got.B, delta, "B of %v", got)
	assert.InDelta(t, want.A, got.A, delta, "A of %v", got)
}

func TestBackground(t *testing.T) {
	assert.Equal(t, white, px(newWhite(4, 4), 2, 2))
	assert.Equal(t, color.RGBA{}, px(New(4, 4), 2, 2))
}

func TestDrawRect(t *testing.T) {
	c := newWhite(10, 10)
	c.DrawRect(geom.LTRB(2, 2, 6, 6), paint(displaylist.Red))
	assert.Equal(t, red, px(c, 3, 3))
	assert.Equal(t, red, px(c, 5, 5))
	assert.Equal(t, white, px(c, 6, 6))
	assert.Equal(t, white, px(c, 1, 3))
}

func TestTransformedDraw(t *testing.T) {
	c := newWhite(10, 10)
	c.Translate(5, 0)
	c.Scale(2, 2)
	c.DrawRect(geom.WH(2, 2), paint(displaylist.Red))
	assert.Equal(t, red, px(c, 5, 0))
	assert.Equal(t, red, px(c, 8, 3))
	assert.Equal(t, white, px(c, 4, 0))
	assert.Equal(t, white, px(c, 5, 4))
}

func TestClip(t *testing.T) {
	c := newWhite(10, 10)
	c.Save()
	c.ClipRect(geom.LTRB(0, 0, 4, 10), displaylist.ClipIntersect, false)
	c.DrawPaint(paint(displaylist.Blue))
	c.Restore()
	assert.Equal(t, blue, px(c, 2, 5))
	assert.Equal(t, white, px(c, 6, 5))

	c.ClipRect(geom.LTRB(0, 0, 4, 10), displaylist.ClipDifference, false)
	c.DrawPaint(paint(displaylist.Red))
	assert.Equal(t, blue, px(c, 2, 5))
	assert.Equal(t, red, px(c, 6, 5))
}

func TestClipAntiAliased(t *testing.T) {
	c := newWhite(10, 10)
	c.ClipRect(geom.LTRB(0, 0, 4.5, 10), displaylist.ClipIntersect, true)
	c.DrawPaint(paint(displaylist.Black))
	got := px(c, 4, 5)
	assert.InDelta(t, 128, got.R, 3)
	assert.Equal(t, white, px(c, 5, 5))
}

func TestSaveLayerAlpha(t *testing.T) {
	c := newWhite(4, 4)
	c.SaveLayer(nil, paint(displaylist.Black.WithAlpha(0x80)), nil)
	c.DrawPaint(paint(displaylist.Green))
	c.DrawRect(geom.WH(2, 4), paint(displaylist.Green))
	assert.Equal(t, white, px(c, 1, 1), "layer content is not visible before restore")
	c.Restore()
	assertNear(t, color.RGBA{127, 255, 127, 255}, px(c, 1, 1), 2)
	assertNear(t, color.RGBA{127, 255, 127, 255}, px(c, 3, 1), 2)
}

func TestSaveLayerColorFilter(t *testing.T) {
	c := newWhite(4, 4)
	p := displaylist.NewPaint()
	p.ColorFilter = displaylist.InvertColorsFilter()
	bounds := geom.WH(2, 4)
	c.SaveLayer(&bounds, &p, nil)
	c.DrawPaint(paint(displaylist.Red))
	c.Restore()
	assertNear(t, color.RGBA{0, 255, 255, 255}, px(c, 1, 1), 1)
	assert.Equal(t, white, px(c, 3, 1))
}

func TestBlendSrcWritesTransparency(t *testing.T) {
	c := newWhite(4, 4)
	p := paint(displaylist.Transparent)
	p.BlendMode = displaylist.BlendSrc
	c.DrawRect(geom.WH(2, 2), p)
	assert.Equal(t, color.RGBA{}, px(c, 1, 1))
	assert.Equal(t, white, px(c, 3, 3))

	c.DrawColor(displaylist.Transparent, displaylist.BlendSrcOver)
	assert.Equal(t, white, px(c, 3, 3))
}

func TestDrawLineStrokes(t *testing.T) {
	c := newWhite(10, 10)
	p := paint(displaylist.Black)
	p.StrokeWidth = 2
	c.DrawLine(geom.Pt(1, 5), geom.Pt(9, 5), p)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, px(c, 5, 4))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, px(c, 5, 5))
	assert.Equal(t, white, px(c, 5, 2))
	assert.Equal(t, white, px(c, 0, 5))
}

func TestStrokedRectIsHollow(t *testing.T) {
	c := newWhite(12, 12)
	p := paint(displaylist.Black)
	p.Style = displaylist.StyleStroke
	p.StrokeWidth = 2
	c.DrawRect(geom.LTRB(2, 2, 10, 10), p)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, px(c, 2, 6))
	assert.Equal(t, white, px(c, 6, 6))
}

func TestDrawDRRectLeavesHole(t *testing.T) {
	c := newWhite(10, 10)
	outer := geom.RRectFromRect(geom.WH(10, 10))
	inner := geom.RRectFromRect(geom.LTRB(3, 3, 7, 7))
	c.DrawDRRect(outer, inner, paint(displaylist.Red))
	assert.Equal(t, red, px(c, 1, 1))
	assert.Equal(t, white, px(c, 5, 5))
}

func TestMaskBlurSpreads(t *testing.T) {
	c := newWhite(20, 20)
	p := paint(displaylist.Black)
	p.MaskFilter = displaylist.BlurMaskFilter{Style: displaylist.BlurNormal, Sigma: 2}
	c.DrawRect(geom.LTRB(5, 5, 15, 15), p)
	assert.Less(t, px(c, 3, 10).R, uint8(255), "blur reaches outside the shape")
	assert.Equal(t, white, px(c, 0, 0))
}

func TestDrawImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	draw.Draw(src, src.Bounds(), image.NewUniform(red), image.Point{}, draw.Src)
	img := displaylist.NewRasterImage(src)

	c := newWhite(10, 10)
	c.DrawImage(img, geom.Pt(4, 4), displaylist.SamplingNearest, nil)
	assert.Equal(t, red, px(c, 4, 4))
	assert.Equal(t, red, px(c, 5, 5))
	assert.Equal(t, white, px(c, 6, 6))

	c.DrawImageRect(img, geom.WH(2, 2), geom.LTRB(0, 0, 4, 2), displaylist.SamplingNearest, paint(displaylist.Black.WithAlpha(0)), displaylist.ConstraintFast)
	assert.Equal(t, white, px(c, 3, 1), "a transparent paint draws nothing")

	c.DrawImageRect(img, geom.WH(2, 2), geom.LTRB(0, 0, 4, 2), displaylist.SamplingNearest, nil, displaylist.ConstraintFast)
	assert.Equal(t, red, px(c, 3, 1))
}

func TestDrawShadow(t *testing.T) {
	c := newWhite(40, 40)
	occluder := geom.NewPath().AddRect(geom.LTRB(10, 10, 30, 30))
	c.DrawShadow(occluder, displaylist.Black, 8, false, 1)
	assert.Less(t, px(c, 20, 31).R, uint8(255), "the shadow falls below the occluder")
	assert.Equal(t, white, px(c, 20, 20), "an opaque occluder hides the shadow under it")
	assert.Equal(t, white, px(c, 0, 0))
}

func TestRenderDisplayList(t *testing.T) {
	b := displaylist.NewBuilder()
	b.SetColor(displaylist.Red)
	b.DrawRect(geom.WH(4, 4))
	b.DrawRect(geom.XYWH(6, 0, 4, 4))
	dl := b.Build()

	c := newWhite(10, 4)
	canvas.Render(dl, c, 0.5)
	assertNear(t, color.RGBA{255, 127, 127, 255}, px(c, 1, 1), 2)
	assertNear(t, color.RGBA{255, 127, 127, 255}, px(c, 8, 1), 2)
	assert.Equal(t, white, px(c, 5, 1))
	assert.Equal(t, 1, c.SaveCount())
}

func TestRestoreToCount(t *testing.T) {
	c := New(4, 4)
	c.Restore()
	c.Save()
	c.SaveLayer(nil, nil, nil)
	c.Save()
	assert.Equal(t, 4, c.SaveCount())
	c.RestoreToCount(2)
	assert.Equal(t, 2, c.SaveCount())
	c.RestoreToCount(0)
	assert.Equal(t, 1, c.SaveCount())
}

func TestRegistered(t *testing.T) {
	cv, err := canvas.New("raster", 8, 6)
	require.NoError(t, err)
	ic, ok := cv.(canvas.ImageCanvas)
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 8, 6), ic.Image().Bounds())

	_, err = canvas.New("raster", 0, 6)
	assert.Error(t, err)
}

func TestSavePNG(t *testing.T) {
	c := newWhite(6, 3)
	c.DrawRect(geom.WH(3, 3), paint(displaylist.Red))
	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, c.SavePNG(path))

	got, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 3), got.Bounds())
	r, g, b, _ := got.At(1, 1).RGBA()
	assert.Equal(t, []uint32{0xffff, 0, 0}, []uint32{r, g, b})
}

func TestClipPolygon(t *testing.T) {
	tri := []geom.Point{geom.Pt(-10, 0), geom.Pt(10, 0), geom.Pt(0, 10)}
	out := clipPolygon(tri, geom.LTRB(0, 0, 20, 20))
	require.NotEmpty(t, out)
	assert.True(t, geom.LTRB(0, 0, 10, 10).NearlyEqual(geom.BoundsOf(out...), 1e-4))
	assert.Nil(t, clipPolygon(tri, geom.LTRB(50, 50, 60, 60)))
}
