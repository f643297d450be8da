package canvas

import (
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/retain/displaylist"
	"github.com/gogpu/retain/geom"
)

func build(record func(b *displaylist.Builder)) *displaylist.DisplayList {
	b := displaylist.NewBuilder()
	record(b)
	return b.Build()
}

func trace(dl *displaylist.DisplayList, opacity float32) []string {
	tr := NewTrace(nil)
	Render(dl, tr, opacity)
	return tr.Lines()
}

func twoRects(overlap bool) *displaylist.DisplayList {
	return build(func(b *displaylist.Builder) {
		b.SetColor(displaylist.Red)
		b.DrawRect(geom.WH(10, 10))
		x := float32(20)
		if overlap {
			x = 5
		}
		b.DrawRect(geom.XYWH(x, 0, 10, 10))
	})
}

func TestRenderDistributesOpacity(t *testing.T) {
	lines := trace(twoRects(false), 0.5)
	require.Len(t, lines, 2)
	for _, l := range lines {
		assert.True(t, strings.HasPrefix(l, "drawRect"), l)
		assert.Contains(t, l, "color=#80ff0000")
	}
}

func TestRenderLayersIncompatibleList(t *testing.T) {
	lines := trace(twoRects(true), 0.5)
	require.Len(t, lines, 4)
	assert.Equal(t, "saveLayer bounds=[0,0,15,10] color=#80000000 blend=SrcOver style=Fill", lines[0])
	assert.Contains(t, lines[1], "color=#ffff0000")
	assert.Contains(t, lines[2], "color=#ffff0000")
	assert.Equal(t, "restore", lines[3])
}

func TestRenderSkipsInvisible(t *testing.T) {
	assert.Empty(t, trace(twoRects(false), 0))
	assert.Empty(t, trace(nil, 1))
}

func TestDispatcherSafePaint(t *testing.T) {
	d := NewDispatcher(NewTrace(nil), 0.5)
	d.SetColor(displaylist.Blue)
	d.SetStrokeWidth(3)

	p := d.safePaint(true)
	require.NotNil(t, p)
	assert.Equal(t, displaylist.Blue.WithAlpha(0x80), p.Color)
	assert.Equal(t, float32(3), p.StrokeWidth)
	assert.Equal(t, displaylist.Blue, d.paint.Color, "accumulated paint is not modified")

	p = d.safePaint(false)
	require.NotNil(t, p)
	assert.Equal(t, displaylist.Black.WithAlpha(0x80), p.Color)

	assert.Nil(t, NewDispatcher(NewTrace(nil), 1).safePaint(false))
	assert.Equal(t, float32(1), NewDispatcher(NewTrace(nil), 3).Opacity())
}

func TestDispatcherSaveLayerBecomesSave(t *testing.T) {
	dl := build(func(b *displaylist.Builder) {
		b.SetColor(displaylist.Black.WithOpacity(0.5))
		b.SaveLayer(nil, displaylist.RendersWithAttributes, nil)
		b.SetColor(displaylist.Green)
		b.DrawRect(geom.WH(10, 10))
		b.Restore()
	})
	lines := trace(dl, 1)
	assert.Equal(t, []string{
		"save",
		"  drawRect [0,0,10,10] color=#8000ff00 blend=SrcOver style=Fill",
		"restore",
	}, lines)

	// Bounds force a real layer; the layer takes the alpha.
	bounds := geom.WH(10, 10)
	dl = build(func(b *displaylist.Builder) {
		b.SetColor(displaylist.Black.WithOpacity(0.5))
		b.SaveLayer(&bounds, displaylist.RendersWithAttributes, nil)
		b.SetColor(displaylist.Green)
		b.DrawRect(geom.WH(10, 10))
		b.Restore()
	})
	lines = trace(dl, 1)
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "saveLayer bounds=[0,0,10,10] color=#80000000"), lines[0])
	assert.Contains(t, lines[1], "color=#ff00ff00")
}

func TestDispatcherNestedList(t *testing.T) {
	inner := build(func(b *displaylist.Builder) {
		b.SetColor(displaylist.Red)
		b.DrawRect(geom.WH(10, 10))
	})
	outer := build(func(b *displaylist.Builder) {
		b.Translate(5, 5)
		b.DrawDisplayList(inner, 0.5)
		b.DrawRect(geom.WH(1, 1))
	})
	tr := NewTrace(nil)
	Render(outer, tr, 1)
	assert.Equal(t, []string{
		"translate 5 5",
		"save",
		"  drawRect [0,0,10,10] color=#80ff0000 blend=SrcOver style=Fill",
		"restore",
		"drawRect [0,0,1,1] color=#ff000000 blend=SrcOver style=Fill",
	}, tr.Lines())
	assert.Equal(t, 1, tr.SaveCount())
	assert.Equal(t, geom.Translate(5, 5), tr.Matrix())
}

func TestDispatchIdempotent(t *testing.T) {
	dl := build(func(b *displaylist.Builder) {
		b.SetAntiAlias(true)
		b.Save()
		b.Rotate(30)
		b.ClipRect(geom.WH(50, 50), displaylist.ClipIntersect, true)
		b.SetStyle(displaylist.StyleStroke)
		b.SetStrokeWidth(2)
		b.DrawCircle(geom.Pt(20, 20), 10)
		b.DrawPath(geom.NewPath().MoveTo(0, 0).QuadTo(10, 0, 10, 10))
		b.Restore()
		b.DrawShadow(geom.NewPath().AddRect(geom.WH(30, 30)), displaylist.Black, 4, false, 2)
	})
	first := trace(dl, 0.7)
	second := trace(dl, 0.7)
	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestRecorderRoundTrip(t *testing.T) {
	rec := NewRecorder(geom.WH(200, 200))
	fill := displaylist.PaintWithColor(displaylist.Blue)
	stroke := displaylist.PaintWithColor(displaylist.Red)
	stroke.Style = displaylist.StyleStroke
	stroke.StrokeWidth = 4
	stroke.StrokeJoin = displaylist.JoinRound
	layer := displaylist.PaintWithColor(displaylist.Black.WithOpacity(0.25))
	bounds := geom.WH(100, 100)

	rec.DrawColor(displaylist.White, displaylist.BlendSrc)
	rec.Translate(10, 10)
	rec.DrawRect(geom.WH(20, 20), &fill)
	rec.DrawLine(geom.Pt(0, 0), geom.Pt(40, 0), &stroke)
	rec.DrawPath(geom.NewPath().MoveTo(0, 0).LineTo(30, 5).LineTo(5, 30).Close(), &stroke)
	rec.Save()
	rec.ClipRRect(geom.RRectXY(geom.WH(60, 60), 8, 8), displaylist.ClipIntersect, true)
	rec.SaveLayer(&bounds, &layer, nil)
	rec.DrawOval(geom.XYWH(50, 50, 30, 20), &fill)
	rec.Restore()
	rec.Restore()
	rec.DrawPoints(displaylist.PointModePolygon, []geom.Point{{X: 1, Y: 1}, {X: 9, Y: 4}, {X: 3, Y: 7}}, &stroke)
	want := rec.Build()

	replay := NewRecorder(geom.WH(200, 200))
	Render(want, replay, 1)
	got := replay.Build()

	assert.True(t, want.Equals(got))
	assert.Equal(t, want.Bounds(), got.Bounds())
	assert.Equal(t, want.OpCount(false), got.OpCount(false))
}

func TestRecorderRecordsOnlyRelevantAttributes(t *testing.T) {
	rec := NewRecorder(geom.WH(100, 100))
	p := displaylist.PaintWithColor(displaylist.Green)
	p.StrokeWidth = 6
	rec.DrawRect(geom.WH(10, 10), &p)
	rec.DrawImage(displaylist.NewRasterImage(image.NewRGBA(image.Rect(0, 0, 4, 4))), geom.Pt(0, 0), displaylist.SamplingNearest, nil)
	dl := rec.Build()

	var types []displaylist.OpType
	for op := range dl.Ops() {
		types = append(types, op)
	}
	assert.Equal(t, []displaylist.OpType{displaylist.OpSetColor, displaylist.OpDrawRect, displaylist.OpDrawImage}, types)
}

func TestRecorderRestoreOnEmptyStackIgnored(t *testing.T) {
	rec := NewRecorder(geom.WH(10, 10))
	assert.NotPanics(t, rec.Restore)
	assert.Equal(t, 1, rec.SaveCount())
}

func TestComputeShadowParams(t *testing.T) {
	p := ComputeShadowParams(displaylist.Black, 4, false, 2)
	assert.Equal(t, displaylist.ARGB(10, 0, 0, 0), p.Ambient)
	assert.Equal(t, displaylist.ARGB(64, 0, 0, 0), p.Spot)
	assert.Equal(t, ShadowDirectionalLight, p.Flags)
	assert.Equal(t, [3]float32{0, 0, 8}, p.ZPlane)
	assert.InDelta(t, 800.0/600.0, p.LightRadius, 1e-6)

	transparent := ComputeShadowParams(displaylist.Black, 4, true, 2)
	assert.Equal(t, ShadowDirectionalLight|ShadowTransparentOccluder, transparent.Flags)
	assert.Equal(t, uint8(9), transparent.Ambient.Alpha())
	assert.Equal(t, p.Spot, transparent.Spot)
}

func TestTonalColors(t *testing.T) {
	ambient, spot := TonalColors(displaylist.Red.WithAlpha(10), displaylist.Red.WithAlpha(64))
	assert.Equal(t, displaylist.ARGB(10, 0, 0, 0), ambient, "ambient is greyscale")
	assert.Greater(t, spot.Alpha(), uint8(64))
	assert.Positive(t, spot.Red())
	assert.Zero(t, spot.Green())
	assert.Zero(t, spot.Blue())

	_, spot = TonalColors(displaylist.Transparent, displaylist.Transparent)
	assert.Equal(t, displaylist.Transparent, spot)
}

func TestRegistry(t *testing.T) {
	assert.Contains(t, Names(), "trace")

	c, err := New("trace", 10, 10)
	require.NoError(t, err)
	assert.IsType(t, &Trace{}, c)

	_, err = New("no-such-sink", 10, 10)
	assert.ErrorIs(t, err, ErrUnknownSink)

	boom := errors.New("boom")
	Register("failing", func(int, int) (Canvas, error) { return nil, boom })
	t.Cleanup(func() { Unregister("failing") })
	_, err = New("failing", 1, 1)
	assert.ErrorIs(t, err, boom)

	assert.Panics(t, func() { Register("trace", func(int, int) (Canvas, error) { return nil, nil }) })
	assert.Panics(t, func() { Register("nil", nil) })
}

func TestTraceRestoreToCount(t *testing.T) {
	tr := NewTrace(nil)
	tr.Save()
	tr.Translate(1, 2)
	tr.Save()
	tr.Scale(2, 2)
	assert.Equal(t, 3, tr.SaveCount())
	tr.RestoreToCount(1)
	assert.Equal(t, 1, tr.SaveCount())
	assert.True(t, tr.Matrix().IsIdentity())
	tr.Restore()
	assert.Equal(t, []string{"save", "  translate 1 2", "  save", "    scale 2 2", "  restore", "restore"}, tr.Lines())
}
