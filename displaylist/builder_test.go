package displaylist

import (
	"image"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/retain/geom"
	"github.com/gogpu/retain/internal/check"
	"github.com/gogpu/retain/textblob"
)

func opTypes(dl *DisplayList) []OpType {
	var out []OpType
	for t := range dl.Ops() {
		out = append(out, t)
	}
	return out
}

func TestBuilderEmpty(t *testing.T) {
	dl := NewBuilder().Build()
	assert.Zero(t, dl.OpCount(false))
	assert.True(t, dl.Bounds().IsEmpty())
	assert.True(t, dl.CanApplyGroupOpacity())
	assert.False(t, dl.RequiresBackdrop())
}

func TestBuilderAttributesRecordOnlyChanges(t *testing.T) {
	b := NewBuilder()
	b.SetColor(Red)
	b.SetColor(Red)
	b.SetAntiAlias(false) // default
	b.SetStrokeWidth(2)
	b.SetStrokeWidth(2)
	b.DrawRect(geom.LTRB(0, 0, 10, 10))
	dl := b.Build()

	assert.Equal(t, []OpType{OpSetColor, OpSetStrokeWidth, OpDrawRect}, opTypes(dl))
}

func TestSetAttributesFromPaintSkipsIrrelevantFields(t *testing.T) {
	fill := NewPaint()
	fill.Color = Blue
	fill.StrokeWidth = 12
	fill.StrokeCap = CapRound

	b := NewBuilder()
	b.SetAttributesFromPaint(fill, DrawRectFlags)
	b.DrawRect(geom.LTRB(0, 0, 10, 10))
	dl := b.Build()
	assert.Equal(t, []OpType{OpSetColor, OpDrawRect}, opTypes(dl))

	// Lines are always stroked, so the stroke fields matter there.
	b = NewBuilder()
	b.SetAttributesFromPaint(fill, DrawLineFlags)
	b.DrawLine(geom.Pt(0, 0), geom.Pt(10, 10))
	assert.Equal(t, []OpType{OpSetColor, OpSetStrokeWidth, OpSetStrokeCap, OpDrawLine}, opTypes(b.Build()))

	// Equivalent paints give identical streams.
	other := fill
	other.StrokeWidth = 99
	b1, b2 := NewBuilder(), NewBuilder()
	b1.SetAttributesFromPaint(fill, DrawOvalFlags)
	b1.DrawOval(geom.LTRB(0, 0, 5, 5))
	b2.SetAttributesFromPaint(other, DrawOvalFlags)
	b2.DrawOval(geom.LTRB(0, 0, 5, 5))
	assert.True(t, b1.Build().Equals(b2.Build()))
}

func TestBuilderBounds(t *testing.T) {
	tests := []struct {
		name   string
		record func(b *Builder)
		want   geom.Rect
	}{
		{
			name:   "fill under translate",
			record: func(b *Builder) { b.Translate(10, 20); b.DrawRect(geom.LTRB(0, 0, 50, 50)) },
			want:   geom.LTRB(10, 20, 60, 70),
		},
		{
			name: "stroke pads by half width",
			record: func(b *Builder) {
				b.SetStyle(StyleStroke)
				b.SetStrokeWidth(4)
				b.DrawRect(geom.LTRB(0, 0, 10, 10))
			},
			want: geom.LTRB(-2, -2, 12, 12),
		},
		{
			name: "miter joins on paths pad by the miter limit",
			record: func(b *Builder) {
				b.SetStyle(StyleStroke)
				b.SetStrokeWidth(2)
				b.DrawPath(geom.NewPath().MoveTo(0, 0).LineTo(10, 0).LineTo(0, 10))
			},
			want: geom.LTRB(-4, -4, 14, 14),
		},
		{
			name: "mask blur pads by three sigma",
			record: func(b *Builder) {
				b.SetMaskFilter(BlurMaskFilter{Sigma: 2})
				b.DrawOval(geom.LTRB(0, 0, 10, 10))
			},
			want: geom.LTRB(-6, -6, 16, 16),
		},
		{
			name: "image filter maps local bounds",
			record: func(b *Builder) {
				b.SetImageFilter(DilateImageFilter{RadiusX: 1, RadiusY: 3})
				b.DrawCircle(geom.Pt(5, 5), 5)
			},
			want: geom.LTRB(-1, -3, 11, 13),
		},
		{
			name: "scale maps bounds",
			record: func(b *Builder) {
				b.Scale(2, 3)
				b.DrawRect(geom.LTRB(1, 1, 2, 2))
			},
			want: geom.LTRB(2, 3, 4, 6),
		},
		{
			name: "clip limits bounds",
			record: func(b *Builder) {
				b.ClipRect(geom.LTRB(0, 0, 5, 5), ClipIntersect, false)
				b.DrawRect(geom.LTRB(0, 0, 50, 50))
			},
			want: geom.LTRB(0, 0, 5, 5),
		},
		{
			name: "restore drops clip",
			record: func(b *Builder) {
				b.Save()
				b.ClipRect(geom.LTRB(0, 0, 5, 5), ClipIntersect, false)
				b.Restore()
				b.DrawRect(geom.LTRB(0, 0, 50, 50))
			},
			want: geom.LTRB(0, 0, 50, 50),
		},
		{
			name: "difference clip covering everything empties",
			record: func(b *Builder) {
				b.ClipRect(geom.LTRB(0, 0, 5, 5), ClipIntersect, false)
				b.ClipRect(geom.LTRB(-1, -1, 6, 6), ClipDifference, false)
				b.DrawRect(geom.LTRB(0, 0, 50, 50))
			},
			want: geom.Rect{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			tt.record(b)
			assert.Equal(t, tt.want, b.Build().Bounds())
		})
	}
}

func TestBuilderFloodFillsCullRect(t *testing.T) {
	b := NewBuilder(WithCullRect(geom.WH(100, 80)))
	b.DrawPaint()
	assert.Equal(t, geom.WH(100, 80), b.Build().Bounds())
}

func TestBuilderHairlineHasArea(t *testing.T) {
	b := NewBuilder()
	b.DrawLine(geom.Pt(0, 5), geom.Pt(10, 5))
	bounds := b.Build().Bounds()
	assert.False(t, bounds.IsEmpty())
	assert.True(t, bounds.ContainsRect(geom.LTRB(0, 4.5, 10, 5.5)))
}

func TestBuilderGroupOpacity(t *testing.T) {
	disjoint := func(b *Builder) {
		b.DrawRect(geom.LTRB(0, 0, 10, 10))
		b.DrawRect(geom.LTRB(20, 0, 30, 10))
	}

	t.Run("disjoint", func(t *testing.T) {
		b := NewBuilder()
		disjoint(b)
		assert.True(t, b.Build().CanApplyGroupOpacity())
	})
	t.Run("touching edges", func(t *testing.T) {
		b := NewBuilder()
		b.DrawRect(geom.LTRB(0, 0, 10, 10))
		b.DrawRect(geom.LTRB(10, 0, 20, 10))
		assert.True(t, b.Build().CanApplyGroupOpacity())
	})
	t.Run("overlap", func(t *testing.T) {
		b := NewBuilder()
		disjoint(b)
		b.DrawRect(geom.LTRB(5, 5, 25, 8))
		assert.False(t, b.Build().CanApplyGroupOpacity())
	})
	t.Run("blend mode", func(t *testing.T) {
		b := NewBuilder()
		b.SetBlendMode(BlendMultiply)
		b.DrawRect(geom.LTRB(0, 0, 10, 10))
		assert.False(t, b.Build().CanApplyGroupOpacity())
	})
	t.Run("color filter", func(t *testing.T) {
		b := NewBuilder()
		b.SetColorFilter(SRGBToLinearGammaFilter{})
		b.DrawRect(geom.LTRB(0, 0, 10, 10))
		assert.False(t, b.Build().CanApplyGroupOpacity())
	})
	t.Run("text", func(t *testing.T) {
		b := NewBuilder()
		b.DrawTextBlob(textblob.Shape("hi", nil, 12), 0, 20)
		assert.False(t, b.Build().CanApplyGroupOpacity())
	})
	t.Run("points", func(t *testing.T) {
		b := NewBuilder()
		b.DrawPoints(PointModePoints, []geom.Point{{X: 1, Y: 1}})
		assert.False(t, b.Build().CanApplyGroupOpacity())
	})
	t.Run("shadow", func(t *testing.T) {
		b := NewBuilder()
		b.DrawShadow(geom.NewPath().AddRect(geom.WH(10, 10)), Black, 4, false, 1)
		assert.False(t, b.Build().CanApplyGroupOpacity())
	})
	t.Run("clipped out op does not overlap", func(t *testing.T) {
		b := NewBuilder()
		b.DrawRect(geom.LTRB(0, 0, 10, 10))
		b.Save()
		b.ClipRect(geom.LTRB(50, 50, 60, 60), ClipIntersect, false)
		b.DrawRect(geom.LTRB(0, 0, 10, 10))
		b.Restore()
		assert.True(t, b.Build().CanApplyGroupOpacity())
	})
	t.Run("nested list", func(t *testing.T) {
		inner := NewBuilder()
		inner.DrawRect(geom.LTRB(0, 0, 10, 10))
		inner.DrawRect(geom.LTRB(5, 5, 15, 15))
		nested := inner.Build()
		require.False(t, nested.CanApplyGroupOpacity())

		b := NewBuilder()
		b.DrawDisplayList(nested, 1)
		assert.False(t, b.Build().CanApplyGroupOpacity())
	})
}

func TestSaveLayerDistributesOpacity(t *testing.T) {
	saveLayerOptions := func(dl *DisplayList) SaveLayerOptions {
		for _, o := range dl.ops {
			if sl, ok := o.(saveLayerOp); ok {
				return sl.options
			}
		}
		t.Fatal("no SaveLayer recorded")
		return 0
	}

	b := NewBuilder()
	b.SetColor(Black.WithAlpha(0x80))
	b.SaveLayer(nil, RendersWithAttributes, nil)
	b.SetColor(Red)
	b.DrawRect(geom.LTRB(0, 0, 10, 10))
	b.DrawRect(geom.LTRB(20, 0, 30, 10))
	b.Restore()
	dl := b.Build()
	assert.True(t, saveLayerOptions(dl).CanDistributeOpacity())
	assert.Equal(t, geom.LTRB(0, 0, 30, 10), dl.Bounds())

	b = NewBuilder()
	b.SaveLayer(nil, RendersWithAttributes, nil)
	b.DrawRect(geom.LTRB(0, 0, 10, 10))
	b.DrawRect(geom.LTRB(5, 0, 30, 10))
	b.Restore()
	assert.False(t, saveLayerOptions(b.Build()).CanDistributeOpacity())

	// A layer that is not alpha-only keeps its own compositing.
	b = NewBuilder()
	b.SetBlendMode(BlendScreen)
	b.SaveLayer(nil, RendersWithAttributes, nil)
	b.DrawRect(geom.LTRB(0, 0, 10, 10))
	b.Restore()
	assert.False(t, saveLayerOptions(b.Build()).CanDistributeOpacity())
}

func TestSaveLayerImageFilter(t *testing.T) {
	b := NewBuilder()
	b.SetImageFilter(BlurImageFilter{SigmaX: 2, SigmaY: 2})
	b.SaveLayer(nil, RendersWithAttributes, nil)
	b.SetImageFilter(nil)
	b.DrawRect(geom.LTRB(10, 10, 20, 20))
	b.Restore()
	dl := b.Build()

	assert.True(t, dl.RequiresBackdrop())
	assert.True(t, dl.Bounds().NearlyEqual(geom.LTRB(4, 4, 26, 26), 1e-4), "got %v", dl.Bounds())

	var opts SaveLayerOptions
	for _, o := range dl.ops {
		if sl, ok := o.(saveLayerOp); ok {
			opts = sl.options
		}
	}
	assert.True(t, opts.ImplicitFilterLayer())
	assert.False(t, opts.CanDistributeOpacity())

	// A color filter image filter has an exact color filter equivalent.
	b = NewBuilder()
	b.SetImageFilter(ColorFilterImageFilter{Filter: LinearToSRGBGammaFilter{}})
	b.SaveLayer(nil, RendersWithAttributes, nil)
	b.Restore()
	for _, o := range b.Build().ops {
		if sl, ok := o.(saveLayerOp); ok {
			assert.False(t, sl.options.ImplicitFilterLayer())
		}
	}
}

func TestSaveLayerCallerCannotForceDistribution(t *testing.T) {
	b := NewBuilder()
	b.SaveLayer(nil, CanDistributeOpacity|ImplicitFilterLayer, nil)
	b.DrawRect(geom.LTRB(0, 0, 1, 1))
	b.DrawRect(geom.LTRB(0, 0, 1, 1))
	b.Restore()
	sl := b.Build().ops[0].(saveLayerOp)
	assert.False(t, sl.options.CanDistributeOpacity())
	assert.False(t, sl.options.ImplicitFilterLayer())
}

func TestBuilderTransformNormalization(t *testing.T) {
	b := NewBuilder()
	b.Translate(0, 0)
	b.Scale(1, 1)
	b.Rotate(360)
	b.Skew(0, 0)
	b.Translate(5, 6)
	b.Transform2DAffine(1, 0, 5, 0, 1, 6)
	b.Concat(geom.Identity())
	b.TransformFullPerspective(geom.Scale(2, 2))
	b.TransformFullPerspective(geom.RotateAxis(0, 1, 0, 0.3))
	want := geom.Translate(10, 12).Concat(geom.Scale(2, 2)).Concat(geom.RotateAxis(0, 1, 0, 0.3))
	assert.True(t, want.NearlyEqual(b.Transform(), 1e-5))
	dl := b.Build()
	assert.Equal(t, []OpType{
		OpTranslate, OpTransform2DAffine, OpTransform2DAffine, OpTransform2DAffine, OpTransformFullPerspective,
	}, opTypes(dl))
}

func TestBuilderContracts(t *testing.T) {
	if !check.Enabled {
		t.Skip("assertions disabled")
	}
	assert.PanicsWithValue(t, check.Violation{Msg: "displaylist: Restore without matching Save"}, func() {
		NewBuilder().Restore()
	})
	assert.Panics(t, func() {
		b := NewBuilder()
		b.Save()
		b.Build()
	})
	assert.Panics(t, func() {
		b := NewBuilder()
		b.Build()
		b.DrawPaint()
	})
	assert.Panics(t, func() {
		b := NewBuilder()
		b.Build()
		b.Build()
	})
}

func TestBuilderRoundTrip(t *testing.T) {
	img := NewRasterImage(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	record := func(b *Builder) {
		b.SetAntiAlias(true)
		b.SetColor(ARGB(0xff, 0x10, 0x20, 0x30))
		b.Save()
		b.Translate(5, 5)
		b.ClipRRect(geom.RRectXY(geom.WH(100, 100), 4, 4), ClipIntersect, true)
		b.DrawRRect(geom.RRectXY(geom.WH(40, 20), 3, 3))
		b.SetStyle(StyleStroke)
		b.SetStrokeWidth(3)
		b.DrawPath(geom.NewPath().MoveTo(0, 0).CubicTo(5, 5, 10, -5, 20, 0))
		b.Restore()
		b.SaveLayer(&geom.Rect{Right: 50, Bottom: 50}, RendersWithAttributes, nil)
		b.DrawImage(img, geom.Pt(1, 2), SamplingLinear, true)
		b.DrawImageRect(img, geom.WH(4, 4), geom.LTRB(10, 10, 30, 30), SamplingNearest, false, ConstraintFast)
		b.Restore()
		b.DrawPoints(PointModePolygon, []geom.Point{{X: 1, Y: 1}, {X: 5, Y: 9}, {X: 2, Y: 7}})
		b.DrawColor(White, BlendDstOver)
		b.DrawShadow(geom.NewPath().AddCircle(10, 10, 5), Black, 3, true, 2)
	}

	direct := NewBuilder()
	record(direct)
	want := direct.Build()

	first := NewBuilder()
	record(first)
	copyBuilder := NewBuilder()
	first.Build().Dispatch(copyBuilder)
	got := copyBuilder.Build()

	assert.True(t, want.Equals(got))
	assert.Equal(t, want.Bounds(), got.Bounds())
	assert.Equal(t, want.CanApplyGroupOpacity(), got.CanApplyGroupOpacity())
	assert.NotEqual(t, want.UniqueID(), got.UniqueID())
}

func TestDisplayListEqualsDetectsDifferences(t *testing.T) {
	build := func(w float32, p *geom.Path) *DisplayList {
		b := NewBuilder()
		b.DrawRect(geom.WH(w, 10))
		b.DrawPath(p)
		return b.Build()
	}
	p := geom.NewPath().AddRect(geom.WH(3, 3))
	base := build(10, p)
	assert.True(t, base.Equals(build(10, p.Clone())), "paths compare by content")
	assert.False(t, base.Equals(build(11, p)))
	assert.False(t, base.Equals(build(10, geom.NewPath().AddRect(geom.WH(3, 4)))))
	assert.False(t, base.Equals(nil))
}

func TestNestedOpCount(t *testing.T) {
	inner := NewBuilder()
	inner.DrawRect(geom.WH(1, 1))
	inner.DrawRect(geom.LTRB(2, 2, 3, 3))
	nested := inner.Build()

	b := NewBuilder()
	b.DrawDisplayList(nested, 1)
	b.DrawDisplayList(nested, 0.5)
	dl := b.Build()
	assert.Equal(t, 2, dl.OpCount(false))
	assert.Equal(t, 6, dl.OpCount(true))
}

type typeCollector struct {
	*Builder
	draws []OpType
}

func (c *typeCollector) DrawRect(r geom.Rect) {
	c.draws = append(c.draws, OpDrawRect)
	c.Builder.DrawRect(r)
}

func TestDispatchCulled(t *testing.T) {
	b := NewBuilder()
	b.DrawRect(geom.LTRB(0, 0, 10, 10))
	b.Save()
	b.Translate(100, 0)
	b.DrawRect(geom.LTRB(0, 0, 10, 10))
	b.Restore()
	dl := b.Build()

	c := &typeCollector{Builder: NewBuilder()}
	dl.DispatchCulled(c, geom.LTRB(90, 0, 200, 50))
	assert.Len(t, c.draws, 1)
	out := c.Build()
	assert.Equal(t, geom.LTRB(100, 0, 110, 10), out.Bounds())
	assert.True(t, slices.Contains(opTypes(out), OpTranslate))

	c = &typeCollector{Builder: NewBuilder()}
	dl.DispatchCulled(c, geom.GiantRect)
	assert.Len(t, c.draws, 2)
}
