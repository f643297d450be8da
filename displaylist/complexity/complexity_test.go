package complexity

import (
	"image"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/retain/displaylist"
	"github.com/gogpu/retain/geom"
	"github.com/gogpu/retain/textblob"
)

func build(record func(b *displaylist.Builder)) *displaylist.DisplayList {
	b := displaylist.NewBuilder()
	record(b)
	return b.Build()
}

func estimators() map[string]func(...Option) *Estimator {
	return map[string]func(...Option) *Estimator{"metal": NewMetal, "gl": NewGL}
}

func TestForBackend(t *testing.T) {
	assert.Equal(t, "Metal", ForBackend(gputypes.BackendMetal).(*Estimator).Name())
	assert.Equal(t, "GL", ForBackend(gputypes.BackendGL).(*Estimator).Name())
	assert.IsType(t, &Naive{}, ForBackend(gputypes.BackendVulkan))
	assert.Equal(t, uint(42), ForBackend(gputypes.BackendDX12, WithCeiling(42)).Ceiling())
}

func TestNaive(t *testing.T) {
	inner := build(func(b *displaylist.Builder) {
		b.DrawRect(geom.WH(1, 1))
		b.DrawRect(geom.WH(2, 2))
	})
	dl := build(func(b *displaylist.Builder) {
		b.SetColor(displaylist.Red)
		b.DrawDisplayList(inner, 1)
	})

	n := NewNaive()
	assert.Equal(t, uint(4), n.Compute(dl))
	assert.False(t, n.ShouldBeCached(4))
	assert.True(t, n.ShouldBeCached(6))
	assert.Zero(t, n.Compute(nil))

	n.SetCeiling(3)
	score := n.Compute(dl)
	assert.Equal(t, uint(4), score)
	assert.True(t, IsComplex(n, score))
}

func TestEstimatorMonotoneInSize(t *testing.T) {
	type recorder func(b *displaylist.Builder, size float32)
	ops := map[string]recorder{
		"fill rect": func(b *displaylist.Builder, s float32) { b.DrawRect(geom.WH(s, s)) },
		"stroke rect": func(b *displaylist.Builder, s float32) {
			b.SetStyle(displaylist.StyleStroke)
			b.SetStrokeWidth(2)
			b.DrawRect(geom.WH(s, s))
		},
		"aa oval": func(b *displaylist.Builder, s float32) { b.SetAntiAlias(true); b.DrawOval(geom.WH(s, s/2)) },
		"circle":  func(b *displaylist.Builder, s float32) { b.DrawCircle(geom.Pt(0, 0), s) },
		"line":    func(b *displaylist.Builder, s float32) { b.DrawLine(geom.Pt(0, 0), geom.Pt(s, s)) },
		"rrect":   func(b *displaylist.Builder, s float32) { b.DrawRRect(geom.RRectXY(geom.WH(s, s), 4, 4)) },
		"arc":     func(b *displaylist.Builder, s float32) { b.DrawArc(geom.WH(s, s), 0, 90, true) },
		"image": func(b *displaylist.Builder, s float32) {
			img := &displaylist.TextureImage{Width: 8, Height: 8, Format: gputypes.TextureFormatRGBA8Unorm}
			b.DrawImageRect(img, geom.WH(8, 8), geom.WH(s, s), displaylist.SamplingLinear, false, displaylist.ConstraintFast)
		},
		"points": func(b *displaylist.Builder, s float32) {
			pts := make([]geom.Point, int(s))
			for i := range pts {
				pts[i] = geom.Pt(float32(i), 0)
			}
			b.DrawPoints(displaylist.PointModeLines, pts)
		},
		"path verbs": func(b *displaylist.Builder, s float32) {
			p := geom.NewPath().MoveTo(0, 0)
			for i := 0; i < int(s); i++ {
				p.LineTo(float32(i), float32(i%7))
			}
			b.DrawPath(p)
		},
		"shadow verbs": func(b *displaylist.Builder, s float32) {
			p := geom.NewPath().MoveTo(0, 0)
			for i := 0; i < int(s)/10; i++ {
				p.CubicTo(1, 1, 2, 2, float32(i), 3)
			}
			b.DrawShadow(p, displaylist.Black, 4, false, 1)
		},
	}
	sizes := []float32{1, 10, 50, 100, 500, 1000, 5000}

	for calcName, newCalc := range estimators() {
		for opName, record := range ops {
			t.Run(calcName+"/"+opName, func(t *testing.T) {
				calc := newCalc()
				var prev uint
				for _, s := range sizes {
					score := calc.Compute(build(func(b *displaylist.Builder) { record(b, s) }))
					assert.GreaterOrEqual(t, score, prev, "size %v", s)
					prev = score
				}
				assert.Positive(t, prev)
			})
		}
	}
}

func TestEstimatorPenalties(t *testing.T) {
	for name, newCalc := range estimators() {
		t.Run(name, func(t *testing.T) {
			calc := newCalc()
			line := func(aa bool, width float32) uint {
				return calc.Compute(build(func(b *displaylist.Builder) {
					b.SetAntiAlias(aa)
					b.SetStrokeWidth(width)
					b.DrawLine(geom.Pt(0, 0), geom.Pt(100, 0))
				}))
			}
			assert.Greater(t, line(true, 0), line(false, 0))
			assert.Greater(t, line(false, 3), line(false, 0))

			drawImage := func(img displaylist.Image) uint {
				return calc.Compute(build(func(b *displaylist.Builder) {
					b.DrawImage(img, geom.Pt(0, 0), displaylist.SamplingNearest, false)
				}))
			}
			texture := &displaylist.TextureImage{Width: 64, Height: 64, Format: gputypes.TextureFormatBGRA8Unorm}
			raster := displaylist.NewRasterImage(image.NewRGBA(image.Rect(0, 0, 64, 64)))
			assert.Greater(t, drawImage(raster), drawImage(texture))

			shadow := func(transparent bool) uint {
				return calc.Compute(build(func(b *displaylist.Builder) {
					b.DrawShadow(geom.NewPath().AddCircle(10, 10, 10), displaylist.Black, 2, transparent, 1)
				}))
			}
			assert.Greater(t, shadow(true), shadow(false))
		})
	}
}

func TestEstimatorDeferredCosts(t *testing.T) {
	calc := NewMetal()
	blob := textblob.Shape("complexity", nil, 14)
	blobs := func(n int) uint {
		return calc.Compute(build(func(b *displaylist.Builder) {
			for i := 0; i < n; i++ {
				b.DrawTextBlob(blob, 0, float32(i)*20)
			}
		}))
	}
	one, two := blobs(1), blobs(2)
	assert.Greater(t, two, one)
	assert.Less(t, two, 2*one, "text cost is amortized across blobs")

	layer := func(filter displaylist.ImageFilter) uint {
		return calc.Compute(build(func(b *displaylist.Builder) {
			b.SetImageFilter(filter)
			b.SaveLayer(nil, displaylist.RendersWithAttributes, nil)
			b.Restore()
		}))
	}
	plain := layer(nil)
	assert.Positive(t, plain)
	assert.Greater(t, layer(displaylist.BlurImageFilter{SigmaX: 3, SigmaY: 3}), plain)
}

func TestEstimatorCeiling(t *testing.T) {
	for name, newCalc := range estimators() {
		t.Run(name, func(t *testing.T) {
			rects := func(n int) *displaylist.DisplayList {
				return build(func(b *displaylist.Builder) {
					for i := 0; i < n; i++ {
						b.DrawRect(geom.XYWH(float32(i), 0, 200, 200))
					}
				})
			}
			unbounded := newCalc()
			oneRect := unbounded.Compute(rects(1))
			require.Positive(t, oneRect)

			ceiling := oneRect*10 + oneRect/2
			calc := newCalc(WithCeiling(ceiling))
			wasComplex := false
			for n := 1; n <= 20; n++ {
				score := calc.Compute(rects(n))
				complex := IsComplex(calc, score)
				if wasComplex {
					assert.True(t, complex, "n=%d", n)
				}
				if complex {
					assert.Equal(t, ceiling+1, score)
				}
				wasComplex = wasComplex || complex
			}
			assert.True(t, wasComplex)
			assert.False(t, IsComplex(calc, calc.Compute(rects(10))))
			assert.True(t, IsComplex(calc, calc.Compute(rects(11))))
		})
	}
}

func TestEstimatorNestedBudget(t *testing.T) {
	calc := NewMetal()
	nested := build(func(b *displaylist.Builder) {
		b.DrawRect(geom.WH(300, 300))
		b.DrawRect(geom.XYWH(400, 0, 300, 300))
	})
	nestedScore := calc.Compute(nested)
	outer := build(func(b *displaylist.Builder) {
		b.DrawRect(geom.WH(300, 300))
		b.DrawDisplayList(nested, 1)
	})
	outerScore := calc.Compute(outer)
	assert.Greater(t, outerScore, nestedScore)

	// A budget that fits the outer rect but not the nested list.
	calc.SetCeiling(outerScore - nestedScore + nestedScore/2)
	assert.True(t, IsComplex(calc, calc.Compute(outer)))
	assert.False(t, IsComplex(calc, calc.Compute(nested)))
}

func TestShouldBeCached(t *testing.T) {
	calc := NewGL()
	cheap := calc.Compute(build(func(b *displaylist.Builder) { b.DrawRect(geom.WH(10, 10)) }))
	assert.False(t, calc.ShouldBeCached(cheap))

	blur := calc.Compute(build(func(b *displaylist.Builder) {
		b.SetImageFilter(displaylist.BlurImageFilter{SigmaX: 4, SigmaY: 4})
		b.SaveLayer(nil, displaylist.RendersWithAttributes, nil)
		b.DrawRect(geom.WH(10, 10))
		b.Restore()
	}))
	assert.True(t, calc.ShouldBeCached(blur))
}

func TestMemo(t *testing.T) {
	dl := build(func(b *displaylist.Builder) { b.DrawOval(geom.WH(30, 30)) })
	memo := NewMemo(NewMetal(), 8)

	first := memo.Compute(dl)
	assert.Equal(t, first, memo.Compute(dl))
	hits, misses := memo.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)

	memo.SetCeiling(1)
	score := memo.Compute(dl)
	assert.Equal(t, uint(2), score)
	assert.True(t, IsComplex(memo, score))
	assert.Zero(t, memo.Compute(nil))
}
