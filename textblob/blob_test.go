package textblob

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeLatin(t *testing.T) {
	b := Shape("Hello", nil, 20)
	require.Len(t, b.Runs(), 1)
	assert.Equal(t, 5, b.GlyphCount())
	assert.Equal(t, 5, b.RuneCount())
	assert.False(t, b.Runs()[0].RTL)

	bounds := b.Bounds()
	assert.False(t, bounds.IsEmpty())
	assert.Less(t, bounds.Top, float32(0), "ascent is above the baseline")
	assert.Greater(t, bounds.Bottom, float32(0), "descent is below the baseline")
	assert.InDelta(t, b.Advance(), bounds.Right, 1e-3)

	glyphs := b.Runs()[0].Glyphs
	for i := 1; i < len(glyphs); i++ {
		assert.Greater(t, glyphs[i].X, glyphs[i-1].X)
	}
}

func TestShapeScalesWithSize(t *testing.T) {
	small := Shape("scale", nil, 10)
	large := Shape("scale", nil, 40)
	assert.InDelta(t, small.Advance()*4, large.Advance(), 0.5)
}

func TestShapeEmpty(t *testing.T) {
	b := Shape("", nil, 12)
	assert.Zero(t, b.GlyphCount())
	assert.True(t, b.Bounds().IsEmpty())
	assert.True(t, b.Outline().IsEmpty())
}

func TestShapeMixedDirection(t *testing.T) {
	b := Shape("abc אבג", nil, 16)
	require.GreaterOrEqual(t, len(b.Runs()), 2)
	var rtl bool
	for _, r := range b.Runs() {
		rtl = rtl || r.RTL
	}
	assert.True(t, rtl)
}

func TestOutlineWithinBounds(t *testing.T) {
	b := Shape("Hxg", nil, 32)
	out := b.Outline()
	require.False(t, out.IsEmpty())
	ob := out.Bounds()
	bounds := b.Bounds().Outset(1, 1)
	assert.True(t, bounds.ContainsRect(ob), "outline %v inside %v", ob, bounds)
	assert.Same(t, out, b.Outline())
}

func TestParseFontRejectsGarbage(t *testing.T) {
	_, err := ParseFont("junk", []byte("not a font"))
	assert.Error(t, err)
}
