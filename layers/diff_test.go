package layers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/retain/displaylist"
	"github.com/gogpu/retain/geom"
)

var frame200 = geom.ISize{Width: 200, Height: 200}

// linked returns l after linking it to old.
func linked[L Layer](l L, old Layer) L {
	l.AssignOldLayer(old)
	return l
}

func TestDiffSelfIsEmpty(t *testing.T) {
	root := NewContainerLayer(mockRect(0, 0, 10, 10), NewTransformLayer(geom.Translate(5, 5), mockRect(0, 0, 20, 20)))
	t1 := NewLayerTree(root, frame200)
	first := t1.Diff(nil)
	assert.Equal(t, geom.ILTRB(0, 0, 200, 200), first.FrameDamage, "the first frame is fully damaged")

	t2 := NewLayerTree(root, frame200)
	assert.True(t, t2.Diff(t1).IsEmpty())
}

func TestDiffUnlinkedChildrenDamageWholeParent(t *testing.T) {
	a1, b1 := mockRect(0, 0, 10, 10), mockRect(50, 50, 60, 60)
	c1 := NewContainerLayer(a1, b1)
	t1 := NewLayerTree(c1, frame200)
	t1.Diff(nil)

	a2, b2 := mockRect(0, 0, 10, 10), mockRect(50, 50, 60, 60)
	c2 := linked(NewContainerLayer(a2, b2), c1)
	t2 := NewLayerTree(c2, frame200)
	assert.Equal(t, geom.ILTRB(0, 0, 60, 60), t2.Diff(t1).FrameDamage)

	a3 := linked(mockRect(0, 0, 10, 10), a2)
	b3 := linked(mockRect(50, 50, 61, 60), b2)
	c3 := linked(NewContainerLayer(a3, b3), c2)
	t3 := NewLayerTree(c3, frame200)
	assert.Equal(t, geom.ILTRB(50, 50, 61, 60), t3.Diff(t2).FrameDamage, "only the changed child")

	a4 := linked(mockRect(0, 0, 10, 10), a3)
	x := mockRect(100, 100, 110, 110)
	b4 := linked(mockRect(50, 50, 61, 60), b3)
	c4 := linked(NewContainerLayer(a4, x, b4), c3)
	t4 := NewLayerTree(c4, frame200)
	assert.Equal(t, geom.ILTRB(100, 100, 110, 110), t4.Diff(t3).FrameDamage, "an inserted child")

	c5 := linked(NewContainerLayer(linked(mockRect(0, 0, 10, 10), a4), linked(mockRect(50, 50, 61, 60), b4)), c4)
	t5 := NewLayerTree(c5, frame200)
	assert.Equal(t, geom.ILTRB(100, 100, 110, 110), t5.Diff(t4).FrameDamage, "a removed child")
}

func TestDiffTransformChildren(t *testing.T) {
	frame := geom.ISize{Width: 600, Height: 200}
	box := func(x float32, old Layer) *TransformLayer {
		leaf := mockRect(0, 0, 100, 100)
		l := NewTransformLayer(geom.Translate(x, 10), leaf)
		if old != nil {
			leaf.AssignOldLayer(old.(*TransformLayer).Children()[0])
			l.AssignOldLayer(old)
		}
		return l
	}
	xs := []float32{10, 210, 390}

	p1 := NewTransformLayer(geom.Translate(10, 10))
	for _, x := range xs {
		p1.Add(box(x, nil))
	}
	t1 := NewLayerTree(p1, frame)
	t1.Diff(nil)

	p2 := linked(NewTransformLayer(geom.Translate(10, 10)), p1)
	for _, x := range xs {
		p2.Add(box(x, nil))
	}
	t2 := NewLayerTree(p2, frame)
	assert.Equal(t, geom.ILTRB(20, 20, 500, 120), t2.Diff(t1).FrameDamage, "unlinked children")

	p3 := linked(NewTransformLayer(geom.Translate(10, 10)), p2)
	for i, x := range []float32{10, 211, 390} {
		p3.Add(box(x, p2.Children()[i]))
	}
	t3 := NewLayerTree(p3, frame)
	assert.Equal(t, geom.ILTRB(220, 20, 321, 120), t3.Diff(t2).FrameDamage, "one child moved by a pixel")
}

func TestDiffUnlinkedRoot(t *testing.T) {
	t1 := NewLayerTree(NewContainerLayer(mockRect(0, 0, 10, 10)), frame200)
	t1.Diff(nil)
	t2 := NewLayerTree(NewContainerLayer(mockRect(20, 20, 30, 30)), frame200)
	assert.Equal(t, geom.ILTRB(0, 0, 30, 30), t2.Diff(t1).FrameDamage)
}

func TestDiffOldTreeNeverDiffed(t *testing.T) {
	child := mockRect(0, 0, 10, 10)
	t1 := NewLayerTree(NewContainerLayer(child), frame200)
	t2 := NewLayerTree(linked(NewContainerLayer(child), t1.Root()), frame200)
	assert.Equal(t, geom.ILTRB(0, 0, 200, 200), t2.Diff(t1).FrameDamage)
}

func TestDiffRecordsPaintRegions(t *testing.T) {
	child := mockRect(0, 0, 10, 10)
	tl := NewTransformLayer(geom.Translate(30, 40), child)
	tree := NewLayerTree(tl, frame200)
	tree.Diff(nil)

	r := tree.PaintRegion(child)
	require.True(t, r.IsValid())
	assert.Equal(t, []geom.Rect{geom.LTRB(30, 40, 40, 50)}, r.Rects())
	assert.Equal(t, geom.LTRB(30, 40, 40, 50), tree.PaintRegion(tl).Bounds())
}

func TestDiffOpacityChange(t *testing.T) {
	child := mockRect(0, 0, 10, 10)
	o1 := NewOpacityLayer(255, geom.Point{}, child)
	t1 := NewLayerTree(NewContainerLayer(o1), frame200)
	t1.Diff(nil)

	o2 := linked(NewOpacityLayer(128, geom.Point{}, child), o1)
	t2 := NewLayerTree(linked(NewContainerLayer(o2), t1.Root()), frame200)
	assert.Equal(t, geom.ILTRB(0, 0, 10, 10), t2.Diff(t1).FrameDamage)
}

func TestDiffClipCullsDamage(t *testing.T) {
	child1 := mockRect(0, 0, 100, 100)
	clip1 := NewClipRectLayer(geom.LTRB(0, 0, 20, 20), ClipHardEdge, child1)
	t1 := NewLayerTree(clip1, frame200)
	t1.Diff(nil)

	child2 := linked(mockRect(0, 0, 100, 101), child1)
	clip2 := linked(NewClipRectLayer(geom.LTRB(0, 0, 20, 20), ClipHardEdge, child2), clip1)
	t2 := NewLayerTree(clip2, frame200)
	d := t2.Diff(t1)
	assert.Equal(t, geom.ILTRB(0, 0, 100, 101), d.FrameDamage, "damage is reported in full, culling only drops invisible layers")

	hidden := linked(mockRect(50, 50, 60, 60), child2)
	clip3 := linked(NewClipRectLayer(geom.LTRB(0, 0, 20, 20), ClipHardEdge, hidden), clip2)
	t3 := NewLayerTree(clip3, frame200)
	t3.Diff(t2)
	assert.Empty(t, t3.PaintRegion(hidden).Rects(), "a layer outside the clip paints nothing")
}

func TestDiffImageFilterGrowsDamage(t *testing.T) {
	blur := displaylist.BlurImageFilter{SigmaX: 2, SigmaY: 2}
	child1 := mockRect(50, 50, 60, 60)
	f1 := NewImageFilterLayer(blur, geom.Point{}, child1)
	t1 := NewLayerTree(f1, frame200)
	t1.Diff(nil)

	child2 := linked(mockRect(50, 50, 61, 60), child1)
	f2 := linked(NewImageFilterLayer(blur, geom.Point{}, child2), f1)
	t2 := NewLayerTree(f2, frame200)
	assert.Equal(t, geom.ILTRB(44, 44, 67, 66), t2.Diff(t1).FrameDamage)
}

func TestDiffDisplayListLayer(t *testing.T) {
	d1 := NewDisplayListLayer(geom.Pt(10, 10), rectList(geom.WH(20, 20)))
	t1 := NewLayerTree(NewContainerLayer(d1), frame200)
	t1.Diff(nil)

	same := linked(NewDisplayListLayer(geom.Pt(10, 10), rectList(geom.WH(20, 20))), d1)
	t2 := NewLayerTree(linked(NewContainerLayer(same), t1.Root()), frame200)
	assert.True(t, t2.Diff(t1).IsEmpty(), "equal lists do not damage")

	grown := linked(NewDisplayListLayer(geom.Pt(10, 10), rectList(geom.WH(30, 20))), same)
	t3 := NewLayerTree(linked(NewContainerLayer(grown), t2.Root()), frame200)
	assert.Equal(t, geom.ILTRB(10, 10, 40, 30), t3.Diff(t2).FrameDamage)
}

func TestDiffPhysicalShapeElevation(t *testing.T) {
	shape := rectPath(geom.LTRB(50, 50, 100, 100))
	p1 := NewPhysicalShapeLayer(shape, displaylist.Green, displaylist.Black, 0, ClipHardEdge)
	t1 := NewLayerTree(NewContainerLayer(p1), frame200)
	t1.Diff(nil)

	p2 := linked(NewPhysicalShapeLayer(shape, displaylist.Green, displaylist.Black, 2, ClipHardEdge), p1)
	t2 := NewLayerTree(linked(NewContainerLayer(p2), t1.Root()), frame200)
	want := displaylist.ComputeShadowBounds(shape, 2, 1).RoundOut()
	assert.Equal(t, want, t2.Diff(t1).FrameDamage)
}

func TestComputeDamage(t *testing.T) {
	ctx := NewDiffContext(geom.ISize{Width: 100, Height: 100}, 1, nil, nil)
	ctx.AddDamageRect(geom.LTRB(3.5, 4.2, 10.1, 12))

	d := ctx.ComputeDamage(geom.ILTRB(90, 90, 120, 120), 0, 0)
	assert.Equal(t, geom.ILTRB(3, 4, 11, 12), d.FrameDamage)
	assert.Equal(t, geom.ILTRB(3, 4, 100, 100), d.BufferDamage)

	aligned := ctx.ComputeDamage(geom.IRect{}, 8, 16)
	assert.Equal(t, geom.ILTRB(0, 0, 16, 16), aligned.FrameDamage)
	assert.Equal(t, aligned.FrameDamage, aligned.BufferDamage)
}

func TestDiffTreeOptions(t *testing.T) {
	child := mockRect(0, 0, 10, 10)
	t1 := NewLayerTree(NewContainerLayer(child), frame200)
	t1.Diff(nil)
	t2 := NewLayerTree(t1.Root(), frame200)
	d := t2.Diff(t1, WithAdditionalDamage(geom.ILTRB(20, 20, 30, 30)), WithAlignment(32, 32))
	assert.True(t, d.FrameDamage.IsEmpty())
	assert.Equal(t, geom.ILTRB(0, 0, 32, 32), d.BufferDamage)
}

func TestDiffContextSubtrees(t *testing.T) {
	ctx := NewDiffContext(frame200, 1, map[uint64]PaintRegion{}, nil)
	ctx.BeginSubtree()
	ctx.PushTransform(geom.Translate(10, 0))
	assert.True(t, ctx.PushCullRect(geom.WH(50, 50)))
	assert.Equal(t, geom.LTRB(10, 0, 60, 50), ctx.CullRect())
	assert.Equal(t, geom.WH(50, 50), ctx.CullRectLocal())
	ctx.PushFilterBoundsAdjustment(func(r geom.Rect) geom.Rect { return r.Outset(1, 1) })
	ctx.AddLayerBounds(geom.WH(5, 5))
	region := ctx.CurrentSubtreeRegion()
	ctx.EndSubtree()

	assert.Equal(t, []geom.Rect{geom.LTRB(9, -1, 16, 6)}, region.Rects())
	assert.True(t, ctx.Transform().IsIdentity())
	assert.Equal(t, geom.GiantRect, ctx.CullRect())
	assert.True(t, ctx.PushCullRect(geom.WH(100, 100)))
	assert.False(t, ctx.PushCullRect(geom.LTRB(300, 300, 400, 400)))
}
