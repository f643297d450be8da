package scenefile

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/retain/canvas/raster"
	"github.com/gogpu/retain/displaylist"
	"github.com/gogpu/retain/geom"
	"github.com/gogpu/retain/layers"
)

func loadTrees(t *testing.T, path string) (*Scene, []*layers.LayerTree) {
	t.Helper()
	s, err := Load(path)
	require.NoError(t, err)
	trees, err := s.Trees()
	require.NoError(t, err)
	require.Len(t, trees, len(s.Frames))
	return s, trees
}

func TestLoadFormats(t *testing.T) {
	for _, name := range []string{"moving.yaml", "moving.toml"} {
		t.Run(name, func(t *testing.T) {
			s, trees := loadTrees(t, filepath.Join("testdata", name))
			assert.Equal(t, geom.ISize{Width: 200, Height: 200}, s.FrameSize())
			assert.Equal(t, "moved", s.Frames[1].Name)

			bg, err := s.BackgroundColor()
			require.NoError(t, err)
			assert.Equal(t, displaylist.White, bg)

			first := trees[0].Diff(nil)
			assert.Equal(t, geom.ILTRB(0, 0, 200, 200), first.BufferDamage)

			second := trees[1].Diff(trees[0])
			assert.Equal(t, geom.ILTRB(10, 10, 70, 70), second.FrameDamage)
		})
	}
}

func TestFormatOf(t *testing.T) {
	f, err := FormatOf("a/b.YML")
	require.NoError(t, err)
	assert.Equal(t, YAML, f)
	f, err = FormatOf("scene.toml")
	require.NoError(t, err)
	assert.Equal(t, TOML, f)
	_, err = FormatOf("scene.json")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestEveryLayerKind(t *testing.T) {
	s, trees := loadTrees(t, filepath.Join("testdata", "layers.yaml"))
	tree := trees[0]
	assert.Equal(t, float32(2), tree.DevicePixelRatio())

	root, ok := tree.Root().(*layers.ContainerLayer)
	require.True(t, ok)
	kinds := make([]string, 0, len(root.Children()))
	for _, c := range root.Children() {
		kinds = append(kinds, strings.TrimPrefix(fmt.Sprintf("%T", c), "*layers."))
	}
	assert.Equal(t, []string{
		"ClipRectLayer", "ClipRRectLayer", "ClipPathLayer",
		"ImageFilterLayer", "ColorFilterLayer", "PhysicalShapeLayer",
	}, kinds)

	clip := root.Children()[2].(*layers.ClipPathLayer)
	assert.Equal(t, layers.ClipAntiAliasWithSaveLayer, clip.ClipBehavior())

	c := raster.New(int(s.Width), int(s.Height))
	tree.Preroll(geom.WH(float32(s.Width), float32(s.Height)))
	tree.Paint(c)
	assert.Equal(t, color.RGBA{R: 0x33, G: 0x66, B: 0x99, A: 0xff}, c.Image().RGBAAt(50, 50))
}

func TestUnchangedFramesHaveNoDamage(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "moving.yaml"))
	require.NoError(t, err)
	s.Frames[1] = s.Frames[0]
	trees, err := s.Trees()
	require.NoError(t, err)
	trees[0].Diff(nil)
	assert.True(t, trees[1].Diff(trees[0]).IsEmpty())
}

func TestUnlinkedKey(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "moving.yaml"))
	require.NoError(t, err)
	s.Frames[1] = s.Frames[0]
	s.Frames[1].Root.Children = append([]Node(nil), s.Frames[0].Root.Children...)
	s.Frames[1].Root.Children[0].Key = noLink
	trees, err := s.Trees()
	require.NoError(t, err)
	trees[0].Diff(nil)
	d := trees[1].Diff(trees[0])
	assert.Equal(t, geom.ILTRB(10, 10, 60, 60), d.FrameDamage, "the unlinked square is repainted")
}

func TestKindChangeIsNotLinked(t *testing.T) {
	const doc = `
width: 100
height: 100
frames:
  - root: {type: opacity, alpha: 255, children: [{type: displayList, ops: [{op: rect, rect: [0, 0, 10, 10]}]}]}
  - root: {type: container, children: [{type: displayList, ops: [{op: rect, rect: [0, 0, 10, 10]}]}]}
`
	s, err := Decode(strings.NewReader(doc), YAML)
	require.NoError(t, err)
	trees, err := s.Trees()
	require.NoError(t, err)
	trees[0].Diff(nil)
	d := trees[1].Diff(trees[0])
	assert.Equal(t, geom.ILTRB(0, 0, 10, 10), d.FrameDamage)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		err  error
	}{
		{"no size", "frames: [{root: {type: container}}]", ErrBadValue},
		{"no frames", "width: 10\nheight: 10", ErrBadValue},
		{"negative dpr", "width: 10\nheight: 10\ndpr: -1\nframes: [{root: {type: container}}]", ErrBadValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc), YAML)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader("width: 10\nheight: 10\ncolour: red\nframes: []"), YAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yaml scene")

	_, err = Decode(strings.NewReader("width = 10\nheight = 10\ncolour = \"red\"\n"), TOML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "toml scene")
}

func TestTreeErrors(t *testing.T) {
	tests := []struct {
		name string
		root string
		err  error
	}{
		{"unknown layer", "{type: blob}", ErrUnknownLayerType},
		{"unknown op", "{type: displayList, ops: [{op: teleport}]}", ErrUnknownOp},
		{"bad color", "{type: displayList, ops: [{op: rect, rect: [0, 0, 1, 1], color: '#12345'}]}", ErrBadValue},
		{"bad rect", "{type: displayList, ops: [{op: rect, rect: [0, 0, 1]}]}", ErrBadValue},
		{"clip none", "{type: clipRect, clip: none, shape: {rect: [0, 0, 1, 1]}}", ErrBadValue},
		{"clip without shape", "{type: clipRect}", ErrBadValue},
		{"display list children", "{type: displayList, children: [{type: container}]}", ErrBadValue},
		{"alpha range", "{type: opacity, alpha: 300}", ErrBadValue},
		{"duplicate key", "{type: container, children: [{type: container, key: a}, {type: container, key: a}]}", ErrBadValue},
		{"rotate arity", "{type: displayList, ops: [{op: rotate, args: [1, 2]}]}", ErrBadValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := "width: 10\nheight: 10\nframes:\n  - root: " + tt.root + "\n"
			s, err := Decode(strings.NewReader(doc), YAML)
			require.NoError(t, err)
			_, err = s.Trees()
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want displaylist.Color
	}{
		{"", displaylist.Black},
		{"red", 0xffff0000},
		{"Blue", 0xff0000ff},
		{"transparent", displaylist.Transparent},
		{"#f80", 0xffff8800},
		{"#336699", 0xff336699},
		{"#80112233", 0x80112233},
	}
	for _, tt := range tests {
		got, err := parseColor(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	for _, bad := range []string{"#12", "#1234567", "#gggggg", "reddish"} {
		_, err := parseColor(bad)
		assert.ErrorIs(t, err, ErrBadValue, bad)
	}
}

func TestNodeTransform(t *testing.T) {
	n := Node{Translate: []float32{5, 6}, Scale: []float32{2}}
	m, err := n.transform()
	require.NoError(t, err)
	assert.Equal(t, geom.LTRB(5, 6, 25, 26), m.MapRect(geom.WH(10, 10)))

	n = Node{Matrix: []float32{1, 0, 3, 0, 1, 4}}
	m, err = n.transform()
	require.NoError(t, err)
	assert.Equal(t, geom.LTRB(3, 4, 13, 14), m.MapRect(geom.WH(10, 10)))

	_, err = (&Node{Matrix: []float32{1, 2, 3}}).transform()
	assert.ErrorIs(t, err, ErrBadValue)
}

func TestImageOpsShareDecodedFiles(t *testing.T) {
	dir := t.TempDir()
	img := imaging.New(8, 4, color.NRGBA{R: 0xff, A: 0xff})
	require.NoError(t, imaging.Save(img, filepath.Join(dir, "red.png")))

	doc := `
width: 64
height: 64
frames:
  - root:
      type: displayList
      ops:
        - {op: image, image: red.png, points: [10, 10]}
        - {op: image, image: red.png, rect: [20, 20, 36, 28]}
`
	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	images := make(map[string]displaylist.Image)
	dl, err := s.buildList(s.Frames[0].Root.Ops, images)
	require.NoError(t, err)
	assert.Len(t, images, 1)
	assert.Equal(t, geom.LTRB(10, 10, 36, 28), dl.Bounds())

	_, err = s.buildList([]Op{{Op: "image", Image: "missing.png"}}, images)
	assert.Error(t, err)
}
