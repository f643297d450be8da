package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const movingScene = "../../scenefile/testdata/moving.yaml"

func newTestInspector(t *testing.T, cfg config) (*inspector, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	in, err := newInspector(cfg, termenv.NewOutput(&buf, termenv.WithProfile(termenv.Ascii)))
	require.NoError(t, err)
	return in, &buf
}

func TestInspectReportsDamage(t *testing.T) {
	in, buf := newTestInspector(t, config{backend: "metal", frame: -1})
	require.NoError(t, in.inspect(movingScene))

	out := buf.String()
	assert.Contains(t, out, "200x200, 2 frames")
	assert.Contains(t, out, "frame 0 first")
	assert.Contains(t, out, "damage     [0,0,200,200] full frame")
	assert.Contains(t, out, "damage     [10,10,70,70]")
	assert.Contains(t, out, "layers     5 (2 display lists)")
	assert.Contains(t, out, "complexity memo:")
}

func TestInspectAlignment(t *testing.T) {
	in, buf := newTestInspector(t, config{backend: "naive", align: 32, frame: 1})
	require.NoError(t, in.inspect(movingScene))
	out := buf.String()
	assert.NotContains(t, out, "frame 0")
	assert.Contains(t, out, "damage     [0,0,96,96]")
}

func TestInspectTrace(t *testing.T) {
	in, buf := newTestInspector(t, config{backend: "gl", trace: true, frame: 0})
	require.NoError(t, in.inspect(movingScene))
	assert.Contains(t, buf.String(), "drawDisplayList")
}

func TestInspectRendersPNG(t *testing.T) {
	dir := t.TempDir()
	in, buf := newTestInspector(t, config{backend: "vulkan", png: filepath.Join(dir, "f%d.png"), frame: -1})
	require.NoError(t, in.inspect(movingScene))
	assert.Contains(t, buf.String(), "wrote")

	img, err := imaging.Open(filepath.Join(dir, "f1.png"))
	require.NoError(t, err)
	r, g, b, _ := img.At(40, 40).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0, 0}, [3]uint32{r, g, b}, "moved square")
	r, g, b, _ = img.At(5, 5).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{r, g, b}, "background")
}

func TestInspectErrors(t *testing.T) {
	_, err := newInspector(config{backend: "glide"}, termenv.NewOutput(&bytes.Buffer{}))
	assert.Error(t, err)

	in, _ := newTestInspector(t, config{backend: "metal", png: "x.png", sink: "trace", frame: -1})
	assert.Error(t, in.inspect(movingScene), "trace sink has no image")

	in, _ = newTestInspector(t, config{backend: "metal", frame: -1})
	assert.Error(t, in.inspect("missing.yaml"))
}

func TestWatchFileReinspects(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	src, err := os.ReadFile(movingScene)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, src, 0o600))

	in, buf := newTestInspector(t, config{backend: "metal", frame: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- watchFile(ctx, path, in) }()

	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, src, 0o600))
	require.NoError(t, <-done)
	assert.GreaterOrEqual(t, bytes.Count(buf.Bytes(), []byte("frame 0 first")), 2)
}
