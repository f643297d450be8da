package scenefile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownLayerType is returned for a node whose type names no layer.
	ErrUnknownLayerType = errors.New("scenefile: unknown layer type")
	// ErrUnknownOp is returned for a display list op nobody implements.
	ErrUnknownOp = errors.New("scenefile: unknown op")
	// ErrBadValue is returned for a malformed field value.
	ErrBadValue = errors.New("scenefile: bad value")
	// ErrUnknownFormat is returned for a file extension with no decoder.
	ErrUnknownFormat = errors.New("scenefile: unknown format")
)

// Scene is a sequence of frames of one size.
type Scene struct {
	Width            int32   `yaml:"width" toml:"width"`
	Height           int32   `yaml:"height" toml:"height"`
	DevicePixelRatio float32 `yaml:"dpr,omitempty" toml:"dpr,omitempty"`
	// Background is the clear color used when a frame is rendered.
	Background string  `yaml:"background,omitempty" toml:"background,omitempty"`
	Frames     []Frame `yaml:"frames" toml:"frames"`

	// dir resolves relative image paths.
	dir string
}

// Frame is one layer tree.
type Frame struct {
	Name string `yaml:"name,omitempty" toml:"name,omitempty"`
	Root Node   `yaml:"root" toml:"root"`
}

// Node describes a layer. Which fields matter depends on Type.
type Node struct {
	Type string `yaml:"type" toml:"type"`
	// Key links the layer to the layer with the same key in the previous
	// frame. Nodes without a key are keyed by their position in the tree;
	// the key "-" never links.
	Key      string `yaml:"key,omitempty" toml:"key,omitempty"`
	Children []Node `yaml:"children,omitempty" toml:"children,omitempty"`

	// Transform layers: a 6 element affine or 16 element matrix, or the
	// shorthands applied as translate, then rotate, then scale.
	Matrix    []float32 `yaml:"matrix,omitempty" toml:"matrix,omitempty"`
	Translate []float32 `yaml:"translate,omitempty" toml:"translate,omitempty"`
	Rotate    float32   `yaml:"rotate,omitempty" toml:"rotate,omitempty"`
	Scale     []float32 `yaml:"scale,omitempty" toml:"scale,omitempty"`

	Offset []float32 `yaml:"offset,omitempty" toml:"offset,omitempty"`
	Alpha  *int      `yaml:"alpha,omitempty" toml:"alpha,omitempty"`

	Clip  string `yaml:"clip,omitempty" toml:"clip,omitempty"`
	Shape *Shape `yaml:"shape,omitempty" toml:"shape,omitempty"`

	Color       string  `yaml:"color,omitempty" toml:"color,omitempty"`
	ShadowColor string  `yaml:"shadowColor,omitempty" toml:"shadowColor,omitempty"`
	Elevation   float32 `yaml:"elevation,omitempty" toml:"elevation,omitempty"`

	Filter *Filter `yaml:"filter,omitempty" toml:"filter,omitempty"`
	Ops    []Op    `yaml:"ops,omitempty" toml:"ops,omitempty"`
}

// Shape is a rect, rounded rect, oval or polygon.
type Shape struct {
	Rect   []float32 `yaml:"rect,omitempty" toml:"rect,omitempty"`
	Radius float32   `yaml:"radius,omitempty" toml:"radius,omitempty"`
	Oval   bool      `yaml:"oval,omitempty" toml:"oval,omitempty"`
	// Points is a closed polygon as x0, y0, x1, y1, ...
	Points  []float32 `yaml:"points,omitempty" toml:"points,omitempty"`
	EvenOdd bool      `yaml:"evenOdd,omitempty" toml:"evenOdd,omitempty"`
}

// Filter describes an image filter or, for colorFilter nodes and color
// ops, a color filter. Set exactly one kind.
type Filter struct {
	Blur   []float32 `yaml:"blur,omitempty" toml:"blur,omitempty"`
	Dilate []float32 `yaml:"dilate,omitempty" toml:"dilate,omitempty"`
	Erode  []float32 `yaml:"erode,omitempty" toml:"erode,omitempty"`
	Matrix []float32 `yaml:"matrix,omitempty" toml:"matrix,omitempty"`

	Color  string `yaml:"color,omitempty" toml:"color,omitempty"`
	Blend  string `yaml:"blend,omitempty" toml:"blend,omitempty"`
	Invert bool   `yaml:"invert,omitempty" toml:"invert,omitempty"`
	// Gamma is "linearToSRGB" or "srgbToLinear".
	Gamma string `yaml:"gamma,omitempty" toml:"gamma,omitempty"`
}

// Op is one display list call. Attribute fields given on an op stay in
// effect for the ops after it.
type Op struct {
	Op string `yaml:"op" toml:"op"`

	Rect   []float32 `yaml:"rect,omitempty" toml:"rect,omitempty"`
	Inner  []float32 `yaml:"inner,omitempty" toml:"inner,omitempty"`
	Points []float32 `yaml:"points,omitempty" toml:"points,omitempty"`
	Radius float32   `yaml:"radius,omitempty" toml:"radius,omitempty"`
	// Args are the operands of transforms and the angles of arcs.
	Args   []float32 `yaml:"args,omitempty" toml:"args,omitempty"`
	Center bool      `yaml:"center,omitempty" toml:"center,omitempty"`
	Mode   string    `yaml:"mode,omitempty" toml:"mode,omitempty"`
	Shape  *Shape    `yaml:"shape,omitempty" toml:"shape,omitempty"`

	Color     string  `yaml:"color,omitempty" toml:"color,omitempty"`
	Style     string  `yaml:"style,omitempty" toml:"style,omitempty"`
	Width     float32 `yaml:"width,omitempty" toml:"width,omitempty"`
	AntiAlias *bool   `yaml:"antiAlias,omitempty" toml:"antiAlias,omitempty"`
	Blend     string  `yaml:"blend,omitempty" toml:"blend,omitempty"`
	Blur      float32 `yaml:"blur,omitempty" toml:"blur,omitempty"`
	Filter    *Filter `yaml:"filter,omitempty" toml:"filter,omitempty"`

	Alpha     *int    `yaml:"alpha,omitempty" toml:"alpha,omitempty"`
	Text      string  `yaml:"text,omitempty" toml:"text,omitempty"`
	Size      float32 `yaml:"size,omitempty" toml:"size,omitempty"`
	Image     string  `yaml:"image,omitempty" toml:"image,omitempty"`
	Elevation float32 `yaml:"elevation,omitempty" toml:"elevation,omitempty"`
}

// Format is a scene file encoding.
type Format uint8

const (
	YAML Format = iota
	TOML
)

func (f Format) String() string {
	if f == TOML {
		return "toml"
	}
	return "yaml"
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return YAML, fmt.Errorf("%w %q", ErrUnknownFormat, filepath.Ext(path))
}

type decoder interface {
	Decode(v any) error
}

// newDecoder returns a decoder that rejects unknown fields.
func newDecoder(r io.Reader, f Format) decoder {
	if f == TOML {
		d := toml.NewDecoder(r)
		d.DisallowUnknownFields()
		return d
	}
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	return d
}

// Decode reads a scene from r.
func Decode(r io.Reader, f Format) (*Scene, error) {
	var s Scene
	if err := newDecoder(r, f).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse %s scene: %w", f, err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads the scene file at path. Relative image paths inside it are
// resolved against its directory.
func Load(path string) (*Scene, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	fp, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}
	defer fp.Close()

	s, err := Decode(bufio.NewReader(fp), f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.dir = filepath.Dir(path)
	return s, nil
}

func (s *Scene) validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: frame size %dx%d", ErrBadValue, s.Width, s.Height)
	}
	if s.DevicePixelRatio < 0 {
		return fmt.Errorf("%w: dpr %g", ErrBadValue, s.DevicePixelRatio)
	}
	if len(s.Frames) == 0 {
		return fmt.Errorf("%w: no frames", ErrBadValue)
	}
	return nil
}
