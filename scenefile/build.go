package scenefile

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/gogpu/retain"
	"github.com/gogpu/retain/displaylist"
	"github.com/gogpu/retain/geom"
	"github.com/gogpu/retain/layers"
)

// noLink is the key of nodes that are never linked to a previous frame.
const noLink = "-"

// FrameSize is the size every frame is drawn at.
func (s *Scene) FrameSize() geom.ISize { return geom.ISize{Width: s.Width, Height: s.Height} }

// BackgroundColor parses Background, defaulting to white.
func (s *Scene) BackgroundColor() (displaylist.Color, error) {
	if s.Background == "" {
		return displaylist.White, nil
	}
	return parseColor(s.Background)
}

// Trees builds one layer tree per frame. Each layer is linked with
// AssignOldLayer to the layer of the same key and kind in the frame
// before, so diffing consecutive trees damages only what changed.
func (s *Scene) Trees() ([]*layers.LayerTree, error) {
	tb := &treeBuilder{scene: s, images: make(map[string]displaylist.Image)}
	var opts []layers.TreeOption
	if s.DevicePixelRatio > 0 {
		opts = append(opts, layers.WithDevicePixelRatio(s.DevicePixelRatio))
	}

	trees := make([]*layers.LayerTree, 0, len(s.Frames))
	for i := range s.Frames {
		f := &s.Frames[i]
		tb.prev, tb.cur = tb.cur, make(map[string]layers.Layer)
		root, err := tb.node(&f.Root, "root")
		if err != nil {
			return nil, fmt.Errorf("frame %d %s: %w", i, f.Name, err)
		}
		trees = append(trees, layers.NewLayerTree(root, s.FrameSize(), opts...))
	}
	return trees, nil
}

type treeBuilder struct {
	scene     *Scene
	prev, cur map[string]layers.Layer
	images    map[string]displaylist.Image
}

func (tb *treeBuilder) node(n *Node, path string) (layers.Layer, error) {
	key := n.Key
	if key == "" {
		key = path + ":" + n.Type
	}

	children := make([]layers.Layer, 0, len(n.Children))
	for i := range n.Children {
		child, err := tb.node(&n.Children[i], key+"/"+strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	l, err := tb.layer(n, children)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	if err := tb.link(key, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (tb *treeBuilder) link(key string, l layers.Layer) error {
	if key == noLink {
		return nil
	}
	if _, dup := tb.cur[key]; dup {
		return fmt.Errorf("%w: duplicate key %q", ErrBadValue, key)
	}
	tb.cur[key] = l
	old, ok := tb.prev[key]
	if !ok {
		return nil
	}
	if reflect.TypeOf(old) != reflect.TypeOf(l) {
		retain.Logger().Debug("scenefile: layer kind changed, not linking", "key", key)
		return nil
	}
	l.AssignOldLayer(old)
	return nil
}

func (tb *treeBuilder) layer(n *Node, children []layers.Layer) (layers.Layer, error) {
	switch n.Type {
	case "container":
		return layers.NewContainerLayer(children...), nil

	case "transform":
		m, err := n.transform()
		if err != nil {
			return nil, err
		}
		return layers.NewTransformLayer(m, children...), nil

	case "opacity":
		alpha, err := parseAlpha(n.Alpha)
		if err != nil {
			return nil, err
		}
		offset, err := parsePoint(n.Offset, "offset")
		if err != nil {
			return nil, err
		}
		return layers.NewOpacityLayer(alpha, offset, children...), nil

	case "clipRect", "clipRRect", "clipPath":
		return n.clipLayer(children)

	case "imageFilter":
		f, err := n.Filter.imageFilter()
		if err != nil {
			return nil, err
		}
		offset, err := parsePoint(n.Offset, "offset")
		if err != nil {
			return nil, err
		}
		return layers.NewImageFilterLayer(f, offset, children...), nil

	case "colorFilter":
		f, err := n.Filter.colorFilter()
		if err != nil {
			return nil, err
		}
		return layers.NewColorFilterLayer(f, children...), nil

	case "physicalShape":
		return n.physicalShape(children)

	case "displayList":
		if len(children) > 0 {
			return nil, fmt.Errorf("%w: displayList layers have no children", ErrBadValue)
		}
		offset, err := parsePoint(n.Offset, "offset")
		if err != nil {
			return nil, err
		}
		dl, err := tb.scene.buildList(n.Ops, tb.images)
		if err != nil {
			return nil, err
		}
		return layers.NewDisplayListLayer(offset, dl), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownLayerType, n.Type)
}

// transform is Matrix when given, else translate then rotate then scale.
func (n *Node) transform() (geom.Matrix, error) {
	if len(n.Matrix) > 0 {
		return parseMatrix(n.Matrix)
	}
	m := geom.Identity()
	if len(n.Translate) > 0 {
		tx, ty, err := parsePair(n.Translate, "translate")
		if err != nil {
			return m, err
		}
		m = m.Concat(geom.Translate(tx, ty))
	}
	if n.Rotate != 0 {
		m = m.Concat(geom.Rotate(n.Rotate))
	}
	if len(n.Scale) > 0 {
		sx, sy, err := parsePair(n.Scale, "scale")
		if err != nil {
			return m, err
		}
		m = m.Concat(geom.Scale(sx, sy))
	}
	return m, nil
}

func parseClip(s string, def layers.ClipBehavior) (layers.ClipBehavior, error) {
	if s == "" {
		return def, nil
	}
	c, ok := layers.ParseClipBehavior(s)
	if !ok {
		return def, fmt.Errorf("%w: clip %q", ErrBadValue, s)
	}
	return c, nil
}

func (n *Node) clipLayer(children []layers.Layer) (layers.Layer, error) {
	behavior, err := parseClip(n.Clip, layers.ClipAntiAlias)
	if err != nil {
		return nil, err
	}
	if behavior == layers.ClipNone {
		return nil, fmt.Errorf("%w: %s cannot use clip none", ErrBadValue, n.Type)
	}
	if n.Shape == nil {
		return nil, fmt.Errorf("%w: %s without a shape", ErrBadValue, n.Type)
	}

	switch n.Type {
	case "clipRect":
		r, err := parseRect(n.Shape.Rect, "clip rect")
		if err != nil {
			return nil, err
		}
		return layers.NewClipRectLayer(r, behavior, children...), nil
	case "clipRRect":
		r, err := parseRect(n.Shape.Rect, "clip rect")
		if err != nil {
			return nil, err
		}
		rr := geom.RRectXY(r, n.Shape.Radius, n.Shape.Radius)
		return layers.NewClipRRectLayer(rr, behavior, children...), nil
	}
	p, err := n.Shape.path()
	if err != nil {
		return nil, err
	}
	return layers.NewClipPathLayer(p, behavior, children...), nil
}

func (n *Node) physicalShape(children []layers.Layer) (layers.Layer, error) {
	p, err := n.Shape.path()
	if err != nil {
		return nil, err
	}
	behavior, err := parseClip(n.Clip, layers.ClipNone)
	if err != nil {
		return nil, err
	}
	color, err := parseColor(n.Color)
	if err != nil {
		return nil, err
	}
	shadow, err := parseColor(n.ShadowColor)
	if err != nil {
		return nil, err
	}
	if n.Elevation < 0 {
		return nil, fmt.Errorf("%w: elevation %g", ErrBadValue, n.Elevation)
	}
	return layers.NewPhysicalShapeLayer(p, color, shadow, n.Elevation, behavior, children...), nil
}
