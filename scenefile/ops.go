package scenefile

import (
	"fmt"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/gogpu/retain/displaylist"
	"github.com/gogpu/retain/geom"
	"github.com/gogpu/retain/textblob"
)

// listBuilder turns ops into a display list.
type listBuilder struct {
	b      *displaylist.Builder
	dir    string
	images map[string]displaylist.Image
}

func (s *Scene) buildList(ops []Op, images map[string]displaylist.Image) (*displaylist.DisplayList, error) {
	lb := &listBuilder{b: displaylist.NewBuilder(), dir: s.dir, images: images}
	for i := range ops {
		if err := lb.op(&ops[i]); err != nil {
			return nil, fmt.Errorf("op %d (%s): %w", i, ops[i].Op, err)
		}
	}
	return lb.b.Build(), nil
}

// attributes applies the attribute fields present on o.
func (lb *listBuilder) attributes(o *Op) error {
	b := lb.b
	if o.Color != "" {
		c, err := parseColor(o.Color)
		if err != nil {
			return err
		}
		b.SetColor(c)
	}
	if o.Style != "" {
		s, err := parseStyle(o.Style)
		if err != nil {
			return err
		}
		b.SetStyle(s)
	}
	if o.Width != 0 {
		b.SetStrokeWidth(o.Width)
	}
	if o.AntiAlias != nil {
		b.SetAntiAlias(*o.AntiAlias)
	}
	if o.Blend != "" {
		m, err := parseBlend(o.Blend)
		if err != nil {
			return err
		}
		b.SetBlendMode(m)
	}
	if o.Blur != 0 {
		b.SetMaskFilter(displaylist.BlurMaskFilter{Style: displaylist.BlurNormal, Sigma: o.Blur})
	}
	if o.Filter != nil {
		cf, err := o.Filter.colorFilter()
		if err != nil {
			return err
		}
		b.SetColorFilter(cf)
	}
	return nil
}

func (lb *listBuilder) op(o *Op) error {
	b := lb.b
	switch o.Op {
	case "save":
		b.Save()
		return nil
	case "restore":
		b.Restore()
		return nil
	case "saveLayer":
		return lb.saveLayer(o)
	case "translate", "scale", "skew":
		x, y, err := parsePair(o.Args, o.Op)
		if err != nil {
			return err
		}
		switch o.Op {
		case "translate":
			b.Translate(x, y)
		case "scale":
			b.Scale(x, y)
		default:
			b.Skew(x, y)
		}
		return nil
	case "rotate":
		if len(o.Args) != 1 {
			return fmt.Errorf("%w: rotate needs [degrees]", ErrBadValue)
		}
		b.Rotate(o.Args[0])
		return nil
	case "transform":
		m, err := parseMatrix(o.Args)
		if err != nil {
			return err
		}
		b.Concat(m)
		return nil
	case "clipRect", "clipRRect", "clipPath":
		return lb.clip(o)
	case "color":
		c, err := parseColor(o.Color)
		if err != nil {
			return err
		}
		m, err := parseBlend(o.Blend)
		if err != nil {
			return err
		}
		b.DrawColor(c, m)
		return nil
	}

	if err := lb.attributes(o); err != nil {
		return err
	}
	switch o.Op {
	case "paint":
		b.DrawPaint()
	case "line":
		pts, err := parsePoints(o.Points, "line")
		if err != nil {
			return err
		}
		if len(pts) != 2 {
			return fmt.Errorf("%w: line needs 2 points", ErrBadValue)
		}
		b.DrawLine(pts[0], pts[1])
	case "rect", "oval", "rrect", "drrect", "arc":
		return lb.rectShape(o)
	case "circle":
		c, err := parsePoint(o.Points, "circle center")
		if err != nil {
			return err
		}
		b.DrawCircle(c, o.Radius)
	case "path":
		p, err := o.Shape.path()
		if err != nil {
			return err
		}
		b.DrawPath(p)
	case "points":
		mode, err := parsePointMode(o.Mode)
		if err != nil {
			return err
		}
		pts, err := parsePoints(o.Points, "points")
		if err != nil {
			return err
		}
		b.DrawPoints(mode, pts)
	case "text":
		at, err := parsePoint(o.Points, "text origin")
		if err != nil {
			return err
		}
		size := o.Size
		if size <= 0 {
			size = 16
		}
		b.DrawTextBlob(textblob.Shape(o.Text, textblob.DefaultFont(), size), at.X, at.Y)
	case "image":
		return lb.image(o)
	case "shadow":
		p, err := o.Shape.path()
		if err != nil {
			return err
		}
		c, err := parseColor(o.Color)
		if err != nil {
			return err
		}
		b.DrawShadow(p, c, o.Elevation, false, 1)
	default:
		return ErrUnknownOp
	}
	return nil
}

func (lb *listBuilder) saveLayer(o *Op) error {
	var bounds *geom.Rect
	if len(o.Rect) > 0 {
		r, err := parseRect(o.Rect, "saveLayer bounds")
		if err != nil {
			return err
		}
		bounds = &r
	}
	alpha, err := parseAlpha(o.Alpha)
	if err != nil {
		return err
	}
	p := displaylist.PaintWithColor(displaylist.Black.WithAlpha(alpha))
	if o.Filter != nil {
		if p.ImageFilter, err = o.Filter.imageFilter(); err != nil {
			return err
		}
	}
	lb.b.SaveLayerWithPaint(bounds, p, nil)
	return nil
}

func (lb *listBuilder) clip(o *Op) error {
	op := displaylist.ClipIntersect
	if o.Mode == "difference" {
		op = displaylist.ClipDifference
	}
	aa := o.AntiAlias != nil && *o.AntiAlias
	if o.Op == "clipPath" {
		p, err := o.Shape.path()
		if err != nil {
			return err
		}
		lb.b.ClipPath(p, op, aa)
		return nil
	}
	r, err := parseRect(o.Rect, o.Op)
	if err != nil {
		return err
	}
	if o.Op == "clipRRect" {
		lb.b.ClipRRect(geom.RRectXY(r, o.Radius, o.Radius), op, aa)
	} else {
		lb.b.ClipRect(r, op, aa)
	}
	return nil
}

func (lb *listBuilder) rectShape(o *Op) error {
	r, err := parseRect(o.Rect, o.Op)
	if err != nil {
		return err
	}
	b := lb.b
	switch o.Op {
	case "rect":
		b.DrawRect(r)
	case "oval":
		b.DrawOval(r)
	case "rrect":
		b.DrawRRect(geom.RRectXY(r, o.Radius, o.Radius))
	case "drrect":
		inner, err := parseRect(o.Inner, "drrect inner")
		if err != nil {
			return err
		}
		b.DrawDRRect(geom.RRectXY(r, o.Radius, o.Radius), geom.RRectXY(inner, o.Radius, o.Radius))
	case "arc":
		if len(o.Args) != 2 {
			return fmt.Errorf("%w: arc needs [start, sweep] degrees", ErrBadValue)
		}
		b.DrawArc(r, o.Args[0], o.Args[1], o.Center)
	}
	return nil
}

// image draws the image file at the op's origin, or scaled into its rect.
// Files are decoded once per scene.
func (lb *listBuilder) image(o *Op) error {
	if o.Image == "" {
		return fmt.Errorf("%w: image op without a file", ErrBadValue)
	}
	path := o.Image
	if !filepath.IsAbs(path) {
		path = filepath.Join(lb.dir, path)
	}
	img, ok := lb.images[path]
	if !ok {
		decoded, err := imaging.Open(path)
		if err != nil {
			return fmt.Errorf("failed to load image: %w", err)
		}
		img = displaylist.NewRasterImage(decoded)
		lb.images[path] = img
	}

	if len(o.Rect) > 0 {
		dst, err := parseRect(o.Rect, "image rect")
		if err != nil {
			return err
		}
		size := img.Size()
		src := geom.WH(float32(size.Width), float32(size.Height))
		lb.b.DrawImageRect(img, src, dst, displaylist.SamplingLinear, true, displaylist.ConstraintFast)
		return nil
	}
	at, err := parsePoint(o.Points, "image origin")
	if err != nil {
		return err
	}
	lb.b.DrawImage(img, at, displaylist.SamplingLinear, true)
	return nil
}
