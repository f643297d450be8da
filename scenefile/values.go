package scenefile

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/gogpu/retain/displaylist"
	"github.com/gogpu/retain/geom"
)

// parseColor accepts #rgb, #rrggbb, #aarrggbb and the SVG color names.
func parseColor(s string) (displaylist.Color, error) {
	if s == "" {
		return displaylist.Black, nil
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return displaylist.Color(uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)), nil
	}
	if s == "transparent" {
		return displaylist.Transparent, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return 0, fmt.Errorf("%w: color %q", ErrBadValue, s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: color %q", ErrBadValue, s)
	}
	switch len(hex) {
	case 6:
		return displaylist.Color(0xff000000 | uint32(v)), nil
	case 8:
		return displaylist.Color(uint32(v)), nil
	}
	return 0, fmt.Errorf("%w: color %q", ErrBadValue, s)
}

func parseRect(v []float32, what string) (geom.Rect, error) {
	if len(v) != 4 {
		return geom.Rect{}, fmt.Errorf("%w: %s needs [left, top, right, bottom], got %v", ErrBadValue, what, v)
	}
	return geom.LTRB(v[0], v[1], v[2], v[3]), nil
}

// parsePoint reads an optional point; an empty slice is the origin.
func parsePoint(v []float32, what string) (geom.Point, error) {
	switch len(v) {
	case 0:
		return geom.Point{}, nil
	case 2:
		return geom.Pt(v[0], v[1]), nil
	}
	return geom.Point{}, fmt.Errorf("%w: %s needs [x, y], got %v", ErrBadValue, what, v)
}

func parsePoints(v []float32, what string) ([]geom.Point, error) {
	if len(v)%2 != 0 {
		return nil, fmt.Errorf("%w: %s needs x, y pairs, got %d values", ErrBadValue, what, len(v))
	}
	pts := make([]geom.Point, 0, len(v)/2)
	for i := 0; i < len(v); i += 2 {
		pts = append(pts, geom.Pt(v[i], v[i+1]))
	}
	return pts, nil
}

// parsePair reads [x, y], or a single value used for both.
func parsePair(v []float32, what string) (float32, float32, error) {
	switch len(v) {
	case 1:
		return v[0], v[0], nil
	case 2:
		return v[0], v[1], nil
	}
	return 0, 0, fmt.Errorf("%w: %s needs 1 or 2 values, got %v", ErrBadValue, what, v)
}

func parseMatrix(v []float32) (geom.Matrix, error) {
	switch len(v) {
	case 6:
		return geom.Affine2D(v[0], v[1], v[2], v[3], v[4], v[5]), nil
	case 16:
		return geom.Perspective16([16]float32(v)), nil
	}
	return geom.Matrix{}, fmt.Errorf("%w: matrix needs 6 or 16 values, got %d", ErrBadValue, len(v))
}

func parseAlpha(a *int) (uint8, error) {
	if a == nil {
		return 255, nil
	}
	if *a < 0 || *a > 255 {
		return 0, fmt.Errorf("%w: alpha %d outside [0, 255]", ErrBadValue, *a)
	}
	return uint8(*a), nil
}

func parseBlend(s string) (displaylist.BlendMode, error) {
	if s == "" {
		return displaylist.BlendSrcOver, nil
	}
	m, ok := displaylist.ParseBlendMode(s)
	if !ok {
		return 0, fmt.Errorf("%w: blend mode %q", ErrBadValue, s)
	}
	return m, nil
}

func parseStyle(s string) (displaylist.Style, error) {
	switch strings.ToLower(s) {
	case "", "fill":
		return displaylist.StyleFill, nil
	case "stroke":
		return displaylist.StyleStroke, nil
	case "strokeandfill", "stroke-and-fill":
		return displaylist.StyleStrokeAndFill, nil
	}
	return 0, fmt.Errorf("%w: style %q", ErrBadValue, s)
}

func parsePointMode(s string) (displaylist.PointMode, error) {
	switch s {
	case "", "points":
		return displaylist.PointModePoints, nil
	case "lines":
		return displaylist.PointModeLines, nil
	case "polygon":
		return displaylist.PointModePolygon, nil
	}
	return 0, fmt.Errorf("%w: point mode %q", ErrBadValue, s)
}

// path builds the shape as a path.
func (s *Shape) path() (*geom.Path, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: missing shape", ErrBadValue)
	}
	p := geom.NewPath()
	if s.EvenOdd {
		p.FillType = geom.FillEvenOdd
	}
	if len(s.Points) > 0 {
		pts, err := parsePoints(s.Points, "shape points")
		if err != nil {
			return nil, err
		}
		if len(pts) < 3 {
			return nil, fmt.Errorf("%w: polygon needs at least 3 points", ErrBadValue)
		}
		p.MoveTo(pts[0].X, pts[0].Y)
		for _, pt := range pts[1:] {
			p.LineTo(pt.X, pt.Y)
		}
		return p.Close(), nil
	}
	r, err := parseRect(s.Rect, "shape rect")
	if err != nil {
		return nil, err
	}
	switch {
	case s.Oval:
		p.AddOval(r)
	case s.Radius > 0:
		p.AddRRect(geom.RRectXY(r, s.Radius, s.Radius))
	default:
		p.AddRect(r)
	}
	return p, nil
}

func (f *Filter) imageFilter() (displaylist.ImageFilter, error) {
	if f == nil {
		return nil, nil
	}
	switch {
	case len(f.Blur) > 0:
		sx, sy, err := parsePair(f.Blur, "blur")
		return displaylist.BlurImageFilter{SigmaX: sx, SigmaY: sy}, err
	case len(f.Dilate) > 0:
		rx, ry, err := parsePair(f.Dilate, "dilate")
		return displaylist.DilateImageFilter{RadiusX: rx, RadiusY: ry}, err
	case len(f.Erode) > 0:
		rx, ry, err := parsePair(f.Erode, "erode")
		return displaylist.ErodeImageFilter{RadiusX: rx, RadiusY: ry}, err
	case len(f.Matrix) > 0:
		m, err := parseMatrix(f.Matrix)
		return displaylist.MatrixImageFilter{Matrix: m, Sampling: displaylist.SamplingLinear}, err
	}
	cf, err := f.colorFilter()
	if err != nil || cf == nil {
		return nil, err
	}
	return displaylist.ColorFilterImageFilter{Filter: cf}, nil
}

func (f *Filter) colorFilter() (displaylist.ColorFilter, error) {
	if f == nil {
		return nil, nil
	}
	switch {
	case f.Invert:
		return displaylist.InvertColorsFilter(), nil
	case f.Gamma == "linearToSRGB":
		return displaylist.LinearToSRGBGammaFilter{}, nil
	case f.Gamma == "srgbToLinear":
		return displaylist.SRGBToLinearGammaFilter{}, nil
	case f.Gamma != "":
		return nil, fmt.Errorf("%w: gamma %q", ErrBadValue, f.Gamma)
	case f.Color != "":
		c, err := parseColor(f.Color)
		if err != nil {
			return nil, err
		}
		mode := displaylist.BlendSrcIn
		if f.Blend != "" {
			if mode, err = parseBlend(f.Blend); err != nil {
				return nil, err
			}
		}
		return displaylist.BlendColorFilter{Color: c, Mode: mode}, nil
	}
	return nil, nil
}
