package displaylist

// Style selects how geometry is drawn.
type Style uint8

const (
	StyleFill Style = iota
	StyleStroke
	StyleStrokeAndFill
)

func (s Style) String() string {
	switch s {
	case StyleFill:
		return "Fill"
	case StyleStroke:
		return "Stroke"
	case StyleStrokeAndFill:
		return "StrokeAndFill"
	}
	return "Unknown"
}

// StrokeCap is the shape at the ends of open stroked contours.
type StrokeCap uint8

const (
	CapButt StrokeCap = iota
	CapRound
	CapSquare
)

// StrokeJoin is the shape at the corners of stroked contours.
type StrokeJoin uint8

const (
	JoinMiter StrokeJoin = iota
	JoinRound
	JoinBevel
)

// DefaultStrokeMiter is the miter limit of a new Paint.
const DefaultStrokeMiter = 4

// Paint is the full set of rendering attributes applied to a draw call.
// Paint values compare with == as long as every filter is one of the
// filter types declared in this package.
type Paint struct {
	Color        Color
	BlendMode    BlendMode
	Style        Style
	StrokeWidth  float32
	StrokeMiter  float32
	StrokeCap    StrokeCap
	StrokeJoin   StrokeJoin
	AntiAlias    bool
	Dither       bool
	InvertColors bool
	ColorFilter  ColorFilter
	ImageFilter  ImageFilter
	MaskFilter   MaskFilter
}

// NewPaint returns the default paint: opaque black, SrcOver, fill.
func NewPaint() Paint {
	return Paint{
		Color:       Black,
		BlendMode:   BlendSrcOver,
		StrokeMiter: DefaultStrokeMiter,
	}
}

// PaintWithColor returns the default paint with the given color.
func PaintWithColor(c Color) Paint {
	p := NewPaint()
	p.Color = c
	return p
}

// Opacity returns the alpha of the paint color in [0, 1].
func (p Paint) Opacity() float32 { return p.Color.Opacity() }

// WithOpacity returns p with its alpha replaced.
func (p Paint) WithOpacity(opacity float32) Paint {
	p.Color = p.Color.WithOpacity(opacity)
	return p
}

// IsOpacityCompatible reports whether a group opacity may be folded into
// this paint's alpha without changing the result of an isolated draw.
func (p Paint) IsOpacityCompatible() bool {
	return p.ColorFilter == nil && !p.InvertColors && p.BlendMode.IsOpacityCompatible()
}

// IsAlphaOnly reports whether the only effect of p beyond its geometry is
// its alpha. A layer with such a paint may push its alpha down to its
// children instead of compositing offscreen.
func (p Paint) IsAlphaOnly() bool {
	return p.BlendMode == BlendSrcOver && p.ColorFilter == nil && !p.InvertColors &&
		p.ImageFilter == nil && p.MaskFilter == nil
}

// NopsOnTransparency reports whether drawing transparent black with p
// leaves the destination unchanged.
func (p Paint) NopsOnTransparency() bool {
	if p.ColorFilter != nil && p.ColorFilter.ModifiesTransparentBlack() {
		return false
	}
	if p.ImageFilter != nil {
		if cf := p.ImageFilter.AsColorFilter(); cf != nil && cf.ModifiesTransparentBlack() {
			return false
		}
	}
	return p.BlendMode.NopsOnTransparency()
}
