package displaylist

import "github.com/chewxy/math32"

// BlendMode is a Porter-Duff or W3C compositing mode.
type BlendMode uint8

const (
	BlendClear BlendMode = iota
	BlendSrc
	BlendDst
	BlendSrcOver
	BlendDstOver
	BlendSrcIn
	BlendDstIn
	BlendSrcOut
	BlendDstOut
	BlendSrcATop
	BlendDstATop
	BlendXor
	BlendPlus
	BlendModulate

	// Separable
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendHardLight
	BlendSoftLight
	BlendDifference
	BlendExclusion
	BlendMultiply

	// Non-separable
	BlendHue
	BlendSaturation
	BlendColor
	BlendLuminosity
)

var blendModeNames = [...]string{
	BlendClear:      "Clear",
	BlendSrc:        "Src",
	BlendDst:        "Dst",
	BlendSrcOver:    "SrcOver",
	BlendDstOver:    "DstOver",
	BlendSrcIn:      "SrcIn",
	BlendDstIn:      "DstIn",
	BlendSrcOut:     "SrcOut",
	BlendDstOut:     "DstOut",
	BlendSrcATop:    "SrcATop",
	BlendDstATop:    "DstATop",
	BlendXor:        "Xor",
	BlendPlus:       "Plus",
	BlendModulate:   "Modulate",
	BlendScreen:     "Screen",
	BlendOverlay:    "Overlay",
	BlendDarken:     "Darken",
	BlendLighten:    "Lighten",
	BlendColorDodge: "ColorDodge",
	BlendColorBurn:  "ColorBurn",
	BlendHardLight:  "HardLight",
	BlendSoftLight:  "SoftLight",
	BlendDifference: "Difference",
	BlendExclusion:  "Exclusion",
	BlendMultiply:   "Multiply",
	BlendHue:        "Hue",
	BlendSaturation: "Saturation",
	BlendColor:      "Color",
	BlendLuminosity: "Luminosity",
}

// String returns the mode name.
func (m BlendMode) String() string {
	if int(m) < len(blendModeNames) {
		return blendModeNames[m]
	}
	return "Unknown"
}

// ParseBlendMode returns the mode with the given name.
func ParseBlendMode(name string) (BlendMode, bool) {
	for i, n := range blendModeNames {
		if n == name {
			return BlendMode(i), true
		}
	}
	return BlendSrcOver, false
}

// IsOpacityCompatible reports whether drawing with this mode at reduced
// alpha matches drawing at full alpha into a layer later composited with
// that alpha. Only SrcOver has that property for non-overlapping draws.
func (m BlendMode) IsOpacityCompatible() bool {
	return m == BlendSrcOver
}

// NopsOnTransparency reports whether a fully transparent source leaves the
// destination unchanged.
func (m BlendMode) NopsOnTransparency() bool {
	switch m {
	case BlendClear, BlendSrc, BlendSrcIn, BlendDstIn, BlendSrcOut, BlendDstATop, BlendModulate:
		return false
	}
	return true
}

// Blend composites src over dst with mode m.
func (m BlendMode) Blend(src, dst Color) Color {
	s, d := src.premul(), dst.premul()
	out := m.Apply([4]float32{s.r, s.g, s.b, s.a}, [4]float32{d.r, d.g, d.b, d.a})
	return premul{out[0], out[1], out[2], out[3]}.color()
}

// Apply composites premultiplied RGBA src onto premultiplied RGBA dst.
func (m BlendMode) Apply(src, dst [4]float32) [4]float32 {
	sa, da := src[3], dst[3]
	var out [4]float32
	porterDuff := func(fs, fd float32) [4]float32 {
		for i := range out {
			out[i] = src[i]*fs + dst[i]*fd
		}
		return out
	}
	switch m {
	case BlendClear:
		return out
	case BlendSrc:
		return src
	case BlendDst:
		return dst
	case BlendSrcOver:
		return porterDuff(1, 1-sa)
	case BlendDstOver:
		return porterDuff(1-da, 1)
	case BlendSrcIn:
		return porterDuff(da, 0)
	case BlendDstIn:
		return porterDuff(0, sa)
	case BlendSrcOut:
		return porterDuff(1-da, 0)
	case BlendDstOut:
		return porterDuff(0, 1-sa)
	case BlendSrcATop:
		return porterDuff(da, 1-sa)
	case BlendDstATop:
		return porterDuff(1-da, sa)
	case BlendXor:
		return porterDuff(1-da, 1-sa)
	case BlendPlus:
		for i := range out {
			out[i] = math32.Min(1, src[i]+dst[i])
		}
		return out
	case BlendModulate:
		for i := range out {
			out[i] = src[i] * dst[i]
		}
		return out
	case BlendScreen:
		for i := range out {
			out[i] = src[i] + dst[i] - src[i]*dst[i]
		}
		return out
	case BlendHue, BlendSaturation, BlendColor, BlendLuminosity:
		return m.nonSeparable(src, dst)
	}
	fn := separableFuncs[m]
	if fn == nil {
		return porterDuff(1, 1-sa)
	}
	for i := 0; i < 3; i++ {
		var cs, cd float32
		if sa > 0 {
			cs = src[i] / sa
		}
		if da > 0 {
			cd = dst[i] / da
		}
		out[i] = (1-sa)*dst[i] + (1-da)*src[i] + sa*da*fn(cs, cd)
	}
	out[3] = sa + da - sa*da
	return out
}

// separableFuncs holds B(Cs, Cb) on unpremultiplied channels.
var separableFuncs = map[BlendMode]func(s, d float32) float32{
	BlendMultiply: func(s, d float32) float32 { return s * d },
	BlendOverlay:  func(s, d float32) float32 { return hardLight(d, s) },
	BlendDarken:   math32.Min,
	BlendLighten:  math32.Max,
	BlendColorDodge: func(s, d float32) float32 {
		switch {
		case d == 0:
			return 0
		case s >= 1:
			return 1
		}
		return math32.Min(1, d/(1-s))
	},
	BlendColorBurn: func(s, d float32) float32 {
		switch {
		case d >= 1:
			return 1
		case s <= 0:
			return 0
		}
		return 1 - math32.Min(1, (1-d)/s)
	},
	BlendHardLight: hardLight,
	BlendSoftLight: func(s, d float32) float32 {
		if s <= 0.5 {
			return d - (1-2*s)*d*(1-d)
		}
		var dx float32
		if d <= 0.25 {
			dx = ((16*d-12)*d + 4) * d
		} else {
			dx = math32.Sqrt(d)
		}
		return d + (2*s-1)*(dx-d)
	},
	BlendDifference: func(s, d float32) float32 { return math32.Abs(s - d) },
	BlendExclusion:  func(s, d float32) float32 { return s + d - 2*s*d },
}

func hardLight(s, d float32) float32 {
	if s <= 0.5 {
		return d * 2 * s
	}
	return d + (2*s - 1) - d*(2*s-1)
}

func (m BlendMode) nonSeparable(src, dst [4]float32) [4]float32 {
	sa, da := src[3], dst[3]
	var s, d [3]float32
	for i := 0; i < 3; i++ {
		if sa > 0 {
			s[i] = src[i] / sa
		}
		if da > 0 {
			d[i] = dst[i] / da
		}
	}
	var r [3]float32
	switch m {
	case BlendHue:
		r = setLum(setSat(s, sat(d)), lum(d))
	case BlendSaturation:
		r = setLum(setSat(d, sat(s)), lum(d))
	case BlendColor:
		r = setLum(s, lum(d))
	default:
		r = setLum(d, lum(s))
	}
	var out [4]float32
	for i := 0; i < 3; i++ {
		out[i] = (1-sa)*dst[i] + (1-da)*src[i] + sa*da*r[i]
	}
	out[3] = sa + da - sa*da
	return out
}

func lum(c [3]float32) float32 {
	return 0.30*c[0] + 0.59*c[1] + 0.11*c[2]
}

func sat(c [3]float32) float32 {
	return math32.Max(c[0], math32.Max(c[1], c[2])) - math32.Min(c[0], math32.Min(c[1], c[2]))
}

func setLum(c [3]float32, l float32) [3]float32 {
	d := l - lum(c)
	for i := range c {
		c[i] += d
	}
	l = lum(c)
	n := math32.Min(c[0], math32.Min(c[1], c[2]))
	x := math32.Max(c[0], math32.Max(c[1], c[2]))
	for i := range c {
		if n < 0 {
			c[i] = l + (c[i]-l)*l/(l-n)
		}
		if x > 1 {
			c[i] = l + (c[i]-l)*(1-l)/(x-l)
		}
	}
	return c
}

func setSat(c [3]float32, s float32) [3]float32 {
	lo, mid, hi := 0, 1, 2
	if c[lo] > c[mid] {
		lo, mid = mid, lo
	}
	if c[mid] > c[hi] {
		mid, hi = hi, mid
	}
	if c[lo] > c[mid] {
		lo, mid = mid, lo
	}
	var out [3]float32
	if c[hi] > c[lo] {
		out[mid] = (c[mid] - c[lo]) * s / (c[hi] - c[lo])
		out[hi] = s
	}
	return out
}
