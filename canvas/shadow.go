package canvas

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/retain/displaylist"
)

// Shadow alpha scales applied to the shadow color before tonal mapping.
const (
	AmbientAlpha = 0.039
	SpotAlpha    = 0.25

	// transparentOccluderAmbient scales the ambient alpha when the
	// occluder is see-through, so the shadow does not darken its fill.
	transparentOccluderAmbient = 0.95
)

// ShadowFlags modify how a shadow is rendered.
type ShadowFlags uint8

const (
	// ShadowTransparentOccluder means the shadow shows through the shape.
	ShadowTransparentOccluder ShadowFlags = 1 << iota
	// ShadowDirectionalLight means LightPos is a direction, not a point.
	ShadowDirectionalLight
)

// ShadowParams describes a material shadow in the form shadow renderers
// consume.
type ShadowParams struct {
	Ambient displaylist.Color
	Spot    displaylist.Color
	Flags   ShadowFlags

	// ZPlane is the occluder height plane (a, b, c) with z = ax + by + c.
	ZPlane [3]float32
	// LightPos is the light direction when ShadowDirectionalLight is set.
	LightPos    [3]float32
	LightRadius float32
}

// ComputeShadowParams maps a shadow color and elevation to ambient and spot
// colors plus the light setup.
func ComputeShadowParams(c displaylist.Color, elevation float32, transparentOccluder bool, dpr float32) ShadowParams {
	a := c.Opacity()
	ambientAlpha := AmbientAlpha * a
	flags := ShadowDirectionalLight
	if transparentOccluder {
		flags |= ShadowTransparentOccluder
		ambientAlpha *= transparentOccluderAmbient
	}
	ambient, spot := TonalColors(c.WithOpacity(ambientAlpha), c.WithOpacity(SpotAlpha*a))
	return ShadowParams{
		Ambient:     ambient,
		Spot:        spot,
		Flags:       flags,
		ZPlane:      [3]float32{0, 0, dpr * elevation},
		LightPos:    [3]float32{0, -1, 1},
		LightRadius: float32(displaylist.ShadowLightRadius) / displaylist.ShadowLightHeight,
	}
}

// TonalColors converts shadow colors to tonal ones. The ambient shadow
// keeps only its alpha; the spot shadow mixes a luminance-weighted tint of
// the input color with a grey shadow.
func TonalColors(ambientIn, spotIn displaylist.Color) (ambient, spot displaylist.Color) {
	ambient = displaylist.ARGB(ambientIn.Alpha(), 0, 0, 0)

	r, g, b := float32(spotIn.Red()), float32(spotIn.Green()), float32(spotIn.Blue())
	hi := max(r, g, b)
	lo := min(r, g, b)
	luminance := 0.5 * (hi + lo) / 255
	origA := spotIn.Opacity()

	alphaAdjust := (2.6 + (-2.66667+1.06667*origA)*origA) * origA
	colorAlpha := (3.544762 + (-4.891428+2.3466*luminance)*luminance) * luminance
	colorAlpha = pin01(alphaAdjust * colorAlpha)
	greyAlpha := pin01(origA * (1 - 0.4*luminance))

	colorScale := colorAlpha * (1 - greyAlpha)
	tonalAlpha := colorScale + greyAlpha
	if tonalAlpha <= 0 {
		return ambient, displaylist.Transparent
	}
	unpremul := colorScale / tonalAlpha
	spot = displaylist.ARGB(
		uint8(math32.Floor(tonalAlpha*255.999)),
		uint8(unpremul*r),
		uint8(unpremul*g),
		uint8(unpremul*b),
	)
	return ambient, spot
}

func pin01(v float32) float32 { return max(0, min(1, v)) }
