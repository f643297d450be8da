package displaylist

import "github.com/gogpu/retain/geom"

// Light geometry shared by shadow bounds and shadow rendering.
const (
	ShadowLightHeight = 600
	ShadowLightRadius = 800
)

// ComputeShadowBounds returns the local bounds a shadow cast by path at
// elevation can touch, for a device pixel ratio of dpr.
func ComputeShadowBounds(path *geom.Path, elevation, dpr float32) geom.Rect {
	if path.IsEmpty() {
		return geom.Rect{}
	}
	b := path.Bounds()
	tx := (ShadowLightRadius*dpr + b.Width()*0.5) / ShadowLightHeight
	ty := (ShadowLightRadius*dpr + b.Height()*0.5) / ShadowLightHeight
	return b.Outset(elevation*tx, elevation*ty)
}
