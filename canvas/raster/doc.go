// Package raster is a software canvas.Canvas that renders into an
// *image.RGBA.
//
// Shapes are flattened in device space and scan converted with
// golang.org/x/image/vector. Strokes are expanded into fill outlines
// first. Clips are kept as device-space coverage masks, and SaveLayer
// renders into an offscreen image that is filtered and composited on the
// matching Restore. Images are resampled with golang.org/x/image/draw,
// and blurs come from github.com/disintegration/imaging.
//
//	c := raster.New(400, 300, raster.WithBackground(displaylist.White))
//	canvas.Render(dl, c, 1)
//	err := c.SavePNG("frame.png")
//
// The package registers itself as the "raster" sink; importing it for
// side effects makes canvas.New("raster", w, h) available.
//
// Perspective transforms are approximated by their affine part when
// resampling images. Blur image filters use a single sigma, the larger of
// the two axes.
package raster
