// Package retain is a retained-mode rendering core for Go.
//
// # Overview
//
// retain records canvas operations into immutable display lists, replays
// them onto pluggable canvases, and keeps a retained layer tree that is
// prerolled, painted and diffed frame to frame to find the minimal damage
// that must be redrawn.
//
// # Quick Start
//
//	b := displaylist.NewBuilder()
//	b.SetColor(displaylist.ARGB(0xff, 0x20, 0x60, 0xc0))
//	b.DrawRect(geom.LTRB(0, 0, 50, 50))
//	dl := b.Build()
//
//	root := layers.NewTransformLayer(geom.Translate(10, 10),
//	    layers.NewDisplayListLayer(geom.Point{}, dl))
//	tree := layers.NewLayerTree(root, geom.ISize{Width: 800, Height: 600})
//	tree.Preroll(geom.WH(800, 600))
//	tree.Paint(raster.New(800, 600))
//
//	damage := tree.Diff(previousTree)
//
// # Architecture
//
// The module is organized into:
//   - geom: rectangles, paths and 4x4 matrices
//   - displaylist: the Builder, the immutable DisplayList and its Receiver interface
//   - displaylist/complexity: per-backend cost estimation for caching decisions
//   - canvas: the Canvas sink interface, the Dispatcher and the Recorder
//   - canvas/raster: a software Canvas producing *image.RGBA
//   - layers: the layer tree, Preroll/Paint and damage computation
//   - scenefile: YAML/TOML scene descriptions used by cmd/dlinspect
//
// # Thread Safety
//
// Builders and layer trees belong to one frame-construction pass and are
// not safe for concurrent use. A DisplayList returned by Builder.Build is
// immutable and may be shared between goroutines.
//
// # Logging
//
// retain is silent by default. Call SetLogger to receive diagnostics from
// every sub-package.
package retain
