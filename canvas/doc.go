// Package canvas replays display lists onto drawing surfaces.
//
// # Architecture
//
// A Canvas is the sink side of the pipeline: an immediate-mode surface
// with a save stack, transforms, clips and draw calls that take an
// explicit *displaylist.Paint. Three pieces connect it to display lists:
//
//   - Dispatcher: a displaylist.Receiver that accumulates attribute ops
//     into a Paint and forwards every draw to a Canvas, folding in an
//     inherited group opacity.
//   - Recorder: a Canvas that records into a displaylist.Builder, so code
//     written against Canvas can produce display lists.
//   - Render: the entry point that picks between distributing opacity to
//     each op and compositing the whole list in a layer.
//
// # Sinks
//
// Sinks register themselves by name, following the database/sql driver
// pattern:
//
//	import _ "github.com/gogpu/retain/canvas/raster"
//
//	c, err := canvas.New("raster", 800, 600)
//	if err != nil {
//	    // canvas.ErrUnknownSink: forgotten import?
//	}
//	canvas.Render(dl, c, 1)
//
// The "trace" sink is built in and writes one line per canvas call, which
// is handy for golden tests and the dlinspect tool.
package canvas
