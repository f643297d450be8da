// Package displaylist records canvas operations into immutable, replayable
// display lists.
//
// A Builder exposes a canvas-like API. Each call becomes a typed op record;
// draw calls also compute their device-space bounds under the builder's
// live transform and clip. Build freezes the stream into a DisplayList that
// carries its aggregate bounds and whether a single group opacity can be
// applied to it by rendering each op with reduced alpha.
//
// # Recording
//
//	b := displaylist.NewBuilder()
//	b.SetColor(displaylist.ARGB(0xff, 0x20, 0x80, 0xff))
//	b.Save()
//	b.Translate(10, 10)
//	b.DrawRect(geom.LTRB(0, 0, 50, 50))
//	b.Restore()
//	dl := b.Build()
//
// # Playback
//
// DisplayList.Dispatch replays the stream onto any Receiver. The Builder
// is itself a Receiver, so dispatching one list into a fresh builder
// reproduces an equal list. Canvas sinks live in package canvas.
//
// # Contracts
//
// Unbalanced Save/Restore, Restore on an empty stack and use of a Builder
// after Build are programming errors. They panic unless the module is
// built with the release tag, in which case they are logged and repaired
// where possible.
//
// A DisplayList never changes after Build and may be shared between
// goroutines.
package displaylist
