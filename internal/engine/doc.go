// Package engine provides the text view that the spell checker attaches to.
//
// An Engine shows one buffer.Buffer at a time. It maps window cells to
// buffer offsets for context menus, provides the cursor motions and typing
// commands a terminal front end binds to keys, and lets the shown buffer
// be swapped while notifying interested parties.
//
// # Basic Usage
//
//	e := engine.New(engine.WithContent("Hello, Wrold!"))
//
//	e.SetCursor(e.Len())
//	e.InsertAtCursor(" Bye.")
//
//	off := e.OffsetAtLocation(8, 0) // offset of "r" in "Wrold"
//
// # Rebinding
//
// Components that keep per-buffer state (tags, marks, observers) register
// with OnBufferChanged and move that state across when SetBuffer is called:
//
//	e.OnBufferChanged(func(old, new *buffer.Buffer) {
//		detach(old)
//		attach(new)
//	})
//
// # Thread Safety
//
// All Engine operations are thread-safe. Buffer mutations are serialized by
// the buffer itself; the engine lock only guards the binding and viewport.
package engine
