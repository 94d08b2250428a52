// Package buffer provides the host text buffer the spell checker runs
// against.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Coordinate conversion between byte offsets and line/column positions
//   - Named tags applied over byte ranges (the misspelling underline is one)
//   - Persistent named marks with left or right gravity that survive edits
//   - Synchronous observer notifications around every mutation
//   - Word segmentation following Unicode UAX #29
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello, Wrold!")
//
//	buf.CreateTag("misspelled")
//	buf.ApplyTag("misspelled", 7, 12)
//
//	buf.CreateMark("insert-start", 0, true)
//	buf.Insert(0, "Oh. ") // mark stays at 0, tag moves to [11, 16)
//
// Notifications:
//
// Observers registered with Subscribe are called synchronously on the
// goroutine performing the edit, after the buffer lock has been released,
// so an observer may read the buffer and apply tags. Applying or removing
// tags never produces a text notification.
//
// Offsets:
//
// All positions are byte offsets into the UTF-8 text. A "character" is one
// encoded rune. Position primitives (StartsWord, RuneAt, ...) panic when
// handed an offset outside [0, Len()]; that is a programmer error, not a
// recoverable condition.
package buffer
