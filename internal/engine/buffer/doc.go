// Package buffer provides the bounded, cursor-addressable text buffer that
// multi-tap entry edits.
//
// The buffer package provides:
//
//   - A fixed maximum capacity; inserts into a full buffer are rejected
//   - An independent cursor that always lies within [0, Len()]
//   - Splice-based insert and remove at the cursor or an explicit index
//   - Read-only snapshots for rendering and clipboard export
//
// Basic usage:
//
//	buf := buffer.NewBuffer(buffer.WithCapacity(16))
//
//	// Insert leaves the cursor on the inserted rune
//	buf.InsertAtCursor('a')  // "a", cursor 0
//	buf.MoveCursorForward()  // cursor 1
//	buf.InsertAtCursor('b')  // "ab", cursor 1
//
//	// Remove leaves the cursor at the removed index
//	buf.RemoveAt(0)          // "b", cursor 0
//
// Cursor Policy:
//
// InsertAtCursor leaves the cursor at the inserted index rather than after
// it. Advancing past the new rune is a caller decision: multi-tap entry keeps
// the cursor on a previewed letter until the cycle is committed.
//
// Thread Safety:
//
// All Buffer methods are thread-safe. Snapshot returns a copy that is safe to
// hand to other goroutines.
package buffer
