package buffer

import (
	"errors"
	"sync"
)

// Errors returned by buffer operations.
var (
	// ErrCapacityExceeded is returned when inserting into a full buffer.
	// The buffer is left unchanged.
	ErrCapacityExceeded = errors.New("buffer capacity exceeded")

	// ErrEmptyBuffer is returned when removing from an empty buffer.
	// The call is a no-op.
	ErrEmptyBuffer = errors.New("buffer is empty")
)

// DefaultCapacity is the capacity used when no WithCapacity option is given.
const DefaultCapacity = 4096

// Buffer is a bounded rune sequence with an independent cursor.
// All methods are thread-safe.
type Buffer struct {
	mu       sync.RWMutex
	runes    []rune
	cursor   int
	capacity int
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		capacity: DefaultCapacity,
	}

	for _, opt := range opts {
		opt(b)
	}

	b.runes = make([]rune, 0, min(b.capacity, 64))

	return b
}

// Read Operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return string(b.runes)
}

// Len returns the number of runes in the buffer.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.runes)
}

// Cap returns the maximum number of runes the buffer can hold.
func (b *Buffer) Cap() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.capacity
}

// Cursor returns the cursor position, in [0, Len()].
func (b *Buffer) Cursor() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cursor
}

// IsEmpty returns true if the buffer holds no runes.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.runes) == 0
}

// IsFull returns true if another insert would exceed capacity.
func (b *Buffer) IsFull() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.runes) >= b.capacity
}

// Write Operations

// InsertAtCursor inserts r at the cursor, shifting later runes right.
// The cursor is left on the inserted rune.
// Returns ErrCapacityExceeded if the buffer is full.
func (b *Buffer) InsertAtCursor(r rune) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.runes) >= b.capacity {
		return ErrCapacityExceeded
	}

	index := min(b.cursor, len(b.runes))
	b.runes = append(b.runes, 0)
	copy(b.runes[index+1:], b.runes[index:])
	b.runes[index] = r
	b.cursor = index

	return nil
}

// RemoveAt removes the rune at index, shifting later runes left, and sets
// the cursor to index. An index past the end is clamped to the last rune.
// Returns ErrEmptyBuffer, leaving the buffer unchanged, if there is nothing
// to remove.
func (b *Buffer) RemoveAt(index int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.runes) == 0 {
		return ErrEmptyBuffer
	}

	if index >= len(b.runes) {
		index = len(b.runes) - 1
	}
	if index < 0 {
		index = 0
	}

	b.runes = append(b.runes[:index], b.runes[index+1:]...)
	b.cursor = index

	return nil
}

// MoveCursorBack moves the cursor one rune left, stopping at 0.
func (b *Buffer) MoveCursorBack() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cursor > 0 {
		b.cursor--
	}
}

// MoveCursorForward moves the cursor one rune right, stopping at Len().
func (b *Buffer) MoveCursorForward() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cursor < len(b.runes) {
		b.cursor++
	}
}

// Clear empties the buffer and resets the cursor to 0.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.runes = b.runes[:0]
	b.cursor = 0
}

// Snapshot returns a read-only copy of the current content and cursor.
// Safe for concurrent access from other goroutines.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	runes := make([]rune, len(b.runes))
	copy(runes, b.runes)

	return &Snapshot{
		runes:    runes,
		cursor:   b.cursor,
		capacity: b.capacity,
	}
}
