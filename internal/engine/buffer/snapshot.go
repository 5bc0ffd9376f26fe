package buffer

// Snapshot provides a read-only view of a buffer at a specific point in time.
// It is safe for concurrent access and will not change even if the original
// buffer is modified.
type Snapshot struct {
	runes    []rune
	cursor   int
	capacity int
}

// Text returns the full snapshot content as a string.
func (s *Snapshot) Text() string {
	return string(s.runes)
}

// Runes returns a copy of the snapshot content.
func (s *Snapshot) Runes() []rune {
	out := make([]rune, len(s.runes))
	copy(out, s.runes)
	return out
}

// Len returns the number of runes in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.runes)
}

// Cap returns the capacity of the buffer the snapshot was taken from.
func (s *Snapshot) Cap() int {
	return s.capacity
}

// Cursor returns the cursor position at snapshot time.
func (s *Snapshot) Cursor() int {
	return s.cursor
}
