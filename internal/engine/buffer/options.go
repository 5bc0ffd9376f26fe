package buffer

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithCapacity sets the maximum number of runes the buffer can hold.
// Non-positive values are ignored.
func WithCapacity(capacity int) Option {
	return func(b *Buffer) {
		if capacity > 0 {
			b.capacity = capacity
		}
	}
}
