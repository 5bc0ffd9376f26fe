package keypad

// DecodedChar is the result of a single digit press.
type DecodedChar struct {
	// Char is the resolved character with case mode applied.
	Char rune

	// Replace is true when the press continued the previous cycle.
	// The caller must overwrite the previewed character instead of
	// inserting a new one.
	Replace bool

	// Key is the digit that was pressed.
	Key Digit

	// Offset is the position within the key's cycle.
	Offset int
}

// State is a read-only view of the decoder's cycle state.
type State struct {
	// Composing is false when the decoder is idle.
	Composing bool

	// Key is the digit being cycled. Zero when idle.
	Key Digit

	// Offset is the current position in Key's cycle. Zero when idle.
	Offset int
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithDigitFallback appends the literal digit as the final offset of
// every key's cycle.
func WithDigitFallback(enable bool) Option {
	return func(d *Decoder) {
		d.digitFallback = enable
	}
}

// WithCase sets the initial case mode.
func WithCase(c Case) Option {
	return func(d *Decoder) {
		d.caseMode = c
	}
}

// Decoder converts digit presses into characters, tracking which key is
// being cycled and at which offset.
//
// Decoder is not safe for concurrent use; it is owned by a single event loop.
type Decoder struct {
	composing bool
	key       Digit
	offset    int

	caseMode      Case
	digitFallback bool
}

// NewDecoder creates an idle decoder.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// HandleDigit processes a press of key.
//
// If the decoder is composing on the same key, the offset advances and
// wraps; the result has Replace set. Otherwise a new cycle starts at
// offset 0.
//
// key must be valid; callers reject other keys before they get here.
func (d *Decoder) HandleDigit(key Digit) DecodedChar {
	replace := d.composing && d.key == key
	if replace {
		d.offset = (d.offset + 1) % d.CycleLen(key)
	} else {
		d.composing = true
		d.key = key
		d.offset = 0
	}

	return DecodedChar{
		Char:    d.Resolve(key, d.offset),
		Replace: replace,
		Key:     key,
		Offset:  d.offset,
	}
}

// HandleCommit ends the current cycle after an idle timeout or an unrelated
// key. The next digit press starts fresh.
// Returns true if a cycle was pending.
func (d *Decoder) HandleCommit() bool {
	pending := d.composing
	d.Reset()
	return pending
}

// Reset forces the decoder back to idle.
func (d *Decoder) Reset() {
	d.composing = false
	d.key = 0
	d.offset = 0
}

// State returns the current cycle state.
func (d *Decoder) State() State {
	return State{
		Composing: d.composing,
		Key:       d.key,
		Offset:    d.offset,
	}
}

// Composing returns true if a cycle is pending.
func (d *Decoder) Composing() bool {
	return d.composing
}

// CycleLen returns the number of distinct offsets for key.
func (d *Decoder) CycleLen(key Digit) int {
	n := len(key.Letters())
	if d.digitFallback {
		n++
	}
	return n
}

// Resolve returns the character for key at offset, with case applied.
// When digit fallback is enabled, the offset one past the letters yields
// the digit itself.
func (d *Decoder) Resolve(key Digit, offset int) rune {
	set := key.Letters()
	if offset >= len(set) {
		return rune(key)
	}
	return d.caseMode.Apply(rune(set[offset]))
}

// Case returns the current case mode.
func (d *Decoder) Case() Case {
	return d.caseMode
}

// SetCase sets the case mode. The cycle state is not affected.
func (d *Decoder) SetCase(c Case) {
	d.caseMode = c
}

// DigitFallback reports whether digit fallback is enabled.
func (d *Decoder) DigitFallback() bool {
	return d.digitFallback
}

// SetDigitFallback enables or disables digit fallback.
// A pending cycle is reset so its offset stays within the new cycle length.
func (d *Decoder) SetDigitFallback(enable bool) {
	if d.digitFallback == enable {
		return
	}
	d.digitFallback = enable
	d.Reset()
}
