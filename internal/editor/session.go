package editor

import (
	"github.com/dshills/keytap/internal/engine/buffer"
	"github.com/dshills/keytap/internal/keypad"
)

// Options configures a Session.
type Options struct {
	// Capacity is the maximum number of characters the buffer holds.
	Capacity int

	// Case is the initial case mode.
	Case keypad.Case

	// DigitFallback appends the literal digit to every key's cycle.
	DigitFallback bool
}

// DefaultOptions returns the default session options.
func DefaultOptions() Options {
	return Options{
		Capacity: buffer.DefaultCapacity,
		Case:     keypad.Lower,
	}
}

// Session is a multi-tap editing session: one decoder, one buffer and the
// case mode, driven by a single event loop.
type Session struct {
	buf *buffer.Buffer
	dec *keypad.Decoder
}

// NewSession creates a session with an empty buffer and an idle decoder.
func NewSession(opts Options) *Session {
	return &Session{
		buf: buffer.NewBuffer(buffer.WithCapacity(opts.Capacity)),
		dec: keypad.NewDecoder(
			keypad.WithCase(opts.Case),
			keypad.WithDigitFallback(opts.DigitFallback),
		),
	}
}

// PressDigit feeds a digit press through the decoder and applies the result
// to the buffer.
//
// A press that continues the pending cycle overwrites the previewed
// character in place. Any other press commits the pending preview, if any,
// and inserts a new preview at the cursor.
//
// Returns buffer.ErrCapacityExceeded if a new character does not fit; the
// pending preview is committed, the buffer content is unchanged and the
// decoder is left idle.
func (s *Session) PressDigit(key keypad.Digit) (keypad.DecodedChar, error) {
	pending := s.dec.Composing()
	if s.buf.IsFull() && !(pending && s.dec.State().Key == key) {
		s.Commit()
		return keypad.DecodedChar{Key: key}, buffer.ErrCapacityExceeded
	}
	ch := s.dec.HandleDigit(key)

	if ch.Replace {
		if err := s.buf.RemoveAt(s.buf.Cursor()); err != nil {
			s.dec.Reset()
			return ch, err
		}
		if err := s.buf.InsertAtCursor(ch.Char); err != nil {
			s.dec.Reset()
			return ch, err
		}
		return ch, nil
	}

	if pending {
		s.buf.MoveCursorForward()
	}
	if err := s.buf.InsertAtCursor(ch.Char); err != nil {
		s.dec.Reset()
		return ch, err
	}
	return ch, nil
}

// Commit finalizes the pending preview, moving the cursor past it.
// Returns true if a preview was pending.
func (s *Session) Commit() bool {
	if !s.dec.HandleCommit() {
		return false
	}
	s.buf.MoveCursorForward()
	return true
}

// InsertLiteral commits any pending preview and inserts r as a finished
// character, leaving the cursor after it.
func (s *Session) InsertLiteral(r rune) error {
	s.Commit()
	if err := s.buf.InsertAtCursor(r); err != nil {
		return err
	}
	s.buf.MoveCursorForward()
	return nil
}

// Backspace removes the previewed character if a cycle is pending, or the
// character before the cursor otherwise. At cursor 0 with no preview there
// is nothing to remove and the call is a no-op.
//
// Returns buffer.ErrEmptyBuffer if the buffer is empty.
func (s *Session) Backspace() error {
	composing := s.dec.Composing()
	s.dec.Reset()

	if s.buf.IsEmpty() {
		return buffer.ErrEmptyBuffer
	}

	if composing {
		return s.buf.RemoveAt(s.buf.Cursor())
	}

	cursor := s.buf.Cursor()
	if cursor == 0 {
		return nil
	}
	return s.buf.RemoveAt(cursor - 1)
}

// MoveLeft commits any pending preview and moves the cursor one left.
func (s *Session) MoveLeft() {
	s.Commit()
	s.buf.MoveCursorBack()
}

// MoveRight commits any pending preview; with nothing pending it moves the
// cursor one right.
func (s *Session) MoveRight() {
	if s.Commit() {
		return
	}
	s.buf.MoveCursorForward()
}

// Clear empties the buffer and resets the decoder.
func (s *Session) Clear() {
	s.buf.Clear()
	s.dec.Reset()
}

// ToggleCase commits any pending preview and flips the case mode.
// Returns the new case mode.
func (s *Session) ToggleCase() keypad.Case {
	s.Commit()
	c := s.dec.Case().Toggle()
	s.dec.SetCase(c)
	return c
}

// SetDigitFallback commits any pending preview and switches the digit
// fallback convention.
func (s *Session) SetDigitFallback(enable bool) {
	s.Commit()
	s.dec.SetDigitFallback(enable)
}

// DigitFallback reports whether digit fallback is enabled.
func (s *Session) DigitFallback() bool {
	return s.dec.DigitFallback()
}

// Case returns the current case mode.
func (s *Session) Case() keypad.Case {
	return s.dec.Case()
}

// Composing returns true if a preview is pending.
func (s *Session) Composing() bool {
	return s.dec.Composing()
}

// Text returns a copy of the full buffer content.
func (s *Session) Text() string {
	return s.buf.Text()
}

// View is a read-only picture of the session for rendering.
type View struct {
	// Text is the full buffer content.
	Text string

	// Runes is the buffer content as runes.
	Runes []rune

	// Cursor is the cursor position in runes.
	Cursor int

	// Case is the current case mode.
	Case keypad.Case

	// Composing is true while the rune at Cursor is a preview.
	Composing bool

	// Pending is the key being cycled while Composing.
	Pending keypad.Digit

	// Len and Cap are the buffer length and capacity.
	Len, Cap int
}

// Snapshot returns a read-only view of the session.
func (s *Session) Snapshot() View {
	snap := s.buf.Snapshot()
	st := s.dec.State()
	return View{
		Text:      snap.Text(),
		Runes:     snap.Runes(),
		Cursor:    snap.Cursor(),
		Case:      s.dec.Case(),
		Composing: st.Composing,
		Pending:   st.Key,
		Len:       snap.Len(),
		Cap:       snap.Cap(),
	}
}
