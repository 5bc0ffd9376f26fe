// Package editor composes the multi-tap decoder with the bounded text buffer
// into an editing session.
//
// A Session is owned by a single event loop. It holds the only references to
// its decoder and buffer; there is no package-level state.
//
// Cursor Convention:
//
// While a letter is being previewed the cursor sits on it, so continued
// cycling can overwrite it in place. Committing the cycle (timeout, another
// key, a cursor move) advances the cursor one past the preview.
//
//	s := editor.NewSession(editor.DefaultOptions())
//	s.PressDigit('2')  // "a", cursor on 'a'
//	s.PressDigit('2')  // "b", cursor on 'b'
//	s.Commit()         // "b", cursor after 'b'
//	s.PressDigit('3')  // "bd", cursor on 'd'
package editor
