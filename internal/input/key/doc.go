// Package key provides key event types and their mapping onto keypad
// actions.
//
// An Event is a single key press as reported by the terminal backend:
//
//   - Key: identifies a special key, or KeyRune for characters
//   - Modifier: Ctrl, Alt, Shift and Meta state
//   - Event: a key press with modifiers and timestamp
//
// Classify turns an Event into an Action, the small vocabulary the
// editing loop understands: digit presses, literal inserts, case toggle,
// backspace, clear, yank, cursor movement and quit. Everything else is
// ActionInvalid.
package key
