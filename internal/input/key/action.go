package key

import "github.com/dshills/keytap/internal/keypad"

// ActionKind identifies what a key press asks the editing loop to do.
type ActionKind uint8

const (
	// ActionInvalid is any key without a keypad meaning.
	ActionInvalid ActionKind = iota
	// ActionDigit is a press of a letter key 2-9.
	ActionDigit
	// ActionLiteral inserts a finished character (0 for space, 1 for '1').
	ActionLiteral
	// ActionToggleCase flips between small and capital letters.
	ActionToggleCase
	ActionBackspace
	ActionClear
	// ActionYank exports the buffer to the clipboard.
	ActionYank
	ActionMoveLeft
	ActionMoveRight
	ActionQuit
)

// String returns the action name.
func (k ActionKind) String() string {
	switch k {
	case ActionDigit:
		return "digit"
	case ActionLiteral:
		return "literal"
	case ActionToggleCase:
		return "toggle-case"
	case ActionBackspace:
		return "backspace"
	case ActionClear:
		return "clear"
	case ActionYank:
		return "yank"
	case ActionMoveLeft:
		return "move-left"
	case ActionMoveRight:
		return "move-right"
	case ActionQuit:
		return "quit"
	default:
		return "invalid"
	}
}

// Action is a classified key press.
type Action struct {
	Kind ActionKind

	// Digit is set for ActionDigit.
	Digit keypad.Digit

	// Rune is the character to insert for ActionLiteral.
	Rune rune

	// Event is the key press the action came from.
	Event Event
}

// literals maps the non-letter digit keys to the character they insert.
var literals = map[rune]rune{
	'0': ' ',
	'1': '1',
}

// Classify maps a key event to its keypad action.
func Classify(e Event) Action {
	a := Action{Event: e}

	if e.Key.IsSpecial() {
		switch e.Key {
		case KeyEscape, KeyCtrlC:
			a.Kind = ActionQuit
		case KeyBackspace:
			a.Kind = ActionBackspace
		case KeyLeft:
			a.Kind = ActionMoveLeft
		case KeyRight:
			a.Kind = ActionMoveRight
		}
		return a
	}
	if !e.IsRune() {
		return a
	}

	if e.IsModified() {
		if e.Modifiers.HasCtrl() && (e.Rune == 'c' || e.Rune == 'C') {
			a.Kind = ActionQuit
		}
		return a
	}

	if d, ok := keypad.ParseDigit(e.Rune); ok {
		a.Kind = ActionDigit
		a.Digit = d
		return a
	}
	if r, ok := literals[e.Rune]; ok {
		a.Kind = ActionLiteral
		a.Rune = r
		return a
	}

	switch e.Rune {
	case '#':
		a.Kind = ActionToggleCase
	case 'c':
		a.Kind = ActionClear
	case 'y':
		a.Kind = ActionYank
	case 'q':
		a.Kind = ActionQuit
	}
	return a
}
