package keypad

import "unicode"

// Digit is a keypad key in the range '2' through '9'.
type Digit rune

// letters maps each digit key to its ordered letter set.
var letters = [...]string{
	'2' - '2': "abc",
	'3' - '2': "def",
	'4' - '2': "ghi",
	'5' - '2': "jkl",
	'6' - '2': "mno",
	'7' - '2': "pqrs",
	'8' - '2': "tuv",
	'9' - '2': "wxyz",
}

// ParseDigit converts a rune to a Digit.
// Returns false for anything outside '2'-'9'.
func ParseDigit(r rune) (Digit, bool) {
	if r < '2' || r > '9' {
		return 0, false
	}
	return Digit(r), true
}

// Valid reports whether d is a mapped key.
func (d Digit) Valid() bool {
	return d >= '2' && d <= '9'
}

// Letters returns the lowercase letters mapped to d.
// Returns "" for an unmapped key.
func (d Digit) Letters() string {
	if !d.Valid() {
		return ""
	}
	return letters[d-'2']
}

// String returns the key as a one-character string.
func (d Digit) String() string {
	return string(rune(d))
}

// Case selects whether letters are emitted uppercase or lowercase.
type Case uint8

const (
	// Lower emits lowercase letters.
	Lower Case = iota
	// Upper emits uppercase letters.
	Upper
)

// Toggle returns the opposite case.
func (c Case) Toggle() Case {
	if c == Upper {
		return Lower
	}
	return Upper
}

// Apply converts r to the case. Non-letters are returned unchanged.
func (c Case) Apply(r rune) rune {
	if c == Upper {
		return unicode.ToUpper(r)
	}
	return unicode.ToLower(r)
}

// String returns the status line label for the case.
func (c Case) String() string {
	if c == Upper {
		return "Capital letters"
	}
	return "Small letters"
}
