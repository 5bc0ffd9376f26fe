// Package keypad implements multi-tap text entry as found on numeric-keypad
// phones.
//
// Each digit key 2-9 maps to an ordered set of letters. Pressing the same key
// repeatedly cycles through its letters; pressing a different key, or
// committing after an idle timeout, finalizes the current letter so the next
// press starts a new cycle.
//
// The Decoder is a two-state machine:
//
//	Idle      --digit-->            Composing(key, 0)
//	Composing --same digit-->       Composing(key, (offset+1) mod n)
//	Composing --different digit-->  Composing(new key, 0)
//	Composing --commit/reset-->     Idle
//
// Every digit press yields a DecodedChar. Replace is true when the press
// continued the previous cycle, meaning the caller must overwrite the
// previewed letter instead of inserting a new one.
//
// Digit Fallback:
//
// By default every key cycles strictly through its own letters. With
// WithDigitFallback(true) each cycle gains a final offset that yields the
// digit itself, so "2" cycles a, b, c, 2 and "7" cycles p, q, r, s, 7.
package keypad
