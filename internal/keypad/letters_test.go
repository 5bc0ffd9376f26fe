package keypad

import "testing"

func TestParseDigit(t *testing.T) {
	tests := []struct {
		r    rune
		want bool
	}{
		{'0', false},
		{'1', false},
		{'2', true},
		{'5', true},
		{'9', true},
		{'a', false},
		{'#', false},
	}

	for _, tt := range tests {
		d, ok := ParseDigit(tt.r)
		if ok != tt.want {
			t.Errorf("ParseDigit(%q) ok = %v, want %v", tt.r, ok, tt.want)
		}
		if ok && rune(d) != tt.r {
			t.Errorf("ParseDigit(%q) = %q", tt.r, rune(d))
		}
	}
}

func TestLettersTotal(t *testing.T) {
	for r := '2'; r <= '9'; r++ {
		d, _ := ParseDigit(r)
		n := len(d.Letters())

		want := 3
		if r == '7' || r == '9' {
			want = 4
		}
		if n != want {
			t.Errorf("key %c: expected %d letters, got %d", r, want, n)
		}
	}
}

func TestLettersSequence(t *testing.T) {
	var all string
	for r := '2'; r <= '9'; r++ {
		all += Digit(r).Letters()
	}
	if all != "abcdefghijklmnopqrstuvwxyz" {
		t.Errorf("letters do not cover the alphabet in order: %q", all)
	}
}

func TestLettersInvalidKey(t *testing.T) {
	if Digit('1').Letters() != "" {
		t.Error("key 1 should have no letters")
	}
	if Digit('1').Valid() {
		t.Error("key 1 should not be valid")
	}
}

func TestCaseToggle(t *testing.T) {
	c := Lower
	c = c.Toggle()
	if c != Upper {
		t.Errorf("expected Upper, got %v", c)
	}
	if c.Toggle() != Lower {
		t.Error("toggle of Upper should be Lower")
	}
}

func TestCaseApply(t *testing.T) {
	if Upper.Apply('a') != 'A' {
		t.Error("Upper should uppercase letters")
	}
	if Lower.Apply('A') != 'a' {
		t.Error("Lower should lowercase letters")
	}
	if Upper.Apply('7') != '7' {
		t.Error("digits should be unchanged")
	}
}

func TestCaseString(t *testing.T) {
	if Upper.String() != "Capital letters" {
		t.Errorf("unexpected label %q", Upper.String())
	}
	if Lower.String() != "Small letters" {
		t.Errorf("unexpected label %q", Lower.String())
	}
}
