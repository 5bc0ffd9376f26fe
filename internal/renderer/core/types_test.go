package core

import "testing"

func TestStyleAttributes(t *testing.T) {
	s := DefaultStyle().Bold().Reverse()

	if !s.Attributes.Has(AttrBold) || !s.Attributes.Has(AttrReverse) {
		t.Errorf("expected bold and reverse, got %v", s.Attributes)
	}
	if s.Attributes.Has(AttrDim) {
		t.Error("dim should not be set")
	}
	if !s.Foreground.IsDefault() {
		t.Error("foreground should stay default")
	}
}

func TestStyleWithForeground(t *testing.T) {
	s := DefaultStyle().WithForeground(ColorFromIndex(3))
	if s.Foreground.IsDefault() || s.Foreground.Index != 3 {
		t.Errorf("unexpected foreground %+v", s.Foreground)
	}
}

func TestRuneWidth(t *testing.T) {
	tests := []struct {
		r    rune
		want int
	}{
		{'a', 1},
		{' ', 1},
		{'世', 2},
	}
	for _, tt := range tests {
		if got := RuneWidth(tt.r); got != tt.want {
			t.Errorf("RuneWidth(%q) = %d, want %d", tt.r, got, tt.want)
		}
	}
}

func TestNewStyledCell(t *testing.T) {
	c := NewStyledCell('x', DefaultStyle().Dim())
	if c.Rune != 'x' || c.Width != 1 || !c.Style.Attributes.Has(AttrDim) {
		t.Errorf("unexpected cell %+v", c)
	}
	if EmptyCell().Rune != ' ' {
		t.Error("empty cell should be a space")
	}
}

func TestScreenRect(t *testing.T) {
	r := RectFromSize(2, 1, 3, 10)
	if r.Width() != 10 || r.Height() != 3 {
		t.Errorf("expected 10x3, got %dx%d", r.Width(), r.Height())
	}
	if (ScreenRect{Top: 5, Bottom: 2}).Height() != 0 {
		t.Error("inverted rect should have zero height")
	}
}
