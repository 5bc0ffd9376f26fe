package backend

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keytap/internal/input/key"
	"github.com/dshills/keytap/internal/renderer/core"
)

func newSimTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	term := newTerminal(sim)
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	sim.SetSize(20, 5)
	t.Cleanup(term.Shutdown)
	return term, sim
}

func TestTerminalSetCell(t *testing.T) {
	term, _ := newSimTerminal(t)

	term.SetCell(2, 1, core.NewStyledCell('k', core.DefaultStyle().Reverse()))
	term.Show()

	got := term.GetCell(2, 1)
	if got.Rune != 'k' {
		t.Errorf("expected 'k', got %q", got.Rune)
	}
	if !got.Style.Attributes.Has(core.AttrReverse) {
		t.Error("expected reverse attribute to survive the round trip")
	}
}

func TestTerminalPollKey(t *testing.T) {
	term, sim := newSimTerminal(t)

	sim.InjectKey(tcell.KeyRune, '7', tcell.ModNone)
	sim.InjectKey(tcell.KeyBackspace2, 0, tcell.ModNone)

	ev := term.PollEvent()
	for ev.Type == EventResize {
		ev = term.PollEvent()
	}
	if ev.Type != EventKey || ev.Key.Key != key.KeyRune || ev.Key.Rune != '7' {
		t.Fatalf("expected rune '7', got %#v", ev.Key)
	}

	ev = term.PollEvent()
	if ev.Type != EventKey || ev.Key.Key != key.KeyBackspace {
		t.Fatalf("expected backspace, got %#v", ev.Key)
	}
}

func TestConvertKey(t *testing.T) {
	tests := []struct {
		in   tcell.Key
		want key.Key
	}{
		{tcell.KeyBackspace, key.KeyBackspace},
		{tcell.KeyBackspace2, key.KeyBackspace},
		{tcell.KeyLeft, key.KeyLeft},
		{tcell.KeyRight, key.KeyRight},
		{tcell.KeyEscape, key.KeyEscape},
		{tcell.KeyCtrlC, key.KeyCtrlC},
		{tcell.KeyF5, key.KeyNone},
	}
	for _, tt := range tests {
		if got := convertKey(tt.in); got != tt.want {
			t.Errorf("convertKey(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConvertStyle(t *testing.T) {
	st := convertStyle(core.DefaultStyle().Bold().Reverse())
	_, _, attrs := st.Decompose()
	if attrs&tcell.AttrBold == 0 || attrs&tcell.AttrReverse == 0 {
		t.Errorf("expected bold and reverse, got %v", attrs)
	}
}
