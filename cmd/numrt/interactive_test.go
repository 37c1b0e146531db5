package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestExplorer(t *testing.T) *explorer {
	t.Helper()
	return newExplorer(newEvaluator(t).host)
}

func typeText(m *explorer, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func press(m *explorer, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

// deliver executes cmd and feeds its message back, as the program loop would.
func deliver(t *testing.T, m *explorer, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	if _, ok := msg.(evalDone); !ok {
		t.Fatalf("got %T, want evalDone", msg)
	}
	m.Update(msg)
}

func TestExplorerEvaluates(t *testing.T) {
	m := newTestExplorer(t)

	typeText(m, "add_with_overflow.i8")
	if len(m.shown) != 1 || m.shown[0].Symbol != "numrt.num.add_with_overflow.i8" {
		t.Fatalf("filter: got %d exports", len(m.shown))
	}

	press(m, tea.KeyEnter)
	if m.screen != screenArgs || len(m.args) != 2 {
		t.Fatalf("got screen %d with %d inputs, want argument entry with 2", m.screen, len(m.args))
	}

	typeText(m, "127")
	press(m, tea.KeyTab)
	typeText(m, "1")
	if m.args[0].Value() != "127" || m.args[1].Value() != "1" {
		t.Fatalf("inputs: got %q %q", m.args[0].Value(), m.args[1].Value())
	}

	deliver(t, m, press(m, tea.KeyEnter))
	if m.screen != screenResult {
		t.Fatalf("got screen %d, want result", m.screen)
	}
	if m.err != nil {
		t.Fatalf("eval: %v", m.err)
	}
	if want := "-128 (has_overflowed)"; m.result != want {
		t.Errorf("got %q, want %q", m.result, want)
	}
	if !strings.Contains(m.View(), "-128 (has_overflowed)") {
		t.Errorf("view does not show the result:\n%s", m.View())
	}

	press(m, tea.KeyEnter)
	if m.screen != screenList || m.result != "" {
		t.Errorf("got screen %d result %q, want list", m.screen, m.result)
	}
}

func TestExplorerShowsErrors(t *testing.T) {
	m := newTestExplorer(t)

	typeText(m, "add_or_panic.i64")
	press(m, tea.KeyEnter)
	typeText(m, "9223372036854775807")
	press(m, tea.KeyTab)
	typeText(m, "1")
	deliver(t, m, press(m, tea.KeyEnter))

	if m.err == nil || !strings.Contains(m.err.Error(), "trapped with code 1") {
		t.Errorf("got %v, want overflow trap", m.err)
	}
	if !strings.Contains(m.View(), "Error:") {
		t.Errorf("view does not show the error:\n%s", m.View())
	}
}

func TestExplorerNavigation(t *testing.T) {
	m := newTestExplorer(t)
	total := len(m.all)

	press(m, tea.KeyUp)
	if m.cursor != 0 {
		t.Errorf("up at top: got %d, want 0", m.cursor)
	}
	press(m, tea.KeyDown)
	press(m, tea.KeyPgDown)
	if want := 1 + visibleRows; m.cursor != want {
		t.Errorf("got %d, want %d", m.cursor, want)
	}

	typeText(m, "bytes_to_")
	if len(m.shown) != 4 || m.cursor != 0 {
		t.Errorf("filter: got %d shown, cursor %d", len(m.shown), m.cursor)
	}
	press(m, tea.KeyPgDown)
	if m.cursor != 3 {
		t.Errorf("pgdn clamps: got %d, want 3", m.cursor)
	}

	press(m, tea.KeyEnter)
	press(m, tea.KeyShiftTab)
	if m.focused != 1 {
		t.Errorf("shift+tab wraps: got %d, want 1", m.focused)
	}
	press(m, tea.KeyEsc)
	if m.screen != screenList || m.args != nil {
		t.Errorf("esc from arguments: got screen %d", m.screen)
	}

	if cmd := press(m, tea.KeyEsc); cmd != nil {
		t.Error("esc with a filter should clear it, not quit")
	}
	if m.filter.Value() != "" || len(m.shown) != total {
		t.Errorf("got filter %q with %d shown, want all %d", m.filter.Value(), len(m.shown), total)
	}

	typeText(m, "no_such_export")
	if len(m.shown) != 0 {
		t.Fatalf("got %d shown, want 0", len(m.shown))
	}
	if cmd := press(m, tea.KeyEnter); cmd != nil || m.screen != screenList {
		t.Error("enter on an empty list should do nothing")
	}
	if !strings.Contains(m.View(), "no matching exports") {
		t.Errorf("view:\n%s", m.View())
	}
}
