package prompt

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func feedSelect(m selectModel, keys ...string) selectModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(selectModel)
	}
	return m
}

func feedText(m textModel, keys ...string) textModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(textModel)
	}
	return m
}

func TestSelectModel(t *testing.T) {
	options := []string{"Completed", "Removed", "In Progress", "Failed", "Not Started"}

	t.Run("move and submit", func(t *testing.T) {
		m := feedSelect(newSelectModel("state", options), "down", "j", "enter")
		if m.outcome != submitted {
			t.Fatalf("outcome = %v, want submitted", m.outcome)
		}
		if m.cursor != 2 {
			t.Errorf("cursor = %d, want 2", m.cursor)
		}
	})

	t.Run("wraps around", func(t *testing.T) {
		m := feedSelect(newSelectModel("state", options), "up")
		if m.cursor != len(options)-1 {
			t.Errorf("cursor = %d, want last", m.cursor)
		}
		m = feedSelect(m, "down")
		if m.cursor != 0 {
			t.Errorf("cursor = %d, want 0", m.cursor)
		}
	})

	t.Run("esc skips", func(t *testing.T) {
		m := feedSelect(newSelectModel("state", options), "esc")
		if !errors.Is(m.outcome.err(), ErrSkipped) {
			t.Errorf("err = %v, want ErrSkipped", m.outcome.err())
		}
	})

	t.Run("ctrl+c aborts", func(t *testing.T) {
		m := feedSelect(newSelectModel("state", options), "ctrl+c")
		if !errors.Is(m.outcome.err(), ErrAborted) {
			t.Errorf("err = %v, want ErrAborted", m.outcome.err())
		}
	})

	t.Run("view shows cursor", func(t *testing.T) {
		m := feedSelect(newSelectModel("pick a state", options), "down")
		view := m.View()
		if !strings.Contains(view, "pick a state") || !strings.Contains(view, "> Removed") {
			t.Errorf("unexpected view:\n%s", view)
		}
	})
}

func TestTextModel(t *testing.T) {
	t.Run("typing and submit", func(t *testing.T) {
		m := feedText(newTextModel("jot", ""), "buy", "space", "milk", "enter")
		if m.outcome != submitted {
			t.Fatalf("outcome = %v, want submitted", m.outcome)
		}
		if m.value() != "buy milk" {
			t.Errorf("value = %q", m.value())
		}
	})

	t.Run("initial value can be edited", func(t *testing.T) {
		m := feedText(newTextModel("jot", "buy milk"), "backspace", "backspace", "backspace", "backspace", "eggs", "enter")
		if m.value() != "buy eggs" {
			t.Errorf("value = %q", m.value())
		}
	})

	t.Run("insert in the middle", func(t *testing.T) {
		m := feedText(newTextModel("jot", "ac"), "left", "b", "enter")
		if m.value() != "abc" {
			t.Errorf("value = %q", m.value())
		}
	})

	t.Run("empty input is not submitted", func(t *testing.T) {
		m := feedText(newTextModel("jot", ""), "space", "enter")
		if m.outcome != pending {
			t.Errorf("outcome = %v, want pending", m.outcome)
		}
	})

	t.Run("esc and ctrl+c", func(t *testing.T) {
		if m := feedText(newTextModel("jot", "x"), "esc"); !errors.Is(m.outcome.err(), ErrSkipped) {
			t.Errorf("esc: err = %v", m.outcome.err())
		}
		if m := feedText(newTextModel("jot", "x"), "ctrl+c"); !errors.Is(m.outcome.err(), ErrAborted) {
			t.Errorf("ctrl+c: err = %v", m.outcome.err())
		}
	})
}

func TestSelect_NoOptions(t *testing.T) {
	p := New(strings.NewReader(""), &strings.Builder{})
	if _, err := p.Select("pick", nil); !errors.Is(err, ErrNoOptions) {
		t.Fatalf("expected ErrNoOptions, got %v", err)
	}
}
