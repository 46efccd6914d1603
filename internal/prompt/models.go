package prompt

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// --- Select ---

type selectModel struct {
	title   string
	options []string
	cursor  int
	outcome outcome
}

func newSelectModel(title string, options []string) selectModel {
	return selectModel{title: title, options: options}
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c":
		m.outcome = aborted
		return m, tea.Quit
	case "esc":
		m.outcome = skipped
		return m, tea.Quit
	case "enter":
		m.outcome = submitted
		return m, tea.Quit
	case "up", "k", "shift+tab":
		if m.cursor > 0 {
			m.cursor--
		} else {
			m.cursor = len(m.options) - 1
		}
	case "down", "j", "tab":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		} else {
			m.cursor = 0
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(m.options) - 1
	}
	return m, nil
}

func (m selectModel) View() string {
	if m.outcome != pending {
		if m.outcome == submitted {
			return fmt.Sprintf("%s %s\n", titleStyle.Render("? "+m.title), selectedStyle.Render(m.options[m.cursor]))
		}
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("? "+m.title) + "\n")
	for i, opt := range m.options {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> "+opt) + "\n")
		} else {
			b.WriteString("  " + opt + "\n")
		}
	}
	b.WriteString(helpStyle.Render("↑/↓ move • enter select • esc skip") + "\n")
	return b.String()
}

// --- Text ---

type textModel struct {
	title   string
	input   []rune
	pos     int
	outcome outcome
}

func newTextModel(title, initial string) textModel {
	input := []rune(initial)
	return textModel{title: title, input: input, pos: len(input)}
}

func (m textModel) value() string {
	return strings.TrimSpace(string(m.input))
}

func (m textModel) Init() tea.Cmd { return nil }

func (m textModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyCtrlC:
		m.outcome = aborted
		return m, tea.Quit
	case tea.KeyEsc:
		m.outcome = skipped
		return m, tea.Quit
	case tea.KeyEnter:
		if m.value() == "" {
			return m, nil
		}
		m.outcome = submitted
		return m, tea.Quit
	case tea.KeyBackspace:
		if m.pos > 0 {
			m.input = append(m.input[:m.pos-1:m.pos-1], m.input[m.pos:]...)
			m.pos--
		}
	case tea.KeyDelete:
		if m.pos < len(m.input) {
			m.input = append(m.input[:m.pos:m.pos], m.input[m.pos+1:]...)
		}
	case tea.KeyLeft:
		if m.pos > 0 {
			m.pos--
		}
	case tea.KeyRight:
		if m.pos < len(m.input) {
			m.pos++
		}
	case tea.KeyHome, tea.KeyCtrlA:
		m.pos = 0
	case tea.KeyEnd, tea.KeyCtrlE:
		m.pos = len(m.input)
	case tea.KeyCtrlU:
		m.input = append([]rune{}, m.input[m.pos:]...)
		m.pos = 0
	case tea.KeySpace:
		m.insert([]rune{' '})
	case tea.KeyRunes:
		m.insert(key.Runes)
	}
	return m, nil
}

func (m *textModel) insert(r []rune) {
	next := make([]rune, 0, len(m.input)+len(r))
	next = append(next, m.input[:m.pos]...)
	next = append(next, r...)
	next = append(next, m.input[m.pos:]...)
	m.input = next
	m.pos += len(r)
}

func (m textModel) View() string {
	if m.outcome != pending {
		if m.outcome == submitted {
			return fmt.Sprintf("%s %s\n", titleStyle.Render("? "+m.title), selectedStyle.Render(m.value()))
		}
		return ""
	}
	before := string(m.input[:m.pos])
	cursor := " "
	after := ""
	if m.pos < len(m.input) {
		cursor = string(m.input[m.pos])
		after = string(m.input[m.pos+1:])
	}
	return fmt.Sprintf("%s %s%s%s\n%s\n",
		titleStyle.Render("? "+m.title),
		before, cursorStyle.Reverse(true).Render(cursor), after,
		helpStyle.Render("enter submit • esc skip • ctrl+c cancel"))
}
