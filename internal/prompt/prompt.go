// Package prompt provides the interactive free-text and single-select
// prompts used when a command is missing a value.
package prompt

import (
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	// ErrSkipped means the user dismissed an optional prompt with esc. The
	// caller should fall back to its default value.
	ErrSkipped = errors.New("prompt skipped")
	// ErrAborted means the user cancelled with ctrl+c. The caller should
	// stop without changing anything.
	ErrAborted = errors.New("prompt aborted")
	// ErrNoOptions is returned by Select when there is nothing to choose.
	ErrNoOptions = errors.New("nothing to select")
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// outcome is how a prompt ended.
type outcome int

const (
	pending outcome = iota
	submitted
	skipped
	aborted
)

func (o outcome) err() error {
	switch o {
	case submitted:
		return nil
	case skipped:
		return ErrSkipped
	default:
		return ErrAborted
	}
}

// Prompter runs prompts against a terminal.
type Prompter struct {
	in  io.Reader
	out io.Writer
}

// New returns a Prompter reading keys from in and drawing on out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out}
}

// Text asks for a line of text, pre-filled with initial. Empty input is not
// accepted.
func (p *Prompter) Text(title, initial string) (string, error) {
	final, err := p.run(newTextModel(title, initial))
	if err != nil {
		return "", err
	}
	m := final.(textModel)
	if err := m.outcome.err(); err != nil {
		return "", err
	}
	return m.value(), nil
}

// Select asks the user to pick one of options and returns its index.
func (p *Prompter) Select(title string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, ErrNoOptions
	}
	final, err := p.run(newSelectModel(title, options))
	if err != nil {
		return -1, err
	}
	m := final.(selectModel)
	if err := m.outcome.err(); err != nil {
		return -1, err
	}
	return m.cursor, nil
}

func (p *Prompter) run(m tea.Model) (tea.Model, error) {
	prog := tea.NewProgram(m, tea.WithInput(p.in), tea.WithOutput(p.out))
	final, err := prog.Run()
	if err != nil {
		return nil, fmt.Errorf("run prompt: %w", err)
	}
	return final, nil
}
