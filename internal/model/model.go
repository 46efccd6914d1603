// Package model defines the core data structures for the jot history.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by model operations.
var (
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrJotNotFound      = errors.New("jot not found in current set")
	ErrEmptyHistory     = errors.New("history has no sets")
	ErrCurrentSetClosed = errors.New("current set is already complete")
	ErrOutOfOrder       = errors.New("sets out of date order")
	ErrInvalidInterval  = errors.New("invalid date interval")
	ErrUnknownState     = errors.New("unknown jot state")
)

// JotState is the lifecycle state of a jot.
type JotState string

// Jot states.
const (
	StateCompleted  JotState = "Completed"
	StateRemoved    JotState = "Removed"
	StateInProgress JotState = "InProgress"
	StateFailed     JotState = "Failed"
	StateNotStarted JotState = "NotStarted"
)

// AllStates lists every state in display order.
var AllStates = []JotState{StateCompleted, StateRemoved, StateInProgress, StateFailed, StateNotStarted}

// IsTerminal reports whether s is Completed, Removed or Failed.
func (s JotState) IsTerminal() bool {
	switch s {
	case StateCompleted, StateRemoved, StateFailed:
		return true
	default:
		return false
	}
}

// Valid reports whether s is one of the five known states.
func (s JotState) Valid() bool {
	switch s {
	case StateCompleted, StateRemoved, StateInProgress, StateFailed, StateNotStarted:
		return true
	default:
		return false
	}
}

// Label returns the human-readable name of s.
func (s JotState) Label() string {
	switch s {
	case StateInProgress:
		return "In Progress"
	case StateNotStarted:
		return "Not Started"
	default:
		return string(s)
	}
}

func (s JotState) String() string { return s.Label() }

// ParseJotState parses a state name. Case, spaces, hyphens and underscores
// are ignored, so "in-progress", "In Progress" and "InProgress" are the same.
// The misspelling "InProgess" found in older history files is accepted.
func ParseJotState(name string) (JotState, error) {
	key := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(name))
	switch key {
	case "completed":
		return StateCompleted, nil
	case "removed":
		return StateRemoved, nil
	case "inprogress", "inprogess":
		return StateInProgress, nil
	case "failed":
		return StateFailed, nil
	case "notstarted":
		return StateNotStarted, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownState, name)
}

// MarshalText implements encoding.TextMarshaler.
func (s JotState) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownState, string(s))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *JotState) UnmarshalText(text []byte) error {
	parsed, err := ParseJotState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Jot is a single trackable item. Two jots are equal when both content and
// state are equal, so plain == comparison is the identity used for lookups.
type Jot struct {
	Content string   `yaml:"value" json:"value"`
	State   JotState `yaml:"state" json:"state"`
}

// IsTerminal reports whether the jot's state is terminal.
func (j Jot) IsTerminal() bool { return j.State.IsTerminal() }

func (j Jot) String() string {
	return fmt.Sprintf("%s: %s", j.Content, j.State.Label())
}

// JotSet is the ordered list of jots active during one interval.
type JotSet struct {
	Jots     []Jot
	Interval DateInterval
}

// NewJotSet returns an empty set covering iv.
func NewJotSet(iv DateInterval) JotSet {
	return JotSet{Interval: iv}
}

// Clone returns a deep copy of the set.
func (s JotSet) Clone() JotSet {
	var jots []Jot
	if s.Jots != nil {
		jots = make([]Jot, len(s.Jots))
		copy(jots, s.Jots)
	}
	return JotSet{Jots: jots, Interval: s.Interval}
}

// NonTerminalJots returns a copy of the jots that are not yet done, in their
// original order.
func (s JotSet) NonTerminalJots() []Jot {
	jots := []Jot{}
	for _, j := range s.Jots {
		if !j.IsTerminal() {
			jots = append(jots, j)
		}
	}
	return jots
}

// FilterByStates returns a set holding only the jots whose state is one of
// states. An empty states list means no filtering.
func (s JotSet) FilterByStates(states []JotState) JotSet {
	if len(states) == 0 {
		return s.Clone()
	}
	wanted := make(map[JotState]bool, len(states))
	for _, st := range states {
		wanted[st] = true
	}
	jots := []Jot{}
	for _, j := range s.Jots {
		if wanted[j.State] {
			jots = append(jots, j)
		}
	}
	return JotSet{Jots: jots, Interval: s.Interval}
}

// Equal reports whether both sets hold the same jots, in the same order,
// over the same interval. A nil and an empty jot list are equal.
func (s JotSet) Equal(other JotSet) bool {
	if s.Interval != other.Interval || len(s.Jots) != len(other.Jots) {
		return false
	}
	for i := range s.Jots {
		if s.Jots[i] != other.Jots[i] {
			return false
		}
	}
	return true
}

// IndexOf returns the position of the first jot equal to j, or -1.
func (s JotSet) IndexOf(j Jot) int {
	for i, candidate := range s.Jots {
		if candidate == j {
			return i
		}
	}
	return -1
}
