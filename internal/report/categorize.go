package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/bryan-cox/jotledger/internal/model"
)

// Summary counts the jots of one set by state and by what a roll would do
// with them.
type Summary struct {
	ByState  map[model.JotState]int
	Open     int // non-terminal jots, carried forward by a roll
	Finished int // terminal jots, archived by a roll
}

// Summarize groups the jots of set by state.
func Summarize(set model.JotSet) Summary {
	s := Summary{ByState: make(map[model.JotState]int)}
	for _, jot := range set.Jots {
		s.ByState[jot.State]++
		if jot.IsTerminal() {
			s.Finished++
		} else {
			s.Open++
		}
	}
	return s
}

// Total returns the number of jots summarized.
func (s Summary) Total() int { return s.Open + s.Finished }

// PrintSummary prints the non-zero state counts on one line, in the order
// of model.AllStates.
func PrintSummary(out io.Writer, s Summary) {
	if s.Total() == 0 {
		return
	}
	var parts []string
	for _, state := range model.AllStates {
		if n := s.ByState[state]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", state.Label(), n))
		}
	}
	fmt.Fprintf(out, "\n%d jots (%s)\n", s.Total(), strings.Join(parts, ", "))
}

// PrintRollResult reports how many jots a roll carried and archived.
func PrintRollResult(out io.Writer, archived model.JotSet) {
	s := Summarize(archived)
	fmt.Fprintf(out, "Rolled %d jots forward, archived %d finished jots (%s)\n\n",
		s.Open, s.Finished, archived.Interval)
}
