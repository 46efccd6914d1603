// Package report renders jot sets and history as plain text.
package report

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/bryan-cox/jotledger/internal/model"
)

// Messages shared with the command layer.
const (
	TextNoSetForDate = "No jotset found for date"
	TextNoJots       = "(no jots)"
)

// PrintSet prints the set's interval as a title followed by one bullet per
// jot.
func PrintSet(out io.Writer, set model.JotSet) {
	fmt.Fprintf(out, "Jots: %s\n", set.Interval)
	if len(set.Jots) == 0 {
		fmt.Fprintf(out, "    %s\n", TextNoJots)
		return
	}
	for _, jot := range set.Jots {
		fmt.Fprintf(out, "- %s\n", jot)
	}
}

// PrintNumberedSet prints the set like PrintSet, but each jot is numbered
// by its 1-based position in the set, the numbering --index accepts. When
// states is non-empty only jots in those states are listed; their numbers
// still refer to positions in the whole set.
func PrintNumberedSet(out io.Writer, set model.JotSet, states []model.JotState) {
	fmt.Fprintf(out, "Jots: %s\n", set.Interval)
	printed := 0
	for i, jot := range set.Jots {
		if len(states) > 0 && !slices.Contains(states, jot.State) {
			continue
		}
		fmt.Fprintf(out, "%3d. %s\n", i+1, jot)
		printed++
	}
	if printed == 0 {
		fmt.Fprintf(out, "    %s\n", TextNoJots)
	}
}

// PrintIntervals prints one numbered line per interval, oldest first.
func PrintIntervals(out io.Writer, intervals []model.DateInterval) {
	for i, iv := range intervals {
		fmt.Fprintf(out, "%3d. %s\n", i+1, iv)
	}
}

// RenderSet returns the PrintSet output as a string.
func RenderSet(set model.JotSet) string {
	var b strings.Builder
	PrintSet(&b, set)
	return b.String()
}
