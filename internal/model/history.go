package model

import "fmt"

// JotHistory is the full timeline of jot sets, oldest first. The current
// set is held apart from the archived ones so a history can never be empty.
// Only the current set may have an open interval.
type JotHistory struct {
	archived []JotSet
	current  JotSet
}

// NewHistory returns a history holding one empty set that started today.
func NewHistory(today Date) *JotHistory {
	return &JotHistory{current: NewJotSet(InProgress{Start: today})}
}

// FromSets builds a history from sets in stored order. The last set becomes
// the current one. The result is validated.
func FromSets(sets []JotSet) (*JotHistory, error) {
	if len(sets) == 0 {
		return nil, ErrEmptyHistory
	}
	h := &JotHistory{current: sets[len(sets)-1].Clone()}
	for _, s := range sets[:len(sets)-1] {
		h.archived = append(h.archived, s.Clone())
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// Validate checks the structural invariants: every archived set is
// Complete, no Complete interval ends before it starts, and no set starts
// before the previous set's last day. Sets may share a boundary day, which
// is what Roll produces.
func (h *JotHistory) Validate() error {
	for i, s := range h.archived {
		if IsOpen(s.Interval) {
			return fmt.Errorf("%w: archived set %d is still in progress", ErrInvalidInterval, i)
		}
	}
	var prevEnd Date
	for i, s := range h.sets() {
		if err := validateInterval(s.Interval); err != nil {
			return fmt.Errorf("set %d: %w", i, err)
		}
		for j, jot := range s.Jots {
			if !jot.State.Valid() {
				return fmt.Errorf("set %d jot %d: %w: %q", i, j, ErrUnknownState, string(jot.State))
			}
		}
		start := StartOf(s.Interval)
		if i > 0 && start.Before(prevEnd) {
			return fmt.Errorf("%w: set %d starts %s, before previous set ends %s", ErrOutOfOrder, i, start, prevEnd)
		}
		prevEnd = LastDayOf(s.Interval)
	}
	return nil
}

// Len returns the number of sets, including the current one.
func (h *JotHistory) Len() int { return len(h.archived) + 1 }

// Current returns a copy of the current (last) set.
func (h *JotHistory) Current() JotSet { return h.current.Clone() }

// Sets returns copies of every set in stored order.
func (h *JotHistory) Sets() []JotSet {
	sets := make([]JotSet, 0, h.Len())
	for _, s := range h.sets() {
		sets = append(sets, s.Clone())
	}
	return sets
}

// Set returns a copy of the set at index i in stored order.
func (h *JotHistory) Set(i int) (JotSet, error) {
	if i < 0 || i >= h.Len() {
		return JotSet{}, fmt.Errorf("%w: set %d of %d", ErrIndexOutOfRange, i, h.Len())
	}
	if i == len(h.archived) {
		return h.Current(), nil
	}
	return h.archived[i].Clone(), nil
}

// FindByDate returns the first set, in stored order, whose interval
// contains d.
func (h *JotHistory) FindByDate(d Date) (JotSet, bool) {
	for _, s := range h.sets() {
		if s.Interval.Contains(d) {
			return s.Clone(), true
		}
	}
	return JotSet{}, false
}

// DateIntervals returns the interval of each set in stored order.
func (h *JotHistory) DateIntervals() []DateInterval {
	intervals := make([]DateInterval, 0, h.Len())
	for _, s := range h.sets() {
		intervals = append(intervals, s.Interval)
	}
	return intervals
}

// Insert appends j to the current set.
func (h *JotHistory) Insert(j Jot) {
	h.current.Jots = append(h.current.Jots, j)
}

// ReplaceJot overwrites the jot at index in the current set.
func (h *JotHistory) ReplaceJot(j Jot, index int) error {
	if index < 0 || index >= len(h.current.Jots) {
		return fmt.Errorf("%w: jot %d of %d", ErrIndexOutOfRange, index, len(h.current.Jots))
	}
	h.current.Jots[index] = j
	return nil
}

// UpdateJot replaces the first jot in the current set equal to selected.
// Duplicate jots are indistinguishable, so the earliest one is the target.
func (h *JotHistory) UpdateJot(selected, replacement Jot) (int, error) {
	index := h.current.IndexOf(selected)
	if index < 0 {
		return -1, fmt.Errorf("%w: %s", ErrJotNotFound, selected)
	}
	return index, h.ReplaceJot(replacement, index)
}

// ReplaceCurrentSet swaps out the whole current set. The new set may not
// start before the last archived set ends.
func (h *JotHistory) ReplaceCurrentSet(s JotSet) error {
	if err := validateInterval(s.Interval); err != nil {
		return err
	}
	if n := len(h.archived); n > 0 {
		lastEnd := LastDayOf(h.archived[n-1].Interval)
		if StartOf(s.Interval).Before(lastEnd) {
			return fmt.Errorf("%w: set starts %s, before previous set ends %s", ErrOutOfOrder, StartOf(s.Interval), lastEnd)
		}
	}
	h.current = s.Clone()
	return nil
}

// Roll closes the current set on today and opens a new current set starting
// today. Non-terminal jots move forward unchanged; terminal jots stay in the
// closed set. The history grows by exactly one set.
//
// A current set that is already Complete, or a today earlier than the
// current start, is refused and leaves the history untouched.
func (h *JotHistory) Roll(today Date) error {
	open, ok := h.current.Interval.(InProgress)
	if !ok {
		return fmt.Errorf("%w: %s", ErrCurrentSetClosed, h.current.Interval)
	}
	if today.Before(open.Start) {
		return fmt.Errorf("%w: cannot roll on %s, current set started %s", ErrOutOfOrder, today, open.Start)
	}

	rolled := h.current.NonTerminalJots()
	closed := h.current
	closed.Interval = Close(closed.Interval, today)

	h.archived = append(h.archived, closed)
	h.current = JotSet{Jots: rolled, Interval: InProgress{Start: today}}
	return nil
}

// sets returns the backing sets in stored order without copying jots.
func (h *JotHistory) sets() []JotSet {
	all := make([]JotSet, 0, h.Len())
	all = append(all, h.archived...)
	return append(all, h.current)
}
