package model

import "fmt"

// DateInterval is the span of time a JotSet covers. It is either InProgress
// (open ended) or Complete (closed). No other implementations exist.
type DateInterval interface {
	// Contains reports whether d falls inside the interval.
	Contains(d Date) bool
	String() string

	dateInterval()
}

// InProgress is an open interval: it contains every date on or after Start.
type InProgress struct {
	Start Date
}

// Complete is a closed interval covering Start through End inclusive.
type Complete struct {
	Start Date
	End   Date
}

func (InProgress) dateInterval() {}
func (Complete) dateInterval()   {}

// Contains reports whether d is on or after the start date.
func (i InProgress) Contains(d Date) bool {
	return !d.Before(i.Start)
}

// Contains reports whether Start <= d <= End.
func (c Complete) Contains(d Date) bool {
	return !d.Before(c.Start) && !d.After(c.End)
}

func (i InProgress) String() string {
	return fmt.Sprintf("In Progress, start: %s", i.Start)
}

func (c Complete) String() string {
	return fmt.Sprintf("Complete, start: %s, end: %s", c.Start, c.End)
}

// StartOf returns the start date of any interval.
func StartOf(iv DateInterval) Date {
	switch v := iv.(type) {
	case InProgress:
		return v.Start
	case Complete:
		return v.Start
	default:
		panic(fmt.Sprintf("model: unknown interval type %T", iv))
	}
}

// LastDayOf returns the last date covered by iv. For an open interval this
// is its start date, the earliest point at which it may be closed.
func LastDayOf(iv DateInterval) Date {
	switch v := iv.(type) {
	case InProgress:
		return v.Start
	case Complete:
		return v.End
	default:
		panic(fmt.Sprintf("model: unknown interval type %T", iv))
	}
}

// Close turns an InProgress interval into a Complete one ending at end.
// A Complete interval is returned unchanged.
func Close(iv DateInterval, end Date) DateInterval {
	switch v := iv.(type) {
	case InProgress:
		return Complete{Start: v.Start, End: end}
	case Complete:
		return v
	default:
		panic(fmt.Sprintf("model: unknown interval type %T", iv))
	}
}

// IsOpen reports whether iv is InProgress.
func IsOpen(iv DateInterval) bool {
	_, ok := iv.(InProgress)
	return ok
}

func validateInterval(iv DateInterval) error {
	switch v := iv.(type) {
	case InProgress:
		if v.Start.IsZero() {
			return fmt.Errorf("%w: missing start date", ErrInvalidInterval)
		}
		return nil
	case Complete:
		if v.Start.IsZero() || v.End.IsZero() {
			return fmt.Errorf("%w: missing start or end date", ErrInvalidInterval)
		}
		if v.End.Before(v.Start) {
			return fmt.Errorf("%w: end %s is before start %s", ErrInvalidInterval, v.End, v.Start)
		}
		return nil
	case nil:
		return fmt.Errorf("%w: missing interval", ErrInvalidInterval)
	default:
		return fmt.Errorf("%w: unknown interval type %T", ErrInvalidInterval, iv)
	}
}
