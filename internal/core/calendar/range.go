package calendar

import "time"

// Range is a symbolic reporting window token.
type Range string

const (
	RangeAll     Range = "all"
	RangeWeek    Range = "week"
	RangeMonth   Range = "month"
	RangeQuarter Range = "quarter"
	RangeYear    Range = "year"
)

// ParseRange normalises a token. Unknown or empty tokens become RangeAll.
func ParseRange(s string) Range {
	switch r := Range(s); r {
	case RangeWeek, RangeMonth, RangeQuarter, RangeYear:
		return r
	default:
		return RangeAll
	}
}

// LowerBound returns the inclusive lower bound for the window ending at now,
// or nil when the window is unbounded. Month and year steps are calendar-aware.
func LowerBound(r Range, now time.Time) *time.Time {
	var from time.Time
	switch r {
	case RangeWeek:
		from = now.AddDate(0, 0, -7)
	case RangeMonth:
		from = now.AddDate(0, -1, 0)
	case RangeQuarter:
		from = now.AddDate(0, -3, 0)
	case RangeYear:
		from = now.AddDate(-1, 0, 0)
	default:
		return nil
	}
	return &from
}

// InRange reports whether t is on or after the bound. A nil bound admits everything,
// a zero t is admitted only by a nil bound.
func InRange(t time.Time, bound *time.Time) bool {
	if bound == nil {
		return true
	}
	if t.IsZero() {
		return false
	}
	return !t.Before(*bound)
}
