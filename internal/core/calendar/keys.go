// Package calendar turns instants into deterministic civil-day and month keys
// and resolves symbolic reporting windows.
//
// Keys are computed from a fixed UTC+3 offset (Iraq), never from the host
// time zone, so two processes bucket the same data identically.
package calendar

import (
	"sort"
	"time"
)

// CivilOffset is the fixed offset applied before reading calendar fields.
const CivilOffset = 3 * time.Hour

// UnknownKey is returned for zero instants. It never appears in enumerations.
const UnknownKey = "unknown"

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

func civil(t time.Time) time.Time {
	return t.UTC().Add(CivilOffset)
}

// DayKey returns "YYYY-MM-DD" for t in civil time.
func DayKey(t time.Time) string {
	if t.IsZero() {
		return UnknownKey
	}
	return civil(t).Format(dayLayout)
}

// MonthKey returns "YYYY-MM" for t in civil time.
func MonthKey(t time.Time) string {
	if t.IsZero() {
		return UnknownKey
	}
	return civil(t).Format(monthLayout)
}

// Today returns the civil day key of now.
func Today(now time.Time) string {
	return DayKey(now)
}

// IsSameDay reports whether both instants fall on the same civil day.
// Unknown instants are never on the same day as anything.
func IsSameDay(a, b time.Time) bool {
	ka := DayKey(a)
	return ka != UnknownKey && ka == DayKey(b)
}

// SortedKeys returns the keys of m without UnknownKey, ascending or descending.
// Day and month keys sort lexicographically in chronological order.
func SortedKeys[V any](m map[string]V, descending bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		if k == UnknownKey {
			continue
		}
		keys = append(keys, k)
	}
	if descending {
		sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	} else {
		sort.Strings(keys)
	}
	return keys
}
