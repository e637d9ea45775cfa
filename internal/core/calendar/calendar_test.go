package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayKey_UsesCivilOffset(t *testing.T) {
	// 22:30 UTC is already the next day in Baghdad.
	late := time.Date(2024, 3, 10, 22, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-11", DayKey(late))
	assert.Equal(t, "2024-03", MonthKey(late))

	early := time.Date(2024, 3, 10, 20, 59, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-10", DayKey(early))
}

func TestDayKey_IgnoresInputLocation(t *testing.T) {
	instant := time.Date(2024, 12, 31, 21, 15, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*3600)
	ny := time.FixedZone("EST", -5*3600)

	assert.Equal(t, DayKey(instant), DayKey(instant.In(tokyo)))
	assert.Equal(t, DayKey(instant), DayKey(instant.In(ny)))
	assert.Equal(t, "2025-01-01", DayKey(instant))
	assert.Equal(t, "2025-01", MonthKey(instant.In(ny)))
}

func TestKeys_ZeroTimeIsUnknown(t *testing.T) {
	assert.Equal(t, UnknownKey, DayKey(time.Time{}))
	assert.Equal(t, UnknownKey, MonthKey(time.Time{}))
	assert.False(t, IsSameDay(time.Time{}, time.Time{}))
}

func TestIsSameDay_UsesCivilOffset(t *testing.T) {
	lateUTC := time.Date(2025, 3, 9, 21, 30, 0, 0, time.UTC) // 00:30 on the 10th at UTC+3
	nextMorning := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	sameUTCDay := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)

	assert.True(t, IsSameDay(lateUTC, nextMorning))
	assert.False(t, IsSameDay(lateUTC, sameUTCDay))
}

func TestSortedKeys_DropsUnknown(t *testing.T) {
	m := map[string]int{"2024-01-02": 1, UnknownKey: 2, "2023-12-31": 3, "2024-01-10": 4}

	assert.Equal(t, []string{"2024-01-10", "2024-01-02", "2023-12-31"}, SortedKeys(m, true))
	assert.Equal(t, []string{"2023-12-31", "2024-01-02", "2024-01-10"}, SortedKeys(m, false))
}

func TestLowerBound(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		token string
		want  *time.Time
	}{
		{"all", "all", nil},
		{"unknown token", "fortnight", nil},
		{"empty", "", nil},
		{"week", "week", ptr(time.Date(2024, 3, 24, 12, 0, 0, 0, time.UTC))},
		// Feb 31 normalises to Mar 2 in a leap year.
		{"month", "month", ptr(time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC))},
		{"quarter", "quarter", ptr(time.Date(2023, 12, 31, 12, 0, 0, 0, time.UTC))},
		{"year", "year", ptr(time.Date(2023, 3, 31, 12, 0, 0, 0, time.UTC))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LowerBound(ParseRange(tt.token), now)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestInRange(t *testing.T) {
	bound := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, InRange(bound, &bound), "bound is inclusive")
	assert.False(t, InRange(bound.Add(-time.Second), &bound))
	assert.False(t, InRange(time.Time{}, &bound))
	assert.True(t, InRange(time.Time{}, nil))
}

func ptr(t time.Time) *time.Time { return &t }
