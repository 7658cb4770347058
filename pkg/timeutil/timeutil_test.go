package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDay_ConvertsToSeoulFirst(t *testing.T) {
	// 2026-09-07 23:00 UTC is already 2026-09-08 08:00 in Seoul.
	utc := time.Date(2026, 9, 7, 23, 0, 0, 0, time.UTC)

	start := StartOfDay(utc)
	assert.Equal(t, 2026, start.Year())
	assert.Equal(t, time.September, start.Month())
	assert.Equal(t, 8, start.Day())
	assert.Equal(t, 0, start.Hour())
}

func TestSameDay_AcrossTimezones(t *testing.T) {
	// Both instants fall on 2026-09-08 Seoul time.
	a := time.Date(2026, 9, 7, 16, 0, 0, 0, time.UTC)
	b := Date(2026, 9, 8)
	assert.True(t, SameDay(a, b))

	c := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	assert.False(t, SameDay(b, c))
}

func TestIsWeekend(t *testing.T) {
	assert.False(t, IsWeekend(Date(2026, 9, 7)))  // Monday
	assert.True(t, IsWeekend(Date(2026, 9, 12)))  // Saturday
	assert.True(t, IsWeekend(Date(2026, 9, 13)))  // Sunday
	assert.False(t, IsWeekend(Date(2026, 9, 14))) // Monday

	// Friday 23:00 UTC is already Saturday morning in Seoul.
	fridayLateUTC := time.Date(2026, 9, 11, 23, 0, 0, 0, time.UTC)
	assert.True(t, IsWeekend(fridayLateUTC))
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2026-09-12")
	assert.NoError(t, err)
	assert.Equal(t, Date(2026, 9, 12), parsed)

	_, err = ParseDate("12.09.2026")
	assert.Error(t, err)

	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestFormatDate(t *testing.T) {
	// Formatting follows Seoul wall-clock, not the input location.
	utc := time.Date(2026, 9, 7, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-09-08", FormatDate(utc))
}

func TestEndOfDay(t *testing.T) {
	end := EndOfDay(Date(2026, 9, 7))
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Minute())
	assert.True(t, end.After(Date(2026, 9, 7)))
}

func TestDaysUntil(t *testing.T) {
	assert.Equal(t, 0, DaysUntil(Now()))
	assert.Equal(t, 1, DaysUntil(Tomorrow()))
	assert.Equal(t, -1, DaysUntil(Today().AddDate(0, 0, -1)))
}
