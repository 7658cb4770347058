// Package timeutil provides timezone utilities for Seoul timezone (UTC+9).
// The academy operates in Korea, so "today" and weekend detection must follow
// Seoul wall-clock time regardless of where the server runs.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// SeoulTZ is the Seoul timezone (UTC+9, no DST).
// South Korea has not observed DST since 1988, so this is constant year-round.
var SeoulTZ = time.FixedZone("Asia/Seoul", 9*60*60)

// DateLayout is the canonical date format used across the scheduler.
const DateLayout = "2006-01-02"

// Now returns the current time in Seoul timezone.
func Now() time.Time {
	return time.Now().In(SeoulTZ)
}

// ToSeoul converts a time to Seoul timezone.
func ToSeoul(t time.Time) time.Time {
	return t.In(SeoulTZ)
}

// ToUTC converts a time to UTC.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// Date creates a time in Seoul timezone with the given date.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, SeoulTZ)
}

// DateTime creates a time in Seoul timezone with the given date and time.
func DateTime(year, month, day, hour, min, sec int) time.Time {
	return time.Date(year, time.Month(month), day, hour, min, sec, 0, SeoulTZ)
}

// Today returns the start of today in Seoul timezone.
func Today() time.Time {
	return StartOfDay(Now())
}

// Tomorrow returns the start of tomorrow in Seoul timezone.
func Tomorrow() time.Time {
	return Today().AddDate(0, 0, 1)
}

// StartOfDay returns the start of the day (00:00:00) in Seoul timezone.
func StartOfDay(t time.Time) time.Time {
	seoul := ToSeoul(t)
	return time.Date(seoul.Year(), seoul.Month(), seoul.Day(), 0, 0, 0, 0, SeoulTZ)
}

// EndOfDay returns the end of the day (23:59:59.999999999) in Seoul timezone.
func EndOfDay(t time.Time) time.Time {
	seoul := ToSeoul(t)
	return time.Date(seoul.Year(), seoul.Month(), seoul.Day(), 23, 59, 59, 999999999, SeoulTZ)
}

// SameDay checks if two times fall on the same calendar day in Seoul timezone.
func SameDay(a, b time.Time) bool {
	sa, sb := ToSeoul(a), ToSeoul(b)
	return sa.Year() == sb.Year() && sa.Month() == sb.Month() && sa.Day() == sb.Day()
}

// IsToday checks if the given time is today in Seoul timezone.
func IsToday(t time.Time) bool {
	return SameDay(t, Now())
}

// IsWeekend checks if the given time falls on Saturday or Sunday in Seoul
// timezone. Weekends carry an extra afternoon lesson slot.
func IsWeekend(t time.Time) bool {
	wd := ToSeoul(t).Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ParseDate parses a date string in the canonical layout into the start of
// that day in Seoul timezone.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, SeoulTZ)
	if err != nil {
		return time.Time{}, fmt.Errorf("timeutil: parse date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate formats a time as a canonical date string in Seoul timezone.
func FormatDate(t time.Time) string {
	return ToSeoul(t).Format(DateLayout)
}

// DaysUntil calculates the number of whole days from today until the given
// time in Seoul timezone. Negative for past dates.
func DaysUntil(t time.Time) int {
	today := Today()
	then := StartOfDay(t)
	return int(then.Sub(today).Hours() / 24)
}
