// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════
// Time Slot Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// TimeSlot represents one bookable period within a day, identified by a small
// positive integer. Its real-world clock meaning is owned by the academy.
type TimeSlot int

// Slot range limits. Weekend days open one extra evening slot.
const (
	FirstSlot      TimeSlot = 1
	MaxWeekdaySlot TimeSlot = 3
	MaxWeekendSlot TimeSlot = 4
)

// IsValid checks that the slot falls within the widest possible range.
func (s TimeSlot) IsValid() bool {
	return s >= FirstSlot && s <= MaxWeekendSlot
}

// Int returns the underlying int value.
func (s TimeSlot) Int() int {
	return int(s)
}

// String returns the decimal representation.
func (s TimeSlot) String() string {
	return strconv.Itoa(int(s))
}

// SlotSet is a set of time slots an instructor or student is available for.
// The canonical storage format is CSV text ("1,2,3"), inherited from the
// reference data schema.
type SlotSet []TimeSlot

// Contains reports whether the set includes the given slot.
func (set SlotSet) Contains(slot TimeSlot) bool {
	for _, s := range set {
		if s == slot {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the set has no slots.
func (set SlotSet) IsEmpty() bool {
	return len(set) == 0
}

// Normalize returns a sorted copy with duplicates and invalid slots removed.
func (set SlotSet) Normalize() SlotSet {
	seen := make(map[TimeSlot]struct{}, len(set))
	out := make(SlotSet, 0, len(set))
	for _, s := range set {
		if !s.IsValid() {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// String renders the set in its canonical CSV form.
func (set SlotSet) String() string {
	parts := make([]string, len(set))
	for i, s := range set {
		parts[i] = s.String()
	}
	return strings.Join(parts, ",")
}

// ParseSlotSet parses the CSV storage format ("1,2,3") into a SlotSet.
// Blank input yields an empty set; malformed or out-of-range entries are
// skipped, mirroring the tolerant parsing of the reference schema.
func ParseSlotSet(csv string) SlotSet {
	csv = strings.TrimSpace(csv)
	if csv == "" {
		return SlotSet{}
	}
	var set SlotSet
	for _, part := range strings.Split(csv, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		slot := TimeSlot(n)
		if !slot.IsValid() {
			continue
		}
		set = append(set, slot)
	}
	return set.Normalize()
}

// ═══════════════════════════════════════════════════════════════════════════
// Date Handling
// ═══════════════════════════════════════════════════════════════════════════

// NormalizeDate truncates a timestamp to day granularity (midnight UTC).
// Sessions are keyed by calendar date; time-of-day is ignored everywhere.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether two timestamps fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
