package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseSlotSet(t *testing.T) {
	assert.Equal(t, SlotSet{1, 2, 3}, ParseSlotSet("1,2,3"))
	assert.Equal(t, SlotSet{1, 4}, ParseSlotSet(" 4 , 1 "))
	assert.Equal(t, SlotSet{}, ParseSlotSet(""))
	assert.Equal(t, SlotSet{}, ParseSlotSet("   "))

	// Malformed and out-of-range entries are skipped, not fatal.
	assert.Equal(t, SlotSet{2}, ParseSlotSet("0,2,5,abc"))
}

func TestSlotSet_Normalize(t *testing.T) {
	set := SlotSet{3, 1, 3, 2, 0, 9}
	assert.Equal(t, SlotSet{1, 2, 3}, set.Normalize())

	// Original is untouched.
	assert.Equal(t, SlotSet{3, 1, 3, 2, 0, 9}, set)
}

func TestSlotSet_Contains(t *testing.T) {
	set := SlotSet{1, 3}
	assert.True(t, set.Contains(1))
	assert.True(t, set.Contains(3))
	assert.False(t, set.Contains(2))
	assert.False(t, SlotSet{}.Contains(1))
}

func TestSlotSet_String(t *testing.T) {
	assert.Equal(t, "1,2,4", SlotSet{1, 2, 4}.String())
	assert.Equal(t, "", SlotSet{}.String())
}

func TestTimeSlot_IsValid(t *testing.T) {
	assert.False(t, TimeSlot(0).IsValid())
	assert.True(t, TimeSlot(1).IsValid())
	assert.True(t, TimeSlot(4).IsValid())
	assert.False(t, TimeSlot(5).IsValid())
}

func TestNormalizeDate(t *testing.T) {
	loc := time.FixedZone("KST", 9*60*60)
	ts := time.Date(2026, 3, 14, 15, 9, 26, 535, loc)

	normalized := NormalizeDate(ts)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), normalized)
	assert.Equal(t, normalized, NormalizeDate(normalized))
}

func TestSameDate(t *testing.T) {
	a := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	b := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)
	c := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDate(a, b))
	assert.False(t, SameDate(a, c))
}
