package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/instructor"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/student"
)

// 2026-09-07 is a Monday, 2026-09-12 a Saturday.
var (
	monday   = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	saturday = time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
)

func TestMaxSlot(t *testing.T) {
	assert.Equal(t, shared.TimeSlot(3), MaxSlot(monday))
	assert.Equal(t, shared.TimeSlot(4), MaxSlot(saturday))
	assert.Equal(t, shared.TimeSlot(4), MaxSlot(saturday.AddDate(0, 0, 1))) // Sunday
}

func TestSlotsFor(t *testing.T) {
	assert.Equal(t, []shared.TimeSlot{1, 2, 3}, SlotsFor(monday))
	assert.Equal(t, []shared.TimeSlot{1, 2, 3, 4}, SlotsFor(saturday))
}

func TestCommonSubject_FirstMatchInInstructorOrder(t *testing.T) {
	inst := &instructor.Instructor{ID: 1, SubjectIDs: []int64{30, 10, 20}}
	std := &student.Student{ID: 1, SubjectIDs: []int64{20, 10}}

	// Both 10 and 20 are shared; the instructor's order decides.
	subjectID, ok := CommonSubject(inst, std)
	assert.True(t, ok)
	assert.Equal(t, int64(10), subjectID)
}

func TestCommonSubject_NoOverlap(t *testing.T) {
	inst := &instructor.Instructor{ID: 1, SubjectIDs: []int64{10}}
	std := &student.Student{ID: 1, SubjectIDs: []int64{20}}

	_, ok := CommonSubject(inst, std)
	assert.False(t, ok)
}

func TestEligible(t *testing.T) {
	inst := &instructor.Instructor{
		ID:             7,
		PreferredSlots: shared.SlotSet{1, 2},
		SubjectIDs:     []int64{10},
	}

	base := func() *student.Student {
		return &student.Student{
			ID:             1,
			PreferredSlots: shared.SlotSet{1, 2},
			SubjectIDs:     []int64{10},
		}
	}

	snap := NewSnapshot(nil)

	assert.True(t, Eligible(inst, base(), 1, snap))

	// Slot not wanted by the student.
	notWanted := base()
	notWanted.PreferredSlots = shared.SlotSet{2}
	assert.False(t, Eligible(inst, notWanted, 1, snap))

	// No shared subject.
	otherSubject := base()
	otherSubject.SubjectIDs = []int64{99}
	assert.False(t, Eligible(inst, otherSubject, 1, snap))

	// Avoid mark is absolute.
	avoider := base()
	avoider.Preferences = map[int64]student.PreferenceType{inst.ID: student.PreferenceAvoid}
	assert.False(t, Eligible(inst, avoider, 1, snap))

	// Preferred mark alone does not bypass the other checks.
	preferrer := base()
	preferrer.Preferences = map[int64]student.PreferenceType{inst.ID: student.PreferencePreferred}
	preferrer.SubjectIDs = []int64{99}
	assert.False(t, Eligible(inst, preferrer, 1, snap))
}

func TestEligible_BusyStudent(t *testing.T) {
	inst := &instructor.Instructor{ID: 7, PreferredSlots: shared.SlotSet{1}, SubjectIDs: []int64{10}}
	std := &student.Student{ID: 1, PreferredSlots: shared.SlotSet{1}, SubjectIDs: []int64{10}}

	snap := NewSnapshot(nil)
	assert.True(t, Eligible(inst, std, 1, snap))

	taken := sessionWith(monday, 1, 99, 10, []int64{1})
	snap.Append(taken)

	assert.False(t, Eligible(inst, std, 1, snap))
	// Busy in slot 1 only.
	std.PreferredSlots = shared.SlotSet{1, 2}
	assert.True(t, Eligible(inst, std, 2, snap))
}

func TestEligibleStudents_PreservesPoolOrder(t *testing.T) {
	inst := &instructor.Instructor{ID: 7, PreferredSlots: shared.SlotSet{1}, SubjectIDs: []int64{10}}
	pool := []*student.Student{
		{ID: 3, PreferredSlots: shared.SlotSet{1}, SubjectIDs: []int64{10}},
		{ID: 1, PreferredSlots: shared.SlotSet{2}, SubjectIDs: []int64{10}}, // wrong slot
		{ID: 2, PreferredSlots: shared.SlotSet{1}, SubjectIDs: []int64{10}},
	}

	out := EligibleStudents(inst, 1, pool, NewSnapshot(nil))
	assert.Equal(t, []int64{3, 2}, studentIDs(out))
}

func TestRankByPreference_PreferredFirstStableWithinClass(t *testing.T) {
	prefer := map[int64]student.PreferenceType{7: student.PreferencePreferred}
	candidates := []*student.Student{
		{ID: 1},
		{ID: 2, Preferences: prefer},
		{ID: 3},
		{ID: 4, Preferences: prefer},
	}

	ranked := RankByPreference(candidates, 7)
	assert.Equal(t, []int64{2, 4, 1, 3}, studentIDs(ranked))

	// Input slice is not reordered.
	assert.Equal(t, []int64{1, 2, 3, 4}, studentIDs(candidates))
}

func TestRankByPreference_AllNeutralKeepsOrder(t *testing.T) {
	candidates := []*student.Student{{ID: 5}, {ID: 2}, {ID: 9}}
	ranked := RankByPreference(candidates, 7)
	assert.Equal(t, []int64{5, 2, 9}, studentIDs(ranked))
}

func studentIDs(students []*student.Student) []int64 {
	ids := make([]int64, len(students))
	for i, s := range students {
		ids[i] = s.ID
	}
	return ids
}
