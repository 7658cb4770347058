package schedule

import (
	"sort"
	"time"

	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/instructor"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// SLOT RANGES
// ══════════════════════════════════════════════════════════════════════════════

// IsWeekend reports whether the date falls on Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// MaxSlot returns the last bookable slot for the date.
// Weekend days open slot 4; weekdays stop at slot 3. This is a fixed
// business rule of the academy, not configuration.
func MaxSlot(date time.Time) shared.TimeSlot {
	if IsWeekend(date) {
		return shared.MaxWeekendSlot
	}
	return shared.MaxWeekdaySlot
}

// SlotsFor returns the bookable slots for the date in ascending order.
func SlotsFor(date time.Time) []shared.TimeSlot {
	max := MaxSlot(date)
	slots := make([]shared.TimeSlot, 0, max)
	for s := shared.FirstSlot; s <= max; s++ {
		slots = append(slots, s)
	}
	return slots
}

// ══════════════════════════════════════════════════════════════════════════════
// ELIGIBILITY PREDICATES
// ══════════════════════════════════════════════════════════════════════════════

// CommonSubject returns the first subject the instructor and the student
// share, scanning the instructor's subjects in load order. The order
// dependence is deliberate: the session subject is always the first match
// for the top-ranked candidate.
func CommonSubject(inst *instructor.Instructor, std *student.Student) (int64, bool) {
	for _, subjectID := range inst.SubjectIDs {
		if std.Studies(subjectID) {
			return subjectID, true
		}
	}
	return 0, false
}

// Eligible reports whether one student can join a session of the given
// instructor in the given slot, against the current snapshot:
// the student must be free in the slot, want the slot, share a subject
// with the instructor, and must not hold an Avoid entry for them.
func Eligible(inst *instructor.Instructor, std *student.Student, slot shared.TimeSlot, snap *Snapshot) bool {
	if snap.StudentBusy(slot, std.ID) {
		return false
	}
	if !std.WantsSlot(slot) {
		return false
	}
	if _, ok := CommonSubject(inst, std); !ok {
		return false
	}
	if std.Avoids(inst.ID) {
		return false
	}
	return true
}

// EligibleStudents filters the student pool down to candidates eligible
// for (instructor, slot), preserving pool order.
func EligibleStudents(inst *instructor.Instructor, slot shared.TimeSlot, pool []*student.Student, snap *Snapshot) []*student.Student {
	var out []*student.Student
	for _, std := range pool {
		if Eligible(inst, std, slot, snap) {
			out = append(out, std)
		}
	}
	return out
}

// RankByPreference orders candidates so that students holding a Preferred
// entry for the instructor come first. The sort is stable: within each
// preference class original load order is retained, which makes the
// selection reproducible.
func RankByPreference(candidates []*student.Student, instructorID int64) []*student.Student {
	ranked := make([]*student.Student, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Prefers(instructorID) && !ranked[j].Prefers(instructorID)
	})
	return ranked
}
