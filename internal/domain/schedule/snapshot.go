// Package schedule реализует ядро планирования: рабочий снимок занятости
// дня и предикаты отбора учеников. Пакет не обращается к хранилищу -
// он работает над уже загруженными справочными данными, поэтому обе
// операции планирования детерминированы и тестируются в памяти.
package schedule

import (
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/session"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"
)

// busyKey indexes occupancy by (slot, entity id) within one date.
type busyKey struct {
	slot shared.TimeSlot
	id   int64
}

// Snapshot is the in-memory working copy of one date's sessions.
// The auto-assignment engine seeds it with the sessions already committed
// for the date and appends every session it creates, so no instructor or
// student can be double-booked against a session the same run just made.
type Snapshot struct {
	sessions       []*session.Session
	instructorBusy map[busyKey]struct{}
	studentBusy    map[busyKey]struct{}
}

// NewSnapshot builds a snapshot from the sessions already existing for a date.
func NewSnapshot(existing []*session.Session) *Snapshot {
	snap := &Snapshot{
		sessions:       make([]*session.Session, 0, len(existing)),
		instructorBusy: make(map[busyKey]struct{}),
		studentBusy:    make(map[busyKey]struct{}),
	}
	for _, s := range existing {
		snap.Append(s)
	}
	return snap
}

// Append records a session in the working snapshot, marking its instructor
// and every enrolled student as busy in the session's slot.
func (snap *Snapshot) Append(s *session.Session) {
	snap.sessions = append(snap.sessions, s)
	snap.instructorBusy[busyKey{slot: s.Slot, id: s.InstructorID}] = struct{}{}
	for _, studentID := range s.StudentIDs {
		snap.studentBusy[busyKey{slot: s.Slot, id: studentID}] = struct{}{}
	}
}

// InstructorBusy reports whether the instructor holds a session in the slot.
func (snap *Snapshot) InstructorBusy(slot shared.TimeSlot, instructorID int64) bool {
	_, ok := snap.instructorBusy[busyKey{slot: slot, id: instructorID}]
	return ok
}

// StudentBusy reports whether the student is enrolled in a session in the slot.
func (snap *Snapshot) StudentBusy(slot shared.TimeSlot, studentID int64) bool {
	_, ok := snap.studentBusy[busyKey{slot: slot, id: studentID}]
	return ok
}

// Sessions returns all sessions in the snapshot, existing and appended.
func (snap *Snapshot) Sessions() []*session.Session {
	return snap.sessions
}

// Len returns the number of sessions in the snapshot.
func (snap *Snapshot) Len() int {
	return len(snap.sessions)
}
