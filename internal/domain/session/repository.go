package session

import (
	"context"
	"time"

	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"
)

// Repository defines read operations over committed sessions.
type Repository interface {
	// ListByDate returns all sessions for a calendar date, ordered by
	// time slot, with rosters populated.
	ListByDate(ctx context.Context, date time.Time) ([]*Session, error)

	// InstructorBusyAt reports whether the instructor already holds a
	// session at (date, slot).
	InstructorBusyAt(ctx context.Context, date time.Time, slot shared.TimeSlot, instructorID int64) (bool, error)

	// StudentBusyAt reports whether the student is already enrolled in a
	// session at (date, slot).
	StudentBusyAt(ctx context.Context, date time.Time, slot shared.TimeSlot, studentID int64) (bool, error)
}

// TxStore is the write surface available inside one atomic unit.
// All writes of a scheduling operation go through a single TxStore so
// that either every row lands or none does.
type TxStore interface {
	// InsertSession inserts the session row and sets s.ID.
	InsertSession(ctx context.Context, s *Session) error

	// InsertEnrollment inserts one enrollment row for the session.
	InsertEnrollment(ctx context.Context, s *Session, studentID int64) error

	// StudentBusyAt reports whether the student is already enrolled at
	// (date, slot), observing writes made earlier in the same unit.
	StudentBusyAt(ctx context.Context, date time.Time, slot shared.TimeSlot, studentID int64) (bool, error)
}

// UnitOfWork runs a function inside one atomic unit with explicit
// commit/rollback semantics: the unit commits when fn returns nil and
// rolls back every write otherwise.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx TxStore) error) error
}
