// Package command contains write operations (CQRS - Commands).
// Commands are the only way new lesson sessions and reference data enter
// the system; every command runs to completion inside one atomic unit.
package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/instructor"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/schedule"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/session"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE SESSION COMMAND
// Validates and commits one manually proposed session: instructor, subject,
// date, slot and an explicit student list. Business rejections are ordinary
// result values; only storage failures surface as errors.
// ══════════════════════════════════════════════════════════════════════════════

// User-facing rejection reasons for manual session creation.
const (
	ReasonInstructorNotFound = "instructor not found"
	ReasonSlotNotPreferred   = "not the instructor's preferred time slot"
	ReasonInstructorBusy     = "instructor already has a session at this time"
	ReasonTooManyStudents    = "a session can hold at most 3 students"
)

// CreateSessionCommand describes one proposed session.
type CreateSessionCommand struct {
	// Date is the calendar date of the session; time-of-day is ignored.
	Date time.Time

	// Slot is the time slot within the day.
	Slot shared.TimeSlot

	// InstructorID identifies the instructor.
	InstructorID int64

	// SubjectID identifies the subject of the session.
	SubjectID int64

	// StudentIDs is the proposed roster (0..3 students; zero is legal).
	StudentIDs []int64

	// CorrelationID for tracing across services.
	CorrelationID string
}

// Validate checks the structural sanity of the command. Business rules are
// checked by the handler and reported through the result, not here.
func (c CreateSessionCommand) Validate() error {
	if c.Date.IsZero() {
		return fmt.Errorf("create_session: %w", shared.ErrInvalidDate)
	}
	if !c.Slot.IsValid() {
		return fmt.Errorf("create_session: %w", shared.ErrInvalidSlot)
	}
	if c.InstructorID <= 0 {
		return fmt.Errorf("create_session: instructor id: %w", shared.ErrInvalidInput)
	}
	if c.SubjectID <= 0 {
		return fmt.Errorf("create_session: subject id: %w", shared.ErrInvalidInput)
	}
	return nil
}

// CreateSessionResult reports the outcome of one proposal.
type CreateSessionResult struct {
	// OK is true when the session was committed.
	OK bool

	// Message is the user-facing outcome: a rejection reason or a
	// success confirmation.
	Message string

	// SessionID is the generated session ID when OK.
	SessionID int64
}

func reject(message string) *CreateSessionResult {
	return &CreateSessionResult{OK: false, Message: message}
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// CreateSessionConfig contains configuration for the handler.
type CreateSessionConfig struct {
	// StrictValidation additionally enforces subject compatibility and
	// Avoid preferences on the manual path. Off by default: historically
	// only the auto-assignment engine enforced those rules, and the flag
	// keeps that behavior switchable rather than silently unified.
	StrictValidation bool
}

// CreateSessionHandler handles CreateSessionCommand.
type CreateSessionHandler struct {
	instructors instructor.Repository
	students    student.Repository
	sessions    session.Repository
	uow         session.UnitOfWork
	publisher   shared.EventPublisher
	cfg         CreateSessionConfig
}

// NewCreateSessionHandler creates a new CreateSessionHandler.
func NewCreateSessionHandler(
	instructors instructor.Repository,
	students student.Repository,
	sessions session.Repository,
	uow session.UnitOfWork,
	publisher shared.EventPublisher,
	cfg CreateSessionConfig,
) *CreateSessionHandler {
	return &CreateSessionHandler{
		instructors: instructors,
		students:    students,
		sessions:    sessions,
		uow:         uow,
		publisher:   publisher,
		cfg:         cfg,
	}
}

// errStudentBusy aborts the atomic unit when a proposed student turns out
// to be enrolled elsewhere at the same (date, slot).
type errStudentBusy struct {
	studentID int64
}

func (e *errStudentBusy) Error() string {
	return fmt.Sprintf("student %d already has a session at this time", e.studentID)
}

// errDuplicateStudent aborts the atomic unit when a student is listed twice.
type errDuplicateStudent struct {
	studentID int64
}

func (e *errDuplicateStudent) Error() string {
	return fmt.Sprintf("student %d is listed more than once", e.studentID)
}

// Handle validates the proposal in order and commits it atomically.
// Preconditions 1-4 fail fast before any write; the per-student time
// conflict check runs inside the transaction so a mid-roster conflict
// rolls back the already inserted session row.
func (h *CreateSessionHandler) Handle(ctx context.Context, cmd CreateSessionCommand) (*CreateSessionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	date := shared.NormalizeDate(cmd.Date)

	// 1. Instructor must exist.
	inst, err := h.instructors.GetByID(ctx, cmd.InstructorID)
	if err != nil {
		if errors.Is(err, instructor.ErrInstructorNotFound) {
			return reject(ReasonInstructorNotFound), nil
		}
		return nil, fmt.Errorf("create_session: load instructor: %w", err)
	}

	// 2. Slot must be one of the instructor's preferred slots.
	if !inst.WantsSlot(cmd.Slot) {
		return reject(ReasonSlotNotPreferred), nil
	}

	// 3. Instructor must be free at (date, slot).
	busy, err := h.sessions.InstructorBusyAt(ctx, date, cmd.Slot, inst.ID)
	if err != nil {
		return nil, fmt.Errorf("create_session: instructor busy check: %w", err)
	}
	if busy {
		return reject(ReasonInstructorBusy), nil
	}

	// 4. Roster cap. No lower bound: an empty session is legal.
	if len(cmd.StudentIDs) > session.MaxRosterSize {
		return reject(ReasonTooManyStudents), nil
	}

	// Optional strict checks (subject overlap, Avoid preference).
	if h.cfg.StrictValidation {
		if res, err := h.checkStrict(ctx, inst, cmd.StudentIDs); err != nil || res != nil {
			return res, err
		}
	}

	// 5. Commit session + enrollments as one atomic unit. Students are
	// re-checked for conflicts inside the transaction; the first conflict
	// abandons the whole unit.
	sess := session.New(date, cmd.Slot, inst.ID, cmd.SubjectID)
	err = h.uow.WithinTx(ctx, func(ctx context.Context, tx session.TxStore) error {
		if err := tx.InsertSession(ctx, sess); err != nil {
			return err
		}
		for _, studentID := range cmd.StudentIDs {
			busy, err := tx.StudentBusyAt(ctx, date, cmd.Slot, studentID)
			if err != nil {
				return err
			}
			if busy {
				return &errStudentBusy{studentID: studentID}
			}
			if err := sess.Enroll(studentID); err != nil {
				return &errDuplicateStudent{studentID: studentID}
			}
			if err := tx.InsertEnrollment(ctx, sess, studentID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var busyErr *errStudentBusy
		if errors.As(err, &busyErr) {
			return reject(busyErr.Error()), nil
		}
		var dupErr *errDuplicateStudent
		if errors.As(err, &dupErr) {
			return reject(dupErr.Error()), nil
		}
		return nil, fmt.Errorf("create_session: commit: %w", err)
	}

	h.publish(sess, cmd.CorrelationID)

	return &CreateSessionResult{
		OK:        true,
		Message:   "session scheduled",
		SessionID: sess.ID,
	}, nil
}

// checkStrict enforces invariants 5 and 6 on the manual path.
// Returns a rejection result, an error, or (nil, nil) to proceed.
func (h *CreateSessionHandler) checkStrict(ctx context.Context, inst *instructor.Instructor, studentIDs []int64) (*CreateSessionResult, error) {
	for _, studentID := range studentIDs {
		std, err := h.students.GetByID(ctx, studentID)
		if err != nil {
			if errors.Is(err, student.ErrStudentNotFound) {
				return reject(fmt.Sprintf("student %d not found", studentID)), nil
			}
			return nil, fmt.Errorf("create_session: load student: %w", err)
		}
		if std.Avoids(inst.ID) {
			return reject(fmt.Sprintf("student %d avoids this instructor", studentID)), nil
		}
		if _, ok := schedule.CommonSubject(inst, std); !ok {
			return reject(fmt.Sprintf("student %d does not share a subject with the instructor", studentID)), nil
		}
	}
	return nil, nil
}

func (h *CreateSessionHandler) publish(sess *session.Session, correlationID string) {
	if h.publisher == nil {
		return
	}
	event := shared.NewSessionScheduledEvent(sess.ID, sess.Date, sess.Slot, sess.InstructorID, sess.SubjectID, sess.StudentIDs, false)
	if correlationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(correlationID)
	}
	// Event delivery is best-effort; the session is already committed.
	_ = h.publisher.Publish(event)
}
