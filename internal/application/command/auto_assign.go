package command

import (
	"context"
	"fmt"
	"time"

	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/instructor"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/schedule"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/session"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUTO ASSIGN COMMAND
// Greedily fills every time slot of one date: for each (slot, instructor)
// pair it selects up to three eligible students, ranked Preferred-first,
// and commits a session. One pass, no backtracking, no rebalancing.
// ══════════════════════════════════════════════════════════════════════════════

// AutoAssignCommand triggers auto-assignment for one calendar date.
type AutoAssignCommand struct {
	// Date is the target calendar date; time-of-day is ignored.
	Date time.Time

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate checks the structural sanity of the command.
func (c AutoAssignCommand) Validate() error {
	if c.Date.IsZero() {
		return fmt.Errorf("auto_assign: %w", shared.ErrInvalidDate)
	}
	return nil
}

// AutoAssignResult reports the outcome of one auto-assignment run.
type AutoAssignResult struct {
	// AssignedCount is the number of sessions created by this run.
	AssignedCount int

	// Message is a human-readable summary.
	Message string

	// SessionIDs lists the created sessions in creation order.
	SessionIDs []int64
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// AutoAssignHandler handles AutoAssignCommand.
type AutoAssignHandler struct {
	instructors instructor.Repository
	students    student.Repository
	sessions    session.Repository
	uow         session.UnitOfWork
	publisher   shared.EventPublisher
}

// NewAutoAssignHandler creates a new AutoAssignHandler.
func NewAutoAssignHandler(
	instructors instructor.Repository,
	students student.Repository,
	sessions session.Repository,
	uow session.UnitOfWork,
	publisher shared.EventPublisher,
) *AutoAssignHandler {
	return &AutoAssignHandler{
		instructors: instructors,
		students:    students,
		sessions:    sessions,
		uow:         uow,
		publisher:   publisher,
	}
}

// Handle runs the greedy assignment pass for one date.
//
// The whole pass executes inside one atomic unit: a storage failure on any
// insert rolls back every session this run created. Within the pass the
// working snapshot is extended in place after each created session, so a
// later (slot, instructor) pair can never double-book anything the same
// run already assigned. Iteration order - slots ascending, instructors in
// load order - is fixed and the candidate ranking is stable, so the run
// is deterministic for a given data set.
func (h *AutoAssignHandler) Handle(ctx context.Context, cmd AutoAssignCommand) (*AutoAssignResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	date := shared.NormalizeDate(cmd.Date)

	instructors, err := h.instructors.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("auto_assign: load instructors: %w", err)
	}
	students, err := h.students.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("auto_assign: load students: %w", err)
	}
	existing, err := h.sessions.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("auto_assign: load sessions: %w", err)
	}

	snap := schedule.NewSnapshot(existing)
	var created []*session.Session

	err = h.uow.WithinTx(ctx, func(ctx context.Context, tx session.TxStore) error {
		for _, slot := range schedule.SlotsFor(date) {
			for _, inst := range instructors {
				// Rule 1: instructor already booked in this slot.
				if snap.InstructorBusy(slot, inst.ID) {
					continue
				}
				// Rule 2: slot must be preferred by the instructor.
				if !inst.WantsSlot(slot) {
					continue
				}
				// Rules 3-4: free students wanting this slot, sharing a
				// subject, with no Avoid entry for this instructor.
				candidates := schedule.EligibleStudents(inst, slot, students, snap)
				if len(candidates) == 0 {
					continue
				}
				// Rule 5: Preferred students first, stable within ties.
				ranked := schedule.RankByPreference(candidates, inst.ID)
				roster := ranked
				if len(roster) > session.MaxRosterSize {
					roster = roster[:session.MaxRosterSize]
				}

				// The session subject is the first subject the instructor
				// shares with the top-ranked candidate.
				subjectID, _ := schedule.CommonSubject(inst, roster[0])

				sess := session.New(date, slot, inst.ID, subjectID)
				if err := tx.InsertSession(ctx, sess); err != nil {
					return err
				}
				for _, std := range roster {
					if err := sess.Enroll(std.ID); err != nil {
						return err
					}
					if err := tx.InsertEnrollment(ctx, sess, std.ID); err != nil {
						return err
					}
				}

				snap.Append(sess)
				created = append(created, sess)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("auto_assign: commit: %w", err)
	}

	h.publish(date, created, cmd.CorrelationID)

	ids := make([]int64, len(created))
	for i, s := range created {
		ids[i] = s.ID
	}
	return &AutoAssignResult{
		AssignedCount: len(created),
		Message:       fmt.Sprintf("%d sessions assigned automatically", len(created)),
		SessionIDs:    ids,
	}, nil
}

func (h *AutoAssignHandler) publish(date time.Time, created []*session.Session, correlationID string) {
	if h.publisher == nil {
		return
	}
	for _, sess := range created {
		event := shared.NewSessionScheduledEvent(sess.ID, sess.Date, sess.Slot, sess.InstructorID, sess.SubjectID, sess.StudentIDs, true)
		if correlationID != "" {
			event.BaseEvent = event.BaseEvent.WithCorrelationID(correlationID)
		}
		_ = h.publisher.Publish(event)
	}
	summary := shared.NewDayAutoAssignedEvent(date, len(created))
	if correlationID != "" {
		summary.BaseEvent = summary.BaseEvent.WithCorrelationID(correlationID)
	}
	_ = h.publisher.Publish(summary)
}
