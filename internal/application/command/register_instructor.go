package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/instructor"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/subject"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER INSTRUCTOR COMMAND
// Creates an instructor together with its subject tag list. Reference data
// only; no scheduling rules apply here.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterInstructorCommand describes a new instructor.
type RegisterInstructorCommand struct {
	Name           string
	Education      string
	Phone          string
	Notes          string
	PreferredSlots shared.SlotSet
	SubjectIDs     []int64
	CorrelationID  string
}

// RegisterInstructorResult reports the created instructor.
type RegisterInstructorResult struct {
	InstructorID int64
}

// RegisterInstructorHandler handles RegisterInstructorCommand.
type RegisterInstructorHandler struct {
	instructors instructor.Repository
	subjects    subject.Repository
	publisher   shared.EventPublisher
}

// NewRegisterInstructorHandler creates a new RegisterInstructorHandler.
func NewRegisterInstructorHandler(instructors instructor.Repository, subjects subject.Repository, publisher shared.EventPublisher) *RegisterInstructorHandler {
	return &RegisterInstructorHandler{
		instructors: instructors,
		subjects:    subjects,
		publisher:   publisher,
	}
}

// Handle validates and persists the instructor with its subject tags.
func (h *RegisterInstructorHandler) Handle(ctx context.Context, cmd RegisterInstructorCommand) (*RegisterInstructorResult, error) {
	inst := &instructor.Instructor{
		Name:           cmd.Name,
		Education:      cmd.Education,
		Phone:          cmd.Phone,
		Notes:          cmd.Notes,
		PreferredSlots: cmd.PreferredSlots.Normalize(),
		SubjectIDs:     cmd.SubjectIDs,
	}
	if err := inst.Validate(); err != nil {
		return nil, fmt.Errorf("register_instructor: %w", err)
	}

	// Every tagged subject must exist.
	for _, subjectID := range cmd.SubjectIDs {
		if _, err := h.subjects.GetByID(ctx, subjectID); err != nil {
			if errors.Is(err, subject.ErrSubjectNotFound) {
				return nil, fmt.Errorf("register_instructor: subject %d: %w", subjectID, subject.ErrSubjectNotFound)
			}
			return nil, fmt.Errorf("register_instructor: load subject: %w", err)
		}
	}

	if err := h.instructors.Create(ctx, inst); err != nil {
		return nil, fmt.Errorf("register_instructor: create: %w", err)
	}

	if h.publisher != nil {
		event := shared.NewInstructorRegisteredEvent(inst.ID, inst.Name, inst.SubjectIDs)
		if cmd.CorrelationID != "" {
			event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
		}
		_ = h.publisher.Publish(event)
	}

	return &RegisterInstructorResult{InstructorID: inst.ID}, nil
}
