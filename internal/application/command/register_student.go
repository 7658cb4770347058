package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/student"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/subject"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER STUDENT COMMAND
// Creates a student with its subject tag list and per-instructor preference
// marks. Omitted instructors default to a neutral preference.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterStudentCommand describes a new student.
type RegisterStudentCommand struct {
	Name           string
	Grade          student.Grade
	PreferredSlots shared.SlotSet
	SubjectIDs     []int64
	// Preferences maps instructor IDs to preference marks for that
	// instructor. Instructors not present are treated as neutral.
	Preferences   map[int64]student.PreferenceType
	CorrelationID string
}

// RegisterStudentResult reports the created student.
type RegisterStudentResult struct {
	StudentID int64
}

// RegisterStudentHandler handles RegisterStudentCommand.
type RegisterStudentHandler struct {
	students  student.Repository
	subjects  subject.Repository
	publisher shared.EventPublisher
}

// NewRegisterStudentHandler creates a new RegisterStudentHandler.
func NewRegisterStudentHandler(students student.Repository, subjects subject.Repository, publisher shared.EventPublisher) *RegisterStudentHandler {
	return &RegisterStudentHandler{
		students:  students,
		subjects:  subjects,
		publisher: publisher,
	}
}

// Handle validates and persists the student.
func (h *RegisterStudentHandler) Handle(ctx context.Context, cmd RegisterStudentCommand) (*RegisterStudentResult, error) {
	std := &student.Student{
		Name:           cmd.Name,
		Grade:          cmd.Grade,
		PreferredSlots: cmd.PreferredSlots.Normalize(),
		SubjectIDs:     cmd.SubjectIDs,
		Preferences:    cmd.Preferences,
	}
	if err := std.Validate(); err != nil {
		return nil, fmt.Errorf("register_student: %w", err)
	}

	// Every tagged subject must exist.
	for _, subjectID := range cmd.SubjectIDs {
		if _, err := h.subjects.GetByID(ctx, subjectID); err != nil {
			if errors.Is(err, subject.ErrSubjectNotFound) {
				return nil, fmt.Errorf("register_student: subject %d: %w", subjectID, subject.ErrSubjectNotFound)
			}
			return nil, fmt.Errorf("register_student: load subject: %w", err)
		}
	}

	if err := h.students.Create(ctx, std); err != nil {
		return nil, fmt.Errorf("register_student: create: %w", err)
	}

	if h.publisher != nil {
		event := shared.NewStudentRegisteredEvent(std.ID, std.Name, std.SubjectIDs)
		if cmd.CorrelationID != "" {
			event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
		}
		_ = h.publisher.Publish(event)
	}

	return &RegisterStudentResult{StudentID: std.ID}, nil
}
