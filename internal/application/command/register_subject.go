package command

import (
	"context"
	"fmt"

	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/subject"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER SUBJECT COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// RegisterSubjectCommand describes a new subject.
type RegisterSubjectCommand struct {
	Name          string
	CorrelationID string
}

// RegisterSubjectResult reports the created subject.
type RegisterSubjectResult struct {
	SubjectID int64
}

// RegisterSubjectHandler handles RegisterSubjectCommand.
type RegisterSubjectHandler struct {
	subjects  subject.Repository
	publisher shared.EventPublisher
}

// NewRegisterSubjectHandler creates a new RegisterSubjectHandler.
func NewRegisterSubjectHandler(subjects subject.Repository, publisher shared.EventPublisher) *RegisterSubjectHandler {
	return &RegisterSubjectHandler{
		subjects:  subjects,
		publisher: publisher,
	}
}

// Handle validates and persists the subject.
func (h *RegisterSubjectHandler) Handle(ctx context.Context, cmd RegisterSubjectCommand) (*RegisterSubjectResult, error) {
	subj := subject.New(cmd.Name)
	if err := subj.Validate(); err != nil {
		return nil, fmt.Errorf("register_subject: %w", err)
	}

	if err := h.subjects.Create(ctx, subj); err != nil {
		return nil, fmt.Errorf("register_subject: create: %w", err)
	}

	if h.publisher != nil {
		event := shared.NewSubjectRegisteredEvent(subj.ID, subj.Name)
		if cmd.CorrelationID != "" {
			event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
		}
		_ = h.publisher.Publish(event)
	}

	return &RegisterSubjectResult{SubjectID: subj.ID}, nil
}
