package query

import (
	"context"
	"fmt"

	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/instructor"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/student"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/subject"
)

// ══════════════════════════════════════════════════════════════════════════════
// REFERENCE DATA QUERIES
// Plain listings of subjects, instructors, and students. These back the
// registration UI and the auto-assignment preview screens.
// ══════════════════════════════════════════════════════════════════════════════

// InstructorView is the read model for one instructor.
type InstructorView struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Education      string  `json:"education,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	Notes          string  `json:"notes,omitempty"`
	PreferredSlots []int   `json:"preferred_slots"`
	SubjectIDs     []int64 `json:"subject_ids"`
}

// StudentView is the read model for one student.
type StudentView struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Grade          int             `json:"grade"`
	PreferredSlots []int           `json:"preferred_slots"`
	SubjectIDs     []int64         `json:"subject_ids"`
	Preferences    map[int64]int   `json:"preferences,omitempty"`
}

// SubjectView is the read model for one subject.
type SubjectView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func slotInts(set shared.SlotSet) []int {
	slots := make([]int, 0, len(set))
	for _, s := range set {
		slots = append(slots, s.Int())
	}
	return slots
}

// ListInstructorsHandler lists every registered instructor.
type ListInstructorsHandler struct {
	instructors instructor.Repository
}

// NewListInstructorsHandler creates a new ListInstructorsHandler.
func NewListInstructorsHandler(instructors instructor.Repository) *ListInstructorsHandler {
	return &ListInstructorsHandler{instructors: instructors}
}

// Handle returns all instructors in registration order.
func (h *ListInstructorsHandler) Handle(ctx context.Context) ([]InstructorView, error) {
	instructors, err := h.instructors.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list_instructors: %w", err)
	}
	views := make([]InstructorView, 0, len(instructors))
	for _, inst := range instructors {
		views = append(views, InstructorView{
			ID:             inst.ID,
			Name:           inst.Name,
			Education:      inst.Education,
			Phone:          inst.Phone,
			Notes:          inst.Notes,
			PreferredSlots: slotInts(inst.PreferredSlots),
			SubjectIDs:     inst.SubjectIDs,
		})
	}
	return views, nil
}

// ListStudentsHandler lists every registered student.
type ListStudentsHandler struct {
	students student.Repository
}

// NewListStudentsHandler creates a new ListStudentsHandler.
func NewListStudentsHandler(students student.Repository) *ListStudentsHandler {
	return &ListStudentsHandler{students: students}
}

// Handle returns all students in registration order.
func (h *ListStudentsHandler) Handle(ctx context.Context) ([]StudentView, error) {
	students, err := h.students.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list_students: %w", err)
	}
	views := make([]StudentView, 0, len(students))
	for _, std := range students {
		view := StudentView{
			ID:             std.ID,
			Name:           std.Name,
			Grade:          int(std.Grade),
			PreferredSlots: slotInts(std.PreferredSlots),
			SubjectIDs:     std.SubjectIDs,
		}
		if len(std.Preferences) > 0 {
			view.Preferences = make(map[int64]int, len(std.Preferences))
			for instructorID, pref := range std.Preferences {
				view.Preferences[instructorID] = int(pref)
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// ListSubjectsHandler lists every registered subject.
type ListSubjectsHandler struct {
	subjects subject.Repository
}

// NewListSubjectsHandler creates a new ListSubjectsHandler.
func NewListSubjectsHandler(subjects subject.Repository) *ListSubjectsHandler {
	return &ListSubjectsHandler{subjects: subjects}
}

// Handle returns all subjects in registration order.
func (h *ListSubjectsHandler) Handle(ctx context.Context) ([]SubjectView, error) {
	subjects, err := h.subjects.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list_subjects: %w", err)
	}
	views := make([]SubjectView, 0, len(subjects))
	for _, subj := range subjects {
		views = append(views, SubjectView{ID: subj.ID, Name: subj.Name})
	}
	return views, nil
}
