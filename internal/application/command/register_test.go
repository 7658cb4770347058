package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/instructor"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/student"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/subject"
)

func seededSubjects() *fakeSubjectRepo {
	return &fakeSubjectRepo{items: []*subject.Subject{
		{ID: 1, Name: "math"},
		{ID: 2, Name: "english"},
	}}
}

func TestRegisterSubject(t *testing.T) {
	repo := &fakeSubjectRepo{}
	publisher := &fakePublisher{}
	handler := NewRegisterSubjectHandler(repo, publisher)

	result, err := handler.Handle(context.Background(), RegisterSubjectCommand{Name: "math"})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), result.SubjectID)
	assert.Len(t, publisher.byType(shared.EventSubjectRegistered), 1)

	// Duplicate name is refused by storage.
	_, err = handler.Handle(context.Background(), RegisterSubjectCommand{Name: "math"})
	assert.ErrorIs(t, err, subject.ErrSubjectAlreadyExists)
}

func TestRegisterSubject_EmptyName(t *testing.T) {
	handler := NewRegisterSubjectHandler(&fakeSubjectRepo{}, nil)

	_, err := handler.Handle(context.Background(), RegisterSubjectCommand{Name: "   "})
	assert.ErrorIs(t, err, subject.ErrInvalidSubject)
}

func TestRegisterInstructor(t *testing.T) {
	instructors := &fakeInstructorRepo{}
	publisher := &fakePublisher{}
	handler := NewRegisterInstructorHandler(instructors, seededSubjects(), publisher)

	result, err := handler.Handle(context.Background(), RegisterInstructorCommand{
		Name:           "Kim",
		Phone:          "010-1234-5678",
		PreferredSlots: shared.SlotSet{2, 1, 2},
		SubjectIDs:     []int64{1, 2},
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), result.InstructorID)

	created := instructors.items[0]
	// Slots are normalized on the way in.
	assert.Equal(t, shared.SlotSet{1, 2}, created.PreferredSlots)
	assert.Equal(t, []int64{1, 2}, created.SubjectIDs)
	assert.Len(t, publisher.byType(shared.EventInstructorRegistered), 1)
}

func TestRegisterInstructor_UnknownSubject(t *testing.T) {
	handler := NewRegisterInstructorHandler(&fakeInstructorRepo{}, seededSubjects(), nil)

	_, err := handler.Handle(context.Background(), RegisterInstructorCommand{
		Name:           "Kim",
		PreferredSlots: shared.SlotSet{1},
		SubjectIDs:     []int64{99},
	})
	assert.ErrorIs(t, err, subject.ErrSubjectNotFound)
}

func TestRegisterInstructor_InvalidName(t *testing.T) {
	handler := NewRegisterInstructorHandler(&fakeInstructorRepo{}, seededSubjects(), nil)

	_, err := handler.Handle(context.Background(), RegisterInstructorCommand{Name: ""})
	assert.ErrorIs(t, err, instructor.ErrInvalidInstructor)
}

func TestRegisterStudent(t *testing.T) {
	students := &fakeStudentRepo{}
	publisher := &fakePublisher{}
	handler := NewRegisterStudentHandler(students, seededSubjects(), publisher)

	result, err := handler.Handle(context.Background(), RegisterStudentCommand{
		Name:           "Minji",
		Grade:          student.Middle2,
		PreferredSlots: shared.SlotSet{1, 3},
		SubjectIDs:     []int64{1},
		Preferences:    map[int64]student.PreferenceType{5: student.PreferencePreferred},
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), result.StudentID)

	created := students.items[0]
	assert.Equal(t, student.Middle2, created.Grade)
	assert.True(t, created.Prefers(5))
	assert.Len(t, publisher.byType(shared.EventStudentRegistered), 1)
}

func TestRegisterStudent_InvalidGrade(t *testing.T) {
	handler := NewRegisterStudentHandler(&fakeStudentRepo{}, seededSubjects(), nil)

	_, err := handler.Handle(context.Background(), RegisterStudentCommand{
		Name:  "Minji",
		Grade: student.Grade(99),
	})
	assert.ErrorIs(t, err, student.ErrInvalidStudent)
}

func TestRegisterStudent_UnknownSubject(t *testing.T) {
	handler := NewRegisterStudentHandler(&fakeStudentRepo{}, seededSubjects(), nil)

	_, err := handler.Handle(context.Background(), RegisterStudentCommand{
		Name:       "Minji",
		Grade:      student.High1,
		SubjectIDs: []int64{42},
	})
	assert.ErrorIs(t, err, subject.ErrSubjectNotFound)
}
