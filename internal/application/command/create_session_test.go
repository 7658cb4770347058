package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/instructor"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/student"
)

// 2026-09-07 is a Monday.
var testDate = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func newCreateSessionFixture(cfg CreateSessionConfig) (*CreateSessionHandler, *fakeInstructorRepo, *fakeStudentRepo, *fakeSessionStore, *fakePublisher) {
	instructors := &fakeInstructorRepo{items: []*instructor.Instructor{
		{ID: 1, Name: "Kim", PreferredSlots: shared.SlotSet{1, 2}, SubjectIDs: []int64{10, 20}},
	}}
	students := &fakeStudentRepo{items: []*student.Student{
		{ID: 1, Name: "Minji", Grade: student.Middle1, PreferredSlots: shared.SlotSet{1, 2}, SubjectIDs: []int64{10}},
		{ID: 2, Name: "Juno", Grade: student.Middle2, PreferredSlots: shared.SlotSet{1}, SubjectIDs: []int64{20}},
		{ID: 3, Name: "Sora", Grade: student.High1, PreferredSlots: shared.SlotSet{2}, SubjectIDs: []int64{10}},
	}}
	store := newFakeSessionStore()
	publisher := &fakePublisher{}
	handler := NewCreateSessionHandler(instructors, students, store, store, publisher, cfg)
	return handler, instructors, students, store, publisher
}

func TestCreateSession_HappyPath(t *testing.T) {
	handler, _, _, store, publisher := newCreateSessionFixture(CreateSessionConfig{})

	result, err := handler.Handle(context.Background(), CreateSessionCommand{
		Date:         testDate,
		Slot:         1,
		InstructorID: 1,
		SubjectID:    10,
		StudentIDs:   []int64{1, 2},
	})

	assert.NoError(t, err)
	assert.True(t, result.OK)
	assert.NotZero(t, result.SessionID)

	assert.Len(t, store.committed, 1)
	sess := store.committed[0]
	assert.Equal(t, testDate, sess.Date)
	assert.Equal(t, shared.TimeSlot(1), sess.Slot)
	assert.Equal(t, int64(1), sess.InstructorID)
	assert.Equal(t, int64(10), sess.SubjectID)
	assert.Equal(t, []int64{1, 2}, sess.StudentIDs)

	assert.Len(t, publisher.byType(shared.EventSessionScheduled), 1)
}

func TestCreateSession_EmptyRosterIsLegal(t *testing.T) {
	handler, _, _, store, _ := newCreateSessionFixture(CreateSessionConfig{})

	result, err := handler.Handle(context.Background(), CreateSessionCommand{
		Date:         testDate,
		Slot:         2,
		InstructorID: 1,
		SubjectID:    10,
	})

	assert.NoError(t, err)
	assert.True(t, result.OK)
	assert.Len(t, store.committed, 1)
	assert.Empty(t, store.committed[0].StudentIDs)
}

func TestCreateSession_InstructorNotFound(t *testing.T) {
	handler, _, _, store, _ := newCreateSessionFixture(CreateSessionConfig{})

	result, err := handler.Handle(context.Background(), CreateSessionCommand{
		Date:         testDate,
		Slot:         1,
		InstructorID: 99,
		SubjectID:    10,
	})

	assert.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, ReasonInstructorNotFound, result.Message)
	assert.Empty(t, store.committed)
}

func TestCreateSession_SlotNotPreferred(t *testing.T) {
	handler, _, _, store, _ := newCreateSessionFixture(CreateSessionConfig{})

	// Instructor prefers slots 1-2 only.
	result, err := handler.Handle(context.Background(), CreateSessionCommand{
		Date:         testDate,
		Slot:         3,
		InstructorID: 1,
		SubjectID:    10,
	})

	assert.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, ReasonSlotNotPreferred, result.Message)
	assert.Empty(t, store.committed)
}

func TestCreateSession_InstructorAlreadyBooked(t *testing.T) {
	handler, _, _, store, _ := newCreateSessionFixture(CreateSessionConfig{})

	first, err := handler.Handle(context.Background(), CreateSessionCommand{
		Date: testDate, Slot: 1, InstructorID: 1, SubjectID: 10,
	})
	assert.NoError(t, err)
	assert.True(t, first.OK)

	second, err := handler.Handle(context.Background(), CreateSessionCommand{
		Date: testDate, Slot: 1, InstructorID: 1, SubjectID: 20,
	})
	assert.NoError(t, err)
	assert.False(t, second.OK)
	assert.Equal(t, ReasonInstructorBusy, second.Message)
	assert.Len(t, store.committed, 1)

	// A different slot on the same date is still open.
	third, err := handler.Handle(context.Background(), CreateSessionCommand{
		Date: testDate, Slot: 2, InstructorID: 1, SubjectID: 10,
	})
	assert.NoError(t, err)
	assert.True(t, third.OK)
}

func TestCreateSession_RosterOverCap(t *testing.T) {
	handler, _, _, store, _ := newCreateSessionFixture(CreateSessionConfig{})

	result, err := handler.Handle(context.Background(), CreateSessionCommand{
		Date:         testDate,
		Slot:         1,
		InstructorID: 1,
		SubjectID:    10,
		StudentIDs:   []int64{1, 2, 3, 4},
	})

	assert.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, ReasonTooManyStudents, result.Message)
	assert.Empty(t, store.committed)
}

func TestCreateSession_StudentTimeConflictRollsBack(t *testing.T) {
	handler, _, _, store, _ := newCreateSessionFixture(CreateSessionConfig{})

	// Book student 1 with the instructor in slot 1.
	first, err := handler.Handle(context.Background(), CreateSessionCommand{
		Date: testDate, Slot: 1, InstructorID: 1, SubjectID: 10, StudentIDs: []int64{1},
	})
	assert.NoError(t, err)
	assert.True(t, first.OK)

	// A second instructor proposes the same student in the same slot.
	store2 := store
	instructors2 := &fakeInstructorRepo{items: []*instructor.Instructor{
		{ID: 2, Name: "Lee", PreferredSlots: shared.SlotSet{1}, SubjectIDs: []int64{10}},
	}}
	handler2 := NewCreateSessionHandler(instructors2, &fakeStudentRepo{}, store2, store2, nil, CreateSessionConfig{})

	result, err := handler2.Handle(context.Background(), CreateSessionCommand{
		Date: testDate, Slot: 1, InstructorID: 2, SubjectID: 10, StudentIDs: []int64{2, 1},
	})

	assert.NoError(t, err)
	assert.False(t, result.OK)
	// The session row inserted before the conflict was rolled back too.
	assert.Len(t, store.committed, 1)
}

func TestCreateSession_StorageFailureRollsBackEverything(t *testing.T) {
	handler, _, _, store, publisher := newCreateSessionFixture(CreateSessionConfig{})
	store.failEnrollmentAt = 2

	result, err := handler.Handle(context.Background(), CreateSessionCommand{
		Date: testDate, Slot: 1, InstructorID: 1, SubjectID: 10, StudentIDs: []int64{1, 2},
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Empty(t, store.committed)
	assert.Empty(t, publisher.events)
}

func TestCreateSession_ValidateRejectsStructuralErrors(t *testing.T) {
	handler, _, _, _, _ := newCreateSessionFixture(CreateSessionConfig{})

	_, err := handler.Handle(context.Background(), CreateSessionCommand{
		Slot: 1, InstructorID: 1, SubjectID: 10,
	})
	assert.ErrorIs(t, err, shared.ErrInvalidDate)

	_, err = handler.Handle(context.Background(), CreateSessionCommand{
		Date: testDate, Slot: 9, InstructorID: 1, SubjectID: 10,
	})
	assert.ErrorIs(t, err, shared.ErrInvalidSlot)
}

func TestCreateSession_StrictMode(t *testing.T) {
	handler, _, students, store, _ := newCreateSessionFixture(CreateSessionConfig{StrictValidation: true})

	// Student 2 studies subject 20, shared with the instructor: accepted.
	result, err := handler.Handle(context.Background(), CreateSessionCommand{
		Date: testDate, Slot: 1, InstructorID: 1, SubjectID: 20, StudentIDs: []int64{2},
	})
	assert.NoError(t, err)
	assert.True(t, result.OK)

	// Unknown student is a rejection in strict mode, not an error.
	result, err = handler.Handle(context.Background(), CreateSessionCommand{
		Date: testDate, Slot: 2, InstructorID: 1, SubjectID: 10, StudentIDs: []int64{42},
	})
	assert.NoError(t, err)
	assert.False(t, result.OK)

	// A student avoiding the instructor is never accepted in strict mode.
	students.items[0].Preferences = map[int64]student.PreferenceType{1: student.PreferenceAvoid}
	result, err = handler.Handle(context.Background(), CreateSessionCommand{
		Date: testDate, Slot: 2, InstructorID: 1, SubjectID: 10, StudentIDs: []int64{1},
	})
	assert.NoError(t, err)
	assert.False(t, result.OK)

	assert.Len(t, store.committed, 1)
}
