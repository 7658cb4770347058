package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testDate = time.Date(2026, 9, 7, 14, 30, 0, 0, time.UTC)

func TestNew_NormalizesDate(t *testing.T) {
	s := New(testDate, 2, 7, 10)

	assert.Equal(t, time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), s.Date)
	assert.Empty(t, s.StudentIDs)
	assert.NoError(t, s.Validate())
}

func TestSession_Enroll(t *testing.T) {
	s := New(testDate, 1, 7, 10)

	assert.NoError(t, s.Enroll(1))
	assert.NoError(t, s.Enroll(2))
	assert.NoError(t, s.Enroll(3))
	assert.Equal(t, []int64{1, 2, 3}, s.StudentIDs)

	// Fourth student exceeds the roster cap.
	assert.ErrorIs(t, s.Enroll(4), ErrRosterFull)
	assert.Len(t, s.StudentIDs, MaxRosterSize)
}

func TestSession_EnrollDuplicate(t *testing.T) {
	s := New(testDate, 1, 7, 10)

	assert.NoError(t, s.Enroll(1))
	assert.ErrorIs(t, s.Enroll(1), ErrAlreadyEnrolled)
	assert.Equal(t, []int64{1}, s.StudentIDs)
}

func TestSession_Validate(t *testing.T) {
	valid := New(testDate, 1, 7, 10)
	assert.NoError(t, valid.Validate())

	noDate := &Session{Slot: 1, InstructorID: 7, SubjectID: 10}
	assert.ErrorIs(t, noDate.Validate(), ErrInvalidSession)

	badSlot := New(testDate, 9, 7, 10)
	assert.ErrorIs(t, badSlot.Validate(), ErrInvalidSession)

	noInstructor := New(testDate, 1, 0, 10)
	assert.ErrorIs(t, noInstructor.Validate(), ErrInvalidSession)
}
