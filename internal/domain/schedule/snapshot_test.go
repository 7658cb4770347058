package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/session"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"
)

func sessionWith(date time.Time, slot shared.TimeSlot, instructorID, subjectID int64, studentIDs []int64) *session.Session {
	s := session.New(date, slot, instructorID, subjectID)
	for _, id := range studentIDs {
		_ = s.Enroll(id)
	}
	return s
}

func TestSnapshot_SeededFromExisting(t *testing.T) {
	existing := []*session.Session{
		sessionWith(monday, 1, 7, 10, []int64{1, 2}),
		sessionWith(monday, 2, 8, 20, []int64{3}),
	}

	snap := NewSnapshot(existing)

	assert.Equal(t, 2, snap.Len())
	assert.True(t, snap.InstructorBusy(1, 7))
	assert.True(t, snap.InstructorBusy(2, 8))
	assert.False(t, snap.InstructorBusy(2, 7))

	assert.True(t, snap.StudentBusy(1, 1))
	assert.True(t, snap.StudentBusy(1, 2))
	assert.True(t, snap.StudentBusy(2, 3))
	assert.False(t, snap.StudentBusy(2, 1))
}

func TestSnapshot_AppendMarksBusy(t *testing.T) {
	snap := NewSnapshot(nil)
	assert.Equal(t, 0, snap.Len())
	assert.False(t, snap.InstructorBusy(1, 7))

	snap.Append(sessionWith(monday, 1, 7, 10, []int64{5}))

	assert.Equal(t, 1, snap.Len())
	assert.True(t, snap.InstructorBusy(1, 7))
	assert.True(t, snap.StudentBusy(1, 5))
	assert.Len(t, snap.Sessions(), 1)
}
