package student

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"
)

func TestPreferenceFor_MissingEntryIsNeutral(t *testing.T) {
	s := &Student{ID: 1}
	assert.Equal(t, PreferenceNeutral, s.PreferenceFor(7))
	assert.False(t, s.Prefers(7))
	assert.False(t, s.Avoids(7))

	s.Preferences = map[int64]PreferenceType{
		7: PreferencePreferred,
		8: PreferenceAvoid,
	}
	assert.True(t, s.Prefers(7))
	assert.True(t, s.Avoids(8))
	assert.Equal(t, PreferenceNeutral, s.PreferenceFor(9))
}

func TestStudent_Studies(t *testing.T) {
	s := &Student{SubjectIDs: []int64{10, 20}}
	assert.True(t, s.Studies(10))
	assert.False(t, s.Studies(30))
}

func TestStudent_Validate(t *testing.T) {
	valid := &Student{
		Name:           "Minji",
		Grade:          Middle2,
		PreferredSlots: shared.SlotSet{1, 2},
	}
	assert.NoError(t, valid.Validate())

	empty := &Student{Grade: Middle2}
	assert.ErrorIs(t, empty.Validate(), ErrInvalidStudent)

	badGrade := &Student{Name: "Minji", Grade: GradeUnknown}
	assert.ErrorIs(t, badGrade.Validate(), ErrInvalidStudent)

	badPref := &Student{
		Name:        "Minji",
		Grade:       High1,
		Preferences: map[int64]PreferenceType{7: PreferenceType(3)},
	}
	assert.ErrorIs(t, badPref.Validate(), ErrInvalidStudent)
}

func TestGrade_String(t *testing.T) {
	assert.Equal(t, "elementary-1", Elementary1.String())
	assert.Equal(t, "middle-3", Middle3.String())
	assert.Equal(t, "high-2", High2.String())
	assert.Equal(t, "unknown", GradeUnknown.String())
}
