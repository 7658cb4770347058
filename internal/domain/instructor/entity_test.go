package instructor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"
)

func TestWantsSlot(t *testing.T) {
	inst := &Instructor{PreferredSlots: shared.SlotSet{1, 3}}

	assert.True(t, inst.WantsSlot(shared.TimeSlot(1)))
	assert.False(t, inst.WantsSlot(shared.TimeSlot(2)))
	assert.True(t, inst.WantsSlot(shared.TimeSlot(3)))
}

func TestTeaches(t *testing.T) {
	inst := &Instructor{SubjectIDs: []int64{30, 10}}

	assert.True(t, inst.Teaches(30))
	assert.True(t, inst.Teaches(10))
	assert.False(t, inst.Teaches(20))
}

func TestValidate(t *testing.T) {
	valid := &Instructor{Name: "Ким Минсу", PreferredSlots: shared.SlotSet{1, 2}}
	assert.NoError(t, valid.Validate())

	blank := &Instructor{Name: "   "}
	assert.ErrorIs(t, blank.Validate(), ErrInvalidInstructor)

	longName := &Instructor{Name: strings.Repeat("a", MaxNameLength+1)}
	assert.ErrorIs(t, longName.Validate(), ErrInvalidInstructor)

	longPhone := &Instructor{Name: "ok", Phone: strings.Repeat("1", MaxPhoneLength+1)}
	assert.ErrorIs(t, longPhone.Validate(), ErrInvalidInstructor)

	badSlot := &Instructor{Name: "ok", PreferredSlots: shared.SlotSet{0}}
	assert.ErrorIs(t, badSlot.Validate(), ErrInvalidInstructor)
}
