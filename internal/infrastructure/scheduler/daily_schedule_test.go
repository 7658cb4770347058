package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tutorhub/tutor-scheduling-hub/pkg/timeutil"
)

func TestDailySchedule_NextSameDay(t *testing.T) {
	s := NewDailySchedule(18, 0, time.UTC)

	now := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	next := s.Next(now)

	assert.Equal(t, time.Date(2026, 9, 7, 18, 0, 0, 0, time.UTC), next)
}

func TestDailySchedule_RollsOverToNextDay(t *testing.T) {
	s := NewDailySchedule(18, 0, time.UTC)

	// At or past the trigger time, the next run is tomorrow.
	atTrigger := time.Date(2026, 9, 7, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 9, 8, 18, 0, 0, 0, time.UTC), s.Next(atTrigger))

	after := time.Date(2026, 9, 7, 21, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 9, 8, 18, 0, 0, 0, time.UTC), s.Next(after))
}

func TestDailySchedule_HonorsLocation(t *testing.T) {
	s := NewDailySchedule(18, 0, timeutil.SeoulTZ)

	// 10:00 UTC is 19:00 in Seoul, past today's trigger.
	now := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	next := s.Next(now)

	assert.Equal(t, time.Date(2026, 9, 8, 18, 0, 0, 0, timeutil.SeoulTZ).Unix(), next.Unix())
}

func TestDailySchedule_NilLocationDefaultsToUTC(t *testing.T) {
	s := NewDailySchedule(6, 30, nil)
	assert.Equal(t, time.UTC, s.Location)
	assert.Equal(t, "@daily 06:30 UTC", s.String())
}

func TestIntervalSchedule_Next(t *testing.T) {
	s := NewIntervalSchedule(15 * time.Minute)

	now := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(15*time.Minute), s.Next(now))
	assert.Equal(t, "@every 15m0s", s.String())
}
