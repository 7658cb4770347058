package query

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/session"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────────────────────────────────────

type fakeSessionRepo struct {
	sessions []*session.Session
	listErr  error
	calls    int
}

func (r *fakeSessionRepo) ListByDate(_ context.Context, date time.Time) ([]*session.Session, error) {
	r.calls++
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*session.Session
	for _, s := range r.sessions {
		if shared.SameDate(s.Date, date) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) InstructorBusyAt(context.Context, time.Time, shared.TimeSlot, int64) (bool, error) {
	return false, nil
}

func (r *fakeSessionRepo) StudentBusyAt(context.Context, time.Time, shared.TimeSlot, int64) (bool, error) {
	return false, nil
}

type fakeDayCache struct {
	entries map[string]*DaySchedule
	getErr  error
	setErr  error
	sets    int
}

func newFakeDayCache() *fakeDayCache {
	return &fakeDayCache{entries: make(map[string]*DaySchedule)}
}

func (c *fakeDayCache) GetDay(_ context.Context, date time.Time) (*DaySchedule, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.entries[date.Format("2006-01-02")], nil
}

func (c *fakeDayCache) SetDay(_ context.Context, date time.Time, schedule *DaySchedule) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.sets++
	c.entries[date.Format("2006-01-02")] = schedule
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sessionAt(id int64, date time.Time, slot int, instructorID int64, studentIDs ...int64) *session.Session {
	return &session.Session{
		ID:           id,
		Date:         shared.NormalizeDate(date),
		Slot:         shared.TimeSlot(slot),
		InstructorID: instructorID,
		SubjectID:    10,
		StudentIDs:   studentIDs,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

var queryDate = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func TestGetDaySchedule_OrdersBySlotThenInstructor(t *testing.T) {
	repo := &fakeSessionRepo{sessions: []*session.Session{
		sessionAt(3, queryDate, 2, 7, 101),
		sessionAt(1, queryDate, 1, 9, 102),
		sessionAt(2, queryDate, 1, 4, 103),
	}}
	handler := NewGetDayScheduleHandler(repo, nil, testLogger())

	schedule, err := handler.Handle(context.Background(), GetDayScheduleQuery{Date: queryDate})

	assert.NoError(t, err)
	assert.Equal(t, "2026-09-07", schedule.Date)
	assert.Len(t, schedule.Sessions, 3)
	assert.Equal(t, int64(2), schedule.Sessions[0].SessionID)
	assert.Equal(t, int64(1), schedule.Sessions[1].SessionID)
	assert.Equal(t, int64(3), schedule.Sessions[2].SessionID)
}

func TestGetDaySchedule_EmptyDayReturnsEmptySlice(t *testing.T) {
	handler := NewGetDayScheduleHandler(&fakeSessionRepo{}, nil, testLogger())

	schedule, err := handler.Handle(context.Background(), GetDayScheduleQuery{Date: queryDate})

	assert.NoError(t, err)
	assert.NotNil(t, schedule.Sessions)
	assert.Empty(t, schedule.Sessions)
}

func TestGetDaySchedule_WarmCacheSkipsStorage(t *testing.T) {
	repo := &fakeSessionRepo{}
	cache := newFakeDayCache()
	cached := &DaySchedule{Date: "2026-09-07", Sessions: []SessionView{{SessionID: 42}}}
	cache.entries["2026-09-07"] = cached
	handler := NewGetDayScheduleHandler(repo, cache, testLogger())

	schedule, err := handler.Handle(context.Background(), GetDayScheduleQuery{Date: queryDate})

	assert.NoError(t, err)
	assert.Equal(t, cached, schedule)
	assert.Zero(t, repo.calls)
}

func TestGetDaySchedule_ColdCacheGetsWarmed(t *testing.T) {
	repo := &fakeSessionRepo{sessions: []*session.Session{
		sessionAt(1, queryDate, 1, 7, 101),
	}}
	cache := newFakeDayCache()
	handler := NewGetDayScheduleHandler(repo, cache, testLogger())

	schedule, err := handler.Handle(context.Background(), GetDayScheduleQuery{Date: queryDate})

	assert.NoError(t, err)
	assert.Len(t, schedule.Sessions, 1)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, schedule, cache.entries["2026-09-07"])
}

func TestGetDaySchedule_CacheErrorsFallThroughToStorage(t *testing.T) {
	repo := &fakeSessionRepo{sessions: []*session.Session{
		sessionAt(1, queryDate, 1, 7, 101),
	}}
	cache := newFakeDayCache()
	cache.getErr = errors.New("redis: connection refused")
	cache.setErr = errors.New("redis: connection refused")
	handler := NewGetDayScheduleHandler(repo, cache, testLogger())

	schedule, err := handler.Handle(context.Background(), GetDayScheduleQuery{Date: queryDate})

	assert.NoError(t, err)
	assert.Len(t, schedule.Sessions, 1)
	assert.Equal(t, 1, repo.calls)
}

func TestGetDaySchedule_NormalizesDateBeforeLookup(t *testing.T) {
	repo := &fakeSessionRepo{sessions: []*session.Session{
		sessionAt(1, queryDate, 1, 7, 101),
	}}
	handler := NewGetDayScheduleHandler(repo, nil, testLogger())

	afternoon := time.Date(2026, 9, 7, 15, 30, 0, 0, time.UTC)
	schedule, err := handler.Handle(context.Background(), GetDayScheduleQuery{Date: afternoon})

	assert.NoError(t, err)
	assert.Len(t, schedule.Sessions, 1)
}

func TestGetDaySchedule_StorageErrorPropagates(t *testing.T) {
	repo := &fakeSessionRepo{listErr: errors.New("pg: down")}
	handler := NewGetDayScheduleHandler(repo, nil, testLogger())

	_, err := handler.Handle(context.Background(), GetDayScheduleQuery{Date: queryDate})

	assert.Error(t, err)
}

func TestGetDaySchedule_ZeroDateRejected(t *testing.T) {
	handler := NewGetDayScheduleHandler(&fakeSessionRepo{}, nil, testLogger())

	_, err := handler.Handle(context.Background(), GetDayScheduleQuery{})

	assert.ErrorIs(t, err, shared.ErrEmptyValue)
}
