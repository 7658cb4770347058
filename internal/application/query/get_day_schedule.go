// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/session"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET DAY SCHEDULE QUERY
// Returns every session scheduled for a single calendar date, ordered by
// time slot. Served from the day cache when warm.
// ══════════════════════════════════════════════════════════════════════════════

// SessionView is the read model for one scheduled session.
type SessionView struct {
	SessionID    int64   `json:"session_id"`
	Date         string  `json:"date"`
	TimeSlot     int     `json:"time_slot"`
	InstructorID int64   `json:"instructor_id"`
	SubjectID    int64   `json:"subject_id"`
	StudentIDs   []int64 `json:"student_ids"`
}

// DaySchedule is the read model for a full day.
type DaySchedule struct {
	Date     string        `json:"date"`
	Sessions []SessionView `json:"sessions"`
}

// DayScheduleCache caches assembled day schedules.
type DayScheduleCache interface {
	GetDay(ctx context.Context, date time.Time) (*DaySchedule, error)
	SetDay(ctx context.Context, date time.Time, schedule *DaySchedule) error
}

// GetDayScheduleQuery asks for the schedule of one date.
type GetDayScheduleQuery struct {
	Date time.Time
}

// Validate checks the query parameters.
func (q GetDayScheduleQuery) Validate() error {
	if q.Date.IsZero() {
		return fmt.Errorf("get_day_schedule: date: %w", shared.ErrEmptyValue)
	}
	return nil
}

// GetDayScheduleHandler handles GetDayScheduleQuery.
type GetDayScheduleHandler struct {
	sessions session.Repository
	cache    DayScheduleCache
	logger   *slog.Logger
}

// NewGetDayScheduleHandler creates a new GetDayScheduleHandler. The cache is
// optional; pass nil to always read from storage.
func NewGetDayScheduleHandler(sessions session.Repository, cache DayScheduleCache, logger *slog.Logger) *GetDayScheduleHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetDayScheduleHandler{
		sessions: sessions,
		cache:    cache,
		logger:   logger,
	}
}

// Handle returns the day schedule, preferring the cache when it is warm.
func (h *GetDayScheduleHandler) Handle(ctx context.Context, q GetDayScheduleQuery) (*DaySchedule, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	date := shared.NormalizeDate(q.Date)

	if h.cache != nil {
		if cached, err := h.cache.GetDay(ctx, date); err == nil && cached != nil {
			return cached, nil
		} else if err != nil {
			// Cache trouble must not break reads.
			h.logger.Warn("day schedule cache read failed",
				slog.String("date", date.Format("2006-01-02")),
				slog.String("error", err.Error()))
		}
	}

	sessions, err := h.sessions.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("get_day_schedule: list sessions: %w", err)
	}

	schedule := &DaySchedule{
		Date:     date.Format("2006-01-02"),
		Sessions: make([]SessionView, 0, len(sessions)),
	}
	for _, s := range sessions {
		schedule.Sessions = append(schedule.Sessions, SessionView{
			SessionID:    s.ID,
			Date:         s.Date.Format("2006-01-02"),
			TimeSlot:     s.Slot.Int(),
			InstructorID: s.InstructorID,
			SubjectID:    s.SubjectID,
			StudentIDs:   s.StudentIDs,
		})
	}
	sort.SliceStable(schedule.Sessions, func(i, j int) bool {
		if schedule.Sessions[i].TimeSlot != schedule.Sessions[j].TimeSlot {
			return schedule.Sessions[i].TimeSlot < schedule.Sessions[j].TimeSlot
		}
		return schedule.Sessions[i].InstructorID < schedule.Sessions[j].InstructorID
	})

	if h.cache != nil {
		if err := h.cache.SetDay(ctx, date, schedule); err != nil {
			h.logger.Warn("day schedule cache write failed",
				slog.String("date", date.Format("2006-01-02")),
				slog.String("error", err.Error()))
		}
	}

	return schedule, nil
}
