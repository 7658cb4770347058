// Package eventhandler contains subscribers that react to domain events.
package eventhandler

import (
	"context"
	"log/slog"
	"time"

	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ON SESSION SCHEDULED
// Keeps the day schedule cache honest: any committed session, manual or
// automatic, invalidates the cached schedule for its date.
// ══════════════════════════════════════════════════════════════════════════════

// DayCacheInvalidator evicts a cached day schedule.
type DayCacheInvalidator interface {
	InvalidateDay(ctx context.Context, date time.Time) error
}

// OnSessionScheduledHandler invalidates the day cache when sessions are
// committed.
type OnSessionScheduledHandler struct {
	cache  DayCacheInvalidator
	logger *slog.Logger
}

// NewOnSessionScheduledHandler creates a new OnSessionScheduledHandler.
func NewOnSessionScheduledHandler(cache DayCacheInvalidator, logger *slog.Logger) *OnSessionScheduledHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnSessionScheduledHandler{
		cache:  cache,
		logger: logger.With("handler", "on_session_scheduled"),
	}
}

// HandleEvent implements shared.EventHandler.
func (h *OnSessionScheduledHandler) HandleEvent(ctx context.Context, event shared.Event) error {
	if h.cache == nil {
		return nil
	}

	var date time.Time
	switch e := event.(type) {
	case shared.SessionScheduledEvent:
		date = e.Date
	case shared.DayAutoAssignedEvent:
		date = e.Date
	default:
		h.logger.Warn("received unexpected event",
			slog.String("event_type", string(event.EventType())))
		return nil
	}

	if err := h.cache.InvalidateDay(ctx, date); err != nil {
		h.logger.Error("failed to invalidate day schedule cache",
			slog.String("date", date.Format("2006-01-02")),
			slog.String("error", err.Error()))
		return err
	}

	h.logger.Debug("day schedule cache invalidated",
		slog.String("date", date.Format("2006-01-02")),
		slog.String("event_type", string(event.EventType())))
	return nil
}
