package redis

import (
	"context"
	"errors"
	"time"

	"github.com/tutorhub/tutor-scheduling-hub/internal/application/query"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"
)

// ScheduleCache caches assembled day schedules. It satisfies both the query
// side (query.DayScheduleCache) and the invalidation side
// (eventhandler.DayCacheInvalidator).
type ScheduleCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewScheduleCache creates a new ScheduleCache.
func NewScheduleCache(cache *Cache) *ScheduleCache {
	return &ScheduleCache{
		cache: cache,
		ttl:   TTLDaySchedule,
	}
}

func dayKey(date time.Time) string {
	return PrefixSchedule + "day:" + shared.NormalizeDate(date).Format("2006-01-02")
}

// GetDay returns the cached schedule for a date, or (nil, nil) on a miss.
func (c *ScheduleCache) GetDay(ctx context.Context, date time.Time) (*query.DaySchedule, error) {
	var schedule query.DaySchedule
	err := c.cache.Get(ctx, dayKey(date), &schedule)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}

// SetDay caches the schedule for a date.
func (c *ScheduleCache) SetDay(ctx context.Context, date time.Time, schedule *query.DaySchedule) error {
	return c.cache.Set(ctx, dayKey(date), schedule, c.ttl)
}

// InvalidateDay evicts the cached schedule for a date.
func (c *ScheduleCache) InvalidateDay(ctx context.Context, date time.Time) error {
	return c.cache.Delete(ctx, dayKey(date))
}
