package messaging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"
)

// recordingHandler collects the events it receives. Safe for use from the
// async worker pool.
type recordingHandler struct {
	mu     sync.Mutex
	events []shared.Event
	err    error
}

func (h *recordingHandler) HandleEvent(_ context.Context, event shared.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func (h *recordingHandler) received() []shared.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]shared.Event, len(h.events))
	copy(out, h.events)
	return out
}

func syncBus() *InMemoryEventBus {
	return NewInMemoryEventBus(InMemoryEventBusConfig{
		AsyncMode: false,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func scheduledEvent(sessionID int64) shared.SessionScheduledEvent {
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	return shared.NewSessionScheduledEvent(sessionID, date, shared.TimeSlot(1), 7, 10, []int64{101}, false)
}

func TestEventBus_DeliversToSubscribedType(t *testing.T) {
	bus := syncBus()
	handler := &recordingHandler{}
	assert.NoError(t, bus.Subscribe(shared.EventSessionScheduled, handler))

	assert.NoError(t, bus.Publish(scheduledEvent(1)))

	events := handler.received()
	assert.Len(t, events, 1)
	assert.Equal(t, shared.EventSessionScheduled, events[0].EventType())
}

func TestEventBus_IgnoresOtherTypes(t *testing.T) {
	bus := syncBus()
	handler := &recordingHandler{}
	assert.NoError(t, bus.Subscribe(shared.EventDayAutoAssigned, handler))

	assert.NoError(t, bus.Publish(scheduledEvent(1)))

	assert.Empty(t, handler.received())
}

func TestEventBus_SubscribeAllSeesEverything(t *testing.T) {
	bus := syncBus()
	handler := &recordingHandler{}
	assert.NoError(t, bus.SubscribeAll(handler))

	assert.NoError(t, bus.Publish(scheduledEvent(1)))
	assert.NoError(t, bus.Publish(scheduledEvent(2)))

	assert.Len(t, handler.received(), 2)
}

func TestEventBus_HandlerErrorDoesNotStopDelivery(t *testing.T) {
	bus := syncBus()
	failing := &recordingHandler{err: errors.New("boom")}
	healthy := &recordingHandler{}
	assert.NoError(t, bus.Subscribe(shared.EventSessionScheduled, failing))
	assert.NoError(t, bus.Subscribe(shared.EventSessionScheduled, healthy))

	assert.NoError(t, bus.Publish(scheduledEvent(1)))

	assert.Len(t, failing.received(), 1)
	assert.Len(t, healthy.received(), 1)
}

func TestEventBus_NilChecks(t *testing.T) {
	bus := syncBus()

	assert.Error(t, bus.Subscribe(shared.EventSessionScheduled, nil))
	assert.Error(t, bus.SubscribeAll(nil))
	assert.Error(t, bus.Publish(nil))
}

func TestEventBus_ClosedBusRejectsOperations(t *testing.T) {
	bus := syncBus()
	assert.NoError(t, bus.Close())

	handler := &recordingHandler{}
	assert.ErrorIs(t, bus.Subscribe(shared.EventSessionScheduled, handler), ErrEventBusClosed)
	assert.ErrorIs(t, bus.Publish(scheduledEvent(1)), ErrEventBusClosed)
	// Double close is a no-op.
	assert.NoError(t, bus.Close())
}

func TestEventBus_AsyncModeDeliversBeforeClose(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{
		AsyncMode:      true,
		WorkerPoolSize: 2,
		HandlerTimeout: time.Second,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	handler := &recordingHandler{}
	assert.NoError(t, bus.Subscribe(shared.EventSessionScheduled, handler))

	for i := int64(1); i <= 5; i++ {
		assert.NoError(t, bus.Publish(scheduledEvent(i)))
	}

	assert.Eventually(t, func() bool {
		return len(handler.received()) == 5
	}, 2*time.Second, 10*time.Millisecond)
	assert.NoError(t, bus.Close())
}
