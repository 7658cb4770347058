// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Each event marks something significant that happened
// in the scheduling domain.
const (
	// Scheduling events
	EventSessionScheduled EventType = "schedule.session_scheduled"
	EventDayAutoAssigned  EventType = "schedule.day_auto_assigned"

	// Reference data events
	EventInstructorRegistered EventType = "instructor.registered"
	EventStudentRegistered    EventType = "student.registered"
	EventSubjectRegistered    EventType = "subject.registered"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// EventPublisher publishes domain events to interested subscribers.
type EventPublisher interface {
	Publish(event Event) error
}

// EventHandler processes a published domain event.
type EventHandler interface {
	HandleEvent(ctx context.Context, event Event) error
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	ID            string    `json:"id"`
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event with a generated event ID.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		ID:          uuid.NewString(),
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// Scheduling Events
// ═══════════════════════════════════════════════════════════════════════════

// SessionScheduledEvent is emitted when a lesson session is committed,
// either manually or by the auto-assignment engine.
type SessionScheduledEvent struct {
	BaseEvent
	SessionID    int64     `json:"session_id"`
	Date         time.Time `json:"date"`
	TimeSlot     int       `json:"time_slot"`
	InstructorID int64     `json:"instructor_id"`
	SubjectID    int64     `json:"subject_id"`
	StudentIDs   []int64   `json:"student_ids"`
	AutoAssigned bool      `json:"auto_assigned"`
}

// NewSessionScheduledEvent creates a SessionScheduledEvent.
func NewSessionScheduledEvent(sessionID int64, date time.Time, slot TimeSlot, instructorID, subjectID int64, studentIDs []int64, auto bool) SessionScheduledEvent {
	return SessionScheduledEvent{
		BaseEvent:    NewBaseEvent(EventSessionScheduled, strconv.FormatInt(sessionID, 10)),
		SessionID:    sessionID,
		Date:         NormalizeDate(date),
		TimeSlot:     slot.Int(),
		InstructorID: instructorID,
		SubjectID:    subjectID,
		StudentIDs:   studentIDs,
		AutoAssigned: auto,
	}
}

// Payload implements Event interface.
func (e SessionScheduledEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id":    e.SessionID,
		"date":          e.Date.Format("2006-01-02"),
		"time_slot":     e.TimeSlot,
		"instructor_id": e.InstructorID,
		"subject_id":    e.SubjectID,
		"student_ids":   e.StudentIDs,
		"auto_assigned": e.AutoAssigned,
	}
}

// DayAutoAssignedEvent summarizes one completed auto-assignment run.
type DayAutoAssignedEvent struct {
	BaseEvent
	Date          time.Time `json:"date"`
	AssignedCount int       `json:"assigned_count"`
}

// NewDayAutoAssignedEvent creates a DayAutoAssignedEvent.
func NewDayAutoAssignedEvent(date time.Time, assignedCount int) DayAutoAssignedEvent {
	date = NormalizeDate(date)
	return DayAutoAssignedEvent{
		BaseEvent:     NewBaseEvent(EventDayAutoAssigned, date.Format("2006-01-02")),
		Date:          date,
		AssignedCount: assignedCount,
	}
}

// Payload implements Event interface.
func (e DayAutoAssignedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"date":           e.Date.Format("2006-01-02"),
		"assigned_count": e.AssignedCount,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Reference Data Events
// ═══════════════════════════════════════════════════════════════════════════

// InstructorRegisteredEvent is emitted when a new instructor is registered.
type InstructorRegisteredEvent struct {
	BaseEvent
	InstructorID int64   `json:"instructor_id"`
	Name         string  `json:"name"`
	SubjectIDs   []int64 `json:"subject_ids"`
}

// NewInstructorRegisteredEvent creates an InstructorRegisteredEvent.
func NewInstructorRegisteredEvent(instructorID int64, name string, subjectIDs []int64) InstructorRegisteredEvent {
	return InstructorRegisteredEvent{
		BaseEvent:    NewBaseEvent(EventInstructorRegistered, strconv.FormatInt(instructorID, 10)),
		InstructorID: instructorID,
		Name:         name,
		SubjectIDs:   subjectIDs,
	}
}

// Payload implements Event interface.
func (e InstructorRegisteredEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"instructor_id": e.InstructorID,
		"name":          e.Name,
		"subject_ids":   e.SubjectIDs,
	}
}

// StudentRegisteredEvent is emitted when a new student is registered.
type StudentRegisteredEvent struct {
	BaseEvent
	StudentID  int64   `json:"student_id"`
	Name       string  `json:"name"`
	SubjectIDs []int64 `json:"subject_ids"`
}

// NewStudentRegisteredEvent creates a StudentRegisteredEvent.
func NewStudentRegisteredEvent(studentID int64, name string, subjectIDs []int64) StudentRegisteredEvent {
	return StudentRegisteredEvent{
		BaseEvent:  NewBaseEvent(EventStudentRegistered, strconv.FormatInt(studentID, 10)),
		StudentID:  studentID,
		Name:       name,
		SubjectIDs: subjectIDs,
	}
}

// Payload implements Event interface.
func (e StudentRegisteredEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id":  e.StudentID,
		"name":        e.Name,
		"subject_ids": e.SubjectIDs,
	}
}

// SubjectRegisteredEvent is emitted when a new subject is registered.
type SubjectRegisteredEvent struct {
	BaseEvent
	SubjectID int64  `json:"subject_id"`
	Name      string `json:"name"`
}

// NewSubjectRegisteredEvent creates a SubjectRegisteredEvent.
func NewSubjectRegisteredEvent(subjectID int64, name string) SubjectRegisteredEvent {
	return SubjectRegisteredEvent{
		BaseEvent: NewBaseEvent(EventSubjectRegistered, strconv.FormatInt(subjectID, 10)),
		SubjectID: subjectID,
		Name:      name,
	}
}

// Payload implements Event interface.
func (e SubjectRegisteredEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"subject_id": e.SubjectID,
		"name":       e.Name,
	}
}
