package timetracking

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/timeclock/backend/internal/domain/shared"
)

// Event types emitted by the session engine
const (
	EventTypeClockIn        = "timetracking.clock_in"
	EventTypeClockOut       = "timetracking.clock_out"
	EventTypeBreakStart     = "timetracking.break_start"
	EventTypeBreakEnd       = "timetracking.break_end"
	EventTypeProgressUpdate = "timetracking.progress_update"
)

const aggregateTypeTimeEntry = "TimeEntry"

// ClockInEvent is emitted when a new work session starts
type ClockInEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID  `json:"user_id"`
	Entry  *TimeEntry `json:"entry"`
	Forced bool       `json:"forced"`
}

// NewClockInEvent creates a ClockInEvent for the given entry
func NewClockInEvent(entry *TimeEntry, forced bool, at time.Time) *ClockInEvent {
	return &ClockInEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClockIn, aggregateTypeTimeEntry, entry.ID, at),
		UserID:          entry.UserID,
		Entry:           entry,
		Forced:          forced,
	}
}

// ClockOutEvent is emitted when a work session completes
type ClockOutEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID  `json:"user_id"`
	Entry  *TimeEntry `json:"entry"`
}

// NewClockOutEvent creates a ClockOutEvent for the given entry
func NewClockOutEvent(entry *TimeEntry, at time.Time) *ClockOutEvent {
	return &ClockOutEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClockOut, aggregateTypeTimeEntry, entry.ID, at),
		UserID:          entry.UserID,
		Entry:           entry,
	}
}

// BreakStartEvent is emitted when a break opens
type BreakStartEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID   `json:"user_id"`
	Break  BreakPeriod `json:"break"`
}

// NewBreakStartEvent creates a BreakStartEvent
func NewBreakStartEvent(entry *TimeEntry, brk BreakPeriod, at time.Time) *BreakStartEvent {
	return &BreakStartEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBreakStart, aggregateTypeTimeEntry, entry.ID, at),
		UserID:          entry.UserID,
		Break:           brk,
	}
}

// BreakEndEvent is emitted when a break closes
type BreakEndEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID   `json:"user_id"`
	Break  BreakPeriod `json:"break"`
}

// NewBreakEndEvent creates a BreakEndEvent
func NewBreakEndEvent(entry *TimeEntry, brk BreakPeriod, at time.Time) *BreakEndEvent {
	return &BreakEndEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBreakEnd, aggregateTypeTimeEntry, entry.ID, at),
		UserID:          entry.UserID,
		Break:           brk,
	}
}

// ProgressUpdateEvent carries a periodic snapshot of today's progress
type ProgressUpdateEvent struct {
	shared.BaseDomainEvent
	UserID  uuid.UUID       `json:"user_id"`
	Payload json.RawMessage `json:"payload"`
}

// NewProgressUpdateEvent creates a ProgressUpdateEvent
func NewProgressUpdateEvent(entryID, userID uuid.UUID, payload json.RawMessage, at time.Time) *ProgressUpdateEvent {
	return &ProgressUpdateEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProgressUpdate, aggregateTypeTimeEntry, entryID, at),
		UserID:          userID,
		Payload:         payload,
	}
}

// RealTimeUpdate is the wire form of an engine event, delivered to local
// subscribers and broadcast to other running instances that share the store.
type RealTimeUpdate struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	UserID    uuid.UUID       `json:"user_id"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// NewRealTimeUpdate builds the broadcast form of an event. The payload is
// marshalled best-effort; a marshal failure produces an update with an empty
// payload rather than an error.
func NewRealTimeUpdate(eventType string, userID uuid.UUID, at time.Time, payload any) RealTimeUpdate {
	update := RealTimeUpdate{
		Type:      eventType,
		Timestamp: at,
		UserID:    userID,
	}
	if payload != nil {
		if raw, err := json.Marshal(payload); err == nil {
			update.Payload = raw
		}
	}
	return update
}
