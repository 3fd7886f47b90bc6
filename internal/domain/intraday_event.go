package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// EventType tags an intraday event with the action boundary that produced it.
type EventType string

// Known event types.
const (
	EventTypeDecay   EventType = "decay"
	EventTypeTask    EventType = "task"
	EventTypeGame    EventType = "game"
	EventTypeDetox   EventType = "detox"
	EventTypeWalking EventType = "walking"
	EventTypeAppOpen EventType = "app_open"
)

// Valid reports whether the event type is one of the known tags.
func (t EventType) Valid() bool {
	switch t {
	case EventTypeDecay, EventTypeTask, EventTypeGame, EventTypeDetox,
		EventTypeWalking, EventTypeAppOpen:
		return true
	default:
		return false
	}
}

// Common validation errors for IntradayEvent.
var (
	ErrEmptyEventID     = errors.New("intraday event ID cannot be empty")
	ErrEmptyEventUserID = errors.New("intraday event user ID cannot be empty")
)

// MetricCapture is a best-effort reading of the four derived metrics at a
// single instant. Any field may be nil if the metric had not been computed
// when the event fired.
type MetricCapture struct {
	Recovery  *float64 `json:"recovery"`
	Sharpness *float64 `json:"sharpness"`
	Readiness *float64 `json:"readiness"`
	Reasoning *float64 `json:"reasoning"`
}

// IntradayEvent is one append-only log entry recorded at an action boundary.
// Events are immutable once written; intraday charts are reconstructed by
// range-querying them in timestamp order.
type IntradayEvent struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Type       EventType       `json:"type"`
	Metrics    MetricCapture   `json:"metrics"`
	Detail     json.RawMessage `json:"detail,omitempty"` // Free-form event payload
}

// NewIntradayEvent creates an event with a fresh ID.
func NewIntradayEvent(
	userID uuid.UUID,
	occurredAt time.Time,
	eventType EventType,
	metrics MetricCapture,
	detail json.RawMessage,
) (*IntradayEvent, error) {
	event := &IntradayEvent{
		ID:         uuid.New(),
		UserID:     userID,
		OccurredAt: occurredAt,
		Type:       eventType,
		Metrics:    metrics,
		Detail:     detail,
	}

	if err := event.Validate(); err != nil {
		return nil, err
	}

	return event, nil
}

// Validate checks if the IntradayEvent has valid data.
func (e *IntradayEvent) Validate() error {
	if e.ID == uuid.Nil {
		return ErrEmptyEventID
	}

	if e.UserID == uuid.Nil {
		return ErrEmptyEventUserID
	}

	if !e.Type.Valid() {
		return ErrInvalidEventType
	}

	return nil
}
