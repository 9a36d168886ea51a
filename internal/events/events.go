// Package events provides a small in-process pub/sub used to decouple task
// mutations from their downstream effects (notifications).
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Known event types
const (
	// EventTaskStatusChanged is emitted after an accepted status transition
	// has been durably written. No-op transitions never emit it.
	EventTaskStatusChanged = "task_status_changed"
)

// Event is a typed envelope with a JSON payload. Payloads stay serialized so
// emitters and handlers share no struct dependencies.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type indicates what happened (e.g. EventTaskStatusChanged)
	Type string `json:"type"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates a new Event with the specified type and payload.
func NewEvent(eventType string, payload any) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// TaskStatusChangedPayload is the payload of an EventTaskStatusChanged event.
type TaskStatusChangedPayload struct {
	TaskID     uuid.UUID  `json:"task_id"`
	TaskTitle  string     `json:"task_title"`
	AssigneeID *uuid.UUID `json:"assignee_id,omitempty"`
	OldStatus  string     `json:"old_status"`
	NewStatus  string     `json:"new_status"`
}

// EventHandler defines an interface for components that can handle events.
// Handlers are responsible for processing events and taking appropriate actions.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *Event) error
}
