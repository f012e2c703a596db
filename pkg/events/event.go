package events

import "time"

// Event type codes published on the internal bus.
const (
	TypeRequestTrace = "REQUEST_TRACE"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "REQUEST_TRACE").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation the bus adapters construct.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewRequestTrace wraps one finalized-request trace for publication.
func NewRequestTrace(data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Type:       TypeRequestTrace,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
