package runner

import "github.com/sunbun/assistant/pkg/domain"

// EventType identifies the kind of run event.
type EventType string

const (
	// EventMetadata opens a run and carries the run ID.
	EventMetadata EventType = "metadata"
	// EventValues carries a full state snapshot.
	EventValues EventType = "values"
	// EventEnd closes a successful run.
	EventEnd EventType = "end"
	// EventError closes a failed run. The message is generic; detail stays
	// in the operator log.
	EventError EventType = "error"
)

// Event is one element of a run's progress stream.
type Event struct {
	Type  EventType     `json:"type"`
	RunID string        `json:"run_id"`
	State *domain.State `json:"state,omitempty"`
	Error string        `json:"error,omitempty"`
}

// Sink receives run events in order. Returning an error aborts the run.
type Sink func(Event) error
