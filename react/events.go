package react

import (
	"sync"
	"time"
)

// EventKind labels a lifecycle event emitted during a run.
type EventKind string

const (
	EventRunStart      EventKind = "run_start"
	EventThinking      EventKind = "thinking"
	EventStepParsed    EventKind = "step_parsed"
	EventParseRetry    EventKind = "parse_retry"
	EventToolCallStart EventKind = "tool_call_start"
	EventToolCallEnd   EventKind = "tool_call_end"
	EventRepetition    EventKind = "repetition"
	EventWarning       EventKind = "warning"
	EventRunEnd        EventKind = "run_end"
)

// Event is one observable moment in a run.
type Event struct {
	Kind    EventKind      `json:"kind"`
	RunID   string         `json:"run_id"`
	Payload map[string]any `json:"payload,omitempty"`
	At      time.Time      `json:"at"`
}

// EventEmitter fans run events out to a consumer over a buffered channel.
// Emission never blocks the run: when the consumer falls behind and the
// buffer fills, events are dropped.
type EventEmitter struct {
	mu     sync.Mutex
	ch     chan Event
	closed bool
}

// NewEventEmitter creates an emitter with the given buffer size. Sizes
// below one get a default large enough for a full run at typical step
// counts.
func NewEventEmitter(buffer int) *EventEmitter {
	if buffer < 1 {
		buffer = 256
	}
	return &EventEmitter{ch: make(chan Event, buffer)}
}

// Emit delivers an event if there is room and the emitter is open.
func (e *EventEmitter) Emit(event Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	select {
	case e.ch <- event:
	default:
		// Consumer is behind; drop rather than stall the run.
	}
}

// Events returns the receive side of the event stream.
func (e *EventEmitter) Events() <-chan Event {
	return e.ch
}

// Close ends the stream. Safe to call more than once.
func (e *EventEmitter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	close(e.ch)
}
