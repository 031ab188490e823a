package events

import "time"

// StateChangeEvent describes a single store mutation. UpdatedAt carries the
// logical clock value after the mutation, which is all an observer needs to
// decide whether the change is newer than what it has already processed.
type StateChangeEvent struct {
	// Op names the mutation that produced the change (e.g. "create_deck").
	Op string

	// UpdatedAt is the store's logical clock after the mutation,
	// in milliseconds since epoch.
	UpdatedAt int64

	// OccurredAt is the wall-clock time the event was emitted.
	OccurredAt time.Time
}

// Handler receives state-change events. Handlers run synchronously on the
// mutating goroutine and must not call back into the store while handling
// an event; schedule follow-up work instead.
type Handler interface {
	HandleStateChange(event StateChangeEvent)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(event StateChangeEvent)

// HandleStateChange implements Handler.
func (f HandlerFunc) HandleStateChange(event StateChangeEvent) {
	f(event)
}

// Emitter publishes state-change events to registered handlers.
type Emitter interface {
	Emit(event StateChangeEvent)
}
