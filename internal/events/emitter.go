package events

import (
	"log/slog"
	"sync"
)

// InMemoryEmitter is a simple Emitter implementation that keeps registered
// handlers in memory and dispatches events to them synchronously.
type InMemoryEmitter struct {
	handlers []Handler
	mu       sync.RWMutex
	logger   *slog.Logger
}

// NewInMemoryEmitter creates a new InMemoryEmitter.
func NewInMemoryEmitter(logger *slog.Logger) *InMemoryEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEmitter{
		handlers: make([]Handler, 0),
		logger:   logger.With(slog.String("component", "event_emitter")),
	}
}

// RegisterHandler adds a new handler to receive future events.
func (e *InMemoryEmitter) RegisterHandler(handler Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
	e.logger.Debug("registered state change handler", "handler_count", len(e.handlers))
}

// Emit publishes the event to all registered handlers in registration
// order. Every handler sees every event.
func (e *InMemoryEmitter) Emit(event StateChangeEvent) {
	e.mu.RLock()
	handlers := make([]Handler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	e.logger.Debug("emitting state change",
		"op", event.Op,
		"updated_at", event.UpdatedAt,
		"handler_count", len(handlers))

	for _, handler := range handlers {
		handler.HandleStateChange(event)
	}
}
