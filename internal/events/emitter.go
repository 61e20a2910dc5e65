package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/phrazzld/veogen-api/internal/domain"
)

// InMemoryEventEmitter is a simple implementation of the EventEmitter
// interface that stores registered handlers in memory and dispatches events
// to them synchronously.
type InMemoryEventEmitter struct {
	handlers []EventHandler
	mu       sync.RWMutex
	logger   *slog.Logger
}

// NewInMemoryEventEmitter creates a new instance of InMemoryEventEmitter.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	return &InMemoryEventEmitter{
		handlers: make([]EventHandler, 0),
		logger:   logger.With("component", "in_memory_event_emitter"),
	}
}

// RegisterHandler adds a new event handler to receive events.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
	e.logger.Debug("registered new event handler", "handler_count", len(e.handlers))
}

// EmitEvent publishes the given event to all registered handlers. If any
// handler returns an error, the event is still delivered to the remaining
// handlers and the first error encountered is returned.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *TaskStatusEvent) error {
	e.mu.RLock()
	handlers := make([]EventHandler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	e.logger.Debug("emitting task status event",
		"task_id", event.TaskID,
		"status", event.Status,
		"handler_count", len(handlers))

	var firstErr error
	for i, handler := range handlers {
		if err := handler.HandleEvent(ctx, event); err != nil {
			e.logger.Error("handler failed to process event",
				"error", err,
				"handler_index", i,
				"task_id", event.TaskID,
				"status", event.Status)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// LoggingHandler is an EventHandler that writes each task transition to the
// structured log. It is registered at wiring time so every terminal outcome
// is observable even with request logging disabled.
type LoggingHandler struct {
	logger *slog.Logger
}

// NewLoggingHandler creates a LoggingHandler writing to the given logger.
func NewLoggingHandler(logger *slog.Logger) *LoggingHandler {
	return &LoggingHandler{logger: logger.With("component", "task_events")}
}

// HandleEvent logs the transition. Failed tasks log at error level.
func (h *LoggingHandler) HandleEvent(ctx context.Context, event *TaskStatusEvent) error {
	attrs := []any{
		"task_id", event.TaskID,
		"status", event.Status,
		"progress", event.Progress,
	}
	if event.Detail != "" {
		attrs = append(attrs, "detail", event.Detail)
	}

	if event.Status == domain.TaskStatusFailed {
		h.logger.ErrorContext(ctx, "task reached terminal status", attrs...)
	} else {
		h.logger.InfoContext(ctx, "task status changed", attrs...)
	}
	return nil
}
