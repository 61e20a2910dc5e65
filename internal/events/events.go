package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/veogen-api/internal/domain"
)

// TaskStatusEvent records a task reaching a new status. Events let
// interested components (logging, future metrics or webhooks) observe the
// task lifecycle without direct dependencies on the task pipeline.
type TaskStatusEvent struct {
	// TaskID identifies the task the event belongs to
	TaskID uuid.UUID `json:"task_id"`

	// Status is the status the task just reached
	Status domain.TaskStatus `json:"status"`

	// Progress is the task's progress percentage at the time of the event
	Progress int `json:"progress"`

	// Detail carries the error message for failed tasks or the video URL
	// for completed ones; empty otherwise
	Detail string `json:"detail,omitempty"`

	// OccurredAt is the timestamp when the transition happened
	OccurredAt time.Time `json:"occurred_at"`
}

// NewTaskStatusEvent creates an event for the given transition, stamped now.
func NewTaskStatusEvent(taskID uuid.UUID, status domain.TaskStatus, progress int, detail string) *TaskStatusEvent {
	return &TaskStatusEvent{
		TaskID:     taskID,
		Status:     status,
		Progress:   progress,
		Detail:     detail,
		OccurredAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *TaskStatusEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows the task pipeline to publish transitions without direct
// knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *TaskStatusEvent) error
}
