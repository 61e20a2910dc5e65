package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/phrazzld/veogen-api/internal/domain"
)

// Common errors returned by TaskStore implementations
var (
	// ErrTaskNotFound is returned when no task exists for the given ID
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskExists is returned when saving a task whose ID is already taken
	ErrTaskExists = errors.New("task already exists")

	// ErrTaskTerminal is returned when a mutation targets a task that has
	// already reached a terminal status
	ErrTaskTerminal = errors.New("task already in terminal status")
)

// TaskStore is the single source of truth for task state. Implementations
// must be safe for concurrent use: each task has one background writer plus
// the external cancellation path, and every mutation is a compare-and-set
// that refuses to touch a record once it is terminal.
//
// All reads return copies; callers never observe a record aliased to the
// store's own memory.
// Version: 1.0
type TaskStore interface {
	// Save inserts a new task record.
	Save(ctx context.Context, task *domain.Task) error

	// Get returns a snapshot of the task with the given ID.
	Get(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List returns a snapshot of all task records at call time.
	List(ctx context.Context) ([]*domain.Task, error)

	// Transition advances a task to a non-terminal pipeline status with the
	// given progress. Fails with ErrTaskTerminal if the task has already
	// reached a terminal status, and with domain.ErrInvalidTransition if
	// the move violates the state machine.
	Transition(ctx context.Context, id uuid.UUID, status domain.TaskStatus, progress int) error

	// Complete marks a task completed with its final URLs, progress 100,
	// and a completion timestamp. Fails with ErrTaskTerminal if the task is
	// already terminal.
	Complete(ctx context.Context, id uuid.UUID, videoURL, thumbnailURL string) error

	// Fail marks a task failed with a human-readable cause and a completion
	// timestamp. Fails with ErrTaskTerminal if the task is already terminal.
	Fail(ctx context.Context, id uuid.UUID, cause string) error

	// Cancel marks a task cancelled. Fails with ErrTaskTerminal if the task
	// is already terminal, so exactly one of a concurrent cancel and a
	// terminal transition wins.
	Cancel(ctx context.Context, id uuid.UUID) error
}
