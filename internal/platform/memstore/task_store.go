// Package memstore implements an in-memory TaskStore. Task state is
// ephemeral, it lives only for the duration of the server process; there is
// no eviction and no persistence across restarts.
package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/veogen-api/internal/domain"
	"github.com/phrazzld/veogen-api/internal/store"
)

// TaskStore holds all tasks in memory, protected by a mutex. Tasks are kept
// in a map for O(1) lookup plus an insertion-order slice for stable listing.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*domain.Task
	order []uuid.UUID
}

// Compile-time check that TaskStore satisfies the store interface.
var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates an empty task store.
func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make(map[uuid.UUID]*domain.Task),
	}
}

// Save inserts a new task record.
func (s *TaskStore) Save(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.ID]; ok {
		return fmt.Errorf("%w: %s", store.ErrTaskExists, task.ID)
	}

	s.tasks[task.ID] = task.Clone()
	s.order = append(s.order, task.ID)
	return nil
}

// Get returns a snapshot of the task with the given ID.
func (s *TaskStore) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrTaskNotFound, id)
	}
	return task.Clone(), nil
}

// List returns a snapshot of all task records in insertion order.
func (s *TaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Task, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.tasks[id].Clone())
	}
	return result, nil
}

// Transition advances a task to a non-terminal pipeline status.
func (s *TaskStore) Transition(
	ctx context.Context,
	id uuid.UUID,
	status domain.TaskStatus,
	progress int,
) error {
	if status.IsTerminal() {
		return fmt.Errorf(
			"%w: %s is terminal, use Complete, Fail, or Cancel",
			domain.ErrInvalidTransition,
			status,
		)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.mutableTask(id)
	if err != nil {
		return err
	}

	if !task.Status.CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, task.Status, status)
	}
	if progress < task.Progress {
		return fmt.Errorf("%w: %d -> %d", domain.ErrProgressNotMonotonic, task.Progress, progress)
	}

	task.Status = status
	task.Progress = progress
	return nil
}

// Complete marks a task completed with its final URLs.
func (s *TaskStore) Complete(ctx context.Context, id uuid.UUID, videoURL, thumbnailURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.mutableTask(id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	task.Status = domain.TaskStatusCompleted
	task.Progress = 100
	task.VideoURL = videoURL
	task.ThumbnailURL = thumbnailURL
	task.CompletedAt = &now
	return nil
}

// Fail marks a task failed with a human-readable cause.
func (s *TaskStore) Fail(ctx context.Context, id uuid.UUID, cause string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.mutableTask(id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	task.Status = domain.TaskStatusFailed
	task.ErrorMessage = cause
	task.CompletedAt = &now
	return nil
}

// Cancel marks a task cancelled. The terminal check under the lock
// guarantees that exactly one of a concurrent cancel and pipeline completion
// wins.
func (s *TaskStore) Cancel(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.mutableTask(id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	task.Status = domain.TaskStatusCancelled
	task.CompletedAt = &now
	return nil
}

// mutableTask returns the stored record for mutation. Caller must hold the
// write lock. Terminal records are refused: the store is the arbiter of the
// single-terminal-transition rule.
func (s *TaskStore) mutableTask(id uuid.UUID) (*domain.Task, error) {
	task, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrTaskNotFound, id)
	}
	if task.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: %s is %s", store.ErrTaskTerminal, id, task.Status)
	}
	return task, nil
}
