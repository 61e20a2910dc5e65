package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/veogen-api/internal/domain"
	"github.com/phrazzld/veogen-api/internal/events"
	"github.com/phrazzld/veogen-api/internal/generation"
	"github.com/phrazzld/veogen-api/internal/store"
	"github.com/phrazzld/veogen-api/internal/task"
)

// VideoService orchestrates video generation tasks: it creates task records,
// schedules the background unit of work, and answers status, listing, and
// cancellation queries against the task store.
type VideoService struct {
	store     store.TaskStore
	queue     task.TaskQueueWriter
	generator generation.Generator
	publisher generation.Publisher
	emitter   events.EventEmitter
	logger    *slog.Logger
}

// NewVideoService creates a new VideoService with the given dependencies.
func NewVideoService(
	taskStore store.TaskStore,
	queue task.TaskQueueWriter,
	generator generation.Generator,
	publisher generation.Publisher,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (*VideoService, error) {
	if taskStore == nil {
		return nil, errors.New("task store cannot be nil")
	}
	if queue == nil {
		return nil, errors.New("task queue cannot be nil")
	}
	if generator == nil {
		return nil, errors.New("generator cannot be nil")
	}
	if publisher == nil {
		return nil, errors.New("publisher cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &VideoService{
		store:     taskStore,
		queue:     queue,
		generator: generator,
		publisher: publisher,
		emitter:   emitter,
		logger:    logger.With("component", "video_service"),
	}, nil
}

// Create inserts a new task record with status processing and schedules the
// background unit of work. The record is observable in the store before
// Create returns; the background work has not necessarily started yet.
//
// Admission is bounded: when the queue is full the request is rejected with
// ErrTooManyTasks and the record is marked failed so the store stays the
// single source of truth for every issued task ID.
func (s *VideoService) Create(ctx context.Context, req domain.GenerationRequest) (*domain.Task, error) {
	record, err := domain.NewTask(req)
	if err != nil {
		return nil, fmt.Errorf("failed to create task record: %w", err)
	}

	if err := s.store.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save task record: %w", err)
	}

	genTask, err := task.NewVideoGenerationTask(
		record.ID, req, s.store, s.generator, s.publisher, s.emitter, s.logger,
	)
	if err != nil {
		_ = s.store.Fail(ctx, record.ID, "internal error: could not construct background task")
		return nil, fmt.Errorf("failed to construct generation task: %w", err)
	}

	if err := s.queue.Enqueue(genTask); err != nil {
		cause := ErrTooManyTasks
		message := "rejected: server is at maximum concurrent tasks"
		if errors.Is(err, task.ErrQueueClosed) {
			cause = ErrServiceShuttingDown
			message = "rejected: server is shutting down"
		}

		_ = s.store.Fail(ctx, record.ID, message)
		s.logger.Warn("task admission rejected",
			"task_id", record.ID,
			"error", err)
		return nil, fmt.Errorf("%w: %v", cause, err)
	}

	s.logger.Info("generation task created",
		"task_id", record.ID,
		"prompt_length", len(req.Prompt),
		"aspect_ratio", req.AspectRatio,
		"duration", req.Duration)

	return record.Clone(), nil
}

// GetStatus returns a read-only snapshot of the task with the given ID.
// Fails with store.ErrTaskNotFound for unknown IDs.
func (s *VideoService) GetStatus(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.store.Get(ctx, id)
}

// List returns a snapshot of all task records at call time.
func (s *VideoService) List(ctx context.Context) ([]*domain.Task, error) {
	return s.store.List(ctx)
}

// Cancel marks a non-terminal task cancelled. Fails with
// store.ErrTaskNotFound for unknown IDs and store.ErrTaskTerminal when the
// task has already completed, failed, or been cancelled. Cancellation only
// flips the stored status; in-flight backend work is not interrupted.
func (s *VideoService) Cancel(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Cancel(ctx, id); err != nil {
		return err
	}

	s.logger.Info("task cancelled", "task_id", id)
	if s.emitter != nil {
		_ = s.emitter.EmitEvent(ctx, events.NewTaskStatusEvent(id, domain.TaskStatusCancelled, 0, ""))
	}
	return nil
}
