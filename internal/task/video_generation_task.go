package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/veogen-api/internal/domain"
	"github.com/phrazzld/veogen-api/internal/events"
	"github.com/phrazzld/veogen-api/internal/generation"
	"github.com/phrazzld/veogen-api/internal/redact"
	"github.com/phrazzld/veogen-api/internal/store"
)

// Progress checkpoints for the generation pipeline.
const (
	progressAnalyzing  = 10
	progressGenerating = 30
	progressFinalizing = 80
)

// Common errors
var (
	ErrNilStore     = errors.New("task store cannot be nil")
	ErrNilGenerator = errors.New("generator cannot be nil")
	ErrNilPublisher = errors.New("publisher cannot be nil")
	ErrNilLogger    = errors.New("logger cannot be nil")
	ErrEmptyTaskID  = errors.New("task ID cannot be empty")
)

// VideoGenerationTask implements the Task interface for one video generation
// request. It is the single background writer for its task record: every
// status change goes through the store, which refuses mutations once the
// record is terminal, so an external cancellation simply wins the race and
// the pipeline abandons its work at the next checkpoint.
type VideoGenerationTask struct {
	taskID    uuid.UUID
	request   domain.GenerationRequest
	store     store.TaskStore
	generator generation.Generator
	publisher generation.Publisher
	emitter   events.EventEmitter
	logger    *slog.Logger
}

// NewVideoGenerationTask creates the background unit of work for an already
// saved task record.
func NewVideoGenerationTask(
	taskID uuid.UUID,
	request domain.GenerationRequest,
	taskStore store.TaskStore,
	generator generation.Generator,
	publisher generation.Publisher,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (*VideoGenerationTask, error) {
	if taskID == uuid.Nil {
		return nil, ErrEmptyTaskID
	}
	if taskStore == nil {
		return nil, ErrNilStore
	}
	if generator == nil {
		return nil, ErrNilGenerator
	}
	if publisher == nil {
		return nil, ErrNilPublisher
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &VideoGenerationTask{
		taskID:    taskID,
		request:   request,
		store:     taskStore,
		generator: generator,
		publisher: publisher,
		emitter:   emitter,
		logger:    logger.With("task_type", TaskTypeVideoGeneration, "task_id", taskID),
	}, nil
}

// ID returns the task's unique identifier. It is the same ID as the task
// record in the store.
func (t *VideoGenerationTask) ID() uuid.UUID {
	return t.taskID
}

// Type returns the task type identifier
func (t *VideoGenerationTask) Type() string {
	return TaskTypeVideoGeneration
}

// Execute runs the generation pipeline: enhance the prompt, drive the
// backend's long-running operation, republish the result, and record the
// terminal outcome. Any failure is converted into a failed task record; it
// never propagates beyond this task.
func (t *VideoGenerationTask) Execute(ctx context.Context) error {
	t.logger.Info("starting video generation")

	if !t.advance(ctx, domain.TaskStatusAnalyzingPrompt, progressAnalyzing) {
		return nil
	}

	prompt := generation.EnhancePrompt(t.request)
	t.logger.Debug("prompt enhanced", "prompt_length", len(prompt))

	if !t.advance(ctx, domain.TaskStatusGenerating, progressGenerating) {
		return nil
	}

	result, err := t.generator.GenerateVideo(ctx, prompt, t.request)
	if err != nil {
		return t.fail(ctx, fmt.Errorf("video generation failed: %w", err))
	}

	if !t.advance(ctx, domain.TaskStatusFinalizing, progressFinalizing) {
		return nil
	}

	videoURL := result.DirectURL
	if videoURL == "" {
		videoURL, err = t.publisher.Publish(ctx, result.Payload, t.request.Format)
		if err != nil {
			return t.fail(ctx, fmt.Errorf("failed to publish video: %w", err))
		}
	}

	if err := t.store.Complete(ctx, t.taskID, videoURL, result.ThumbnailURL); err != nil {
		if errors.Is(err, store.ErrTaskTerminal) {
			t.logger.Info("task cancelled before completion, abandoning result")
			return nil
		}
		return t.fail(ctx, fmt.Errorf("failed to record completion: %w", err))
	}

	t.emit(ctx, domain.TaskStatusCompleted, 100, videoURL)
	t.logger.Info("video generation completed", "video_url", videoURL)
	return nil
}

// advance moves the task record to the next pipeline status. It returns
// false when the record has gone terminal underneath us, which means an
// external cancellation won; the pipeline stops without treating it as an
// error.
func (t *VideoGenerationTask) advance(ctx context.Context, status domain.TaskStatus, progress int) bool {
	err := t.store.Transition(ctx, t.taskID, status, progress)
	if err == nil {
		t.emit(ctx, status, progress, "")
		return true
	}

	if errors.Is(err, store.ErrTaskTerminal) {
		t.logger.Info("task went terminal externally, abandoning pipeline", "next_status", status)
		return false
	}

	// Any other store error is unexpected; record it and stop.
	_ = t.fail(ctx, fmt.Errorf("failed to update task status: %w", err))
	return false
}

// fail records the terminal failed state with a human-readable cause. If the
// record is already terminal (cancelled, or the rare cancel-vs-fail race),
// the existing terminal state stands. The stored message is redacted because
// the record is served back to API clients.
func (t *VideoGenerationTask) fail(ctx context.Context, cause error) error {
	t.logger.Error("video generation failed", "error", cause)

	message := redact.Error(cause)
	if err := t.store.Fail(ctx, t.taskID, message); err != nil {
		if errors.Is(err, store.ErrTaskTerminal) {
			t.logger.Info("task already terminal, keeping existing state")
			return nil
		}
		t.logger.Error("failed to record task failure", "error", err)
	}

	t.emit(ctx, domain.TaskStatusFailed, 0, message)
	return cause
}

// emit publishes a status event; event delivery failures are logged by the
// emitter and never affect the pipeline.
func (t *VideoGenerationTask) emit(ctx context.Context, status domain.TaskStatus, progress int, detail string) {
	if t.emitter == nil {
		return
	}
	_ = t.emitter.EmitEvent(ctx, events.NewTaskStatusEvent(t.taskID, status, progress, detail))
}
