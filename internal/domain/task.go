package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the processing state of a video generation task
type TaskStatus string

// Possible task status values
const (
	TaskStatusProcessing      TaskStatus = "processing"
	TaskStatusAnalyzingPrompt TaskStatus = "analyzing_prompt"
	TaskStatusGenerating      TaskStatus = "generating"
	TaskStatusFinalizing      TaskStatus = "finalizing"
	TaskStatusCompleted       TaskStatus = "completed"
	TaskStatusFailed          TaskStatus = "failed"
	TaskStatusCancelled       TaskStatus = "cancelled"
)

// Common validation errors for Task
var (
	ErrEmptyTaskID          = errors.New("task ID cannot be empty")
	ErrInvalidTaskStatus    = errors.New("invalid task status")
	ErrInvalidTransition    = errors.New("invalid task status transition")
	ErrTerminalTask         = errors.New("task is in a terminal status")
	ErrProgressNotMonotonic = errors.New("task progress cannot decrease")
)

// statusRank orders the non-terminal pipeline statuses so that forward-only
// transitions can be checked. Terminal statuses are handled separately.
var statusRank = map[TaskStatus]int{
	TaskStatusProcessing:      0,
	TaskStatusAnalyzingPrompt: 1,
	TaskStatusGenerating:      2,
	TaskStatusFinalizing:      3,
}

// Task represents one user-initiated video generation request tracked from
// submission to terminal outcome. It is the only entity in the system and
// lives purely in memory.
type Task struct {
	ID           uuid.UUID         `json:"id"`
	Status       TaskStatus        `json:"status"`
	Progress     int               `json:"progress"`
	VideoURL     string            `json:"video_url,omitempty"`
	ThumbnailURL string            `json:"thumbnail_url,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty"`
	Request      GenerationRequest `json:"request"`
	CreatedAt    time.Time         `json:"created_at"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
}

// NewTask creates a new Task for the given request snapshot. It generates a
// fresh UUID, sets the status to processing with zero progress, and stamps
// the creation time.
func NewTask(req GenerationRequest) (*Task, error) {
	task := &Task{
		ID:        uuid.New(),
		Status:    TaskStatusProcessing,
		Progress:  0,
		Request:   req,
		CreatedAt: time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if !IsValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}

	return nil
}

// IsTerminal reports whether the status permits no further transitions.
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case TaskStatusCompleted, TaskStatusFailed, TaskStatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether moving from s to next follows the task
// state machine: the pipeline statuses advance forward only, any non-terminal
// status may move to a terminal one, and terminal statuses accept nothing.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	if s.IsTerminal() {
		return false
	}

	if next.IsTerminal() {
		return true
	}

	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}

	return to > from
}

// IsValidTaskStatus checks if the given status is a valid TaskStatus.
func IsValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusProcessing, TaskStatusAnalyzingPrompt, TaskStatusGenerating,
		TaskStatusFinalizing, TaskStatusCompleted, TaskStatusFailed, TaskStatusCancelled:
		return true
	default:
		return false
	}
}

// Clone returns a copy of the task so callers can read fields without racing
// against the background worker that owns the record.
func (t *Task) Clone() *Task {
	clone := *t
	if t.CompletedAt != nil {
		completedAt := *t.CompletedAt
		clone.CompletedAt = &completedAt
	}
	return &clone
}
