package memstore

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/veogen-api/internal/domain"
	"github.com/phrazzld/veogen-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(t *testing.T) *domain.Task {
	t.Helper()
	req := domain.GenerationRequest{Prompt: "a red balloon"}
	req.Normalize()
	task, err := domain.NewTask(req)
	require.NoError(t, err)
	return task
}

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewTaskStore()
	task := newTask(t)

	require.NoError(t, s.Save(ctx, task))

	got, err := s.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, domain.TaskStatusProcessing, got.Status)

	// The returned snapshot must not alias store memory.
	got.Status = domain.TaskStatusFailed
	again, err := s.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusProcessing, again.Status)
}

func TestSaveDuplicateID(t *testing.T) {
	ctx := context.Background()
	s := NewTaskStore()
	task := newTask(t)

	require.NoError(t, s.Save(ctx, task))
	assert.ErrorIs(t, s.Save(ctx, task), store.ErrTaskExists)
}

func TestGetUnknownTask(t *testing.T) {
	s := NewTaskStore()
	_, err := s.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestListReturnsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewTaskStore()

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		task := newTask(t)
		require.NoError(t, s.Save(ctx, task))
		ids = append(ids, task.ID)
	}

	tasks, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 5)
	for i, task := range tasks {
		assert.Equal(t, ids[i], task.ID)
	}
}

func TestTransitionAdvancesPipeline(t *testing.T) {
	ctx := context.Background()
	s := NewTaskStore()
	task := newTask(t)
	require.NoError(t, s.Save(ctx, task))

	require.NoError(t, s.Transition(ctx, task.ID, domain.TaskStatusAnalyzingPrompt, 10))
	require.NoError(t, s.Transition(ctx, task.ID, domain.TaskStatusGenerating, 30))
	require.NoError(t, s.Transition(ctx, task.ID, domain.TaskStatusFinalizing, 80))

	got, err := s.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusFinalizing, got.Status)
	assert.Equal(t, 80, got.Progress)
}

func TestTransitionRejectsBackwardMoves(t *testing.T) {
	ctx := context.Background()
	s := NewTaskStore()
	task := newTask(t)
	require.NoError(t, s.Save(ctx, task))

	require.NoError(t, s.Transition(ctx, task.ID, domain.TaskStatusGenerating, 30))

	err := s.Transition(ctx, task.ID, domain.TaskStatusAnalyzingPrompt, 40)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	err = s.Transition(ctx, task.ID, domain.TaskStatusFinalizing, 20)
	assert.ErrorIs(t, err, domain.ErrProgressNotMonotonic)
}

func TestTransitionRejectsTerminalStatus(t *testing.T) {
	ctx := context.Background()
	s := NewTaskStore()
	task := newTask(t)
	require.NoError(t, s.Save(ctx, task))

	err := s.Transition(ctx, task.ID, domain.TaskStatusCompleted, 100)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCompleteSetsResultFields(t *testing.T) {
	ctx := context.Background()
	s := NewTaskStore()
	task := newTask(t)
	require.NoError(t, s.Save(ctx, task))

	require.NoError(
		t,
		s.Complete(ctx, task.ID, "https://cdn.example.com/v.mp4", "https://cdn.example.com/v.jpg"),
	)

	got, err := s.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, got.Status)
	assert.Equal(t, 100, got.Progress)
	assert.Equal(t, "https://cdn.example.com/v.mp4", got.VideoURL)
	assert.Equal(t, "https://cdn.example.com/v.jpg", got.ThumbnailURL)
	assert.Empty(t, got.ErrorMessage)
	assert.NotNil(t, got.CompletedAt)
}

func TestFailSetsCause(t *testing.T) {
	ctx := context.Background()
	s := NewTaskStore()
	task := newTask(t)
	require.NoError(t, s.Save(ctx, task))

	require.NoError(t, s.Fail(ctx, task.ID, "backend rejected the request"))

	got, err := s.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusFailed, got.Status)
	assert.Equal(t, "backend rejected the request", got.ErrorMessage)
	assert.Empty(t, got.VideoURL)
	assert.NotNil(t, got.CompletedAt)
}

func TestTerminalTasksRefuseFurtherMutation(t *testing.T) {
	ctx := context.Background()
	s := NewTaskStore()
	task := newTask(t)
	require.NoError(t, s.Save(ctx, task))
	require.NoError(t, s.Complete(ctx, task.ID, "https://cdn.example.com/v.mp4", ""))

	assert.ErrorIs(t, s.Fail(ctx, task.ID, "late failure"), store.ErrTaskTerminal)
	assert.ErrorIs(t, s.Cancel(ctx, task.ID), store.ErrTaskTerminal)
	assert.ErrorIs(
		t,
		s.Transition(ctx, task.ID, domain.TaskStatusFinalizing, 80),
		store.ErrTaskTerminal,
	)

	// A completed task never gains an error message.
	got, err := s.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, got.ErrorMessage)
	assert.NotEmpty(t, got.VideoURL)
}

func TestCancelNonTerminalTask(t *testing.T) {
	ctx := context.Background()
	s := NewTaskStore()
	task := newTask(t)
	require.NoError(t, s.Save(ctx, task))
	require.NoError(t, s.Transition(ctx, task.ID, domain.TaskStatusGenerating, 30))

	require.NoError(t, s.Cancel(ctx, task.ID))

	got, err := s.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCancelled, got.Status)
	assert.NotNil(t, got.CompletedAt)
}

func TestCancelCompleteRaceHasOneWinner(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		s := NewTaskStore()
		task := newTask(t)
		require.NoError(t, s.Save(ctx, task))

		var wg sync.WaitGroup
		var cancelErr, completeErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			cancelErr = s.Cancel(ctx, task.ID)
		}()
		go func() {
			defer wg.Done()
			completeErr = s.Complete(ctx, task.ID, "https://cdn.example.com/v.mp4", "")
		}()
		wg.Wait()

		// Exactly one of the two writers wins; the loser sees ErrTaskTerminal.
		if cancelErr == nil {
			assert.ErrorIs(t, completeErr, store.ErrTaskTerminal)
		} else {
			assert.ErrorIs(t, cancelErr, store.ErrTaskTerminal)
			assert.NoError(t, completeErr)
		}

		got, err := s.Get(ctx, task.ID)
		require.NoError(t, err)
		if cancelErr == nil {
			assert.Equal(t, domain.TaskStatusCancelled, got.Status)
			assert.Empty(t, got.VideoURL)
		} else {
			assert.Equal(t, domain.TaskStatusCompleted, got.Status)
			assert.NotEmpty(t, got.VideoURL)
		}
	}
}
