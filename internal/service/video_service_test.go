package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/veogen-api/internal/domain"
	"github.com/phrazzld/veogen-api/internal/generation"
	"github.com/phrazzld/veogen-api/internal/platform/memstore"
	"github.com/phrazzld/veogen-api/internal/store"
	"github.com/phrazzld/veogen-api/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	result *generation.Result
	err    error
	delay  time.Duration
}

func (g *stubGenerator) GenerateVideo(
	ctx context.Context,
	prompt string,
	req domain.GenerationRequest,
) (*generation.Result, error) {
	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return g.result, g.err
}

type stubPublisher struct {
	url string
	err error
}

func (p *stubPublisher) Publish(
	ctx context.Context,
	payload []byte,
	format domain.VideoFormat,
) (string, error) {
	return p.url, p.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type fixture struct {
	service *VideoService
	store   *memstore.TaskStore
	queue   *task.TaskQueue
	runner  *task.Runner
}

func newFixture(t *testing.T, gen generation.Generator, queueSize int) *fixture {
	t.Helper()
	logger := testLogger()
	taskStore := memstore.NewTaskStore()
	queue := task.NewTaskQueue(queueSize, logger)
	runner := task.NewRunner(queue, task.RunnerConfig{WorkerCount: 2}, logger)

	svc, err := NewVideoService(
		taskStore,
		queue,
		gen,
		&stubPublisher{url: "https://cdn.example.com/videos/x.mp4"},
		nil,
		logger,
	)
	require.NoError(t, err)

	return &fixture{service: svc, store: taskStore, queue: queue, runner: runner}
}

func genRequest() domain.GenerationRequest {
	req := domain.GenerationRequest{Prompt: "a red balloon", AspectRatio: domain.AspectSquare}
	req.Normalize()
	return req
}

func waitForTerminal(t *testing.T, f *fixture, id uuid.UUID) *domain.Task {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		got, err := f.store.Get(context.Background(), id)
		require.NoError(t, err)
		if got.Status.IsTerminal() {
			return got
		}
		select {
		case <-deadline:
			t.Fatalf("task %s never reached a terminal status (last: %s)", id, got.Status)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestCreateReturnsImmediatelyWithProcessingStatus(t *testing.T) {
	gen := &stubGenerator{
		result: &generation.Result{DirectURL: "https://backend.example.com/v.mp4"},
		delay:  200 * time.Millisecond,
	}
	f := newFixture(t, gen, 10)
	// Runner not started: background work must not be required for Create
	// to return and for the record to be visible.

	created, err := f.service.Create(context.Background(), genRequest())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, domain.TaskStatusProcessing, created.Status)

	got, err := f.service.GetStatus(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusProcessing, got.Status)
	assert.Equal(t, 0, got.Progress)
}

func TestCreateIssuesUniqueIDs(t *testing.T) {
	gen := &stubGenerator{result: &generation.Result{DirectURL: "https://backend.example.com/v.mp4"}}
	f := newFixture(t, gen, 100)

	seen := make(map[uuid.UUID]bool)
	for i := 0; i < 20; i++ {
		created, err := f.service.Create(context.Background(), genRequest())
		require.NoError(t, err)
		assert.False(t, seen[created.ID], "task ID issued twice")
		seen[created.ID] = true
	}
}

func TestEndToEndCompletion(t *testing.T) {
	gen := &stubGenerator{result: &generation.Result{DirectURL: "https://backend.example.com/v.mp4"}}
	f := newFixture(t, gen, 10)
	f.runner.Start()
	defer func() {
		f.queue.Close()
		f.runner.Stop()
	}()

	created, err := f.service.Create(context.Background(), genRequest())
	require.NoError(t, err)

	got := waitForTerminal(t, f, created.ID)
	assert.Equal(t, domain.TaskStatusCompleted, got.Status)
	assert.NotEmpty(t, got.VideoURL)
	assert.Empty(t, got.ErrorMessage)
}

func TestEndToEndFailure(t *testing.T) {
	gen := &stubGenerator{err: generation.ErrBackendUnavailable}
	f := newFixture(t, gen, 10)
	f.runner.Start()
	defer func() {
		f.queue.Close()
		f.runner.Stop()
	}()

	created, err := f.service.Create(context.Background(), genRequest())
	require.NoError(t, err)

	got := waitForTerminal(t, f, created.ID)
	assert.Equal(t, domain.TaskStatusFailed, got.Status)
	assert.NotEmpty(t, got.ErrorMessage)
	assert.Empty(t, got.VideoURL)
}

func TestCreateRejectsWhenQueueFull(t *testing.T) {
	gen := &stubGenerator{result: &generation.Result{DirectURL: "https://backend.example.com/v.mp4"}}
	f := newFixture(t, gen, 1)
	// Runner not started, so the single queue slot stays occupied.

	_, err := f.service.Create(context.Background(), genRequest())
	require.NoError(t, err)

	_, err = f.service.Create(context.Background(), genRequest())
	assert.ErrorIs(t, err, ErrTooManyTasks)
}

func TestCreateRejectsAfterShutdown(t *testing.T) {
	gen := &stubGenerator{result: &generation.Result{DirectURL: "https://backend.example.com/v.mp4"}}
	f := newFixture(t, gen, 10)
	f.queue.Close()

	_, err := f.service.Create(context.Background(), genRequest())
	assert.ErrorIs(t, err, ErrServiceShuttingDown)
}

func TestGetStatusUnknownTask(t *testing.T) {
	gen := &stubGenerator{}
	f := newFixture(t, gen, 10)

	_, err := f.service.GetStatus(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestListReflectsAllCreatedTasks(t *testing.T) {
	gen := &stubGenerator{result: &generation.Result{DirectURL: "https://backend.example.com/v.mp4"}}
	f := newFixture(t, gen, 100)

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		created, err := f.service.Create(context.Background(), genRequest())
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	tasks, err := f.service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 5)
	for i, got := range tasks {
		assert.Equal(t, ids[i], got.ID)
	}
}

func TestCancelNonTerminalTask(t *testing.T) {
	gen := &stubGenerator{result: &generation.Result{DirectURL: "https://backend.example.com/v.mp4"}}
	f := newFixture(t, gen, 10)

	created, err := f.service.Create(context.Background(), genRequest())
	require.NoError(t, err)

	require.NoError(t, f.service.Cancel(context.Background(), created.ID))

	got, err := f.service.GetStatus(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCancelled, got.Status)
}

func TestCancelTerminalTaskConflicts(t *testing.T) {
	gen := &stubGenerator{result: &generation.Result{DirectURL: "https://backend.example.com/v.mp4"}}
	f := newFixture(t, gen, 10)
	f.runner.Start()
	defer func() {
		f.queue.Close()
		f.runner.Stop()
	}()

	created, err := f.service.Create(context.Background(), genRequest())
	require.NoError(t, err)
	waitForTerminal(t, f, created.ID)

	err = f.service.Cancel(context.Background(), created.ID)
	assert.ErrorIs(t, err, store.ErrTaskTerminal)

	// The record is untouched by the refused cancel.
	got, getErr := f.service.GetStatus(context.Background(), created.ID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.TaskStatusCompleted, got.Status)
	assert.NotEmpty(t, got.VideoURL)
}

func TestCancelUnknownTask(t *testing.T) {
	gen := &stubGenerator{}
	f := newFixture(t, gen, 10)

	err := f.service.Cancel(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}
