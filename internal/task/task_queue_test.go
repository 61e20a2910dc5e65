package task

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// mockTask implements the Task interface for testing
type mockTask struct {
	id     uuid.UUID
	execFn func(ctx context.Context) error
}

func (m *mockTask) ID() uuid.UUID {
	return m.id
}

func (m *mockTask) Type() string {
	return "mock"
}

func (m *mockTask) Execute(ctx context.Context) error {
	if m.execFn != nil {
		return m.execFn(ctx)
	}
	return nil
}

func newMockTask() *mockTask {
	return &mockTask{id: uuid.New()}
}

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func TestNewTaskQueue(t *testing.T) {
	queue := NewTaskQueue(10, setupTestLogger())

	assert.NotNil(t, queue)
	assert.Equal(t, 10, cap(queue.tasks))
	assert.False(t, queue.closed)
}

func TestEnqueue(t *testing.T) {
	queue := NewTaskQueue(2, setupTestLogger())

	assert.NoError(t, queue.Enqueue(newMockTask()))
	assert.NoError(t, queue.Enqueue(newMockTask()))

	// Queue is full now
	overflow := newMockTask()
	err := queue.Enqueue(overflow)
	assert.ErrorIs(t, err, ErrQueueFull)

	// Dequeue one item to make space
	<-queue.tasks
	assert.NoError(t, queue.Enqueue(overflow))
}

func TestClose(t *testing.T) {
	queue := NewTaskQueue(10, setupTestLogger())

	task := newMockTask()
	assert.NoError(t, queue.Enqueue(task))

	queue.Close()
	assert.ErrorIs(t, queue.Enqueue(newMockTask()), ErrQueueClosed)

	// Closing twice is a no-op
	queue.Close()

	// Buffered tasks remain readable after close
	received := <-queue.GetChannel()
	assert.Equal(t, task.ID(), received.ID())

	select {
	case _, ok := <-queue.GetChannel():
		assert.False(t, ok, "channel should be closed")
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timed out waiting for closed channel read")
	}
}

func TestConcurrentEnqueue(t *testing.T) {
	queue := NewTaskQueue(100, setupTestLogger())

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, queue.Enqueue(newMockTask()))
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, len(queue.tasks))
}
