package events

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/veogen-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	events []*TaskStatusEvent
	err    error
}

func (h *recordingHandler) HandleEvent(ctx context.Context, event *TaskStatusEvent) error {
	h.events = append(h.events, event)
	return h.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestEmitEventDeliversToAllHandlers(t *testing.T) {
	emitter := NewInMemoryEventEmitter(testLogger())
	first := &recordingHandler{}
	second := &recordingHandler{}
	emitter.RegisterHandler(first)
	emitter.RegisterHandler(second)

	event := NewTaskStatusEvent(uuid.New(), domain.TaskStatusGenerating, 30, "")
	require.NoError(t, emitter.EmitEvent(context.Background(), event))

	require.Len(t, first.events, 1)
	require.Len(t, second.events, 1)
	assert.Equal(t, event.TaskID, first.events[0].TaskID)
	assert.Equal(t, domain.TaskStatusGenerating, second.events[0].Status)
}

func TestEmitEventContinuesPastFailingHandler(t *testing.T) {
	emitter := NewInMemoryEventEmitter(testLogger())
	failing := &recordingHandler{err: errors.New("handler boom")}
	healthy := &recordingHandler{}
	emitter.RegisterHandler(failing)
	emitter.RegisterHandler(healthy)

	event := NewTaskStatusEvent(uuid.New(), domain.TaskStatusFailed, 30, "backend unavailable")
	err := emitter.EmitEvent(context.Background(), event)

	assert.EqualError(t, err, "handler boom")
	assert.Len(t, healthy.events, 1, "remaining handlers still receive the event")
}

func TestEmitEventWithNoHandlers(t *testing.T) {
	emitter := NewInMemoryEventEmitter(testLogger())
	event := NewTaskStatusEvent(uuid.New(), domain.TaskStatusCompleted, 100, "")
	assert.NoError(t, emitter.EmitEvent(context.Background(), event))
}

func TestLoggingHandlerNeverFails(t *testing.T) {
	handler := NewLoggingHandler(testLogger())

	completed := NewTaskStatusEvent(uuid.New(), domain.TaskStatusCompleted, 100, "https://cdn.example.com/v.mp4")
	failed := NewTaskStatusEvent(uuid.New(), domain.TaskStatusFailed, 30, "timed out")

	assert.NoError(t, handler.HandleEvent(context.Background(), completed))
	assert.NoError(t, handler.HandleEvent(context.Background(), failed))
}
