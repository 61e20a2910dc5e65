package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/veogen-api/internal/api/shared"
	"github.com/phrazzld/veogen-api/internal/service"
)

// VideoHandler handles video generation HTTP requests
type VideoHandler struct {
	videoService *service.VideoService
	maxDuration  int
	logger       *slog.Logger
}

// NewVideoHandler creates a new VideoHandler
func NewVideoHandler(videoService *service.VideoService, maxDuration int, logger *slog.Logger) *VideoHandler {
	if videoService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("video service cannot be nil for VideoHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for VideoHandler")
	}

	return &VideoHandler{
		videoService: videoService,
		maxDuration:  maxDuration,
		logger:       logger.With(slog.String("component", "video_handler")),
	}
}

// GenerateVideo handles POST /generate requests. It validates the payload,
// registers a task, and returns immediately; generation continues in the
// background.
func (h *VideoHandler) GenerateVideo(w http.ResponseWriter, r *http.Request) {
	var payload GenerateVideoRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(payload); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Prompt is required and must be at most 2000 characters")
		return
	}

	req := payload.ToDomain()
	if err := req.Validate(h.maxDuration); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	task, err := h.videoService.Create(r.Context(), req)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	h.logger.Info("video generation task accepted",
		slog.String("task_id", task.ID.String()),
		slog.Int("duration", req.Duration),
		slog.String("resolution", string(req.Resolution)))

	shared.RespondWithJSON(w, r, http.StatusOK, GenerateVideoResponse{
		TaskID:    task.ID.String(),
		Status:    string(task.Status),
		Message:   "Video generation started",
		CreatedAt: task.CreatedAt,
	})
}

// GetTaskStatus handles GET /status/{task_id} requests.
func (h *VideoHandler) GetTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.taskIDFromURL(w, r)
	if !ok {
		return
	}

	task, err := h.videoService.GetStatus(r.Context(), taskID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newTaskStatusResponse(task))
}

// ListTasks handles GET /tasks requests. The response maps task IDs to
// their current status views.
func (h *VideoHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.videoService.List(r.Context())
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	out := make(map[string]TaskStatusResponse, len(tasks))
	for _, t := range tasks {
		out[t.ID.String()] = newTaskStatusResponse(t)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{
		Tasks: out,
		Total: len(out),
	})
}

// CancelTask handles DELETE /tasks/{task_id} requests. Only non-terminal
// tasks can be cancelled.
func (h *VideoHandler) CancelTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.taskIDFromURL(w, r)
	if !ok {
		return
	}

	if err := h.videoService.Cancel(r.Context(), taskID); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	h.logger.Info("task cancelled", slog.String("task_id", taskID.String()))

	shared.RespondWithJSON(w, r, http.StatusOK, CancelTaskResponse{
		TaskID:  taskID.String(),
		Status:  "cancelled",
		Message: "Task cancelled",
	})
}

// taskIDFromURL parses the task_id path parameter, responding with 404 on a
// malformed ID. An ID that does not parse can never name an existing task,
// so not-found keeps the contract uniform.
func (h *VideoHandler) taskIDFromURL(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "task_id")
	taskID, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return uuid.Nil, false
	}
	return taskID, true
}

// ServiceInfo handles GET / requests.
func ServiceInfo(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, ServiceInfoResponse{
		Service: "veogen-api",
		Version: "1.0.0",
		Status:  "running",
	})
}

// HealthCheck handles GET /health requests.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status: "healthy",
		Time:   time.Now().UTC(),
	})
}
