// Package api provides HTTP handlers for the API.
package api

import (
	"time"

	"github.com/phrazzld/veogen-api/internal/domain"
)

// Common request/response structures

// GenerateVideoRequest defines the payload for the video generation endpoint.
// Zero-valued optional fields take schema defaults; enum and range checks are
// delegated to the domain so the API and the pipeline agree on one rule set.
type GenerateVideoRequest struct {
	Prompt      string `json:"prompt"       validate:"required,max=2000"`
	Duration    int    `json:"duration,omitempty"`
	Resolution  string `json:"resolution,omitempty"`
	Quality     string `json:"quality,omitempty"`
	AspectRatio string `json:"aspect_ratio,omitempty"`
	Format      string `json:"format,omitempty"`
	FPS         int    `json:"fps,omitempty"`
	Style       string `json:"style,omitempty"`
}

// ToDomain converts the payload to a normalized domain request snapshot.
func (r GenerateVideoRequest) ToDomain() domain.GenerationRequest {
	req := domain.GenerationRequest{
		Prompt:      r.Prompt,
		Duration:    r.Duration,
		Resolution:  domain.VideoResolution(r.Resolution),
		Quality:     domain.VideoQuality(r.Quality),
		AspectRatio: domain.AspectRatio(r.AspectRatio),
		Format:      domain.VideoFormat(r.Format),
		FPS:         r.FPS,
		Style:       r.Style,
	}
	req.Normalize()
	return req
}

// GenerateVideoResponse defines the immediate response for an accepted
// generation request. Generation itself continues in the background.
type GenerateVideoResponse struct {
	TaskID    string    `json:"task_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskStatusResponse is the external view of a task record.
type TaskStatusResponse struct {
	TaskID       string     `json:"task_id"`
	Status       string     `json:"status"`
	Progress     int        `json:"progress"`
	VideoURL     string     `json:"video_url,omitempty"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// TaskListResponse defines the response for the task listing endpoint.
// Tasks are keyed by task ID.
type TaskListResponse struct {
	Tasks map[string]TaskStatusResponse `json:"tasks"`
	Total int                           `json:"total"`
}

// CancelTaskResponse defines the response for a successful cancellation.
type CancelTaskResponse struct {
	TaskID  string `json:"task_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ServiceInfoResponse describes the service on the root endpoint.
type ServiceInfoResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// HealthResponse defines the health probe response.
type HealthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

// newTaskStatusResponse maps a task record to its external representation.
func newTaskStatusResponse(t *domain.Task) TaskStatusResponse {
	return TaskStatusResponse{
		TaskID:       t.ID.String(),
		Status:       string(t.Status),
		Progress:     t.Progress,
		VideoURL:     t.VideoURL,
		ThumbnailURL: t.ThumbnailURL,
		ErrorMessage: t.ErrorMessage,
		CreatedAt:    t.CreatedAt,
		CompletedAt:  t.CompletedAt,
	}
}
