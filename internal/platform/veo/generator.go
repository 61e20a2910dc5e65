package veo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/veogen-api/internal/config"
	"github.com/phrazzld/veogen-api/internal/domain"
	"github.com/phrazzld/veogen-api/internal/generation"
	"google.golang.org/genai"
)

// Polling defaults: 10-second intervals, 60 attempts, a ceiling of roughly
// ten minutes per operation.
const (
	DefaultPollInterval    = 10 * time.Second
	DefaultMaxPollAttempts = 60
)

// videosAPI is the slice of the genai client the generator uses. The
// indirection exists so tests can substitute a scripted fake for the real
// backend.
type videosAPI interface {
	GenerateVideos(
		ctx context.Context,
		model, prompt string,
		cfg *genai.GenerateVideosConfig,
	) (*genai.GenerateVideosOperation, error)

	GetVideosOperation(
		ctx context.Context,
		op *genai.GenerateVideosOperation,
	) (*genai.GenerateVideosOperation, error)

	DownloadVideo(ctx context.Context, video *genai.Video) ([]byte, error)
}

// genaiVideosAPI adapts *genai.Client to the videosAPI interface.
type genaiVideosAPI struct {
	client *genai.Client
}

func (a *genaiVideosAPI) GenerateVideos(
	ctx context.Context,
	model, prompt string,
	cfg *genai.GenerateVideosConfig,
) (*genai.GenerateVideosOperation, error) {
	return a.client.Models.GenerateVideos(ctx, model, prompt, nil, cfg)
}

func (a *genaiVideosAPI) GetVideosOperation(
	ctx context.Context,
	op *genai.GenerateVideosOperation,
) (*genai.GenerateVideosOperation, error) {
	return a.client.Operations.GetVideosOperation(ctx, op, nil)
}

func (a *genaiVideosAPI) DownloadVideo(ctx context.Context, video *genai.Video) ([]byte, error) {
	return a.client.Files.Download(ctx, video, nil)
}

var _ generation.Generator = (*VideoGenerator)(nil)

// VideoGenerator implements the generation.Generator interface using
// Google's Veo models through the genai SDK. Video generation is a
// long-running operation: the generator submits the job, then polls it on a
// bounded budget until the backend reports done.
type VideoGenerator struct {
	api             videosAPI
	model           string
	pollInterval    time.Duration
	maxPollAttempts int
	logger          *slog.Logger
}

// NewVideoGenerator creates a VideoGenerator backed by a real genai client.
func NewVideoGenerator(ctx context.Context, logger *slog.Logger, cfg config.VeoConfig) (*VideoGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: veo API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create genai client: %v", generation.ErrInvalidConfig, err)
	}

	return newVideoGenerator(&genaiVideosAPI{client: client}, logger, cfg), nil
}

// newVideoGenerator wires a VideoGenerator onto any videosAPI. Tests use it
// to inject a fake backend.
func newVideoGenerator(api videosAPI, logger *slog.Logger, cfg config.VeoConfig) *VideoGenerator {
	pollInterval := time.Duration(cfg.PollIntervalSeconds) * time.Second
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	maxAttempts := cfg.MaxPollAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxPollAttempts
	}

	return &VideoGenerator{
		api:             api,
		model:           cfg.Model,
		pollInterval:    pollInterval,
		maxPollAttempts: maxAttempts,
		logger:          logger.With("component", "veo_generator", "model", cfg.Model),
	}
}

// GenerateVideo submits the prompt and drives the long-running operation to
// a result. The call suspends for the whole polling duration.
func (g *VideoGenerator) GenerateVideo(
	ctx context.Context,
	prompt string,
	req domain.GenerationRequest,
) (*generation.Result, error) {
	op, err := g.submit(ctx, prompt, req)
	if err != nil {
		return nil, err
	}

	op, err = g.awaitOperation(ctx, op)
	if err != nil {
		return nil, err
	}

	return g.extractResult(ctx, op)
}

// submit sends the generation job to the backend and returns the operation
// handle.
func (g *VideoGenerator) submit(
	ctx context.Context,
	prompt string,
	req domain.GenerationRequest,
) (*genai.GenerateVideosOperation, error) {
	cfg := &genai.GenerateVideosConfig{
		NumberOfVideos:  1,
		AspectRatio:     string(req.AspectRatio),
		DurationSeconds: genai.Ptr(int32(req.Duration)),
		FPS:             genai.Ptr(int32(req.FPS)),
	}

	g.logger.InfoContext(ctx, "submitting video generation job",
		"prompt_length", len(prompt),
		"aspect_ratio", req.AspectRatio,
		"duration", req.Duration)

	op, err := g.api.GenerateVideos(ctx, g.model, prompt, cfg)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) && apiErr.Code >= 400 && apiErr.Code < 500 {
			return nil, fmt.Errorf("%w: %s", generation.ErrBackendRejected, apiErr.Message)
		}
		return nil, fmt.Errorf("%w: %v", generation.ErrBackendUnavailable, err)
	}
	if op == nil {
		return nil, fmt.Errorf("%w: backend returned no operation handle", generation.ErrBackendUnavailable)
	}

	g.logger.InfoContext(ctx, "video generation job accepted", "operation", op.Name)
	return op, nil
}

// awaitOperation polls the operation until it reports done or the attempt
// budget is exhausted. Each attempt sleeps pollInterval first, then polls.
// Transient poll errors are logged and retried, but still count against the
// budget, so a stuck backend job cannot hold a worker forever.
func (g *VideoGenerator) awaitOperation(
	ctx context.Context,
	op *genai.GenerateVideosOperation,
) (*genai.GenerateVideosOperation, error) {
	if op.Done {
		return op, nil
	}

	for attempt := 1; attempt <= g.maxPollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", generation.ErrBackendUnavailable, ctx.Err())
		case <-time.After(g.pollInterval):
		}

		polled, err := g.api.GetVideosOperation(ctx, op)
		if err != nil {
			g.logger.WarnContext(ctx, "poll failed, will retry",
				"operation", op.Name,
				"attempt", attempt,
				"max_attempts", g.maxPollAttempts,
				"error", err)
			continue
		}

		op = polled
		if op.Done {
			g.logger.InfoContext(ctx, "video generation job done",
				"operation", op.Name,
				"attempts", attempt)
			return op, nil
		}

		g.logger.DebugContext(ctx, "video generation job still running",
			"operation", op.Name,
			"attempt", attempt,
			"max_attempts", g.maxPollAttempts)
	}

	return nil, fmt.Errorf("%w: gave up after %d polls at %s intervals",
		generation.ErrTimedOut, g.maxPollAttempts, g.pollInterval)
}

// extractResult pulls the video out of a finished operation: inline bytes
// when present, otherwise an authenticated download of the referenced file.
func (g *VideoGenerator) extractResult(
	ctx context.Context,
	op *genai.GenerateVideosOperation,
) (*generation.Result, error) {
	if op.Error != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrBackendRejected, operationErrorMessage(op.Error))
	}
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 {
		return nil, fmt.Errorf("%w: operation finished with no videos", generation.ErrMalformedResult)
	}

	video := op.Response.GeneratedVideos[0].Video
	if video == nil {
		return nil, fmt.Errorf("%w: generated video entry is empty", generation.ErrMalformedResult)
	}

	if len(video.VideoBytes) > 0 {
		return &generation.Result{Payload: video.VideoBytes}, nil
	}

	if video.URI == "" {
		return nil, fmt.Errorf("%w: neither video bytes nor a download URI present", generation.ErrMalformedResult)
	}

	g.logger.InfoContext(ctx, "downloading generated video", "uri", video.URI)
	payload, err := g.api.DownloadVideo(ctx, video)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to download video: %v", generation.ErrBackendUnavailable, err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: downloaded video is empty", generation.ErrMalformedResult)
	}

	return &generation.Result{Payload: payload}, nil
}

// operationErrorMessage digs a human-readable message out of the operation's
// error map, falling back to the whole map.
func operationErrorMessage(opErr map[string]any) string {
	if msg, ok := opErr["message"].(string); ok && msg != "" {
		return msg
	}
	return fmt.Sprintf("%v", opErr)
}
