package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/veogen-api/internal/config"
	"github.com/phrazzld/veogen-api/internal/events"
	"github.com/phrazzld/veogen-api/internal/generation"
	"github.com/phrazzld/veogen-api/internal/platform/logger"
	"github.com/phrazzld/veogen-api/internal/platform/memstore"
	"github.com/phrazzld/veogen-api/internal/platform/spaces"
	"github.com/phrazzld/veogen-api/internal/platform/veo"
	"github.com/phrazzld/veogen-api/internal/service"
	"github.com/phrazzld/veogen-api/internal/store"
	"github.com/phrazzld/veogen-api/internal/task"
)

// application holds the assembled dependency graph of the server.
type application struct {
	config *config.Config
	logger *slog.Logger

	taskStore store.TaskStore
	queue     *task.TaskQueue
	runner    *task.Runner
	emitter   events.EventEmitter

	generator generation.Generator
	publisher generation.Publisher

	videoService *service.VideoService
}

// initializeApp loads configuration and wires up all application components:
// logging, the generation backend, object storage, the task store, the
// worker pool, and the video service. The returned application is ready to
// serve once the runner is started.
func initializeApp(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(cfg.Server)

	log.Info("server configuration loaded",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"model", cfg.Veo.Model,
		"bucket", cfg.Storage.Bucket,
		"max_concurrent_tasks", cfg.Generation.MaxConcurrentTasks,
		"auth_required", cfg.Auth.RequireAuth)
	if cfg.Auth.RequireAuth && cfg.Auth.APIKey == "" && !cfg.Auth.PermitUnauthenticated {
		log.Warn("auth is required but no API key is configured; all requests will be rejected")
	}

	generator, err := veo.NewVideoGenerator(ctx, log, cfg.Veo)
	if err != nil {
		return nil, fmt.Errorf("failed to create video generator: %w", err)
	}

	publisher, err := spaces.NewPublisher(log, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage publisher: %w", err)
	}

	taskStore := memstore.NewTaskStore()
	queue := task.NewTaskQueue(cfg.Generation.QueueSize, log)
	runner := task.NewRunner(queue, task.RunnerConfig{
		WorkerCount: cfg.Generation.MaxConcurrentTasks,
	}, log)

	emitter := events.NewInMemoryEventEmitter(log)
	emitter.RegisterHandler(events.NewLoggingHandler(log))

	videoService, err := service.NewVideoService(taskStore, queue, generator, publisher, emitter, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create video service: %w", err)
	}

	return &application{
		config:       cfg,
		logger:       log,
		taskStore:    taskStore,
		queue:        queue,
		runner:       runner,
		emitter:      emitter,
		generator:    generator,
		publisher:    publisher,
		videoService: videoService,
	}, nil
}

// cleanup stops accepting new tasks and waits for in-flight workers to
// finish or observe cancellation.
func (app *application) cleanup() {
	app.logger.Info("stopping task pipeline")
	app.queue.Close()
	app.runner.Stop()
	app.logger.Info("task pipeline stopped")
}
