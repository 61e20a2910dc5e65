package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/veogen-api/internal/api"
	apiMiddleware "github.com/phrazzld/veogen-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
// It accepts the application dependencies to create handlers and register routes.
// Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware) // Add trace IDs for improved error handling

	videoHandler := api.NewVideoHandler(
		app.videoService,
		app.config.Generation.MaxVideoDuration,
		app.logger,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.config.Auth)

	// Public endpoints
	r.Get("/", api.ServiceInfo)
	r.Get("/health", api.HealthCheck)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/generate", videoHandler.GenerateVideo)
		r.Get("/status/{task_id}", videoHandler.GetTaskStatus)
		r.Get("/tasks", videoHandler.ListTasks)
		r.Delete("/tasks/{task_id}", videoHandler.CancelTask)

		// Webhook-style aliases kept for integrations that post to the
		// /webhook prefix.
		r.Post("/webhook/generate", videoHandler.GenerateVideo)
		r.Get("/webhook/status/{task_id}", videoHandler.GetTaskStatus)
	})

	return r
}
