// Package main implements the entry point for the veogen API server, which
// accepts text-to-video generation requests, delegates synthesis to Google's
// Veo models, and publishes finished videos to object storage.
package main

import (
	"context"
	"log"
)

// main initializes configuration, wires up dependencies, starts the task
// worker pool, and runs the HTTP server until a shutdown signal arrives.
func main() {
	ctx := context.Background()

	app, err := initializeApp(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app.runner.Start()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
