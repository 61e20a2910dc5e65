package service

import "errors"

// Common errors returned by the service layer
var (
	// ErrTooManyTasks is returned when task admission is rejected because
	// the background queue is at capacity
	ErrTooManyTasks = errors.New("too many concurrent generation tasks")

	// ErrServiceShuttingDown is returned when task admission is rejected
	// because the queue has been closed for shutdown
	ErrServiceShuttingDown = errors.New("service is shutting down")
)
