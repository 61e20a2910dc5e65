package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/veogen-api/internal/api/shared"
	"github.com/phrazzld/veogen-api/internal/domain"
	"github.com/phrazzld/veogen-api/internal/service"
	"github.com/phrazzld/veogen-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, store.ErrTaskNotFound):
		return http.StatusNotFound

	// Conflict with the record's current state
	case errors.Is(err, store.ErrTaskTerminal):
		return http.StatusBadRequest

	// Admission control
	case errors.Is(err, service.ErrTooManyTasks),
		errors.Is(err, service.ErrServiceShuttingDown):
		return http.StatusServiceUnavailable

	// Request validation
	case errors.Is(err, domain.ErrEmptyPrompt),
		errors.Is(err, domain.ErrPromptTooLong),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrInvalidFPS),
		errors.Is(err, domain.ErrInvalidResolution),
		errors.Is(err, domain.ErrInvalidQuality),
		errors.Is(err, domain.ErrInvalidAspectRatio),
		errors.Is(err, domain.ErrInvalidFormat):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrTaskTerminal):
		return "Task is already finished"

	case errors.Is(err, service.ErrTooManyTasks):
		return "Server is at maximum capacity, try again later"

	case errors.Is(err, service.ErrServiceShuttingDown):
		return "Server is shutting down"

	case errors.Is(err, domain.ErrEmptyPrompt),
		errors.Is(err, domain.ErrPromptTooLong),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrInvalidFPS),
		errors.Is(err, domain.ErrInvalidResolution),
		errors.Is(err, domain.ErrInvalidQuality),
		errors.Is(err, domain.ErrInvalidAspectRatio),
		errors.Is(err, domain.ErrInvalidFormat):
		// Validation errors are already written for clients and carry no
		// internal detail.
		return err.Error()

	default:
		return "An unexpected error occurred"
	}
}

// RespondWithMappedError is a convenience that runs an error through the
// status and message mapping in one step.
func RespondWithMappedError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
