package generation

import "errors"

// Common errors returned by the generation package and its adapters
var (
	// ErrBackendUnavailable is returned when the video backend cannot be
	// reached or answers with a non-success transport status
	ErrBackendUnavailable = errors.New("video generation backend unavailable")

	// ErrBackendRejected is returned when the backend refuses a semantically
	// invalid request, such as an unsupported parameter combination
	ErrBackendRejected = errors.New("video generation request rejected by backend")

	// ErrTimedOut is returned when the polling budget is exhausted before the
	// backend operation reports done
	ErrTimedOut = errors.New("timed out waiting for video generation to complete")

	// ErrMalformedResult is returned when a finished operation carries
	// neither a usable URL nor a downloadable video reference
	ErrMalformedResult = errors.New("video generation result is malformed")

	// ErrPublishFailed is returned when the generated asset cannot be
	// republished to object storage
	ErrPublishFailed = errors.New("failed to publish generated video")

	// ErrInvalidConfig is returned when an adapter is constructed with an
	// invalid configuration
	ErrInvalidConfig = errors.New("invalid generation configuration")
)
