package generation

import (
	"context"

	"github.com/phrazzld/veogen-api/internal/domain"
)

// Result is the outcome of a finished backend operation. Exactly one of the
// two shapes is populated: a DirectURL that can be stored as-is, or the raw
// video payload that must be republished to object storage.
type Result struct {
	// DirectURL is a ready-to-use public URL returned by the backend.
	DirectURL string

	// ThumbnailURL is an optional still frame URL, when the backend
	// provides one alongside the video.
	ThumbnailURL string

	// Payload holds the downloaded video bytes when the backend returned a
	// retrievable reference instead of a public URL.
	Payload []byte
}

// Generator produces a video for an enhanced prompt by driving the backend's
// long-running operation protocol: submit, poll until done or the poll budget
// runs out, and extract the result.
// Version: 1.0
type Generator interface {
	// GenerateVideo submits the prompt, awaits the operation, and returns
	// the extracted result. The call suspends for the whole polling
	// duration; ctx cancellation aborts the wait.
	GenerateVideo(ctx context.Context, prompt string, req domain.GenerationRequest) (*Result, error)
}

// Publisher republishes a generated video payload to object storage and
// returns a durable public URL.
// Version: 1.0
type Publisher interface {
	// Publish uploads the payload under a freshly generated unique key and
	// returns the public URL of the stored object.
	Publish(ctx context.Context, payload []byte, format domain.VideoFormat) (string, error)
}
