package domain

import (
	"errors"
	"fmt"
)

// VideoResolution represents the output resolution of a generated video
type VideoResolution string

// Supported resolutions. MobileHD targets vertical/mobile content.
const (
	ResolutionMobileHD VideoResolution = "540p"
	ResolutionHD       VideoResolution = "720p"
	ResolutionFullHD   VideoResolution = "1080p"
	ResolutionUHD      VideoResolution = "4k"
)

// VideoQuality represents the rendering quality tier
type VideoQuality string

const (
	QualityLow    VideoQuality = "low"
	QualityMedium VideoQuality = "medium"
	QualityHigh   VideoQuality = "high"
	QualityUltra  VideoQuality = "ultra"
)

// AspectRatio represents the frame shape of a generated video
type AspectRatio string

const (
	AspectLandscape  AspectRatio = "16:9"
	AspectPortrait   AspectRatio = "9:16"
	AspectSquare     AspectRatio = "1:1"
	AspectWidescreen AspectRatio = "21:9"
	AspectClassic    AspectRatio = "4:3"
	AspectUltrawide  AspectRatio = "32:9"
)

// VideoFormat represents the container format of the output file
type VideoFormat string

const (
	FormatMP4  VideoFormat = "mp4"
	FormatWebM VideoFormat = "webm"
	FormatMOV  VideoFormat = "mov"
	FormatAVI  VideoFormat = "avi"
)

// Default parameter values applied when the caller omits a field.
const (
	DefaultDuration   = 5
	DefaultResolution = ResolutionHD
	DefaultQuality    = QualityMedium
	DefaultAspect     = AspectLandscape
	DefaultFormat     = FormatMP4
	DefaultFPS        = 30
)

// Prompt and parameter bounds.
const (
	MaxPromptLength = 2000
	MinDuration     = 1
	MaxDuration     = 60
	MinFPS          = 24
	MaxFPS          = 60
)

// Common validation errors for GenerationRequest
var (
	ErrEmptyPrompt        = errors.New("prompt cannot be empty")
	ErrPromptTooLong      = errors.New("prompt exceeds maximum length")
	ErrInvalidDuration    = errors.New("duration out of range")
	ErrInvalidFPS         = errors.New("fps out of range")
	ErrInvalidResolution  = errors.New("invalid resolution")
	ErrInvalidQuality     = errors.New("invalid quality")
	ErrInvalidAspectRatio = errors.New("invalid aspect ratio")
	ErrInvalidFormat      = errors.New("invalid format")
)

// GenerationRequest is the immutable snapshot of the parameters a video
// generation task was created with. All enum fields are normalized at the
// request boundary; the rest of the system never sees raw strings.
type GenerationRequest struct {
	Prompt      string          `json:"prompt"`
	Duration    int             `json:"duration"`
	Resolution  VideoResolution `json:"resolution"`
	Quality     VideoQuality    `json:"quality"`
	AspectRatio AspectRatio     `json:"aspect_ratio"`
	Format      VideoFormat     `json:"format"`
	FPS         int             `json:"fps"`
	Style       string          `json:"style,omitempty"`
}

// Normalize fills in default values for zero-valued optional fields.
func (r *GenerationRequest) Normalize() {
	if r.Duration == 0 {
		r.Duration = DefaultDuration
	}
	if r.Resolution == "" {
		r.Resolution = DefaultResolution
	}
	if r.Quality == "" {
		r.Quality = DefaultQuality
	}
	if r.AspectRatio == "" {
		r.AspectRatio = DefaultAspect
	}
	if r.Format == "" {
		r.Format = DefaultFormat
	}
	if r.FPS == 0 {
		r.FPS = DefaultFPS
	}
}

// Validate checks the request against the schema bounds. maxDuration lets the
// configured MAX_VIDEO_DURATION tighten the schema ceiling; pass zero to use
// the schema default.
func (r *GenerationRequest) Validate(maxDuration int) error {
	if maxDuration <= 0 || maxDuration > MaxDuration {
		maxDuration = MaxDuration
	}

	if r.Prompt == "" {
		return ErrEmptyPrompt
	}
	if len(r.Prompt) > MaxPromptLength {
		return fmt.Errorf("%w: %d characters (max %d)", ErrPromptTooLong, len(r.Prompt), MaxPromptLength)
	}
	if r.Duration < MinDuration || r.Duration > maxDuration {
		return fmt.Errorf("%w: %d seconds (allowed %d-%d)", ErrInvalidDuration, r.Duration, MinDuration, maxDuration)
	}
	if r.FPS < MinFPS || r.FPS > MaxFPS {
		return fmt.Errorf("%w: %d (allowed %d-%d)", ErrInvalidFPS, r.FPS, MinFPS, MaxFPS)
	}

	switch r.Resolution {
	case ResolutionMobileHD, ResolutionHD, ResolutionFullHD, ResolutionUHD:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidResolution, r.Resolution)
	}

	switch r.Quality {
	case QualityLow, QualityMedium, QualityHigh, QualityUltra:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidQuality, r.Quality)
	}

	switch r.AspectRatio {
	case AspectLandscape, AspectPortrait, AspectSquare,
		AspectWidescreen, AspectClassic, AspectUltrawide:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAspectRatio, r.AspectRatio)
	}

	switch r.Format {
	case FormatMP4, FormatWebM, FormatMOV, FormatAVI:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, r.Format)
	}

	return nil
}

// ContentType returns the MIME type for the request's container format.
func (f VideoFormat) ContentType() string {
	switch f {
	case FormatWebM:
		return "video/webm"
	case FormatMOV:
		return "video/quicktime"
	case FormatAVI:
		return "video/x-msvideo"
	default:
		return "video/mp4"
	}
}
