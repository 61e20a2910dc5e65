package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Veo        VeoConfig        `mapstructure:"veo" validate:"required"`
	Storage    StorageConfig    `mapstructure:"storage" validate:"required"`
	Generation GenerationConfig `mapstructure:"generation" validate:"required"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// AuthConfig contains API authentication settings. APIKey is the shared
// secret clients present as a bearer token; it may be stored either verbatim
// or as its SHA-256 hex digest.
type AuthConfig struct {
	APIKey                string `mapstructure:"api_key"`
	RequireAuth           bool   `mapstructure:"require_auth"`
	PermitUnauthenticated bool   `mapstructure:"permit_unauthenticated"`
}

// VeoConfig contains the video generation backend settings.
type VeoConfig struct {
	APIKey              string `mapstructure:"api_key" validate:"required"`
	Model               string `mapstructure:"model" validate:"required"`
	PollIntervalSeconds int    `mapstructure:"poll_interval_seconds" validate:"gt=0"`
	MaxPollAttempts     int    `mapstructure:"max_poll_attempts" validate:"gt=0"`
}

// StorageConfig contains the S3-compatible object storage settings used to
// publish finished videos.
type StorageConfig struct {
	AccessKeyID     string `mapstructure:"access_key_id" validate:"required"`
	SecretAccessKey string `mapstructure:"secret_access_key" validate:"required"`
	Bucket          string `mapstructure:"bucket" validate:"required"`
	Region          string `mapstructure:"region" validate:"required"`
	EndpointURL     string `mapstructure:"endpoint_url" validate:"omitempty,url"`
}

// GenerationConfig contains the task pipeline limits.
type GenerationConfig struct {
	MaxVideoDuration   int `mapstructure:"max_video_duration" validate:"gt=0"`
	MaxConcurrentTasks int `mapstructure:"max_concurrent_tasks" validate:"gt=0"`
	QueueSize          int `mapstructure:"queue_size" validate:"gt=0"`
}
