package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envBindings maps config keys to the flat environment variable names the
// service has always been configured with. The AWS_* names double as the
// conventional names for S3-compatible providers.
var envBindings = map[string]string{
	"server.host":      "HOST",
	"server.port":      "PORT",
	"server.log_level": "LOG_LEVEL",

	"auth.api_key":                "API_KEY",
	"auth.require_auth":           "REQUIRE_AUTH",
	"auth.permit_unauthenticated": "PERMIT_UNAUTHENTICATED",

	"veo.api_key":               "GOOGLE_API_KEY",
	"veo.model":                 "VEO_MODEL",
	"veo.poll_interval_seconds": "VEO_POLL_INTERVAL_SECONDS",
	"veo.max_poll_attempts":     "VEO_MAX_POLL_ATTEMPTS",

	"storage.access_key_id":     "AWS_ACCESS_KEY_ID",
	"storage.secret_access_key": "AWS_SECRET_ACCESS_KEY",
	"storage.bucket":            "AWS_STORAGE_BUCKET_NAME",
	"storage.region":            "AWS_S3_REGION_NAME",
	"storage.endpoint_url":      "AWS_S3_ENDPOINT_URL",

	"generation.max_video_duration":   "MAX_VIDEO_DURATION",
	"generation.max_concurrent_tasks": "MAX_CONCURRENT_TASKS",
	"generation.queue_size":           "TASK_QUEUE_SIZE",
}

// Load configuration from environment variables.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("auth.require_auth", true)
	v.SetDefault("auth.permit_unauthenticated", false)

	v.SetDefault("veo.model", "veo-3.0-generate-preview")
	v.SetDefault("veo.poll_interval_seconds", 10)
	v.SetDefault("veo.max_poll_attempts", 60)

	v.SetDefault("storage.region", "nyc3")

	v.SetDefault("generation.max_video_duration", 60)
	v.SetDefault("generation.max_concurrent_tasks", 10)
	v.SetDefault("generation.queue_size", 100)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
