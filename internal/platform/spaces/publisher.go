package spaces

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"

	"github.com/phrazzld/veogen-api/internal/config"
	"github.com/phrazzld/veogen-api/internal/domain"
	"github.com/phrazzld/veogen-api/internal/generation"
)

// keyPrefix groups published videos under a single bucket folder.
const keyPrefix = "videos"

var _ generation.Publisher = (*Publisher)(nil)

// Publisher uploads finished videos to an S3-compatible bucket and returns
// publicly reachable URLs. It works against AWS S3 proper and against
// S3-compatible services (DigitalOcean Spaces, MinIO) through a custom
// endpoint.
type Publisher struct {
	s3Svc  s3iface.S3API
	cfg    config.StorageConfig
	logger *slog.Logger
}

// NewPublisher builds a Publisher with a real S3 client from the storage
// configuration.
func NewPublisher(logger *slog.Logger, cfg config.StorageConfig) (*Publisher, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: storage bucket cannot be empty", generation.ErrInvalidConfig)
	}

	awsCfg := &aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
	}
	if cfg.EndpointURL != "" {
		awsCfg.Endpoint = aws.String(cfg.EndpointURL)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create aws session: %v", generation.ErrInvalidConfig, err)
	}

	return newPublisher(s3.New(sess), logger, cfg), nil
}

// newPublisher wires a Publisher onto any S3 API. Tests use it to inject a
// fake client.
func newPublisher(s3Svc s3iface.S3API, logger *slog.Logger, cfg config.StorageConfig) *Publisher {
	return &Publisher{
		s3Svc:  s3Svc,
		cfg:    cfg,
		logger: logger.With("component", "spaces_publisher", "bucket", cfg.Bucket),
	}
}

// Publish spools the payload to a temp file, streams it to the bucket with a
// public-read ACL, and returns the object's public URL. The temp file is
// removed on every exit path.
func (p *Publisher) Publish(ctx context.Context, payload []byte, format domain.VideoFormat) (string, error) {
	if len(payload) == 0 {
		return "", fmt.Errorf("%w: refusing to publish an empty payload", generation.ErrPublishFailed)
	}

	key := p.objectKey(format)

	file, err := os.CreateTemp("", "veogen-upload-*."+string(format))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create temp file: %v", generation.ErrPublishFailed, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			p.logger.Warn("failed to close temp file", "path", file.Name(), "error", closeErr)
		}
		if removeErr := os.Remove(file.Name()); removeErr != nil {
			p.logger.Warn("failed to remove temp file", "path", file.Name(), "error", removeErr)
		}
	}()

	if _, err := file.Write(payload); err != nil {
		return "", fmt.Errorf("%w: failed to spool payload: %v", generation.ErrPublishFailed, err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		return "", fmt.Errorf("%w: failed to rewind temp file: %v", generation.ErrPublishFailed, err)
	}

	putInput := &s3.PutObjectInput{
		Bucket:        aws.String(p.cfg.Bucket),
		Key:           aws.String(key),
		Body:          file,
		ContentLength: aws.Int64(int64(len(payload))),
		ContentType:   aws.String(format.ContentType()),
		ACL:           aws.String(s3.ObjectCannedACLPublicRead),
	}

	if _, err := p.s3Svc.PutObjectWithContext(ctx, putInput); err != nil {
		p.logger.ErrorContext(ctx, "failed to upload object",
			"key", key,
			"size_bytes", len(payload),
			"error", err)
		return "", fmt.Errorf("%w: %v", generation.ErrPublishFailed, err)
	}

	url := p.publicURL(key)
	p.logger.InfoContext(ctx, "published video",
		"key", key,
		"size_bytes", len(payload),
		"url", url)
	return url, nil
}

// Delete removes a previously published object. Used when a completed task
// is purged.
func (p *Publisher) Delete(ctx context.Context, key string) error {
	_, err := p.s3Svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%w: failed to delete %s: %v", generation.ErrPublishFailed, key, err)
	}
	return nil
}

func (p *Publisher) objectKey(format domain.VideoFormat) string {
	return fmt.Sprintf("%s/%s.%s", keyPrefix, uuid.New().String(), format)
}

// publicURL builds the object's public address. With a custom endpoint the
// URL is path-style; plain AWS uses virtual-hosted style.
func (p *Publisher) publicURL(key string) string {
	if p.cfg.EndpointURL != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(p.cfg.EndpointURL, "/"), p.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.cfg.Bucket, p.cfg.Region, key)
}
