// Package spaces publishes finished videos to S3-compatible object storage
// and hands back public URLs. The name reflects the primary deployment
// target (DigitalOcean Spaces), but anything speaking the S3 API works.
package spaces
