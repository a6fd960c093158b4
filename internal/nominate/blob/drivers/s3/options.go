package s3

import (
	"log/slog"
	"time"
)

type OptionFunc func(*Store)

// WithLogger specifies the logger object to use for logging messages
func WithLogger(logger *slog.Logger) OptionFunc {
	return func(s *Store) { s.logger = logger }
}

// WithBucket specifies the S3 bucket name
func WithBucket(bucket string) OptionFunc {
	return func(s *Store) { s.bucket = bucket }
}

// WithPrefix specifies a key prefix prepended to every object name
func WithPrefix(prefix string) OptionFunc {
	return func(s *Store) { s.prefix = prefix }
}

// WithRegion specifies the AWS region
func WithRegion(region string) OptionFunc {
	return func(s *Store) { s.region = region }
}

// WithEndpoint points the client at an S3-compatible service such as MinIO
// or Cloudflare R2. Path-style addressing is enabled alongside it.
func WithEndpoint(endpoint string) OptionFunc {
	return func(s *Store) { s.endpoint = endpoint }
}

// WithStaticCredentials uses a fixed key pair instead of the default AWS
// credential chain.
func WithStaticCredentials(accessKey, secretKey string) OptionFunc {
	return func(s *Store) {
		s.accessKey = accessKey
		s.secretKey = secretKey
	}
}

// WithTimeout bounds AWS config loading at startup
func WithTimeout(timeout time.Duration) OptionFunc {
	return func(s *Store) { s.timeout = timeout }
}
