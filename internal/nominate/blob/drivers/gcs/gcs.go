// Package gcs stores blobs in a Google Cloud Storage bucket.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/aussiebroadwan/nominate/internal/nominate/blob"
)

type Store struct {
	client *storage.Client
	bucket *storage.BucketHandle
	logger *slog.Logger

	bucketName      string
	prefix          string
	credentialsFile string
	clientOpts      []option.ClientOption
}

type OptionFunc func(*Store)

// WithBucket specifies the GCS bucket name
func WithBucket(bucket string) OptionFunc {
	return func(s *Store) { s.bucketName = bucket }
}

// WithPrefix specifies an object name prefix
func WithPrefix(prefix string) OptionFunc {
	return func(s *Store) { s.prefix = prefix }
}

// WithCredentialsFile specifies a service account JSON file. Without it the
// application default credentials are used.
func WithCredentialsFile(path string) OptionFunc {
	return func(s *Store) { s.credentialsFile = path }
}

// WithClientOptions passes extra options to the storage client, e.g. an
// emulator endpoint.
func WithClientOptions(opts ...option.ClientOption) OptionFunc {
	return func(s *Store) { s.clientOpts = append(s.clientOpts, opts...) }
}

// WithLogger specifies the logger object to use for logging messages
func WithLogger(logger *slog.Logger) OptionFunc {
	return func(s *Store) { s.logger = logger }
}

// ValidateCredentials checks that a configured credentials file exists.
func ValidateCredentials(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("gcs blob: credentials file does not exist: %s", path)
		}
		return fmt.Errorf("gcs blob: credentials file: %w", err)
	}
	return nil
}

// New creates the storage client and returns a ready Store.
func New(ctx context.Context, opts ...OptionFunc) (*Store, error) {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}

	if s.bucketName == "" {
		return nil, errors.New("gcs blob: bucket not set")
	}
	if err := ValidateCredentials(s.credentialsFile); err != nil {
		return nil, err
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if s.prefix != "" && !strings.HasSuffix(s.prefix, "/") {
		s.prefix += "/"
	}

	clientOpts := append([]option.ClientOption{storage.WithDisabledClientMetrics()}, s.clientOpts...)
	if s.credentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(s.credentialsFile))
	}

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("gcs blob: create storage client: %w", err)
	}

	s.client = client
	s.bucket = client.Bucket(s.bucketName)
	return s, nil
}

func (s *Store) fullKey(ref string) string { return s.prefix + ref }

func (s *Store) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if err := blob.ValidateName(name); err != nil {
		return "", err
	}

	w := s.bucket.Object(s.fullKey(name)).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs blob: write %q: %w", name, err)
	}
	// The object is only committed once Close succeeds.
	if err := w.Close(); err != nil {
		s.logger.Error("gcs put failed", "key", name, "err", err)
		return "", fmt.Errorf("gcs blob: commit %q: %w", name, err)
	}
	return name, nil
}

func (s *Store) Get(ctx context.Context, ref string) (io.ReadCloser, error) {
	if err := blob.ValidateName(ref); err != nil {
		return nil, err
	}

	r, err := s.bucket.Object(s.fullKey(ref)).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, blob.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("gcs blob: get %q: %w", ref, err)
	}
	return r, nil
}

func (s *Store) Delete(ctx context.Context, ref string) error {
	if err := blob.ValidateName(ref); err != nil {
		return err
	}

	err := s.bucket.Object(s.fullKey(ref)).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("gcs blob: delete %q: %w", ref, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]blob.Object, error) {
	it := s.bucket.Objects(ctx, &storage.Query{Prefix: s.fullKey(prefix)})

	out := make([]blob.Object, 0)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("gcs blob: list: %w", err)
		}
		out = append(out, blob.Object{
			Ref:     strings.TrimPrefix(attrs.Name, s.prefix),
			Size:    attrs.Size,
			ModTime: attrs.Updated,
		})
	}
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error {
	_, err := s.bucket.Attrs(ctx)
	return err
}

func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
