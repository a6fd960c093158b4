// Package s3 stores blobs in an S3 bucket (or any S3-compatible service).
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/aussiebroadwan/nominate/internal/nominate/blob"
)

type Store struct {
	client *s3.Client
	logger *slog.Logger

	bucket    string
	prefix    string
	region    string
	endpoint  string
	accessKey string
	secretKey string
	timeout   time.Duration
}

// New loads the AWS configuration and returns a ready Store.
func New(ctx context.Context, opts ...OptionFunc) (*Store, error) {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}

	if s.bucket == "" {
		return nil, errors.New("s3 blob: bucket not set")
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if s.prefix != "" && !strings.HasSuffix(s.prefix, "/") {
		s.prefix += "/"
	}

	timeout := s.timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var loadOpts []func(*config.LoadOptions) error
	if s.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(s.region))
	}
	if s.accessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.accessKey, s.secretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3 blob: load AWS config: %w", err)
	}

	s.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if s.endpoint != "" {
			o.BaseEndpoint = aws.String(s.endpoint)
			o.UsePathStyle = true
		}
	})
	return s, nil
}

func (s *Store) fullKey(ref string) string { return s.prefix + ref }

func (s *Store) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if err := blob.ValidateName(name); err != nil {
		return "", err
	}

	in := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.fullKey(name)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		s.logger.Error("s3 put failed", "key", name, "err", err)
		return "", fmt.Errorf("s3 blob: put %q: %w", name, err)
	}
	s.logger.Debug("s3 put ok", "key", name, "bytes", len(data))
	return name, nil
}

func (s *Store) Get(ctx context.Context, ref string) (io.ReadCloser, error) {
	if err := blob.ValidateName(ref); err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.fullKey(ref)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, blob.ErrNotFound
		}
		return nil, fmt.Errorf("s3 blob: get %q: %w", ref, err)
	}
	return out.Body, nil
}

func (s *Store) Delete(ctx context.Context, ref string) error {
	if err := blob.ValidateName(ref); err != nil {
		return err
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.fullKey(ref)),
	})
	if err != nil && !isS3NotFound(err) {
		return fmt.Errorf("s3 blob: delete %q: %w", ref, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]blob.Object, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.fullKey(prefix)),
	})

	out := make([]blob.Object, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3 blob: list: %w", err)
		}
		for _, obj := range page.Contents {
			out = append(out, blob.Object{
				Ref:     strings.TrimPrefix(aws.ToString(obj.Key), s.prefix),
				Size:    aws.ToInt64(obj.Size),
				ModTime: aws.ToTime(obj.LastModified),
			})
		}
	}
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}

// Close is a no-op; the S3 client holds no resources that need releasing.
func (s *Store) Close() error { return nil }

// Client returns the underlying S3 client.
func (s *Store) Client() *s3.Client { return s.client }

func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	var noSuchKey *s3types.NoSuchKey
	return errors.As(err, &noSuchKey)
}
