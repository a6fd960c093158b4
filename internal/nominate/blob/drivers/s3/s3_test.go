package s3_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aussiebroadwan/nominate/internal/nominate/blob/blobtest"
	"github.com/aussiebroadwan/nominate/internal/nominate/blob/drivers/s3"
)

const (
	minioUser     = "minioadmin"
	minioPassword = "minioadmin"
	testBucket    = "nominate-test"
)

// startMinio runs MinIO in a container and returns its endpoint URL.
func startMinio(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:latest",
			ExposedPorts: []string{"9000/tcp"},
			Cmd:          []string{"server", "/data"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     minioUser,
				"MINIO_ROOT_PASSWORD": minioPassword,
			},
			WaitingFor: wait.ForHTTP("/minio/health/live").
				WithPort("9000/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "9000")
	require.NoError(t, err)
	return fmt.Sprintf("http://%s:%s", host, port.Port())
}

func TestStore(t *testing.T) {
	endpoint := startMinio(t)

	s, err := s3.New(t.Context(),
		s3.WithBucket(testBucket),
		s3.WithPrefix("cvs"),
		s3.WithRegion("us-east-1"),
		s3.WithEndpoint(endpoint),
		s3.WithStaticCredentials(minioUser, minioPassword),
	)
	require.NoError(t, err)

	_, err = s.Client().CreateBucket(t.Context(), &awss3.CreateBucketInput{Bucket: aws.String(testBucket)})
	require.NoError(t, err)

	blobtest.Run(t, s)
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := s3.New(t.Context())
	require.ErrorContains(t, err, "bucket not set")
}
