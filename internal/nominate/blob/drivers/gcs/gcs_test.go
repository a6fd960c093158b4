package gcs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/aussiebroadwan/nominate/internal/nominate/blob/blobtest"
	"github.com/aussiebroadwan/nominate/internal/nominate/blob/drivers/gcs"
)

func TestValidateCredentials(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "credentials.json")
	require.NoError(t, os.WriteFile(existing, []byte("{}"), 0o600))

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{name: "empty path uses default credentials", path: ""},
		{name: "existing file", path: existing},
		{name: "missing file", path: filepath.Join(dir, "nope.json"), wantErr: "credentials file does not exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gcs.ValidateCredentials(tt.path)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := gcs.New(t.Context())
	require.ErrorContains(t, err, "bucket not set")
}

// TestStore runs against a fake-gcs-server emulator when one is advertised
// through STORAGE_EMULATOR_HOST, e.g. started with
//
//	docker run -p 4443:4443 fsouza/fake-gcs-server -scheme http -public-host localhost:4443
//
// and a bucket named by GCS_TEST_BUCKET created up front.
func TestStore(t *testing.T) {
	host := os.Getenv("STORAGE_EMULATOR_HOST")
	bucket := os.Getenv("GCS_TEST_BUCKET")
	if host == "" || bucket == "" {
		t.Skip("STORAGE_EMULATOR_HOST and GCS_TEST_BUCKET not set")
	}

	s, err := gcs.New(t.Context(),
		gcs.WithBucket(bucket),
		gcs.WithClientOptions(option.WithoutAuthentication()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	blobtest.Run(t, s)
}
