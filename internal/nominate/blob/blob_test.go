package blob_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/nominate/internal/nominate/blob"
	"github.com/aussiebroadwan/nominate/internal/nominate/blob/drivers/local"
)

func TestValidateName(t *testing.T) {
	valid := []string{"cv-01j9zq3v5k.pdf", "cv-x", ".hidden"}
	invalid := []string{"", ".", "..", "a/b", `a\b`, "../etc/passwd", "x\x00y"}

	for _, name := range valid {
		require.NoError(t, blob.ValidateName(name), "name %q", name)
	}
	for _, name := range invalid {
		require.ErrorIs(t, blob.ValidateName(name), blob.ErrInvalidName, "name %q", name)
	}
}

func TestInstrumented(t *testing.T) {
	ctx := context.Background()
	s, err := local.New(t.TempDir())
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	inst := blob.Instrument(s, reg, "local")

	ref, err := inst.Put(ctx, "cv-metrics.txt", "text/plain", []byte("12345"))
	require.NoError(t, err)

	rc, err := inst.Get(ctx, ref)
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	_, err = inst.Get(ctx, "cv-missing.txt")
	require.ErrorIs(t, err, blob.ErrNotFound)

	require.Equal(t, 3, testutil.CollectAndCount(reg, "nominate_blob_ops_total"))
	require.Equal(t, float64(5), testutil.ToFloat64(inst.BytesWritten()))
}
