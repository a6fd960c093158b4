package idx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/nominate/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewAndParse(t *testing.T) {
	id := idx.New()
	require.NotEmpty(t, id.String())

	parsed, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
	require.False(t, id.IsZero())
}

func TestParse_Lowercase(t *testing.T) {
	id := idx.New()

	parsed, err := idx.Parse(id.Lower())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
	require.Equal(t, strings.ToLower(id.String()), id.Lower())
}

func TestParse_Invalid(t *testing.T) {
	// The last one is a Mongo ObjectId, the id format of older exports.
	for _, s := range []string{"", "   ", "not-a-ulid", "507f1f77bcf86cd799439011"} {
		_, err := idx.Parse(s)
		require.ErrorIs(t, err, idx.ErrInvalid, "input %q", s)
	}
}

func TestMonotonicWithinMillisecond(t *testing.T) {
	at := time.Unix(1700000000, 0).UTC()
	prev := idx.NewAt(at)
	for range 100 {
		next := idx.NewAt(at)
		require.Less(t, prev.String(), next.String())
		prev = next
	}
}

func TestTimeExtraction(t *testing.T) {
	tm := time.Unix(1700000000, 0).UTC()
	id := idx.NewAt(tm)

	require.WithinDuration(t, tm, id.Time(), time.Millisecond)
	require.True(t, idx.Zero.Time().IsZero())
	require.True(t, idx.ID("garbage").Time().IsZero())
}

func TestObjectKey(t *testing.T) {
	key := idx.ObjectKey("cv", ".pdf")
	require.True(t, strings.HasPrefix(key, "cv-"))
	require.True(t, strings.HasSuffix(key, ".pdf"))
	require.Equal(t, strings.ToLower(key), key)

	id, ok := idx.FromObjectKey(key, "cv")
	require.True(t, ok)
	require.WithinDuration(t, time.Now(), id.Time(), time.Minute)
}

func TestFromObjectKey_Rejects(t *testing.T) {
	for _, key := range []string{
		"avatar-01hq7t3z1mz0jq3m6mzq1fq3zv.png",
		"cv-notaulid.pdf",
		"cv.pdf",
		"",
	} {
		_, ok := idx.FromObjectKey(key, "cv")
		require.False(t, ok, "key %q", key)
	}

	id, ok := idx.FromObjectKey("cv-01hq7t3z1mz0jq3m6mzq1fq3zv", "cv")
	require.True(t, ok, "extension is optional")
	require.Equal(t, idx.MustParse("01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV"), id)
}

func TestMustParse(t *testing.T) {
	require.NotPanics(t, func() { idx.MustParse("01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV") })
	require.Panics(t, func() { idx.MustParse("nope") })
}
