// Package blobtest holds the behaviour every blob driver must share.
package blobtest

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/aussiebroadwan/nominate/internal/nominate/blob"
	"github.com/stretchr/testify/require"
)

// Run exercises an empty store.
func Run(t *testing.T, s blob.Store) {
	ctx := context.Background()

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		data := []byte("%PDF-1.4 fake cv bytes \x00\x01\x02")
		ref, err := s.Put(ctx, "cv-roundtrip.pdf", "application/pdf", data)
		require.NoError(t, err)
		require.NotEmpty(t, ref)

		require.Equal(t, data, read(t, s, ref))
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := s.Get(ctx, "cv-missing.pdf")
		require.ErrorIs(t, err, blob.ErrNotFound)
	})

	t.Run("EmptyBlob", func(t *testing.T) {
		ref, err := s.Put(ctx, "cv-empty.txt", "text/plain", nil)
		require.NoError(t, err)
		require.Empty(t, read(t, s, ref))
	})

	t.Run("InvalidName", func(t *testing.T) {
		for _, name := range []string{"", "..", "a/b", `a\b`} {
			_, err := s.Put(ctx, name, "", []byte("x"))
			require.ErrorIs(t, err, blob.ErrInvalidName, "name %q", name)
		}
	})

	t.Run("ListByPrefix", func(t *testing.T) {
		_, err := s.Put(ctx, "cv-list-1.pdf", "", []byte("one"))
		require.NoError(t, err)
		_, err = s.Put(ctx, "cv-list-2.pdf", "", []byte("three"))
		require.NoError(t, err)
		_, err = s.Put(ctx, "other-list.pdf", "", []byte("x"))
		require.NoError(t, err)

		objs, err := s.List(ctx, "cv-list-")
		require.NoError(t, err)
		require.Len(t, objs, 2)

		sizes := map[string]int64{}
		for _, o := range objs {
			sizes[o.Ref] = o.Size
			require.False(t, o.ModTime.IsZero(), "ModTime should be set for %s", o.Ref)
		}
		require.Len(t, sizes, 2)
		for ref, size := range sizes {
			require.Equal(t, int64(len(read(t, s, ref))), size)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		ref, err := s.Put(ctx, "cv-delete.pdf", "", []byte("bye"))
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, ref))
		_, err = s.Get(ctx, ref)
		require.ErrorIs(t, err, blob.ErrNotFound)

		require.NoError(t, s.Delete(ctx, ref), "deleting twice is not an error")
	})

	t.Run("Ping", func(t *testing.T) {
		require.NoError(t, s.Ping(ctx))
	})
}

func read(t *testing.T, s blob.Store, ref string) []byte {
	t.Helper()
	rc, err := s.Get(context.Background(), ref)
	require.NoError(t, err)
	defer rc.Close()

	var buf bytes.Buffer
	_, err = io.Copy(&buf, rc)
	require.NoError(t, err)
	return buf.Bytes()
}
