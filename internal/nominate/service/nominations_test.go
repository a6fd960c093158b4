package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/nominate/internal/nominate/blob"
	"github.com/aussiebroadwan/nominate/internal/nominate/domain"
	"github.com/aussiebroadwan/nominate/internal/nominate/store"
	"github.com/aussiebroadwan/nominate/pkg/idx"
)

type stubRenderer struct{ got domain.Nomination }

func (r *stubRenderer) Render(_ context.Context, n domain.Nomination) ([]byte, error) {
	r.got = n
	return []byte("%PDF-" + n.NominatorName), nil
}

func TestNominationService(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	blobs := newTestBlobs(t)
	renderer := &stubRenderer{}
	submit := newSubmissionService(t, st, blobs)
	svc := &NominationService{Store: st, Blobs: blobs, Renderer: renderer}

	withCV, err := submit.Submit(ctx, RawSubmission{
		Fields: map[string]string{"nominator_name": "Jane Doe", "nominee_name": "John Roe", "category": "Research"},
		File:   &FilePayload{FieldName: "cv", Filename: "cv.txt", ContentType: "text/plain", Data: []byte("hello")},
	})
	require.NoError(t, err)
	noCV, err := submit.Submit(ctx, RawSubmission{Fields: map[string]string{"nominator_name": "Ann Lee"}})
	require.NoError(t, err)

	t.Run("list", func(t *testing.T) {
		list, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, withCV, list[0].ID)
		require.Equal(t, "John Roe", list[0].NomineeName)
		require.NotEmpty(t, list[0].CVReference)
		require.Empty(t, list[1].CVReference)
	})

	t.Run("get accepts lowercase ids", func(t *testing.T) {
		n, err := svc.Get(ctx, idx.MustParse(withCV).Lower())
		require.NoError(t, err)
		require.Equal(t, withCV, n.ID)
	})

	t.Run("get unknown and malformed", func(t *testing.T) {
		_, err := svc.Get(ctx, idx.New().String())
		require.ErrorIs(t, err, store.ErrNotFound)
		_, err = svc.Get(ctx, "not-an-id")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("open cv", func(t *testing.T) {
		rc, ref, err := svc.OpenCV(ctx, withCV)
		require.NoError(t, err)
		defer rc.Close()
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.Equal(t, "hello", string(b))
		require.Equal(t, "cv.txt", ref.Filename)
		require.Equal(t, "text/plain", ref.ContentType)

		_, _, err = svc.OpenCV(ctx, noCV)
		require.ErrorIs(t, err, ErrNoCV)
	})

	t.Run("open cv with missing blob", func(t *testing.T) {
		n, err := svc.Get(ctx, withCV)
		require.NoError(t, err)
		require.NoError(t, blobs.Delete(ctx, n.CV.Reference))

		_, _, err = svc.OpenCV(ctx, withCV)
		require.ErrorIs(t, err, blob.ErrNotFound)
	})

	t.Run("render", func(t *testing.T) {
		out, id, err := svc.RenderPDF(ctx, noCV)
		require.NoError(t, err)
		require.Equal(t, "%PDF-Ann Lee", string(out))
		require.Equal(t, noCV, renderer.got.ID)
		require.Equal(t, noCV, id)

		_, id, err = svc.RenderPDF(ctx, strings.ToLower(noCV))
		require.NoError(t, err)
		require.Equal(t, noCV, id)

		_, _, err = svc.RenderPDF(ctx, idx.New().String())
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}
