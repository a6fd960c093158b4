package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/aussiebroadwan/nominate/internal/nominate/blob"
	"github.com/aussiebroadwan/nominate/internal/nominate/domain"
	"github.com/aussiebroadwan/nominate/pkg/idx"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHousekeeping_RunOnce(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	blobs := newTestBlobs(t)

	old := time.Now().Add(-48 * time.Hour)
	orphan := "cv-" + idx.NewAt(old).Lower() + ".pdf"
	fresh := "cv-" + idx.New().Lower() + ".pdf"
	kept := "cv-" + idx.NewAt(old).Lower() + ".pdf"
	other := "avatar-" + idx.NewAt(old).Lower() + ".png"

	for _, name := range []string{orphan, fresh, kept, other} {
		_, err := blobs.Put(ctx, name, "application/pdf", []byte("x"))
		require.NoError(t, err)
	}
	require.NoError(t, st.Nominations().CreateNomination(ctx, domain.Nomination{
		ID:        idx.New().String(),
		CV:        &domain.CVRef{Reference: kept, Filename: "a.pdf", ContentType: "application/pdf", Size: 1},
		CreatedAt: time.Now().UTC(),
	}))

	// One live and one expired session.
	require.NoError(t, st.Admins().CreateAdmin(ctx, domain.Admin{Username: "root", PasswordHash: "x", CreatedAt: time.Now().UTC()}))
	for i, exp := range []time.Time{time.Now().Add(time.Hour), time.Now().Add(-time.Hour)} {
		require.NoError(t, st.Sessions().CreateSession(ctx, domain.AdminSession{
			ID:        idx.New().String(),
			TokenHash: []string{"live", "dead"}[i],
			Username:  "root",
			CreatedAt: time.Now().Add(-2 * time.Hour).UTC(),
			ExpiresAt: exp.UTC(),
		}))
	}

	hk := NewHousekeepingService(st, blobs, discardLogger(), time.Hour, 24*time.Hour)
	res := hk.RunOnce(ctx)
	require.Equal(t, SweepResult{ExpiredSessions: 1, OrphansDeleted: 1, OrphansKept: 1}, res)

	_, err := blobs.Get(ctx, orphan)
	require.ErrorIs(t, err, blob.ErrNotFound)
	for _, name := range []string{fresh, kept, other} {
		rc, err := blobs.Get(ctx, name)
		require.NoError(t, err, name)
		require.NoError(t, rc.Close())
	}

	_, err = st.Sessions().GetSessionByTokenHash(ctx, "live")
	require.NoError(t, err)
}

func TestBlobCreatedAt(t *testing.T) {
	at := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	obj := blob.Object{Ref: "cv-" + idx.NewAt(at).Lower() + ".pdf", ModTime: time.Now()}
	require.True(t, at.Equal(blobCreatedAt(obj)))

	mod := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, mod, blobCreatedAt(blob.Object{Ref: "cv-legacy.pdf", ModTime: mod}))
}

func TestHousekeeping_StartStop(t *testing.T) {
	st, blobs := newTestStore(t), newTestBlobs(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hk := NewHousekeepingService(st, blobs, discardLogger(), 10*time.Millisecond, 0)
	require.Equal(t, DefaultOrphanGracePeriod, hk.OrphanGrace)
	hk.Start()
	time.Sleep(35 * time.Millisecond)
	hk.Stop()
}
