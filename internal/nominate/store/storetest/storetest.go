// Package storetest holds the behaviour every store driver must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/nominate/internal/nominate/domain"
	"github.com/aussiebroadwan/nominate/internal/nominate/store"
	"github.com/aussiebroadwan/nominate/pkg/idx"
	"github.com/stretchr/testify/require"
)

// Run exercises a migrated, empty store.
func Run(t *testing.T, s store.Store) {
	t.Run("Nominations", func(t *testing.T) { testNominations(t, s) })
	t.Run("Admins", func(t *testing.T) { testAdmins(t, s) })
	t.Run("Sessions", func(t *testing.T) { testSessions(t, s) })
}

func testNominations(t *testing.T, s store.Store) {
	ctx := context.Background()
	repo := s.Nominations()

	withCV := domain.Nomination{
		ID:                    idx.New().String(),
		NominatorName:         "Jane Doe",
		NominatorAffiliation:  "University",
		Category:              "Lifetime Achievement",
		NomineeName:           "John Roe",
		NomineeYear:           domain.Year{Value: 1999, Valid: true},
		NomineeQualifications: "PhD",
		CV: &domain.CVRef{
			Reference:   "cv-" + idx.New().Lower() + ".pdf",
			Filename:    "resume.pdf",
			ContentType: "application/pdf",
			Size:        1234,
		},
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	withoutCV := domain.Nomination{
		ID:          idx.New().String(),
		NomineeName: "No File",
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}

	require.NoError(t, repo.CreateNomination(ctx, withCV))
	require.NoError(t, repo.CreateNomination(ctx, withoutCV))
	require.ErrorIs(t, repo.CreateNomination(ctx, withCV), store.ErrAlreadyExists)

	got, err := repo.GetNominationByID(ctx, withCV.ID)
	require.NoError(t, err)
	require.Equal(t, withCV, got)

	got, err = repo.GetNominationByID(ctx, withoutCV.ID)
	require.NoError(t, err)
	require.Nil(t, got.CV)
	require.False(t, got.NomineeYear.Valid)

	_, err = repo.GetNominationByID(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)

	list, err := repo.ListNominationSummaries(ctx)
	require.NoError(t, err)
	require.Equal(t, []domain.NominationSummary{
		{ID: withCV.ID, NominatorName: "Jane Doe", NomineeName: "John Roe", Category: "Lifetime Achievement", CVReference: withCV.CV.Reference},
		{ID: withoutCV.ID, NomineeName: "No File"},
	}, list)

	exists, err := repo.CVReferenceExists(ctx, withCV.CV.Reference)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.CVReferenceExists(ctx, "cv-unknown.pdf")
	require.NoError(t, err)
	require.False(t, exists)

	// Years at either end of what ParseYear accepts must store and read back.
	for _, raw := range []string{"2147483647", "-2147483648"} {
		n := domain.Nomination{
			ID:          idx.New().String(),
			NomineeName: "Year " + raw,
			NomineeYear: domain.ParseYear(raw),
			CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
		}
		require.True(t, n.NomineeYear.Valid)
		require.NoError(t, repo.CreateNomination(ctx, n), "year %s", raw)

		got, err := repo.GetNominationByID(ctx, n.ID)
		require.NoError(t, err)
		require.Equal(t, n.NomineeYear, got.NomineeYear)
	}
}

func testAdmins(t *testing.T, s store.Store) {
	ctx := context.Background()
	repo := s.Admins()

	a := domain.Admin{Username: "admin", PasswordHash: "hash-1", CreatedAt: time.Now().UTC().Truncate(time.Millisecond)}
	require.NoError(t, repo.CreateAdmin(ctx, a))
	require.ErrorIs(t, repo.CreateAdmin(ctx, a), store.ErrAlreadyExists)

	got, err := repo.GetAdminByUsername(ctx, "admin")
	require.NoError(t, err)
	require.Equal(t, a, got)

	_, err = repo.GetAdminByUsername(ctx, "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, repo.UpdateAdminPasswordHash(ctx, "admin", "hash-2"))
	got, err = repo.GetAdminByUsername(ctx, "admin")
	require.NoError(t, err)
	require.Equal(t, "hash-2", got.PasswordHash)

	require.ErrorIs(t, repo.UpdateAdminPasswordHash(ctx, "nobody", "x"), store.ErrNotFound)
}

func testSessions(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.Admins().CreateAdmin(ctx, domain.Admin{
		Username: "session-owner", PasswordHash: "h", CreatedAt: time.Now().UTC(),
	}))
	repo := s.Sessions()

	now := time.Now().UTC().Truncate(time.Millisecond)
	live := domain.AdminSession{
		ID: idx.New().String(), TokenHash: "live-hash", Username: "session-owner",
		CreatedAt: now, ExpiresAt: now.Add(time.Hour),
	}
	stale := domain.AdminSession{
		ID: idx.New().String(), TokenHash: "stale-hash", Username: "session-owner",
		CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour),
	}
	require.NoError(t, repo.CreateSession(ctx, live))
	require.NoError(t, repo.CreateSession(ctx, stale))

	got, err := repo.GetSessionByTokenHash(ctx, "live-hash")
	require.NoError(t, err)
	require.Equal(t, live, got)

	n, err := repo.DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = repo.GetSessionByTokenHash(ctx, "stale-hash")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, repo.DeleteSession(ctx, live.ID))
	_, err = repo.GetSessionByTokenHash(ctx, "live-hash")
	require.ErrorIs(t, err, store.ErrNotFound)
}
