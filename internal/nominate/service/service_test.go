package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/nominate/internal/nominate/blob"
	"github.com/aussiebroadwan/nominate/internal/nominate/blob/drivers/local"
	"github.com/aussiebroadwan/nominate/internal/nominate/domain"
	"github.com/aussiebroadwan/nominate/internal/nominate/store"
	"github.com/aussiebroadwan/nominate/internal/nominate/store/drivers/sqlite"
	"github.com/aussiebroadwan/nominate/pkg/cryptox"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "nominate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestBlobs(t *testing.T) *local.Store {
	t.Helper()
	b, err := local.New(t.TempDir())
	require.NoError(t, err)
	return b
}

func newTestHasher(t *testing.T) *cryptox.PasswordHasher {
	t.Helper()
	h, err := cryptox.NewPasswordHasher("test-pepper")
	require.NoError(t, err)
	return h
}

var errBoom = errors.New("boom")

// failingBlobs rejects every Put.
type failingBlobs struct{ blob.Store }

func (failingBlobs) Put(context.Context, string, string, []byte) (string, error) {
	return "", errBoom
}

// failingInserts wraps a store whose nomination inserts always fail.
type failingInserts struct{ store.Store }

func (f failingInserts) Nominations() store.Nominations {
	return failingNominations{f.Store.Nominations()}
}

type failingNominations struct{ store.Nominations }

func (failingNominations) CreateNomination(context.Context, domain.Nomination) error {
	return errBoom
}
