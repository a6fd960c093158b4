package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/nominate/internal/nominate/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this and expose one sub-repository per record type.
type Store interface {
	Nominations() Nominations
	Admins() Admins
	Sessions() Sessions

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Nominations interface {
	// CreateNomination inserts a new nomination (id is provided by the app via ULID).
	CreateNomination(ctx context.Context, n domain.Nomination) error

	// GetNominationByID returns the full record or ErrNotFound.
	GetNominationByID(ctx context.Context, id string) (domain.Nomination, error)

	// ListNominationSummaries returns the admin listing projection in
	// submission order.
	ListNominationSummaries(ctx context.Context) ([]domain.NominationSummary, error)

	// CVReferenceExists reports whether any nomination points at ref.
	CVReferenceExists(ctx context.Context, ref string) (bool, error)
}

type Admins interface {
	// CreateAdmin inserts an admin. Returns ErrAlreadyExists for a taken username.
	CreateAdmin(ctx context.Context, a domain.Admin) error

	GetAdminByUsername(ctx context.Context, username string) (domain.Admin, error)

	// UpdateAdminPasswordHash replaces the stored hash, ErrNotFound if the
	// admin does not exist.
	UpdateAdminPasswordHash(ctx context.Context, username, hash string) error
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.AdminSession) error

	// GetSessionByTokenHash returns the session regardless of expiry; callers
	// decide what expired means.
	GetSessionByTokenHash(ctx context.Context, hash string) (domain.AdminSession, error)

	DeleteSession(ctx context.Context, id string) error

	// DeleteExpiredSessions removes every session that expired at or before
	// now and returns how many were removed.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}
