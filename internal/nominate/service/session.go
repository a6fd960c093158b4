package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/nominate/internal/nominate/domain"
	"github.com/aussiebroadwan/nominate/internal/nominate/store"
	"github.com/aussiebroadwan/nominate/pkg/cryptox"
	"github.com/aussiebroadwan/nominate/pkg/httpx"
	"github.com/aussiebroadwan/nominate/pkg/idx"
	"github.com/aussiebroadwan/nominate/pkg/slogx"
)

// DefaultSessionTTL is how long an admin session lasts.
const DefaultSessionTTL = 24 * time.Hour

// ErrUnauthorized covers missing, unknown, expired and revoked sessions.
var ErrUnauthorized = fmt.Errorf("unauthorized: %w", httpx.ErrInvalidSession)

type SessionService struct {
	Store         store.Store
	Hasher        *cryptox.PasswordHasher
	Fingerprinter *cryptox.Fingerprinter
	TTL           time.Duration

	now func() time.Time
}

func NewSessionService(st store.Store, hasher *cryptox.PasswordHasher, fp *cryptox.Fingerprinter, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionService{
		Store:         st,
		Hasher:        hasher,
		Fingerprinter: fp,
		TTL:           ttl,
		now:           time.Now,
	}
}

// Login checks credentials and opens a session. Bad credentials return
// ok=false with a nil error; unknown users and wrong passwords are
// indistinguishable, including in how long they take.
func (s *SessionService) Login(ctx context.Context, username, password string) (token string, ok bool, err error) {
	l := slogx.FromContext(ctx)

	admin, err := s.Store.Admins().GetAdminByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		s.Hasher.VerifyDummy(password)
		l.Info("admin login failed", slog.String("username", username))
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup admin: %w", err)
	}

	if err := s.Hasher.Verify(password, admin.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Info("admin login failed", slog.String("username", username))
			return "", false, nil
		}
		return "", false, fmt.Errorf("verify password: %w", err)
	}

	token, err = cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", false, fmt.Errorf("generate session token: %w", err)
	}

	now := s.now().UTC()
	sess := domain.AdminSession{
		ID:        idx.New().String(),
		TokenHash: s.Fingerprinter.Fingerprint(token),
		Username:  admin.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.TTL),
	}
	if err := s.Store.Sessions().CreateSession(ctx, sess); err != nil {
		return "", false, fmt.Errorf("create session: %w", err)
	}

	l.Info("admin logged in", slog.String("username", admin.Username), slog.String("session_id", sess.ID))
	return token, true, nil
}

// Authenticate resolves a session token.
func (s *SessionService) Authenticate(ctx context.Context, token string) (domain.AdminSession, error) {
	if token == "" {
		return domain.AdminSession{}, ErrUnauthorized
	}

	sess, err := s.Store.Sessions().GetSessionByTokenHash(ctx, s.Fingerprinter.Fingerprint(token))
	if errors.Is(err, store.ErrNotFound) {
		return domain.AdminSession{}, ErrUnauthorized
	}
	if err != nil {
		return domain.AdminSession{}, fmt.Errorf("lookup session: %w", err)
	}

	if sess.Expired(s.now()) {
		if err := s.Store.Sessions().DeleteSession(ctx, sess.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			slogx.FromContext(ctx).Warn("failed to delete expired session", slog.String("session_id", sess.ID), slog.Any("error", err))
		}
		return domain.AdminSession{}, ErrUnauthorized
	}
	return sess, nil
}

// Logout revokes the session behind token. Unknown tokens are not an error.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	sess, err := s.Store.Sessions().GetSessionByTokenHash(ctx, s.Fingerprinter.Fingerprint(token))
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup session: %w", err)
	}
	if err := s.Store.Sessions().DeleteSession(ctx, sess.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	slogx.FromContext(ctx).Info("admin logged out", slog.String("username", sess.Username), slog.String("session_id", sess.ID))
	return nil
}

// Authenticator adapts the service for httpx.SessionMiddleware.
func (s *SessionService) Authenticator() httpx.SessionAuthenticator {
	return httpx.SessionAuthenticatorFunc(func(ctx context.Context, token string) (httpx.Session, error) {
		sess, err := s.Authenticate(ctx, token)
		if err != nil {
			return httpx.Session{}, err
		}
		return httpx.Session{ID: sess.ID, Subject: sess.Username}, nil
	})
}
