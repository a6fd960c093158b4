package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/nominate/internal/nominate/domain"
	"github.com/aussiebroadwan/nominate/internal/nominate/store"
	"github.com/aussiebroadwan/nominate/pkg/cryptox"
	"github.com/aussiebroadwan/nominate/pkg/slogx"
)

var (
	ErrInvalidUsername = errors.New("username must not be empty")
	ErrInvalidPassword = errors.New("password must be at least 8 characters")
)

const minPasswordLength = 8

// AdminService seeds and maintains admin accounts. Nothing on the HTTP
// surface creates admins.
type AdminService struct {
	Store  store.Store
	Hasher *cryptox.PasswordHasher
}

// CreateAdmin adds a new admin. Returns store.ErrAlreadyExists for a taken
// username.
func (s *AdminService) CreateAdmin(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrInvalidUsername
	}
	if len(password) < minPasswordLength {
		return ErrInvalidPassword
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.Store.Admins().CreateAdmin(ctx, domain.Admin{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("admin created", slog.String("username", username))
	return nil
}

// SetPassword replaces an existing admin's password.
func (s *AdminService) SetPassword(ctx context.Context, username, password string) error {
	if len(password) < minPasswordLength {
		return ErrInvalidPassword
	}
	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.Store.Admins().UpdateAdminPasswordHash(ctx, strings.TrimSpace(username), hash)
}

// EnsureAdmin creates username if it does not exist yet. An existing
// account is left untouched, password included.
func (s *AdminService) EnsureAdmin(ctx context.Context, username, password string) (created bool, err error) {
	_, err = s.Store.Admins().GetAdminByUsername(ctx, strings.TrimSpace(username))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, fmt.Errorf("lookup admin: %w", err)
	}

	err = s.CreateAdmin(ctx, username, password)
	if errors.Is(err, store.ErrAlreadyExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
