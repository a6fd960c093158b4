package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestHasher(t *testing.T) *PasswordHasher {
	t.Helper()
	h, err := NewPasswordHasher("test-pepper")
	require.NoError(t, err)
	return h
}

func TestHashAndVerify(t *testing.T) {
	t.Parallel()
	h := newTestHasher(t)

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	tests := []struct {
		name     string
		password string
		hash     string
		wantErr  string
	}{
		{name: "valid password", password: "correct horse", hash: hash},
		{name: "wrong password", password: "battery staple", hash: hash, wantErr: "password does not match"},
		{name: "malformed hash", password: "x", hash: "not-a-hash", wantErr: "expected 6 parts"},
		{name: "wrong algorithm", password: "x", hash: "$bcrypt$v=19$m=1,t=1,p=1$AA$AA", wantErr: "not argon2id"},
		{name: "wrong version", password: "x", hash: "$argon2id$v=18$m=1,t=1,p=1$AA$AA", wantErr: "wrong version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.Verify(tt.password, tt.hash)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHash_SaltIsRandom(t *testing.T) {
	t.Parallel()
	h := newTestHasher(t)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestVerify_PepperMismatch(t *testing.T) {
	t.Parallel()
	h := newTestHasher(t)
	hash, err := h.Hash("secret")
	require.NoError(t, err)

	other, err := NewPasswordHasher("different-pepper")
	require.NoError(t, err)
	require.ErrorIs(t, other.Verify("secret", hash), ErrPasswordMismatch)
}

func TestVerifyDummy(t *testing.T) {
	t.Parallel()
	h := newTestHasher(t)
	require.NotPanics(t, func() { h.VerifyDummy("anything") })
}

func TestGeneratePassword(t *testing.T) {
	t.Parallel()
	pw, err := GeneratePassword()
	require.NoError(t, err)
	require.Len(t, pw, 16)
	for _, c := range pw {
		isAlnum := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		require.True(t, isAlnum, "unexpected character %q", c)
	}
}

func TestLoadOrCreatePepper(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "pepper")

	first, err := LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.Equal(t, first, second, "pepper must be stable across loads")

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	_, err = LoadOrCreatePepper("")
	require.Error(t, err)
}
