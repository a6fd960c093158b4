package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/nominate/pkg/cryptox"
	"github.com/aussiebroadwan/nominate/pkg/httpx"
)

func newSessionFixture(t *testing.T) (*SessionService, *AdminService) {
	t.Helper()
	st := newTestStore(t)
	hasher := newTestHasher(t)
	admins := &AdminService{Store: st, Hasher: hasher}
	require.NoError(t, admins.CreateAdmin(context.Background(), "root", "correct horse"))

	sessions := NewSessionService(st, hasher, cryptox.NewFingerprinter([]byte("0123456789abcdef0123456789abcdef")), 0)
	return sessions, admins
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	sessions, _ := newSessionFixture(t)
	require.Equal(t, DefaultSessionTTL, sessions.TTL)

	tests := []struct {
		name     string
		user     string
		password string
		wantOK   bool
	}{
		{"valid", "root", "correct horse", true},
		{"wrong password", "root", "battery staple", false},
		{"unknown user", "nobody", "correct horse", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok, err := sessions.Login(ctx, tt.user, tt.password)
			require.NoError(t, err)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				require.Len(t, token, 43)
			} else {
				require.Empty(t, token)
			}
		})
	}
}

func TestAuthenticate_AndLogout(t *testing.T) {
	ctx := context.Background()
	sessions, _ := newSessionFixture(t)

	token, ok, err := sessions.Login(ctx, "root", "correct horse")
	require.NoError(t, err)
	require.True(t, ok)

	sess, err := sessions.Authenticate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "root", sess.Username)
	require.NotEqual(t, token, sess.TokenHash, "token is never stored")

	_, err = sessions.Authenticate(ctx, "not-a-token")
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = sessions.Authenticate(ctx, "")
	require.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, sessions.Logout(ctx, token))
	_, err = sessions.Authenticate(ctx, token)
	require.ErrorIs(t, err, ErrUnauthorized)

	// Logging out twice is harmless.
	require.NoError(t, sessions.Logout(ctx, token))
}

func TestAuthenticate_Expired(t *testing.T) {
	ctx := context.Background()
	sessions, _ := newSessionFixture(t)

	start := time.Now()
	sessions.now = func() time.Time { return start }
	token, ok, err := sessions.Login(ctx, "root", "correct horse")
	require.NoError(t, err)
	require.True(t, ok)

	sessions.now = func() time.Time { return start.Add(DefaultSessionTTL - time.Second) }
	_, err = sessions.Authenticate(ctx, token)
	require.NoError(t, err)

	sessions.now = func() time.Time { return start.Add(DefaultSessionTTL) }
	_, err = sessions.Authenticate(ctx, token)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthenticator(t *testing.T) {
	ctx := context.Background()
	sessions, _ := newSessionFixture(t)
	token, _, err := sessions.Login(ctx, "root", "correct horse")
	require.NoError(t, err)

	auth := sessions.Authenticator()
	s, err := auth.AuthenticateSession(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "root", s.Subject)
	require.NotEmpty(t, s.ID)

	_, err = auth.AuthenticateSession(ctx, "bogus")
	require.ErrorIs(t, err, httpx.ErrInvalidSession)
}
