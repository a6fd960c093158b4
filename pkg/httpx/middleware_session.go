package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/nominate/pkg/slogx"
)

// Session is the minimal view of an authenticated server-side session.
type Session struct {
	ID      string
	Subject string
}

// ErrInvalidSession is returned (possibly wrapped) by a SessionAuthenticator
// when the token is unknown, expired or revoked.
var ErrInvalidSession = errors.New("invalid session")

// SessionAuthenticator resolves an opaque session token. Errors that are not
// ErrInvalidSession are treated as backend failures.
type SessionAuthenticator interface {
	AuthenticateSession(ctx context.Context, token string) (Session, error)
}

// SessionAuthenticatorFunc adapts a function into a SessionAuthenticator.
type SessionAuthenticatorFunc func(ctx context.Context, token string) (Session, error)

func (f SessionAuthenticatorFunc) AuthenticateSession(ctx context.Context, token string) (Session, error) {
	return f(ctx, token)
}

// SessionMiddleware requires a valid session cookie. Requests without one get
// a 401 JSON response and never reach next.
func SessionMiddleware(auth SessionAuthenticator, cookieName string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			c, err := r.Cookie(cookieName)
			if err != nil || c.Value == "" {
				WriteError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			s, err := auth.AuthenticateSession(ctx, c.Value)
			switch {
			case errors.Is(err, ErrInvalidSession):
				log.Debug("session rejected", "err", err)
				WriteError(w, http.StatusUnauthorized, "unauthorized")
				return
			case err != nil:
				log.Error("session lookup failed", "err", err)
				WriteError(w, http.StatusInternalServerError, "internal error")
				return
			}

			ctx = contextWithSession(ctx, s)
			ctx = slogx.With(ctx, "admin", s.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
