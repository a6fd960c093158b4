package httpx_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/nominate/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestSessionMiddleware(t *testing.T) {
	auth := httpx.SessionAuthenticatorFunc(func(_ context.Context, token string) (httpx.Session, error) {
		switch token {
		case "good":
			return httpx.Session{ID: "s1", Subject: "admin"}, nil
		case "broken":
			return httpx.Session{}, errors.New("database is locked")
		}
		return httpx.Session{}, fmt.Errorf("lookup: %w", httpx.ErrInvalidSession)
	})

	var reached bool
	protected := httpx.SessionMiddleware(auth, "sid")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		subject, ok := httpx.SubjectFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, "admin", subject)

		sid, ok := httpx.SessionIDFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, "s1", sid)
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name     string
		cookie   *http.Cookie
		wantCode int
	}{
		{"no cookie", nil, http.StatusUnauthorized},
		{"empty cookie", &http.Cookie{Name: "sid", Value: ""}, http.StatusUnauthorized},
		{"unknown token", &http.Cookie{Name: "sid", Value: "bad"}, http.StatusUnauthorized},
		{"wrong cookie name", &http.Cookie{Name: "other", Value: "good"}, http.StatusUnauthorized},
		{"backend failure", &http.Cookie{Name: "sid", Value: "broken"}, http.StatusInternalServerError},
		{"valid session", &http.Cookie{Name: "sid", Value: "good"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached = false
			req := httptest.NewRequest(http.MethodGet, "/admin/nominations", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			require.Equal(t, tt.wantCode, rec.Code)
			require.Equal(t, tt.wantCode == http.StatusOK, reached)
			if tt.wantCode == http.StatusUnauthorized {
				require.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
			}
		})
	}
}
