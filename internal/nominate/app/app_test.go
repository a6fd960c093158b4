package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/nominate/internal/nominate/store"
)

func newTestApplication(t *testing.T) *Application {
	t.Helper()
	dir := t.TempDir()

	cfg := validConfig()
	cfg.Env = "test"
	cfg.LogLevel = "error"
	cfg.DatabaseDSN = "file:" + filepath.Join(dir, "nominate.db")
	cfg.PepperFile = filepath.Join(dir, "pepper")
	cfg.Blob.LocalDir = filepath.Join(dir, "uploads")
	cfg.TemplatePath = filepath.Join(dir, "missing.pdf")
	cfg.AdminBootstrapUsername = "root"
	cfg.AdminBootstrapPassword = "correct horse"

	application, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })
	return application
}

func TestNew_WiresHealthRoutes(t *testing.T) {
	application := newTestApplication(t)

	rec := httptest.NewRecorder()
	application.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestBootstrapAdmin_CreatesOnce(t *testing.T) {
	application := newTestApplication(t)
	ctx := context.Background()

	require.NoError(t, application.bootstrapAdmin(ctx))
	require.NoError(t, application.bootstrapAdmin(ctx), "an existing admin is not an error")

	err := application.CreateAdmin(ctx, "root", "another password")
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	body := strings.NewReader(`{"name":"root","password":"correct horse"}`)
	req := httptest.NewRequest(http.MethodPost, "/admin/login", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	application.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.True(t, resp.Success)
}

func TestSetAdminPassword(t *testing.T) {
	application := newTestApplication(t)
	ctx := context.Background()

	require.NoError(t, application.CreateAdmin(ctx, "ops", "first password"))
	require.NoError(t, application.SetAdminPassword(ctx, "ops", "second password"))

	_, ok, err := application.sessionService.Login(ctx, "ops", "second password")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestSweep_EmptyStores(t *testing.T) {
	application := newTestApplication(t)

	result := application.Sweep(context.Background())
	require.Zero(t, result.ExpiredSessions)
	require.Zero(t, result.OrphansDeleted)
	require.Zero(t, result.OrphansKept)
}
