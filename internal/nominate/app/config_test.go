package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.DatabaseDSN = "file::memory:"
	cfg.SessionSecret = testSecret
	return cfg
}

func TestLoadConfig_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DATABASE_DSN", "file:test.db")
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SESSION_COOKIE_SECURE", "true")
	t.Setenv("BLOB_DRIVER", "badger")
	t.Setenv("BLOB_BADGER_DIR", "/var/lib/nominate/blobs")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "sqlite", cfg.DatabaseDriver)
	require.Equal(t, "file:test.db", cfg.DatabaseDSN)
	require.Equal(t, 2*time.Hour, cfg.SessionTTL)
	require.True(t, cfg.SessionCookieSecure)
	require.Equal(t, "badger", cfg.Blob.Driver)
	require.Equal(t, "/var/lib/nominate/blobs", cfg.Blob.BadgerDir)
	require.Equal(t, int64(1<<20), cfg.MaxUploadBytes)
	require.Equal(t, "nominate_session", cfg.SessionCookieName)
}

func TestLoadConfig_YAMLOverlayThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nominate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 7070
databaseDriver: postgres
databaseDsn: postgres://nominate@localhost/nominate
sessionSecret: `+testSecret+`
templateCacheTtl: 30s
renderTimezone: UTC
blob:
  driver: s3
  s3Bucket: cvs
  s3Endpoint: http://localhost:9000
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "6060")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, 6060, cfg.Port, "environment wins over the file")
	require.Equal(t, "postgres", cfg.DatabaseDriver)
	require.Equal(t, 30*time.Second, cfg.TemplateCacheTTL)
	require.Equal(t, "s3", cfg.Blob.Driver)
	require.Equal(t, "cvs", cfg.Blob.S3Bucket)
	require.Equal(t, "http://localhost:9000", cfg.Blob.S3Endpoint)
	require.Equal(t, "uploads", cfg.Blob.LocalDir, "unset keys keep their defaults")
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("SESSION_SECRET", testSecret)

	_, err := LoadConfig()
	require.ErrorContains(t, err, "DATABASE_DSN")
}

func TestLoadConfig_UnreadableFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := LoadConfig()
	require.ErrorContains(t, err, "read config file")
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"ok", func(*Config) {}, ""},
		{"short secret", func(c *Config) { c.SessionSecret = "short" }, "SESSION_SECRET"},
		{"unknown driver", func(c *Config) { c.DatabaseDriver = "mysql" }, "DATABASE_DRIVER"},
		{"bad port", func(c *Config) { c.Port = 0 }, "PORT"},
		{"no upload limit", func(c *Config) { c.MaxUploadBytes = 0 }, "MAX_UPLOAD_BYTES"},
		{"bad timezone", func(c *Config) { c.RenderTimezone = "Mars/Olympus" }, "RENDER_TIMEZONE"},
		{"half bootstrap", func(c *Config) { c.AdminBootstrapUsername = "root" }, "ADMIN_BOOTSTRAP"},
		{"unknown blob driver", func(c *Config) { c.Blob.Driver = "ftp" }, "BLOB_DRIVER"},
		{"s3 without bucket", func(c *Config) { c.Blob.Driver = "s3" }, "BLOB_S3_BUCKET"},
		{"s3 half credentials", func(c *Config) {
			c.Blob.Driver = "s3"
			c.Blob.S3Bucket = "cvs"
			c.Blob.S3AccessKey = "key"
		}, "BLOB_S3_SECRET_KEY"},
		{"gcs without bucket", func(c *Config) { c.Blob.Driver = "gcs" }, "BLOB_GCS_BUCKET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.RenderTimezone = "UTC"
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.want == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.want)
		})
	}
}
