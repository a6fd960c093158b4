package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
	_ "time/tzdata" // embedded zoneinfo for RENDER_TIMEZONE

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// minSessionSecret is the shortest SESSION_SECRET accepted at startup.
const minSessionSecret = 32

type Config struct {
	Env       string `yaml:"env" envconfig:"ENV"`             // dev, staging, prod (default: dev)
	Port      int    `yaml:"port" envconfig:"PORT"`           // HTTP server port (default: 8080)
	LogLevel  string `yaml:"logLevel" envconfig:"LOG_LEVEL"`   // debug, info, warn, error (default: info)
	LogFormat string `yaml:"logFormat" envconfig:"LOG_FORMAT"` // json, text (default: json)
	LogFile   string `yaml:"logFile" envconfig:"LOG_FILE"`     // Optional: rotating log file

	DatabaseDriver string `yaml:"databaseDriver" envconfig:"DATABASE_DRIVER"` // sqlite, postgres (default: sqlite)
	DatabaseDSN    string `yaml:"databaseDsn" envconfig:"DATABASE_DSN"`       // Required

	SessionSecret       string        `yaml:"sessionSecret" envconfig:"SESSION_SECRET"` // Required, at least 32 bytes
	SessionTTL          time.Duration `yaml:"sessionTtl" envconfig:"SESSION_TTL"`
	SessionCookieName   string        `yaml:"sessionCookieName" envconfig:"SESSION_COOKIE_NAME"`
	SessionCookieSecure bool          `yaml:"sessionCookieSecure" envconfig:"SESSION_COOKIE_SECURE"`
	PepperFile          string        `yaml:"pepperFile" envconfig:"PEPPER_FILE"` // default: ./pepper

	Blob BlobConfig `yaml:"blob"`

	TemplatePath     string        `yaml:"templatePath" envconfig:"TEMPLATE_PATH"`
	TemplateCacheTTL time.Duration `yaml:"templateCacheTtl" envconfig:"TEMPLATE_CACHE_TTL"` // 0 disables caching
	RenderTimezone   string        `yaml:"renderTimezone" envconfig:"RENDER_TIMEZONE"`

	MaxUploadBytes int64  `yaml:"maxUploadBytes" envconfig:"MAX_UPLOAD_BYTES"`
	PublicDir      string `yaml:"publicDir" envconfig:"PUBLIC_DIR"` // Optional: static form/admin pages

	ShutdownGracePeriod  time.Duration `yaml:"shutdownGracePeriod" envconfig:"SHUTDOWN_GRACE_PERIOD"`
	HousekeepingInterval time.Duration `yaml:"housekeepingInterval" envconfig:"HOUSEKEEPING_INTERVAL"`
	OrphanGracePeriod    time.Duration `yaml:"orphanGracePeriod" envconfig:"ORPHAN_GRACE_PERIOD"`

	// Optional: seeds an admin account on startup when both are set.
	AdminBootstrapUsername string `yaml:"adminBootstrapUsername" envconfig:"ADMIN_BOOTSTRAP_USERNAME"`
	AdminBootstrapPassword string `yaml:"adminBootstrapPassword" envconfig:"ADMIN_BOOTSTRAP_PASSWORD"`
}

type BlobConfig struct {
	Driver    string `yaml:"driver" envconfig:"BLOB_DRIVER"` // local, s3, gcs, badger (default: local)
	LocalDir  string `yaml:"localDir" envconfig:"BLOB_LOCAL_DIR"`
	BadgerDir string `yaml:"badgerDir" envconfig:"BLOB_BADGER_DIR"`

	S3Bucket    string `yaml:"s3Bucket" envconfig:"BLOB_S3_BUCKET"`
	S3Prefix    string `yaml:"s3Prefix" envconfig:"BLOB_S3_PREFIX"`
	S3Region    string `yaml:"s3Region" envconfig:"BLOB_S3_REGION"`
	S3Endpoint  string `yaml:"s3Endpoint" envconfig:"BLOB_S3_ENDPOINT"`
	S3AccessKey string `yaml:"s3AccessKey" envconfig:"BLOB_S3_ACCESS_KEY"`
	S3SecretKey string `yaml:"s3SecretKey" envconfig:"BLOB_S3_SECRET_KEY"`

	GCSBucket          string `yaml:"gcsBucket" envconfig:"BLOB_GCS_BUCKET"`
	GCSPrefix          string `yaml:"gcsPrefix" envconfig:"BLOB_GCS_PREFIX"`
	GCSCredentialsFile string `yaml:"gcsCredentialsFile" envconfig:"BLOB_GCS_CREDENTIALS_FILE"`
}

// DefaultConfig returns the configuration used before any file or
// environment overrides are applied.
func DefaultConfig() Config {
	return Config{
		Env:                  "dev",
		Port:                 8080,
		LogLevel:             "info",
		LogFormat:            "json",
		DatabaseDriver:       "sqlite",
		SessionTTL:           24 * time.Hour,
		SessionCookieName:    "nominate_session",
		PepperFile:           "pepper",
		Blob:                 BlobConfig{Driver: "local", LocalDir: "uploads", BadgerDir: "blobs"},
		TemplatePath:         "template/nomination_template.pdf",
		TemplateCacheTTL:     5 * time.Minute,
		RenderTimezone:       "Australia/Sydney",
		MaxUploadBytes:       25 << 20,
		ShutdownGracePeriod:  10 * time.Second,
		HousekeepingInterval: 1 * time.Hour,
		OrphanGracePeriod:    24 * time.Hour,
	}
}

// LoadConfig builds the configuration from defaults, an optional YAML file
// named by CONFIG_FILE and the environment, in that order. A .env file in the
// working directory is loaded into the environment first if present.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := DefaultConfig()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first configuration problem that would prevent the
// service from starting.
func (c Config) Validate() error {
	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("config: unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return errors.New("config: DATABASE_DSN is required")
	}
	if len(c.SessionSecret) < minSessionSecret {
		return fmt.Errorf("config: SESSION_SECRET must be at least %d bytes", minSessionSecret)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid PORT %d", c.Port)
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("config: MAX_UPLOAD_BYTES must be positive")
	}
	if c.TemplatePath == "" {
		return errors.New("config: TEMPLATE_PATH is required")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("config: RENDER_TIMEZONE: %w", err)
	}
	if (c.AdminBootstrapUsername == "") != (c.AdminBootstrapPassword == "") {
		return errors.New("config: ADMIN_BOOTSTRAP_USERNAME and ADMIN_BOOTSTRAP_PASSWORD must be set together")
	}
	return c.Blob.validate()
}

// Location resolves RENDER_TIMEZONE.
func (c Config) Location() (*time.Location, error) {
	if c.RenderTimezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.RenderTimezone)
}

func (b BlobConfig) validate() error {
	switch b.Driver {
	case "local":
		if b.LocalDir == "" {
			return errors.New("config: BLOB_LOCAL_DIR is required for the local blob driver")
		}
	case "badger":
		if b.BadgerDir == "" {
			return errors.New("config: BLOB_BADGER_DIR is required for the badger blob driver")
		}
	case "s3":
		if b.S3Bucket == "" {
			return errors.New("config: BLOB_S3_BUCKET is required for the s3 blob driver")
		}
		if (b.S3AccessKey == "") != (b.S3SecretKey == "") {
			return errors.New("config: BLOB_S3_ACCESS_KEY and BLOB_S3_SECRET_KEY must be set together")
		}
	case "gcs":
		if b.GCSBucket == "" {
			return errors.New("config: BLOB_GCS_BUCKET is required for the gcs blob driver")
		}
	default:
		return fmt.Errorf("config: unsupported BLOB_DRIVER %q", b.Driver)
	}
	return nil
}
