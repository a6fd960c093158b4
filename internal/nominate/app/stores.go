package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/nominate/internal/nominate/blob"
	badgerblob "github.com/aussiebroadwan/nominate/internal/nominate/blob/drivers/badger"
	"github.com/aussiebroadwan/nominate/internal/nominate/blob/drivers/gcs"
	"github.com/aussiebroadwan/nominate/internal/nominate/blob/drivers/local"
	"github.com/aussiebroadwan/nominate/internal/nominate/blob/drivers/s3"
	"github.com/aussiebroadwan/nominate/internal/nominate/store"
	"github.com/aussiebroadwan/nominate/internal/nominate/store/drivers/postgres"
	"github.com/aussiebroadwan/nominate/internal/nominate/store/drivers/sqlite"
)

// migratingStore is a record store that owns its schema.
type migratingStore interface {
	store.Store
	ApplyMigrations() error
}

// openRecordStore connects to the configured database and applies pending
// migrations.
func openRecordStore(ctx context.Context, cfg Config) (store.Store, error) {
	var (
		st  migratingStore
		err error
	)
	switch cfg.DatabaseDriver {
	case "postgres":
		st, err = postgres.NewStore(ctx, cfg.DatabaseDSN)
	default:
		st, err = sqlite.NewStore(cfg.DatabaseDSN)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := st.ApplyMigrations(); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	return st, nil
}

// openBlobStore builds the configured blob backend.
func openBlobStore(ctx context.Context, cfg BlobConfig, logger *slog.Logger) (blob.Store, error) {
	switch cfg.Driver {
	case "s3":
		opts := []s3.OptionFunc{
			s3.WithLogger(logger),
			s3.WithBucket(cfg.S3Bucket),
			s3.WithPrefix(cfg.S3Prefix),
		}
		if cfg.S3Region != "" {
			opts = append(opts, s3.WithRegion(cfg.S3Region))
		}
		if cfg.S3Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(cfg.S3Endpoint))
		}
		if cfg.S3AccessKey != "" {
			opts = append(opts, s3.WithStaticCredentials(cfg.S3AccessKey, cfg.S3SecretKey))
		}
		return s3.New(ctx, opts...)

	case "gcs":
		opts := []gcs.OptionFunc{
			gcs.WithLogger(logger),
			gcs.WithBucket(cfg.GCSBucket),
			gcs.WithPrefix(cfg.GCSPrefix),
		}
		if cfg.GCSCredentialsFile != "" {
			if err := gcs.ValidateCredentials(cfg.GCSCredentialsFile); err != nil {
				return nil, err
			}
			opts = append(opts, gcs.WithCredentialsFile(cfg.GCSCredentialsFile))
		}
		return gcs.New(ctx, opts...)

	case "badger":
		return badgerblob.New(
			badgerblob.WithDataDir(cfg.BadgerDir),
			badgerblob.WithLogger(logger),
		)

	default:
		return local.New(cfg.LocalDir)
	}
}
