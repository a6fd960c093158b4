package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/aussiebroadwan/nominate/internal/nominate/blob"
	httpapi "github.com/aussiebroadwan/nominate/internal/nominate/http"
	"github.com/aussiebroadwan/nominate/internal/nominate/render"
	"github.com/aussiebroadwan/nominate/internal/nominate/service"
	"github.com/aussiebroadwan/nominate/internal/nominate/store"
	"github.com/aussiebroadwan/nominate/pkg/cryptox"
	"github.com/aussiebroadwan/nominate/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags "-X".
var BuildVersion = "v0.1.0"

// Application encapsulates the nomination service with all its dependencies
type Application struct {
	cfg       Config
	logger    *slog.Logger
	logCloser io.Closer
	registry  *prometheus.Registry

	// Core dependencies
	db       store.Store
	blobs    blob.Store
	hasher   *cryptox.PasswordHasher
	renderer *render.Renderer
	template *render.TemplateSource

	// Services
	submissionService   *service.SubmissionService
	sessionService      *service.SessionService
	nominationService   *service.NominationService
	adminService        *service.AdminService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
// Nothing listens until Run is called.
func New(cfg Config) (*Application, error) {
	logger, closer := slogx.New(slogx.Config{
		Service: "nominate",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		File:    cfg.LogFile,
	})

	app := &Application{
		cfg:       cfg,
		logger:    logger,
		logCloser: closer,
		registry:  prometheus.NewRegistry(),
	}
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ctx := context.Background()
	if err := app.initStorage(ctx); err != nil {
		_ = app.logCloser.Close()
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.closeStorage()
		_ = app.logCloser.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	ctx := context.Background()

	if err := app.bootstrapAdmin(ctx); err != nil {
		_ = app.Close()
		return err
	}
	render.LogLint(ctx, app.logger, app.template)

	app.housekeepingService.Start()

	app.logger.Info("nominate service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.housekeepingService.Stop()
			_ = app.Close()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down nominate service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	return app.Close()
}

// Close releases storage and the log file without touching the HTTP server.
// Commands that never call Run use it directly.
func (app *Application) Close() error {
	err := app.closeStorage()
	app.logger.Info("nominate service stopped")
	_ = app.logCloser.Close()
	return err
}

// CreateAdmin adds an admin account.
func (app *Application) CreateAdmin(ctx context.Context, username, password string) error {
	return app.adminService.CreateAdmin(ctx, username, password)
}

// SetAdminPassword replaces an existing admin's password.
func (app *Application) SetAdminPassword(ctx context.Context, username, password string) error {
	return app.adminService.SetPassword(ctx, username, password)
}

// Sweep runs a single housekeeping pass.
func (app *Application) Sweep(ctx context.Context) service.SweepResult {
	return app.housekeepingService.RunOnce(ctx)
}

// Handler exposes the fully wired router.
func (app *Application) Handler() http.Handler { return app.router }

// initStorage opens the record store and blob store.
func (app *Application) initStorage(ctx context.Context) error {
	db, err := openRecordStore(ctx, app.cfg)
	if err != nil {
		return err
	}
	app.db = db
	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)

	blobs, err := openBlobStore(ctx, app.cfg.Blob, app.logger)
	if err != nil {
		_ = app.db.Close()
		return fmt.Errorf("failed to initialize blob store: %w", err)
	}
	app.blobs = blob.Instrument(blobs, app.registry, app.cfg.Blob.Driver)
	app.logger.Info("blob store ready", "driver", app.cfg.Blob.Driver)

	return nil
}

func (app *Application) closeStorage() error {
	var errs []error
	if app.blobs != nil {
		if err := app.blobs.Close(); err != nil {
			app.logger.Error("error closing blob store", "error", err)
			errs = append(errs, err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database", "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	pepper, err := cryptox.LoadOrCreatePepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher, err = cryptox.NewPasswordHasher(pepper)
	if err != nil {
		return fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	loc, err := app.cfg.Location()
	if err != nil {
		return fmt.Errorf("failed to load render timezone: %w", err)
	}

	app.template = render.NewTemplateSource(app.cfg.TemplatePath, app.cfg.TemplateCacheTTL)
	app.renderer = render.NewRenderer(
		app.template,
		render.NewPDFCPUFiller(),
		render.WithLocation(loc),
		render.WithRegisterer(app.registry),
	)

	app.submissionService = service.NewSubmissionService(
		app.db,
		app.blobs,
		service.NewIntakeValidator(),
		app.registry,
	)
	app.sessionService = service.NewSessionService(
		app.db,
		app.hasher,
		cryptox.NewFingerprinter([]byte(app.cfg.SessionSecret)),
		app.cfg.SessionTTL,
	)
	app.nominationService = &service.NominationService{
		Store:    app.db,
		Blobs:    app.blobs,
		Renderer: app.renderer,
	}
	app.adminService = &service.AdminService{
		Store:  app.db,
		Hasher: app.hasher,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.blobs,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.OrphanGracePeriod,
	)
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.blobs,
		app.logger,
		app.registry,
	)

	// Wire services to router
	router.SubmissionService = app.submissionService
	router.SessionService = app.sessionService
	router.NominationService = app.nominationService
	router.Cookie = httpapi.CookieConfig{
		Name:   app.cfg.SessionCookieName,
		Secure: app.cfg.SessionCookieSecure,
	}
	router.MaxUploadBytes = app.cfg.MaxUploadBytes
	router.PublicDir = app.cfg.PublicDir
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// bootstrapAdmin seeds the configured admin account, if any. An existing
// account is left untouched.
func (app *Application) bootstrapAdmin(ctx context.Context) error {
	if app.cfg.AdminBootstrapUsername == "" {
		return nil
	}

	created, err := app.adminService.EnsureAdmin(ctx, app.cfg.AdminBootstrapUsername, app.cfg.AdminBootstrapPassword)
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}
	if created {
		app.logger.Info("bootstrap admin created", "username", app.cfg.AdminBootstrapUsername)
	}
	return nil
}
