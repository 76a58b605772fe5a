package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/lingua-labs/lingua-api/internal/config"
	"github.com/lingua-labs/lingua-api/internal/media"
	"github.com/lingua-labs/lingua-api/internal/observability"
	"github.com/lingua-labs/lingua-api/internal/platform/gcs"
	"github.com/lingua-labs/lingua-api/internal/platform/postgres"
	"github.com/lingua-labs/lingua-api/internal/service"
	"github.com/lingua-labs/lingua-api/internal/service/auth"
	"github.com/lingua-labs/lingua-api/internal/store"
)

const serviceName = "lingua-api"

// application holds the shared dependencies of the server and releases them
// on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *gorm.DB

	jwtService      auth.JWTService
	authService     service.AuthService
	languageService service.LanguageService
	lessonService   service.LessonService

	registry *prometheus.Registry
	metrics  *observability.Metrics

	// closers run in reverse order during cleanup.
	closers []func(context.Context) error
}

// stores groups the persistence dependencies of the services.
type stores struct {
	users     store.UserStore
	tutors    store.TutorStore
	languages store.LanguageStore
	lessons   store.LessonStore
}

// newApplication wires observability, storage and the services on top of an
// established database connection.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *gorm.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	flushSentry, err := observability.InitSentry(cfg.Observability, cfg.Server.Environment)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize error reporting: %w", err)
	}
	app.onClose(func(context.Context) error { flushSentry(); return nil })

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Observability, serviceName, cfg.Server.Environment, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	app.onClose(shutdownTracing)

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access database pool: %w", err)
	}
	app.registry = observability.NewRegistry(sqlDB)
	app.metrics = observability.NewMetrics(app.registry)

	uploader, err := app.newUploader(ctx)
	if err != nil {
		return nil, err
	}

	err = app.initServices(stores{
		users:     postgres.NewPostgresUserStore(db, logger),
		tutors:    postgres.NewPostgresTutorStore(db, logger),
		languages: postgres.NewPostgresLanguageStore(db, logger),
		lessons:   postgres.NewPostgresLessonStore(db, logger),
	}, uploader)
	if err != nil {
		return nil, err
	}

	logger.Info("application initialized")
	return app, nil
}

// newUploader returns the storage-backed uploader, or one that rejects every
// upload when no bucket is configured.
func (app *application) newUploader(ctx context.Context) (media.Uploader, error) {
	if !app.config.Storage.Enabled() {
		app.logger.Warn("no storage bucket configured, media uploads are disabled")
		return app.metrics.InstrumentUploader(media.DisabledUploader{}), nil
	}

	up, err := gcs.NewUploader(ctx, app.config.Storage, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}
	app.onClose(closeWith(up))
	return app.metrics.InstrumentUploader(up), nil
}

// initServices creates the JWT service and the domain services.
func (app *application) initServices(s stores, uploader media.Uploader) error {
	var err error
	app.jwtService, err = auth.NewJWTService(app.config.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	app.logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", app.config.Auth.TokenLifetimeMinutes))

	passwords := auth.NewBcryptHasher(app.config.Auth.BCryptCost)

	app.authService, err = service.NewAuthService(s.users, s.tutors, app.jwtService, passwords, passwords, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create auth service: %w", err)
	}
	app.languageService, err = service.NewLanguageService(s.languages, s.lessons, s.tutors, uploader, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create language service: %w", err)
	}
	app.lessonService, err = service.NewLessonService(s.lessons, s.languages, uploader, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create lesson service: %w", err)
	}
	return nil
}

// Run serves HTTP until ctx is canceled.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (app *application) onClose(fn func(context.Context) error) {
	app.closers = append(app.closers, fn)
}

func closeWith(c io.Closer) func(context.Context) error {
	return func(context.Context) error { return c.Close() }
}

// cleanup releases resources acquired by newApplication. The database is
// owned and closed by the caller.
func (app *application) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](ctx); err != nil {
			app.logger.Error("cleanup step failed", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
