//go:build integration

package testdb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"

	"github.com/lingua-labs/lingua-api/internal/config"
	"github.com/lingua-labs/lingua-api/internal/platform/postgres"
)

const (
	image        = "postgres:17-alpine"
	startTimeout = 2 * time.Minute
)

// Handle owns a running container and the gorm connection to it.
type Handle struct {
	DB     *gorm.DB
	cancel func()
	stop   func(context.Context) error
}

// Close closes the connection and terminates the container.
func (h *Handle) Close() {
	if h.DB != nil {
		_ = postgres.Close(h.DB)
	}
	if h.stop != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = h.stop(ctx)
	}
	if h.cancel != nil {
		h.cancel()
	}
}

// Start runs a PostgreSQL container, connects to it and migrates it to
// the latest version.
func Start(ctx context.Context) (*Handle, error) {
	ctx, cancel := context.WithTimeout(ctx, startTimeout)

	pg, err := tcpostgres.RunContainer(ctx,
		tc.WithImage(image),
		tcpostgres.WithDatabase("lingua"),
		tcpostgres.WithUsername("lingua"),
		tcpostgres.WithPassword("lingua"),
	)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}
	fail := func(err error) (*Handle, error) {
		_ = pg.Terminate(context.Background())
		cancel()
		return nil, err
	}

	uri, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return fail(err)
	}

	db, err := waitReady(ctx, uri)
	if err != nil {
		return fail(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fail(err)
	}
	if err := postgres.Migrate(ctx, sqlDB, "up", slog.Default()); err != nil {
		return fail(err)
	}

	return &Handle{DB: db, cancel: cancel, stop: pg.Terminate}, nil
}

// waitReady retries the connection until the server accepts it. The
// container reports ready before the final restart of the init scripts.
func waitReady(ctx context.Context, uri string) (*gorm.DB, error) {
	cfg := config.DatabaseConfig{
		URL:                    uri,
		MaxOpenConns:           5,
		MaxIdleConns:           2,
		ConnMaxLifetimeMinutes: 5,
	}
	deadline := time.Now().Add(20 * time.Second)
	var lastErr error
	for time.Now().Before(deadline) {
		db, err := postgres.Open(ctx, cfg, slog.Default())
		if err == nil {
			return db, nil
		}
		lastErr = err
		time.Sleep(200 * time.Millisecond)
	}
	return nil, errors.Join(errors.New("database not ready"), lastErr)
}

// New starts a migrated database for t and terminates it on cleanup.
func New(t *testing.T) *gorm.DB {
	t.Helper()
	h, err := Start(context.Background())
	require.NoError(t, err)
	t.Cleanup(h.Close)
	return h.DB
}

// Reset removes all rows from the application tables.
func Reset(t *testing.T, db *gorm.DB) {
	t.Helper()
	err := db.Exec("TRUNCATE lessons, tutor_languages, tutor_profiles, languages, users CASCADE").Error
	require.NoError(t, err)
}
