package postgres

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lingua-labs/lingua-api/internal/domain"
	"github.com/lingua-labs/lingua-api/internal/platform/logger"
	"github.com/lingua-labs/lingua-api/internal/store"
)

// PostgresUserStore implements store.UserStore.
type PostgresUserStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewPostgresUserStore creates a user store on db. It panics on a nil db.
func NewPostgresUserStore(db *gorm.DB, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

var _ store.UserStore = (*PostgresUserStore)(nil)

// Create implements store.UserStore.Create.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	row := userFromDomain(user)
	row.Email = strings.ToLower(row.Email)
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error; err != nil {
		mapped := mapEntityError(err, nil, store.ErrEmailExists)
		log.Debug("failed to create user",
			slog.String("user_id", user.ID.String()),
			slog.String("error", mapped.Error()))
		return mapped
	}

	user.Email = row.Email
	log.Debug("user created", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var row userRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, mapEntityError(err, store.ErrUserNotFound, nil)
	}
	return row.toDomain(), nil
}

// GetByEmail implements store.UserStore.GetByEmail. Emails are matched
// case-insensitively.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var row userRow
	err := s.db.WithContext(ctx).
		First(&row, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		return nil, mapEntityError(err, store.ErrUserNotFound, nil)
	}
	return row.toDomain(), nil
}
