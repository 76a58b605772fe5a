package postgres

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lingua-labs/lingua-api/internal/domain"
	"github.com/lingua-labs/lingua-api/internal/platform/logger"
	"github.com/lingua-labs/lingua-api/internal/store"
)

// PostgresLanguageStore implements store.LanguageStore.
type PostgresLanguageStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewPostgresLanguageStore creates a language store on db. It panics on a nil db.
func NewPostgresLanguageStore(db *gorm.DB, logger *slog.Logger) *PostgresLanguageStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresLanguageStore{
		db:     db,
		logger: logger.With(slog.String("component", "language_store")),
	}
}

var _ store.LanguageStore = (*PostgresLanguageStore)(nil)

// Create implements store.LanguageStore.Create.
func (s *PostgresLanguageStore) Create(ctx context.Context, language *domain.Language) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := language.Validate(); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Create(languageFromDomain(language)).Error; err != nil {
		mapped := mapEntityError(err, nil, store.ErrLanguageNameExists)
		log.Debug("failed to create language",
			slog.String("language_id", language.ID.String()),
			slog.String("error", mapped.Error()))
		return mapped
	}

	log.Debug("language created",
		slog.String("language_id", language.ID.String()),
		slog.String("name", language.Name))
	return nil
}

// GetByID implements store.LanguageStore.GetByID.
func (s *PostgresLanguageStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Language, error) {
	var row languageRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, mapEntityError(err, store.ErrLanguageNotFound, nil)
	}
	return row.toDomain(), nil
}

// GetByName implements store.LanguageStore.GetByName.
func (s *PostgresLanguageStore) GetByName(ctx context.Context, name string) (*domain.Language, error) {
	var row languageRow
	if err := s.db.WithContext(ctx).First(&row, "name = ?", strings.TrimSpace(name)).Error; err != nil {
		return nil, mapEntityError(err, store.ErrLanguageNotFound, nil)
	}
	return row.toDomain(), nil
}

type languageCountRow struct {
	Language    languageRow `gorm:"embedded"`
	LessonCount int64
	TutorCount  int64
}

// List implements store.LanguageStore.List.
func (s *PostgresLanguageStore) List(ctx context.Context, includeInactive bool) ([]domain.LanguageWithCounts, error) {
	q := s.db.WithContext(ctx).
		Table("languages").
		Select(`languages.*,
			(SELECT COUNT(*) FROM lessons
				WHERE lessons.language_id = languages.id AND lessons.is_published = ?) AS lesson_count,
			(SELECT COUNT(*) FROM tutor_languages
				WHERE tutor_languages.language_id = languages.id) AS tutor_count`, true).
		Order("languages.name ASC")
	if !includeInactive {
		q = q.Where("languages.is_active = ?", true)
	}

	var rows []languageCountRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, MapError(err)
	}

	out := make([]domain.LanguageWithCounts, 0, len(rows))
	for i := range rows {
		out = append(out, domain.LanguageWithCounts{
			Language: *rows[i].Language.toDomain(),
			Counts: domain.LanguageCounts{
				Lessons: rows[i].LessonCount,
				Tutors:  rows[i].TutorCount,
			},
		})
	}
	return out, nil
}

// Update implements store.LanguageStore.Update.
func (s *PostgresLanguageStore) Update(ctx context.Context, language *domain.Language) error {
	if err := language.Validate(); err != nil {
		return err
	}

	language.UpdatedAt = time.Now().UTC()
	result := s.db.WithContext(ctx).
		Model(&languageRow{}).
		Where("id = ?", language.ID).
		Updates(map[string]any{
			"name":        language.Name,
			"description": language.Description,
			"country":     language.Country,
			"image_url":   language.ImageURL,
			"is_active":   language.IsActive,
			"updated_at":  language.UpdatedAt,
		})
	if result.Error != nil {
		return mapEntityError(result.Error, store.ErrLanguageNotFound, store.ErrLanguageNameExists)
	}
	return checkRowsAffected(result, store.ErrLanguageNotFound)
}

// SetActive implements store.LanguageStore.SetActive.
func (s *PostgresLanguageStore) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result := s.db.WithContext(ctx).
		Model(&languageRow{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_active":  active,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return MapError(result.Error)
	}
	if err := checkRowsAffected(result, store.ErrLanguageNotFound); err != nil {
		return err
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("language active flag changed",
		slog.String("language_id", id.String()),
		slog.Bool("active", active))
	return nil
}

// CountActive implements store.LanguageStore.CountActive.
func (s *PostgresLanguageStore) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&languageRow{}).
		Where("is_active = ?", true).
		Count(&n).Error
	return n, MapError(err)
}

type countryCountRow struct {
	Country string
	Total   int64
}

// CountByCountry implements store.LanguageStore.CountByCountry.
func (s *PostgresLanguageStore) CountByCountry(ctx context.Context) ([]domain.CountryCount, error) {
	var rows []countryCountRow
	err := s.db.WithContext(ctx).Model(&languageRow{}).
		Select("country, COUNT(*) AS total").
		Where("is_active = ?", true).
		Group("country").
		Order("total DESC, country ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, MapError(err)
	}

	out := make([]domain.CountryCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.CountryCount{Country: r.Country, Count: r.Total})
	}
	return out, nil
}
