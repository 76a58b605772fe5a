package postgres

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lingua-labs/lingua-api/internal/domain"
	"github.com/lingua-labs/lingua-api/internal/platform/logger"
	"github.com/lingua-labs/lingua-api/internal/store"
)

// PostgresLessonStore implements store.LessonStore.
type PostgresLessonStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewPostgresLessonStore creates a lesson store on db. It panics on a nil db.
func NewPostgresLessonStore(db *gorm.DB, logger *slog.Logger) *PostgresLessonStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresLessonStore{
		db:     db,
		logger: logger.With(slog.String("component", "lesson_store")),
	}
}

var _ store.LessonStore = (*PostgresLessonStore)(nil)

// withLanguage preloads the language summary embedded in lesson responses.
func withLanguage(db *gorm.DB) *gorm.DB {
	return db.Preload("Language", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "name", "country", "image_url")
	})
}

// Create implements store.LessonStore.Create.
func (s *PostgresLessonStore) Create(ctx context.Context, lesson *domain.Lesson) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := lesson.Validate(); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(lessonFromDomain(lesson)).Error; err != nil {
		mapped := MapError(err)
		log.Debug("failed to create lesson",
			slog.String("lesson_id", lesson.ID.String()),
			slog.String("error", mapped.Error()))
		return mapped
	}

	log.Debug("lesson created",
		slog.String("lesson_id", lesson.ID.String()),
		slog.String("language_id", lesson.LanguageID.String()))
	return nil
}

// GetByID implements store.LessonStore.GetByID.
func (s *PostgresLessonStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	var row lessonRow
	if err := withLanguage(s.db.WithContext(ctx)).First(&row, "id = ?", id).Error; err != nil {
		return nil, mapEntityError(err, store.ErrLessonNotFound, nil)
	}
	return row.toDomain(), nil
}

// Update implements store.LessonStore.Update.
func (s *PostgresLessonStore) Update(ctx context.Context, lesson *domain.Lesson) error {
	if err := lesson.Validate(); err != nil {
		return err
	}

	lesson.UpdatedAt = time.Now().UTC()
	result := s.db.WithContext(ctx).
		Model(&lessonRow{}).
		Where("id = ?", lesson.ID).
		Updates(map[string]any{
			"title":        lesson.Title,
			"description":  lesson.Description,
			"content":      lesson.Content,
			"media_url":    lesson.MediaURL,
			"type":         string(lesson.Type),
			"duration":     lesson.Duration,
			"level":        lesson.Level,
			"language_id":  lesson.LanguageID,
			"is_published": lesson.IsPublished,
			"updated_at":   lesson.UpdatedAt,
		})
	if result.Error != nil {
		return MapError(result.Error)
	}
	return checkRowsAffected(result, store.ErrLessonNotFound)
}

// Delete implements store.LessonStore.Delete.
func (s *PostgresLessonStore) Delete(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	var row lessonRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := withLanguage(tx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&row, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&lessonRow{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, mapEntityError(err, store.ErrLessonNotFound, nil)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("lesson deleted",
		slog.String("lesson_id", id.String()))
	return row.toDomain(), nil
}

// escapeLike escapes LIKE wildcards so the term matches literally.
func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}

func applyLessonFilter(db *gorm.DB, f store.LessonFilter) *gorm.DB {
	if f.LanguageID != nil {
		db = db.Where("lessons.language_id = ?", *f.LanguageID)
	}
	if f.Type != nil {
		db = db.Where("lessons.type = ?", string(*f.Type))
	}
	if f.Level != nil {
		db = db.Where("lessons.level = ?", *f.Level)
	}
	if f.IsPublished != nil {
		db = db.Where("lessons.is_published = ?", *f.IsPublished)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		db = db.Where(
			`(LOWER(lessons.title) LIKE ? ESCAPE '\' OR LOWER(COALESCE(lessons.description, '')) LIKE ? ESCAPE '\')`,
			pattern, pattern)
	}
	return db
}

// List implements store.LessonStore.List.
func (s *PostgresLessonStore) List(ctx context.Context, filter store.LessonFilter, offset, limit int) ([]*domain.Lesson, error) {
	q := applyLessonFilter(withLanguage(s.db.WithContext(ctx)).Model(&lessonRow{}), filter).
		Order("lessons.created_at DESC").
		Order("lessons.id DESC").
		Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []lessonRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, MapError(err)
	}
	return lessonsToDomain(rows), nil
}

// Count implements store.LessonStore.Count.
func (s *PostgresLessonStore) Count(ctx context.Context, filter store.LessonFilter) (int64, error) {
	var n int64
	err := applyLessonFilter(s.db.WithContext(ctx).Model(&lessonRow{}), filter).Count(&n).Error
	return n, MapError(err)
}

// ListPublishedByLanguage implements store.LessonStore.ListPublishedByLanguage.
func (s *PostgresLessonStore) ListPublishedByLanguage(ctx context.Context, languageID uuid.UUID, order store.SortOrder, limit int) ([]*domain.Lesson, error) {
	q := s.db.WithContext(ctx).
		Where("language_id = ? AND is_published = ?", languageID, true)
	if order == store.OldestFirst {
		q = q.Order("created_at ASC").Order("id ASC")
	} else {
		q = q.Order("created_at DESC").Order("id DESC")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []lessonRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, MapError(err)
	}
	return lessonsToDomain(rows), nil
}

// CountByLanguage implements store.LessonStore.CountByLanguage.
func (s *PostgresLessonStore) CountByLanguage(ctx context.Context, languageID uuid.UUID, publishedOnly bool) (int64, error) {
	q := s.db.WithContext(ctx).Model(&lessonRow{}).Where("language_id = ?", languageID)
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	var n int64
	err := q.Count(&n).Error
	return n, MapError(err)
}

// CountPublished implements store.LessonStore.CountPublished.
func (s *PostgresLessonStore) CountPublished(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&lessonRow{}).
		Where("is_published = ?", true).
		Count(&n).Error
	return n, MapError(err)
}

// SumPublishedDuration implements store.LessonStore.SumPublishedDuration.
func (s *PostgresLessonStore) SumPublishedDuration(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&lessonRow{}).
		Select("COALESCE(SUM(duration), 0)").
		Where("is_published = ?", true).
		Scan(&total).Error
	return total, MapError(err)
}

type breakdownRow struct {
	Level *string
	Type  string
	Total int64
}

// PublishedBreakdown implements store.LessonStore.PublishedBreakdown.
func (s *PostgresLessonStore) PublishedBreakdown(ctx context.Context) ([]domain.LessonBreakdown, error) {
	var rows []breakdownRow
	err := s.db.WithContext(ctx).Model(&lessonRow{}).
		Select("level, type, COUNT(*) AS total").
		Where("is_published = ?", true).
		Group("level, type").
		Order("level ASC, type ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, MapError(err)
	}

	out := make([]domain.LessonBreakdown, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.LessonBreakdown{
			Level: r.Level,
			Type:  domain.LessonType(r.Type),
			Count: r.Total,
		})
	}
	return out, nil
}

func lessonsToDomain(rows []lessonRow) []*domain.Lesson {
	out := make([]*domain.Lesson, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out
}
