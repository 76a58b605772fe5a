package postgres

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lingua-labs/lingua-api/internal/domain"
	"github.com/lingua-labs/lingua-api/internal/store"
)

// PostgresTutorStore implements store.TutorStore.
type PostgresTutorStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewPostgresTutorStore creates a tutor store on db. It panics on a nil db.
func NewPostgresTutorStore(db *gorm.DB, logger *slog.Logger) *PostgresTutorStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTutorStore{
		db:     db,
		logger: logger.With(slog.String("component", "tutor_store")),
	}
}

var _ store.TutorStore = (*PostgresTutorStore)(nil)

// GetByUserID implements store.TutorStore.GetByUserID.
func (s *PostgresTutorStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.TutorProfile, error) {
	var row tutorProfileRow
	err := s.db.WithContext(ctx).
		Preload("Languages.Language").
		First(&row, "user_id = ?", userID).Error
	if err != nil {
		return nil, mapEntityError(err, store.ErrTutorProfileNotFound, nil)
	}
	return row.toDomain(), nil
}

type languageTutorRow struct {
	ID          uuid.UUID
	Bio         *string
	HourlyRate  *float64
	IsAvailable bool
	FirstName   string
	LastName    string
	Avatar      *string
}

// ListByLanguage implements store.TutorStore.ListByLanguage.
func (s *PostgresTutorStore) ListByLanguage(ctx context.Context, languageID uuid.UUID, limit int) ([]domain.LanguageTutor, error) {
	var rows []languageTutorRow
	q := s.db.WithContext(ctx).
		Table("tutor_languages").
		Select(`tutor_profiles.id, tutor_profiles.bio, tutor_profiles.hourly_rate,
			tutor_profiles.is_available, users.first_name, users.last_name, users.avatar`).
		Joins("JOIN tutor_profiles ON tutor_profiles.id = tutor_languages.tutor_id").
		Joins("JOIN users ON users.id = tutor_profiles.user_id").
		Where("tutor_languages.language_id = ?", languageID).
		Order("users.last_name ASC, users.first_name ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, MapError(err)
	}

	tutors := make([]domain.LanguageTutor, 0, len(rows))
	for _, r := range rows {
		tutors = append(tutors, domain.LanguageTutor{
			ID:          r.ID,
			Bio:         r.Bio,
			HourlyRate:  r.HourlyRate,
			IsAvailable: r.IsAvailable,
			FirstName:   r.FirstName,
			LastName:    r.LastName,
			Avatar:      r.Avatar,
		})
	}
	return tutors, nil
}

// CountByLanguage implements store.TutorStore.CountByLanguage.
func (s *PostgresTutorStore) CountByLanguage(ctx context.Context, languageID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&tutorLanguageRow{}).
		Where("language_id = ?", languageID).
		Count(&n).Error
	return n, MapError(err)
}

// CountAvailable implements store.TutorStore.CountAvailable.
func (s *PostgresTutorStore) CountAvailable(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&tutorProfileRow{}).
		Where("is_available = ?", true).
		Count(&n).Error
	return n, MapError(err)
}
