package postgres

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lingua-labs/lingua-api/internal/domain"
)

// newTestDB opens a private in-memory SQLite database with the row models
// migrated. Foreign keys are enforced so constraint mapping can be tested.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         NewGormLogger(discardLogger()),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&userRow{},
		&languageRow{},
		&tutorProfileRow{},
		&tutorLanguageRow{},
		&lessonRow{},
	))
	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T { return &v }

func seedUser(t *testing.T, db *gorm.DB, email string, role domain.Role) *domain.User {
	t.Helper()
	user, err := domain.NewUser(email, "$2a$04$hash", "Ada", "Lovelace", role)
	require.NoError(t, err)
	require.NoError(t, NewPostgresUserStore(db, discardLogger()).Create(context.Background(), user))
	return user
}

func seedLanguage(t *testing.T, db *gorm.DB, name, country string, active bool) *domain.Language {
	t.Helper()
	lang, err := domain.NewLanguage(name, country, nil, nil, active)
	require.NoError(t, err)
	require.NoError(t, NewPostgresLanguageStore(db, discardLogger()).Create(context.Background(), lang))
	return lang
}

// seedLesson inserts a lesson created at the given offset from a fixed base
// time so ordering is deterministic.
func seedLesson(
	t *testing.T,
	db *gorm.DB,
	languageID uuid.UUID,
	title string,
	published bool,
	offset time.Duration,
	mutate ...func(*domain.Lesson),
) *domain.Lesson {
	t.Helper()
	lesson, err := domain.NewLesson(title, languageID, domain.LessonTypeText)
	require.NoError(t, err)
	lesson.IsPublished = published
	lesson.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(offset)
	lesson.UpdatedAt = lesson.CreatedAt
	for _, m := range mutate {
		m(lesson)
	}
	require.NoError(t, NewPostgresLessonStore(db, discardLogger()).Create(context.Background(), lesson))
	return lesson
}

func seedTutor(t *testing.T, db *gorm.DB, user *domain.User, available bool, languageIDs ...uuid.UUID) uuid.UUID {
	t.Helper()
	now := time.Now().UTC()
	profile := &tutorProfileRow{
		ID:          uuid.New(),
		UserID:      user.ID,
		Bio:         ptr("Patient tutor"),
		HourlyRate:  ptr(25.5),
		IsAvailable: available,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, db.Omit("Languages").Create(profile).Error)
	for _, id := range languageIDs {
		require.NoError(t, db.Omit("Language").Create(&tutorLanguageRow{
			TutorID:     profile.ID,
			LanguageID:  id,
			Proficiency: ptr("NATIVE"),
		}).Error)
	}
	return profile.ID
}
