package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lingua-labs/lingua-api/internal/domain"
	"github.com/lingua-labs/lingua-api/internal/media"
	"github.com/lingua-labs/lingua-api/internal/mocks"
	"github.com/lingua-labs/lingua-api/internal/service"
	"github.com/lingua-labs/lingua-api/internal/store"
)

type languageFixture struct {
	languages *mocks.MockLanguageStore
	lessons   *mocks.MockLessonStore
	tutors    *mocks.MockTutorStore
	uploader  *mocks.MockUploader
	svc       service.LanguageService
}

func newLanguageFixture(t *testing.T) *languageFixture {
	t.Helper()
	f := &languageFixture{
		languages: &mocks.MockLanguageStore{},
		lessons:   &mocks.MockLessonStore{},
		tutors:    &mocks.MockTutorStore{},
		uploader:  &mocks.MockUploader{},
	}
	svc, err := service.NewLanguageService(f.languages, f.lessons, f.tutors, f.uploader, discardLogger())
	require.NoError(t, err)
	f.svc = svc
	t.Cleanup(func() { f.uploader.AssertExpectations(t) })
	return f
}

func TestLanguageService_Create(t *testing.T) {
	t.Run("defaults to active and uploads image", func(t *testing.T) {
		f := newLanguageFixture(t)
		img := &media.File{Filename: "flag.png", ContentType: "image/png", Data: []byte{1}}
		f.uploader.On("UploadImage", mock.Anything, img).
			Return(&media.Result{SecureURL: "https://cdn.example.com/flag.png"}, nil).Once()

		var saved *domain.Language
		f.languages.CreateFn = func(_ context.Context, l *domain.Language) error {
			saved = l
			return nil
		}
		f.lessons.CountByLanguageFn = func(_ context.Context, _ uuid.UUID, publishedOnly bool) (int64, error) {
			assert.False(t, publishedOnly)
			return 0, nil
		}

		got, err := f.svc.Create(context.Background(), service.CreateLanguageInput{
			Name:     "  Spanish ",
			Country:  "Spain",
			ImageURL: ptr("https://ignored.example.com/x.png"),
		}, img)
		require.NoError(t, err)

		require.NotNil(t, saved)
		assert.Equal(t, "Spanish", saved.Name)
		assert.True(t, saved.IsActive)
		require.NotNil(t, got.ImageURL)
		assert.Equal(t, "https://cdn.example.com/flag.png", *got.ImageURL)
		assert.Equal(t, domain.LanguageCounts{}, got.Counts)
	})

	t.Run("name taken", func(t *testing.T) {
		f := newLanguageFixture(t)
		f.languages.GetByNameFn = func(context.Context, string) (*domain.Language, error) {
			return newLanguage("Spanish", "Spain"), nil
		}

		_, err := f.svc.Create(context.Background(), service.CreateLanguageInput{Name: "Spanish", Country: "Spain"}, nil)
		assert.ErrorIs(t, err, service.ErrLanguageExists)
	})

	t.Run("unique index race", func(t *testing.T) {
		f := newLanguageFixture(t)
		f.languages.CreateFn = func(context.Context, *domain.Language) error { return store.ErrLanguageNameExists }

		_, err := f.svc.Create(context.Background(), service.CreateLanguageInput{Name: "Spanish", Country: "Spain"}, nil)
		assert.ErrorIs(t, err, service.ErrLanguageExists)
	})

	t.Run("missing country", func(t *testing.T) {
		f := newLanguageFixture(t)
		_, err := f.svc.Create(context.Background(), service.CreateLanguageInput{Name: "Spanish"}, nil)
		assert.ErrorIs(t, err, domain.ErrEmptyLanguageCountry)
		assert.True(t, domain.IsValidationError(err))
	})

	t.Run("uploads disabled", func(t *testing.T) {
		svc, err := service.NewLanguageService(&mocks.MockLanguageStore{}, &mocks.MockLessonStore{},
			&mocks.MockTutorStore{}, nil, discardLogger())
		require.NoError(t, err)

		_, err = svc.Create(context.Background(), service.CreateLanguageInput{Name: "Spanish", Country: "Spain"},
			&media.File{ContentType: "image/png", Data: []byte{1}})
		assert.ErrorIs(t, err, media.ErrUploadsDisabled)
	})
}

func TestLanguageService_FindOne(t *testing.T) {
	f := newLanguageFixture(t)
	lang := newLanguage("French", "France")
	lessons := []*domain.Lesson{newLesson(lang.ID, true)}

	f.languages.GetByIDFn = func(_ context.Context, id uuid.UUID) (*domain.Language, error) {
		if id == lang.ID {
			return lang, nil
		}
		return nil, store.ErrLanguageNotFound
	}
	f.lessons.ListPublishedByLanguageFn = func(
		_ context.Context, _ uuid.UUID, order store.SortOrder, limit int,
	) ([]*domain.Lesson, error) {
		assert.Equal(t, store.NewestFirst, order)
		assert.Equal(t, 10, limit)
		return lessons, nil
	}
	f.lessons.CountByLanguageFn = func(_ context.Context, _ uuid.UUID, publishedOnly bool) (int64, error) {
		assert.True(t, publishedOnly)
		return 1, nil
	}
	f.tutors.CountByLanguageFn = func(context.Context, uuid.UUID) (int64, error) { return 3, nil }

	got, err := f.svc.FindOne(context.Background(), lang.ID)
	require.NoError(t, err)
	assert.Equal(t, "French", got.Name)
	assert.Equal(t, domain.LanguageCounts{Lessons: 1, Tutors: 3}, got.Counts)
	assert.Equal(t, lessons, got.Lessons)
	assert.NotNil(t, got.Tutors)

	_, err = f.svc.FindOne(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrLanguageNotFound)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestLanguageService_Update(t *testing.T) {
	existing := func() *domain.Language { return newLanguage("German", "Germany") }

	t.Run("rename to taken name", func(t *testing.T) {
		f := newLanguageFixture(t)
		lang := existing()
		f.languages.GetByIDFn = func(context.Context, uuid.UUID) (*domain.Language, error) { return lang, nil }
		f.languages.GetByNameFn = func(context.Context, string) (*domain.Language, error) {
			return newLanguage("Dutch", "Netherlands"), nil
		}

		_, err := f.svc.Update(context.Background(), lang.ID, service.UpdateLanguageInput{Name: ptr("Dutch")}, nil)
		assert.ErrorIs(t, err, service.ErrLanguageNameTaken)
	})

	t.Run("same name skips uniqueness check", func(t *testing.T) {
		f := newLanguageFixture(t)
		lang := existing()
		f.languages.GetByIDFn = func(context.Context, uuid.UUID) (*domain.Language, error) { return lang, nil }
		f.languages.GetByNameFn = func(context.Context, string) (*domain.Language, error) {
			t.Fatal("GetByName should not be called")
			return nil, nil
		}

		got, err := f.svc.Update(context.Background(), lang.ID, service.UpdateLanguageInput{
			Name:     ptr("German"),
			Country:  ptr("Austria"),
			IsActive: ptr(false),
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Austria", got.Country)
		assert.False(t, got.IsActive)
	})

	t.Run("not found", func(t *testing.T) {
		f := newLanguageFixture(t)
		_, err := f.svc.Update(context.Background(), uuid.New(), service.UpdateLanguageInput{}, nil)
		assert.ErrorIs(t, err, service.ErrLanguageNotFound)
	})

	t.Run("blank name rejected by store validation", func(t *testing.T) {
		f := newLanguageFixture(t)
		lang := existing()
		f.languages.GetByIDFn = func(context.Context, uuid.UUID) (*domain.Language, error) { return lang, nil }
		f.languages.UpdateFn = func(_ context.Context, l *domain.Language) error { return l.Validate() }

		_, err := f.svc.Update(context.Background(), lang.ID, service.UpdateLanguageInput{Name: ptr("  ")}, nil)
		assert.ErrorIs(t, err, domain.ErrEmptyLanguageName)
	})
}

func TestLanguageService_Remove(t *testing.T) {
	f := newLanguageFixture(t)
	lang := newLanguage("Italian", "Italy")
	f.languages.GetByIDFn = func(context.Context, uuid.UUID) (*domain.Language, error) { return lang, nil }

	var deactivated bool
	f.languages.SetActiveFn = func(_ context.Context, id uuid.UUID, active bool) error {
		assert.Equal(t, lang.ID, id)
		deactivated = !active
		return nil
	}

	got, err := f.svc.Remove(context.Background(), lang.ID)
	require.NoError(t, err)
	assert.True(t, deactivated)
	assert.True(t, got.IsActive, "snapshot is taken before deactivation")
}

func TestLanguageService_Stats(t *testing.T) {
	t.Run("aggregates", func(t *testing.T) {
		f := newLanguageFixture(t)
		f.languages.CountActiveFn = func(context.Context) (int64, error) { return 4, nil }
		f.languages.CountByCountryFn = func(context.Context) ([]domain.CountryCount, error) {
			return []domain.CountryCount{{Country: "Spain", Count: 2}}, nil
		}
		f.lessons.CountPublishedFn = func(context.Context) (int64, error) { return 12, nil }
		f.tutors.CountAvailableFn = func(context.Context) (int64, error) { return 5, nil }

		got, err := f.svc.Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, &domain.LanguageStats{
			TotalLanguages:     4,
			TotalLessons:       12,
			TotalTutors:        5,
			LanguagesByCountry: []domain.CountryCount{{Country: "Spain", Count: 2}},
		}, got)
	})

	t.Run("empty catalog", func(t *testing.T) {
		f := newLanguageFixture(t)
		f.languages.CountActiveFn = func(context.Context) (int64, error) { return 0, nil }
		f.languages.CountByCountryFn = func(context.Context) ([]domain.CountryCount, error) { return nil, nil }
		f.lessons.CountPublishedFn = func(context.Context) (int64, error) { return 0, nil }
		f.tutors.CountAvailableFn = func(context.Context) (int64, error) { return 0, nil }

		got, err := f.svc.Stats(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, got.LanguagesByCountry)
		assert.Empty(t, got.LanguagesByCountry)
	})

	t.Run("failure", func(t *testing.T) {
		f := newLanguageFixture(t)
		boom := errors.New("boom")
		f.languages.CountActiveFn = func(context.Context) (int64, error) { return 0, boom }
		f.languages.CountByCountryFn = func(context.Context) ([]domain.CountryCount, error) { return nil, nil }
		f.lessons.CountPublishedFn = func(context.Context) (int64, error) { return 0, nil }
		f.tutors.CountAvailableFn = func(context.Context) (int64, error) { return 0, nil }

		_, err := f.svc.Stats(context.Background())
		assert.ErrorIs(t, err, boom)
	})
}
