package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lingua-labs/lingua-api/internal/domain"
	"github.com/lingua-labs/lingua-api/internal/media"
	"github.com/lingua-labs/lingua-api/internal/platform/logger"
	"github.com/lingua-labs/lingua-api/internal/store"
)

// detailLimit bounds the lessons and tutors embedded in a language detail.
const detailLimit = 10

// CreateLanguageInput carries a validated create request.
type CreateLanguageInput struct {
	Name        string
	Country     string
	Description *string
	ImageURL    *string
	// IsActive defaults to true.
	IsActive *bool
}

// UpdateLanguageInput carries a partial update; nil fields are left unchanged.
type UpdateLanguageInput struct {
	Name        *string
	Country     *string
	Description *string
	ImageURL    *string
	IsActive    *bool
}

// LanguageDetail is a language with its newest published lessons and tutors.
type LanguageDetail struct {
	domain.LanguageWithCounts
	Lessons []*domain.Lesson
	Tutors  []domain.LanguageTutor
}

// LanguageService manages the language catalog.
type LanguageService interface {
	// Create adds a language, uploading image first when given.
	// Returns ErrLanguageExists if the name is taken.
	Create(ctx context.Context, in CreateLanguageInput, image *media.File) (*domain.LanguageWithCounts, error)

	// FindAll lists languages by name with published lesson and tutor counts.
	FindAll(ctx context.Context, includeInactive bool) ([]domain.LanguageWithCounts, error)

	// FindOne returns a language with up to ten of its newest published
	// lessons and up to ten tutors. Returns ErrLanguageNotFound.
	FindOne(ctx context.Context, id uuid.UUID) (*LanguageDetail, error)

	// Update applies the provided fields. Returns ErrLanguageNotFound or
	// ErrLanguageNameTaken.
	Update(ctx context.Context, id uuid.UUID, in UpdateLanguageInput, image *media.File) (*domain.LanguageWithCounts, error)

	// Remove soft-deletes a language and returns it as it was before.
	// Returns ErrLanguageNotFound.
	Remove(ctx context.Context, id uuid.UUID) (*domain.LanguageWithCounts, error)

	// Stats summarizes the active catalog.
	Stats(ctx context.Context) (*domain.LanguageStats, error)
}

type languageServiceImpl struct {
	languages store.LanguageStore
	lessons   store.LessonStore
	tutors    store.TutorStore
	uploader  media.Uploader
	logger    *slog.Logger
}

// NewLanguageService creates a LanguageService. A nil uploader disables
// image uploads.
func NewLanguageService(
	languages store.LanguageStore,
	lessons store.LessonStore,
	tutors store.TutorStore,
	uploader media.Uploader,
	logger *slog.Logger,
) (LanguageService, error) {
	if languages == nil {
		return nil, domain.NewValidationError("languages", "cannot be nil", domain.ErrValidation)
	}
	if lessons == nil {
		return nil, domain.NewValidationError("lessons", "cannot be nil", domain.ErrValidation)
	}
	if tutors == nil {
		return nil, domain.NewValidationError("tutors", "cannot be nil", domain.ErrValidation)
	}
	if uploader == nil {
		uploader = media.DisabledUploader{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &languageServiceImpl{
		languages: languages,
		lessons:   lessons,
		tutors:    tutors,
		uploader:  uploader,
		logger:    logger.With(slog.String("component", "language_service")),
	}, nil
}

// Create implements LanguageService.Create.
func (s *languageServiceImpl) Create(
	ctx context.Context,
	in CreateLanguageInput,
	image *media.File,
) (*domain.LanguageWithCounts, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.languages.GetByName(ctx, strings.TrimSpace(in.Name)); err == nil {
		return nil, ErrLanguageExists
	} else if !errors.Is(err, store.ErrLanguageNotFound) {
		return nil, opError("language", "create", err)
	}

	if image != nil {
		res, err := s.uploader.UploadImage(ctx, image)
		if err != nil {
			return nil, opError("language", "upload_image", err)
		}
		in.ImageURL = &res.SecureURL
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	lang, err := domain.NewLanguage(in.Name, in.Country, in.Description, in.ImageURL, active)
	if err != nil {
		return nil, err
	}

	if err := s.languages.Create(ctx, lang); err != nil {
		if errors.Is(err, store.ErrLanguageNameExists) {
			return nil, ErrLanguageExists
		}
		return nil, opError("language", "create", err)
	}

	log.Info("language created",
		slog.String("language_id", lang.ID.String()),
		slog.String("name", lang.Name))
	return s.withAllCounts(ctx, lang, "create")
}

// FindAll implements LanguageService.FindAll.
func (s *languageServiceImpl) FindAll(ctx context.Context, includeInactive bool) ([]domain.LanguageWithCounts, error) {
	langs, err := s.languages.List(ctx, includeInactive)
	if err != nil {
		return nil, opError("language", "find_all", err)
	}
	return langs, nil
}

// FindOne implements LanguageService.FindOne.
func (s *languageServiceImpl) FindOne(ctx context.Context, id uuid.UUID) (*LanguageDetail, error) {
	lang, err := s.getLanguage(ctx, id, "find_one")
	if err != nil {
		return nil, err
	}

	lessons, err := s.lessons.ListPublishedByLanguage(ctx, id, store.NewestFirst, detailLimit)
	if err != nil {
		return nil, opError("language", "find_one", err)
	}
	tutors, err := s.tutors.ListByLanguage(ctx, id, detailLimit)
	if err != nil {
		return nil, opError("language", "find_one", err)
	}
	published, err := s.lessons.CountByLanguage(ctx, id, true)
	if err != nil {
		return nil, opError("language", "find_one", err)
	}
	tutorCount, err := s.tutors.CountByLanguage(ctx, id)
	if err != nil {
		return nil, opError("language", "find_one", err)
	}

	return &LanguageDetail{
		LanguageWithCounts: domain.LanguageWithCounts{
			Language: *lang,
			Counts:   domain.LanguageCounts{Lessons: published, Tutors: tutorCount},
		},
		Lessons: lessons,
		Tutors:  tutors,
	}, nil
}

// Update implements LanguageService.Update.
func (s *languageServiceImpl) Update(
	ctx context.Context,
	id uuid.UUID,
	in UpdateLanguageInput,
	image *media.File,
) (*domain.LanguageWithCounts, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	lang, err := s.getLanguage(ctx, id, "update")
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name != lang.Name {
			if _, err := s.languages.GetByName(ctx, name); err == nil {
				return nil, ErrLanguageNameTaken
			} else if !errors.Is(err, store.ErrLanguageNotFound) {
				return nil, opError("language", "update", err)
			}
		}
		lang.Name = name
	}

	if image != nil {
		res, err := s.uploader.UploadImage(ctx, image)
		if err != nil {
			return nil, opError("language", "upload_image", err)
		}
		in.ImageURL = &res.SecureURL
	}

	if in.Country != nil {
		lang.Country = strings.TrimSpace(*in.Country)
	}
	if in.Description != nil {
		lang.Description = in.Description
	}
	if in.ImageURL != nil {
		lang.ImageURL = in.ImageURL
	}
	if in.IsActive != nil {
		lang.IsActive = *in.IsActive
	}

	if err := s.languages.Update(ctx, lang); err != nil {
		switch {
		case errors.Is(err, store.ErrLanguageNameExists):
			return nil, ErrLanguageNameTaken
		case errors.Is(err, store.ErrLanguageNotFound):
			return nil, ErrLanguageNotFound
		case errors.Is(err, domain.ErrValidation):
			return nil, err
		}
		return nil, opError("language", "update", err)
	}

	log.Info("language updated", slog.String("language_id", id.String()))
	return s.withAllCounts(ctx, lang, "update")
}

// Remove implements LanguageService.Remove.
func (s *languageServiceImpl) Remove(ctx context.Context, id uuid.UUID) (*domain.LanguageWithCounts, error) {
	lang, err := s.getLanguage(ctx, id, "remove")
	if err != nil {
		return nil, err
	}

	snapshot, err := s.withAllCounts(ctx, lang, "remove")
	if err != nil {
		return nil, err
	}

	if err := s.languages.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, store.ErrLanguageNotFound) {
			return nil, ErrLanguageNotFound
		}
		return nil, opError("language", "remove", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("language deactivated",
		slog.String("language_id", id.String()))
	return snapshot, nil
}

// Stats implements LanguageService.Stats. The four queries run concurrently;
// the first failure cancels the rest.
func (s *languageServiceImpl) Stats(ctx context.Context) (*domain.LanguageStats, error) {
	var stats domain.LanguageStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.languages.CountActive(gctx)
		stats.TotalLanguages = n
		return err
	})
	g.Go(func() error {
		n, err := s.lessons.CountPublished(gctx)
		stats.TotalLessons = n
		return err
	})
	g.Go(func() error {
		n, err := s.tutors.CountAvailable(gctx)
		stats.TotalTutors = n
		return err
	})
	g.Go(func() error {
		rows, err := s.languages.CountByCountry(gctx)
		stats.LanguagesByCountry = rows
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, opError("language", "stats", err)
	}
	if stats.LanguagesByCountry == nil {
		stats.LanguagesByCountry = []domain.CountryCount{}
	}
	return &stats, nil
}

func (s *languageServiceImpl) getLanguage(ctx context.Context, id uuid.UUID, op string) (*domain.Language, error) {
	lang, err := s.languages.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrLanguageNotFound) {
			return nil, ErrLanguageNotFound
		}
		return nil, opError("language", op, err)
	}
	return lang, nil
}

// withAllCounts attaches the total lesson count, published or not, and the
// tutor count.
func (s *languageServiceImpl) withAllCounts(
	ctx context.Context,
	lang *domain.Language,
	op string,
) (*domain.LanguageWithCounts, error) {
	lessons, err := s.lessons.CountByLanguage(ctx, lang.ID, false)
	if err != nil {
		return nil, opError("language", op, err)
	}
	tutors, err := s.tutors.CountByLanguage(ctx, lang.ID)
	if err != nil {
		return nil, opError("language", op, err)
	}
	return &domain.LanguageWithCounts{
		Language: *lang,
		Counts:   domain.LanguageCounts{Lessons: lessons, Tutors: tutors},
	}, nil
}
