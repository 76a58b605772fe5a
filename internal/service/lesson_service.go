package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lingua-labs/lingua-api/internal/domain"
	"github.com/lingua-labs/lingua-api/internal/media"
	"github.com/lingua-labs/lingua-api/internal/platform/logger"
	"github.com/lingua-labs/lingua-api/internal/store"
)

// Pagination defaults for lesson listings.
const (
	DefaultPage      = 1
	DefaultPageLimit = 10
	MaxPageLimit     = 100
	// MaxExportRows caps spreadsheet exports.
	MaxExportRows = 5000
	// maxOffset bounds (page-1)*limit so the offset cannot overflow.
	maxOffset = math.MaxInt32
)

// ErrPageOutOfRange is returned when a page lies beyond any reachable offset.
var ErrPageOutOfRange = domain.NewValidationError("page", "is out of range", nil)

// CreateLessonInput carries a validated create request.
type CreateLessonInput struct {
	Title       string
	Description *string
	Content     *string
	MediaURL    *string
	Type        domain.LessonType
	Duration    *int
	Level       *string
	LanguageID  uuid.UUID
	IsPublished *bool
}

// UpdateLessonInput carries a partial update; nil fields are left unchanged.
type UpdateLessonInput struct {
	Title       *string
	Description *string
	Content     *string
	MediaURL    *string
	Type        *domain.LessonType
	Duration    *int
	Level       *string
	LanguageID  *uuid.UUID
	IsPublished *bool
}

// LessonQuery is a filtered, paginated lesson listing request.
type LessonQuery struct {
	store.LessonFilter
	Page  int
	Limit int
}

// normalize applies the pagination defaults and bounds.
func (q LessonQuery) normalize() LessonQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	return q
}

// LessonPage is one page of a lesson listing.
type LessonPage struct {
	Data       []*domain.Lesson
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// LessonService manages lesson content.
type LessonService interface {
	// Create adds a lesson, uploading attachment first when given.
	// Returns ErrLanguageNotFound if the language does not exist.
	Create(ctx context.Context, in CreateLessonInput, attachment *media.File) (*domain.Lesson, error)

	// FindAll returns one page of lessons matching the query, newest first.
	FindAll(ctx context.Context, q LessonQuery) (*LessonPage, error)

	// FindOne returns a lesson. Unpublished lessons are only visible to
	// admins; others get ErrLessonNotAvailable.
	FindOne(ctx context.Context, id uuid.UUID, callerRole domain.Role) (*domain.Lesson, error)

	// Update applies the provided fields. Returns ErrLessonNotFound, or
	// ErrLanguageNotFound when moving the lesson to an unknown language.
	Update(ctx context.Context, id uuid.UUID, in UpdateLessonInput, attachment *media.File) (*domain.Lesson, error)

	// Remove deletes a lesson permanently and returns it.
	Remove(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)

	// PublishedByLanguage lists a language's published lessons, oldest first.
	PublishedByLanguage(ctx context.Context, languageID uuid.UUID) ([]*domain.Lesson, error)

	// Stats summarizes published lessons.
	Stats(ctx context.Context) (*domain.LessonStats, error)

	// Export returns up to MaxExportRows lessons matching the query's filter,
	// newest first. Pagination fields are ignored.
	Export(ctx context.Context, q LessonQuery) ([]*domain.Lesson, error)
}

type lessonServiceImpl struct {
	lessons   store.LessonStore
	languages store.LanguageStore
	uploader  media.Uploader
	logger    *slog.Logger
}

// NewLessonService creates a LessonService. A nil uploader disables
// attachment uploads.
func NewLessonService(
	lessons store.LessonStore,
	languages store.LanguageStore,
	uploader media.Uploader,
	logger *slog.Logger,
) (LessonService, error) {
	if lessons == nil {
		return nil, domain.NewValidationError("lessons", "cannot be nil", domain.ErrValidation)
	}
	if languages == nil {
		return nil, domain.NewValidationError("languages", "cannot be nil", domain.ErrValidation)
	}
	if uploader == nil {
		uploader = media.DisabledUploader{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &lessonServiceImpl{
		lessons:   lessons,
		languages: languages,
		uploader:  uploader,
		logger:    logger.With(slog.String("component", "lesson_service")),
	}, nil
}

// Create implements LessonService.Create.
func (s *lessonServiceImpl) Create(
	ctx context.Context,
	in CreateLessonInput,
	attachment *media.File,
) (*domain.Lesson, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.requireLanguage(ctx, in.LanguageID, "create"); err != nil {
		return nil, err
	}

	if attachment != nil {
		url, err := s.upload(ctx, attachment)
		if err != nil {
			return nil, err
		}
		in.MediaURL = &url
	}

	lesson, err := domain.NewLesson(in.Title, in.LanguageID, in.Type)
	if err != nil {
		return nil, err
	}
	lesson.Description = in.Description
	lesson.Content = in.Content
	lesson.MediaURL = in.MediaURL
	lesson.Duration = in.Duration
	lesson.Level = in.Level
	if in.IsPublished != nil {
		lesson.IsPublished = *in.IsPublished
	}
	if err := lesson.Validate(); err != nil {
		return nil, err
	}

	if err := s.lessons.Create(ctx, lesson); err != nil {
		if errors.Is(err, store.ErrInvalidEntity) {
			// language removed between the check and the insert
			return nil, ErrLanguageNotFound
		}
		return nil, opError("lesson", "create", err)
	}

	log.Info("lesson created",
		slog.String("lesson_id", lesson.ID.String()),
		slog.String("language_id", lesson.LanguageID.String()))
	return s.reload(ctx, lesson.ID, "create")
}

// FindAll implements LessonService.FindAll. The page and the total are read
// concurrently and may disagree under concurrent writes.
func (s *lessonServiceImpl) FindAll(ctx context.Context, q LessonQuery) (*LessonPage, error) {
	q = q.normalize()
	if q.Page-1 > maxOffset/q.Limit {
		return nil, ErrPageOutOfRange
	}
	q.Search = strings.TrimSpace(q.Search)
	offset := (q.Page - 1) * q.Limit

	var (
		data  []*domain.Lesson
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data, err = s.lessons.List(gctx, q.LessonFilter, offset, q.Limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.lessons.Count(gctx, q.LessonFilter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, opError("lesson", "find_all", err)
	}

	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	return &LessonPage{
		Data:       data,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: totalPages,
	}, nil
}

// FindOne implements LessonService.FindOne.
func (s *lessonServiceImpl) FindOne(ctx context.Context, id uuid.UUID, callerRole domain.Role) (*domain.Lesson, error) {
	lesson, err := s.getLesson(ctx, id, "find_one")
	if err != nil {
		return nil, err
	}

	if !lesson.IsPublished && callerRole != domain.RoleAdmin {
		logger.FromContextOrDefault(ctx, s.logger).Debug("unpublished lesson hidden from caller",
			slog.String("lesson_id", id.String()),
			slog.String("role", string(callerRole)))
		return nil, ErrLessonNotAvailable
	}
	return lesson, nil
}

// Update implements LessonService.Update.
func (s *lessonServiceImpl) Update(
	ctx context.Context,
	id uuid.UUID,
	in UpdateLessonInput,
	attachment *media.File,
) (*domain.Lesson, error) {
	lesson, err := s.getLesson(ctx, id, "update")
	if err != nil {
		return nil, err
	}

	if in.LanguageID != nil && *in.LanguageID != lesson.LanguageID {
		if err := s.requireLanguage(ctx, *in.LanguageID, "update"); err != nil {
			return nil, err
		}
		lesson.LanguageID = *in.LanguageID
	}

	if attachment != nil {
		url, err := s.upload(ctx, attachment)
		if err != nil {
			return nil, err
		}
		in.MediaURL = &url
	}

	if in.Title != nil {
		lesson.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		lesson.Description = in.Description
	}
	if in.Content != nil {
		lesson.Content = in.Content
	}
	if in.MediaURL != nil {
		lesson.MediaURL = in.MediaURL
	}
	if in.Type != nil {
		lesson.Type = *in.Type
	}
	if in.Duration != nil {
		lesson.Duration = in.Duration
	}
	if in.Level != nil {
		lesson.Level = in.Level
	}
	if in.IsPublished != nil {
		lesson.IsPublished = *in.IsPublished
	}

	if err := s.lessons.Update(ctx, lesson); err != nil {
		switch {
		case errors.Is(err, store.ErrLessonNotFound):
			return nil, ErrLessonNotFound
		case errors.Is(err, store.ErrInvalidEntity):
			return nil, ErrLanguageNotFound
		case errors.Is(err, domain.ErrValidation):
			return nil, err
		}
		return nil, opError("lesson", "update", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("lesson updated",
		slog.String("lesson_id", id.String()))
	return s.reload(ctx, id, "update")
}

// Remove implements LessonService.Remove.
func (s *lessonServiceImpl) Remove(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	deleted, err := s.lessons.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrLessonNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, opError("lesson", "remove", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("lesson deleted",
		slog.String("lesson_id", id.String()))
	return deleted, nil
}

// PublishedByLanguage implements LessonService.PublishedByLanguage.
func (s *lessonServiceImpl) PublishedByLanguage(ctx context.Context, languageID uuid.UUID) ([]*domain.Lesson, error) {
	lessons, err := s.lessons.ListPublishedByLanguage(ctx, languageID, store.OldestFirst, 0)
	if err != nil {
		return nil, opError("lesson", "published_by_language", err)
	}
	return lessons, nil
}

// Stats implements LessonService.Stats.
func (s *lessonServiceImpl) Stats(ctx context.Context) (*domain.LessonStats, error) {
	var stats domain.LessonStats
	var err error

	if stats.TotalLessons, err = s.lessons.CountPublished(ctx); err != nil {
		return nil, opError("lesson", "stats", err)
	}
	if stats.TotalDuration, err = s.lessons.SumPublishedDuration(ctx); err != nil {
		return nil, opError("lesson", "stats", err)
	}
	if stats.Breakdown, err = s.lessons.PublishedBreakdown(ctx); err != nil {
		return nil, opError("lesson", "stats", err)
	}
	if stats.Breakdown == nil {
		stats.Breakdown = []domain.LessonBreakdown{}
	}
	return &stats, nil
}

// Export implements LessonService.Export.
func (s *lessonServiceImpl) Export(ctx context.Context, q LessonQuery) ([]*domain.Lesson, error) {
	filter := q.LessonFilter
	filter.Search = strings.TrimSpace(filter.Search)

	lessons, err := s.lessons.List(ctx, filter, 0, MaxExportRows)
	if err != nil {
		return nil, opError("lesson", "export", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("lessons exported",
		slog.Int("rows", len(lessons)))
	return lessons, nil
}

func (s *lessonServiceImpl) upload(ctx context.Context, file *media.File) (string, error) {
	res, err := media.UploadLessonMedia(ctx, s.uploader, file)
	if err != nil {
		return "", opError("lesson", "upload_media", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Debug("lesson media uploaded",
		slog.String("kind", string(media.KindOf(file.ContentType))),
		slog.Int64("bytes", res.Bytes))
	return res.SecureURL, nil
}

func (s *lessonServiceImpl) requireLanguage(ctx context.Context, id uuid.UUID, op string) error {
	if _, err := s.languages.GetByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrLanguageNotFound) {
			return ErrLanguageNotFound
		}
		return opError("lesson", op, err)
	}
	return nil
}

func (s *lessonServiceImpl) getLesson(ctx context.Context, id uuid.UUID, op string) (*domain.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrLessonNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, opError("lesson", op, err)
	}
	return lesson, nil
}

// reload reads a lesson back so the response carries its language summary.
func (s *lessonServiceImpl) reload(ctx context.Context, id uuid.UUID, op string) (*domain.Lesson, error) {
	return s.getLesson(ctx, id, op)
}
