package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/lingua-labs/lingua-api/internal/domain"
)

// LessonFilter narrows lesson listings. Nil fields are not applied.
type LessonFilter struct {
	LanguageID  *uuid.UUID
	Type        *domain.LessonType
	Level       *string
	IsPublished *bool
	// Search matches title or description, case-insensitively.
	Search string
}

// SortOrder selects chronological ordering on created_at.
type SortOrder int

const (
	NewestFirst SortOrder = iota
	OldestFirst
)

// LessonStore defines the interface for lesson persistence.
type LessonStore interface {
	// Create saves a new lesson.
	// Returns ErrInvalidEntity if the language reference is broken.
	Create(ctx context.Context, lesson *domain.Lesson) error

	// GetByID retrieves a lesson with its language summary populated.
	// Returns ErrLessonNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)

	// Update persists all mutable fields of the lesson.
	// Returns ErrLessonNotFound if it does not exist.
	Update(ctx context.Context, lesson *domain.Lesson) error

	// Delete removes the lesson permanently and returns the deleted row.
	// Returns ErrLessonNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)

	// List returns one page of lessons matching the filter, newest first,
	// each with its language summary populated.
	List(ctx context.Context, filter LessonFilter, offset, limit int) ([]*domain.Lesson, error)

	// Count counts lessons matching the filter.
	Count(ctx context.Context, filter LessonFilter) (int64, error)

	// ListPublishedByLanguage returns published lessons of a language in the
	// given order. A limit <= 0 returns all of them.
	ListPublishedByLanguage(ctx context.Context, languageID uuid.UUID, order SortOrder, limit int) ([]*domain.Lesson, error)

	// CountByLanguage counts a language's lessons, optionally only published ones.
	CountByLanguage(ctx context.Context, languageID uuid.UUID, publishedOnly bool) (int64, error)

	// CountPublished counts all published lessons.
	CountPublished(ctx context.Context) (int64, error)

	// SumPublishedDuration sums the duration of published lessons, ignoring nulls.
	SumPublishedDuration(ctx context.Context) (int64, error)

	// PublishedBreakdown groups published lessons by (level, type).
	PublishedBreakdown(ctx context.Context) ([]domain.LessonBreakdown, error)
}
