package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/lingua-labs/lingua-api/internal/domain"
	"github.com/lingua-labs/lingua-api/internal/store"
)

// MockLessonStore implements store.LessonStore for testing.
type MockLessonStore struct {
	CreateFn                  func(ctx context.Context, lesson *domain.Lesson) error
	GetByIDFn                 func(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)
	UpdateFn                  func(ctx context.Context, lesson *domain.Lesson) error
	DeleteFn                  func(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)
	ListFn                    func(ctx context.Context, filter store.LessonFilter, offset, limit int) ([]*domain.Lesson, error)
	CountFn                   func(ctx context.Context, filter store.LessonFilter) (int64, error)
	ListPublishedByLanguageFn func(
		ctx context.Context,
		languageID uuid.UUID,
		order store.SortOrder,
		limit int,
	) ([]*domain.Lesson, error)
	CountByLanguageFn      func(ctx context.Context, languageID uuid.UUID, publishedOnly bool) (int64, error)
	CountPublishedFn       func(ctx context.Context) (int64, error)
	SumPublishedDurationFn func(ctx context.Context) (int64, error)
	PublishedBreakdownFn   func(ctx context.Context) ([]domain.LessonBreakdown, error)
}

var _ store.LessonStore = (*MockLessonStore)(nil)

// Create implements store.LessonStore.
func (m *MockLessonStore) Create(ctx context.Context, lesson *domain.Lesson) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, lesson)
	}
	return nil
}

// GetByID implements store.LessonStore.
func (m *MockLessonStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrLessonNotFound
}

// Update implements store.LessonStore.
func (m *MockLessonStore) Update(ctx context.Context, lesson *domain.Lesson) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, lesson)
	}
	return nil
}

// Delete implements store.LessonStore.
func (m *MockLessonStore) Delete(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil, store.ErrLessonNotFound
}

// List implements store.LessonStore.
func (m *MockLessonStore) List(
	ctx context.Context,
	filter store.LessonFilter,
	offset, limit int,
) ([]*domain.Lesson, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter, offset, limit)
	}
	return nil, ErrNotMocked
}

// Count implements store.LessonStore.
func (m *MockLessonStore) Count(ctx context.Context, filter store.LessonFilter) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, filter)
	}
	return 0, ErrNotMocked
}

// ListPublishedByLanguage implements store.LessonStore.
func (m *MockLessonStore) ListPublishedByLanguage(
	ctx context.Context,
	languageID uuid.UUID,
	order store.SortOrder,
	limit int,
) ([]*domain.Lesson, error) {
	if m.ListPublishedByLanguageFn != nil {
		return m.ListPublishedByLanguageFn(ctx, languageID, order, limit)
	}
	return []*domain.Lesson{}, nil
}

// CountByLanguage implements store.LessonStore.
func (m *MockLessonStore) CountByLanguage(ctx context.Context, languageID uuid.UUID, publishedOnly bool) (int64, error) {
	if m.CountByLanguageFn != nil {
		return m.CountByLanguageFn(ctx, languageID, publishedOnly)
	}
	return 0, nil
}

// CountPublished implements store.LessonStore.
func (m *MockLessonStore) CountPublished(ctx context.Context) (int64, error) {
	if m.CountPublishedFn != nil {
		return m.CountPublishedFn(ctx)
	}
	return 0, ErrNotMocked
}

// SumPublishedDuration implements store.LessonStore.
func (m *MockLessonStore) SumPublishedDuration(ctx context.Context) (int64, error) {
	if m.SumPublishedDurationFn != nil {
		return m.SumPublishedDurationFn(ctx)
	}
	return 0, ErrNotMocked
}

// PublishedBreakdown implements store.LessonStore.
func (m *MockLessonStore) PublishedBreakdown(ctx context.Context) ([]domain.LessonBreakdown, error) {
	if m.PublishedBreakdownFn != nil {
		return m.PublishedBreakdownFn(ctx)
	}
	return nil, ErrNotMocked
}
