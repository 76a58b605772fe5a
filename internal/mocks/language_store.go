package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/lingua-labs/lingua-api/internal/domain"
	"github.com/lingua-labs/lingua-api/internal/store"
)

// MockLanguageStore implements store.LanguageStore for testing.
type MockLanguageStore struct {
	CreateFn         func(ctx context.Context, language *domain.Language) error
	GetByIDFn        func(ctx context.Context, id uuid.UUID) (*domain.Language, error)
	GetByNameFn      func(ctx context.Context, name string) (*domain.Language, error)
	ListFn           func(ctx context.Context, includeInactive bool) ([]domain.LanguageWithCounts, error)
	UpdateFn         func(ctx context.Context, language *domain.Language) error
	SetActiveFn      func(ctx context.Context, id uuid.UUID, active bool) error
	CountActiveFn    func(ctx context.Context) (int64, error)
	CountByCountryFn func(ctx context.Context) ([]domain.CountryCount, error)
}

var _ store.LanguageStore = (*MockLanguageStore)(nil)

// Create implements store.LanguageStore.
func (m *MockLanguageStore) Create(ctx context.Context, language *domain.Language) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, language)
	}
	return nil
}

// GetByID implements store.LanguageStore.
func (m *MockLanguageStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Language, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrLanguageNotFound
}

// GetByName implements store.LanguageStore.
func (m *MockLanguageStore) GetByName(ctx context.Context, name string) (*domain.Language, error) {
	if m.GetByNameFn != nil {
		return m.GetByNameFn(ctx, name)
	}
	return nil, store.ErrLanguageNotFound
}

// List implements store.LanguageStore.
func (m *MockLanguageStore) List(ctx context.Context, includeInactive bool) ([]domain.LanguageWithCounts, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, includeInactive)
	}
	return nil, ErrNotMocked
}

// Update implements store.LanguageStore.
func (m *MockLanguageStore) Update(ctx context.Context, language *domain.Language) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, language)
	}
	return nil
}

// SetActive implements store.LanguageStore.
func (m *MockLanguageStore) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if m.SetActiveFn != nil {
		return m.SetActiveFn(ctx, id, active)
	}
	return nil
}

// CountActive implements store.LanguageStore.
func (m *MockLanguageStore) CountActive(ctx context.Context) (int64, error) {
	if m.CountActiveFn != nil {
		return m.CountActiveFn(ctx)
	}
	return 0, ErrNotMocked
}

// CountByCountry implements store.LanguageStore.
func (m *MockLanguageStore) CountByCountry(ctx context.Context) ([]domain.CountryCount, error) {
	if m.CountByCountryFn != nil {
		return m.CountByCountryFn(ctx)
	}
	return nil, ErrNotMocked
}
