package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/lingua-labs/lingua-api/internal/domain"
	"github.com/lingua-labs/lingua-api/internal/store"
)

// MockUserStore implements store.UserStore for testing.
type MockUserStore struct {
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)

	// Created records every user passed to Create.
	Created []*domain.User
}

var _ store.UserStore = (*MockUserStore)(nil)

// Create implements store.UserStore.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	m.Created = append(m.Created, user)
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	return nil
}

// GetByID implements store.UserStore.
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrUserNotFound
}

// GetByEmail implements store.UserStore.
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, store.ErrUserNotFound
}

// MockTutorStore implements store.TutorStore for testing.
// Unset counts and listings return zero values, since most callers treat
// "no tutors" as a normal answer.
type MockTutorStore struct {
	GetByUserIDFn     func(ctx context.Context, userID uuid.UUID) (*domain.TutorProfile, error)
	ListByLanguageFn  func(ctx context.Context, languageID uuid.UUID, limit int) ([]domain.LanguageTutor, error)
	CountByLanguageFn func(ctx context.Context, languageID uuid.UUID) (int64, error)
	CountAvailableFn  func(ctx context.Context) (int64, error)
}

var _ store.TutorStore = (*MockTutorStore)(nil)

// GetByUserID implements store.TutorStore.
func (m *MockTutorStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.TutorProfile, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, store.ErrTutorProfileNotFound
}

// ListByLanguage implements store.TutorStore.
func (m *MockTutorStore) ListByLanguage(
	ctx context.Context,
	languageID uuid.UUID,
	limit int,
) ([]domain.LanguageTutor, error) {
	if m.ListByLanguageFn != nil {
		return m.ListByLanguageFn(ctx, languageID, limit)
	}
	return []domain.LanguageTutor{}, nil
}

// CountByLanguage implements store.TutorStore.
func (m *MockTutorStore) CountByLanguage(ctx context.Context, languageID uuid.UUID) (int64, error) {
	if m.CountByLanguageFn != nil {
		return m.CountByLanguageFn(ctx, languageID)
	}
	return 0, nil
}

// CountAvailable implements store.TutorStore.
func (m *MockTutorStore) CountAvailable(ctx context.Context) (int64, error) {
	if m.CountAvailableFn != nil {
		return m.CountAvailableFn(ctx)
	}
	return 0, nil
}
