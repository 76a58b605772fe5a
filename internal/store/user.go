package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/lingua-labs/lingua-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user. The password must already be hashed.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// TutorStore defines read access to tutor profiles.
type TutorStore interface {
	// GetByUserID returns the tutor profile of a user with its languages loaded.
	// Returns ErrTutorProfileNotFound if the user is not a tutor.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.TutorProfile, error)

	// ListByLanguage returns up to limit tutors teaching the language.
	ListByLanguage(ctx context.Context, languageID uuid.UUID, limit int) ([]domain.LanguageTutor, error)

	// CountByLanguage counts tutors linked to the language.
	CountByLanguage(ctx context.Context, languageID uuid.UUID) (int64, error)

	// CountAvailable counts tutors flagged as available.
	CountAvailable(ctx context.Context) (int64, error)
}
