package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/lingua-labs/lingua-api/internal/domain"
)

// LanguageStore defines the interface for language persistence.
type LanguageStore interface {
	// Create saves a new language.
	// Returns ErrLanguageNameExists if the name is taken.
	Create(ctx context.Context, language *domain.Language) error

	// GetByID retrieves a language regardless of its active flag.
	// Returns ErrLanguageNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Language, error)

	// GetByName retrieves a language by its unique name.
	// Returns ErrLanguageNotFound if it does not exist.
	GetByName(ctx context.Context, name string) (*domain.Language, error)

	// List returns languages ordered by name, each annotated with its
	// published lesson count and tutor count. Inactive languages are
	// skipped unless includeInactive is set.
	List(ctx context.Context, includeInactive bool) ([]domain.LanguageWithCounts, error)

	// Update persists all mutable fields of the language.
	// Returns ErrLanguageNotFound or ErrLanguageNameExists.
	Update(ctx context.Context, language *domain.Language) error

	// SetActive flips the soft-delete flag.
	// Returns ErrLanguageNotFound if it does not exist.
	SetActive(ctx context.Context, id uuid.UUID, active bool) error

	// CountActive counts active languages.
	CountActive(ctx context.Context) (int64, error)

	// CountByCountry groups active languages by country, largest group first.
	CountByCountry(ctx context.Context) ([]domain.CountryCount, error)
}
