package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyLanguageName    = NewValidationError("name", "cannot be empty", nil)
	ErrEmptyLanguageCountry = NewValidationError("country", "cannot be empty", nil)
)

// Language is a catalog entry lessons and tutors attach to.
// Languages are never hard-deleted; removal clears IsActive.
type Language struct {
	ID          uuid.UUID
	Name        string
	Description *string
	Country     string
	ImageURL    *string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LanguageCounts carries the aggregate counts shown alongside a language.
type LanguageCounts struct {
	Lessons int64
	Tutors  int64
}

// LanguageWithCounts pairs a language with its counts.
type LanguageWithCounts struct {
	Language
	Counts LanguageCounts
}

// NewLanguage creates a language with a fresh ID.
func NewLanguage(name, country string, description, imageURL *string, isActive bool) (*Language, error) {
	now := time.Now().UTC()
	lang := &Language{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(name),
		Description: description,
		Country:     strings.TrimSpace(country),
		ImageURL:    imageURL,
		IsActive:    isActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := lang.Validate(); err != nil {
		return nil, err
	}
	return lang, nil
}

// Validate checks the required fields.
func (l *Language) Validate() error {
	if l.Name == "" {
		return ErrEmptyLanguageName
	}
	if l.Country == "" {
		return ErrEmptyLanguageCountry
	}
	return nil
}

// CountryCount is one row of the languages-by-country breakdown.
type CountryCount struct {
	Country string
	Count   int64
}

// LanguageStats summarizes the catalog.
type LanguageStats struct {
	TotalLanguages     int64
	TotalLessons       int64
	TotalTutors        int64
	LanguagesByCountry []CountryCount
}
