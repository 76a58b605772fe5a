package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyLessonTitle  = NewValidationError("title", "cannot be empty", nil)
	ErrInvalidLessonType = NewValidationError("type", "must be one of VIDEO, AUDIO, TEXT", nil)
	ErrEmptyLanguageID   = NewValidationError("languageId", "cannot be empty", nil)
	ErrNegativeDuration  = NewValidationError("duration", "cannot be negative", nil)
)

// LessonType classifies lesson content.
type LessonType string

const (
	LessonTypeVideo LessonType = "VIDEO"
	LessonTypeAudio LessonType = "AUDIO"
	LessonTypeText  LessonType = "TEXT"
)

// Valid reports whether t is a known lesson type.
func (t LessonType) Valid() bool {
	switch t {
	case LessonTypeVideo, LessonTypeAudio, LessonTypeText:
		return true
	default:
		return false
	}
}

// Lesson is a unit of learning content belonging to exactly one language.
type Lesson struct {
	ID          uuid.UUID
	Title       string
	Description *string
	Content     *string
	MediaURL    *string
	Type        LessonType
	// Duration is in minutes.
	Duration    *int
	Level       *string
	LanguageID  uuid.UUID
	IsPublished bool
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Language is populated by lookups that join the owning language.
	Language *LanguageSummary
}

// LanguageSummary is the subset of a language embedded in lesson responses.
type LanguageSummary struct {
	ID       uuid.UUID
	Name     string
	Country  string
	ImageURL *string
}

// NewLesson creates a lesson with a fresh ID. An empty type defaults to TEXT.
func NewLesson(title string, languageID uuid.UUID, lessonType LessonType) (*Lesson, error) {
	if lessonType == "" {
		lessonType = LessonTypeText
	}
	now := time.Now().UTC()
	lesson := &Lesson{
		ID:         uuid.New(),
		Title:      strings.TrimSpace(title),
		Type:       lessonType,
		LanguageID: languageID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := lesson.Validate(); err != nil {
		return nil, err
	}
	return lesson, nil
}

// Validate checks the lesson invariants.
func (l *Lesson) Validate() error {
	if l.Title == "" {
		return ErrEmptyLessonTitle
	}
	if !l.Type.Valid() {
		return ErrInvalidLessonType
	}
	if l.LanguageID == uuid.Nil {
		return ErrEmptyLanguageID
	}
	if l.Duration != nil && *l.Duration < 0 {
		return ErrNegativeDuration
	}
	return nil
}

// LessonBreakdown is one (level, type) bucket of published lessons.
type LessonBreakdown struct {
	Level *string
	Type  LessonType
	Count int64
}

// LessonStats summarizes published lessons.
type LessonStats struct {
	TotalLessons  int64
	TotalDuration int64
	Breakdown     []LessonBreakdown
}
