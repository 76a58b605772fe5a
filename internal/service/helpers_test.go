package service_test

import (
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lingua-labs/lingua-api/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T { return &v }

func newLanguage(name, country string) *domain.Language {
	lang, err := domain.NewLanguage(name, country, nil, nil, true)
	if err != nil {
		panic(err)
	}
	return lang
}

func newLesson(languageID uuid.UUID, published bool) *domain.Lesson {
	lesson, err := domain.NewLesson("Greetings", languageID, domain.LessonTypeText)
	if err != nil {
		panic(err)
	}
	lesson.IsPublished = published
	lesson.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return lesson
}
