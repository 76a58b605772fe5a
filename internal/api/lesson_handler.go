package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lingua-labs/lingua-api/internal/api/shared"
	"github.com/lingua-labs/lingua-api/internal/domain"
	"github.com/lingua-labs/lingua-api/internal/export"
	"github.com/lingua-labs/lingua-api/internal/platform/logger"
	"github.com/lingua-labs/lingua-api/internal/service"
)

// LessonHandler serves lesson content.
type LessonHandler struct {
	lessons        service.LessonService
	maxUploadBytes int64
	logger         *slog.Logger
	now            func() time.Time
}

// NewLessonHandler creates a LessonHandler. maxUploadBytes bounds multipart
// request bodies.
func NewLessonHandler(lessons service.LessonService, maxUploadBytes int64, logger *slog.Logger) *LessonHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for LessonHandler")
	}
	return &LessonHandler{
		lessons:        lessons,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "lesson_handler")),
		now:            time.Now,
	}
}

// Create handles POST /lessons.
func (h *LessonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLessonRequest
	attachment, ok := bindRequest(w, r, &req, "media", h.maxUploadBytes)
	if !ok {
		return
	}

	languageID, err := parseUUIDField("languageId", req.LanguageID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	lesson, err := h.lessons.Create(r.Context(), service.CreateLessonInput{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		MediaURL:    req.MediaURL,
		Type:        domain.LessonType(req.Type),
		Duration:    req.Duration,
		Level:       req.Level,
		LanguageID:  languageID,
		IsPublished: req.IsPublished,
	}, attachment)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create lesson")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, lessonToResponse(lesson))
}

// List handles GET /lessons.
func (h *LessonHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := parseLessonQuery(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	page, err := h.lessons.FindAll(r.Context(), q)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list lessons")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, lessonPageToResponse(page))
}

// Get handles GET /lessons/{id}. Unpublished lessons are visible to admins only.
func (h *LessonHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	id, ok := handlePathUUID(w, r, "id")
	if !ok {
		return
	}

	lesson, err := h.lessons.FindOne(r.Context(), id, principal.Role)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load lesson")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, lessonToResponse(lesson))
}

// Update handles PATCH /lessons/{id}.
func (h *LessonHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateLessonRequest
	attachment, ok := bindRequest(w, r, &req, "media", h.maxUploadBytes)
	if !ok {
		return
	}

	in := service.UpdateLessonInput{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		MediaURL:    req.MediaURL,
		Duration:    req.Duration,
		Level:       req.Level,
		IsPublished: req.IsPublished,
	}
	if req.Type != nil {
		t := domain.LessonType(*req.Type)
		in.Type = &t
	}
	if req.LanguageID != nil {
		langID, err := parseUUIDField("languageId", *req.LanguageID)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		in.LanguageID = &langID
	}

	lesson, err := h.lessons.Update(r.Context(), id, in, attachment)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update lesson")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, lessonToResponse(lesson))
}

// Delete handles DELETE /lessons/{id} and returns the deleted lesson.
func (h *LessonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, "id")
	if !ok {
		return
	}

	lesson, err := h.lessons.Remove(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete lesson")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, lessonToResponse(lesson))
}

// ByLanguage handles GET /lessons/language/{languageId}.
func (h *LessonHandler) ByLanguage(w http.ResponseWriter, r *http.Request) {
	languageID, ok := handlePathUUID(w, r, "languageId")
	if !ok {
		return
	}

	lessons, err := h.lessons.PublishedByLanguage(r.Context(), languageID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list lessons")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, publishedLessonsToResponse(lessons))
}

// Stats handles GET /lessons/stats.
func (h *LessonHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.lessons.Stats(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load lesson statistics")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, lessonStatsToResponse(stats))
}

// Export handles GET /lessons/export, streaming the lessons matching the
// list filters as an .xlsx attachment.
func (h *LessonHandler) Export(w http.ResponseWriter, r *http.Request) {
	q, err := parseLessonQuery(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	lessons, err := h.lessons.Export(r.Context(), q)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to export lessons")
		return
	}

	// Render fully before writing headers so a failure can still become a 500.
	var buf bytes.Buffer
	if err := export.WriteLessons(&buf, lessons); err != nil {
		HandleAPIError(w, r, err, "Failed to export lessons")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("lesson export generated",
		slog.Int("rows", len(lessons)),
		slog.Int("bytes", buf.Len()))

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, export.LessonsFilename(h.now())))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
