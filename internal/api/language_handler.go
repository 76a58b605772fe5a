package api

import (
	"log/slog"
	"net/http"

	"github.com/lingua-labs/lingua-api/internal/api/shared"
	"github.com/lingua-labs/lingua-api/internal/platform/logger"
	"github.com/lingua-labs/lingua-api/internal/service"
)

// LanguageHandler serves the language catalog.
type LanguageHandler struct {
	languages      service.LanguageService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewLanguageHandler creates a LanguageHandler. maxUploadBytes bounds
// multipart request bodies.
func NewLanguageHandler(languages service.LanguageService, maxUploadBytes int64, logger *slog.Logger) *LanguageHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for LanguageHandler")
	}
	return &LanguageHandler{
		languages:      languages,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "language_handler")),
	}
}

// Create handles POST /languages.
func (h *LanguageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLanguageRequest
	image, ok := bindRequest(w, r, &req, "image", h.maxUploadBytes)
	if !ok {
		return
	}

	lang, err := h.languages.Create(r.Context(), service.CreateLanguageInput{
		Name:        req.Name,
		Country:     req.Country,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
	}, image)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create language")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, languageWithCountsToResponse(lang))
}

// List handles GET /languages. Inactive languages are included only for
// includeInactive=true.
func (h *LanguageHandler) List(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("includeInactive") == "true"

	langs, err := h.languages.FindAll(r.Context(), includeInactive)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list languages")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, languagesToResponse(langs))
}

// Get handles GET /languages/{id}.
func (h *LanguageHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.languages.FindOne(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load language")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, languageDetailToResponse(detail))
}

// Update handles PATCH /languages/{id}.
func (h *LanguageHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateLanguageRequest
	image, ok := bindRequest(w, r, &req, "image", h.maxUploadBytes)
	if !ok {
		return
	}

	lang, err := h.languages.Update(r.Context(), id, service.UpdateLanguageInput{
		Name:        req.Name,
		Country:     req.Country,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
	}, image)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update language")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, languageWithCountsToResponse(lang))
}

// Delete handles DELETE /languages/{id}. The language is deactivated, not
// removed, and the pre-delete record is returned.
func (h *LanguageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, "id")
	if !ok {
		return
	}

	lang, err := h.languages.Remove(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete language")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("language removed",
		slog.String("language_id", id.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, languageWithCountsToResponse(lang))
}

// Stats handles GET /languages/stats.
func (h *LanguageHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.languages.Stats(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load language statistics")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, languageStatsToResponse(stats))
}
