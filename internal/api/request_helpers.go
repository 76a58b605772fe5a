package api

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lingua-labs/lingua-api/internal/api/shared"
	"github.com/lingua-labs/lingua-api/internal/domain"
	"github.com/lingua-labs/lingua-api/internal/media"
	"github.com/lingua-labs/lingua-api/internal/platform/logger"
	"github.com/lingua-labs/lingua-api/internal/service"
)

// multipartMemory is how much of a multipart body is held in memory before
// parts spill to temporary files.
const multipartMemory = 8 << 20

// getPathUUID extracts a UUID from the URL path parameters.
// It parses and validates the UUID, handling common error cases.
//
// Parameters:
//   - r: The HTTP request
//   - paramName: The name of the path parameter to extract
//
// Returns:
//   - (uuid.UUID, nil): The parsed UUID if valid
//   - (uuid.UUID{}, error): A zero UUID and appropriate error if parameter is missing or invalid
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// parseUUIDField parses an already validated body field.
func parseUUIDField(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(field, "must be a valid UUID", domain.ErrInvalidID)
	}
	return id, nil
}

// handlePathUUID is getPathUUID that writes the 400 response itself.
func handlePathUUID(w http.ResponseWriter, r *http.Request, paramName string) (uuid.UUID, bool) {
	id, err := getPathUUID(r, paramName)
	if err != nil {
		logger.FromContextOrDefault(r.Context(), slog.Default()).Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return uuid.Nil, false
	}
	return id, true
}

// requirePrincipal returns the authenticated caller, writing a 401 if the
// authentication middleware did not run.
func requirePrincipal(w http.ResponseWriter, r *http.Request) (shared.Principal, bool) {
	p, ok := shared.GetPrincipal(r.Context())
	if !ok {
		logger.FromContextOrDefault(r.Context(), slog.Default()).Warn("principal not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return shared.Principal{}, false
	}
	return p, true
}

// formBinder is a request DTO that can also be filled from multipart fields.
type formBinder interface {
	bindForm(values map[string][]string) error
}

// bindRequest decodes a JSON or multipart body into dst and validates it.
// For multipart bodies the file part named fileField is returned, or nil when
// absent. On failure the error response has been written and ok is false.
func bindRequest(
	w http.ResponseWriter,
	r *http.Request,
	dst formBinder,
	fileField string,
	maxBytes int64,
) (file *media.File, ok bool) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			respondBodyError(w, r, err)
			return nil, false
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		if err := dst.bindForm(r.MultipartForm.Value); err != nil {
			HandleAPIError(w, r, err, "")
			return nil, false
		}

		var err error
		if file, err = readFormFile(r.MultipartForm, fileField); err != nil {
			HandleAPIError(w, r, err, "Failed to read upload")
			return nil, false
		}
	} else if err := shared.DecodeJSON(r, dst); err != nil {
		respondBodyError(w, r, err)
		return nil, false
	}

	if err := shared.ValidateRequest(dst); err != nil {
		HandleValidationError(w, r, err)
		return nil, false
	}
	return file, true
}

func respondBodyError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		shared.RespondWithErrorAndLog(w, r, http.StatusRequestEntityTooLarge, "File too large", err)
		return
	}
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
}

// readFormFile loads the named file part into memory.
func readFormFile(form *multipart.Form, field string) (*media.File, error) {
	headers := form.File[field]
	if len(headers) == 0 {
		return nil, nil
	}
	header := headers[0]

	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, media.ErrEmptyFile
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	return &media.File{Filename: header.Filename, ContentType: contentType, Data: data}, nil
}

func formString(values map[string][]string, key string) *string {
	v, ok := values[key]
	if !ok || len(v) == 0 {
		return nil
	}
	s := v[0]
	return &s
}

func formBool(values map[string][]string, key string) (*bool, error) {
	s := formString(values, key)
	if s == nil {
		return nil, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(*s))
	if err != nil {
		return nil, domain.NewValidationError(key, "must be a boolean", nil)
	}
	return &b, nil
}

func formInt(values map[string][]string, key string) (*int, error) {
	s := formString(values, key)
	if s == nil {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil {
		return nil, domain.NewValidationError(key, "must be an integer", nil)
	}
	return &n, nil
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// parseLessonQuery reads the lesson filters and pagination from the query
// string. isPublished is true only for the literal "true".
func parseLessonQuery(r *http.Request) (service.LessonQuery, error) {
	values := r.URL.Query()
	var q service.LessonQuery

	if s := values.Get("languageId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return q, domain.NewValidationError("languageId", "must be a valid UUID", nil)
		}
		q.LanguageID = &id
	}
	if s := values.Get("type"); s != "" {
		t := domain.LessonType(strings.ToUpper(s))
		if !t.Valid() {
			return q, domain.ErrInvalidLessonType
		}
		q.Type = &t
	}
	if s := values.Get("level"); s != "" {
		q.Level = &s
	}
	if values.Has("isPublished") {
		published := values.Get("isPublished") == "true"
		q.IsPublished = &published
	}
	q.Search = values.Get("search")

	for _, p := range []struct {
		key string
		dst *int
	}{{"page", &q.Page}, {"limit", &q.Limit}} {
		s := values.Get(p.key)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return q, domain.NewValidationError(p.key, "must be an integer", nil)
		}
		*p.dst = n
	}

	return q, nil
}
