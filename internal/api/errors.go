package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/lingua-labs/lingua-api/internal/api/shared"
	"github.com/lingua-labs/lingua-api/internal/domain"
	"github.com/lingua-labs/lingua-api/internal/media"
	"github.com/lingua-labs/lingua-api/internal/service"
	"github.com/lingua-labs/lingua-api/internal/service/auth"
	"github.com/lingua-labs/lingua-api/internal/store"
)

const unexpectedErrorMessage = "An unexpected error occurred"

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var verr *domain.ValidationError

	switch {
	// Validation errors
	case errors.As(err, &verr),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, media.ErrEmptyFile):
		return http.StatusBadRequest

	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrConflict),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.Is(err, media.ErrUploadsDisabled):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return unexpectedErrorMessage
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		if verr.Field == "" {
			return verr.Message
		}
		return fmt.Sprintf("Invalid %s: %s", verr.Field, verr.Message)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.Is(err, domain.ErrValidation):
		return "Validation failed"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"
	case errors.Is(err, media.ErrEmptyFile):
		return "Uploaded file is empty"

	// Authentication errors
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrMissingToken):
		return "Authorization header required"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, service.ErrAccountDeactivated):
		return "Account is deactivated"
	case errors.Is(err, service.ErrUserNotFound):
		return "User not found"

	// Authorization errors
	case errors.Is(err, service.ErrInsufficientRole):
		return "Insufficient permissions"
	case errors.Is(err, service.ErrLessonNotAvailable):
		return "Lesson not available"

	// Not found errors
	case errors.Is(err, service.ErrLanguageNotFound):
		return "Language not found"
	case errors.Is(err, service.ErrLessonNotFound):
		return "Lesson not found"

	// Conflict errors
	case errors.Is(err, service.ErrEmailTaken):
		return "Email already exists"
	case errors.Is(err, service.ErrLanguageExists):
		return "Language already exists"
	case errors.Is(err, service.ErrLanguageNameTaken):
		return "Language name already exists"

	case errors.Is(err, media.ErrUploadsDisabled):
		return "Media uploads are not available"

	// Class fallbacks
	case errors.Is(err, service.ErrUnauthorized):
		return "Unauthorized"
	case errors.Is(err, service.ErrForbidden):
		return "Forbidden"
	case errors.Is(err, service.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return "Resource not found"
	case errors.Is(err, service.ErrConflict), errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	default:
		return unexpectedErrorMessage
	}
}

// HandleAPIError writes the mapped status and safe message for err. For
// server errors defaultMsg, when set, replaces the generic message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && defaultMsg != "" {
		message = defaultMsg
	}

	var opts []shared.ResponseOption
	var verr *domain.ValidationError
	if errors.As(err, &verr) && verr.Field != "" {
		opts = append(opts, shared.WithFields([]shared.FieldError{{Field: verr.Field, Message: verr.Message}}))
	}
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// HandleValidationError writes a 400 response listing every failed field.
func HandleValidationError(w http.ResponseWriter, r *http.Request, err error) {
	fields := shared.FieldErrors(err)
	if fields == nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Validation failed", err, shared.WithFields(fields))
}
