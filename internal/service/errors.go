package service

import (
	"errors"
	"fmt"
)

// Error classes. Every expected service failure wraps exactly one of these.
var (
	// ErrNotFound indicates the target record does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness rule would be violated.
	// API layer should map this to HTTP 409 Conflict.
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized indicates the caller could not be authenticated.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller is authenticated but not allowed.
	// API layer should map this to HTTP 403 Forbidden.
	ErrForbidden = errors.New("forbidden")
)

var (
	ErrEmailTaken         = fmt.Errorf("%w: email already exists", ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrAccountDeactivated = fmt.Errorf("%w: account is deactivated", ErrUnauthorized)
	// ErrUserNotFound is an authentication failure: the token's subject is gone.
	ErrUserNotFound = fmt.Errorf("%w: user not found", ErrUnauthorized)

	ErrLanguageExists    = fmt.Errorf("%w: language already exists", ErrConflict)
	ErrLanguageNameTaken = fmt.Errorf("%w: language name already exists", ErrConflict)
	ErrLanguageNotFound  = fmt.Errorf("%w: language not found", ErrNotFound)

	ErrLessonNotFound     = fmt.Errorf("%w: lesson not found", ErrNotFound)
	ErrLessonNotAvailable = fmt.Errorf("%w: lesson not available", ErrForbidden)

	ErrInsufficientRole = fmt.Errorf("%w: insufficient permissions", ErrForbidden)
)

// OperationError wraps an unexpected failure with the operation it occurred in.
type OperationError struct {
	Service   string
	Operation string
	Err       error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s service %s failed: %v", e.Service, e.Operation, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *OperationError) Unwrap() error {
	return e.Err
}

func opError(service, operation string, err error) error {
	return &OperationError{Service: service, Operation: operation, Err: err}
}
