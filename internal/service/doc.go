// Package service contains the application use cases: account registration
// and login, the language catalog and lesson content management.
//
// Services orchestrate the store interfaces defined in internal/store and the
// media upload collaborator. They never depend on a concrete database or
// storage backend.
//
// Error handling:
//   - Expected failures are returned as the sentinels in errors.go, each
//     wrapping one of ErrNotFound, ErrConflict, ErrUnauthorized or
//     ErrForbidden so the API layer can map a whole class to a status code.
//   - Domain validation errors pass through unchanged.
//   - Anything else is wrapped with the failing operation and treated as an
//     internal error by callers.
package service
