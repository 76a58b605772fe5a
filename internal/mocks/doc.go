// Package mocks provides centralized mock implementations for testing.
//
// Store, token and password mocks use function fields: a test sets only the
// methods it cares about. Unset lookups answer "not found", unset writes
// succeed, and unset aggregate queries return ErrNotMocked. The uploader mock
// is built on testify/mock because its tests assert on which hosting class a
// file was routed to.
//
// Usage:
//
//	lessons := &mocks.MockLessonStore{
//	    GetByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
//	        return lesson, nil
//	    },
//	}
package mocks
