// Package store defines interfaces for data persistence operations.
// These interfaces keep the services independent of the database; the
// PostgreSQL implementations live in internal/platform/postgres.
package store
