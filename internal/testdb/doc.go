//go:build integration

// Package testdb starts a disposable PostgreSQL container for integration
// tests and applies the embedded migrations to it.
//
//	db := testdb.New(t)
//	users := postgres.NewPostgresUserStore(db, nil)
//
// Tests sharing a container call Reset between cases to truncate all tables.
package testdb
