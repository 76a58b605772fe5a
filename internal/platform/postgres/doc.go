// Package postgres implements the store interfaces on PostgreSQL through
// gorm, and owns the SQL migrations applied with goose.
package postgres
