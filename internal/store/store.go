// Package store opens the per-year historical record stores.
package store

import (
	"context"
	"database/sql"
	"fmt"

	// Registers the pure-Go "sqlite" driver.
	_ "modernc.org/sqlite"
)

// Store wraps one read-only connection to a single year's record store.
type Store struct {
	db   *sql.DB
	path string
	year int
}

// Open opens the SQLite file at path read-only and verifies connectivity.
func Open(ctx context.Context, path string, year int) (*Store, error) {
	db, err := sql.Open("sqlite", readOnlyDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open record store %s: %w", path, err)
	}

	// One exclusive connection per (choice, year) call path.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping record store %s: %w", path, err)
	}

	return &Store{db: db, path: path, year: year}, nil
}

func readOnlyDSN(path string) string {
	return "file:" + path + "?mode=ro&_pragma=query_only(1)"
}

// Year returns the data year the store holds.
func (s *Store) Year() int {
	return s.year
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Ping verifies store connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// QueryRow executes a query that returns at most one row
func (s *Store) QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return s.db.QueryRowContext(ctx, query, args...)
}

// Query executes a query that returns multiple rows
func (s *Store) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, query, args...)
}

// HealthCheck performs a simple query against the store
func (s *Store) HealthCheck(ctx context.Context) error {
	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}
