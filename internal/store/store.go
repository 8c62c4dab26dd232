// Package store keeps imported mutation records in a local DuckDB or SQLite
// database and serves them back as a record source.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
	_ "modernc.org/sqlite"
)

// Supported database drivers.
const (
	DriverDuckDB = "duckdb"
	DriverSQLite = "sqlite"
)

// Store manages a database connection holding mutation records.
type Store struct {
	db     *sql.DB
	driver string
	path   string
}

// Open opens or creates a database at the given path using driver.
// Use an empty path for an in-memory database.
func Open(driver, path string) (*Store, error) {
	if driver != DriverDuckDB && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}

	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	dsn := path
	if driver == DriverSQLite && path == "" {
		dsn = ":memory:"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// Every SQLite connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, driver: driver, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Driver returns the database driver name.
func (s *Store) Driver() string {
	return s.driver
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS mutations (
			seq BIGINT NOT NULL,
			gene VARCHAR NOT NULL,
			amino_acid VARCHAR NOT NULL,
			nucleotide VARCHAR NOT NULL,
			source VARCHAR NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS imports (
			path VARCHAR PRIMARY KEY,
			size BIGINT NOT NULL,
			mod_time BIGINT NOT NULL,
			records BIGINT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(context.Background(), stmt); err != nil {
			return err
		}
	}
	return nil
}
