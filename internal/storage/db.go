// ABOUTME: SQLite database connection and lifecycle management
// ABOUTME: Uses modernc.org/sqlite for pure-Go SQLite support
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite connection behind document-store operations.
type Store struct {
	conn *sql.DB
	path string
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{conn: conn, path: path}
	if err := s.initSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// OpenInMemory creates an in-memory SQLite database (for testing).
func OpenInMemory() (*Store, error) {
	conn, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	// Every pooled connection would otherwise get its own empty database.
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn, path: ":memory:"}
	if err := s.initSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// initSchema creates all database tables and indexes
func (s *Store) initSchema() error {
	_, err := s.conn.Exec(Schema)
	return err
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}
