// Package store implements the on-disk project store for TASA.
//
// A project is a single embedded SQLite file holding a run log, a free-form
// staging table and, per environment (dev/test/prod), a main page table plus
// five related-entity tables. Table names follow the fixed
// {project}_{env} / {project}_{env}_{suffix} derivation; existing project
// files depend on that layout bit for bit.
//
// The store opens with WAL mode and foreign keys enabled. Foreign keys drive
// the cascading delete from a main row to its related rows.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// timeFormat is the layout SQLite's datetime('now') produces. Every timestamp
// in the store (run log, modified_timestamp) uses it, so incremental-cutoff
// comparisons are plain string comparisons inside SQLite.
const timeFormat = "2006-01-02 15:04:05"

// Store wraps a connection to one project's SQLite file.
type Store struct {
	conn *sql.DB
	path string
}

// ProjectPath returns the store file path for a project in dir.
func ProjectPath(dir, project string) string {
	return filepath.Join(dir, project+".db")
}

// ProjectExists reports whether a project store file already exists.
func ProjectExists(dir, project string) bool {
	_, err := os.Stat(ProjectPath(dir, project))
	return err == nil
}

// Open opens (creating if necessary) the project store at path.
//
// The caller must Close the store when done. Every top-level engine operation
// opens its own store and releases it on exit; no long-lived shared handle
// exists.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	// Pragmas ride in the DSN so every connection the pool hands out carries
	// them, including replacements for a recycled one.
	dsn := "file:" + path +
		"?_pragma=journal_mode(wal)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=foreign_keys(1)"
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping store: %w", err)
	}

	conn.SetMaxOpenConns(1)

	return &Store{conn: conn, path: path}, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	s.conn = nil
	return nil
}

// Path returns the store's file path.
func (s *Store) Path() string {
	return s.path
}

// querier is satisfied by both *sql.DB and *sql.Tx, so record helpers can run
// either standalone or inside a batch transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Begin starts a write transaction against the store.
func (s *Store) Begin(ctx context.Context) (*sql.Tx, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}
