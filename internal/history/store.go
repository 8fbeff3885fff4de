// Package history persists search outcomes to a local SQLite database so
// successive trigger polls can be inspected and compared.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/filetrigger/internal/config"
	"github.com/harrison/filetrigger/internal/search"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS searches (
	id            TEXT PRIMARY KEY,
	performed_at  TIMESTAMP NOT NULL,
	node          TEXT NOT NULL,
	directory     TEXT NOT NULL,
	files         TEXT NOT NULL,
	ignored_files TEXT NOT NULL,
	status        TEXT NOT NULL,
	file_count    INTEGER NOT NULL,
	message       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_searches_performed_at ON searches(performed_at);
`

// Entry is one recorded search outcome.
type Entry struct {
	ID           string
	PerformedAt  time.Time
	Node         string
	Directory    string
	Files        string
	IgnoredFiles string
	Status       search.Status
	FileCount    int
	Message      string
}

// Store manages the SQLite database of search outcomes
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore creates a Store and initializes the database schema.
// The parent directory is created if needed; ":memory:" is supported for
// tests.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Record stores the outcome of one search and returns the new entry.
func (s *Store) Record(ctx context.Context, cfg config.SearchConfig, result search.Result) (Entry, error) {
	entry := Entry{
		ID:           uuid.NewString(),
		PerformedAt:  time.Now().UTC(),
		Node:         cfg.Node(),
		Directory:    cfg.Directory(),
		Files:        cfg.Files(),
		IgnoredFiles: cfg.IgnoredFiles(),
		Status:       result.Verdict.Status,
		FileCount:    len(result.Files),
		Message:      result.Verdict.Message,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO searches (id, performed_at, node, directory, files, ignored_files, status, file_count, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.PerformedAt, entry.Node, entry.Directory, entry.Files,
		entry.IgnoredFiles, string(entry.Status), entry.FileCount, entry.Message)
	if err != nil {
		return Entry{}, fmt.Errorf("record search: %w", err)
	}
	return entry, nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, performed_at, node, directory, files, ignored_files, status, file_count, message
		FROM searches
		ORDER BY performed_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var status string
		if err := rows.Scan(&e.ID, &e.PerformedAt, &e.Node, &e.Directory, &e.Files,
			&e.IgnoredFiles, &status, &e.FileCount, &e.Message); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		e.Status = search.Status(status)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return entries, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
