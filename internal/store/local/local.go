// Package local is the embedded SQLite backend used when no PostgreSQL DSN
// is configured.
package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"reelmatch/internal/store"

	_ "github.com/mattn/go-sqlite3"
)

// StoreImpl implements store.Store on a single SQLite database.
type StoreImpl struct {
	db *sql.DB
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS saved_recommendations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		namespace TEXT NOT NULL,
		service_id TEXT NOT NULL,
		reason TEXT NOT NULL,
		saved_at TIMESTAMP NOT NULL,
		UNIQUE (namespace, service_id)
	)`,
	`CREATE TABLE IF NOT EXISTS recommendation_queries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		query TEXT NOT NULL,
		source TEXT NOT NULL,
		results_count INTEGER NOT NULL,
		service_ids TEXT NOT NULL DEFAULT '[]',
		executed_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ai_usage_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TIMESTAMP NOT NULL,
		provider_name TEXT NOT NULL,
		service_type TEXT NOT NULL,
		model_name TEXT NOT NULL,
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		cost REAL NOT NULL DEFAULT 0,
		related_job_id TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS background_jobs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id TEXT NOT NULL UNIQUE,
		task_type TEXT NOT NULL,
		payload TEXT NOT NULL DEFAULT '{}',
		queue TEXT NOT NULL,
		status TEXT NOT NULL,
		result TEXT,
		error TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
}

// NewLocalStore opens (or creates) the SQLite database at path and applies
// the schema. Use ":memory:" for a throwaway database.
func NewLocalStore(ctx context.Context, path string) (*StoreImpl, error) {
	if path == "" {
		return nil, errors.New("sqlite path cannot be empty")
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite database: %w", err)
	}
	// SQLite serialises writers; one connection also keeps ":memory:" shared.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping sqlite database: %w", err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return &StoreImpl{db: db}, nil
}

func (s *StoreImpl) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *StoreImpl) Close() error {
	return s.db.Close()
}

var _ store.Store = (*StoreImpl)(nil)
