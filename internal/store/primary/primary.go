package primary

import (
	"context"
	"errors"
	"fmt"

	"reelmatch/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StoreImpl implements store.Store using PostgreSQL.
type StoreImpl struct {
	db *pgxpool.Pool
}

// schema is applied on startup; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS saved_recommendations (
		id BIGSERIAL PRIMARY KEY,
		namespace TEXT NOT NULL,
		service_id TEXT NOT NULL,
		reason TEXT NOT NULL,
		saved_at TIMESTAMPTZ NOT NULL,
		UNIQUE (namespace, service_id)
	)`,
	`CREATE TABLE IF NOT EXISTS recommendation_queries (
		id BIGSERIAL PRIMARY KEY,
		query TEXT NOT NULL,
		source TEXT NOT NULL,
		results_count INTEGER NOT NULL,
		service_ids TEXT[] NOT NULL DEFAULT '{}',
		executed_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ai_usage_logs (
		id BIGSERIAL PRIMARY KEY,
		timestamp TIMESTAMPTZ NOT NULL,
		provider_name TEXT NOT NULL,
		service_type TEXT NOT NULL,
		model_name TEXT NOT NULL,
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		cost DOUBLE PRECISION NOT NULL DEFAULT 0,
		related_job_id UUID
	)`,
	`CREATE TABLE IF NOT EXISTS background_jobs (
		id BIGSERIAL PRIMARY KEY,
		job_id UUID NOT NULL UNIQUE,
		task_type TEXT NOT NULL,
		payload JSONB NOT NULL DEFAULT '{}',
		queue TEXT NOT NULL,
		status TEXT NOT NULL,
		result JSONB,
		error TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_recommendation_queries_executed_at ON recommendation_queries (executed_at DESC)`,
}

// NewPrimaryStore connects to PostgreSQL and bootstraps the schema.
func NewPrimaryStore(ctx context.Context, dsn string) (*StoreImpl, error) {
	if dsn == "" {
		return nil, errors.New("database DSN cannot be empty")
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database DSN: %w", err)
	}

	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	s := &StoreImpl{db: dbpool}
	if err := s.migrate(ctx); err != nil {
		dbpool.Close()
		return nil, err
	}
	return s, nil
}

func (s *StoreImpl) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// Ping checks the database connection.
func (s *StoreImpl) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection pool.
func (s *StoreImpl) Close() error {
	s.db.Close()
	return nil
}

var _ store.Store = (*StoreImpl)(nil)
