package primary

import (
	"context"
	"fmt"
	"time"

	"reelmatch/internal/models"
	"reelmatch/internal/store"
)

// --- Query History Store Implementation ---

func (s *StoreImpl) RecordQuery(ctx context.Context, q *models.RecommendationQuery) error {
	sql := `
		INSERT INTO recommendation_queries (query, source, results_count, service_ids, executed_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if q.ExecutedAt.IsZero() {
		q.ExecutedAt = time.Now().UTC()
	}
	ids := q.ServiceIDs
	if ids == nil {
		ids = []string{}
	}
	if err := s.db.QueryRow(ctx, sql, q.Query, q.Source, q.ResultsCount, ids, q.ExecutedAt).Scan(&q.ID); err != nil {
		return fmt.Errorf("failed to record recommendation query: %w", err)
	}
	return nil
}

func (s *StoreImpl) ListQueries(ctx context.Context, limit int) ([]*models.RecommendationQuery, error) {
	if limit <= 0 {
		limit = 20 // Default limit
	}
	sql := `
		SELECT id, query, source, results_count, service_ids, executed_at
		FROM recommendation_queries
		ORDER BY executed_at DESC, id DESC
		LIMIT $1`

	rows, err := s.db.Query(ctx, sql, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendation queries: %w", err)
	}
	defer rows.Close()

	var queries []*models.RecommendationQuery
	for rows.Next() {
		q := &models.RecommendationQuery{}
		if err := rows.Scan(&q.ID, &q.Query, &q.Source, &q.ResultsCount, &q.ServiceIDs, &q.ExecutedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation query row: %w", err)
		}
		queries = append(queries, q)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recommendation query rows: %w", err)
	}
	return queries, nil
}

var _ store.QueryHistoryStore = (*StoreImpl)(nil)
