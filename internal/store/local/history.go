package local

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"reelmatch/internal/models"
)

func (s *StoreImpl) RecordQuery(ctx context.Context, q *models.RecommendationQuery) error {
	if q.ExecutedAt.IsZero() {
		q.ExecutedAt = time.Now().UTC()
	}
	ids := q.ServiceIDs
	if ids == nil {
		ids = []string{}
	}
	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode service ids: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO recommendation_queries (query, source, results_count, service_ids, executed_at)
		VALUES (?, ?, ?, ?, ?)`,
		q.Query, q.Source, q.ResultsCount, string(idsJSON), q.ExecutedAt)
	if err != nil {
		return fmt.Errorf("failed to record recommendation query: %w", err)
	}
	if q.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read recommendation query id: %w", err)
	}
	return nil
}

func (s *StoreImpl) ListQueries(ctx context.Context, limit int) ([]*models.RecommendationQuery, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, query, source, results_count, service_ids, executed_at
		FROM recommendation_queries
		ORDER BY executed_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendation queries: %w", err)
	}
	defer rows.Close()

	var queries []*models.RecommendationQuery
	for rows.Next() {
		q := &models.RecommendationQuery{}
		var idsJSON string
		if err := rows.Scan(&q.ID, &q.Query, &q.Source, &q.ResultsCount, &idsJSON, &q.ExecutedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation query row: %w", err)
		}
		if err := json.Unmarshal([]byte(idsJSON), &q.ServiceIDs); err != nil {
			return nil, fmt.Errorf("failed to decode service ids for query %d: %w", q.ID, err)
		}
		queries = append(queries, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recommendation query rows: %w", err)
	}
	return queries, nil
}
