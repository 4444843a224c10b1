package services

import (
	"context"
	"fmt"

	"reelmatch/internal/models"
	"reelmatch/internal/store"
)

type HistoryService struct {
	store        store.QueryHistoryStore
	defaultLimit int
}

func NewHistoryService(st store.QueryHistoryStore, defaultLimit int) *HistoryService {
	return &HistoryService{store: st, defaultLimit: defaultLimit}
}

// List returns the most recent queries first.
func (s *HistoryService) List(ctx context.Context, limit int) ([]*models.RecommendationQuery, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	queries, err := s.store.ListQueries(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendation history: %w", err)
	}
	return queries, nil
}
