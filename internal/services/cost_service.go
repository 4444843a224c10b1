package services

import (
	"context"
	"fmt"

	"reelmatch/internal/models"
	"reelmatch/internal/store"
)

// UsageSummary totals every recorded AI call.
type UsageSummary struct {
	TotalCost         float64 `json:"totalCost"`
	TotalInputTokens  int64   `json:"totalInputTokens"`
	TotalOutputTokens int64   `json:"totalOutputTokens"`
}

// CostService provides methods for accessing AI usage cost data.
type CostService struct {
	store store.CostTrackingStore
}

// NewCostService creates a new CostService.
func NewCostService(store store.CostTrackingStore) *CostService {
	return &CostService{store: store}
}

// ListUsage retrieves a paginated list of AI usage logs.
func (s *CostService) ListUsage(ctx context.Context, limit, offset int) ([]*models.AIUsageLog, error) {
	logs, err := s.store.ListUsage(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list usage logs from store: %w", err)
	}
	return logs, nil
}

// GetSummary retrieves the total cost and token usage summary.
func (s *CostService) GetSummary(ctx context.Context) (UsageSummary, error) {
	cost, in, out, err := s.store.GetUsageSummary(ctx)
	if err != nil {
		return UsageSummary{}, fmt.Errorf("failed to get usage summary from store: %w", err)
	}
	return UsageSummary{TotalCost: cost, TotalInputTokens: in, TotalOutputTokens: out}, nil
}
