package local

import (
	"context"
	"fmt"
	"time"

	"reelmatch/internal/models"

	"github.com/google/uuid"
)

func (s *StoreImpl) RecordUsage(ctx context.Context, log *models.AIUsageLog) error {
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}
	var jobID uuid.NullUUID
	if log.RelatedJobID != nil {
		jobID = uuid.NullUUID{UUID: *log.RelatedJobID, Valid: true}
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO ai_usage_logs (
			timestamp, provider_name, service_type, model_name,
			input_tokens, output_tokens, cost, related_job_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		log.Timestamp, log.ProviderName, log.ServiceType, log.ModelName,
		log.InputTokens, log.OutputTokens, log.Cost, jobID)
	if err != nil {
		return fmt.Errorf("failed to insert ai_usage_log: %w", err)
	}
	if log.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read ai_usage_log id: %w", err)
	}
	return nil
}

func (s *StoreImpl) ListUsage(ctx context.Context, limit, offset int) ([]*models.AIUsageLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, provider_name, service_type, model_name,
		       input_tokens, output_tokens, cost, related_job_id
		FROM ai_usage_logs
		ORDER BY timestamp DESC, id DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query ai_usage_logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.AIUsageLog
	for rows.Next() {
		var (
			l     models.AIUsageLog
			jobID uuid.NullUUID
		)
		if err := rows.Scan(&l.ID, &l.Timestamp, &l.ProviderName, &l.ServiceType, &l.ModelName,
			&l.InputTokens, &l.OutputTokens, &l.Cost, &jobID); err != nil {
			return nil, fmt.Errorf("failed to scan ai_usage_log: %w", err)
		}
		if jobID.Valid {
			id := jobID.UUID
			l.RelatedJobID = &id
		}
		logs = append(logs, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ai_usage_logs: %w", err)
	}
	return logs, nil
}

func (s *StoreImpl) GetUsageSummary(ctx context.Context) (totalCost float64, totalInputTokens, totalOutputTokens int64, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(cost),0), COALESCE(SUM(input_tokens),0), COALESCE(SUM(output_tokens),0)
		FROM ai_usage_logs`).Scan(&totalCost, &totalInputTokens, &totalOutputTokens)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to summarize ai_usage_logs: %w", err)
	}
	return totalCost, totalInputTokens, totalOutputTokens, nil
}
