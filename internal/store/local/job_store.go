package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"reelmatch/internal/models"
	"reelmatch/internal/store"

	"github.com/google/uuid"
)

func (s *StoreImpl) RecordJobEnqueue(ctx context.Context, params store.JobRecordParams) error {
	payload := "{}"
	if params.Payload != nil {
		payload = string(params.Payload)
	}
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO background_jobs (job_id, task_type, payload, queue, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (job_id) DO NOTHING`,
		params.JobID.String(), params.TaskType, payload, params.Queue, params.Status, now, now)
	if err != nil {
		return fmt.Errorf("failed to record job enqueue event for JobID %s: %w", params.JobID, err)
	}
	return nil
}

func (s *StoreImpl) UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE background_jobs SET status = ?, updated_at = ? WHERE job_id = ?`,
		status, time.Now().UTC(), jobID.String())
	if err != nil {
		return fmt.Errorf("failed to update job status for job %s: %w", jobID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("job %s not found to update status: %w", jobID, store.ErrNotFound)
	}
	return nil
}

func (s *StoreImpl) FinishJob(ctx context.Context, jobID uuid.UUID, status string, result json.RawMessage, errMsg *string) error {
	var resultText sql.NullString
	if result != nil {
		resultText = sql.NullString{String: string(result), Valid: true}
	}
	res, err := s.db.ExecContext(ctx, `UPDATE background_jobs SET status = ?, result = ?, error = ?, updated_at = ? WHERE job_id = ?`,
		status, resultText, errMsg, time.Now().UTC(), jobID.String())
	if err != nil {
		return fmt.Errorf("failed to finish job %s: %w", jobID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("job %s not found to finish: %w", jobID, store.ErrNotFound)
	}
	return nil
}

func (s *StoreImpl) GetJob(ctx context.Context, jobID uuid.UUID) (*models.BackgroundJob, error) {
	var (
		job     models.BackgroundJob
		idText  string
		payload string
		result  sql.NullString
		errText sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT job_id, task_type, payload, queue, status, result, error, created_at, updated_at
		FROM background_jobs WHERE job_id = ?`, jobID.String()).Scan(
		&idText, &job.TaskType, &payload, &job.Queue, &job.Status,
		&result, &errText, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("job %s: %w", jobID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get job %s: %w", jobID, err)
	}
	if job.ID, err = uuid.Parse(idText); err != nil {
		return nil, fmt.Errorf("corrupt job id %q: %w", idText, err)
	}
	job.Payload = json.RawMessage(payload)
	if result.Valid {
		job.Result = json.RawMessage(result.String)
	}
	if errText.Valid {
		msg := errText.String
		job.Error = &msg
	}
	return &job, nil
}
