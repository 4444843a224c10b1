package primary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"reelmatch/internal/models"
	"reelmatch/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// --- Job Store Implementation ---

// RecordJobEnqueue inserts a record into the background_jobs table.
func (s *StoreImpl) RecordJobEnqueue(ctx context.Context, params store.JobRecordParams) error {
	query := `
		INSERT INTO background_jobs (job_id, task_type, payload, queue, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (job_id) DO NOTHING
		RETURNING id`

	now := time.Now().UTC()
	payloadJSON := json.RawMessage("{}")
	if params.Payload != nil {
		payloadJSON = json.RawMessage(params.Payload)
	}

	var insertedID int64
	err := s.db.QueryRow(ctx, query,
		params.JobID,
		params.TaskType,
		payloadJSON,
		params.Queue,
		params.Status,
		now,
	).Scan(&insertedID)
	if err != nil {
		// ON CONFLICT DO NOTHING returns no row when the job is already recorded.
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debugf("Job %s already recorded, skipping insertion.", params.JobID)
			return nil
		}
		return fmt.Errorf("failed to record job enqueue event for JobID %s: %w", params.JobID, err)
	}

	log.Debugf("Recorded job enqueue event for JobID %s with DB ID %d", params.JobID, insertedID)
	return nil
}

// UpdateJobStatus updates the status of a job given its task UUID.
func (s *StoreImpl) UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status string) error {
	query := `UPDATE background_jobs SET status = $1, updated_at = $2 WHERE job_id = $3`
	cmdTag, err := s.db.Exec(ctx, query, status, time.Now().UTC(), jobID)
	if err != nil {
		return fmt.Errorf("failed to update job status for job %s: %w", jobID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("job %s not found to update status: %w", jobID, store.ErrNotFound)
	}
	return nil
}

// FinishJob stores the terminal status and its result or error message.
func (s *StoreImpl) FinishJob(ctx context.Context, jobID uuid.UUID, status string, result json.RawMessage, errMsg *string) error {
	query := `UPDATE background_jobs SET status = $1, result = $2, error = $3, updated_at = $4 WHERE job_id = $5`
	cmdTag, err := s.db.Exec(ctx, query, status, result, errMsg, time.Now().UTC(), jobID)
	if err != nil {
		return fmt.Errorf("failed to finish job %s: %w", jobID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("job %s not found to finish: %w", jobID, store.ErrNotFound)
	}
	return nil
}

// GetJob retrieves a job by its task UUID.
func (s *StoreImpl) GetJob(ctx context.Context, jobID uuid.UUID) (*models.BackgroundJob, error) {
	query := `
		SELECT job_id, task_type, payload, queue, status, result, error, created_at, updated_at
		FROM background_jobs WHERE job_id = $1`
	job := &models.BackgroundJob{}
	err := s.db.QueryRow(ctx, query, jobID).Scan(
		&job.ID, &job.TaskType, &job.Payload, &job.Queue, &job.Status,
		&job.Result, &job.Error, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("job %s: %w", jobID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get job %s: %w", jobID, err)
	}
	return job, nil
}

var _ store.JobStore = (*StoreImpl)(nil)
