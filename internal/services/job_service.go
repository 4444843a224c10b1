package services

import (
	"context"
	"errors"
	"fmt"

	"reelmatch/internal/models"
	"reelmatch/internal/store"

	"github.com/google/uuid"
)

// ErrJobsDisabled is returned when no job queue is configured.
var ErrJobsDisabled = errors.New("background jobs are disabled")

// JobService queues recommendations for the worker and reads their state.
type JobService struct {
	client store.JobClient
	jobs   store.JobStore
}

// NewJobService accepts a nil client; enqueueing then fails with ErrJobsDisabled.
func NewJobService(client store.JobClient, jobs store.JobStore) *JobService {
	return &JobService{client: client, jobs: jobs}
}

func (s *JobService) Enabled() bool { return s.client != nil }

func (s *JobService) EnqueueRecommendation(ctx context.Context, query string) (uuid.UUID, error) {
	if s.client == nil {
		return uuid.Nil, ErrJobsDisabled
	}
	id, err := s.client.EnqueueRecommendationJob(ctx, query)
	if err != nil {
		return uuid.Nil, fmt.Errorf("enqueue recommendation: %w", err)
	}
	return id, nil
}

// Get returns the job record; store.ErrNotFound for unknown ids.
func (s *JobService) Get(ctx context.Context, id uuid.UUID) (*models.BackgroundJob, error) {
	job, err := s.jobs.GetJob(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}
