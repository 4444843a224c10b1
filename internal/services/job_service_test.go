package services

import (
	"context"
	"errors"
	"testing"

	"reelmatch/internal/models"
	"reelmatch/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestJobService_Disabled(t *testing.T) {
	svc := NewJobService(nil, new(mockJobStore))
	assert.False(t, svc.Enabled())
	_, err := svc.EnqueueRecommendation(context.Background(), "q")
	assert.ErrorIs(t, err, ErrJobsDisabled)
}

func TestJobService_EnqueueAndGet(t *testing.T) {
	client := new(mockJobClient)
	jobs := new(mockJobStore)
	id := uuid.New()
	client.On("EnqueueRecommendationJob", mock.Anything, "launch").Return(id, nil).Once()
	jobs.On("GetJob", mock.Anything, id).Return(&models.BackgroundJob{ID: id, Status: models.JobStatusEnqueued}, nil).Once()
	jobs.On("GetJob", mock.Anything, mock.Anything).Return(nil, store.ErrNotFound)

	svc := NewJobService(client, jobs)
	assert.True(t, svc.Enabled())

	got, err := svc.EnqueueRecommendation(context.Background(), "launch")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	job, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusEnqueued, job.Status)

	_, err = svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestJobService_EnqueueError(t *testing.T) {
	client := new(mockJobClient)
	client.On("EnqueueRecommendationJob", mock.Anything, "q").Return(uuid.Nil, errors.New("redis down"))

	_, err := NewJobService(client, new(mockJobStore)).EnqueueRecommendation(context.Background(), "q")
	assert.ErrorContains(t, err, "redis down")
}
