package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"reelmatch/internal/models"
	"reelmatch/internal/tasks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockJobStore struct {
	mock.Mock
	calls []string
}

func (m *mockJobStore) RecordJobEnqueue(ctx context.Context, params JobRecordParams) error {
	m.calls = append(m.calls, "record")
	return m.Called(ctx, params).Error(0)
}

func (m *mockJobStore) UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status string) error {
	return m.Called(ctx, jobID, status).Error(0)
}

func (m *mockJobStore) FinishJob(ctx context.Context, jobID uuid.UUID, status string, result json.RawMessage, errMsg *string) error {
	m.calls = append(m.calls, "finish")
	return m.Called(ctx, jobID, status, result, errMsg).Error(0)
}

func (m *mockJobStore) GetJob(ctx context.Context, jobID uuid.UUID) (*models.BackgroundJob, error) {
	args := m.Called(ctx, jobID)
	job, _ := args.Get(0).(*models.BackgroundJob)
	return job, args.Error(1)
}

type fakeEnqueuer struct {
	js    *mockJobStore
	err   error
	tasks []*asynq.Task
}

func (f *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	f.js.calls = append(f.js.calls, "enqueue")
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task", Queue: tasks.QueueRecommendations}, nil
}

func (f *fakeEnqueuer) Close() error { return nil }

func TestEnqueueRecommendationJob_RecordsBeforeEnqueue(t *testing.T) {
	js := new(mockJobStore)
	js.On("RecordJobEnqueue", mock.Anything, mock.MatchedBy(func(p JobRecordParams) bool {
		return p.TaskType == tasks.TypeRecommendationJob && p.Status == models.JobStatusEnqueued &&
			p.Queue == tasks.QueueRecommendations
	})).Return(nil).Once()
	enq := &fakeEnqueuer{js: js}
	jc := &AsynqJobClient{client: enq, jobStore: js, queue: tasks.QueueRecommendations}

	jobID, err := jc.EnqueueRecommendationJob(context.Background(), "conference recap")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, jobID)
	assert.Equal(t, []string{"record", "enqueue"}, js.calls)

	require.Len(t, enq.tasks, 1)
	payload, err := tasks.ParseRecommendationPayload(enq.tasks[0].Payload())
	require.NoError(t, err)
	assert.Equal(t, jobID, payload.JobID)
	assert.Equal(t, "conference recap", payload.Query)
	js.AssertExpectations(t)
}

func TestEnqueueRecommendationJob_RecordFailureSkipsEnqueue(t *testing.T) {
	js := new(mockJobStore)
	js.On("RecordJobEnqueue", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()
	enq := &fakeEnqueuer{js: js}
	jc := &AsynqJobClient{client: enq, jobStore: js, queue: tasks.QueueRecommendations}

	_, err := jc.EnqueueRecommendationJob(context.Background(), "anything")
	require.Error(t, err)
	assert.Empty(t, enq.tasks)
	assert.Equal(t, []string{"record"}, js.calls)
}

func TestEnqueueRecommendationJob_EnqueueFailureMarksJobFailed(t *testing.T) {
	js := new(mockJobStore)
	js.On("RecordJobEnqueue", mock.Anything, mock.Anything).Return(nil).Once()
	js.On("FinishJob", mock.Anything, mock.Anything, models.JobStatusFailed, json.RawMessage(nil),
		mock.MatchedBy(func(msg *string) bool { return msg != nil && *msg == "redis unavailable" })).Return(nil).Once()
	enq := &fakeEnqueuer{js: js, err: errors.New("redis unavailable")}
	jc := &AsynqJobClient{client: enq, jobStore: js, queue: tasks.QueueRecommendations}

	_, err := jc.EnqueueRecommendationJob(context.Background(), "anything")
	require.Error(t, err)
	assert.Equal(t, []string{"record", "enqueue", "finish"}, js.calls)
	js.AssertExpectations(t)
}
