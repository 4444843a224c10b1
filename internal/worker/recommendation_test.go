package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"reelmatch/internal/costtracker"
	"reelmatch/internal/models"
	"reelmatch/internal/store"
	"reelmatch/internal/tasks"
	"reelmatch/pkg/recommender"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Recommend(ctx context.Context, rawQuery string) (recommender.Resolution, error) {
	args := m.Called(ctx, rawQuery)
	return args.Get(0).(recommender.Resolution), args.Error(1)
}

type mockJobStore struct {
	mock.Mock
}

func (m *mockJobStore) RecordJobEnqueue(ctx context.Context, params store.JobRecordParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *mockJobStore) UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status string) error {
	return m.Called(ctx, jobID, status).Error(0)
}

func (m *mockJobStore) FinishJob(ctx context.Context, jobID uuid.UUID, status string, result json.RawMessage, errMsg *string) error {
	return m.Called(ctx, jobID, status, result, errMsg).Error(0)
}

func (m *mockJobStore) GetJob(ctx context.Context, jobID uuid.UUID) (*models.BackgroundJob, error) {
	args := m.Called(ctx, jobID)
	job, _ := args.Get(0).(*models.BackgroundJob)
	return job, args.Error(1)
}

func newTask(t *testing.T, jobID uuid.UUID, query string) *asynq.Task {
	t.Helper()
	payload, err := tasks.NewRecommendationPayload(jobID, query)
	require.NoError(t, err)
	return asynq.NewTask(tasks.TypeRecommendationJob, payload)
}

func TestHandleRecommendationJob_Completes(t *testing.T) {
	jobID := uuid.New()
	resolution := recommender.Resolution{
		Query:  "brand story",
		Source: models.SourceFallback,
		Result: recommender.Fallback("brand story"),
	}

	resolver := new(mockResolver)
	resolver.On("Recommend", mock.MatchedBy(func(ctx context.Context) bool {
		id, ok := costtracker.JobIDFromContext(ctx)
		return ok && id == jobID
	}), "brand story").Return(resolution, nil).Once()

	js := new(mockJobStore)
	js.On("UpdateJobStatus", mock.Anything, jobID, models.JobStatusRunning).Return(nil).Once()
	js.On("FinishJob", mock.Anything, jobID, models.JobStatusCompleted, mock.MatchedBy(func(body json.RawMessage) bool {
		var got recommender.Resolution
		return json.Unmarshal(body, &got) == nil && got.Source == models.SourceFallback && got.Query == "brand story"
	}), (*string)(nil)).Return(nil).Once()

	handler := HandleRecommendationJob(RecommendationDeps{Resolver: resolver, JobStore: js})
	require.NoError(t, handler(context.Background(), newTask(t, jobID, "brand story")))

	resolver.AssertExpectations(t)
	js.AssertExpectations(t)
}

func TestHandleRecommendationJob_Aborted(t *testing.T) {
	jobID := uuid.New()
	resolver := new(mockResolver)
	resolver.On("Recommend", mock.Anything, "q").Return(recommender.Resolution{}, errors.New("aborted")).Once()

	js := new(mockJobStore)
	js.On("UpdateJobStatus", mock.Anything, jobID, models.JobStatusRunning).Return(nil).Once()
	js.On("FinishJob", mock.Anything, jobID, models.JobStatusFailed, json.RawMessage(nil), mock.MatchedBy(func(msg *string) bool {
		return msg != nil && *msg == "aborted"
	})).Return(nil).Once()

	handler := HandleRecommendationJob(RecommendationDeps{Resolver: resolver, JobStore: js})
	err := handler(context.Background(), newTask(t, jobID, "q"))
	assert.ErrorContains(t, err, "aborted")
	js.AssertExpectations(t)
}

func TestHandleRecommendationJob_BadPayloadSkipsRetry(t *testing.T) {
	handler := HandleRecommendationJob(RecommendationDeps{Resolver: new(mockResolver), JobStore: new(mockJobStore)})
	err := handler(context.Background(), asynq.NewTask(tasks.TypeRecommendationJob, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleRecommendationJob_WithoutJobID(t *testing.T) {
	resolver := new(mockResolver)
	resolver.On("Recommend", mock.Anything, "q").Return(recommender.Resolution{Query: "q", Source: models.SourceAI}, nil).Once()
	js := new(mockJobStore)

	handler := HandleRecommendationJob(RecommendationDeps{Resolver: resolver, JobStore: js})
	require.NoError(t, handler(context.Background(), asynq.NewTask(tasks.TypeRecommendationJob, []byte(`{"query":"q"}`))))
	js.AssertNotCalled(t, "FinishJob", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
