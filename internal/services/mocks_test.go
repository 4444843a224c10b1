package services

import (
	"context"
	"encoding/json"

	"reelmatch/internal/models"
	"reelmatch/internal/store"
	"reelmatch/pkg/recommender"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"
)

type mockCompletion struct {
	mock.Mock
}

func (m *mockCompletion) Complete(ctx context.Context, req recommender.CompletionRequest) (recommender.CompletionResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(recommender.CompletionResponse), args.Error(1)
}

func (m *mockCompletion) Status() store.ProviderStatus { return store.ProviderStatusActive }
func (m *mockCompletion) Name() string                 { return "mock" }
func (m *mockCompletion) ModelName() string            { return "mock-1" }

type mockHistoryStore struct {
	mock.Mock
}

func (m *mockHistoryStore) RecordQuery(ctx context.Context, q *models.RecommendationQuery) error {
	return m.Called(ctx, q).Error(0)
}

func (m *mockHistoryStore) ListQueries(ctx context.Context, limit int) ([]*models.RecommendationQuery, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*models.RecommendationQuery), args.Error(1)
}

type mockSavedStore struct {
	mock.Mock
}

func (m *mockSavedStore) SaveRecommendation(ctx context.Context, rec *models.SavedRecommendation) (bool, error) {
	args := m.Called(ctx, rec)
	return args.Bool(0), args.Error(1)
}

func (m *mockSavedStore) ListSaved(ctx context.Context, namespace string) ([]*models.SavedRecommendation, error) {
	args := m.Called(ctx, namespace)
	return args.Get(0).([]*models.SavedRecommendation), args.Error(1)
}

func (m *mockSavedStore) DeleteSaved(ctx context.Context, namespace, serviceID string) error {
	return m.Called(ctx, namespace, serviceID).Error(0)
}

type mockJobClient struct {
	mock.Mock
}

func (m *mockJobClient) Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task)
	info, _ := args.Get(0).(*asynq.TaskInfo)
	return info, args.Error(1)
}

func (m *mockJobClient) EnqueueRecommendationJob(ctx context.Context, query string) (uuid.UUID, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockJobClient) Close() error { return nil }

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
