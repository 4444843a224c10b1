package local

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"reelmatch/internal/models"
	"reelmatch/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *StoreImpl {
	t.Helper()
	s, err := NewLocalStore(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewLocalStore_EmptyPath(t *testing.T) {
	_, err := NewLocalStore(context.Background(), "")
	assert.Error(t, err)
}

func TestSavedRecommendations(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Ping(ctx))

	first := &models.SavedRecommendation{Namespace: "ns", ServiceID: "brand-film", Reason: "first"}
	existed, err := s.SaveRecommendation(ctx, first)
	require.NoError(t, err)
	assert.False(t, existed)
	assert.NotZero(t, first.ID)
	assert.False(t, first.SavedAt.IsZero())

	dup := &models.SavedRecommendation{Namespace: "ns", ServiceID: "brand-film", Reason: "second"}
	existed, err = s.SaveRecommendation(ctx, dup)
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, first.ID, dup.ID)
	assert.Equal(t, "first", dup.Reason, "existing row wins")

	other := &models.SavedRecommendation{Namespace: "other", ServiceID: "brand-film", Reason: "elsewhere"}
	existed, err = s.SaveRecommendation(ctx, other)
	require.NoError(t, err)
	assert.False(t, existed, "namespaces are independent")

	later := &models.SavedRecommendation{Namespace: "ns", ServiceID: "ad-film", Reason: "r", SavedAt: first.SavedAt.Add(time.Second)}
	_, err = s.SaveRecommendation(ctx, later)
	require.NoError(t, err)

	list, err := s.ListSaved(ctx, "ns")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "brand-film", list[0].ServiceID)
	assert.Equal(t, "ad-film", list[1].ServiceID)

	require.NoError(t, s.DeleteSaved(ctx, "ns", "brand-film"))
	err = s.DeleteSaved(ctx, "ns", "brand-film")
	assert.ErrorIs(t, err, store.ErrNotFound)

	list, err = s.ListSaved(ctx, "ns")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ad-film", list[0].ServiceID)
}

func TestQueryHistory(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	base := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, q := range []string{"old", "newer", "newest"} {
		rec := &models.RecommendationQuery{
			Query:        q,
			Source:       models.SourceFallback,
			ResultsCount: i,
			ServiceIDs:   []string{"corporate"},
			ExecutedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, s.RecordQuery(ctx, rec))
		assert.NotZero(t, rec.ID)
	}
	require.NoError(t, s.RecordQuery(ctx, &models.RecommendationQuery{Query: "nil ids", Source: models.SourceAI, ExecutedAt: base.Add(-time.Hour)}))

	list, err := s.ListQueries(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newest", list[0].Query)
	assert.Equal(t, "newer", list[1].Query)
	assert.Equal(t, []string{"corporate"}, list[0].ServiceIDs)
	assert.True(t, base.Add(2*time.Minute).Equal(list[0].ExecutedAt))

	all, err := s.ListQueries(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []string{}, all[3].ServiceIDs)
}

func TestCostTracking(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	cost, in, out, err := s.GetUsageSummary(ctx)
	require.NoError(t, err)
	assert.Zero(t, cost)
	assert.Zero(t, in)
	assert.Zero(t, out)

	jobID := uuid.New()
	require.NoError(t, s.RecordUsage(ctx, &models.AIUsageLog{
		ProviderName: "gemini", ServiceType: models.ServiceTypeRecommendation, ModelName: "m",
		InputTokens: 100, OutputTokens: 20, Cost: 0.5, RelatedJobID: &jobID,
	}))
	require.NoError(t, s.RecordUsage(ctx, &models.AIUsageLog{
		Timestamp:    time.Now().UTC().Add(time.Minute),
		ProviderName: "openai", ServiceType: models.ServiceTypeRecommendation, ModelName: "m2",
		InputTokens: 10, OutputTokens: 5, Cost: 0.25,
	}))

	cost, in, out, err = s.GetUsageSummary(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, cost, 1e-9)
	assert.Equal(t, int64(110), in)
	assert.Equal(t, int64(25), out)

	logs, err := s.ListUsage(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "openai", logs[0].ProviderName)
	assert.Nil(t, logs[0].RelatedJobID)
	require.NotNil(t, logs[1].RelatedJobID)
	assert.Equal(t, jobID, *logs[1].RelatedJobID)

	page, err := s.ListUsage(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "gemini", page[0].ProviderName)
}

func TestJobStore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	jobID := uuid.New()

	_, err := s.GetJob(ctx, jobID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.UpdateJobStatus(ctx, jobID, models.JobStatusRunning), store.ErrNotFound)

	params := store.JobRecordParams{
		JobID:    jobID,
		TaskType: "recommendation:resolve",
		Payload:  []byte(`{"query":"q"}`),
		Queue:    "recommendations",
		Status:   models.JobStatusEnqueued,
	}
	require.NoError(t, s.RecordJobEnqueue(ctx, params))
	require.NoError(t, s.RecordJobEnqueue(ctx, params), "recording twice is a no-op")

	job, err := s.GetJob(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, jobID, job.ID)
	assert.Equal(t, models.JobStatusEnqueued, job.Status)
	assert.JSONEq(t, `{"query":"q"}`, string(job.Payload))
	assert.Nil(t, job.Result)
	assert.Nil(t, job.Error)

	require.NoError(t, s.UpdateJobStatus(ctx, jobID, models.JobStatusRunning))
	result := json.RawMessage(`{"source":"fallback"}`)
	require.NoError(t, s.FinishJob(ctx, jobID, models.JobStatusCompleted, result, nil))

	job, err = s.GetJob(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, job.Status)
	assert.JSONEq(t, `{"source":"fallback"}`, string(job.Result))

	msg := "boom"
	require.NoError(t, s.FinishJob(ctx, jobID, models.JobStatusFailed, nil, &msg))
	job, err = s.GetJob(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, job.Status)
	require.NotNil(t, job.Error)
	assert.Equal(t, "boom", *job.Error)
	assert.Nil(t, job.Result)
}
