package costtracker

import (
	"context"
	"errors"
	"testing"

	"reelmatch/internal/config"
	"reelmatch/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCostStore struct {
	mock.Mock
}

func (m *mockCostStore) RecordUsage(ctx context.Context, log *models.AIUsageLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *mockCostStore) ListUsage(ctx context.Context, limit, offset int) ([]*models.AIUsageLog, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.AIUsageLog), args.Error(1)
}

func (m *mockCostStore) GetUsageSummary(ctx context.Context) (float64, int64, int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Get(1).(int64), args.Get(2).(int64), args.Error(3)
}

func pricing(provider, model string) (config.PricingInfo, bool) {
	if provider == "gemini" && model == "flash" {
		return config.PricingInfo{InputPerToken: 0.001, OutputPerToken: 0.01}, true
	}
	return config.PricingInfo{}, false
}

func TestRecordCost_PricesAndTagsJob(t *testing.T) {
	st := new(mockCostStore)
	tracker := New(st, pricing)
	jobID := uuid.New()
	ctx := WithJobID(context.Background(), jobID)

	st.On("RecordUsage", ctx, mock.MatchedBy(func(l *models.AIUsageLog) bool {
		return l.ProviderName == "gemini" &&
			l.ModelName == "flash" &&
			l.ServiceType == models.ServiceTypeRecommendation &&
			l.InputTokens == 100 && l.OutputTokens == 10 &&
			l.Cost > 0.1999 && l.Cost < 0.2001 &&
			l.RelatedJobID != nil && *l.RelatedJobID == jobID
	})).Return(nil).Once()

	err := tracker.RecordCost(ctx, CostEvent{
		Provider: "gemini", Model: "flash", Operation: models.ServiceTypeRecommendation,
		InputTokens: 100, OutputTokens: 10,
	})
	require.NoError(t, err)
	st.AssertExpectations(t)
}

func TestRecordCost_UnknownPricingIsZero(t *testing.T) {
	st := new(mockCostStore)
	tracker := New(st, pricing)

	st.On("RecordUsage", mock.Anything, mock.MatchedBy(func(l *models.AIUsageLog) bool {
		return l.Cost == 0 && l.RelatedJobID == nil
	})).Return(nil).Once()

	require.NoError(t, tracker.RecordCost(context.Background(), CostEvent{Provider: "openai", Model: "x", InputTokens: 5}))
	st.AssertExpectations(t)
}

func TestRecordCost_Errors(t *testing.T) {
	st := new(mockCostStore)
	tracker := New(st, nil)

	assert.Error(t, tracker.RecordCost(context.Background(), CostEvent{Model: "m"}))

	st.On("RecordUsage", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()
	err := tracker.RecordCost(context.Background(), CostEvent{Provider: "p", Model: "m"})
	assert.ErrorContains(t, err, "disk full")
}

func TestTotalCost(t *testing.T) {
	st := new(mockCostStore)
	st.On("GetUsageSummary", mock.Anything).Return(1.5, int64(10), int64(2), nil).Once()

	total, err := New(st, pricing).TotalCost(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.5, total)

	noop := New(nil, nil)
	require.NoError(t, noop.RecordCost(context.Background(), CostEvent{}))
	total, err = noop.TotalCost(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total)
}
