package recommender

import (
	"context"
	"errors"
	"testing"

	"reelmatch/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRecommender struct {
	mock.Mock
}

func (m *mockRecommender) Recommend(ctx context.Context, query string) (models.RecommendationResult, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(models.RecommendationResult), args.Error(1)
}

func TestResolver_ReturnsAIResultVerbatim(t *testing.T) {
	aiResult := models.RecommendationResult{Recommendations: []models.RecommendationItem{
		{ServiceID: "drone-aerial", Reason: "Why this matches: aerial shots.", MatchedKeywords: []string{"aerial"}},
		{ServiceID: "not-in-catalog", Reason: "dangling", MatchedKeywords: []string{}},
	}}
	ai := new(mockRecommender)
	ai.On("Recommend", mock.Anything, "aerial footage of our resort").Return(aiResult, nil).Once()

	res := NewResolver(ai).Resolve(context.Background(), "  aerial footage of our resort ")

	assert.Equal(t, "aerial footage of our resort", res.Query)
	assert.Equal(t, models.SourceAI, res.Source)
	assert.Equal(t, aiResult, res.Result)
	ai.AssertExpectations(t)
}

func TestResolver_EmptyAIResultIsSuccess(t *testing.T) {
	ai := new(mockRecommender)
	ai.On("Recommend", mock.Anything, mock.Anything).
		Return(models.RecommendationResult{Recommendations: []models.RecommendationItem{}}, nil)

	res := NewResolver(ai).Resolve(context.Background(), "brand story")

	assert.Equal(t, models.SourceAI, res.Source)
	assert.Empty(t, res.Result.Recommendations)
}

func TestResolver_FallsBackOnFailure(t *testing.T) {
	queries := []string{"", "brand story for our event", "We need a product demo for investors", "hello"}
	for _, q := range queries {
		ai := new(mockRecommender)
		ai.On("Recommend", mock.Anything, NormalizeQuery(q)).
			Return(models.RecommendationResult{}, errors.Join(ErrUnavailable, errors.New("quota exceeded"))).Once()

		res := NewResolver(ai).Resolve(context.Background(), q)

		assert.Equal(t, models.SourceFallback, res.Source, "query %q", q)
		assert.Equal(t, Fallback(NormalizeQuery(q)), res.Result, "query %q", q)
		assert.Equal(t, NormalizeQuery(q), res.Query)
		ai.AssertExpectations(t)
	}
}

func TestResolver_NilAIUsesFallback(t *testing.T) {
	res := NewResolver(nil).Resolve(context.Background(), "")
	assert.Equal(t, DefaultQuery, res.Query)
	assert.Equal(t, models.SourceFallback, res.Source)
	assert.Equal(t, Fallback(DefaultQuery), res.Result)
}

func TestResolver_WithClientEndToEnd(t *testing.T) {
	client := NewClient(CompleterFunc(func(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
		return CompletionResponse{}, errors.New("503 service unavailable")
	}), nil, "")

	res := NewResolver(client).Resolve(context.Background(), "brand story for our event")
	assert.Equal(t, []string{"brand-film", "event-coverage"}, res.Result.ServiceIDs())
}
