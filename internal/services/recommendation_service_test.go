package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"reelmatch/internal/catalog"
	"reelmatch/internal/models"
	"reelmatch/internal/store"
	"reelmatch/internal/viewstate"
	"reelmatch/pkg/recommender"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRecommendationService(c recommender.Completer, history *mockHistoryStore, timeout time.Duration) *RecommendationService {
	client := recommender.NewClient(c, catalog.All(), "")
	var h store.QueryHistoryStore
	if history != nil {
		h = history
	}
	return NewRecommendationService(recommender.NewResolver(client), h, timeout)
}

func TestRecommendationService_AIResultRecorded(t *testing.T) {
	ai := recommender.CompleterFunc(func(ctx context.Context, req recommender.CompletionRequest) (recommender.CompletionResponse, error) {
		return recommender.CompletionResponse{Text: `{"recommendations":[{"serviceId":"drone-aerial","reason":"views","matchedKeywords":["aerial"]}]}`}, nil
	})
	history := new(mockHistoryStore)
	history.On("RecordQuery", mock.Anything, mock.MatchedBy(func(q *models.RecommendationQuery) bool {
		return q.Query == "aerial shots" && q.Source == models.SourceAI && q.ResultsCount == 1 &&
			len(q.ServiceIDs) == 1 && q.ServiceIDs[0] == "drone-aerial"
	})).Return(nil).Once()

	svc := newRecommendationService(ai, history, time.Second)
	res, err := svc.Recommend(context.Background(), "  aerial shots ")
	require.NoError(t, err)
	assert.Equal(t, models.SourceAI, res.Source)
	assert.Equal(t, []string{"drone-aerial"}, res.Result.ServiceIDs())
	history.AssertExpectations(t)
}

func TestRecommendationService_FallbackAndHistoryFailureIgnored(t *testing.T) {
	ai := recommender.CompleterFunc(func(ctx context.Context, req recommender.CompletionRequest) (recommender.CompletionResponse, error) {
		return recommender.CompletionResponse{}, errors.New("quota exceeded")
	})
	history := new(mockHistoryStore)
	history.On("RecordQuery", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	svc := newRecommendationService(ai, history, time.Second)
	res, err := svc.Recommend(context.Background(), "event coverage")
	require.NoError(t, err)
	assert.Equal(t, models.SourceFallback, res.Source)
	assert.Equal(t, recommender.Fallback("event coverage"), res.Result)
	history.AssertExpectations(t)
}

func TestRecommendationService_TimeoutFallsBack(t *testing.T) {
	ai := recommender.CompleterFunc(func(ctx context.Context, req recommender.CompletionRequest) (recommender.CompletionResponse, error) {
		<-ctx.Done()
		return recommender.CompletionResponse{}, ctx.Err()
	})

	svc := newRecommendationService(ai, nil, 20*time.Millisecond)
	res, err := svc.Recommend(context.Background(), "a commercial")
	require.NoError(t, err)
	assert.Equal(t, models.SourceFallback, res.Source)
	assert.Equal(t, []string{"ad-film"}, res.Result.ServiceIDs())
}

func TestRecommendationService_CallerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := newRecommendationService(nil, nil, 0)
	_, err := svc.Recommend(ctx, "anything")
	assert.ErrorIs(t, err, ErrResolutionAborted)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecommendationService_CancelledDuringAI(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ai := recommender.CompleterFunc(func(c context.Context, req recommender.CompletionRequest) (recommender.CompletionResponse, error) {
		cancel()
		return recommender.CompletionResponse{}, c.Err()
	})
	history := new(mockHistoryStore)

	svc := newRecommendationService(ai, history, time.Second)
	_, err := svc.Recommend(ctx, "anything")
	assert.ErrorIs(t, err, ErrResolutionAborted)
	history.AssertNotCalled(t, "RecordQuery", mock.Anything, mock.Anything)
}

func TestRecommendationService_RecommendSessionCompletes(t *testing.T) {
	ai := recommender.CompleterFunc(func(ctx context.Context, req recommender.CompletionRequest) (recommender.CompletionResponse, error) {
		return recommender.CompletionResponse{Text: `{"recommendations":[{"serviceId":"drone-aerial","reason":"views","matchedKeywords":["aerial"]}]}`}, nil
	})
	svc := newRecommendationService(ai, nil, time.Second)
	session := viewstate.NewSession()

	res, err := svc.RecommendSession(context.Background(), session, " aerial shots ")
	require.NoError(t, err)
	assert.Equal(t, models.SourceAI, res.Source)
	assert.Equal(t, viewstate.StateComplete, session.State())
	assert.Equal(t, "aerial shots", session.Query())

	session.SelectCategory("Production")
	cards := session.Cards()
	require.Len(t, cards, 1)
	assert.Equal(t, "drone-aerial", cards[0].Service.ID)

	session.SelectCategory("Events")
	assert.Empty(t, session.Cards())
}

func TestRecommendationService_RecommendSessionFailsOnAbort(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := newRecommendationService(nil, nil, 0)
	session := viewstate.NewSession()

	_, err := svc.RecommendSession(ctx, session, "anything")
	assert.ErrorIs(t, err, ErrResolutionAborted)
	assert.Equal(t, viewstate.StateError, session.State())
	assert.Empty(t, session.Cards())
}
