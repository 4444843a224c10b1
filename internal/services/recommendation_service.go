package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reelmatch/internal/models"
	"reelmatch/internal/store"
	"reelmatch/internal/viewstate"
	"reelmatch/pkg/recommender"

	log "github.com/sirupsen/logrus"
)

// ErrResolutionAborted means the caller went away before a result existed.
// It is the only error Recommend returns.
var ErrResolutionAborted = errors.New("recommendation aborted")

type RecommendationService struct {
	resolver *recommender.Resolver
	history  store.QueryHistoryStore
	timeout  time.Duration
}

// NewRecommendationService builds the service. history may be nil; timeout
// bounds the AI attempt and is ignored when zero.
func NewRecommendationService(resolver *recommender.Resolver, history store.QueryHistoryStore, timeout time.Duration) *RecommendationService {
	return &RecommendationService{resolver: resolver, history: history, timeout: timeout}
}

// Recommend resolves rawQuery. AI trouble never surfaces here: the resolver
// falls back to keyword matching.
func (s *RecommendationService) Recommend(ctx context.Context, rawQuery string) (recommender.Resolution, error) {
	if err := ctx.Err(); err != nil {
		return recommender.Resolution{}, fmt.Errorf("%w: %w", ErrResolutionAborted, err)
	}

	rctx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	res := s.resolver.Resolve(rctx, rawQuery)

	if err := ctx.Err(); err != nil {
		return recommender.Resolution{}, fmt.Errorf("%w: %w", ErrResolutionAborted, err)
	}

	s.recordHistory(ctx, res)
	return res, nil
}

// RecommendSession submits rawQuery on session and settles the ticket it got:
// complete with the resolution, or error when Recommend fails. The session is
// renderable either way when this returns.
func (s *RecommendationService) RecommendSession(ctx context.Context, session *viewstate.Session, rawQuery string) (recommender.Resolution, error) {
	ticket, _ := session.Submit(rawQuery)
	res, err := s.Recommend(ctx, rawQuery)
	if err != nil {
		session.Fail(ticket)
		return recommender.Resolution{}, err
	}
	session.Resolve(ticket, res.Result)
	return res, nil
}

func (s *RecommendationService) recordHistory(ctx context.Context, res recommender.Resolution) {
	if s.history == nil {
		return
	}
	q := &models.RecommendationQuery{
		Query:        res.Query,
		Source:       res.Source,
		ResultsCount: res.Result.Len(),
		ServiceIDs:   res.Result.ServiceIDs(),
	}
	if err := s.history.RecordQuery(ctx, q); err != nil {
		log.WithError(err).Warn("Failed to record recommendation query")
	}
}
