package recommender

import (
	"context"

	"reelmatch/internal/models"

	log "github.com/sirupsen/logrus"
)

// Resolution is the outcome of one Resolve call.
type Resolution struct {
	Query  string                      `json:"query"`  // normalized query, for echoing back
	Source string                      `json:"source"` // models.SourceAI or models.SourceFallback
	Result models.RecommendationResult `json:"result"`
}

// Recommender is the AI tier consulted before the fallback.
type Recommender interface {
	Recommend(ctx context.Context, query string) (models.RecommendationResult, error)
}

// Resolver chains the AI tier and the keyword fallback.
type Resolver struct {
	ai Recommender
}

// NewResolver returns a resolver. ai may be nil, in which case every query
// is answered by the fallback matcher.
func NewResolver(ai Recommender) *Resolver {
	return &Resolver{ai: ai}
}

// Resolve never fails: an AI reply is returned verbatim, even with zero
// items, and any AI failure yields Fallback on the normalized query.
func (r *Resolver) Resolve(ctx context.Context, rawQuery string) Resolution {
	query := NormalizeQuery(rawQuery)

	if r.ai != nil {
		result, err := r.ai.Recommend(ctx, query)
		if err == nil {
			return Resolution{Query: query, Source: models.SourceAI, Result: result}
		}
		log.WithError(err).Warn("AI recommendation failed, using keyword fallback")
	}

	return Resolution{Query: query, Source: models.SourceFallback, Result: Fallback(query)}
}
