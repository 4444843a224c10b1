package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reelmatch/internal/store"
	"reelmatch/pkg/recommender"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
)

// BreakerCompletionService short-circuits a provider after consecutive
// failures so requests go straight to the keyword fallback while it is down.
type BreakerCompletionService struct {
	inner CompletionService
	cb    *gobreaker.CircuitBreaker[recommender.CompletionResponse]
}

// NewBreakerCompletionService wraps inner. The breaker opens after
// maxFailures consecutive failures and probes again after openTimeout.
func NewBreakerCompletionService(inner CompletionService, maxFailures uint32, openTimeout time.Duration) *BreakerCompletionService {
	if maxFailures == 0 {
		maxFailures = 1
	}
	settings := gobreaker.Settings{
		Name:        inner.Name(),
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(log.Fields{
				"provider": name,
				"from":     from.String(),
				"to":       to.String(),
			}).Warn("Completion circuit breaker state changed")
		},
		// A caller giving up says nothing about provider health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
	return &BreakerCompletionService{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[recommender.CompletionResponse](settings),
	}
}

func (b *BreakerCompletionService) Complete(ctx context.Context, req recommender.CompletionRequest) (recommender.CompletionResponse, error) {
	resp, err := b.cb.Execute(func() (recommender.CompletionResponse, error) {
		return b.inner.Complete(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return recommender.CompletionResponse{}, fmt.Errorf("%s circuit open: %w", b.inner.Name(), err)
	}
	return resp, err
}

// Status reports inactive while the breaker is open.
func (b *BreakerCompletionService) Status() store.ProviderStatus {
	if b.cb.State() == gobreaker.StateOpen {
		return store.ProviderStatusInactive
	}
	return b.inner.Status()
}

// Inner returns the wrapped provider.
func (b *BreakerCompletionService) Inner() CompletionService { return b.inner }

func (b *BreakerCompletionService) Name() string      { return b.inner.Name() }
func (b *BreakerCompletionService) ModelName() string { return b.inner.ModelName() }

// BreakerState exposes the breaker state for health output.
func (b *BreakerCompletionService) BreakerState() string { return b.cb.State().String() }

var _ CompletionService = (*BreakerCompletionService)(nil)
