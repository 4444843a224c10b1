package costtracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reelmatch/internal/config"
	"reelmatch/internal/models"
	"reelmatch/internal/store"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// CostEvent represents a single AI usage event.
type CostEvent struct {
	Provider     string
	Model        string
	Operation    string // e.g., "recommendation"
	InputTokens  int
	OutputTokens int
	JobID        *uuid.UUID // Optional; taken from the context when nil
}

// CostTracker provides methods to record and report costs.
type CostTracker interface {
	RecordCost(ctx context.Context, event CostEvent) error
	TotalCost(ctx context.Context) (float64, error)
}

// PricingFunc looks up per-token prices for a provider and model.
type PricingFunc func(provider, model string) (config.PricingInfo, bool)

type jobIDKey struct{}

// WithJobID tags ctx so usage recorded under it references the job.
func WithJobID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, jobIDKey{}, id)
}

// JobIDFromContext returns the job id set by WithJobID.
func JobIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(jobIDKey{}).(uuid.UUID)
	return id, ok
}

// New returns a store-backed tracker, or a noop tracker when st is nil.
func New(st store.CostTrackingStore, pricing PricingFunc) CostTracker {
	if st == nil {
		return &noopCostTracker{}
	}
	return &storeCostTracker{store: st, pricing: pricing}
}

type storeCostTracker struct {
	store   store.CostTrackingStore
	pricing PricingFunc
}

// RecordCost persists the event. Unknown pricing is recorded at zero cost.
func (t *storeCostTracker) RecordCost(ctx context.Context, event CostEvent) error {
	if event.Provider == "" || event.Model == "" {
		return errors.New("cost event requires provider and model")
	}
	var cost float64
	if t.pricing != nil {
		if price, ok := t.pricing(event.Provider, event.Model); ok {
			cost = float64(event.InputTokens)*price.InputPerToken + float64(event.OutputTokens)*price.OutputPerToken
		} else {
			log.Warnf("Pricing info not found for %s model '%s'. Recording zero cost.", event.Provider, event.Model)
		}
	}

	jobID := event.JobID
	if jobID == nil {
		if id, ok := JobIDFromContext(ctx); ok {
			jobID = &id
		}
	}

	entry := &models.AIUsageLog{
		Timestamp:    time.Now().UTC(),
		ProviderName: event.Provider,
		ServiceType:  event.Operation,
		ModelName:    event.Model,
		InputTokens:  event.InputTokens,
		OutputTokens: event.OutputTokens,
		Cost:         cost,
		RelatedJobID: jobID,
	}
	if err := t.store.RecordUsage(ctx, entry); err != nil {
		return fmt.Errorf("record ai usage: %w", err)
	}
	log.Debugf("Recorded AI usage: Provider=%s, Service=%s, Model=%s, In=%d, Out=%d, Cost=%.8f",
		entry.ProviderName, entry.ServiceType, entry.ModelName, entry.InputTokens, entry.OutputTokens, entry.Cost)
	return nil
}

func (t *storeCostTracker) TotalCost(ctx context.Context) (float64, error) {
	total, _, _, err := t.store.GetUsageSummary(ctx)
	if err != nil {
		return 0, fmt.Errorf("total cost: %w", err)
	}
	return total, nil
}

type noopCostTracker struct{}

func (n *noopCostTracker) RecordCost(ctx context.Context, event CostEvent) error { return nil }
func (n *noopCostTracker) TotalCost(ctx context.Context) (float64, error)        { return 0, nil }
