package services

import (
	"context"
	"errors"
	"fmt"

	"reelmatch/internal/config"
	"reelmatch/internal/costtracker"
	"reelmatch/internal/models"
	"reelmatch/internal/store" // For ProviderStatus
	"reelmatch/pkg/recommender"

	log "github.com/sirupsen/logrus"
)

// ErrProviderDisabled is returned by providers without credentials.
var ErrProviderDisabled = errors.New("completion provider disabled")

// CompletionService is a recommender.Completer with provider metadata.
type CompletionService interface {
	recommender.Completer
	Status() store.ProviderStatus
	Name() string      // Provider name (e.g., "openai", "gemini")
	ModelName() string // Specific model used
}

// NewCompletionService picks the provider named in cfg. Missing credentials
// yield a DisabledProvider so every request takes the fallback path.
func NewCompletionService(ctx context.Context, cfg *config.Config, tracker costtracker.CostTracker) (CompletionService, error) {
	provider := cfg.AI.Provider
	if provider == config.ProviderNone || provider == "" {
		return NewDisabledProvider(config.ProviderNone, "ai.provider is none"), nil
	}
	apiKey := cfg.APIKey()
	if apiKey == "" {
		log.Warnf("No API key configured for %s. AI recommendations are disabled; keyword matching will be used.", provider)
		return NewDisabledProvider(provider, "missing API key"), nil
	}

	switch provider {
	case config.ProviderGemini:
		return NewGeminiProvider(ctx, apiKey, cfg.AI.Model, tracker)
	case config.ProviderOpenAI:
		return NewOpenAIProvider(apiKey, cfg.AI.Model, tracker), nil
	default:
		return nil, fmt.Errorf("unsupported ai.provider %q", provider)
	}
}

// DisabledProvider fails every call with ErrProviderDisabled.
type DisabledProvider struct {
	name   string
	reason string
}

func NewDisabledProvider(name, reason string) *DisabledProvider {
	return &DisabledProvider{name: name, reason: reason}
}

func (p *DisabledProvider) Complete(ctx context.Context, req recommender.CompletionRequest) (recommender.CompletionResponse, error) {
	return recommender.CompletionResponse{}, fmt.Errorf("%w: %s (%s)", ErrProviderDisabled, p.name, p.reason)
}

func (p *DisabledProvider) Status() store.ProviderStatus { return store.ProviderStatusDisabled }
func (p *DisabledProvider) Name() string                 { return p.name }
func (p *DisabledProvider) ModelName() string            { return "" }

// recordUsage reports token usage; failures are logged and otherwise ignored.
func recordUsage(ctx context.Context, tracker costtracker.CostTracker, provider, model string, in, out int) {
	if tracker == nil || (in == 0 && out == 0) {
		return
	}
	err := tracker.RecordCost(ctx, costtracker.CostEvent{
		Provider:     provider,
		Model:        model,
		Operation:    models.ServiceTypeRecommendation,
		InputTokens:  in,
		OutputTokens: out,
	})
	if err != nil {
		log.Errorf("Failed to record AI usage for %s/%s: %v", provider, model, err)
	}
}

var _ CompletionService = (*DisabledProvider)(nil)
