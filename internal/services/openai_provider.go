package services

import (
	"context"
	"errors"
	"fmt"

	"reelmatch/internal/costtracker"
	"reelmatch/internal/store"
	"reelmatch/pkg/recommender"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

// responseSchemaName labels the json_schema response format.
const responseSchemaName = "recommendations"

// OpenAIProvider implements CompletionService using the OpenAI chat API.
type OpenAIProvider struct {
	client  *openai.Client
	model   string
	tracker costtracker.CostTracker
}

// NewOpenAIProvider creates an OpenAI completion provider.
func NewOpenAIProvider(apiKey, model string, tracker costtracker.CostTracker) *OpenAIProvider {
	return NewOpenAIProviderWithConfig(openai.DefaultConfig(apiKey), model, tracker)
}

// NewOpenAIProviderWithConfig allows a custom base URL or HTTP client.
func NewOpenAIProviderWithConfig(cfg openai.ClientConfig, model string, tracker costtracker.CostTracker) *OpenAIProvider {
	log.Infof("OpenAI provider initialized with model %s", model)
	return &OpenAIProvider{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		tracker: tracker,
	}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string { return "openai" }

// ModelName returns the specific model identifier.
func (p *OpenAIProvider) ModelName() string { return p.model }

func (p *OpenAIProvider) Complete(ctx context.Context, req recommender.CompletionRequest) (recommender.CompletionResponse, error) {
	if p.client == nil {
		return recommender.CompletionResponse{}, fmt.Errorf("%w: openai client is not initialized", ErrProviderDisabled)
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.SystemInstruction != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.SystemInstruction})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	chatReq := openai.ChatCompletionRequest{
		Model:    p.model,
		Messages: messages,
	}
	switch {
	case req.ResponseSchema != nil:
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   responseSchemaName,
				Schema: req.ResponseSchema,
				Strict: true,
			},
		}
	case req.ResponseFormat == recommender.ResponseFormatJSON:
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return recommender.CompletionResponse{}, fmt.Errorf("OpenAI API error creating chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return recommender.CompletionResponse{}, errors.New("OpenAI API returned no choices")
	}

	out := recommender.CompletionResponse{
		Text:         resp.Choices[0].Message.Content,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}
	recordUsage(ctx, p.tracker, p.Name(), p.model, out.InputTokens, out.OutputTokens)
	return out, nil
}

// Status returns the operational status of the provider.
func (p *OpenAIProvider) Status() store.ProviderStatus {
	if p.client == nil {
		return store.ProviderStatusDisabled
	}
	return store.ProviderStatusActive
}

var _ CompletionService = (*OpenAIProvider)(nil)
