package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"reelmatch/internal/costtracker"
	"reelmatch/internal/store" // ProviderStatus is defined here
	"reelmatch/pkg/recommender"

	"github.com/google/generative-ai-go/genai"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// GeminiProvider implements CompletionService using the Google Gemini API.
type GeminiProvider struct {
	client  *genai.Client
	model   string
	tracker costtracker.CostTracker
}

// NewGeminiProvider creates a Gemini completion provider.
func NewGeminiProvider(ctx context.Context, apiKey, modelName string, tracker costtracker.CostTracker) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key not provided")
	}
	if modelName == "" {
		return nil, errors.New("gemini model name not provided")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	log.Infof("Gemini provider initialized with model %s", modelName)
	return &GeminiProvider{client: client, model: modelName, tracker: tracker}, nil
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string { return "gemini" }

// ModelName returns the specific model identifier.
func (p *GeminiProvider) ModelName() string { return p.model }

// Complete sends one prompt with the system instruction and, when given,
// a response schema that constrains the JSON reply.
func (p *GeminiProvider) Complete(ctx context.Context, req recommender.CompletionRequest) (recommender.CompletionResponse, error) {
	if p.client == nil {
		return recommender.CompletionResponse{}, fmt.Errorf("%w: gemini client is not initialized", ErrProviderDisabled)
	}

	gm := p.client.GenerativeModel(p.model)
	if req.SystemInstruction != "" {
		gm.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.SystemInstruction)}}
	}
	if req.ResponseFormat == recommender.ResponseFormatJSON || req.ResponseSchema != nil {
		gm.ResponseMIMEType = "application/json"
	}
	if req.ResponseSchema != nil {
		gm.ResponseSchema = toGenaiSchema(req.ResponseSchema)
	}

	resp, err := gm.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return recommender.CompletionResponse{}, fmt.Errorf("Gemini API error generating content: %w", err)
	}

	out := recommender.CompletionResponse{Text: geminiText(resp)}
	if resp.UsageMetadata != nil {
		out.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	recordUsage(ctx, p.tracker, p.Name(), p.model, out.InputTokens, out.OutputTokens)
	return out, nil
}

// Status returns the operational status of the provider.
func (p *GeminiProvider) Status() store.ProviderStatus {
	if p.client == nil {
		return store.ProviderStatusDisabled
	}
	return store.ProviderStatusActive
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

// geminiText concatenates the text parts of the first candidate.
func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}

func toGenaiSchema(s *recommender.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Description: s.Description,
		Required:    append([]string(nil), s.Required...),
		Items:       toGenaiSchema(s.Items),
	}
	switch s.Type {
	case recommender.TypeObject:
		out.Type = genai.TypeObject
	case recommender.TypeArray:
		out.Type = genai.TypeArray
	case recommender.TypeString:
		out.Type = genai.TypeString
	default:
		out.Type = genai.TypeUnspecified
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}

var _ CompletionService = (*GeminiProvider)(nil)
