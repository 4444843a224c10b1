package recommender

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"reelmatch/internal/models"
)

// Client delegates semantic matching to a Completer.
type Client struct {
	completer         Completer
	systemInstruction string
	schema            *Schema
}

// NewClient builds a client whose system instruction embeds every service.
// template may be empty to use DefaultSystemTemplate.
func NewClient(completer Completer, services []models.ServiceRecord, template string) *Client {
	return &Client{
		completer:         completer,
		systemInstruction: BuildSystemInstruction(template, services),
		schema:            ResponseSchema(),
	}
}

// SystemInstruction returns the instruction sent with every request.
func (c *Client) SystemInstruction() string { return c.systemInstruction }

// Recommend makes exactly one attempt. It returns either a structurally valid
// result or an error wrapping ErrUnavailable, never a partial result.
func (c *Client) Recommend(ctx context.Context, query string) (models.RecommendationResult, error) {
	if c == nil || c.completer == nil {
		return models.RecommendationResult{}, fmt.Errorf("%w: no completion backend configured", ErrUnavailable)
	}

	resp, err := c.completer.Complete(ctx, CompletionRequest{
		Prompt:            query,
		SystemInstruction: c.systemInstruction,
		ResponseFormat:    ResponseFormatJSON,
		ResponseSchema:    c.schema,
	})
	if err != nil {
		return models.RecommendationResult{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	result, err := ParseResponse(resp.Text)
	if err != nil {
		return models.RecommendationResult{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return result, nil
}

var (
	errEmptyResponse = errors.New("empty response body")

	openingFence = regexp.MustCompile("^```[A-Za-z0-9_+-]*\\s*")
	closingFence = regexp.MustCompile("\\s*```$")
)

// StripCodeFence trims text and removes a surrounding markdown code fence,
// with or without a language tag.
func StripCodeFence(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = openingFence.ReplaceAllString(t, "")
	t = closingFence.ReplaceAllString(t, "")
	return strings.TrimSpace(t)
}

type wireItem struct {
	ServiceID       *string   `json:"serviceId"`
	Reason          *string   `json:"reason"`
	MatchedKeywords *[]string `json:"matchedKeywords"`
}

type wireResult struct {
	Recommendations *[]wireItem `json:"recommendations"`
}

// ParseResponse decodes an untrusted reply body into a result. Every item must
// carry serviceId, reason and matchedKeywords, and at most
// MaxRecommendations items are accepted.
func ParseResponse(text string) (models.RecommendationResult, error) {
	body := StripCodeFence(text)
	if body == "" {
		return models.RecommendationResult{}, errEmptyResponse
	}

	var wire wireResult
	if err := json.Unmarshal([]byte(body), &wire); err != nil {
		return models.RecommendationResult{}, fmt.Errorf("failed to parse response as JSON: %w", err)
	}
	if wire.Recommendations == nil {
		return models.RecommendationResult{}, errors.New("response is missing the recommendations array")
	}
	if n := len(*wire.Recommendations); n > MaxRecommendations {
		return models.RecommendationResult{}, fmt.Errorf("response has %d recommendations, at most %d allowed", n, MaxRecommendations)
	}

	items := make([]models.RecommendationItem, 0, len(*wire.Recommendations))
	for i, w := range *wire.Recommendations {
		switch {
		case w.ServiceID == nil:
			return models.RecommendationResult{}, fmt.Errorf("recommendation %d is missing serviceId", i)
		case w.Reason == nil:
			return models.RecommendationResult{}, fmt.Errorf("recommendation %d is missing reason", i)
		case w.MatchedKeywords == nil:
			return models.RecommendationResult{}, fmt.Errorf("recommendation %d is missing matchedKeywords", i)
		}
		items = append(items, models.RecommendationItem{
			ServiceID:       *w.ServiceID,
			Reason:          *w.Reason,
			MatchedKeywords: *w.MatchedKeywords,
		})
	}
	return models.RecommendationResult{Recommendations: items}, nil
}
