// Package recommender resolves a free-text description of video needs into a
// shortlist of catalog services. It asks an injected text-completion backend
// first and falls back to a deterministic keyword matcher when that fails.
package recommender

import (
	"context"
	"encoding/json"
	"errors"
)

// MaxRecommendations bounds every shortlist.
const MaxRecommendations = 3

// ResponseFormatJSON asks the completion backend for a JSON body.
const ResponseFormatJSON = "json"

// ErrUnavailable is the single failure signal of the AI client. Transport
// errors, empty bodies and malformed or off-schema replies all map to it.
var ErrUnavailable = errors.New("recommendation service unavailable")

// SchemaType names a JSON schema primitive.
type SchemaType string

const (
	TypeObject SchemaType = "object"
	TypeArray  SchemaType = "array"
	TypeString SchemaType = "string"
)

// Schema is a vendor-neutral subset of JSON schema used to constrain replies.
type Schema struct {
	Type        SchemaType         `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// MarshalJSON lets *Schema be handed to SDKs expecting a json.Marshaler.
// Strict JSON-schema modes also need additionalProperties=false on objects.
func (s *Schema) MarshalJSON() ([]byte, error) {
	type plain Schema
	if s.Type != TypeObject {
		return json.Marshal((*plain)(s))
	}
	return json.Marshal(struct {
		*plain
		AdditionalProperties bool `json:"additionalProperties"`
	}{plain: (*plain)(s)})
}

// CompletionRequest is a single structured prompt for a completion backend.
type CompletionRequest struct {
	Prompt            string
	SystemInstruction string
	ResponseFormat    string
	ResponseSchema    *Schema
}

// CompletionResponse carries the raw reply text and token usage if known.
type CompletionResponse struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// Completer is the capability the recommender needs from an AI vendor.
// Any hosted LLM, local model or test double satisfying it is interchangeable.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, req CompletionRequest) (CompletionResponse, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	return f(ctx, req)
}
