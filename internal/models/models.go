package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ServiceRecord is one offerable video service in the catalog.
type ServiceRecord struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	SubCategory    string `json:"subCategory,omitempty"`
	IconToken      string `json:"iconToken"`
	SampleMediaRef string `json:"sampleMediaRef"`
}

// RecommendationItem links a catalog service to the reason it was picked.
type RecommendationItem struct {
	ServiceID       string   `json:"serviceId"`
	Reason          string   `json:"reason"`
	MatchedKeywords []string `json:"matchedKeywords"`
}

// RecommendationResult is the shortlist produced for a single query (0-3 items).
type RecommendationResult struct {
	Recommendations []RecommendationItem `json:"recommendations"`
}

// Len returns the number of recommendations in the result.
func (r RecommendationResult) Len() int { return len(r.Recommendations) }

// ServiceIDs returns the recommended service ids in order.
func (r RecommendationResult) ServiceIDs() []string {
	ids := make([]string, 0, len(r.Recommendations))
	for _, rec := range r.Recommendations {
		ids = append(ids, rec.ServiceID)
	}
	return ids
}

// SavedRecommendation is a bookmarked service, unique per namespace and service id.
type SavedRecommendation struct {
	ID        int64     `db:"id" json:"id"`
	Namespace string    `db:"namespace" json:"namespace"`
	ServiceID string    `db:"service_id" json:"serviceId"`
	Reason    string    `db:"reason" json:"reason"`
	SavedAt   time.Time `db:"saved_at" json:"savedAt"`
}

// RecommendationQuery is one entry of the query history.
type RecommendationQuery struct {
	ID           int64     `db:"id" json:"id"`
	Query        string    `db:"query" json:"query"`
	Source       string    `db:"source" json:"source"` // "ai" or "fallback"
	ResultsCount int       `db:"results_count" json:"resultsCount"`
	ServiceIDs   []string  `db:"service_ids" json:"serviceIds"`
	ExecutedAt   time.Time `db:"executed_at" json:"executedAt"`
}

// AIUsageLog represents a record of AI API usage for cost tracking.
type AIUsageLog struct {
	ID           int64      `db:"id" json:"id"`
	Timestamp    time.Time  `db:"timestamp" json:"timestamp"`
	ProviderName string     `db:"provider_name" json:"providerName"`
	ServiceType  string     `db:"service_type" json:"serviceType"` // e.g., "recommendation"
	ModelName    string     `db:"model_name" json:"modelName"`
	InputTokens  int        `db:"input_tokens" json:"inputTokens"`
	OutputTokens int        `db:"output_tokens" json:"outputTokens"`
	Cost         float64    `db:"cost" json:"cost"`
	RelatedJobID *uuid.UUID `db:"related_job_id" json:"relatedJobId,omitempty"` // nullable
}

// BackgroundJob tracks an asynchronous recommendation task.
type BackgroundJob struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	TaskType  string          `db:"task_type" json:"taskType"`
	Payload   json.RawMessage `db:"payload" json:"payload"`
	Queue     string          `db:"queue" json:"queue"`
	Status    string          `db:"status" json:"status"`
	Result    json.RawMessage `db:"result" json:"result,omitempty"`
	Error     *string         `db:"error" json:"error,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
}
