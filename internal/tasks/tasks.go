package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Defines constants for task types used in Asynq.

const (
	// TypeRecommendationJob resolves a query in the background.
	TypeRecommendationJob = "recommendation:resolve"

	// QueueRecommendations is the default queue for recommendation jobs.
	QueueRecommendations = "recommendations"
)

// RecommendationPayload is the JSON body of a TypeRecommendationJob task.
type RecommendationPayload struct {
	JobID uuid.UUID `json:"job_id"`
	Query string    `json:"query"`
}

// NewRecommendationPayload encodes the task payload.
func NewRecommendationPayload(jobID uuid.UUID, query string) ([]byte, error) {
	b, err := json.Marshal(RecommendationPayload{JobID: jobID, Query: query})
	if err != nil {
		return nil, fmt.Errorf("encode recommendation payload: %w", err)
	}
	return b, nil
}

// ParseRecommendationPayload decodes the task payload.
func ParseRecommendationPayload(data []byte) (RecommendationPayload, error) {
	var p RecommendationPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("decode recommendation payload: %w", err)
	}
	return p, nil
}
