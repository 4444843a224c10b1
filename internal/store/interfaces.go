package store

import (
	"context"
	"encoding/json"

	"reelmatch/internal/models"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// --- Provider Status (Defined here to break import cycle) ---

type ProviderStatus int

const (
	ProviderStatusUnknown  ProviderStatus = iota // Default zero value
	ProviderStatusActive                         // Provider is operational
	ProviderStatusInactive                       // Provider is temporarily unavailable (e.g., breaker open)
	ProviderStatusDisabled                       // Provider is not configured or explicitly disabled
)

func (s ProviderStatus) String() string {
	switch s {
	case ProviderStatusActive:
		return "active"
	case ProviderStatusInactive:
		return "inactive"
	case ProviderStatusDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// --- Job Client ---

type JobClient interface {
	Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	EnqueueRecommendationJob(ctx context.Context, query string) (uuid.UUID, error)
	Close() error
}

// --- Saved Recommendation Store ---

type SavedStore interface {
	// SaveRecommendation inserts rec unless its service is already saved in
	// the namespace; existed reports that case and rec is filled from the
	// stored row.
	SaveRecommendation(ctx context.Context, rec *models.SavedRecommendation) (existed bool, err error)
	ListSaved(ctx context.Context, namespace string) ([]*models.SavedRecommendation, error)
	DeleteSaved(ctx context.Context, namespace, serviceID string) error
}

// --- Query History Store ---

type QueryHistoryStore interface {
	RecordQuery(ctx context.Context, q *models.RecommendationQuery) error
	ListQueries(ctx context.Context, limit int) ([]*models.RecommendationQuery, error)
}

// --- Job Store ---

// JobRecordParams holds parameters for recording a job event.
type JobRecordParams struct {
	JobID    uuid.UUID
	TaskType string
	Payload  []byte
	Queue    string
	Status   string
}

type JobStore interface {
	RecordJobEnqueue(ctx context.Context, params JobRecordParams) error
	UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status string) error
	// FinishJob stores the terminal status together with a result or error.
	FinishJob(ctx context.Context, jobID uuid.UUID, status string, result json.RawMessage, errMsg *string) error
	GetJob(ctx context.Context, jobID uuid.UUID) (*models.BackgroundJob, error)
}

// --- Cost Tracking Store ---

type CostTrackingStore interface {
	RecordUsage(ctx context.Context, log *models.AIUsageLog) error
	ListUsage(ctx context.Context, limit, offset int) ([]*models.AIUsageLog, error)
	GetUsageSummary(ctx context.Context) (totalCost float64, totalInputTokens, totalOutputTokens int64, err error)
}

// Store is everything the application persists. Both the PostgreSQL and
// the SQLite backends implement it.
type Store interface {
	SavedStore
	QueryHistoryStore
	JobStore
	CostTrackingStore

	Ping(ctx context.Context) error
	Close() error
}
