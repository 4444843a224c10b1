package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"reelmatch/internal/costtracker"
	"reelmatch/internal/models"
	"reelmatch/internal/store"
	"reelmatch/internal/tasks"
	"reelmatch/pkg/recommender"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"
)

// Resolver is the slice of services.RecommendationService the worker needs.
type Resolver interface {
	Recommend(ctx context.Context, rawQuery string) (recommender.Resolution, error)
}

// RecommendationDeps holds dependencies for the recommendation handler.
type RecommendationDeps struct {
	Resolver Resolver
	JobStore store.JobStore
}

// RegisterHandlers wires every task type onto mux.
func RegisterHandlers(mux *asynq.ServeMux, deps RecommendationDeps) {
	log.Infof("Registering %s handler", tasks.TypeRecommendationJob)
	mux.HandleFunc(tasks.TypeRecommendationJob, HandleRecommendationJob(deps))
}

// HandleRecommendationJob resolves the queued query and stores the outcome
// on the job record: running, then completed or failed.
func HandleRecommendationJob(deps RecommendationDeps) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, t *asynq.Task) error {
		payload, err := tasks.ParseRecommendationPayload(t.Payload())
		if err != nil {
			if id, ok := taskJobID(ctx, uuid.Nil); ok {
				markFailed(ctx, deps.JobStore, id, err)
			}
			// Malformed payloads never succeed on retry.
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}
		jobID, hasID := taskJobID(ctx, payload.JobID)
		logger := log.WithFields(log.Fields{"task_type": t.Type(), "job_id": jobID})

		if hasID {
			ctx = costtracker.WithJobID(ctx, jobID)
			if err := deps.JobStore.UpdateJobStatus(ctx, jobID, models.JobStatusRunning); err != nil {
				logger.WithError(err).Warn("Failed to mark job running")
			}
		}

		res, err := deps.Resolver.Recommend(ctx, payload.Query)
		if err != nil {
			if hasID {
				markFailed(ctx, deps.JobStore, jobID, err)
			}
			return fmt.Errorf("resolve recommendation: %w", err)
		}

		body, err := json.Marshal(res)
		if err != nil {
			return fmt.Errorf("encode resolution: %w", err)
		}
		if hasID {
			if err := deps.JobStore.FinishJob(ctx, jobID, models.JobStatusCompleted, body, nil); err != nil {
				return fmt.Errorf("store job result: %w", err)
			}
		}
		if w := t.ResultWriter(); w != nil {
			if _, err := w.Write(body); err != nil {
				logger.WithError(err).Warn("Failed to write task result")
			}
		}
		logger.Infof("Resolved recommendation job (source=%s, items=%d)", res.Source, res.Result.Len())
		return nil
	}
}

// taskJobID prefers the id carried in the payload and falls back to the
// asynq task id, which the job client sets to the same value.
func taskJobID(ctx context.Context, fromPayload uuid.UUID) (uuid.UUID, bool) {
	if fromPayload != uuid.Nil {
		return fromPayload, true
	}
	raw, ok := asynq.GetTaskID(ctx)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func markFailed(ctx context.Context, js store.JobStore, jobID uuid.UUID, cause error) {
	msg := cause.Error()
	// The task context may already be done; the record must still be written.
	if err := js.FinishJob(context.WithoutCancel(ctx), jobID, models.JobStatusFailed, nil, &msg); err != nil {
		log.WithError(err).WithField("job_id", jobID).Error("Failed to mark job failed")
	}
}
