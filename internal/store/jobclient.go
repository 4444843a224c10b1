package store

import (
	"context"
	"errors"
	"fmt"

	"reelmatch/internal/models"
	"reelmatch/internal/tasks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"
)

// taskEnqueuer is the part of *asynq.Client the job client uses.
type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// AsynqJobClient enqueues tasks on Redis and records them in the JobStore.
type AsynqJobClient struct {
	client   taskEnqueuer
	jobStore JobStore
	queue    string
}

// RedisOptions mirrors the redis section of the config.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

func NewAsynqJobClient(opts RedisOptions, js JobStore, queue string) (*AsynqJobClient, error) {
	if js == nil {
		return nil, errors.New("JobStore cannot be nil for AsynqJobClient")
	}
	if queue == "" {
		queue = tasks.QueueRecommendations
	}
	cli := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return &AsynqJobClient{client: cli, jobStore: js, queue: queue}, nil
}

func (jc *AsynqJobClient) Close() error {
	return jc.client.Close()
}

// Enqueue enqueues a task and records the event to the JobStore. The
// recording is best effort; the task is already on the queue.
func (jc *AsynqJobClient) Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if jc.client == nil {
		return nil, errors.New("AsynqJobClient internal client is not initialized")
	}
	info, err := jc.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		log.WithError(err).Errorf("Failed to enqueue task type '%s'", task.Type())
		return nil, err
	}
	log.Debugf("Enqueued task type '%s' id=%s queue=%s", task.Type(), info.ID, info.Queue)

	jobUUID, err := uuid.Parse(info.ID)
	if err != nil {
		log.Errorf("Failed to parse task ID '%s' to UUID: %v. Job record skipped.", info.ID, err)
		return info, nil
	}
	recordParams := JobRecordParams{
		JobID:    jobUUID,
		TaskType: task.Type(),
		Payload:  task.Payload(),
		Queue:    info.Queue,
		Status:   models.JobStatusEnqueued,
	}
	if err := jc.jobStore.RecordJobEnqueue(ctx, recordParams); err != nil {
		log.Errorf("Failed to record job enqueue event for task %s: %v", info.ID, err)
	}
	return info, nil
}

// EnqueueRecommendationJob queues a background resolution of query. The job
// row is written before the task reaches Redis so a worker never sees a task
// without its row; if enqueueing then fails the row is marked failed.
func (jc *AsynqJobClient) EnqueueRecommendationJob(ctx context.Context, query string) (uuid.UUID, error) {
	if jc.client == nil {
		return uuid.Nil, errors.New("AsynqJobClient internal client is not initialized")
	}
	jobID := uuid.New()
	payload, err := tasks.NewRecommendationPayload(jobID, query)
	if err != nil {
		return uuid.Nil, err
	}

	if err := jc.jobStore.RecordJobEnqueue(ctx, JobRecordParams{
		JobID:    jobID,
		TaskType: tasks.TypeRecommendationJob,
		Payload:  payload,
		Queue:    jc.queue,
		Status:   models.JobStatusEnqueued,
	}); err != nil {
		return uuid.Nil, fmt.Errorf("record recommendation job: %w", err)
	}

	task := asynq.NewTask(tasks.TypeRecommendationJob, payload)
	info, err := jc.client.EnqueueContext(ctx, task, asynq.TaskID(jobID.String()), asynq.Queue(jc.queue))
	if err != nil {
		msg := err.Error()
		if ferr := jc.jobStore.FinishJob(context.WithoutCancel(ctx), jobID, models.JobStatusFailed, nil, &msg); ferr != nil {
			log.WithError(ferr).Errorf("Failed to mark job %s failed after enqueue error", jobID)
		}
		return uuid.Nil, fmt.Errorf("enqueue recommendation job: %w", err)
	}
	log.Debugf("Enqueued task type '%s' id=%s queue=%s", task.Type(), info.ID, info.Queue)
	return jobID, nil
}

var _ JobClient = (*AsynqJobClient)(nil)
