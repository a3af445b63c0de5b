package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// TaskTypeDocumentIngest is the asynq task type for document ingestion.
const TaskTypeDocumentIngest = "document:ingest"

// Job states persisted in redis.
const (
	JobPending   = "pending"
	JobRunning   = "running"
	JobCompleted = "completed"
	JobFailed    = "failed"
)

// ErrDuplicate is returned when an ingestion job for the same document is
// already pending or running. One job per document at a time.
var ErrDuplicate = errors.New("ingestion already in progress for document")

// IngestTask is the payload of one ingestion job.
type IngestTask struct {
	DocumentID string    `json:"documentId"`
	OwnerID    string    `json:"ownerId"`
	Priority   int       `json:"priority"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
}

// JobStatus is the persisted state of an ingestion job.
type JobStatus struct {
	DocumentID string    `json:"documentId"`
	Status     string    `json:"status"`
	Progress   float64   `json:"progress"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"startedAt,omitempty"`
	FinishedAt time.Time `json:"finishedAt,omitempty"`
}

// Queue enqueues ingestion jobs and tracks their status.
type Queue interface {
	Enqueue(ctx context.Context, task *IngestTask) error
	Status(ctx context.Context, documentID string) (*JobStatus, error)
	SaveStatus(ctx context.Context, status *JobStatus) error
}

// Config tunes the queue and its worker pool.
type Config struct {
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	Concurrency    int
	ProcessTimeout time.Duration
	StatusTTL      time.Duration
}

// AsynqQueue implements Queue on asynq with job status in redis.
type AsynqQueue struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	redis     *redis.Client
	config    *Config
}

// NewAsynqQueue creates the queue.
func NewAsynqQueue(cfg *Config) *AsynqQueue {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	if cfg.ProcessTimeout == 0 {
		cfg.ProcessTimeout = 30 * time.Minute
	}
	if cfg.StatusTTL == 0 {
		cfg.StatusTTL = 24 * time.Hour
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	return &AsynqQueue{
		client:    asynq.NewClient(redisOpt),
		inspector: asynq.NewInspector(redisOpt),
		redis: redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}),
		config: cfg,
	}
}

// RedisOpt exposes the connection options for the worker server.
func (q *AsynqQueue) RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     q.config.RedisAddr,
		Password: q.config.RedisPassword,
		DB:       q.config.RedisDB,
	}
}

// Close releases the asynq client.
func (q *AsynqQueue) Close() error {
	return q.client.Close()
}

// Enqueue submits one ingestion job. The asynq task ID is the document ID,
// so a second enqueue while the first is pending or running is rejected
// with ErrDuplicate.
func (q *AsynqQueue) Enqueue(ctx context.Context, task *IngestTask) error {
	task.EnqueuedAt = time.Now().UTC()

	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	opts := []asynq.Option{
		asynq.TaskID(task.DocumentID),
		asynq.MaxRetry(0),
		asynq.Timeout(q.config.ProcessTimeout),
	}

	switch task.Priority {
	case 1:
		opts = append(opts, asynq.Queue("critical"))
	case 2:
		opts = append(opts, asynq.Queue("default"))
	default:
		opts = append(opts, asynq.Queue("low"))
	}

	t := asynq.NewTask(TaskTypeDocumentIngest, payload, opts...)
	if _, err := q.client.EnqueueContext(ctx, t); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	return q.SaveStatus(ctx, &JobStatus{
		DocumentID: task.DocumentID,
		Status:     JobPending,
	})
}

func statusKey(documentID string) string {
	return "job_status:" + documentID
}

// Status loads the persisted job status, falling back to the asynq
// inspector when the worker has not written one yet.
func (q *AsynqQueue) Status(ctx context.Context, documentID string) (*JobStatus, error) {
	data, err := q.redis.Get(ctx, statusKey(documentID)).Bytes()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get status from redis: %w", err)
	}

	if err == nil {
		var status JobStatus
		if err := json.Unmarshal(data, &status); err != nil {
			return nil, fmt.Errorf("failed to unmarshal status: %w", err)
		}
		return &status, nil
	}

	queues := []string{"critical", "default", "low"}
	var info *asynq.TaskInfo
	var lastErr error
	for _, queueName := range queues {
		info, err = q.inspector.GetTaskInfo(queueName, documentID)
		if err == nil {
			break
		}
		lastErr = err
	}
	if info == nil {
		return nil, fmt.Errorf("job not found: %w", lastErr)
	}

	return convertTaskInfo(info), nil
}

// SaveStatus persists the job status with a TTL.
func (q *AsynqQueue) SaveStatus(ctx context.Context, status *JobStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	if err := q.redis.Set(ctx, statusKey(status.DocumentID), data, q.config.StatusTTL).Err(); err != nil {
		return fmt.Errorf("failed to save status: %w", err)
	}
	return nil
}

func convertTaskInfo(info *asynq.TaskInfo) *JobStatus {
	status := &JobStatus{DocumentID: info.ID}

	switch info.State {
	case asynq.TaskStatePending, asynq.TaskStateScheduled:
		status.Status = JobPending
	case asynq.TaskStateActive:
		status.Status = JobRunning
		status.Progress = 0.5
	case asynq.TaskStateCompleted:
		status.Status = JobCompleted
		status.Progress = 1.0
		status.FinishedAt = info.CompletedAt
	default:
		status.Status = JobFailed
		status.Error = info.LastErr
	}

	return status
}
