package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/intellidoc/backend/pkg/logger"
	"github.com/intellidoc/backend/pkg/notifier"
	"github.com/intellidoc/backend/pkg/queue"
)

// Ingestor runs the ingestion pipeline for one document.
type Ingestor interface {
	Process(ctx context.Context, documentID string) error
}

// IngestWorker is the bounded worker pool consuming ingestion jobs. Pool
// size and queue weights come from Config; documents never spawn loose
// goroutines.
type IngestWorker struct {
	BaseWorker
	ingestor Ingestor
	queue    queue.Queue
	notifier notifier.Notifier
}

// NewIngestWorker creates the worker pool.
func NewIngestWorker(cfg *Config, ingestor Ingestor, q queue.Queue, n notifier.Notifier, log logger.Logger) *IngestWorker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	if cfg.Queues == nil {
		cfg.Queues = DefaultQueues()
	}

	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB},
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues:      cfg.Queues,
		},
	)

	w := &IngestWorker{
		BaseWorker: BaseWorker{
			server:   server,
			mux:      asynq.NewServeMux(),
			logger:   log,
			stopChan: make(chan struct{}),
		},
		ingestor: ingestor,
		queue:    q,
		notifier: n,
	}

	w.mux.HandleFunc(queue.TaskTypeDocumentIngest, w.handleIngest)
	return w
}

func (w *IngestWorker) handleIngest(ctx context.Context, t *asynq.Task) error {
	var task queue.IngestTask
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		w.logger.Error("Failed to unmarshal ingest task",
			logger.Error(err),
			logger.String("payload", string(t.Payload())),
		)
		return fmt.Errorf("failed to unmarshal task: %w", err)
	}
	if task.DocumentID == "" {
		return fmt.Errorf("invalid task: missing document id")
	}

	w.logger.Info("Processing ingestion job",
		logger.String("document_id", task.DocumentID),
		logger.String("owner_id", task.OwnerID),
	)

	started := time.Now().UTC()
	w.saveStatus(ctx, &queue.JobStatus{
		DocumentID: task.DocumentID,
		Status:     queue.JobRunning,
		Progress:   0.1,
		StartedAt:  started,
	})
	w.push(ctx, task.OwnerID, notifier.EventProcessingStarted, map[string]any{
		"documentId": task.DocumentID,
	})

	err := w.ingestor.Process(ctx, task.DocumentID)
	finished := time.Now().UTC()

	if err != nil {
		w.saveStatus(ctx, &queue.JobStatus{
			DocumentID: task.DocumentID,
			Status:     queue.JobFailed,
			Error:      err.Error(),
			StartedAt:  started,
			FinishedAt: finished,
		})
		w.push(ctx, task.OwnerID, notifier.EventProcessingError, map[string]any{
			"documentId": task.DocumentID,
			"error":      err.Error(),
		})
		w.push(ctx, task.OwnerID, notifier.EventStatusUpdated, map[string]any{
			"documentId": task.DocumentID,
			"status":     queue.JobFailed,
		})
		return err
	}

	w.saveStatus(ctx, &queue.JobStatus{
		DocumentID: task.DocumentID,
		Status:     queue.JobCompleted,
		Progress:   1.0,
		StartedAt:  started,
		FinishedAt: finished,
	})
	w.push(ctx, task.OwnerID, notifier.EventProcessingComplete, map[string]any{
		"documentId": task.DocumentID,
	})
	w.push(ctx, task.OwnerID, notifier.EventStatusUpdated, map[string]any{
		"documentId": task.DocumentID,
		"status":     queue.JobCompleted,
	})

	return nil
}

// saveStatus persists job progress; a status write failure never fails the
// job itself.
func (w *IngestWorker) saveStatus(ctx context.Context, status *queue.JobStatus) {
	if err := w.queue.SaveStatus(ctx, status); err != nil {
		w.logger.Warn("Failed to save job status",
			logger.String("document_id", status.DocumentID),
			logger.Error(err),
		)
	}
}

// push delivers a notification best-effort.
func (w *IngestWorker) push(ctx context.Context, ownerID, eventType string, payload map[string]any) {
	if w.notifier == nil {
		return
	}
	if err := w.notifier.Push(ctx, ownerID, eventType, payload); err != nil {
		w.logger.Warn("Failed to push notification",
			logger.String("owner_id", ownerID),
			logger.String("event_type", eventType),
			logger.Error(err),
		)
	}
}

func (w *IngestWorker) Start(ctx context.Context) error {
	go func() {
		if err := w.server.Run(w.mux); err != nil {
			w.logger.Error("Worker server stopped", logger.Error(err))
		}
	}()

	go func() {
		select {
		case <-ctx.Done():
			w.Stop()
		case <-w.stopChan:
		}
	}()

	return nil
}
