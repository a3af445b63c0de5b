package worker

import (
	"context"
	"sync"

	"github.com/hibiken/asynq"

	"github.com/intellidoc/backend/pkg/logger"
)

// Worker consumes jobs from the queue until stopped.
type Worker interface {
	Start(ctx context.Context) error
	Stop() error
}

// Config tunes the asynq worker pool. Queue weights follow the enqueue-side
// priorities.
type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Concurrency   int
	Queues        map[string]int
}

// DefaultQueues is the standard priority weighting.
func DefaultQueues() map[string]int {
	return map[string]int{
		"critical": 6,
		"default":  3,
		"low":      1,
	}
}

type BaseWorker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	logger   logger.Logger
	stopChan chan struct{}
	stopOnce sync.Once
}

// Stop shuts the pool down. Safe to call more than once.
func (w *BaseWorker) Stop() error {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.server.Stop()
		w.server.Shutdown()
	})
	return nil
}
