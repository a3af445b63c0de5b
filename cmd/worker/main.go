package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/intellidoc/backend/config"
	"github.com/intellidoc/backend/internal/app"
	"github.com/intellidoc/backend/pkg/logger"
	"github.com/intellidoc/backend/pkg/worker"
)

func main() {
	cfg := config.GetAppConfig()
	redisCfg := config.GetRedisConfig()

	outputs := []string{"stdout"}
	if cfg.Logging.File != "" {
		outputs = append(outputs, cfg.Logging.File)
	}

	log, err := logger.NewLogger(
		logger.WithLevel(cfg.Logging.Level),
		logger.WithEncoding("json"),
		logger.WithOutputPaths(outputs),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	components, err := app.Bootstrap(ctx, log)
	if err != nil {
		log.Error("Failed to bootstrap", logger.Error(err))
		os.Exit(1)
	}
	defer components.Close()

	pipe, err := components.NewPipeline(ctx)
	if err != nil {
		log.Error("Failed to create pipeline", logger.Error(err))
		os.Exit(1)
	}

	workerCfg := &worker.Config{
		RedisAddr:     redisCfg.Addr,
		RedisPassword: redisCfg.Password,
		RedisDB:       redisCfg.DB,
		Concurrency:   cfg.Worker.Concurrency,
		Queues:        worker.DefaultQueues(),
	}

	ingestWorker := worker.NewIngestWorker(workerCfg, pipe, components.Queue, components.Notifier, log)

	if err := ingestWorker.Start(ctx); err != nil {
		log.Error("Failed to start worker", logger.Error(err))
		os.Exit(1)
	}

	// Periodically drop upload files past their retention period.
	go func() {
		ticker := time.NewTicker(6 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := components.DocService.Cleanup(ctx); err != nil {
					log.Warn("Upload file cleanup failed", logger.Error(err))
				}
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down worker...")
	ingestWorker.Stop()
	log.Info("Worker stopped")
}
