package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/intellidoc/backend/config"
	"github.com/intellidoc/backend/internal/chunker"
	"github.com/intellidoc/backend/internal/embedding"
	"github.com/intellidoc/backend/internal/extractor"
	"github.com/intellidoc/backend/internal/pipeline"
	"github.com/intellidoc/backend/internal/retrieval"
	"github.com/intellidoc/backend/internal/service/chat"
	"github.com/intellidoc/backend/internal/service/document"
	"github.com/intellidoc/backend/internal/store"
	"github.com/intellidoc/backend/internal/summarizer"
	"github.com/intellidoc/backend/internal/vectorstore"
	"github.com/intellidoc/backend/pkg/logger"
	"github.com/intellidoc/backend/pkg/notifier"
	"github.com/intellidoc/backend/pkg/queue"
	"github.com/intellidoc/backend/pkg/storage"
)

// Components holds everything the server and worker share. Both binaries
// bootstrap the same way; they just expose different ends of the queue.
type Components struct {
	Log        logger.Logger
	Redis      *redis.Client
	Docs       store.DocumentStore
	Files      storage.Storage
	Vectors    *vectorstore.QdrantStore
	Embedder   *embedding.Provider
	Summarizer *summarizer.Service
	Engine     *retrieval.Engine
	Queue      *queue.AsynqQueue
	Notifier   *notifier.RedisNotifier

	DocService  document.DocumentManager
	ChatService chat.ChatManager
}

// Bootstrap wires the full component graph from configuration.
func Bootstrap(ctx context.Context, log logger.Logger) (*Components, error) {
	appCfg := config.GetAppConfig()
	redisCfg := config.GetRedisConfig()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Addr,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	files, err := storage.NewStorage(storage.StorageType(appCfg.Storage.Type), log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	embedder, err := newEmbeddingProvider(ctx, log)
	if err != nil {
		return nil, err
	}

	qdrantCfg := config.GetQdrantConfig()
	vectors, err := vectorstore.NewQdrantStore(ctx, vectorstore.QdrantConfig{
		Host:             qdrantCfg.Host,
		Port:             qdrantCfg.Port,
		APIKey:           qdrantCfg.APIKey,
		UseTLS:           qdrantCfg.UseTLS,
		CollectionPrefix: qdrantCfg.CollectionPrefix,
	}, embedder.Dimension(), embedder.Name(), log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vector store: %w", err)
	}

	openaiCfg := config.GetOpenAIConfig()
	summarize := summarizer.New(
		summarizer.NewOpenAIClient(summarizer.OpenAIConfig{
			BaseURL: openaiCfg.BaseURL,
			APIKey:  openaiCfg.APIKey,
			Model:   openaiCfg.ChatModel,
		}),
		summarizer.NewLocalClient(summarizer.LocalConfig{
			Endpoint: config.GetInferenceConfig().Endpoint,
		}),
		log,
	)

	docs := store.NewRedisStore(redisClient)
	engine := retrieval.New(embedder, vectors, log)
	events := notifier.NewRedisNotifier(redisClient, log)

	q := queue.NewAsynqQueue(&queue.Config{
		RedisAddr:     redisCfg.Addr,
		RedisPassword: redisCfg.Password,
		RedisDB:       redisCfg.DB,
		Concurrency:   appCfg.Worker.Concurrency,
	})

	svcCfg := document.DefaultConfig()
	svcCfg.MaxFileSize = int64(appCfg.Upload.MaxFileSizeMB) * 1024 * 1024

	return &Components{
		Log:        log,
		Redis:      redisClient,
		Docs:       docs,
		Files:      files,
		Vectors:    vectors,
		Embedder:   embedder,
		Summarizer: summarize,
		Engine:     engine,
		Queue:      q,
		Notifier:   events,

		DocService:  document.NewService(docs, files, vectors, q, log, svcCfg),
		ChatService: chat.NewService(engine, embedder, vectors, summarize, log),
	}, nil
}

// NewPipeline builds the ingestion pipeline. Only the worker calls this;
// the extractor needs a local tesseract install the API server does not.
func (c *Components) NewPipeline(ctx context.Context) (*pipeline.Pipeline, error) {
	appCfg := config.GetAppConfig()

	extract, err := newExtractor(ctx, appCfg, c.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize extractor: %w", err)
	}

	return pipeline.New(c.Docs, c.Files, extract,
		chunker.New(chunker.DefaultSize, chunker.DefaultOverlap),
		c.Embedder, c.Summarizer, c.Vectors, c.Log), nil
}

// Close releases shared connections.
func (c *Components) Close() {
	if c.Queue != nil {
		c.Queue.Close()
	}
	if c.Vectors != nil {
		c.Vectors.Close()
	}
	if c.Redis != nil {
		c.Redis.Close()
	}
}

func newEmbeddingProvider(ctx context.Context, log logger.Logger) (*embedding.Provider, error) {
	openaiCfg := config.GetOpenAIConfig()
	ollamaCfg := config.GetOllamaConfig()

	candidates := []embedding.Backend{
		embedding.NewOpenAIBackend(embedding.OpenAIConfig{
			BaseURL:   openaiCfg.BaseURL,
			APIKey:    openaiCfg.APIKey,
			Model:     openaiCfg.EmbeddingModel,
			Dimension: openaiCfg.EmbeddingDimension,
		}),
		embedding.NewOllamaBackend(embedding.OllamaConfig{
			Endpoint:  ollamaCfg.Endpoint,
			Model:     ollamaCfg.EmbeddingModel,
			Dimension: ollamaCfg.EmbeddingDimension,
		}),
	}

	provider, err := embedding.NewProvider(ctx, candidates, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedding provider: %w", err)
	}
	return provider, nil
}

func newExtractor(ctx context.Context, appCfg *config.AppConfig, log logger.Logger) (*extractor.Extractor, error) {
	cfg := extractor.Config{
		OCR: extractor.OCRConfig{
			Languages:  appCfg.OCR.Languages,
			Preprocess: appCfg.OCR.Preprocess,
		},
	}

	textractCfg := config.GetTextractConfig()
	if textractCfg.AccessKey != "" && textractCfg.SecretKey != "" {
		cfg.Textract = &extractor.TextractConfig{
			Region:        textractCfg.Region,
			AccessKey:     textractCfg.AccessKey,
			SecretKey:     textractCfg.SecretKey,
			MinConfidence: textractCfg.MinConfidence,
		}
	}

	return extractor.New(ctx, cfg, log)
}
