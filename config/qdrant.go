package config

import (
	"os"
	"sync"
)

var (
	qdrantOnce   sync.Once
	qdrantConfig *QdrantConfig
)

type QdrantConfig struct {
	Host             string
	Port             int
	APIKey           string
	UseTLS           bool
	CollectionPrefix string
}

func GetQdrantConfig() *QdrantConfig {
	qdrantOnce.Do(func() {
		loadDotEnv()

		qdrantConfig = &QdrantConfig{
			Host:             getEnv("QDRANT_HOST", "localhost"),
			Port:             getEnvInt("QDRANT_PORT", 6334),
			APIKey:           os.Getenv("QDRANT_API_KEY"),
			UseTLS:           getEnvBool("QDRANT_USE_TLS", false),
			CollectionPrefix: os.Getenv("QDRANT_COLLECTION_PREFIX"),
		}
	})
	return qdrantConfig
}
