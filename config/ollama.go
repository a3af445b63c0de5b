package config

import "sync"

var (
	ollamaOnce   sync.Once
	ollamaConfig *OllamaConfig
)

type OllamaConfig struct {
	Endpoint           string
	EmbeddingModel     string
	EmbeddingDimension int
}

func GetOllamaConfig() *OllamaConfig {
	ollamaOnce.Do(func() {
		loadDotEnv()

		ollamaConfig = &OllamaConfig{
			Endpoint:           getEnv("OLLAMA_ENDPOINT", "http://localhost:11434"),
			EmbeddingModel:     getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			EmbeddingDimension: getEnvInt("OLLAMA_EMBEDDING_DIMENSION", 768),
		}
	})
	return ollamaConfig
}
