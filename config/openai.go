package config

import (
	"os"
	"sync"
)

var (
	openaiOnce   sync.Once
	openaiConfig *OpenAIConfig
)

type OpenAIConfig struct {
	APIKey             string
	BaseURL            string
	ChatModel          string
	EmbeddingModel     string
	EmbeddingDimension int
}

func GetOpenAIConfig() *OpenAIConfig {
	openaiOnce.Do(func() {
		loadDotEnv()

		openaiConfig = &OpenAIConfig{
			APIKey:             os.Getenv("OPENAI_API_KEY"),
			BaseURL:            getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			ChatModel:          getEnv("OPENAI_CHAT_MODEL", "gpt-3.5-turbo"),
			EmbeddingModel:     getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingDimension: getEnvInt("OPENAI_EMBEDDING_DIMENSION", 1536),
		}
	})
	return openaiConfig
}
