package config

import (
	"os"
	"sync"
)

var (
	inferenceOnce   sync.Once
	inferenceConfig *InferenceConfig
)

// InferenceConfig points at the local model inference sidecar. An empty
// endpoint disables the local summarization/QA backends.
type InferenceConfig struct {
	Endpoint string
}

func GetInferenceConfig() *InferenceConfig {
	inferenceOnce.Do(func() {
		loadDotEnv()

		inferenceConfig = &InferenceConfig{
			Endpoint: os.Getenv("INFERENCE_ENDPOINT"),
		}
	})
	return inferenceConfig
}
