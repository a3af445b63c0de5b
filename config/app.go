package config

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	appOnce   sync.Once
	appConfig *AppConfig
)

// AppConfig is the deployment-level configuration read from config.yaml at
// the project root. Secrets stay in the environment; this file carries only
// tuning knobs.
type AppConfig struct {
	Server struct {
		Port         int      `yaml:"port"`
		AllowOrigins []string `yaml:"allow_origins"`
	} `yaml:"server"`

	Worker struct {
		Concurrency int `yaml:"concurrency"`
	} `yaml:"worker"`

	Storage struct {
		Type string `yaml:"type"` // "minio" or "s3"
	} `yaml:"storage"`

	OCR struct {
		Languages  []string `yaml:"languages"`
		Preprocess bool     `yaml:"preprocess"`
	} `yaml:"ocr"`

	Upload struct {
		MaxFileSizeMB int `yaml:"max_file_size_mb"`
	} `yaml:"upload"`

	Logging struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"logging"`
}

func defaultAppConfig() *AppConfig {
	cfg := &AppConfig{}
	cfg.Server.Port = 8080
	cfg.Server.AllowOrigins = []string{"*"}
	cfg.Worker.Concurrency = 5
	cfg.Storage.Type = "minio"
	cfg.OCR.Languages = []string{"eng"}
	cfg.OCR.Preprocess = true
	cfg.Upload.MaxFileSizeMB = 50
	cfg.Logging.Level = "info"
	return cfg
}

func GetAppConfig() *AppConfig {
	appOnce.Do(func() {
		appConfig = defaultAppConfig()

		_, filename, _, _ := runtime.Caller(0)
		rootDir := filepath.Dir(filepath.Dir(filename))
		path := filepath.Join(rootDir, "config.yaml")

		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Warning: config.yaml not found at %s, using defaults", path)
			return
		}
		if err := yaml.Unmarshal(data, appConfig); err != nil {
			log.Printf("Warning: failed to parse config.yaml: %v, using defaults", err)
			appConfig = defaultAppConfig()
		}
	})
	return appConfig
}
