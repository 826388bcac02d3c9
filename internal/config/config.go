// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"datamask/internal/model"
)

// Environment variable names.
const (
	EnvAzureEndpoint   = "AZURE_OPENAI_ENDPOINT"
	EnvAzureAPIKey     = "AZURE_OPENAI_API_KEY"
	EnvAzureAPIVersion = "AZURE_OPENAI_API_VERSION"
	EnvAzureDeployment = "AZURE_OPENAI_DEPLOYMENT"
	EnvGeminiAPIKey    = "GEMINI_API_KEY"
	EnvGoogleAPIKey    = "GOOGLE_API_KEY"
	EnvBatchSize       = "DATAMASK_BATCH_SIZE"
	EnvMaxRetries      = "DATAMASK_MAX_RETRIES"
	EnvLogLevel        = "DATAMASK_LOG_LEVEL"
)

const defaultAPIVersion = "2024-02-15-preview"

// Config carries the environment-derived settings of one run.
type Config struct {
	Azure        model.AzureOpenAIConfig
	GeminiAPIKey string
	BatchSize    int
	MaxRetries   int
	LogLevel     logrus.Level
}

// Load reads the environment, after loading a .env file when one exists.
// A missing .env is not an error.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Azure: model.AzureOpenAIConfig{
			Endpoint:       os.Getenv(EnvAzureEndpoint),
			APIKey:         os.Getenv(EnvAzureAPIKey),
			APIVersion:     getEnvDefault(EnvAzureAPIVersion, defaultAPIVersion),
			DeploymentName: os.Getenv(EnvAzureDeployment),
		},
		GeminiAPIKey: getGeminiKey(),
		BatchSize:    getEnvInt(EnvBatchSize, model.DefaultBatchSize),
		MaxRetries:   getEnvInt(EnvMaxRetries, model.DefaultMaxRetries),
		LogLevel:     getLogLevel(),
	}
}

// Options translates the config into masking options. The Azure
// subsystem is enabled only when its settings are complete.
func (c Config) Options() model.MaskingOptions {
	return model.MaskingOptions{
		UseAzureOpenAI:    c.Azure.Configured(),
		AzureOpenAIConfig: c.Azure,
		BatchSize:         c.BatchSize,
		MaxRetries:        c.MaxRetries,
	}
}

// getGeminiKey checks GEMINI_API_KEY first, then the GOOGLE_API_KEY
// fallback the genai SDK documents.
func getGeminiKey() string {
	if key := os.Getenv(EnvGeminiAPIKey); key != "" {
		return key
	}
	return os.Getenv(EnvGoogleAPIKey)
}

func getEnvDefault(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getLogLevel() logrus.Level {
	v := os.Getenv(EnvLogLevel)
	if v == "" {
		return logrus.InfoLevel
	}
	level, err := logrus.ParseLevel(v)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
