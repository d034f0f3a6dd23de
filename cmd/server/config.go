package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/facturaIA/paytext-invoice-service/internal/ai"
	"github.com/facturaIA/paytext-invoice-service/internal/models"
	"github.com/facturaIA/paytext-invoice-service/internal/numbering"
	"github.com/facturaIA/paytext-invoice-service/internal/storage"
)

// loadConfig reads the YAML file, applies environment overrides and fills
// defaults. A missing file is not an error.
func loadConfig(path string) (*models.Config, error) {
	var config models.Config

	// Read config file
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		// Parse YAML
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := applyEnv(&config); err != nil {
		return nil, err
	}
	applyDefaults(&config)
	return &config, nil
}

// applyEnv overrides the file with environment variables if present
func applyEnv(config *models.Config) error {
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		config.Port = p
	}
	if host := os.Getenv("HOST"); host != "" {
		config.Host = host
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Log.Level = level
	}

	// AI
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.AI.OpenAI.APIKey = apiKey
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.AI.OpenAI.BaseURL = baseURL
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		config.AI.OpenAI.Model = model
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.AI.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		config.AI.Gemini.Model = model
	}
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		config.AI.Ollama.BaseURL = baseURL
	}
	if provider := os.Getenv("AI_PROVIDER"); provider != "" {
		config.AI.DefaultProvider = provider
	}
	if timeout := os.Getenv("AI_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid AI_TIMEOUT %q: %w", timeout, err)
		}
		config.AI.Timeout = d
	}

	// Storage
	if backend := os.Getenv("STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = backend
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		config.Storage.Postgres.URL = url
	}
	if endpoint := os.Getenv("MINIO_ENDPOINT"); endpoint != "" {
		config.Storage.MinIO.Endpoint = endpoint
	}
	if accessKey := os.Getenv("MINIO_ACCESS_KEY"); accessKey != "" {
		config.Storage.MinIO.AccessKey = accessKey
	}
	if secretKey := os.Getenv("MINIO_SECRET_KEY"); secretKey != "" {
		config.Storage.MinIO.SecretKey = secretKey
	}
	if bucket := os.Getenv("MINIO_BUCKET"); bucket != "" {
		config.Storage.MinIO.Bucket = bucket
	}
	if useSSL := os.Getenv("MINIO_USE_SSL"); useSSL != "" {
		config.Storage.MinIO.UseSSL = useSSL == "true"
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.Auth.JWTSecret = secret
	}
	if prefix := os.Getenv("INVOICE_PREFIX"); prefix != "" {
		config.Numbering.Prefix = prefix
	}
	return nil
}

func applyDefaults(config *models.Config) {
	if config.Port == 0 {
		config.Port = 8080
	}
	if config.Host == "" {
		config.Host = "0.0.0.0"
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Storage.Backend == "" {
		config.Storage.Backend = storage.BackendMemory
	}
	if config.Numbering.Prefix == "" {
		config.Numbering.Prefix = numbering.DefaultPrefix
	}
	config.AI.Timeout = ai.ClampTimeout(config.AI.Timeout)
}
