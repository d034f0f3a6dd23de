package models

import "time"

// Config represents the service configuration
type Config struct {
	// Server config
	Port int    `yaml:"port"`
	Host string `yaml:"host"`

	Log        LogConfig        `yaml:"log"`
	AI         AIConfig         `yaml:"ai"`
	Storage    StorageConfig    `yaml:"storage"`
	Auth       AuthConfig       `yaml:"auth"`
	Numbering  NumberingConfig  `yaml:"numbering"`
	Extraction ExtractionConfig `yaml:"extraction"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // "json" or "console"
}

// AIConfig represents AI provider configuration
type AIConfig struct {
	// OpenAI
	OpenAI OpenAIConfig `yaml:"openai"`

	// Gemini
	Gemini GeminiConfig `yaml:"gemini"`

	// Ollama (local)
	Ollama OllamaConfig `yaml:"ollama"`

	// Default provider
	DefaultProvider string `yaml:"default_provider"` // "openai", "gemini", "ollama"

	// Hard limit for a single extraction call
	Timeout time.Duration `yaml:"timeout"`
}

// OpenAIConfig for OpenAI or any compatible endpoint
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"` // For custom endpoints
	Model   string `yaml:"model"`              // Default: "gpt-4o-mini"
}

// GeminiConfig for Google Gemini
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // Default: "gemini-1.5-flash"
}

// OllamaConfig for local Ollama
type OllamaConfig struct {
	BaseURL string `yaml:"base_url"` // Default: "http://localhost:11434"
	Model   string `yaml:"model"`    // e.g., "mistral", "llama3"
}

// StorageConfig selects the key-value backend for profile, logo and sequence state
type StorageConfig struct {
	Backend  string         `yaml:"backend"` // "memory", "postgres" or "minio"
	Postgres PostgresConfig `yaml:"postgres"`
	MinIO    MinIOConfig    `yaml:"minio"`
}

// PostgresConfig for the database backend
type PostgresConfig struct {
	URL string `yaml:"url"` // falls back to DB_HOST, DB_USER... when empty
}

// MinIOConfig for the object-store backend
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// AuthConfig for the bearer-token middleware. Empty secret disables auth.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// NumberingConfig for invoice number generation
type NumberingConfig struct {
	Prefix string `yaml:"prefix"` // Default: "INV"
}

// ExtractionConfig tunes the text extractors
type ExtractionConfig struct {
	MaxItemAmount float64 `yaml:"max_item_amount"` // heuristic line-item ceiling
}
