package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/facturaIA/paytext-invoice-service/internal/models"
)

var (
	// ErrUnavailable wraps every AI failure: missing credentials, provider
	// errors, timeouts and unusable responses. Callers fall back to regex results.
	ErrUnavailable = errors.New("ai extraction unavailable")

	// ErrMissingCredentials is returned when a provider has no API key
	ErrMissingCredentials = errors.New("missing AI provider credentials")
)

// Provider sends a prompt to a language model and returns its raw text reply
//
//go:generate mockgen -destination=mocks/mock_provider.go -source=provider.go Provider
type Provider interface {
	ExtractData(ctx context.Context, prompt string) (string, error)
	Name() string
}

// NewProvider creates the provider named in config. An empty model falls back to the configured one.
func NewProvider(cfg models.AIConfig, providerName, modelName string) (Provider, error) {
	if providerName == "" {
		providerName = cfg.DefaultProvider
	}

	switch providerName {
	case "openai":
		model := modelName
		if model == "" {
			model = cfg.OpenAI.Model
		}
		return NewOpenAIProvider(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, model), nil

	case "gemini":
		model := modelName
		if model == "" {
			model = cfg.Gemini.Model
		}
		return NewGeminiProvider(cfg.Gemini.APIKey, model), nil

	case "ollama":
		model := modelName
		if model == "" {
			model = cfg.Ollama.Model
		}
		return NewOllamaProvider(cfg.Ollama.BaseURL, model), nil

	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", providerName)
	}
}
