package ai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultOpenAIModel = "gpt-4o-mini"
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama3"
)

const systemPrompt = "You extract invoice data from payment messages and reply with a single JSON object only."

// OpenAIProvider talks to OpenAI or any server exposing the same chat API
type OpenAIProvider struct {
	client *openai.Client
	model  string
	name   string
	apiKey string
	keyed  bool // whether an API key is required
}

// NewOpenAIProvider creates a provider for OpenAI or a compatible base URL
func NewOpenAIProvider(apiKey, baseURL, model string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		name:   "openai",
		apiKey: apiKey,
		keyed:  true,
	}
}

// NewOllamaProvider creates a provider for a local Ollama server through its OpenAI-compatible endpoint
func NewOllamaProvider(baseURL, model string) *OpenAIProvider {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	if model == "" {
		model = defaultOllamaModel
	}
	cfg := openai.DefaultConfig("ollama")
	cfg.BaseURL = strings.TrimRight(baseURL, "/") + "/v1"
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		name:   "ollama",
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return p.name
}

// ExtractData sends the prompt as a single chat completion
func (p *OpenAIProvider) ExtractData(ctx context.Context, prompt string) (string, error) {
	if p.keyed && strings.TrimSpace(p.apiKey) == "" {
		return "", ErrMissingCredentials
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%s chat completion: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s returned no choices", p.name)
	}
	return resp.Choices[0].Message.Content, nil
}
