// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm generates text through one of two backends: a local Ollama
// instance or the Anthropic Messages API. The backend is chosen once at
// construction, not per call; transport failures propagate to the caller
// unretried.
package llm

import (
	"context"
	"net/http"
	"time"

	"github.com/pdiddy/post-engine/pkg/types"
)

// Backend generates text from a prompt. Implementations are safe for
// concurrent use.
type Backend interface {
	Name() string
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// keyPlaceholder is the unconfigured-sample value some .env files ship with;
// it does not count as a configured key.
const keyPlaceholder = "your_anthropic_api_key_here"

// New selects the generation backend. Anthropic is an optional remote
// backup: it is used only when an API key is actually configured, otherwise
// generation goes to the local Ollama instance.
func New(cfg types.GeneratorConfig) Backend {
	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.Timeout <= 0 {
		client.Timeout = 120 * time.Second
	}

	if cfg.AnthropicAPIKey != "" && cfg.AnthropicAPIKey != keyPlaceholder {
		model := cfg.AnthropicModel
		if model == "" {
			model = "claude-3-5-sonnet-20241022"
		}
		return &AnthropicBackend{
			APIKey:      cfg.AnthropicAPIKey,
			Model:       model,
			Temperature: temperature(cfg),
			Client:      client,
		}
	}

	return &OllamaBackend{
		ChatURL:     cfg.OllamaChatURL,
		Model:       cfg.OllamaModel,
		Temperature: temperature(cfg),
		Client:      client,
	}
}

func temperature(cfg types.GeneratorConfig) float64 {
	if cfg.Temperature <= 0 {
		return 0.7
	}
	return cfg.Temperature
}
