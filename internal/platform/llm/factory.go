// Package llm selects the generation backend for the configured provider.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/pocket-doctor/internal/config"
	"github.com/phrazzld/pocket-doctor/internal/generation"
	"github.com/phrazzld/pocket-doctor/internal/platform/anthropic"
	"github.com/phrazzld/pocket-doctor/internal/platform/gemini"
	"github.com/phrazzld/pocket-doctor/internal/platform/openai"
)

// NewBackend returns the backend for cfg.Provider.
func NewBackend(ctx context.Context, log *slog.Logger, cfg config.LLMConfig) (generation.Backend, error) {
	var (
		backend generation.Backend
		err     error
	)

	switch strings.ToLower(cfg.Provider) {
	case config.ProviderGemini:
		backend, err = gemini.NewBackend(ctx, log, cfg)

	case config.ProviderOpenAI:
		backend, err = openai.NewBackend(log, cfg)

	case config.ProviderClaude:
		backend, err = anthropic.NewBackend(log, cfg)

	case config.ProviderOllama:
		// Ollama serves an OpenAI-compatible API under /v1 and ignores the key.
		cfg.BaseURL = OllamaBaseURL(cfg.BaseURL)
		if cfg.APIKey == "" {
			cfg.APIKey = "ollama"
		}
		if log != nil {
			log.InfoContext(ctx, "Using Ollama through its OpenAI-compatible API", "base_url", cfg.BaseURL)
		}
		backend, err = openai.NewBackend(log, cfg)

	default:
		return nil, fmt.Errorf("%w: unsupported llm provider %q", generation.ErrInvalidConfig, cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s backend: %w", cfg.Provider, err)
	}
	return backend, nil
}

// OllamaBaseURL appends the /v1 suffix Ollama expects for OpenAI-style calls.
func OllamaBaseURL(baseURL string) string {
	if strings.HasSuffix(baseURL, "/v1") {
		return baseURL
	}
	return strings.TrimRight(baseURL, "/") + "/v1"
}
