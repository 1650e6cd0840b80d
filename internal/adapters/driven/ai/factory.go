// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/civika-labs/faqd/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/civika-labs/faqd/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/civika-labs/faqd/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/civika-labs/faqd/internal/adapters/driven/llm/ollama"
	openaillm "github.com/civika-labs/faqd/internal/adapters/driven/llm/openai"
	"github.com/civika-labs/faqd/internal/core/domain"
	"github.com/civika-labs/faqd/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// pinger is the connectivity check every adapter in this package exposes.
type pinger interface {
	Ping(ctx context.Context) error
}

// CreateEmbeddingService creates the embedding service for the configured
// provider.
func CreateEmbeddingService(cfg domain.EmbeddingConfig) (driven.EmbeddingService, error) {
	switch provider(cfg.Provider) {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		})

	case domain.AIProviderAnthropic:
		// Anthropic does not support embeddings.
		return nil, fmt.Errorf("anthropic does not support embeddings, use ollama or openai")

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}

// CreateGenerationService creates the generation service for the configured
// provider.
func CreateGenerationService(cfg domain.GenerationConfig) (driven.GenerationService, error) {
	switch provider(cfg.Provider) {
	case domain.AIProviderOllama:
		return ollamallm.NewGenerationService(ollamallm.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewGenerationService(openaillm.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewGenerationService(anthropicllm.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		})

	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", cfg.Provider)
	}
}

// CreateAndValidateEmbeddingService creates an embedding service and
// validates connectivity before handing it back.
func CreateAndValidateEmbeddingService(cfg domain.EmbeddingConfig) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(cfg)
	if err != nil {
		return nil, err
	}

	if err := ping(svc); err != nil {
		svc.Close()
		return nil, fmt.Errorf("embedding backend unreachable: %w", err)
	}
	return svc, nil
}

// CreateAndValidateGenerationService creates a generation service and
// validates connectivity before handing it back.
func CreateAndValidateGenerationService(cfg domain.GenerationConfig) (driven.GenerationService, error) {
	svc, err := CreateGenerationService(cfg)
	if err != nil {
		return nil, err
	}

	if err := ping(svc); err != nil {
		svc.Close()
		return nil, fmt.Errorf("generation backend unreachable: %w", err)
	}
	return svc, nil
}

// ping runs the adapter's connectivity check with a bounded timeout.
func ping(svc any) error {
	p, ok := svc.(pinger)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return p.Ping(ctx)
}

// provider applies the default when the configuration leaves the provider
// blank.
func provider(p domain.AIProvider) domain.AIProvider {
	if p == "" {
		return domain.AIProviderOpenAI
	}
	return p
}
