package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civika-labs/faqd/internal/core/domain"
)

func TestCreateEmbeddingService(t *testing.T) {
	t.Run("openai requires an API key", func(t *testing.T) {
		_, err := CreateEmbeddingService(domain.EmbeddingConfig{
			Provider: domain.AIProviderOpenAI,
		})
		require.Error(t, err)
	})

	t.Run("ollama needs no credentials", func(t *testing.T) {
		svc, err := CreateEmbeddingService(domain.EmbeddingConfig{
			Provider: domain.AIProviderOllama,
			Model:    "nomic-embed-text",
		})
		require.NoError(t, err)
		require.NotNil(t, svc)
		assert.Equal(t, "nomic-embed-text", svc.ModelName())
		assert.NoError(t, svc.Close())
	})

	t.Run("anthropic embeddings are rejected", func(t *testing.T) {
		_, err := CreateEmbeddingService(domain.EmbeddingConfig{
			Provider: domain.AIProviderAnthropic,
			APIKey:   "key",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not support embeddings")
	})

	t.Run("blank provider defaults to openai", func(t *testing.T) {
		svc, err := CreateEmbeddingService(domain.EmbeddingConfig{
			APIKey: "test-key",
		})
		require.NoError(t, err)
		assert.NoError(t, svc.Close())
	})

	t.Run("unknown provider is an error", func(t *testing.T) {
		_, err := CreateEmbeddingService(domain.EmbeddingConfig{
			Provider: "cohere",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported")
	})
}

func TestCreateGenerationService(t *testing.T) {
	t.Run("openai requires an API key", func(t *testing.T) {
		_, err := CreateGenerationService(domain.GenerationConfig{
			Provider: domain.AIProviderOpenAI,
		})
		require.Error(t, err)
	})

	t.Run("anthropic is supported for generation", func(t *testing.T) {
		svc, err := CreateGenerationService(domain.GenerationConfig{
			Provider: domain.AIProviderAnthropic,
			APIKey:   "key",
		})
		require.NoError(t, err)
		require.NotNil(t, svc)
		assert.NoError(t, svc.Close())
	})

	t.Run("ollama needs no credentials", func(t *testing.T) {
		svc, err := CreateGenerationService(domain.GenerationConfig{
			Provider: domain.AIProviderOllama,
		})
		require.NoError(t, err)
		assert.NoError(t, svc.Close())
	})

	t.Run("unknown provider is an error", func(t *testing.T) {
		_, err := CreateGenerationService(domain.GenerationConfig{
			Provider: "palm",
		})
		require.Error(t, err)
	})
}
