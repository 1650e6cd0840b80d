package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civika-labs/faqd/internal/core/domain"
	"github.com/civika-labs/faqd/internal/core/ports/driven"
)

func TestNewGenerationService_RequiresAPIKey(t *testing.T) {
	_, err := NewGenerationService(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestChat_SendsConversationAndDecodesReply(t *testing.T) {
	var gotReq chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"La oficina abre a las 8."},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	svc, err := NewGenerationService(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	messages := []domain.Message{
		{Role: domain.RoleSystem, Content: "Responde solo con el contexto."},
		{Role: domain.RoleUser, Content: "¿A qué hora abre la oficina?"},
	}

	reply, err := svc.Chat(context.Background(), messages, driven.ChatOptions{MaxTokens: 150, Temperature: 0.2})
	require.NoError(t, err)

	assert.Equal(t, "La oficina abre a las 8.", reply)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	assert.Equal(t, 150, gotReq.MaxTokens)
	assert.InDelta(t, 0.2, gotReq.Temperature, 1e-9)
}

func TestChat_NoChoicesIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	svc, err := NewGenerationService(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.Chat(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "hola"}}, driven.ChatOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no response choices")
}

func TestChat_APIErrorSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit exceeded","type":"rate_limit"}}`))
	}))
	defer server.Close()

	svc, err := NewGenerationService(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.Chat(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "hola"}}, driven.ChatOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit exceeded")
}
