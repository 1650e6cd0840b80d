package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbeddingService_RequiresAPIKey(t *testing.T) {
	_, err := NewEmbeddingService(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc, err := NewEmbeddingService(Config{APIKey: "test-key"})
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, 1536, svc.Dimensions())
}

func TestEmbed_DecodesSingleVector(t *testing.T) {
	var gotReq embeddingRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3],"index":0}]}`))
	}))
	defer server.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	vec, err := svc.Embed(context.Background(), "¿cuál es el horario?")
	require.NoError(t, err)

	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	require.Len(t, gotReq.Input, 1)
	assert.Equal(t, "¿cuál es el horario?", gotReq.Input[0])
	assert.Equal(t, DefaultModel, gotReq.Model)
}

func TestEmbed_APIErrorSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"auth"}}`))
	}))
	defer server.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "bad-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.Embed(context.Background(), "hola mundo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestEmbed_EmptyDataIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.Embed(context.Background(), "hola mundo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no embedding")
}

func TestEmbed_MalformedResponseIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.Embed(context.Background(), "hola mundo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}
