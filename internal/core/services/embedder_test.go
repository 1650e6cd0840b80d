package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civika-labs/faqd/internal/core/domain"
)

func TestEmbedder_ShortInputOmittedWithoutBackendCall(t *testing.T) {
	svc := &mockEmbeddingService{}
	e := NewEmbedder(svc, domain.EmbeddingConfig{MinQueryChars: 5, MinPassageChars: 10})

	_, err := e.EmbedQuery(context.Background(), "hola")

	require.ErrorIs(t, err, domain.ErrEmbeddingOmitted)
	assert.Zero(t, svc.calls(), "short input must not reach the backend")
}

func TestEmbedder_PassageThresholdStricterThanQuery(t *testing.T) {
	svc := &mockEmbeddingService{}
	e := NewEmbedder(svc, domain.EmbeddingConfig{MinQueryChars: 3, MinPassageChars: 20})

	_, err := e.EmbedQuery(context.Background(), "hola mundo")
	assert.NoError(t, err)

	_, err = e.EmbedPassage(context.Background(), "hola mundo")
	assert.ErrorIs(t, err, domain.ErrEmbeddingOmitted)
}

func TestEmbedder_ControlCharactersStripped(t *testing.T) {
	var got string
	svc := &mockEmbeddingService{embedFn: func(text string) ([]float32, error) {
		got = text
		return []float32{1}, nil
	}}
	e := NewEmbedder(svc, domain.EmbeddingConfig{MinQueryChars: 1})

	_, err := e.EmbedQuery(context.Background(), "hola\x00\x07 mundo\tcon\ncontrol​")

	require.NoError(t, err)
	assert.NotContains(t, got, "\x00")
	assert.NotContains(t, got, "\x07")
	assert.NotContains(t, got, "\t")
	assert.NotContains(t, got, "\n")
	assert.Contains(t, got, "hola")
	assert.Contains(t, got, "mundo")
}

func TestEmbedder_InputTruncated(t *testing.T) {
	var got string
	svc := &mockEmbeddingService{embedFn: func(text string) ([]float32, error) {
		got = text
		return []float32{1}, nil
	}}
	e := NewEmbedder(svc, domain.EmbeddingConfig{MinQueryChars: 1, MaxInputChars: 10})

	_, err := e.EmbedQuery(context.Background(), strings.Repeat("a", 50))

	require.NoError(t, err)
	assert.Len(t, []rune(got), 10)
}

func TestEmbedder_BackendFailureMapsToOmission(t *testing.T) {
	svc := &mockEmbeddingService{embedErr: errors.New("backend down")}
	e := NewEmbedder(svc, domain.EmbeddingConfig{MinQueryChars: 1})

	_, err := e.EmbedQuery(context.Background(), "una consulta normal")

	assert.ErrorIs(t, err, domain.ErrEmbeddingOmitted)
}

func TestEmbedder_EmptyVectorMapsToOmission(t *testing.T) {
	svc := &mockEmbeddingService{embedFn: func(string) ([]float32, error) {
		return nil, nil
	}}
	e := NewEmbedder(svc, domain.EmbeddingConfig{MinQueryChars: 1})

	_, err := e.EmbedQuery(context.Background(), "una consulta normal")

	assert.ErrorIs(t, err, domain.ErrEmbeddingOmitted)
}

func TestSanitizeForEmbedding(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text unchanged", "hola mundo", "hola mundo"},
		{"accented text kept", "trámites y teléfonos", "trámites y teléfonos"},
		{"newlines become spaces", "primera\nsegunda", "primera segunda"},
		{"control bytes dropped", "a\x00b\x1fc", "abc"},
		{"trimmed", "  centrado  ", "centrado"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeForEmbedding(tt.in))
		})
	}
}
