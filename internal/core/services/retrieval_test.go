package services

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civika-labs/faqd/internal/core/domain"
)

const (
	hoursPassage = "La oficina de atención al público abre de 8 de la mañana a 5 de la tarde, de lunes a viernes."
	phonePassage = "El teléfono de la oficina del alcalde es el 555-0100 para consultas generales."
)

func testEmbedder(svc *mockEmbeddingService) *Embedder {
	return NewEmbedder(svc, domain.EmbeddingConfig{
		MinQueryChars:   1,
		MinPassageChars: 1,
	})
}

func faqStore(t *testing.T) *domain.VectorStore {
	t.Helper()
	store, err := domain.NewVectorStore([]domain.Chunk{
		{ID: 1, Text: hoursPassage, Embedding: []float32{1, 0, 0}},
		{ID: 2, Text: phonePassage, Embedding: []float32{0, 1, 0}},
	})
	require.NoError(t, err)
	return store
}

func defaultPolicy() domain.RetrievalPolicy {
	return domain.RetrievalPolicy{
		TopN:     3,
		MinScore: 0.3,
		MinWords: 3,
		Margin:   0.05,
	}
}

func TestCosineSimilarity(t *testing.T) {
	t.Run("symmetric", func(t *testing.T) {
		a := []float32{0.3, -0.5, 0.8}
		b := []float32{-0.1, 0.9, 0.2}
		assert.InDelta(t, CosineSimilarity(a, b), CosineSimilarity(b, a), 1e-12)
	})

	t.Run("identical vectors score 1", func(t *testing.T) {
		a := []float32{0.2, 0.4, 0.6}
		assert.InDelta(t, 1.0, CosineSimilarity(a, a), 1e-9)
	})

	t.Run("opposite vectors score -1", func(t *testing.T) {
		a := []float32{1, 2, 3}
		b := []float32{-1, -2, -3}
		assert.InDelta(t, -1.0, CosineSimilarity(a, b), 1e-9)
	})

	t.Run("zero vector scores 0, never NaN", func(t *testing.T) {
		zero := []float32{0, 0, 0}
		other := []float32{1, 2, 3}

		got := CosineSimilarity(zero, other)
		assert.Equal(t, 0.0, got)
		assert.False(t, math.IsNaN(CosineSimilarity(zero, zero)))
	})

	t.Run("bounded for arbitrary finite pairs", func(t *testing.T) {
		pairs := [][2][]float32{
			{{1e10, 1e10}, {1e10, 1e10}},
			{{1e-10, 0}, {1e10, 1e-10}},
			{{0.5, -0.5, 0.1}, {-0.9, 0.3, 0.7}},
		}
		for _, pair := range pairs {
			got := CosineSimilarity(pair[0], pair[1])
			assert.GreaterOrEqual(t, got, -1.0)
			assert.LessOrEqual(t, got, 1.0)
		}
	})
}

func TestRetrievalEngine_RanksRelevantPassageFirst(t *testing.T) {
	svc := &mockEmbeddingService{vectors: map[string][]float32{
		"¿Cuál es el horario de la oficina?": {0.9, 0.1, 0},
	}}
	engine := NewRetrievalEngine(faqStore(t), testEmbedder(svc), defaultPolicy())

	got := engine.Retrieve(context.Background(), "¿Cuál es el horario de la oficina?")

	require.NotEmpty(t, got.Passages)
	assert.Equal(t, int64(1), got.Passages[0].ChunkID)
	assert.Equal(t, hoursPassage, got.Passages[0].Text)
	assert.GreaterOrEqual(t, got.Passages[0].Score, 0.3)
}

func TestRetrievalEngine_UnrelatedQueryReturnsEmpty(t *testing.T) {
	svc := &mockEmbeddingService{vectors: map[string][]float32{
		"¿Cuál es la capital de Francia?": {0, 0, 1},
	}}
	engine := NewRetrievalEngine(faqStore(t), testEmbedder(svc), defaultPolicy())

	got := engine.Retrieve(context.Background(), "¿Cuál es la capital de Francia?")

	assert.Empty(t, got.Passages)
}

func TestRetrievalEngine_OmittedEmbeddingFailsClosed(t *testing.T) {
	svc := &mockEmbeddingService{embedErr: assert.AnError}
	engine := NewRetrievalEngine(faqStore(t), testEmbedder(svc), defaultPolicy())

	got := engine.Retrieve(context.Background(), "¿Cuál es el horario?")

	assert.Empty(t, got.Passages)
	assert.Zero(t, got.TopScore)
}

func TestRetrievalEngine_EmptyStore(t *testing.T) {
	store, err := domain.NewVectorStore(nil)
	require.NoError(t, err)

	svc := &mockEmbeddingService{}
	engine := NewRetrievalEngine(store, testEmbedder(svc), defaultPolicy())

	got := engine.Retrieve(context.Background(), "hola qué tal")

	assert.Empty(t, got.Passages)
	assert.Zero(t, svc.calls(), "empty store must not reach the embedding backend")
}

func TestRetrievalEngine_TopNAndFilters(t *testing.T) {
	chunks := []domain.Chunk{
		{ID: 1, Text: "pasaje uno con bastantes palabras de relleno", Embedding: []float32{1, 0}},
		{ID: 2, Text: "pasaje dos con bastantes palabras de relleno", Embedding: []float32{0.95, 0.05}},
		{ID: 3, Text: "pasaje tres con bastantes palabras de relleno", Embedding: []float32{0.9, 0.1}},
		{ID: 4, Text: "corto", Embedding: []float32{0.99, 0.01}},
		{ID: 5, Text: "pasaje lejano con bastantes palabras de relleno", Embedding: []float32{0, 1}},
	}
	store, err := domain.NewVectorStore(chunks)
	require.NoError(t, err)

	svc := &mockEmbeddingService{vectors: map[string][]float32{"consulta": {1, 0}}}
	policy := domain.RetrievalPolicy{TopN: 2, MinScore: 0.5, MinWords: 3}
	engine := NewRetrievalEngine(store, testEmbedder(svc), policy)

	got := engine.Retrieve(context.Background(), "consulta")

	require.Len(t, got.Passages, 2)
	for _, p := range got.Passages {
		assert.GreaterOrEqual(t, p.Score, policy.MinScore)
		assert.GreaterOrEqual(t, wordCount(p.Text), policy.MinWords)
	}
	// Chunk 4 scores highest after chunk 1 but is too short to ground
	// an answer.
	assert.Equal(t, int64(1), got.Passages[0].ChunkID)
	assert.Equal(t, int64(2), got.Passages[1].ChunkID)
}

func TestRetrievalEngine_TieBrokenByChunkID(t *testing.T) {
	chunks := []domain.Chunk{
		{ID: 7, Text: "pasaje empatado número siete aquí", Embedding: []float32{1, 0}},
		{ID: 3, Text: "pasaje empatado número tres aquí", Embedding: []float32{1, 0}},
	}
	store, err := domain.NewVectorStore(chunks)
	require.NoError(t, err)

	svc := &mockEmbeddingService{vectors: map[string][]float32{"consulta": {1, 0}}}
	engine := NewRetrievalEngine(store, testEmbedder(svc), defaultPolicy())

	got := engine.Retrieve(context.Background(), "consulta")

	require.Len(t, got.Passages, 2)
	assert.Equal(t, int64(3), got.Passages[0].ChunkID)
	assert.Equal(t, int64(7), got.Passages[1].ChunkID)
}

func TestRetrievalEngine_MarginGate(t *testing.T) {
	// Both passages clear MinScore individually, but their scores are
	// nearly tied: the query is ambiguous under the margin policy.
	svc := &mockEmbeddingService{vectors: map[string][]float32{
		"consulta ambigua sobre la oficina": {0.7, 0.7, 0},
	}}

	policy := defaultPolicy()
	policy.RequireMargin = true
	engine := NewRetrievalEngine(faqStore(t), testEmbedder(svc), policy)

	got := engine.Retrieve(context.Background(), "consulta ambigua sobre la oficina")

	assert.Empty(t, got.Passages)
	assert.Greater(t, got.TopScore, policy.MinScore, "candidates individually relevant")

	// Same query with the gate disabled returns both passages.
	policy.RequireMargin = false
	engine = NewRetrievalEngine(faqStore(t), testEmbedder(svc), policy)
	assert.Len(t, engine.Retrieve(context.Background(), "consulta ambigua sobre la oficina").Passages, 2)
}

func TestRetrievalEngine_KeywordGate(t *testing.T) {
	policy := defaultPolicy()
	policy.RequireKeyword = true

	t.Run("keyword present in top passage", func(t *testing.T) {
		svc := &mockEmbeddingService{vectors: map[string][]float32{
			"¿a qué hora abre la oficina?": {0.9, 0.1, 0},
		}}
		engine := NewRetrievalEngine(faqStore(t), testEmbedder(svc), policy)

		got := engine.Retrieve(context.Background(), "¿a qué hora abre la oficina?")
		assert.NotEmpty(t, got.Passages)
	})

	t.Run("no shared keyword rejects", func(t *testing.T) {
		svc := &mockEmbeddingService{vectors: map[string][]float32{
			"¿dónde pago mis impuestos municipales?": {0.9, 0.1, 0},
		}}
		engine := NewRetrievalEngine(faqStore(t), testEmbedder(svc), policy)

		got := engine.Retrieve(context.Background(), "¿dónde pago mis impuestos municipales?")
		assert.Empty(t, got.Passages)
	})
}

func TestContextText(t *testing.T) {
	passages := []domain.ScoredPassage{
		{Text: "primero"},
		{Text: "segundo"},
	}
	assert.Equal(t, "primero\n\nsegundo", ContextText(passages))
	assert.Equal(t, "", ContextText(nil))
}
