package services

import (
	"context"
	"sync"

	"github.com/civika-labs/faqd/internal/core/domain"
	"github.com/civika-labs/faqd/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Embeddings are looked up per text, with an optional fallback function.
type mockEmbeddingService struct {
	mu        sync.Mutex
	vectors   map[string][]float32
	embedFn   func(text string) ([]float32, error)
	embedErr  error
	dims      int
	callCount int
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if vec, ok := m.vectors[text]; ok {
		return vec, nil
	}
	if m.embedFn != nil {
		return m.embedFn(text)
	}
	return []float32{1, 0, 0}, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 3
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

func (m *mockEmbeddingService) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// mockGenerationService implements driven.GenerationService for testing.
type mockGenerationService struct {
	mu        sync.Mutex
	reply     string
	chatErr   error
	callCount int
	lastMsgs  []domain.Message
}

func (m *mockGenerationService) Chat(_ context.Context, messages []domain.Message, _ driven.ChatOptions) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.lastMsgs = messages
	m.mu.Unlock()

	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.reply, nil
}

func (m *mockGenerationService) ModelName() string {
	return "mock-llm"
}

func (m *mockGenerationService) Close() error {
	return nil
}

func (m *mockGenerationService) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// mockUnansweredStore implements driven.UnansweredStore for testing.
type mockUnansweredStore struct {
	mu      sync.Mutex
	records []domain.UnansweredRecord
	err     error
}

func (m *mockUnansweredStore) Append(_ context.Context, rec domain.UnansweredRecord) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

// mockDocumentSource implements driven.DocumentSource for testing.
type mockDocumentSource struct {
	text string
	err  error
}

func (m *mockDocumentSource) Read(_ context.Context) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

func (m *mockDocumentSource) Name() string {
	return "mock-document"
}

// mockChunkStore implements driven.ChunkStore for testing.
type mockChunkStore struct {
	mu      sync.Mutex
	chunks  []domain.Chunk
	saveErr error
	listErr error
}

func (m *mockChunkStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = append([]domain.Chunk(nil), chunks...)
	return nil
}

func (m *mockChunkStore) ListChunks(_ context.Context) ([]domain.Chunk, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Chunk(nil), m.chunks...), nil
}

func (m *mockChunkStore) CountChunks(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.chunks), nil
}

func (m *mockChunkStore) Close() error {
	return nil
}
