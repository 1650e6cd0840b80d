package driven

import (
	"context"

	"github.com/civika-labs/faqd/internal/core/domain"
)

// ChunkStore persists the ingested chunk cache.
//
// The cache short-circuits ingestion: when it already holds chunks they are
// returned verbatim, with no re-validation against the current source
// document. Round-trip (save, load) must be lossless, including embedding
// values.
type ChunkStore interface {
	// SaveChunks replaces the cached chunk set atomically.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// ListChunks returns all cached chunks ordered by id.
	ListChunks(ctx context.Context) ([]domain.Chunk, error)

	// CountChunks returns the number of cached chunks.
	CountChunks(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
