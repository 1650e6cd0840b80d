package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations talk to an external backend over HTTP and decode one
// documented response schema strictly: any shape deviation, non-2xx status
// or transport failure is an error. The core maps every error to omission
// of the affected text, never to process failure.
//
// Implementations may include:
//   - OpenAI-compatible APIs (text-embedding-3-small and friends)
//   - Local inference servers exposing the same endpoint shape
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536).
	// All chunks in a store share this dimensionality.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
