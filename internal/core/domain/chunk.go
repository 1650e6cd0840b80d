package domain

// Chunk is a self-contained passage of the knowledge document together with
// its precomputed embedding. Chunks are built once at ingestion and are
// immutable for the lifetime of the process.
type Chunk struct {
	// ID is the stable sequential identifier assigned at ingestion.
	ID int64

	// Text is the trimmed passage text. Never empty.
	Text string

	// Embedding is the vector representation of Text. All chunks in a
	// store share the same dimensionality. A chunk without a valid
	// embedding is never stored.
	Embedding []float32
}

// ScoredPassage is a single retrieval hit.
type ScoredPassage struct {
	// ChunkID is the id of the matched chunk.
	ChunkID int64

	// Text is the passage text.
	Text string

	// Score is the cosine similarity to the query, in [-1, 1].
	Score float64
}
