package domain

import "fmt"

// VectorStore is the immutable, ordered set of chunks built at startup.
// Once constructed it is read-only and may be shared across concurrent
// request handlers without locking.
type VectorStore struct {
	chunks []Chunk
	dim    int
}

// NewVectorStore builds a store from the given chunks. All embeddings must
// share the same dimensionality; a mismatch is a construction error, since
// cosine similarity between vectors of different lengths is meaningless.
func NewVectorStore(chunks []Chunk) (*VectorStore, error) {
	dim := 0
	for _, c := range chunks {
		if len(c.Embedding) == 0 {
			return nil, fmt.Errorf("chunk %d has no embedding", c.ID)
		}
		if dim == 0 {
			dim = len(c.Embedding)
			continue
		}
		if len(c.Embedding) != dim {
			return nil, fmt.Errorf("chunk %d has dimension %d, want %d", c.ID, len(c.Embedding), dim)
		}
	}
	cp := make([]Chunk, len(chunks))
	copy(cp, chunks)
	return &VectorStore{chunks: cp, dim: dim}, nil
}

// Chunks returns the stored chunks in ingestion order. Callers must not
// mutate the returned slice.
func (s *VectorStore) Chunks() []Chunk {
	return s.chunks
}

// Len returns the number of chunks.
func (s *VectorStore) Len() int {
	return len(s.chunks)
}

// Dimensions returns the shared embedding dimensionality, or 0 for an
// empty store.
func (s *VectorStore) Dimensions() int {
	return s.dim
}
