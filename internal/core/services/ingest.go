package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/civika-labs/faqd/internal/chunker"
	"github.com/civika-labs/faqd/internal/core/domain"
	"github.com/civika-labs/faqd/internal/core/ports/driven"
	"github.com/civika-labs/faqd/internal/core/ports/driving"
	"github.com/civika-labs/faqd/internal/logger"
)

// Ensure Ingestor implements the interface.
var _ driving.IngestService = (*Ingestor)(nil)

// Ingestor builds the vector store, going through the chunk cache first.
// When the cache already holds chunks they are loaded verbatim and the
// source document is not consulted, so cache-hit and cache-miss paths
// yield identical stores for the same document and backend.
type Ingestor struct {
	source   driven.DocumentSource
	store    driven.ChunkStore
	splitter *chunker.Splitter
	embedder *Embedder
}

// NewIngestor creates an ingestor.
func NewIngestor(source driven.DocumentSource, store driven.ChunkStore, splitter *chunker.Splitter, embedder *Embedder) *Ingestor {
	return &Ingestor{
		source:   source,
		store:    store,
		splitter: splitter,
		embedder: embedder,
	}
}

// Load returns the vector store, running ingestion once if the cache is
// empty. It is called once at startup, before serving begins, and is not
// safe for concurrent use with itself.
func (in *Ingestor) Load(ctx context.Context) (*domain.VectorStore, error) {
	logger.Section("Ingestion")

	count, err := in.store.CountChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("count cached chunks: %w", err)
	}

	if count > 0 {
		logger.Info("chunk cache hit: %d chunks, skipping ingestion", count)
		chunks, err := in.store.ListChunks(ctx)
		if err != nil {
			return nil, fmt.Errorf("load cached chunks: %w", err)
		}
		store, err := domain.NewVectorStore(chunks)
		if err != nil {
			return nil, fmt.Errorf("cached chunks invalid: %w", err)
		}
		return store, nil
	}

	return in.rebuild(ctx)
}

// Rebuild re-ingests the source document unconditionally, replacing any
// cached chunks. Like Load it is not safe for concurrent use with itself.
func (in *Ingestor) Rebuild(ctx context.Context) (*domain.VectorStore, error) {
	logger.Section("Ingestion")
	return in.rebuild(ctx)
}

func (in *Ingestor) rebuild(ctx context.Context) (*domain.VectorStore, error) {
	chunks, err := in.ingest(ctx)
	if err != nil {
		return nil, err
	}

	if err := in.store.SaveChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("persist chunks: %w", err)
	}

	store, err := domain.NewVectorStore(chunks)
	if err != nil {
		return nil, fmt.Errorf("build vector store: %w", err)
	}

	logger.Info("ingestion complete: %d chunks indexed from %s", store.Len(), in.source.Name())
	return store, nil
}

// ingest reads the document, splits it into passages and embeds each one.
// A passage whose embedding is omitted is dropped and logged; one bad
// passage never aborts ingestion of the rest.
func (in *Ingestor) ingest(ctx context.Context) ([]domain.Chunk, error) {
	text, err := in.source.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read source document %s: %w", in.source.Name(), err)
	}

	passages := in.splitter.Split(text)
	logger.Debug("document split into %d passages", len(passages))

	chunks := make([]domain.Chunk, 0, len(passages))
	var nextID int64 = 1
	for i, passage := range passages {
		// A cancelled context must abort the run, not silently drop
		// every remaining passage and persist a partial cache.
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		vec, err := in.embedder.EmbedPassage(ctx, passage)
		if err != nil {
			if errors.Is(err, domain.ErrEmbeddingOmitted) {
				logger.Warn("passage %d dropped: %v", i, err)
				continue
			}
			return nil, fmt.Errorf("embed passage %d: %w", i, err)
		}

		chunks = append(chunks, domain.Chunk{
			ID:        nextID,
			Text:      passage,
			Embedding: vec,
		})
		nextID++
	}

	return chunks, nil
}
