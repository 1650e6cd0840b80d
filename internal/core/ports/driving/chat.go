package driving

import (
	"context"

	"github.com/civika-labs/faqd/internal/core/domain"
)

// ChatService answers user questions grounded in the knowledge document.
type ChatService interface {
	// Ask handles one chat turn for the given session. The returned
	// reply is always displayable: refusals, fallbacks and
	// low-confidence markers are already applied.
	Ask(ctx context.Context, sessionID, message string) (domain.Reply, error)
}

// IngestService builds the chunk cache from the source document.
type IngestService interface {
	// Load returns the vector store, ingesting the source document if
	// the cache is empty. It runs once at startup and is not safe for
	// concurrent use with itself.
	Load(ctx context.Context) (*domain.VectorStore, error)
}
