package driven

import (
	"context"

	"github.com/civika-labs/faqd/internal/core/domain"
)

// UnansweredStore appends unanswerable questions to a durable log.
// The log is written, never read, by the core; it exists for
// corpus-improvement triage. Append failures are logged and swallowed by
// callers: losing a triage record must not fail a chat request.
type UnansweredStore interface {
	// Append writes one record. Records are immutable once written.
	Append(ctx context.Context, rec domain.UnansweredRecord) error
}
