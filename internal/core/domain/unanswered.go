package domain

import "time"

// UnansweredRecord captures a question that retrieval could not ground.
// Records are appended to a durable log for corpus-improvement triage and
// are never read back by the core.
type UnansweredRecord struct {
	// ID is the unique record identifier.
	ID string

	// SessionID is the session that asked the question.
	SessionID string

	// Message is the user question as received.
	Message string

	// ContextFragments are the passages that were considered but did not
	// pass the retrieval gates. May be empty.
	ContextFragments []string

	// TopScore is the best similarity score seen, or 0 when the store is
	// empty or the query could not be embedded.
	TopScore float64

	// CreatedAt is when the record was written.
	CreatedAt time.Time
}
