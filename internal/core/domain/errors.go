package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingOmitted indicates text was not embedded, either by
	// policy (too short after cleaning) or because the backend failed.
	// Retrieval treats it as "no result", never as a fatal condition.
	ErrEmbeddingOmitted = errors.New("embedding omitted")
)
