package driven

import (
	"context"

	"github.com/civika-labs/faqd/internal/core/domain"
)

// GenerationService produces chat completions from an external backend.
//
// The backend is opaque: the core only depends on the documented
// chat-completions request/response shape. A malformed response is reported
// as an error; the chat service substitutes the fixed fallback reply and
// never crashes on backend misbehaviour.
type GenerationService interface {
	// Chat sends the conversation to the backend and returns the
	// assistant reply text.
	Chat(ctx context.Context, messages []domain.Message, opts ChatOptions) (string, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// ChatOptions configures generation behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
