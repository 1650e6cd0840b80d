package domain

import (
	"errors"
	"time"
)

// Config is the consolidated runtime configuration. Every tunable heuristic
// lives here under a named field; retrieval and validation variants are
// expressed as flags on one structure rather than forked constants.
type Config struct {
	Server     ServerConfig
	Document   DocumentConfig
	Embedding  EmbeddingConfig
	Generation GenerationConfig
	Retrieval  RetrievalPolicy
	Validation ValidationConfig
	Session    SessionConfig
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

// DocumentConfig locates the knowledge document and its derived artifacts.
type DocumentConfig struct {
	// Path is the source document file. Its absence is a fatal startup
	// error, never a runtime condition.
	Path string

	// DataDir holds the chunk cache and the unanswered log.
	DataDir string
}

// AIProvider identifies a supported backend family.
type AIProvider string

// Supported AI providers.
const (
	AIProviderOpenAI    AIProvider = "openai"
	AIProviderOllama    AIProvider = "ollama"
	AIProviderAnthropic AIProvider = "anthropic"
)

// EmbeddingConfig configures the embedding backend and the omission policy
// applied before any call is made.
type EmbeddingConfig struct {
	// Provider selects the backend family (openai or ollama).
	Provider AIProvider

	// BaseURL is the embedding API base URL.
	BaseURL string

	// APIKey authenticates against the backend. May be empty for local
	// backends.
	APIKey string

	// Model is the embedding model name.
	Model string

	// Timeout bounds each backend call.
	Timeout time.Duration

	// MinQueryChars is the minimum cleaned length for live queries.
	// Shorter input is omitted without calling the backend.
	MinQueryChars int

	// MinPassageChars is the minimum cleaned length for corpus passages.
	// Stricter than MinQueryChars: a passage this short carries too
	// little meaning to index.
	MinPassageChars int

	// MaxInputChars truncates input before the backend call. The
	// backend has an undocumented input limit; truncation is defensive,
	// not semantically ideal.
	MaxInputChars int

	// IngestDelay is the fixed delay between consecutive embedding
	// calls during batch ingestion. No retry or backoff is applied.
	IngestDelay time.Duration
}

// GenerationConfig configures the text-generation backend.
type GenerationConfig struct {
	// Provider selects the backend family (openai, ollama or anthropic).
	Provider AIProvider

	// BaseURL is the chat-completions API base URL.
	BaseURL string

	// APIKey authenticates against the backend.
	APIKey string

	// Model is the generation model name.
	Model string

	// Timeout bounds each backend call.
	Timeout time.Duration

	// Temperature controls sampling randomness.
	Temperature float64

	// MaxTokens caps the generated answer length.
	MaxTokens int

	// MaxHistory is the number of most recent session messages included
	// in the prompt.
	MaxHistory int
}

// RetrievalPolicy configures ranking and filtering of candidate passages.
// The margin and keyword gates are composable refinements over the same
// ranked list and can be toggled independently.
type RetrievalPolicy struct {
	// TopN is the maximum number of passages returned.
	TopN int

	// MinScore is the minimum cosine similarity for a passage to count
	// as relevant.
	MinScore float64

	// MinWords is the minimum passage word count. Very short passages
	// rarely carry enough context to ground an answer.
	MinWords int

	// Margin is the required gap between the top-1 and top-2 scores
	// when RequireMargin is set. Near-ties mean the query is ambiguous
	// and is treated as unanswerable.
	Margin float64

	// RequireMargin enables the top-1/top-2 margin gate.
	RequireMargin bool

	// RequireKeyword requires the top passage to contain at least one
	// content keyword from the query after stopword removal.
	RequireKeyword bool
}

// ValidationConfig configures the groundedness validator.
type ValidationConfig struct {
	// AcceptThreshold is the minimum embedding similarity between the
	// answer and any context passage for an accept verdict.
	AcceptThreshold float64

	// BlockThreshold is the similarity below which the answer is
	// rejected. Scores in between yield low_confidence.
	BlockThreshold float64

	// LexicalAccept is the accept threshold for the Jaccard fallback,
	// used when the embedding backend fails.
	LexicalAccept float64

	// LexicalBlock is the reject threshold for the Jaccard fallback.
	LexicalBlock float64

	// MaxPassages caps how many context passages are validated.
	MaxPassages int
}

// SessionConfig configures the in-memory session store.
type SessionConfig struct {
	// TTL is the idle window after which a session is swept.
	TTL time.Duration

	// SweepInterval is how often expired sessions are collected.
	SweepInterval time.Duration
}

// DefaultConfig returns the configuration used when no file overrides are
// present. Thresholds were tuned against the municipal FAQ corpus.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Document: DocumentConfig{
			Path:    "knowledge.txt",
			DataDir: "data",
		},
		Embedding: EmbeddingConfig{
			Provider:        AIProviderOpenAI,
			BaseURL:         "https://api.openai.com/v1",
			Model:           "text-embedding-3-small",
			Timeout:         30 * time.Second,
			MinQueryChars:   3,
			MinPassageChars: 20,
			MaxInputChars:   6000,
			IngestDelay:     200 * time.Millisecond,
		},
		Generation: GenerationConfig{
			Provider:    AIProviderOpenAI,
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o-mini",
			Timeout:     60 * time.Second,
			Temperature: 0.2,
			MaxTokens:   400,
			MaxHistory:  6,
		},
		Retrieval: RetrievalPolicy{
			TopN:     3,
			MinScore: 0.33,
			MinWords: 5,
			Margin:   0.05,
		},
		Validation: ValidationConfig{
			AcceptThreshold: 0.62,
			BlockThreshold:  0.40,
			LexicalAccept:   0.18,
			LexicalBlock:    0.06,
			MaxPassages:     16,
		},
		Session: SessionConfig{
			TTL:           30 * time.Minute,
			SweepInterval: 5 * time.Minute,
		},
	}
}

// Validate reports configuration that cannot produce a working process.
func (c Config) Validate() error {
	if c.Document.Path == "" {
		return errors.New("document path is required")
	}
	if c.Embedding.BaseURL == "" {
		return errors.New("embedding base URL is required")
	}
	if c.Generation.BaseURL == "" {
		return errors.New("generation base URL is required")
	}
	if c.Retrieval.TopN <= 0 {
		return errors.New("retrieval top_n must be positive")
	}
	if c.Validation.AcceptThreshold < c.Validation.BlockThreshold {
		return errors.New("validation accept threshold must not be below block threshold")
	}
	if c.Validation.LexicalAccept < c.Validation.LexicalBlock {
		return errors.New("validation lexical accept threshold must not be below lexical block threshold")
	}
	if c.Session.TTL <= 0 || c.Session.SweepInterval <= 0 {
		return errors.New("session ttl and sweep interval must be positive")
	}
	return nil
}
