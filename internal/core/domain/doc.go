// Package domain defines the core business entities for faqd.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A passage of the knowledge document with its embedding
//   - ScoredPassage: A retrieval hit with its similarity score
//   - Message: A single turn in a chat session
//   - UnansweredRecord: A question the corpus could not answer
//   - Config: The consolidated runtime configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
