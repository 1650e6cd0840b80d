// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - EmbeddingService: Converts text into fixed-length vectors
//   - GenerationService: Produces chat answers from a grounded prompt
//   - ChunkStore: Persists the ingested chunk cache
//   - UnansweredStore: Appends unanswerable questions to a durable log
//   - ConfigStore: Application configuration
//   - PromptStore: User-editable prompt templates
//
// Backend failures are never fatal to the core: embedding failures map to
// omission, generation failures map to a fixed fallback reply.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
