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
//   - DocumentSource: Reads source documents for indexing
//   - VectorIndex: Flat embedding index with nearest-neighbour search
//   - ChunkStore: Ordered chunk record persistence
//   - MetadataStore: Build provenance persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, retrieval
//     falls back to lexical word-overlap scoring.
//   - LLMService: Answer generation. Without it, answers use the templated
//     source summary.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
