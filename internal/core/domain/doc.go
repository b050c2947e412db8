// Package domain defines the core business entities for opsrag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A source document loaded for indexing
//   - Chunk: A bounded substring of a document, the unit of retrieval
//   - RetrievedChunk: A chunk ranked by similarity to a query
//   - Answer: A generated or fallback answer with source attributions
//   - IndexMetadata: Build-time provenance for a persisted index
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
