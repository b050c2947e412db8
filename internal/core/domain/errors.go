package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDatabaseMissing indicates one or more of the persisted index
	// artifacts (vector index, chunk records, metadata) is absent.
	// Retrieval is unavailable until a build runs. This is distinct
	// from a query that simply matches nothing.
	ErrDatabaseMissing = errors.New("index database missing")

	// ErrNoChunks indicates a build produced zero chunks across all
	// documents. The build refuses to persist an empty index.
	ErrNoChunks = errors.New("no chunks produced")

	// ErrModelMismatch indicates the runtime embedding model differs
	// from the one recorded at build time. Similarity scores across
	// models are meaningless, so strict loading refuses to proceed.
	ErrModelMismatch = errors.New("embedding model mismatch")

	// ErrEmbeddingUnavailable indicates no embedding service is
	// configured. Semantic retrieval degrades to lexical scoring.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the generation service is not
	// configured. Answers fall back to the templated summary.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrDimensionMismatch indicates a vector's dimension differs from
	// the index dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
