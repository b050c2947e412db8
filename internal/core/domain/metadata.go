package domain

import "time"

// IndexMetadata records build-time provenance for a persisted index.
// It is written alongside the vector index and chunk records and is
// used for display and for re-deriving the embedding model at query
// time. Search correctness never depends on it.
type IndexMetadata struct {
	// BuildID uniquely identifies one build pass.
	BuildID string `toml:"build_id" json:"build_id"`

	// CreatedAt is when the build completed.
	CreatedAt time.Time `toml:"created_at" json:"created_at"`

	// ModelName identifies the embedding model used at build time.
	// Querying with a different model silently produces meaningless
	// similarity scores.
	ModelName string `toml:"model_name" json:"model_name"`

	// Dimension is the embedding vector size shared by all vectors
	// in the index.
	Dimension int `toml:"dimension" json:"dimension"`

	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int `toml:"chunk_size" json:"chunk_size"`

	// ChunkOverlap is the number of characters re-included at the
	// start of each following chunk.
	ChunkOverlap int `toml:"chunk_overlap" json:"chunk_overlap"`

	// DocumentCount is the number of source documents indexed.
	DocumentCount int `toml:"document_count" json:"document_count"`

	// ChunkCount is the number of chunks (and vectors) in the index.
	ChunkCount int `toml:"chunk_count" json:"chunk_count"`

	// SourceFiles lists the indexed document file names.
	SourceFiles []string `toml:"source_files" json:"source_files"`
}
