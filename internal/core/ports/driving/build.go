package driving

import (
	"context"

	"github.com/cloudops-labs/opsrag-cli/internal/core/domain"
)

// BuildService builds and persists the retrieval index.
type BuildService interface {
	// Build reads all source documents, chunks and embeds them, and
	// persists the vector index, chunk records and metadata as a set.
	// Returns domain.ErrNoChunks when chunking yields nothing.
	Build(ctx context.Context, opts BuildOptions) (*domain.IndexMetadata, error)
}

// BuildOptions configures one build pass.
type BuildOptions struct {
	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int

	// ChunkOverlap is the number of characters re-included at the
	// start of each following chunk.
	ChunkOverlap int
}
