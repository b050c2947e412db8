package driven

import (
	"context"

	"github.com/cloudops-labs/opsrag-cli/internal/core/domain"
)

// ChunkStore persists the ordered chunk records produced by a build.
// Records are written once per build and only ever read afterwards;
// a rebuild replaces the whole set.
type ChunkStore interface {
	// SaveChunks stores chunks in order, replacing any existing set.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// ListChunks returns all chunks ordered by their index position.
	ListChunks(ctx context.Context) ([]domain.Chunk, error)

	// CountChunks returns the number of stored chunks.
	CountChunks(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
