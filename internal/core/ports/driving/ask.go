package driving

import (
	"context"

	"github.com/cloudops-labs/opsrag-cli/internal/core/domain"
)

// AskService answers questions over the persisted index.
type AskService interface {
	// Retrieve returns up to TopK chunks ranked by descending
	// similarity to the query, with the mode used to rank them.
	// An empty result is a valid outcome, not an error.
	Retrieve(ctx context.Context, query string, opts domain.RetrieveOptions) ([]domain.RetrievedChunk, domain.RetrievalMode, error)

	// Ask retrieves relevant chunks and synthesises an answer.
	// Generation failures are recovered into a fallback answer;
	// only a missing database surfaces as an error.
	Ask(ctx context.Context, query string, opts domain.RetrieveOptions) (*domain.Answer, error)

	// Metadata returns the provenance record of the loaded index.
	Metadata() domain.IndexMetadata
}
