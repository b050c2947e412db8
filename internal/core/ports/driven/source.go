package driven

import (
	"context"

	"github.com/cloudops-labs/opsrag-cli/internal/core/domain"
)

// DocumentSource reads source documents for indexing.
// Unreadable documents are skipped with a logged warning rather than
// failing the whole load.
type DocumentSource interface {
	// Documents returns all readable documents from the source.
	Documents(ctx context.Context) ([]domain.Document, error)

	// Watch reports changes to the source until the context is
	// cancelled. Each event carries the path that changed. Used to
	// trigger rebuilds; the channel is closed when watching stops.
	Watch(ctx context.Context) (<-chan string, error)

	// Close releases resources.
	Close() error
}
