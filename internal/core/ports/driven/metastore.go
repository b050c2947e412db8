package driven

import (
	"context"

	"github.com/cloudops-labs/opsrag-cli/internal/core/domain"
)

// MetadataStore persists build provenance alongside the index artifacts.
type MetadataStore interface {
	// Save writes the metadata record, replacing any existing one.
	Save(ctx context.Context, meta domain.IndexMetadata) error

	// Load reads the metadata record.
	// Returns domain.ErrDatabaseMissing if no record exists.
	Load(ctx context.Context) (*domain.IndexMetadata, error)
}
