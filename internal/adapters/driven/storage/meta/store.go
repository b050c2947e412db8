// Package meta provides the TOML-backed metadata artifact store.
//
// The metadata file is human-readable build provenance: model name,
// chunking parameters, counts, and the source file list. It is read at
// query time to re-derive the embedding model, never for search
// correctness.
package meta

import (
	"context"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/cloudops-labs/opsrag-cli/internal/core/domain"
	"github.com/cloudops-labs/opsrag-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.MetadataStore = (*Store)(nil)

// Store persists IndexMetadata as a TOML file.
type Store struct {
	path string
}

// NewStore creates a metadata store writing to the given path.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("meta: empty metadata path: %w", domain.ErrInvalidInput)
	}
	return &Store{path: path}, nil
}

// Path returns the metadata file path.
func (s *Store) Path() string {
	return s.path
}

// Save writes the metadata record, replacing any existing one.
// The write goes through a temporary file and rename so a crash never
// leaves a truncated record behind.
func (s *Store) Save(_ context.Context, m domain.IndexMetadata) error {
	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("meta: marshal metadata: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("meta: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("meta: rename into place: %w", err)
	}
	return nil
}

// Load reads the metadata record.
func (s *Store) Load(_ context.Context) (*domain.IndexMetadata, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("meta: read %s: %w", s.path, domain.ErrDatabaseMissing)
		}
		return nil, fmt.Errorf("meta: read %s: %w", s.path, err)
	}

	var m domain.IndexMetadata
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("meta: unmarshal metadata: %w", err)
	}

	return &m, nil
}
