package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrDatabaseMissing", ErrDatabaseMissing},
		{"ErrNoChunks", ErrNoChunks},
		{"ErrModelMismatch", ErrModelMismatch},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrDimensionMismatch", ErrDimensionMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestErrors_Distinct tests that the missing-database condition is
// distinguishable from other failure kinds after wrapping.
func TestErrors_Distinct(t *testing.T) {
	wrapped := fmt.Errorf("load index: %w", ErrDatabaseMissing)

	assert.True(t, errors.Is(wrapped, ErrDatabaseMissing))
	assert.False(t, errors.Is(wrapped, ErrNoChunks))
	assert.False(t, errors.Is(wrapped, ErrModelMismatch))
}
