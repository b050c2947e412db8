package mcp

import (
	"context"

	"github.com/cloudops-labs/opsrag-cli/internal/core/domain"
)

// mockAskService implements driving.AskService for testing.
type mockAskService struct {
	results []domain.RetrievedChunk
	mode    domain.RetrievalMode
	answer  *domain.Answer
	meta    domain.IndexMetadata
	err     error
}

func (m *mockAskService) Retrieve(_ context.Context, _ string, _ domain.RetrieveOptions) ([]domain.RetrievedChunk, domain.RetrievalMode, error) {
	if m.err != nil {
		return nil, m.mode, m.err
	}
	return m.results, m.mode, nil
}

func (m *mockAskService) Ask(_ context.Context, _ string, _ domain.RetrieveOptions) (*domain.Answer, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

func (m *mockAskService) Metadata() domain.IndexMetadata {
	return m.meta
}
