package services

import (
	"context"

	"github.com/cloudops-labs/opsrag-cli/internal/core/domain"
	"github.com/cloudops-labs/opsrag-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockDocumentSource implements driven.DocumentSource for testing.
type mockDocumentSource struct {
	docs    []domain.Document
	docsErr error
}

func (m *mockDocumentSource) Documents(_ context.Context) ([]domain.Document, error) {
	if m.docsErr != nil {
		return nil, m.docsErr
	}
	return m.docs, nil
}

func (m *mockDocumentSource) Watch(_ context.Context) (<-chan string, error) {
	ch := make(chan string)
	close(ch)
	return ch, nil
}

func (m *mockDocumentSource) Close() error {
	return nil
}

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Embeddings are deterministic: text length spread over the first
// dimension so different texts get different vectors.
type mockEmbeddingService struct {
	dims      int
	model     string
	embedErr  error
	embedding []float32 // fixed response when set
}

func (m *mockEmbeddingService) dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 4
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.embedding != nil {
		return append([]float32(nil), m.embedding...), nil
	}
	vec := make([]float32, m.dimensions())
	vec[0] = float32(len(text))
	vec[1] = 1
	return vec, nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	result := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		result[i] = vec
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	return m.dimensions()
}

func (m *mockEmbeddingService) ModelName() string {
	if m.model != "" {
		return m.model
	}
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockChunkStore implements driven.ChunkStore for testing.
type mockChunkStore struct {
	saved   []domain.Chunk
	listErr error
	saveErr error
}

func (m *mockChunkStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append([]domain.Chunk(nil), chunks...)
	return nil
}

func (m *mockChunkStore) ListChunks(_ context.Context) ([]domain.Chunk, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.saved, nil
}

func (m *mockChunkStore) CountChunks(_ context.Context) (int, error) {
	return len(m.saved), nil
}

func (m *mockChunkStore) Close() error {
	return nil
}

// mockMetadataStore implements driven.MetadataStore for testing.
type mockMetadataStore struct {
	meta    *domain.IndexMetadata
	loadErr error
	saveErr error
}

func (m *mockMetadataStore) Save(_ context.Context, meta domain.IndexMetadata) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.meta = &meta
	return nil
}

func (m *mockMetadataStore) Load(_ context.Context) (*domain.IndexMetadata, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.meta == nil {
		return nil, domain.ErrDatabaseMissing
	}
	return m.meta, nil
}

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	vectors   [][]float32
	hits      []driven.VectorHit
	length    int // overrides Len when set
	addErr    error
	searchErr error
	saveErr   error
	savedPath string
}

func (m *mockVectorIndex) Add(_ context.Context, vectors [][]float32) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.vectors = append(m.vectors, vectors...)
	return nil
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, k int) ([]driven.VectorHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) Len() int {
	if m.length > 0 {
		return m.length
	}
	return len(m.vectors)
}

func (m *mockVectorIndex) Dimension() int {
	if len(m.vectors) > 0 {
		return len(m.vectors[0])
	}
	return 4
}

func (m *mockVectorIndex) Save(path string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.savedPath = path
	return nil
}

func (m *mockVectorIndex) Close() error {
	return nil
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	reply       string
	chatErr     error
	gotMessages []driven.ChatMessage
	gotOpts     driven.ChatOptions
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.gotMessages = messages
	m.gotOpts = opts
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.reply, nil
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Close() error {
	return nil
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
	loadErr error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.loadErr != nil {
		return "", m.loadErr
	}
	if m.prompts != nil {
		if p, ok := m.prompts[name]; ok {
			return p, nil
		}
	}
	switch name {
	case driven.PromptAnswerSystem:
		return "You are a CloudOps assistant.", nil
	case driven.PromptAnswerUser:
		return "Context:\n%s\n\nQuestion: %s", nil
	}
	return "", domain.ErrNotFound
}

func (m *mockPromptStore) Reload() {}
