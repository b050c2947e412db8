package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudops-labs/opsrag-cli/internal/core/domain"
	"github.com/cloudops-labs/opsrag-cli/internal/core/ports/driven"
)

func testChunks() []domain.Chunk {
	return []domain.Chunk{
		domain.NewChunk("c0", "k8s.md", 0, "Kubernetes pods run containers together."),
		domain.NewChunk("c1", "k8s.md", 1, "Deployments manage replica sets."),
		domain.NewChunk("c2", "docker.md", 0, "Docker images are layered filesystems."),
	}
}

func openedRetriever(t *testing.T, embedder driven.EmbeddingService, index *mockVectorIndex, opts ...RetrieverOption) *Retriever {
	t.Helper()

	chunks := &mockChunkStore{saved: testChunks()}
	index.length = len(chunks.saved)
	meta := &mockMetadataStore{meta: &domain.IndexMetadata{
		ModelName:  "mock-embed",
		Dimension:  4,
		ChunkCount: len(chunks.saved),
	}}

	r := NewRetriever(index, chunks, meta, embedder, opts...)
	require.NoError(t, r.Open(context.Background()))
	return r
}

func TestRetriever_Open(t *testing.T) {
	t.Run("missing metadata surfaces ErrDatabaseMissing", func(t *testing.T) {
		r := NewRetriever(&mockVectorIndex{}, &mockChunkStore{}, &mockMetadataStore{}, nil)

		err := r.Open(context.Background())

		assert.ErrorIs(t, err, domain.ErrDatabaseMissing)
	})

	t.Run("empty chunk records surface ErrDatabaseMissing", func(t *testing.T) {
		meta := &mockMetadataStore{meta: &domain.IndexMetadata{ChunkCount: 3}}
		r := NewRetriever(&mockVectorIndex{}, &mockChunkStore{}, meta, nil)

		err := r.Open(context.Background())

		assert.ErrorIs(t, err, domain.ErrDatabaseMissing)
	})

	t.Run("index and chunk count mismatch is corruption", func(t *testing.T) {
		chunks := &mockChunkStore{saved: testChunks()}
		index := &mockVectorIndex{length: 2}
		meta := &mockMetadataStore{meta: &domain.IndexMetadata{ChunkCount: 3}}

		r := NewRetriever(index, chunks, meta, nil)
		err := r.Open(context.Background())

		assert.ErrorIs(t, err, domain.ErrDatabaseMissing)
	})

	t.Run("model mismatch warns by default", func(t *testing.T) {
		chunks := &mockChunkStore{saved: testChunks()}
		index := &mockVectorIndex{length: 3}
		meta := &mockMetadataStore{meta: &domain.IndexMetadata{ModelName: "other-model", ChunkCount: 3}}
		embedder := &mockEmbeddingService{dims: 4}

		r := NewRetriever(index, chunks, meta, embedder)
		err := r.Open(context.Background())

		assert.NoError(t, err)
	})

	t.Run("model mismatch fails in strict mode", func(t *testing.T) {
		chunks := &mockChunkStore{saved: testChunks()}
		index := &mockVectorIndex{length: 3}
		meta := &mockMetadataStore{meta: &domain.IndexMetadata{ModelName: "other-model", ChunkCount: 3}}
		embedder := &mockEmbeddingService{dims: 4}

		r := NewRetriever(index, chunks, meta, embedder, WithStrictModel(true))
		err := r.Open(context.Background())

		assert.ErrorIs(t, err, domain.ErrModelMismatch)
	})

	t.Run("exposes loaded metadata", func(t *testing.T) {
		r := openedRetriever(t, nil, &mockVectorIndex{})

		assert.Equal(t, "mock-embed", r.Metadata().ModelName)
		assert.Equal(t, 3, r.Metadata().ChunkCount)
	})
}

func TestRetriever_Retrieve_Semantic(t *testing.T) {
	t.Run("maps hits onto chunk records in rank order", func(t *testing.T) {
		index := &mockVectorIndex{hits: []driven.VectorHit{
			{Position: 2, Score: 0.91},
			{Position: 0, Score: 0.45},
		}}
		r := openedRetriever(t, &mockEmbeddingService{dims: 4}, index)

		results, mode, err := r.Retrieve(context.Background(), "docker layers", domain.RetrieveOptions{TopK: 2})

		require.NoError(t, err)
		assert.Equal(t, domain.RetrievalSemantic, mode)
		require.Len(t, results, 2)

		assert.Equal(t, "docker.md", results[0].Chunk.SourceFile)
		assert.Equal(t, 1, results[0].Rank)
		assert.InDelta(t, 0.91, results[0].Score, 1e-9)
		assert.Equal(t, "k8s.md", results[1].Chunk.SourceFile)
		assert.Equal(t, 2, results[1].Rank)
	})

	t.Run("negative similarity clamps to zero", func(t *testing.T) {
		index := &mockVectorIndex{hits: []driven.VectorHit{{Position: 0, Score: -0.3}}}
		r := openedRetriever(t, &mockEmbeddingService{dims: 4}, index)

		results, _, err := r.Retrieve(context.Background(), "unrelated", domain.RetrieveOptions{TopK: 1})

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, 0.0, results[0].Score)
	})

	t.Run("out of range positions are skipped", func(t *testing.T) {
		index := &mockVectorIndex{hits: []driven.VectorHit{
			{Position: 99, Score: 0.9},
			{Position: 1, Score: 0.5},
		}}
		r := openedRetriever(t, &mockEmbeddingService{dims: 4}, index)

		results, _, err := r.Retrieve(context.Background(), "query", domain.RetrieveOptions{TopK: 2})

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, 1, results[0].Rank)
		assert.Equal(t, "Deployments manage replica sets.", results[0].Chunk.Content)
	})

	t.Run("empty query returns no results without embedding", func(t *testing.T) {
		embedder := &mockEmbeddingService{dims: 4, embedErr: assert.AnError}
		r := openedRetriever(t, embedder, &mockVectorIndex{})

		results, mode, err := r.Retrieve(context.Background(), "   ", domain.RetrieveOptions{})

		require.NoError(t, err)
		assert.Equal(t, domain.RetrievalSemantic, mode)
		assert.Empty(t, results)
	})

	t.Run("embedding failure surfaces as error", func(t *testing.T) {
		embedder := &mockEmbeddingService{dims: 4}
		r := openedRetriever(t, embedder, &mockVectorIndex{})
		embedder.embedErr = assert.AnError

		_, _, err := r.Retrieve(context.Background(), "query", domain.RetrieveOptions{})

		assert.ErrorContains(t, err, "embed query")
	})

	t.Run("topK is clamped to chunk count", func(t *testing.T) {
		index := &mockVectorIndex{hits: []driven.VectorHit{
			{Position: 0, Score: 0.9},
			{Position: 1, Score: 0.8},
			{Position: 2, Score: 0.7},
		}}
		r := openedRetriever(t, &mockEmbeddingService{dims: 4}, index)

		results, _, err := r.Retrieve(context.Background(), "query", domain.RetrieveOptions{TopK: 50})

		require.NoError(t, err)
		assert.Len(t, results, 3)
	})
}

func TestRetriever_Retrieve_Lexical(t *testing.T) {
	t.Run("used when no embedder is configured", func(t *testing.T) {
		r := openedRetriever(t, nil, &mockVectorIndex{})

		results, mode, err := r.Retrieve(context.Background(), "docker images", domain.RetrieveOptions{TopK: 3})

		require.NoError(t, err)
		assert.Equal(t, domain.RetrievalLexical, mode)
		require.NotEmpty(t, results)
		assert.Equal(t, "docker.md", results[0].Chunk.SourceFile)
	})

	t.Run("all query words present scores 1.0", func(t *testing.T) {
		r := openedRetriever(t, nil, &mockVectorIndex{})

		results, _, err := r.Retrieve(context.Background(), "replica sets.", domain.RetrieveOptions{TopK: 1})

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Deployments manage replica sets.", results[0].Chunk.Content)
		assert.Equal(t, 1.0, results[0].Score)
	})

	t.Run("zero overlap chunks are excluded", func(t *testing.T) {
		r := openedRetriever(t, nil, &mockVectorIndex{})

		results, _, err := r.Retrieve(context.Background(), "terraform state locking", domain.RetrieveOptions{TopK: 3})

		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("ties keep original chunk order", func(t *testing.T) {
		r := openedRetriever(t, nil, &mockVectorIndex{})

		// "manage" only in chunk 1, "layered" only in chunk 2: equal
		// half-overlap scores, stable sort keeps chunk order.
		results, _, err := r.Retrieve(context.Background(), "manage layered", domain.RetrieveOptions{TopK: 3})

		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "k8s.md", results[0].Chunk.SourceFile)
		assert.Equal(t, "docker.md", results[1].Chunk.SourceFile)
	})

	t.Run("results truncate to topK", func(t *testing.T) {
		r := openedRetriever(t, nil, &mockVectorIndex{})

		results, _, err := r.Retrieve(context.Background(), "kubernetes deployments docker", domain.RetrieveOptions{TopK: 1})

		require.NoError(t, err)
		assert.Len(t, results, 1)
	})
}

func TestLexicalScore(t *testing.T) {
	queryWords := fieldSet("kubernetes pod")

	t.Run("all words present once scores exactly 1.0", func(t *testing.T) {
		score := lexicalScore(queryWords, "kubernetes pod", "a kubernetes cluster schedules each pod")

		assert.Equal(t, 1.0, score)
	})

	t.Run("half the words present scores 0.5", func(t *testing.T) {
		score := lexicalScore(queryWords, "kubernetes pod", "kubernetes only here")

		assert.InDelta(t, 0.5, score, 1e-9)
	})

	t.Run("substring occurrences boost the score", func(t *testing.T) {
		score := lexicalScore(fieldSet("pod"), "pod", "pod")
		boosted := lexicalScore(fieldSet("pod"), "pod", "pod pod")

		assert.InDelta(t, 1.0, score, 1e-9) // capped
		assert.Equal(t, 1.0, boosted)
	})

	t.Run("no shared words scores zero", func(t *testing.T) {
		score := lexicalScore(queryWords, "kubernetes pod", "terraform plan output")

		assert.Equal(t, 0.0, score)
	})

	t.Run("score is capped at 1.0", func(t *testing.T) {
		content := "pod pod pod pod pod pod pod pod pod pod pod pod"
		score := lexicalScore(fieldSet("pod"), "pod", content)

		assert.Equal(t, 1.0, score)
	})
}
