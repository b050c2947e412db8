package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/cloudops-labs/opsrag-cli/internal/chunker"
	"github.com/cloudops-labs/opsrag-cli/internal/core/domain"
	"github.com/cloudops-labs/opsrag-cli/internal/core/ports/driven"
	"github.com/cloudops-labs/opsrag-cli/internal/core/ports/driving"
	"github.com/cloudops-labs/opsrag-cli/internal/logger"
)

// Ensure IndexBuilder implements the interface.
var _ driving.BuildService = (*IndexBuilder)(nil)

// IndexFactory creates an empty vector index of the given dimension.
// Injected so the service stays independent of the index file format.
type IndexFactory func(dimension int) (driven.VectorIndex, error)

// IndexBuilder turns source documents into the persisted retrieval
// artifacts: vector index, chunk records and metadata. The three are
// written as a set, metadata last, so an interrupted build never
// leaves a loadable-looking database behind.
type IndexBuilder struct {
	source    driven.DocumentSource
	embedder  driven.EmbeddingService
	chunks    driven.ChunkStore
	meta      driven.MetadataStore
	newIndex  IndexFactory
	indexPath string
}

// NewIndexBuilder creates a build service. All collaborators are
// required; the builder has no degraded mode.
func NewIndexBuilder(
	source driven.DocumentSource,
	embedder driven.EmbeddingService,
	chunks driven.ChunkStore,
	meta driven.MetadataStore,
	newIndex IndexFactory,
	indexPath string,
) *IndexBuilder {
	return &IndexBuilder{
		source:    source,
		embedder:  embedder,
		chunks:    chunks,
		meta:      meta,
		newIndex:  newIndex,
		indexPath: indexPath,
	}
}

// Build runs one full build pass. A rebuild is a complete replacement
// of the previous artifacts, never an incremental update.
func (b *IndexBuilder) Build(ctx context.Context, opts driving.BuildOptions) (*domain.IndexMetadata, error) {
	logger.Section("Index Build")

	docs, err := b.source.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	logger.Info("Loaded %d documents", len(docs))

	if len(docs) == 0 {
		return nil, domain.ErrNoChunks
	}

	splitter := chunker.New(
		chunker.WithChunkSize(opts.ChunkSize),
		chunker.WithOverlap(opts.ChunkOverlap),
	)

	var (
		allChunks   []domain.Chunk
		texts       []string
		sourceFiles []string
	)
	for _, doc := range docs {
		pieces := splitter.Split(doc.Content)
		logger.Debug("Chunked %s: %d chunks", doc.SourceFile, len(pieces))

		for i, piece := range pieces {
			chunk := domain.NewChunk(uuid.NewString(), doc.SourceFile, i, piece)
			allChunks = append(allChunks, chunk)
			texts = append(texts, piece)
		}
		sourceFiles = append(sourceFiles, doc.SourceFile)
	}

	if len(allChunks) == 0 {
		logger.Warn("No chunks produced from %d documents", len(docs))
		return nil, domain.ErrNoChunks
	}
	logger.Info("Produced %d chunks from %d documents", len(allChunks), len(docs))

	logger.Debug("Embedding %d chunks with %s...", len(texts), b.embedder.ModelName())
	embeddings, err := b.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(embeddings) != len(allChunks) {
		return nil, fmt.Errorf("embedding count mismatch: got %d for %d chunks", len(embeddings), len(allChunks))
	}

	dimension := len(embeddings[0])
	for i := range embeddings {
		normalize(embeddings[i])
		allChunks[i].Embedding = embeddings[i]
	}

	index, err := b.newIndex(dimension)
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	defer index.Close()

	if err := index.Add(ctx, embeddings); err != nil {
		return nil, fmt.Errorf("populate index: %w", err)
	}

	// Metadata goes last: its presence marks the artifact set complete.
	if err := index.Save(b.indexPath); err != nil {
		return nil, fmt.Errorf("save index: %w", err)
	}
	if err := b.chunks.SaveChunks(ctx, allChunks); err != nil {
		return nil, fmt.Errorf("save chunks: %w", err)
	}

	metadata := domain.IndexMetadata{
		BuildID:       uuid.NewString(),
		CreatedAt:     time.Now().UTC(),
		ModelName:     b.embedder.ModelName(),
		Dimension:     dimension,
		ChunkSize:     splitter.ChunkSize(),
		ChunkOverlap:  splitter.Overlap(),
		DocumentCount: len(docs),
		ChunkCount:    len(allChunks),
		SourceFiles:   sourceFiles,
	}
	if err := b.meta.Save(ctx, metadata); err != nil {
		return nil, fmt.Errorf("save metadata: %w", err)
	}

	logger.Info("Build complete: %d chunks, dimension %d", metadata.ChunkCount, metadata.Dimension)
	return &metadata, nil
}

// normalize scales a vector to unit length in place, making inner
// products equal cosine similarity. Zero vectors are left untouched.
func normalize(vector []float32) {
	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vector {
		vector[i] = float32(float64(vector[i]) / norm)
	}
}
