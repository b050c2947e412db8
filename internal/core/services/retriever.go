package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cloudops-labs/opsrag-cli/internal/core/domain"
	"github.com/cloudops-labs/opsrag-cli/internal/core/ports/driven"
	"github.com/cloudops-labs/opsrag-cli/internal/logger"
)

// DefaultTopK is the number of chunks retrieved when the caller does
// not specify one.
const DefaultTopK = 3

// Retriever finds the chunks most relevant to a query. It ranks by
// embedding similarity when an embedding service is available and
// degrades to lexical word-overlap scoring when it is not.
//
// The index and chunk records are loaded once via Open and treated as
// read-only afterwards, so concurrent queries need no locking.
type Retriever struct {
	index    driven.VectorIndex
	chunks   driven.ChunkStore
	meta     driven.MetadataStore
	embedder driven.EmbeddingService // optional

	strictModel bool

	loaded   []domain.Chunk
	metadata domain.IndexMetadata
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*Retriever)

// WithStrictModel makes Open fail with domain.ErrModelMismatch when
// the runtime embedding model differs from the one recorded at build
// time, instead of just warning.
func WithStrictModel(strict bool) RetrieverOption {
	return func(r *Retriever) {
		r.strictModel = strict
	}
}

// NewRetriever creates a retriever over the persisted artifacts.
// The embedder may be nil, in which case retrieval is lexical only.
func NewRetriever(
	index driven.VectorIndex,
	chunks driven.ChunkStore,
	meta driven.MetadataStore,
	embedder driven.EmbeddingService,
	opts ...RetrieverOption,
) *Retriever {
	r := &Retriever{
		index:    index,
		chunks:   chunks,
		meta:     meta,
		embedder: embedder,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open loads the chunk records and metadata into memory and validates
// that the artifact set is consistent. Must be called before Retrieve.
func (r *Retriever) Open(ctx context.Context) error {
	meta, err := r.meta.Load(ctx)
	if err != nil {
		return fmt.Errorf("load metadata: %w", err)
	}
	r.metadata = *meta

	loaded, err := r.chunks.ListChunks(ctx)
	if err != nil {
		return fmt.Errorf("load chunks: %w", err)
	}
	if len(loaded) == 0 {
		return fmt.Errorf("chunk records: %w", domain.ErrDatabaseMissing)
	}
	r.loaded = loaded

	if got := r.index.Len(); got != len(loaded) {
		return fmt.Errorf("index has %d vectors but %d chunk records exist: %w",
			got, len(loaded), domain.ErrDatabaseMissing)
	}

	if r.embedder != nil {
		if err := r.checkModel(); err != nil {
			return err
		}
	}

	logger.Info("Loaded index: %d chunks, model %s", len(loaded), r.metadata.ModelName)
	return nil
}

// checkModel compares the runtime embedding model against the one the
// index was built with. Mismatched models produce meaningless
// similarity scores, so strict mode refuses to continue.
func (r *Retriever) checkModel() error {
	runtime := r.embedder.ModelName()
	if runtime == r.metadata.ModelName {
		return nil
	}
	if r.strictModel {
		return fmt.Errorf("index built with %q but querying with %q: %w",
			r.metadata.ModelName, runtime, domain.ErrModelMismatch)
	}
	logger.Warn("Embedding model mismatch: index built with %q, querying with %q; scores may be meaningless",
		r.metadata.ModelName, runtime)
	return nil
}

// Metadata returns the provenance record of the loaded index.
func (r *Retriever) Metadata() domain.IndexMetadata {
	return r.metadata
}

// Retrieve returns up to TopK chunks ranked by descending relevance.
// An empty result is a valid outcome, not an error.
func (r *Retriever) Retrieve(
	ctx context.Context, query string, opts domain.RetrieveOptions,
) ([]domain.RetrievedChunk, domain.RetrievalMode, error) {
	mode := domain.RetrievalSemantic
	if r.embedder == nil {
		mode = domain.RetrievalLexical
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.RetrievedChunk{}, mode, nil
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > len(r.loaded) {
		topK = len(r.loaded)
	}

	logger.Debug("Retrieve: query=%q, topK=%d, mode=%s", query, topK, mode)

	if mode == domain.RetrievalSemantic {
		results, err := r.semanticRetrieve(ctx, query, topK)
		if err != nil {
			return nil, mode, err
		}
		return results, mode, nil
	}

	return r.lexicalRetrieve(query, topK), mode, nil
}

// semanticRetrieve embeds the query and scans the vector index.
func (r *Retriever) semanticRetrieve(ctx context.Context, query string, topK int) ([]domain.RetrievedChunk, error) {
	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	normalize(embedding)

	hits, err := r.index.Search(ctx, embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	results := make([]domain.RetrievedChunk, 0, len(hits))
	for _, hit := range hits {
		if hit.Position < 0 || hit.Position >= len(r.loaded) {
			logger.Warn("Index position %d out of range, skipping", hit.Position)
			continue
		}
		results = append(results, domain.RetrievedChunk{
			Chunk: r.loaded[hit.Position],
			Rank:  len(results) + 1,
			Score: clampScore(hit.Score),
		})
	}

	return results, nil
}

// lexicalRetrieve scores every chunk by word overlap with the query.
// Chunks sharing no words with the query are excluded; ties keep the
// original chunk order.
func (r *Retriever) lexicalRetrieve(query string, topK int) []domain.RetrievedChunk {
	queryLower := strings.ToLower(query)
	queryWords := fieldSet(queryLower)
	if len(queryWords) == 0 {
		return []domain.RetrievedChunk{}
	}

	type scored struct {
		position int
		score    float64
	}

	var candidates []scored
	for i := range r.loaded {
		score := lexicalScore(queryWords, queryLower, r.loaded[i].Content)
		if score > 0 {
			candidates = append(candidates, scored{position: i, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	results := make([]domain.RetrievedChunk, len(candidates))
	for i, c := range candidates {
		results[i] = domain.RetrievedChunk{
			Chunk: r.loaded[c.position],
			Rank:  i + 1,
			Score: c.score,
		}
	}
	return results
}

// lexicalScore computes the fraction of query words present in the
// chunk's token set, boosted by 10% per verbatim occurrence of the
// full query string, capped at 1.0. Chunks sharing no words score 0.
func lexicalScore(queryWords map[string]struct{}, queryLower, content string) float64 {
	contentLower := strings.ToLower(content)
	contentWords := fieldSet(contentLower)

	matched := 0
	for word := range queryWords {
		if _, ok := contentWords[word]; ok {
			matched++
		}
	}
	if matched == 0 {
		return 0
	}

	score := float64(matched) / float64(len(queryWords))
	score *= 1 + 0.1*float64(strings.Count(contentLower, queryLower))

	if score > 1 {
		score = 1
	}
	return score
}

// fieldSet lowercases text and returns its unique whitespace-split
// words.
func fieldSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// clampScore maps an inner-product score into [0, 1]. Vectors are
// unit-normalised at build time, so the product is cosine similarity;
// negative similarity carries no ranking value here.
func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
