package driven

import "context"

// VectorIndex provides nearest-neighbour search over embedding vectors.
// Position i in the index corresponds to position i in the persisted
// chunk records; that correspondence must never be broken by editing
// either collection independently.
//
// The index is append-only within one build pass; a rebuild is a full
// replace of the persisted file.
type VectorIndex interface {
	// Add appends vectors to the index in order. All vectors must share
	// the index dimension.
	Add(ctx context.Context, vectors [][]float32) error

	// Search finds the k highest-scoring vectors for the query.
	// Scores are inner products; with unit-normalised vectors this
	// equals cosine similarity.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of vectors in the index.
	Len() int

	// Dimension returns the vector size shared by all entries.
	Dimension() int

	// Save persists the index to the given path.
	Save(path string) error

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Position is the vector's ordinal position in the index, which
	// maps positionally onto the chunk records.
	Position int

	// Score is the similarity score, higher is more relevant.
	Score float64
}
