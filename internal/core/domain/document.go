package domain

import "time"

// Document represents a raw source document loaded for indexing.
// It is read-only once loaded and is the origin of all chunks.
type Document struct {
	// SourceFile is the file name the document was read from.
	SourceFile string

	// Content is the full text content.
	Content string

	// LoadedAt is when the document was read from disk.
	LoadedAt time.Time
}

// Chunk represents a contiguous, possibly overlapping substring of one
// document. Chunks are immutable after creation and are the unit of
// retrieval.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// SourceFile is a back-reference to the originating document.
	SourceFile string

	// Position is the ordinal position within the document's chunk
	// sequence.
	Position int

	// Content is the text content of this chunk.
	Content string

	// CharCount is the length of Content in bytes.
	CharCount int

	// Embedding is the vector representation for similarity search.
	// Populated at build time; all embeddings within one index share
	// the same dimension.
	Embedding []float32
}

// NewChunk creates a chunk with its derived character count.
func NewChunk(id, sourceFile string, position int, content string) Chunk {
	return Chunk{
		ID:         id,
		SourceFile: sourceFile,
		Position:   position,
		Content:    content,
		CharCount:  len(content),
	}
}
