// Package chunker splits document text into overlapping chunks for
// embedding and retrieval.
package chunker

import "strings"

// DefaultChunkSize is the default maximum number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 200

// boundaries lists cut delimiters in preference order: sentence end,
// blank line, newline. A boundary is only taken when it lies past the
// window midpoint, which avoids pathologically tiny chunks.
var boundaries = []string{". ", "\n\n", "\n"}

// Chunker splits text into chunks of at most chunkSize characters,
// re-including overlap characters at the start of each following chunk.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the maximum chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// ChunkSize returns the configured maximum chunk size.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Split divides text into an ordered sequence of chunks covering the
// text front to back. Text no longer than the chunk size is returned
// as a single chunk. Every emitted chunk is non-empty, and only the
// final chunk of a document may fall short of a clean boundary.
func (c *Chunker) Split(text string) []string {
	if text == "" {
		return nil
	}

	if len(text) <= c.chunkSize {
		return []string{text}
	}

	estimated := (len(text) / (c.chunkSize - c.overlap)) + 1
	chunks := make([]string, 0, estimated)

	start := 0
	for start < len(text) {
		end := start + c.chunkSize
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}

		end = c.cutAt(text, start, end)
		chunks = append(chunks, text[start:end])

		// Re-include overlap characters, clamped so the window always
		// advances.
		next := end - c.overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// cutAt shrinks the window end to the best preceding boundary, provided
// that boundary lies past the window midpoint. Text with no usable
// boundary falls back to a fixed-size cut.
func (c *Chunker) cutAt(text string, start, end int) int {
	mid := start + c.chunkSize/2

	for _, delim := range boundaries {
		idx := strings.LastIndex(text[start:end], delim)
		if idx < 0 {
			continue
		}
		cut := start + idx + len(delim)
		if cut > mid {
			return cut
		}
	}

	return end
}
