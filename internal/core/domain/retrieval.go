package domain

// RetrievalMode identifies how chunks were ranked for a query.
type RetrievalMode int

const (
	// RetrievalSemantic ranks chunks by embedding similarity.
	RetrievalSemantic RetrievalMode = iota

	// RetrievalLexical ranks chunks by word overlap. Used when no
	// embedding service is available; a strictly degraded substitute.
	RetrievalLexical
)

// String returns a human-readable mode name.
func (m RetrievalMode) String() string {
	switch m {
	case RetrievalSemantic:
		return "semantic"
	case RetrievalLexical:
		return "lexical"
	default:
		return "unknown"
	}
}

// RetrieveOptions configures a retrieval query.
type RetrieveOptions struct {
	// TopK is the maximum number of chunks to return.
	TopK int
}

// RetrievedChunk is a single retrieval hit.
type RetrievedChunk struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Rank is the 1-based position in the result list.
	Rank int

	// Score is the similarity score in [0, 1], higher is more relevant.
	Score float64
}

// Answer is the result of answer synthesis for a query.
type Answer struct {
	// Text is the answer body.
	Text string

	// Generated reports whether Text came from the generation
	// collaborator. False means the templated fallback was used.
	Generated bool

	// Model is the generation model identifier, empty for fallback
	// answers.
	Model string

	// Mode is how the supporting chunks were retrieved.
	Mode RetrievalMode

	// Sources are the chunks the answer is based on, in rank order.
	Sources []RetrievedChunk
}
