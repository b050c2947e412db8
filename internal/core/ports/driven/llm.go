package driven

import "context"

// LLMService is the generation collaborator that turns retrieved context
// and a question into a natural-language answer.
// This is an optional service - when nil, answers fall back to the
// templated source summary.
//
// Implementations may include:
//   - OpenRouter (chat completions over hosted models)
//   - OpenAI (GPT-4o family)
//   - Ollama (local models)
type LLMService interface {
	// Chat conducts a conversation and returns the assistant reply.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
