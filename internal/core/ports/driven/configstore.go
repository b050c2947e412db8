package driven

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files) and type conversion.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	// Returns 0 if key doesn't exist or isn't an integer.
	GetInt(key string) int

	// GetBool retrieves a boolean configuration value.
	// Returns false if key doesn't exist or isn't a boolean.
	GetBool(key string) bool

	// Set stores a configuration value.
	// The value is persisted immediately.
	Set(key string, value any) error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}

// Well-known configuration keys.
const (
	// ConfigEmbeddingProvider selects the embedding adapter ("ollama" or "openai").
	ConfigEmbeddingProvider = "embedding.provider"

	// ConfigEmbeddingModel is the embedding model identifier.
	ConfigEmbeddingModel = "embedding.model"

	// ConfigEmbeddingBaseURL overrides the embedding API base URL.
	ConfigEmbeddingBaseURL = "embedding.base_url"

	// ConfigLLMModel is the generation model identifier.
	ConfigLLMModel = "llm.model"

	// ConfigLLMBaseURL overrides the generation API base URL.
	ConfigLLMBaseURL = "llm.base_url"

	// ConfigChunkSize is the default maximum chunk length in characters.
	ConfigChunkSize = "chunking.size"

	// ConfigChunkOverlap is the default chunk overlap in characters.
	ConfigChunkOverlap = "chunking.overlap"

	// ConfigStrictModel makes loading fail on embedding model mismatch
	// instead of warning.
	ConfigStrictModel = "retrieval.strict_model"
)
