// Package cli implements the opsrag command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	configfile "github.com/cloudops-labs/opsrag-cli/internal/adapters/driven/config/file"
	"github.com/cloudops-labs/opsrag-cli/internal/adapters/driven/embedding/ollama"
	"github.com/cloudops-labs/opsrag-cli/internal/adapters/driven/embedding/openai"
	"github.com/cloudops-labs/opsrag-cli/internal/adapters/driven/index/flat"
	"github.com/cloudops-labs/opsrag-cli/internal/adapters/driven/llm/openrouter"
	"github.com/cloudops-labs/opsrag-cli/internal/adapters/driven/storage/meta"
	"github.com/cloudops-labs/opsrag-cli/internal/adapters/driven/storage/sqlite"
	"github.com/cloudops-labs/opsrag-cli/internal/core/domain"
	"github.com/cloudops-labs/opsrag-cli/internal/core/ports/driven"
	"github.com/cloudops-labs/opsrag-cli/internal/core/services"
	"github.com/cloudops-labs/opsrag-cli/internal/logger"
)

// Artifact file names inside the data directory. The three form a
// set: all must exist for the database to count as present.
const (
	indexFileName  = "index.bin"
	chunksFileName = "chunks.db"
	metaFileName   = "metadata.toml"
)

var (
	version = "dev"

	verboseFlag bool
	dataDirFlag string

	configStore driven.ConfigStore
	promptStore driven.PromptStore
)

var rootCmd = &cobra.Command{
	Use:   "opsrag",
	Short: "CloudOps knowledge base assistant",
	Long: `opsrag answers Cloud & DevOps questions from your own documentation.

Build a local knowledge base from a directory of markdown files, then
ask questions against it. Retrieval uses embedding similarity with a
lexical fallback; answers are generated through OpenRouter when an API
key is configured.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verboseFlag)
		return initStores()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory (default ~/.opsrag)")
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context, v string) error {
	version = v
	return rootCmd.ExecuteContext(ctx)
}

// initStores resolves the data directory and loads configuration.
func initStores() error {
	if dataDirFlag == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("get home directory: %w", err)
		}
		dataDirFlag = filepath.Join(home, ".opsrag")
	}

	cs, err := configfile.NewConfigStore(dataDirFlag)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	if err := cs.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	configStore = cs

	ps, err := configfile.NewPromptStore(filepath.Join(dataDirFlag, "prompts"))
	if err != nil {
		return fmt.Errorf("open prompts: %w", err)
	}
	promptStore = ps

	return nil
}

func artifactPaths() (indexPath, chunksPath, metaPath string) {
	return filepath.Join(dataDirFlag, indexFileName),
		filepath.Join(dataDirFlag, chunksFileName),
		filepath.Join(dataDirFlag, metaFileName)
}

// databaseExists reports whether all three persisted artifacts are
// present. A partial set is treated the same as a missing one.
func databaseExists() bool {
	indexPath, chunksPath, metaPath := artifactPaths()
	for _, path := range []string{indexPath, chunksPath, metaPath} {
		if _, err := os.Stat(path); err != nil {
			return false
		}
	}
	return true
}

// newEmbedder builds the embedding service selected in configuration.
// fallbackModel is used when no model is configured, so queries embed
// with the same model the index was built with.
func newEmbedder(fallbackModel string) (driven.EmbeddingService, error) {
	provider := configStore.GetString(driven.ConfigEmbeddingProvider)
	if provider == "" {
		provider = "ollama"
	}
	model := configStore.GetString(driven.ConfigEmbeddingModel)
	if model == "" {
		model = fallbackModel
	}

	switch provider {
	case "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL: configStore.GetString(driven.ConfigEmbeddingBaseURL),
			Model:   model,
		}), nil

	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("embedding provider %q requires OPENAI_API_KEY", provider)
		}
		return openai.NewEmbeddingService(openai.Config{
			APIKey:  apiKey,
			BaseURL: configStore.GetString(driven.ConfigEmbeddingBaseURL),
			Model:   model,
		})

	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}

// newLLM builds the generation service, or nil when no API key is
// configured. A nil LLM is not an error: answers fall back to a
// templated context summary.
func newLLM() driven.LLMService {
	apiKey := os.Getenv("OPENROUTER_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("API_KEY")
	}
	if apiKey == "" {
		logger.Debug("No OpenRouter API key set, generation disabled")
		return nil
	}

	svc, err := openrouter.NewLLMService(openrouter.Config{
		APIKey:  apiKey,
		BaseURL: configStore.GetString(driven.ConfigLLMBaseURL),
		Model:   configStore.GetString(driven.ConfigLLMModel),
	})
	if err != nil {
		logger.Warn("Generation service unavailable: %v", err)
		return nil
	}
	return svc
}

// openAskService loads the persisted database and wires the full ask
// pipeline. lexicalOnly skips the embedding service so retrieval
// degrades to word-overlap scoring.
func openAskService(ctx context.Context, lexicalOnly, strictModel bool) (*services.Answerer, func(), error) {
	if !databaseExists() {
		return nil, nil, fmt.Errorf("%w: run 'opsrag build' first", domain.ErrDatabaseMissing)
	}

	indexPath, chunksPath, metaPath := artifactPaths()

	index, err := flat.Open(indexPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open index: %w", err)
	}

	chunkStore, err := sqlite.NewStore(chunksPath)
	if err != nil {
		index.Close()
		return nil, nil, fmt.Errorf("open chunk store: %w", err)
	}

	metaStore, err := meta.NewStore(metaPath)
	if err != nil {
		index.Close()
		chunkStore.Close()
		return nil, nil, fmt.Errorf("open metadata store: %w", err)
	}

	// Queries embed with the model recorded at build time unless
	// configuration overrides it.
	var builtModel string
	if md, err := metaStore.Load(ctx); err == nil {
		builtModel = md.ModelName
	}

	var embedder driven.EmbeddingService
	if !lexicalOnly {
		embedder, err = newEmbedder(builtModel)
		if err != nil {
			logger.Warn("Embedding service unavailable: %v (using lexical retrieval)", err)
			embedder = nil
		} else if err := embedder.Ping(ctx); err != nil {
			logger.Warn("Embedding service unreachable: %v (using lexical retrieval)", err)
			embedder.Close()
			embedder = nil
		}
	}

	strict := strictModel || configStore.GetBool(driven.ConfigStrictModel)
	retriever := services.NewRetriever(index, chunkStore, metaStore, embedder,
		services.WithStrictModel(strict))

	llm := newLLM()

	cleanup := func() {
		if llm != nil {
			llm.Close()
		}
		if embedder != nil {
			embedder.Close()
		}
		chunkStore.Close()
		index.Close()
	}

	if err := retriever.Open(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}

	return services.NewAnswerer(retriever, llm, promptStore), cleanup, nil
}
