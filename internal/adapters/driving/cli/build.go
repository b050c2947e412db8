package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudops-labs/opsrag-cli/internal/adapters/driven/index/flat"
	"github.com/cloudops-labs/opsrag-cli/internal/adapters/driven/storage/meta"
	"github.com/cloudops-labs/opsrag-cli/internal/adapters/driven/storage/sqlite"
	"github.com/cloudops-labs/opsrag-cli/internal/connectors/filesystem"
	"github.com/cloudops-labs/opsrag-cli/internal/core/domain"
	"github.com/cloudops-labs/opsrag-cli/internal/core/ports/driven"
	"github.com/cloudops-labs/opsrag-cli/internal/core/ports/driving"
	"github.com/cloudops-labs/opsrag-cli/internal/core/services"
	"github.com/cloudops-labs/opsrag-cli/internal/logger"
)

var (
	buildDocsDir      string
	buildChunkSize    int
	buildChunkOverlap int
	buildWatch        bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the knowledge base from a docs directory",
	Long: `Reads documents from the docs directory, splits them into overlapping
chunks, embeds each chunk and persists the vector index, chunk records
and metadata. Rebuilding fully replaces the previous knowledge base.

With --watch, stays running and rebuilds whenever a document changes.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildDocsDir, "docs", "d", "docs", "directory of source documents")
	buildCmd.Flags().IntVar(&buildChunkSize, "chunk-size", 0, "maximum chunk size in characters")
	buildCmd.Flags().IntVar(&buildChunkOverlap, "overlap", 0, "characters of overlap between chunks")
	buildCmd.Flags().BoolVarP(&buildWatch, "watch", "w", false, "rebuild when documents change")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	embedder, err := newEmbedder("")
	if err != nil {
		return fmt.Errorf("build requires an embedding service: %w", err)
	}
	defer embedder.Close()

	if err := embedder.Ping(ctx); err != nil {
		return fmt.Errorf("embedding service unreachable: %w", err)
	}

	source := filesystem.New(buildDocsDir)
	defer source.Close()

	opts := buildOptions()

	if err := buildOnce(ctx, cmd, source, embedder, opts); err != nil {
		return err
	}

	if !buildWatch {
		return nil
	}

	cmd.Printf("Watching %s for changes (Ctrl-C to stop)...\n", buildDocsDir)
	changes, err := source.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch docs directory: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case changed, ok := <-changes:
			if !ok {
				return nil
			}
			logger.Info("Change detected: %s", changed)
			cmd.Printf("Rebuilding after change to %s...\n", changed)
			if err := buildOnce(ctx, cmd, source, embedder, opts); err != nil {
				// Keep watching; a half-edited docs dir is normal.
				cmd.PrintErrf("Rebuild failed: %v\n", err)
			}
		}
	}
}

// buildOptions resolves chunking parameters: flags take precedence
// over configuration, which takes precedence over chunker defaults.
func buildOptions() driving.BuildOptions {
	opts := driving.BuildOptions{
		ChunkSize:    buildChunkSize,
		ChunkOverlap: buildChunkOverlap,
	}
	if opts.ChunkSize == 0 {
		opts.ChunkSize = configStore.GetInt(driven.ConfigChunkSize)
	}
	if opts.ChunkOverlap == 0 {
		opts.ChunkOverlap = configStore.GetInt(driven.ConfigChunkOverlap)
	}
	return opts
}

func buildOnce(
	ctx context.Context,
	cmd *cobra.Command,
	source driven.DocumentSource,
	embedder driven.EmbeddingService,
	opts driving.BuildOptions,
) error {
	indexPath, chunksPath, metaPath := artifactPaths()

	chunkStore, err := sqlite.NewStore(chunksPath)
	if err != nil {
		return fmt.Errorf("open chunk store: %w", err)
	}
	defer chunkStore.Close()

	metaStore, err := meta.NewStore(metaPath)
	if err != nil {
		return fmt.Errorf("open metadata store: %w", err)
	}

	builder := services.NewIndexBuilder(source, embedder, chunkStore, metaStore,
		func(dimension int) (driven.VectorIndex, error) { return flat.New(dimension) },
		indexPath,
	)

	metadata, err := builder.Build(ctx, opts)
	if err != nil {
		if errors.Is(err, domain.ErrNoChunks) {
			return fmt.Errorf("no chunks produced from %s: add .md or .txt files and retry", buildDocsDir)
		}
		return err
	}

	cmd.Printf("Knowledge base built: %d documents, %d chunks (model %s, dimension %d)\n",
		metadata.DocumentCount, metadata.ChunkCount, metadata.ModelName, metadata.Dimension)
	return nil
}
