package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cloudops-labs/opsrag-cli/internal/adapters/driven/storage/meta"
	"github.com/cloudops-labs/opsrag-cli/internal/core/domain"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show knowledge base status",
	Long:  `Shows whether the knowledge base exists and its build provenance.`,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output status as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if !databaseExists() {
		if statusJSON {
			cmd.Println(`{"built": false}`)
			return nil
		}
		cmd.Println("Knowledge base: not built")
		cmd.Println("Run 'opsrag build --docs <dir>' to create one.")
		return nil
	}

	_, _, metaPath := artifactPaths()
	metaStore, err := meta.NewStore(metaPath)
	if err != nil {
		return fmt.Errorf("open metadata store: %w", err)
	}

	metadata, err := metaStore.Load(context.Background())
	if err != nil {
		return fmt.Errorf("load metadata: %w", err)
	}

	if statusJSON {
		return outputStatusJSON(cmd, metadata)
	}
	return outputStatusText(cmd, metadata)
}

func outputStatusJSON(cmd *cobra.Command, metadata *domain.IndexMetadata) error {
	out := struct {
		Built bool `json:"built"`
		*domain.IndexMetadata
	}{Built: true, IndexMetadata: metadata}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputStatusText(cmd *cobra.Command, metadata *domain.IndexMetadata) error {
	cmd.Println("Knowledge base: built")
	cmd.Printf("  Build ID:    %s\n", metadata.BuildID)
	cmd.Printf("  Created:     %s\n", metadata.CreatedAt.Local().Format(time.RFC1123))
	cmd.Printf("  Model:       %s (dimension %d)\n", metadata.ModelName, metadata.Dimension)
	cmd.Printf("  Documents:   %d\n", metadata.DocumentCount)
	cmd.Printf("  Chunks:      %d (size %d, overlap %d)\n",
		metadata.ChunkCount, metadata.ChunkSize, metadata.ChunkOverlap)
	cmd.Printf("  Sources:     %s\n", strings.Join(metadata.SourceFiles, ", "))
	cmd.Printf("  Data dir:    %s\n", dataDirFlag)
	return nil
}
