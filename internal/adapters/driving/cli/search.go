package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cloudops-labs/opsrag-cli/internal/core/domain"
)

var (
	searchTopK    int
	searchJSON    bool
	searchLexical bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the knowledge base without generating an answer",
	Long: `Retrieves the most relevant chunks for the query and prints them with
their similarity scores. Useful for inspecting what 'ask' would hand
to the generation model.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "number of chunks to retrieve (default 3)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchLexical, "lexical", false, "force lexical retrieval")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	ctx := cmd.Context()

	askService, cleanup, err := openAskService(ctx, searchLexical, false)
	if err != nil {
		return err
	}
	defer cleanup()

	results, mode, err := askService.Retrieve(ctx, query, domain.RetrieveOptions{TopK: searchTopK})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results, mode)
	}
	return outputSearchText(cmd, results, mode)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.RetrievedChunk, mode domain.RetrievalMode) error {
	out := struct {
		Mode    string         `json:"mode"`
		Results []sourceOutput `json:"results"`
	}{
		Mode:    mode.String(),
		Results: make([]sourceOutput, len(results)),
	}
	for i, result := range results {
		out.Results[i] = sourceOutput{
			Rank:       result.Rank,
			SourceFile: result.Chunk.SourceFile,
			Score:      result.Score,
			Content:    result.Chunk.Content,
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, results []domain.RetrievedChunk, mode domain.RetrievalMode) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Printf("Results (%s retrieval):\n\n", mode)
	for _, result := range results {
		cmd.Printf("  [%d] %s (%.2f)\n", result.Rank, result.Chunk.SourceFile, result.Score)

		snippet := result.Chunk.Content
		if len(snippet) > 200 {
			snippet = snippet[:200] + "..."
		}
		cmd.Printf("      %s\n\n", strings.ReplaceAll(snippet, "\n", "\n      "))
	}
	return nil
}
