package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cloudops-labs/opsrag-cli/internal/core/domain"
)

var (
	askTopK        int
	askJSON        bool
	askLexical     bool
	askStrictModel bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question against the knowledge base",
	Long: `Retrieves the most relevant chunks for the question and generates an
answer through OpenRouter. Without an API key, or when the generation
call fails, a templated summary of the retrieved sources is shown
instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to retrieve (default 3)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	askCmd.Flags().BoolVar(&askLexical, "lexical", false, "force lexical retrieval")
	askCmd.Flags().BoolVar(&askStrictModel, "strict-model", false, "fail on embedding model mismatch")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	ctx := cmd.Context()

	askService, cleanup, err := openAskService(ctx, askLexical, askStrictModel)
	if err != nil {
		return err
	}
	defer cleanup()

	answer, err := askService.Ask(ctx, query, domain.RetrieveOptions{TopK: askTopK})
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAskJSON(cmd, answer)
	}
	return outputAskText(cmd, answer)
}

type askOutput struct {
	Answer    string         `json:"answer"`
	Generated bool           `json:"generated"`
	Model     string         `json:"model,omitempty"`
	Mode      string         `json:"mode"`
	Sources   []sourceOutput `json:"sources"`
}

type sourceOutput struct {
	Rank       int     `json:"rank"`
	SourceFile string  `json:"source_file"`
	Score      float64 `json:"score"`
	Content    string  `json:"content"`
}

func outputAskJSON(cmd *cobra.Command, answer *domain.Answer) error {
	out := askOutput{
		Answer:    answer.Text,
		Generated: answer.Generated,
		Model:     answer.Model,
		Mode:      answer.Mode.String(),
		Sources:   make([]sourceOutput, len(answer.Sources)),
	}
	for i, source := range answer.Sources {
		out.Sources[i] = sourceOutput{
			Rank:       source.Rank,
			SourceFile: source.Chunk.SourceFile,
			Score:      source.Score,
			Content:    source.Chunk.Content,
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAskText(cmd *cobra.Command, answer *domain.Answer) error {
	cmd.Println(answer.Text)
	cmd.Println()

	if len(answer.Sources) == 0 {
		cmd.Println("No relevant sources found in the knowledge base.")
		return nil
	}

	cmd.Println("Sources:")
	for _, source := range answer.Sources {
		cmd.Printf("  [%d] %s (relevance: %.0f%%)\n",
			source.Rank, source.Chunk.SourceFile, source.Score*100)
	}

	if answer.Generated {
		cmd.Printf("\nPowered by %s, %d sources used (%s retrieval)\n",
			answer.Model, len(answer.Sources), answer.Mode)
	} else {
		cmd.Printf("\nContext-based answer, %d sources used (%s retrieval)\n",
			len(answer.Sources), answer.Mode)
	}
	return nil
}
