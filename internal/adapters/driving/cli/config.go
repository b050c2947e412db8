package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cloudops-labs/opsrag-cli/internal/core/ports/driven"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change opsrag configuration.

Well-known keys:
  embedding.provider      embedding adapter: ollama or openai
  embedding.model         embedding model identifier
  embedding.base_url      embedding API base URL override
  llm.model               generation model identifier
  llm.base_url            generation API base URL override
  chunking.size           default maximum chunk size in characters
  chunking.overlap        default chunk overlap in characters
  retrieval.strict_model  fail on embedding model mismatch`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

var wellKnownKeys = []string{
	driven.ConfigEmbeddingProvider,
	driven.ConfigEmbeddingModel,
	driven.ConfigEmbeddingBaseURL,
	driven.ConfigLLMModel,
	driven.ConfigLLMBaseURL,
	driven.ConfigChunkSize,
	driven.ConfigChunkOverlap,
	driven.ConfigStrictModel,
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cmd.Printf("Configuration (%s):\n\n", configStore.Path())

	keys := append([]string(nil), wellKnownKeys...)
	sort.Strings(keys)

	for _, key := range keys {
		value, ok := configStore.Get(key)
		if !ok {
			cmd.Printf("  %-24s (not set)\n", key)
			continue
		}
		cmd.Printf("  %-24s %v\n", key, value)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	value, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("key %q is not set", args[0])
	}
	cmd.Printf("%v\n", value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]

	// Store booleans and integers typed so GetInt/GetBool work.
	var value any = raw
	if b, err := strconv.ParseBool(raw); err == nil && (raw == "true" || raw == "false") {
		value = b
	} else if n, err := strconv.Atoi(raw); err == nil {
		value = int64(n)
	}

	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	cmd.Printf("Set %s = %v\n", key, value)
	return nil
}
