package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cloudops-labs/opsrag-cli/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the query to match against the knowledge base"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"maximum number of chunks to return (default 3)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Mode    string               `json:"mode"`
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single retrieved chunk.
type SearchResultOutput struct {
	Rank       int     `json:"rank"`
	SourceFile string  `json:"source_file"`
	Score      float64 `json:"score"`
	Content    string  `json:"content"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the CloudOps question to answer"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"maximum number of context chunks (default 3)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer    string               `json:"answer"`
	Generated bool                 `json:"generated"`
	Model     string               `json:"model,omitempty"`
	Mode      string               `json:"mode"`
	Sources   []SearchResultOutput `json:"sources"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Retrieve the most relevant knowledge base chunks for a query",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a CloudOps question from the knowledge base",
	}, s.handleAsk)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	results, mode, err := s.ports.Ask.Retrieve(ctx, input.Query, domain.RetrieveOptions{TopK: input.TopK})
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Mode:    mode.String(),
		Results: toResultOutputs(results),
		Count:   len(results),
	}
	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Ask.Ask(ctx, input.Question, domain.RetrieveOptions{TopK: input.TopK})
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:    answer.Text,
		Generated: answer.Generated,
		Model:     answer.Model,
		Mode:      answer.Mode.String(),
		Sources:   toResultOutputs(answer.Sources),
	}
	return nil, output, nil
}

func toResultOutputs(results []domain.RetrievedChunk) []SearchResultOutput {
	outputs := make([]SearchResultOutput, len(results))
	for i, result := range results {
		outputs[i] = SearchResultOutput{
			Rank:       result.Rank,
			SourceFile: result.Chunk.SourceFile,
			Score:      result.Score,
			Content:    result.Chunk.Content,
		}
	}
	return outputs
}
