package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudops-labs/opsrag-cli/internal/core/domain"
	"github.com/cloudops-labs/opsrag-cli/internal/core/ports/driven"
	"github.com/cloudops-labs/opsrag-cli/internal/core/ports/driving"
	"github.com/cloudops-labs/opsrag-cli/internal/logger"
)

// Ensure Answerer implements the interface.
var _ driving.AskService = (*Answerer)(nil)

// Generation parameters. Low temperature keeps operational answers
// reproducible; the token cap bounds cost per question.
const (
	answerMaxTokens   = 750
	answerTemperature = 0.1
)

// Answerer synthesises answers from retrieved chunks. When the
// generation service is unavailable or fails, it degrades to a
// templated summary of the retrieved sources instead of erroring.
type Answerer struct {
	*Retriever

	llm     driven.LLMService // optional
	prompts driven.PromptStore
}

// NewAnswerer creates an answer service on top of a retriever.
// The llm may be nil, in which case every answer uses the fallback.
func NewAnswerer(retriever *Retriever, llm driven.LLMService, prompts driven.PromptStore) *Answerer {
	return &Answerer{
		Retriever: retriever,
		llm:       llm,
		prompts:   prompts,
	}
}

// Ask retrieves relevant chunks and produces an answer. Generation
// failures are recovered into the fallback path; only retrieval
// errors surface to the caller.
func (a *Answerer) Ask(ctx context.Context, query string, opts domain.RetrieveOptions) (*domain.Answer, error) {
	results, mode, err := a.Retrieve(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	answer := &domain.Answer{
		Mode:    mode,
		Sources: results,
	}

	if a.llm == nil {
		logger.Debug("No generation service configured, using fallback answer")
		answer.Text = a.fallbackAnswer(query, results)
		return answer, nil
	}

	text, err := a.generate(ctx, query, results)
	if err != nil {
		logger.Warn("Answer generation failed: %v (using fallback)", err)
		answer.Text = a.fallbackAnswer(query, results)
		return answer, nil
	}

	answer.Text = text
	answer.Generated = true
	answer.Model = a.llm.ModelName()
	return answer, nil
}

// generate calls the generation service with the retrieved context.
func (a *Answerer) generate(ctx context.Context, query string, results []domain.RetrievedChunk) (string, error) {
	systemPrompt, err := a.prompts.Load(driven.PromptAnswerSystem)
	if err != nil {
		return "", fmt.Errorf("load system prompt: %w", err)
	}
	userTemplate, err := a.prompts.Load(driven.PromptAnswerUser)
	if err != nil {
		return "", fmt.Errorf("load user prompt: %w", err)
	}

	userPrompt := fmt.Sprintf(userTemplate, formatContext(results), query)

	logger.Debug("Generating answer with %s (%d context chunks)", a.llm.ModelName(), len(results))

	text, err := a.llm.Chat(ctx, []driven.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}, driven.ChatOptions{
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	})
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("generation returned empty answer")
	}
	return text, nil
}

// formatContext renders retrieved chunks into the prompt context
// block, each chunk prefixed by its source file.
func formatContext(results []domain.RetrievedChunk) string {
	parts := make([]string, len(results))
	for i, result := range results {
		parts[i] = fmt.Sprintf("%s:\n%s\n", result.Chunk.SourceFile, result.Chunk.Content)
	}
	return strings.Join(parts, "\n")
}

// fallbackAnswer builds a templated answer from the retrieved sources
// when generation is unavailable.
func (a *Answerer) fallbackAnswer(query string, results []domain.RetrievedChunk) string {
	if len(results) == 0 {
		return fmt.Sprintf("I found information related to %q but couldn't generate a comprehensive answer. "+
			"Please check the retrieved context below for relevant details.", query)
	}

	seen := make(map[string]bool)
	var sources []string
	for _, result := range results {
		if !seen[result.Chunk.SourceFile] {
			seen[result.Chunk.SourceFile] = true
			sources = append(sources, result.Chunk.SourceFile)
		}
	}

	return fmt.Sprintf("Based on the available CloudOps documentation, I found relevant information in: %s.\n\n"+
		"For detailed information about %q, please refer to the context sections below. "+
		"The documentation covers practical aspects of Cloud & DevOps engineering including "+
		"Kubernetes, Docker, infrastructure management, and best practices.\n\n"+
		"Note: full AI response temporarily unavailable - showing context-based results.",
		strings.Join(sources, ", "), query)
}
