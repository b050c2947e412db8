package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudops-labs/opsrag-cli/internal/core/domain"
	"github.com/cloudops-labs/opsrag-cli/internal/core/ports/driven"
)

func TestAnswerer_Ask(t *testing.T) {
	t.Run("generates an answer from retrieved context", func(t *testing.T) {
		index := &mockVectorIndex{hits: []driven.VectorHit{
			{Position: 0, Score: 0.8},
			{Position: 1, Score: 0.6},
		}}
		retriever := openedRetriever(t, &mockEmbeddingService{dims: 4}, index)
		llm := &mockLLMService{reply: "Use kubectl apply with a deployment manifest."}

		answerer := NewAnswerer(retriever, llm, &mockPromptStore{})
		answer, err := answerer.Ask(context.Background(), "how do I deploy?", domain.RetrieveOptions{TopK: 2})

		require.NoError(t, err)
		assert.Equal(t, "Use kubectl apply with a deployment manifest.", answer.Text)
		assert.True(t, answer.Generated)
		assert.Equal(t, "mock-llm", answer.Model)
		assert.Equal(t, domain.RetrievalSemantic, answer.Mode)
		assert.Len(t, answer.Sources, 2)

		require.Len(t, llm.gotMessages, 2)
		assert.Equal(t, "system", llm.gotMessages[0].Role)
		assert.Equal(t, "user", llm.gotMessages[1].Role)
		assert.Contains(t, llm.gotMessages[1].Content, "how do I deploy?")
		assert.Contains(t, llm.gotMessages[1].Content, "k8s.md")
		assert.Contains(t, llm.gotMessages[1].Content, "Kubernetes pods run containers together.")
		assert.Equal(t, answerMaxTokens, llm.gotOpts.MaxTokens)
		assert.InDelta(t, answerTemperature, llm.gotOpts.Temperature, 1e-9)
	})

	t.Run("generation failure falls back to templated answer", func(t *testing.T) {
		index := &mockVectorIndex{hits: []driven.VectorHit{{Position: 2, Score: 0.7}}}
		retriever := openedRetriever(t, &mockEmbeddingService{dims: 4}, index)
		llm := &mockLLMService{chatErr: errors.New("timeout")}

		answerer := NewAnswerer(retriever, llm, &mockPromptStore{})
		answer, err := answerer.Ask(context.Background(), "docker layers", domain.RetrieveOptions{TopK: 1})

		require.NoError(t, err)
		assert.False(t, answer.Generated)
		assert.Empty(t, answer.Model)
		assert.Contains(t, answer.Text, "docker.md")
		assert.Contains(t, answer.Text, "docker layers")
		assert.Len(t, answer.Sources, 1)
	})

	t.Run("empty generation reply falls back", func(t *testing.T) {
		index := &mockVectorIndex{hits: []driven.VectorHit{{Position: 0, Score: 0.7}}}
		retriever := openedRetriever(t, &mockEmbeddingService{dims: 4}, index)
		llm := &mockLLMService{reply: "   "}

		answerer := NewAnswerer(retriever, llm, &mockPromptStore{})
		answer, err := answerer.Ask(context.Background(), "query", domain.RetrieveOptions{TopK: 1})

		require.NoError(t, err)
		assert.False(t, answer.Generated)
	})

	t.Run("nil llm always uses fallback", func(t *testing.T) {
		index := &mockVectorIndex{hits: []driven.VectorHit{{Position: 0, Score: 0.9}}}
		retriever := openedRetriever(t, &mockEmbeddingService{dims: 4}, index)

		answerer := NewAnswerer(retriever, nil, &mockPromptStore{})
		answer, err := answerer.Ask(context.Background(), "pods", domain.RetrieveOptions{TopK: 1})

		require.NoError(t, err)
		assert.False(t, answer.Generated)
		assert.Contains(t, answer.Text, "k8s.md")
	})

	t.Run("no retrieved chunks produces the empty-context fallback", func(t *testing.T) {
		retriever := openedRetriever(t, nil, &mockVectorIndex{})
		llm := &mockLLMService{chatErr: errors.New("down")}

		answerer := NewAnswerer(retriever, llm, &mockPromptStore{})
		answer, err := answerer.Ask(context.Background(), "terraform locking", domain.RetrieveOptions{TopK: 3})

		require.NoError(t, err)
		assert.Contains(t, answer.Text, "terraform locking")
		assert.Contains(t, answer.Text, "couldn't generate")
		assert.Empty(t, answer.Sources)
		assert.Equal(t, domain.RetrievalLexical, answer.Mode)
	})

	t.Run("fallback lists each source file once", func(t *testing.T) {
		index := &mockVectorIndex{hits: []driven.VectorHit{
			{Position: 0, Score: 0.9},
			{Position: 1, Score: 0.8},
			{Position: 2, Score: 0.7},
		}}
		retriever := openedRetriever(t, &mockEmbeddingService{dims: 4}, index)
		llm := &mockLLMService{chatErr: errors.New("down")}

		answerer := NewAnswerer(retriever, llm, &mockPromptStore{})
		answer, err := answerer.Ask(context.Background(), "query", domain.RetrieveOptions{TopK: 3})

		require.NoError(t, err)
		assert.Contains(t, answer.Text, "k8s.md, docker.md")
	})

	t.Run("prompt load failure falls back", func(t *testing.T) {
		index := &mockVectorIndex{hits: []driven.VectorHit{{Position: 0, Score: 0.9}}}
		retriever := openedRetriever(t, &mockEmbeddingService{dims: 4}, index)
		llm := &mockLLMService{reply: "never used"}
		prompts := &mockPromptStore{loadErr: errors.New("prompt dir unreadable")}

		answerer := NewAnswerer(retriever, llm, prompts)
		answer, err := answerer.Ask(context.Background(), "query", domain.RetrieveOptions{TopK: 1})

		require.NoError(t, err)
		assert.False(t, answer.Generated)
	})

	t.Run("retrieval error surfaces to the caller", func(t *testing.T) {
		embedder := &mockEmbeddingService{dims: 4}
		retriever := openedRetriever(t, embedder, &mockVectorIndex{})
		embedder.embedErr = errors.New("embedding service down")

		answerer := NewAnswerer(retriever, &mockLLMService{}, &mockPromptStore{})
		_, err := answerer.Ask(context.Background(), "query", domain.RetrieveOptions{})

		assert.ErrorContains(t, err, "embed query")
	})
}

func TestFormatContext(t *testing.T) {
	results := []domain.RetrievedChunk{
		{Chunk: domain.NewChunk("a", "k8s.md", 0, "pods"), Rank: 1, Score: 0.9},
		{Chunk: domain.NewChunk("b", "docker.md", 0, "images"), Rank: 2, Score: 0.5},
	}

	formatted := formatContext(results)

	assert.Equal(t, "k8s.md:\npods\n\ndocker.md:\nimages\n", formatted)
}
