package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"pdf-rag/internal/config"
	"pdf-rag/internal/embedding"
	"pdf-rag/internal/models"
	"pdf-rag/internal/store"
)

// Generator is the language-model boundary: prompt in, completion out.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// RAG answers questions from one collection: embed the question, fetch the
// nearest chunks, compose a context-constrained prompt, call the model.
// Stateless per call; no session memory.
type RAG struct {
	store      store.Store
	embedder   embeddings.Embedder
	generator  Generator
	collection string
	topK       int
}

func NewRAG(st store.Store, embedder embeddings.Embedder, generator Generator, cfg *config.Config) *RAG {
	return &RAG{
		store:      st,
		embedder:   embedder,
		generator:  generator,
		collection: cfg.Collection,
		topK:       cfg.RAG.TopK,
	}
}

// Retrieve embeds the question and concatenates the texts of the topK
// nearest chunks, ranked order, separated by a blank line. An empty or
// missing collection yields an empty context.
func (r *RAG) Retrieve(ctx context.Context, question string) (string, error) {
	vector, err := embedding.EmbedQuery(ctx, r.embedder, question)
	if err != nil {
		return "", err
	}

	results, err := r.store.Query(ctx, r.collection, vector, r.topK)
	if err != nil {
		return "", err
	}
	log.Debug().Int("results", len(results)).Str("collection", r.collection).Msg("Retrieved chunks")

	texts := make([]string, len(results))
	for i, res := range results {
		texts[i] = res.Record.Text
	}
	return strings.Join(texts, "\n\n"), nil
}

// Answer renders the answer prompt over the retrieved context and returns
// the model's completion. An empty context never reaches the model: the
// prompt contract would demand the fallback sentence anyway, so it is
// returned directly.
//
// The contract itself is prompt-only. Nothing verifies the model actually
// stayed inside the context.
func (r *RAG) Answer(ctx context.Context, contextText, question string) (string, error) {
	if strings.TrimSpace(contextText) == "" {
		return models.FallbackAnswer, nil
	}
	prompt := fmt.Sprintf(models.AnswerPromptTemplate, contextText, question)
	return r.generator.Generate(ctx, prompt)
}

// Query runs the full retrieve-then-answer pipeline for one question.
func (r *RAG) Query(ctx context.Context, question string) (*models.PromptResponse, error) {
	contextText, err := r.Retrieve(ctx, question)
	if err != nil {
		return nil, err
	}
	answer, err := r.Answer(ctx, contextText, question)
	if err != nil {
		return nil, err
	}
	return &models.PromptResponse{
		Query:   question,
		Source:  contextText,
		Content: answer,
	}, nil
}
