package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"pdf-rag/internal/config"
	"pdf-rag/internal/errs"
	"pdf-rag/internal/models"
)

// NewEmbedder builds the embedder for the configured provider. batchSize
// bounds the number of texts per request to the embedding service.
func NewEmbedder(llmConfig *config.LLMConfig, batchSize int) (*embeddings.EmbedderImpl, error) {
	log.Debug().
		Str("provider", llmConfig.Provider).
		Str("base_url", llmConfig.BaseURL).
		Str("embedding_model", llmConfig.Model).
		Msg("Initializing embedder")

	var client embeddings.EmbedderClient
	switch llmConfig.Provider {
	case "openai":
		llm, err := openai.New(
			openai.WithBaseURL(llmConfig.BaseURL),
			openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
			openai.WithEmbeddingModel(llmConfig.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: initializing openai client: %v", errs.ErrEmbeddingService, err)
		}
		client = llm
	case "ollama":
		llm, err := ollama.New(
			ollama.WithServerURL(llmConfig.BaseURL),
			ollama.WithModel(llmConfig.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: initializing ollama client: %v", errs.ErrEmbeddingService, err)
		}
		client = llm
	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q", errs.ErrConfiguration, llmConfig.Provider)
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithBatchSize(batchSize))
	if err != nil {
		return nil, fmt.Errorf("%w: creating embedder: %v", errs.ErrEmbeddingService, err)
	}
	return embedder, nil
}

// EmbedChunks embeds chunk texts in order, one vector per chunk. Batching is
// handled by the embedder; a failed batch fails the whole call and the
// operator re-runs ingestion.
func EmbedChunks(ctx context.Context, embedder embeddings.Embedder, chunks []models.Chunk) ([]models.ChunkEmbedding, error) {
	if len(chunks) == 0 {
		log.Info().Msg("No chunks to embed")
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding %d chunks: %v", errs.ErrEmbeddingService, len(chunks), err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d vectors for %d chunks", errs.ErrEmbeddingService, len(vectors), len(chunks))
	}

	chunkEmbeddings := make([]models.ChunkEmbedding, len(chunks))
	for i, c := range chunks {
		chunkEmbeddings[i] = models.ChunkEmbedding{Chunk: c, Vector: vectors[i]}
	}
	return chunkEmbeddings, nil
}

// EmbedQuery embeds a single question as a one-element batch.
func EmbedQuery(ctx context.Context, embedder embeddings.Embedder, question string) ([]float32, error) {
	vector, err := embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %v", errs.ErrEmbeddingService, err)
	}
	return vector, nil
}
