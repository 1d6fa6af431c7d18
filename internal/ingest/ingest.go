package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"pdf-rag/internal/config"
	"pdf-rag/internal/embedding"
	"pdf-rag/internal/helper"
	"pdf-rag/internal/models"
	"pdf-rag/internal/parser"
	"pdf-rag/internal/splitter"
	"pdf-rag/internal/store"
)

// Run ingests the configured document: parse to pages, split into chunks,
// embed, and replace the collection's contents. Running it again for the
// same document supersedes the previous ingestion.
func Run(ctx context.Context, cfg *config.Config, embedder embeddings.Embedder, st store.Store) error {
	chunks, err := Prepare(cfg)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		log.Warn().Str("file", cfg.DocumentPath).Msg("Document produced no chunks")
		return st.Replace(ctx, cfg.Collection, nil)
	}

	chunkEmbeddings, err := embedding.EmbedChunks(ctx, embedder, chunks)
	if err != nil {
		return err
	}

	runID, err := helper.GenerateUUID()
	if err != nil {
		return err
	}
	records := Records(filepath.Base(cfg.DocumentPath), runID, chunkEmbeddings)

	if err := st.Replace(ctx, cfg.Collection, records); err != nil {
		return err
	}
	log.Info().
		Int("chunks", len(records)).
		Str("collection", cfg.Collection).
		Str("ingest_run", runID).
		Msg("Ingestion complete")
	return nil
}

// Prepare parses and splits the document without touching any external
// service. Used by Run and by the dry-run path.
func Prepare(cfg *config.Config) ([]models.Chunk, error) {
	pages, err := parser.Parse(cfg.DocumentPath)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", cfg.DocumentPath, err)
	}
	log.Info().Int("pages", len(pages)).Str("file", cfg.DocumentPath).Msg("Parsed document")

	sp, err := splitter.New(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	if err != nil {
		return nil, err
	}
	chunks, err := sp.Split(pages)
	if err != nil {
		return nil, err
	}
	log.Info().Int("chunks", len(chunks)).Msg("Split document")
	return chunks, nil
}

// Records converts embedded chunks to store records. IDs are deterministic
// per (source, page, sequence) so a re-ingest writes the same keys; the run
// id only travels in metadata for diagnosis.
func Records(source, runID string, chunkEmbeddings []models.ChunkEmbedding) []store.Record {
	records := make([]store.Record, len(chunkEmbeddings))
	for i, ce := range chunkEmbeddings {
		records[i] = store.Record{
			ID:     fmt.Sprintf("%s-%d-%d", source, ce.PageNumber, ce.Sequence),
			Text:   ce.Text,
			Vector: ce.Vector,
			Metadata: map[string]string{
				models.MetaSource:   source,
				models.MetaPage:     strconv.Itoa(ce.PageNumber),
				models.MetaSequence: strconv.Itoa(ce.Sequence),
				"ingest_run":        runID,
			},
		}
	}
	return records
}
