package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pdf-rag/internal/chat"
	"pdf-rag/internal/chromemdb"
	"pdf-rag/internal/config"
	"pdf-rag/internal/db"
	"pdf-rag/internal/embedding"
	"pdf-rag/internal/helper"
	"pdf-rag/internal/ingest"
	"pdf-rag/internal/llmservice"
	"pdf-rag/internal/rag"
	"pdf-rag/internal/store"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	filePath := flag.String("file", "", "Path to the document file to ingest")
	query := flag.String("query", "", "Single question to answer")
	dryRun := flag.Bool("dry-run", false, "Parse and split only, do not embed or store")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *filePath != "" && *query != "" {
		log.Fatal().Msg("Provide either -file to ingest or -query to ask, not both")
	}

	cfg, err := config.LoadConfig(configFilePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	if *filePath != "" {
		cfg.DocumentPath = *filePath
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case *filePath != "":
		ingestDocument(ctx, cfg, *dryRun)
	case *query != "":
		answerQuery(ctx, cfg, *query)
	default:
		runChat(ctx, cfg)
	}
}

func ingestDocument(ctx context.Context, cfg *config.Config, dryRun bool) {
	if dryRun {
		chunks, err := ingest.Prepare(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Error preparing document")
		}
		helper.PrettyPrint(chunks)
		return
	}

	st := openStore(cfg)
	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM, cfg.RAG.BatchSize)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	if err := ingest.Run(ctx, cfg, embedder, st); err != nil {
		log.Fatal().Err(err).Msg("Error ingesting document")
	}
}

func answerQuery(ctx context.Context, cfg *config.Config, query string) {
	pipeline := buildPipeline(cfg)

	response, err := pipeline.Query(ctx, query)
	if err != nil {
		log.Fatal().Err(err).Msg("Error querying")
	}

	log.Info().Msg("Query: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", response.Query)

	log.Info().Msg("Source: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", response.Source)

	log.Info().Msg("Assistant: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", response.Content)
}

func runChat(ctx context.Context, cfg *config.Config) {
	pipeline := buildPipeline(cfg)
	if err := chat.Run(ctx, os.Stdin, os.Stdout, pipeline); err != nil {
		log.Fatal().Err(err).Msg("Chat session failed")
	}
}

func buildPipeline(cfg *config.Config) *rag.RAG {
	st := openStore(cfg)

	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM, cfg.RAG.BatchSize)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	generator, err := llmservice.NewClient(&cfg.InferLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing LLM client")
	}

	return rag.NewRAG(st, embedder, generator, cfg)
}

func openStore(cfg *config.Config) store.Store {
	switch cfg.Store.Driver {
	case "pgvector":
		st, err := db.Connect(&cfg.Store)
		if err != nil {
			log.Fatal().Err(err).Msg("Error connecting to database")
		}
		if err := st.Init(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Error initializing database")
		}
		return st
	default:
		if err := helper.CreateFolder(cfg.Store.Path); err != nil {
			log.Fatal().Err(err).Msg("Error creating store folder")
		}
		st, err := chromemdb.NewStore(cfg.Store.Path, false)
		if err != nil {
			log.Fatal().Err(err).Msg("Error opening vector store")
		}
		return st
	}
}
