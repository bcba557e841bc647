// Package cli implements the clinisearch command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinisearch/clinisearch-cli/internal/adapters/driven/config/file"
	"github.com/clinisearch/clinisearch-cli/internal/adapters/driven/embedding"
	"github.com/clinisearch/clinisearch-cli/internal/adapters/driven/storage/memory"
	"github.com/clinisearch/clinisearch-cli/internal/adapters/driven/storage/sqlite"
	"github.com/clinisearch/clinisearch-cli/internal/chunker"
	"github.com/clinisearch/clinisearch-cli/internal/core/ports/driven"
	"github.com/clinisearch/clinisearch-cli/internal/core/ports/driving"
	"github.com/clinisearch/clinisearch-cli/internal/core/services"
	"github.com/clinisearch/clinisearch-cli/internal/logger"
	"github.com/clinisearch/clinisearch-cli/internal/tokenizer"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configDir   string
	verboseFlag bool
)

// Wired services. Tests inject fakes here before calling Execute.
var (
	ingestService    driving.IngestService
	retrievalService driving.RetrievalService
	embedService     driven.EmbeddingService
	vectorStore      driven.VectorStore
)

var rootCmd = &cobra.Command{
	Use:   "clinisearch",
	Short: "Semantic retrieval over medical documents",
	Long: `CliniSearch chunks medical documents, embeds the chunks, and ranks
them against free-text queries by cosine similarity.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.clinisearch)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// initServices wires adapters and services from configuration. Commands
// that do not touch the pipeline skip wiring; tests that pre-populate the
// service variables keep their fakes.
func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verboseFlag)

	if ingestService != nil && retrievalService != nil {
		return nil
	}
	switch cmd.Name() {
	case "version", "help", "completion":
		return nil
	}

	cfg, err := file.Load(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	embedder, err := embedding.New(embedding.Config{
		Provider:   cfg.Embedding.Provider,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("create embedding service: %w", err)
	}

	var store driven.VectorStore
	switch cfg.Storage.Backend {
	case file.BackendMemory:
		store = memory.NewVectorStore()
	default:
		store, err = sqlite.NewStore(cfg.Storage.DataDir)
		if err != nil {
			embedder.Close()
			return fmt.Errorf("open vector store: %w", err)
		}
	}

	counter := tokenizer.New()
	splitter, err := chunker.New(counter,
		chunker.WithMaxTokens(cfg.Chunker.MaxTokens),
		chunker.WithOverlapTokens(cfg.Chunker.OverlapTokens),
	)
	if err != nil {
		embedder.Close()
		store.Close()
		return fmt.Errorf("create chunker: %w", err)
	}

	embedService = embedder
	vectorStore = store
	ingestService = services.NewIngestService(splitter, embedder, store, counter)
	retrievalService = services.NewRetrievalService(embedder, store)

	logger.Debug("wired %s embeddings over %s storage", cfg.Embedding.Provider, cfg.Storage.Backend)
	return nil
}

func closeServices() {
	if embedService != nil {
		embedService.Close()
	}
	if vectorStore != nil {
		vectorStore.Close()
	}
}
