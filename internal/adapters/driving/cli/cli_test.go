package cli

import (
	"github.com/clinisearch/clinisearch-cli/internal/adapters/driven/embedding/mock"
	"github.com/clinisearch/clinisearch-cli/internal/adapters/driven/storage/memory"
	"github.com/clinisearch/clinisearch-cli/internal/chunker"
	"github.com/clinisearch/clinisearch-cli/internal/core/services"
	"github.com/clinisearch/clinisearch-cli/internal/tokenizer"
)

// setupTestServices wires the commands to in-memory fakes. The returned
// cleanup restores the unwired state.
func setupTestServices() func() {
	counter := tokenizer.New()
	splitter, err := chunker.New(counter,
		chunker.WithMaxTokens(50), chunker.WithOverlapTokens(5))
	if err != nil {
		panic(err)
	}
	embedder := mock.NewEmbeddingService(mock.Config{Dimensions: 32})
	store := memory.NewVectorStore()

	embedService = embedder
	vectorStore = store
	ingestService = services.NewIngestService(splitter, embedder, store, counter)
	retrievalService = services.NewRetrievalService(embedder, store)

	return func() {
		ingestService = nil
		retrievalService = nil
		embedService = nil
		vectorStore = nil
	}
}
