// Package services contains the core application services, wiring the
// domain to driven ports. Services hold no state of their own beyond
// their collaborators.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinisearch/clinisearch-cli/internal/core/domain"
	"github.com/clinisearch/clinisearch-cli/internal/core/ports/driven"
	"github.com/clinisearch/clinisearch-cli/internal/core/ports/driving"
	"github.com/clinisearch/clinisearch-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// DefaultDocumentType is used when a document arrives without a type.
const DefaultDocumentType = "document"

// IngestService runs the ingestion pipeline: chunk, embed, store.
type IngestService struct {
	chunker  driven.Chunker
	embedder driven.EmbeddingService
	store    driven.VectorStore
	counter  driven.TokenCounter
}

// NewIngestService creates a new ingestion service.
func NewIngestService(
	chunker driven.Chunker,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	counter driven.TokenCounter,
) *IngestService {
	return &IngestService{
		chunker:  chunker,
		embedder: embedder,
		store:    store,
		counter:  counter,
	}
}

// ProcessDocument ingests one document and returns its manifest. When the
// document has no id, one of the form "{type}_{uuid}" is generated.
// Re-ingesting an existing id fully replaces its stored record.
func (s *IngestService) ProcessDocument(
	ctx context.Context,
	doc domain.Document,
) (*domain.DocumentManifest, error) {
	docType := doc.Type
	if docType == "" {
		docType = DefaultDocumentType
	}
	docID := doc.ID
	if docID == "" {
		docID = fmt.Sprintf("%s_%s", docType, uuid.New().String())
	}
	doc.ID = docID

	logger.Section("Ingestion")
	logger.Debug("processing document %s (%s, %d pages)", docID, docType, len(doc.Pages))

	chunks, err := s.chunker.Chunk(ctx, &doc)
	if err != nil {
		return nil, fmt.Errorf("chunk document %s: %w", docID, err)
	}
	chunkStats := s.chunker.Stats(chunks)
	logger.Debug("produced %d chunks (%d tokens total, avg %.1f)",
		chunkStats.TotalChunks, chunkStats.TotalTokens, chunkStats.AvgTokens)

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	var usageBefore domain.CostSummary
	metered, isMetered := s.embedder.(driven.MeteredEmbeddingService)
	if isMetered {
		usageBefore = metered.CostSummary()
	}

	start := time.Now()
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed document %s: %w", docID, err)
	}
	elapsed := time.Since(start)
	logger.Debug("embedded %d chunks with %s in %s", len(vectors), s.embedder.ModelName(), elapsed)

	record, err := domain.NewVectorRecord(
		docID, docType, s.embedder.ModelName(), s.embedder.Dimensions(),
		chunks, vectors,
	)
	if err != nil {
		return nil, fmt.Errorf("build record %s: %w", docID, err)
	}

	if err := s.store.Write(ctx, record); err != nil {
		return nil, fmt.Errorf("store record %s: %w", docID, err)
	}
	logger.Info("stored record %s (%d chunks)", docID, record.ChunkCount())

	embedStats := domain.EmbeddingStats{
		Model:          s.embedder.ModelName(),
		Dimension:      s.embedder.Dimensions(),
		ProcessingTime: elapsed,
	}
	if isMetered {
		usageAfter := metered.CostSummary()
		embedStats.BilledTokens = usageAfter.TotalTokens - usageBefore.TotalTokens
		embedStats.EstimatedCost = usageAfter.TotalCost - usageBefore.TotalCost
	}

	tokenCount := 0
	for _, page := range doc.Pages {
		tokenCount += s.counter.CountTokens(page.Content)
	}

	return &domain.DocumentManifest{
		DocumentID:     docID,
		DocumentType:   docType,
		Filename:       doc.Filename(),
		PageCount:      len(doc.Pages),
		TokenCount:     tokenCount,
		ChunkStats:     chunkStats,
		EmbeddingStats: embedStats,
		ProcessedAt:    time.Now().UTC(),
	}, nil
}
