package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/clinisearch/clinisearch-cli/internal/core/domain"
	"github.com/clinisearch/clinisearch-cli/internal/core/ports/driven"
	"github.com/clinisearch/clinisearch-cli/internal/core/ports/driving"
	"github.com/clinisearch/clinisearch-cli/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService ranks stored chunks against free-text queries by
// cosine similarity.
type RetrievalService struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(embedder driven.EmbeddingService, store driven.VectorStore) *RetrievalService {
	return &RetrievalService{
		embedder: embedder,
		store:    store,
	}
}

// Retrieve returns the topK most similar chunks of one document.
func (s *RetrievalService) Retrieve(
	ctx context.Context,
	query, docID string,
	topK int,
) ([]domain.RetrievalResult, error) {
	queryVector, err := s.prepare(ctx, query, topK)
	if err != nil {
		return nil, err
	}

	record, err := s.store.Read(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("read record %s: %w", docID, err)
	}

	results, err := s.rank(ctx, queryVector, record)
	if err != nil {
		return nil, err
	}

	sortResults(results)
	return truncate(results, topK), nil
}

// RetrieveMany fans the query out to several documents and merges the
// per-document rankings into one globally ranked list of length at most
// topK. The query is embedded once. Documents that fail to load are
// skipped with a warning rather than failing the whole call.
func (s *RetrievalService) RetrieveMany(
	ctx context.Context,
	query string,
	docIDs []string,
	topK int,
) ([]domain.RetrievalResult, error) {
	queryVector, err := s.prepare(ctx, query, topK)
	if err != nil {
		return nil, err
	}

	var merged []domain.RetrievalResult
	for _, docID := range docIDs {
		record, err := s.store.Read(ctx, docID)
		if err != nil {
			// Cancellation is not a per-document failure: the caller no
			// longer wants an answer, so no partial results either.
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("skipping document %s: %v", docID, err)
			continue
		}

		results, err := s.rank(ctx, queryVector, record)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			logger.Warn("skipping document %s: %v", docID, err)
			continue
		}

		// Only each document's local top-k can survive the global
		// merge, so drop the rest early.
		sortResults(results)
		merged = append(merged, truncate(results, topK)...)
	}

	sortResults(merged)
	return truncate(merged, topK), nil
}

// RetrieveByType resolves the type to the matching stored documents and
// delegates to RetrieveMany. An unknown type yields no results.
func (s *RetrievalService) RetrieveByType(
	ctx context.Context,
	query, docType string,
	topK int,
) ([]domain.RetrievalResult, error) {
	infos, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	var docIDs []string
	for _, info := range infos {
		if info.DocumentType == docType {
			docIDs = append(docIDs, info.DocumentID)
		}
	}
	logger.Debug("type %q matches %d of %d stored documents", docType, len(docIDs), len(infos))

	return s.RetrieveMany(ctx, query, docIDs, topK)
}

// ListDocuments enumerates all stored records.
func (s *RetrievalService) ListDocuments(ctx context.Context) ([]domain.RecordInfo, error) {
	return s.store.List(ctx)
}

// DeleteDocument removes a document's record. Idempotent.
func (s *RetrievalService) DeleteDocument(ctx context.Context, docID string) error {
	return s.store.Delete(ctx, docID)
}

// prepare validates the common arguments and embeds the query.
func (s *RetrievalService) prepare(ctx context.Context, query string, topK int) ([]float32, error) {
	if topK < 1 {
		return nil, fmt.Errorf("top-k %d: %w", topK, domain.ErrInvalidConfig)
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty query: %w", domain.ErrInvalidInput)
	}

	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return queryVector, nil
}

// rank scores every chunk of the record against the query vector. The
// scan aborts as soon as the context is cancelled, returning no partial
// ranking.
func (s *RetrievalService) rank(
	ctx context.Context,
	queryVector []float32,
	record *domain.VectorRecord,
) ([]domain.RetrievalResult, error) {
	if len(queryVector) != record.Dimension {
		return nil, fmt.Errorf("query dimension %d, record %s has %d: %w",
			len(queryVector), record.DocumentID, record.Dimension, domain.ErrDimensionMismatch)
	}

	results := make([]domain.RetrievalResult, 0, len(record.Chunks))
	for _, pair := range record.Chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, domain.RetrievalResult{
			DocumentID: record.DocumentID,
			Chunk:      pair.Chunk,
			Score:      cosineSimilarity(queryVector, pair.Vector),
		})
	}
	return results, nil
}

// sortResults orders by descending similarity. Ties break on ascending
// chunk position, then document id, so equal-scored results are stable
// across runs.
func sortResults(results []domain.RetrievalResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Chunk.Position != results[j].Chunk.Position {
			return results[i].Chunk.Position < results[j].Chunk.Position
		}
		return results[i].DocumentID < results[j].DocumentID
	})
}

// truncate caps the result list at topK.
func truncate(results []domain.RetrievalResult, topK int) []domain.RetrievalResult {
	if len(results) > topK {
		return results[:topK]
	}
	return results
}

// cosineSimilarity computes the full cosine formula in float64. Stored
// vectors are nominally unit norm but that is not assumed here; a zero
// vector scores zero instead of dividing by zero.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
