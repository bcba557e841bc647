package driving

import (
	"context"

	"github.com/clinisearch/clinisearch-cli/internal/core/domain"
)

// RetrievalService ranks stored chunks against free-text queries.
type RetrievalService interface {
	// Retrieve returns the topK most similar chunks of one document,
	// sorted by descending similarity with ascending-position tie-break.
	// Fewer than topK stored chunks is not an error; a missing record is
	// (domain.ErrNotFound).
	Retrieve(ctx context.Context, query, docID string, topK int) ([]domain.RetrievalResult, error)

	// RetrieveMany fans the query out to several documents and merges the
	// per-document top-k lists into one globally ranked list of length at
	// most topK. Documents that fail to load are skipped, not fatal.
	RetrieveMany(ctx context.Context, query string, docIDs []string, topK int) ([]domain.RetrievalResult, error)

	// RetrieveByType resolves docType to the matching stored documents
	// via the store listing, then delegates to RetrieveMany.
	RetrieveByType(ctx context.Context, query, docType string, topK int) ([]domain.RetrievalResult, error)

	// ListDocuments enumerates all stored records.
	ListDocuments(ctx context.Context) ([]domain.RecordInfo, error)

	// DeleteDocument removes a document's record. Idempotent.
	DeleteDocument(ctx context.Context, docID string) error
}
