package driven

import (
	"context"

	"github.com/clinisearch/clinisearch-cli/internal/core/domain"
)

// VectorStore persists one VectorRecord per document id.
//
// Records enter the store only through domain.NewVectorRecord, so the
// chunk/vector alignment invariant is already enforced by the type; the
// store's job is to keep it intact across restarts.
//
// Concurrency: a Write fully replaces any prior record for the same id and
// is atomic: a concurrent reader sees either the old record or the new
// one, never a partial state. Writers for the same id are serialized
// (last writer wins); operations on different ids need no coordination.
type VectorStore interface {
	// Write persists the record, replacing any existing record for the
	// same document id.
	Write(ctx context.Context, record *domain.VectorRecord) error

	// Read returns the record for the document id, or
	// domain.ErrNotFound if none exists.
	Read(ctx context.Context, docID string) (*domain.VectorRecord, error)

	// List enumerates all stored records. Used to populate document
	// pickers and type-scoped retrieval, not for ranking.
	List(ctx context.Context) ([]domain.RecordInfo, error)

	// Delete removes the record for the document id. Deleting a
	// non-existent id is not an error.
	Delete(ctx context.Context, docID string) error

	// Close releases resources.
	Close() error
}
