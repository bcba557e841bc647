package driving

import (
	"context"

	"github.com/clinisearch/clinisearch-cli/internal/core/domain"
)

// IngestService runs the ingestion pipeline: pages are chunked, chunks are
// embedded, and the resulting record is written to the vector store.
type IngestService interface {
	// ProcessDocument ingests one document and returns its manifest.
	// When doc.ID is empty an identifier of the form "{type}_{uuid}" is
	// generated. Re-ingesting an existing id fully replaces its record.
	ProcessDocument(ctx context.Context, doc domain.Document) (*domain.DocumentManifest, error)
}
