package driven

import (
	"context"

	"github.com/clinisearch/clinisearch-cli/internal/core/domain"
)

// Chunker splits a document's pages into overlapping, token-bounded chunks.
type Chunker interface {
	// Chunk splits the document into chunks in original reading order,
	// assigning sequential zero-based positions. An empty document yields
	// an empty chunk list, not an error.
	Chunk(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)

	// Stats summarises the token shape of a chunk batch.
	Stats(chunks []domain.Chunk) domain.ChunkStats
}
