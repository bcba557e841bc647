package driven

import (
	"context"

	"github.com/clinisearch/clinisearch-cli/internal/core/domain"
)

// EmbeddingService generates vector embeddings from text.
//
// Implementations include the deterministic mock generator (the default,
// no external dependency, can never fail with a provider error) and thin
// adapters over real providers (OpenAI, Ollama). Real providers surface
// failures as domain.ErrProviderUnavailable or domain.ErrProviderRequest;
// they never silently substitute mock output.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	// The returned vector has unit Euclidean norm and length Dimensions().
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, preserving input
	// order exactly: result[i] embeds texts[i].
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 384, 1536).
	// Retrieval refuses to compare vectors of different dimensions.
	Dimensions() int

	// ModelName returns the identity of the embedding model. Stored with
	// every record so mismatched generators are visible.
	ModelName() string

	// Ping validates the provider is reachable with a lightweight request.
	// A no-op for providers without an external dependency.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// MeteredEmbeddingService is an EmbeddingService that bills by token and
// tracks cumulative usage. Free providers do not implement it.
type MeteredEmbeddingService interface {
	EmbeddingService

	// CostSummary returns the running usage total for this service.
	CostSummary() domain.CostSummary
}
