// Package mock provides a deterministic, offline embedding service.
//
// Each text is hashed and the hash seeds a pseudo-random generator that
// draws the vector components, so equal texts always produce identical
// vectors across calls, processes, and machines without any external
// provider. The vectors carry no semantic meaning: similarity scores over
// them are only useful for exercising the retrieval pipeline end to end.
package mock

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"math/rand"

	"github.com/clinisearch/clinisearch-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel      = "mock-embedding-v1"
	DefaultDimensions = 384
)

// Config holds configuration for the mock embedding service.
type Config struct {
	// Model is the reported model name (default: mock-embedding-v1).
	Model string

	// Dimensions is the embedding vector size (default: 384).
	Dimensions int
}

// EmbeddingService generates deterministic hash-seeded embeddings.
type EmbeddingService struct {
	model      string
	dimensions int
}

// NewEmbeddingService creates a new mock embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = DefaultDimensions
	}

	return &EmbeddingService{
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
}

// Embed generates a unit-norm vector derived only from the text content.
// Distinct texts whose hashes collide in the first eight bytes would map
// to the same vector; with SHA-256 that is not a practical concern.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	sum := sha256.Sum256([]byte(text))
	seed := int64(binary.BigEndian.Uint64(sum[:8]))
	rng := rand.New(rand.NewSource(seed))

	vector := make([]float32, s.dimensions)
	var norm float64
	for i := range vector {
		v := rng.NormFloat64()
		vector[i] = float32(v)
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		// Unreachable with a Gaussian draw, but never divide by zero.
		vector[0] = 1
		return vector, nil
	}
	for i := range vector {
		vector[i] = float32(float64(vector[i]) / norm)
	}

	return vector, nil
}

// EmbedBatch generates embeddings for multiple texts in input order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		embedding, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = embedding
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping always succeeds: there is no external dependency to reach.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
