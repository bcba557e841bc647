package domain

import (
	"fmt"
	"time"
)

// EmbeddedChunk pairs a chunk with its vector in a single element, so the
// 1:1 correspondence between the two cannot drift: there is no separate
// vector list to reorder, filter, or append to independently.
type EmbeddedChunk struct {
	Chunk Chunk

	// Vector is the unit-norm embedding of Chunk.Content. Its length
	// equals the owning record's Dimension.
	Vector []float32
}

// VectorRecord is the persisted embedding state for one document: the
// ordered chunk+vector pairs plus descriptive fields. A record is created
// when a document is first embedded, fully replaced on re-embedding, and
// deleted with the document.
type VectorRecord struct {
	// DocumentID identifies the document this record belongs to.
	DocumentID string

	// DocumentType is the document category, used by type-scoped retrieval.
	DocumentType string

	// Model is the identity of the embedding model that produced the
	// vectors (e.g. "mock-embedding-v1", "text-embedding-3-small").
	Model string

	// Dimension is the length of every vector in the record.
	Dimension int

	// CreatedAt is when the record was written.
	CreatedAt time.Time

	// Chunks holds the chunk+vector pairs, ordered by chunk position.
	Chunks []EmbeddedChunk
}

// NewVectorRecord builds a record from parallel chunk and vector lists,
// enforcing the alignment invariant at the boundary: the lists must be the
// same length and every vector must have the requested dimension. This is
// the only constructor; callers cannot assemble misaligned records.
func NewVectorRecord(
	docID, docType, model string, dimension int,
	chunks []Chunk, vectors [][]float32,
) (*VectorRecord, error) {
	if docID == "" {
		return nil, fmt.Errorf("document id is empty: %w", ErrInvalidInput)
	}
	if dimension <= 0 {
		return nil, fmt.Errorf("dimension %d: %w", dimension, ErrInvalidConfig)
	}
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("%d chunks, %d vectors: %w", len(chunks), len(vectors), ErrAlignment)
	}

	pairs := make([]EmbeddedChunk, len(chunks))
	for i := range chunks {
		if len(vectors[i]) != dimension {
			return nil, fmt.Errorf("vector %d has dimension %d, want %d: %w",
				i, len(vectors[i]), dimension, ErrDimensionMismatch)
		}
		pairs[i] = EmbeddedChunk{Chunk: chunks[i], Vector: vectors[i]}
	}

	return &VectorRecord{
		DocumentID:   docID,
		DocumentType: docType,
		Model:        model,
		Dimension:    dimension,
		CreatedAt:    time.Now().UTC(),
		Chunks:       pairs,
	}, nil
}

// ChunkCount returns the number of chunk+vector pairs in the record.
func (r *VectorRecord) ChunkCount() int {
	return len(r.Chunks)
}

// RecordInfo is the listing view of a stored record, used to populate
// document pickers and type-scoped retrieval. It never carries vectors.
type RecordInfo struct {
	DocumentID   string    `json:"document_id"`
	DocumentType string    `json:"document_type"`
	Model        string    `json:"model"`
	Dimension    int       `json:"dimension"`
	ChunkCount   int       `json:"chunk_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// Info returns the listing view of the record.
func (r *VectorRecord) Info() RecordInfo {
	return RecordInfo{
		DocumentID:   r.DocumentID,
		DocumentType: r.DocumentType,
		Model:        r.Model,
		Dimension:    r.Dimension,
		ChunkCount:   len(r.Chunks),
		CreatedAt:    r.CreatedAt,
	}
}
