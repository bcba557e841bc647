// Package memory provides an in-memory vector store, used in tests and as
// the ephemeral backend when persistence is disabled.
package memory

import (
	"context"
	"sync"

	"github.com/clinisearch/clinisearch-cli/internal/core/domain"
	"github.com/clinisearch/clinisearch-cli/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore.
type VectorStore struct {
	mu      sync.RWMutex
	records map[string]domain.VectorRecord
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		records: make(map[string]domain.VectorRecord),
	}
}

// Write persists a copy of the record, replacing any existing record for
// the same document id. The store owns its copy; the caller keeps theirs.
func (s *VectorStore) Write(_ context.Context, record *domain.VectorRecord) error {
	if record == nil || record.DocumentID == "" {
		return domain.ErrInvalidInput
	}

	stored := *record
	stored.Chunks = make([]domain.EmbeddedChunk, len(record.Chunks))
	for i, pair := range record.Chunks {
		vector := make([]float32, len(pair.Vector))
		copy(vector, pair.Vector)
		stored.Chunks[i] = domain.EmbeddedChunk{Chunk: pair.Chunk, Vector: vector}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.DocumentID] = stored
	return nil
}

// Read returns a copy of the record for the document id. The pairs are
// copied so a caller mutating the returned record cannot reach the
// stored one.
func (s *VectorStore) Read(_ context.Context, docID string) (*domain.VectorRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[docID]
	if !ok {
		return nil, domain.ErrNotFound
	}

	out := record
	out.Chunks = make([]domain.EmbeddedChunk, len(record.Chunks))
	for i, pair := range record.Chunks {
		vector := make([]float32, len(pair.Vector))
		copy(vector, pair.Vector)
		out.Chunks[i] = domain.EmbeddedChunk{Chunk: pair.Chunk, Vector: vector}
	}
	return &out, nil
}

// List enumerates all stored records.
func (s *VectorStore) List(_ context.Context) ([]domain.RecordInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]domain.RecordInfo, 0, len(s.records))
	for id := range s.records {
		record := s.records[id]
		infos = append(infos, record.Info())
	}
	return infos, nil
}

// Delete removes the record for the document id. Deleting a non-existent
// id is not an error.
func (s *VectorStore) Delete(_ context.Context, docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, docID)
	return nil
}

// Close releases resources.
func (s *VectorStore) Close() error {
	return nil
}
