package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/clinisearch/clinisearch-cli/internal/adapters/driven/storage/memory"
	"github.com/clinisearch/clinisearch-cli/internal/core/domain"
	"github.com/clinisearch/clinisearch-cli/internal/core/ports/driven"
)

// stubEmbedder returns a canned vector for every text.
type stubEmbedder struct {
	vector []float32
	err    error
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return s.vector, s.err
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = s.vector
	}
	return out, nil
}

func (s *stubEmbedder) Dimensions() int              { return len(s.vector) }
func (s *stubEmbedder) ModelName() string            { return "stub-model" }
func (s *stubEmbedder) Ping(_ context.Context) error { return nil }
func (s *stubEmbedder) Close() error                 { return nil }

// storeRecord writes a record whose chunk vectors are given directly.
// With a query vector of [1, 0], a chunk vector [c, y] scores c/|v|.
func storeRecord(t *testing.T, store *memory.VectorStore, docID, docType string, vectors [][]float32) {
	t.Helper()

	chunks := make([]domain.Chunk, len(vectors))
	for i := range vectors {
		chunks[i] = domain.Chunk{
			ID:         fmt.Sprintf("%s-chunk-%d", docID, i),
			DocumentID: docID,
			Content:    fmt.Sprintf("content of chunk %d", i),
			Position:   i,
			Tokens:     4,
		}
	}

	record, err := domain.NewVectorRecord(docID, docType, "stub-model", 2, chunks, vectors)
	if err != nil {
		t.Fatalf("NewVectorRecord: %v", err)
	}
	if err := store.Write(context.Background(), record); err != nil {
		t.Fatalf("Write: %v", err)
	}
}

func TestRetrievalService_Retrieve(t *testing.T) {
	store := memory.NewVectorStore()
	storeRecord(t, store, "lab_1", "lab", [][]float32{
		{0, 1},       // orthogonal, score 0
		{1, 0},       // parallel, score 1
		{0.7, 0.7},   // score ~0.707
	})

	svc := NewRetrievalService(&stubEmbedder{vector: []float32{1, 0}}, store)

	results, err := svc.Retrieve(context.Background(), "glucose levels", "lab_1", 2)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	if results[0].Chunk.Position != 1 {
		t.Errorf("expected best result at position 1, got %d", results[0].Chunk.Position)
	}
	if results[1].Chunk.Position != 2 {
		t.Errorf("expected second result at position 2, got %d", results[1].Chunk.Position)
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("expected descending scores, got %v then %v", results[0].Score, results[1].Score)
	}
	if results[0].Score < 0.999 || results[0].Score > 1.001 {
		t.Errorf("expected parallel vector to score ~1, got %v", results[0].Score)
	}
	if results[0].DocumentID != "lab_1" {
		t.Errorf("expected document id lab_1, got %q", results[0].DocumentID)
	}
}

func TestRetrievalService_Retrieve_TieBreaksOnPosition(t *testing.T) {
	store := memory.NewVectorStore()
	storeRecord(t, store, "lab_1", "lab", [][]float32{
		{1, 0},
		{0, 1},
		{1, 0}, // identical score to position 0
	})

	svc := NewRetrievalService(&stubEmbedder{vector: []float32{1, 0}}, store)

	results, err := svc.Retrieve(context.Background(), "query", "lab_1", 2)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if results[0].Chunk.Position != 0 || results[1].Chunk.Position != 2 {
		t.Errorf("expected equal scores ordered by position (0, 2), got (%d, %d)",
			results[0].Chunk.Position, results[1].Chunk.Position)
	}
}

func TestRetrievalService_Retrieve_FewerChunksThanTopK(t *testing.T) {
	store := memory.NewVectorStore()
	storeRecord(t, store, "lab_1", "lab", [][]float32{{1, 0}})

	svc := NewRetrievalService(&stubEmbedder{vector: []float32{1, 0}}, store)

	results, err := svc.Retrieve(context.Background(), "query", "lab_1", 10)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected all available results, got %d", len(results))
	}
}

func TestRetrievalService_Retrieve_MissingDocument(t *testing.T) {
	svc := NewRetrievalService(&stubEmbedder{vector: []float32{1, 0}}, memory.NewVectorStore())

	_, err := svc.Retrieve(context.Background(), "query", "missing", 3)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRetrievalService_Retrieve_InvalidArguments(t *testing.T) {
	store := memory.NewVectorStore()
	storeRecord(t, store, "lab_1", "lab", [][]float32{{1, 0}})
	svc := NewRetrievalService(&stubEmbedder{vector: []float32{1, 0}}, store)

	t.Run("top-k below one", func(t *testing.T) {
		_, err := svc.Retrieve(context.Background(), "query", "lab_1", 0)
		if !errors.Is(err, domain.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("empty query", func(t *testing.T) {
		_, err := svc.Retrieve(context.Background(), "   ", "lab_1", 3)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestRetrievalService_Retrieve_DimensionMismatch(t *testing.T) {
	store := memory.NewVectorStore()
	storeRecord(t, store, "lab_1", "lab", [][]float32{{1, 0}})

	// Query embedder produces 3-dimensional vectors against a
	// 2-dimensional record.
	svc := NewRetrievalService(&stubEmbedder{vector: []float32{1, 0, 0}}, store)

	_, err := svc.Retrieve(context.Background(), "query", "lab_1", 3)
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestRetrievalService_Retrieve_ContextCancelled(t *testing.T) {
	store := memory.NewVectorStore()
	storeRecord(t, store, "lab_1", "lab", [][]float32{{1, 0}, {0, 1}})
	svc := NewRetrievalService(&stubEmbedder{vector: []float32{1, 0}}, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Retrieve(ctx, "query", "lab_1", 3); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRetrievalService_RetrieveMany(t *testing.T) {
	store := memory.NewVectorStore()
	// Document A scores 1.0, 0.6, 0.1 at positions 0, 1, 2.
	storeRecord(t, store, "lab_a", "lab", [][]float32{
		{1, 0},
		{0.6, 0.8},
		{0.1, 0.995},
	})
	// Document B scores 0.8, 0.3 at positions 0, 1.
	storeRecord(t, store, "lab_b", "lab", [][]float32{
		{0.8, 0.6},
		{0.3, 0.954},
	})

	svc := NewRetrievalService(&stubEmbedder{vector: []float32{1, 0}}, store)

	results, err := svc.RetrieveMany(context.Background(), "query", []string{"lab_a", "lab_b"}, 3)
	if err != nil {
		t.Fatalf("RetrieveMany: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	want := []struct {
		docID    string
		position int
	}{
		{"lab_a", 0}, // 1.0
		{"lab_b", 0}, // 0.8
		{"lab_a", 1}, // 0.6
	}
	for i, w := range want {
		if results[i].DocumentID != w.docID || results[i].Chunk.Position != w.position {
			t.Errorf("result %d: expected %s position %d, got %s position %d",
				i, w.docID, w.position, results[i].DocumentID, results[i].Chunk.Position)
		}
	}

	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not in descending score order at %d", i)
		}
	}
}

func TestRetrievalService_RetrieveMany_SkipsFailedDocuments(t *testing.T) {
	store := memory.NewVectorStore()
	storeRecord(t, store, "lab_a", "lab", [][]float32{{1, 0}})

	svc := NewRetrievalService(&stubEmbedder{vector: []float32{1, 0}}, store)

	results, err := svc.RetrieveMany(context.Background(), "query",
		[]string{"missing_1", "lab_a", "missing_2"}, 5)
	if err != nil {
		t.Fatalf("RetrieveMany: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result from the surviving document, got %d", len(results))
	}
	if results[0].DocumentID != "lab_a" {
		t.Errorf("expected lab_a, got %q", results[0].DocumentID)
	}
}

// cancellingStore cancels the context after a set number of reads and
// fails subsequent reads with the context error, the way a
// context-aware backend does when the caller gives up mid fan-out.
type cancellingStore struct {
	driven.VectorStore
	cancel    context.CancelFunc
	readsLeft int
}

func (s *cancellingStore) Read(ctx context.Context, docID string) (*domain.VectorRecord, error) {
	if s.readsLeft <= 0 {
		s.cancel()
		return nil, ctx.Err()
	}
	s.readsLeft--
	return s.VectorStore.Read(ctx, docID)
}

func TestRetrievalService_RetrieveMany_CancelledMidFanOut(t *testing.T) {
	store := memory.NewVectorStore()
	storeRecord(t, store, "lab_a", "lab", [][]float32{{1, 0}})
	storeRecord(t, store, "lab_b", "lab", [][]float32{{0.8, 0.6}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := NewRetrievalService(&stubEmbedder{vector: []float32{1, 0}},
		&cancellingStore{VectorStore: store, cancel: cancel, readsLeft: 1})

	// The first document ranks fine; cancellation hits on the second
	// read. That must surface as an error with no partial results, not
	// as a skipped document.
	results, err := svc.RetrieveMany(ctx, "query", []string{"lab_a", "lab_b"}, 5)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results after cancellation, got %d", len(results))
	}
}

func TestRetrievalService_RetrieveMany_NoDocuments(t *testing.T) {
	svc := NewRetrievalService(&stubEmbedder{vector: []float32{1, 0}}, memory.NewVectorStore())

	results, err := svc.RetrieveMany(context.Background(), "query", nil, 5)
	if err != nil {
		t.Fatalf("RetrieveMany: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestRetrievalService_RetrieveByType(t *testing.T) {
	store := memory.NewVectorStore()
	storeRecord(t, store, "lab_a", "lab", [][]float32{{1, 0}})
	storeRecord(t, store, "lab_b", "lab", [][]float32{{0.8, 0.6}})
	storeRecord(t, store, "note_a", "note", [][]float32{{0.9, 0.436}})

	svc := NewRetrievalService(&stubEmbedder{vector: []float32{1, 0}}, store)

	results, err := svc.RetrieveByType(context.Background(), "query", "lab", 10)
	if err != nil {
		t.Fatalf("RetrieveByType: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results from lab documents, got %d", len(results))
	}
	for _, result := range results {
		if result.DocumentID == "note_a" {
			t.Errorf("unexpected result from document of another type")
		}
	}

	t.Run("unknown type", func(t *testing.T) {
		results, err := svc.RetrieveByType(context.Background(), "query", "imaging", 10)
		if err != nil {
			t.Fatalf("RetrieveByType: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("expected no results for unknown type, got %d", len(results))
		}
	})
}

func TestRetrievalService_ListAndDelete(t *testing.T) {
	store := memory.NewVectorStore()
	storeRecord(t, store, "lab_a", "lab", [][]float32{{1, 0}})

	svc := NewRetrievalService(&stubEmbedder{vector: []float32{1, 0}}, store)
	ctx := context.Background()

	infos, err := svc.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("expected 1 record, got %d", len(infos))
	}

	if err := svc.DeleteDocument(ctx, "lab_a"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	infos, err = svc.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("expected empty listing after delete, got %d", len(infos))
	}

	if err := svc.DeleteDocument(ctx, "lab_a"); err != nil {
		t.Errorf("expected idempotent delete, got %v", err)
	}
}

func TestRetrievalService_QueryEmbedFailure(t *testing.T) {
	providerErr := fmt.Errorf("provider down: %w", domain.ErrProviderUnavailable)
	svc := NewRetrievalService(&stubEmbedder{err: providerErr}, memory.NewVectorStore())

	_, err := svc.Retrieve(context.Background(), "query", "lab_1", 3)
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
}
