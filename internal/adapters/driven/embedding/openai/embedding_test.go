package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clinisearch/clinisearch-cli/internal/core/domain"
)

func TestNewEmbeddingService(t *testing.T) {
	t.Run("missing API key", func(t *testing.T) {
		_, err := NewEmbeddingService(Config{})
		if !errors.Is(err, domain.ErrProviderUnavailable) {
			t.Errorf("expected ErrProviderUnavailable, got %v", err)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		s, err := NewEmbeddingService(Config{APIKey: "sk-test"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.ModelName() != DefaultModel {
			t.Errorf("expected model %q, got %q", DefaultModel, s.ModelName())
		}
		if s.Dimensions() != 1536 {
			t.Errorf("expected dimensions 1536, got %d", s.Dimensions())
		}
	})

	t.Run("dimensions override", func(t *testing.T) {
		s, err := NewEmbeddingService(Config{APIKey: "sk-test", Dimensions: 256})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Dimensions() != 256 {
			t.Errorf("expected dimensions 256, got %d", s.Dimensions())
		}
	})
}

func TestEmbeddingService_EmbedBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", got)
		}

		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		// Return data out of order to exercise index-based reassembly.
		resp := map[string]any{
			"data": []map[string]any{
				{"index": 1, "embedding": []float64{0, 1, 0}},
				{"index": 0, "embedding": []float64{1, 0, 0}},
			},
			"usage": map[string]int{"prompt_tokens": 8, "total_tokens": 8},
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	s, err := NewEmbeddingService(Config{
		APIKey:  "sk-test",
		BaseURL: server.URL,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	embeddings, err := s.EmbedBatch(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(embeddings) != 2 {
		t.Fatalf("expected 2 embeddings, got %d", len(embeddings))
	}
	if embeddings[0][0] != 1 || embeddings[1][1] != 1 {
		t.Errorf("embeddings not reordered by index: %v", embeddings)
	}
}

func TestEmbeddingService_EmbedBatch_Empty(t *testing.T) {
	s, err := NewEmbeddingService(Config{APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	embeddings, err := s.EmbedBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if embeddings != nil {
		t.Errorf("expected nil for empty input, got %v", embeddings)
	}
}

func TestEmbeddingService_EmbedBatch_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "invalid api key", "type": "invalid_request_error"},
		})
	}))
	defer server.Close()

	s, err := NewEmbeddingService(Config{APIKey: "sk-bad", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = s.EmbedBatch(context.Background(), []string{"text"})
	if !errors.Is(err, domain.ErrProviderRequest) {
		t.Errorf("expected ErrProviderRequest, got %v", err)
	}
}

func TestEmbeddingService_EmbedBatch_Unreachable(t *testing.T) {
	s, err := NewEmbeddingService(Config{
		APIKey:  "sk-test",
		BaseURL: "http://127.0.0.1:1", // nothing listens here
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = s.EmbedBatch(context.Background(), []string{"text"})
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestEmbeddingService_CostSummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"data": []map[string]any{
				{"index": 0, "embedding": []float64{1, 0}},
			},
			"usage": map[string]int{"prompt_tokens": 500, "total_tokens": 500},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	s, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := s.CostSummary(); got.TotalTokens != 0 || got.TotalCost != 0 {
		t.Errorf("expected zero usage before any call, got %+v", got)
	}

	for i := 0; i < 2; i++ {
		if _, err := s.EmbedBatch(context.Background(), []string{"text"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	summary := s.CostSummary()
	if summary.TotalTokens != 1000 {
		t.Errorf("expected 1000 billed tokens, got %d", summary.TotalTokens)
	}
	if summary.CostPer1KTokens != 0.00002 {
		t.Errorf("expected rate 0.00002, got %v", summary.CostPer1KTokens)
	}
	if summary.TotalCost != 0.00002 {
		t.Errorf("expected total cost 0.00002, got %v", summary.TotalCost)
	}
}
