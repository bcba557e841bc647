package embedding

import (
	"errors"
	"testing"

	"github.com/clinisearch/clinisearch-cli/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("empty provider selects mock", func(t *testing.T) {
		s, err := New(Config{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer s.Close()
		if s.ModelName() != "mock-embedding-v1" {
			t.Errorf("expected mock model, got %q", s.ModelName())
		}
	})

	t.Run("mock honours overrides", func(t *testing.T) {
		s, err := New(Config{Provider: ProviderMock, Model: "mock-tiny", Dimensions: 16})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer s.Close()
		if s.Dimensions() != 16 {
			t.Errorf("expected dimensions 16, got %d", s.Dimensions())
		}
	})

	t.Run("openai requires API key", func(t *testing.T) {
		_, err := New(Config{Provider: ProviderOpenAI})
		if !errors.Is(err, domain.ErrProviderUnavailable) {
			t.Errorf("expected ErrProviderUnavailable, got %v", err)
		}
	})

	t.Run("ollama", func(t *testing.T) {
		s, err := New(Config{Provider: ProviderOllama})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer s.Close()
		if s.ModelName() != "nomic-embed-text" {
			t.Errorf("expected nomic-embed-text, got %q", s.ModelName())
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := New(Config{Provider: "huggingface"})
		if !errors.Is(err, domain.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
