// Package embedding selects and constructs an embedding service from
// configuration.
package embedding

import (
	"fmt"

	"github.com/clinisearch/clinisearch-cli/internal/adapters/driven/embedding/mock"
	"github.com/clinisearch/clinisearch-cli/internal/adapters/driven/embedding/ollama"
	"github.com/clinisearch/clinisearch-cli/internal/adapters/driven/embedding/openai"
	"github.com/clinisearch/clinisearch-cli/internal/core/domain"
	"github.com/clinisearch/clinisearch-cli/internal/core/ports/driven"
)

// Supported provider names.
const (
	ProviderMock   = "mock"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Config selects a provider and carries its settings. Only the fields the
// chosen provider needs are read.
type Config struct {
	// Provider is one of mock, openai, ollama. Empty selects mock.
	Provider string

	// Model overrides the provider's default embedding model.
	Model string

	// Dimensions overrides the provider's default vector size.
	Dimensions int

	// APIKey authenticates against OpenAI. Unused by other providers.
	APIKey string

	// BaseURL overrides the provider's API endpoint.
	BaseURL string
}

// New constructs the embedding service for the configured provider. An
// unknown provider name is a configuration error, not a fallback to mock:
// silently substituting meaningless vectors for real ones would corrupt
// every subsequent retrieval.
func New(cfg Config) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case "", ProviderMock:
		return mock.NewEmbeddingService(mock.Config{
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		}), nil

	case ProviderOpenAI:
		return openai.NewEmbeddingService(openai.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		})

	case ProviderOllama:
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		}), nil

	default:
		return nil, fmt.Errorf("unknown embedding provider %q: %w", cfg.Provider, domain.ErrInvalidConfig)
	}
}
