// Package file provides TOML-backed configuration for the CLI.
// Configuration lives at ~/.clinisearch/config.toml; a missing file
// means defaults.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/clinisearch/clinisearch-cli/internal/adapters/driven/embedding"
	"github.com/clinisearch/clinisearch-cli/internal/adapters/driven/embedding/mock"
	"github.com/clinisearch/clinisearch-cli/internal/chunker"
)

// Storage backend names.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config is the full CLI configuration.
type Config struct {
	Chunker   ChunkerConfig   `toml:"chunker"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Storage   StorageConfig   `toml:"storage"`
}

// ChunkerConfig controls document splitting.
type ChunkerConfig struct {
	// MaxTokens is the chunk budget in tokens.
	MaxTokens int `toml:"max_tokens"`

	// OverlapTokens is the overlap between consecutive chunks.
	OverlapTokens int `toml:"overlap_tokens"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	// Provider is one of mock, openai, ollama.
	Provider string `toml:"provider"`

	// Model overrides the provider's default model.
	Model string `toml:"model,omitempty"`

	// Dimensions overrides the provider's default vector size.
	Dimensions int `toml:"dimensions,omitempty"`

	// BaseURL overrides the provider's API endpoint.
	BaseURL string `toml:"base_url,omitempty"`

	// APIKey authenticates against OpenAI. The OPENAI_API_KEY
	// environment variable takes effect when this is empty.
	APIKey string `toml:"api_key,omitempty"`
}

// StorageConfig selects the vector store backend.
type StorageConfig struct {
	// Backend is sqlite or memory.
	Backend string `toml:"backend"`

	// DataDir is where the sqlite backend keeps its database.
	// Empty means ~/.clinisearch/data.
	DataDir string `toml:"data_dir,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Chunker: ChunkerConfig{
			MaxTokens:     chunker.DefaultMaxTokens,
			OverlapTokens: chunker.DefaultOverlapTokens,
		},
		Embedding: EmbeddingConfig{
			Provider:   embedding.ProviderMock,
			Dimensions: mock.DefaultDimensions,
		},
		Storage: StorageConfig{
			Backend: BackendSQLite,
		},
	}
}

// DefaultDir returns the default configuration directory.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".clinisearch"), nil
}

// Load reads the configuration from configDir/config.toml, filling unset
// fields with defaults. If configDir is empty, ~/.clinisearch is used.
// A missing file is not an error.
func Load(configDir string) (Config, error) {
	cfg := Default()

	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return cfg, err
		}
		configDir = dir
	}

	data, err := os.ReadFile(filepath.Join(configDir, "config.toml"))
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Chunker.MaxTokens <= 0 {
		cfg.Chunker.MaxTokens = chunker.DefaultMaxTokens
	}
	if cfg.Chunker.OverlapTokens < 0 {
		cfg.Chunker.OverlapTokens = chunker.DefaultOverlapTokens
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = embedding.ProviderMock
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendSQLite
	}

	applyEnv(&cfg)
	return cfg, nil
}

// Save writes the configuration to configDir/config.toml with restricted
// permissions (the file may hold an API key).
func Save(cfg Config, configDir string) error {
	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return err
		}
		configDir = dir
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	return os.WriteFile(filepath.Join(configDir, "config.toml"), data, 0600)
}

// applyEnv fills credentials from the environment when the file left
// them empty.
func applyEnv(cfg *Config) {
	if cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}
