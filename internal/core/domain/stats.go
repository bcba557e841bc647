package domain

import "time"

// ChunkStats summarises the token shape of a chunk batch. Exposed to
// reporting collaborators through the statistics boundary.
type ChunkStats struct {
	// TotalChunks is the number of chunks produced.
	TotalChunks int `json:"total_chunks"`

	// TotalTokens is the sum of token lengths across all chunks.
	TotalTokens int `json:"total_tokens"`

	// AvgTokens is the mean token length per chunk. Zero for an empty batch.
	AvgTokens float64 `json:"avg_tokens_per_chunk"`

	// MinTokens is the smallest chunk token length. Zero for an empty batch.
	MinTokens int `json:"min_tokens"`

	// MaxTokens is the largest chunk token length. Zero for an empty batch.
	MaxTokens int `json:"max_tokens"`
}

// EmbeddingStats describes one embedding run over a chunk batch.
type EmbeddingStats struct {
	// Model is the embedding model identity.
	Model string `json:"model"`

	// Dimension is the vector dimension produced.
	Dimension int `json:"dimension"`

	// ProcessingTime is the wall-clock duration of the embedding run.
	ProcessingTime time.Duration `json:"processing_time"`

	// BilledTokens is the token count charged by a metered provider.
	// Zero for free providers.
	BilledTokens int `json:"billed_tokens,omitempty"`

	// EstimatedCost is the estimated charge in USD for BilledTokens.
	// Zero for free providers.
	EstimatedCost float64 `json:"estimated_cost,omitempty"`
}

// CostSummary is the running usage total of a metered embedding provider.
type CostSummary struct {
	// TotalTokens is the cumulative billed token count.
	TotalTokens int `json:"total_tokens"`

	// TotalCost is the cumulative estimated charge in USD.
	TotalCost float64 `json:"total_cost"`

	// CostPer1KTokens is the provider's rate in USD.
	CostPer1KTokens float64 `json:"cost_per_1k_tokens"`
}

// DocumentManifest is the ingestion summary for one processed document:
// what was chunked, how it tokenised, and what the embedding run cost.
type DocumentManifest struct {
	// DocumentID is the identifier the record was stored under.
	DocumentID string `json:"document_id"`

	// DocumentType is the document category.
	DocumentType string `json:"document_type"`

	// Filename is the originating filename, for display.
	Filename string `json:"filename"`

	// PageCount is the number of ingested pages.
	PageCount int `json:"page_count"`

	// TokenCount is the token length of the whole document before
	// chunking (overlap makes chunk totals larger than this).
	TokenCount int `json:"token_count"`

	// ChunkStats summarises the produced chunks.
	ChunkStats ChunkStats `json:"chunk_stats"`

	// EmbeddingStats describes the embedding run.
	EmbeddingStats EmbeddingStats `json:"embedding_stats"`

	// ProcessedAt is when ingestion completed.
	ProcessedAt time.Time `json:"processed_at"`
}
