package domain

// RetrievalResult is a single ranked hit for a query. It is a non-owning
// view constructed per query and never persisted.
type RetrievalResult struct {
	// DocumentID is the source document of the matched chunk.
	DocumentID string `json:"document_id"`

	// Chunk is the matched chunk, including its position and provenance.
	Chunk Chunk `json:"chunk"`

	// Score is the cosine similarity between the query vector and the
	// chunk vector.
	Score float64 `json:"score"`
}
