package domain

// Page is one page of an ingested document as delivered by the loading
// collaborator. The core never reads files itself; pages arrive already
// extracted, in reading order.
type Page struct {
	// Index is the zero-based page number within the document.
	Index int

	// Content is the raw text of the page.
	Content string

	// SourceFile is the originating filename, kept for provenance.
	SourceFile string
}

// Document represents a document presented for ingestion.
// It is immutable once chunked; changing chunking parameters means
// re-chunking the document from scratch under a fresh record.
type Document struct {
	// ID is the caller-supplied document identifier. When empty, the
	// ingestion service generates one of the form "{type}_{uuid}".
	ID string

	// Type is the document category (e.g. "report", "referral").
	// Used by type-scoped retrieval.
	Type string

	// Pages is the ordered sequence of pages.
	Pages []Page
}

// Filename returns the source filename of the document, taken from the
// first page. Empty for an empty document.
func (d *Document) Filename() string {
	if len(d.Pages) == 0 {
		return ""
	}
	return d.Pages[0].SourceFile
}

// Chunk is a token-bounded, possibly overlapping span of document text.
// Chunks are produced in one batch per document and never mutated
// after creation.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the zero-based ordinal within the document, assigned
	// in original reading order. It is the join key between a chunk and
	// its vector inside a VectorRecord.
	Position int

	// Tokens is the token length of Content under the fixed
	// tokenization scheme.
	Tokens int

	// Page is the zero-based index of the originating page. Chunks
	// never span pages; splitting runs page by page.
	Page int

	// SourceFile is the originating filename, kept for provenance.
	SourceFile string
}
