// Package domain defines the core business entities for clinisearch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested document as an ordered sequence of pages
//   - Chunk: A token-bounded span of document text, the unit of retrieval
//   - VectorRecord: The persisted chunk+vector pairs for one document
//   - RetrievalResult: A ranked chunk returned for a query
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
