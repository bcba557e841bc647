// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - TokenCounter: Fixed tokenization scheme shared by chunking and statistics
//   - Chunker: Splits document pages into token-bounded chunks
//   - EmbeddingService: Generates vector embeddings (mock, OpenAI, Ollama)
//   - MeteredEmbeddingService: An EmbeddingService that tracks billed usage
//   - VectorStore: Persists per-document chunk+vector records
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
