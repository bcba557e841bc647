package driven

// TokenCounter computes token lengths under one fixed tokenization scheme.
//
// The same scheme is shared by chunking, document statistics, and cost
// estimation so the numbers agree with each other. Implementations must be
// deterministic and stateless: identical input always yields the identical
// count, with no dependence on time, call order, or external state.
//
// CountTokens sits on the hot path of recursive splitting and must stay
// cheap relative to the size of its input.
type TokenCounter interface {
	// CountTokens returns the non-negative token length of text.
	CountTokens(text string) int
}
