// Package tokenizer provides the fixed token length function shared by
// chunking, statistics, and cost estimation.
//
// The counter approximates BPE-style subword counts from rune classes
// alone: words contribute roughly one token per five letters, every
// punctuation or symbol rune counts as one token, and whitespace counts
// as nothing. The absolute numbers differ from any real model vocabulary,
// but the scheme is deterministic, stateless, and cheap: a single pass
// over the input with no allocation, which is what chunking needs.
package tokenizer

import (
	"unicode"

	"github.com/clinisearch/clinisearch-cli/internal/core/ports/driven"
)

// Ensure Counter implements the interface.
var _ driven.TokenCounter = (*Counter)(nil)

// wordRunesPerToken is the assumed average subword length. Five letters
// per token tracks English prose reasonably well.
const wordRunesPerToken = 5

// Counter counts tokens under the fixed scheme. The zero value is ready
// to use.
type Counter struct{}

// New creates a new token counter.
func New() *Counter {
	return &Counter{}
}

// CountTokens returns the token length of text. It is deterministic and
// returns 0 for empty or all-whitespace input.
func (c *Counter) CountTokens(text string) int {
	tokens := 0
	wordLen := 0

	flush := func() {
		if wordLen > 0 {
			tokens += (wordLen + wordRunesPerToken - 1) / wordRunesPerToken
			wordLen = 0
		}
	}

	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			wordLen++
		case unicode.IsSpace(r):
			flush()
		default:
			// Punctuation and symbols tokenize on their own.
			flush()
			tokens++
		}
	}
	flush()

	return tokens
}
