// Package chunker splits document pages into overlapping, token-bounded
// chunks using recursive separator-prioritized splitting.
//
// Text is split at the coarsest separator it contains (paragraph break,
// then line break, then space, then individual characters). Pieces that
// fit the token budget are greedily merged back into chunks; pieces that
// do not are recursed into with the next-finer separator. The
// character-level fallback guarantees termination. When a chunk closes,
// a trailing window of its pieces seeds the next chunk so consecutive
// chunks overlap by roughly the configured token count.
package chunker

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/clinisearch/clinisearch-cli/internal/core/domain"
	"github.com/clinisearch/clinisearch-cli/internal/core/ports/driven"
)

// Ensure Splitter implements the interface.
var _ driven.Chunker = (*Splitter)(nil)

// DefaultMaxTokens is the default chunk budget in tokens.
const DefaultMaxTokens = 1000

// DefaultOverlapTokens is the default overlap between consecutive chunks.
const DefaultOverlapTokens = 200

// DefaultSeparators orders split points from coarsest to finest. The
// final empty separator means character-level splitting.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// Splitter is a token-aware recursive text splitter.
type Splitter struct {
	maxTokens     int
	overlapTokens int
	separators    []string
	counter       driven.TokenCounter
}

// Option configures the splitter.
type Option func(*Splitter)

// WithMaxTokens sets the chunk budget in tokens.
func WithMaxTokens(n int) Option {
	return func(s *Splitter) {
		s.maxTokens = n
	}
}

// WithOverlapTokens sets the overlap between consecutive chunks in tokens.
func WithOverlapTokens(n int) Option {
	return func(s *Splitter) {
		s.overlapTokens = n
	}
}

// WithSeparators replaces the separator hierarchy. If the list omits the
// final "" fallback, pieces that cannot be split below the finest given
// separator are emitted as oversized chunks rather than dropped.
func WithSeparators(separators []string) Option {
	return func(s *Splitter) {
		s.separators = separators
	}
}

// New creates a splitter over the given token counter.
//
// A non-positive max token budget is a configuration error. A negative
// overlap is clamped to zero; an overlap at or above the budget is clamped
// to a quarter of it, and chunking proceeds with the clamped value.
func New(counter driven.TokenCounter, opts ...Option) (*Splitter, error) {
	s := &Splitter{
		maxTokens:     DefaultMaxTokens,
		overlapTokens: DefaultOverlapTokens,
		separators:    DefaultSeparators,
		counter:       counter,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.counter == nil {
		return nil, fmt.Errorf("nil token counter: %w", domain.ErrInvalidConfig)
	}
	if s.maxTokens <= 0 {
		return nil, fmt.Errorf("max tokens %d: %w", s.maxTokens, domain.ErrInvalidConfig)
	}
	if len(s.separators) == 0 {
		return nil, fmt.Errorf("empty separator list: %w", domain.ErrInvalidConfig)
	}
	if s.overlapTokens < 0 {
		s.overlapTokens = 0
	}
	if s.overlapTokens >= s.maxTokens {
		s.overlapTokens = s.maxTokens / 4
	}

	return s, nil
}

// Chunk splits the document page by page, in page order, assigning
// sequential zero-based positions across the whole document. An empty
// document yields no chunks and no error. Overlap windows never cross a
// page boundary.
func (s *Splitter) Chunk(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document: %w", domain.ErrInvalidInput)
	}

	var chunks []domain.Chunk
	position := 0

	for _, page := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for _, content := range s.splitText(page.Content, s.separators) {
			chunks = append(chunks, domain.Chunk{
				ID:         uuid.New().String(),
				DocumentID: doc.ID,
				Content:    content,
				Position:   position,
				Tokens:     s.counter.CountTokens(content),
				Page:       page.Index,
				SourceFile: page.SourceFile,
			})
			position++
		}
	}

	return chunks, nil
}

// Stats summarises the token shape of a chunk batch. An empty batch
// yields the zero value.
func (s *Splitter) Stats(chunks []domain.Chunk) domain.ChunkStats {
	if len(chunks) == 0 {
		return domain.ChunkStats{}
	}

	stats := domain.ChunkStats{
		TotalChunks: len(chunks),
		MinTokens:   chunks[0].Tokens,
	}
	for _, chunk := range chunks {
		stats.TotalTokens += chunk.Tokens
		if chunk.Tokens < stats.MinTokens {
			stats.MinTokens = chunk.Tokens
		}
		if chunk.Tokens > stats.MaxTokens {
			stats.MaxTokens = chunk.Tokens
		}
	}
	stats.AvgTokens = float64(stats.TotalTokens) / float64(len(chunks))

	return stats
}

// splitText recursively splits text into chunk strings no longer than the
// token budget, except for pieces that cannot be split any finer.
func (s *Splitter) splitText(text string, separators []string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	// Pick the coarsest separator the text actually contains. The empty
	// separator always matches.
	separator := separators[len(separators)-1]
	var finer []string
	for i, sep := range separators {
		if sep == "" || strings.Contains(text, sep) {
			separator = sep
			finer = separators[i+1:]
			break
		}
	}

	var final []string
	var pending []string

	for _, piece := range split(text, separator) {
		if s.counter.CountTokens(piece) <= s.maxTokens {
			pending = append(pending, piece)
			continue
		}

		if len(pending) > 0 {
			final = append(final, s.merge(pending, separator)...)
			pending = nil
		}

		if len(finer) == 0 {
			// Nothing finer to split at: emit the piece oversized
			// rather than truncate or drop it.
			final = append(final, piece)
			continue
		}
		final = append(final, s.splitText(piece, finer)...)
	}

	if len(pending) > 0 {
		final = append(final, s.merge(pending, separator)...)
	}

	return final
}

// merge greedily accumulates consecutive pieces into chunks within the
// token budget, seeding each new chunk with a trailing window of the
// previous one whose token length approaches the overlap budget.
func (s *Splitter) merge(pieces []string, separator string) []string {
	sepTokens := s.counter.CountTokens(separator)

	var chunks []string
	var window []string
	var windowTokens []int
	total := 0

	flush := func() {
		if len(window) == 0 {
			return
		}
		if chunk := strings.TrimSpace(strings.Join(window, separator)); chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	for _, piece := range pieces {
		n := s.counter.CountTokens(piece)

		joined := total + n
		if len(window) > 0 {
			joined += sepTokens
		}

		if joined > s.maxTokens && len(window) > 0 {
			flush()

			// Shrink the retained window until it fits the overlap
			// budget and leaves room for the next piece.
			for total > s.overlapTokens ||
				(total+n+sepTokens > s.maxTokens && total > 0) {
				total -= windowTokens[0]
				if len(window) > 1 {
					total -= sepTokens
				}
				window = window[1:]
				windowTokens = windowTokens[1:]
			}
		}

		window = append(window, piece)
		windowTokens = append(windowTokens, n)
		total += n
		if len(window) > 1 {
			total += sepTokens
		}
	}
	flush()

	return chunks
}

// split divides text at the separator, dropping empty pieces. The empty
// separator splits into individual characters.
func split(text, separator string) []string {
	if separator == "" {
		return strings.Split(text, "")
	}

	parts := strings.Split(text, separator)
	pieces := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			pieces = append(pieces, part)
		}
	}
	return pieces
}
