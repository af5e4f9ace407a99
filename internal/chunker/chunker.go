// Package chunker provides sentence-boundary-aware overlapping text chunking.
package chunker

import (
	"fmt"
	"strings"

	"github.com/Z3ROX-lab/ai-security-platform/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 100

// Chunker splits raw text into overlapping segments, preferring to cut
// at a sentence terminator or newline when one falls past the window
// midpoint.
type Chunker struct {
	size    int
	overlap int
}

// New creates a chunker. The overlap must be strictly smaller than the
// chunk size; violating that risks non-progress and is rejected as a
// configuration error.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidConfig, size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap must not be negative, got %d", domain.ErrInvalidConfig, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d", domain.ErrInvalidConfig, overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Size returns the configured window size.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Split cuts text into overlapping chunks. Consecutive windows share
// `overlap` characters so sentences split at a boundary remain
// searchable. Chunks that are empty after trimming are dropped.
// Empty input yields no chunks.
func (c *Chunker) Split(text string) []string {
	textLen := len(text)
	if textLen == 0 {
		return nil
	}

	estimated := textLen/(c.size-c.overlap) + 1
	chunks := make([]string, 0, estimated)

	start := 0
	for start < textLen {
		end := start + c.size
		if end > textLen {
			end = textLen
		}

		window := text[start:end]

		// Prefer a natural break when the window end falls strictly
		// inside the text and a terminator sits past the midpoint.
		if end < textLen {
			if bp := lastBreak(window); bp > c.size/2 {
				end = start + bp + 1
				window = text[start:end]
			}
		}

		if trimmed := strings.TrimSpace(window); trimmed != "" {
			chunks = append(chunks, trimmed)
		}

		next := end - c.overlap
		if next <= start {
			// A short natural break combined with a large overlap can
			// stall the window; fall back to the hard boundary.
			next = end
		}
		start = next
	}

	return chunks
}

// lastBreak returns the index of the last sentence terminator (". ") or
// newline in the window, or -1 when neither occurs.
func lastBreak(window string) int {
	period := strings.LastIndex(window, ". ")
	newline := strings.LastIndex(window, "\n")
	if period > newline {
		return period
	}
	return newline
}
