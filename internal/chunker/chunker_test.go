package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Z3ROX-lab/ai-security-platform/internal/core/domain"
)

func TestNew_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
	}{
		{"zero size", 0, 0},
		{"negative size", -10, 0},
		{"negative overlap", 100, -1},
		{"overlap equals size", 100, 100},
		{"overlap exceeds size", 100, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.size, tt.overlap)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
		})
	}
}

func TestSplit_EmptyInput(t *testing.T) {
	c, err := New(100, 10)
	require.NoError(t, err)

	assert.Empty(t, c.Split(""))
}

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	c, err := New(1000, 100)
	require.NoError(t, err)

	chunks := c.Split("The quick brown fox jumps over the lazy dog.")
	require.Len(t, chunks, 1)
	assert.Equal(t, "The quick brown fox jumps over the lazy dog.", chunks[0])
}

func TestSplit_ChunksNeverExceedSize(t *testing.T) {
	c, err := New(100, 20)
	require.NoError(t, err)

	text := strings.Repeat("word ", 500)
	for _, chunk := range c.Split(text) {
		assert.LessOrEqual(t, len(chunk), 100)
	}
}

func TestSplit_PrefersSentenceBoundary(t *testing.T) {
	c, err := New(50, 5)
	require.NoError(t, err)

	// The terminator sits past the window midpoint, so the first chunk
	// should end at it rather than mid-word.
	text := "This is the first sentence here. This is the second sentence which continues on."
	chunks := c.Split(text)

	require.NotEmpty(t, chunks)
	assert.Equal(t, "This is the first sentence here.", chunks[0])
}

func TestSplit_IgnoresEarlyBreak(t *testing.T) {
	c, err := New(60, 5)
	require.NoError(t, err)

	// The only terminator falls before the midpoint; the chunk should
	// use the hard boundary instead of backtracking that far.
	text := "Short. " + strings.Repeat("x", 200)
	chunks := c.Split(text)

	require.NotEmpty(t, chunks)
	assert.Greater(t, len(chunks[0]), 30)
}

func TestSplit_CoversAllContent(t *testing.T) {
	c, err := New(80, 10)
	require.NoError(t, err)

	text := "Alpha bravo charlie delta. Echo foxtrot golf hotel. India juliett kilo lima. " +
		"Mike november oscar papa. Quebec romeo sierra tango. Uniform victor whiskey xray."
	chunks := c.Split(text)

	// Every word of the input must appear in some chunk.
	joined := strings.Join(chunks, " ")
	for _, word := range strings.Fields(text) {
		assert.Contains(t, joined, strings.TrimSuffix(word, "."))
	}
}

func TestSplit_OverlapCarriesContext(t *testing.T) {
	c, err := New(100, 30)
	require.NoError(t, err)

	text := strings.Repeat("abcdefghij", 30)
	chunks := c.Split(text)
	require.Greater(t, len(chunks), 1)

	// Consecutive chunks share the overlap region.
	tail := chunks[0][len(chunks[0])-10:]
	assert.Contains(t, chunks[1], tail)
}

func TestSplit_TerminatesOnPathologicalInput(t *testing.T) {
	// Large overlap with dense break characters used to risk a stalled
	// window; the guard must keep the cursor advancing.
	c, err := New(20, 19)
	require.NoError(t, err)

	text := strings.Repeat(".\n", 200)
	chunks := c.Split(text)

	// Termination is the property under test; content is all trimmed
	// break characters.
	assert.NotNil(t, chunks)
}

func TestSplit_TrimsWhitespace(t *testing.T) {
	c, err := New(1000, 100)
	require.NoError(t, err)

	chunks := c.Split("   padded content here.   ")
	require.Len(t, chunks, 1)
	assert.Equal(t, "padded content here.", chunks[0])
}
