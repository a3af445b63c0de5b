package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkEmptyText(t *testing.T) {
	c := New(1500, 300)
	assert.Empty(t, c.Chunk(""))
}

func TestChunkShortText(t *testing.T) {
	c := New(1500, 300)
	chunks := c.Chunk("a short document")

	require.Len(t, chunks, 1)
	assert.Equal(t, "a short document", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Index)
}

func TestChunkCoversWholeInput(t *testing.T) {
	words := make([]string, 0, 600)
	for i := 0; i < 600; i++ {
		words = append(words, "lorem")
	}
	text := strings.Join(words, " ")

	c := New(500, 100)
	chunks := c.Chunk(text)
	require.Greater(t, len(chunks), 1)

	// Chunks overlap, so each one starts before the previous one ends.
	// Every chunk must advance and leave no gap to its predecessor.
	prevStart := -1
	prevEnd := 0
	searchFrom := 0
	for i, ch := range chunks {
		idx := strings.Index(text[searchFrom:], ch.Text)
		require.GreaterOrEqual(t, idx, 0, "chunk %d not found from position %d", i, searchFrom)
		start := searchFrom + idx
		require.Greater(t, start, prevStart, "chunk %d does not advance", i)
		require.LessOrEqual(t, start, prevEnd, "gap before chunk %d", i)
		prevStart = start
		prevEnd = start + len(ch.Text)
		searchFrom = start + 1
	}
	// Last chunk reaches the end of the input.
	assert.True(t, strings.HasSuffix(text, chunks[len(chunks)-1].Text))
}

func TestChunkEndsOnWordBoundary(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta ", 100)
	c := New(64, 16)
	chunks := c.Chunk(text)
	require.NotEmpty(t, chunks)

	// Windows that hit the boundary search must not cut inside a word:
	// each chunk's last word is complete.
	for _, ch := range chunks {
		fields := strings.Fields(ch.Text)
		require.NotEmpty(t, fields)
		last := fields[len(fields)-1]
		assert.Contains(t, []string{"alpha", "beta", "gamma", "delta"}, last)
	}
}

func TestChunkIndexOrdering(t *testing.T) {
	text := strings.Repeat("word ", 1000)
	chunks := New(300, 60).Chunk(text)
	for i, ch := range chunks {
		assert.Equal(t, i, ch.Index)
	}
}

func TestChunkTerminatesWhenOverlapExceedsSize(t *testing.T) {
	text := strings.Repeat("x", 200)

	// overlap > size must still make forward progress.
	chunks := New(10, 50).Chunk(text)
	assert.NotEmpty(t, chunks)
	assert.Less(t, len(chunks), len(text)+1)

	// overlap == size likewise.
	chunks = New(10, 10).Chunk(text)
	assert.NotEmpty(t, chunks)
}

func TestChunkHardCutWithoutBoundaries(t *testing.T) {
	// No spaces at all: the window falls back to a hard cut.
	text := strings.Repeat("z", 3200)
	chunks := New(1500, 300).Chunk(text)

	require.Len(t, chunks, 3)
	assert.Equal(t, 1500, len(chunks[0].Text))
}

func TestChunkTwoChunkDocument(t *testing.T) {
	// A document a bit under twice the window produces exactly two chunks.
	sentence := "The quarterly report outlines revenue growth across all divisions. "
	var b strings.Builder
	for b.Len() < 2400 {
		b.WriteString(sentence)
	}
	text := strings.TrimSpace(b.String())

	chunks := New(DefaultSize, DefaultOverlap).Chunk(text)
	require.Len(t, chunks, 2)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, 1, chunks[1].Index)
}
