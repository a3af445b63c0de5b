package chunker

import (
	"strings"
)

const (
	// DefaultSize is the target chunk length in characters.
	DefaultSize = 1500
	// DefaultOverlap is how far consecutive chunks overlap.
	DefaultOverlap = 300
)

// Chunk is a bounded overlapping substring of extracted text. Chunks are
// ephemeral: they exist only long enough to be embedded and stored.
type Chunk struct {
	Index  int
	Text   string
	Length int
}

// Chunker splits text into overlapping windows, cutting on word boundaries
// where possible.
type Chunker struct {
	size    int
	overlap int
}

// New creates a chunker. Non-positive size or negative overlap fall back to
// the defaults.
func New(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultSize
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	return &Chunker{size: size, overlap: overlap}
}

// Chunk splits text into trimmed, overlapping chunks covering the whole
// input. The window advances by size, backing up to the last word boundary
// so words are not split; the next window starts overlap characters before
// the previous end. Forward progress is guaranteed even when overlap >= size.
func (c *Chunker) Chunk(text string) []Chunk {
	var chunks []Chunk
	textLen := len(text)
	start := 0

	for start < textLen {
		end := start + c.size

		if end >= textLen {
			end = textLen
		} else {
			if lastSpace := strings.LastIndex(text[start:end], " "); lastSpace > 0 {
				end = start + lastSpace
			}
		}

		chunks = append(chunks, Chunk{
			Index:  len(chunks),
			Text:   strings.TrimSpace(text[start:end]),
			Length: end - start,
		})

		if end >= textLen {
			break
		}

		next := end - c.overlap
		// Degenerate configs (overlap >= size) must not stall the window.
		if next <= start {
			next = start + 1
		}
		start = next
	}

	for i := range chunks {
		chunks[i].Length = len(chunks[i].Text)
	}

	return chunks
}

// Texts returns the chunk texts in order.
func Texts(chunks []Chunk) []string {
	out := make([]string, len(chunks))
	for i, ch := range chunks {
		out[i] = ch.Text
	}
	return out
}
