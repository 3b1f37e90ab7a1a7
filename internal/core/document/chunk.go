package document

import "legal-assistant/internal/core/normalize"

// Chunk is a contiguous slice of sanitized text.
type Chunk struct {
	Index int
	Text  normalize.Text
}

// Chunking is the result of Split. Available counts the chunks the text
// produced before the cap was applied.
type Chunking struct {
	Chunks    []Chunk
	Available int
}

// Truncated reports whether Split dropped tail chunks.
func (c Chunking) Truncated() bool { return c.Available > len(c.Chunks) }

// Dropped returns how many tail chunks were discarded.
func (c Chunking) Dropped() int { return c.Available - len(c.Chunks) }

// Split partitions text into slices of exactly size characters, the last one
// possibly shorter, and keeps at most maxChunks of them. Content past the cap
// is lost: artifacts handed to the vector store are bounded on purpose.
// maxChunks <= 0 keeps every chunk; size <= 0 yields a single chunk.
func Split(text normalize.Text, size, maxChunks int) Chunking {
	n := text.Len()
	if n == 0 {
		return Chunking{}
	}
	if size <= 0 {
		size = n
	}
	available := (n + size - 1) / size
	keep := available
	if maxChunks > 0 && keep > maxChunks {
		keep = maxChunks
	}

	chunks := make([]Chunk, 0, keep)
	for i := 0; i < keep; i++ {
		start := i * size
		end := min(start+size, n)
		chunks = append(chunks, Chunk{Index: i, Text: text.Slice(start, end)})
	}
	return Chunking{Chunks: chunks, Available: available}
}
