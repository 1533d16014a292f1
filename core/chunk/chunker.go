// Package chunk splits converted text into word-sized chunks, the input
// contract for the embedding store. Uses a simple whitespace tokenizer
// (words ≈ tokens) with no overlap.
package chunk

import "strings"

// Chunk is one contiguous block of words with its position metadata.
type Chunk struct {
	Index int
	Text  string
	Words int
}

// Chunker splits text into fixed-size word chunks.
type Chunker struct {
	ChunkSize int // number of words per chunk
}

// New creates a Chunker with the given chunk size.
// Defaults to 512 if chunkSize <= 0.
func New(chunkSize int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 512
	}
	return &Chunker{ChunkSize: chunkSize}
}

// Chunk splits the input text into chunks of at most ChunkSize words.
func (c *Chunker) Chunk(text string) []Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []Chunk
	for i := 0; i < len(words); i += c.ChunkSize {
		end := i + c.ChunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, Chunk{
			Index: len(chunks),
			Text:  strings.Join(words[i:end], " "),
			Words: end - i,
		})
	}
	return chunks
}
