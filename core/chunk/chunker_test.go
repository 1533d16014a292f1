package chunk

import (
	"strings"
	"testing"
)

func TestChunkSplitsOnWordBoundaries(t *testing.T) {
	c := New(3)
	chunks := c.Chunk("one two three four five six seven")

	if len(chunks) != 3 {
		t.Fatalf("chunks = %d, want 3", len(chunks))
	}
	want := []Chunk{
		{Index: 0, Text: "one two three", Words: 3},
		{Index: 1, Text: "four five six", Words: 3},
		{Index: 2, Text: "seven", Words: 1},
	}
	for i, w := range want {
		if chunks[i] != w {
			t.Errorf("chunk %d = %+v, want %+v", i, chunks[i], w)
		}
	}
}

func TestChunkCollapsesWhitespace(t *testing.T) {
	c := New(10)
	chunks := c.Chunk("  a \n\n b\tc  ")

	if len(chunks) != 1 {
		t.Fatalf("chunks = %d, want 1", len(chunks))
	}
	if chunks[0].Text != "a b c" {
		t.Errorf("text = %q", chunks[0].Text)
	}
}

func TestChunkEmpty(t *testing.T) {
	c := New(5)
	if got := c.Chunk("   \n "); got != nil {
		t.Errorf("chunks = %v, want nil", got)
	}
}

func TestChunkDefaultSize(t *testing.T) {
	c := New(0)
	if c.ChunkSize != 512 {
		t.Errorf("default size = %d", c.ChunkSize)
	}
	chunks := c.Chunk(strings.Repeat("word ", 600))
	if len(chunks) != 2 {
		t.Fatalf("chunks = %d, want 2", len(chunks))
	}
	if chunks[0].Words != 512 || chunks[1].Words != 88 {
		t.Errorf("word counts = %d, %d", chunks[0].Words, chunks[1].Words)
	}
}
