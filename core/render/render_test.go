package render

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/adsharma/knowledge-graph-of-thoughts/core"
)

const sampleMarkdown = `# Title

Intro paragraph with a [link](https://example.com/docs).

## Details

- first item
- second item
`

func TestMarkdownRendererPassthrough(t *testing.T) {
	r := NewMarkdownRenderer()
	data, err := r.Render(core.ConversionResult{Text: sampleMarkdown}, core.SourceMeta{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if string(data) != sampleMarkdown {
		t.Errorf("output altered:\n%s", data)
	}
	if r.Extension() != ".md" {
		t.Errorf("extension = %q", r.Extension())
	}
}

func TestJSONRendererDocument(t *testing.T) {
	r := NewJSONRenderer()
	res := core.ConversionResult{Title: "Fallback", Text: sampleMarkdown}
	meta := core.SourceMeta{Source: "https://example.com/page"}

	data, err := r.Render(res, meta)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if doc.Metadata.Title != "Fallback" {
		t.Errorf("metadata title = %q, want result title as fallback", doc.Metadata.Title)
	}
	if doc.Characters != len(sampleMarkdown) {
		t.Errorf("characters = %d, want %d", doc.Characters, len(sampleMarkdown))
	}

	wantHeadings := []Heading{{Level: 1, Text: "Title"}, {Level: 2, Text: "Details"}}
	if len(doc.Headings) != len(wantHeadings) {
		t.Fatalf("headings = %+v", doc.Headings)
	}
	for i, w := range wantHeadings {
		if doc.Headings[i] != w {
			t.Errorf("heading %d = %+v, want %+v", i, doc.Headings[i], w)
		}
	}

	if len(doc.Links) != 1 || doc.Links[0] != (Link{Text: "link", Href: "https://example.com/docs"}) {
		t.Errorf("links = %+v", doc.Links)
	}
}

func TestPDFRendererProducesPDF(t *testing.T) {
	r := NewPDFRenderer()
	data, err := r.Render(core.ConversionResult{Title: "Report", Text: sampleMarkdown},
		core.SourceMeta{Source: "https://example.com/report"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header: %q", data[:8])
	}
	if r.Extension() != ".pdf" {
		t.Errorf("extension = %q", r.Extension())
	}
}

func TestCleanInlineMarkdown(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"**bold** text", "bold text"},
		{"use `code` here", "use code here"},
		{"see [docs](https://example.com)", "see docs"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := cleanInlineMarkdown(tt.in); got != tt.want {
			t.Errorf("cleanInlineMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// stubEmbedder returns a fixed vector and records its inputs.
type stubEmbedder struct {
	texts []string
}

func (s *stubEmbedder) Embed(ctx context.Context, text, model string) ([]float64, error) {
	s.texts = append(s.texts, text)
	return []float64{0.1, 0.2}, nil
}

func TestEmbeddingsRenderer(t *testing.T) {
	emb := &stubEmbedder{}
	r := &EmbeddingsRenderer{Model: "nomic-embed-text", ChunkSize: 3, Embedder: emb}

	data, err := r.Render(core.ConversionResult{Text: "one two three four five"},
		core.SourceMeta{Source: "notes.txt"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if len(emb.texts) != 2 {
		t.Fatalf("embedded %d chunks, want 2", len(emb.texts))
	}
	out := string(data)
	for _, want := range []string{
		"# source: notes.txt",
		"# model: nomic-embed-text",
		"--- chunk 1 (3 words) ---",
		"--- chunk 2 (2 words) ---",
		"[0.1000, 0.2000]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEmbeddingsRendererEmptyText(t *testing.T) {
	r := &EmbeddingsRenderer{Model: "m", ChunkSize: 3, Embedder: &stubEmbedder{}}
	if _, err := r.Render(core.ConversionResult{Text: "   "}, core.SourceMeta{}); err == nil {
		t.Error("want error for empty text")
	}
}
