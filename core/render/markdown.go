// Package render provides output renderers for converted documents.
// This file implements the Markdown renderer, which is a simple passthrough.
package render

import (
	"github.com/adsharma/knowledge-graph-of-thoughts/core"
)

// MarkdownRenderer writes the converted text as-is. It's the simplest
// renderer since markdown is already the canonical conversion output.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render returns the converted text as bytes (passthrough).
func (r *MarkdownRenderer) Render(res core.ConversionResult, meta core.SourceMeta) ([]byte, error) {
	return []byte(res.Text), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}
