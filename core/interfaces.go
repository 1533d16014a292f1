// Package core defines the shared types and interfaces of the conversion
// and browsing pipeline. Each capability is a small, testable interface.
package core

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// ConversionResult is the outcome of converting a document to text.
// Title may be empty; converters that cannot infer one leave it blank.
type ConversionResult struct {
	Title string
	Text  string
}

// Hints carries optional context for a conversion attempt.
// Extension is the candidate file extension currently being tried
// (with leading dot). URL is the source address, when known.
type Hints struct {
	Extension string
	URL       string
	Charset   string
}

// SourceMeta describes where a converted document came from.
type SourceMeta struct {
	Source    string `json:"source"`
	Title     string `json:"title"`
	FetchedAt string `json:"fetched_at"` // ISO8601
}

// Converter turns a local file into text. A converter that does not
// handle the given file returns (nil, nil) so the next one can try.
type Converter interface {
	TryConvert(ctx context.Context, path string, hints Hints) (*ConversionResult, error)
}

// Fetcher performs HTTP GET requests with the configured headers and
// cookies attached. The caller owns the response body.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*http.Response, error)
}

// SearchResult is a single entry returned by a search backend.
type SearchResult struct {
	Title         string
	URL           string
	Content       string
	PublishedDate string
}

// SearchProvider queries an external search backend.
// filterYear of 0 means no year restriction.
type SearchProvider interface {
	Search(ctx context.Context, query string, filterYear int) ([]SearchResult, error)
}

// Renderer converts a conversion result (and metadata) into a final
// output format.
type Renderer interface {
	Render(res ConversionResult, meta SourceMeta) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}

// Embedder generates a vector embedding for a text input.
type Embedder interface {
	Embed(ctx context.Context, text string, model string) ([]float64, error)
}

// ConversionError wraps a recoverable failure from a single converter.
// The engine records it and keeps trying the remaining candidates.
type ConversionError struct {
	Converter string
	Err       error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Converter, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// ExhaustedError reports that every converter declined or failed for
// every candidate extension, and the plain-text fallback failed too.
type ExhaustedError struct {
	Path       string
	Extensions []string
	LastErr    error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("could not convert %q (tried extensions %s): %v",
		e.Path, strings.Join(e.Extensions, ", "), e.LastErr)
}

func (e *ExhaustedError) Unwrap() error { return e.LastErr }
