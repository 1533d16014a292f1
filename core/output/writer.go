// Package output handles file naming and writing for rendered documents.
// Filenames are flattened from the source URL or path
// (e.g., https://example.com/docs/intro → example_com_docs_intro.md).
package output

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// Write stores rendered data under a filename derived from the source.
func (w *Writer) Write(source string, data []byte, ext string) (string, error) {
	name := filenameFromSource(source)
	path := filepath.Join(w.OutputDir, name+ext)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// filenameFromSource flattens a URL or local path into a filename.
// Example: https://example.com/docs/intro → example_com_docs_intro
func filenameFromSource(source string) string {
	parsed, err := url.Parse(source)
	if err != nil || parsed.Host == "" {
		// Local path: flatten the base name.
		base := filepath.Base(strings.TrimSuffix(source, "/"))
		base = strings.TrimSuffix(base, filepath.Ext(base))
		return sanitize(base)
	}

	parts := []string{sanitize(parsed.Host)}
	path := strings.Trim(parsed.Path, "/")
	if path != "" {
		for _, seg := range strings.Split(path, "/") {
			parts = append(parts, sanitize(seg))
		}
	}
	return strings.Join(parts, "_")
}

// sanitize replaces non-alphanumeric characters with underscores.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
