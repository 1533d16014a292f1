// JSON renderer: builds a structured document dump from the converted
// text and source metadata, with the headings and links parsed out of
// the markdown.
package render

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/adsharma/knowledge-graph-of-thoughts/core"
)

// Heading is a single heading found in the converted text.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Link is a markdown hyperlink found in the converted text.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// Document is the complete JSON output for a converted source.
type Document struct {
	Metadata   core.SourceMeta `json:"metadata"`
	Text       string          `json:"text"`
	Characters int             `json:"characters"`
	Headings   []Heading       `json:"headings"`
	Links      []Link          `json:"links"`
}

// JSONRenderer produces a structured JSON document dump.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render converts the result and metadata into the JSON document.
func (r *JSONRenderer) Render(res core.ConversionResult, meta core.SourceMeta) ([]byte, error) {
	if meta.Title == "" {
		meta.Title = res.Title
	}

	doc := Document{
		Metadata:   meta,
		Text:       res.Text,
		Characters: len(res.Text),
		Headings:   extractHeadings(res.Text),
		Links:      extractLinks(res.Text),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

// --- Markdown parsing helpers ---

var headingRegex = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)

func extractHeadings(md string) []Heading {
	matches := headingRegex.FindAllStringSubmatch(md, -1)
	headings := make([]Heading, 0, len(matches))
	for _, m := range matches {
		headings = append(headings, Heading{
			Level: len(m[1]),
			Text:  strings.TrimSpace(m[2]),
		})
	}
	return headings
}

// linkRegex matches Markdown links [text](url).
var linkRegex = regexp.MustCompile(`\[([^\]]*)\]\(([^)]+)\)`)

func extractLinks(md string) []Link {
	matches := linkRegex.FindAllStringSubmatch(md, -1)
	links := make([]Link, 0, len(matches))
	for _, m := range matches {
		links = append(links, Link{
			Text: m[1],
			Href: m[2],
		})
	}
	return links
}
