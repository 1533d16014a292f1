package convert

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/adsharma/knowledge-graph-of-thoughts/core"
)

// YouTubeConverter renders watch pages as title, metadata, description
// and transcript instead of the raw page markup. It only claims HTML
// files that came from a watch URL; everything else falls through to
// the generic HTML converter.
type YouTubeConverter struct {
	TranscriptEndpoint string
	Fetcher            core.Fetcher
}

// TryConvert handles .html/.htm files fetched from youtube.com/watch.
func (c *YouTubeConverter) TryConvert(ctx context.Context, path string, hints core.Hints) (*core.ConversionResult, error) {
	ext := strings.ToLower(hints.Extension)
	if ext != ".html" && ext != ".htm" {
		return nil, nil
	}
	if !strings.HasPrefix(hints.URL, "https://www.youtube.com/watch?") {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	meta := collectMeta(doc)
	if desc := scriptDescription(doc); desc != "" {
		meta["description"] = desc
	}

	var page strings.Builder
	page.WriteString("# YouTube\n")

	title := firstOf(meta, "title", "og:title", "name")
	if title != "" {
		fmt.Fprintf(&page, "\n## %s\n", title)
	}

	var stats strings.Builder
	if views := meta["interactionCount"]; views != "" {
		fmt.Fprintf(&stats, "- **Views:** %s\n", views)
	}
	if keywords := meta["keywords"]; keywords != "" {
		fmt.Fprintf(&stats, "- **Keywords:** %s\n", keywords)
	}
	if runtime := meta["duration"]; runtime != "" {
		fmt.Fprintf(&stats, "- **Runtime:** %s\n", runtime)
	}
	if stats.Len() > 0 {
		fmt.Fprintf(&page, "\n### Video Metadata\n%s\n", stats.String())
	}

	if desc := firstOf(meta, "description", "og:description"); desc != "" {
		fmt.Fprintf(&page, "\n### Description\n%s\n", desc)
	}

	transcript, err := c.fetchTranscript(ctx, hints.URL)
	if err != nil {
		return nil, fmt.Errorf("fetching transcript: %w", err)
	}
	if transcript != "" {
		fmt.Fprintf(&page, "\n### Transcript\n%s\n", transcript)
	}

	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	return &core.ConversionResult{Title: title, Text: page.String()}, nil
}

// collectMeta reads the page <meta> tags keyed by their first itemprop,
// property or name attribute, plus the <title> element.
func collectMeta(doc *goquery.Document) map[string]string {
	meta := map[string]string{
		"title": strings.TrimSpace(doc.Find("title").First().Text()),
	}
	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		node := sel.Get(0)
		for _, attr := range node.Attr {
			if attr.Key == "itemprop" || attr.Key == "property" || attr.Key == "name" {
				meta[attr.Val], _ = sel.Attr("content")
				break
			}
		}
	})
	return meta
}

// scriptDescription digs the full video description out of the
// ytInitialData blob. This reaches into page internals, so any failure
// just means no description.
func scriptDescription(doc *goquery.Document) string {
	var desc string
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		content := sel.Text()
		if !strings.Contains(content, "ytInitialData") {
			return true
		}
		line := content
		if idx := strings.IndexAny(content, "\r\n"); idx >= 0 {
			line = content[:idx]
		}
		start := strings.Index(line, "{")
		end := strings.LastIndex(line, "}")
		if start < 0 || end < start {
			return false
		}
		var data any
		if err := json.Unmarshal([]byte(line[start:end+1]), &data); err != nil {
			return false
		}
		if found := findKey(data, "attributedDescriptionBodyText"); found != nil {
			if m, ok := found.(map[string]any); ok {
				if content, ok := m["content"].(string); ok {
					desc = content
				}
			}
		}
		return false
	})
	return desc
}

// findKey searches a decoded JSON tree for the first value at the given
// key, depth first.
func findKey(v any, key string) any {
	switch t := v.(type) {
	case []any:
		for _, elem := range t {
			if ret := findKey(elem, key); ret != nil {
				return ret
			}
		}
	case map[string]any:
		for k, val := range t {
			if k == key {
				return val
			}
			if ret := findKey(val, key); ret != nil {
				return ret
			}
		}
	}
	return nil
}

// firstOf returns the first non-empty value among the given keys.
func firstOf(meta map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := meta[k]; v != "" {
			return v
		}
	}
	return ""
}

// timedText mirrors the timedtext XML payload.
type timedText struct {
	Texts []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

// fetchTranscript downloads the English transcript for the video id in
// the watch URL.
func (c *YouTubeConverter) fetchTranscript(ctx context.Context, watchURL string) (string, error) {
	parsed, err := url.Parse(watchURL)
	if err != nil {
		return "", err
	}
	videoID := parsed.Query().Get("v")
	if videoID == "" {
		return "", fmt.Errorf("watch URL has no video id")
	}

	endpoint := fmt.Sprintf("%s?lang=en&v=%s", c.TranscriptEndpoint, url.QueryEscape(videoID))
	resp, err := c.Fetcher.Fetch(ctx, endpoint)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	var tt timedText
	if err := xml.Unmarshal(data, &tt); err != nil {
		return "", fmt.Errorf("parsing transcript: %w", err)
	}

	parts := make([]string, 0, len(tt.Texts))
	for _, t := range tt.Texts {
		parts = append(parts, html.UnescapeString(t.Value))
	}
	return strings.Join(parts, " "), nil
}
