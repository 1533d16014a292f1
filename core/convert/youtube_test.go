package convert

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adsharma/knowledge-graph-of-thoughts/core"
	"github.com/adsharma/knowledge-graph-of-thoughts/core/fetch"
)

const watchPageHTML = `<html><head>
<title>Parsing Go - YouTube</title>
<meta itemprop="name" content="Parsing Go">
<meta itemprop="interactionCount" content="12345">
<meta name="keywords" content="go, parsing">
<meta itemprop="duration" content="PT10M3S">
</head><body>
<script>var ytInitialData = {"contents":{"x":[{"attributedDescriptionBodyText":{"content":"A deep dive into parsers."}}]}};</script>
</body></html>`

func TestYouTubeConverter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("v"); got != "abc123" {
			t.Errorf("video id = %q", got)
		}
		fmt.Fprint(w, `<transcript><text start="0">Hello</text><text start="1">world &amp; beyond</text></transcript>`)
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "watch.html")
	if err := os.WriteFile(path, []byte(watchPageHTML), 0644); err != nil {
		t.Fatal(err)
	}

	c := &YouTubeConverter{
		TranscriptEndpoint: srv.URL + "/api/timedtext",
		Fetcher:            fetch.New(fetch.Options{}),
	}
	res, err := c.TryConvert(context.Background(), path, core.Hints{
		Extension: ".html",
		URL:       "https://www.youtube.com/watch?v=abc123",
	})
	if err != nil {
		t.Fatalf("TryConvert: %v", err)
	}

	if res.Title != "Parsing Go - YouTube" {
		t.Errorf("title = %q", res.Title)
	}
	for _, want := range []string{
		"# YouTube",
		"## Parsing Go - YouTube",
		"- **Views:** 12345",
		"- **Keywords:** go, parsing",
		"- **Runtime:** PT10M3S",
		"### Description\nA deep dive into parsers.",
		"### Transcript\nHello world & beyond",
	} {
		if !strings.Contains(res.Text, want) {
			t.Errorf("output missing %q:\n%s", want, res.Text)
		}
	}
}

func TestYouTubeConverterDeclines(t *testing.T) {
	c := &YouTubeConverter{}

	// Wrong extension.
	res, err := c.TryConvert(context.Background(), "x.pdf", core.Hints{Extension: ".pdf", URL: "https://www.youtube.com/watch?v=1"})
	if res != nil || err != nil {
		t.Errorf("want decline for wrong extension, got %v, %v", res, err)
	}

	// HTML but not a watch URL.
	res, err = c.TryConvert(context.Background(), "x.html", core.Hints{Extension: ".html", URL: "https://example.com/page"})
	if res != nil || err != nil {
		t.Errorf("want decline for non-watch URL, got %v, %v", res, err)
	}
}

func TestFindKey(t *testing.T) {
	data := map[string]any{
		"a": []any{
			map[string]any{"b": 1},
			map[string]any{"needle": map[string]any{"content": "found"}},
		},
	}
	got := findKey(data, "needle")
	m, ok := got.(map[string]any)
	if !ok || m["content"] != "found" {
		t.Errorf("findKey = %v", got)
	}
}
