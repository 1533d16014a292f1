package browser

import (
	"context"
	"strings"
	"testing"

	"github.com/adsharma/knowledge-graph-of-thoughts/core"
)

func TestViewportSplitAlignsOnWhitespace(t *testing.T) {
	content := strings.Repeat("word ", 4000) // well past one viewport
	path := writeTextFile(t, "long.txt", content)

	b := newTestBrowser(t, Config{ViewportSize: 8192})
	b.VisitPage(context.Background(), pathToFileURI(path), 0)

	if b.ViewportCount() != 3 {
		t.Fatalf("viewport count = %d, want 3", b.ViewportCount())
	}

	// Ranges tile the whole document.
	var rebuilt strings.Builder
	for _, vr := range b.viewports {
		rebuilt.WriteString(b.pageContent[vr.start:vr.end])
	}
	if rebuilt.String() != b.PageContent() {
		t.Error("viewports do not tile the page content")
	}

	// Every boundary except the last lands after whitespace.
	for i, vr := range b.viewports[:len(b.viewports)-1] {
		if !isViewportBreak(b.pageContent[vr.end-1]) {
			t.Errorf("viewport %d ends mid-word at byte %d", i, vr.end)
		}
		if vr.end-vr.start < b.cfg.ViewportSize {
			t.Errorf("viewport %d shorter than nominal size: %d", i, vr.end-vr.start)
		}
	}
}

func TestViewportEmptyPage(t *testing.T) {
	b := newTestBrowser(t, Config{})
	b.VisitPage(context.Background(), "about:blank", 0)

	if got := b.viewports; len(got) != 1 || got[0] != (viewportRange{0, 0}) {
		t.Errorf("viewports = %v, want [{0 0}]", got)
	}
}

func TestSearchPageIsNeverSplit(t *testing.T) {
	long := strings.Repeat("result snippet text ", 2000)
	search := &stubSearch{byYear: map[int][]core.SearchResult{
		0: {{Title: "Big", URL: "https://example.com", Content: long}},
	}}

	b := newTestBrowser(t, Config{ViewportSize: 1024, Search: search})
	b.VisitPage(context.Background(), "search:everything", 0)

	if b.ViewportCount() != 1 {
		t.Errorf("viewport count = %d, want 1 for search pages", b.ViewportCount())
	}
	if len(b.Viewport()) <= 1024 {
		t.Errorf("viewport unexpectedly truncated: %d bytes", len(b.Viewport()))
	}
}
