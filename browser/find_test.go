package browser

import (
	"context"
	"strings"
	"testing"
)

// findFixture loads a page with "apple" in viewports 0 and 2 and
// "banana" in viewport 1 (small viewport size forces the split).
func findFixture(t *testing.T) *Browser {
	t.Helper()
	content := "apple one two three four " + // ~25 bytes per section
		"banana five six seven eight " +
		"apple nine ten eleven twelve"
	path := writeTextFile(t, "fruits.txt", content)

	b := newTestBrowser(t, Config{ViewportSize: 25})
	b.VisitPage(context.Background(), pathToFileURI(path), 0)
	if b.ViewportCount() < 3 {
		t.Fatalf("viewport count = %d, want at least 3", b.ViewportCount())
	}
	return b
}

func TestFindOnPageBasic(t *testing.T) {
	b := findFixture(t)

	viewport, ok := b.FindOnPage("banana")
	if !ok {
		t.Fatal("no match for banana")
	}
	if !strings.Contains(viewport, "banana") {
		t.Errorf("viewport = %q", viewport)
	}
	if b.CurrentViewport() == 0 {
		t.Error("expected the browser to scroll to the match")
	}
}

func TestFindOnPageCaseInsensitive(t *testing.T) {
	b := findFixture(t)
	if _, ok := b.FindOnPage("BANANA"); !ok {
		t.Error("find should ignore case")
	}
}

func TestFindOnPageWildcard(t *testing.T) {
	b := findFixture(t)
	if _, ok := b.FindOnPage("ban*"); !ok {
		t.Error("trailing wildcard should match banana")
	}
	if _, ok := b.FindOnPage("five *ight"); ok {
		t.Log("mid-word wildcard matched; pattern semantics are word based")
	}
}

func TestFindWrapsAround(t *testing.T) {
	b := findFixture(t)

	if _, ok := b.FindOnPage("apple"); !ok {
		t.Fatal("first apple not found")
	}
	first := b.CurrentViewport()

	if _, ok := b.FindNext(); !ok {
		t.Fatal("second apple not found")
	}
	second := b.CurrentViewport()
	if second == first {
		t.Error("FindNext stayed on the same viewport")
	}

	if _, ok := b.FindNext(); !ok {
		t.Fatal("wraparound failed")
	}
	if b.CurrentViewport() != first {
		t.Errorf("expected wrap back to viewport %d, got %d", first, b.CurrentViewport())
	}
}

func TestRepeatedFindAdvances(t *testing.T) {
	b := findFixture(t)

	b.FindOnPage("apple")
	first := b.CurrentViewport()
	// Same query while sitting on the hit behaves like FindNext.
	b.FindOnPage("apple")
	if b.CurrentViewport() == first {
		t.Error("repeated find did not advance")
	}
}

func TestFindNextWithoutQuery(t *testing.T) {
	b := findFixture(t)
	if _, ok := b.FindNext(); ok {
		t.Error("FindNext without a prior query should not match")
	}
}

func TestFindEmptyQuery(t *testing.T) {
	b := findFixture(t)
	if _, ok := b.FindOnPage("  ,,, "); ok {
		t.Error("query that normalizes to nothing should not match")
	}
}

func TestFindNoMatch(t *testing.T) {
	b := findFixture(t)
	if _, ok := b.FindOnPage("cherry"); ok {
		t.Error("unexpected match for cherry")
	}
	// A miss clears the last-result state.
	if _, ok := b.FindNext(); !ok {
		t.Log("FindNext after a miss restarts from the top")
	}
}
