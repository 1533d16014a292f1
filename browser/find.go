package browser

import (
	"regexp"
	"strings"
)

var nonWordRe = regexp.MustCompile(`\W+`)

// FindOnPage searches for the query from the current viewport forward,
// wrapping around to the start. Repeating the search while still on the
// last hit advances to the next one. Returns the matching viewport's
// content, or ok=false when nothing matches.
func (b *Browser) FindOnPage(query string) (string, bool) {
	if query == b.findQuery && b.current == b.findLast {
		return b.FindNext()
	}

	b.findQuery = query
	match := b.findNextViewport(query, b.current)
	if match < 0 {
		b.findLast = -1
		return "", false
	}
	b.current = match
	b.findLast = match
	return b.Viewport(), true
}

// FindNext advances to the next viewport matching the active query.
// Without a prior FindOnPage there is nothing to do.
func (b *Browser) FindNext() (string, bool) {
	if b.findQuery == "" {
		return "", false
	}

	start := b.findLast
	if start < 0 {
		start = 0
	} else {
		start++
		if start >= len(b.viewports) {
			start = 0
		}
	}

	match := b.findNextViewport(b.findQuery, start)
	if match < 0 {
		b.findLast = -1
		return "", false
	}
	b.current = match
	b.findLast = match
	return b.Viewport(), true
}

// findNextViewport scans viewports from start, wrapping, and returns the
// index of the first whose normalized content matches the query.
func (b *Browser) findNextViewport(query string, start int) int {
	pattern := compileFindQuery(query)
	if pattern == nil {
		return -1
	}

	for n := 0; n < len(b.viewports); n++ {
		i := (start + n) % len(b.viewports)
		bounds := b.viewports[i]
		content := " " + strings.ToLower(normalizeFindText(b.pageContent[bounds.start:bounds.end])) + " "
		if pattern.MatchString(content) {
			return i
		}
	}
	return -1
}

// compileFindQuery normalizes a find query into a regular expression.
// Words are matched case-insensitively across whitespace and
// punctuation; a "*" matches any run of words.
func compileFindQuery(query string) *regexp.Regexp {
	nquery := strings.ReplaceAll(query, "*", "__STAR__")
	nquery = " " + normalizeFindText(nquery) + " "
	// Merge isolated stars with the prior word.
	nquery = strings.ReplaceAll(nquery, " __STAR__ ", "__STAR__ ")
	nquery = strings.ToLower(strings.ReplaceAll(nquery, "__STAR__", ".*"))

	if strings.TrimSpace(nquery) == "" {
		return nil
	}
	re, err := regexp.Compile(nquery)
	if err != nil {
		return nil
	}
	return re
}

// normalizeFindText collapses every run of non-word characters to a
// single space.
func normalizeFindText(text string) string {
	return strings.TrimSpace(nonWordRe.ReplaceAllString(text, " "))
}
