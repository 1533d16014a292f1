// Package browser implements a stateful text-mode browser: navigation
// history, viewport pagination, on-page find, web search and downloads.
// Pages of any supported document format are rendered as text through
// the conversion engine, and every failure is rendered as page content
// rather than surfaced as an error.
package browser

import (
	"net/url"
	"path/filepath"
	"strings"
)

// hasKnownScheme reports whether the address carries one of the schemes
// the browser navigates directly. Anything else is treated as a
// reference relative to the current page.
func hasKnownScheme(address string) bool {
	return strings.HasPrefix(address, "http:") ||
		strings.HasPrefix(address, "https:") ||
		strings.HasPrefix(address, "file:")
}

// resolveReference resolves ref against base the way a browser resolves
// a link. If either side fails to parse, ref is returned unchanged.
func resolveReference(base, ref string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

// fileURIToPath converts a file:// URI to a cleaned local path.
func fileURIToPath(uri string) string {
	raw := strings.TrimPrefix(uri, "file://")
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}
	return filepath.Clean(raw)
}

// pathToFileURI converts a local path to a file:// URI.
func pathToFileURI(path string) string {
	path = filepath.ToSlash(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "file://" + (&url.URL{Path: path}).EscapedPath()
}
