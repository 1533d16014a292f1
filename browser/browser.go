package browser

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/adsharma/knowledge-graph-of-thoughts/core"
	"github.com/adsharma/knowledge-graph-of-thoughts/core/convert"
	"github.com/adsharma/knowledge-graph-of-thoughts/core/fetch"
)

const (
	aboutBlank   = "about:blank"
	searchScheme = "search:"

	defaultViewportSize = 1024 * 8
	defaultSearxURL     = "https://searx.be"
)

// Config configures a Browser.
type Config struct {
	StartPage       string
	ViewportSize    int
	DownloadsFolder string
	SearxURL        string

	Logger  *slog.Logger
	Fetcher core.Fetcher
	Engine  *convert.Engine
	Search  core.SearchProvider
}

func (c *Config) defaults() {
	if c.StartPage == "" {
		c.StartPage = aboutBlank
	}
	if c.ViewportSize <= 0 {
		c.ViewportSize = defaultViewportSize
	}
	if c.SearxURL == "" {
		c.SearxURL = defaultSearxURL
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Fetcher == nil {
		c.Fetcher = fetch.New(fetch.Options{})
	}
	if c.Engine == nil {
		c.Engine = convert.New(convert.Config{Logger: c.Logger, Fetcher: c.Fetcher})
	}
	if c.Search == nil {
		c.Search = NewSearxClient(c.SearxURL, c.Fetcher)
	}
}

type historyEntry struct {
	address string
	visited time.Time
}

// Browser is a text-mode browser holding one current page at a time.
// It is not safe for concurrent use.
type Browser struct {
	cfg Config

	history     []historyEntry
	pageTitle   string
	pageContent string

	viewports []viewportRange
	current   int

	findQuery string
	findLast  int

	now func() time.Time
}

// New creates a Browser and navigates to the configured start page.
func New(cfg Config) *Browser {
	cfg.defaults()
	b := &Browser{
		cfg:      cfg,
		findLast: -1,
		now:      time.Now,
	}
	b.SetAddress(context.Background(), cfg.StartPage, 0)
	return b
}

// Address returns the address of the current page.
func (b *Browser) Address() string {
	if len(b.history) == 0 {
		return ""
	}
	return b.history[len(b.history)-1].address
}

// PageTitle returns the title of the current page, if any.
func (b *Browser) PageTitle() string { return b.pageTitle }

// PageContent returns the full text of the current page.
func (b *Browser) PageContent() string { return b.pageContent }

// Viewport returns the content of the current viewport.
func (b *Browser) Viewport() string {
	bounds := b.viewports[b.current]
	return b.pageContent[bounds.start:bounds.end]
}

// ViewportCount returns how many viewports the current page has.
func (b *Browser) ViewportCount() int { return len(b.viewports) }

// CurrentViewport returns the zero-based index of the current viewport.
func (b *Browser) CurrentViewport() int { return b.current }

// PageDown moves one viewport forward, clamped at the last one.
func (b *Browser) PageDown() {
	if b.current < len(b.viewports)-1 {
		b.current++
	}
}

// PageUp moves one viewport back, clamped at the first one.
func (b *Browser) PageUp() {
	if b.current > 0 {
		b.current--
	}
}

// VisitPage navigates to the given address and returns the content of
// the resulting viewport. Failures are rendered as page content, so
// VisitPage itself never fails.
func (b *Browser) VisitPage(ctx context.Context, address string, filterYear int) string {
	b.SetAddress(ctx, address, filterYear)
	return b.Viewport()
}

// SetAddress navigates to an address: "about:blank" clears the page,
// "search:<query>" runs a web search, http/https/file addresses are
// fetched, and anything else is resolved relative to the current page.
// Navigation always resets the viewport and the find state.
func (b *Browser) SetAddress(ctx context.Context, address string, filterYear int) {
	b.history = append(b.history, historyEntry{address: address, visited: b.now()})

	switch {
	case address == aboutBlank:
		b.pageTitle = ""
		b.setPageContent("")

	case isSearchAddress(address):
		query := strings.TrimSpace(address[len(searchScheme):])
		b.runSearch(ctx, query, filterYear)

	default:
		if !hasKnownScheme(address) && len(b.history) > 1 {
			prior := b.history[len(b.history)-2].address
			address = resolveReference(prior, address)
			// Record the fully qualified address in the history.
			b.history[len(b.history)-1].address = address
		}
		b.fetchPage(ctx, address)
	}

	b.current = 0
	b.findQuery = ""
	b.findLast = -1
}

func isSearchAddress(address string) bool {
	return strings.HasPrefix(address, searchScheme)
}

// setPageContent replaces the page text and recomputes the viewports.
func (b *Browser) setPageContent(content string) {
	b.pageContent = content
	b.splitPages()
	if b.current >= len(b.viewports) {
		b.current = len(b.viewports) - 1
	}
}

// fetchPage loads an http, https or file address into the page. Every
// failure mode ends up as rendered page content.
func (b *Browser) fetchPage(ctx context.Context, address string) {
	if strings.HasPrefix(address, "file://") {
		b.loadLocalFile(ctx, fileURIToPath(address))
		return
	}

	resp, err := b.cfg.Fetcher.Fetch(ctx, address)
	if err != nil {
		b.httpErrorPage(err)
		return
	}
	defer resp.Body.Close()

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if strings.Contains(contentType, "text/") {
		res, err := b.cfg.Engine.ConvertResponse(ctx, resp, core.Hints{URL: address})
		if err != nil {
			b.pageTitle = "Error"
			b.setPageContent(fmt.Sprintf("## Error: %v", err))
			return
		}
		b.pageTitle = res.Title
		b.setPageContent(res.Text)
		return
	}

	// Not text: save it to the downloads folder and re-navigate to the
	// saved file so convertible formats get rendered.
	downloadPath, err := b.saveDownload(resp, address)
	if err != nil {
		b.pageTitle = "Error"
		b.setPageContent(fmt.Sprintf("## Error\n\n%v", err))
		return
	}
	b.cfg.Logger.Debug("download saved", "url", address, "path", downloadPath)
	b.SetAddress(ctx, pathToFileURI(downloadPath), 0)
}

// loadLocalFile converts a local file into the page. A file that exists
// but cannot be converted still counts as a completed download.
func (b *Browser) loadLocalFile(ctx context.Context, path string) {
	res, err := b.cfg.Engine.ConvertLocal(ctx, path, core.Hints{})
	if err == nil {
		b.pageTitle = res.Title
		b.setPageContent(res.Text)
		return
	}

	if errors.Is(err, fs.ErrNotExist) {
		b.pageTitle = "Error 404"
		b.setPageContent(fmt.Sprintf("## Error 404\n\nFile not found: %s", path))
		return
	}

	b.cfg.Logger.Debug("conversion failed", "path", path, "error", err)
	b.pageTitle = "Download complete."
	b.setPageContent(fmt.Sprintf("# Download complete\n\nSaved file to '%s'", path))
}

// httpErrorPage renders a failed HTTP fetch. HTML error bodies are
// converted so the message stays readable.
func (b *Browser) httpErrorPage(err error) {
	var httpErr *fetch.HTTPError
	if !errors.As(err, &httpErr) {
		b.pageTitle = "Error"
		b.setPageContent(fmt.Sprintf("## Error\n\n%v", err))
		return
	}

	b.pageTitle = fmt.Sprintf("Error %d", httpErr.StatusCode)
	body := httpErr.Body
	if strings.Contains(strings.ToLower(httpErr.ContentType), "text/html") {
		if res, convErr := convert.HTMLString(body); convErr == nil {
			body = convert.NormalizeText(res.Text)
		}
	}
	b.setPageContent(fmt.Sprintf("## Error %d\n\n%s", httpErr.StatusCode, body))
}
