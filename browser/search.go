package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/adsharma/knowledge-graph-of-thoughts/core"
)

// SearxClient queries a SearxNG instance's JSON API.
type SearxClient struct {
	BaseURL string
	Fetcher core.Fetcher
}

// NewSearxClient creates a client for the given SearxNG instance.
func NewSearxClient(baseURL string, fetcher core.Fetcher) *SearxClient {
	return &SearxClient{BaseURL: baseURL, Fetcher: fetcher}
}

// searxResponse mirrors the SearxNG JSON result payload.
type searxResponse struct {
	Results []struct {
		Title         string `json:"title"`
		URL           string `json:"url"`
		Content       string `json:"content"`
		PublishedDate string `json:"publishedDate"`
	} `json:"results"`
}

// Search runs a query against the instance's google engine. A non-zero
// filterYear restricts results to that year.
func (c *SearxClient) Search(ctx context.Context, query string, filterYear int) ([]core.SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("engines", "google")
	if filterYear != 0 {
		params.Set("time_range", fmt.Sprintf("%d-%d", filterYear, filterYear))
	}

	resp, err := c.Fetcher.Fetch(ctx, c.BaseURL+"/search?"+params.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload searxResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	results := make([]core.SearchResult, 0, len(payload.Results))
	for _, r := range payload.Results {
		results = append(results, core.SearchResult{
			Title:         r.Title,
			URL:           r.URL,
			Content:       r.Content,
			PublishedDate: r.PublishedDate,
		})
	}
	return results, nil
}

// runSearch executes a search: address, renders the result list as the
// page content. When a year filter yields nothing, the search is retried
// without it and the page says so.
func (b *Browser) runSearch(ctx context.Context, query string, filterYear int) {
	results, err := b.cfg.Search.Search(ctx, query, filterYear)
	if err != nil {
		b.searchErrorPage(err)
		return
	}
	b.pageTitle = query + " - Search"

	if len(results) == 0 && filterYear != 0 {
		// Retry without the year restriction.
		results, err = b.cfg.Search.Search(ctx, query, 0)
		if err != nil {
			b.searchErrorPage(err)
			return
		}
		if len(results) == 0 {
			b.setPageContent(fmt.Sprintf(
				"No results found for '%s' with filter year=%d. Already searched removing year limitation, but No result found. Try with a more general query.",
				query, filterYear))
			return
		}
		content := fmt.Sprintf(
			"No result were found for filtering year: %d.\nREMOVED YEAR FILTER.\n\nThe following results can be of any year.\n\n%s\n",
			filterYear, b.renderResults(query, results))
		b.setPageContent(content)
		return
	}

	if len(results) == 0 {
		b.setPageContent(fmt.Sprintf(
			"No results found for '%s'. Try with a more general query, or remove the year filter.", query))
		return
	}

	b.setPageContent(b.renderResults(query, results))
}

// renderResults formats search results as a numbered markdown list.
func (b *Browser) renderResults(query string, results []core.SearchResult) string {
	snippets := make([]string, 0, len(results))
	for i, r := range results {
		datePublished := ""
		if r.PublishedDate != "" {
			datePublished = "\nDate published: " + r.PublishedDate
		}
		snippet := ""
		if r.Content != "" {
			snippet = "\n" + r.Content
		}
		entry := fmt.Sprintf("%d. [%s](%s)%s\n%s%s",
			i+1, r.Title, r.URL, datePublished, b.prevVisit(r.URL), snippet)
		entry = strings.ReplaceAll(entry, "Your browser can't play this video.", "")
		snippets = append(snippets, entry)
	}

	return fmt.Sprintf("A search for '%s' found %d results:\n\n## Web Results\n%s",
		query, len(snippets), strings.Join(snippets, "\n\n"))
}

// prevVisit annotates a result URL the browser has already been to.
func (b *Browser) prevVisit(url string) string {
	for i := len(b.history) - 1; i >= 0; i-- {
		if b.history[i].address == url {
			secs := int(math.Round(b.now().Sub(b.history[i].visited).Seconds()))
			return fmt.Sprintf("You previously visited this page %d seconds ago.\n", secs)
		}
	}
	return ""
}

// searchErrorPage renders a search failure as page content.
func (b *Browser) searchErrorPage(err error) {
	b.pageTitle = "Search Error"
	b.setPageContent(fmt.Sprintf(
		"## Search Error\n\nFailed to search using SearxNG: %v\n\nPlease check your SearxNG instance URL: %s",
		err, b.cfg.SearxURL))
}
