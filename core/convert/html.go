package convert

import (
	"context"
	"fmt"
	"os"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"

	"github.com/adsharma/knowledge-graph-of-thoughts/core"
)

// HTMLConverter converts HTML pages to markdown.
type HTMLConverter struct{}

// TryConvert handles .html and .htm files.
func (c *HTMLConverter) TryConvert(ctx context.Context, path string, hints core.Hints) (*core.ConversionResult, error) {
	ext := strings.ToLower(hints.Extension)
	if ext != ".html" && ext != ".htm" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return HTMLString(string(decodeCharset(data, hints.Charset)))
}

// HTMLString converts an HTML document held in memory. Script and style
// blocks are dropped, the body subtree is preferred when present, and
// the page title comes from <title>.
func HTMLString(html string) (*core.ConversionResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	doc.Find("script, style").Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())

	source := html
	if body := doc.Find("body"); body.Length() > 0 {
		if bodyHTML, err := goquery.OuterHtml(body.First()); err == nil {
			source = bodyHTML
		}
	}

	markdown, err := htmltomarkdown.ConvertString(source)
	if err != nil {
		return nil, fmt.Errorf("converting HTML to markdown: %w", err)
	}

	return &core.ConversionResult{Title: title, Text: markdown}, nil
}
