package convert

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adsharma/knowledge-graph-of-thoughts/core"
)

func TestHTMLStringStripsScriptsAndStyles(t *testing.T) {
	html := `<html><head><title>My Page</title>
<style>body { color: red }</style></head>
<body><script>alert("nope")</script><h1>Welcome</h1><p>Some text.</p></body></html>`

	res, err := HTMLString(html)
	if err != nil {
		t.Fatalf("HTMLString: %v", err)
	}
	if res.Title != "My Page" {
		t.Errorf("title = %q, want %q", res.Title, "My Page")
	}
	if strings.Contains(res.Text, "alert") || strings.Contains(res.Text, "color: red") {
		t.Errorf("script/style leaked into output: %q", res.Text)
	}
	if !strings.Contains(res.Text, "# Welcome") {
		t.Errorf("heading missing from %q", res.Text)
	}
	if !strings.Contains(res.Text, "Some text.") {
		t.Errorf("paragraph missing from %q", res.Text)
	}
}

func TestHTMLConverterDeclinesOtherExtensions(t *testing.T) {
	c := &HTMLConverter{}
	res, err := c.TryConvert(context.Background(), "whatever.pdf", core.Hints{Extension: ".pdf"})
	if res != nil || err != nil {
		t.Errorf("want decline (nil, nil), got %v, %v", res, err)
	}
}

func TestHTMLConverterDecodesDeclaredCharset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "menu.html")
	page := append([]byte("<html><body><p>caf"), 0xe9)
	page = append(page, []byte("</p></body></html>")...)
	if err := os.WriteFile(path, page, 0644); err != nil {
		t.Fatal(err)
	}

	c := &HTMLConverter{}
	res, err := c.TryConvert(context.Background(), path, core.Hints{Extension: ".html", Charset: "iso-8859-1"})
	if err != nil {
		t.Fatalf("TryConvert: %v", err)
	}
	if !strings.Contains(res.Text, "café") {
		t.Errorf("charset not decoded: %q", res.Text)
	}
}

func TestHTMLConverterReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.htm")
	if err := os.WriteFile(path, []byte("<html><body><p>hi there</p></body></html>"), 0644); err != nil {
		t.Fatal(err)
	}

	c := &HTMLConverter{}
	res, err := c.TryConvert(context.Background(), path, core.Hints{Extension: ".HTM"})
	if err != nil {
		t.Fatalf("TryConvert: %v", err)
	}
	if res == nil || !strings.Contains(res.Text, "hi there") {
		t.Errorf("got %+v", res)
	}
}
