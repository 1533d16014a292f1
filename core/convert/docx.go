package convert

import (
	"archive/zip"
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/adsharma/knowledge-graph-of-thoughts/core"
)

// DocxConverter extracts text from Word documents. The document part is
// rebuilt as intermediate HTML (headings, paragraphs, tables) and pushed
// through the shared HTML conversion so the markdown output matches the
// web pathway.
type DocxConverter struct{}

// TryConvert handles .docx files.
func (c *DocxConverter) TryConvert(ctx context.Context, path string, hints core.Hints) (*core.ConversionResult, error) {
	if strings.ToLower(hints.Extension) != ".docx" {
		return nil, nil
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	data, err := readZipPart(r, "word/document.xml")
	if err != nil {
		return nil, err
	}
	root, err := parseXMLNode(data)
	if err != nil {
		return nil, err
	}
	body := root.find("body")
	if body == nil {
		return nil, fmt.Errorf("document.xml has no body element")
	}

	var b strings.Builder
	b.WriteString("<html><body>")
	for i := range body.Nodes {
		node := &body.Nodes[i]
		switch node.XMLName.Local {
		case "p":
			writeDocxParagraph(&b, node)
		case "tbl":
			writeDocxTable(&b, node)
		}
	}
	b.WriteString("</body></html>")

	res, err := HTMLString(b.String())
	if err != nil {
		return nil, err
	}
	res.Title = ""
	return res, nil
}

// writeDocxParagraph renders a w:p element as a heading or paragraph.
func writeDocxParagraph(b *strings.Builder, p *xmlNode) {
	text := docxRunText(p)
	if strings.TrimSpace(text) == "" {
		return
	}

	level := 0
	if pPr := p.child("pPr"); pPr != nil {
		if style := pPr.child("pStyle"); style != nil {
			level = docxHeadingLevel(style.attr("val"))
		}
	}

	if level > 0 {
		fmt.Fprintf(b, "<h%d>%s</h%d>", level, html.EscapeString(text), level)
	} else {
		fmt.Fprintf(b, "<p>%s</p>", html.EscapeString(text))
	}
}

// writeDocxTable renders a w:tbl element, first row as header cells.
func writeDocxTable(b *strings.Builder, tbl *xmlNode) {
	b.WriteString("<table>")
	for i, tr := range tbl.children("tr") {
		b.WriteString("<tr>")
		tag := "td"
		if i == 0 {
			tag = "th"
		}
		for _, tc := range tr.children("tc") {
			fmt.Fprintf(b, "<%s>%s</%s>", tag, html.EscapeString(docxRunText(tc)), tag)
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")
}

// docxRunText joins the w:t runs under a node.
func docxRunText(n *xmlNode) string {
	var b strings.Builder
	for _, t := range n.findAll("t") {
		b.WriteString(t.text())
	}
	return b.String()
}

// docxHeadingLevel maps a paragraph style name to a heading level.
// "Title" counts as the top-level heading.
func docxHeadingLevel(style string) int {
	lower := strings.ToLower(style)
	if lower == "title" {
		return 1
	}
	if lower == "subtitle" {
		return 2
	}
	if strings.HasPrefix(lower, "heading") {
		rest := lower[len("heading"):]
		if len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
			return int(rest[0] - '0')
		}
	}
	return 0
}
