package convert

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/adsharma/knowledge-graph-of-thoughts/core"
)

// XMLConverter handles two XML dialects: WordML documents (2003-era
// w:wordDocument roots) and HTML-like documents carrying a <table>.
// Anything else is an error so the engine can fall through.
type XMLConverter struct{}

// TryConvert handles .xml files.
func (c *XMLConverter) TryConvert(ctx context.Context, path string, hints core.Hints) (*core.ConversionResult, error) {
	if strings.ToLower(hints.Extension) != ".xml" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	root, err := parseXMLNode(data)
	if err != nil {
		return nil, err
	}

	var text string
	if strings.HasSuffix(root.XMLName.Local, "wordDocument") {
		text, err = wordMLText(root)
	} else {
		text, err = xmlTableMarkdown(root)
	}
	if err != nil {
		return nil, err
	}

	return &core.ConversionResult{Text: strings.TrimSpace(text)}, nil
}

// wordMLText joins the text runs of a WordML body, one per line.
func wordMLText(root *xmlNode) (string, error) {
	body := root.find("body")
	if body == nil {
		return "", fmt.Errorf("wordDocument has no body element")
	}
	var lines []string
	for _, p := range body.findAll("p") {
		for _, t := range p.findAll("t") {
			lines = append(lines, t.text())
		}
	}
	return strings.Join(lines, "\n"), nil
}

// xmlTableMarkdown converts the first <table> in the document to a
// markdown table using its thead/tbody structure.
func xmlTableMarkdown(root *xmlNode) (string, error) {
	table := root.find("table")
	if table == nil {
		return "", fmt.Errorf("no table found in the XML")
	}

	thead := table.find("thead")
	tbody := table.find("tbody")
	if thead == nil || tbody == nil {
		return "", fmt.Errorf("table is missing thead or tbody")
	}

	var headers []string
	for _, th := range thead.findAll("th") {
		headers = append(headers, strings.TrimSpace(th.text()))
	}

	var b strings.Builder
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	seps := make([]string, len(headers))
	for i := range seps {
		seps[i] = "---"
	}
	b.WriteString("| " + strings.Join(seps, " | ") + " |\n")

	for _, tr := range tbody.findAll("tr") {
		var cells []string
		for _, td := range tr.children("td") {
			cells = append(cells, strings.TrimSpace(td.text()))
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return b.String(), nil
}
