package convert

import (
	"archive/zip"
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/adsharma/knowledge-graph-of-thoughts/core"
)

// XlsxConverter extracts spreadsheet contents. Every sheet becomes a
// "## <name>" section followed by its cells rendered as a markdown
// table via the shared HTML pathway.
type XlsxConverter struct{}

// TryConvert handles .xlsx and .xls files.
func (c *XlsxConverter) TryConvert(ctx context.Context, path string, hints core.Hints) (*core.ConversionResult, error) {
	ext := strings.ToLower(hints.Extension)
	if ext != ".xlsx" && ext != ".xls" {
		return nil, nil
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	sheets, err := workbookSheets(r)
	if err != nil {
		return nil, err
	}
	shared, err := sharedStrings(r)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	for _, sheet := range sheets {
		grid, err := sheetGrid(r, sheet.part, shared)
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sheet.name, err)
		}

		fmt.Fprintf(&b, "## %s\n", sheet.name)
		res, err := HTMLString(gridHTML(grid))
		if err != nil {
			return nil, err
		}
		b.WriteString(strings.TrimSpace(res.Text))
		b.WriteString("\n\n")
	}

	return &core.ConversionResult{Text: strings.TrimSpace(b.String())}, nil
}

type sheetRef struct {
	name string
	part string
}

// workbookSheets lists the sheets in workbook order, resolving each
// relationship id to its worksheet part.
func workbookSheets(r *zip.ReadCloser) ([]sheetRef, error) {
	wb, err := readZipPart(r, "xl/workbook.xml")
	if err != nil {
		return nil, err
	}
	wbRoot, err := parseXMLNode(wb)
	if err != nil {
		return nil, err
	}

	rels, err := readZipPart(r, "xl/_rels/workbook.xml.rels")
	if err != nil {
		return nil, err
	}
	relRoot, err := parseXMLNode(rels)
	if err != nil {
		return nil, err
	}
	targets := map[string]string{}
	for _, rel := range relRoot.findAll("Relationship") {
		target := strings.TrimPrefix(rel.attr("Target"), "/")
		if !strings.HasPrefix(target, "xl/") {
			target = "xl/" + target
		}
		targets[rel.attr("Id")] = target
	}

	var sheets []sheetRef
	for _, sheet := range wbRoot.findAll("sheet") {
		part, ok := targets[sheet.attr("id")]
		if !ok {
			continue
		}
		sheets = append(sheets, sheetRef{name: sheet.attr("name"), part: part})
	}
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return sheets, nil
}

// sharedStrings loads xl/sharedStrings.xml; the part is optional.
func sharedStrings(r *zip.ReadCloser) ([]string, error) {
	if !zipPartExists(r, "xl/sharedStrings.xml") {
		return nil, nil
	}
	data, err := readZipPart(r, "xl/sharedStrings.xml")
	if err != nil {
		return nil, err
	}
	root, err := parseXMLNode(data)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, si := range root.children("si") {
		var b strings.Builder
		for _, t := range si.findAll("t") {
			b.WriteString(t.text())
		}
		out = append(out, b.String())
	}
	return out, nil
}

// sheetGrid reads a worksheet part into a rectangular cell grid.
func sheetGrid(r *zip.ReadCloser, part string, shared []string) ([][]string, error) {
	data, err := readZipPart(r, part)
	if err != nil {
		return nil, err
	}
	root, err := parseXMLNode(data)
	if err != nil {
		return nil, err
	}

	var grid [][]string
	maxCols := 0
	for _, row := range root.findAll("row") {
		var cells []string
		for _, cell := range row.children("c") {
			col := columnIndex(cell.attr("r"))
			for len(cells) < col {
				cells = append(cells, "")
			}
			cells = append(cells, cellValue(cell, shared))
		}
		if len(cells) > maxCols {
			maxCols = len(cells)
		}
		grid = append(grid, cells)
	}

	// Pad short rows so every row has the same width.
	for i := range grid {
		for len(grid[i]) < maxCols {
			grid[i] = append(grid[i], "")
		}
	}
	return grid, nil
}

// cellValue resolves a c element to its display text.
func cellValue(cell *xmlNode, shared []string) string {
	switch cell.attr("t") {
	case "s":
		v := cell.child("v")
		if v == nil {
			return ""
		}
		idx := 0
		fmt.Sscanf(strings.TrimSpace(v.text()), "%d", &idx)
		if idx >= 0 && idx < len(shared) {
			return shared[idx]
		}
		return ""
	case "inlineStr":
		if is := cell.child("is"); is != nil {
			var b strings.Builder
			for _, t := range is.findAll("t") {
				b.WriteString(t.text())
			}
			return b.String()
		}
		return ""
	default:
		if v := cell.child("v"); v != nil {
			return strings.TrimSpace(v.text())
		}
		return ""
	}
}

// columnIndex converts a cell reference like "B2" to a zero-based
// column number. Missing references map to column 0.
func columnIndex(ref string) int {
	col := 0
	for i := 0; i < len(ref); i++ {
		ch := ref[i]
		if ch < 'A' || ch > 'Z' {
			break
		}
		col = col*26 + int(ch-'A'+1)
	}
	if col == 0 {
		return 0
	}
	return col - 1
}

// gridHTML renders a cell grid as an HTML table, first row as header.
func gridHTML(grid [][]string) string {
	var b strings.Builder
	b.WriteString("<html><body><table>")
	for i, row := range grid {
		b.WriteString("<tr>")
		tag := "td"
		if i == 0 {
			tag = "th"
		}
		for _, cell := range row {
			fmt.Fprintf(&b, "<%s>%s</%s>", tag, html.EscapeString(cell), tag)
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table></body></html>")
	return b.String()
}
