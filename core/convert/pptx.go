package convert

import (
	"archive/zip"
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/adsharma/knowledge-graph-of-thoughts/core"
)

// PptxConverter extracts slide decks. Each slide is marked with an HTML
// comment carrying its number; pictures become placeholder image links,
// tables go through the shared HTML pathway, and the title shape becomes
// a heading. Speaker notes are appended per slide.
type PptxConverter struct{}

var nonWordRe = regexp.MustCompile(`\W`)

// TryConvert handles .pptx files.
func (c *PptxConverter) TryConvert(ctx context.Context, path string, hints core.Hints) (*core.ConversionResult, error) {
	if strings.ToLower(hints.Extension) != ".pptx" {
		return nil, nil
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	slides, err := presentationSlides(r)
	if err != nil {
		return nil, err
	}

	var md strings.Builder
	for i, part := range slides {
		data, err := readZipPart(r, part)
		if err != nil {
			return nil, err
		}
		root, err := parseXMLNode(data)
		if err != nil {
			return nil, fmt.Errorf("slide %d: %w", i+1, err)
		}

		fmt.Fprintf(&md, "\n\n<!-- Slide number: %d -->\n", i+1)

		tree := root.find("spTree")
		if tree != nil {
			if err := writeSlideShapes(&md, tree); err != nil {
				return nil, fmt.Errorf("slide %d: %w", i+1, err)
			}
		}

		trimmed := strings.TrimSpace(md.String())
		md.Reset()
		md.WriteString(trimmed)

		if notes := slideNotes(r, part); notes != "" {
			md.WriteString("\n\n### Notes:\n")
			md.WriteString(notes)
			trimmed := strings.TrimSpace(md.String())
			md.Reset()
			md.WriteString(trimmed)
		}
	}

	return &core.ConversionResult{Text: strings.TrimSpace(md.String())}, nil
}

// presentationSlides returns slide parts in presentation order.
func presentationSlides(r *zip.ReadCloser) ([]string, error) {
	pres, err := readZipPart(r, "ppt/presentation.xml")
	if err != nil {
		return nil, err
	}
	presRoot, err := parseXMLNode(pres)
	if err != nil {
		return nil, err
	}

	rels, err := readZipPart(r, "ppt/_rels/presentation.xml.rels")
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
		if !strings.HasPrefix(target, "ppt/") {
			target = "ppt/" + target
		}
		targets[rel.attr("Id")] = target
	}

	list := presRoot.find("sldIdLst")
	if list == nil {
		return nil, fmt.Errorf("presentation has no slide list")
	}
	var slides []string
	for _, id := range list.children("sldId") {
		if part, ok := targets[id.attr("id")]; ok {
			slides = append(slides, part)
		}
	}
	if len(slides) == 0 {
		return nil, fmt.Errorf("presentation has no slides")
	}
	return slides, nil
}

// writeSlideShapes renders the shapes of one slide in document order.
func writeSlideShapes(md *strings.Builder, tree *xmlNode) error {
	for i := range tree.Nodes {
		shape := &tree.Nodes[i]
		switch shape.XMLName.Local {
		case "pic":
			name := shapeName(shape)
			alt := shapeAltText(shape)
			if alt == "" {
				alt = name
			}
			filename := nonWordRe.ReplaceAllString(name, "") + ".jpg"
			fmt.Fprintf(md, "\n![%s](%s)\n", alt, filename)

		case "graphicFrame":
			tbl := shape.find("tbl")
			if tbl == nil {
				continue
			}
			res, err := HTMLString(pptxTableHTML(tbl))
			if err != nil {
				return err
			}
			md.WriteString("\n")
			md.WriteString(strings.TrimSpace(res.Text))
			md.WriteString("\n")

		case "sp":
			text := shapeText(shape)
			if isTitleShape(shape) {
				md.WriteString("# ")
				md.WriteString(strings.TrimLeft(text, " \t\r\n"))
				md.WriteString(" ")
			} else {
				md.WriteString(text)
				md.WriteString(" ")
			}
		}
	}
	return nil
}

// pptxTableHTML renders an a:tbl element, first row as header.
func pptxTableHTML(tbl *xmlNode) string {
	var b strings.Builder
	b.WriteString("<html><body><table>")
	for i, tr := range tbl.children("tr") {
		b.WriteString("<tr>")
		tag := "td"
		if i == 0 {
			tag = "th"
		}
		for _, tc := range tr.children("tc") {
			var cell strings.Builder
			for _, t := range tc.findAll("t") {
				cell.WriteString(t.text())
			}
			fmt.Fprintf(&b, "<%s>%s</%s>", tag, html.EscapeString(cell.String()), tag)
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table></body></html>")
	return b.String()
}

// shapeName reads the cNvPr name attribute of a shape.
func shapeName(shape *xmlNode) string {
	if pr := shape.find("cNvPr"); pr != nil {
		return pr.attr("name")
	}
	return ""
}

// shapeAltText reads the cNvPr descr attribute (picture alt text).
func shapeAltText(shape *xmlNode) string {
	if pr := shape.find("cNvPr"); pr != nil {
		return pr.attr("descr")
	}
	return ""
}

// shapeText joins the text runs of a shape, one line per paragraph.
func shapeText(shape *xmlNode) string {
	body := shape.find("txBody")
	if body == nil {
		return ""
	}
	var paras []string
	for _, p := range body.children("p") {
		var b strings.Builder
		for _, t := range p.findAll("t") {
			b.WriteString(t.text())
		}
		paras = append(paras, b.String())
	}
	return strings.Join(paras, "\n")
}

// isTitleShape reports whether the shape is the slide title placeholder.
func isTitleShape(shape *xmlNode) bool {
	ph := shape.find("ph")
	if ph == nil {
		return false
	}
	t := ph.attr("type")
	return t == "title" || t == "ctrTitle"
}

// slideNotes returns the speaker notes for a slide part, or "".
func slideNotes(r *zip.ReadCloser, slidePart string) string {
	// slides/slideN.xml pairs with notesSlides/notesSlideN.xml.
	base := strings.TrimSuffix(strings.TrimPrefix(slidePart, "ppt/slides/slide"), ".xml")
	notesPart := "ppt/notesSlides/notesSlide" + base + ".xml"
	if !zipPartExists(r, notesPart) {
		return ""
	}
	data, err := readZipPart(r, notesPart)
	if err != nil {
		return ""
	}
	root, err := parseXMLNode(data)
	if err != nil {
		return ""
	}
	// The notes text lives in the body placeholder shape.
	for _, sp := range root.findAll("sp") {
		if ph := sp.find("ph"); ph != nil && ph.attr("type") == "body" {
			return strings.TrimSpace(shapeText(sp))
		}
	}
	return ""
}
