package convert

import (
	"context"
	"strings"
	"testing"

	"github.com/adsharma/knowledge-graph-of-thoughts/core"
)

func pptxFixture(t *testing.T) string {
	t.Helper()
	return writeZipFixture(t, t.TempDir(), "deck.pptx", map[string]string{
		"ppt/presentation.xml": `<?xml version="1.0"?>
<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
                xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <p:sldIdLst><p:sldId id="256" r:id="rId1"/></p:sldIdLst>
</p:presentation>`,
		"ppt/_rels/presentation.xml.rels": `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide1.xml"/>
</Relationships>`,
		"ppt/slides/slide1.xml": `<?xml version="1.0"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
       xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld><p:spTree>
    <p:sp>
      <p:nvSpPr><p:cNvPr id="2" name="Title 1"/><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>
      <p:txBody><a:p><a:r><a:t>Roadmap 2026</a:t></a:r></a:p></p:txBody>
    </p:sp>
    <p:sp>
      <p:nvSpPr><p:cNvPr id="3" name="Content 2"/><p:nvPr/></p:nvSpPr>
      <p:txBody><a:p><a:r><a:t>Ship the parser</a:t></a:r></a:p></p:txBody>
    </p:sp>
    <p:pic>
      <p:nvPicPr><p:cNvPr id="4" name="Picture 3" descr="architecture diagram"/></p:nvPicPr>
    </p:pic>
  </p:spTree></p:cSld>
</p:sld>`,
		"ppt/notesSlides/notesSlide1.xml": `<?xml version="1.0"?>
<p:notes xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
         xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld><p:spTree>
    <p:sp>
      <p:nvSpPr><p:cNvPr id="2" name="Notes Placeholder"/><p:nvPr><p:ph type="body"/></p:nvPr></p:nvSpPr>
      <p:txBody><a:p><a:r><a:t>Mention the deadline.</a:t></a:r></a:p></p:txBody>
    </p:sp>
  </p:spTree></p:cSld>
</p:notes>`,
	})
}

func TestPptxConverter(t *testing.T) {
	path := pptxFixture(t)

	c := &PptxConverter{}
	res, err := c.TryConvert(context.Background(), path, core.Hints{Extension: ".pptx"})
	if err != nil {
		t.Fatalf("TryConvert: %v", err)
	}

	if !strings.Contains(res.Text, "<!-- Slide number: 1 -->") {
		t.Errorf("slide marker missing from %q", res.Text)
	}
	if !strings.Contains(res.Text, "# Roadmap 2026") {
		t.Errorf("title heading missing from %q", res.Text)
	}
	if !strings.Contains(res.Text, "Ship the parser") {
		t.Errorf("body text missing from %q", res.Text)
	}
	if !strings.Contains(res.Text, "![architecture diagram](Picture3.jpg)") {
		t.Errorf("picture placeholder missing from %q", res.Text)
	}
	if !strings.Contains(res.Text, "### Notes:\nMention the deadline.") {
		t.Errorf("notes missing from %q", res.Text)
	}
}

func TestPptxConverterDeclines(t *testing.T) {
	c := &PptxConverter{}
	res, err := c.TryConvert(context.Background(), "deck.ppt", core.Hints{Extension: ".ppt"})
	if res != nil || err != nil {
		t.Errorf("want decline (nil, nil), got %v, %v", res, err)
	}
}
