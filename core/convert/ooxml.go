package convert

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// xmlNode is a generic XML tree used to walk OOXML parts. The schemas
// involved (WordprocessingML, SpreadsheetML, DrawingML) are too irregular
// for struct-per-element decoding, so converters navigate this tree.
type xmlNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Nodes   []xmlNode  `xml:",any"`
	Text    string     `xml:",chardata"`
}

// parseXMLNode decodes an XML document into a node tree.
func parseXMLNode(data []byte) (*xmlNode, error) {
	var root xmlNode
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing xml: %w", err)
	}
	return &root, nil
}

// attr returns the value of the named attribute, ignoring namespaces.
func (n *xmlNode) attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// child returns the first direct child with the given local name.
func (n *xmlNode) child(name string) *xmlNode {
	for i := range n.Nodes {
		if n.Nodes[i].XMLName.Local == name {
			return &n.Nodes[i]
		}
	}
	return nil
}

// children returns all direct children with the given local name.
func (n *xmlNode) children(name string) []*xmlNode {
	var out []*xmlNode
	for i := range n.Nodes {
		if n.Nodes[i].XMLName.Local == name {
			out = append(out, &n.Nodes[i])
		}
	}
	return out
}

// find returns the first node with the given local name anywhere in the
// subtree, including n itself.
func (n *xmlNode) find(name string) *xmlNode {
	if n.XMLName.Local == name {
		return n
	}
	for i := range n.Nodes {
		if found := n.Nodes[i].find(name); found != nil {
			return found
		}
	}
	return nil
}

// findAll collects every node with the given local name in the subtree.
func (n *xmlNode) findAll(name string) []*xmlNode {
	var out []*xmlNode
	if n.XMLName.Local == name {
		out = append(out, n)
	}
	for i := range n.Nodes {
		out = append(out, n.Nodes[i].findAll(name)...)
	}
	return out
}

// text concatenates the character data of the subtree in document order.
func (n *xmlNode) text() string {
	var b strings.Builder
	n.collectText(&b)
	return b.String()
}

func (n *xmlNode) collectText(b *strings.Builder) {
	b.WriteString(n.Text)
	for i := range n.Nodes {
		n.Nodes[i].collectText(b)
	}
}

// readZipPart returns the contents of a named file inside a zip archive.
func readZipPart(r *zip.ReadCloser, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("open %s: %w", name, err)
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("%s not found in archive", name)
}

// zipPartExists reports whether the archive contains the named file.
func zipPartExists(r *zip.ReadCloser, name string) bool {
	for _, f := range r.File {
		if f.Name == name {
			return true
		}
	}
	return false
}
