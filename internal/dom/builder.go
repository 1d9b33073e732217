// internal/dom/builder.go
package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Parse reads raw markup and builds a Document arena from it. The x/net/html
// parser supplies the error-tolerant tokenization and tree construction; every
// node is then decoded once into its arena variant. The returned Document is
// fully constructed and safe for concurrent reads.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse markup: %w", err)
	}

	d := NewDocument()
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		d.convert(c, d.root)
	}
	d.captureTitle()
	return d, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// convert translates one x/net node (and its subtree) into the arena under
// the given parent.
func (d *Document) convert(n *html.Node, parent NodeID) {
	var id NodeID
	switch n.Type {
	case html.ElementNode:
		id = d.CreateElement(n.Data)
		node := d.nodes[id]
		for _, a := range n.Attr {
			node.Attr[a.Key] = a.Val
		}
	case html.TextNode:
		id = d.CreateText(n.Data)
	case html.CommentNode:
		id = d.CreateComment(n.Data)
	default:
		// Doctype and other node types carry nothing the pipeline uses, but
		// their children (for the document node) still matter.
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			d.convert(c, parent)
		}
		return
	}

	// Construction is the one place nodes are wired together, so the attach
	// cannot fail: both ids were just allocated.
	if err := d.AttachChild(parent, id, -1); err != nil {
		panic(fmt.Sprintf("dom: construction attach failed: %v", err))
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.convert(c, id)
	}
}

// captureTitle records the text of the first <title> under head.
func (d *Document) captureTitle() {
	if d.head == InvalidNode {
		return
	}
	head := d.nodes[d.head]
	for _, c := range head.Children {
		if n := d.nodes[c]; n != nil && n.IsTag("title") {
			d.title = strings.TrimSpace(d.TextContent(c))
			return
		}
	}
}
