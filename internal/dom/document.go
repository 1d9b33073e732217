// internal/dom/document.go
package dom

import (
	"fmt"
	"strings"
)

// Document owns every node of one page through a flat NodeID -> Node arena.
// The arena mapping is the single source of truth for the tree: parent and
// child edges are derived references into it, never duplicated elsewhere.
//
// A Document is mutable while it is being constructed. Once construction is
// complete, style resolution, layout, and queries only read it, so any number
// of concurrent readers are safe.
type Document struct {
	nodes  map[NodeID]*Node
	nextID NodeID

	root  NodeID
	head  NodeID
	body  NodeID
	title string
}

// NewDocument creates an empty arena with a document root node.
func NewDocument() *Document {
	d := &Document{nodes: make(map[NodeID]*Node)}
	root := d.allocate(KindDocument, "")
	d.root = root
	return d
}

func (d *Document) allocate(kind NodeKind, tag string) NodeID {
	d.nextID++
	id := d.nextID
	d.nodes[id] = &Node{
		ID:      id,
		Kind:    kind,
		TagName: strings.ToLower(tag),
		Attr:    make(map[string]string),
	}
	return id
}

// CreateElement allocates a fresh element node. The node starts detached;
// use AttachChild to place it in the tree.
func (d *Document) CreateElement(tag string) NodeID {
	id := d.allocate(KindElement, tag)
	d.recordWellKnown(id)
	return id
}

// CreateText allocates a detached text node.
func (d *Document) CreateText(text string) NodeID {
	id := d.allocate(KindText, "")
	d.nodes[id].Text = text
	return id
}

// CreateComment allocates a detached comment node.
func (d *Document) CreateComment(text string) NodeID {
	id := d.allocate(KindComment, "")
	d.nodes[id].Text = text
	return id
}

// recordWellKnown captures the head/body shortcuts the first time each tag is
// seen. A second <head> or <body> must not overwrite an already recorded
// reference; silently clobbering it is a classic construction bug.
func (d *Document) recordWellKnown(id NodeID) {
	n := d.nodes[id]
	switch n.TagName {
	case "head":
		if d.head == InvalidNode {
			d.head = id
		}
	case "body":
		if d.body == InvalidNode {
			d.body = id
		}
	}
}

// Node returns the node for id, if it exists in this arena.
func (d *Document) Node(id NodeID) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Root returns the document root node's id.
func (d *Document) Root() NodeID { return d.root }

// Head returns the first <head>-equivalent element seen, or InvalidNode.
func (d *Document) Head() NodeID { return d.head }

// Body returns the first <body>-equivalent element seen, or InvalidNode.
func (d *Document) Body() NodeID { return d.body }

// Title returns the document title captured during construction.
func (d *Document) Title() string { return d.title }

// Len returns the number of nodes in the arena.
func (d *Document) Len() int { return len(d.nodes) }

// AttachChild inserts child into parent's child list at the given index.
// An index < 0 or beyond the current length appends. A node can only have one
// parent: attaching an already-attached node is an error; Detach it first.
func (d *Document) AttachChild(parent, child NodeID, index int) error {
	p, ok := d.nodes[parent]
	if !ok {
		return fmt.Errorf("attach: unknown parent node %d", parent)
	}
	c, ok := d.nodes[child]
	if !ok {
		return fmt.Errorf("attach: unknown child node %d", child)
	}
	if c.Parent != InvalidNode {
		return fmt.Errorf("attach: node %d already has parent %d", child, c.Parent)
	}
	if index < 0 || index > len(p.Children) {
		index = len(p.Children)
	}
	p.Children = append(p.Children, InvalidNode)
	copy(p.Children[index+1:], p.Children[index:])
	p.Children[index] = child
	c.Parent = parent
	return nil
}

// Detach removes the node from its parent's child list. The node and its
// descendants stay in the arena; callers wanting full removal must detach the
// subtree explicitly. This is a deliberate simplification.
func (d *Document) Detach(id NodeID) {
	n, ok := d.nodes[id]
	if !ok || n.Parent == InvalidNode {
		return
	}
	p := d.nodes[n.Parent]
	for i, c := range p.Children {
		if c == id {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			break
		}
	}
	n.Parent = InvalidNode
}

// Attr returns an attribute value by name. Missing attributes are an expected
// absence: the second result is false, never an error.
func (d *Document) Attr(id NodeID, name string) (string, bool) {
	n, ok := d.nodes[id]
	if !ok {
		return "", false
	}
	return n.GetAttr(name)
}

// SetAttr sets an attribute on the node. Attribute keys are unique per node.
func (d *Document) SetAttr(id NodeID, name, value string) {
	if n, ok := d.nodes[id]; ok {
		n.Attr[name] = value
	}
}

// RemoveAttr deletes an attribute; removing a missing attribute is a no-op.
func (d *Document) RemoveAttr(id NodeID, name string) {
	if n, ok := d.nodes[id]; ok {
		delete(n.Attr, name)
	}
}

// ElementsByTag returns every element whose tag matches (case-insensitive),
// in document order.
func (d *Document) ElementsByTag(tag string) []NodeID {
	var out []NodeID
	d.walk(d.root, func(n *Node) {
		if n.Kind == KindElement && strings.EqualFold(n.TagName, tag) {
			out = append(out, n.ID)
		}
	})
	return out
}

// ElementsByClass returns every element whose class attribute contains the
// token, in document order.
func (d *Document) ElementsByClass(token string) []NodeID {
	var out []NodeID
	d.walk(d.root, func(n *Node) {
		if n.Kind == KindElement && n.HasClass(token) {
			out = append(out, n.ID)
		}
	})
	return out
}

// ElementByID returns the first element carrying id="value". Order among
// duplicate ids is unspecified.
func (d *Document) ElementByID(value string) (NodeID, bool) {
	found := InvalidNode
	d.walk(d.root, func(n *Node) {
		if found != InvalidNode {
			return
		}
		if n.Kind == KindElement && n.Attr["id"] == value {
			found = n.ID
		}
	})
	return found, found != InvalidNode
}

// TextContent concatenates the text of the node and all its descendants in
// document order. Comments contribute nothing.
func (d *Document) TextContent(id NodeID) string {
	var b strings.Builder
	d.walk(id, func(n *Node) {
		if n.Kind == KindText {
			b.WriteString(n.Text)
		}
	})
	return b.String()
}

// walk visits the subtree rooted at id depth-first in document order.
func (d *Document) walk(id NodeID, visit func(*Node)) {
	n, ok := d.nodes[id]
	if !ok {
		return
	}
	visit(n)
	for _, c := range n.Children {
		d.walk(c, visit)
	}
}

// Walk exposes the depth-first traversal for read-only consumers such as the
// style snapshot and the layout tree builder.
func (d *Document) Walk(id NodeID, visit func(*Node)) {
	d.walk(id, visit)
}
