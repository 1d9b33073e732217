// internal/dom/node.go
package dom

import "strings"

// NodeID is the stable handle for a node inside one Document arena.
// IDs are allocated monotonically and never reused within a session;
// the zero value is never a valid node.
type NodeID uint64

// InvalidNode is the zero NodeID, returned by lookups that find nothing.
const InvalidNode NodeID = 0

// NodeKind discriminates the node variants. The kind is decided once at
// construction time and never changes afterwards.
type NodeKind uint8

const (
	KindDocument NodeKind = iota
	KindElement
	KindText
	KindComment
)

func (k NodeKind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindComment:
		return "comment"
	}
	return "unknown"
}

// Node is a single entry in the arena. Tree edges are expressed only through
// NodeIDs; there are no pointers between nodes.
type Node struct {
	ID       NodeID
	Kind     NodeKind
	TagName  string // lowercased, empty for non-elements
	Attr     map[string]string
	Children []NodeID
	Parent   NodeID // InvalidNode for the root
	Text     string // raw text for KindText/KindComment
}

// HasAttr reports whether the attribute is present.
func (n *Node) HasAttr(name string) bool {
	_, ok := n.Attr[name]
	return ok
}

// GetAttr returns the attribute value and whether it was present.
func (n *Node) GetAttr(name string) (string, bool) {
	v, ok := n.Attr[name]
	return v, ok
}

// HasClass reports whether the node's class attribute contains the token.
// Class matching is a whitespace-split, case-sensitive token comparison.
func (n *Node) HasClass(token string) bool {
	cls, ok := n.Attr["class"]
	if !ok {
		return false
	}
	for _, c := range strings.Fields(cls) {
		if c == token {
			return true
		}
	}
	return false
}

// IsElement reports whether the node is an element.
func (n *Node) IsElement() bool {
	return n.Kind == KindElement
}

// IsTag reports whether the node is an element with the given tag name
// (case-insensitive).
func (n *Node) IsTag(tag string) bool {
	return n.Kind == KindElement && strings.EqualFold(n.TagName, tag)
}
