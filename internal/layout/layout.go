// internal/layout/layout.go
package layout

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/Ancillary-AGI/titan/internal/css"
	"github.com/Ancillary-AGI/titan/internal/dom"
	"github.com/Ancillary-AGI/titan/internal/observability"
	"github.com/Ancillary-AGI/titan/internal/style"
)

// lineHeightFactor scales a font size into the estimated height of one line
// of text. glyphWidthFactor does the same for average glyph advance width.
const (
	lineHeightFactor = 1.2
	glyphWidthFactor = 0.6
)

// Error reports a node whose constraints could not be satisfied.
type Error struct {
	NodeID dom.NodeID
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("layout failed for node %d: %s", e.NodeID, e.Reason)
}

// Box holds the resolved geometry of one element. The four rectangles nest:
// the content rect expanded by padding gives the padding rect, expanded
// again by border widths gives the border rect, expanded again by margins
// gives the margin rect. Baseline is the y coordinate of the content
// bottom edge.
type Box struct {
	NodeID   dom.NodeID
	Content  Rect
	Padding  Rect
	Border   Rect
	Margin   Rect
	Baseline float64
}

// Intersects reports whether two boxes overlap anywhere in their border
// extents.
func (b *Box) Intersects(other *Box) bool {
	return b.Border.Intersects(other.Border)
}

// Center returns the midpoint of the border rect, the natural click target.
func (b *Box) Center() Point {
	return b.Border.Center()
}

// Tree is the layout state of one document. A tree starts uncomputed;
// Compute materializes every box, after which geometry queries and subtree
// updates are valid until the next full Compute.
type Tree struct {
	doc      *dom.Document
	resolver *style.Resolver
	styles   map[dom.NodeID]style.Computed

	computed   bool
	viewport   Size
	boxes      map[dom.NodeID]*Box
	containers map[dom.NodeID]Rect
}

// BuildTree resolves styles for every element in the document and returns
// an uncomputed tree. Elements styled display:none are resolved but never
// receive a box.
func BuildTree(doc *dom.Document, sheets []css.Stylesheet) *Tree {
	resolver := style.NewResolver()
	styles := make(map[dom.NodeID]style.Computed)
	doc.Walk(doc.Root(), func(n *dom.Node) {
		if n.Kind == dom.KindElement {
			styles[n.ID] = resolver.Compute(doc, n.ID, sheets)
		}
	})
	return &Tree{
		doc:      doc,
		resolver: resolver,
		styles:   styles,
	}
}

// Style returns the resolved style for an element, or the default style for
// unknown or non-element nodes.
func (t *Tree) Style(id dom.NodeID) style.Computed {
	if s, ok := t.styles[id]; ok {
		return s
	}
	return style.Default()
}

// Computed reports whether the tree currently holds valid geometry.
func (t *Tree) Computed() bool { return t.computed }

// Viewport returns the size used by the last Compute call.
func (t *Tree) Viewport() Size { return t.viewport }

// Box returns the geometry of an element. Absent entries cover nodes that
// do not exist, non-elements, and display:none subtrees.
func (t *Tree) Box(id dom.NodeID) (*Box, bool) {
	if !t.computed {
		return nil, false
	}
	b, ok := t.boxes[id]
	return b, ok
}

// Compute lays out the whole document into the given viewport. Any prior
// geometry is discarded. On error the tree is left uncomputed.
func (t *Tree) Compute(viewport Size) error {
	if viewport.Width < 0 || viewport.Height < 0 {
		return &Error{NodeID: t.doc.Root(), Reason: "negative viewport"}
	}
	t.computed = false
	t.viewport = viewport
	t.boxes = make(map[dom.NodeID]*Box)
	t.containers = make(map[dom.NodeID]Rect)

	container := Rect{Width: viewport.Width, Height: viewport.Height}
	root, _ := t.doc.Node(t.doc.Root())
	cursor := container.Y
	for _, childID := range root.Children {
		h, err := t.layoutNode(childID, container, cursor)
		if err != nil {
			return err
		}
		cursor += h
	}
	t.computed = true
	observability.GetLogger().Debug("layout computed",
		zap.Int("boxes", len(t.boxes)),
		zap.Float64("viewport_width", viewport.Width),
		zap.Float64("viewport_height", viewport.Height))
	return nil
}

// layoutNode positions one element whose margin box top sits at cursorY
// inside the containing content rect, then lays out its children. It
// returns the vertical space the element consumes in normal flow; out of
// flow elements consume none.
func (t *Tree) layoutNode(id dom.NodeID, container Rect, cursorY float64) (float64, error) {
	node, ok := t.doc.Node(id)
	if !ok || node.Kind != dom.KindElement {
		return 0, nil
	}
	st := t.styles[id]
	if st.Display == style.DisplayNone {
		return 0, nil
	}
	t.containers[id] = container

	outOfFlow := st.Position == style.PositionAbsolute
	origin := Point{X: container.X, Y: cursorY}
	if outOfFlow {
		origin = Point{X: 0, Y: 0}
	}

	edgesH := st.Margin.Horizontal() + st.Border.Horizontal() + st.Padding.Horizontal()

	var width float64
	if st.Width != nil {
		width = *st.Width
	} else {
		width = container.Width - edgesH
	}
	if width < 0 {
		return 0, &Error{NodeID: id, Reason: fmt.Sprintf("content width %.2f below zero", width)}
	}
	if st.Height != nil && *st.Height < 0 {
		return 0, &Error{NodeID: id, Reason: "negative height"}
	}

	content := Rect{
		X:     origin.X + st.Margin.Left + st.Border.Left + st.Padding.Left,
		Y:     origin.Y + st.Margin.Top + st.Border.Top + st.Padding.Top,
		Width: width,
	}

	childCursor := content.Y
	var flowHeight float64
	for _, childID := range node.Children {
		child, ok := t.doc.Node(childID)
		if !ok {
			continue
		}
		switch child.Kind {
		case dom.KindElement:
			h, err := t.layoutNode(childID, content, childCursor)
			if err != nil {
				return 0, err
			}
			childCursor += h
			flowHeight += h
		case dom.KindText:
			h := t.measureTextHeight(child.Text, st, content.Width)
			childCursor += h
			flowHeight += h
		}
	}

	if st.Height != nil {
		content.Height = *st.Height
	} else {
		content.Height = flowHeight
	}

	box := &Box{NodeID: id, Content: content}
	box.Padding = content.ExpandedBy(st.Padding)
	box.Border = box.Padding.ExpandedBy(st.Border)
	box.Margin = box.Border.ExpandedBy(st.Margin)
	box.Baseline = content.Y + content.Height
	t.boxes[id] = box

	if outOfFlow {
		return 0, nil
	}
	return box.Margin.Height, nil
}

// measureTextHeight estimates the vertical extent of a text run wrapped to
// the available width. The estimate assumes a fixed average glyph advance;
// no font metrics are consulted.
func (t *Tree) measureTextHeight(text string, st style.Computed, availWidth float64) float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}
	runes := utf8.RuneCountInString(trimmed)
	lineHeight := st.FontSize * lineHeightFactor
	textWidth := float64(runes) * st.FontSize * glyphWidthFactor
	if availWidth <= 0 {
		return lineHeight
	}
	lines := math.Ceil(textWidth / availWidth)
	if lines < 1 {
		lines = 1
	}
	return lines * lineHeight
}

// HitTest returns the deepest element whose border rect contains the point.
// The second result is false when nothing is hit or the tree is uncomputed.
func (t *Tree) HitTest(p Point) (dom.NodeID, bool) {
	if !t.computed {
		return dom.InvalidNode, false
	}
	root, _ := t.doc.Node(t.doc.Root())
	return t.hitTestNode(root, p)
}

func (t *Tree) hitTestNode(node *dom.Node, p Point) (dom.NodeID, bool) {
	// Later siblings paint on top, so scan children in reverse.
	for i := len(node.Children) - 1; i >= 0; i-- {
		child, ok := t.doc.Node(node.Children[i])
		if !ok {
			continue
		}
		if id, hit := t.hitTestNode(child, p); hit {
			return id, true
		}
	}
	if box, ok := t.boxes[node.ID]; ok && box.Border.Contains(p) {
		return node.ID, true
	}
	return dom.InvalidNode, false
}

// UpdateSubtree replaces the style of one element and recomputes geometry
// for that element and its descendants only. The element keeps the flow
// position assigned by the last full Compute; siblings and ancestors are
// not moved even if the subtree's size changes, so callers needing flow
// consistency should run a full Compute instead.
func (t *Tree) UpdateSubtree(id dom.NodeID, st style.Computed) error {
	if !t.computed {
		return &Error{NodeID: id, Reason: "tree not computed"}
	}
	box, ok := t.boxes[id]
	if !ok {
		return &Error{NodeID: id, Reason: "no box for node"}
	}
	container, ok := t.containers[id]
	if !ok {
		return &Error{NodeID: id, Reason: "no containing block for node"}
	}
	cursorY := box.Margin.Y

	t.styles[id] = st
	t.pruneSubtree(id)
	_, err := t.layoutNode(id, container, cursorY)
	if err != nil {
		// Geometry for the subtree is gone; force a full recompute.
		t.computed = false
		return err
	}
	return nil
}

// SetStyle overrides the resolved style of one element without touching
// geometry. The change takes effect at the next Compute or UpdateSubtree.
func (t *Tree) SetStyle(id dom.NodeID, st style.Computed) {
	t.styles[id] = st
}

func (t *Tree) pruneSubtree(id dom.NodeID) {
	delete(t.boxes, id)
	delete(t.containers, id)
	node, ok := t.doc.Node(id)
	if !ok {
		return
	}
	for _, childID := range node.Children {
		t.pruneSubtree(childID)
	}
}
