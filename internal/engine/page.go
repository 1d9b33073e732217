// internal/engine/page.go
package engine

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ancillary-AGI/titan/api/schemas"
	"github.com/Ancillary-AGI/titan/internal/config"
	"github.com/Ancillary-AGI/titan/internal/css"
	"github.com/Ancillary-AGI/titan/internal/dom"
	"github.com/Ancillary-AGI/titan/internal/layout"
	"github.com/Ancillary-AGI/titan/internal/observability"
	"github.com/Ancillary-AGI/titan/internal/style"
)

// Page owns one document and its derived state: the parsed stylesheets, the
// resolver, and the layout tree. Stylesheets keep registration order within
// each origin. A Page is safe for concurrent use; all exported methods take
// the page lock.
type Page struct {
	ID uuid.UUID

	mu       sync.Mutex
	cfg      config.EngineConfig
	logger   *zap.Logger
	doc      *dom.Document
	sheets   []css.Stylesheet
	diags    []schemas.Diagnostic
	resolver *style.Resolver
	tree     *layout.Tree
}

// NewPage creates an empty page with a fresh identity. The user agent
// stylesheet is registered up front unless disabled in configuration. A nil
// logger falls back to the global one.
func NewPage(cfg config.EngineConfig, logger *zap.Logger) *Page {
	if logger == nil {
		logger = observability.GetLogger()
	}
	p := &Page{
		ID:       uuid.New(),
		cfg:      cfg,
		logger:   logger.Named("engine"),
		doc:      dom.NewDocument(),
		resolver: style.NewResolver(),
	}
	if cfg.UserAgentStyles {
		p.sheets = append(p.sheets, css.DefaultUserAgentSheet())
	}
	return p
}

// LoadMarkup parses markup into a fresh document, replacing any prior one.
// Author stylesheets registered before the load are kept. When document
// styles are enabled, style elements in the new document are harvested as
// author sheets after the registered ones.
func (p *Page) LoadMarkup(r io.Reader) error {
	doc, err := dom.Parse(r)
	if err != nil {
		return fmt.Errorf("load markup: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.doc = doc
	p.tree = nil
	if p.cfg.DocumentStyles {
		p.harvestDocumentStyles()
	}
	p.logger.Info("markup loaded",
		zap.String("page_id", p.ID.String()),
		zap.Int("nodes", doc.Len()),
		zap.String("title", doc.Title()))
	return nil
}

// LoadMarkupString is a convenience wrapper over LoadMarkup.
func (p *Page) LoadMarkupString(markup string) error {
	return p.LoadMarkup(strings.NewReader(markup))
}

// AddStylesheet parses one stylesheet text and registers it at the given
// origin. Parsing is best effort; skipped units are recorded as diagnostics
// rather than failing the call. Any existing layout is invalidated.
func (p *Page) AddStylesheet(text string, origin css.Origin) {
	parser := css.NewParser(text)
	sheet := parser.Parse(origin)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.sheets = append(p.sheets, sheet)
	for _, d := range parser.Diagnostics() {
		p.diags = append(p.diags, schemas.Diagnostic{Offset: d.Offset, Message: d.Message})
	}
	p.tree = nil
	p.logger.Debug("stylesheet registered",
		zap.String("origin", origin.String()),
		zap.Int("rules", len(sheet.Rules)),
		zap.Int("skipped", len(parser.Diagnostics())))
}

// harvestDocumentStyles parses the text of every style element as an author
// sheet. Caller holds the lock.
func (p *Page) harvestDocumentStyles() {
	for _, id := range p.doc.ElementsByTag("style") {
		text := p.doc.TextContent(id)
		if strings.TrimSpace(text) == "" {
			continue
		}
		parser := css.NewParser(text)
		sheet := parser.Parse(css.OriginAuthor)
		p.sheets = append(p.sheets, sheet)
		for _, d := range parser.Diagnostics() {
			p.diags = append(p.diags, schemas.Diagnostic{Offset: d.Offset, Message: d.Message})
		}
	}
}

// AddDocumentStyles re-harvests style elements from the current document as
// author sheets. Useful when document styles were disabled at load time or
// the document was mutated afterwards.
func (p *Page) AddDocumentStyles() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.harvestDocumentStyles()
	p.tree = nil
}

// Diagnostics returns the stylesheet diagnostics accumulated so far.
func (p *Page) Diagnostics() []schemas.Diagnostic {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]schemas.Diagnostic, len(p.diags))
	copy(out, p.diags)
	return out
}

// Document returns the page's document arena.
func (p *Page) Document() *dom.Document {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc
}

// Arena query proxies for automation collaborators.

func (p *Page) Title() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.Title()
}

func (p *Page) ElementsByTag(tag string) []dom.NodeID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.ElementsByTag(tag)
}

func (p *Page) ElementsByClass(class string) []dom.NodeID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.ElementsByClass(class)
}

func (p *Page) ElementByID(id string) (dom.NodeID, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.ElementByID(id)
}

func (p *Page) Attr(id dom.NodeID, name string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.Attr(id, name)
}

func (p *Page) TextContent(id dom.NodeID) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.TextContent(id)
}

// Layout resolves styles and computes geometry for the configured viewport.
func (p *Page) Layout() error {
	return p.LayoutViewport(layout.Size{
		Width:  p.cfg.ViewportWidth,
		Height: p.cfg.ViewportHeight,
	})
}

// LayoutViewport computes geometry for an explicit viewport size.
func (p *Page) LayoutViewport(viewport layout.Size) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	started := time.Now()
	tree := layout.BuildTree(p.doc, p.sheets)
	if err := tree.Compute(viewport); err != nil {
		p.logger.Error("layout failed", zap.Error(err))
		return err
	}
	p.tree = tree
	p.logger.Info("page laid out",
		zap.String("page_id", p.ID.String()),
		zap.Duration("elapsed", time.Since(started)))
	return nil
}

// HitTest maps a viewport point to the deepest element whose border box
// contains it. Returns false when the page has no computed layout or no
// element is hit.
func (p *Page) HitTest(x, y float64) (dom.NodeID, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tree == nil {
		return dom.InvalidNode, false
	}
	return p.tree.HitTest(layout.Point{X: x, Y: y})
}

// UpdateInlineStyle rewrites an element's style attribute, re-resolves its
// style, and recomputes geometry for that subtree only.
func (p *Page) UpdateInlineStyle(id dom.NodeID, styleText string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tree == nil {
		return fmt.Errorf("update inline style: no computed layout")
	}
	if _, ok := p.doc.Node(id); !ok {
		return fmt.Errorf("update inline style: unknown node %d", id)
	}
	p.doc.SetAttr(id, "style", styleText)
	computed := p.resolver.Compute(p.doc, id, p.sheets)
	return p.tree.UpdateSubtree(id, computed)
}

// Box returns the geometry of one element from the last layout.
func (p *Page) Box(id dom.NodeID) (*layout.Box, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tree == nil {
		return nil, false
	}
	return p.tree.Box(id)
}

// Geometry converts one element's box into its wire representation.
func (p *Page) Geometry(id dom.NodeID) (schemas.BoxGeometry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tree == nil {
		return schemas.BoxGeometry{}, false
	}
	box, ok := p.tree.Box(id)
	if !ok {
		return schemas.BoxGeometry{}, false
	}
	return p.boxGeometry(box), true
}

// Dump renders the state of the whole page: every box from the last layout
// in document order, plus accumulated diagnostics.
func (p *Page) Dump() (schemas.LayoutDump, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tree == nil {
		return schemas.LayoutDump{}, fmt.Errorf("dump: no computed layout")
	}

	dump := schemas.LayoutDump{
		PageID:         p.ID.String(),
		Title:          p.doc.Title(),
		Timestamp:      time.Now().UTC(),
		ViewportWidth:  p.tree.Viewport().Width,
		ViewportHeight: p.tree.Viewport().Height,
		Diagnostics:    p.diags,
	}
	p.doc.Walk(p.doc.Root(), func(n *dom.Node) {
		box, ok := p.tree.Box(n.ID)
		if !ok {
			return
		}
		dump.Boxes = append(dump.Boxes, p.boxGeometry(box))
	})
	return dump, nil
}

// boxGeometry converts one layout box. Caller holds the lock.
func (p *Page) boxGeometry(box *layout.Box) schemas.BoxGeometry {
	var tag string
	if n, ok := p.doc.Node(box.NodeID); ok {
		tag = n.TagName
	}
	return schemas.BoxGeometry{
		NodeID:   uint64(box.NodeID),
		TagName:  tag,
		Content:  toRect(box.Content),
		Padding:  toRect(box.Padding),
		Border:   toRect(box.Border),
		Margin:   toRect(box.Margin),
		Baseline: box.Baseline,
	}
}

func toRect(r layout.Rect) schemas.Rect {
	return schemas.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}
