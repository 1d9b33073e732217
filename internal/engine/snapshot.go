// internal/engine/snapshot.go
package engine

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/Ancillary-AGI/titan/api/schemas"
	"github.com/Ancillary-AGI/titan/internal/css"
	"github.com/Ancillary-AGI/titan/internal/dom"
	"github.com/Ancillary-AGI/titan/internal/style"
)

// StyleSnapshot resolves the style of every element concurrently and returns
// the entries in document order. Style resolution is a pure function of the
// document and the registered sheets, so elements resolve independently; the
// worker count is bounded by the configured style concurrency.
func (p *Page) StyleSnapshot(ctx context.Context) ([]schemas.StyleSnapshotEntry, error) {
	p.mu.Lock()
	doc := p.doc
	sheets := make([]css.Stylesheet, len(p.sheets))
	copy(sheets, p.sheets)
	limit := p.cfg.StyleConcurrency
	p.mu.Unlock()
	if limit <= 0 {
		limit = 1
	}

	var ids []dom.NodeID
	doc.Walk(doc.Root(), func(n *dom.Node) {
		if n.Kind == dom.KindElement {
			ids = append(ids, n.ID)
		}
	})

	entries := make([]schemas.StyleSnapshotEntry, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, ok := doc.Node(id)
			if !ok {
				return fmt.Errorf("style snapshot: node %d vanished", id)
			}
			computed := p.resolver.Compute(doc, id, sheets)
			entries[i] = schemas.StyleSnapshotEntry{
				NodeID:     uint64(id),
				TagName:    n.TagName,
				Properties: styleProperties(computed),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// styleProperties flattens a computed style into stable string form.
func styleProperties(c style.Computed) map[string]string {
	props := map[string]string{
		"color":            colorString(c.Color),
		"background-color": colorString(c.Background),
		"font-size":        formatPx(c.FontSize),
		"font-family":      c.FontFamily,
		"font-weight":      strconv.Itoa(c.FontWeight),
		"display":          c.Display.String(),
		"position":         c.Position.String(),
		"margin":           edgesString(c.Margin),
		"padding":          edgesString(c.Padding),
		"border-width":     edgesString(c.Border),
	}
	if c.Width != nil {
		props["width"] = formatPx(*c.Width)
	}
	if c.Height != nil {
		props["height"] = formatPx(*c.Height)
	}
	for k, v := range c.Custom {
		props[k] = v
	}
	return props
}

func colorString(c style.Color) string {
	return fmt.Sprintf("rgba(%d, %d, %d, %d)", c.R, c.G, c.B, c.A)
}

func formatPx(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

func edgesString(e style.Edges) string {
	return fmt.Sprintf("%s %s %s %s",
		formatPx(e.Top), formatPx(e.Right), formatPx(e.Bottom), formatPx(e.Left))
}
