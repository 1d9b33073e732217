// internal/style/resolver.go
package style

import (
	"sort"
	"strings"

	"github.com/Ancillary-AGI/titan/internal/css"
	"github.com/Ancillary-AGI/titan/internal/dom"
)

// applier writes one recognized declaration value into a Computed style.
// Unparseable values leave the prior value untouched.
type applier func(*Computed, string)

// Resolver computes styles by applying the cascade: built-in defaults, then
// stylesheets in increasing origin precedence, then rules in source order,
// then the node's inline declarations last. Within that ordering, later
// declarations overwrite earlier ones for the same property; there is no
// selector specificity scoring.
//
// The applier table is fixed at construction, so the set of recognized
// properties is closed; anything else lands in Computed.Custom verbatim.
// Compute is a pure function of (node, ordered stylesheets) and is safe for
// concurrent use.
type Resolver struct {
	appliers map[string]applier
}

// NewResolver builds a resolver with the standard property table.
func NewResolver() *Resolver {
	return &Resolver{appliers: map[string]applier{
		"color": func(c *Computed, v string) {
			if col, ok := ParseColor(v); ok {
				c.Color = col
			}
		},
		"background-color": func(c *Computed, v string) {
			if col, ok := ParseColor(v); ok {
				c.Background = col
			}
		},
		"background": func(c *Computed, v string) {
			if col, ok := ParseColor(v); ok {
				c.Background = col
			}
		},
		"font-size": func(c *Computed, v string) {
			if px, ok := ParseLength(v); ok && px > 0 {
				c.FontSize = px
			}
		},
		"font-family": func(c *Computed, v string) {
			if v = strings.TrimSpace(v); v != "" {
				c.FontFamily = v
			}
		},
		"font-weight": func(c *Computed, v string) {
			if w, ok := ParseFontWeight(v); ok {
				c.FontWeight = w
			}
		},
		"display": func(c *Computed, v string) {
			if d, ok := ParseDisplay(v); ok {
				c.Display = d
			}
		},
		"position": func(c *Computed, v string) {
			if p, ok := ParsePosition(v); ok {
				c.Position = p
			}
		},
		"width": func(c *Computed, v string) {
			if strings.TrimSpace(v) == "auto" {
				c.Width = nil
				return
			}
			if px, ok := ParseLength(v); ok {
				c.Width = &px
			}
		},
		"height": func(c *Computed, v string) {
			if strings.TrimSpace(v) == "auto" {
				c.Height = nil
				return
			}
			if px, ok := ParseLength(v); ok {
				c.Height = &px
			}
		},
		"margin":       func(c *Computed, v string) { c.Margin = ParseBoxEdges(v) },
		"padding":      func(c *Computed, v string) { c.Padding = ParseBoxEdges(v) },
		"border-width": func(c *Computed, v string) { c.Border = ParseBoxEdges(v) },

		"margin-top":    edgeApplier(func(c *Computed) *float64 { return &c.Margin.Top }),
		"margin-right":  edgeApplier(func(c *Computed) *float64 { return &c.Margin.Right }),
		"margin-bottom": edgeApplier(func(c *Computed) *float64 { return &c.Margin.Bottom }),
		"margin-left":   edgeApplier(func(c *Computed) *float64 { return &c.Margin.Left }),

		"padding-top":    edgeApplier(func(c *Computed) *float64 { return &c.Padding.Top }),
		"padding-right":  edgeApplier(func(c *Computed) *float64 { return &c.Padding.Right }),
		"padding-bottom": edgeApplier(func(c *Computed) *float64 { return &c.Padding.Bottom }),
		"padding-left":   edgeApplier(func(c *Computed) *float64 { return &c.Padding.Left }),

		"border-top-width":    edgeApplier(func(c *Computed) *float64 { return &c.Border.Top }),
		"border-right-width":  edgeApplier(func(c *Computed) *float64 { return &c.Border.Right }),
		"border-bottom-width": edgeApplier(func(c *Computed) *float64 { return &c.Border.Bottom }),
		"border-left-width":   edgeApplier(func(c *Computed) *float64 { return &c.Border.Left }),
	}}
}

func edgeApplier(side func(*Computed) *float64) applier {
	return func(c *Computed, v string) {
		if px, ok := ParseLength(v); ok {
			*side(c) = px
		}
	}
}

// Compute resolves the style for one node against the given stylesheets.
// Sheets are applied in increasing origin precedence (user-agent, user,
// author); sheets sharing an origin keep their given relative order.
func (r *Resolver) Compute(doc *dom.Document, id dom.NodeID, sheets []css.Stylesheet) Computed {
	out := Default()
	node, ok := doc.Node(id)
	if !ok || node.Kind != dom.KindElement {
		return out
	}

	ordered := make([]css.Stylesheet, len(sheets))
	copy(ordered, sheets)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Origin < ordered[j].Origin
	})

	for _, sheet := range ordered {
		for _, rule := range sheet.Rules {
			if !ruleMatches(node, rule) {
				continue
			}
			for _, decl := range rule.Declarations {
				r.apply(&out, decl)
			}
		}
	}

	// Inline declarations apply last, in their own declared order.
	if inline, ok := node.GetAttr("style"); ok {
		for _, decl := range css.ParseDeclarationList(inline) {
			r.apply(&out, decl)
		}
	}
	return out
}

func (r *Resolver) apply(c *Computed, decl css.Declaration) {
	if fn, ok := r.appliers[decl.Property]; ok {
		fn(c, decl.Value)
		return
	}
	if c.Custom == nil {
		c.Custom = make(map[string]string)
	}
	c.Custom[decl.Property] = decl.Value
}

func ruleMatches(node *dom.Node, rule css.Rule) bool {
	for _, sel := range rule.Selectors {
		if Matches(node, sel) {
			return true
		}
	}
	return false
}

// Matches reports whether a simple selector matches a node. Supported forms
// are an exact case-insensitive tag name, "#value" against the id attribute,
// ".value" against any class token, and the universal "*".
func Matches(node *dom.Node, selector string) bool {
	if node.Kind != dom.KindElement || selector == "" {
		return false
	}
	switch selector[0] {
	case '#':
		return node.Attr["id"] == selector[1:]
	case '.':
		return node.HasClass(selector[1:])
	case '*':
		return true
	default:
		return strings.EqualFold(node.TagName, selector)
	}
}
