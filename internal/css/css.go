// internal/css/css.go
package css

import (
	"fmt"
	"strings"

	"github.com/Ancillary-AGI/titan/internal/observability"
	"go.uber.org/zap"
)

// Origin identifies where a stylesheet came from. Precedence in the cascade
// is strictly UserAgent < User < Author.
type Origin uint8

const (
	OriginUserAgent Origin = iota
	OriginUser
	OriginAuthor
)

func (o Origin) String() string {
	switch o {
	case OriginUserAgent:
		return "user-agent"
	case OriginUser:
		return "user"
	case OriginAuthor:
		return "author"
	}
	return "unknown"
}

// Declaration is a single property: value pair. The Important flag is parsed
// and preserved but the cascade does not honor it yet.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// Rule pairs an ordered selector list with an ordered declaration list.
// Selectors are the simple forms only: a tag name, "#id", or ".class".
type Rule struct {
	Selectors    []string
	Declarations []Declaration
}

// Stylesheet is an ordered rule list tagged with its origin.
type Stylesheet struct {
	Origin Origin
	Rules  []Rule
}

// Diagnostic describes one skipped unit during best-effort parsing.
type Diagnostic struct {
	Offset  int
	Message string
}

// Parser holds the state of the stylesheet parser. Parsing is best effort:
// a malformed declaration or rule is skipped and parsing resynchronizes at
// the next rule boundary, so one bad rule never aborts the whole sheet.
type Parser struct {
	input string
	pos   int

	diags []Diagnostic
}

func NewParser(input string) *Parser {
	return &Parser{input: input}
}

// Diagnostics returns the units skipped by the last Parse call.
func (p *Parser) Diagnostics() []Diagnostic { return p.diags }

// Parse analyzes the input text and builds a Stylesheet with the given origin.
func (p *Parser) Parse(origin Origin) Stylesheet {
	var rules []Rule
	for {
		p.consumeWhitespace()
		if p.eof() {
			break
		}
		if p.startsWith("/*") {
			p.skipComment()
			continue
		}
		if p.currentChar() == '@' {
			p.record("at-rule skipped")
			p.skipAtRule()
			continue
		}
		if p.currentChar() == '}' {
			p.record("stray '}' skipped")
			p.consumeChar()
			continue
		}

		selectors, dropped := p.parseSelectors()
		if len(selectors) == 0 {
			// Per-selector diagnostics already name what was dropped.
			if dropped == 0 {
				p.record("rule without usable selector skipped")
			}
			p.skipTo('{', '}')
			if !p.eof() && p.currentChar() == '{' {
				p.consumeChar()
				p.skipBlock('{', '}')
			}
			continue
		}

		declarations, err := p.parseDeclarations()
		if err != nil {
			p.record(err.Error())
			continue
		}
		if len(declarations) > 0 {
			rules = append(rules, Rule{Selectors: selectors, Declarations: declarations})
		}
	}

	if len(p.diags) > 0 {
		observability.GetLogger().Warn("stylesheet parsed with skipped units",
			zap.Stringer("origin", origin),
			zap.Int("skipped", len(p.diags)))
	}
	return Stylesheet{Origin: origin, Rules: rules}
}

// Parse is the package-level convenience for one-shot parsing.
func Parse(text string, origin Origin) Stylesheet {
	return NewParser(text).Parse(origin)
}

func (p *Parser) record(msg string) {
	p.diags = append(p.diags, Diagnostic{Offset: p.pos, Message: msg})
}

// parseSelectors reads the comma-separated selector list before a block.
// Each entry must be a single simple selector; anything with combinators or
// compound parts is dropped with a diagnostic, the rest of the group survives.
// A stray '}' ends the run so the scanner resynchronizes instead of gluing
// the brace into the next selector. Returns the usable selectors and the
// count of dropped ones.
func (p *Parser) parseSelectors() ([]string, int) {
	var selectors []string
	dropped := 0
	for {
		p.consumeWhitespace()
		if p.eof() || p.currentChar() == '{' || p.currentChar() == '}' {
			break
		}
		start := p.pos
		p.skipTo(',', '{', '}')
		raw := strings.TrimSpace(p.input[start:p.pos])
		if sel, ok := normalizeSimpleSelector(raw); ok {
			selectors = append(selectors, sel)
		} else if raw != "" {
			p.record(fmt.Sprintf("unsupported selector %q skipped", raw))
			dropped++
		}
		if !p.eof() && p.currentChar() == ',' {
			p.consumeChar()
		}
	}
	return selectors, dropped
}

// normalizeSimpleSelector validates a raw selector string against the
// supported grammar: TAG, #id or .class. Tag names compare case-insensitively
// so they are lowered here, once.
func normalizeSimpleSelector(raw string) (string, bool) {
	if raw == "" || strings.ContainsAny(raw, " \t\n>+~[]:()") {
		return "", false
	}
	switch raw[0] {
	case '#', '.':
		if len(raw) < 2 || strings.ContainsAny(raw[1:], "#.") {
			return "", false
		}
		return raw, true
	default:
		if strings.ContainsAny(raw, "#.") {
			return "", false
		}
		if !isValidIdentifierStart(raw[0]) && raw[0] != '*' {
			return "", false
		}
		return strings.ToLower(raw), true
	}
}

// parseDeclarations parses the content within { ... }.
func (p *Parser) parseDeclarations() ([]Declaration, error) {
	p.consumeWhitespace()
	if p.eof() || p.currentChar() != '{' {
		return nil, fmt.Errorf("expected '{' at offset %d", p.pos)
	}
	p.consumeChar()

	var declarations []Declaration
	for {
		p.consumeWhitespace()
		if p.eof() || p.currentChar() == '}' {
			break
		}
		if p.startsWith("/*") {
			p.skipComment()
			continue
		}
		prop, val, important, ok := p.parseDeclaration()
		if !ok {
			p.record("malformed declaration skipped")
			continue
		}
		declarations = append(declarations, Declaration{
			Property:  strings.ToLower(prop),
			Value:     val,
			Important: important,
		})
	}
	if !p.eof() && p.currentChar() == '}' {
		p.consumeChar()
	}
	return declarations, nil
}

// parseDeclaration parses a single 'property: value;' pair. On malformed
// input it resynchronizes at the next ';' or '}' and reports failure.
func (p *Parser) parseDeclaration() (prop, val string, important, ok bool) {
	if !isValidIdentifierStart(p.currentChar()) {
		p.resyncDeclaration()
		return
	}
	prop = p.parseIdentifier()
	p.consumeWhitespace()

	if p.eof() || p.currentChar() != ':' {
		p.resyncDeclaration()
		return
	}
	p.consumeChar()
	p.consumeWhitespace()

	val = p.parseValue()
	if val == "" {
		p.resyncDeclaration()
		return
	}

	if strings.HasSuffix(strings.ToLower(val), "!important") {
		important = true
		val = strings.TrimSpace(val[:len(val)-len("!important")])
	}

	p.consumeWhitespace()
	if !p.eof() && p.currentChar() == ';' {
		p.consumeChar()
	}
	return prop, val, important, true
}

func (p *Parser) resyncDeclaration() {
	p.skipTo(';', '}')
	if !p.eof() && p.currentChar() == ';' {
		p.consumeChar()
	}
}

// parseValue reads a value until a delimiter, skipping over quoted strings
// and balanced parentheses so function syntax survives intact.
func (p *Parser) parseValue() string {
	start := p.pos
	for !p.eof() {
		ch := p.currentChar()
		if ch == ';' || ch == '}' {
			break
		}
		if ch == '"' || ch == '\'' {
			p.skipQuotedString(ch)
			continue
		}
		if ch == '(' {
			p.consumeChar()
			p.skipBlock('(', ')')
			continue
		}
		p.pos++
	}
	return strings.TrimSpace(p.input[start:p.pos])
}

// ParseDeclarationList parses a bare declaration list, the syntax of an
// inline style attribute. Malformed entries are skipped.
func ParseDeclarationList(text string) []Declaration {
	var decls []Declaration
	for _, part := range strings.Split(text, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			continue
		}
		prop, val := strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1])
		if prop == "" || val == "" {
			continue
		}
		important := false
		if strings.HasSuffix(strings.ToLower(val), "!important") {
			important = true
			val = strings.TrimSpace(val[:len(val)-len("!important")])
		}
		decls = append(decls, Declaration{
			Property:  strings.ToLower(prop),
			Value:     val,
			Important: important,
		})
	}
	return decls
}

// -- Lexer-like Helpers --

func (p *Parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *Parser) currentChar() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *Parser) consumeChar() byte {
	ch := p.currentChar()
	if !p.eof() {
		p.pos++
	}
	return ch
}

func (p *Parser) consumeWhitespace() {
	for !p.eof() && isWhitespace(p.currentChar()) {
		p.pos++
	}
}

func (p *Parser) startsWith(s string) bool {
	if p.pos+len(s) > len(p.input) {
		return false
	}
	return p.input[p.pos:p.pos+len(s)] == s
}

func (p *Parser) skipComment() {
	p.pos += 2
	endIndex := strings.Index(p.input[p.pos:], "*/")
	if endIndex == -1 {
		p.pos = len(p.input)
	} else {
		p.pos += endIndex + 2
	}
}

func (p *Parser) skipTo(targets ...byte) {
	for !p.eof() {
		ch := p.currentChar()
		for _, target := range targets {
			if ch == target {
				return
			}
		}
		if ch == '"' || ch == '\'' {
			p.skipQuotedString(ch)
			continue
		}
		p.pos++
	}
}

func (p *Parser) skipBlock(open, close byte) {
	depth := 1
	for !p.eof() {
		c := p.consumeChar()
		if c == open {
			depth++
		} else if c == close {
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

func (p *Parser) skipQuotedString(quote byte) {
	p.consumeChar()
	for !p.eof() {
		ch := p.consumeChar()
		if ch == '\\' {
			p.consumeChar()
		} else if ch == quote {
			return
		}
	}
}

func (p *Parser) skipAtRule() {
	p.consumeChar()
	_ = p.parseIdentifier()
	p.consumeWhitespace()
	for !p.eof() {
		ch := p.currentChar()
		if ch == '{' {
			p.consumeChar()
			p.skipBlock('{', '}')
			return
		}
		if ch == ';' {
			p.consumeChar()
			return
		}
		p.pos++
	}
}

func (p *Parser) parseIdentifier() string {
	start := p.pos
	for !p.eof() && isValidIdentifierChar(p.currentChar()) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isValidIdentifierStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '-'
}

func isValidIdentifierChar(ch byte) bool {
	return isValidIdentifierStart(ch) || (ch >= '0' && ch <= '9')
}
