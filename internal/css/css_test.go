// internal/css/css_test.go
package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasicRules(t *testing.T) {
	sheet := Parse(`
		div { color: red; margin: 8px; }
		#main, .wide { width: 640px }
	`, OriginAuthor)

	require.Len(t, sheet.Rules, 2)
	assert.Equal(t, OriginAuthor, sheet.Origin)

	first := sheet.Rules[0]
	assert.Equal(t, []string{"div"}, first.Selectors)
	require.Len(t, first.Declarations, 2)
	assert.Equal(t, Declaration{Property: "color", Value: "red"}, first.Declarations[0])
	assert.Equal(t, Declaration{Property: "margin", Value: "8px"}, first.Declarations[1])

	second := sheet.Rules[1]
	assert.Equal(t, []string{"#main", ".wide"}, second.Selectors)
	require.Len(t, second.Declarations, 1)
	assert.Equal(t, "640px", second.Declarations[0].Value)
}

func TestSelectorNormalization(t *testing.T) {
	t.Run("tags lower, ids and classes verbatim", func(t *testing.T) {
		sheet := Parse(`DIV { color: red } #Main { color: red } .Wide { color: red }`, OriginAuthor)
		require.Len(t, sheet.Rules, 3)
		assert.Equal(t, []string{"div"}, sheet.Rules[0].Selectors)
		assert.Equal(t, []string{"#Main"}, sheet.Rules[1].Selectors)
		assert.Equal(t, []string{".Wide"}, sheet.Rules[2].Selectors)
	})

	t.Run("universal selector survives", func(t *testing.T) {
		sheet := Parse(`* { margin: 0 }`, OriginUserAgent)
		require.Len(t, sheet.Rules, 1)
		assert.Equal(t, []string{"*"}, sheet.Rules[0].Selectors)
	})

	t.Run("combinators and compounds are dropped with diagnostics", func(t *testing.T) {
		p := NewParser(`div p { color: red } a:hover { color: red } div.x { color: red } .ok { color: blue }`)
		sheet := p.Parse(OriginAuthor)

		require.Len(t, sheet.Rules, 1)
		assert.Equal(t, []string{".ok"}, sheet.Rules[0].Selectors)
		assert.Len(t, p.Diagnostics(), 3)
	})

	t.Run("one bad selector does not kill its group", func(t *testing.T) {
		sheet := Parse(`div > p, span { color: red }`, OriginAuthor)
		require.Len(t, sheet.Rules, 1)
		assert.Equal(t, []string{"span"}, sheet.Rules[0].Selectors)
	})

	t.Run("fully unsupported rule records one diagnostic", func(t *testing.T) {
		p := NewParser(`div p { color: red }`)
		sheet := p.Parse(OriginAuthor)

		assert.Empty(t, sheet.Rules)
		require.Len(t, p.Diagnostics(), 1)
		assert.Contains(t, p.Diagnostics()[0].Message, `"div p"`)
	})

	t.Run("empty selector run still diagnosed", func(t *testing.T) {
		p := NewParser(`{ color: red } p { color: blue }`)
		sheet := p.Parse(OriginAuthor)

		require.Len(t, sheet.Rules, 1)
		assert.Equal(t, []string{"p"}, sheet.Rules[0].Selectors)
		require.Len(t, p.Diagnostics(), 1)
		assert.Contains(t, p.Diagnostics()[0].Message, "without usable selector")
	})
}

func TestParseResynchronization(t *testing.T) {
	t.Run("malformed declaration skipped, rest kept", func(t *testing.T) {
		p := NewParser(`div { color red; background-color: blue; : broken; width: 10px }`)
		sheet := p.Parse(OriginAuthor)

		require.Len(t, sheet.Rules, 1)
		decls := sheet.Rules[0].Declarations
		require.Len(t, decls, 2)
		assert.Equal(t, "background-color", decls[0].Property)
		assert.Equal(t, "width", decls[1].Property)
		assert.NotEmpty(t, p.Diagnostics())
	})

	t.Run("at-rules are skipped whole", func(t *testing.T) {
		p := NewParser(`@media (max-width: 600px) { div { color: red } } p { color: blue }`)
		sheet := p.Parse(OriginAuthor)

		require.Len(t, sheet.Rules, 1)
		assert.Equal(t, []string{"p"}, sheet.Rules[0].Selectors)
		require.Len(t, p.Diagnostics(), 1)
		assert.Contains(t, p.Diagnostics()[0].Message, "at-rule")
	})

	t.Run("import statement form", func(t *testing.T) {
		sheet := Parse(`@import url("other.css"); b { font-weight: bold }`, OriginAuthor)
		require.Len(t, sheet.Rules, 1)
		assert.Equal(t, []string{"b"}, sheet.Rules[0].Selectors)
	})

	t.Run("comments anywhere", func(t *testing.T) {
		sheet := Parse(`/* lead */ div { /* inner */ color: red; } /* tail`, OriginAuthor)
		require.Len(t, sheet.Rules, 1)
		require.Len(t, sheet.Rules[0].Declarations, 1)
	})

	t.Run("stray closing brace does not eat the next rule", func(t *testing.T) {
		p := NewParser(`} p { color: blue }`)
		sheet := p.Parse(OriginAuthor)

		require.Len(t, sheet.Rules, 1)
		assert.Equal(t, []string{"p"}, sheet.Rules[0].Selectors)
		require.Len(t, sheet.Rules[0].Declarations, 1)
		assert.Equal(t, "blue", sheet.Rules[0].Declarations[0].Value)
		require.Len(t, p.Diagnostics(), 1)
		assert.Contains(t, p.Diagnostics()[0].Message, "stray")
	})

	t.Run("empty rules are elided", func(t *testing.T) {
		sheet := Parse(`div { } p { color: red }`, OriginAuthor)
		require.Len(t, sheet.Rules, 1)
		assert.Equal(t, []string{"p"}, sheet.Rules[0].Selectors)
	})
}

func TestParseValues(t *testing.T) {
	t.Run("function syntax survives intact", func(t *testing.T) {
		sheet := Parse(`div { color: rgb(10, 20, 30); }`, OriginAuthor)
		require.Len(t, sheet.Rules, 1)
		assert.Equal(t, "rgb(10, 20, 30)", sheet.Rules[0].Declarations[0].Value)
	})

	t.Run("quoted strings may hold delimiters", func(t *testing.T) {
		sheet := Parse(`div { font-family: "Semi;colon" }`, OriginAuthor)
		require.Len(t, sheet.Rules, 1)
		assert.Equal(t, `"Semi;colon"`, sheet.Rules[0].Declarations[0].Value)
	})

	t.Run("important is parsed off the value", func(t *testing.T) {
		sheet := Parse(`div { color: red !important; }`, OriginAuthor)
		decl := sheet.Rules[0].Declarations[0]
		assert.Equal(t, "red", decl.Value)
		assert.True(t, decl.Important)
	})

	t.Run("properties lowered", func(t *testing.T) {
		sheet := Parse(`div { COLOR: red }`, OriginAuthor)
		assert.Equal(t, "color", sheet.Rules[0].Declarations[0].Property)
	})
}

func TestParseDeclarationList(t *testing.T) {
	decls := ParseDeclarationList(`color: red; width:10px ; broken ; : nope; height: 5px !IMPORTANT`)
	require.Len(t, decls, 3)
	assert.Equal(t, Declaration{Property: "color", Value: "red"}, decls[0])
	assert.Equal(t, Declaration{Property: "width", Value: "10px"}, decls[1])
	assert.Equal(t, Declaration{Property: "height", Value: "5px", Important: true}, decls[2])

	assert.Empty(t, ParseDeclarationList("   "))
}

func TestDefaultUserAgentSheet(t *testing.T) {
	sheet := DefaultUserAgentSheet()
	assert.Equal(t, OriginUserAgent, sheet.Origin)
	require.NotEmpty(t, sheet.Rules)

	// The built-in sheet must parse without skipped units.
	p := NewParser(defaultUserAgentCSS)
	p.Parse(OriginUserAgent)
	assert.Empty(t, p.Diagnostics())

	var sawBody, sawHiddenHead bool
	for _, r := range sheet.Rules {
		for _, s := range r.Selectors {
			if s == "body" {
				sawBody = true
			}
			if s == "head" {
				for _, d := range r.Declarations {
					if d.Property == "display" && d.Value == "none" {
						sawHiddenHead = true
					}
				}
			}
		}
	}
	assert.True(t, sawBody, "user agent sheet should style body")
	assert.True(t, sawHiddenHead, "user agent sheet should hide head")
}
