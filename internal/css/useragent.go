// internal/css/useragent.go
package css

// defaultUserAgentCSS is the built-in baseline stylesheet. It stays within
// the supported selector grammar and supplies the conventional defaults the
// layout properties depend on.
const defaultUserAgentCSS = `
html { display: block; }
body { display: block; margin: 8px; }
div { display: block; }
p { display: block; margin: 1em 0; }
h1 { display: block; font-size: 2em; font-weight: bold; margin: 0.67em 0; }
h2 { display: block; font-size: 1.5em; font-weight: bold; margin: 0.83em 0; }
h3 { display: block; font-size: 1.17em; font-weight: bold; margin: 1em 0; }
head { display: none; }
style { display: none; }
script { display: none; }
span { display: inline; }
a { display: inline; color: #0000ee; }
b { display: inline; font-weight: bold; }
strong { display: inline; font-weight: bold; }
em { display: inline; }
img { display: inline-block; }
input { display: inline-block; border-width: 1px; padding: 1px 2px; }
button { display: inline-block; border-width: 1px; padding: 1px 6px; }
`

// DefaultUserAgentSheet parses the built-in baseline stylesheet. The result
// is freshly built per call so callers can never share mutable rule slices.
func DefaultUserAgentSheet() Stylesheet {
	return Parse(defaultUserAgentCSS, OriginUserAgent)
}
