// internal/style/values_test.go
package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLength(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"10px", 10, true},
		{"0px", 0, true},
		{"-4px", -4, true},
		{"2.5px", 2.5, true},
		{"1em", 16, true},
		{"0.5em", 8, true},
		{"2rem", 32, true},
		// A percentage resolves to its bare numeric value.
		{"50%", 50, true},
		{"12", 12, true},
		{" 10px ", 10, true},
		{"", 0, false},
		{"auto", 0, false},
		{"10vh", 0, false},
		{"abcpx", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseLength(tt.in)
		assert.Equal(t, tt.ok, ok, "ParseLength(%q) ok", tt.in)
		if tt.ok {
			assert.InDelta(t, tt.want, got, 1e-9, "ParseLength(%q)", tt.in)
		}
	}
}

func TestParseFontWeight(t *testing.T) {
	for in, want := range map[string]int{
		"normal": 400, "bold": 700, "lighter": 300, "bolder": 600,
		"BOLD": 700, "550": 550, "1": 1, "1000": 1000,
	} {
		got, ok := ParseFontWeight(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"0", "1001", "heavy", ""} {
		_, ok := ParseFontWeight(in)
		assert.False(t, ok, in)
	}
}

func TestParsePositionFolding(t *testing.T) {
	// fixed folds into absolute, sticky into relative.
	p, ok := ParsePosition("fixed")
	assert.True(t, ok)
	assert.Equal(t, PositionAbsolute, p)

	p, ok = ParsePosition("sticky")
	assert.True(t, ok)
	assert.Equal(t, PositionRelative, p)

	_, ok = ParsePosition("float")
	assert.False(t, ok)
}

func TestParseBoxEdges(t *testing.T) {
	tests := []struct {
		in   string
		want Edges
	}{
		{"8px", Edges{8, 8, 8, 8}},
		{"10px 20px", Edges{10, 20, 10, 20}},
		{"1px 2px 3px", Edges{1, 2, 3, 2}},
		{"1px 2px 3px 4px", Edges{1, 2, 3, 4}},
		{"1em 0", Edges{16, 0, 16, 0}},
		// Out-of-range counts collapse to zero edges.
		{"", Edges{}},
		{"1px 2px 3px 4px 5px", Edges{}},
		// Unparseable entries drop out before counting.
		{"junk 5px", Edges{5, 5, 5, 5}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseBoxEdges(tt.in), "ParseBoxEdges(%q)", tt.in)
	}
}

func TestParseColor(t *testing.T) {
	t.Run("named", func(t *testing.T) {
		c, ok := ParseColor("Red")
		assert.True(t, ok)
		assert.Equal(t, Color{255, 0, 0, 255}, c)

		c, ok = ParseColor("transparent")
		assert.True(t, ok)
		assert.Equal(t, Color{0, 0, 0, 0}, c)
	})

	t.Run("hex", func(t *testing.T) {
		c, ok := ParseColor("#fff")
		assert.True(t, ok)
		assert.Equal(t, Color{255, 255, 255, 255}, c)

		c, ok = ParseColor("#102030")
		assert.True(t, ok)
		assert.Equal(t, Color{16, 32, 48, 255}, c)

		c, ok = ParseColor("#10203040")
		assert.True(t, ok)
		assert.Equal(t, Color{16, 32, 48, 64}, c)

		c, ok = ParseColor("#f00a")
		assert.True(t, ok)
		assert.Equal(t, Color{255, 0, 0, 170}, c)

		for _, bad := range []string{"#ff", "#fffff", "#gggggg", "#"} {
			_, ok := ParseColor(bad)
			assert.False(t, ok, bad)
		}
	})

	t.Run("rgb function", func(t *testing.T) {
		c, ok := ParseColor("rgb(10, 20, 30)")
		assert.True(t, ok)
		assert.Equal(t, Color{10, 20, 30, 255}, c)

		c, ok = ParseColor("rgba(10, 20, 30, 0.5)")
		assert.True(t, ok)
		assert.Equal(t, Color{10, 20, 30, 128}, c)

		c, ok = ParseColor("rgb(100%, 0%, 50%)")
		assert.True(t, ok)
		assert.Equal(t, Color{255, 0, 128, 255}, c)

		// Components clamp instead of overflowing.
		c, ok = ParseColor("rgb(300, -5, 40)")
		assert.True(t, ok)
		assert.Equal(t, Color{255, 0, 40, 255}, c)

		for _, bad := range []string{"rgb()", "rgb(1, 2)", "rgb(1, 2, 3, 4, 5)", "rgb(a, b, c)"} {
			_, ok := ParseColor(bad)
			assert.False(t, ok, bad)
		}
	})

	t.Run("unknown keywords fail", func(t *testing.T) {
		_, ok := ParseColor("chartreuse-ish")
		assert.False(t, ok)
	})
}
