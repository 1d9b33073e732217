// internal/style/values.go
package style

import (
	"regexp"
	"strconv"
	"strings"
)

var namedColors = map[string]Color{
	"black":       {0, 0, 0, 255},
	"white":       {255, 255, 255, 255},
	"red":         {255, 0, 0, 255},
	"green":       {0, 128, 0, 255},
	"blue":        {0, 0, 255, 255},
	"yellow":      {255, 255, 0, 255},
	"gray":        {128, 128, 128, 255},
	"grey":        {128, 128, 128, 255},
	"orange":      {255, 165, 0, 255},
	"purple":      {128, 0, 128, 255},
	"transparent": {0, 0, 0, 0},
}

// ParseLength resolves a length value to absolute units. Supported suffixes
// are px, em, rem (both against the fixed 16-unit root size) and %, plus bare
// numeric literals. A percentage resolves to its numeric value; there is no
// reference dimension at computation time.
func ParseLength(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	parseNumeric := func(suffix string) (float64, bool) {
		v, err := strconv.ParseFloat(strings.TrimSuffix(value, suffix), 64)
		return v, err == nil
	}

	switch {
	case strings.HasSuffix(value, "px"):
		return parseNumeric("px")
	case strings.HasSuffix(value, "rem"):
		if v, ok := parseNumeric("rem"); ok {
			return v * BaseFontSize, true
		}
		return 0, false
	case strings.HasSuffix(value, "em"):
		if v, ok := parseNumeric("em"); ok {
			return v * BaseFontSize, true
		}
		return 0, false
	case strings.HasSuffix(value, "%"):
		return parseNumeric("%")
	default:
		v, err := strconv.ParseFloat(value, 64)
		return v, err == nil
	}
}

// ParseFontWeight resolves the keyword weights and numeric literals.
func ParseFontWeight(value string) (int, bool) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "normal":
		return 400, true
	case "bold":
		return 700, true
	case "lighter":
		return 300, true
	case "bolder":
		return 600, true
	}
	w, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || w < 1 || w > 1000 {
		return 0, false
	}
	return w, true
}

// ParseDisplay maps a display keyword to its mode.
func ParseDisplay(value string) (Display, bool) {
	switch strings.TrimSpace(value) {
	case "block":
		return DisplayBlock, true
	case "inline":
		return DisplayInline, true
	case "inline-block":
		return DisplayInlineBlock, true
	case "flex":
		return DisplayFlex, true
	case "grid":
		return DisplayGrid, true
	case "none":
		return DisplayNone, true
	}
	return 0, false
}

// ParsePosition maps a position keyword to its mode. Fixed folds into
// absolute and sticky into relative.
func ParsePosition(value string) (Position, bool) {
	switch strings.TrimSpace(value) {
	case "static":
		return PositionStatic, true
	case "relative", "sticky":
		return PositionRelative, true
	case "absolute", "fixed":
		return PositionAbsolute, true
	}
	return 0, false
}

// ParseBoxEdges expands a 1-4 value shorthand into explicit sides:
// 1 -> all, 2 -> vertical horizontal, 3 -> top horizontal bottom,
// 4 -> top right bottom left. Any other count yields all-zero edges.
// Unparseable entries are dropped before counting.
func ParseBoxEdges(value string) Edges {
	var vals []float64
	for _, f := range strings.Fields(value) {
		if v, ok := ParseLength(f); ok {
			vals = append(vals, v)
		}
	}
	switch len(vals) {
	case 1:
		return Edges{vals[0], vals[0], vals[0], vals[0]}
	case 2:
		return Edges{vals[0], vals[1], vals[0], vals[1]}
	case 3:
		return Edges{vals[0], vals[1], vals[2], vals[1]}
	case 4:
		return Edges{vals[0], vals[1], vals[2], vals[3]}
	default:
		return Edges{}
	}
}

// ParseColor resolves the named-color table, #hex forms, and rgb()/rgba()
// function syntax. Unresolvable values report false so the caller can keep
// the property's prior value.
func ParseColor(value string) (Color, bool) {
	value = strings.TrimSpace(strings.ToLower(value))

	if c, ok := namedColors[value]; ok {
		return c, true
	}
	if strings.HasPrefix(value, "#") {
		return parseHexColor(value)
	}
	if strings.HasPrefix(value, "rgb") {
		return parseRGBColor(value)
	}
	return Color{}, false
}

func parseHexColor(hex string) (Color, bool) {
	hex = strings.TrimPrefix(hex, "#")
	for i := 0; i < len(hex); i++ {
		if !isHexDigit(hex[i]) {
			return Color{}, false
		}
	}

	var r, g, b uint8
	a := uint8(255)
	switch len(hex) {
	case 3:
		r, g, b = hexDigit(hex[0])*17, hexDigit(hex[1])*17, hexDigit(hex[2])*17
	case 4:
		r, g, b = hexDigit(hex[0])*17, hexDigit(hex[1])*17, hexDigit(hex[2])*17
		a = hexDigit(hex[3]) * 17
	case 6:
		r = hexDigit(hex[0])<<4 | hexDigit(hex[1])
		g = hexDigit(hex[2])<<4 | hexDigit(hex[3])
		b = hexDigit(hex[4])<<4 | hexDigit(hex[5])
	case 8:
		r = hexDigit(hex[0])<<4 | hexDigit(hex[1])
		g = hexDigit(hex[2])<<4 | hexDigit(hex[3])
		b = hexDigit(hex[4])<<4 | hexDigit(hex[5])
		a = hexDigit(hex[6])<<4 | hexDigit(hex[7])
	default:
		return Color{}, false
	}
	return Color{R: r, G: g, B: b, A: a}, true
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func hexDigit(c byte) uint8 {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

var rgbRegex = regexp.MustCompile(`^rgba?\((.*)\)$`)

func parseRGBColor(value string) (Color, bool) {
	matches := rgbRegex.FindStringSubmatch(value)
	if len(matches) != 2 {
		return Color{}, false
	}
	parts := strings.FieldsFunc(matches[1], func(r rune) bool {
		return r == ',' || r == ' ' || r == '/'
	})
	if len(parts) < 3 || len(parts) > 4 {
		return Color{}, false
	}

	var out [4]uint8
	out[3] = 255
	for i, p := range parts {
		isAlpha := i == 3
		c, ok := parseColorComponent(p, isAlpha)
		if !ok {
			return Color{}, false
		}
		out[i] = c
	}
	return Color{R: out[0], G: out[1], B: out[2], A: out[3]}, true
}

func parseColorComponent(value string, isAlpha bool) (uint8, bool) {
	value = strings.TrimSpace(value)

	if strings.HasSuffix(value, "%") {
		percent, err := strconv.ParseFloat(strings.TrimSuffix(value, "%"), 64)
		if err != nil {
			return 0, false
		}
		return uint8(clamp(percent/100.0*255.0+0.5, 0, 255)), true
	}

	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	if isAlpha {
		// Alpha is a 0..1 fraction unless given as a percentage above.
		return uint8(clamp(v*255.0+0.5, 0, 255)), true
	}
	return uint8(clamp(v+0.5, 0, 255)), true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
