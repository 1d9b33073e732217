// internal/style/computed.go
package style

// BaseFontSize is the root font size. Relative units (em/rem) resolve against
// it; the root size is fixed, not configurable.
const BaseFontSize = 16.0

// Edges is a box-model offset quadruple in the order top, right, bottom, left.
type Edges struct {
	Top, Right, Bottom, Left float64
}

// Horizontal returns left + right.
func (e Edges) Horizontal() float64 { return e.Left + e.Right }

// Vertical returns top + bottom.
func (e Edges) Vertical() float64 { return e.Top + e.Bottom }

// Display is the resolved display mode.
type Display uint8

const (
	DisplayBlock Display = iota
	DisplayInline
	DisplayInlineBlock
	DisplayFlex
	DisplayGrid
	DisplayNone
)

func (d Display) String() string {
	switch d {
	case DisplayBlock:
		return "block"
	case DisplayInline:
		return "inline"
	case DisplayInlineBlock:
		return "inline-block"
	case DisplayFlex:
		return "flex"
	case DisplayGrid:
		return "grid"
	case DisplayNone:
		return "none"
	}
	return "unknown"
}

// Position is the resolved position mode. Fixed is folded into absolute and
// sticky into relative; the distinction is dropped at parse time.
type Position uint8

const (
	PositionStatic Position = iota
	PositionRelative
	PositionAbsolute
)

func (p Position) String() string {
	switch p {
	case PositionStatic:
		return "static"
	case PositionRelative:
		return "relative"
	case PositionAbsolute:
		return "absolute"
	}
	return "unknown"
}

// Color is an RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Black is the default text color.
var Black = Color{0, 0, 0, 255}

// Transparent is the default background color.
var Transparent = Color{0, 0, 0, 0}

// Computed is the resolved style for one node. Recognized properties live in
// typed fields; everything else is preserved verbatim in Custom.
type Computed struct {
	Color      Color
	Background Color
	FontSize   float64
	FontFamily string
	FontWeight int
	Display    Display
	Position   Position

	// Width and Height are nil when no explicit size was set ("auto").
	Width  *float64
	Height *float64

	Margin  Edges
	Padding Edges
	Border  Edges

	Custom map[string]string
}

// Default returns the built-in defaults: black text on a transparent
// background, 16-unit serif at normal weight, block display, static position,
// zero box-model offsets.
func Default() Computed {
	return Computed{
		Color:      Black,
		Background: Transparent,
		FontSize:   BaseFontSize,
		FontFamily: "serif",
		FontWeight: 400,
		Display:    DisplayBlock,
		Position:   PositionStatic,
	}
}
