package schemas

import "time"

// RenderFormat defines the serialization format of a layout dump.
type RenderFormat string

const (
	FormatJSON RenderFormat = "json"
	FormatText RenderFormat = "text"
)

// Rect is one rectangle of a box in viewport coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// BoxGeometry captures the resolved geometry of one element.
type BoxGeometry struct {
	NodeID   uint64  `json:"node_id"`
	TagName  string  `json:"tag_name,omitempty"`
	Content  Rect    `json:"content"`
	Padding  Rect    `json:"padding"`
	Border   Rect    `json:"border"`
	Margin   Rect    `json:"margin"`
	Baseline float64 `json:"baseline"`
}

// Diagnostic reports one unit skipped during stylesheet parsing.
type Diagnostic struct {
	Offset  int    `json:"offset"`
	Message string `json:"message"`
}

// LayoutDump is the top level wrapper for the result of rendering one page.
type LayoutDump struct {
	PageID         string        `json:"page_id"`
	Source         string        `json:"source,omitempty"`
	Title          string        `json:"title,omitempty"`
	Timestamp      time.Time     `json:"timestamp"`
	ViewportWidth  float64       `json:"viewport_width"`
	ViewportHeight float64       `json:"viewport_height"`
	Boxes          []BoxGeometry `json:"boxes"`
	Diagnostics    []Diagnostic  `json:"diagnostics,omitempty"`
}

// StyleSnapshotEntry pairs one element with its resolved style values.
type StyleSnapshotEntry struct {
	NodeID     uint64            `json:"node_id"`
	TagName    string            `json:"tag_name"`
	Properties map[string]string `json:"properties"`
}
