package layout

// This file defines the layout result and draw primitives shared by the
// on-screen surface, the export backends and the debug JSON dump.

import "github.com/Tera3Bit/pdx-text-editor/document"

// Result holds the positioned pages produced by a layout pass.
type Result struct {
	Pages []Page            `json:"pages"`
	Meta  document.Metadata `json:"meta"`
	Zoom  float64           `json:"zoom"`
}

// Margin is in millimeters.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Page holds page geometry and the primitives positioned on it. All
// coordinates are page coordinates in millimeters with the origin at the
// top-left corner.
type Page struct {
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Margin Margin      `json:"margin"`
	Items  []Primitive `json:"items"`
}

// Primitive is one backend-agnostic positioned draw instruction. The set of
// implementations is closed; backends type-switch over every variant.
type Primitive interface {
	primitive()
}

// TextBlock is a wrapped, positioned block of text. Runs keep the logical
// (storage) order for backends whose consumers reorder bidirectional text
// themselves (HTML); Lines hold the visually ordered wrap result consumed
// by the raster and PDF backends. For right-to-left blocks the visual
// origin is the right edge (X+Width).
type TextBlock struct {
	Tag      string             `json:"tag"` // h1..h6, p, li, pre
	Runs     []document.TextRun `json:"-"`
	Lines    []TextLine         `json:"lines"`
	X        float64            `json:"x"`
	Y        float64            `json:"y"`
	Width    float64            `json:"width"`
	Height   float64            `json:"height"`
	FontSize float64            `json:"fontSize"`   // mm
	LineGap  float64            `json:"lineHeight"` // mm per line advance
	Color    document.Color     `json:"color"`
	Align    string             `json:"align,omitempty"`
	RTL      bool               `json:"rtl,omitempty"`
	Bold     bool               `json:"bold,omitempty"`
	Italic   bool               `json:"italic,omitempty"`
	Mono     bool               `json:"mono,omitempty"`
	Marker   string             `json:"marker,omitempty"` // list marker, drawn on the trailing edge of the base direction
	Ordered  bool               `json:"ordered,omitempty"`
	Language string             `json:"language,omitempty"` // code block language token
}

// TextLine is one wrapped line with its measured size.
type TextLine struct {
	Content   string  `json:"content"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	GapBefore float64 `json:"gapBefore,omitempty"`
}

// ImageBlock places an image resource. Placeholder marks a reserved box for
// an unresolved resource; re-layout after resolution replaces it without
// shifting earlier siblings.
type ImageBlock struct {
	Path        string  `json:"path"`
	Alt         string  `json:"alt"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Placeholder bool    `json:"placeholder,omitempty"`
}

// Rule is a horizontal divider line.
type Rule struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Width float64 `json:"width"`
}

// Break marks an explicit page-break position on non-paginated surfaces.
type Break struct {
	Y float64 `json:"y"`
}

func (*TextBlock) primitive()  {}
func (*ImageBlock) primitive() {}
func (*Rule) primitive()       {}
func (*Break) primitive()      {}
