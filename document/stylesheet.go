package document

// Style describes how one node kind is rendered. FontSize is in points,
// margins in millimeters, LineHeight is a factor of the font size.
type Style struct {
	FontSize   float64    `json:"fontSize"`
	Bold       bool       `json:"bold,omitempty"`
	Color      Color      `json:"color"`
	Align      string     `json:"align,omitempty"` // left/center/right; empty means start edge
	Direction  Direction  `json:"direction,omitempty"`
	LineHeight float64    `json:"lineHeight,omitempty"`
	Margin     EdgeInsets `json:"margin"`
}

// Color uses 0-255 RGB channels.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b} }

// EdgeInsets is a per-edge spacing in millimeters.
type EdgeInsets struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

func Insets(top, right, bottom, left float64) EdgeInsets {
	return EdgeInsets{Top: top, Right: right, Bottom: bottom, Left: left}
}

// StyleSheet maps node-kind keys ("heading1".."heading6", "paragraph",
// "arabic", "list", "code") to style rules. Styles are immutable during a
// layout pass; mutation happens only through explicit edits between passes.
type StyleSheet struct {
	Styles      map[string]Style `json:"styles"`
	ActiveTheme string           `json:"activeTheme,omitempty"`
}

// Resolve returns the rule for key, falling back to the built-in defaults
// when the sheet has no entry for it.
func (s StyleSheet) Resolve(key string) Style {
	if st, ok := s.Styles[key]; ok {
		return st
	}
	if st, ok := defaultStyles[key]; ok {
		return st
	}
	return defaultStyles["paragraph"]
}

// DefaultStyleSheet returns a sheet pre-populated with the built-in rules.
func DefaultStyleSheet() StyleSheet {
	styles := make(map[string]Style, len(defaultStyles))
	for k, v := range defaultStyles {
		styles[k] = v
	}
	return StyleSheet{Styles: styles, ActiveTheme: "default"}
}

var defaultStyles = map[string]Style{
	"heading1":  {FontSize: 28, Bold: true, LineHeight: 1.25, Margin: Insets(12, 0, 16, 0)},
	"heading2":  {FontSize: 22, Bold: true, Color: RGB(40, 40, 40), LineHeight: 1.25, Margin: Insets(10, 0, 12, 0)},
	"heading3":  {FontSize: 18, Bold: true, Color: RGB(40, 40, 40), LineHeight: 1.25, Margin: Insets(8, 0, 10, 0)},
	"heading4":  {FontSize: 16, Bold: true, Color: RGB(60, 60, 60), LineHeight: 1.25, Margin: Insets(8, 0, 8, 0)},
	"heading5":  {FontSize: 15, Bold: true, Color: RGB(60, 60, 60), LineHeight: 1.25, Margin: Insets(6, 0, 6, 0)},
	"heading6":  {FontSize: 14, Bold: true, Color: RGB(80, 80, 80), LineHeight: 1.25, Margin: Insets(6, 0, 6, 0)},
	"paragraph": {FontSize: 16, LineHeight: 1.8, Margin: Insets(0, 0, 10, 0)},
	"arabic":    {FontSize: 18, LineHeight: 2.0, Direction: DirRTL, Margin: Insets(0, 0, 10, 0)},
	"list":      {FontSize: 16, LineHeight: 1.6, Margin: Insets(0, 0, 10, 0)},
	"code":      {FontSize: 13, LineHeight: 1.5, Color: RGB(30, 30, 30), Margin: Insets(10, 0, 10, 0)},
}
