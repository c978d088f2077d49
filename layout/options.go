package layout

// Default page geometry: A4 portrait with 20mm margins.
const (
	DefaultPageWidth  = 210.0
	DefaultPageHeight = 297.0
	DefaultMargin     = 20.0
)

// Options configures a layout pass.
type Options struct {
	// Typesetter wraps text into measured lines; required.
	Typesetter Typesetter
	// Zoom scales font sizes and spacing multiplicatively before wrapping;
	// wrap points are therefore zoom dependent and are never cached across
	// zoom changes. Zero means 1.0.
	Zoom float64
	// Page geometry in millimeters; zero fields take the A4 defaults.
	PageWidth  float64
	PageHeight float64
	Margin     Margin
	// Paginate splits content into pages at the configured page height
	// (PDF). When false the whole document flows onto a single page whose
	// height grows with the content (HTML, PNG, screen).
	Paginate bool
}

// Typesetter wraps content into drawable lines constrained by width. All
// lengths are in millimeters.
type Typesetter interface {
	LayoutLines(content string, width float64, font FontSpec, fontSize, lineHeight float64) ([]TextLine, error)
}

// FontSpec selects a font face without naming a concrete file; the
// typesetter maps it onto its registered families.
type FontSpec struct {
	Bold   bool
	Italic bool
	Mono   bool
	RTL    bool
}
