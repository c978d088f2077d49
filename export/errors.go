// Package export turns layout results into HTML, PDF and PNG outputs.
// Backends are read-only with respect to the document: a failed export
// never corrupts or mutates the source tree.
package export

import (
	"errors"
	"fmt"
)

// ErrNoPages is returned when the layout result carries nothing to export.
var ErrNoPages = errors.New("export: layout result has no pages")

// EncodingError reports a code point with no glyph in the embedded font
// set. It is never silently dropped: the offending rune and the run's text
// identify where the document needs a different font.
type EncodingError struct {
	Rune rune
	Run  string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("export: no glyph for U+%04X in run %q", e.Rune, e.Run)
}
