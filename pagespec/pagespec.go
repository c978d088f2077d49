// Package pagespec parses page geometry strings such as
// "A4 portrait margin 18mm" or "letter landscape margin 10mm 5mm" into
// concrete page dimensions for the paginated backends.
package pagespec

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/Tera3Bit/pdx-text-editor/layout"
)

var (
	specLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t]+`},
		{Name: "Length", Pattern: `(?:\d+\.\d+|\d+)(?:mm|cm|in|pt)?`},
		{Name: "Ident", Pattern: `[A-Za-z][A-Za-z0-9-]*`},
	})

	specParser = participle.MustBuild[spec](
		participle.Lexer(specLexer),
		participle.Elide("Whitespace"),
	)
)

// spec is the grammar: size preset, optional orientation, optional margin
// list.
type spec struct {
	Size        string   `parser:"@Ident"`
	Orientation string   `parser:"( @('portrait' | 'landscape') )?"`
	Margins     []string `parser:"( 'margin' @Length+ )?"`
}

// Geometry is a resolved page description in millimeters.
type Geometry struct {
	Width  float64
	Height float64
	Margin layout.Margin
}

// Default is A4 portrait with the layout package's default margins.
func Default() Geometry {
	return Geometry{
		Width:  layout.DefaultPageWidth,
		Height: layout.DefaultPageHeight,
		Margin: layout.Margin{
			Top:    layout.DefaultMargin,
			Right:  layout.DefaultMargin,
			Bottom: layout.DefaultMargin,
			Left:   layout.DefaultMargin,
		},
	}
}

var presets = map[string][2]float64{
	"a3":     {297, 420},
	"a4":     {210, 297},
	"a5":     {148, 210},
	"letter": {215.9, 279.4},
	"legal":  {215.9, 355.6},
}

// Parse resolves a page spec string. An empty string yields Default().
func Parse(input string) (Geometry, error) {
	if strings.TrimSpace(input) == "" {
		return Default(), nil
	}
	ast, err := specParser.ParseString("", strings.TrimSpace(input))
	if err != nil {
		return Geometry{}, fmt.Errorf("parse page spec %q: %w", input, err)
	}

	size, ok := presets[strings.ToLower(ast.Size)]
	if !ok {
		return Geometry{}, fmt.Errorf("unknown page size %q", ast.Size)
	}
	geo := Default()
	geo.Width, geo.Height = size[0], size[1]
	if strings.EqualFold(ast.Orientation, "landscape") {
		geo.Width, geo.Height = geo.Height, geo.Width
	}
	if len(ast.Margins) > 0 {
		geo.Margin = resolveMargin(ast.Margins)
	}
	return geo, nil
}

// resolveMargin follows the shorthand semantics: one value sets all edges,
// two set vertical/horizontal, three set top/right/bottom with left zero,
// four set top/right/bottom/left; extra values are ignored.
func resolveMargin(values []string) layout.Margin {
	mm := make([]float64, 0, 4)
	for _, v := range values {
		if len(mm) == 4 {
			break
		}
		length := layout.ParseRawLengthStr(v)
		if length.Unit == layout.UnitNone {
			length.Unit = layout.UnitMM
		}
		mm = append(mm, length.ToMM())
	}
	switch len(mm) {
	case 1:
		return layout.Margin{Top: mm[0], Right: mm[0], Bottom: mm[0], Left: mm[0]}
	case 2:
		return layout.Margin{Top: mm[0], Right: mm[1], Bottom: mm[0], Left: mm[1]}
	case 3:
		return layout.Margin{Top: mm[0], Right: mm[1], Bottom: mm[2]}
	case 4:
		return layout.Margin{Top: mm[0], Right: mm[1], Bottom: mm[2], Left: mm[3]}
	default:
		return layout.Margin{}
	}
}
