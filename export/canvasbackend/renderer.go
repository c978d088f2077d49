// Package canvasbackend renders layout results through
// github.com/tdewolff/canvas: PDF pages with subset embedded fonts, and
// rasterized PNG bitmaps. It also implements layout.Typesetter so wrap
// points come from the same font metrics used for drawing.
package canvasbackend

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font/sfnt"

	"github.com/Tera3Bit/pdx-text-editor/document"
	"github.com/Tera3Bit/pdx-text-editor/export"
	"github.com/Tera3Bit/pdx-text-editor/fonts"
	"github.com/Tera3Bit/pdx-text-editor/layout"
)

const (
	ruleWidth = 0.2
	// Default PNG canvas in logical pixels.
	DefaultPNGWidth  = 1200
	DefaultPNGHeight = 1600
)

// Renderer draws layout results via github.com/tdewolff/canvas. It is safe
// for reuse across exports; font families are cached per face name.
type Renderer struct {
	baseDir string

	mu       sync.Mutex
	families map[string]*canvas.FontFamily
	coverage map[string]*sfnt.Font
}

var _ layout.Typesetter = (*Renderer)(nil)

// NewRenderer creates a renderer rooted at baseDir for resolving relative
// image paths.
func NewRenderer(baseDir string) *Renderer {
	return &Renderer{
		baseDir:  baseDir,
		families: map[string]*canvas.FontFamily{},
		coverage: map[string]*sfnt.Font{},
	}
}

// faceName maps a font spec onto a registered face, falling back to the
// Latin regular face when no RTL font is registered (measurement still
// works; PDF export reports missing glyphs instead).
func faceName(spec layout.FontSpec) string {
	switch {
	case spec.RTL && fonts.Has(fonts.RTL):
		return fonts.RTL
	case spec.Mono:
		return fonts.Mono
	case spec.Bold && spec.Italic:
		return fonts.BoldItalic
	case spec.Bold:
		return fonts.Bold
	case spec.Italic:
		return fonts.Italic
	default:
		return fonts.Regular
	}
}

func (r *Renderer) family(name string) (*canvas.FontFamily, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fam, ok := r.families[name]; ok {
		return fam, nil
	}
	data, err := fonts.Load(name)
	if err != nil {
		return nil, err
	}
	fam := canvas.NewFontFamily(name)
	if err := fam.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("load font %s: %w", name, err)
	}
	r.families[name] = fam
	return fam, nil
}

// face creates a font face; size is in millimeters, canvas faces take
// points.
func (r *Renderer) face(spec layout.FontSpec, sizeMM float64, col document.Color) (*canvas.FontFace, error) {
	fam, err := r.family(faceName(spec))
	if err != nil {
		return nil, err
	}
	rgba := canvas.RGBA(float64(col.R)/255.0, float64(col.G)/255.0, float64(col.B)/255.0, 1.0)
	return fam.Face(sizeMM*layout.MmToPt, rgba, canvas.FontRegular, canvas.FontNormal), nil
}

// checkCoverage verifies that every non-space rune of text has a glyph in
// the named face; the first missing code point is reported as an
// EncodingError and never silently dropped.
func (r *Renderer) checkCoverage(name, text string) error {
	r.mu.Lock()
	f, ok := r.coverage[name]
	if !ok {
		data, err := fonts.Load(name)
		if err != nil {
			r.mu.Unlock()
			return err
		}
		f, err = sfnt.Parse(data)
		if err != nil {
			r.mu.Unlock()
			return fmt.Errorf("parse font %s: %w", name, err)
		}
		r.coverage[name] = f
	}
	r.mu.Unlock()

	var buf sfnt.Buffer
	for _, rn := range text {
		if unicode.IsSpace(rn) || unicode.Is(unicode.Cf, rn) {
			continue
		}
		idx, err := f.GlyphIndex(&buf, rn)
		if err != nil || idx == 0 {
			return &export.EncodingError{Rune: rn, Run: text}
		}
	}
	return nil
}

// LayoutLines implements layout.Typesetter with greedy wrapping. All
// lengths are millimeters; the font system works in points and conversion
// happens at the face boundary. Coverage is verified up front: measuring a
// rune the face has no glyph for is undefined in the shaper, so a missing
// glyph surfaces here as an EncodingError instead of reaching TextWidth.
func (r *Renderer) LayoutLines(content string, width float64, font layout.FontSpec, fontSize, lineHeight float64) ([]layout.TextLine, error) {
	if err := r.checkCoverage(faceName(font), content); err != nil {
		return nil, err
	}
	face, err := r.face(font, fontSize, document.Color{})
	if err != nil {
		return nil, err
	}

	lines := greedyWrap(content, width, face)
	metrics := face.Metrics()
	textHeight := metrics.LineHeight
	if textHeight <= 0 {
		textHeight = lineHeight
	}
	leading := math.Max(lineHeight-textHeight, 0)
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: "", Width: 0, Height: textHeight}}
	}
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = textHeight
		}
		if i > 0 {
			lines[i].GapBefore = leading
		}
	}
	return lines, nil
}

// PDF renders the paginated result into a self-contained PDF byte stream.
// Fonts used by the text blocks are subset and embedded by the canvas pdf
// writer, so viewing never depends on system fonts.
func (r *Renderer) PDF(result *layout.Result) ([]byte, error) {
	if result == nil || len(result.Pages) == 0 {
		return nil, export.ErrNoPages
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	writer.SetInfo(result.Meta.Title, "", strings.Join(result.Meta.Keywords, ", "), result.Meta.Author, "pdx-text-editor")
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // top-left origin, same as layout

		if err := r.drawPage(ctx, page); err != nil {
			return nil, err
		}
		c.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// PNG rasterizes the first (non-paginated) page into a single RGBA bitmap
// of widthPx by heightPx logical pixels.
func (r *Renderer) PNG(result *layout.Result, widthPx, heightPx int) ([]byte, error) {
	if result == nil || len(result.Pages) == 0 {
		return nil, export.ErrNoPages
	}
	if widthPx <= 0 {
		widthPx = DefaultPNGWidth
	}
	if heightPx <= 0 {
		heightPx = DefaultPNGHeight
	}

	page := result.Pages[0]
	c := canvas.New(page.Width, page.Height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)

	// White sheet behind the content; embedded transparency blends onto it.
	ctx.SetFillColor(canvas.White)
	ctx.DrawPath(0, 0, canvas.Rectangle(page.Width, page.Height))

	if err := r.drawPage(ctx, page); err != nil {
		return nil, err
	}

	raster := rasterizer.Draw(c, canvas.DPMM(float64(widthPx)/page.Width), canvas.DefaultColorSpace)
	dst := image.NewRGBA(image.Rect(0, 0, widthPx, heightPx))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), raster, raster.Bounds(), xdraw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page) error {
	for _, item := range page.Items {
		switch p := item.(type) {
		case *layout.TextBlock:
			if err := r.drawTextBlock(ctx, p); err != nil {
				return err
			}
		case *layout.ImageBlock:
			if err := r.drawImage(ctx, p); err != nil {
				return err
			}
		case *layout.Rule:
			ctx.SetStrokeColor(canvas.Hex("#ddd"))
			ctx.SetStrokeWidth(ruleWidth)
			line := &canvas.Path{}
			line.MoveTo(0, 0)
			line.LineTo(p.Width, 0)
			ctx.DrawPath(p.X, p.Y, line)
		case *layout.Break:
			// Explicit breaks already produced page boundaries when
			// paginating; on a single page there is nothing to draw.
		}
	}
	return nil
}

func (r *Renderer) drawTextBlock(ctx *canvas.Context, tb *layout.TextBlock) error {
	spec := layout.FontSpec{Bold: tb.Bold, Italic: tb.Italic, Mono: tb.Mono, RTL: tb.RTL}
	face, err := r.face(spec, tb.FontSize, tb.Color)
	if err != nil {
		return err
	}
	name := faceName(spec)

	// Right-to-left blocks anchor on the trailing (right) edge; otherwise
	// the style alignment decides.
	var textAlign canvas.TextAlign
	var anchorX float64
	switch {
	case tb.RTL:
		textAlign = canvas.Right
		anchorX = tb.X + tb.Width
	case tb.Align == "center":
		textAlign = canvas.Center
		anchorX = tb.X + tb.Width/2
	case tb.Align == "right":
		textAlign = canvas.Right
		anchorX = tb.X + tb.Width
	default:
		textAlign = canvas.Left
		anchorX = tb.X
	}

	metrics := face.Metrics()
	cursorY := tb.Y
	for i, line := range tb.Lines {
		cursorY += line.GapBefore
		if line.Content != "" {
			if err := r.checkCoverage(name, line.Content); err != nil {
				return err
			}
			baseline := cursorY + metrics.Ascent
			ctx.DrawText(anchorX, baseline, canvas.NewTextLine(face, line.Content, textAlign))
		}
		if i == 0 && tb.Marker != "" {
			if err := r.drawMarker(ctx, tb, face, cursorY+metrics.Ascent); err != nil {
				return err
			}
		}
		height := line.Height
		if height <= 0 {
			height = tb.LineGap
		}
		cursorY += height
	}
	return nil
}

// drawMarker places the list marker on the trailing edge of the block's
// base direction: right of the text for RTL items, left otherwise.
func (r *Renderer) drawMarker(ctx *canvas.Context, tb *layout.TextBlock, face *canvas.FontFace, baseline float64) error {
	spec := layout.FontSpec{Bold: tb.Bold, Italic: tb.Italic, Mono: tb.Mono, RTL: tb.RTL}
	if err := r.checkCoverage(faceName(spec), tb.Marker); err != nil {
		return err
	}
	if tb.RTL {
		ctx.DrawText(tb.X+tb.Width+1.5, baseline, canvas.NewTextLine(face, tb.Marker, canvas.Left))
		return nil
	}
	ctx.DrawText(tb.X-1.5, baseline, canvas.NewTextLine(face, tb.Marker, canvas.Right))
	return nil
}

func (r *Renderer) drawImage(ctx *canvas.Context, ib *layout.ImageBlock) error {
	if ib.Placeholder {
		r.drawPlaceholder(ctx, ib)
		return nil
	}

	path := ib.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("read image %s: %w", ib.Path, err)
	}
	img, _, err := image.Decode(file)
	file.Close()
	if err != nil {
		return fmt.Errorf("decode image %s: %w", ib.Path, err)
	}

	width := ib.Width
	if width <= 0 {
		width = float64(img.Bounds().Dx()) / 4.0
	}
	dpmm := float64(img.Bounds().Dx()) / width
	if dpmm <= 0 {
		dpmm = 1
	}
	ctx.DrawImage(ib.X, ib.Y, img, canvas.DPMM(dpmm))
	return nil
}

// drawPlaceholder reserves the unresolved image's box visually: a light
// frame with the alt text.
func (r *Renderer) drawPlaceholder(ctx *canvas.Context, ib *layout.ImageBlock) {
	ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	ctx.SetStrokeColor(canvas.Hex("#bbb"))
	ctx.SetStrokeWidth(ruleWidth)
	ctx.DrawPath(ib.X, ib.Y, canvas.Rectangle(ib.Width, ib.Height))

	if ib.Alt == "" {
		return
	}
	// The label is decorative; drop it rather than fail the page when the
	// alt text needs glyphs the label face lacks.
	if r.checkCoverage(faceName(layout.FontSpec{Italic: true}), ib.Alt) != nil {
		return
	}
	face, err := r.face(layout.FontSpec{Italic: true}, 3.5, document.Color{R: 120, G: 120, B: 120})
	if err != nil {
		return
	}
	ctx.DrawText(ib.X+2, ib.Y+ib.Height/2, canvas.NewTextLine(face, "[Image: "+ib.Alt+"]", canvas.Left))
}

// greedyWrap splits content at whitespace boundaries, breaking inside words
// only when a single token exceeds the limit. Explicit newlines always
// break.
func greedyWrap(content string, width float64, face *canvas.FontFace) []layout.TextLine {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	tokens := tokenize(content)
	var lines []layout.TextLine
	var builder strings.Builder
	currentWidth := 0.0

	emit := func(force bool) {
		if builder.Len() == 0 {
			if force {
				lines = append(lines, layout.TextLine{Content: "", Width: 0})
			}
			return
		}
		lines = append(lines, layout.TextLine{
			Content: strings.TrimRight(builder.String(), " \t"),
			Width:   currentWidth,
		})
		builder.Reset()
		currentWidth = 0
	}

	appendToken := func(token string) {
		builder.WriteString(token)
		currentWidth += face.TextWidth(token)
	}

	for _, token := range tokens {
		if token == "\n" {
			emit(true)
			continue
		}

		tokenWidth := face.TextWidth(token)
		if currentWidth > 0 && currentWidth+tokenWidth > limit {
			emit(false)
		}
		if tokenWidth <= limit {
			appendToken(token)
			continue
		}

		for _, chunk := range splitTokenByWidth(token, limit, face) {
			chunkWidth := face.TextWidth(chunk)
			if currentWidth > 0 && currentWidth+chunkWidth > limit {
				emit(false)
			}
			appendToken(chunk)
		}
	}

	emit(false)
	return lines
}

func tokenize(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitTokenByWidth(token string, limit float64, face *canvas.FontFace) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var builder strings.Builder
	for _, r := range token {
		builder.WriteRune(r)
		if face.TextWidth(builder.String()) > limit && builder.Len() > 1 {
			runes := []rune(builder.String())
			parts = append(parts, string(runes[:len(runes)-1]))
			builder.Reset()
			builder.WriteRune(r)
		}
	}
	if builder.Len() > 0 {
		parts = append(parts, builder.String())
	}
	return parts
}
