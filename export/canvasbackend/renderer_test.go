package canvasbackend

import (
	"bytes"
	"errors"
	"image/png"
	"reflect"
	"strings"
	"testing"

	"github.com/Tera3Bit/pdx-text-editor/document"
	"github.com/Tera3Bit/pdx-text-editor/export"
	"github.com/Tera3Bit/pdx-text-editor/layout"
)

func latinDoc(paragraphs ...string) *document.Document {
	doc := document.New()
	for _, p := range paragraphs {
		doc.Content.Children = append(doc.Content.Children, &document.Paragraph{
			Runs: []document.TextRun{{Text: p, Direction: document.DirLTR, Lang: "en"}},
		})
	}
	return doc
}

func buildResult(t *testing.T, r *Renderer, doc *document.Document, paginate bool) *layout.Result {
	t.Helper()
	result, err := layout.Build(doc, layout.Options{Typesetter: r, Paginate: paginate})
	if err != nil {
		t.Fatalf("layout failed: %v", err)
	}
	return result
}

func TestLayoutLinesWraps(t *testing.T) {
	r := NewRenderer("")
	spec := layout.FontSpec{}

	wide, err := r.LayoutLines("hello world", 500, spec, 5, 8)
	if err != nil {
		t.Fatalf("layout lines failed: %v", err)
	}
	if len(wide) != 1 || wide[0].Content != "hello world" {
		t.Fatalf("wide measure should keep one line, got %+v", wide)
	}

	narrow, err := r.LayoutLines("hello world again and again", 15, spec, 5, 8)
	if err != nil {
		t.Fatalf("layout lines failed: %v", err)
	}
	if len(narrow) < 2 {
		t.Fatalf("narrow measure should wrap, got %+v", narrow)
	}
	for i, line := range narrow {
		if i > 0 && line.GapBefore < 0 {
			t.Fatalf("negative leading on line %d: %+v", i, line)
		}
		if strings.HasSuffix(line.Content, " ") {
			t.Fatalf("trailing space kept on line %d: %q", i, line.Content)
		}
	}
}

func TestLayoutLinesKeepsExplicitNewlines(t *testing.T) {
	r := NewRenderer("")
	lines, err := r.LayoutLines("a := 1\nb := 2", 500, layout.FontSpec{Mono: true}, 4, 6)
	if err != nil {
		t.Fatalf("layout lines failed: %v", err)
	}
	if len(lines) != 2 || lines[0].Content != "a := 1" || lines[1].Content != "b := 2" {
		t.Fatalf("newlines must force breaks, got %+v", lines)
	}
}

func TestLayoutLinesEmptyContent(t *testing.T) {
	r := NewRenderer("")
	lines, err := r.LayoutLines("", 100, layout.FontSpec{}, 5, 8)
	if err != nil {
		t.Fatalf("layout lines failed: %v", err)
	}
	if len(lines) != 1 || lines[0].Height <= 0 {
		t.Fatalf("empty content should yield one measurable line, got %+v", lines)
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("two  words\nnext")
	want := []string{"two", "  ", "words", "\n", "next"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tokenize = %q, want %q", got, want)
	}
}

func TestPDFOutput(t *testing.T) {
	r := NewRenderer("")
	doc := latinDoc("A short paragraph.", "Another paragraph for the second block.")
	doc.Content.Children = append(doc.Content.Children, &document.Divider{}, &document.PageBreak{})
	doc.Content.Children = append(doc.Content.Children, &document.Paragraph{
		Runs: []document.TextRun{{Text: "On the next page.", Direction: document.DirLTR}},
	})

	result := buildResult(t, r, doc, true)
	if len(result.Pages) < 2 {
		t.Fatalf("expected the explicit break to paginate, got %d pages", len(result.Pages))
	}

	data, err := r.PDF(result)
	if err != nil {
		t.Fatalf("pdf export failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output does not start with %%PDF: %q", data[:8])
	}
}

func TestPDFNoPages(t *testing.T) {
	r := NewRenderer("")
	if _, err := r.PDF(nil); err != export.ErrNoPages {
		t.Fatalf("expected ErrNoPages, got %v", err)
	}
}

func TestMissingGlyphReported(t *testing.T) {
	r := NewRenderer("")
	doc := document.New()
	doc.Content.Children = []document.Node{&document.Paragraph{
		Runs: []document.TextRun{{Text: "مرحبا", Direction: document.DirRTL, Lang: "ar"}},
	}}

	// Without a registered rtl face the typesetter must refuse the run up
	// front; measuring it with the Latin face is not defined.
	_, err := layout.Build(doc, layout.Options{Typesetter: r, Paginate: true})
	var encErr *export.EncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("expected EncodingError without an rtl font, got %v", err)
	}
	if encErr.Rune == 0 || encErr.Run == "" {
		t.Fatalf("error should carry the missing code point and run text: %+v", encErr)
	}
}

func TestLayoutLinesRejectsUncoveredText(t *testing.T) {
	r := NewRenderer("")
	_, err := r.LayoutLines("نص عربي", 100, layout.FontSpec{RTL: true}, 5, 8)
	var encErr *export.EncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("expected EncodingError from the typesetter, got %v", err)
	}
}

func TestPNGOutput(t *testing.T) {
	r := NewRenderer("")
	doc := latinDoc("Rasterized content.")
	result := buildResult(t, r, doc, false)

	data, err := r.PNG(result, 300, 400)
	if err != nil {
		t.Fatalf("png export failed: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a png: %v", err)
	}
	if cfg.Width != 300 || cfg.Height != 400 {
		t.Fatalf("raster size %dx%d, want 300x400", cfg.Width, cfg.Height)
	}
}

func TestPNGDefaultSize(t *testing.T) {
	r := NewRenderer("")
	result := buildResult(t, r, latinDoc("x"), false)
	data, err := r.PNG(result, 0, 0)
	if err != nil {
		t.Fatalf("png export failed: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a png: %v", err)
	}
	if cfg.Width != DefaultPNGWidth || cfg.Height != DefaultPNGHeight {
		t.Fatalf("raster size %dx%d, want defaults", cfg.Width, cfg.Height)
	}
}
