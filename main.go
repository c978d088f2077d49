package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Tera3Bit/pdx-text-editor/document"
	"github.com/Tera3Bit/pdx-text-editor/export"
	"github.com/Tera3Bit/pdx-text-editor/export/canvasbackend"
	"github.com/Tera3Bit/pdx-text-editor/fonts"
	"github.com/Tera3Bit/pdx-text-editor/importer"
	"github.com/Tera3Bit/pdx-text-editor/layout"
	"github.com/Tera3Bit/pdx-text-editor/pagespec"
	"github.com/Tera3Bit/pdx-text-editor/pdxfile"
)

func main() {
	input := flag.String("in", "", ".pdx/.md/.html input path (empty loads the sample document)")
	output := flag.String("out", "output/document.pdf", "output path")
	format := flag.String("format", "", "output format: pdf, html or png (defaults to the output extension)")
	page := flag.String("page", "", "page spec, e.g. \"a4 portrait margin 20mm\"")
	zoom := flag.Float64("zoom", 1.0, "zoom factor applied to font sizes and image dimensions")
	pngWidth := flag.Int("png-width", canvasbackend.DefaultPNGWidth, "PNG raster width in pixels")
	pngHeight := flag.Int("png-height", canvasbackend.DefaultPNGHeight, "PNG raster height in pixels")
	rtlFont := flag.String("rtl-font", "", "TTF/OTF file registered for right-to-left text")
	debug := flag.String("debug", "", "layout debug JSON output path")
	flag.Parse()

	if err := run(*input, *output, *format, *page, *zoom, *pngWidth, *pngHeight, *rtlFont, *debug); err != nil {
		log.Fatalf("export failed: %v", err)
	}
	fmt.Printf("wrote %s\n", *output)
}

func run(inputPath, outputPath, format, page string, zoom float64, pngWidth, pngHeight int, rtlFont, debugPath string) error {
	if rtlFont != "" {
		if err := fonts.LoadFile(fonts.RTL, rtlFont); err != nil {
			return fmt.Errorf("register rtl font: %w", err)
		}
	}

	doc, err := loadInput(inputPath)
	if err != nil {
		return err
	}

	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(outputPath), ".")
	}
	geom, err := pagespec.Parse(page)
	if err != nil {
		return fmt.Errorf("parse page spec: %w", err)
	}

	renderer := canvasbackend.NewRenderer(filepath.Dir(inputPath))
	opts := layout.Options{
		Typesetter: renderer,
		Zoom:       zoom,
		PageWidth:  geom.Width,
		PageHeight: geom.Height,
		Margin:     geom.Margin,
		Paginate:   format == "pdf",
	}
	result, err := layout.Build(doc, opts)
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}

	if debugPath != "" {
		if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
			return fmt.Errorf("create debug dir: %w", err)
		}
		if err := layout.WriteDebugJSON(result, debugPath); err != nil {
			return fmt.Errorf("write debug JSON: %w", err)
		}
	}

	var data []byte
	switch format {
	case "pdf":
		data, err = renderer.PDF(result)
	case "png":
		data, err = renderer.PNG(result, pngWidth, pngHeight)
	case "html", "htm":
		var markupPage string
		markupPage, err = export.HTML(doc, result)
		data = []byte(markupPage)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return err
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}
	return nil
}

func loadInput(path string) (*document.Document, error) {
	if path == "" {
		return document.Sample(), nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdx":
		return pdxfile.Load(path)
	case ".md", ".markdown":
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return importer.Markdown(src)
	case ".html", ".htm":
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		defer file.Close()
		return importer.HTMLDocument(file)
	default:
		return nil, fmt.Errorf("unsupported input %s", path)
	}
}
