package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/Tera3Bit/pdx-text-editor/document"
	"github.com/Tera3Bit/pdx-text-editor/textdir"
)

const (
	blockSpacing      = 4.0 // vertical space around images, dividers, code
	listIndent        = 6.0 // marker gutter on the leading edge
	placeholderWidth  = 40.0
	placeholderHeight = 30.0
	pxToMm            = 25.4 / 96.0
)

// Build maps a document tree onto positioned draw primitives in a single
// top-to-bottom pass. It never mutates the document; running it twice with
// identical inputs produces identical primitives.
func Build(doc *document.Document, opts Options) (*Result, error) {
	if doc == nil || doc.Content == nil {
		return nil, fmt.Errorf("layout: document is empty")
	}
	if opts.Typesetter == nil {
		return nil, fmt.Errorf("layout: missing Typesetter backend")
	}
	if opts.Zoom <= 0 {
		opts.Zoom = 1.0
	}
	if opts.PageWidth <= 0 {
		opts.PageWidth = DefaultPageWidth
	}
	if opts.PageHeight <= 0 {
		opts.PageHeight = DefaultPageHeight
	}
	if opts.Margin == (Margin{}) {
		opts.Margin = Margin{Top: DefaultMargin, Right: DefaultMargin, Bottom: DefaultMargin, Left: DefaultMargin}
	}

	f := &flow{
		opts:      opts,
		styles:    doc.Styles,
		resources: doc.Resources,
		collector: newPageCollector(opts.PageWidth, opts.PageHeight, opts.Margin),
	}
	f.cursorY = f.contentTop()

	if err := f.layoutNode(doc.Content); err != nil {
		return nil, err
	}

	return &Result{
		Pages: f.collector.finish(f.cursorY, opts.Paginate),
		Meta:  doc.Metadata,
		Zoom:  opts.Zoom,
	}, nil
}

// flow carries the vertical cursor of the single layout pass.
type flow struct {
	opts      Options
	styles    document.StyleSheet
	resources *document.Resources
	collector *pageCollector
	cursorY   float64
}

func (f *flow) contentTop() float64    { return f.opts.Margin.Top }
func (f *flow) contentBottom() float64 { return f.opts.PageHeight - f.opts.Margin.Bottom }
func (f *flow) contentWidth() float64 {
	return f.opts.PageWidth - f.opts.Margin.Left - f.opts.Margin.Right
}

func (f *flow) pageBreak() {
	f.collector.newPage()
	f.cursorY = f.contentTop()
}

// ensureSpace opens a new page when the next block of the given height
// cannot fit below the cursor. Blocks taller than a whole page stay and
// overflow; text blocks avoid that by splitting lines instead.
func (f *flow) ensureSpace(height float64) {
	if !f.opts.Paginate {
		return
	}
	if f.cursorY+height > f.contentBottom() && f.collector.currHasContent() {
		f.pageBreak()
	}
}

func (f *flow) append(p Primitive) {
	page := f.collector.curr()
	page.Items = append(page.Items, p)
}

func (f *flow) layoutNode(node document.Node) error {
	switch n := node.(type) {
	case *document.Sequence:
		for _, child := range n.Children {
			if err := f.layoutNode(child); err != nil {
				return err
			}
		}
		return nil

	case *document.Heading:
		level := n.Level
		if level < 1 {
			level = 1
		} else if level > 6 {
			level = 6
		}
		style := f.styles.Resolve(fmt.Sprintf("heading%d", level))
		return f.flowText(textSpec{
			tag:   fmt.Sprintf("h%d", level),
			runs:  n.Runs,
			style: style,
			bold:  true,
		})

	case *document.Paragraph:
		key := "paragraph"
		if textdir.BaseDirection(n.Runs) == document.DirRTL {
			key = "arabic"
		}
		return f.flowText(textSpec{tag: "p", runs: n.Runs, style: f.styles.Resolve(key)})

	case *document.List:
		style := f.styles.Resolve("list")
		for i, item := range n.Items {
			marker := "•"
			if n.Ordered {
				marker = fmt.Sprintf("%d.", i+1)
			}
			spec := textSpec{
				tag:     "li",
				runs:    item,
				style:   style,
				indent:  listIndent,
				marker:  marker,
				ordered: n.Ordered,
			}
			// Item margins collapse; only the last item keeps the list's
			// bottom margin.
			if i < len(n.Items)-1 {
				spec.style.Margin.Bottom = 0
			}
			if i > 0 {
				spec.style.Margin.Top = 0
			}
			if err := f.flowText(spec); err != nil {
				return err
			}
		}
		return nil

	case *document.CodeBlock:
		return f.flowText(textSpec{
			tag:      "pre",
			runs:     []document.TextRun{{Text: n.Text, Direction: document.DirLTR}},
			style:    f.styles.Resolve("code"),
			mono:     true,
			language: n.Language,
			verbatim: true,
		})

	case *document.Image:
		f.layoutImage(n)
		return nil

	case *document.Divider:
		zoom := f.opts.Zoom
		f.ensureSpace(2 * blockSpacing * zoom)
		f.cursorY += blockSpacing * zoom
		f.append(&Rule{X: f.opts.Margin.Left, Y: f.cursorY, Width: f.contentWidth()})
		f.cursorY += blockSpacing * zoom
		return nil

	case *document.PageBreak:
		if f.opts.Paginate {
			f.pageBreak()
			return nil
		}
		f.cursorY += blockSpacing * f.opts.Zoom
		f.append(&Break{Y: f.cursorY})
		f.cursorY += blockSpacing * f.opts.Zoom
		return nil

	default:
		return fmt.Errorf("layout: unhandled node kind %T", node)
	}
}

// textSpec gathers everything flowText needs to place one text block.
type textSpec struct {
	tag      string
	runs     []document.TextRun
	style    document.Style
	indent   float64
	marker   string
	ordered  bool
	bold     bool
	mono     bool
	language string
	verbatim bool // keep explicit newlines (code blocks)
}

// flowText wraps the runs with the typesetter and emits one or more
// TextBlocks, splitting the wrapped lines across pages when paginating.
func (f *flow) flowText(spec textSpec) error {
	zoom := f.opts.Zoom
	base := textdir.BaseDirection(spec.runs)
	visual := textdir.VisualOrder(spec.runs)

	sep := " "
	if spec.verbatim {
		sep = "\n"
	}
	texts := make([]string, 0, len(visual))
	for _, run := range visual {
		texts = append(texts, run.Text)
	}
	content := strings.Join(texts, sep)

	fontPt := Length{Value: spec.style.FontSize * zoom, Unit: UnitPT}
	fontMM := fontPt.ToMM()
	lineMM := LineHeightSpec{Kind: LineHeightFactor, Factor: spec.style.LineHeight}.Resolve(fontPt, UnitMM)

	indent := spec.indent * zoom
	width := f.contentWidth() - indent
	x := f.opts.Margin.Left
	if base != document.DirRTL {
		x += indent
	}

	font := FontSpec{
		Bold: spec.bold || spec.style.Bold,
		Mono: spec.mono,
		RTL:  base == document.DirRTL,
	}
	lines, err := f.opts.Typesetter.LayoutLines(content, width, font, fontMM, lineMM)
	if err != nil {
		return fmt.Errorf("layout: typeset %s block: %w", spec.tag, err)
	}

	f.cursorY += spec.style.Margin.Top * zoom

	marker := spec.marker
	start := 0
	for start < len(lines) {
		avail := math.Inf(1)
		if f.opts.Paginate {
			avail = f.contentBottom() - f.cursorY
		}
		fit, height := fitLines(lines[start:], avail, start > 0)
		if fit == 0 {
			if !f.collector.currHasContent() {
				// A single line taller than the page still has to land
				// somewhere.
				fit, height = 1, lines[start].Height
			} else {
				f.pageBreak()
				continue
			}
		}
		chunk := append([]TextLine(nil), lines[start:start+fit]...)
		if start > 0 {
			chunk[0].GapBefore = 0
		}
		f.append(&TextBlock{
			Tag:      spec.tag,
			Runs:     spec.runs,
			Lines:    chunk,
			X:        x,
			Y:        f.cursorY,
			Width:    width,
			Height:   height,
			FontSize: fontMM,
			LineGap:  lineMM,
			Color:    spec.style.Color,
			Align:    spec.style.Align,
			RTL:      base == document.DirRTL,
			Bold:     font.Bold,
			Mono:     spec.mono,
			Marker:   marker,
			Ordered:  spec.ordered,
			Language: spec.language,
		})
		marker = "" // continuation blocks carry no list marker
		f.cursorY += height
		start += fit
		if start < len(lines) {
			f.pageBreak()
		}
	}

	f.cursorY += spec.style.Margin.Bottom * zoom
	return nil
}

// fitLines counts how many leading lines fit into avail and their summed
// height. Continuation chunks ignore the first line's leading gap.
func fitLines(lines []TextLine, avail float64, continuation bool) (int, float64) {
	fit := 0
	height := 0.0
	for i, ln := range lines {
		advance := ln.Height + ln.GapBefore
		if i == 0 && continuation {
			advance = ln.Height
		}
		if fit > 0 && height+advance > avail {
			break
		}
		if fit == 0 && advance > avail {
			break
		}
		height += advance
		fit++
	}
	return fit, height
}

// layoutImage reserves a box for the image: explicit node dimensions win,
// then the decoded intrinsic size (aspect preserved, clamped to the content
// width), then a fixed placeholder so later resolution cannot shift earlier
// siblings.
func (f *flow) layoutImage(n *document.Image) {
	zoom := f.opts.Zoom
	w, h, placeholder := f.imageBox(n)

	f.ensureSpace(h + 2*blockSpacing*zoom)
	f.cursorY += blockSpacing * zoom
	f.append(&ImageBlock{
		Path:        n.Path,
		Alt:         n.AltText,
		X:           f.opts.Margin.Left,
		Y:           f.cursorY,
		Width:       w,
		Height:      h,
		Placeholder: placeholder,
	})
	f.cursorY += h + blockSpacing*zoom
}

func (f *flow) imageBox(n *document.Image) (w, h float64, placeholder bool) {
	zoom := f.opts.Zoom
	maxW := f.contentWidth()

	switch {
	case n.Width != nil && n.Height != nil:
		w, h = *n.Width*zoom, *n.Height*zoom
	case n.Width != nil:
		w = *n.Width * zoom
		dims, _ := f.lookupDims(n.Path)
		h = w * aspectOf(dims, 0.75)
	case n.Height != nil:
		h = *n.Height * zoom
		dims, _ := f.lookupDims(n.Path)
		w = h / aspectOf(dims, 0.75)
	default:
		dims, ok := f.lookupDims(n.Path)
		if !ok {
			return placeholderWidth * zoom, placeholderHeight * zoom, true
		}
		w = float64(dims.Width) * pxToMm * zoom
		h = float64(dims.Height) * pxToMm * zoom
	}

	if w > maxW {
		scale := maxW / w
		w *= scale
		h *= scale
	}
	return w, h, false
}

func (f *flow) lookupDims(path string) (document.Dims, bool) {
	if f.resources == nil {
		return document.Dims{}, false
	}
	return f.resources.Lookup(path)
}

func aspectOf(dims document.Dims, fallback float64) float64 {
	if dims.Width <= 0 || dims.Height <= 0 {
		return fallback
	}
	return float64(dims.Height) / float64(dims.Width)
}

// pageCollector accumulates pages during the pass.
type pageCollector struct {
	width  float64
	height float64
	margin Margin
	list   []*Page
}

func newPageCollector(width, height float64, margin Margin) *pageCollector {
	pc := &pageCollector{width: width, height: height, margin: margin}
	pc.newPage()
	return pc
}

func (pc *pageCollector) newPage() *Page {
	page := &Page{Width: pc.width, Height: pc.height, Margin: pc.margin}
	pc.list = append(pc.list, page)
	return page
}

func (pc *pageCollector) curr() *Page { return pc.list[len(pc.list)-1] }

func (pc *pageCollector) currHasContent() bool { return len(pc.curr().Items) > 0 }

// finish materializes the page slice. In single-page mode the page grows to
// the content height so nothing is clipped.
func (pc *pageCollector) finish(cursorY float64, paginate bool) []Page {
	if !paginate && len(pc.list) == 1 {
		if want := cursorY + pc.margin.Bottom; want > pc.list[0].Height {
			pc.list[0].Height = want
		}
	}
	pages := make([]Page, 0, len(pc.list))
	for _, p := range pc.list {
		pages = append(pages, *p)
	}
	return pages
}
