// Package importer converts external formats into document trees. Markdown
// goes through goldmark, HTML through golang.org/x/net/html; both map onto
// the same node set the native markup produces, so imported documents
// round-trip through the editor like any other.
package importer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"

	"github.com/Tera3Bit/pdx-text-editor/document"
	"github.com/Tera3Bit/pdx-text-editor/textdir"
)

// Markdown parses CommonMark source into a document. Constructs without a
// native counterpart (tables, block quotes) degrade to paragraphs.
func Markdown(src []byte) (*document.Document, error) {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	doc := document.New()
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		node, err := convertMarkdownBlock(n, src)
		if err != nil {
			return nil, err
		}
		if node != nil {
			doc.Content.Children = append(doc.Content.Children, node)
		}
	}
	if title := firstHeadingText(doc.Content); title != "" {
		doc.Metadata.Title = title
	}
	return doc, nil
}

func convertMarkdownBlock(n ast.Node, src []byte) (document.Node, error) {
	switch block := n.(type) {
	case *ast.Heading:
		level := block.Level
		if level > 6 {
			level = 6
		}
		return &document.Heading{Level: level, Runs: runsFromText(string(block.Text(src)))}, nil
	case *ast.Paragraph:
		if img := soleImage(block, src); img != nil {
			return &document.Image{
				Path:    string(img.Destination),
				AltText: string(img.Text(src)),
			}, nil
		}
		return &document.Paragraph{Runs: runsFromText(inlineText(block, src))}, nil
	case *ast.List:
		list := &document.List{Ordered: block.IsOrdered()}
		for item := block.FirstChild(); item != nil; item = item.NextSibling() {
			list.Items = append(list.Items, runsFromText(inlineText(item, src)))
		}
		return list, nil
	case *ast.FencedCodeBlock:
		return &document.CodeBlock{
			Language: string(block.Language(src)),
			Text:     blockLines(block, src),
		}, nil
	case *ast.CodeBlock:
		return &document.CodeBlock{Text: blockLines(block, src)}, nil
	case *ast.ThematicBreak:
		return &document.Divider{}, nil
	case *ast.Blockquote:
		return &document.Paragraph{Runs: runsFromText(inlineText(block, src))}, nil
	case *ast.HTMLBlock:
		return nil, nil
	default:
		t := inlineText(n, src)
		if t == "" {
			return nil, nil
		}
		return &document.Paragraph{Runs: runsFromText(t)}, nil
	}
}

// soleImage reports the paragraph's only meaningful inline child when it is
// an image, which is how standalone markdown images appear in the AST.
func soleImage(p *ast.Paragraph, src []byte) *ast.Image {
	var img *ast.Image
	for c := p.FirstChild(); c != nil; c = c.NextSibling() {
		switch inline := c.(type) {
		case *ast.Image:
			if img != nil {
				return nil
			}
			img = inline
		case *ast.Text:
			if len(strings.TrimSpace(string(inline.Value(src)))) > 0 {
				return nil
			}
		default:
			return nil
		}
	}
	return img
}

// inlineText flattens the inline content of a block node, keeping soft
// breaks as newlines.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				buf.Write(t.Value(src))
				if t.HardLineBreak() || t.SoftLineBreak() {
					buf.WriteByte('\n')
				}
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}

func blockLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return strings.TrimRight(buf.String(), "\n")
}

// HTMLDocument parses an HTML page into a document. Only content elements
// are mapped; script, style, and chrome elements are skipped.
func HTMLDocument(r io.Reader) (*document.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := document.New()
	pageTitle := findElementText(root, "title")

	body := findElement(root, "body")
	if body == nil {
		body = root
	}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if node := convertHTMLElement(n); node != nil {
				doc.Content.Children = append(doc.Content.Children, node)
				return
			}
			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(body)

	if pageTitle == "" {
		pageTitle = firstHeadingText(doc.Content)
	}
	if pageTitle != "" {
		doc.Metadata.Title = pageTitle
	}
	return doc, nil
}

func convertHTMLElement(n *html.Node) document.Node {
	if level := headingLevel(n.Data); level > 0 {
		return &document.Heading{Level: level, Runs: runsFromText(elementText(n))}
	}
	switch n.Data {
	case "p", "blockquote":
		if img := findElement(n, "img"); img != nil && elementText(n) == "" {
			return htmlImage(img)
		}
		t := elementText(n)
		if t == "" {
			return nil
		}
		return &document.Paragraph{Runs: runsFromText(t)}
	case "ul", "ol":
		list := &document.List{Ordered: n.Data == "ol"}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == "li" {
				list.Items = append(list.Items, runsFromText(elementText(c)))
			}
		}
		if len(list.Items) == 0 {
			return nil
		}
		return list
	case "pre":
		return &document.CodeBlock{Text: rawText(n)}
	case "img":
		return htmlImage(n)
	case "hr":
		return &document.Divider{}
	}
	return nil
}

func htmlImage(n *html.Node) document.Node {
	var src, alt string
	for _, attr := range n.Attr {
		switch attr.Key {
		case "src":
			src = attr.Val
		case "alt":
			alt = attr.Val
		}
	}
	if src == "" {
		return nil
	}
	return &document.Image{Path: src, AltText: alt}
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func elementText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && n.Data == "img" {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

// rawText keeps whitespace verbatim, for pre blocks.
func rawText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Trim(buf.String(), "\n")
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func findElementText(n *html.Node, tag string) string {
	if el := findElement(n, tag); el != nil {
		return elementText(el)
	}
	return ""
}

// runsFromText produces one run per line with inferred direction, matching
// how the native markup parser builds paragraphs.
func runsFromText(text string) []document.TextRun {
	var runs []document.TextRun
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		dir := textdir.ResolveAuto(line)
		lang := "en"
		if dir == document.DirRTL {
			lang = "ar"
		}
		runs = append(runs, document.TextRun{Text: line, Direction: dir, Lang: lang})
	}
	if runs == nil {
		runs = []document.TextRun{{Text: "", Direction: document.DirLTR, Lang: "en"}}
	}
	return runs
}

func firstHeadingText(seq *document.Sequence) string {
	if seq == nil {
		return ""
	}
	for _, child := range seq.Children {
		if h, ok := child.(*document.Heading); ok && len(h.Runs) > 0 {
			return h.Runs[0].Text
		}
	}
	return ""
}
