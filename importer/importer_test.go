package importer

import (
	"strings"
	"testing"

	"github.com/Tera3Bit/pdx-text-editor/document"
)

const mdFixture = `# Getting Started

First paragraph with
a soft break.

- one
- two

1. ordered

` + "```go\nfmt.Println()\n```" + `

![diagram](img/d.png)

---
`

func TestMarkdown(t *testing.T) {
	doc, err := Markdown([]byte(mdFixture))
	if err != nil {
		t.Fatalf("markdown import failed: %v", err)
	}
	children := doc.Content.Children
	if len(children) != 7 {
		t.Fatalf("expected 7 blocks, got %d: %#v", len(children), children)
	}

	h := children[0].(*document.Heading)
	if h.Level != 1 || h.Runs[0].Text != "Getting Started" {
		t.Fatalf("unexpected heading %+v", h)
	}
	if doc.Metadata.Title != "Getting Started" {
		t.Fatalf("title should come from the first heading, got %q", doc.Metadata.Title)
	}

	p := children[1].(*document.Paragraph)
	if len(p.Runs) != 2 {
		t.Fatalf("soft break should split runs, got %+v", p.Runs)
	}

	ul := children[2].(*document.List)
	if ul.Ordered || len(ul.Items) != 2 {
		t.Fatalf("unexpected unordered list %+v", ul)
	}
	ol := children[3].(*document.List)
	if !ol.Ordered || len(ol.Items) != 1 {
		t.Fatalf("unexpected ordered list %+v", ol)
	}

	code := children[4].(*document.CodeBlock)
	if code.Language != "go" || code.Text != "fmt.Println()" {
		t.Fatalf("unexpected code block %+v", code)
	}

	img := children[5].(*document.Image)
	if img.Path != "img/d.png" || img.AltText != "diagram" {
		t.Fatalf("unexpected image %+v", img)
	}
	if _, ok := children[6].(*document.Divider); !ok {
		t.Fatalf("expected trailing divider, got %#v", children[6])
	}
}

func TestMarkdownMultiLineCodeBlock(t *testing.T) {
	src := "```sh\nfirst line\nsecond line\nthird line\n```\n"
	doc, err := Markdown([]byte(src))
	if err != nil {
		t.Fatalf("markdown import failed: %v", err)
	}
	code := doc.Content.Children[0].(*document.CodeBlock)
	if code.Language != "sh" {
		t.Fatalf("unexpected language %q", code.Language)
	}
	if code.Text != "first line\nsecond line\nthird line" {
		t.Fatalf("code lines lost or reordered: %q", code.Text)
	}
}

func TestMarkdownThematicBreak(t *testing.T) {
	doc, err := Markdown([]byte("before\n\n---\n\nafter\n"))
	if err != nil {
		t.Fatalf("markdown import failed: %v", err)
	}
	if len(doc.Content.Children) != 3 {
		t.Fatalf("expected 3 blocks, got %#v", doc.Content.Children)
	}
	if _, ok := doc.Content.Children[1].(*document.Divider); !ok {
		t.Fatalf("expected divider, got %#v", doc.Content.Children[1])
	}
}

func TestMarkdownArabicDirection(t *testing.T) {
	doc, err := Markdown([]byte("مرحبا بالعالم\n"))
	if err != nil {
		t.Fatalf("markdown import failed: %v", err)
	}
	p := doc.Content.Children[0].(*document.Paragraph)
	if p.Runs[0].Direction != document.DirRTL || p.Runs[0].Lang != "ar" {
		t.Fatalf("expected rtl/ar run, got %+v", p.Runs[0])
	}
}

const htmlFixture = `<!DOCTYPE html>
<html><head><title>Imported Page</title>
<script>ignore()</script></head>
<body>
<h1>Top</h1>
<p>Some <b>text</b> here.</p>
<ul><li>alpha</li><li>beta</li></ul>
<pre>keep
  spacing</pre>
<p><img src="pic.png" alt="pic"></p>
<hr>
</body></html>`

func TestHTMLDocument(t *testing.T) {
	doc, err := HTMLDocument(strings.NewReader(htmlFixture))
	if err != nil {
		t.Fatalf("html import failed: %v", err)
	}
	if doc.Metadata.Title != "Imported Page" {
		t.Fatalf("title not taken from <title>, got %q", doc.Metadata.Title)
	}

	children := doc.Content.Children
	if len(children) != 6 {
		t.Fatalf("expected 6 blocks, got %d: %#v", len(children), children)
	}
	h := children[0].(*document.Heading)
	if h.Level != 1 || h.Runs[0].Text != "Top" {
		t.Fatalf("unexpected heading %+v", h)
	}
	p := children[1].(*document.Paragraph)
	if p.Runs[0].Text != "Some text here." {
		t.Fatalf("inline markup should flatten, got %q", p.Runs[0].Text)
	}
	list := children[2].(*document.List)
	if list.Ordered || len(list.Items) != 2 {
		t.Fatalf("unexpected list %+v", list)
	}
	code := children[3].(*document.CodeBlock)
	if !strings.Contains(code.Text, "  spacing") {
		t.Fatalf("pre whitespace lost: %q", code.Text)
	}
	img := children[4].(*document.Image)
	if img.Path != "pic.png" || img.AltText != "pic" {
		t.Fatalf("unexpected image %+v", img)
	}
	if _, ok := children[5].(*document.Divider); !ok {
		t.Fatalf("expected divider, got %#v", children[5])
	}
}

func TestHTMLDocumentSkipsChrome(t *testing.T) {
	src := `<body><nav><p>menu</p></nav><p>real</p><footer><p>fine print</p></footer></body>`
	doc, err := HTMLDocument(strings.NewReader(src))
	if err != nil {
		t.Fatalf("html import failed: %v", err)
	}
	if len(doc.Content.Children) != 1 {
		t.Fatalf("nav/footer content should be skipped, got %#v", doc.Content.Children)
	}
	p := doc.Content.Children[0].(*document.Paragraph)
	if p.Runs[0].Text != "real" {
		t.Fatalf("unexpected paragraph %+v", p)
	}
}
