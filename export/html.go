package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/Tera3Bit/pdx-text-editor/document"
	"github.com/Tera3Bit/pdx-text-editor/layout"
)

// HTML renders a layout result as one self-contained document string with
// inline styling. Text blocks carry a dir attribute derived from the
// resolved base direction; the text itself stays in logical order so the
// viewer's own bidi handling applies. Callers should pass a non-paginated
// result, since a block split across pages would repeat its text.
func HTML(doc *document.Document, res *layout.Result) (string, error) {
	if res == nil || len(res.Pages) == 0 {
		return "", ErrNoPages
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html dir=\"auto\">\n<head>\n")
	b.WriteString("<meta charset=\"UTF-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(doc.Metadata.Title))
	if doc.Metadata.Author != "" {
		fmt.Fprintf(&b, "<meta name=\"author\" content=\"%s\">\n", html.EscapeString(doc.Metadata.Author))
	}
	b.WriteString(baseCSS)
	b.WriteString("</head>\n<body>\n")

	for pi := range res.Pages {
		page := &res.Pages[pi]
		items := page.Items
		for i := 0; i < len(items); {
			switch item := items[i].(type) {
			case *layout.TextBlock:
				if item.Tag == "li" {
					i = writeList(&b, items, i)
					continue
				}
				writeTextBlock(&b, item)
				i++
			case *layout.ImageBlock:
				fmt.Fprintf(&b, "<img src=\"%s\" alt=\"%s\" />\n",
					html.EscapeString(item.Path), html.EscapeString(item.Alt))
				i++
			case *layout.Rule:
				b.WriteString("<hr/>\n")
				i++
			case *layout.Break:
				b.WriteString("<hr class=\"pagebreak\"/>\n")
				i++
			default:
				i++
			}
		}
		// Height-triggered page boundaries from the paginated layout are
		// meaningless in a scrolling document; only explicit breaks render.
	}

	b.WriteString("</body>\n</html>")
	return b.String(), nil
}

// writeList consumes the run of consecutive list-item blocks starting at i
// and wraps them in ul/ol.
func writeList(b *strings.Builder, items []layout.Primitive, i int) int {
	first := items[i].(*layout.TextBlock)
	tag := "ul"
	if first.Ordered {
		tag = "ol"
	}
	fmt.Fprintf(b, "<%s>\n", tag)
	for i < len(items) {
		item, ok := items[i].(*layout.TextBlock)
		if !ok || item.Tag != "li" || item.Ordered != first.Ordered {
			break
		}
		fmt.Fprintf(b, "<li class=%q>%s</li>\n", dirClass(item.RTL), blockText(item))
		i++
	}
	fmt.Fprintf(b, "</%s>\n", tag)
	return i
}

func writeTextBlock(b *strings.Builder, item *layout.TextBlock) {
	switch item.Tag {
	case "pre":
		lang := item.Language
		if lang == "" {
			lang = "text"
		}
		fmt.Fprintf(b, "<pre><code class=\"language-%s\">%s</code></pre>\n",
			html.EscapeString(lang), html.EscapeString(codeText(item)))
	default:
		dir := "ltr"
		if item.RTL {
			dir = "rtl"
		}
		fmt.Fprintf(b, "<%s class=%q dir=%q%s>%s</%s>\n",
			item.Tag, dirClass(item.RTL), dir, styleAttr(item), blockText(item), item.Tag)
	}
}

// blockText joins the logical runs, wrapping emphasized spans.
func blockText(item *layout.TextBlock) string {
	parts := make([]string, 0, len(item.Runs))
	for _, run := range item.Runs {
		text := html.EscapeString(run.Text)
		if run.Bold {
			text = "<strong>" + text + "</strong>"
		}
		if run.Italic {
			text = "<em>" + text + "</em>"
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}

func codeText(item *layout.TextBlock) string {
	parts := make([]string, 0, len(item.Runs))
	for _, run := range item.Runs {
		parts = append(parts, run.Text)
	}
	return strings.Join(parts, "\n")
}

func dirClass(rtl bool) string {
	if rtl {
		return "rtl"
	}
	return "ltr"
}

func styleAttr(item *layout.TextBlock) string {
	var rules []string
	if item.FontSize > 0 {
		rules = append(rules, fmt.Sprintf("font-size:%.1fpt", item.FontSize*layout.MmToPt))
	}
	if item.Color != (document.Color{}) {
		rules = append(rules, fmt.Sprintf("color:rgb(%d,%d,%d)", item.Color.R, item.Color.G, item.Color.B))
	}
	if item.Align != "" {
		rules = append(rules, "text-align:"+item.Align)
	}
	if len(rules) == 0 {
		return ""
	}
	return fmt.Sprintf(" style=\"%s\"", html.EscapeString(strings.Join(rules, ";")))
}

const baseCSS = `<style>
body {
    font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif, 'Noto Sans Arabic';
    max-width: 800px;
    margin: 40px auto;
    padding: 20px;
    line-height: 1.8;
}
.rtl { direction: rtl; text-align: right; }
.ltr { direction: ltr; text-align: left; }
code { background: #f4f4f4; padding: 2px 6px; border-radius: 3px; }
pre { background: #f4f4f4; padding: 15px; border-radius: 5px; overflow-x: auto; }
hr { margin: 20px 0; border: none; border-top: 1px solid #ddd; }
hr.pagebreak { border-top: 3px double #ddd; }
img { max-width: 100%; height: auto; margin: 10px 0; }
</style>
`
