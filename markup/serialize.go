package markup

import (
	"fmt"
	"strings"

	"github.com/Tera3Bit/pdx-text-editor/document"
)

// Serialize writes a node tree back to markup text. The output parses to a
// structurally equal tree for any document built from supported node kinds.
func Serialize(node document.Node) string {
	switch n := node.(type) {
	case *document.Sequence:
		parts := make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			parts = append(parts, Serialize(child))
		}
		return strings.Join(parts, "\n\n")

	case *document.Heading:
		return strings.Repeat("#", n.Level) + " " + runsLine(n.Runs)

	case *document.Paragraph:
		// Soft line breaks: one physical line per run; Parse merges the
		// lines back into a single paragraph.
		lines := make([]string, 0, len(n.Runs))
		for _, run := range n.Runs {
			lines = append(lines, run.Text)
		}
		return strings.Join(lines, "\n")

	case *document.List:
		lines := make([]string, 0, len(n.Items))
		for i, item := range n.Items {
			marker := "- "
			if n.Ordered {
				marker = fmt.Sprintf("%d. ", i+1)
			}
			lines = append(lines, marker+runsLine(item))
		}
		return strings.Join(lines, "\n")

	case *document.CodeBlock:
		return "```" + n.Language + "\n" + n.Text + "\n```"

	case *document.Image:
		return fmt.Sprintf("![%s](%s)", n.AltText, n.Path)

	case *document.Divider:
		return "---"

	case *document.PageBreak:
		return "==="
	}
	return ""
}

func runsLine(runs []document.TextRun) string {
	parts := make([]string, 0, len(runs))
	for _, run := range runs {
		parts = append(parts, run.Text)
	}
	return strings.Join(parts, " ")
}
