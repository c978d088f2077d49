// Package markup converts between the plain-text markup notation and the
// document node tree. Parse and Serialize are mutually inverse up to
// whitespace normalization, and Parse is total: malformed input degrades to
// paragraphs instead of failing.
package markup

import (
	"strings"

	"github.com/Tera3Bit/pdx-text-editor/document"
	"github.com/Tera3Bit/pdx-text-editor/textdir"
)

// Parse reads markup text into a node tree. It never fails; any line that
// matches no construct becomes paragraph content. Rules are tried in a fixed
// order (heading, list, fence, image, divider, page break, paragraph) so a
// line matching several prefixes always resolves the same way.
func Parse(text string) *document.Sequence {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	seq := &document.Sequence{}
	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		switch {
		case line == "":
			i++

		case headingLevel(line) > 0:
			level := headingLevel(line)
			body := strings.TrimSpace(line[level:])
			h := &document.Heading{Level: level}
			if body != "" {
				h.Runs = []document.TextRun{newRun(body)}
			}
			seq.Children = append(seq.Children, h)
			i++

		case isBullet(line), isOrdered(line):
			ordered := isOrdered(line)
			list := &document.List{Ordered: ordered}
			for i < len(lines) {
				item := strings.TrimSpace(lines[i])
				// A change of marker style terminates the current list.
				if ordered && !isOrdered(item) || !ordered && !isBullet(item) {
					break
				}
				list.Items = append(list.Items, []document.TextRun{newRun(itemText(item, ordered))})
				i++
			}
			seq.Children = append(seq.Children, list)

		case strings.HasPrefix(line, "```"):
			lang := strings.TrimSpace(strings.TrimLeft(line, "`"))
			var body []string
			i++
			for i < len(lines) && !strings.HasPrefix(strings.TrimSpace(lines[i]), "```") {
				body = append(body, lines[i])
				i++
			}
			if i < len(lines) {
				i++ // closing fence; end of input closes implicitly
			}
			seq.Children = append(seq.Children, &document.CodeBlock{
				Language: lang,
				Text:     strings.Join(body, "\n"),
			})

		case strings.HasPrefix(line, "!["):
			if img, ok := parseImage(line); ok {
				seq.Children = append(seq.Children, img)
				i++
				break
			}
			i = parseParagraph(seq, lines, i)

		case isRuleOf(line, '-'):
			seq.Children = append(seq.Children, &document.Divider{})
			i++

		case isRuleOf(line, '='):
			seq.Children = append(seq.Children, &document.PageBreak{})
			i++

		default:
			i = parseParagraph(seq, lines, i)
		}
	}
	return seq
}

// parseParagraph merges consecutive plain lines into one paragraph, one run
// per line; runs are separated by a soft line break on serialization.
func parseParagraph(seq *document.Sequence, lines []string, i int) int {
	var runs []document.TextRun
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if line == "" || isConstructLine(line) {
			break
		}
		runs = append(runs, newRun(line))
		i++
	}
	if len(runs) > 0 {
		seq.Children = append(seq.Children, &document.Paragraph{Runs: runs})
	} else {
		i++ // cannot happen for well-formed callers; guard against stalls
	}
	return i
}

// isConstructLine reports whether a line starts a non-paragraph construct,
// which ends the paragraph currently being merged.
func isConstructLine(line string) bool {
	if headingLevel(line) > 0 || isBullet(line) || isOrdered(line) {
		return true
	}
	if strings.HasPrefix(line, "```") {
		return true
	}
	if _, ok := parseImage(line); ok {
		return true
	}
	return isRuleOf(line, '-') || isRuleOf(line, '=')
}

func newRun(text string) document.TextRun {
	dir := textdir.ResolveAuto(text)
	lang := "en"
	if dir == document.DirRTL {
		lang = "ar"
	}
	return document.TextRun{Text: text, Direction: dir, Lang: lang}
}

// headingLevel returns the heading level (1-6) for a hash-prefixed line, or
// 0 when the line is not a heading. Seven or more hashes, or a missing
// space after them, degrade to paragraph content.
func headingLevel(line string) int {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n < 1 || n > 6 {
		return 0
	}
	if n < len(line) && line[n] != ' ' && line[n] != '\t' {
		return 0
	}
	return n
}

func isBullet(line string) bool {
	if strings.HasPrefix(line, "- ") {
		return true
	}
	return strings.HasPrefix(line, "• ") || strings.HasPrefix(line, "•\t")
}

func isOrdered(line string) bool {
	n := 0
	for n < len(line) && line[n] >= '0' && line[n] <= '9' {
		n++
	}
	if n == 0 || n+1 >= len(line) {
		return false
	}
	return line[n] == '.' && line[n+1] == ' '
}

func itemText(line string, ordered bool) string {
	if ordered {
		if dot := strings.IndexByte(line, '.'); dot >= 0 {
			return strings.TrimSpace(line[dot+1:])
		}
		return line
	}
	line = strings.TrimPrefix(line, "-")
	line = strings.TrimPrefix(line, "•")
	return strings.TrimSpace(line)
}

// parseImage matches `![alt](path)` exactly on its own line. A missing
// closing parenthesis, trailing garbage or an empty path fail the match and
// the line falls back to paragraph content.
func parseImage(line string) (*document.Image, bool) {
	if !strings.HasPrefix(line, "![") || !strings.HasSuffix(line, ")") {
		return nil, false
	}
	sep := strings.Index(line, "](")
	if sep < 0 {
		return nil, false
	}
	alt := line[2:sep]
	path := line[sep+2 : len(line)-1]
	if path == "" || strings.ContainsAny(path, "()") {
		return nil, false
	}
	return &document.Image{Path: path, AltText: alt}, true
}

// isRuleOf reports a line made of three or more repetitions of ch and
// nothing else.
func isRuleOf(line string, ch byte) bool {
	if len(line) < 3 {
		return false
	}
	for i := 0; i < len(line); i++ {
		if line[i] != ch {
			return false
		}
	}
	return true
}
