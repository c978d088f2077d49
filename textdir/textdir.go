// Package textdir resolves reading directions and visual run ordering for
// mixed Arabic/Latin text. Resolution is pure and deterministic so layout,
// the on-screen surface and every export backend can share the results
// without recomputation drift.
package textdir

import (
	"unicode"

	"golang.org/x/text/unicode/bidi"

	"github.com/Tera3Bit/pdx-text-editor/document"
)

// ResolveAuto classifies the direction of a text span: RTL when it contains
// no Latin-script characters and at least one strongly right-to-left
// character, LTR otherwise. The result is stored on the run at parse time
// and never recomputed unless the text changes.
func ResolveAuto(text string) document.Direction {
	hasRTL := false
	for _, r := range text {
		if unicode.Is(unicode.Latin, r) {
			return document.DirLTR
		}
		if isRTLRune(r) {
			hasRTL = true
		}
	}
	if hasRTL {
		return document.DirRTL
	}
	return document.DirLTR
}

// Resolve returns dir itself unless it is DirAuto, in which case the
// direction is inferred from text.
func Resolve(dir document.Direction, text string) document.Direction {
	if dir != document.DirAuto {
		return dir
	}
	return ResolveAuto(text)
}

// BaseDirection is the paragraph base direction: the direction of the first
// run containing a strongly-directional character. Paragraphs without any
// strong character read left-to-right.
func BaseDirection(runs []document.TextRun) document.Direction {
	for _, run := range runs {
		if !hasStrong(run.Text) {
			continue
		}
		return Resolve(run.Direction, run.Text)
	}
	return document.DirLTR
}

// VisualOrder reorders logical runs into the left-to-right sequence in which
// they are drawn. Runs of the direction opposite to the paragraph base are
// reversed in presentation order relative to their logical order; each run
// keeps its own internal character order.
func VisualOrder(runs []document.TextRun) []document.TextRun {
	if len(runs) < 2 {
		return append([]document.TextRun(nil), runs...)
	}
	base := BaseDirection(runs)

	out := make([]document.TextRun, len(runs))
	copy(out, runs)
	if base == document.DirRTL {
		// The whole paragraph reads right to left; flip to visual order,
		// then restore internal order of embedded LTR groups.
		reverse(out)
		reverseGroups(out, document.DirLTR)
		return out
	}
	reverseGroups(out, document.DirRTL)
	return out
}

// reverseGroups reverses every maximal group of consecutive runs whose
// resolved direction is dir.
func reverseGroups(runs []document.TextRun, dir document.Direction) {
	start := -1
	for i := 0; i <= len(runs); i++ {
		in := i < len(runs) && Resolve(runs[i].Direction, runs[i].Text) == dir
		switch {
		case in && start < 0:
			start = i
		case !in && start >= 0:
			reverse(runs[start:i])
			start = -1
		}
	}
}

func reverse(runs []document.TextRun) {
	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
}

func hasStrong(text string) bool {
	for _, r := range text {
		switch class(r) {
		case bidi.L, bidi.R, bidi.AL:
			return true
		}
	}
	return false
}

func isRTLRune(r rune) bool {
	switch class(r) {
	case bidi.R, bidi.AL:
		return true
	}
	return false
}

func class(r rune) bidi.Class {
	props, _ := bidi.LookupRune(r)
	return props.Class()
}
