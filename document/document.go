// Package document defines the node tree, metadata, style sheet and image
// resource cache that make up an editable document.
package document

import "time"

// Direction is the reading direction of a text run or style.
type Direction string

const (
	DirLTR  Direction = "ltr"
	DirRTL  Direction = "rtl"
	DirAuto Direction = "auto"
)

// Metadata carries the document-level fields stored in the container file.
type Metadata struct {
	Title    string    `json:"title"`
	Author   string    `json:"author"`
	Language string    `json:"language"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
	Keywords []string  `json:"keywords,omitempty"`
}

// Document is the root aggregate owned by the editing session. Content is
// always a Sequence; Resources is lazily populated and never part of
// document identity.
type Document struct {
	Version   string
	Metadata  Metadata
	Styles    StyleSheet
	Content   *Sequence
	Resources *Resources
}

// New returns an empty document with default metadata and styles.
func New() *Document {
	now := time.Now()
	return &Document{
		Version: "1.0",
		Metadata: Metadata{
			Title:    "Untitled Document",
			Language: "en",
			Created:  now,
			Modified: now,
		},
		Styles:    DefaultStyleSheet(),
		Content:   &Sequence{},
		Resources: NewResources(nil),
	}
}

// Touch updates the modification timestamp.
func (d *Document) Touch() { d.Metadata.Modified = time.Now() }

// Node is one structural unit of document content. The set of
// implementations is closed: consumers type-switch over every variant so a
// new node kind forces an audit of renderer and exporters.
type Node interface {
	node()
}

// Sequence is the only container node; the document root is always a
// Sequence. All other variants are leaves.
type Sequence struct {
	Children []Node
}

// Heading has a level between 1 and 6.
type Heading struct {
	Level int
	Runs  []TextRun
}

type Paragraph struct {
	Runs []TextRun
}

// List holds one run slice per item. Ordered lists render numeric markers,
// unordered lists bullets.
type List struct {
	Ordered bool
	Items   [][]TextRun
}

// CodeBlock keeps its text verbatim; Language may be empty.
type CodeBlock struct {
	Language string
	Text     string
}

// Image references a resource by path. Width/Height are in millimeters and
// optional; unset dimensions are resolved from the decoded resource.
type Image struct {
	Path    string
	AltText string
	Width   *float64
	Height  *float64
}

type Divider struct{}

type PageBreak struct{}

func (*Sequence) node()  {}
func (*Heading) node()   {}
func (*Paragraph) node() {}
func (*List) node()      {}
func (*CodeBlock) node() {}
func (*Image) node()     {}
func (*Divider) node()   {}
func (*PageBreak) node() {}

// TextRun is a maximal span of text sharing one direction, language and
// emphasis setting. Direction is resolved from DirAuto once, at parse time,
// and kept so re-layout never perturbs earlier decisions.
type TextRun struct {
	Text      string
	Direction Direction
	Lang      string
	Bold      bool
	Italic    bool
}
