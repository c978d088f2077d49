// Package pdxfile reads and writes the .pdx document container: a JSON
// envelope carrying metadata, the stylesheet, and the document content in
// markup form.
package pdxfile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Tera3Bit/pdx-text-editor/document"
	"github.com/Tera3Bit/pdx-text-editor/markup"
)

// FormatVersion is written into every container produced by Encode.
const FormatVersion = "1.0"

// File is the on-disk shape of a .pdx container. Content is markup text,
// not a serialized node tree, so containers stay diffable and editable by
// hand.
type File struct {
	Version string               `json:"version"`
	Meta    document.Metadata    `json:"meta"`
	Styles  *document.StyleSheet `json:"styles,omitempty"`
	Content string               `json:"content"`
}

// Encode packs a document into container bytes. The node tree is
// serialized to markup before wrapping.
func Encode(doc *document.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("encode: nil document")
	}
	styles := doc.Styles
	f := File{
		Version: FormatVersion,
		Meta:    doc.Metadata,
		Styles:  &styles,
		Content: markup.Serialize(doc.Content),
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode container: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode unpacks container bytes into a document. The markup content is
// parsed back into a node tree; parsing is total, so a syntactically odd
// container still yields a document.
func Decode(data []byte) (*document.Document, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode container: %w", err)
	}
	if f.Version == "" {
		return nil, fmt.Errorf("decode container: missing version")
	}
	doc := document.New()
	doc.Version = f.Version
	doc.Metadata = f.Meta
	if f.Styles != nil {
		doc.Styles = *f.Styles
	}
	doc.Content = markup.Parse(f.Content)
	return doc, nil
}

// Load reads and decodes a container file.
func Load(path string) (*document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return doc, nil
}

// Save encodes and writes a container file, stamping the modification
// time.
func Save(doc *document.Document, path string) error {
	if doc != nil {
		doc.Touch()
	}
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
