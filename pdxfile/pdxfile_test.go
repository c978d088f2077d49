package pdxfile

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/Tera3Bit/pdx-text-editor/document"
	"github.com/Tera3Bit/pdx-text-editor/markup"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	doc := document.Sample()
	data, err := Encode(doc)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.Metadata.Title != doc.Metadata.Title {
		t.Fatalf("title changed: %q vs %q", got.Metadata.Title, doc.Metadata.Title)
	}
	if !reflect.DeepEqual(got.Metadata.Keywords, doc.Metadata.Keywords) {
		t.Fatalf("keywords changed: %v vs %v", got.Metadata.Keywords, doc.Metadata.Keywords)
	}
	if markup.Serialize(got.Content) != markup.Serialize(doc.Content) {
		t.Fatal("content did not survive the round trip")
	}
	if got.Styles.Resolve("arabic").Direction != document.DirRTL {
		t.Fatal("styles did not survive the round trip")
	}
}

func TestDecodeRejectsBadInput(t *testing.T) {
	if _, err := Decode([]byte("not json")); err == nil {
		t.Fatal("expected error for malformed json")
	}
	if _, err := Decode([]byte(`{"meta":{},"content":""}`)); err == nil {
		t.Fatal("expected error for missing version")
	}
	if err := func() error { _, err := Encode(nil); return err }(); err == nil {
		t.Fatal("expected error for nil document")
	}
}

func TestSaveLoad(t *testing.T) {
	doc := document.New()
	doc.Metadata.Title = "Notes"
	doc.Content = markup.Parse("# Notes\n\nBody text.")
	before := doc.Metadata.Modified

	path := filepath.Join(t.TempDir(), "notes.pdx")
	if err := Save(doc, path); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if doc.Metadata.Modified.Before(before) {
		t.Fatal("save should stamp the modification time")
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Metadata.Title != "Notes" {
		t.Fatalf("unexpected title %q", got.Metadata.Title)
	}
	if serialized := markup.Serialize(got.Content); !strings.Contains(serialized, "# Notes") {
		t.Fatalf("content lost: %q", serialized)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.pdx")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
