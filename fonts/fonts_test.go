package fonts

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadBuiltins(t *testing.T) {
	for _, name := range []string{Regular, Bold, Italic, BoldItalic, Mono} {
		data, err := Load(name)
		if err != nil {
			t.Fatalf("builtin %s missing: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("builtin %s is empty", name)
		}
	}
}

func TestRegisterOverridesAndHas(t *testing.T) {
	name := "test-face"
	if Has(name) {
		t.Fatalf("%s should not exist before registration", name)
	}
	Register(name, []byte{0, 1, 0, 0})
	t.Cleanup(func() {
		mu.Lock()
		delete(registered, name)
		mu.Unlock()
	})

	if !Has(name) {
		t.Fatalf("%s should resolve after registration", name)
	}
	data, err := Load(name)
	if err != nil || len(data) != 4 {
		t.Fatalf("unexpected load result %v %v", data, err)
	}

	found := false
	for _, n := range Names() {
		if n == name {
			found = true
		}
	}
	if !found {
		t.Fatalf("Names() missing %s: %v", name, Names())
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "face.ttf")
	if err := os.WriteFile(path, []byte("ttf-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := LoadFile("file-face", path); err != nil {
		t.Fatalf("load file failed: %v", err)
	}
	t.Cleanup(func() {
		mu.Lock()
		delete(registered, "file-face")
		mu.Unlock()
	})
	if !Has("file-face") {
		t.Fatal("registered file face not found")
	}

	if err := LoadFile("missing", filepath.Join(t.TempDir(), "absent.ttf")); err == nil {
		t.Fatal("expected error for missing font file")
	}
}
