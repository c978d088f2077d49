// Package fonts is the font-data provider: it hands raw font bytes to the
// export backends for measurement and embedding. The Go fonts cover the
// Latin faces out of the box; right-to-left script fonts (e.g. Noto Sans
// Arabic) are registered at startup from an asset directory or injected
// bytes.
package fonts

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Well-known face names.
const (
	Regular    = "go-regular"
	Bold       = "go-bold"
	Italic     = "go-italic"
	BoldItalic = "go-bolditalic"
	Mono       = "go-mono"
	// RTL is the conventional name for the registered right-to-left face.
	RTL = "rtl"
)

var builtin = map[string][]byte{
	Regular:    goregular.TTF,
	Bold:       gobold.TTF,
	Italic:     goitalic.TTF,
	BoldItalic: gobolditalic.TTF,
	Mono:       gomono.TTF,
}

var (
	mu         sync.RWMutex
	registered = map[string][]byte{}
)

// Register installs raw font bytes under name, overriding any builtin of
// the same name.
func Register(name string, data []byte) {
	mu.Lock()
	defer mu.Unlock()
	registered[name] = data
}

// LoadFile registers the font file at path under name.
func LoadFile(name, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	if len(data) == 0 {
		return fmt.Errorf("font file %s is empty", path)
	}
	Register(name, data)
	return nil
}

// Load returns the raw bytes for a face name.
func Load(name string) ([]byte, error) {
	mu.RLock()
	data, ok := registered[name]
	mu.RUnlock()
	if ok {
		return data, nil
	}
	if data, ok := builtin[name]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("font %q is not registered", name)
}

// Has reports whether a face name resolves to font data.
func Has(name string) bool {
	_, err := Load(name)
	return err == nil
}

// Names lists every available face name, builtins included.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(builtin)+len(registered))
	for name := range builtin {
		names = append(names, name)
	}
	for name := range registered {
		if _, dup := builtin[name]; !dup {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
