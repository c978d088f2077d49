package document

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"sync"
)

// Dims are the decoded pixel dimensions of an image resource.
type Dims struct {
	Width  int
	Height int
}

// Decoder resolves an image path to its pixel dimensions.
type Decoder func(path string) (Dims, error)

// Resources is a write-once cache from image path to decoded dimensions.
// Each key is decoded at most once: the first caller claims the key by
// installing a reservation entry and populates it, later callers wait on the
// reservation instead of decoding again. Entries are never authoritative for
// document identity.
type Resources struct {
	mu      sync.Mutex
	entries map[string]*resourceEntry
	decode  Decoder
}

type resourceEntry struct {
	ready chan struct{} // closed once dims/err are final
	dims  Dims
	err   error
}

// NewResources builds a cache around decode; nil selects the default decoder
// based on image.DecodeConfig (gif/jpeg/png registered).
func NewResources(decode Decoder) *Resources {
	if decode == nil {
		decode = decodeConfig
	}
	return &Resources{entries: map[string]*resourceEntry{}, decode: decode}
}

// Resolve returns the dimensions for path, decoding on first use. Concurrent
// calls for the same path converge on a single decode.
func (r *Resources) Resolve(path string) (Dims, error) {
	r.mu.Lock()
	entry, ok := r.entries[path]
	if !ok {
		entry = &resourceEntry{ready: make(chan struct{})}
		r.entries[path] = entry
		r.mu.Unlock()

		entry.dims, entry.err = r.decode(path)
		if entry.err != nil {
			slog.Warn("image resource unresolved", "path", path, "err", entry.err)
		}
		close(entry.ready)
		return entry.dims, entry.err
	}
	r.mu.Unlock()

	<-entry.ready
	return entry.dims, entry.err
}

// Lookup reports the cached dimensions for path without triggering a decode.
// In-flight loads are not visible.
func (r *Resources) Lookup(path string) (Dims, bool) {
	r.mu.Lock()
	entry, ok := r.entries[path]
	r.mu.Unlock()
	if !ok {
		return Dims{}, false
	}
	select {
	case <-entry.ready:
	default:
		return Dims{}, false
	}
	if entry.err != nil {
		return Dims{}, false
	}
	return entry.dims, true
}

func decodeConfig(path string) (Dims, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dims{}, fmt.Errorf("open image %s: %w", path, err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return Dims{}, fmt.Errorf("decode image %s: %w", path, err)
	}
	return Dims{Width: cfg.Width, Height: cfg.Height}, nil
}
