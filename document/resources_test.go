package document

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestResolveDecodesOnce(t *testing.T) {
	var calls atomic.Int32
	res := NewResources(func(path string) (Dims, error) {
		calls.Add(1)
		return Dims{Width: 640, Height: 480}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dims, err := res.Resolve("a.png")
			if err != nil {
				t.Errorf("resolve failed: %v", err)
				return
			}
			if dims != (Dims{Width: 640, Height: 480}) {
				t.Errorf("unexpected dims %+v", dims)
			}
		}()
	}
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("decode ran %d times, want 1", got)
	}
}

func TestResolveCachesErrors(t *testing.T) {
	var calls atomic.Int32
	fail := errors.New("no such file")
	res := NewResources(func(path string) (Dims, error) {
		calls.Add(1)
		return Dims{}, fail
	})

	for i := 0; i < 3; i++ {
		if _, err := res.Resolve("gone.png"); !errors.Is(err, fail) {
			t.Fatalf("expected cached error, got %v", err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("failed decode ran %d times, want 1", got)
	}
	if _, ok := res.Lookup("gone.png"); ok {
		t.Fatal("failed entries must not be visible through Lookup")
	}
}

func TestLookupNeverDecodes(t *testing.T) {
	var calls atomic.Int32
	res := NewResources(func(path string) (Dims, error) {
		calls.Add(1)
		return Dims{Width: 10, Height: 10}, nil
	})

	if _, ok := res.Lookup("b.png"); ok {
		t.Fatal("lookup of unknown path should miss")
	}
	if _, err := res.Resolve("b.png"); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	dims, ok := res.Lookup("b.png")
	if !ok || dims.Width != 10 {
		t.Fatalf("lookup after resolve: %+v %v", dims, ok)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("lookup must not decode, calls=%d", got)
	}
}
