package resolver

import (
	"errors"
	"path/filepath"
	"testing"
)

func fakeFS(paths ...string) func(string) bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[filepath.FromSlash(p)] = true
	}
	return func(path string) bool { return set[path] }
}

func TestResolveExact(t *testing.T) {
	r := NewRelative(WithExists(fakeFS("/src/b.js")))
	got, err := r.Resolve("/src", "./b.js")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != filepath.FromSlash("/src/b.js") {
		t.Errorf("got %q", got)
	}
}

func TestResolveExtensionProbe(t *testing.T) {
	r := NewRelative(WithExists(fakeFS("/src/util.ts")))
	got, err := r.Resolve("/src", "./util")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != filepath.FromSlash("/src/util.ts") {
		t.Errorf("got %q", got)
	}
}

func TestResolveIndexFile(t *testing.T) {
	r := NewRelative(WithExists(fakeFS("/src/lib/index.js")))
	got, err := r.Resolve("/src", "./lib")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != filepath.FromSlash("/src/lib/index.js") {
		t.Errorf("got %q", got)
	}
}

func TestResolveParentDir(t *testing.T) {
	r := NewRelative(WithExists(fakeFS("/src/a.js")))
	got, err := r.Resolve("/src/sub", "../a.js")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != filepath.FromSlash("/src/a.js") {
		t.Errorf("got %q", got)
	}
}

func TestResolveMissing(t *testing.T) {
	r := NewRelative(WithExists(fakeFS()))
	_, err := r.Resolve("/src", "./missing.js")
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected ResolutionError, got %v", err)
	}
	if resErr.Specifier != "./missing.js" {
		t.Errorf("specifier: got %q", resErr.Specifier)
	}
}

func TestResolveBareSpecifier(t *testing.T) {
	r := NewRelative(WithExists(fakeFS("/src/node_modules/lodash/index.js")))
	_, err := r.Resolve("/src", "lodash")
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected ResolutionError for bare specifier, got %v", err)
	}
}

func TestResolveCaches(t *testing.T) {
	calls := 0
	probe := fakeFS("/src/b.js")
	r := NewRelative(WithExists(func(path string) bool {
		calls++
		return probe(path)
	}))

	for i := 0; i < 3; i++ {
		if _, err := r.Resolve("/src", "./b.js"); err != nil {
			t.Fatalf("Resolve: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 probe call, got %d", calls)
	}

	// Failures are cached too.
	calls = 0
	for i := 0; i < 3; i++ {
		if _, err := r.Resolve("/src", "./nope"); err == nil {
			t.Fatal("expected resolution failure")
		}
	}
	if calls > len(defaultExtensions)*2+1 {
		t.Errorf("failure not cached: %d probe calls", calls)
	}
}
