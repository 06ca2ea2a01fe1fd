// Package resolver maps import specifiers to file paths.
package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Resolver resolves a specifier against the importing file's directory.
// Implementations must be safe for concurrent use: every worker resolves
// through the same instance.
type Resolver interface {
	Resolve(baseDir, specifier string) (string, error)
}

// ResolutionError reports a specifier that could not be mapped to a file.
// It is recorded as a per-edge diagnostic, never a fatal error.
type ResolutionError struct {
	Specifier string
	BaseDir   string
	Reason    string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve %q from %s: %s", e.Specifier, e.BaseDir, e.Reason)
}

// defaultExtensions is the probe order for extension-less specifiers.
var defaultExtensions = []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts", ".vue"}

// Relative resolves relative specifiers ("./x", "../y") with extension and
// index-file probing. Bare specifiers (package imports) are out of scope and
// fail with a ResolutionError. Results are memoized in a bounded LRU since
// the same (dir, specifier) pair recurs across a run.
type Relative struct {
	// Exists probes a candidate path. Defaults to an os.Stat check;
	// tests substitute an in-memory file set.
	exists     func(path string) bool
	extensions []string
	cache      *lru.Cache[string, cacheEntry]
}

type cacheEntry struct {
	path string
	err  *ResolutionError
}

const cacheSize = 4096

// Option configures a Relative resolver.
type Option func(*Relative)

// WithExists substitutes the file-existence probe.
func WithExists(exists func(path string) bool) Option {
	return func(r *Relative) { r.exists = exists }
}

// WithExtensions overrides the probe extension order.
func WithExtensions(exts []string) Option {
	return func(r *Relative) { r.extensions = exts }
}

// NewRelative creates the default resolver.
func NewRelative(opts ...Option) *Relative {
	cache, err := lru.New[string, cacheEntry](cacheSize)
	if err != nil {
		panic(fmt.Sprintf("resolver cache: %v", err)) // only fails on size <= 0
	}
	r := &Relative{
		exists: func(path string) bool {
			info, statErr := os.Stat(path)
			return statErr == nil && !info.IsDir()
		},
		extensions: defaultExtensions,
		cache:      cache,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve implements Resolver.
func (r *Relative) Resolve(baseDir, specifier string) (string, error) {
	key := baseDir + "\x00" + specifier
	if entry, ok := r.cache.Get(key); ok {
		if entry.err != nil {
			return "", entry.err
		}
		return entry.path, nil
	}

	path, resErr := r.resolve(baseDir, specifier)
	r.cache.Add(key, cacheEntry{path: path, err: resErr})
	if resErr != nil {
		return "", resErr
	}
	return path, nil
}

func (r *Relative) resolve(baseDir, specifier string) (string, *ResolutionError) {
	if !strings.HasPrefix(specifier, "./") && !strings.HasPrefix(specifier, "../") {
		return "", &ResolutionError{Specifier: specifier, BaseDir: baseDir, Reason: "bare specifiers are not resolved"}
	}

	base := filepath.Join(baseDir, filepath.FromSlash(specifier))

	if r.exists(base) {
		return base, nil
	}
	for _, ext := range r.extensions {
		if candidate := base + ext; r.exists(candidate) {
			return candidate, nil
		}
	}
	for _, ext := range r.extensions {
		if candidate := filepath.Join(base, "index"+ext); r.exists(candidate) {
			return candidate, nil
		}
	}
	return "", &ResolutionError{Specifier: specifier, BaseDir: baseDir, Reason: "no matching file"}
}
