package runtime

import (
	"fmt"
	"os"
	"sync"
)

// FileSystem is the collaborator through which the runtime reads sources and
// writes fixed files. Implementations must be safe for concurrent use.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
}

// OSFileSystem reads and writes the real file system.
type OSFileSystem struct{}

func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (OSFileSystem) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

// MemFS is an in-memory FileSystem. It counts reads and records writes so
// tests can assert at-most-once processing and one-write-per-file fixing.
type MemFS struct {
	mu     sync.Mutex
	files  map[string][]byte
	reads  map[string]int
	writes map[string]int
}

// NewMemFS builds an in-memory file system from a path to content map.
func NewMemFS(files map[string]string) *MemFS {
	fs := &MemFS{
		files:  make(map[string][]byte, len(files)),
		reads:  make(map[string]int),
		writes: make(map[string]int),
	}
	for path, content := range files {
		fs.files[path] = []byte(content)
	}
	return fs
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads[path]++
	data, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("open %s: no such file", path)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemFS) WriteFile(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes[path]++
	out := make([]byte, len(data))
	copy(out, data)
	m.files[path] = out
	return nil
}

// Exists reports whether a path is present, for use as a resolver probe.
func (m *MemFS) Exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok
}

// Content returns the current bytes of a path.
func (m *MemFS) Content(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	return data, ok
}

// Reads returns how many times a path has been read.
func (m *MemFS) Reads(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads[path]
}

// Writes returns how many times a path has been written.
func (m *MemFS) Writes(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes[path]
}
