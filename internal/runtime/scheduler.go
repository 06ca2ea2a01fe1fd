package runtime

import (
	"sort"
	"strings"
)

// PathSet is a deduplicated, insertion-ordered collection of file paths.
// Insertion order keeps batch scheduling deterministic; it has no effect on
// the final diagnostics.
type PathSet struct {
	paths  []string
	member map[string]bool
}

// NewPathSet builds a PathSet, dropping duplicates.
func NewPathSet(paths ...string) *PathSet {
	s := &PathSet{member: make(map[string]bool, len(paths))}
	for _, p := range paths {
		s.Add(p)
	}
	return s
}

// Add inserts a path if not already present.
func (s *PathSet) Add(path string) {
	if s.member[path] {
		return
	}
	s.member[path] = true
	s.paths = append(s.paths, path)
}

// Contains reports membership.
func (s *PathSet) Contains(path string) bool {
	return s.member[path]
}

// Len returns the number of distinct paths.
func (s *PathSet) Len() int {
	return len(s.paths)
}

// Paths returns the paths in insertion order.
func (s *PathSet) Paths() []string {
	return s.paths
}

// pathDepth counts directory separators as a proxy for nesting depth.
func pathDepth(path string) int {
	return strings.Count(path, "/") + strings.Count(path, "\\")
}

// Schedule partitions the path set into ordered batches of size
// batchFactor x concurrency. Paths are sorted deepest first, ties broken
// lexically: deeply nested files tend to be dependency leaves, so processing
// them early lets their memory go sooner. The ordering is a memory heuristic
// only; any ordering yields the same diagnostics.
func Schedule(set *PathSet, concurrency, batchFactor int) [][]string {
	if set == nil || set.Len() == 0 {
		return nil
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if batchFactor < 1 {
		batchFactor = 1
	}

	ordered := make([]string, set.Len())
	copy(ordered, set.Paths())
	sort.SliceStable(ordered, func(i, j int) bool {
		di, dj := pathDepth(ordered[i]), pathDepth(ordered[j])
		if di != dj {
			return di > dj
		}
		return ordered[i] < ordered[j]
	})

	size := batchFactor * concurrency
	batches := make([][]string, 0, (len(ordered)+size-1)/size)
	for start := 0; start < len(ordered); start += size {
		end := start + size
		if end > len(ordered) {
			end = len(ordered)
		}
		batches = append(batches, ordered[start:end])
	}
	return batches
}
