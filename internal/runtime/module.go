package runtime

import (
	"github.com/DeusData/modlint/internal/arena"
	"github.com/DeusData/modlint/internal/diag"
	"github.com/DeusData/modlint/internal/loader"
)

// ModuleRequest is one import/export/require specifier found in a segment,
// before resolution.
type ModuleRequest struct {
	Specifier string
	Span      diag.Span // file-absolute
}

// ResolvedModuleRequest pairs a specifier with its resolution outcome. The
// coordinator consumes it once to decide whether the target needs scheduling.
type ResolvedModuleRequest struct {
	ModuleRequest

	// Path is the resolved target, empty when resolution failed.
	Path string
	Err  error
}

// ModuleRecord is the graph-level residue of one source segment: its resolved
// requests and, once the batch closure is complete, direct edges to the
// records of its dependencies. Owned by the coordinator after emission;
// workers never touch it again.
type ModuleRecord struct {
	Path     string
	Section  int
	Requests []ResolvedModuleRequest

	// LoadedModules is filled by the coordinator after closure, mapping each
	// successfully resolved specifier to the target's first record.
	LoadedModules map[string]*ModuleRecord
}

// SectionResult is the per-segment outcome of processing: a record, parse or
// I/O diagnostics, or both (a segment can produce edges and findings).
type SectionResult struct {
	Record *ModuleRecord
	Diags  []diag.Diagnostic
}

// ModuleContent is the retained payload of an entry file: the arena-backed
// source bytes and parsed segments needed for analysis and fixing. Dependency
// files carry no content.
type ModuleContent struct {
	Source   []byte
	Segments []loader.Segment

	guard *arena.Guard
}

// ProcessedModule is the unit a worker returns for one path.
type ProcessedModule struct {
	Path    string
	Records []SectionResult

	// Content is non-nil iff the path is an entry (or dependency content
	// retention was requested) and processing reached the parse stage.
	Content *ModuleContent

	// ContentHash is set when the result cache is active.
	ContentHash uint64
	// CacheHit marks a module whose diagnostics were served from the cache;
	// it carries no records and no content.
	CacheHit bool
}

// Release closes the content's parse trees and returns its arena. Safe to
// call on content-free modules and more than once.
func (pm *ProcessedModule) Release() {
	if pm.Content == nil {
		return
	}
	for i := range pm.Content.Segments {
		pm.Content.Segments[i].Close()
	}
	if pm.Content.guard != nil {
		pm.Content.guard.Release()
		pm.Content.guard = nil
	}
	pm.Content = nil
}
