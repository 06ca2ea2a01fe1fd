// Package diag defines the diagnostic model shared by the loader, the rule
// catalog and the runtime, plus the many-producer/single-consumer collector
// that funnels worker diagnostics into one final report.
package diag

import (
	"fmt"
	"sort"
)

// Severity of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Span is a half-open byte range [Start, End) into a file's source text.
// Offsets are file-absolute: for composite files the section offset has
// already been applied.
type Span struct {
	Start uint32
	End   uint32
}

// Fix is a candidate replacement for a span of the file's source text.
type Fix struct {
	Span        Span
	Replacement string
}

// Diagnostic is one finding attached to a path.
type Diagnostic struct {
	Path     string
	Section  int // segment index within the file; 0 for single-segment files
	Rule     string
	Severity Severity
	Message  string
	Span     Span

	// Fix is the candidate auto-fix, nil when the finding is not fixable.
	Fix *Fix
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d %s %s (%s)", d.Path, d.Span.Start, d.Span.End, d.Severity, d.Message, d.Rule)
}

// Sort orders diagnostics by path, then section, then span, then rule.
// Worker completion order is nondeterministic; reports are not.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Section != b.Section {
			return a.Section < b.Section
		}
		if a.Span.Start != b.Span.Start {
			return a.Span.Start < b.Span.Start
		}
		return a.Rule < b.Rule
	})
}

// ExitCode maps a finished run onto the process exit contract:
// 0 clean, 1 diagnostics found. Fatal runtime errors are exit 2 and are
// decided by the caller before a report exists.
func ExitCode(diags []Diagnostic) int {
	if len(diags) == 0 {
		return 0
	}
	return 1
}
