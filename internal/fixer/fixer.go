// Package fixer merges candidate fixes for a file and applies them to its
// source text. Fixes from all of a file's segments are merged into one edit
// pass so the runtime performs exactly one write per fixed file.
package fixer

import (
	"bytes"
	"sort"

	"github.com/DeusData/modlint/internal/diag"
)

// Collect extracts the fixes carried by a file's diagnostics.
func Collect(diags []diag.Diagnostic) []diag.Fix {
	var fixes []diag.Fix
	for _, d := range diags {
		if d.Fix != nil {
			fixes = append(fixes, *d.Fix)
		}
	}
	return fixes
}

// Apply splices fixes into source and reports whether anything changed.
// Fixes are applied in span order; a fix overlapping an already-applied one
// is skipped (it will apply on a later run, as its offsets are stale now).
// Spans outside the source are ignored.
func Apply(source []byte, fixes []diag.Fix) ([]byte, bool) {
	if len(fixes) == 0 {
		return source, false
	}

	sorted := make([]diag.Fix, len(fixes))
	copy(sorted, fixes)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Span.Start != sorted[j].Span.Start {
			return sorted[i].Span.Start < sorted[j].Span.Start
		}
		return sorted[i].Span.End < sorted[j].Span.End
	})

	var out bytes.Buffer
	out.Grow(len(source))
	cursor := uint32(0)
	applied := false
	for _, fix := range sorted {
		if fix.Span.Start < cursor || fix.Span.End < fix.Span.Start || int(fix.Span.End) > len(source) {
			continue
		}
		out.Write(source[cursor:fix.Span.Start])
		out.WriteString(fix.Replacement)
		cursor = fix.Span.End
		applied = true
	}
	out.Write(source[cursor:])

	if !applied {
		return source, false
	}
	return out.Bytes(), true
}
