package fixer

import (
	"testing"

	"github.com/DeusData/modlint/internal/diag"
)

func TestApplySingleFix(t *testing.T) {
	source := []byte("var x = 1;")
	fixed, ok := Apply(source, []diag.Fix{
		{Span: diag.Span{Start: 0, End: 3}, Replacement: "let"},
	})
	if !ok {
		t.Fatal("expected a change")
	}
	if string(fixed) != "let x = 1;" {
		t.Errorf("got %q", fixed)
	}
}

func TestApplyMergesAcrossSegments(t *testing.T) {
	// Two fixes from different segments of one file, applied in one pass.
	source := []byte("var a = 1;\ndebugger;\n")
	fixed, ok := Apply(source, []diag.Fix{
		{Span: diag.Span{Start: 11, End: 20}, Replacement: ""},
		{Span: diag.Span{Start: 0, End: 3}, Replacement: "let"},
	})
	if !ok {
		t.Fatal("expected a change")
	}
	if string(fixed) != "let a = 1;\n\n" {
		t.Errorf("got %q", fixed)
	}
}

func TestApplySkipsOverlapping(t *testing.T) {
	source := []byte("abcdef")
	fixed, ok := Apply(source, []diag.Fix{
		{Span: diag.Span{Start: 0, End: 4}, Replacement: "X"},
		{Span: diag.Span{Start: 2, End: 6}, Replacement: "Y"},
	})
	if !ok {
		t.Fatal("expected a change")
	}
	if string(fixed) != "Xef" {
		t.Errorf("got %q", fixed)
	}
}

func TestApplyOutOfRangeIgnored(t *testing.T) {
	source := []byte("abc")
	fixed, ok := Apply(source, []diag.Fix{
		{Span: diag.Span{Start: 10, End: 20}, Replacement: "X"},
	})
	if ok {
		t.Error("out-of-range fix should not apply")
	}
	if string(fixed) != "abc" {
		t.Errorf("got %q", fixed)
	}
}

func TestApplyNoFixes(t *testing.T) {
	source := []byte("abc")
	if _, ok := Apply(source, nil); ok {
		t.Error("no fixes should report no change")
	}
}

func TestCollect(t *testing.T) {
	diags := []diag.Diagnostic{
		{Rule: "no-var", Fix: &diag.Fix{Span: diag.Span{Start: 0, End: 3}, Replacement: "let"}},
		{Rule: "no-console"},
		{Rule: "no-debugger", Fix: &diag.Fix{Span: diag.Span{Start: 5, End: 14}}},
	}
	fixes := Collect(diags)
	if len(fixes) != 2 {
		t.Errorf("got %d fixes, want 2", len(fixes))
	}
}
