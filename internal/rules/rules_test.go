package rules

import (
	"strings"
	"testing"

	"github.com/DeusData/modlint/internal/diag"
	"github.com/DeusData/modlint/internal/lang"
	"github.com/DeusData/modlint/internal/parser"
)

func analyze(t *testing.T, source string, rs []Rule) []diag.Diagnostic {
	t.Helper()
	tree, err := parser.Parse(lang.JavaScript, []byte(source))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()
	exec := NewExecutor(rs, nil)
	return exec.Analyze("/test.js", 0, 0, []byte(source), tree.RootNode())
}

func TestNoDebugger(t *testing.T) {
	source := "function f() {\n  debugger;\n}\n"
	diags := analyze(t, source, []Rule{NoDebugger{}})
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	d := diags[0]
	if d.Rule != "no-debugger" || d.Severity != diag.SeverityError {
		t.Errorf("diagnostic: %+v", d)
	}
	if d.Fix == nil {
		t.Fatal("no-debugger should be fixable")
	}
	if got := source[d.Fix.Span.Start:d.Fix.Span.End]; got != "debugger;" {
		t.Errorf("fix span covers %q", got)
	}
	if d.Fix.Replacement != "" {
		t.Errorf("fix should delete, got %q", d.Fix.Replacement)
	}
}

func TestNoConsole(t *testing.T) {
	diags := analyze(t, "console.log(1);\nconsole.error(2);\nfoo.log(3);\n", []Rule{NoConsole{}})
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d: %v", len(diags), diags)
	}
}

func TestNoEmpty(t *testing.T) {
	source := "if (x) {}\nfunction f() {}\nwhile (y) {}\n"
	diags := analyze(t, source, []Rule{NoEmpty{}})
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics (function body exempt), got %d: %v", len(diags), diags)
	}
}

func TestNoVar(t *testing.T) {
	source := "var x = 1;\nlet y = 2;\n"
	diags := analyze(t, source, []Rule{NoVar{}})
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	fix := diags[0].Fix
	if fix == nil {
		t.Fatal("no-var should be fixable")
	}
	if got := source[fix.Span.Start:fix.Span.End]; got != "var" {
		t.Errorf("fix span covers %q", got)
	}
	if fix.Replacement != "let" {
		t.Errorf("replacement: got %q", fix.Replacement)
	}
}

func TestBlockNoEmpty(t *testing.T) {
	source := "a { color: red; }\nb {}\n"
	tree, err := parser.Parse(lang.CSS, []byte(source))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()

	exec := NewExecutor([]Rule{BlockNoEmpty{}}, nil)
	diags := exec.Analyze("/t.css", 0, 0, []byte(source), tree.RootNode())
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", len(diags), diags)
	}
	if got := source[diags[0].Span.Start:diags[0].Span.End]; got != "b {}" {
		t.Errorf("span covers %q", got)
	}
}

func TestSectionOffsetRebasing(t *testing.T) {
	source := "debugger;\n"
	tree, err := parser.Parse(lang.JavaScript, []byte(source))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()

	const offset = 100
	exec := NewExecutor([]Rule{NoDebugger{}}, nil)
	diags := exec.Analyze("/comp.vue", 1, offset, []byte(source), tree.RootNode())
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	if diags[0].Span.Start != offset {
		t.Errorf("span not rebased: %+v", diags[0].Span)
	}
	if diags[0].Fix.Span.Start != offset {
		t.Errorf("fix span not rebased: %+v", diags[0].Fix.Span)
	}
	if diags[0].Section != 1 {
		t.Errorf("section: got %d", diags[0].Section)
	}
}

func TestSeverityOverride(t *testing.T) {
	tree, err := parser.Parse(lang.JavaScript, []byte("var x = 1;"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()

	exec := NewExecutor([]Rule{NoVar{}}, map[string]diag.Severity{"no-var": diag.SeverityError})
	diags := exec.Analyze("/t.js", 0, 0, []byte("var x = 1;"), tree.RootNode())
	if len(diags) != 1 || diags[0].Severity != diag.SeverityError {
		t.Errorf("severity override not applied: %v", diags)
	}
}

type panicRule struct{}

func (panicRule) Name() string                   { return "panic-rule" }
func (panicRule) DefaultSeverity() diag.Severity { return diag.SeverityError }
func (panicRule) Run(*Context)                   { panic("boom") }

func TestRulePanicIsolation(t *testing.T) {
	diags := analyze(t, "debugger;\n", []Rule{panicRule{}, NoDebugger{}})
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d: %v", len(diags), diags)
	}

	var sawPanic, sawDebugger bool
	for _, d := range diags {
		switch d.Rule {
		case "rule-panic":
			sawPanic = true
			if !strings.Contains(d.Message, "panic-rule") {
				t.Errorf("panic message: %q", d.Message)
			}
		case "no-debugger":
			sawDebugger = true
		}
	}
	if !sawPanic {
		t.Error("missing rule-panic diagnostic")
	}
	if !sawDebugger {
		t.Error("panicking rule suppressed other rules")
	}
}

func TestForNames(t *testing.T) {
	rs, err := ForNames([]string{"no-debugger", "no-var"})
	if err != nil {
		t.Fatalf("ForNames: %v", err)
	}
	if len(rs) != 2 {
		t.Errorf("got %d rules", len(rs))
	}
	if _, err := ForNames([]string{"no-such-rule"}); err == nil {
		t.Error("expected error for unknown rule")
	}
}
