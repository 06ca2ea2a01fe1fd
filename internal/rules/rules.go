// Package rules holds the analysis rule catalog and the executor that runs
// it over a parsed segment.
package rules

import (
	"fmt"
	"log/slog"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/modlint/internal/diag"
)

// Context is the per-segment host a rule runs against. Spans reported by
// rules are segment-relative; the context rebases them to file-absolute
// offsets so multi-segment fixes share one coordinate space.
type Context struct {
	Path    string
	Section int
	Offset  uint32
	Source  []byte
	Root    *tree_sitter.Node

	rule     string
	severity diag.Severity
	diags    []diag.Diagnostic
}

// Report records a finding at the given segment-relative byte range.
func (c *Context) Report(node *tree_sitter.Node, message string) {
	c.report(node, message, nil)
}

// ReportFix records a fixable finding. The fix span is segment-relative.
func (c *Context) ReportFix(node *tree_sitter.Node, message string, fix diag.Fix) {
	fix.Span.Start += c.Offset
	fix.Span.End += c.Offset
	c.report(node, message, &fix)
}

func (c *Context) report(node *tree_sitter.Node, message string, fix *diag.Fix) {
	c.diags = append(c.diags, diag.Diagnostic{
		Path:     c.Path,
		Section:  c.Section,
		Rule:     c.rule,
		Severity: c.severity,
		Message:  message,
		Span: diag.Span{
			Start: uint32(node.StartByte()) + c.Offset,
			End:   uint32(node.EndByte()) + c.Offset,
		},
		Fix: fix,
	})
}

// Rule is one entry in the catalog.
type Rule interface {
	Name() string
	// DefaultSeverity is used unless configuration overrides it.
	DefaultSeverity() diag.Severity
	Run(ctx *Context)
}

// Executor runs a rule set over segments. Each rule is isolated: a panic in
// one rule surfaces as a diagnostic for that rule and file only.
type Executor struct {
	rules      []Rule
	severities map[string]diag.Severity
}

// NewExecutor builds an executor for the given rules. severities overrides
// per-rule default severities; a nil map keeps the defaults.
func NewExecutor(rules []Rule, severities map[string]diag.Severity) *Executor {
	return &Executor{rules: rules, severities: severities}
}

// Analyze runs every rule against one segment and returns the findings.
func (e *Executor) Analyze(path string, section int, offset uint32, source []byte, root *tree_sitter.Node) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, rule := range e.rules {
		severity := rule.DefaultSeverity()
		if s, ok := e.severities[rule.Name()]; ok {
			severity = s
		}
		ctx := &Context{
			Path:     path,
			Section:  section,
			Offset:   offset,
			Source:   source,
			Root:     root,
			rule:     rule.Name(),
			severity: severity,
		}
		if d := runIsolated(rule, ctx); d != nil {
			out = append(out, *d)
			continue
		}
		out = append(out, ctx.diags...)
	}
	return out
}

// runIsolated executes one rule, converting a panic into a diagnostic so a
// faulty rule cannot suppress findings from the rest of the catalog.
func runIsolated(rule Rule, ctx *Context) (panicked *diag.Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("rule.panic", "rule", rule.Name(), "path", ctx.Path, "err", r)
			panicked = &diag.Diagnostic{
				Path:     ctx.Path,
				Section:  ctx.Section,
				Rule:     "rule-panic",
				Severity: diag.SeverityError,
				Message:  fmt.Sprintf("rule %s panicked: %v", rule.Name(), r),
			}
		}
	}()
	rule.Run(ctx)
	return nil
}

// Catalog returns the built-in rules.
func Catalog() []Rule {
	return []Rule{
		NoDebugger{},
		NoConsole{},
		NoEmpty{},
		NoVar{},
		BlockNoEmpty{},
	}
}

// ForNames filters the catalog to the named rules. Unknown names are
// reported so a config typo does not silently disable a rule.
func ForNames(names []string) ([]Rule, error) {
	byName := make(map[string]Rule)
	for _, r := range Catalog() {
		byName[r.Name()] = r
	}
	out := make([]Rule, 0, len(names))
	for _, name := range names {
		r, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown rule: %s", name)
		}
		out = append(out, r)
	}
	return out, nil
}
