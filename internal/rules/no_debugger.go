package rules

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/modlint/internal/diag"
	"github.com/DeusData/modlint/internal/parser"
)

// NoDebugger flags debugger statements. Fixable: the statement is removed.
type NoDebugger struct{}

func (NoDebugger) Name() string                   { return "no-debugger" }
func (NoDebugger) DefaultSeverity() diag.Severity { return diag.SeverityError }

func (NoDebugger) Run(ctx *Context) {
	parser.Walk(ctx.Root, func(node *tree_sitter.Node) bool {
		if node.Kind() != "debugger_statement" {
			return true
		}
		ctx.ReportFix(node, "unexpected debugger statement", diag.Fix{
			Span: diag.Span{Start: uint32(node.StartByte()), End: uint32(node.EndByte())},
		})
		return false
	})
}
