package rules

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/modlint/internal/diag"
	"github.com/DeusData/modlint/internal/parser"
)

// NoVar flags var declarations. Fixable: the var keyword becomes let.
type NoVar struct{}

func (NoVar) Name() string                   { return "no-var" }
func (NoVar) DefaultSeverity() diag.Severity { return diag.SeverityWarning }

func (NoVar) Run(ctx *Context) {
	parser.Walk(ctx.Root, func(node *tree_sitter.Node) bool {
		// In the javascript grammar, variable_declaration is specifically
		// the var form; let/const are lexical_declaration.
		if node.Kind() != "variable_declaration" {
			return true
		}
		start := uint32(node.StartByte())
		ctx.ReportFix(node, "unexpected var, use let or const instead", diag.Fix{
			Span:        diag.Span{Start: start, End: start + uint32(len("var"))},
			Replacement: "let",
		})
		return false
	})
}
