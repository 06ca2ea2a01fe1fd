package rules

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/modlint/internal/diag"
	"github.com/DeusData/modlint/internal/parser"
)

// functionBodyKinds are node kinds whose statement_block child is a function
// body; empty function bodies are allowed.
var functionBodyKinds = map[string]bool{
	"function_declaration":           true,
	"function_expression":            true,
	"generator_function":             true,
	"generator_function_declaration": true,
	"arrow_function":                 true,
	"method_definition":              true,
}

// NoEmpty flags empty block statements outside function bodies.
type NoEmpty struct{}

func (NoEmpty) Name() string                   { return "no-empty" }
func (NoEmpty) DefaultSeverity() diag.Severity { return diag.SeverityWarning }

func (NoEmpty) Run(ctx *Context) {
	parser.Walk(ctx.Root, func(node *tree_sitter.Node) bool {
		if node.Kind() != "statement_block" || node.NamedChildCount() > 0 {
			return true
		}
		if parent := node.Parent(); parent != nil && functionBodyKinds[parent.Kind()] {
			return true
		}
		ctx.Report(node, "empty block statement")
		return true
	})
}
