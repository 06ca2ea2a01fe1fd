package rules

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/modlint/internal/diag"
	"github.com/DeusData/modlint/internal/parser"
)

// NoConsole flags calls through the console global.
type NoConsole struct{}

func (NoConsole) Name() string                   { return "no-console" }
func (NoConsole) DefaultSeverity() diag.Severity { return diag.SeverityWarning }

func (NoConsole) Run(ctx *Context) {
	parser.Walk(ctx.Root, func(node *tree_sitter.Node) bool {
		if node.Kind() != "call_expression" {
			return true
		}
		callee := node.ChildByFieldName("function")
		if callee == nil || callee.Kind() != "member_expression" {
			return true
		}
		object := callee.ChildByFieldName("object")
		if object == nil || object.Kind() != "identifier" {
			return true
		}
		if parser.NodeText(object, ctx.Source) == "console" {
			ctx.Report(node, "unexpected console call")
		}
		return true
	})
}
