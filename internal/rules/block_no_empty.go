package rules

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/modlint/internal/diag"
	"github.com/DeusData/modlint/internal/parser"
)

// BlockNoEmpty flags style rules with an empty declaration block. Only fires
// on stylesheet trees; other grammars have no rule_set nodes.
type BlockNoEmpty struct{}

func (BlockNoEmpty) Name() string                   { return "block-no-empty" }
func (BlockNoEmpty) DefaultSeverity() diag.Severity { return diag.SeverityWarning }

func (BlockNoEmpty) Run(ctx *Context) {
	parser.Walk(ctx.Root, func(node *tree_sitter.Node) bool {
		if node.Kind() != "rule_set" {
			return true
		}
		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			if child == nil || child.Kind() != "block" {
				continue
			}
			if child.NamedChildCount() == 0 {
				ctx.Report(node, "empty style block")
			}
		}
		return false
	})
}
