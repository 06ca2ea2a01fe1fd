// Package loader turns raw file bytes into parsed source segments.
// Plain files produce one segment; composite files (.vue style) are split
// into script/template/style segments, each parsed with its own grammar and
// carrying its byte offset into the original file.
package loader

import (
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/modlint/internal/lang"
	"github.com/DeusData/modlint/internal/parser"
)

// Segment is one independently-parsed source unit within a file.
type Segment struct {
	Language lang.Language
	Source   []byte
	Offset   uint32 // byte offset of Source within the original file

	// Tree is the parsed structural tree; nil when the segment failed to
	// parse, in which case Errors holds the parse diagnostics.
	Tree   *tree_sitter.Tree
	Errors []parser.SyntaxError
}

// Close releases the segment's parse tree.
func (s *Segment) Close() {
	if s.Tree != nil {
		s.Tree.Close()
		s.Tree = nil
	}
}

// Loader splits file bytes into parsed segments keyed by a language hint.
type Loader interface {
	Load(l lang.Language, source []byte) ([]Segment, error)
}

// Default is the built-in Loader covering every registered language.
type Default struct{}

// Load implements Loader.
func (Default) Load(l lang.Language, source []byte) ([]Segment, error) {
	spec := lang.ForLanguage(l)
	if spec == nil {
		return nil, fmt.Errorf("no language spec for %s", l)
	}
	if spec.Composite {
		return splitComposite(source)
	}
	seg, err := parseSegment(l, source, 0)
	if err != nil {
		return nil, err
	}
	return []Segment{seg}, nil
}

// parseSegment parses one segment and harvests its syntax errors. A segment
// with errors keeps its diagnostics but drops the tree: partially-parsed
// trees are not analyzed and contribute no graph edges.
func parseSegment(l lang.Language, source []byte, offset uint32) (Segment, error) {
	tree, err := parser.Parse(l, source)
	if err != nil {
		return Segment{}, err
	}
	seg := Segment{Language: l, Source: source, Offset: offset, Tree: tree}
	if errs := parser.SyntaxErrors(tree.RootNode()); len(errs) > 0 {
		seg.Errors = errs
		seg.Close()
	}
	return seg, nil
}
