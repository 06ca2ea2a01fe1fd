package loader

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/modlint/internal/lang"
	"github.com/DeusData/modlint/internal/parser"
)

// splitComposite splits a .vue-style single-file component into segments.
// The outer document is scanned with the HTML grammar; script and style
// blocks expose their content as raw_text nodes, the template block is kept
// as an HTML segment spanning its inner content.
func splitComposite(source []byte) ([]Segment, error) {
	doc, err := parser.Parse(lang.HTML, source)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	var segments []Segment
	root := doc.RootNode()
	for i := uint(0); i < root.NamedChildCount(); i++ {
		child := root.NamedChild(i)
		if child == nil {
			continue
		}
		var seg Segment
		var ok bool
		switch child.Kind() {
		case "script_element":
			seg, ok, err = rawTextSegment(child, source, scriptLanguage(child, source))
		case "style_element":
			seg, ok, err = rawTextSegment(child, source, lang.CSS)
		case "element":
			if tagName(child, source) != "template" {
				continue
			}
			seg, ok, err = innerSegment(child, source, lang.HTML)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		if ok {
			segments = append(segments, seg)
		}
	}
	return segments, nil
}

// rawTextSegment extracts the raw_text child of a script/style element and
// parses it with the given grammar. Empty blocks produce no segment.
func rawTextSegment(element *tree_sitter.Node, source []byte, l lang.Language) (Segment, bool, error) {
	for i := uint(0); i < element.NamedChildCount(); i++ {
		child := element.NamedChild(i)
		if child == nil || child.Kind() != "raw_text" {
			continue
		}
		start, end := child.StartByte(), child.EndByte()
		if start >= end {
			return Segment{}, false, nil
		}
		seg, err := parseSegment(l, source[start:end], uint32(start))
		if err != nil {
			return Segment{}, false, err
		}
		return seg, true, nil
	}
	return Segment{}, false, nil
}

// innerSegment spans the element's content between its start and end tags.
func innerSegment(element *tree_sitter.Node, source []byte, l lang.Language) (Segment, bool, error) {
	var start, end uint
	for i := uint(0); i < element.NamedChildCount(); i++ {
		child := element.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "start_tag":
			start = child.EndByte()
		case "end_tag":
			end = child.StartByte()
		}
	}
	if start == 0 || end <= start {
		return Segment{}, false, nil
	}
	seg, err := parseSegment(l, source[start:end], uint32(start))
	if err != nil {
		return Segment{}, false, err
	}
	return seg, true, nil
}

// scriptLanguage inspects the script start tag's lang attribute.
// `lang="ts"` selects TypeScript; anything else is JavaScript.
func scriptLanguage(element *tree_sitter.Node, source []byte) lang.Language {
	tag := firstChildOfKind(element, "start_tag")
	if tag == nil {
		return lang.JavaScript
	}
	for i := uint(0); i < tag.NamedChildCount(); i++ {
		attr := tag.NamedChild(i)
		if attr == nil || attr.Kind() != "attribute" {
			continue
		}
		name := firstChildOfKind(attr, "attribute_name")
		if name == nil || parser.NodeText(name, source) != "lang" {
			continue
		}
		value := strings.Trim(attrValue(attr, source), `"'`)
		if value == "ts" || value == "tsx" {
			return lang.TypeScript
		}
	}
	return lang.JavaScript
}

func attrValue(attr *tree_sitter.Node, source []byte) string {
	for i := uint(0); i < attr.NamedChildCount(); i++ {
		child := attr.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "attribute_value":
			return parser.NodeText(child, source)
		case "quoted_attribute_value":
			return parser.NodeText(child, source)
		}
	}
	return ""
}

func firstChildOfKind(node *tree_sitter.Node, kind string) *tree_sitter.Node {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

func tagName(element *tree_sitter.Node, source []byte) string {
	tag := firstChildOfKind(element, "start_tag")
	if tag == nil {
		return ""
	}
	name := firstChildOfKind(tag, "tag_name")
	if name == nil {
		return ""
	}
	return parser.NodeText(name, source)
}
