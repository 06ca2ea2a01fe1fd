package runtime

import (
	"fmt"
	"path/filepath"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/modlint/internal/arena"
	"github.com/DeusData/modlint/internal/cache"
	"github.com/DeusData/modlint/internal/diag"
	"github.com/DeusData/modlint/internal/lang"
	"github.com/DeusData/modlint/internal/loader"
	"github.com/DeusData/modlint/internal/parser"
	"github.com/DeusData/modlint/internal/resolver"
)

// processor turns one path into a ProcessedModule. It runs inside a borrowed
// arena and has no side effects beyond the returned value: workers never
// touch the graph.
type processor struct {
	fs       FileSystem
	loader   loader.Loader
	resolver resolver.Resolver
	keepDeps bool

	// cacheActive is set only for isolated runs (no resolver, no fix mode).
	cacheActive bool
	cache       *cache.Cache
	cacheTag    uint64
}

// process reads, splits, parses and resolves one file. The guard is either
// attached to the returned content or released before returning.
func (p *processor) process(path string, entry bool, guard *arena.Guard) *ProcessedModule {
	pm := &ProcessedModule{Path: path}

	data, err := p.fs.ReadFile(path)
	if err != nil {
		guard.Release()
		pm.Records = []SectionResult{{Diags: []diag.Diagnostic{{
			Path:     path,
			Rule:     "io",
			Severity: diag.SeverityError,
			Message:  fmt.Sprintf("cannot read file: %v", err),
		}}}}
		return pm
	}

	if p.cacheActive && entry {
		pm.ContentHash = cache.HashContent(data)
		if cached, ok, cacheErr := p.cache.Get(path, pm.ContentHash, p.cacheTag); cacheErr == nil && ok {
			guard.Release()
			pm.CacheHit = true
			pm.Records = []SectionResult{{Diags: cached}}
			return pm
		}
	}

	source := guard.Arena().Bytes(data)

	l, ok := lang.LanguageForExtension(filepath.Ext(path))
	if !ok {
		guard.Release()
		pm.Records = []SectionResult{{Diags: []diag.Diagnostic{{
			Path:     path,
			Rule:     "unsupported-file",
			Severity: diag.SeverityWarning,
			Message:  fmt.Sprintf("no grammar registered for %s", filepath.Ext(path)),
		}}}}
		return pm
	}

	segments, err := p.loader.Load(l, source)
	if err != nil {
		guard.Release()
		pm.Records = []SectionResult{{Diags: []diag.Diagnostic{{
			Path:     path,
			Rule:     "parse",
			Severity: diag.SeverityError,
			Message:  fmt.Sprintf("cannot load file: %v", err),
		}}}}
		return pm
	}

	baseDir := filepath.Dir(path)
	for i := range segments {
		seg := &segments[i]
		result := SectionResult{}

		// A segment that failed to parse contributes diagnostics but no
		// record: partial trees produce no edges and are not analyzed.
		if seg.Tree == nil {
			for _, synErr := range seg.Errors {
				msg := "syntax error"
				if synErr.Missing {
					msg = "syntax error: missing token"
				}
				result.Diags = append(result.Diags, diag.Diagnostic{
					Path:     path,
					Section:  i,
					Rule:     "parse",
					Severity: diag.SeverityError,
					Message:  msg,
					Span: diag.Span{
						Start: uint32(synErr.StartByte) + seg.Offset,
						End:   uint32(synErr.EndByte) + seg.Offset,
					},
				})
			}
			pm.Records = append(pm.Records, result)
			continue
		}

		record := &ModuleRecord{Path: path, Section: i}
		if entry || p.keepDeps || p.resolver != nil {
			for _, req := range extractRequests(seg) {
				resolved := ResolvedModuleRequest{ModuleRequest: req}
				if p.resolver != nil {
					resolved.Path, resolved.Err = p.resolver.Resolve(baseDir, req.Specifier)
				}
				record.Requests = append(record.Requests, resolved)
			}
		}
		result.Record = record
		pm.Records = append(pm.Records, result)
	}

	if entry || p.keepDeps {
		pm.Content = &ModuleContent{Source: source, Segments: segments, guard: guard}
		return pm
	}

	// Pure dependency: the graph keeps its edges, nothing keeps its bytes.
	for i := range segments {
		segments[i].Close()
	}
	guard.Release()
	return pm
}

// extractRequests walks a parsed segment for import/export declarations and
// require() calls, per the segment language's node-kind tables.
func extractRequests(seg *loader.Segment) []ModuleRequest {
	spec := lang.ForLanguage(seg.Language)
	if spec == nil || !spec.HasModules {
		return nil
	}
	importKinds := make(map[string]bool, len(spec.ImportNodeTypes))
	for _, k := range spec.ImportNodeTypes {
		importKinds[k] = true
	}
	callKinds := make(map[string]bool, len(spec.CallNodeTypes))
	for _, k := range spec.CallNodeTypes {
		callKinds[k] = true
	}

	var reqs []ModuleRequest
	parser.Walk(seg.Tree.RootNode(), func(node *tree_sitter.Node) bool {
		kind := node.Kind()
		switch {
		case importKinds[kind]:
			// export statements without a from-clause have no source field.
			if src := node.ChildByFieldName("source"); src != nil {
				reqs = append(reqs, requestFromStringNode(src, seg))
			}
		case callKinds[kind]:
			fn := node.ChildByFieldName("function")
			if fn == nil || fn.Kind() != "identifier" || parser.NodeText(fn, seg.Source) != "require" {
				break
			}
			args := node.ChildByFieldName("arguments")
			if args == nil || args.NamedChildCount() == 0 {
				break
			}
			if arg := args.NamedChild(0); arg.Kind() == "string" {
				reqs = append(reqs, requestFromStringNode(arg, seg))
			}
		}
		return true
	})
	return reqs
}

func requestFromStringNode(node *tree_sitter.Node, seg *loader.Segment) ModuleRequest {
	return ModuleRequest{
		Specifier: trimQuotes(parser.NodeText(node, seg.Source)),
		Span: diag.Span{
			Start: uint32(node.StartByte()) + seg.Offset,
			End:   uint32(node.EndByte()) + seg.Offset,
		},
	}
}

func trimQuotes(s string) string {
	if len(s) >= 2 {
		switch s[0] {
		case '"', '\'', '`':
			if s[len(s)-1] == s[0] {
				return s[1 : len(s)-1]
			}
		}
	}
	return s
}
