package projectgraph

import (
	"strings"

	"github.com/arnavsurve/polyglint/adapter"
	"github.com/arnavsurve/polyglint/internal/projectindex"
)

// FileInput is one file to fold into a ProjectGraph.
type FileInput struct {
	Path     string
	Language string
	Text     []byte
}

// ParseFailure records a file the Builder could not parse; per §4.4 this is
// excluded from symbol/import accumulation but is not itself an engine
// error — the caller (the Rule Execution Engine) turns it into an
// engine.parse_error Finding.
type ParseFailure struct {
	Path string
	Err  error
}

// topLevelSymbolKinds are the adapter.SymbolKind values eligible for
// project-wide visibility, per §4.4 step 2 ("function, class, interface,
// enum, type, exported const"), plus methods.
var topLevelSymbolKinds = map[adapter.SymbolKind]bool{
	adapter.SymbolFunction: true,
	adapter.SymbolClass:    true,
	adapter.SymbolType:     true,
	adapter.SymbolConst:    true,
	adapter.SymbolMethod:   true,
}

// Build assembles a ProjectGraph from files in one pass: each file is
// parsed once and queried for top-level symbol definitions and imports
// (§4.4). files whose language has no registered adapter are silently
// skipped (AdapterMissing, §7 — not an error, not a parse failure) but
// still count as known paths for import resolution targets.
func Build(files []FileInput, adapters *adapter.Registry, externalNamespaces map[string][]string) (*ProjectGraph, []ParseFailure) {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	resolver := NewImportResolver(paths, externalNamespaces)
	importGraph := projectindex.NewImportGraph()
	symbolIndex := projectindex.NewSymbolIndex()

	var failures []ParseFailure

	for _, f := range files {
		a, ok := adapters.Get(f.Language)
		if !ok {
			continue
		}
		tree, err := a.Parse(f.Text)
		if err != nil {
			failures = append(failures, ParseFailure{Path: f.Path, Err: err})
			continue
		}

		caps := a.Capabilities()

		moduleScopes := map[int]bool{}
		if caps.Scopes {
			scopeDescs, err := a.IterScopeNodes(tree)
			if err == nil {
				for _, d := range scopeDescs {
					if d.Kind == adapter.ScopeModule {
						moduleScopes[d.ID] = true
					}
				}
			}
		}

		if caps.Symbols {
			defs, err := a.IterSymbolDefs(tree)
			if err == nil {
				for _, d := range defs {
					if !topLevelSymbolKinds[d.Kind] {
						continue
					}
					if d.HasScope && caps.Scopes && !moduleScopes[d.ScopeID] {
						continue
					}
					vis := visibilityFor(f.Language, d.Name, d.Meta)
					if vis == "private" {
						continue
					}
					symbolIndex.Add(projectindex.ProjectSymbol{
						Name:     d.Name,
						Kind:     string(d.Kind),
						FilePath: f.Path,
						Start:    d.Start,
						End:      d.End,
						Language: f.Language,
						Visibility: vis,
					})
				}
			}
		}

		if caps.Imports {
			imports, err := a.IterImports(tree)
			if err == nil {
				for _, d := range imports {
					module := translateModule(f.Language, d.Module)
					edge := resolver.Resolve(f.Path, f.Language, module, d.Level)
					importGraph.AddEdge(edge)
				}
			}
		}
	}

	return &ProjectGraph{
		Resolver:    resolver,
		ImportGraph: importGraph,
		SymbolIndex: symbolIndex,
	}, failures
}

// visibilityFor applies the per-language heuristics §4.4 names explicitly:
// a leading underscore marks a private name in Python, and a lowercase
// first rune marks an unexported identifier in Go. Other languages default
// to public unless the adapter's Meta explicitly marks a visibility.
func visibilityFor(lang, name string, meta map[string]any) string {
	if meta != nil {
		if v, ok := meta["visibility"].(string); ok && v != "" {
			return v
		}
	}
	switch lang {
	case "python":
		if strings.HasPrefix(name, "_") {
			return "private"
		}
	case "go":
		if len(name) > 0 {
			r := name[0]
			if r >= 'a' && r <= 'z' {
				return "private"
			}
		}
	}
	return "public"
}

// translateModule normalizes a language's native module specifier into the
// slash-separated form ImportResolver expects. Python's dotted relative
// module names (".foo.bar") are the one convention in scope that differs
// from a path; other supported languages already use slash-separated
// specifiers.
func translateModule(lang, module string) string {
	if lang == "python" {
		trimmed := strings.TrimLeft(module, ".")
		return strings.ReplaceAll(trimmed, ".", "/")
	}
	return module
}
