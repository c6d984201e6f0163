// Package generic is the lighter adapter §4.1 permits for languages whose
// grammar the engine supports only partially: it reports top-level symbol
// definitions and imports/includes, but not scopes or identifier refs, so
// any rule requiring RequiresForTier(1) or above is skipped for these
// languages rather than run against an approximation the adapter can't
// back up. Registered once per grammar (c, cpp, java, php, ruby, rust)
// with a small per-language node-type table instead of one adapter per
// language.
package generic

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/arnavsurve/polyglint/adapter"
)

// grammarSpec describes how to pull top-level symbols and imports out of
// one language's tree-sitter grammar without a full scope/ref walk.
type grammarSpec struct {
	lang          string
	grammar       *sitter.Language
	declTypes     map[string]adapter.SymbolKind // node type -> symbol kind, name read from "name" field
	importTypes   []string                      // node types treated as an import/include statement
	importPathFld string                        // field name holding the imported path/name on importTypes nodes
}

var specs = []grammarSpec{
	{
		lang: "c", grammar: c.GetLanguage(),
		declTypes: map[string]adapter.SymbolKind{
			"function_definition": adapter.SymbolFunction,
			"struct_specifier":    adapter.SymbolType,
			"enum_specifier":      adapter.SymbolType,
		},
		importTypes:   []string{"preproc_include"},
		importPathFld: "path",
	},
	{
		lang: "cpp", grammar: cpp.GetLanguage(),
		declTypes: map[string]adapter.SymbolKind{
			"function_definition": adapter.SymbolFunction,
			"class_specifier":     adapter.SymbolClass,
			"struct_specifier":    adapter.SymbolType,
			"enum_specifier":      adapter.SymbolType,
		},
		importTypes:   []string{"preproc_include"},
		importPathFld: "path",
	},
	{
		lang: "java", grammar: java.GetLanguage(),
		declTypes: map[string]adapter.SymbolKind{
			"class_declaration":     adapter.SymbolClass,
			"interface_declaration": adapter.SymbolClass,
			"enum_declaration":      adapter.SymbolType,
			"method_declaration":    adapter.SymbolMethod,
		},
		importTypes:   []string{"import_declaration"},
		importPathFld: "",
	},
	{
		lang: "php", grammar: php.GetLanguage(),
		declTypes: map[string]adapter.SymbolKind{
			"function_definition": adapter.SymbolFunction,
			"class_declaration":   adapter.SymbolClass,
			"interface_declaration": adapter.SymbolClass,
		},
		importTypes:   []string{"namespace_use_declaration"},
		importPathFld: "",
	},
	{
		lang: "ruby", grammar: ruby.GetLanguage(),
		declTypes: map[string]adapter.SymbolKind{
			"method":         adapter.SymbolMethod,
			"class":          adapter.SymbolClass,
			"module":         adapter.SymbolClass,
			"singleton_method": adapter.SymbolMethod,
		},
		importTypes:   []string{"call"}, // require/require_relative surfaced as a call node; filtered by name below
		importPathFld: "",
	},
	{
		lang: "rust", grammar: rust.GetLanguage(),
		declTypes: map[string]adapter.SymbolKind{
			"function_item":  adapter.SymbolFunction,
			"struct_item":    adapter.SymbolType,
			"enum_item":      adapter.SymbolType,
			"trait_item":     adapter.SymbolClass,
			"impl_item":      adapter.SymbolClass,
		},
		importTypes:   []string{"use_declaration"},
		importPathFld: "argument",
	},
}

// Register installs all six generic-capability adapters.
func Register(r *adapter.Registry) {
	exts := map[string][]string{
		"c":    {".c", ".h"},
		"cpp":  {".cpp", ".cc", ".cxx", ".hpp"},
		"java": {".java"},
		"php":  {".php"},
		"ruby": {".rb"},
		"rust": {".rs"},
	}
	for _, s := range specs {
		r.Register(s.lang, &Adapter{spec: s}, exts[s.lang]...)
	}
}

type Adapter struct{ spec grammarSpec }

func (a *Adapter) LanguageID() string { return a.spec.lang }

func (a *Adapter) Capabilities() adapter.Capabilities {
	return adapter.Capabilities{Scopes: false, Symbols: true, Refs: false, Imports: true}
}

type tree struct {
	root *sitter.Node
	src  []byte
}

func (t *tree) Root() adapter.Node { return node{t.root} }

type node struct{ n *sitter.Node }

func (n node) Kind() string { return n.n.Type() }

func (a *Adapter) Parse(text []byte) (adapter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(a.spec.grammar)
	t, err := parser.ParseCtx(context.Background(), nil, text)
	if err != nil {
		return nil, err
	}
	return &tree{root: t.RootNode(), src: text}, nil
}

func (a *Adapter) NodeSpan(n adapter.Node) (start, end int) {
	nd := n.(node).n
	return int(nd.StartByte()), int(nd.EndByte())
}

// IterScopeNodes returns nothing: per Capabilities, this adapter does not
// support scopes.
func (a *Adapter) IterScopeNodes(t adapter.Tree) ([]adapter.ScopeNodeDesc, error) {
	return nil, nil
}

func (a *Adapter) IterIdentifierRefs(t adapter.Tree) ([]adapter.RefDesc, error) {
	return nil, nil
}

func (a *Adapter) IterSymbolDefs(t adapter.Tree) ([]adapter.SymbolDefDesc, error) {
	tt := t.(*tree)
	var out []adapter.SymbolDefDesc

	var walk func(n *sitter.Node, depth int)
	walk = func(n *sitter.Node, depth int) {
		if n == nil || depth > 3 {
			return
		}
		if kind, ok := a.spec.declTypes[n.Type()]; ok {
			if nameNode := n.ChildByFieldName("name"); nameNode != nil {
				out = append(out, adapter.SymbolDefDesc{
					Name:  nameNode.Content(tt.src),
					Kind:  kind,
					Start: int(nameNode.StartByte()),
					End:   int(nameNode.EndByte()),
				})
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i), depth+1)
		}
	}
	walk(tt.root, 0)
	return out, nil
}

func (a *Adapter) IterImports(t adapter.Tree) ([]adapter.ImportDescriptor, error) {
	tt := t.(*tree)
	var out []adapter.ImportDescriptor

	var nodes []*sitter.Node
	for _, typ := range a.spec.importTypes {
		collectByType(tt.root, typ, &nodes)
	}

	for _, n := range nodes {
		if a.spec.lang == "ruby" {
			if desc, ok := rubyRequireImport(tt, n); ok {
				out = append(out, desc)
			}
			continue
		}

		module := ""
		if a.spec.importPathFld != "" {
			if f := n.ChildByFieldName(a.spec.importPathFld); f != nil {
				module = cleanImportPath(f.Content(tt.src))
			}
		} else {
			module = cleanImportPath(n.Content(tt.src))
		}
		out = append(out, adapter.ImportDescriptor{
			Module: module,
			Start:  int(n.StartByte()),
			End:    int(n.EndByte()),
		})
	}
	return out, nil
}

// rubyRequireImport filters "call" nodes down to the ones that are
// actually a require/require_relative, since Ruby's grammar has no
// dedicated import node type.
func rubyRequireImport(tt *tree, n *sitter.Node) (adapter.ImportDescriptor, bool) {
	method := n.ChildByFieldName("method")
	if method == nil {
		return adapter.ImportDescriptor{}, false
	}
	name := method.Content(tt.src)
	if name != "require" && name != "require_relative" {
		return adapter.ImportDescriptor{}, false
	}
	args := n.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return adapter.ImportDescriptor{}, false
	}
	level := 0
	if name == "require_relative" {
		level = 1
	}
	return adapter.ImportDescriptor{
		Module: cleanImportPath(args.NamedChild(0).Content(tt.src)),
		Level:  level,
		Start:  int(n.StartByte()),
		End:    int(n.EndByte()),
	}, true
}

func cleanImportPath(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'<>`)
	s = strings.TrimPrefix(s, "import ")
	s = strings.TrimPrefix(s, "use ")
	s = strings.TrimSuffix(s, ";")
	return strings.TrimSpace(s)
}

func collectByType(n *sitter.Node, typ string, out *[]*sitter.Node) {
	if n == nil {
		return
	}
	if n.Type() == typ {
		*out = append(*out, n)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		collectByType(n.Child(i), typ, out)
	}
}
