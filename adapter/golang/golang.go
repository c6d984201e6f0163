// Package golang is the full-capability adapter for Go source, grounded on
// the teacher's own tree-sitter usage (mvp-joe-canopy's
// internal/runtime/languages.go and hostfuncs.go) but walking the tree
// directly with node.Type() switches instead of driving it through a
// scripting layer.
package golang

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsgo "github.com/smacker/go-tree-sitter/golang"

	"github.com/arnavsurve/polyglint/adapter"
)

// Register installs the Go adapter under the "go" language tag.
func Register(r *adapter.Registry) {
	r.Register("go", New(), ".go")
}

// Adapter implements adapter.Adapter for Go.
type Adapter struct{}

// New returns a Go Adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) LanguageID() string { return "go" }

func (a *Adapter) Capabilities() adapter.Capabilities {
	return adapter.Capabilities{Scopes: true, Symbols: true, Refs: true, Imports: true}
}

// tree wraps a parsed *sitter.Tree alongside the source bytes its nodes
// reference (go-tree-sitter nodes carry no backing buffer of their own).
type tree struct {
	root *sitter.Node
	src  []byte
}

func (t *tree) Root() adapter.Node { return node{t.root} }

// node wraps a *sitter.Node to satisfy adapter.Node.
type node struct{ n *sitter.Node }

func (n node) Kind() string { return n.n.Type() }

func (a *Adapter) Parse(text []byte) (adapter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(tsgo.GetLanguage())
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

// scopeRec is an internal bookkeeping record for one scope discovered
// during the walk: its descriptor plus the byte span it covers, used to
// resolve which scope a later-found identifier belongs to.
type scopeRec struct {
	desc       adapter.ScopeNodeDesc
	start, end int
}

// walkState accumulates everything a single walk over the tree produces,
// since scopes, symbol defs, and the defining-identifier set all fall out
// of the same traversal.
type walkState struct {
	src       []byte
	scopes    []scopeRec
	nextScope int
	syms      []adapter.SymbolDefDesc
	defining  map[int]bool // start byte of identifier nodes already counted as a definition
}

func (a *Adapter) IterScopeNodes(t adapter.Tree) ([]adapter.ScopeNodeDesc, error) {
	ws := buildWalkState(t.(*tree))
	out := make([]adapter.ScopeNodeDesc, len(ws.scopes))
	for i, s := range ws.scopes {
		out[i] = s.desc
	}
	return out, nil
}

func (a *Adapter) IterSymbolDefs(t adapter.Tree) ([]adapter.SymbolDefDesc, error) {
	ws := buildWalkState(t.(*tree))
	return ws.syms, nil
}

func (a *Adapter) IterIdentifierRefs(t adapter.Tree) ([]adapter.RefDesc, error) {
	tt := t.(*tree)
	ws := buildWalkState(tt)

	var refs []adapter.RefDesc
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch n.Type() {
		case "identifier", "field_identifier", "type_identifier":
			start := int(n.StartByte())
			if !ws.defining[start] {
				scopeID, hasScope := scopeForByte(ws.scopes, start)
				refs = append(refs, adapter.RefDesc{
					Name:     n.Content(ws.src),
					ScopeID:  scopeID,
					HasScope: hasScope,
					Byte:     start,
				})
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(tt.root)
	return refs, nil
}

func (a *Adapter) IterImports(t adapter.Tree) ([]adapter.ImportDescriptor, error) {
	tt := t.(*tree)
	var out []adapter.ImportDescriptor

	var specs []*sitter.Node
	collectByType(tt.root, "import_spec", &specs)

	for _, spec := range specs {
		pathNode := spec.ChildByFieldName("path")
		if pathNode == nil {
			continue
		}
		path := strings.Trim(pathNode.Content(tt.src), `"`)

		names := []string(nil)
		if nameNode := spec.ChildByFieldName("name"); nameNode != nil {
			alias := nameNode.Content(tt.src)
			if alias != "_" && alias != "." {
				names = []string{alias}
			}
		}

		out = append(out, adapter.ImportDescriptor{
			Module: path,
			Level:  0, // Go has no relative imports
			Names:  names,
			Start:  int(spec.StartByte()),
			End:    int(spec.EndByte()),
		})
	}
	return out, nil
}

// buildWalkState performs the single recursive descent that produces
// scopes and symbol definitions together: a scope must exist before the
// symbols bound within it can reference its id.
func buildWalkState(t *tree) *walkState {
	ws := &walkState{src: t.src, defining: make(map[int]bool)}

	moduleID := ws.newScope(adapter.ScopeModule, -1, false, t.root)

	var walk func(n *sitter.Node, scopeID int)
	walk = func(n *sitter.Node, scopeID int) {
		if n == nil {
			return
		}
		switch n.Type() {
		case "import_declaration":
			var specs []*sitter.Node
			collectByType(n, "import_spec", &specs)
			for _, spec := range specs {
				nameNode := spec.ChildByFieldName("name")
				pathNode := spec.ChildByFieldName("path")
				if pathNode == nil {
					continue
				}
				name := lastPathSegment(strings.Trim(pathNode.Content(ws.src), `"`))
				if nameNode != nil {
					alias := nameNode.Content(ws.src)
					if alias == "_" || alias == "." {
						continue
					}
					name = alias
				}
				ws.define(spec.StartByte())
				ws.syms = append(ws.syms, adapter.SymbolDefDesc{
					Name: name, Kind: adapter.SymbolImport,
					ScopeID: moduleID, HasScope: true,
					Start: int(spec.StartByte()), End: int(spec.EndByte()),
					Meta: map[string]any{"stmt_start": int(spec.StartByte()), "stmt_end": int(spec.EndByte())},
				})
			}
			return

		case "function_declaration":
			nameNode := n.ChildByFieldName("name")
			fnScope := ws.newScope(adapter.ScopeFunction, scopeID, true, n)
			if nameNode != nil {
				ws.define(nameNode.StartByte())
				ws.syms = append(ws.syms, adapter.SymbolDefDesc{
					Name: nameNode.Content(ws.src), Kind: adapter.SymbolFunction,
					ScopeID: scopeID, HasScope: true,
					Start: int(nameNode.StartByte()), End: int(nameNode.EndByte()),
				})
			}
			walkParams(ws, n, fnScope)
			walk(n.ChildByFieldName("result"), fnScope)
			walk(n.ChildByFieldName("body"), fnScope)
			return

		case "method_declaration":
			nameNode := n.ChildByFieldName("name")
			mScope := ws.newScope(adapter.ScopeMethod, scopeID, true, n)
			if nameNode != nil {
				ws.define(nameNode.StartByte())
				ws.syms = append(ws.syms, adapter.SymbolDefDesc{
					Name: nameNode.Content(ws.src), Kind: adapter.SymbolMethod,
					ScopeID: scopeID, HasScope: true,
					Start: int(nameNode.StartByte()), End: int(nameNode.EndByte()),
				})
			}
			if recv := n.ChildByFieldName("receiver"); recv != nil {
				walkParamList(ws, recv, mScope)
			}
			walkParams(ws, n, mScope)
			walk(n.ChildByFieldName("result"), mScope)
			walk(n.ChildByFieldName("body"), mScope)
			return

		case "func_literal":
			fnScope := ws.newScope(adapter.ScopeFunction, scopeID, true, n)
			walkParams(ws, n, fnScope)
			walk(n.ChildByFieldName("body"), fnScope)
			return

		case "type_declaration":
			var specs []*sitter.Node
			collectByType(n, "type_spec", &specs)
			for _, spec := range specs {
				nameNode := spec.ChildByFieldName("name")
				if nameNode == nil {
					continue
				}
				ws.define(nameNode.StartByte())
				ws.syms = append(ws.syms, adapter.SymbolDefDesc{
					Name: nameNode.Content(ws.src), Kind: adapter.SymbolType,
					ScopeID: scopeID, HasScope: true,
					Start: int(nameNode.StartByte()), End: int(nameNode.EndByte()),
				})
				if fields := spec.ChildByFieldName("type"); fields != nil {
					walkStructFields(ws, fields, scopeID)
				}
			}
			return

		case "const_declaration":
			walkNameList(ws, n, "const_spec", adapter.SymbolConst, scopeID)
			return

		case "var_declaration":
			walkNameList(ws, n, "var_spec", adapter.SymbolLocal, scopeID)
			return

		case "short_var_declaration":
			if left := n.ChildByFieldName("left"); left != nil {
				for _, idn := range identifierChildren(left) {
					ws.define(idn.StartByte())
					ws.syms = append(ws.syms, adapter.SymbolDefDesc{
						Name: idn.Content(ws.src), Kind: adapter.SymbolLocal,
						ScopeID: scopeID, HasScope: true,
						Start: int(idn.StartByte()), End: int(idn.EndByte()),
					})
				}
			}
			for i := 0; i < int(n.ChildCount()); i++ {
				walk(n.Child(i), scopeID)
			}
			return
		}

		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i), scopeID)
		}
	}

	walk(t.root, moduleID)
	return ws
}

func (ws *walkState) newScope(kind adapter.ScopeKind, parent int, hasParent bool, n *sitter.Node) int {
	id := ws.nextScope
	ws.nextScope++
	ws.scopes = append(ws.scopes, scopeRec{
		desc:  adapter.ScopeNodeDesc{ID: id, Kind: kind, ParentID: parent, HasParent: hasParent},
		start: int(n.StartByte()), end: int(n.EndByte()),
	})
	return id
}

func (ws *walkState) define(startByte uint32) {
	ws.defining[int(startByte)] = true
}

// walkParams records each identifier in a function/method's parameter_list
// as a SymbolParam bound to fnScope.
func walkParams(ws *walkState, n *sitter.Node, fnScope int) {
	params := n.ChildByFieldName("parameters")
	if params == nil {
		return
	}
	walkParamList(ws, params, fnScope)
}

// walkParamList records each identifier bound by a parameter_list node
// (shared by ordinary parameter lists and method receiver lists) as a
// SymbolParam bound to fnScope.
func walkParamList(ws *walkState, params *sitter.Node, fnScope int) {
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		if p == nil || (p.Type() != "parameter_declaration" && p.Type() != "variadic_parameter_declaration") {
			continue
		}
		for _, nameNode := range identifierChildren(p) {
			ws.define(nameNode.StartByte())
			ws.syms = append(ws.syms, adapter.SymbolDefDesc{
				Name: nameNode.Content(ws.src), Kind: adapter.SymbolParam,
				ScopeID: fnScope, HasScope: true,
				Start: int(nameNode.StartByte()), End: int(nameNode.EndByte()),
			})
		}
	}
}

// walkStructFields records a struct type's named fields as SymbolField,
// since Go does not scope field names the way it scopes identifiers.
func walkStructFields(ws *walkState, typeNode *sitter.Node, scopeID int) {
	if typeNode.Type() != "struct_type" {
		return
	}
	body := typeNode.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		decl := body.NamedChild(i)
		if decl == nil || decl.Type() != "field_declaration" {
			continue
		}
		for j := 0; j < int(decl.NamedChildCount()); j++ {
			nameNode := decl.NamedChild(j)
			if nameNode == nil || nameNode.Type() != "field_identifier" {
				continue
			}
			ws.define(nameNode.StartByte())
			ws.syms = append(ws.syms, adapter.SymbolDefDesc{
				Name: nameNode.Content(ws.src), Kind: adapter.SymbolField,
				ScopeID: scopeID, HasScope: true,
				Start: int(nameNode.StartByte()), End: int(nameNode.EndByte()),
			})
		}
	}
}

// walkNameList handles const_declaration/var_declaration, each of which may
// hold one or several specs, each of which may bind one or several names.
func walkNameList(ws *walkState, n *sitter.Node, specType string, kind adapter.SymbolKind, scopeID int) {
	var specs []*sitter.Node
	collectByType(n, specType, &specs)
	for _, spec := range specs {
		for _, idn := range identifierChildren(spec) {
			ws.define(idn.StartByte())
			ws.syms = append(ws.syms, adapter.SymbolDefDesc{
				Name: idn.Content(ws.src), Kind: kind,
				ScopeID: scopeID, HasScope: true,
				Start: int(idn.StartByte()), End: int(idn.EndByte()),
			})
		}
	}
}

// identifierChildren returns n's direct named children of type "identifier"
// (used where tree-sitter-go inlines a comma-separated name list directly
// as sibling identifier nodes rather than wrapping them).
func identifierChildren(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c != nil && c.Type() == "identifier" {
			out = append(out, c)
		}
	}
	return out
}

// collectByType appends every descendant of n (n included) whose Type
// matches typ into *out.
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

// scopeForByte returns the innermost scope whose span contains byte.
func scopeForByte(scopes []scopeRec, b int) (int, bool) {
	best := -1
	bestLen := -1
	for _, s := range scopes {
		if b < s.start || b >= s.end {
			continue
		}
		length := s.end - s.start
		if bestLen == -1 || length < bestLen {
			best = s.desc.ID
			bestLen = length
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

func lastPathSegment(p string) string {
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return p
	}
	return p[idx+1:]
}
