// Package python is the full-capability adapter for Python source, built
// the same way as adapter/golang: a direct tree-sitter walk keyed off
// node.Type(), grounded on the teacher's tree-sitter wiring.
package python

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tspy "github.com/smacker/go-tree-sitter/python"

	"github.com/arnavsurve/polyglint/adapter"
)

// Register installs the Python adapter under the "python" language tag.
func Register(r *adapter.Registry) {
	r.Register("python", New(), ".py")
}

type Adapter struct{}

func New() *Adapter { return &Adapter{} }

func (a *Adapter) LanguageID() string { return "python" }

func (a *Adapter) Capabilities() adapter.Capabilities {
	return adapter.Capabilities{Scopes: true, Symbols: true, Refs: true, Imports: true}
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
	parser.SetLanguage(tspy.GetLanguage())
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

type scopeRec struct {
	desc       adapter.ScopeNodeDesc
	start, end int
}

type walkState struct {
	src       []byte
	scopes    []scopeRec
	nextScope int
	syms      []adapter.SymbolDefDesc
	defining  map[int]bool
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
	return buildWalkState(t.(*tree)).syms, nil
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
		if n.Type() == "identifier" {
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

	var stmts []*sitter.Node
	collectByType(tt.root, "import_statement", &stmts)
	for _, st := range stmts {
		for i := 0; i < int(st.NamedChildCount()); i++ {
			c := st.NamedChild(i)
			if c == nil {
				continue
			}
			switch c.Type() {
			case "dotted_name":
				out = append(out, adapter.ImportDescriptor{
					Module: c.Content(tt.src), Level: 0,
					Start: int(st.StartByte()), End: int(st.EndByte()),
				})
			case "aliased_import":
				nameNode := c.ChildByFieldName("name")
				if nameNode == nil {
					continue
				}
				aliasNode := c.ChildByFieldName("alias")
				names := []string(nil)
				if aliasNode != nil {
					names = []string{aliasNode.Content(tt.src)}
				}
				out = append(out, adapter.ImportDescriptor{
					Module: nameNode.Content(tt.src), Level: 0, Names: names,
					Start: int(st.StartByte()), End: int(st.EndByte()),
				})
			}
		}
	}

	var fromStmts []*sitter.Node
	collectByType(tt.root, "import_from_statement", &fromStmts)
	for _, st := range fromStmts {
		modNode := st.ChildByFieldName("module_name")
		module := ""
		level := 0
		if modNode != nil {
			if modNode.Type() == "relative_import" {
				content := modNode.Content(tt.src)
				level = countLeadingDots(content)
				module = strings.TrimLeft(content, ".")
			} else {
				module = modNode.Content(tt.src)
			}
		}

		var names []string
		for i := 0; i < int(st.NamedChildCount()); i++ {
			c := st.NamedChild(i)
			if c == nil || c == modNode {
				continue
			}
			switch c.Type() {
			case "dotted_name":
				names = append(names, c.Content(tt.src))
			case "aliased_import":
				if n := c.ChildByFieldName("name"); n != nil {
					names = append(names, n.Content(tt.src))
				}
			case "wildcard_import":
				names = append(names, "*")
			}
		}

		out = append(out, adapter.ImportDescriptor{
			Module: module, Level: level, Names: names,
			Start: int(st.StartByte()), End: int(st.EndByte()),
		})
	}
	return out, nil
}

func buildWalkState(t *tree) *walkState {
	ws := &walkState{src: t.src, defining: make(map[int]bool)}
	moduleID := ws.newScope(adapter.ScopeModule, -1, false, t.root)

	var walk func(n *sitter.Node, scopeID int)
	walk = func(n *sitter.Node, scopeID int) {
		if n == nil {
			return
		}
		switch n.Type() {
		case "function_definition", "lambda":
			nameNode := n.ChildByFieldName("name")
			kind := adapter.ScopeFunction
			symKind := adapter.SymbolFunction
			if scopeIsClass(ws, scopeID) {
				symKind = adapter.SymbolMethod
				kind = adapter.ScopeMethod
			}
			fnScope := ws.newScope(kind, scopeID, true, n)
			if nameNode != nil {
				ws.define(nameNode.StartByte())
				ws.syms = append(ws.syms, adapter.SymbolDefDesc{
					Name: nameNode.Content(ws.src), Kind: symKind,
					ScopeID: scopeID, HasScope: true,
					Start: int(nameNode.StartByte()), End: int(nameNode.EndByte()),
				})
			}
			if params := n.ChildByFieldName("parameters"); params != nil {
				walkParams(ws, params, fnScope)
			}
			walk(n.ChildByFieldName("body"), fnScope)
			return

		case "class_definition":
			nameNode := n.ChildByFieldName("name")
			classScope := ws.newScope(adapter.ScopeClass, scopeID, true, n)
			if nameNode != nil {
				ws.define(nameNode.StartByte())
				ws.syms = append(ws.syms, adapter.SymbolDefDesc{
					Name: nameNode.Content(ws.src), Kind: adapter.SymbolClass,
					ScopeID: scopeID, HasScope: true,
					Start: int(nameNode.StartByte()), End: int(nameNode.EndByte()),
				})
			}
			walk(n.ChildByFieldName("body"), classScope)
			return

		case "assignment":
			if left := n.ChildByFieldName("left"); left != nil {
				for _, idn := range identifierTargets(left) {
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

		case "import_statement", "import_from_statement":
			for _, name := range importedNames(ws, n) {
				ws.define(name.node.StartByte())
				ws.syms = append(ws.syms, adapter.SymbolDefDesc{
					Name: name.label, Kind: adapter.SymbolImport,
					ScopeID: moduleID, HasScope: true,
					Start: int(name.node.StartByte()), End: int(name.node.EndByte()),
					Meta: map[string]any{"stmt_start": int(n.StartByte()), "stmt_end": int(n.EndByte())},
				})
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

func (ws *walkState) define(b uint32) { ws.defining[int(b)] = true }

func scopeIsClass(ws *walkState, scopeID int) bool {
	for _, s := range ws.scopes {
		if s.desc.ID == scopeID {
			return s.desc.Kind == adapter.ScopeClass
		}
	}
	return false
}

func walkParams(ws *walkState, params *sitter.Node, fnScope int) {
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		if p == nil {
			continue
		}
		var nameNode *sitter.Node
		switch p.Type() {
		case "identifier":
			nameNode = p
		case "typed_parameter", "default_parameter", "typed_default_parameter":
			nameNode = p.ChildByFieldName("name")
			if nameNode == nil && p.NamedChildCount() > 0 {
				nameNode = p.NamedChild(0)
			}
		case "list_splat_pattern", "dictionary_splat_pattern":
			if p.NamedChildCount() > 0 {
				nameNode = p.NamedChild(0)
			}
		}
		if nameNode == nil {
			continue
		}
		ws.define(nameNode.StartByte())
		ws.syms = append(ws.syms, adapter.SymbolDefDesc{
			Name: nameNode.Content(ws.src), Kind: adapter.SymbolParam,
			ScopeID: fnScope, HasScope: true,
			Start: int(nameNode.StartByte()), End: int(nameNode.EndByte()),
		})
	}
}

func identifierTargets(n *sitter.Node) []*sitter.Node {
	if n.Type() == "identifier" {
		return []*sitter.Node{n}
	}
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c != nil && c.Type() == "identifier" {
			out = append(out, c)
		}
	}
	return out
}

type importedName struct {
	node  *sitter.Node
	label string
}

func importedNames(ws *walkState, stmt *sitter.Node) []importedName {
	var out []importedName
	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		c := stmt.NamedChild(i)
		if c == nil {
			continue
		}
		switch c.Type() {
		case "dotted_name":
			out = append(out, importedName{node: c, label: lastDotSegment(c.Content(ws.src))})
		case "aliased_import":
			if alias := c.ChildByFieldName("alias"); alias != nil {
				out = append(out, importedName{node: alias, label: alias.Content(ws.src)})
			}
		}
	}
	return out
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

func scopeForByte(scopes []scopeRec, b int) (int, bool) {
	best, bestLen := -1, -1
	for _, s := range scopes {
		if b < s.start || b >= s.end {
			continue
		}
		l := s.end - s.start
		if bestLen == -1 || l < bestLen {
			best, bestLen = s.desc.ID, l
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

func countLeadingDots(s string) int {
	n := 0
	for _, r := range s {
		if r != '.' {
			break
		}
		n++
	}
	return n
}

func lastDotSegment(s string) string {
	idx := strings.LastIndex(s, ".")
	if idx < 0 {
		return s
	}
	return s[idx+1:]
}
