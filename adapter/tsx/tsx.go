// Package tsx is the shared full-capability adapter for JavaScript and
// TypeScript, registered twice (once per grammar) since the two languages
// share a node-type vocabulary closely enough to walk with one
// implementation, the way the teacher's languages.go treats them as
// siblings in the same grammar family.
package tsx

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	tsts "github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/arnavsurve/polyglint/adapter"
)

// Register installs both the "javascript" and "typescript" adapters.
func Register(r *adapter.Registry) {
	r.Register("javascript", &Adapter{lang: "javascript", grammar: javascript.GetLanguage()}, ".js", ".jsx")
	r.Register("typescript", &Adapter{lang: "typescript", grammar: tsts.GetLanguage()}, ".ts", ".tsx")
}

type Adapter struct {
	lang    string
	grammar *sitter.Language
}

func (a *Adapter) LanguageID() string { return a.lang }

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
	parser.SetLanguage(a.grammar)
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
		switch n.Type() {
		case "identifier", "property_identifier", "type_identifier", "shorthand_property_identifier":
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
		srcNode := st.ChildByFieldName("source")
		if srcNode == nil {
			continue
		}
		module := trimQuotes(srcNode.Content(tt.src))
		level := 0
		if len(module) > 0 && module[0] == '.' {
			level = 1
		}

		var names []string
		clause := firstChildOfType(st, "import_clause")
		if clause != nil {
			collectImportNames(tt, clause, &names)
		}

		out = append(out, adapter.ImportDescriptor{
			Module: module, Level: level, Names: names,
			Start: int(st.StartByte()), End: int(st.EndByte()),
		})
	}
	return out, nil
}

func collectImportNames(tt *tree, clause *sitter.Node, names *[]string) {
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		c := clause.NamedChild(i)
		if c == nil {
			continue
		}
		switch c.Type() {
		case "identifier":
			*names = append(*names, c.Content(tt.src))
		case "namespace_import":
			if id := lastNamedChild(c); id != nil {
				*names = append(*names, id.Content(tt.src))
			}
		case "named_imports":
			for j := 0; j < int(c.NamedChildCount()); j++ {
				spec := c.NamedChild(j)
				if spec == nil || spec.Type() != "import_specifier" {
					continue
				}
				nameNode := spec.ChildByFieldName("alias")
				if nameNode == nil {
					nameNode = spec.ChildByFieldName("name")
				}
				if nameNode != nil {
					*names = append(*names, nameNode.Content(tt.src))
				}
			}
		}
	}
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
		case "function_declaration", "generator_function_declaration", "function_expression", "arrow_function":
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
			if params := n.ChildByFieldName("parameters"); params != nil {
				walkParams(ws, params, fnScope)
			} else if p := n.ChildByFieldName("parameter"); p != nil {
				bindParamNode(ws, p, fnScope)
			}
			walk(n.ChildByFieldName("body"), fnScope)
			return

		case "class_declaration":
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
			if body := n.ChildByFieldName("body"); body != nil {
				for i := 0; i < int(body.NamedChildCount()); i++ {
					m := body.NamedChild(i)
					if m == nil || m.Type() != "method_definition" {
						continue
					}
					mNameNode := m.ChildByFieldName("name")
					mScope := ws.newScope(adapter.ScopeMethod, classScope, true, m)
					if mNameNode != nil {
						ws.define(mNameNode.StartByte())
						ws.syms = append(ws.syms, adapter.SymbolDefDesc{
							Name: mNameNode.Content(ws.src), Kind: adapter.SymbolMethod,
							ScopeID: classScope, HasScope: true,
							Start: int(mNameNode.StartByte()), End: int(mNameNode.EndByte()),
						})
					}
					if params := m.ChildByFieldName("parameters"); params != nil {
						walkParams(ws, params, mScope)
					}
					walk(m.ChildByFieldName("body"), mScope)
				}
			}
			return

		case "variable_declarator":
			nameNode := n.ChildByFieldName("name")
			if nameNode != nil && nameNode.Type() == "identifier" {
				ws.define(nameNode.StartByte())
				ws.syms = append(ws.syms, adapter.SymbolDefDesc{
					Name: nameNode.Content(ws.src), Kind: adapter.SymbolLocal,
					ScopeID: scopeID, HasScope: true,
					Start: int(nameNode.StartByte()), End: int(nameNode.EndByte()),
				})
			}
			if val := n.ChildByFieldName("value"); val != nil {
				walk(val, scopeID)
			}
			return

		case "import_statement":
			handleImportDefs(ws, n, moduleID)
			return
		}

		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i), scopeID)
		}
	}

	walk(t.root, moduleID)
	return ws
}

func handleImportDefs(ws *walkState, st *sitter.Node, moduleID int) {
	clause := firstChildOfType(st, "import_clause")
	if clause == nil {
		return
	}
	var nodes []*sitter.Node
	collectImportNameNodes(clause, &nodes)
	for _, n := range nodes {
		ws.define(n.StartByte())
		ws.syms = append(ws.syms, adapter.SymbolDefDesc{
			Name: n.Content(ws.src), Kind: adapter.SymbolImport,
			ScopeID: moduleID, HasScope: true,
			Start: int(n.StartByte()), End: int(n.EndByte()),
			Meta: map[string]any{"stmt_start": int(st.StartByte()), "stmt_end": int(st.EndByte())},
		})
	}
}

func collectImportNameNodes(clause *sitter.Node, out *[]*sitter.Node) {
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		c := clause.NamedChild(i)
		if c == nil {
			continue
		}
		switch c.Type() {
		case "identifier":
			*out = append(*out, c)
		case "namespace_import":
			if id := lastNamedChild(c); id != nil {
				*out = append(*out, id)
			}
		case "named_imports":
			for j := 0; j < int(c.NamedChildCount()); j++ {
				spec := c.NamedChild(j)
				if spec == nil || spec.Type() != "import_specifier" {
					continue
				}
				target := spec.ChildByFieldName("alias")
				if target == nil {
					target = spec.ChildByFieldName("name")
				}
				if target != nil {
					*out = append(*out, target)
				}
			}
		}
	}
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

func walkParams(ws *walkState, params *sitter.Node, fnScope int) {
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		if p == nil {
			continue
		}
		bindParamNode(ws, p, fnScope)
	}
}

func bindParamNode(ws *walkState, p *sitter.Node, fnScope int) {
	var nameNode *sitter.Node
	switch p.Type() {
	case "identifier":
		nameNode = p
	case "required_parameter", "optional_parameter", "rest_pattern":
		if pat := p.ChildByFieldName("pattern"); pat != nil && pat.Type() == "identifier" {
			nameNode = pat
		} else if p.NamedChildCount() > 0 && p.NamedChild(0).Type() == "identifier" {
			nameNode = p.NamedChild(0)
		}
	case "assignment_pattern":
		if left := p.ChildByFieldName("left"); left != nil && left.Type() == "identifier" {
			nameNode = left
		}
	}
	if nameNode == nil {
		return
	}
	ws.define(nameNode.StartByte())
	ws.syms = append(ws.syms, adapter.SymbolDefDesc{
		Name: nameNode.Content(ws.src), Kind: adapter.SymbolParam,
		ScopeID: fnScope, HasScope: true,
		Start: int(nameNode.StartByte()), End: int(nameNode.EndByte()),
	})
}

func firstChildOfType(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c != nil && c.Type() == typ {
			return c
		}
	}
	return nil
}

func lastNamedChild(n *sitter.Node) *sitter.Node {
	cnt := int(n.NamedChildCount())
	if cnt == 0 {
		return nil
	}
	return n.NamedChild(cnt - 1)
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

func trimQuotes(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'' || s[0] == '`') {
		return s[1 : len(s)-1]
	}
	return s
}
