// Package scopegraph builds and queries the per-file scope/symbol/reference
// graph described in spec §3/§4.2. It is the in-memory analogue of the
// teacher's SQLite-backed scopes/symbols/references_ tables
// (internal/store/types.go in mvp-joe-canopy): same shape, no persistence,
// rebuilt fresh for every RuleContext.
package scopegraph

// Scope is a namespace boundary: module, function, class, method, block,
// comprehension, or except. Scopes form a forest rooted at a file/module
// scope.
type Scope struct {
	ID       int
	Kind     string
	ParentID int
	HasParent bool
}

// Symbol is a name binding: an import, param, local, function, class,
// field, const, etc.
type Symbol struct {
	ID      int // index into the graph's internal Symbols slice
	Name    string
	Kind    string
	ScopeID int
	Start   int
	End     int
	Meta    map[string]any
}

// Ref is a use-site: an identifier occurrence in some scope.
type Ref struct {
	ID      int
	Name    string
	ScopeID int
	Byte    int
	Meta    map[string]any
}

// ScopeGraph is the indexed container of one file's Scopes, Symbols, and
// Refs. The zero value is not usable; construct with New or Build.
type ScopeGraph struct {
	scopes  []Scope
	symbols []Symbol
	refs    []Ref

	byID          map[int]int   // scope id -> index into scopes
	childrenOf    map[int][]int // scope id -> child scope ids
	symbolsByScope map[int][]int // scope id -> indexes into symbols
	refsByScope    map[int][]int // scope id -> indexes into refs
}

// New returns an empty ScopeGraph. An adapter that cannot supply scope data
// yields an empty graph rather than a nil pointer (§4.2 Failure model):
// downstream rules observe ctx.Scopes as present-but-empty and may
// self-skip, rather than nil-dereferencing.
func New() *ScopeGraph {
	return &ScopeGraph{
		byID:           make(map[int]int),
		childrenOf:     make(map[int][]int),
		symbolsByScope: make(map[int][]int),
		refsByScope:    make(map[int][]int),
	}
}

// Scopes returns every Scope in the graph.
func (g *ScopeGraph) Scopes() []Scope { return g.scopes }

// Symbols returns every Symbol in the graph.
func (g *ScopeGraph) Symbols() []Symbol { return g.symbols }

// Refs returns every Ref in the graph.
func (g *ScopeGraph) Refs() []Ref { return g.refs }

// ScopeByID returns the Scope with the given id.
func (g *ScopeGraph) ScopeByID(id int) (Scope, bool) {
	idx, ok := g.byID[id]
	if !ok {
		return Scope{}, false
	}
	return g.scopes[idx], true
}

// SymbolsInScope returns the Symbols defined directly in scopeID (not
// descendants).
func (g *ScopeGraph) SymbolsInScope(scopeID int) []Symbol {
	idxs := g.symbolsByScope[scopeID]
	out := make([]Symbol, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, g.symbols[i])
	}
	return out
}

// RefsInScope returns the Refs occurring directly in scopeID (not
// descendants).
func (g *ScopeGraph) RefsInScope(scopeID int) []Ref {
	idxs := g.refsByScope[scopeID]
	out := make([]Ref, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, g.refs[i])
	}
	return out
}

// ChildrenOf returns the direct child scope ids of scopeID.
func (g *ScopeGraph) ChildrenOf(scopeID int) []int {
	return g.childrenOf[scopeID]
}

// DescendantsOf returns every scope id reachable from scopeID via
// ChildrenOf, scopeID itself included. The scope forest is acyclic by
// construction (§4.2), so this terminates without a visited-set guard
// beyond the one used to protect against malformed adapter output.
func (g *ScopeGraph) DescendantsOf(scopeID int) []int {
	seen := map[int]bool{scopeID: true}
	out := []int{scopeID}
	queue := []int{scopeID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range g.childrenOf[cur] {
			if seen[child] {
				continue // malformed adapter output forming a cycle: stop, don't recurse unbounded
			}
			seen[child] = true
			out = append(out, child)
			queue = append(queue, child)
		}
	}
	return out
}

// ResolveVisible starts at scopeID and searches upward for a Symbol named
// name; the first match within a scope wins (definition order in the
// adapter's enumeration), and if none is found the search ascends to
// ParentID and repeats, stopping when a scope has no parent.
func (g *ScopeGraph) ResolveVisible(scopeID int, name string) (Symbol, bool) {
	visited := make(map[int]bool)
	cur := scopeID
	for {
		if visited[cur] {
			return Symbol{}, false // cycle guard; scope forest should be acyclic
		}
		visited[cur] = true

		for _, idx := range g.symbolsByScope[cur] {
			if g.symbols[idx].Name == name {
				return g.symbols[idx], true
			}
		}

		scope, ok := g.byID[cur]
		if !ok {
			return Symbol{}, false
		}
		s := g.scopes[scope]
		if !s.HasParent {
			return Symbol{}, false
		}
		cur = s.ParentID
	}
}

// RefsTo returns every Ref whose resolved target equals sym, searching
// sym's defining scope and all descendant scopes.
func (g *ScopeGraph) RefsTo(sym Symbol) []Ref {
	var out []Ref
	for _, scopeID := range g.DescendantsOf(sym.ScopeID) {
		for _, idx := range g.refsByScope[scopeID] {
			ref := g.refs[idx]
			if target, ok := g.ResolveVisible(ref.ScopeID, ref.Name); ok && target.ID == sym.ID {
				out = append(out, ref)
			}
		}
	}
	return out
}
