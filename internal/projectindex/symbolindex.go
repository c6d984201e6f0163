// Package projectindex holds the cross-file structures a whole-repository
// rule needs: a catalogue of public/top-level symbols and a directed graph
// of resolved imports. Grounded on the teacher's SymbolResult/discovery
// layer (query_discovery.go in mvp-joe-canopy), trimmed to what §3's
// SymbolIndex/ImportGraph contract actually asks for: name/kind lookup and
// reverse-import lookup, no pagination or sort options — those are query
// affordances the distilled spec doesn't name.
package projectindex

// ProjectSymbol is a public/top-level symbol visible across files.
type ProjectSymbol struct {
	Name       string
	Kind       string
	FilePath   string
	Start, End int
	Language   string
	Visibility string
}

// SymbolIndex is the cross-file symbol catalogue, built once per analysis
// run by the Project Graph Builder and immutable thereafter.
type SymbolIndex struct {
	symbols []ProjectSymbol
	byName  map[string][]int
	byKind  map[string][]int
}

// NewSymbolIndex returns an empty SymbolIndex.
func NewSymbolIndex() *SymbolIndex {
	return &SymbolIndex{
		byName: make(map[string][]int),
		byKind: make(map[string][]int),
	}
}

// Add inserts sym into the index. Symbol collisions (same name/kind across
// files) are permitted; queries return all matches.
func (idx *SymbolIndex) Add(sym ProjectSymbol) {
	i := len(idx.symbols)
	idx.symbols = append(idx.symbols, sym)
	idx.byName[sym.Name] = append(idx.byName[sym.Name], i)
	idx.byKind[sym.Kind] = append(idx.byKind[sym.Kind], i)
}

// FindByName returns every ProjectSymbol with the given name.
func (idx *SymbolIndex) FindByName(name string) []ProjectSymbol {
	return idx.collect(idx.byName[name])
}

// FindByKind returns every ProjectSymbol of the given kind.
func (idx *SymbolIndex) FindByKind(kind string) []ProjectSymbol {
	return idx.collect(idx.byKind[kind])
}

// All returns every symbol in the index, in insertion order.
func (idx *SymbolIndex) All() []ProjectSymbol {
	out := make([]ProjectSymbol, len(idx.symbols))
	copy(out, idx.symbols)
	return out
}

func (idx *SymbolIndex) collect(idxs []int) []ProjectSymbol {
	out := make([]ProjectSymbol, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, idx.symbols[i])
	}
	return out
}
