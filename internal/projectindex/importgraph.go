package projectindex

// ImportEdgeKind classifies the outcome of resolving one import.
type ImportEdgeKind string

const (
	ImportResolvedFile ImportEdgeKind = "resolved_file"
	ImportPackage      ImportEdgeKind = "package"
	ImportExternal     ImportEdgeKind = "external"
	ImportMissing      ImportEdgeKind = "missing"
)

// ImportEdge is a resolved dependency from SourceFile to a target file or
// module name.
type ImportEdge struct {
	SourceFile string
	Target     string // resolved file path, package name, or the raw module string for external/missing
	Kind       ImportEdgeKind
	TriedPaths []string // populated when Kind == ImportMissing
}

// ImportGraph is a directed graph of ImportEdges supporting reverse lookup
// (who imports X) and per-file outgoing edges.
type ImportGraph struct {
	edges     []ImportEdge
	outgoing  map[string][]int // source file -> edge indexes
	incoming  map[string][]int // target -> edge indexes
}

// NewImportGraph returns an empty ImportGraph.
func NewImportGraph() *ImportGraph {
	return &ImportGraph{
		outgoing: make(map[string][]int),
		incoming: make(map[string][]int),
	}
}

// AddEdge inserts edge into the graph.
func (g *ImportGraph) AddEdge(edge ImportEdge) {
	i := len(g.edges)
	g.edges = append(g.edges, edge)
	g.outgoing[edge.SourceFile] = append(g.outgoing[edge.SourceFile], i)
	g.incoming[edge.Target] = append(g.incoming[edge.Target], i)
}

// OutgoingEdges returns every ImportEdge whose SourceFile is file.
func (g *ImportGraph) OutgoingEdges(file string) []ImportEdge {
	return g.collect(g.outgoing[file])
}

// Dependents returns every ImportEdge whose Target is target ("who imports
// X").
func (g *ImportGraph) Dependents(target string) []ImportEdge {
	return g.collect(g.incoming[target])
}

// AllEdges returns every edge in the graph.
func (g *ImportGraph) AllEdges() []ImportEdge {
	out := make([]ImportEdge, len(g.edges))
	copy(out, g.edges)
	return out
}

func (g *ImportGraph) collect(idxs []int) []ImportEdge {
	out := make([]ImportEdge, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, g.edges[i])
	}
	return out
}

// TransitiveDependents performs a breadth-first walk of reverse edges
// starting at target, returning every file that depends on target directly
// or indirectly. This supplements the single-hop Dependents accessor named
// in spec §3, following the bulk-load-then-BFS shape the teacher's
// query_graph.go CallGraph traversal uses (adjacency maps built once,
// walked in memory, no repeated graph queries per hop).
func (g *ImportGraph) TransitiveDependents(target string) []string {
	seen := map[string]bool{target: true}
	var out []string
	queue := []string{target}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, edge := range g.Dependents(cur) {
			if seen[edge.SourceFile] {
				continue
			}
			seen[edge.SourceFile] = true
			out = append(out, edge.SourceFile)
			queue = append(queue, edge.SourceFile)
		}
	}
	return out
}

// TransitiveDependencies performs the symmetric forward walk: every file
// that start depends on, directly or indirectly, via resolved_file edges.
func (g *ImportGraph) TransitiveDependencies(start string) []string {
	seen := map[string]bool{start: true}
	var out []string
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, edge := range g.OutgoingEdges(cur) {
			if edge.Kind != ImportResolvedFile || seen[edge.Target] {
				continue
			}
			seen[edge.Target] = true
			out = append(out, edge.Target)
			queue = append(queue, edge.Target)
		}
	}
	return out
}
