package projectindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolIndex_FindByNameAndKind(t *testing.T) {
	idx := NewSymbolIndex()
	idx.Add(ProjectSymbol{Name: "User", Kind: "class", FilePath: "models.py"})
	idx.Add(ProjectSymbol{Name: "get_user", Kind: "function", FilePath: "api.py"})
	idx.Add(ProjectSymbol{Name: "get_user", Kind: "function", FilePath: "other.py"})

	assert.Len(t, idx.FindByName("get_user"), 2)
	assert.Len(t, idx.FindByKind("class"), 1)
	assert.Len(t, idx.All(), 3)
	assert.Empty(t, idx.FindByName("missing"))
}

func TestImportGraph_OutgoingAndDependents(t *testing.T) {
	g := NewImportGraph()
	g.AddEdge(ImportEdge{SourceFile: "a.py", Target: "b.py", Kind: ImportResolvedFile})
	g.AddEdge(ImportEdge{SourceFile: "b.py", Target: "c.py", Kind: ImportResolvedFile})
	g.AddEdge(ImportEdge{SourceFile: "a.py", Target: "nowhere", Kind: ImportMissing, TriedPaths: []string{"nowhere.py", "nowhere/__init__.py"}})

	out := g.OutgoingEdges("a.py")
	require.Len(t, out, 2)

	deps := g.Dependents("b.py")
	require.Len(t, deps, 1)
	assert.Equal(t, "a.py", deps[0].SourceFile)

	missing := g.OutgoingEdges("a.py")[1]
	assert.Equal(t, ImportMissing, missing.Kind)
	assert.NotEmpty(t, missing.TriedPaths)
}

func TestImportGraph_TransitiveDependents(t *testing.T) {
	g := NewImportGraph()
	// c.py <- b.py <- a.py (a imports b, b imports c)
	g.AddEdge(ImportEdge{SourceFile: "a.py", Target: "b.py", Kind: ImportResolvedFile})
	g.AddEdge(ImportEdge{SourceFile: "b.py", Target: "c.py", Kind: ImportResolvedFile})

	dependents := g.TransitiveDependents("c.py")
	assert.ElementsMatch(t, []string{"b.py", "a.py"}, dependents)
}

func TestImportGraph_TransitiveDependencies(t *testing.T) {
	g := NewImportGraph()
	g.AddEdge(ImportEdge{SourceFile: "a.py", Target: "b.py", Kind: ImportResolvedFile})
	g.AddEdge(ImportEdge{SourceFile: "b.py", Target: "c.py", Kind: ImportResolvedFile})
	g.AddEdge(ImportEdge{SourceFile: "a.py", Target: "external_pkg", Kind: ImportExternal})

	deps := g.TransitiveDependencies("a.py")
	assert.ElementsMatch(t, []string{"b.py", "c.py"}, deps)
}

func TestImportGraph_TransitiveDependents_NoCycleInfiniteLoop(t *testing.T) {
	g := NewImportGraph()
	g.AddEdge(ImportEdge{SourceFile: "a.py", Target: "b.py", Kind: ImportResolvedFile})
	g.AddEdge(ImportEdge{SourceFile: "b.py", Target: "a.py", Kind: ImportResolvedFile})

	dependents := g.TransitiveDependents("a.py")
	assert.ElementsMatch(t, []string{"b.py"}, dependents)
}
