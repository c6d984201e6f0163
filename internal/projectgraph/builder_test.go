package projectgraph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavsurve/polyglint/adapter"
)

// fakeTree/fakeAdapter mirror the fixture pattern used by
// internal/scopegraph's tests: hand-built descriptor sequences standing in
// for a real tree-sitter grammar, so Build's visibility/resolution logic is
// tested independently of any one adapter's parsing.
type fakeTree struct{}

func (fakeTree) Root() adapter.Node { return nil }

type fakeAdapter struct {
	lang    string
	caps    adapter.Capabilities
	symbols []adapter.SymbolDefDesc
	imports []adapter.ImportDescriptor
	parseErr error
}

func (a *fakeAdapter) LanguageID() string                 { return a.lang }
func (a *fakeAdapter) Capabilities() adapter.Capabilities { return a.caps }
func (a *fakeAdapter) Parse(text []byte) (adapter.Tree, error) {
	if a.parseErr != nil {
		return nil, a.parseErr
	}
	return fakeTree{}, nil
}
func (a *fakeAdapter) NodeSpan(n adapter.Node) (int, int)      { return 0, 0 }
func (a *fakeAdapter) IterScopeNodes(t adapter.Tree) ([]adapter.ScopeNodeDesc, error) {
	return []adapter.ScopeNodeDesc{{ID: 0, Kind: adapter.ScopeModule, HasParent: false}}, nil
}
func (a *fakeAdapter) IterSymbolDefs(t adapter.Tree) ([]adapter.SymbolDefDesc, error) {
	return a.symbols, nil
}
func (a *fakeAdapter) IterIdentifierRefs(t adapter.Tree) ([]adapter.RefDesc, error) { return nil, nil }
func (a *fakeAdapter) IterImports(t adapter.Tree) ([]adapter.ImportDescriptor, error) {
	return a.imports, nil
}

func TestBuild_TopLevelSymbolsAndPythonVisibility(t *testing.T) {
	a := &fakeAdapter{
		lang: "python",
		caps: adapter.Capabilities{Scopes: true, Symbols: true},
		symbols: []adapter.SymbolDefDesc{
			{Name: "PublicThing", Kind: adapter.SymbolClass, ScopeID: 0, HasScope: true},
			{Name: "_private_helper", Kind: adapter.SymbolFunction, ScopeID: 0, HasScope: true},
			{Name: "local_var", Kind: adapter.SymbolLocal, ScopeID: 0, HasScope: true}, // not a top-level kind
		},
	}
	adapters := adapter.NewRegistry()
	adapters.Register("python", a, ".py")

	files := []FileInput{{Path: "m.py", Language: "python", Text: []byte("")}}
	pg, failures := Build(files, adapters, nil)
	require.Empty(t, failures)

	names := make([]string, 0)
	for _, s := range pg.SymbolIndex.All() {
		names = append(names, s.Name)
	}
	assert.ElementsMatch(t, []string{"PublicThing"}, names)
}

func TestBuild_GoLowercaseIsPrivate(t *testing.T) {
	a := &fakeAdapter{
		lang: "go",
		caps: adapter.Capabilities{Scopes: true, Symbols: true},
		symbols: []adapter.SymbolDefDesc{
			{Name: "Exported", Kind: adapter.SymbolFunction, ScopeID: 0, HasScope: true},
			{Name: "unexported", Kind: adapter.SymbolFunction, ScopeID: 0, HasScope: true},
		},
	}
	adapters := adapter.NewRegistry()
	adapters.Register("go", a, ".go")

	files := []FileInput{{Path: "m.go", Language: "go", Text: []byte("")}}
	pg, _ := Build(files, adapters, nil)

	names := make([]string, 0)
	for _, s := range pg.SymbolIndex.All() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Exported"}, names)
}

func TestBuild_ResolvesImportsViaResolver(t *testing.T) {
	srcAdapter := &fakeAdapter{
		lang: "python",
		caps: adapter.Capabilities{Scopes: true, Symbols: true, Imports: true},
		imports: []adapter.ImportDescriptor{
			{Module: "nowhere", Level: 0, Start: 0, End: 10},
		},
	}
	adapters := adapter.NewRegistry()
	adapters.Register("python", srcAdapter, ".py")

	files := []FileInput{{Path: "c.py", Language: "python", Text: []byte("")}}
	pg, _ := Build(files, adapters, nil)

	edges := pg.ImportGraph.OutgoingEdges("c.py")
	require.Len(t, edges, 1)
	assert.Equal(t, "missing", string(edges[0].Kind))
	assert.NotEmpty(t, edges[0].TriedPaths)
}

func TestBuild_SkipsParseFailuresWithoutAbortingOtherFiles(t *testing.T) {
	adapters := adapter.NewRegistry()
	adapters.Register("python", &fakeAdapter{
		lang: "python",
		caps: adapter.Capabilities{Scopes: true, Symbols: true},
		symbols: []adapter.SymbolDefDesc{
			{Name: "Kept", Kind: adapter.SymbolFunction, ScopeID: 0, HasScope: true},
		},
	}, ".py")
	adapters.Register("broken", &fakeAdapter{lang: "broken", parseErr: errors.New("invalid syntax")}, ".broken")

	files := []FileInput{
		{Path: "bad.broken", Language: "broken", Text: []byte("")},
		{Path: "ok.py", Language: "python", Text: []byte("")},
	}
	pg, failures := Build(files, adapters, nil)
	require.Len(t, failures, 1)
	assert.Equal(t, "bad.broken", failures[0].Path)
	assert.NotNil(t, pg)
	assert.Len(t, pg.SymbolIndex.FindByName("Kept"), 1)
}
