package golang

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavsurve/polyglint/adapter"
)

// loadFixture reads one of the checked-in real-world Go source samples
// under testdata/go, used to exercise the adapter against code shaped like
// what a user's repository would actually contain.
func loadFixture(t *testing.T, rel string) []byte {
	t.Helper()
	text, err := os.ReadFile(filepath.Join("..", "..", "testdata", "go", rel))
	require.NoError(t, err)
	return text
}

func TestAdapter_ParsesFunctionsAndImports(t *testing.T) {
	src := []byte(`package main

import "fmt"

func greet(name string) string {
	return "hi " + name
}
`)
	a := New()
	tree, err := a.Parse(src)
	require.NoError(t, err)

	syms, err := a.IterSymbolDefs(tree)
	require.NoError(t, err)

	var names []string
	for _, s := range syms {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "greet")
	assert.Contains(t, names, "name")
	assert.Contains(t, names, "fmt")

	imports, err := a.IterImports(tree)
	require.NoError(t, err)
	require.Len(t, imports, 1)
	assert.Equal(t, "fmt", imports[0].Module)
}

func TestAdapter_ScopesNestFunctionUnderModule(t *testing.T) {
	src := []byte(`package main

func outer() {
	x := 1
	_ = x
}
`)
	a := New()
	tree, err := a.Parse(src)
	require.NoError(t, err)

	scopes, err := a.IterScopeNodes(tree)
	require.NoError(t, err)
	require.Len(t, scopes, 2)
	assert.Equal(t, adapter.ScopeModule, scopes[0].Kind)
	assert.False(t, scopes[0].HasParent)
	assert.Equal(t, adapter.ScopeFunction, scopes[1].Kind)
	assert.True(t, scopes[1].HasParent)
	assert.Equal(t, scopes[0].ID, scopes[1].ParentID)
}

func TestAdapter_IdentifierRefsExcludeDefiningOccurrence(t *testing.T) {
	src := []byte(`package main

func f() {
	x := 1
	y := x
	_ = y
}
`)
	a := New()
	tree, err := a.Parse(src)
	require.NoError(t, err)

	refs, err := a.IterIdentifierRefs(tree)
	require.NoError(t, err)

	var xRefs int
	for _, r := range refs {
		if r.Name == "x" {
			xRefs++
		}
	}
	assert.Equal(t, 1, xRefs, "the defining occurrence of x must not also be reported as a ref")
}

func TestAdapter_StructFieldsAreSymbols(t *testing.T) {
	src := []byte(`package main

type Point struct {
	X int
	Y int
}
`)
	a := New()
	tree, err := a.Parse(src)
	require.NoError(t, err)

	syms, err := a.IterSymbolDefs(tree)
	require.NoError(t, err)

	var fieldNames []string
	for _, s := range syms {
		if s.Kind == adapter.SymbolField {
			fieldNames = append(fieldNames, s.Name)
		}
	}
	assert.ElementsMatch(t, []string{"X", "Y"}, fieldNames)
}

func TestAdapter_EmbeddedStructFieldHasNoFieldName(t *testing.T) {
	src := loadFixture(t, "level-05-embedding/src/embed.go")
	a := New()
	tree, err := a.Parse(src)
	require.NoError(t, err)

	syms, err := a.IterSymbolDefs(tree)
	require.NoError(t, err)

	var fields []string
	var types []string
	for _, s := range syms {
		switch s.Kind {
		case adapter.SymbolField:
			fields = append(fields, s.Name)
		case adapter.SymbolType:
			types = append(types, s.Name)
		}
	}
	// embed.go's embedded MyReader field has no explicit name in the
	// grammar's field_declaration (no "name" field), so only the named
	// Tag/Name fields are picked up; embedding itself is still visible
	// through MyReadWriter's declared type.
	assert.Contains(t, fields, "Tag")
	assert.Contains(t, fields, "Name")
	assert.ElementsMatch(t, []string{"Reader", "Writer", "ReadWriter", "MyReader", "MyReadWriter"}, types)
}

func TestAdapter_GenericFunctionParamsAreSymbols(t *testing.T) {
	src := loadFixture(t, "level-06-generics/src/generics.go")
	a := New()
	tree, err := a.Parse(src)
	require.NoError(t, err)

	syms, err := a.IterSymbolDefs(tree)
	require.NoError(t, err)

	var names []string
	for _, s := range syms {
		if s.Kind == adapter.SymbolFunction || s.Kind == adapter.SymbolParam {
			names = append(names, s.Name)
		}
	}
	assert.Contains(t, names, "NewPair")
	assert.Contains(t, names, "Map")
	assert.Contains(t, names, "items")
	assert.Contains(t, names, "fn")
}

func TestAdapter_Capabilities(t *testing.T) {
	a := New()
	assert.Equal(t, "go", a.LanguageID())
	caps := a.Capabilities()
	assert.True(t, caps.Scopes)
	assert.True(t, caps.Symbols)
	assert.True(t, caps.Refs)
	assert.True(t, caps.Imports)
}
