package python

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavsurve/polyglint/adapter"
)

func TestAdapter_ClassMethodsScopeUnderClass(t *testing.T) {
	src := []byte(`class Greeter:
    def greet(self, name):
        return "hi " + name
`)
	a := New()
	tree, err := a.Parse(src)
	require.NoError(t, err)

	scopes, err := a.IterScopeNodes(tree)
	require.NoError(t, err)
	require.Len(t, scopes, 3)
	assert.Equal(t, adapter.ScopeModule, scopes[0].Kind)
	assert.Equal(t, adapter.ScopeClass, scopes[1].Kind)
	assert.Equal(t, adapter.ScopeMethod, scopes[2].Kind)
	assert.Equal(t, scopes[1].ID, scopes[2].ParentID)

	syms, err := a.IterSymbolDefs(tree)
	require.NoError(t, err)
	var greeter, greet bool
	for _, s := range syms {
		if s.Name == "Greeter" && s.Kind == adapter.SymbolClass {
			greeter = true
		}
		if s.Name == "greet" && s.Kind == adapter.SymbolMethod {
			greet = true
		}
	}
	assert.True(t, greeter)
	assert.True(t, greet)
}

func TestAdapter_WildcardImportRecordsStarName(t *testing.T) {
	src := []byte("from os import *\n")
	a := New()
	tree, err := a.Parse(src)
	require.NoError(t, err)

	imports, err := a.IterImports(tree)
	require.NoError(t, err)
	require.Len(t, imports, 1)
	assert.Equal(t, "os", imports[0].Module)
	assert.Equal(t, []string{"*"}, imports[0].Names)
}

func TestAdapter_AliasedImportCarriesAlias(t *testing.T) {
	src := []byte("import numpy as np\n")
	a := New()
	tree, err := a.Parse(src)
	require.NoError(t, err)

	imports, err := a.IterImports(tree)
	require.NoError(t, err)
	require.Len(t, imports, 1)
	assert.Equal(t, "numpy", imports[0].Module)
	assert.Equal(t, []string{"np"}, imports[0].Names)
}

func TestAdapter_DottedImportJoinsSegments(t *testing.T) {
	src := []byte("import os.path\n")
	a := New()
	tree, err := a.Parse(src)
	require.NoError(t, err)

	imports, err := a.IterImports(tree)
	require.NoError(t, err)
	require.Len(t, imports, 1)
	assert.Equal(t, "os.path", imports[0].Module)
}
