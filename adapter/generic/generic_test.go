package generic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavsurve/polyglint/adapter"
)

func registerAndGet(t *testing.T, lang string) adapter.Adapter {
	t.Helper()
	r := adapter.NewRegistry()
	Register(r)
	a, ok := r.Get(lang)
	require.True(t, ok)
	return a
}

func TestAdapter_Capabilities_NoScopesOrRefs(t *testing.T) {
	a := registerAndGet(t, "rust")
	caps := a.Capabilities()
	assert.False(t, caps.Scopes)
	assert.True(t, caps.Symbols)
	assert.False(t, caps.Refs)
	assert.True(t, caps.Imports)

	tree, err := a.Parse([]byte("fn main() {}\n"))
	require.NoError(t, err)
	scopes, err := a.IterScopeNodes(tree)
	require.NoError(t, err)
	assert.Empty(t, scopes)
	refs, err := a.IterIdentifierRefs(tree)
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestAdapter_Rust_FunctionAndUseDeclaration(t *testing.T) {
	a := registerAndGet(t, "rust")
	src := []byte(`use std::collections::HashMap;

fn add(a: i32, b: i32) -> i32 {
    a + b
}
`)
	tree, err := a.Parse(src)
	require.NoError(t, err)

	syms, err := a.IterSymbolDefs(tree)
	require.NoError(t, err)
	require.Len(t, syms, 1)
	assert.Equal(t, "add", syms[0].Name)
	assert.Equal(t, adapter.SymbolFunction, syms[0].Kind)

	imports, err := a.IterImports(tree)
	require.NoError(t, err)
	require.Len(t, imports, 1)
	assert.Equal(t, "std::collections::HashMap", imports[0].Module)
}

func TestAdapter_C_StructAndInclude(t *testing.T) {
	a := registerAndGet(t, "c")
	src := []byte(`#include <stdio.h>

struct point {
	int x;
	int y;
};
`)
	tree, err := a.Parse(src)
	require.NoError(t, err)

	syms, err := a.IterSymbolDefs(tree)
	require.NoError(t, err)
	require.Len(t, syms, 1)
	assert.Equal(t, "point", syms[0].Name)

	imports, err := a.IterImports(tree)
	require.NoError(t, err)
	require.Len(t, imports, 1)
	assert.Equal(t, "stdio.h", imports[0].Module)
}

func TestAdapter_Ruby_RequireIsFilteredFromOtherCalls(t *testing.T) {
	a := registerAndGet(t, "ruby")
	src := []byte(`require "json"
require_relative "./helper"

puts "hi"
`)
	tree, err := a.Parse(src)
	require.NoError(t, err)

	imports, err := a.IterImports(tree)
	require.NoError(t, err)
	require.Len(t, imports, 2)

	var modules []string
	for _, im := range imports {
		modules = append(modules, im.Module)
	}
	assert.Contains(t, modules, "json")
	assert.Contains(t, modules, "./helper")
}

func TestRegister_InstallsAllSixLanguages(t *testing.T) {
	r := adapter.NewRegistry()
	Register(r)
	for _, lang := range []string{"c", "cpp", "java", "php", "ruby", "rust"} {
		_, ok := r.Get(lang)
		assert.True(t, ok, "expected %s to be registered", lang)
	}
}
