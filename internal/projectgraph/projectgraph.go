// Package projectgraph assembles the cross-file structures a tier-2 rule
// needs: the resolved import graph and the project-wide symbol index,
// parsing each file once (§4.4). Grounded on the teacher's single-pass
// extraction loop (engine.go's indexFile/IndexFiles in mvp-joe-canopy),
// adapted from "write rows to SQLite" to "accumulate in-memory graphs" since
// the spec's ProjectGraph is immutable, run-scoped data, not a persisted
// store.
package projectgraph

import "github.com/arnavsurve/polyglint/internal/projectindex"

// ProjectGraph bundles the ImportResolver, ImportGraph, and SymbolIndex for
// one analysis run. It is immutable to rules once built.
type ProjectGraph struct {
	Resolver    *ImportResolver
	ImportGraph *projectindex.ImportGraph
	SymbolIndex *projectindex.SymbolIndex
}
