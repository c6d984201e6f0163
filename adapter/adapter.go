// Package adapter defines the uniform per-language view the rule engine
// builds scopes, symbol indexes, and project graphs on top of. Concrete
// adapters (adapter/golang, adapter/python, adapter/tsx, adapter/generic)
// implement it against a real tree-sitter grammar; the interface itself
// makes no assumption about which parser backs a given language.
package adapter

import "fmt"

// Tree is an opaque parsed syntax tree handle. Its concrete type is chosen
// by the Adapter that produced it; callers never inspect it directly, only
// pass it back to the same Adapter's other methods.
type Tree interface {
	// Root returns an opaque root node handle, for adapters that expose
	// node-level access beyond the iterator methods below (e.g. node span
	// queries driven by a rule that walks the tree itself).
	Root() Node
}

// Node is an opaque syntax node handle.
type Node interface {
	Kind() string
}

// ParseError indicates an adapter could not parse a file's text.
type ParseError struct {
	Lang string
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("adapter: parse %s as %s: %s", e.Path, e.Lang, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ScopeNodeDesc is one scope boundary yielded by IterScopeNodes.
type ScopeNodeDesc struct {
	ID       int
	Kind     ScopeKind
	ParentID int  // meaningful only if HasParent
	HasParent bool
}

// ScopeKind is the kind of namespace boundary a Scope represents.
type ScopeKind string

const (
	ScopeModule        ScopeKind = "module"
	ScopeFunction       ScopeKind = "function"
	ScopeClass          ScopeKind = "class"
	ScopeMethod         ScopeKind = "method"
	ScopeBlock          ScopeKind = "block"
	ScopeComprehension  ScopeKind = "comprehension"
	ScopeExcept         ScopeKind = "except"
)

// SymbolDefDesc is one identifier-binding site yielded by IterSymbolDefs.
type SymbolDefDesc struct {
	Name       string
	Kind       SymbolKind
	ScopeID    int
	HasScope   bool
	Start, End int
	Meta       map[string]any
}

// SymbolKind is the kind of name binding a Symbol represents.
type SymbolKind string

const (
	SymbolImport   SymbolKind = "import"
	SymbolParam    SymbolKind = "param"
	SymbolLocal    SymbolKind = "local"
	SymbolFunction SymbolKind = "function"
	SymbolClass    SymbolKind = "class"
	SymbolField    SymbolKind = "field"
	SymbolConst    SymbolKind = "const"
	SymbolMethod   SymbolKind = "method"
	SymbolType     SymbolKind = "type"
)

// RefDesc is one use-site yielded by IterIdentifierRefs.
type RefDesc struct {
	Name     string
	ScopeID  int
	HasScope bool
	Byte     int
	Meta     map[string]any
}

// ImportDescriptor is one import statement yielded by IterImports. Level is
// the number of leading relative path levels (0 for an absolute import).
type ImportDescriptor struct {
	Module string
	Level  int
	Names  []string // imported member names; empty for whole-module imports
	Start  int
	End    int
}

// Capabilities reports which of the optional operations an Adapter
// implements. An Adapter that returns false for a capability must return
// (nil, nil) from the corresponding Iter* method rather than an error —
// absence of support is not failure, and the engine degrades gracefully
// (rules requiring that capability are skipped for files of this
// language), per §4.1.
type Capabilities struct {
	Scopes  bool
	Symbols bool
	Refs    bool
	Imports bool
}

// Adapter presents a uniform view of one file in one language. Adapters
// must be deterministic: repeated calls against the same Tree yield the
// same sequences.
type Adapter interface {
	LanguageID() string
	Capabilities() Capabilities

	Parse(text []byte) (Tree, error)
	NodeSpan(n Node) (start, end int)

	IterScopeNodes(t Tree) ([]ScopeNodeDesc, error)
	IterSymbolDefs(t Tree) ([]SymbolDefDesc, error)
	IterIdentifierRefs(t Tree) ([]RefDesc, error)
	IterImports(t Tree) ([]ImportDescriptor, error)
}
