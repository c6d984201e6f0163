package scopegraph

import "github.com/arnavsurve/polyglint/adapter"

// Build transforms an adapter's raw scope/symbol/ref descriptors into a
// ScopeGraph, per §4.2. It pulls all three sequences to completion,
// instantiates Scope/Symbol/Ref records, and builds the four indexes
// (by-scope for symbols, by-scope for refs, by-parent for children, by-id
// for scopes). If any scope's ParentID references an unknown scope, it is
// treated as root — no implicit cycle is created.
//
// If the adapter cannot supply scope data (Capabilities().Scopes is
// false), Build returns an empty, non-nil ScopeGraph rather than an error.
func Build(a adapter.Adapter, t adapter.Tree) (*ScopeGraph, error) {
	g := New()

	caps := a.Capabilities()
	if !caps.Scopes {
		return g, nil
	}

	scopeDescs, err := a.IterScopeNodes(t)
	if err != nil {
		return nil, err
	}

	// First pass: instantiate scopes and the by-id index, without
	// resolving ParentID yet (a scope may be declared before its parent
	// in adapter enumeration order).
	knownIDs := make(map[int]bool, len(scopeDescs))
	for _, d := range scopeDescs {
		knownIDs[d.ID] = true
	}
	for _, d := range scopeDescs {
		hasParent := d.HasParent && knownIDs[d.ParentID]
		g.scopes = append(g.scopes, Scope{
			ID:        d.ID,
			Kind:      string(d.Kind),
			ParentID:  d.ParentID,
			HasParent: hasParent,
		})
		g.byID[d.ID] = len(g.scopes) - 1
	}
	for idx, s := range g.scopes {
		if s.HasParent {
			g.childrenOf[s.ParentID] = append(g.childrenOf[s.ParentID], s.ID)
		}
		_ = idx
	}

	if caps.Symbols {
		symDescs, err := a.IterSymbolDefs(t)
		if err != nil {
			return nil, err
		}
		for _, d := range symDescs {
			scopeID := d.ScopeID
			if !d.HasScope || !knownIDs[scopeID] {
				scopeID = rootScopeID(scopeDescs)
			}
			sym := Symbol{
				ID:      len(g.symbols),
				Name:    d.Name,
				Kind:    string(d.Kind),
				ScopeID: scopeID,
				Start:   d.Start,
				End:     d.End,
				Meta:    d.Meta,
			}
			g.symbols = append(g.symbols, sym)
			g.symbolsByScope[scopeID] = append(g.symbolsByScope[scopeID], sym.ID)
		}
	}

	if caps.Refs {
		refDescs, err := a.IterIdentifierRefs(t)
		if err != nil {
			return nil, err
		}
		for _, d := range refDescs {
			scopeID := d.ScopeID
			if !d.HasScope || !knownIDs[scopeID] {
				scopeID = rootScopeID(scopeDescs)
			}
			ref := Ref{
				ID:      len(g.refs),
				Name:    d.Name,
				ScopeID: scopeID,
				Byte:    d.Byte,
				Meta:    d.Meta,
			}
			g.refs = append(g.refs, ref)
			g.refsByScope[scopeID] = append(g.refsByScope[scopeID], ref.ID)
		}
	}

	return g, nil
}

// rootScopeID returns the id of the first scope with no parent, used as a
// fallback home for symbols/refs whose adapter-reported scope is missing or
// unknown. If no root is declared, falls back to the first scope's id, or
// 0 if there are no scopes at all (an empty graph).
func rootScopeID(descs []adapter.ScopeNodeDesc) int {
	for _, d := range descs {
		if !d.HasParent {
			return d.ID
		}
	}
	if len(descs) > 0 {
		return descs[0].ID
	}
	return 0
}
