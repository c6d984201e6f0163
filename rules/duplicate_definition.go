package rules

import (
	"bytes"
	"context"
	"fmt"

	"github.com/arnavsurve/polyglint"
	"github.com/arnavsurve/polyglint/internal/scopegraph"
)

// duplicateEligible restricts the duplicate check to name bindings where a
// second definition is actually suspicious — not every SymbolKind (params
// shadowing an outer local is normal; two functions with the same name in
// the same scope is not).
var duplicateEligible = map[string]bool{
	"function": true,
	"class":    true,
	"type":     true,
	"method":   true,
}

// DuplicateDefinition flags a second same-named, same-kind definition
// within one scope, reporting both the duplicate and the original it
// collides with.
var DuplicateDefinition = polyglint.NewRuleFunc(
	polyglint.RuleMeta{
		ID:            "ident.duplicate_definition",
		Category:      "ident",
		Tier:          polyglint.TierScopes,
		Priority:      polyglint.PriorityP0,
		AutofixSafety: polyglint.AutofixSuggestOnly,
		Description:   "two definitions of the same name in the same scope",
		Langs:         map[string]bool{"go": true, "python": true, "javascript": true, "typescript": true},
	},
	polyglint.Requires{Syntax: true, Scopes: true},
	visitDuplicateDefinition,
)

func visitDuplicateDefinition(_ context.Context, rctx *polyglint.RuleContext) ([]polyglint.Finding, error) {
	var out []polyglint.Finding
	for _, scope := range rctx.Scopes.Scopes() {
		seen := map[string]scopegraph.Symbol{}
		// SymbolsInScope preserves the adapter's enumeration order, which
		// for every built-in adapter is source order, so "seen" always
		// holds the first occurrence when a second is found.
		for _, sym := range rctx.Scopes.SymbolsInScope(scope.ID) {
			if !duplicateEligible[sym.Kind] {
				continue
			}
			first, dup := seen[sym.Name]
			if !dup {
				seen[sym.Name] = sym
				continue
			}
			firstLine := lineOf(rctx.Text, first.Start)
			dupLine := lineOf(rctx.Text, sym.Start)
			out = append(out, polyglint.Finding{
				RuleID:   "ident.duplicate_definition",
				Message:  fmt.Sprintf("%q redefined at line %d; first defined at line %d", sym.Name, dupLine, firstLine),
				FilePath: rctx.FilePath,
				Span:     polyglint.Span{Start: sym.Start, End: sym.End},
				Severity: polyglint.SeverityError,
				Meta:     map[string]any{"first_line": firstLine, "duplicate_line": dupLine},
			})
			out = append(out, polyglint.Finding{
				RuleID:   "ident.duplicate_definition",
				Message:  fmt.Sprintf("%q first defined here; redefined at line %d", sym.Name, dupLine),
				FilePath: rctx.FilePath,
				Span:     polyglint.Span{Start: first.Start, End: first.End},
				Severity: polyglint.SeverityError,
				Meta:     map[string]any{"first_line": firstLine, "duplicate_line": dupLine},
			})
		}
	}
	return out, nil
}

// lineOf returns the 1-based line number containing byte offset b.
func lineOf(text []byte, b int) int {
	if b > len(text) {
		b = len(text)
	}
	return 1 + bytes.Count(text[:b], []byte("\n"))
}
