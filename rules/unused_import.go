// Package rules holds the built-in example rules: one per scenario the
// engine's properties are checked against, registered together via RULES.
package rules

import (
	"context"

	"github.com/arnavsurve/polyglint"
	"github.com/arnavsurve/polyglint/internal/scopegraph"
)

// UnusedImport flags a module-scope import symbol with no resolving Ref
// anywhere in the file, and proposes deleting its whole source line.
var UnusedImport = polyglint.NewRuleFunc(
	polyglint.RuleMeta{
		ID:            "imports.unused",
		Category:      "imports",
		Tier:          polyglint.TierScopes,
		Priority:      polyglint.PriorityP1,
		AutofixSafety: polyglint.AutofixSafe,
		Description:   "an imported name that no identifier in the file resolves to",
		Langs:         map[string]bool{"go": true, "python": true, "javascript": true, "typescript": true},
	},
	polyglint.Requires{Syntax: true, Scopes: true},
	visitUnusedImport,
)

func visitUnusedImport(_ context.Context, rctx *polyglint.RuleContext) ([]polyglint.Finding, error) {
	var out []polyglint.Finding
	for _, sym := range rctx.Scopes.Symbols() {
		if sym.Kind != "import" {
			continue
		}
		if len(rctx.Scopes.RefsTo(sym)) > 0 {
			continue
		}
		start, end := lineSpanFor(sym, rctx.Text)
		out = append(out, polyglint.Finding{
			RuleID:   "imports.unused",
			Message:  "import \"" + sym.Name + "\" is unused",
			FilePath: rctx.FilePath,
			Span:     polyglint.Span{Start: sym.Start, End: sym.End},
			Severity: polyglint.SeverityInfo,
			Autofix: []polyglint.Edit{
				{Start: start, End: end, Replacement: ""},
			},
			Meta: map[string]any{"symbol": sym.Name},
		})
	}
	return out, nil
}

// lineSpanFor returns the byte range of the whole source line(s) a symbol's
// defining statement occupies, including a single trailing newline if one
// follows, so deleting it collapses the line rather than leaving a blank
// one. Falls back to the symbol's own span if its adapter didn't record a
// wider statement span in Meta.
func lineSpanFor(sym scopegraph.Symbol, text []byte) (int, int) {
	start, end := sym.Start, sym.End
	if sym.Meta != nil {
		if s, ok := sym.Meta["stmt_start"].(int); ok {
			start = s
		}
		if e, ok := sym.Meta["stmt_end"].(int); ok {
			end = e
		}
	}

	for start > 0 && text[start-1] != '\n' {
		start--
	}
	if end < len(text) && text[end] == '\n' {
		end++
	}
	return start, end
}
