package rules

import (
	"context"
	"fmt"

	"github.com/arnavsurve/polyglint"
	"github.com/arnavsurve/polyglint/internal/projectindex"
)

// MissingImportTarget flags an import whose target could not be resolved
// to a project file, a recognized package, or a known external namespace.
// It is a project-graph (tier 2) rule: resolution happens once, up front,
// in the Project Graph Builder, over every file in the run; this rule only
// re-reads the current file's own import list (deterministic and in the
// same order the builder walked it) to recover the per-import span the
// ImportGraph itself does not carry.
var MissingImportTarget = polyglint.NewRuleFunc(
	polyglint.RuleMeta{
		ID:            "imports.missing_file_target",
		Category:      "imports",
		Tier:          polyglint.TierProjectGraph,
		Priority:      polyglint.PriorityP0,
		AutofixSafety: polyglint.AutofixSuggestOnly,
		Description:   "an import whose target does not resolve to a project file, package, or known external namespace",
		Langs:         map[string]bool{"go": true, "python": true, "javascript": true, "typescript": true},
	},
	polyglint.Requires{Syntax: true, Scopes: true, ProjectGraph: true},
	visitMissingImportTarget,
)

func visitMissingImportTarget(_ context.Context, rctx *polyglint.RuleContext) ([]polyglint.Finding, error) {
	if !rctx.Adapter.Capabilities().Imports {
		return nil, nil
	}
	descs, err := rctx.Adapter.IterImports(rctx.Tree)
	if err != nil || len(descs) == 0 {
		return nil, nil
	}
	edges := rctx.ProjectGraph.ImportGraph.OutgoingEdges(rctx.FilePath)
	if len(edges) != len(descs) {
		// The builder and this rule walked the same file's imports but
		// disagree on count: the adapter isn't deterministic as §4.1
		// requires, or the file changed between the project-graph build
		// and rule execution. Either way, pairing by index is unsound, so
		// skip rather than guess.
		return nil, nil
	}

	var out []polyglint.Finding
	for i, d := range descs {
		edge := edges[i]
		if edge.Kind != projectindex.ImportMissing {
			continue
		}
		out = append(out, polyglint.Finding{
			RuleID:   "imports.missing_file_target",
			Message:  fmt.Sprintf("import %q does not resolve to a project file, package, or known external module", d.Module),
			FilePath: rctx.FilePath,
			Span:     polyglint.Span{Start: d.Start, End: d.End},
			Severity: polyglint.SeverityError,
			Meta:     map[string]any{"tried_paths": edge.TriedPaths, "module": d.Module},
		})
	}
	return out, nil
}
